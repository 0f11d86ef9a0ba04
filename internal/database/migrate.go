package database

import (
	"github.com/foodgram/backend/internal/models"
	"gorm.io/gorm"
)

// Migrate brings the schema up to date for every model the application
// owns. Uniqueness of (user, recipe) pairs and of (recipe, ingredient)
// lines lives in the indexes declared on the models; the services rely
// on those constraints as the authority for duplicate prevention.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Subscription{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.Favorite{},
		&models.ShoppingCartEntry{},
	)
}
