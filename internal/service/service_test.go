package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

var fixtureSeq int

func createTestUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	fixtureSeq++
	user := models.User{
		Email:        fmt.Sprintf("user%d@example.com", fixtureSeq),
		Username:     fmt.Sprintf("user%d", fixtureSeq),
		FirstName:    "Иван",
		LastName:     "Иванов",
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createTestTag(t *testing.T, db *gorm.DB, slug string) models.Tag {
	t.Helper()
	fixtureSeq++
	tag := models.Tag{
		Name:  fmt.Sprintf("tag-%s-%d", slug, fixtureSeq),
		Color: fmt.Sprintf("#%06x", fixtureSeq),
		Slug:  slug,
	}
	require.NoError(t, db.Create(&tag).Error)
	return tag
}

func createTestIngredient(t *testing.T, db *gorm.DB, name, unit string) models.Ingredient {
	t.Helper()
	ingredient := models.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(&ingredient).Error)
	return ingredient
}
