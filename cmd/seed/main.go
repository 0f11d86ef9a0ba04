package main

import (
	"encoding/csv"
	"flag"
	"io"
	"log"
	"os"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Seeds the ingredient and tag reference data. Ingredients come from a
// CSV of "name,measurement unit" rows; tags are a small fixed set.
func main() {
	ingredientsPath := flag.String("ingredients", "data/ingredients.csv", "path to the ingredients CSV")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	if err := seedIngredients(db, *ingredientsPath); err != nil {
		log.Fatalf("Failed to seed ingredients: %v", err)
	}
	if err := seedTags(db); err != nil {
		log.Fatalf("Failed to seed tags: %v", err)
	}
	log.Println("Seeding complete")
}

func seedIngredients(db *gorm.DB, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	count := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if len(row) < 2 {
			continue
		}

		var existing models.Ingredient
		err = db.Where("name = ? AND measurement_unit = ?", row[0], row[1]).First(&existing).Error
		if err == nil {
			continue
		}
		if err := db.Create(&models.Ingredient{Name: row[0], MeasurementUnit: row[1]}).Error; err != nil {
			return err
		}
		count++
	}
	log.Printf("Imported %d ingredients", count)
	return nil
}

func seedTags(db *gorm.DB) error {
	tags := []models.Tag{
		{Name: "Завтрак", Color: "#E26C2D", Slug: "breakfast"},
		{Name: "Обед", Color: "#49B64E", Slug: "lunch"},
		{Name: "Ужин", Color: "#8775D2", Slug: "dinner"},
	}
	for i := range tags {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&tags[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
