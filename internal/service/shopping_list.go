package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

// ShoppingListRow is one aggregated ingredient of a user's cart
type ShoppingListRow struct {
	IngredientID    uuid.UUID
	Name            string
	MeasurementUnit string
	TotalAmount     int
}

// ShoppingListService aggregates the ingredient lines of every recipe in
// a user's shopping cart and renders the downloadable list.
type ShoppingListService struct {
	db *gorm.DB
}

// NewShoppingListService creates a new ShoppingListService instance
func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db}
}

// BuildShoppingList sums ingredient amounts across all recipes in the
// user's cart, grouped by ingredient identity. Two ingredients sharing a
// name are never merged; name order within the result is not defined.
func (s *ShoppingListService) BuildShoppingList(ctx context.Context, userID uuid.UUID) ([]ShoppingListRow, error) {
	var rows []ShoppingListRow
	err := s.db.WithContext(ctx).
		Table("recipe_ingredients").
		Select("ingredients.id AS ingredient_id, ingredients.name, ingredients.measurement_unit, SUM(recipe_ingredients.amount) AS total_amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_cart_entries ON shopping_cart_entries.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_cart_entries.user_id = ?", userID).
		Group("ingredients.id, ingredients.name, ingredients.measurement_unit").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

var titleCaser = cases.Title(language.Und)

// RenderShoppingList formats the rows as the plain-text attachment body.
// Title casing of names is cosmetic; the grouping key stays the
// ingredient id.
func (s *ShoppingListService) RenderShoppingList(rows []ShoppingListRow) string {
	var b strings.Builder
	b.WriteString("Список покупок \n")
	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = fmt.Sprintf(" - %s (%s) -> %d ",
			titleCaser.String(row.Name), row.MeasurementUnit, row.TotalAmount)
	}
	b.WriteString(strings.Join(lines, "\n"))
	return b.String()
}
