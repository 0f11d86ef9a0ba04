package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
)

// IngredientAmount is one proposed (ingredient, amount) entry of a
// recipe payload.
type IngredientAmount struct {
	ID     uuid.UUID `json:"id"`
	Amount int       `json:"amount"`
}

// RecipePayload carries the writable fields of a recipe. Image is a
// storage reference; base64 decoding happens in the image service before
// the payload reaches this layer.
type RecipePayload struct {
	Name        string
	Text        string
	Image       string
	CookingTime int
	TagIDs      []uuid.UUID
	Ingredients []IngredientAmount
}

// RecipeFilter holds the optional, conjunctive listing predicates.
// Nil/empty fields impose no constraint. The viewer-bound predicates are
// ignored when the viewer is anonymous.
type RecipeFilter struct {
	Author           *uuid.UUID
	TagSlugs         []string
	IsFavorited      bool
	IsInShoppingCart bool
}

// RecipeService handles recipe validation, mutation and listing
type RecipeService struct {
	db *gorm.DB
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// Validate runs the payload checks in order and rejects on the first
// failure with a field-keyed error.
func (s *RecipeService) Validate(p *RecipePayload) error {
	if len(p.TagIDs) == 0 {
		return fieldError("tags", "Нужно выбрать хотя бы один тег!")
	}
	if p.CookingTime <= 0 {
		return fieldError("cooking_time", "Время приготовления должно быть больше 0!")
	}
	if len(p.Ingredients) == 0 {
		return fieldError("ingredients", "Нужно выбрать хотя бы один ингредиент!")
	}
	seen := make(map[uuid.UUID]struct{}, len(p.Ingredients))
	for _, entry := range p.Ingredients {
		if _, ok := seen[entry.ID]; ok {
			return fieldError("ingredients", "Ингредиенты не должны повторяться!")
		}
		seen[entry.ID] = struct{}{}
	}
	for _, entry := range p.Ingredients {
		if entry.Amount <= 0 {
			return fieldError("ingredients", "Количество ингредиента должно быть больше 0!")
		}
	}
	return nil
}

// CreateRecipe validates the payload and persists the recipe, its tag
// set and its ingredient lines as one transaction.
func (s *RecipeService) CreateRecipe(ctx context.Context, authorID uuid.UUID, p *RecipePayload) (*models.Recipe, error) {
	if err := s.Validate(p); err != nil {
		return nil, err
	}

	var recipe models.Recipe
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := loadTags(tx, p.TagIDs)
		if err != nil {
			return err
		}

		recipe = models.Recipe{
			Name:        p.Name,
			Text:        p.Text,
			Image:       p.Image,
			CookingTime: p.CookingTime,
			AuthorID:    authorID,
		}
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Replace(tags); err != nil {
			return err
		}
		return insertIngredientLines(tx, recipe.ID, p.Ingredients)
	})
	if err != nil {
		return nil, err
	}

	return s.GetRecipe(ctx, recipe.ID)
}

// UpdateRecipe validates the payload and overwrites the recipe wholesale:
// scalar fields are replaced, the tag set is replaced, and every existing
// ingredient line is deleted and recreated from the payload. This is a
// full replace, not a diff.
func (s *RecipeService) UpdateRecipe(ctx context.Context, recipeID uuid.UUID, p *RecipePayload) (*models.Recipe, error) {
	if err := s.Validate(p); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, "id = ?", recipeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "recipe"}
			}
			return err
		}

		tags, err := loadTags(tx, p.TagIDs)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{
			"name":         p.Name,
			"text":         p.Text,
			"cooking_time": p.CookingTime,
		}
		if p.Image != "" {
			updates["image"] = p.Image
		}
		if err := tx.Model(&recipe).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Replace(tags); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		return insertIngredientLines(tx, recipe.ID, p.Ingredients)
	})
	if err != nil {
		return nil, err
	}

	return s.GetRecipe(ctx, recipeID)
}

// GetRecipe retrieves a recipe with its author, tags and ingredient lines
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		First(&recipe, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "recipe"}
		}
		return nil, err
	}
	return &recipe, nil
}

// DeleteRecipe removes a recipe together with its ingredient lines
func (s *RecipeService) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "recipe"}
			}
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&recipe).Error
	})
}

// ListRecipes applies the filter predicates conjunctively, newest first.
func (s *RecipeService) ListRecipes(ctx context.Context, viewer *uuid.UUID, f RecipeFilter) ([]models.Recipe, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Order("recipes.created_at DESC")

	if f.Author != nil {
		query = query.Where("recipes.author_id = ?", *f.Author)
	}
	if len(f.TagSlugs) > 0 {
		query = query.
			Joins("JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", f.TagSlugs).
			Distinct("recipes.*")
	}
	if viewer != nil {
		if f.IsFavorited {
			query = query.Joins(
				"JOIN favorites ON favorites.recipe_id = recipes.id AND favorites.user_id = ?", *viewer)
		}
		if f.IsInShoppingCart {
			query = query.Joins(
				"JOIN shopping_cart_entries ON shopping_cart_entries.recipe_id = recipes.id AND shopping_cart_entries.user_id = ?", *viewer)
		}
	}

	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// ListByAuthor returns an author's recipes, newest first, optionally
// capped. Used for the nested recipe lists in subscription responses.
func (s *RecipeService) ListByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]models.Recipe, error) {
	query := s.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// CountByAuthor returns the total number of an author's recipes
func (s *RecipeService) CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("author_id = ?", authorID).Count(&count).Error
	return count, err
}

func loadTags(tx *gorm.DB, tagIDs []uuid.UUID) ([]models.Tag, error) {
	unique := make([]uuid.UUID, 0, len(tagIDs))
	seen := make(map[uuid.UUID]struct{}, len(tagIDs))
	for _, id := range tagIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	var tags []models.Tag
	if err := tx.Where("id IN ?", unique).Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(unique) {
		return nil, &NotFoundError{Resource: "tag"}
	}
	return tags, nil
}

func insertIngredientLines(tx *gorm.DB, recipeID uuid.UUID, entries []IngredientAmount) error {
	ids := make([]uuid.UUID, len(entries))
	for i, entry := range entries {
		ids[i] = entry.ID
	}
	var count int64
	if err := tx.Model(&models.Ingredient{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(entries)) {
		return &NotFoundError{Resource: "ingredient"}
	}

	lines := make([]models.RecipeIngredient, len(entries))
	for i, entry := range entries {
		lines[i] = models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: entry.ID,
			Amount:       entry.Amount,
		}
	}
	return tx.Create(&lines).Error
}
