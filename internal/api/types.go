package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/service"
)

// UserResponse mirrors the user shape embedded in recipe and
// subscription responses.
type UserResponse struct {
	Email        string    `json:"email"`
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
}

type TagResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
	Slug  string    `json:"slug"`
}

type IngredientResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
}

// RecipeIngredientResponse is one ingredient line; ID is the ingredient
// id, not the line id.
type RecipeIngredientResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

type RecipeResponse struct {
	ID               uuid.UUID                  `json:"id"`
	Ingredients      []RecipeIngredientResponse `json:"ingredients"`
	Tags             []TagResponse              `json:"tags"`
	Image            string                     `json:"image"`
	Name             string                     `json:"name"`
	Text             string                     `json:"text"`
	CookingTime      int                        `json:"cooking_time"`
	Author           UserResponse               `json:"author"`
	IsFavorited      bool                       `json:"is_favorited"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
}

// ShortRecipeResponse is the reduced shape returned by favorite/cart
// adds and inside subscription listings.
type ShortRecipeResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

type SubscriptionResponse struct {
	Email        string                `json:"email"`
	ID           uuid.UUID             `json:"id"`
	Username     string                `json:"username"`
	FirstName    string                `json:"first_name"`
	LastName     string                `json:"last_name"`
	Recipes      []ShortRecipeResponse `json:"recipes"`
	RecipesCount int64                 `json:"recipes_count"`
	IsSubscribed bool                  `json:"is_subscribed"`
}

func newTagResponse(t models.Tag) TagResponse {
	return TagResponse{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug}
}

func newIngredientResponse(i models.Ingredient) IngredientResponse {
	return IngredientResponse{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}

func newShortRecipeResponse(r *models.Recipe) ShortRecipeResponse {
	return ShortRecipeResponse{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}

// newUserResponse builds the embedded user shape. is_subscribed is false
// for anonymous viewers, matching the original behavior of returning
// false rather than omitting the field.
func newUserResponse(ctx context.Context, relations *service.RelationService, user *models.User, viewer *uuid.UUID) UserResponse {
	resp := UserResponse{
		Email:     user.Email,
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
	if viewer != nil {
		resp.IsSubscribed = relations.IsSubscribed(ctx, *viewer, user.ID)
	}
	return resp
}

func newRecipeResponse(ctx context.Context, relations *service.RelationService, r *models.Recipe, viewer *uuid.UUID) RecipeResponse {
	lines := make([]RecipeIngredientResponse, len(r.Ingredients))
	for i, line := range r.Ingredients {
		lines[i] = RecipeIngredientResponse{
			ID:              line.IngredientID,
			Name:            line.Ingredient.Name,
			MeasurementUnit: line.Ingredient.MeasurementUnit,
			Amount:          line.Amount,
		}
	}
	tags := make([]TagResponse, len(r.Tags))
	for i, t := range r.Tags {
		tags[i] = newTagResponse(t)
	}

	resp := RecipeResponse{
		ID:          r.ID,
		Ingredients: lines,
		Tags:        tags,
		Image:       r.Image,
		Name:        r.Name,
		Text:        r.Text,
		CookingTime: r.CookingTime,
		Author:      newUserResponse(ctx, relations, &r.Author, viewer),
	}
	if viewer != nil {
		resp.IsFavorited = relations.IsFavorited(ctx, *viewer, r.ID)
		resp.IsInShoppingCart = relations.IsInShoppingCart(ctx, *viewer, r.ID)
	}
	return resp
}

// currentUserID returns the authenticated user id set by the auth
// middleware.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	val, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	id, ok := val.(uuid.UUID)
	return id, ok
}

// viewerID returns the authenticated user id or nil for anonymous
// requests.
func viewerID(c *gin.Context) *uuid.UUID {
	if id, ok := currentUserID(c); ok {
		return &id
	}
	return nil
}

// respondError maps service errors onto the HTTP surface: validation →
// 400 field map, conflicts and relation removals → 400 with an errors
// message, missing resources → 404.
func respondError(c *gin.Context, err error) {
	var validation service.ValidationError
	if errors.As(err, &validation) {
		c.JSON(http.StatusBadRequest, validation)
		return
	}

	var conflict *service.ConflictError
	if errors.As(err, &conflict) {
		c.JSON(http.StatusBadRequest, gin.H{"errors": conflict.Message})
		return
	}

	var relationNotFound *service.RelationNotFoundError
	if errors.As(err, &relationNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"errors": relationNotFound.Message})
		return
	}

	var notFound *service.NotFoundError
	if errors.As(err, &notFound) {
		c.JSON(http.StatusNotFound, gin.H{"detail": notFound.Error()})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
