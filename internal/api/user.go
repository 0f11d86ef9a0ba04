package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/service"
)

type UserHandler struct {
	auth      *service.AuthService
	relations *service.RelationService
	recipes   *service.RecipeService
}

func NewUserHandler(auth *service.AuthService, relations *service.RelationService, recipes *service.RecipeService) *UserHandler {
	return &UserHandler{
		auth:      auth,
		relations: relations,
		recipes:   recipes,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("/me", middleware.AuthMiddleware(h.auth), h.Me)
		users.GET("/subscriptions", middleware.AuthMiddleware(h.auth), h.ListSubscriptions)
		users.GET("/:id", middleware.OptionalAuthMiddleware(h.auth), h.GetUser)
		users.POST("/:id/subscribe", middleware.AuthMiddleware(h.auth), h.Subscribe)
		users.DELETE("/:id/subscribe", middleware.AuthMiddleware(h.auth), h.Unsubscribe)
	}
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	user, err := h.auth.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(c.Request.Context(), h.relations, user, &userID))
}

func (h *UserHandler) GetUser(c *gin.Context) {
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	user, err := h.auth.GetUser(c.Request.Context(), targetID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(c.Request.Context(), h.relations, user, viewerID(c)))
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	target, err := h.relations.Subscribe(c.Request.Context(), userID, targetID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.subscriptionResponse(c, target, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.relations.Unsubscribe(c.Request.Context(), userID, targetID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) ListSubscriptions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	authors, err := h.relations.ListSubscriptions(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]SubscriptionResponse, len(authors))
	for i := range authors {
		resp, err := h.subscriptionResponse(c, &authors[i], userID)
		if err != nil {
			respondError(c, err)
			return
		}
		responses[i] = resp
	}
	c.JSON(http.StatusOK, gin.H{"subscriptions": responses})
}

// subscriptionResponse builds the author-with-recipes shape. The
// recipes_limit query parameter caps the nested recipe list.
func (h *UserHandler) subscriptionResponse(c *gin.Context, author *models.User, viewer uuid.UUID) (SubscriptionResponse, error) {
	ctx := c.Request.Context()

	limit := 0
	if v := c.Query("recipes_limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	recipes, err := h.recipes.ListByAuthor(ctx, author.ID, limit)
	if err != nil {
		return SubscriptionResponse{}, err
	}
	count, err := h.recipes.CountByAuthor(ctx, author.ID)
	if err != nil {
		return SubscriptionResponse{}, err
	}

	short := make([]ShortRecipeResponse, len(recipes))
	for i := range recipes {
		short[i] = newShortRecipeResponse(&recipes[i])
	}

	return SubscriptionResponse{
		Email:        author.Email,
		ID:           author.ID,
		Username:     author.Username,
		FirstName:    author.FirstName,
		LastName:     author.LastName,
		Recipes:      short,
		RecipesCount: count,
		IsSubscribed: h.relations.IsSubscribed(ctx, viewer, author.ID),
	}, nil
}
