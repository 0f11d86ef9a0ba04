package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/foodgram/backend/internal/api"
)

// SetupRouter configures the application routes
func SetupRouter(
	healthHandler *api.HealthHandler,
	authHandler *api.AuthHandler,
	userHandler *api.UserHandler,
	recipeHandler *api.RecipeHandler,
	referenceHandler *api.ReferenceHandler,
	mediaDir string,
	mediaURL string,
) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://frontend:5173"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "Accept", "Origin"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}))

	// Locally stored recipe images; S3 deployments serve them directly
	if mediaDir != "" {
		router.Static(mediaURL, mediaDir)
	}

	// Liveness for load balancers that probe outside the API prefix
	router.GET("/health", healthHandler.Health)

	v1 := router.Group("/api")
	healthHandler.RegisterRoutes(v1)
	authHandler.RegisterRoutes(v1)
	userHandler.RegisterRoutes(v1)
	recipeHandler.RegisterRoutes(v1)
	referenceHandler.RegisterRoutes(v1)

	return router
}
