package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/service"
)

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	auth := service.NewAuthService(db, "test-secret")
	recipes := service.NewRecipeService(db)
	relations := service.NewRelationService(db)
	shopping := service.NewShoppingListService(db)
	images := service.NewImageService(nil, t.TempDir(), "/media")

	router := gin.New()
	v1 := router.Group("/api")
	NewHealthHandler(db, nil).RegisterRoutes(v1)
	NewAuthHandler(auth).RegisterRoutes(v1)
	NewUserHandler(auth, relations, recipes).RegisterRoutes(v1)
	NewRecipeHandler(recipes, relations, shopping, images, auth, nil).RegisterRoutes(v1)
	NewReferenceHandler(db).RegisterRoutes(v1)

	return &testEnv{router: router, db: db}
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

var userSeq int

// registerUser creates an account through the HTTP surface and returns
// its bearer token.
func (e *testEnv) registerUser(t *testing.T) string {
	t.Helper()
	userSeq++
	w := e.request(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":      fmt.Sprintf("user%d@example.com", userSeq),
		"username":   fmt.Sprintf("user%d", userSeq),
		"first_name": "Тест",
		"last_name":  "Тестов",
		"password":   "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token
}

func (e *testEnv) seedTag(t *testing.T, slug string) models.Tag {
	t.Helper()
	userSeq++
	tag := models.Tag{
		Name:  "tag-" + slug,
		Color: fmt.Sprintf("#%06x", userSeq),
		Slug:  slug,
	}
	require.NoError(t, e.db.Create(&tag).Error)
	return tag
}

func (e *testEnv) seedIngredient(t *testing.T, name, unit string) models.Ingredient {
	t.Helper()
	ingredient := models.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, e.db.Create(&ingredient).Error)
	return ingredient
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}
