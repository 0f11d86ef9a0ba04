package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/models"
)

func recipeBody(name string, tag models.Tag, ingredient models.Ingredient, amount int) gin.H {
	return gin.H{
		"name":         name,
		"text":         "Описание",
		"cooking_time": 15,
		"tags":         []string{tag.ID.String()},
		"ingredients": []gin.H{
			{"id": ingredient.ID.String(), "amount": amount},
		},
	}
}

func TestCreateRecipeHTTP(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerUser(t)
	tag := env.seedTag(t, "breakfast")
	flour := env.seedIngredient(t, "мука", "г")

	w := env.request(t, http.MethodPost, "/api/recipes", token, recipeBody("Блины", tag, flour, 100))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp RecipeResponse
	decodeJSON(t, w, &resp)
	assert.Equal(t, "Блины", resp.Name)
	assert.Equal(t, 15, resp.CookingTime)
	require.Len(t, resp.Tags, 1)
	assert.Equal(t, "breakfast", resp.Tags[0].Slug)
	require.Len(t, resp.Ingredients, 1)
	assert.Equal(t, flour.ID, resp.Ingredients[0].ID)
	assert.Equal(t, 100, resp.Ingredients[0].Amount)
	assert.False(t, resp.IsFavorited)
}

func TestCreateRecipeRequiresAuth(t *testing.T) {
	env := setupTestEnv(t)
	tag := env.seedTag(t, "lunch")
	rice := env.seedIngredient(t, "рис", "г")

	w := env.request(t, http.MethodPost, "/api/recipes", "", recipeBody("Плов", tag, rice, 300))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateRecipeValidationErrors(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerUser(t)
	flour := env.seedIngredient(t, "мука", "г")

	w := env.request(t, http.MethodPost, "/api/recipes", token, gin.H{
		"name":         "Без тегов",
		"cooking_time": 10,
		"ingredients":  []gin.H{{"id": flour.ID.String(), "amount": 100}},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string][]string
	decodeJSON(t, w, &resp)
	assert.Equal(t, []string{"Нужно выбрать хотя бы один тег!"}, resp["tags"])
}

func TestUpdateRecipeOnlyByAuthor(t *testing.T) {
	env := setupTestEnv(t)
	author := env.registerUser(t)
	other := env.registerUser(t)
	tag := env.seedTag(t, "dinner")
	meat := env.seedIngredient(t, "говядина", "г")

	w := env.request(t, http.MethodPost, "/api/recipes", author, recipeBody("Гуляш", tag, meat, 500))
	require.Equal(t, http.StatusCreated, w.Code)
	var created RecipeResponse
	decodeJSON(t, w, &created)

	update := recipeBody("Чужой гуляш", tag, meat, 400)
	w = env.request(t, http.MethodPatch, "/api/recipes/"+created.ID.String(), other, update)
	require.Equal(t, http.StatusForbidden, w.Code)

	var resp map[string]string
	decodeJSON(t, w, &resp)
	assert.Equal(t, "Изменять рецепт может только его автор", resp["detail"])

	w = env.request(t, http.MethodPatch, "/api/recipes/"+created.ID.String(), author, update)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestDeleteRecipeHTTP(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerUser(t)
	tag := env.seedTag(t, "breakfast")
	oats := env.seedIngredient(t, "овсянка", "г")

	w := env.request(t, http.MethodPost, "/api/recipes", token, recipeBody("Каша", tag, oats, 60))
	require.Equal(t, http.StatusCreated, w.Code)
	var created RecipeResponse
	decodeJSON(t, w, &created)

	w = env.request(t, http.MethodDelete, "/api/recipes/"+created.ID.String(), token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.request(t, http.MethodGet, "/api/recipes/"+created.ID.String(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListRecipesAnonymousFlags(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerUser(t)
	tag := env.seedTag(t, "lunch")
	pasta := env.seedIngredient(t, "макароны", "г")

	w := env.request(t, http.MethodPost, "/api/recipes", token, recipeBody("Паста", tag, pasta, 200))
	require.Equal(t, http.StatusCreated, w.Code)
	var created RecipeResponse
	decodeJSON(t, w, &created)

	w = env.request(t, http.MethodPost, "/api/recipes/"+created.ID.String()+"/favorite", token, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	// Anonymous listing: relation flags stay false
	w = env.request(t, http.MethodGet, "/api/recipes", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listing struct {
		Recipes []RecipeResponse `json:"recipes"`
	}
	decodeJSON(t, w, &listing)
	require.Len(t, listing.Recipes, 1)
	assert.False(t, listing.Recipes[0].IsFavorited)
	assert.False(t, listing.Recipes[0].IsInShoppingCart)

	// The favoriting viewer sees the flag
	w = env.request(t, http.MethodGet, "/api/recipes", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &listing)
	require.Len(t, listing.Recipes, 1)
	assert.True(t, listing.Recipes[0].IsFavorited)
}

func TestListRecipesTagFilterHTTP(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerUser(t)
	breakfast := env.seedTag(t, "breakfast")
	dinner := env.seedTag(t, "dinner")
	egg := env.seedIngredient(t, "яйцо", "шт")

	w := env.request(t, http.MethodPost, "/api/recipes", token, recipeBody("Омлет", breakfast, egg, 3))
	require.Equal(t, http.StatusCreated, w.Code)
	w = env.request(t, http.MethodPost, "/api/recipes", token, recipeBody("Рагу", dinner, egg, 1))
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.request(t, http.MethodGet, "/api/recipes?tags=breakfast", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listing struct {
		Recipes []RecipeResponse `json:"recipes"`
	}
	decodeJSON(t, w, &listing)
	require.Len(t, listing.Recipes, 1)
	assert.Equal(t, "Омлет", listing.Recipes[0].Name)
}

func TestFavoriteConflictHTTP(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerUser(t)
	tag := env.seedTag(t, "dinner")
	fish := env.seedIngredient(t, "рыба", "г")

	w := env.request(t, http.MethodPost, "/api/recipes", token, recipeBody("Уха", tag, fish, 400))
	require.Equal(t, http.StatusCreated, w.Code)
	var created RecipeResponse
	decodeJSON(t, w, &created)

	path := "/api/recipes/" + created.ID.String() + "/favorite"
	w = env.request(t, http.MethodPost, path, token, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var short ShortRecipeResponse
	decodeJSON(t, w, &short)
	assert.Equal(t, created.ID, short.ID)
	assert.Equal(t, "Уха", short.Name)

	w = env.request(t, http.MethodPost, path, token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]string
	decodeJSON(t, w, &resp)
	assert.Equal(t, "Нельзя повторно добавлять рецепт в избранное", resp["errors"])

	// Remove twice: second removal is a 400, not a 404
	w = env.request(t, http.MethodDelete, path, token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = env.request(t, http.MethodDelete, path, token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	decodeJSON(t, w, &resp)
	assert.Equal(t, "Рецепт не добавлен в избранное", resp["errors"])
}

func TestDownloadShoppingCartHTTP(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerUser(t)
	tag := env.seedTag(t, "breakfast")
	flour := env.seedIngredient(t, "мука", "г")

	w := env.request(t, http.MethodPost, "/api/recipes", token, recipeBody("Блины", tag, flour, 100))
	require.Equal(t, http.StatusCreated, w.Code)
	var pancakes RecipeResponse
	decodeJSON(t, w, &pancakes)

	w = env.request(t, http.MethodPost, "/api/recipes", token, recipeBody("Хлеб", tag, flour, 50))
	require.Equal(t, http.StatusCreated, w.Code)
	var bread RecipeResponse
	decodeJSON(t, w, &bread)

	for _, id := range []string{pancakes.ID.String(), bread.ID.String()} {
		w = env.request(t, http.MethodPost, fmt.Sprintf("/api/recipes/%s/shopping_cart", id), token, nil)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w = env.request(t, http.MethodGet, "/api/recipes/download_shopping_cart", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "attachment; filename=shopping_list.txt", w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")

	body := w.Body.String()
	assert.Contains(t, body, "Список покупок")
	assert.Contains(t, body, " - Мука (г) -> 150 ")
}

func TestDownloadShoppingCartRequiresAuth(t *testing.T) {
	env := setupTestEnv(t)
	w := env.request(t, http.MethodGet, "/api/recipes/download_shopping_cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
