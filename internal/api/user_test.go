package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// me fetches the caller's own profile, which is also how tests learn a
// registered user's id.
func me(t *testing.T, env *testEnv, token string) UserResponse {
	t.Helper()
	w := env.request(t, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp UserResponse
	decodeJSON(t, w, &resp)
	return resp
}

func TestMeRequiresAuth(t *testing.T) {
	env := setupTestEnv(t)
	w := env.request(t, http.MethodGet, "/api/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetUserPublic(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerUser(t)
	profile := me(t, env, token)

	w := env.request(t, http.MethodGet, "/api/users/"+profile.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp UserResponse
	decodeJSON(t, w, &resp)
	assert.Equal(t, profile.Username, resp.Username)
	assert.False(t, resp.IsSubscribed)
}

func TestSubscribeLifecycleHTTP(t *testing.T) {
	env := setupTestEnv(t)
	follower := env.registerUser(t)
	authorToken := env.registerUser(t)
	author := me(t, env, authorToken)

	path := "/api/users/" + author.ID.String() + "/subscribe"

	w := env.request(t, http.MethodPost, path, follower, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var sub SubscriptionResponse
	decodeJSON(t, w, &sub)
	assert.Equal(t, author.ID, sub.ID)
	assert.True(t, sub.IsSubscribed)
	assert.Zero(t, sub.RecipesCount)

	// Duplicate subscribe is a 400 with the product message
	w = env.request(t, http.MethodPost, path, follower, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]string
	decodeJSON(t, w, &resp)
	assert.Equal(t, "Нельзя подписываться на пользователя повторно!", resp["errors"])

	w = env.request(t, http.MethodDelete, path, follower, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.request(t, http.MethodDelete, path, follower, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	decodeJSON(t, w, &resp)
	assert.Equal(t, "Вы не подписаны на этого пользователя", resp["errors"])
}

func TestSelfSubscribeHTTP(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerUser(t)
	profile := me(t, env, token)

	w := env.request(t, http.MethodPost, "/api/users/"+profile.ID.String()+"/subscribe", token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]string
	decodeJSON(t, w, &resp)
	assert.Equal(t, "Нельзя подписываться на себя!", resp["errors"])
}

func TestListSubscriptionsWithRecipesLimit(t *testing.T) {
	env := setupTestEnv(t)
	follower := env.registerUser(t)
	authorToken := env.registerUser(t)
	author := me(t, env, authorToken)

	tag := env.seedTag(t, "dinner")
	potato := env.seedIngredient(t, "картофель", "г")
	for _, name := range []string{"Пюре", "Драники", "Жаркое"} {
		w := env.request(t, http.MethodPost, "/api/recipes", authorToken, recipeBody(name, tag, potato, 500))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := env.request(t, http.MethodPost, "/api/users/"+author.ID.String()+"/subscribe", follower, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.request(t, http.MethodGet, "/api/users/subscriptions?recipes_limit=2", follower, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listing struct {
		Subscriptions []SubscriptionResponse `json:"subscriptions"`
	}
	decodeJSON(t, w, &listing)
	require.Len(t, listing.Subscriptions, 1)

	sub := listing.Subscriptions[0]
	assert.Equal(t, author.ID, sub.ID)
	// The limit caps the nested list but not the count
	assert.Len(t, sub.Recipes, 2)
	assert.Equal(t, int64(3), sub.RecipesCount)
	assert.True(t, sub.IsSubscribed)
}
