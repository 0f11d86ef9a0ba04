package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterHTTP(t *testing.T) {
	env := setupTestEnv(t)

	body := gin.H{
		"email":      "ivan@example.com",
		"username":   "ivan",
		"first_name": "Иван",
		"last_name":  "Петров",
		"password":   "password123",
	}
	w := env.request(t, http.MethodPost, "/api/auth/register", "", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)

	// Duplicate email → 400 with the product message
	w = env.request(t, http.MethodPost, "/api/auth/register", "", body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var errResp map[string]string
	decodeJSON(t, w, &errResp)
	assert.Equal(t, "Пользователь с таким email или username уже существует", errResp["errors"])
}

func TestRegisterRejectsInvalidBody(t *testing.T) {
	env := setupTestEnv(t)

	// Short password fails binding
	w := env.request(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    "short@example.com",
		"username": "short",
		"password": "123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Malformed email
	w = env.request(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    "not-an-email",
		"username": "bad",
		"password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginHTTP(t *testing.T) {
	env := setupTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    "anna@example.com",
		"username": "anna",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.request(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "anna@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var resp TokenResponse
	decodeJSON(t, w, &resp)
	assert.NotEmpty(t, resp.Token)

	w = env.request(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "anna@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.request(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "nobody@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRouteRejectsBadToken(t *testing.T) {
	env := setupTestEnv(t)

	w := env.request(t, http.MethodGet, "/api/users/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
