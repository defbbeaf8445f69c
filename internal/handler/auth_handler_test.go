package handler

import (
	"net/http"
	"testing"

	"mediatrack/backend/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterDuplicateUsername(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()

	body := RegisterInput{Username: "bookworm_42", Password: "password123"}

	rr := doJSON(router, http.MethodPost, "/api/auth/register", "", body)
	assert.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(router, http.MethodPost, "/api/auth/register", "", body)
	assert.Equal(t, http.StatusConflict, rr.Code)

	var response map[string]string
	decodeBody(t, rr, &response)
	assert.Contains(t, response["error"], "already exists")
}

func TestRegisterShortPassword(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()

	rr := doJSON(router, http.MethodPost, "/api/auth/register", "", RegisterInput{
		Username: "shorty",
		Password: "1234567",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRegisterInvalidUsername(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()

	for _, username := range []string{"has space", "dash-ed", "dot.ted", "почта"} {
		rr := doJSON(router, http.MethodPost, "/api/auth/register", "", RegisterInput{
			Username: username,
			Password: "password123",
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code, "username %q should be rejected", username)
	}
}

func TestLoginReturnsUsableToken(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()

	rr := doJSON(router, http.MethodPost, "/api/auth/register", "", RegisterInput{
		Username: "returning_user",
		Password: "password123",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(router, http.MethodPost, "/api/auth/login", "", LoginInput{
		Username: "returning_user",
		Password: "password123",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var response struct {
		Token    string `json:"token"`
		UserID   uint   `json:"user_id"`
		Username string `json:"username"`
	}
	decodeBody(t, rr, &response)
	assert.Equal(t, "returning_user", response.Username)

	userID, err := jwt.ParseToken(response.Token)
	require.NoError(t, err)
	assert.Equal(t, response.UserID, userID)
}

func TestLoginWrongPassword(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()

	createTestUser(t, "careful_user")

	rr := doJSON(router, http.MethodPost, "/api/auth/login", "", LoginInput{
		Username: "careful_user",
		Password: "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLoginUnknownUser(t *testing.T) {
	setupTestDB(t)
	router := newTestRouter()

	rr := doJSON(router, http.MethodPost, "/api/auth/login", "", LoginInput{
		Username: "ghost",
		Password: "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
