package jwt

import (
	"testing"
	"time"

	"mediatrack/backend/internal/config"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	config.AppConfig = &config.Config{JWTSecret: "test-secret"}
}

func signWithClaims(t *testing.T, secret string, claims gojwt.MapClaims) string {
	t.Helper()

	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken(42)
	require.NoError(t, err)

	userID, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestParseTokenExpiry(t *testing.T) {
	expired := signWithClaims(t, "test-secret", gojwt.MapClaims{
		"sub": 42,
		"iat": time.Now().Add(-9 * time.Hour).Unix(),
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	_, err := ParseToken(expired)
	assert.ErrorIs(t, err, ErrTokenExpired)

	// A token just inside the window still verifies.
	almostExpired := signWithClaims(t, "test-secret", gojwt.MapClaims{
		"sub": 42,
		"iat": time.Now().Add(-TokenLifetime + time.Minute).Unix(),
		"exp": time.Now().Add(time.Minute).Unix(),
	})

	userID, err := ParseToken(almostExpired)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestParseTokenWrongSecret(t *testing.T) {
	forged := signWithClaims(t, "other-secret", gojwt.MapClaims{
		"sub": 42,
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := ParseToken(forged)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseTokenMissingSubject(t *testing.T) {
	noSubject := signWithClaims(t, "test-secret", gojwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := ParseToken(noSubject)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
