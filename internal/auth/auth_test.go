package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestTokenValidator_ValidToken(t *testing.T) {
	validate := NewTokenValidator(testSecret)

	tokenString := signToken(t, testSecret, jwt.MapClaims{
		"user_id": "user-1",
		"email":   "merchant@example.com",
		"role":    "MERCHANT",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	claims, err := validate(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "merchant@example.com", claims.Email)
	assert.Equal(t, "MERCHANT", claims.Role)
}

func TestTokenValidator_SubFallback(t *testing.T) {
	validate := NewTokenValidator(testSecret)

	tokenString := signToken(t, testSecret, jwt.MapClaims{
		"sub":  "user-2",
		"role": "customer",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	claims, err := validate(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "user-2", claims.UserID)
}

func TestTokenValidator_WrongSecret(t *testing.T) {
	validate := NewTokenValidator(testSecret)

	tokenString := signToken(t, "other-secret", jwt.MapClaims{
		"user_id": "user-1",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	_, err := validate(tokenString)
	assert.Error(t, err)
}

func TestTokenValidator_Expired(t *testing.T) {
	validate := NewTokenValidator(testSecret)

	tokenString := signToken(t, testSecret, jwt.MapClaims{
		"user_id": "user-1",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})

	_, err := validate(tokenString)
	assert.Error(t, err)
}

func TestTokenValidator_MissingUserID(t *testing.T) {
	validate := NewTokenValidator(testSecret)

	tokenString := signToken(t, testSecret, jwt.MapClaims{
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	_, err := validate(tokenString)
	assert.Error(t, err)
}
