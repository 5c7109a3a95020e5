// Package auth resolves the acting user from bearer tokens and enforces
// merchant verification.
package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dist-ecom/product-service/pkg/middleware"
)

var errInvalidToken = errors.New("invalid token")

// NewTokenValidator returns a middleware.TokenValidator that verifies
// HMAC-signed JWTs with the given secret and extracts the user claims.
func NewTokenValidator(secret string) middleware.TokenValidator {
	key := []byte(secret)

	return func(tokenString string) (*middleware.Claims, error) {
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			// Ensure the signing method is HMAC.
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return key, nil
		})
		if err != nil {
			return nil, fmt.Errorf("parse token: %w", err)
		}
		if !token.Valid {
			return nil, errInvalidToken
		}

		mapClaims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return nil, errInvalidToken
		}

		userID, _ := mapClaims["user_id"].(string)
		if userID == "" {
			// Fallback: try "sub" claim.
			userID, _ = mapClaims["sub"].(string)
		}
		if userID == "" {
			return nil, errInvalidToken
		}

		email, _ := mapClaims["email"].(string)
		role, _ := mapClaims["role"].(string)

		return &middleware.Claims{
			UserID: userID,
			Email:  email,
			Role:   role,
		}, nil
	}
}
