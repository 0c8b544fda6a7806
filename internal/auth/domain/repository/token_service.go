package repository

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService defines the interface for credential signing operations
type TokenService interface {
	// GenerateAccessToken produces a signed, short-lived access token
	// embedding the user id. Stateless; no persistence.
	GenerateAccessToken(ctx context.Context, userID string) (string, error)

	// ValidateAccessToken verifies signature and expiry and returns the
	// embedded claims. The user id is trusted on signature alone.
	ValidateAccessToken(ctx context.Context, tokenString string) (*Claims, error)

	// GenerateRefreshToken produces a fresh opaque refresh secret. Pure
	// generation; the caller is responsible for persisting the session.
	GenerateRefreshToken() (string, error)
}

// Claims represents the access-token JWT claims
type Claims struct {
	UserID string `json:"_id"`
	jwt.RegisteredClaims
}
