// Package auth implements the gate in front of the study engine: credential
// verification for the configured study user and JWT issuance/validation.
// The engine itself performs no authorization; it assumes it only runs for an
// admitted actor.
package auth

import (
	"context"
	"time"
)

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed JWT access token for the given subject.
	// Returns the token string or an error if token generation fails.
	GenerateToken(ctx context.Context, subject string) (string, error)

	// ValidateToken validates the provided access token string and extracts
	// the claims, or returns an error if validation fails (expired, invalid
	// signature, wrong token type, etc.).
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// GenerateRefreshToken creates a signed JWT refresh token for the given
	// subject. Refresh tokens have a longer lifetime and are used to obtain
	// new access tokens.
	GenerateRefreshToken(ctx context.Context, subject string) (string, error)

	// ValidateRefreshToken validates the provided refresh token string and
	// extracts the claims, or returns an error if validation fails.
	ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the validated claims carried by a token.
type Claims struct {
	// Subject is the username the token was issued for.
	Subject string

	// TokenType indicates the purpose of the token ("access" or "refresh").
	TokenType string

	IssuedAt  time.Time
	ExpiresAt time.Time
}
