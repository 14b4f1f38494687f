package api

import (
	"time"

	"github.com/google/uuid"
)

// Common request/response structures

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// Username is the authenticated study user
	Username string `json:"username"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`

	// ExpiresAt is the ISO 8601 timestamp when the access token expires
	ExpiresAt string `json:"expires_at,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token refresh endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    string `json:"expires_at"`
}

// CreateSessionRequest defines the payload for creating a session from a
// pasted document.
type CreateSessionRequest struct {
	Name         string `json:"name"          validate:"required,min=1,max=200"`
	DocumentText string `json:"document_text" validate:"required,min=1"`
}

// SessionSummary is the per-session row returned by the session list endpoint.
type SessionSummary struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	TotalCards     int       `json:"total_cards"`
	CompletedCards int       `json:"completed_cards"`
	StudySessions  int       `json:"study_sessions"`
	CreatedAt      time.Time `json:"created_at"`
}

// SubmitAnswerRequest defines the payload for answering the presented card.
type SubmitAnswerRequest struct {
	Answer string `json:"answer" validate:"required"`
}

// AssessmentRequest defines the payload for the text-card self-assessment.
// Correct is a pointer so that an explicit false survives decoding.
type AssessmentRequest struct {
	Correct *bool `json:"correct" validate:"required"`
}

// RatingRequest defines the payload for rating the revealed card.
type RatingRequest struct {
	Difficulty string `json:"difficulty" validate:"required,oneof=easy normal hard"`
}
