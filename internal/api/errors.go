package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/studydeck/studydeck-api/internal/domain"
	"github.com/studydeck/studydeck-api/internal/domain/srs"
	"github.com/studydeck/studydeck-api/internal/generation"
	"github.com/studydeck/studydeck-api/internal/service/auth"
	"github.com/studydeck/studydeck-api/internal/service/review"
	"github.com/studydeck/studydeck-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, review.ErrNoActivePass):
		return http.StatusNotFound

	// Pass state conflicts: the operation exists but is not legal right now
	case errors.Is(err, review.ErrInvalidTransition),
		errors.Is(err, review.ErrSelfAssessmentRequired),
		errors.Is(err, review.ErrAlreadyAssessed),
		errors.Is(err, review.ErrNotTextCard):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, review.ErrEmptyAnswer),
		errors.Is(err, srs.ErrInvalidDifficulty),
		errors.Is(err, domain.ErrInvalidDifficulty),
		errors.Is(err, domain.ErrSessionNameEmpty),
		errors.Is(err, domain.ErrSessionNoCards),
		errors.Is(err, generation.ErrEmptyDocument):
		return http.StatusBadRequest

	// Generation upstream problems
	case errors.Is(err, generation.ErrContentBlocked):
		return http.StatusUnprocessableEntity

	case errors.Is(err, generation.ErrMalformedOutput),
		errors.Is(err, generation.ErrEmptyOutput),
		errors.Is(err, generation.ErrUpstreamFailure):
		return http.StatusBadGateway

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid credentials"

	// Not found errors
	case errors.Is(err, store.ErrSessionNotFound):
		return "Session not found"

	case errors.Is(err, store.ErrCardNotFound):
		return "Card not found"

	case errors.Is(err, review.ErrNoActivePass):
		return "No active review pass for this session"

	// Pass state conflicts
	case errors.Is(err, review.ErrInvalidTransition):
		return "Operation not valid in the current review state"

	case errors.Is(err, review.ErrSelfAssessmentRequired):
		return "Report whether your answer was correct before rating"

	case errors.Is(err, review.ErrAlreadyAssessed):
		return "This answer has already been assessed"

	case errors.Is(err, review.ErrNotTextCard):
		return "Self-assessment only applies to text cards"

	// Bad request errors
	case errors.Is(err, review.ErrEmptyAnswer):
		return "Answer cannot be empty"

	case errors.Is(err, srs.ErrInvalidDifficulty),
		errors.Is(err, domain.ErrInvalidDifficulty):
		return "Difficulty must be easy, normal, or hard"

	case errors.Is(err, domain.ErrSessionNameEmpty):
		return "Session name cannot be empty"

	case errors.Is(err, domain.ErrSessionNoCards):
		return "Session must contain at least one card"

	case errors.Is(err, generation.ErrEmptyDocument):
		return "Document text cannot be empty"

	// Generation upstream problems
	case errors.Is(err, generation.ErrContentBlocked):
		return "The document was rejected by the content filter"

	case errors.Is(err, generation.ErrMalformedOutput),
		errors.Is(err, generation.ErrEmptyOutput):
		return "Card generation produced unusable output, please try again"

	case errors.Is(err, generation.ErrUpstreamFailure):
		return "Card generation service is unavailable, please try again"

	default:
		if store.IsParseError(err) {
			return "Stored session data is corrupt"
		}
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example format: "Key: 'LoginRequest.Username' Error:Field validation
	// for 'Username' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
