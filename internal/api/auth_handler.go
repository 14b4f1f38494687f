package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/studydeck/studydeck-api/internal/api/shared"
	"github.com/studydeck/studydeck-api/internal/config"
	"github.com/studydeck/studydeck-api/internal/service/auth"
)

// AuthHandler handles authentication-related API requests. The tool serves a
// single configured study user, so credentials are checked against the
// configuration rather than a user table.
type AuthHandler struct {
	authConfig  config.AuthConfig
	jwtService  auth.JWTService
	credentials auth.CredentialVerifier
	logger      *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	authConfig config.AuthConfig,
	jwtService auth.JWTService,
	credentials auth.CredentialVerifier,
	logger *slog.Logger,
) *AuthHandler {
	if jwtService == nil {
		panic("jwt service cannot be nil for AuthHandler")
	}

	if credentials == nil {
		panic("credential verifier cannot be nil for AuthHandler")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &AuthHandler{
		authConfig:  authConfig,
		jwtService:  jwtService,
		credentials: credentials,
		logger:      logger.With(slog.String("component", "auth_handler")),
	}
}

// Login handles the /auth/login endpoint.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if err := h.credentials.Verify(req.Username, req.Password); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	accessToken, err := h.jwtService.GenerateToken(r.Context(), req.Username)
	if err != nil {
		h.logger.Error("failed to generate access token", "error", err)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	refreshToken, err := h.jwtService.GenerateRefreshToken(r.Context(), req.Username)
	if err != nil {
		h.logger.Error("failed to generate refresh token", "error", err)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		Username:     req.Username,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    h.accessTokenExpiry().Format(time.RFC3339),
	})
}

// RefreshToken handles the /auth/refresh endpoint. A valid refresh token is
// exchanged for a fresh access/refresh token pair.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	accessToken, err := h.jwtService.GenerateToken(r.Context(), claims.Subject)
	if err != nil {
		h.logger.Error("failed to generate access token", "error", err)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	refreshToken, err := h.jwtService.GenerateRefreshToken(r.Context(), claims.Subject)
	if err != nil {
		h.logger.Error("failed to generate refresh token", "error", err)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, RefreshTokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    h.accessTokenExpiry().Format(time.RFC3339),
	})
}

func (h *AuthHandler) accessTokenExpiry() time.Time {
	lifetime := time.Duration(h.authConfig.TokenLifetimeMinutes) * time.Minute
	return time.Now().UTC().Add(lifetime)
}
