package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/studydeck/studydeck-api/internal/api/shared"
	"github.com/studydeck/studydeck-api/internal/domain"
	"github.com/studydeck/studydeck-api/internal/platform/logger"
	"github.com/studydeck/studydeck-api/internal/service/review"
)

// ReviewHandler handles review-pass HTTP requests. All routes operate on the
// pass of the session named in the URL.
type ReviewHandler struct {
	reviewService review.Service
	logger        *slog.Logger
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviewService review.Service, logger *slog.Logger) *ReviewHandler {
	if logger == nil {
		panic("logger cannot be nil for ReviewHandler")
	}

	return &ReviewHandler{
		reviewService: reviewService,
		logger:        logger.With(slog.String("component", "review_handler")),
	}
}

// StartPass handles POST /sessions/{id}/review requests.
func (h *ReviewHandler) StartPass(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	sessionID, ok := h.sessionIDFromURL(w, r)
	if !ok {
		return
	}

	view, err := h.reviewService.Start(r.Context(), sessionID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("review pass started",
		slog.String("session_id", sessionID.String()),
		slog.String("state", string(view.State)))
	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// GetCurrent handles GET /sessions/{id}/review requests.
func (h *ReviewHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionIDFromURL(w, r)
	if !ok {
		return
	}

	view, err := h.reviewService.Current(r.Context(), sessionID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// SubmitAnswer handles POST /sessions/{id}/review/answer requests.
func (h *ReviewHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionIDFromURL(w, r)
	if !ok {
		return
	}

	var req SubmitAnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	view, err := h.reviewService.SubmitAnswer(r.Context(), sessionID, req.Answer)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// SubmitAssessment handles POST /sessions/{id}/review/assessment requests.
func (h *ReviewHandler) SubmitAssessment(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionIDFromURL(w, r)
	if !ok {
		return
	}

	var req AssessmentRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	view, err := h.reviewService.ConfirmCorrectness(r.Context(), sessionID, *req.Correct)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// SubmitRating handles POST /sessions/{id}/review/rating requests.
func (h *ReviewHandler) SubmitRating(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionIDFromURL(w, r)
	if !ok {
		return
	}

	var req RatingRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	view, err := h.reviewService.RateDifficulty(r.Context(), sessionID, domain.Difficulty(req.Difficulty))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// RestartSession handles POST /sessions/{id}/review/restart requests.
func (h *ReviewHandler) RestartSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	sessionID, ok := h.sessionIDFromURL(w, r)
	if !ok {
		return
	}

	view, err := h.reviewService.Restart(r.Context(), sessionID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("session restarted", slog.String("session_id", sessionID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// ExitPass handles POST /sessions/{id}/review/exit requests. The pass
// position is checkpointed so a later pass can resume near where the user
// left off.
func (h *ReviewHandler) ExitPass(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionIDFromURL(w, r)
	if !ok {
		return
	}

	if err := h.reviewService.Exit(r.Context(), sessionID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ReviewHandler) sessionIDFromURL(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	sessionID, err := uuid.Parse(raw)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid session ID")
		return uuid.Nil, false
	}
	return sessionID, true
}
