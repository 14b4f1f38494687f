// Package api provides HTTP handlers for the API.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/studydeck/studydeck-api/internal/api/shared"
	"github.com/studydeck/studydeck-api/internal/domain"
	"github.com/studydeck/studydeck-api/internal/domain/srs"
	"github.com/studydeck/studydeck-api/internal/generation"
	"github.com/studydeck/studydeck-api/internal/platform/logger"
	"github.com/studydeck/studydeck-api/internal/service"
	"github.com/studydeck/studydeck-api/internal/store"
)

// DueCardsResponse lists the session's cards eligible for review right now.
type DueCardsResponse struct {
	SessionID uuid.UUID          `json:"session_id"`
	Count     int                `json:"count"`
	Cards     []domain.FlashCard `json:"cards"`
}

// SessionHandler handles session CRUD and query requests.
type SessionHandler struct {
	repo      store.SessionRepository
	generator generation.Generator
	scheduler srs.Service
	stats     *service.StatsService
	logger    *slog.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(
	repo store.SessionRepository,
	generator generation.Generator,
	scheduler srs.Service,
	stats *service.StatsService,
	logger *slog.Logger,
) *SessionHandler {
	if logger == nil {
		panic("logger cannot be nil for SessionHandler")
	}

	return &SessionHandler{
		repo:      repo,
		generator: generator,
		scheduler: scheduler,
		stats:     stats,
		logger:    logger.With(slog.String("component", "session_handler")),
	}
}

// CreateSession handles POST /sessions requests. The document text is turned
// into flashcard drafts by the generator and persisted as a new session.
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateSessionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	drafts, err := h.generator.GenerateDrafts(r.Context(), req.DocumentText)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	session, err := h.repo.CreateSession(r.Context(), req.Name, drafts)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("session created from document",
		slog.String("session_id", session.ID.String()),
		slog.Int("cards", session.TotalCards))
	shared.RespondWithJSON(w, r, http.StatusCreated, session)
}

// ListSessions handles GET /sessions requests.
func (h *SessionHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.repo.GetSessions(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	summaries := make([]SessionSummary, 0, len(sessions))
	for i := range sessions {
		summaries = append(summaries, SessionSummary{
			ID:             sessions[i].ID,
			Name:           sessions[i].Name,
			TotalCards:     sessions[i].TotalCards,
			CompletedCards: sessions[i].CompletedCards,
			StudySessions:  sessions[i].StudySessions,
			CreatedAt:      sessions[i].CreatedAt,
		})
	}

	shared.RespondWithJSON(w, r, http.StatusOK, summaries)
}

// GetSession handles GET /sessions/{id} requests.
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionIDFromURL(w, r)
	if !ok {
		return
	}

	session, err := h.repo.GetSession(r.Context(), sessionID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, session)
}

// DeleteSession handles DELETE /sessions/{id} requests. Deleting a missing
// session succeeds, matching the repository's idempotent-delete semantics.
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionIDFromURL(w, r)
	if !ok {
		return
	}

	if err := h.repo.DeleteSession(r.Context(), sessionID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetDueCards handles GET /sessions/{id}/due requests. It reports which of
// the session's cards have a next review that is absent or already past.
func (h *SessionHandler) GetDueCards(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionIDFromURL(w, r)
	if !ok {
		return
	}

	session, err := h.repo.GetSession(r.Context(), sessionID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	due, err := h.scheduler.DueAt(session, time.Now().UTC())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DueCardsResponse{
		SessionID: sessionID,
		Count:     len(due),
		Cards:     due,
	})
}

// GetStats handles GET /stats requests.
func (h *SessionHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Compute(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// sessionIDFromURL parses the {id} route parameter, responding with 400 on a
// malformed ID. The boolean reports whether the caller should proceed.
func (h *SessionHandler) sessionIDFromURL(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	sessionID, err := uuid.Parse(raw)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid session ID")
		return uuid.Nil, false
	}
	return sessionID, true
}
