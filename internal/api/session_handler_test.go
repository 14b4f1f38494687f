package api_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studydeck/studydeck-api/internal/api"
	"github.com/studydeck/studydeck-api/internal/domain"
	"github.com/studydeck/studydeck-api/internal/domain/srs"
	"github.com/studydeck/studydeck-api/internal/generation"
	"github.com/studydeck/studydeck-api/internal/mocks"
	"github.com/studydeck/studydeck-api/internal/service"
	"github.com/studydeck/studydeck-api/internal/store"
)

type handlerFixture struct {
	router    chi.Router
	repo      store.SessionRepository
	generator *mocks.MockGenerator
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	collection := mocks.NewMockCollectionStore()
	repo := store.NewSessionRepository(collection, nil)
	generator := mocks.NewMockGeneratorWithDrafts([]domain.DraftCard{
		{Question: "What is photosynthesis?", Answer: "Conversion of light to chemical energy"},
		{Question: "What is osmosis?", Answer: "Diffusion of water across a membrane"},
	})
	scheduler := srs.NewDefaultService()
	stats := service.NewStatsService(repo, scheduler, nil)
	logger := slog.Default()

	handler := api.NewSessionHandler(repo, generator, scheduler, stats, logger)

	r := chi.NewRouter()
	r.Post("/sessions", handler.CreateSession)
	r.Get("/sessions", handler.ListSessions)
	r.Get("/sessions/{id}", handler.GetSession)
	r.Delete("/sessions/{id}", handler.DeleteSession)
	r.Get("/sessions/{id}/due", handler.GetDueCards)
	r.Get("/stats", handler.GetStats)

	return &handlerFixture{router: r, repo: repo, generator: generator}
}

func (f *handlerFixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestCreateSessionEndpoint(t *testing.T) {
	t.Parallel()
	f := newHandlerFixture(t)

	rec := f.do(t, http.MethodPost, "/sessions", api.CreateSessionRequest{
		Name:         "Biology",
		DocumentText: "chapter one text",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var session domain.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	assert.Equal(t, "Biology", session.Name)
	assert.Equal(t, 2, session.TotalCards)

	// The document text reached the generator
	assert.Equal(t, 1, f.generator.GenerateDraftsCalls.Count)
	assert.Equal(t, "chapter one text", f.generator.GenerateDraftsCalls.DocumentTexts[0])
}

func TestCreateSessionValidation(t *testing.T) {
	t.Parallel()
	f := newHandlerFixture(t)

	// Missing name
	rec := f.do(t, http.MethodPost, "/sessions", api.CreateSessionRequest{DocumentText: "text"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Missing document
	rec = f.do(t, http.MethodPost, "/sessions", api.CreateSessionRequest{Name: "Biology"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, 0, f.generator.GenerateDraftsCalls.Count, "invalid requests never reach the generator")
}

func TestCreateSessionGeneratorFailure(t *testing.T) {
	t.Parallel()
	f := newHandlerFixture(t)
	f.generator.Drafts = nil
	f.generator.Err = generation.ErrEmptyOutput

	rec := f.do(t, http.MethodPost, "/sessions", api.CreateSessionRequest{
		Name:         "Biology",
		DocumentText: "text",
	})
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	// Nothing was persisted
	list := f.do(t, http.MethodGet, "/sessions", nil)
	require.Equal(t, http.StatusOK, list.Code)
	var summaries []api.SessionSummary
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &summaries))
	assert.Empty(t, summaries)
}

func TestGetAndDeleteSessionEndpoints(t *testing.T) {
	t.Parallel()
	f := newHandlerFixture(t)

	rec := f.do(t, http.MethodPost, "/sessions", api.CreateSessionRequest{
		Name:         "Biology",
		DocumentText: "text",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var session domain.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))

	rec = f.do(t, http.MethodGet, "/sessions/"+session.ID.String(), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// All fresh cards are due
	rec = f.do(t, http.MethodGet, "/sessions/"+session.ID.String()+"/due", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var due api.DueCardsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &due))
	assert.Equal(t, 2, due.Count)

	rec = f.do(t, http.MethodDelete, "/sessions/"+session.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodGet, "/sessions/"+session.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Malformed IDs are rejected before hitting the store
	rec = f.do(t, http.MethodGet, "/sessions/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatsEndpoint(t *testing.T) {
	t.Parallel()
	f := newHandlerFixture(t)

	rec := f.do(t, http.MethodPost, "/sessions", api.CreateSessionRequest{
		Name:         "Biology",
		DocumentText: "text",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats service.StudyStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.TotalSessions)
	assert.Equal(t, 2, stats.TotalCards)
}
