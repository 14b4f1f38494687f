package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/studydeck/studydeck-api/internal/domain"
	"github.com/studydeck/studydeck-api/internal/store"
)

// progressKey builds the per-session checkpoint key.
func progressKey(sessionID uuid.UUID) string {
	return "session-progress-" + sessionID.String()
}

// ProgressStore implements store.ProgressStore on a KV database. Each
// session's checkpoint lives under its own key and is overwritten wholesale
// on every pass exit.
type ProgressStore struct {
	kv     *KV
	logger *slog.Logger
}

// Verify interface compliance at compile time
var _ store.ProgressStore = (*ProgressStore)(nil)

// NewProgressStore creates a new SQLite-backed progress store.
// If logger is nil, a default logger will be used.
func NewProgressStore(kv *KV, logger *slog.Logger) *ProgressStore {
	if kv == nil {
		panic("kv cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &ProgressStore{
		kv:     kv,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

// Get implements store.ProgressStore.Get.
func (s *ProgressStore) Get(ctx context.Context, sessionID uuid.UUID) (*domain.PassProgress, error) {
	raw, err := s.kv.Get(ctx, progressKey(sessionID))
	if err != nil {
		if errors.Is(err, store.ErrNoValue) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}

	var progress domain.PassProgress
	if err := json.Unmarshal(raw, &progress); err != nil {
		// A corrupt checkpoint only loses UI position, never card data, so it
		// is discarded rather than propagated.
		s.logger.Warn("discarding corrupt progress checkpoint",
			slog.String("session_id", sessionID.String()),
			slog.String("error", err.Error()))
		return nil, store.ErrNotFound
	}

	return &progress, nil
}

// Put implements store.ProgressStore.Put.
func (s *ProgressStore) Put(
	ctx context.Context,
	sessionID uuid.UUID,
	progress *domain.PassProgress,
) error {
	raw, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("failed to serialize progress: %w", err)
	}

	if err := s.kv.Put(ctx, progressKey(sessionID), raw); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}

// Delete implements store.ProgressStore.Delete.
func (s *ProgressStore) Delete(ctx context.Context, sessionID uuid.UUID) error {
	return s.kv.Delete(ctx, progressKey(sessionID))
}
