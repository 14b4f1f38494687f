package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/studydeck/studydeck-api/internal/domain"
	"github.com/studydeck/studydeck-api/internal/store"
)

// sessionsKey is the single key under which the whole session collection is
// persisted.
const sessionsKey = "flash-card-sessions"

// CollectionStore implements store.CollectionStore on a KV database. The full
// session collection is serialized as one JSON document; timestamps round-trip
// through RFC 3339 encoding.
type CollectionStore struct {
	kv     *KV
	logger *slog.Logger
}

// Verify interface compliance at compile time
var _ store.CollectionStore = (*CollectionStore)(nil)

// NewCollectionStore creates a new SQLite-backed collection store.
// If logger is nil, a default logger will be used.
func NewCollectionStore(kv *KV, logger *slog.Logger) *CollectionStore {
	if kv == nil {
		panic("kv cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &CollectionStore{
		kv:     kv,
		logger: logger.With(slog.String("component", "collection_store")),
	}
}

// Load implements store.CollectionStore.Load.
// A missing value yields an empty collection; a corrupt value fails with a
// *store.ParseError that is propagated, never masked as emptiness.
func (s *CollectionStore) Load(ctx context.Context) ([]domain.Session, error) {
	raw, err := s.kv.Get(ctx, sessionsKey)
	if err != nil {
		if errors.Is(err, store.ErrNoValue) {
			return []domain.Session{}, nil
		}
		return nil, fmt.Errorf("failed to load session collection: %w", err)
	}

	var sessions []domain.Session
	if err := json.Unmarshal(raw, &sessions); err != nil {
		s.logger.Error("persisted session collection is corrupt",
			slog.Int("value_bytes", len(raw)),
			slog.String("error", err.Error()))
		return nil, store.NewParseError(sessionsKey, err)
	}

	return sessions, nil
}

// Save implements store.CollectionStore.Save.
func (s *CollectionStore) Save(ctx context.Context, sessions []domain.Session) error {
	raw, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("failed to serialize session collection: %w", err)
	}

	if err := s.kv.Put(ctx, sessionsKey, raw); err != nil {
		return fmt.Errorf("failed to save session collection: %w", err)
	}

	s.logger.Debug("session collection saved",
		slog.Int("sessions", len(sessions)),
		slog.Int("value_bytes", len(raw)))
	return nil
}
