package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/studydeck/studydeck-api/internal/domain"
)

// CollectionStore defines the interface for durable persistence of the entire
// session collection as one unit. There are no partial or merge semantics:
// callers must read-modify-write the whole collection, which the session
// repository funnels through a single guarded cycle.
type CollectionStore interface {
	// Load returns the persisted sessions in insertion order. It returns an
	// empty slice if nothing has been persisted yet. All timestamp fields are
	// deserialized back into time values for every session and every card.
	// A corrupt persisted value fails with a *ParseError.
	Load(ctx context.Context) ([]domain.Session, error)

	// Save serializes the full collection and overwrites the prior persisted
	// value.
	Save(ctx context.Context, sessions []domain.Session) error
}

// ProgressStore defines the interface for the per-session review checkpoint,
// persisted independently of the session collection and overwritten wholesale
// on every pass exit.
type ProgressStore interface {
	// Get returns the checkpoint for the session, or ErrNotFound if none has
	// been saved.
	Get(ctx context.Context, sessionID uuid.UUID) (*domain.PassProgress, error)

	// Put overwrites the checkpoint for the session.
	Put(ctx context.Context, sessionID uuid.UUID, progress *domain.PassProgress) error

	// Delete removes the checkpoint for the session. Deleting a missing
	// checkpoint is a no-op.
	Delete(ctx context.Context, sessionID uuid.UUID) error
}
