package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/studydeck/studydeck-api/internal/domain"
)

// SessionRepository defines CRUD operations over session aggregates, layered
// on the collection store's whole-collection read-modify-write. It owns ID
// generation and the invariant that a card always belongs to exactly one
// session.
//
// Mutations referencing a missing session or card are silent no-ops
// (idempotent-delete semantics); reads that must distinguish absence return
// ErrSessionNotFound.
type SessionRepository interface {
	// CreateSession builds a session from generator drafts, assigns fresh
	// unique IDs to the session and every card, applies creation defaults,
	// and appends it to the persisted collection.
	CreateSession(ctx context.Context, name string, drafts []domain.DraftCard) (*domain.Session, error)

	// GetSessions returns the full collection in insertion order,
	// most-recently-created last.
	GetSessions(ctx context.Context) ([]domain.Session, error)

	// GetSession returns the session with the given ID, or ErrSessionNotFound.
	GetSession(ctx context.Context, id uuid.UUID) (*domain.Session, error)

	// UpdateSession shallow-merges the patch into the stored session.
	// No-op if the session does not exist.
	UpdateSession(ctx context.Context, id uuid.UUID, patch domain.SessionPatch) error

	// UpdateCard shallow-merges the patch into the named card inside the
	// named session. No-op if either ID does not exist.
	UpdateCard(ctx context.Context, sessionID, cardID uuid.UUID, patch domain.CardPatch) error

	// DeleteSession removes the session and all its cards permanently.
	// No-op if the session does not exist.
	DeleteSession(ctx context.Context, id uuid.UUID) error

	// GetAllCards flattens all sessions' cards, for cross-session statistics.
	GetAllCards(ctx context.Context) ([]domain.FlashCard, error)
}

// Verify interface compliance at compile time
var _ SessionRepository = (*collectionSessionRepository)(nil)

// collectionSessionRepository implements SessionRepository on a
// CollectionStore. Every mutation is one load-modify-save cycle under a
// mutex, so all access within this process is funneled through a single
// writer. Concurrent writers in other processes still race at
// whole-collection granularity (last write wins); acceptable for the
// single-actor client this backs.
type collectionSessionRepository struct {
	collection CollectionStore
	mu         sync.Mutex
	logger     *slog.Logger
}

// NewSessionRepository creates a SessionRepository backed by the given
// collection store. If logger is nil, a default logger will be used.
func NewSessionRepository(collection CollectionStore, logger *slog.Logger) SessionRepository {
	if collection == nil {
		panic("collection store cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &collectionSessionRepository{
		collection: collection,
		logger:     logger.With(slog.String("component", "session_repository")),
	}
}

// CreateSession implements SessionRepository.CreateSession.
func (r *collectionSessionRepository) CreateSession(
	ctx context.Context,
	name string,
	drafts []domain.DraftCard,
) (*domain.Session, error) {
	session, err := domain.NewSession(name, drafts)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	sessions, err := r.collection.Load(ctx)
	if err != nil {
		return nil, err
	}

	sessions = append(sessions, *session)
	if err := r.collection.Save(ctx, sessions); err != nil {
		return nil, err
	}

	r.logger.Info("session created",
		slog.String("session_id", session.ID.String()),
		slog.String("name", session.Name),
		slog.Int("total_cards", session.TotalCards))

	return session, nil
}

// GetSessions implements SessionRepository.GetSessions.
func (r *collectionSessionRepository) GetSessions(ctx context.Context) ([]domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.collection.Load(ctx)
}

// GetSession implements SessionRepository.GetSession.
func (r *collectionSessionRepository) GetSession(
	ctx context.Context,
	id uuid.UUID,
) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessions, err := r.collection.Load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range sessions {
		if sessions[i].ID == id {
			return &sessions[i], nil
		}
	}

	return nil, ErrSessionNotFound
}

// UpdateSession implements SessionRepository.UpdateSession.
func (r *collectionSessionRepository) UpdateSession(
	ctx context.Context,
	id uuid.UUID,
	patch domain.SessionPatch,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessions, err := r.collection.Load(ctx)
	if err != nil {
		return err
	}

	for i := range sessions {
		if sessions[i].ID == id {
			patch.Apply(&sessions[i])
			return r.collection.Save(ctx, sessions)
		}
	}

	r.logger.Debug("update of missing session ignored", slog.String("session_id", id.String()))
	return nil
}

// UpdateCard implements SessionRepository.UpdateCard.
func (r *collectionSessionRepository) UpdateCard(
	ctx context.Context,
	sessionID, cardID uuid.UUID,
	patch domain.CardPatch,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessions, err := r.collection.Load(ctx)
	if err != nil {
		return err
	}

	for i := range sessions {
		if sessions[i].ID != sessionID {
			continue
		}
		if card := sessions[i].Card(cardID); card != nil {
			patch.Apply(card)
			return r.collection.Save(ctx, sessions)
		}
		break
	}

	r.logger.Debug("update of missing card ignored",
		slog.String("session_id", sessionID.String()),
		slog.String("card_id", cardID.String()))
	return nil
}

// DeleteSession implements SessionRepository.DeleteSession.
func (r *collectionSessionRepository) DeleteSession(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessions, err := r.collection.Load(ctx)
	if err != nil {
		return err
	}

	filtered := sessions[:0]
	found := false
	for _, session := range sessions {
		if session.ID == id {
			found = true
			continue
		}
		filtered = append(filtered, session)
	}

	if !found {
		r.logger.Debug("delete of missing session ignored", slog.String("session_id", id.String()))
		return nil
	}

	if err := r.collection.Save(ctx, filtered); err != nil {
		return err
	}

	r.logger.Info("session deleted", slog.String("session_id", id.String()))
	return nil
}

// GetAllCards implements SessionRepository.GetAllCards.
func (r *collectionSessionRepository) GetAllCards(ctx context.Context) ([]domain.FlashCard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessions, err := r.collection.Load(ctx)
	if err != nil {
		return nil, err
	}

	var cards []domain.FlashCard
	for i := range sessions {
		cards = append(cards, sessions[i].Cards...)
	}
	return cards, nil
}
