// Package mocks provides test doubles for the interfaces used across the
// application's service and store layers.
package mocks

import (
	"context"
	"sync"

	"github.com/studydeck/studydeck-api/internal/domain"
	"github.com/studydeck/studydeck-api/internal/store"
)

// Verify interface compliance at compile time
var _ store.CollectionStore = (*MockCollectionStore)(nil)

// MockCollectionStore implements store.CollectionStore in memory. The stored
// collection is deep-copied through JSON-free value copies on every Load and
// Save, so tests observe the same aliasing behavior a real serialized store
// gives them.
type MockCollectionStore struct {
	// LoadFn and SaveFn allow test cases to override behavior entirely
	LoadFn func(ctx context.Context) ([]domain.Session, error)
	SaveFn func(ctx context.Context, sessions []domain.Session) error

	// LoadErr and SaveErr are returned when set, before touching state
	LoadErr error
	SaveErr error

	mu       sync.Mutex
	sessions []domain.Session

	// Call tracking for verification
	LoadCalls int
	SaveCalls int
}

// NewMockCollectionStore creates an empty in-memory collection store.
func NewMockCollectionStore() *MockCollectionStore {
	return &MockCollectionStore{}
}

// Load implements the store.CollectionStore interface.
func (m *MockCollectionStore) Load(ctx context.Context) ([]domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LoadCalls++

	if m.LoadFn != nil {
		return m.LoadFn(ctx)
	}

	if m.LoadErr != nil {
		return nil, m.LoadErr
	}

	return copySessions(m.sessions), nil
}

// Save implements the store.CollectionStore interface.
func (m *MockCollectionStore) Save(ctx context.Context, sessions []domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SaveCalls++

	if m.SaveFn != nil {
		return m.SaveFn(ctx, sessions)
	}

	if m.SaveErr != nil {
		return m.SaveErr
	}

	m.sessions = copySessions(sessions)
	return nil
}

// Seed replaces the stored collection, bypassing Save accounting.
func (m *MockCollectionStore) Seed(sessions []domain.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = copySessions(sessions)
}

// Stored returns a copy of the current collection for assertions.
func (m *MockCollectionStore) Stored() []domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copySessions(m.sessions)
}

// copySessions copies the collection including each session's card slice, so
// callers can mutate what they get back without reaching shared state.
func copySessions(sessions []domain.Session) []domain.Session {
	copied := make([]domain.Session, len(sessions))
	for i := range sessions {
		copied[i] = sessions[i]
		copied[i].Cards = make([]domain.FlashCard, len(sessions[i].Cards))
		copy(copied[i].Cards, sessions[i].Cards)
	}
	return copied
}
