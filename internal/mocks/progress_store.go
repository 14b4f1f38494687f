package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/studydeck/studydeck-api/internal/domain"
	"github.com/studydeck/studydeck-api/internal/store"
)

// Verify interface compliance at compile time
var _ store.ProgressStore = (*MockProgressStore)(nil)

// MockProgressStore implements store.ProgressStore in memory.
type MockProgressStore struct {
	// GetErr, PutErr and DeleteErr are returned when set, before touching state
	GetErr    error
	PutErr    error
	DeleteErr error

	mu          sync.Mutex
	checkpoints map[uuid.UUID]domain.PassProgress

	// Call tracking for verification
	PutCalls    int
	DeleteCalls int
}

// NewMockProgressStore creates an empty in-memory progress store.
func NewMockProgressStore() *MockProgressStore {
	return &MockProgressStore{
		checkpoints: make(map[uuid.UUID]domain.PassProgress),
	}
}

// Get implements the store.ProgressStore interface.
func (m *MockProgressStore) Get(ctx context.Context, sessionID uuid.UUID) (*domain.PassProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetErr != nil {
		return nil, m.GetErr
	}

	checkpoint, ok := m.checkpoints[sessionID]
	if !ok {
		return nil, store.ErrNotFound
	}

	copied := checkpoint
	copied.AnsweredCardIDs = append([]uuid.UUID(nil), checkpoint.AnsweredCardIDs...)
	return &copied, nil
}

// Put implements the store.ProgressStore interface.
func (m *MockProgressStore) Put(ctx context.Context, sessionID uuid.UUID, progress *domain.PassProgress) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PutCalls++

	if m.PutErr != nil {
		return m.PutErr
	}

	copied := *progress
	copied.AnsweredCardIDs = append([]uuid.UUID(nil), progress.AnsweredCardIDs...)
	m.checkpoints[sessionID] = copied
	return nil
}

// Delete implements the store.ProgressStore interface.
func (m *MockProgressStore) Delete(ctx context.Context, sessionID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DeleteCalls++

	if m.DeleteErr != nil {
		return m.DeleteErr
	}

	delete(m.checkpoints, sessionID)
	return nil
}
