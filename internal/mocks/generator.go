package mocks

import (
	"context"
	"sync"

	"github.com/studydeck/studydeck-api/internal/domain"
	"github.com/studydeck/studydeck-api/internal/generation"
)

// Verify interface compliance at compile time
var _ generation.Generator = (*MockGenerator)(nil)

// MockGenerator implements generation.Generator for testing
type MockGenerator struct {
	// GenerateDraftsFn allows test cases to mock the GenerateDrafts behavior
	GenerateDraftsFn func(ctx context.Context, documentText string) ([]domain.DraftCard, error)

	// Default response values
	Drafts []domain.DraftCard
	Err    error

	// Call tracking for verification
	GenerateDraftsCalls struct {
		mu            sync.Mutex
		Count         int
		DocumentTexts []string
	}
}

// GenerateDrafts implements the generation.Generator interface
func (m *MockGenerator) GenerateDrafts(
	ctx context.Context,
	documentText string,
) ([]domain.DraftCard, error) {
	m.GenerateDraftsCalls.mu.Lock()
	m.GenerateDraftsCalls.Count++
	m.GenerateDraftsCalls.DocumentTexts = append(m.GenerateDraftsCalls.DocumentTexts, documentText)
	m.GenerateDraftsCalls.mu.Unlock()

	if m.GenerateDraftsFn != nil {
		return m.GenerateDraftsFn(ctx, documentText)
	}

	return m.Drafts, m.Err
}

// NewMockGeneratorWithDrafts creates a MockGenerator that returns the given drafts
func NewMockGeneratorWithDrafts(drafts []domain.DraftCard) *MockGenerator {
	return &MockGenerator{Drafts: drafts}
}

// NewMockGeneratorWithError creates a MockGenerator that returns the given error
func NewMockGeneratorWithError(err error) *MockGenerator {
	return &MockGenerator{Err: err}
}
