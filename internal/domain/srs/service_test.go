package srs

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/studydeck/studydeck-api/internal/domain"
)

func TestNewDefaultService(t *testing.T) {
	t.Parallel() // Enable parallel execution
	service := NewDefaultService()
	if service == nil {
		t.Fatal("Expected non-nil service")
	}

	defaultService, ok := service.(*defaultService)
	if !ok {
		t.Fatal("Expected *defaultService type")
	}

	if defaultService.params == nil {
		t.Fatal("Expected non-nil params")
	}

	if service.MasteryThreshold() != 5 {
		t.Errorf("Expected default mastery threshold 5, got %d", service.MasteryThreshold())
	}
}

func TestServiceNilGuards(t *testing.T) {
	t.Parallel() // Enable parallel execution
	service := NewDefaultService()

	_, err := service.DueForPass(nil)
	require.ErrorIs(t, err, ErrNilSession)

	_, err = service.DueAt(nil, time.Now())
	require.ErrorIs(t, err, ErrNilSession)

	_, err = service.Rate(nil, domain.DifficultyEasy, time.Now())
	require.ErrorIs(t, err, ErrNilCard)

	card := attemptedCard(domain.DifficultyNormal)
	_, err = service.Rate(&card, "impossible", time.Now())
	require.ErrorIs(t, err, ErrInvalidDifficulty)
}

func TestPresentationOrder(t *testing.T) {
	t.Parallel() // Enable parallel execution
	service := NewServiceWithRand(NewDefaultParams(), rand.New(rand.NewSource(42)))

	cards := make([]domain.FlashCard, 10)
	for i := range cards {
		cards[i] = domain.FlashCard{ID: uuid.New()}
	}
	original := make([]domain.FlashCard, len(cards))
	copy(original, cards)

	shuffled := service.PresentationOrder(cards)

	require.Len(t, shuffled, len(cards))

	// The input slice must not be reordered
	for i := range cards {
		require.Equal(t, original[i].ID, cards[i].ID, "input slice was mutated")
	}

	// The output is a permutation of the input
	seen := make(map[uuid.UUID]bool, len(shuffled))
	for _, card := range shuffled {
		seen[card.ID] = true
	}
	for _, card := range cards {
		require.True(t, seen[card.ID], "card %s missing from permutation", card.ID)
	}
}

func TestRateThroughService(t *testing.T) {
	t.Parallel() // Enable parallel execution
	service := NewDefaultService()
	now := time.Now().UTC()

	card := attemptedCard(domain.DifficultyNormal)
	card.ConsecutiveEasy = 4

	update, err := service.Rate(&card, domain.DifficultyEasy, now)
	require.NoError(t, err)
	require.Equal(t, 5, update.ConsecutiveEasy)
	require.Equal(t, now.Add(7*24*time.Hour), update.NextReview)

	// Rating the card itself is left to the caller
	require.Equal(t, 4, card.ConsecutiveEasy, "Rate must not mutate the card")
	require.Nil(t, card.NextReview, "Rate must not mutate the card")
}
