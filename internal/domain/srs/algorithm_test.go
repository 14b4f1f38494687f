package srs

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/studydeck/studydeck-api/internal/domain"
)

func attemptedCard(difficulty domain.Difficulty) domain.FlashCard {
	answer := "something"
	return domain.FlashCard{
		ID:         uuid.New(),
		Question:   "q",
		Answer:     "a",
		Type:       domain.CardTypeText,
		Difficulty: difficulty,
		UserAnswer: &answer,
	}
}

func TestIsDueForPass(t *testing.T) {
	t.Parallel() // Enable parallel execution
	params := NewDefaultParams()

	testCases := []struct {
		name          string
		card          domain.FlashCard
		studySessions int
		expected      bool
	}{
		{
			name:          "unattempted card is always due",
			card:          domain.FlashCard{Difficulty: domain.DifficultyEasy},
			studySessions: 3,
			expected:      true,
		},
		{
			name:          "easy card suppressed off-cadence",
			card:          attemptedCard(domain.DifficultyEasy),
			studySessions: 4,
			expected:      false,
		},
		{
			name:          "easy card due every fifth pass",
			card:          attemptedCard(domain.DifficultyEasy),
			studySessions: 5,
			expected:      true,
		},
		{
			name:          "easy card due on tenth pass",
			card:          attemptedCard(domain.DifficultyEasy),
			studySessions: 10,
			expected:      true,
		},
		{
			name:          "normal card due every second pass",
			card:          attemptedCard(domain.DifficultyNormal),
			studySessions: 2,
			expected:      true,
		},
		{
			name:          "normal card suppressed off-cadence",
			card:          attemptedCard(domain.DifficultyNormal),
			studySessions: 3,
			expected:      false,
		},
		{
			name:          "hard card due every pass",
			card:          attemptedCard(domain.DifficultyHard),
			studySessions: 3,
			expected:      true,
		},
		{
			name:          "hard card due on cadence passes too",
			card:          attemptedCard(domain.DifficultyHard),
			studySessions: 10,
			expected:      true,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := isDueForPass(&tc.card, tc.studySessions, params)
			if got != tc.expected {
				t.Errorf("Expected due=%v at studySessions=%d, got %v",
					tc.expected, tc.studySessions, got)
			}
		})
	}
}

func TestDueForPassPreservesCardOrder(t *testing.T) {
	t.Parallel() // Enable parallel execution
	params := NewDefaultParams()

	easy := attemptedCard(domain.DifficultyEasy)
	hard := attemptedCard(domain.DifficultyHard)
	fresh := domain.FlashCard{ID: uuid.New(), Difficulty: domain.DifficultyNormal}

	session := &domain.Session{
		ID:            uuid.New(),
		Name:          "Biology",
		Cards:         []domain.FlashCard{easy, hard, fresh},
		StudySessions: 3,
	}

	due := dueForPass(session, params)
	if len(due) != 2 {
		t.Fatalf("Expected 2 due cards, got %d", len(due))
	}
	if due[0].ID != hard.ID || due[1].ID != fresh.ID {
		t.Error("Expected due subset to preserve card order")
	}
}

func TestRate(t *testing.T) {
	t.Parallel() // Enable parallel execution
	params := NewDefaultParams()
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	testCases := []struct {
		name            string
		consecutiveEasy int
		difficulty      domain.Difficulty
		wantNextReview  time.Time
		wantStreak      int
	}{
		{
			name:            "easy extends the streak and schedules a week out",
			consecutiveEasy: 2,
			difficulty:      domain.DifficultyEasy,
			wantNextReview:  now.Add(7 * 24 * time.Hour),
			wantStreak:      3,
		},
		{
			name:            "normal resets the streak and schedules a day out",
			consecutiveEasy: 4,
			difficulty:      domain.DifficultyNormal,
			wantNextReview:  now.Add(24 * time.Hour),
			wantStreak:      0,
		},
		{
			name:            "hard resets the streak and schedules four hours out",
			consecutiveEasy: 1,
			difficulty:      domain.DifficultyHard,
			wantNextReview:  now.Add(4 * time.Hour),
			wantStreak:      0,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			card := attemptedCard(domain.DifficultyNormal)
			card.ConsecutiveEasy = tc.consecutiveEasy

			update := rate(&card, tc.difficulty, now, params)

			if !update.NextReview.Equal(tc.wantNextReview) {
				t.Errorf("Expected next review %v, got %v", tc.wantNextReview, update.NextReview)
			}
			if update.ConsecutiveEasy != tc.wantStreak {
				t.Errorf("Expected streak %d, got %d", tc.wantStreak, update.ConsecutiveEasy)
			}
		})
	}
}

func TestDueAt(t *testing.T) {
	t.Parallel() // Enable parallel execution
	now := time.Now().UTC()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	never := domain.FlashCard{ID: uuid.New()}
	overdue := domain.FlashCard{ID: uuid.New(), NextReview: &past}
	exact := domain.FlashCard{ID: uuid.New(), NextReview: &now}
	scheduled := domain.FlashCard{ID: uuid.New(), NextReview: &future}

	session := &domain.Session{
		ID:    uuid.New(),
		Name:  "Biology",
		Cards: []domain.FlashCard{never, overdue, exact, scheduled},
	}

	due := dueAt(session, now)
	if len(due) != 3 {
		t.Fatalf("Expected 3 due cards, got %d", len(due))
	}
	for _, card := range due {
		if card.ID == scheduled.ID {
			t.Error("Expected a future-scheduled card to be excluded")
		}
	}
}
