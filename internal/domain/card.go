package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// CardType distinguishes how a card is answered.
type CardType string

// Possible card type values
const (
	CardTypeText           CardType = "text"
	CardTypeMultipleChoice CardType = "multiple_choice"
)

// Difficulty is the user-assigned difficulty tier of a card.
type Difficulty string

// Possible difficulty values
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyNormal Difficulty = "normal"
	DifficultyHard   Difficulty = "hard"
)

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardQuestionEmpty is returned when a card's question is empty.
	ErrCardQuestionEmpty = errors.New("card question cannot be empty")

	// ErrCardAnswerEmpty is returned when a card's answer is empty.
	ErrCardAnswerEmpty = errors.New("card answer cannot be empty")

	// ErrInvalidCardType is returned when a card's type is not a known variant.
	ErrInvalidCardType = errors.New("invalid card type")

	// ErrInvalidDifficulty is returned when a difficulty is not a known variant.
	ErrInvalidDifficulty = errors.New("invalid difficulty")

	// ErrCardOptionsMissing is returned when a multiple-choice card has no options
	// or its answer is not among them.
	ErrCardOptionsMissing = errors.New("multiple-choice card must list its answer among the options")

	// ErrNegativeCounter is returned when a review counter would go negative.
	ErrNegativeCounter = errors.New("review counters cannot be negative")
)

// FlashCard is a single question/answer pair owned by exactly one session.
// UserAnswer nil means the card has never been attempted; IsCorrect nil means
// correctness is not yet known (text cards stay unset until self-assessment).
// NextReview nil means the card is eligible immediately.
type FlashCard struct {
	ID              uuid.UUID  `json:"id"`
	Question        string     `json:"question"`
	Answer          string     `json:"answer"`
	Type            CardType   `json:"type"`
	Options         []string   `json:"options,omitempty"`
	Difficulty      Difficulty `json:"difficulty"`
	UserAnswer      *string    `json:"user_answer,omitempty"`
	IsCorrect       *bool      `json:"is_correct,omitempty"`
	LastReviewed    *time.Time `json:"last_reviewed,omitempty"`
	NextReview      *time.Time `json:"next_review,omitempty"`
	ReviewCount     int        `json:"review_count"`
	ConsecutiveEasy int        `json:"consecutive_easy"`
	CreatedAt       time.Time  `json:"created_at"`
	Source          string     `json:"source,omitempty"`
}

// DraftCard is the unvalidated question/answer/source shape produced by the
// card generator, before it is assigned an ID and incorporated into a session.
type DraftCard struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Type     CardType `json:"type"`
	Options  []string `json:"options,omitempty"`
	Source   string   `json:"source,omitempty"`
}

// NewCard creates a FlashCard from a draft. It assigns a fresh time-ordered ID
// and the creation defaults: difficulty normal, zero review counters, no answer.
// Returns an error if the draft fails validation.
func NewCard(draft DraftCard) (*FlashCard, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	card := &FlashCard{
		ID:              id,
		Question:        draft.Question,
		Answer:          draft.Answer,
		Type:            draft.Type,
		Options:         draft.Options,
		Difficulty:      DifficultyNormal,
		ReviewCount:     0,
		ConsecutiveEasy: 0,
		CreatedAt:       time.Now().UTC(),
		Source:          draft.Source,
	}

	if card.Type == "" {
		card.Type = CardTypeText
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the FlashCard has valid data.
// Returns an error if any field fails validation.
func (c *FlashCard) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if c.Question == "" {
		return ErrCardQuestionEmpty
	}

	if c.Answer == "" {
		return ErrCardAnswerEmpty
	}

	if !IsValidCardType(c.Type) {
		return ErrInvalidCardType
	}

	if !IsValidDifficulty(c.Difficulty) {
		return ErrInvalidDifficulty
	}

	if c.Type == CardTypeMultipleChoice && !containsOption(c.Options, c.Answer) {
		return ErrCardOptionsMissing
	}

	if c.ReviewCount < 0 || c.ConsecutiveEasy < 0 {
		return ErrNegativeCounter
	}

	return nil
}

// Attempted reports whether the card has ever had an answer submitted.
func (c *FlashCard) Attempted() bool {
	return c.UserAnswer != nil
}

// CardPatch holds the fields of a FlashCard that can be shallow-merged into a
// stored card. Nil fields are left untouched.
type CardPatch struct {
	UserAnswer      *string     `json:"user_answer,omitempty"`
	IsCorrect       *bool       `json:"is_correct,omitempty"`
	Difficulty      *Difficulty `json:"difficulty,omitempty"`
	LastReviewed    *time.Time  `json:"last_reviewed,omitempty"`
	NextReview      *time.Time  `json:"next_review,omitempty"`
	ReviewCount     *int        `json:"review_count,omitempty"`
	ConsecutiveEasy *int        `json:"consecutive_easy,omitempty"`
}

// Apply merges the patch into the card, field by field.
func (p CardPatch) Apply(c *FlashCard) {
	if p.UserAnswer != nil {
		c.UserAnswer = p.UserAnswer
	}
	if p.IsCorrect != nil {
		c.IsCorrect = p.IsCorrect
	}
	if p.Difficulty != nil {
		c.Difficulty = *p.Difficulty
	}
	if p.LastReviewed != nil {
		c.LastReviewed = p.LastReviewed
	}
	if p.NextReview != nil {
		c.NextReview = p.NextReview
	}
	if p.ReviewCount != nil {
		c.ReviewCount = *p.ReviewCount
	}
	if p.ConsecutiveEasy != nil {
		c.ConsecutiveEasy = *p.ConsecutiveEasy
	}
}

// IsValidCardType checks if the given type is a known CardType.
func IsValidCardType(t CardType) bool {
	switch t {
	case CardTypeText, CardTypeMultipleChoice:
		return true
	default:
		return false
	}
}

// IsValidDifficulty checks if the given difficulty is a known Difficulty.
func IsValidDifficulty(d Difficulty) bool {
	switch d {
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return true
	default:
		return false
	}
}

func containsOption(options []string, answer string) bool {
	for _, o := range options {
		if o == answer {
			return true
		}
	}
	return false
}
