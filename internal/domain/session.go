package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Session-specific validation errors
var (
	// ErrSessionIDEmpty is returned when a session ID is empty or nil.
	ErrSessionIDEmpty = errors.New("session ID cannot be empty")

	// ErrSessionNameEmpty is returned when a session's name is empty.
	ErrSessionNameEmpty = errors.New("session name cannot be empty")

	// ErrSessionNoCards is returned when a session would be created without cards.
	ErrSessionNoCards = errors.New("session must contain at least one card")
)

// Session is an aggregate of flashcards created from one generated document.
// Cards are owned exclusively by their session and are only mutated in place
// after creation; TotalCards is fixed at creation time.
type Session struct {
	ID             uuid.UUID   `json:"id"`
	Name           string      `json:"name"`
	Cards          []FlashCard `json:"cards"`
	TotalCards     int         `json:"total_cards"`
	CompletedCards int         `json:"completed_cards"`
	StudySessions  int         `json:"study_sessions"`
	CreatedAt      time.Time   `json:"created_at"`
}

// NewSession creates a Session from generator drafts. Every draft is assigned
// a fresh card ID and creation defaults via NewCard. Counters start at zero.
// Returns an error if the name is empty, the draft list is empty, or any
// draft fails card validation.
func NewSession(name string, drafts []DraftCard) (*Session, error) {
	if name == "" {
		return nil, ErrSessionNameEmpty
	}

	if len(drafts) == 0 {
		return nil, ErrSessionNoCards
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	cards := make([]FlashCard, 0, len(drafts))
	for _, draft := range drafts {
		card, err := NewCard(draft)
		if err != nil {
			return nil, err
		}
		cards = append(cards, *card)
	}

	session := &Session{
		ID:             id,
		Name:           name,
		Cards:          cards,
		TotalCards:     len(cards),
		CompletedCards: 0,
		StudySessions:  0,
		CreatedAt:      time.Now().UTC(),
	}

	if err := session.Validate(); err != nil {
		return nil, err
	}

	return session, nil
}

// Validate checks if the Session has valid data.
// Returns an error if any field fails validation.
func (s *Session) Validate() error {
	if s.ID == uuid.Nil {
		return ErrSessionIDEmpty
	}

	if s.Name == "" {
		return ErrSessionNameEmpty
	}

	if len(s.Cards) == 0 {
		return ErrSessionNoCards
	}

	for i := range s.Cards {
		if err := s.Cards[i].Validate(); err != nil {
			return err
		}
	}

	return nil
}

// Card returns a pointer to the session's card with the given ID, or nil.
func (s *Session) Card(cardID uuid.UUID) *FlashCard {
	for i := range s.Cards {
		if s.Cards[i].ID == cardID {
			return &s.Cards[i]
		}
	}
	return nil
}

// SessionPatch holds the fields of a Session that can be shallow-merged into a
// stored session. Nil fields are left untouched. Cards, when present, replaces
// the card slice wholesale (used by session restarts).
type SessionPatch struct {
	Name           *string      `json:"name,omitempty"`
	Cards          *[]FlashCard `json:"cards,omitempty"`
	CompletedCards *int         `json:"completed_cards,omitempty"`
	StudySessions  *int         `json:"study_sessions,omitempty"`
}

// Apply merges the patch into the session, field by field.
func (p SessionPatch) Apply(s *Session) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Cards != nil {
		s.Cards = *p.Cards
	}
	if p.CompletedCards != nil {
		s.CompletedCards = *p.CompletedCards
	}
	if p.StudySessions != nil {
		s.StudySessions = *p.StudySessions
	}
}

// PassProgress is the per-session review checkpoint persisted independently of
// the session collection. It records UI position only, never card data.
type PassProgress struct {
	CurrentCardIndex int         `json:"current_card_index"`
	AnsweredCardIDs  []uuid.UUID `json:"answered_card_ids"`
	LastAccessed     time.Time   `json:"last_accessed"`
}
