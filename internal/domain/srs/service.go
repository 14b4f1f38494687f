package srs

import (
	"errors"
	"math/rand"
	"time"

	"github.com/studydeck/studydeck-api/internal/domain"
)

// Common errors
var (
	ErrNilSession        = errors.New("session cannot be nil")
	ErrNilCard           = errors.New("card cannot be nil")
	ErrInvalidDifficulty = errors.New("invalid difficulty rating")
)

// ReviewUpdate is the result of rating a card: the new next-review timestamp
// and the new consecutive-easy count. Callers persist it via the repository.
type ReviewUpdate struct {
	NextReview      time.Time
	ConsecutiveEasy int
}

// Service defines the interface for scheduling operations. All methods are
// pure with respect to their inputs; nothing is persisted here.
type Service interface {
	// DueForPass returns the cards eligible for the pass that is starting.
	// The session's StudySessions count must already be incremented for the
	// pass. Returns the eligible subset in card order.
	DueForPass(session *domain.Session) ([]domain.FlashCard, error)

	// PresentationOrder returns a fresh random permutation of the given cards.
	// The permutation is re-rolled on every call and is not reproducible.
	PresentationOrder(cards []domain.FlashCard) []domain.FlashCard

	// Rate computes the scheduling consequences of rating a card with the
	// given difficulty at the given time.
	Rate(card *domain.FlashCard, difficulty domain.Difficulty, now time.Time) (ReviewUpdate, error)

	// DueAt returns the session's cards whose next review is absent or has
	// passed as of the given time. Used for cross-session due queries only;
	// pass eligibility goes through DueForPass.
	DueAt(session *domain.Session, asOf time.Time) ([]domain.FlashCard, error)

	// MasteryThreshold reports the consecutive-easy count at which a card
	// counts as mastered.
	MasteryThreshold() int
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
	rng    *rand.Rand
}

// NewDefaultService creates a new scheduler with default parameters.
func NewDefaultService() Service {
	return NewServiceWithParams(NewDefaultParams())
}

// NewServiceWithParams creates a new scheduler with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewServiceWithRand creates a scheduler with a caller-supplied random source,
// used by tests that need a deterministic presentation order.
func NewServiceWithRand(params *Params, rng *rand.Rand) Service {
	return &defaultService{
		params: params,
		rng:    rng,
	}
}

// DueForPass implements Service.DueForPass.
func (s *defaultService) DueForPass(session *domain.Session) ([]domain.FlashCard, error) {
	if session == nil {
		return nil, ErrNilSession
	}
	return dueForPass(session, s.params), nil
}

// PresentationOrder implements Service.PresentationOrder.
func (s *defaultService) PresentationOrder(cards []domain.FlashCard) []domain.FlashCard {
	shuffled := make([]domain.FlashCard, len(cards))
	copy(shuffled, cards)
	s.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}

// Rate implements Service.Rate.
func (s *defaultService) Rate(
	card *domain.FlashCard,
	difficulty domain.Difficulty,
	now time.Time,
) (ReviewUpdate, error) {
	if card == nil {
		return ReviewUpdate{}, ErrNilCard
	}

	if !domain.IsValidDifficulty(difficulty) {
		return ReviewUpdate{}, ErrInvalidDifficulty
	}

	return rate(card, difficulty, now, s.params), nil
}

// DueAt implements Service.DueAt.
func (s *defaultService) DueAt(session *domain.Session, asOf time.Time) ([]domain.FlashCard, error) {
	if session == nil {
		return nil, ErrNilSession
	}
	return dueAt(session, asOf), nil
}

// MasteryThreshold implements Service.MasteryThreshold.
func (s *defaultService) MasteryThreshold() int {
	return s.params.MasteryThreshold
}
