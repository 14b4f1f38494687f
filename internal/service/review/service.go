// Package review implements the review session controller: the state machine
// driving one interactive pass over a session's due cards.
package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/studydeck/studydeck-api/internal/domain"
)

// State names the controller states of an active pass.
type State string

// Possible pass states. A pass moves Presenting -> AnswerRevealed ->
// Presenting(next), optionally pausing in AnswerRevealed for the
// self-assessment of a text card, and lands in Completed only when the due
// set was empty at entry.
const (
	StatePresenting     State = "presenting"
	StateAnswerRevealed State = "answer_revealed"
	StateCompleted      State = "completed"
)

// Common error types for the review service
var (
	// ErrNoActivePass indicates that no pass is currently active for the session.
	ErrNoActivePass = errors.New("no active review pass for session")

	// ErrInvalidTransition indicates an operation was attempted in a state
	// that does not permit it. The operation is rejected and state is unchanged.
	ErrInvalidTransition = errors.New("operation not valid in current pass state")

	// ErrSelfAssessmentRequired indicates a text card was rated before the
	// user reported whether their answer was correct.
	ErrSelfAssessmentRequired = errors.New("text card requires self-assessment before rating")

	// ErrAlreadyAssessed indicates self-assessment was submitted twice for the
	// same answer.
	ErrAlreadyAssessed = errors.New("card correctness already assessed")

	// ErrNotTextCard indicates self-assessment was submitted for a
	// multiple-choice card, whose correctness is computed automatically.
	ErrNotTextCard = errors.New("self-assessment only applies to text cards")

	// ErrEmptyAnswer indicates an answer submission with no content.
	ErrEmptyAnswer = errors.New("answer cannot be empty")
)

// PassView is a snapshot of an active pass handed to callers. Card is the
// card currently presented, nil once the pass is completed.
type PassView struct {
	SessionID     uuid.UUID         `json:"session_id"`
	SessionName   string            `json:"session_name"`
	State         State             `json:"state"`
	StudySessions int               `json:"study_sessions"`
	TotalDue      int               `json:"total_due"`
	CurrentIndex  int               `json:"current_index"`
	AnsweredCount int               `json:"answered_count"`
	Card          *domain.FlashCard `json:"card,omitempty"`
}

// Service drives review passes. Exactly one pass is active per session at a
// time; starting a pass replaces any pass already active for that session.
type Service interface {
	// Start enters a pass: it increments and persists the session's
	// study-session count, draws the due set with the updated count, rolls a
	// fresh presentation order, and restores the saved checkpoint if one
	// exists. An empty due set completes the pass immediately.
	Start(ctx context.Context, sessionID uuid.UUID) (*PassView, error)

	// Current returns the state of the active pass.
	Current(ctx context.Context, sessionID uuid.UUID) (*PassView, error)

	// SubmitAnswer records the user's answer for the presented card. Only
	// valid in Presenting. Multiple-choice answers are scored immediately by
	// exact match; text answers stay unscored until self-assessment.
	SubmitAnswer(ctx context.Context, sessionID uuid.UUID, rawAnswer string) (*PassView, error)

	// ConfirmCorrectness records the user's self-reported correctness for a
	// text card. Only valid in AnswerRevealed while correctness is unset.
	ConfirmCorrectness(ctx context.Context, sessionID uuid.UUID, correct bool) (*PassView, error)

	// RateDifficulty applies a difficulty rating to the revealed card,
	// persists the resulting schedule, and advances to the next card in
	// presentation order, wrapping past the end. Text cards must be
	// self-assessed first.
	RateDifficulty(ctx context.Context, sessionID uuid.UUID, difficulty domain.Difficulty) (*PassView, error)

	// Restart resets every card and the session's counters, rolls a fresh
	// order over the full card set, and returns to Presenting at index zero.
	Restart(ctx context.Context, sessionID uuid.UUID) (*PassView, error)

	// Exit checkpoints the pass position to the progress store and closes the
	// pass. Exiting with no active pass is a no-op.
	Exit(ctx context.Context, sessionID uuid.UUID) error
}

// ServiceError wraps errors from the review service with the operation that
// failed, so consumers can differentiate error sources with errors.As.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}
