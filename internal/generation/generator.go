package generation

import (
	"context"

	"github.com/studydeck/studydeck-api/internal/domain"
)

// Generator defines the interface for generating flashcard drafts from
// document text. It is the boundary between the application core and the
// external language model: the core treats it as an opaque function that may
// fail or return malformed data, and never repairs its output.
type Generator interface {
	// GenerateDrafts creates flashcard drafts from the provided document text.
	// The returned drafts are validated (each has a non-empty question and
	// answer, and multiple-choice drafts list their answer among the options)
	// before they are handed to the caller.
	//
	// Errors distinguish the failure kinds the caller must report separately:
	//   - ErrMalformedOutput: the model's output is not parseable as drafts
	//   - ErrEmptyOutput: the model produced zero drafts
	//   - ErrUpstreamFailure: the model call itself failed
	//   - ErrContentBlocked: the model refused the content
	GenerateDrafts(ctx context.Context, documentText string) ([]domain.DraftCard, error)
}
