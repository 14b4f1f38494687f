package generation

import (
	"fmt"

	"github.com/studydeck/studydeck-api/internal/domain"
)

// ValidateDrafts checks that the parsed model output is a usable sequence of
// drafts and normalizes each one. It distinguishes emptiness from malformed
// content so callers can show an actionable message per case.
func ValidateDrafts(drafts []domain.DraftCard) ([]domain.DraftCard, error) {
	if len(drafts) == 0 {
		return nil, ErrEmptyOutput
	}

	validated := make([]domain.DraftCard, 0, len(drafts))
	for i, draft := range drafts {
		if draft.Question == "" {
			return nil, fmt.Errorf("%w: draft %d has no question", ErrMalformedOutput, i)
		}

		if draft.Answer == "" {
			return nil, fmt.Errorf("%w: draft %d has no answer", ErrMalformedOutput, i)
		}

		if draft.Type == "" {
			draft.Type = domain.CardTypeText
		}

		if !domain.IsValidCardType(draft.Type) {
			return nil, fmt.Errorf("%w: draft %d has unknown type %q", ErrMalformedOutput, i, draft.Type)
		}

		if draft.Type == domain.CardTypeMultipleChoice {
			if !optionsContain(draft.Options, draft.Answer) {
				return nil, fmt.Errorf(
					"%w: draft %d does not list its answer among the options",
					ErrMalformedOutput, i)
			}
		}

		validated = append(validated, draft)
	}

	return validated, nil
}

func optionsContain(options []string, answer string) bool {
	for _, o := range options {
		if o == answer {
			return true
		}
	}
	return false
}
