package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrMalformedOutput is returned when the model response cannot be parsed
	// as a sequence of well-formed drafts.
	ErrMalformedOutput = errors.New("malformed output from card generator")

	// ErrEmptyOutput is returned when the model produced zero drafts.
	ErrEmptyOutput = errors.New("card generator produced no cards")

	// ErrUpstreamFailure is returned when the model call itself failed,
	// including after exhausting retries of transient errors.
	ErrUpstreamFailure = errors.New("card generator upstream failure")

	// ErrContentBlocked is returned when the model blocks the content due to
	// safety filters.
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrInvalidConfig is returned when the generator configuration is invalid.
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrEmptyDocument is returned when the document text is empty.
	ErrEmptyDocument = errors.New("document text cannot be empty")
)
