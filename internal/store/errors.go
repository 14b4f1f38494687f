package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the
	// store. This is a generic version of the entity-specific not found errors.
	ErrNotFound = errors.New("entity not found")

	// ErrSessionNotFound indicates that the requested session does not exist.
	ErrSessionNotFound = fmt.Errorf("%w: session", ErrNotFound)

	// ErrCardNotFound indicates that the requested card does not exist.
	ErrCardNotFound = fmt.Errorf("%w: card", ErrNotFound)

	// ErrNoValue is returned by key-value backends when a key has no value.
	// Collection loads translate it into an empty collection; it never reaches
	// repository callers.
	ErrNoValue = errors.New("no value for key")
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// ParseError is returned when a persisted value cannot be deserialized.
// It is always propagated to the caller of Load, never swallowed: treating a
// corrupt store as an empty one would show the user a misleadingly empty
// session list.
type ParseError struct {
	Key string // The persisted key whose value failed to parse
	Err error  // The underlying deserialization error
}

// Error implements the error interface for ParseError.
func (e *ParseError) Error() string {
	return fmt.Sprintf("persisted value for %q is corrupt: %v", e.Key, e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError for the given key and cause.
func NewParseError(key string, err error) *ParseError {
	return &ParseError{Key: key, Err: err}
}

// IsParseError checks if the error is a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
