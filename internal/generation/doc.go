// Package generation defines the card generation boundary: the port a
// document-to-flashcard generator must satisfy, the error taxonomy its
// failures map onto, and the validation applied to generated drafts
// before they enter a session. Implementations live under
// internal/platform.
package generation
