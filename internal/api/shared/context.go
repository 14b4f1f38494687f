// Package shared contains helpers used by every HTTP handler: request
// decoding, response writing, and request-scoped context values.
package shared

import (
	"context"

	"github.com/google/uuid"
)

// ContextKey is the key type for context values set by this package.
type ContextKey string

const (
	// UsernameContextKey is the context key for the authenticated username.
	UsernameContextKey ContextKey = "username"

	// TraceIDKey is the key for the trace ID in the request context.
	TraceIDKey ContextKey = "traceID"
)

// SetTraceID stamps the context with a fresh trace ID for correlating logs
// and error responses.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, uuid.NewString())
}

// GetTraceID retrieves the trace ID from the context. It returns an empty
// string when no trace ID has been set.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}
