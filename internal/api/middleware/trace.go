package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/studydeck/studydeck-api/internal/api/shared"
)

// TraceMiddleware assigns each request a trace ID, exposes it in the
// X-Trace-ID response header, and logs request start and completion.
// Apply it early in the chain so downstream handlers can read the ID
// from the context.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())
		traceID := shared.GetTraceID(ctx)
		w.Header().Set("X-Trace-ID", traceID)

		log := slog.With(slog.String("trace_id", traceID))
		log.Debug("request started",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))

		start := time.Now()
		next.ServeHTTP(w, r.WithContext(ctx))

		log.Debug("request completed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Duration("duration", time.Since(start)))
	})
}
