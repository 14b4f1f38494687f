package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/studydeck/studydeck-api/internal/api"
	apiMiddleware "github.com/studydeck/studydeck-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	// Create API handlers using the application's services
	authHandler := api.NewAuthHandler(
		app.config.Auth,
		app.jwtService,
		app.credentials,
		app.logger,
	)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	sessionHandler := api.NewSessionHandler(
		app.sessionRepo,
		app.generator,
		app.srsService,
		app.statsService,
		app.logger,
	)
	reviewHandler := api.NewReviewHandler(app.reviewService, app.logger)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Session endpoints
			r.Post("/sessions", sessionHandler.CreateSession)
			r.Get("/sessions", sessionHandler.ListSessions)
			r.Get("/sessions/{id}", sessionHandler.GetSession)
			r.Delete("/sessions/{id}", sessionHandler.DeleteSession)
			r.Get("/sessions/{id}/due", sessionHandler.GetDueCards)

			// Review pass endpoints
			r.Post("/sessions/{id}/review", reviewHandler.StartPass)
			r.Get("/sessions/{id}/review", reviewHandler.GetCurrent)
			r.Post("/sessions/{id}/review/answer", reviewHandler.SubmitAnswer)
			r.Post("/sessions/{id}/review/assessment", reviewHandler.SubmitAssessment)
			r.Post("/sessions/{id}/review/rating", reviewHandler.SubmitRating)
			r.Post("/sessions/{id}/review/restart", reviewHandler.RestartSession)
			r.Post("/sessions/{id}/review/exit", reviewHandler.ExitPass)

			// Cross-session statistics
			r.Get("/stats", sessionHandler.GetStats)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
