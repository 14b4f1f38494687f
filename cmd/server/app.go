package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/studydeck/studydeck-api/internal/config"
	"github.com/studydeck/studydeck-api/internal/domain/srs"
	"github.com/studydeck/studydeck-api/internal/generation"
	"github.com/studydeck/studydeck-api/internal/platform/gemini"
	"github.com/studydeck/studydeck-api/internal/platform/sqlite"
	"github.com/studydeck/studydeck-api/internal/service"
	"github.com/studydeck/studydeck-api/internal/service/auth"
	"github.com/studydeck/studydeck-api/internal/service/review"
	"github.com/studydeck/studydeck-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	kv     *sqlite.KV

	// Stores (using interfaces for proper abstraction)
	collectionStore store.CollectionStore
	progressStore   store.ProgressStore
	sessionRepo     store.SessionRepository

	// Service interfaces
	jwtService    auth.JWTService
	credentials   auth.CredentialVerifier
	generator     generation.Generator
	srsService    srs.Service
	reviewService review.Service
	statsService  *service.StatsService
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// the opened key-value store.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	kv *sqlite.KV,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		kv:     kv,
	}

	// Initialize JWT service
	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	// Initialize credential verifier for the configured study user
	app.credentials = auth.NewCredentialVerifier(cfg.Auth.Username, cfg.Auth.PasswordHash)

	// Initialize stores
	app.collectionStore = sqlite.NewCollectionStore(kv, logger)
	app.progressStore = sqlite.NewProgressStore(kv, logger)
	app.sessionRepo = store.NewSessionRepository(app.collectionStore, logger)

	// Create the LLM generator service
	app.generator, err = gemini.NewGenerator(
		ctx,
		logger.With("component", "llm_generator"),
		cfg.LLM,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
	}
	logger.Info("LLM generator initialized successfully")

	// Initialize scheduling and application services
	app.srsService = srs.NewDefaultService()
	app.reviewService = review.NewService(app.sessionRepo, app.progressStore, app.srsService, logger)
	app.statsService = service.NewStatsService(app.sessionRepo, app.srsService, logger)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.kv != nil {
		if err := app.kv.Close(); err != nil {
			app.logger.Error("Error closing database", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
