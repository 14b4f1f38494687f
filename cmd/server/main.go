// Package main implements the entry point for the StudyDeck API server,
// which turns pasted documents into flashcard sessions and drives spaced
// repetition review passes over them.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/studydeck/studydeck-api/internal/config"
	"github.com/studydeck/studydeck-api/internal/platform/logger"
	"github.com/studydeck/studydeck-api/internal/platform/sqlite"
)

// main initializes configuration, logging, and storage, wires the application
// dependencies, and runs the HTTP server until shutdown.
func main() {
	cfg, appLogger, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	ctx := context.Background()

	kv, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	app, err := newApplication(ctx, cfg, appLogger, kv)
	if err != nil {
		log.Fatalf("Failed to build application: %v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// initializeApp loads configuration and sets up structured logging.
func initializeApp() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"database_path", cfg.Database.Path)

	return cfg, appLogger, nil
}
