package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/soundsteps/soundsteps-api/internal/config"
	"github.com/soundsteps/soundsteps-api/internal/platform/postgres"
	"github.com/soundsteps/soundsteps-api/internal/service/auth"
	"github.com/soundsteps/soundsteps-api/internal/service/progression"
	"github.com/soundsteps/soundsteps-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	learnerStore     store.LearnerStore
	contentStore     store.ContentStore
	progressionStore store.ProgressionStore
	submissionStore  store.SubmissionStore

	// Service interfaces
	tokenService       auth.TokenService
	passwordVerifier   auth.PasswordVerifier
	progressionService progression.Service
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts the core dependencies that must be established
// before application wiring.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.tokenService, err = auth.NewTokenService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}
	logger.Info("Session token service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordVerifier = auth.NewBcryptVerifier()

	app.learnerStore = postgres.NewPostgresLearnerStore(db, logger)
	app.contentStore = postgres.NewPostgresContentStore(db, logger)
	app.progressionStore = postgres.NewPostgresProgressionStore(db, logger)
	app.submissionStore = postgres.NewPostgresSubmissionStore(db, logger)

	app.progressionService = progression.NewService(
		db,
		app.contentStore,
		app.progressionStore,
		app.submissionStore,
		cfg.Engine.MaxCommitRetries,
		logger,
	)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// tokenLifetime returns the configured session token lifetime.
func (app *application) tokenLifetime() time.Duration {
	return time.Duration(app.config.Auth.TokenLifetimeMinutes) * time.Minute
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
