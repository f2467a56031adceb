package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/soundsteps/soundsteps-api/internal/domain"
	"github.com/soundsteps/soundsteps-api/internal/store"
)

// PostgresLearnerStore implements the store.LearnerStore interface
// using a PostgreSQL database as the storage backend.
type PostgresLearnerStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresLearnerStore creates a new PostgreSQL implementation of the LearnerStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresLearnerStore(db store.DBTX, logger *slog.Logger) *PostgresLearnerStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresLearnerStore{
		db:     db,
		logger: logger.With(slog.String("component", "learner_store")),
	}
}

// Ensure PostgresLearnerStore implements store.LearnerStore interface
var _ store.LearnerStore = (*PostgresLearnerStore)(nil)

// Create implements store.LearnerStore.Create.
// The learner's HashedPassword must be set; plaintext passwords never reach
// the store.
func (s *PostgresLearnerStore) Create(ctx context.Context, learner *domain.Learner) error {
	if learner.HashedPassword == "" {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, domain.ErrEmptyHashedPassword)
	}

	query := `
		INSERT INTO learners (id, email, hashed_password, display_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.db.ExecContext(ctx, query,
		learner.ID,
		learner.Email,
		learner.HashedPassword,
		learner.DisplayName,
		learner.CreatedAt,
		learner.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: %v", store.ErrEmailExists, err)
		}
		return MapError(fmt.Errorf("failed to create learner: %w", err))
	}

	return nil
}

// GetByID implements store.LearnerStore.GetByID.
func (s *PostgresLearnerStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Learner, error) {
	query := `
		SELECT id, email, hashed_password, display_name, created_at, updated_at
		FROM learners
		WHERE id = $1`

	return s.queryLearner(ctx, query, id)
}

// GetByEmail implements store.LearnerStore.GetByEmail.
func (s *PostgresLearnerStore) GetByEmail(ctx context.Context, email string) (*domain.Learner, error) {
	query := `
		SELECT id, email, hashed_password, display_name, created_at, updated_at
		FROM learners
		WHERE email = $1`

	return s.queryLearner(ctx, query, email)
}

func (s *PostgresLearnerStore) queryLearner(
	ctx context.Context,
	query string,
	arg any,
) (*domain.Learner, error) {
	var learner domain.Learner

	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&learner.ID,
		&learner.Email,
		&learner.HashedPassword,
		&learner.DisplayName,
		&learner.CreatedAt,
		&learner.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrLearnerNotFound
		}
		return nil, MapError(fmt.Errorf("failed to get learner: %w", err))
	}

	return &learner, nil
}
