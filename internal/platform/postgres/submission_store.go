package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/soundsteps/soundsteps-api/internal/domain"
	"github.com/soundsteps/soundsteps-api/internal/store"
)

// PostgresSubmissionStore implements the store.SubmissionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresSubmissionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSubmissionStore creates a new PostgreSQL implementation of the SubmissionStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresSubmissionStore(db store.DBTX, logger *slog.Logger) *PostgresSubmissionStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSubmissionStore{
		db:     db,
		logger: logger.With(slog.String("component", "submission_store")),
	}
}

// Ensure PostgresSubmissionStore implements store.SubmissionStore interface
var _ store.SubmissionStore = (*PostgresSubmissionStore)(nil)

// Create implements store.SubmissionStore.Create.
// The primary key on submission_id is the idempotency guarantee: inserting a
// replayed submission fails with a unique violation, reported as
// store.ErrSubmissionExists.
func (s *PostgresSubmissionStore) Create(ctx context.Context, submission *domain.AttemptSubmission) error {
	outcome, err := json.Marshal(submission.Outcome)
	if err != nil {
		return fmt.Errorf("failed to marshal submission outcome: %w", err)
	}

	query := `
		INSERT INTO attempt_submissions (submission_id, learner_id, exercise_type, result, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err = s.db.ExecContext(ctx, query,
		submission.ID,
		submission.LearnerID,
		string(submission.ExerciseType),
		outcome,
		submission.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: %v", store.ErrSubmissionExists, err)
		}
		return MapError(fmt.Errorf("failed to create attempt submission: %w", err))
	}

	return nil
}

// Get implements store.SubmissionStore.Get.
func (s *PostgresSubmissionStore) Get(ctx context.Context, id uuid.UUID) (*domain.AttemptSubmission, error) {
	query := `
		SELECT submission_id, learner_id, exercise_type, result, created_at
		FROM attempt_submissions
		WHERE submission_id = $1`

	var (
		submission domain.AttemptSubmission
		exercise   string
		result     []byte
	)

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&submission.ID,
		&submission.LearnerID,
		&exercise,
		&result,
		&submission.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", store.ErrSubmissionNotFound, id)
		}
		return nil, MapError(fmt.Errorf("failed to get attempt submission: %w", err))
	}

	submission.ExerciseType = domain.ExerciseType(exercise)
	if err := json.Unmarshal(result, &submission.Outcome); err != nil {
		return nil, fmt.Errorf("failed to unmarshal submission outcome: %w", err)
	}

	return &submission, nil
}

// WithTx implements store.SubmissionStore.WithTx.
func (s *PostgresSubmissionStore) WithTx(tx *sql.Tx) store.SubmissionStore {
	return &PostgresSubmissionStore{
		db:     tx,
		logger: s.logger,
	}
}
