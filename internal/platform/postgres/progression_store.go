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

// PostgresProgressionStore implements the store.ProgressionStore interface
// using a PostgreSQL database as the storage backend. The document's set
// membership and statistics are stored as JSONB columns; the row is the unit
// of isolation and is locked with SELECT FOR UPDATE during mutations.
type PostgresProgressionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProgressionStore creates a new PostgreSQL implementation of the ProgressionStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresProgressionStore(db store.DBTX, logger *slog.Logger) *PostgresProgressionStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProgressionStore{
		db:     db,
		logger: logger.With(slog.String("component", "progression_store")),
	}
}

// Ensure PostgresProgressionStore implements store.ProgressionStore interface
var _ store.ProgressionStore = (*PostgresProgressionStore)(nil)

const progressionColumns = `learner_id, exercise_type, active, mastered, locked, stats, created_at, updated_at`

// Get implements store.ProgressionStore.Get.
// No row locking; suitable only for display reads.
func (s *PostgresProgressionStore) Get(
	ctx context.Context,
	learnerID uuid.UUID,
	exercise domain.ExerciseType,
) (*domain.ProgressionState, error) {
	query := `SELECT ` + progressionColumns + `
		FROM progression_states
		WHERE learner_id = $1 AND exercise_type = $2`

	return s.queryState(ctx, query, learnerID, exercise)
}

// GetForUpdate implements store.ProgressionStore.GetForUpdate.
// Must run inside a transaction; the FOR UPDATE lock serializes concurrent
// writers on the same (learner, exercise) document.
func (s *PostgresProgressionStore) GetForUpdate(
	ctx context.Context,
	learnerID uuid.UUID,
	exercise domain.ExerciseType,
) (*domain.ProgressionState, error) {
	query := `SELECT ` + progressionColumns + `
		FROM progression_states
		WHERE learner_id = $1 AND exercise_type = $2
		FOR UPDATE`

	return s.queryState(ctx, query, learnerID, exercise)
}

// Create implements store.ProgressionStore.Create.
// ON CONFLICT DO NOTHING makes first-access seeding idempotent: when two
// first-loads race, exactly one insert wins and the loser sees ErrDuplicate
// and re-reads the winning document.
func (s *PostgresProgressionStore) Create(ctx context.Context, state *domain.ProgressionState) error {
	if err := state.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	cols, err := marshalStateColumns(state)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO progression_states (` + progressionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (learner_id, exercise_type) DO NOTHING`

	result, err := s.db.ExecContext(ctx, query,
		state.LearnerID,
		string(state.ExerciseType),
		cols.active,
		cols.mastered,
		cols.locked,
		cols.stats,
		state.CreatedAt,
		state.UpdatedAt,
	)
	if err != nil {
		return MapError(fmt.Errorf("failed to create progression state: %w", err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		s.logger.Debug("progression state already seeded",
			slog.String("learner_id", state.LearnerID.String()),
			slog.String("exercise_type", string(state.ExerciseType)))
		return fmt.Errorf("%w: progression state", store.ErrDuplicate)
	}

	return nil
}

// Update implements store.ProgressionStore.Update.
// Persists a full replacement of the document.
func (s *PostgresProgressionStore) Update(ctx context.Context, state *domain.ProgressionState) error {
	if err := state.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	cols, err := marshalStateColumns(state)
	if err != nil {
		return err
	}

	query := `
		UPDATE progression_states
		SET active = $3, mastered = $4, locked = $5, stats = $6, updated_at = $7
		WHERE learner_id = $1 AND exercise_type = $2`

	result, err := s.db.ExecContext(ctx, query,
		state.LearnerID,
		string(state.ExerciseType),
		cols.active,
		cols.mastered,
		cols.locked,
		cols.stats,
		state.UpdatedAt,
	)
	if err != nil {
		return MapError(fmt.Errorf("failed to update progression state: %w", err))
	}

	if err := CheckRowsAffected(result, "progression state"); err != nil {
		return fmt.Errorf("%w: %v", store.ErrProgressionNotFound, err)
	}

	return nil
}

// WithTx implements store.ProgressionStore.WithTx.
func (s *PostgresProgressionStore) WithTx(tx *sql.Tx) store.ProgressionStore {
	return &PostgresProgressionStore{
		db:     tx,
		logger: s.logger,
	}
}

func (s *PostgresProgressionStore) queryState(
	ctx context.Context,
	query string,
	learnerID uuid.UUID,
	exercise domain.ExerciseType,
) (*domain.ProgressionState, error) {
	var (
		state    domain.ProgressionState
		exType   string
		active   []byte
		mastered []byte
		locked   []byte
		stats    []byte
	)

	err := s.db.QueryRowContext(ctx, query, learnerID, string(exercise)).Scan(
		&state.LearnerID,
		&exType,
		&active,
		&mastered,
		&locked,
		&stats,
		&state.CreatedAt,
		&state.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: learner %s exercise %s",
				store.ErrProgressionNotFound, learnerID, exercise)
		}
		return nil, MapError(fmt.Errorf("failed to get progression state: %w", err))
	}

	state.ExerciseType = domain.ExerciseType(exType)
	if err := json.Unmarshal(active, &state.Active); err != nil {
		return nil, fmt.Errorf("failed to unmarshal active set: %w", err)
	}
	if err := json.Unmarshal(mastered, &state.Mastered); err != nil {
		return nil, fmt.Errorf("failed to unmarshal mastered set: %w", err)
	}
	if err := json.Unmarshal(locked, &state.Locked); err != nil {
		return nil, fmt.Errorf("failed to unmarshal locked set: %w", err)
	}
	if err := json.Unmarshal(stats, &state.Stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stats: %w", err)
	}

	return &state, nil
}

type stateColumns struct {
	active   []byte
	mastered []byte
	locked   []byte
	stats    []byte
}

func marshalStateColumns(state *domain.ProgressionState) (*stateColumns, error) {
	active, err := json.Marshal(state.Active)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal active set: %w", err)
	}
	mastered, err := json.Marshal(state.Mastered)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal mastered set: %w", err)
	}
	locked, err := json.Marshal(state.Locked)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal locked set: %w", err)
	}
	stats, err := json.Marshal(state.Stats)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal stats: %w", err)
	}

	return &stateColumns{
		active:   active,
		mastered: mastered,
		locked:   locked,
		stats:    stats,
	}, nil
}
