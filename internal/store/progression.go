package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/soundsteps/soundsteps-api/internal/domain"
)

// ProgressionStore defines the interface for progression document persistence.
// One document exists per (learner, exercise) pair and is the unit of
// isolation: mutations must go through GetForUpdate + Update inside a
// transaction, while display reads may use the lock-free Get.
type ProgressionStore interface {
	// Get retrieves the progression document without any row locking.
	// Suitable only for display reads; never use it when you plan to update
	// the document. Returns ErrProgressionNotFound if no document exists.
	Get(ctx context.Context, learnerID uuid.UUID, exercise domain.ExerciseType) (*domain.ProgressionState, error)

	// GetForUpdate retrieves the document with a row-level lock using
	// SELECT FOR UPDATE. Must be called within a transaction when the
	// document will be updated, to serialize concurrent writers on the same
	// (learner, exercise) pair.
	// Returns ErrProgressionNotFound if no document exists.
	GetForUpdate(ctx context.Context, learnerID uuid.UUID, exercise domain.ExerciseType) (*domain.ProgressionState, error)

	// Create persists a freshly seeded document. If a document for the same
	// (learner, exercise) already exists it returns ErrDuplicate and writes
	// nothing, so concurrent first-loads cannot overwrite each other's seed:
	// exactly one seed wins and the loser re-reads the winning state.
	Create(ctx context.Context, state *domain.ProgressionState) error

	// Update persists a full replacement of the document.
	// Returns ErrProgressionNotFound if the document does not exist.
	Update(ctx context.Context, state *domain.ProgressionState) error

	// WithTx returns a new ProgressionStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	WithTx(tx *sql.Tx) ProgressionStore
}
