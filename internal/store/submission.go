package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/soundsteps/soundsteps-api/internal/domain"
)

// SubmissionStore defines the interface for the attempt-submission
// idempotency ledger.
type SubmissionStore interface {
	// Create records a committed submission and its outcome.
	// Returns ErrSubmissionExists if the submission ID was already recorded.
	Create(ctx context.Context, submission *domain.AttemptSubmission) error

	// Get retrieves a recorded submission by its ID.
	// Returns ErrSubmissionNotFound if the submission does not exist.
	Get(ctx context.Context, id uuid.UUID) (*domain.AttemptSubmission, error)

	// WithTx returns a new SubmissionStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) SubmissionStore
}
