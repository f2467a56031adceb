// Package progression provides the transactional service around the
// curriculum engine: it loads and seeds per-learner progression documents,
// applies attempt batches atomically, and exposes summary reads.
package progression

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/soundsteps/soundsteps-api/internal/domain"
	engine "github.com/soundsteps/soundsteps-api/internal/domain/progression"
)

// SubmissionResult is the caller-visible result of SubmitAttempts.
type SubmissionResult struct {
	// Outcome carries the per-item verdicts, newly mastered items and
	// window promotions of the applied (or replayed) batch.
	Outcome domain.BatchOutcome `json:"outcome"`

	// Replayed is true when the submission ID was seen before and the
	// stored outcome was returned instead of applying the batch again.
	Replayed bool `json:"replayed"`
}

// ProgressSummary is a display-read snapshot of a learner's progression.
type ProgressSummary struct {
	ActiveCount   int                         `json:"active_count"`
	MasteredCount int                         `json:"mastered_count"`
	LockedCount   int                         `json:"locked_count"`
	Items         map[string]domain.ItemStats `json:"items"`
}

// Service coordinates the progression engine with persistent state.
//
// All methods take the learner identity explicitly; there is no ambient
// current-user state. The unit of isolation is the single
// (learner, exercise) document, so calls for different learners never
// contend with each other.
type Service interface {
	// GetNextItem picks the next content item to present, drawn uniformly
	// at random from the learner's active window. The progression document
	// is seeded on first access.
	//
	// Returns engine.ErrCurriculumComplete once the whole catalog has been
	// mastered, which callers surface as an explicit completion signal.
	GetNextItem(ctx context.Context, learnerID uuid.UUID, exercise domain.ExerciseType) (*domain.ContentItem, error)

	// SubmitAttempts applies one batch of attempt results atomically:
	// statistics update, mastery evaluation against the updated statistics,
	// and one deterministic window slide per newly mastered item, all
	// committed as a single document replacement.
	//
	// submissionID is the client-generated idempotency key. Replaying an
	// already-committed submission returns the stored outcome with
	// Replayed set instead of double-counting the attempts.
	//
	// Serialization conflicts are retried with a freshly reloaded state up
	// to the configured bound, then surfaced as ErrTransientFailure.
	SubmitAttempts(
		ctx context.Context,
		learnerID uuid.UUID,
		exercise domain.ExerciseType,
		submissionID uuid.UUID,
		results []domain.AttemptResult,
	) (*SubmissionResult, error)

	// GetProgressSummary returns a lock-free snapshot of the learner's
	// progression for dashboards. The document is seeded on first access.
	GetProgressSummary(ctx context.Context, learnerID uuid.UUID, exercise domain.ExerciseType) (*ProgressSummary, error)

	// ResetItem moves a mastered item back into the active window and
	// clears its statistics. This is the only backward transition in the
	// item lifecycle and exists for regression support; it is never
	// triggered by the attempt pipeline.
	ResetItem(ctx context.Context, learnerID uuid.UUID, exercise domain.ExerciseType, itemID string) (*ProgressSummary, error)
}

// Common error types for the progression service
var (
	// ErrInvalidSubmission indicates a submission with no results or a
	// missing submission ID.
	ErrInvalidSubmission = errors.New("invalid attempt submission")

	// ErrTransientFailure indicates that the transaction kept colliding
	// with concurrent writers and exhausted its retry budget. The calling
	// session should retry transparently.
	ErrTransientFailure = errors.New("transient failure: concurrent update conflict")
)

// ServiceError wraps errors from the progression service with additional context.
// This allows consumers to differentiate between different types of service errors
// using errors.As instead of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "get_next_item", "submit_attempts")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// IsCurriculumComplete reports whether the error is the explicit
// end-of-catalog signal from the session selector.
func IsCurriculumComplete(err error) bool {
	return errors.Is(err, engine.ErrCurriculumComplete)
}
