package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/soundsteps/soundsteps-api/internal/domain"
)

// LearnerStore defines the interface for learner account persistence.
type LearnerStore interface {
	// Create saves a new learner. The learner's password must already be
	// hashed. Returns ErrEmailExists if the email is already registered.
	Create(ctx context.Context, learner *domain.Learner) error

	// GetByID retrieves a learner by ID.
	// Returns ErrLearnerNotFound if the learner does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Learner, error)

	// GetByEmail retrieves a learner by email.
	// Returns ErrLearnerNotFound if the learner does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.Learner, error)
}
