package store

import (
	"context"

	"github.com/soundsteps/soundsteps-api/internal/domain"
)

// ContentStore defines read access to the seeded content catalogs.
// Catalogs are fixed at deploy time; there is no write path at runtime.
type ContentStore interface {
	// ListItems returns the full catalog for an exercise, ordered ascending
	// by tier and then by catalog position. An empty catalog is a fatal
	// configuration error and is returned as domain.ErrEmptyCatalog rather
	// than an empty slice, so no learner is ever seeded against nothing.
	ListItems(ctx context.Context, exercise domain.ExerciseType) ([]domain.ContentItem, error)

	// GetItem retrieves a single catalog entry.
	// Returns ErrNotFound if the item does not exist for the exercise.
	GetItem(ctx context.Context, exercise domain.ExerciseType, itemID string) (*domain.ContentItem, error)
}
