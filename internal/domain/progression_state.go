package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Progression state validation errors
var (
	// ErrEmptyLearnerID is returned when a progression state has no learner.
	ErrEmptyLearnerID = errors.New("progression state learner ID cannot be empty")

	// ErrItemNotActive is returned when an operation targets an item that is
	// not in the active window.
	ErrItemNotActive = errors.New("item is not in the active set")

	// ErrItemNotMastered is returned when a reset targets an item that has
	// not been mastered.
	ErrItemNotMastered = errors.New("item is not in the mastered set")
)

// ProgressionState is the per-(learner, exercise) curriculum document.
//
// The three ID slices partition the portion of the catalog the learner has
// been exposed to: Active is the bounded practice window, Mastered grows
// append-only as items graduate, and Locked is the FIFO reservoir of items
// not yet introduced (ordered by tier, then catalog position). Stats holds
// accumulated per-item evidence and outlives mastery.
//
// The document is mutated exclusively by the progression transaction; all
// mutating helpers work on copies obtained via Clone.
type ProgressionState struct {
	LearnerID    uuid.UUID            `json:"learner_id"`
	ExerciseType ExerciseType         `json:"exercise_type"`
	Active       []string             `json:"active"`
	Mastered     []string             `json:"mastered"`
	Locked       []string             `json:"locked"`
	Stats        map[string]ItemStats `json:"stats"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// Validate checks the identity fields and per-item statistics.
// Structural window invariants are checked separately by CheckInvariants,
// which needs the exercise's window size.
func (p *ProgressionState) Validate() error {
	if p.LearnerID == uuid.Nil {
		return ErrEmptyLearnerID
	}

	if !p.ExerciseType.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidExerciseType, p.ExerciseType)
	}

	for id, stats := range p.Stats {
		if err := stats.Validate(); err != nil {
			return fmt.Errorf("stats for item %q: %w", id, err)
		}
	}

	return nil
}

// CheckInvariants verifies the structural invariants of the document:
//
//   - |active| never exceeds the window size
//   - active is full whenever locked is non-empty
//   - active, mastered and locked are pairwise disjoint
//
// A failure wraps ErrInvariantViolation and must abort the enclosing commit:
// it indicates a logic defect, not expected runtime variance.
func (p *ProgressionState) CheckInvariants(windowSize int) error {
	if len(p.Active) > windowSize {
		return fmt.Errorf("%w: active set has %d items, window size is %d",
			ErrInvariantViolation, len(p.Active), windowSize)
	}

	if len(p.Locked) > 0 && len(p.Active) < windowSize {
		return fmt.Errorf("%w: active set has %d items with %d still locked",
			ErrInvariantViolation, len(p.Active), len(p.Locked))
	}

	seen := make(map[string]string, len(p.Active)+len(p.Mastered)+len(p.Locked))
	for set, ids := range map[string][]string{
		"active":   p.Active,
		"mastered": p.Mastered,
		"locked":   p.Locked,
	} {
		for _, id := range ids {
			if prev, ok := seen[id]; ok {
				return fmt.Errorf("%w: item %q appears in both %s and %s",
					ErrInvariantViolation, id, prev, set)
			}
			seen[id] = set
		}
	}

	return nil
}

// Clone returns a deep copy of the state. The progression transaction
// mutates the copy and persists it as a full replacement, leaving the loaded
// snapshot untouched if the commit fails.
func (p *ProgressionState) Clone() *ProgressionState {
	clone := &ProgressionState{
		LearnerID:    p.LearnerID,
		ExerciseType: p.ExerciseType,
		Active:       append([]string(nil), p.Active...),
		Mastered:     append([]string(nil), p.Mastered...),
		Locked:       append([]string(nil), p.Locked...),
		Stats:        make(map[string]ItemStats, len(p.Stats)),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	for id, stats := range p.Stats {
		clone.Stats[id] = stats
	}
	return clone
}

// IsActive reports whether the item is currently in the practice window.
func (p *ProgressionState) IsActive(itemID string) bool {
	return containsID(p.Active, itemID)
}

// IsMastered reports whether the item has graduated.
func (p *ProgressionState) IsMastered(itemID string) bool {
	return containsID(p.Mastered, itemID)
}

// StatsFor returns the accumulated statistics for an item, or zero-valued
// stats when the learner has never attempted it. Unknown items are treated
// as fresh rather than rejected because catalogs may grow over time.
func (p *ProgressionState) StatsFor(itemID string) ItemStats {
	return p.Stats[itemID]
}

func containsID(ids []string, itemID string) bool {
	for _, id := range ids {
		if id == itemID {
			return true
		}
	}
	return false
}
