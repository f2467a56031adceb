package domain

import (
	"errors"
	"time"
)

// Item statistics validation errors
var (
	// ErrNegativeAttempts is returned when an attempt count is negative.
	ErrNegativeAttempts = errors.New("attempts must be greater than or equal to 0")

	// ErrSuccessExceedsAttempts is returned when the success count exceeds
	// the attempt count.
	ErrSuccessExceedsAttempts = errors.New("success count cannot exceed attempts")
)

// ItemStats tracks a learner's accumulated evidence for a single content
// item. Created lazily on the first attempt and kept forever, even after the
// item graduates, for analytics.
type ItemStats struct {
	Attempts     int        `json:"attempts"`
	SuccessCount int        `json:"success_count"`
	LastPlayedAt *time.Time `json:"last_played_at,omitempty"`
}

// Validate checks if the ItemStats has valid data.
// Returns an error if any field fails validation.
func (s ItemStats) Validate() error {
	if s.Attempts < 0 {
		return ErrNegativeAttempts
	}

	if s.SuccessCount < 0 || s.SuccessCount > s.Attempts {
		return ErrSuccessExceedsAttempts
	}

	return nil
}

// Record returns a copy of the stats with one more attempt applied.
// The success count is incremented only when the attempt passed.
func (s ItemStats) Record(passed bool, now time.Time) ItemStats {
	next := ItemStats{
		Attempts:     s.Attempts + 1,
		SuccessCount: s.SuccessCount,
		LastPlayedAt: &now,
	}
	if passed {
		next.SuccessCount++
	}
	return next
}

// SuccessRatio returns successCount/attempts, or 0 when there are no
// attempts yet. The zero-attempt guard keeps ratio-based mastery rules from
// dividing by zero.
func (s ItemStats) SuccessRatio() float64 {
	if s.Attempts == 0 {
		return 0
	}
	return float64(s.SuccessCount) / float64(s.Attempts)
}
