package progression

import (
	"github.com/soundsteps/soundsteps-api/internal/domain"
)

// MasteryRule decides, for one exercise mode, whether a single attempt
// passed and whether the accumulated evidence now amounts to mastery.
//
// Rules are pure and share the shape "threshold on accumulated evidence, not
// a single sample": a learner can neither graduate on one lucky attempt nor
// on an attempt that itself failed, however good the historical ratio.
type MasteryRule interface {
	// AttemptPassed maps the collaborator's signal metrics to this
	// attempt's pass/fail verdict.
	AttemptPassed(metrics domain.AttemptMetrics) bool

	// MasteryAchieved reports whether the item is mastered, given this
	// attempt's verdict and the statistics updated to include it.
	MasteryAchieved(passed bool, stats domain.ItemStats) bool
}

// RatioRule masters an item when the current attempt passed, the learner has
// accumulated at least MinAttempts lifetime attempts, and the lifetime
// success ratio meets SuccessRatio. Used by the sustained-sound and
// sentence-pacing exercises.
type RatioRule struct {
	MinAttempts  int
	SuccessRatio float64
}

// AttemptPassed implements MasteryRule. The ratio exercises accept the
// collaborator's verdict directly.
func (r RatioRule) AttemptPassed(metrics domain.AttemptMetrics) bool {
	return metrics.Succeeded
}

// MasteryAchieved implements MasteryRule.
func (r RatioRule) MasteryAchieved(passed bool, stats domain.ItemStats) bool {
	if !passed {
		return false
	}

	// SuccessRatio guards attempts == 0 internally, but the explicit check
	// keeps the "never passes without evidence" contract obvious.
	if stats.Attempts == 0 || stats.Attempts < r.MinAttempts {
		return false
	}

	return stats.SuccessRatio() >= r.SuccessRatio
}

// CleanPassRule masters an item after RequiredPasses clean passes. A clean
// pass is the first recording of a trial with no repetition detected; passes
// accumulate as a simple counter, so failures in between do not reset
// progress. Used by the one-shot word exercise.
type CleanPassRule struct {
	RequiredPasses int
}

// AttemptPassed implements MasteryRule.
func (r CleanPassRule) AttemptPassed(metrics domain.AttemptMetrics) bool {
	return metrics.TrialAttempt == 1 && !metrics.RepetitionDetected
}

// MasteryAchieved implements MasteryRule.
func (r CleanPassRule) MasteryAchieved(passed bool, stats domain.ItemStats) bool {
	return passed && stats.SuccessCount >= r.RequiredPasses
}
