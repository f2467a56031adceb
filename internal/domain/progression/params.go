package progression

import (
	"fmt"

	"github.com/soundsteps/soundsteps-api/internal/domain"
)

// Default per-exercise constants.
const (
	// WordWindowSize is the active-window size for the word-deck and
	// phoneme games.
	WordWindowSize = 5

	// SentenceWindowSize is the active-window size for the sentence game.
	SentenceWindowSize = 4

	// SustainMinAttempts and SustainSuccessRatio gate mastery in the
	// sound-sustaining game.
	SustainMinAttempts  = 3
	SustainSuccessRatio = 0.8

	// EchoRequiredPasses is the clean-pass counter target in the one-shot
	// word game.
	EchoRequiredPasses = 3

	// PacingMinAttempts and PacingSuccessRatio gate mastery in the
	// sentence-pacing game.
	PacingMinAttempts  = 2
	PacingSuccessRatio = 0.75
)

// Params defines the per-exercise configuration of the engine.
type Params struct {
	WindowSize int
	Rule       MasteryRule
}

// ParamsFor returns the engine parameters for an exercise mode.
// Returns domain.ErrInvalidExerciseType for unknown modes.
func ParamsFor(exercise domain.ExerciseType) (Params, error) {
	switch exercise {
	case domain.ExerciseSustainedSound:
		return Params{
			WindowSize: WordWindowSize,
			Rule: RatioRule{
				MinAttempts:  SustainMinAttempts,
				SuccessRatio: SustainSuccessRatio,
			},
		}, nil
	case domain.ExerciseWordEcho:
		return Params{
			WindowSize: WordWindowSize,
			Rule:       CleanPassRule{RequiredPasses: EchoRequiredPasses},
		}, nil
	case domain.ExerciseSentencePacing:
		return Params{
			WindowSize: SentenceWindowSize,
			Rule: RatioRule{
				MinAttempts:  PacingMinAttempts,
				SuccessRatio: PacingSuccessRatio,
			},
		}, nil
	default:
		return Params{}, fmt.Errorf("%w: %q", domain.ErrInvalidExerciseType, exercise)
	}
}
