package domain

import "fmt"

// ExerciseType identifies one of the supported exercise modes. Each mode has
// its own content catalog and its own per-learner progression document.
type ExerciseType string

// Supported exercise modes.
const (
	// ExerciseSustainedSound is the sound-sustaining game: the learner holds
	// a target phoneme and the analysis collaborator scores the attempt.
	ExerciseSustainedSound ExerciseType = "sustained_sound"

	// ExerciseWordEcho is the one-shot word-pronunciation game: the learner
	// records a word once and the collaborator checks for repetitions.
	ExerciseWordEcho ExerciseType = "word_echo"

	// ExerciseSentencePacing is the sentence-pacing game: the learner reads
	// a sentence at a controlled pace.
	ExerciseSentencePacing ExerciseType = "sentence_pacing"
)

// ParseExerciseType converts a string into an ExerciseType.
// Returns ErrInvalidExerciseType for unknown values.
func ParseExerciseType(s string) (ExerciseType, error) {
	switch ExerciseType(s) {
	case ExerciseSustainedSound, ExerciseWordEcho, ExerciseSentencePacing:
		return ExerciseType(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidExerciseType, s)
	}
}

// Valid reports whether the exercise type is one of the supported modes.
func (e ExerciseType) Valid() bool {
	_, err := ParseExerciseType(string(e))
	return err == nil
}
