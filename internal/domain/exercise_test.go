package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExerciseType(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"sustained_sound", "word_echo", "sentence_pacing"} {
		exercise, err := ParseExerciseType(valid)
		require.NoError(t, err)
		assert.Equal(t, ExerciseType(valid), exercise)
		assert.True(t, exercise.Valid())
	}

	for _, invalid := range []string{"", "humming", "SUSTAINED_SOUND", "sustained-sound"} {
		_, err := ParseExerciseType(invalid)
		assert.ErrorIs(t, err, ErrInvalidExerciseType, "input %q", invalid)
	}
}

func TestContentItemValidate(t *testing.T) {
	t.Parallel()

	valid := ContentItem{
		ID:           "ss-ah",
		ExerciseType: ExerciseSustainedSound,
		Tier:         1,
		Position:     1,
		DisplayText:  "Ahhh",
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name    string
		mutate  func(*ContentItem)
		wantErr error
	}{
		{"empty ID", func(c *ContentItem) { c.ID = "" }, ErrItemIDEmpty},
		{"bad exercise", func(c *ContentItem) { c.ExerciseType = "juggling" }, ErrItemExerciseInvalid},
		{"tier below one", func(c *ContentItem) { c.Tier = 0 }, ErrItemTierInvalid},
		{"empty text", func(c *ContentItem) { c.DisplayText = "" }, ErrItemTextEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			item := valid
			tt.mutate(&item)
			assert.ErrorIs(t, item.Validate(), tt.wantErr)
		})
	}
}
