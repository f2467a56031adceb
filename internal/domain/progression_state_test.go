package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validState() *ProgressionState {
	now := time.Now().UTC()
	return &ProgressionState{
		LearnerID:    uuid.New(),
		ExerciseType: ExerciseSustainedSound,
		Active:       []string{"a", "b", "c", "d", "e"},
		Mastered:     []string{"m1"},
		Locked:       []string{"l1", "l2"},
		Stats: map[string]ItemStats{
			"a":  {Attempts: 2, SuccessCount: 1},
			"m1": {Attempts: 4, SuccessCount: 4},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestProgressionStateValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid state", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, validState().Validate())
	})

	t.Run("missing learner ID", func(t *testing.T) {
		t.Parallel()
		state := validState()
		state.LearnerID = uuid.Nil
		assert.ErrorIs(t, state.Validate(), ErrEmptyLearnerID)
	})

	t.Run("unknown exercise type", func(t *testing.T) {
		t.Parallel()
		state := validState()
		state.ExerciseType = "karaoke"
		assert.ErrorIs(t, state.Validate(), ErrInvalidExerciseType)
	})

	t.Run("corrupt statistics", func(t *testing.T) {
		t.Parallel()
		state := validState()
		state.Stats["a"] = ItemStats{Attempts: 1, SuccessCount: 2}
		assert.ErrorIs(t, state.Validate(), ErrSuccessExceedsAttempts)
	})
}

func TestProgressionStateCheckInvariants(t *testing.T) {
	t.Parallel()

	const windowSize = 5

	t.Run("valid partition", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, validState().CheckInvariants(windowSize))
	})

	t.Run("window overflow", func(t *testing.T) {
		t.Parallel()
		state := validState()
		state.Active = append(state.Active, "f")
		assert.ErrorIs(t, state.CheckInvariants(windowSize), ErrInvariantViolation)
	})

	t.Run("window underfilled while items remain locked", func(t *testing.T) {
		t.Parallel()
		state := validState()
		state.Active = state.Active[:3]
		assert.ErrorIs(t, state.CheckInvariants(windowSize), ErrInvariantViolation)
	})

	t.Run("shrunken window is valid once the reservoir is empty", func(t *testing.T) {
		t.Parallel()
		state := validState()
		state.Active = state.Active[:3]
		state.Locked = nil
		assert.NoError(t, state.CheckInvariants(windowSize))
	})

	t.Run("item in two sets", func(t *testing.T) {
		t.Parallel()
		state := validState()
		state.Locked = append(state.Locked, "a")
		assert.ErrorIs(t, state.CheckInvariants(windowSize), ErrInvariantViolation)
	})
}

func TestProgressionStateClone(t *testing.T) {
	t.Parallel()

	original := validState()
	clone := original.Clone()

	require.Equal(t, original, clone)

	clone.Active[0] = "changed"
	clone.Mastered = append(clone.Mastered, "m2")
	clone.Stats["a"] = ItemStats{Attempts: 99}

	assert.Equal(t, "a", original.Active[0])
	assert.Len(t, original.Mastered, 1)
	assert.Equal(t, 2, original.Stats["a"].Attempts)
}

func TestProgressionStateMembership(t *testing.T) {
	t.Parallel()

	state := validState()

	assert.True(t, state.IsActive("a"))
	assert.False(t, state.IsActive("m1"))
	assert.True(t, state.IsMastered("m1"))
	assert.False(t, state.IsMastered("l1"))

	assert.Equal(t, ItemStats{Attempts: 2, SuccessCount: 1}, state.StatsFor("a"))
	assert.Equal(t, ItemStats{}, state.StatsFor("never-played"))
}
