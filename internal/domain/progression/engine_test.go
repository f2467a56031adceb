package progression

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/soundsteps/soundsteps-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

// makeCatalog builds n items in a single tier, positioned in order.
func makeCatalog(n int) []domain.ContentItem {
	items := make([]domain.ContentItem, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, domain.ContentItem{
			ID:           fmt.Sprintf("item-%02d", i+1),
			ExerciseType: domain.ExerciseSustainedSound,
			Tier:         1,
			Position:     i + 1,
			DisplayText:  fmt.Sprintf("Item %d", i+1),
		})
	}
	return items
}

func sustainParams(t *testing.T) Params {
	t.Helper()
	params, err := ParamsFor(domain.ExerciseSustainedSound)
	require.NoError(t, err)
	return params
}

func pass() domain.AttemptMetrics {
	return domain.AttemptMetrics{Succeeded: true}
}

func fail() domain.AttemptMetrics {
	return domain.AttemptMetrics{Succeeded: false}
}

func TestSeed(t *testing.T) {
	t.Parallel()

	learnerID := uuid.New()
	params := sustainParams(t)

	t.Run("first window active, remainder locked", func(t *testing.T) {
		t.Parallel()

		state, err := Seed(learnerID, domain.ExerciseSustainedSound, makeCatalog(8), params, testTime)
		require.NoError(t, err)

		assert.Equal(t, []string{"item-01", "item-02", "item-03", "item-04", "item-05"}, state.Active)
		assert.Equal(t, []string{"item-06", "item-07", "item-08"}, state.Locked)
		assert.Empty(t, state.Mastered)
		assert.Empty(t, state.Stats)
	})

	t.Run("ordering by tier then position", func(t *testing.T) {
		t.Parallel()

		catalog := []domain.ContentItem{
			{ID: "b2", Tier: 2, Position: 1},
			{ID: "a3", Tier: 1, Position: 3},
			{ID: "a1", Tier: 1, Position: 1},
			{ID: "b1", Tier: 1, Position: 4},
			{ID: "a2", Tier: 1, Position: 2},
			{ID: "c1", Tier: 3, Position: 1},
		}

		state, err := Seed(learnerID, domain.ExerciseSustainedSound, catalog, params, testTime)
		require.NoError(t, err)

		assert.Equal(t, []string{"a1", "a2", "a3", "b1", "b2"}, state.Active)
		assert.Equal(t, []string{"c1"}, state.Locked)
	})

	t.Run("catalog smaller than window", func(t *testing.T) {
		t.Parallel()

		state, err := Seed(learnerID, domain.ExerciseSustainedSound, makeCatalog(3), params, testTime)
		require.NoError(t, err)

		assert.Len(t, state.Active, 3)
		assert.Empty(t, state.Locked)
	})

	t.Run("empty catalog is a configuration error", func(t *testing.T) {
		t.Parallel()

		_, err := Seed(learnerID, domain.ExerciseSustainedSound, nil, params, testTime)
		assert.ErrorIs(t, err, domain.ErrEmptyCatalog)
	})

	t.Run("missing learner ID", func(t *testing.T) {
		t.Parallel()

		_, err := Seed(uuid.Nil, domain.ExerciseSustainedSound, makeCatalog(6), params, testTime)
		assert.ErrorIs(t, err, domain.ErrEmptyLearnerID)
	})
}

func TestApplyMasteryAndSlide(t *testing.T) {
	t.Parallel()

	params := sustainParams(t)
	state, err := Seed(uuid.New(), domain.ExerciseSustainedSound, makeCatalog(8), params, testTime)
	require.NoError(t, err)

	// Two passes: evidence accumulates but the attempt floor is not reached.
	for i := 0; i < 2; i++ {
		outcome, err := Apply(state, []domain.AttemptResult{
			{ItemID: "item-01", Metrics: pass()},
		}, params, testTime)
		require.NoError(t, err)
		assert.Empty(t, outcome.NewlyMastered)
	}
	assert.True(t, state.IsActive("item-01"))

	// Third pass crosses both the attempt floor and the ratio threshold.
	outcome, err := Apply(state, []domain.AttemptResult{
		{ItemID: "item-01", Metrics: pass()},
	}, params, testTime)
	require.NoError(t, err)

	assert.Equal(t, []string{"item-01"}, outcome.NewlyMastered)
	require.Len(t, outcome.Promotions, 1)
	assert.Equal(t, domain.Promotion{MasteredID: "item-01", PromotedID: "item-06"}, outcome.Promotions[0])

	assert.False(t, state.IsActive("item-01"))
	assert.True(t, state.IsMastered("item-01"))
	assert.Equal(t, []string{"item-02", "item-03", "item-04", "item-05", "item-06"}, state.Active)
	assert.Equal(t, []string{"item-07", "item-08"}, state.Locked)

	// Statistics survive graduation.
	assert.Equal(t, 3, state.Stats["item-01"].Attempts)
	assert.Equal(t, 3, state.Stats["item-01"].SuccessCount)
}

func TestApplyFailuresNeverDemote(t *testing.T) {
	t.Parallel()

	params := sustainParams(t)
	state, err := Seed(uuid.New(), domain.ExerciseSustainedSound, makeCatalog(8), params, testTime)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		outcome, err := Apply(state, []domain.AttemptResult{
			{ItemID: "item-02", Metrics: fail()},
		}, params, testTime)
		require.NoError(t, err)
		assert.Empty(t, outcome.NewlyMastered)
		assert.False(t, outcome.Results[0].Passed)
	}

	assert.True(t, state.IsActive("item-02"))
	assert.Equal(t, 10, state.Stats["item-02"].Attempts)
	assert.Equal(t, 0, state.Stats["item-02"].SuccessCount)
}

func TestApplyRatioRecovery(t *testing.T) {
	t.Parallel()

	// fail, pass, pass, pass: ratio reaches 0.75 < 0.8 at attempt 4, then
	// 0.8 at attempt 5.
	params := sustainParams(t)
	state, err := Seed(uuid.New(), domain.ExerciseSustainedSound, makeCatalog(6), params, testTime)
	require.NoError(t, err)

	sequence := []domain.AttemptMetrics{fail(), pass(), pass(), pass()}
	for _, metrics := range sequence {
		outcome, err := Apply(state, []domain.AttemptResult{
			{ItemID: "item-01", Metrics: metrics},
		}, params, testTime)
		require.NoError(t, err)
		assert.Empty(t, outcome.NewlyMastered)
	}

	outcome, err := Apply(state, []domain.AttemptResult{
		{ItemID: "item-01", Metrics: pass()},
	}, params, testTime)
	require.NoError(t, err)
	assert.Equal(t, []string{"item-01"}, outcome.NewlyMastered)
}

func TestApplyCleanPassCounter(t *testing.T) {
	t.Parallel()

	params, err := ParamsFor(domain.ExerciseWordEcho)
	require.NoError(t, err)

	state, err := Seed(uuid.New(), domain.ExerciseWordEcho, makeCatalog(7), params, testTime)
	require.NoError(t, err)

	cleanPass := domain.AttemptMetrics{TrialAttempt: 1, RepetitionDetected: false}
	repeated := domain.AttemptMetrics{TrialAttempt: 1, RepetitionDetected: true}
	secondTake := domain.AttemptMetrics{TrialAttempt: 2, RepetitionDetected: false}

	// Two clean passes with disqualified recordings in between; the counter
	// must not reset.
	sequence := []domain.AttemptMetrics{cleanPass, repeated, cleanPass, secondTake}
	for _, metrics := range sequence {
		outcome, err := Apply(state, []domain.AttemptResult{
			{ItemID: "item-01", Metrics: metrics},
		}, params, testTime)
		require.NoError(t, err)
		assert.Empty(t, outcome.NewlyMastered)
	}

	outcome, err := Apply(state, []domain.AttemptResult{
		{ItemID: "item-01", Metrics: cleanPass},
	}, params, testTime)
	require.NoError(t, err)
	assert.Equal(t, []string{"item-01"}, outcome.NewlyMastered)
	assert.Equal(t, 5, state.Stats["item-01"].Attempts)
	assert.Equal(t, 3, state.Stats["item-01"].SuccessCount)
}

func TestApplySentencePacing(t *testing.T) {
	t.Parallel()

	params, err := ParamsFor(domain.ExerciseSentencePacing)
	require.NoError(t, err)
	require.Equal(t, 4, params.WindowSize)

	state, err := Seed(uuid.New(), domain.ExerciseSentencePacing, makeCatalog(6), params, testTime)
	require.NoError(t, err)
	assert.Len(t, state.Active, 4)

	// Two passes reach the floor with ratio 1.0 >= 0.75.
	_, err = Apply(state, []domain.AttemptResult{
		{ItemID: "item-01", Metrics: pass()},
	}, params, testTime)
	require.NoError(t, err)

	outcome, err := Apply(state, []domain.AttemptResult{
		{ItemID: "item-01", Metrics: pass()},
	}, params, testTime)
	require.NoError(t, err)
	assert.Equal(t, []string{"item-01"}, outcome.NewlyMastered)
}

func TestApplyBatchWithMultipleItems(t *testing.T) {
	t.Parallel()

	params := sustainParams(t)
	state, err := Seed(uuid.New(), domain.ExerciseSustainedSound, makeCatalog(9), params, testTime)
	require.NoError(t, err)

	// Bring two items to the brink of mastery.
	for i := 0; i < 2; i++ {
		_, err := Apply(state, []domain.AttemptResult{
			{ItemID: "item-01", Metrics: pass()},
			{ItemID: "item-02", Metrics: pass()},
		}, params, testTime)
		require.NoError(t, err)
	}

	// One batch masters both; slides happen in mastery order, so item-01
	// pulls item-06 and item-02 pulls item-07.
	outcome, err := Apply(state, []domain.AttemptResult{
		{ItemID: "item-01", Metrics: pass()},
		{ItemID: "item-02", Metrics: pass()},
	}, params, testTime)
	require.NoError(t, err)

	assert.Equal(t, []string{"item-01", "item-02"}, outcome.NewlyMastered)
	require.Len(t, outcome.Promotions, 2)
	assert.Equal(t, "item-06", outcome.Promotions[0].PromotedID)
	assert.Equal(t, "item-07", outcome.Promotions[1].PromotedID)
	assert.Len(t, state.Active, params.WindowSize)
}

func TestApplyReservoirExhausted(t *testing.T) {
	t.Parallel()

	params := sustainParams(t)
	state, err := Seed(uuid.New(), domain.ExerciseSustainedSound, makeCatalog(5), params, testTime)
	require.NoError(t, err)
	require.Empty(t, state.Locked)

	for i := 0; i < 3; i++ {
		_, err := Apply(state, []domain.AttemptResult{
			{ItemID: "item-03", Metrics: pass()},
		}, params, testTime)
		require.NoError(t, err)
	}

	// No reservoir left: the window shrinks instead of refilling.
	assert.Equal(t, []string{"item-01", "item-02", "item-04", "item-05"}, state.Active)
	assert.Equal(t, []string{"item-03"}, state.Mastered)
	assert.Empty(t, state.Locked)
}

func TestApplyNonActiveItemsOnlyAccumulateStats(t *testing.T) {
	t.Parallel()

	params := sustainParams(t)
	state, err := Seed(uuid.New(), domain.ExerciseSustainedSound, makeCatalog(8), params, testTime)
	require.NoError(t, err)

	// item-07 is locked; results for it record evidence but cannot graduate
	// it out of order.
	for i := 0; i < 4; i++ {
		outcome, err := Apply(state, []domain.AttemptResult{
			{ItemID: "item-07", Metrics: pass()},
		}, params, testTime)
		require.NoError(t, err)
		assert.Empty(t, outcome.NewlyMastered)
	}

	assert.Equal(t, 4, state.Stats["item-07"].Attempts)
	assert.Contains(t, state.Locked, "item-07")
}

func TestApplyUnknownItemStartsFresh(t *testing.T) {
	t.Parallel()

	params := sustainParams(t)
	state, err := Seed(uuid.New(), domain.ExerciseSustainedSound, makeCatalog(6), params, testTime)
	require.NoError(t, err)

	outcome, err := Apply(state, []domain.AttemptResult{
		{ItemID: "item-new", Metrics: pass()},
	}, params, testTime)
	require.NoError(t, err)

	assert.True(t, outcome.Results[0].Passed)
	assert.Equal(t, domain.ItemStats{Attempts: 1, SuccessCount: 1, LastPlayedAt: &testTime}, state.Stats["item-new"])
}

func TestApplyNilState(t *testing.T) {
	t.Parallel()

	_, err := Apply(nil, nil, sustainParams(t), testTime)
	assert.ErrorIs(t, err, ErrNilState)
}

func TestApplyDetectsCorruptState(t *testing.T) {
	t.Parallel()

	params := sustainParams(t)
	state, err := Seed(uuid.New(), domain.ExerciseSustainedSound, makeCatalog(8), params, testTime)
	require.NoError(t, err)

	// Corrupt the partition: the same item both active and mastered.
	state.Mastered = append(state.Mastered, state.Active[0])

	_, err = Apply(state, []domain.AttemptResult{
		{ItemID: "item-02", Metrics: fail()},
	}, params, testTime)
	assert.ErrorIs(t, err, domain.ErrInvariantViolation)
}

func TestReset(t *testing.T) {
	t.Parallel()

	params := sustainParams(t)

	masteredState := func(t *testing.T) *domain.ProgressionState {
		t.Helper()
		state, err := Seed(uuid.New(), domain.ExerciseSustainedSound, makeCatalog(8), params, testTime)
		require.NoError(t, err)
		for i := 0; i < 3; i++ {
			_, err := Apply(state, []domain.AttemptResult{
				{ItemID: "item-01", Metrics: pass()},
			}, params, testTime)
			require.NoError(t, err)
		}
		require.True(t, state.IsMastered("item-01"))
		return state
	}

	t.Run("full window displaces the newest active item", func(t *testing.T) {
		t.Parallel()

		state := masteredState(t)
		// Active is item-02..item-06 with item-06 the most recent promotion.
		require.NoError(t, Reset(state, "item-01", params, testTime))

		assert.True(t, state.IsActive("item-01"))
		assert.False(t, state.IsMastered("item-01"))
		assert.Equal(t, "item-06", state.Locked[0], "displaced item returns to the head of the reservoir")
		assert.Len(t, state.Active, params.WindowSize)
		assert.Equal(t, domain.ItemStats{}, state.Stats["item-01"], "statistics start over")
	})

	t.Run("shrunken window refills without displacement", func(t *testing.T) {
		t.Parallel()

		state, err := Seed(uuid.New(), domain.ExerciseSustainedSound, makeCatalog(5), params, testTime)
		require.NoError(t, err)
		for i := 0; i < 3; i++ {
			_, err := Apply(state, []domain.AttemptResult{
				{ItemID: "item-01", Metrics: pass()},
			}, params, testTime)
			require.NoError(t, err)
		}
		require.Len(t, state.Active, 4)

		require.NoError(t, Reset(state, "item-01", params, testTime))
		assert.Len(t, state.Active, 5)
		assert.Empty(t, state.Locked)
	})

	t.Run("item not mastered", func(t *testing.T) {
		t.Parallel()

		state := masteredState(t)
		err := Reset(state, "item-02", params, testTime)
		assert.ErrorIs(t, err, domain.ErrItemNotMastered)
	})

	t.Run("nil state", func(t *testing.T) {
		t.Parallel()

		err := Reset(nil, "item-01", params, testTime)
		assert.ErrorIs(t, err, ErrNilState)
	})
}
