package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestItemStatsRecord(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	stats := ItemStats{}
	stats = stats.Record(true, now)
	assert.Equal(t, 1, stats.Attempts)
	assert.Equal(t, 1, stats.SuccessCount)
	assert.Equal(t, &now, stats.LastPlayedAt)

	stats = stats.Record(false, now.Add(time.Minute))
	assert.Equal(t, 2, stats.Attempts)
	assert.Equal(t, 1, stats.SuccessCount)
	assert.Equal(t, now.Add(time.Minute), *stats.LastPlayedAt)
}

func TestItemStatsSuccessRatio(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, ItemStats{}.SuccessRatio(), "no attempts means no evidence, not a divide by zero")
	assert.Equal(t, 0.8, ItemStats{Attempts: 5, SuccessCount: 4}.SuccessRatio())
	assert.Equal(t, 1.0, ItemStats{Attempts: 3, SuccessCount: 3}.SuccessRatio())
}

func TestItemStatsValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ItemStats{Attempts: 3, SuccessCount: 2}.Validate())
	assert.ErrorIs(t, ItemStats{Attempts: -1}.Validate(), ErrNegativeAttempts)
	assert.ErrorIs(t, ItemStats{Attempts: 1, SuccessCount: 2}.Validate(), ErrSuccessExceedsAttempts)
	assert.ErrorIs(t, ItemStats{SuccessCount: -1}.Validate(), ErrSuccessExceedsAttempts)
}
