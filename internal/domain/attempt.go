package domain

import (
	"time"

	"github.com/google/uuid"
)

// AttemptMetrics is the per-attempt signal payload produced by the audio
// analysis collaborator. The engine never inspects raw audio; it consumes
// these fields as opaque evidence for the mastery rules. Fields that a given
// exercise does not use are simply ignored by its rule.
type AttemptMetrics struct {
	// Succeeded is the collaborator's verdict on the attempt itself
	// (e.g., the phoneme was sustained, the sentence pace was on target).
	Succeeded bool `json:"succeeded"`

	// TrialAttempt is the ordinal of this recording within the current
	// trial. The one-shot word exercise only accepts the first recording.
	TrialAttempt int `json:"trial_attempt"`

	// RepetitionDetected reports whether the repetition detector flagged
	// the recording.
	RepetitionDetected bool `json:"repetition_detected"`

	// SustainedDurationRatio and OnsetRiseRate are carried for analytics;
	// the progression engine does not branch on them.
	SustainedDurationRatio float64 `json:"sustained_duration_ratio,omitempty"`
	OnsetRiseRate          float64 `json:"onset_rise_rate,omitempty"`
}

// AttemptResult pairs an item with the metrics of one attempt at it.
// A submission batch carries one or more results.
type AttemptResult struct {
	ItemID  string         `json:"item_id"`
	Metrics AttemptMetrics `json:"metrics"`
}

// Promotion records one slide of the window: the mastered item that vacated
// a slot and the locked item promoted into it. Consumed by the client to
// drive celebratory feedback.
type Promotion struct {
	MasteredID string `json:"mastered_id"`
	PromotedID string `json:"promoted_id"`
}

// ItemOutcome is the per-item verdict of a submission batch.
type ItemOutcome struct {
	ItemID string `json:"item_id"`
	Passed bool   `json:"passed"`
}

// BatchOutcome is the caller-visible result of one progression transaction.
type BatchOutcome struct {
	Results       []ItemOutcome `json:"results"`
	NewlyMastered []string      `json:"newly_mastered"`
	Promotions    []Promotion   `json:"promotions"`
}

// AttemptSubmission is the idempotency ledger entry for one submitted batch.
// The submission ID is generated by the client; committing the entry in the
// same transaction as the progression update means a retried submission is
// detected by its duplicate key and answered with the stored outcome instead
// of being applied twice.
type AttemptSubmission struct {
	ID           uuid.UUID    `json:"id"`
	LearnerID    uuid.UUID    `json:"learner_id"`
	ExerciseType ExerciseType `json:"exercise_type"`
	Outcome      BatchOutcome `json:"outcome"`
	CreatedAt    time.Time    `json:"created_at"`
}
