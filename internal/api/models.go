package api

import (
	"encoding/json"
	"time"

	"github.com/soundsteps/soundsteps-api/internal/domain"
	"github.com/soundsteps/soundsteps-api/internal/service/progression"
)

// RegisterRequest is the request body for learner registration.
type RegisterRequest struct {
	Email       string `json:"email"        validate:"required,email"`
	DisplayName string `json:"display_name" validate:"required,min=1,max=64"`
	Password    string `json:"password"     validate:"required,min=8,max=72"`
}

// LoginRequest is the request body for learner login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse carries a session token back to the client.
type TokenResponse struct {
	Token       string    `json:"token"`
	LearnerID   string    `json:"learner_id"`
	DisplayName string    `json:"display_name,omitempty"`
	ExpiresAt   time.Time `json:"expires_at,omitempty"`
}

// ContentItemResponse represents the response data for a content item.
type ContentItemResponse struct {
	ID          string          `json:"id"`
	Tier        int             `json:"tier"`
	DisplayText string          `json:"display_text"`
	Phoneme     string          `json:"phoneme,omitempty"`
	Example     string          `json:"example,omitempty"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
}

// AttemptMetricsRequest mirrors the collaborator's per-attempt metrics.
type AttemptMetricsRequest struct {
	Succeeded              bool    `json:"succeeded"`
	TrialAttempt           int     `json:"trial_attempt"            validate:"gte=0"`
	RepetitionDetected     bool    `json:"repetition_detected"`
	SustainedDurationRatio float64 `json:"sustained_duration_ratio"`
	OnsetRiseRate          float64 `json:"onset_rise_rate"`
}

// AttemptResultRequest is one (item, metrics) pair in a submission batch.
type AttemptResultRequest struct {
	ItemID  string                `json:"item_id" validate:"required"`
	Metrics AttemptMetricsRequest `json:"metrics"`
}

// SubmitAttemptsRequest is the request body for submitting a batch of
// attempt results. SubmissionID is the client-generated idempotency key.
type SubmitAttemptsRequest struct {
	SubmissionID string                 `json:"submission_id" validate:"required,uuid4"`
	Results      []AttemptResultRequest `json:"results"       validate:"required,min=1,dive"`
}

// SubmissionResponse is the response body for a submitted batch.
type SubmissionResponse struct {
	Replayed      bool                 `json:"replayed"`
	Results       []domain.ItemOutcome `json:"results"`
	NewlyMastered []string             `json:"newly_mastered"`
	Promotions    []domain.Promotion   `json:"promotions"`
}

// ItemStatsResponse represents per-item statistics in a progress summary.
type ItemStatsResponse struct {
	Attempts     int        `json:"attempts"`
	SuccessCount int        `json:"success_count"`
	LastPlayedAt *time.Time `json:"last_played_at,omitempty"`
}

// ProgressSummaryResponse is the response body for a progress summary.
type ProgressSummaryResponse struct {
	ActiveCount   int                          `json:"active_count"`
	MasteredCount int                          `json:"mastered_count"`
	LockedCount   int                          `json:"locked_count"`
	Items         map[string]ItemStatsResponse `json:"items"`
}

func contentItemToResponse(item *domain.ContentItem) ContentItemResponse {
	return ContentItemResponse{
		ID:          item.ID,
		Tier:        item.Tier,
		DisplayText: item.DisplayText,
		Phoneme:     item.Phoneme,
		Example:     item.Example,
		Metadata:    item.Metadata,
	}
}

func submissionToResponse(result *progression.SubmissionResult) SubmissionResponse {
	return SubmissionResponse{
		Replayed:      result.Replayed,
		Results:       result.Outcome.Results,
		NewlyMastered: result.Outcome.NewlyMastered,
		Promotions:    result.Outcome.Promotions,
	}
}

func summaryToResponse(summary *progression.ProgressSummary) ProgressSummaryResponse {
	items := make(map[string]ItemStatsResponse, len(summary.Items))
	for id, stats := range summary.Items {
		items[id] = ItemStatsResponse{
			Attempts:     stats.Attempts,
			SuccessCount: stats.SuccessCount,
			LastPlayedAt: stats.LastPlayedAt,
		}
	}
	return ProgressSummaryResponse{
		ActiveCount:   summary.ActiveCount,
		MasteredCount: summary.MasteredCount,
		LockedCount:   summary.LockedCount,
		Items:         items,
	}
}
