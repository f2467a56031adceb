package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/soundsteps/soundsteps-api/internal/api/middleware"
	"github.com/soundsteps/soundsteps-api/internal/api/shared"
	"github.com/soundsteps/soundsteps-api/internal/domain"
	"github.com/soundsteps/soundsteps-api/internal/service/progression"
)

// ExerciseHandler handles the per-exercise progression endpoints: next-item
// selection, attempt submission, progress reads and item resets.
type ExerciseHandler struct {
	service progression.Service
	logger  *slog.Logger
}

// NewExerciseHandler creates a new ExerciseHandler with the given dependencies.
func NewExerciseHandler(service progression.Service, logger *slog.Logger) *ExerciseHandler {
	if service == nil {
		panic("service cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	return &ExerciseHandler{
		service: service,
		logger:  logger.With(slog.String("component", "exercise_handler")),
	}
}

// exerciseFromRequest resolves the {type} URL parameter. A false return means
// the response has already been written.
func (h *ExerciseHandler) exerciseFromRequest(w http.ResponseWriter, r *http.Request) (domain.ExerciseType, bool) {
	exercise, err := domain.ParseExerciseType(chi.URLParam(r, "type"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Unknown exercise type")
		return "", false
	}
	return exercise, true
}

// learnerFromRequest resolves the authenticated learner. A false return means
// the response has already been written.
func (h *ExerciseHandler) learnerFromRequest(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	learnerID, ok := middleware.GetLearnerID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, false
	}
	return learnerID, true
}

// GetNextItem returns the next content item for the learner's active window.
// Responds 204 once the learner has mastered the whole catalog.
func (h *ExerciseHandler) GetNextItem(w http.ResponseWriter, r *http.Request) {
	exercise, ok := h.exerciseFromRequest(w, r)
	if !ok {
		return
	}
	learnerID, ok := h.learnerFromRequest(w, r)
	if !ok {
		return
	}

	item, err := h.service.GetNextItem(r.Context(), learnerID, exercise)
	if err != nil {
		if progression.IsCurriculumComplete(err) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, contentItemToResponse(item))
}

// SubmitAttempts applies a batch of attempt results for the learner.
func (h *ExerciseHandler) SubmitAttempts(w http.ResponseWriter, r *http.Request) {
	exercise, ok := h.exerciseFromRequest(w, r)
	if !ok {
		return
	}
	learnerID, ok := h.learnerFromRequest(w, r)
	if !ok {
		return
	}

	var req SubmitAttemptsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid attempt submission")
		return
	}

	submissionID, err := uuid.Parse(req.SubmissionID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid submission ID")
		return
	}

	results := make([]domain.AttemptResult, 0, len(req.Results))
	for _, res := range req.Results {
		results = append(results, domain.AttemptResult{
			ItemID: res.ItemID,
			Metrics: domain.AttemptMetrics{
				Succeeded:              res.Metrics.Succeeded,
				TrialAttempt:           res.Metrics.TrialAttempt,
				RepetitionDetected:     res.Metrics.RepetitionDetected,
				SustainedDurationRatio: res.Metrics.SustainedDurationRatio,
				OnsetRiseRate:          res.Metrics.OnsetRiseRate,
			},
		})
	}

	result, err := h.service.SubmitAttempts(r.Context(), learnerID, exercise, submissionID, results)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	if len(result.Outcome.NewlyMastered) > 0 {
		h.logger.Info("items mastered",
			slog.String("learner_id", learnerID.String()),
			slog.String("exercise_type", string(exercise)),
			slog.Int("mastered_count", len(result.Outcome.NewlyMastered)))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, submissionToResponse(result))
}

// GetProgress returns a snapshot of the learner's progression for dashboards.
func (h *ExerciseHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	exercise, ok := h.exerciseFromRequest(w, r)
	if !ok {
		return
	}
	learnerID, ok := h.learnerFromRequest(w, r)
	if !ok {
		return
	}

	summary, err := h.service.GetProgressSummary(r.Context(), learnerID, exercise)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, summaryToResponse(summary))
}

// ResetItem moves a mastered item back into the active window.
func (h *ExerciseHandler) ResetItem(w http.ResponseWriter, r *http.Request) {
	exercise, ok := h.exerciseFromRequest(w, r)
	if !ok {
		return
	}
	learnerID, ok := h.learnerFromRequest(w, r)
	if !ok {
		return
	}

	itemID := chi.URLParam(r, "id")
	if itemID == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Item ID required")
		return
	}

	summary, err := h.service.ResetItem(r.Context(), learnerID, exercise, itemID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	h.logger.Info("item reset",
		slog.String("learner_id", learnerID.String()),
		slog.String("exercise_type", string(exercise)),
		slog.String("item_id", itemID))

	shared.RespondWithJSON(w, r, http.StatusOK, summaryToResponse(summary))
}
