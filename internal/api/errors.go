package api

import (
	"errors"
	"net/http"

	"github.com/soundsteps/soundsteps-api/internal/domain"
	engine "github.com/soundsteps/soundsteps-api/internal/domain/progression"
	"github.com/soundsteps/soundsteps-api/internal/service/auth"
	"github.com/soundsteps/soundsteps-api/internal/service/progression"
	"github.com/soundsteps/soundsteps-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, domain.ErrInvalidExerciseType),
		errors.Is(err, domain.ErrItemNotMastered),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, progression.ErrInvalidSubmission),
		errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest

	// Special cases
	case errors.Is(err, engine.ErrCurriculumComplete):
		return http.StatusNoContent

	// Content misconfiguration degrades to "content unavailable" rather
	// than crashing the learner-facing session.
	case errors.Is(err, domain.ErrEmptyCatalog):
		return http.StatusServiceUnavailable

	// Conflicted transactions that exhausted their retries: the client
	// should retry transparently.
	case errors.Is(err, progression.ErrTransientFailure):
		return http.StatusServiceUnavailable

	// Invariant violations are internal logic defects.
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid email or password"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, domain.ErrInvalidExerciseType):
		return "Unknown exercise type"

	case errors.Is(err, domain.ErrItemNotMastered):
		return "Item has not been mastered"

	case errors.Is(err, store.ErrEmailExists):
		return "Email is already registered"

	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, progression.ErrInvalidSubmission):
		return "Invalid attempt submission"

	case errors.Is(err, domain.ErrEmptyCatalog),
		errors.Is(err, progression.ErrTransientFailure):
		return "Content temporarily unavailable, please retry"

	default:
		return "An unexpected error occurred"
	}
}
