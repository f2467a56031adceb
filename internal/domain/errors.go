package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidExerciseType is returned when an exercise type is not one of
	// the supported exercise modes.
	ErrInvalidExerciseType = errors.New("invalid exercise type")

	// ErrEmptyCatalog is returned when a content catalog contains no items.
	// A learner must never be initialized against an empty catalog, so this
	// is a fatal configuration error rather than a silently degraded state.
	ErrEmptyCatalog = errors.New("content catalog is empty")

	// ErrInvariantViolation is returned when a progression state fails its
	// structural invariants (window overflow, overlapping sets, lost items).
	// It indicates a logic defect and must abort the enclosing commit.
	ErrInvariantViolation = errors.New("progression invariant violated")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)
