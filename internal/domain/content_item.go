package domain

import (
	"encoding/json"
	"errors"
)

// Content item validation errors
var (
	// ErrItemIDEmpty is returned when a content item ID is empty.
	ErrItemIDEmpty = errors.New("content item ID cannot be empty")

	// ErrItemExerciseInvalid is returned when a content item carries an
	// unknown exercise type.
	ErrItemExerciseInvalid = errors.New("content item exercise type is invalid")

	// ErrItemTierInvalid is returned when a content item tier is below 1.
	ErrItemTierInvalid = errors.New("content item tier must be at least 1")

	// ErrItemTextEmpty is returned when a content item has no display text.
	ErrItemTextEmpty = errors.New("content item display text cannot be empty")
)

// ContentItem is an immutable catalog entry for one practice item.
// Items are seeded at deploy time and never mutated afterwards; the catalog
// is ordered by tier, then by position within the tier.
type ContentItem struct {
	ID           string          `json:"id"`
	ExerciseType ExerciseType    `json:"exercise_type"`
	Tier         int             `json:"tier"`
	Position     int             `json:"position"`
	DisplayText  string          `json:"display_text"`
	Phoneme      string          `json:"phoneme,omitempty"`
	Example      string          `json:"example,omitempty"`
	Metadata     json.RawMessage `json:"metadata,omitempty"`
}

// ItemMetadata is the conventional structure of the Metadata field. The field
// is stored as JSONB so individual exercises can extend it without schema
// changes.
type ItemMetadata struct {
	IPA       string   `json:"ipa,omitempty"`
	Syllables []string `json:"syllables,omitempty"`
	WordCount int      `json:"word_count,omitempty"`
}

// Validate checks if the ContentItem has valid data.
// Returns an error if any field fails validation.
func (c *ContentItem) Validate() error {
	if c.ID == "" {
		return ErrItemIDEmpty
	}

	if !c.ExerciseType.Valid() {
		return ErrItemExerciseInvalid
	}

	if c.Tier < 1 {
		return ErrItemTierInvalid
	}

	if c.DisplayText == "" {
		return ErrItemTextEmpty
	}

	return nil
}
