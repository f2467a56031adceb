package progression

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/soundsteps/soundsteps-api/internal/domain"
)

// Common engine errors
var (
	// ErrNilState is returned when a nil progression state is passed in.
	ErrNilState = errors.New("progression state cannot be nil")

	// ErrCurriculumComplete is returned by PickNext when the active set is
	// empty, which is only reachable once the entire catalog is mastered.
	ErrCurriculumComplete = errors.New("curriculum complete: no active items remain")
)

// Seed builds a fresh progression document from an ordered catalog: the
// first windowSize items (by tier, then position) become active, the rest
// are held in the locked reservoir. An empty catalog is a configuration
// error, never a usable-but-empty document.
func Seed(
	learnerID uuid.UUID,
	exercise domain.ExerciseType,
	catalog []domain.ContentItem,
	params Params,
	now time.Time,
) (*domain.ProgressionState, error) {
	if learnerID == uuid.Nil {
		return nil, domain.ErrEmptyLearnerID
	}

	if len(catalog) == 0 {
		return nil, fmt.Errorf("%w: exercise %q", domain.ErrEmptyCatalog, exercise)
	}

	ordered := append([]domain.ContentItem(nil), catalog...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Tier != ordered[j].Tier {
			return ordered[i].Tier < ordered[j].Tier
		}
		return ordered[i].Position < ordered[j].Position
	})

	state := &domain.ProgressionState{
		LearnerID:    learnerID,
		ExerciseType: exercise,
		Active:       make([]string, 0, params.WindowSize),
		Mastered:     []string{},
		Locked:       []string{},
		Stats:        map[string]domain.ItemStats{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	for i, item := range ordered {
		if i < params.WindowSize {
			state.Active = append(state.Active, item.ID)
		} else {
			state.Locked = append(state.Locked, item.ID)
		}
	}

	if err := state.CheckInvariants(params.WindowSize); err != nil {
		return nil, err
	}

	return state, nil
}

// Apply folds one batch of attempt results into the state, in submission
// order: statistics first, then mastery evaluation against the updated
// statistics, then one deterministic window slide per newly mastered item.
//
// The state is mutated in place; callers that need rollback semantics pass a
// Clone and discard it on error. The returned outcome lists the per-item
// verdicts, the items that graduated in this batch, and the
// (mastered, promoted) pairings for UI feedback.
func Apply(
	state *domain.ProgressionState,
	results []domain.AttemptResult,
	params Params,
	now time.Time,
) (*domain.BatchOutcome, error) {
	if state == nil {
		return nil, ErrNilState
	}

	outcome := &domain.BatchOutcome{
		Results:       make([]domain.ItemOutcome, 0, len(results)),
		NewlyMastered: []string{},
		Promotions:    []domain.Promotion{},
	}

	mastered := map[string]bool{}
	for _, result := range results {
		passed := params.Rule.AttemptPassed(result.Metrics)

		// Items absent from the stats map (including ids the catalog grew
		// to include) start from zero-valued statistics.
		stats := state.StatsFor(result.ItemID).Record(passed, now)
		state.Stats[result.ItemID] = stats

		outcome.Results = append(outcome.Results, domain.ItemOutcome{
			ItemID: result.ItemID,
			Passed: passed,
		})

		// Only items currently in the practice window can graduate;
		// failures never change set membership.
		if mastered[result.ItemID] || !state.IsActive(result.ItemID) {
			continue
		}
		if params.Rule.MasteryAchieved(passed, stats) {
			mastered[result.ItemID] = true
			outcome.NewlyMastered = append(outcome.NewlyMastered, result.ItemID)
		}
	}

	for _, itemID := range outcome.NewlyMastered {
		state.Active = removeActive(state.Active, itemID)
		state.Mastered = append(state.Mastered, itemID)

		if len(state.Locked) > 0 {
			promoted := state.Locked[0]
			state.Locked = state.Locked[1:]
			state.Active = append(state.Active, promoted)
			outcome.Promotions = append(outcome.Promotions, domain.Promotion{
				MasteredID: itemID,
				PromotedID: promoted,
			})
		}
		// Reservoir exhausted: the window shrinks and stays shrunk.
	}

	state.UpdatedAt = now

	if err := state.CheckInvariants(params.WindowSize); err != nil {
		return nil, err
	}

	return outcome, nil
}

// Reset moves a mastered item back into the active window and clears its
// statistics. This is the only backward transition in the lifecycle and is
// triggered only by an explicit external request (regression support),
// never by the attempt pipeline.
//
// If the window is already full, the most recently promoted active item is
// returned to the head of the locked reservoir to make room, keeping the
// window bound and the partition intact.
func Reset(
	state *domain.ProgressionState,
	itemID string,
	params Params,
	now time.Time,
) error {
	if state == nil {
		return ErrNilState
	}

	if !state.IsMastered(itemID) {
		return fmt.Errorf("%w: %q", domain.ErrItemNotMastered, itemID)
	}

	state.Mastered = removeActive(state.Mastered, itemID)

	if len(state.Active) >= params.WindowSize && len(state.Active) > 0 {
		displaced := state.Active[len(state.Active)-1]
		state.Active = state.Active[:len(state.Active)-1]
		state.Locked = append([]string{displaced}, state.Locked...)
	}

	state.Active = append(state.Active, itemID)
	state.Stats[itemID] = domain.ItemStats{}
	state.UpdatedAt = now

	return state.CheckInvariants(params.WindowSize)
}

// removeActive returns ids without itemID, preserving order.
func removeActive(ids []string, itemID string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != itemID {
			out = append(out, id)
		}
	}
	return out
}
