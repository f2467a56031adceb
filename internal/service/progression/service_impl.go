package progression

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/soundsteps/soundsteps-api/internal/domain"
	engine "github.com/soundsteps/soundsteps-api/internal/domain/progression"
	"github.com/soundsteps/soundsteps-api/internal/platform/logger"
	"github.com/soundsteps/soundsteps-api/internal/platform/postgres"
	"github.com/soundsteps/soundsteps-api/internal/store"
)

// Verify interface compliance at compile time
var _ Service = (*serviceImpl)(nil)

// serviceImpl implements the Service interface.
type serviceImpl struct {
	db          *sql.DB
	content     store.ContentStore
	progression store.ProgressionStore
	submissions store.SubmissionStore
	selector    *engine.Selector
	maxRetries  int
	now         func() time.Time
	logger      *slog.Logger
}

// NewService creates a new progression Service implementation.
// maxRetries bounds how often a conflicted transaction is retried before
// ErrTransientFailure is returned.
func NewService(
	db *sql.DB,
	content store.ContentStore,
	progressionStore store.ProgressionStore,
	submissions store.SubmissionStore,
	maxRetries int,
	log *slog.Logger,
) Service {
	if db == nil {
		panic("db cannot be nil")
	}
	if content == nil {
		panic("content store cannot be nil")
	}
	if progressionStore == nil {
		panic("progression store cannot be nil")
	}
	if submissions == nil {
		panic("submission store cannot be nil")
	}
	if maxRetries < 1 {
		maxRetries = 1
	}

	if log == nil {
		log = slog.Default()
	}

	return &serviceImpl{
		db:          db,
		content:     content,
		progression: progressionStore,
		submissions: submissions,
		selector:    engine.NewSelector(),
		maxRetries:  maxRetries,
		now:         func() time.Time { return time.Now().UTC() },
		logger:      log.With(slog.String("component", "progression_service")),
	}
}

// GetNextItem implements Service.GetNextItem.
func (s *serviceImpl) GetNextItem(
	ctx context.Context,
	learnerID uuid.UUID,
	exercise domain.ExerciseType,
) (*domain.ContentItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	params, err := engine.ParamsFor(exercise)
	if err != nil {
		return nil, err
	}

	state, err := s.loadOrSeed(ctx, learnerID, exercise, params)
	if err != nil {
		return nil, err
	}

	itemID, err := s.selector.PickNext(state)
	if err != nil {
		if errors.Is(err, engine.ErrCurriculumComplete) {
			log.Debug("curriculum complete",
				slog.String("learner_id", learnerID.String()),
				slog.String("exercise_type", string(exercise)))
			return nil, err
		}
		return nil, &ServiceError{Operation: "get_next_item", Message: "selector failed", Err: err}
	}

	item, err := s.content.GetItem(ctx, exercise, itemID)
	if err != nil {
		log.Error("active item missing from catalog",
			slog.String("item_id", itemID),
			slog.String("exercise_type", string(exercise)),
			slog.String("error", err.Error()))
		return nil, &ServiceError{Operation: "get_next_item", Message: "catalog lookup failed", Err: err}
	}

	return item, nil
}

// SubmitAttempts implements Service.SubmitAttempts.
func (s *serviceImpl) SubmitAttempts(
	ctx context.Context,
	learnerID uuid.UUID,
	exercise domain.ExerciseType,
	submissionID uuid.UUID,
	results []domain.AttemptResult,
) (*SubmissionResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	params, err := engine.ParamsFor(exercise)
	if err != nil {
		return nil, err
	}

	if submissionID == uuid.Nil {
		return nil, fmt.Errorf("%w: submission ID is required", ErrInvalidSubmission)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: no attempt results", ErrInvalidSubmission)
	}
	for _, r := range results {
		if r.ItemID == "" {
			return nil, fmt.Errorf("%w: result with empty item ID", ErrInvalidSubmission)
		}
	}

	// Signal evaluation happened in the collaborator before this call; the
	// transaction body only folds booleans and counters, keeping lock hold
	// time and retry cost bounded.
	var lastErr error
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		outcome, replayed, err := s.applyBatch(ctx, learnerID, exercise, submissionID, results, params)
		if err == nil {
			if replayed {
				log.Info("replayed duplicate submission",
					slog.String("learner_id", learnerID.String()),
					slog.String("submission_id", submissionID.String()))
			}
			return &SubmissionResult{Outcome: *outcome, Replayed: replayed}, nil
		}

		if postgres.IsSerializationFailure(err) {
			log.Warn("progression transaction conflict, retrying",
				slog.Int("attempt", attempt),
				slog.String("learner_id", learnerID.String()),
				slog.String("exercise_type", string(exercise)))
			lastErr = err
			continue
		}

		if errors.Is(err, domain.ErrInvariantViolation) {
			// Never silently corrected: this is a logic defect.
			log.Error("progression invariant violated, aborting commit",
				slog.String("learner_id", learnerID.String()),
				slog.String("exercise_type", string(exercise)),
				slog.String("error", err.Error()))
			return nil, err
		}

		return nil, err
	}

	log.Error("progression transaction retries exhausted",
		slog.String("learner_id", learnerID.String()),
		slog.String("exercise_type", string(exercise)),
		slog.Int("max_retries", s.maxRetries))
	return nil, fmt.Errorf("%w: %v", ErrTransientFailure, lastErr)
}

// applyBatch runs one attempt of the progression transaction. The returned
// bool reports whether the outcome was replayed from the idempotency ledger.
func (s *serviceImpl) applyBatch(
	ctx context.Context,
	learnerID uuid.UUID,
	exercise domain.ExerciseType,
	submissionID uuid.UUID,
	results []domain.AttemptResult,
	params engine.Params,
) (*domain.BatchOutcome, bool, error) {
	var (
		outcome  *domain.BatchOutcome
		replayed bool
	)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		progStore := s.progression.WithTx(tx)
		subStore := s.submissions.WithTx(tx)

		// A replay of an already-committed submission is answered from the
		// ledger; nothing below may run or the attempts would double-count.
		if prior, err := subStore.Get(ctx, submissionID); err == nil {
			if prior.LearnerID != learnerID || prior.ExerciseType != exercise {
				return fmt.Errorf("%w: submission ID reused across learners or exercises",
					ErrInvalidSubmission)
			}
			outcome = &prior.Outcome
			replayed = true
			return nil
		} else if !errors.Is(err, store.ErrSubmissionNotFound) {
			return fmt.Errorf("failed to check submission ledger: %w", err)
		}

		state, err := s.lockOrSeedState(ctx, progStore, learnerID, exercise, params)
		if err != nil {
			return err
		}

		next := state.Clone()
		batchOutcome, err := engine.Apply(next, results, params, s.now())
		if err != nil {
			return err
		}

		if err := progStore.Update(ctx, next); err != nil {
			return fmt.Errorf("failed to persist progression state: %w", err)
		}

		submission := &domain.AttemptSubmission{
			ID:           submissionID,
			LearnerID:    learnerID,
			ExerciseType: exercise,
			Outcome:      *batchOutcome,
			CreatedAt:    s.now(),
		}
		if err := subStore.Create(ctx, submission); err != nil {
			// Lost a race against an identical concurrent submission; the
			// rollback discards our application and the retry replays the
			// winner's stored outcome.
			if errors.Is(err, store.ErrSubmissionExists) {
				return fmt.Errorf("%w: %v", store.ErrSerialization, err)
			}
			return fmt.Errorf("failed to record submission: %w", err)
		}

		outcome = batchOutcome
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return outcome, replayed, nil
}

// GetProgressSummary implements Service.GetProgressSummary.
// This is a display read: no row lock, eventually consistent.
func (s *serviceImpl) GetProgressSummary(
	ctx context.Context,
	learnerID uuid.UUID,
	exercise domain.ExerciseType,
) (*ProgressSummary, error) {
	params, err := engine.ParamsFor(exercise)
	if err != nil {
		return nil, err
	}

	state, err := s.loadOrSeed(ctx, learnerID, exercise, params)
	if err != nil {
		return nil, err
	}

	return summarize(state), nil
}

// ResetItem implements Service.ResetItem.
func (s *serviceImpl) ResetItem(
	ctx context.Context,
	learnerID uuid.UUID,
	exercise domain.ExerciseType,
	itemID string,
) (*ProgressSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	params, err := engine.ParamsFor(exercise)
	if err != nil {
		return nil, err
	}

	var summary *ProgressSummary
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		progStore := s.progression.WithTx(tx)

		state, err := progStore.GetForUpdate(ctx, learnerID, exercise)
		if err != nil {
			return err
		}

		next := state.Clone()
		if err := engine.Reset(next, itemID, params, s.now()); err != nil {
			return err
		}

		if err := progStore.Update(ctx, next); err != nil {
			return fmt.Errorf("failed to persist progression state: %w", err)
		}

		summary = summarize(next)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("item reset to active",
		slog.String("learner_id", learnerID.String()),
		slog.String("exercise_type", string(exercise)),
		slog.String("item_id", itemID))
	return summary, nil
}

// loadOrSeed returns the learner's progression document, seeding it from the
// catalog on first access. Seeding is idempotent under concurrent first
// loads: Create inserts with ON CONFLICT DO NOTHING, and the loser of the
// race re-reads the winning document instead of overwriting it.
func (s *serviceImpl) loadOrSeed(
	ctx context.Context,
	learnerID uuid.UUID,
	exercise domain.ExerciseType,
	params engine.Params,
) (*domain.ProgressionState, error) {
	state, err := s.progression.Get(ctx, learnerID, exercise)
	if err == nil {
		return state, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to load progression state: %w", err)
	}

	catalog, err := s.content.ListItems(ctx, exercise)
	if err != nil {
		// Includes domain.ErrEmptyCatalog: initialization against an empty
		// pool aborts instead of producing a degenerate empty document.
		return nil, err
	}

	seeded, err := engine.Seed(learnerID, exercise, catalog, params, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.progression.Create(ctx, seeded); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return s.progression.Get(ctx, learnerID, exercise)
		}
		return nil, fmt.Errorf("failed to seed progression state: %w", err)
	}

	s.logger.Info("seeded progression state",
		slog.String("learner_id", learnerID.String()),
		slog.String("exercise_type", string(exercise)),
		slog.Int("active", len(seeded.Active)),
		slog.Int("locked", len(seeded.Locked)))
	return seeded, nil
}

// lockOrSeedState is the in-transaction variant of loadOrSeed: it takes the
// row lock, and when no document exists yet it seeds one inside the same
// transaction so the batch applies to a consistent first state.
func (s *serviceImpl) lockOrSeedState(
	ctx context.Context,
	progStore store.ProgressionStore,
	learnerID uuid.UUID,
	exercise domain.ExerciseType,
	params engine.Params,
) (*domain.ProgressionState, error) {
	state, err := progStore.GetForUpdate(ctx, learnerID, exercise)
	if err == nil {
		return state, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to lock progression state: %w", err)
	}

	catalog, err := s.content.ListItems(ctx, exercise)
	if err != nil {
		return nil, err
	}

	seeded, err := engine.Seed(learnerID, exercise, catalog, params, s.now())
	if err != nil {
		return nil, err
	}

	if err := progStore.Create(ctx, seeded); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			// A concurrent first access won the seed race; take its row.
			return progStore.GetForUpdate(ctx, learnerID, exercise)
		}
		return nil, fmt.Errorf("failed to seed progression state: %w", err)
	}

	return seeded, nil
}

func summarize(state *domain.ProgressionState) *ProgressSummary {
	items := make(map[string]domain.ItemStats, len(state.Stats))
	for id, stats := range state.Stats {
		items[id] = stats
	}
	return &ProgressSummary{
		ActiveCount:   len(state.Active),
		MasteredCount: len(state.Mastered),
		LockedCount:   len(state.Locked),
		Items:         items,
	}
}
