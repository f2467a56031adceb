package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/soundsteps/soundsteps-api/internal/domain"
	"github.com/soundsteps/soundsteps-api/internal/store"
)

// PostgresContentStore implements the store.ContentStore interface
// using a PostgreSQL database as the storage backend.
type PostgresContentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresContentStore creates a new PostgreSQL implementation of the ContentStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresContentStore(db store.DBTX, logger *slog.Logger) *PostgresContentStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresContentStore{
		db:     db,
		logger: logger.With(slog.String("component", "content_store")),
	}
}

// Ensure PostgresContentStore implements store.ContentStore interface
var _ store.ContentStore = (*PostgresContentStore)(nil)

// ListItems implements store.ContentStore.ListItems.
// The catalog is returned ordered by tier, then by catalog position, which
// is the seed order of the progression engine. An empty catalog is reported
// as domain.ErrEmptyCatalog.
func (s *PostgresContentStore) ListItems(
	ctx context.Context,
	exercise domain.ExerciseType,
) ([]domain.ContentItem, error) {
	query := `
		SELECT id, exercise_type, tier, position, display_text, phoneme, example, metadata
		FROM content_items
		WHERE exercise_type = $1
		ORDER BY tier ASC, position ASC`

	rows, err := s.db.QueryContext(ctx, query, string(exercise))
	if err != nil {
		return nil, MapError(fmt.Errorf("failed to list content items: %w", err))
	}
	defer func() { _ = rows.Close() }()

	var items []domain.ContentItem
	for rows.Next() {
		item, err := scanContentItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(fmt.Errorf("failed to iterate content items: %w", err))
	}

	if len(items) == 0 {
		s.logger.Error("content catalog is empty",
			slog.String("exercise_type", string(exercise)))
		return nil, fmt.Errorf("%w: exercise %q", domain.ErrEmptyCatalog, exercise)
	}

	return items, nil
}

// GetItem implements store.ContentStore.GetItem.
func (s *PostgresContentStore) GetItem(
	ctx context.Context,
	exercise domain.ExerciseType,
	itemID string,
) (*domain.ContentItem, error) {
	query := `
		SELECT id, exercise_type, tier, position, display_text, phoneme, example, metadata
		FROM content_items
		WHERE exercise_type = $1 AND id = $2`

	row := s.db.QueryRowContext(ctx, query, string(exercise), itemID)
	item, err := scanContentItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: content item %q", store.ErrNotFound, itemID)
		}
		return nil, err
	}

	return item, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanContentItem(row rowScanner) (*domain.ContentItem, error) {
	var (
		item     domain.ContentItem
		exercise string
		phoneme  sql.NullString
		example  sql.NullString
		metadata []byte
	)

	err := row.Scan(
		&item.ID,
		&exercise,
		&item.Tier,
		&item.Position,
		&item.DisplayText,
		&phoneme,
		&example,
		&metadata,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, MapError(fmt.Errorf("failed to scan content item: %w", err))
	}

	item.ExerciseType = domain.ExerciseType(exercise)
	item.Phoneme = phoneme.String
	item.Example = example.String
	if len(metadata) > 0 {
		item.Metadata = json.RawMessage(metadata)
	}

	return &item, nil
}
