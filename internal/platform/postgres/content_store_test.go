package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/soundsteps/soundsteps-api/internal/domain"
	"github.com/soundsteps/soundsteps-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var contentColumnNames = []string{
	"id", "exercise_type", "tier", "position", "display_text", "phoneme", "example", "metadata",
}

func TestContentStoreListItems(t *testing.T) {
	t.Run("returns the ordered catalog", func(t *testing.T) {
		db, dbMock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		s := NewPostgresContentStore(db, nil)

		rows := sqlmock.NewRows(contentColumnNames).
			AddRow("ss-ah", "sustained_sound", 1, 1, "Ahhh", "ɑ", "as in \"father\"", []byte(`{"target_seconds":3}`)).
			AddRow("ss-ee", "sustained_sound", 1, 2, "Eeee", "i", "as in \"bee\"", []byte(`{}`))

		dbMock.ExpectQuery(`SELECT (.+) FROM content_items`).
			WithArgs(string(domain.ExerciseSustainedSound)).
			WillReturnRows(rows)

		items, err := s.ListItems(context.Background(), domain.ExerciseSustainedSound)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "ss-ah", items[0].ID)
		assert.Equal(t, "ɑ", items[0].Phoneme)
		assert.JSONEq(t, `{"target_seconds":3}`, string(items[0].Metadata))
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("empty catalog is a configuration error", func(t *testing.T) {
		db, dbMock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		s := NewPostgresContentStore(db, nil)

		dbMock.ExpectQuery(`SELECT (.+) FROM content_items`).
			WithArgs(string(domain.ExerciseWordEcho)).
			WillReturnRows(sqlmock.NewRows(contentColumnNames))

		_, err = s.ListItems(context.Background(), domain.ExerciseWordEcho)
		assert.ErrorIs(t, err, domain.ErrEmptyCatalog)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})
}

func TestContentStoreGetItem(t *testing.T) {
	t.Run("returns the item", func(t *testing.T) {
		db, dbMock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		s := NewPostgresContentStore(db, nil)

		rows := sqlmock.NewRows(contentColumnNames).
			AddRow("we-ball", "word_echo", 1, 2, "ball", "b", "", []byte(`{"syllables":1}`))

		dbMock.ExpectQuery(`SELECT (.+) FROM content_items`).
			WithArgs(string(domain.ExerciseWordEcho), "we-ball").
			WillReturnRows(rows)

		item, err := s.GetItem(context.Background(), domain.ExerciseWordEcho, "we-ball")
		require.NoError(t, err)
		assert.Equal(t, "ball", item.DisplayText)
		assert.Equal(t, domain.ExerciseWordEcho, item.ExerciseType)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("missing item", func(t *testing.T) {
		db, dbMock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		s := NewPostgresContentStore(db, nil)

		dbMock.ExpectQuery(`SELECT (.+) FROM content_items`).
			WithArgs(string(domain.ExerciseWordEcho), "we-ghost").
			WillReturnRows(sqlmock.NewRows(contentColumnNames))

		_, err = s.GetItem(context.Background(), domain.ExerciseWordEcho, "we-ghost")
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})
}
