package postgres_test

import (
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notekeeper/internal/notes/adapters/postgres"
	"notekeeper/internal/notes/domain/entities"
)

func TestTagRepository_Create(t *testing.T) {
	ctx := testContext(t)
	mock := newMock(t)

	mock.ExpectQuery("(?s)INSERT INTO tags .+ ON CONFLICT \\(name\\) DO UPDATE SET name = tags.name").
		WithArgs("urgent").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(4)))
	mock.ExpectQuery("INSERT INTO tags").
		WithArgs("urgent").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(4)))

	repo := postgres.NewTagRepository(mock)
	first, err := repo.Create(ctx, &entities.Tag{Name: "urgent"})
	require.NoError(t, err)
	second, err := repo.Create(ctx, &entities.Tag{Name: "urgent"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), first)
	assert.Equal(t, first, second)
}

func TestTagRepository_Queries(t *testing.T) {
	ctx := testContext(t)

	t.Run("GetByName", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery("SELECT id, name FROM tags WHERE name = \\$1").
			WithArgs("urgent").
			WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).AddRow(int64(4), "urgent"))

		tag, err := postgres.NewTagRepository(mock).GetByName(ctx, "urgent")
		require.NoError(t, err)
		assert.Equal(t, &entities.Tag{ID: 4, Name: "urgent"}, tag)
	})

	t.Run("GetByID missing", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery("SELECT id, name FROM tags WHERE id = \\$1").
			WithArgs(int64(4)).
			WillReturnRows(pgxmock.NewRows([]string{"id", "name"}))

		_, err := postgres.NewTagRepository(mock).GetByID(ctx, 4)
		assert.ErrorIs(t, err, entities.ErrTagNotFound)
	})

	t.Run("GetByNote", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery("JOIN note_tags").
			WithArgs(int64(1)).
			WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).
				AddRow(int64(5), "home").
				AddRow(int64(4), "urgent"))

		tags, err := postgres.NewTagRepository(mock).GetByNote(ctx, 1)
		require.NoError(t, err)
		require.Len(t, tags, 2)
		assert.Equal(t, "home", tags[0].Name)
	})

	t.Run("GetAll error", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery("SELECT id, name FROM tags ORDER BY name").
			WillReturnError(errors.New("boom"))

		_, err := postgres.NewTagRepository(mock).GetAll(ctx)
		assert.ErrorIs(t, err, entities.ErrPersistence)
	})

	t.Run("NoteIDs", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery("SELECT note_id FROM note_tags WHERE tag_id = \\$1").
			WithArgs(int64(4)).
			WillReturnRows(pgxmock.NewRows([]string{"note_id"}).AddRow(int64(1)).AddRow(int64(7)))

		ids, err := postgres.NewTagRepository(mock).NoteIDs(ctx, 4)
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 7}, ids)
	})
}

func TestTagRepository_Mutations(t *testing.T) {
	ctx := testContext(t)
	mock := newMock(t)

	mock.ExpectExec("UPDATE tags SET name = \\$2 WHERE id = \\$1").
		WithArgs(int64(4), "asap").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("DELETE FROM note_tags WHERE tag_id = \\$1").
		WithArgs(int64(4)).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec("DELETE FROM tags WHERE id = \\$1").
		WithArgs(int64(4)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("DELETE FROM tags WHERE id = \\$1").
		WithArgs(int64(4)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	repo := postgres.NewTagRepository(mock)
	require.NoError(t, repo.Update(ctx, &entities.Tag{ID: 4, Name: "asap"}))
	require.NoError(t, repo.DeleteAssociations(ctx, 4))
	require.NoError(t, repo.Delete(ctx, 4))
	assert.ErrorIs(t, repo.Delete(ctx, 4), entities.ErrTagNotFound)
}
