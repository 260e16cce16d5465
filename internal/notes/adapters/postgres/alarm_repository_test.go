package postgres_test

import (
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notekeeper/internal/notes/adapters/postgres"
	"notekeeper/internal/notes/domain/entities"
)

var alarmColumns = []string{"id", "alarm_time", "recurring", "pattern"}

func TestAlarmRepository(t *testing.T) {
	ctx := testContext(t)
	at := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

	t.Run("create once", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery("INSERT INTO alarms").
			WithArgs(at, false, nil).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(2)))

		id, err := postgres.NewAlarmRepository(mock).Create(ctx, &entities.Alarm{Time: at})
		require.NoError(t, err)
		assert.Equal(t, int64(2), id)
	})

	t.Run("create recurring", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery("INSERT INTO alarms").
			WithArgs(at, true, "daily").
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(3)))

		id, err := postgres.NewAlarmRepository(mock).Create(ctx, &entities.Alarm{Time: at, Recurring: true, Pattern: "daily"})
		require.NoError(t, err)
		assert.Equal(t, int64(3), id)
	})

	t.Run("check violation is a validation error", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery("INSERT INTO alarms").
			WillReturnError(&pgconn.PgError{Code: pgerrcode.CheckViolation})

		_, err := postgres.NewAlarmRepository(mock).Create(ctx, &entities.Alarm{Time: at, Recurring: true})
		assert.ErrorIs(t, err, entities.ErrValidation)
	})

	t.Run("get", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery("FROM alarms WHERE id = \\$1").
			WithArgs(int64(3)).
			WillReturnRows(pgxmock.NewRows(alarmColumns).AddRow(int64(3), at, true, ptr("daily")))

		alarm, err := postgres.NewAlarmRepository(mock).GetByID(ctx, 3)
		require.NoError(t, err)
		assert.True(t, alarm.Equal(&entities.Alarm{Time: at, Recurring: true, Pattern: "daily"}))
		assert.NoError(t, alarm.Validate())
	})

	t.Run("get missing", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery("FROM alarms WHERE id").
			WithArgs(int64(4)).
			WillReturnRows(pgxmock.NewRows(alarmColumns))

		_, err := postgres.NewAlarmRepository(mock).GetByID(ctx, 4)
		assert.ErrorIs(t, err, entities.ErrAlarmNotFound)
	})

	t.Run("list", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery("FROM alarms ORDER BY alarm_time").
			WillReturnRows(pgxmock.NewRows(alarmColumns).
				AddRow(int64(2), at, false, nil).
				AddRow(int64(3), at.Add(time.Hour), true, ptr("weekly")))

		alarms, err := postgres.NewAlarmRepository(mock).GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, alarms, 2)
		assert.Empty(t, alarms[0].Pattern)
		assert.Equal(t, "weekly", alarms[1].Pattern)
	})

	t.Run("update and delete", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec("UPDATE alarms").
			WithArgs(int64(3), at, true, "weekly").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectExec("DELETE FROM alarms WHERE id = \\$1").
			WithArgs(int64(3)).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
		mock.ExpectExec("DELETE FROM alarms").
			WithArgs(int64(3)).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		repo := postgres.NewAlarmRepository(mock)
		require.NoError(t, repo.Update(ctx, &entities.Alarm{ID: 3, Time: at, Recurring: true, Pattern: "weekly"}))
		require.NoError(t, repo.Delete(ctx, 3))
		assert.ErrorIs(t, repo.Delete(ctx, 3), entities.ErrAlarmNotFound)
	})
}
