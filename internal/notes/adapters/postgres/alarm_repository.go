package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"notekeeper/internal/notes/domain/entities"
	"notekeeper/internal/notes/ports/repositories"
	"notekeeper/pkg/logger"
)

// Константы для сообщений об ошибках репозитория будильников.
const (
	ErrCreateAlarm = "failed to create alarm"
	ErrGetAlarm    = "failed to get alarm"
	ErrListAlarms  = "failed to list alarms"
	ErrUpdateAlarm = "failed to update alarm"
	ErrDeleteAlarm = "failed to delete alarm"
)

// AlarmRepository реализует repositories.AlarmRepository.
type AlarmRepository struct {
	db Querier
}

// NewAlarmRepository создает репозиторий будильников.
func NewAlarmRepository(db Querier) *AlarmRepository {
	return &AlarmRepository{db: db}
}

// Create вставляет будильник и возвращает его id.
func (r *AlarmRepository) Create(ctx context.Context, alarm *entities.Alarm) (int64, error) {
	log := logger.Log(ctx).With(zap.String("repository", "alarm"), zap.String("method", "Create"))
	log.Debug(ctx, "creating alarm", zap.Time("time", alarm.Time), zap.Bool("recurring", alarm.Recurring))

	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO alarms (alarm_time, recurring, pattern) VALUES ($1, $2, $3) RETURNING id`,
		alarm.Time, alarm.Recurring, nullableString(alarm.Pattern),
	).Scan(&id)
	if err != nil {
		log.Error(ctx, ErrCreateAlarm, zap.Error(err))
		return 0, wrapError(ErrCreateAlarm, err)
	}
	return id, nil
}

// GetByID возвращает будильник или entities.ErrAlarmNotFound.
func (r *AlarmRepository) GetByID(ctx context.Context, id int64) (*entities.Alarm, error) {
	log := logger.Log(ctx).With(zap.String("repository", "alarm"), zap.String("method", "GetByID"))

	alarm, err := scanAlarm(r.db.QueryRow(ctx,
		`SELECT id, alarm_time, recurring, pattern FROM alarms WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrAlarmNotFound
		}
		log.Error(ctx, ErrGetAlarm, zap.Error(err))
		return nil, wrapError(ErrGetAlarm, err)
	}
	return alarm, nil
}

// GetAll возвращает все будильники по времени срабатывания.
func (r *AlarmRepository) GetAll(ctx context.Context) ([]*entities.Alarm, error) {
	log := logger.Log(ctx).With(zap.String("repository", "alarm"), zap.String("method", "GetAll"))

	rows, err := r.db.Query(ctx, `SELECT id, alarm_time, recurring, pattern FROM alarms ORDER BY alarm_time, id`)
	if err != nil {
		log.Error(ctx, ErrListAlarms, zap.Error(err))
		return nil, wrapError(ErrListAlarms, err)
	}
	alarms, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entities.Alarm, error) {
		return scanAlarm(row)
	})
	if err != nil {
		log.Error(ctx, ErrListAlarms, zap.Error(err))
		return nil, wrapError(ErrListAlarms, err)
	}
	return alarms, nil
}

// Update перезаписывает время и правило повторения.
func (r *AlarmRepository) Update(ctx context.Context, alarm *entities.Alarm) error {
	log := logger.Log(ctx).With(zap.String("repository", "alarm"), zap.String("method", "Update"))

	res, err := r.db.Exec(ctx,
		`UPDATE alarms SET alarm_time = $2, recurring = $3, pattern = $4 WHERE id = $1`,
		alarm.ID, alarm.Time, alarm.Recurring, nullableString(alarm.Pattern),
	)
	if err != nil {
		log.Error(ctx, ErrUpdateAlarm, zap.Error(err))
		return wrapError(ErrUpdateAlarm, err)
	}
	if res.RowsAffected() == 0 {
		return entities.ErrAlarmNotFound
	}
	return nil
}

// Delete удаляет будильник. Ссылки заметок на него обнуляются внешним ключом.
func (r *AlarmRepository) Delete(ctx context.Context, id int64) error {
	log := logger.Log(ctx).With(zap.String("repository", "alarm"), zap.String("method", "Delete"))

	res, err := r.db.Exec(ctx, `DELETE FROM alarms WHERE id = $1`, id)
	if err != nil {
		log.Error(ctx, ErrDeleteAlarm, zap.Error(err))
		return wrapError(ErrDeleteAlarm, err)
	}
	if res.RowsAffected() == 0 {
		return entities.ErrAlarmNotFound
	}
	return nil
}

func scanAlarm(row pgx.Row) (*entities.Alarm, error) {
	var (
		alarm   entities.Alarm
		pattern *string
	)
	if err := row.Scan(&alarm.ID, &alarm.Time, &alarm.Recurring, &pattern); err != nil {
		return nil, err
	}
	alarm.Pattern = derefString(pattern)
	alarm.Time = alarm.Time.UTC()
	return &alarm, nil
}

var _ repositories.AlarmRepository = (*AlarmRepository)(nil)
