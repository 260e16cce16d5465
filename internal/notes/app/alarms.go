package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"notekeeper/internal/notes/domain/entities"
	"notekeeper/pkg/logger"
)

// Константы для сообщений об ошибках операций над будильниками.
const (
	ErrSaveAlarm   = "failed to save alarm"
	ErrGetAlarm    = "failed to get alarm"
	ErrListAlarms  = "failed to list alarms"
	ErrDeleteAlarm = "failed to delete alarm"
)

// SaveAlarm вставляет будильник без id и назначает ему новый id,
// иначе обновляет существующую строку.
func (uc *UseCase) SaveAlarm(ctx context.Context, alarm *entities.Alarm) (*entities.Alarm, error) {
	log := logger.Log(ctx).With(zap.String("method", "SaveAlarm"))

	if err := alarm.Validate(); err != nil {
		return nil, err
	}

	if alarm.ID == entities.UnassignedID {
		id, err := uc.store.Alarms().Create(ctx, alarm)
		if err != nil {
			log.Error(ctx, ErrSaveAlarm, zap.Error(err))
			return nil, fmt.Errorf("%s: %w", ErrSaveAlarm, err)
		}
		alarm.ID = id
		return alarm, nil
	}

	if err := uc.store.Alarms().Update(ctx, alarm); err != nil {
		log.Error(ctx, ErrSaveAlarm, zap.Int64("alarmID", alarm.ID), zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrSaveAlarm, err)
	}
	uc.forgetAlarmOwners(ctx, alarm.ID)
	return alarm, nil
}

// GetAlarm возвращает будильник по id.
func (uc *UseCase) GetAlarm(ctx context.Context, id int64) (*entities.Alarm, error) {
	alarm, err := uc.store.Alarms().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrGetAlarm, err)
	}
	return alarm, nil
}

// ListAlarms возвращает все будильники.
func (uc *UseCase) ListAlarms(ctx context.Context) ([]*entities.Alarm, error) {
	alarms, err := uc.store.Alarms().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrListAlarms, err)
	}
	return alarms, nil
}

// DeleteAlarm удаляет строку будильника. Ссылки заметок на него обнуляются схемой.
func (uc *UseCase) DeleteAlarm(ctx context.Context, id int64) error {
	log := logger.Log(ctx).With(zap.String("method", "DeleteAlarm"))

	owners, err := uc.store.Notes().NoteIDsByAlarm(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrDeleteAlarm, err)
	}
	if err := uc.store.Alarms().Delete(ctx, id); err != nil {
		log.Error(ctx, ErrDeleteAlarm, zap.Int64("alarmID", id), zap.Error(err))
		return fmt.Errorf("%s: %w", ErrDeleteAlarm, err)
	}
	uc.forget(ctx, owners...)
	return nil
}

func (uc *UseCase) forgetAlarmOwners(ctx context.Context, alarmID int64) {
	if uc.cache == nil {
		return
	}
	owners, err := uc.store.Notes().NoteIDsByAlarm(ctx, alarmID)
	if err != nil {
		logger.Log(ctx).Warn(ctx, ErrCacheInvalid, zap.Int64("alarmID", alarmID), zap.Error(err))
		return
	}
	uc.forget(ctx, owners...)
}
