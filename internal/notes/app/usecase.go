// Package app содержит сервис, координирующий операции реляционного хранилища заметок.
package app

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"notekeeper/internal/notes/domain/entities"
	"notekeeper/internal/notes/ports/api"
	"notekeeper/internal/notes/ports/cache"
	"notekeeper/internal/notes/ports/repositories"
	"notekeeper/pkg/logger"
)

// Константы для сообщений об ошибках.
const (
	ErrEnsureRoot     = "failed to ensure root folder"
	ErrResolveNote    = "failed to resolve note references"
	ErrCacheRead      = "failed to read note cache"
	ErrCacheWrite     = "failed to write note cache"
	ErrCacheInvalid   = "failed to invalidate note cache"
	ErrDropAlarm      = "failed to delete orphaned alarm"
	ErrCheckFolderRef = "failed to check folder reference"
)

// UseCase - бизнес-логика реляционного режима. Каждая многошаговая запись
// выполняется в одной транзакции Store.
type UseCase struct {
	store repositories.Store
	cache cache.NoteCache
}

// Option настраивает UseCase.
type Option func(*UseCase)

// WithCache включает кэш заметок для GetNote.
func WithCache(c cache.NoteCache) Option {
	return func(uc *UseCase) {
		uc.cache = c
	}
}

// NewUseCase создает новый экземпляр UseCase.
func NewUseCase(store repositories.Store, opts ...Option) *UseCase {
	uc := &UseCase{store: store}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

var _ api.Service = (*UseCase)(nil)

// EnsureRoot возвращает папку Root, создавая ее при отсутствии.
func (uc *UseCase) EnsureRoot(ctx context.Context) (*entities.Folder, error) {
	log := logger.Log(ctx).With(zap.String("method", "EnsureRoot"))

	root, err := uc.store.Folders().GetByName(ctx, entities.RootFolderName)
	if err == nil {
		return root, nil
	}
	if !errors.Is(err, entities.ErrFolderNotFound) {
		log.Error(ctx, ErrEnsureRoot, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrEnsureRoot, err)
	}

	root = entities.NewRootFolder()
	id, err := uc.store.Folders().Create(ctx, root)
	if err != nil {
		log.Error(ctx, ErrEnsureRoot, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrEnsureRoot, err)
	}
	root.AssignID(id)

	log.Info(ctx, "root folder created", zap.Int64("folderID", id))
	return root, nil
}

// resolution кэширует папки и будильники, прочитанные при разрешении ссылок нескольких заметок.
type resolution struct {
	repos   repositories.Repositories
	folders map[int64]*entities.Folder
	alarms  map[int64]*entities.Alarm
}

func newResolution(repos repositories.Repositories) *resolution {
	return &resolution{
		repos:   repos,
		folders: make(map[int64]*entities.Folder),
		alarms:  make(map[int64]*entities.Alarm),
	}
}

// note заполняет живые ссылки заметки: папку, теги и будильник.
func (r *resolution) note(ctx context.Context, n *entities.Note) error {
	folder, ok := r.folders[n.FolderID]
	if !ok {
		f, err := r.repos.Folders().GetByID(ctx, n.FolderID)
		if err != nil {
			return err
		}
		folder = f
		r.folders[n.FolderID] = folder
	}
	folder.LinkNote(n)

	tags, err := r.repos.Tags().GetByNote(ctx, n.ID)
	if err != nil {
		return err
	}
	n.Tags = tags

	if n.AlarmID == entities.UnassignedID {
		n.LinkAlarm(nil)
		return nil
	}
	alarm, ok := r.alarms[n.AlarmID]
	if !ok {
		a, err := r.repos.Alarms().GetByID(ctx, n.AlarmID)
		if err != nil {
			return err
		}
		alarm = a
		r.alarms[n.AlarmID] = alarm
	}
	n.LinkAlarm(alarm)
	return nil
}

func (uc *UseCase) resolve(ctx context.Context, notes ...*entities.Note) error {
	r := newResolution(uc.store)
	for _, n := range notes {
		if err := r.note(ctx, n); err != nil {
			logger.Log(ctx).Error(ctx, ErrResolveNote, zap.Int64("noteID", n.ID), zap.Error(err))
			return fmt.Errorf("%s: %w", ErrResolveNote, err)
		}
	}
	return nil
}

// resolveSorted разрешает ссылки и упорядочивает заметки для показа.
func (uc *UseCase) resolveSorted(ctx context.Context, notes []*entities.Note) ([]*entities.Note, error) {
	if err := uc.resolve(ctx, notes...); err != nil {
		return nil, err
	}
	return entities.SortForDisplay(notes), nil
}

// forget удаляет заметки из кэша. Ошибки кэша только логируются.
func (uc *UseCase) forget(ctx context.Context, ids ...int64) {
	if uc.cache == nil || len(ids) == 0 {
		return
	}
	if err := uc.cache.Delete(ctx, ids...); err != nil {
		logger.Log(ctx).Warn(ctx, ErrCacheInvalid, zap.Int64s("noteIDs", ids), zap.Error(err))
	}
}

// requireFolder проверяет, что папка существует, до любой записи.
func requireFolder(ctx context.Context, repos repositories.Repositories, id int64) error {
	ok, err := repos.Folders().Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrCheckFolderRef, err)
	}
	if !ok {
		return entities.ErrFolderReference
	}
	return nil
}

// dropOrphanAlarms удаляет будильники, на которые больше не ссылается ни одна заметка.
// Шаг выполняется после фиксации основной транзакции, ошибки только логируются.
func (uc *UseCase) dropOrphanAlarms(ctx context.Context, ids ...int64) {
	log := logger.Log(ctx).With(zap.String("method", "dropOrphanAlarms"))

	for _, id := range ids {
		if id == entities.UnassignedID {
			continue
		}
		owners, err := uc.store.Notes().NoteIDsByAlarm(ctx, id)
		if err != nil {
			log.Warn(ctx, ErrDropAlarm, zap.Int64("alarmID", id), zap.Error(err))
			continue
		}
		if len(owners) > 0 {
			continue
		}
		if err := uc.store.Alarms().Delete(ctx, id); err != nil && !errors.Is(err, entities.ErrAlarmNotFound) {
			log.Warn(ctx, ErrDropAlarm, zap.Int64("alarmID", id), zap.Error(err))
			continue
		}
		log.Debug(ctx, "orphaned alarm deleted", zap.Int64("alarmID", id))
	}
}

func uniqueIDs(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id != entities.UnassignedID && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
