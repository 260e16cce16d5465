package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"notekeeper/internal/notes/domain/entities"
	"notekeeper/internal/notes/ports/repositories"
	"notekeeper/pkg/logger"
)

// Константы для сообщений об ошибках операций над заметками.
const (
	ErrCreateNote  = "failed to create note"
	ErrGetNote     = "failed to get note"
	ErrListNotes   = "failed to list notes"
	ErrSearchNotes = "failed to search notes"
	ErrUpdateNote  = "failed to update note"
	ErrMoveNote    = "failed to move note"
	ErrDeleteNote  = "failed to delete note"
)

// notePlan хранит id, полученные внутри транзакции. Они переносятся в объекты
// вызывающей стороны только после фиксации.
type notePlan struct {
	tags    []*entities.Tag
	tagIDs  []int64
	alarmID int64
}

// prepareRefs проверяет папку, вставляет недостающие теги и сохраняет будильник заметки.
func prepareRefs(ctx context.Context, repos repositories.Repositories, note *entities.Note) (notePlan, error) {
	var plan notePlan

	if err := requireFolder(ctx, repos, note.FolderID); err != nil {
		return plan, err
	}

	for _, t := range note.Tags {
		id := t.ID
		if id == entities.UnassignedID {
			created, err := repos.Tags().Create(ctx, t)
			if err != nil {
				return plan, err
			}
			id = created
		}
		plan.tags = append(plan.tags, t)
		plan.tagIDs = append(plan.tagIDs, id)
	}

	switch alarm := note.Alarm(); {
	case alarm != nil && alarm.ID == entities.UnassignedID:
		id, err := repos.Alarms().Create(ctx, alarm)
		if err != nil {
			return plan, err
		}
		plan.alarmID = id
	case alarm != nil:
		if err := repos.Alarms().Update(ctx, alarm); err != nil {
			if errors.Is(err, entities.ErrAlarmNotFound) {
				return plan, entities.ErrAlarmReference
			}
			return plan, err
		}
		plan.alarmID = alarm.ID
	case note.AlarmID != entities.UnassignedID:
		if _, err := repos.Alarms().GetByID(ctx, note.AlarmID); err != nil {
			if errors.Is(err, entities.ErrAlarmNotFound) {
				return plan, entities.ErrAlarmReference
			}
			return plan, err
		}
		plan.alarmID = note.AlarmID
	}

	return plan, nil
}

// row возвращает копию заметки для записи со ссылкой на сохраненный будильник.
func (p notePlan) row(note *entities.Note, id int64) *entities.Note {
	row := *note
	row.ID = id
	row.AlarmID = p.alarmID
	return &row
}

func (p notePlan) apply(note *entities.Note, id int64) {
	note.ID = id
	for i, t := range p.tags {
		t.ID = p.tagIDs[i]
	}
	if alarm := note.Alarm(); alarm != nil {
		alarm.ID = p.alarmID
		note.LinkAlarm(alarm)
	}
}

// CreateNote сохраняет заметку, ее новые теги и будильник в одной транзакции.
// Заметка без папки попадает в Root; указанная папка должна существовать.
func (uc *UseCase) CreateNote(ctx context.Context, note *entities.Note) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "CreateNote"))
	log.Debug(ctx, "creating note", zap.String("title", note.Title), zap.Int64("folderID", note.FolderID))

	if err := note.Validate(); err != nil {
		return nil, err
	}
	if note.FolderID == entities.UnassignedID {
		root, err := uc.EnsureRoot(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrCreateNote, err)
		}
		note.FolderID = root.ID
	}

	var (
		plan   notePlan
		noteID int64
	)
	err := uc.store.WithinTx(ctx, func(ctx context.Context, repos repositories.Repositories) error {
		p, err := prepareRefs(ctx, repos, note)
		if err != nil {
			return err
		}
		id, err := repos.Notes().Create(ctx, p.row(note, entities.UnassignedID))
		if err != nil {
			return err
		}
		if err := repos.Notes().ReplaceTags(ctx, id, uniqueIDs(p.tagIDs)); err != nil {
			return err
		}
		plan, noteID = p, id
		return nil
	})
	if err != nil {
		log.Error(ctx, ErrCreateNote, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrCreateNote, err)
	}

	plan.apply(note, noteID)
	if err := uc.resolve(ctx, note); err != nil {
		return nil, err
	}

	log.Info(ctx, "note created", zap.Int64("noteID", noteID))
	return note, nil
}

// GetNote возвращает заметку с разрешенными ссылками.
func (uc *UseCase) GetNote(ctx context.Context, id int64) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "GetNote"))

	if uc.cache != nil {
		cached, err := uc.cache.Get(ctx, id)
		switch {
		case err != nil:
			log.Warn(ctx, ErrCacheRead, zap.Int64("noteID", id), zap.Error(err))
		case cached != nil:
			return cached, nil
		}
	}

	note, err := uc.store.Notes().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrGetNote, err)
	}
	if err := uc.resolve(ctx, note); err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, note); err != nil {
			log.Warn(ctx, ErrCacheWrite, zap.Int64("noteID", id), zap.Error(err))
		}
	}
	return note, nil
}

// ListNotes возвращает все заметки в порядке показа.
func (uc *UseCase) ListNotes(ctx context.Context) ([]*entities.Note, error) {
	notes, err := uc.store.Notes().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrListNotes, err)
	}
	return uc.resolveSorted(ctx, notes)
}

// NotesInFolder возвращает заметки папки.
func (uc *UseCase) NotesInFolder(ctx context.Context, folderID int64) ([]*entities.Note, error) {
	if _, err := uc.store.Folders().GetByID(ctx, folderID); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrListNotes, err)
	}
	notes, err := uc.store.Notes().GetByFolder(ctx, folderID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrListNotes, err)
	}
	return uc.resolveSorted(ctx, notes)
}

// SearchNotes ищет подстроку в заголовке, тексте и именах тегов без учета регистра.
func (uc *UseCase) SearchNotes(ctx context.Context, query string) ([]*entities.Note, error) {
	notes, err := uc.store.Notes().Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrSearchNotes, err)
	}
	return uc.resolveSorted(ctx, notes)
}

// NotesByTag возвращает заметки с тегом name.
func (uc *UseCase) NotesByTag(ctx context.Context, name string) ([]*entities.Note, error) {
	notes, err := uc.store.Notes().GetByTagName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrSearchNotes, err)
	}
	return uc.resolveSorted(ctx, notes)
}

// UpdateNote перезаписывает заметку id и полностью заменяет набор ее тегов.
// Прежний будильник, если он сменился и больше никому не нужен, удаляется
// после фиксации транзакции.
func (uc *UseCase) UpdateNote(ctx context.Context, id int64, note *entities.Note) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "UpdateNote"))
	log.Debug(ctx, "updating note", zap.Int64("noteID", id))

	if err := note.Validate(); err != nil {
		return nil, err
	}
	note.Touch()

	var (
		plan     notePlan
		oldAlarm int64
	)
	err := uc.store.WithinTx(ctx, func(ctx context.Context, repos repositories.Repositories) error {
		prev, err := repos.Notes().AlarmID(ctx, id)
		if err != nil {
			return err
		}
		p, err := prepareRefs(ctx, repos, note)
		if err != nil {
			return err
		}
		if err := repos.Notes().Update(ctx, p.row(note, id)); err != nil {
			return err
		}
		if err := repos.Notes().ReplaceTags(ctx, id, uniqueIDs(p.tagIDs)); err != nil {
			return err
		}
		plan, oldAlarm = p, prev
		return nil
	})
	if err != nil {
		log.Error(ctx, ErrUpdateNote, zap.Int64("noteID", id), zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrUpdateNote, err)
	}

	plan.apply(note, id)
	uc.forget(ctx, id)
	if oldAlarm != plan.alarmID {
		uc.dropOrphanAlarms(ctx, oldAlarm)
	}

	if err := uc.resolve(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// MoveNote переносит заметку в папку folderID. Нулевой id означает Root.
func (uc *UseCase) MoveNote(ctx context.Context, id, folderID int64) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "MoveNote"))

	if folderID == entities.UnassignedID {
		root, err := uc.EnsureRoot(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMoveNote, err)
		}
		folderID = root.ID
	}

	var moved *entities.Note
	err := uc.store.WithinTx(ctx, func(ctx context.Context, repos repositories.Repositories) error {
		note, err := repos.Notes().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := requireFolder(ctx, repos, folderID); err != nil {
			return err
		}
		note.FolderID = folderID
		note.Touch()
		if err := repos.Notes().Update(ctx, note); err != nil {
			return err
		}
		moved = note
		return nil
	})
	if err != nil {
		log.Error(ctx, ErrMoveNote, zap.Int64("noteID", id), zap.Int64("folderID", folderID), zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrMoveNote, err)
	}

	uc.forget(ctx, id)
	if err := uc.resolve(ctx, moved); err != nil {
		return nil, err
	}
	return moved, nil
}

// DeleteNote удаляет связи заметки с тегами и саму заметку в одной транзакции,
// затем удаляет ее будильник. Теги остаются.
func (uc *UseCase) DeleteNote(ctx context.Context, id int64) error {
	log := logger.Log(ctx).With(zap.String("method", "DeleteNote"))

	var alarmID int64
	err := uc.store.WithinTx(ctx, func(ctx context.Context, repos repositories.Repositories) error {
		a, err := repos.Notes().AlarmID(ctx, id)
		if err != nil {
			return err
		}
		if err := deleteNoteRows(ctx, repos, id); err != nil {
			return err
		}
		alarmID = a
		return nil
	})
	if err != nil {
		log.Error(ctx, ErrDeleteNote, zap.Int64("noteID", id), zap.Error(err))
		return fmt.Errorf("%s: %w", ErrDeleteNote, err)
	}

	uc.forget(ctx, id)
	uc.dropOrphanAlarms(ctx, alarmID)

	log.Info(ctx, "note deleted", zap.Int64("noteID", id))
	return nil
}

func deleteNoteRows(ctx context.Context, repos repositories.Repositories, id int64) error {
	if err := repos.Notes().DeleteTags(ctx, id); err != nil {
		return err
	}
	return repos.Notes().Delete(ctx, id)
}
