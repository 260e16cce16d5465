package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"notekeeper/internal/notes/domain/entities"
	"notekeeper/internal/notes/ports/repositories"
	"notekeeper/pkg/logger"
)

// Константы для сообщений об ошибках операций над тегами.
const (
	ErrCreateTag = "failed to create tag"
	ErrListTags  = "failed to list tags"
	ErrRenameTag = "failed to rename tag"
	ErrDeleteTag = "failed to delete tag"
)

// CreateTag создает тег или возвращает существующий тег с тем же именем.
func (uc *UseCase) CreateTag(ctx context.Context, tag *entities.Tag) (*entities.Tag, error) {
	if err := tag.Validate(); err != nil {
		return nil, err
	}
	id, err := uc.store.Tags().Create(ctx, tag)
	if err != nil {
		logger.Log(ctx).Error(ctx, ErrCreateTag, zap.String("name", tag.Name), zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrCreateTag, err)
	}
	tag.ID = id
	return tag, nil
}

// ListTags возвращает все теги.
func (uc *UseCase) ListTags(ctx context.Context) ([]*entities.Tag, error) {
	tags, err := uc.store.Tags().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrListTags, err)
	}
	return tags, nil
}

// RenameTag переименовывает тег. Имя должно быть свободно.
func (uc *UseCase) RenameTag(ctx context.Context, id int64, name string) (*entities.Tag, error) {
	log := logger.Log(ctx).With(zap.String("method", "RenameTag"))

	var (
		tag     *entities.Tag
		noteIDs []int64
	)
	err := uc.store.WithinTx(ctx, func(ctx context.Context, repos repositories.Repositories) error {
		t, err := repos.Tags().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := t.Rename(name); err != nil {
			return err
		}
		if err := repos.Tags().Update(ctx, t); err != nil {
			return err
		}
		ids, err := repos.Tags().NoteIDs(ctx, id)
		if err != nil {
			return err
		}
		tag, noteIDs = t, ids
		return nil
	})
	if err != nil {
		log.Error(ctx, ErrRenameTag, zap.Int64("tagID", id), zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrRenameTag, err)
	}

	uc.forget(ctx, noteIDs...)
	return tag, nil
}

// DeleteTag удаляет связи тега с заметками, затем сам тег, в одной транзакции.
// Удаление безусловное: заметки просто теряют этот тег.
func (uc *UseCase) DeleteTag(ctx context.Context, id int64) error {
	log := logger.Log(ctx).With(zap.String("method", "DeleteTag"))

	var noteIDs []int64
	err := uc.store.WithinTx(ctx, func(ctx context.Context, repos repositories.Repositories) error {
		if _, err := repos.Tags().GetByID(ctx, id); err != nil {
			return err
		}
		ids, err := repos.Tags().NoteIDs(ctx, id)
		if err != nil {
			return err
		}
		if err := repos.Tags().DeleteAssociations(ctx, id); err != nil {
			return err
		}
		if err := repos.Tags().Delete(ctx, id); err != nil {
			return err
		}
		noteIDs = ids
		return nil
	})
	if err != nil {
		log.Error(ctx, ErrDeleteTag, zap.Int64("tagID", id), zap.Error(err))
		return fmt.Errorf("%s: %w", ErrDeleteTag, err)
	}

	uc.forget(ctx, noteIDs...)
	log.Info(ctx, "tag deleted", zap.Int64("tagID", id), zap.Int("notes", len(noteIDs)))
	return nil
}
