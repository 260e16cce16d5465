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

// Константы для сообщений об ошибках операций над папками.
const (
	ErrCreateFolder = "failed to create folder"
	ErrGetFolder    = "failed to get folder"
	ErrListFolders  = "failed to list folders"
	ErrUpdateFolder = "failed to update folder"
	ErrDeleteFolder = "failed to delete folder"
)

// CreateFolder создает папку или возвращает уже существующую папку с тем же именем.
func (uc *UseCase) CreateFolder(ctx context.Context, folder *entities.Folder) (*entities.Folder, error) {
	log := logger.Log(ctx).With(zap.String("method", "CreateFolder"))

	if err := folder.Validate(); err != nil {
		return nil, err
	}
	if folder.ParentID != entities.UnassignedID {
		if err := requireFolder(ctx, uc.store, folder.ParentID); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrCreateFolder, err)
		}
	}

	id, err := uc.store.Folders().Create(ctx, folder)
	if err != nil {
		log.Error(ctx, ErrCreateFolder, zap.String("name", folder.Name), zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrCreateFolder, err)
	}
	folder.AssignID(id)

	log.Debug(ctx, "folder stored", zap.Int64("folderID", id), zap.String("name", folder.Name))
	return uc.GetFolder(ctx, id)
}

// GetFolder возвращает папку со связанными вложенными папками.
func (uc *UseCase) GetFolder(ctx context.Context, id int64) (*entities.Folder, error) {
	folders, err := uc.ListFolders(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrGetFolder, err)
	}
	for _, f := range folders {
		if f.ID == id {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", ErrGetFolder, entities.ErrFolderNotFound)
}

// ListFolders возвращает все папки. Вложенные папки связываются по ParentID.
func (uc *UseCase) ListFolders(ctx context.Context) ([]*entities.Folder, error) {
	folders, err := uc.store.Folders().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrListFolders, err)
	}
	linkByParent(folders)
	return folders, nil
}

func linkByParent(folders []*entities.Folder) {
	byID := make(map[int64]*entities.Folder, len(folders))
	for _, f := range folders {
		byID[f.ID] = f
	}
	for _, f := range folders {
		if parent, ok := byID[f.ParentID]; ok && f.ParentID != entities.UnassignedID {
			_ = parent.AddSubFolder(f)
		}
	}
}

// UpdateFolder меняет имя, избранное и родителя папки. Root переименовать нельзя.
func (uc *UseCase) UpdateFolder(ctx context.Context, id int64, folder *entities.Folder) (*entities.Folder, error) {
	log := logger.Log(ctx).With(zap.String("method", "UpdateFolder"))

	if err := folder.Validate(); err != nil {
		return nil, err
	}

	// Заметки в кэше хранят разрешенную папку, поэтому их нужно забыть.
	var noteIDs []int64
	err := uc.store.WithinTx(ctx, func(ctx context.Context, repos repositories.Repositories) error {
		current, err := repos.Folders().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := checkParent(ctx, repos, id, folder.ParentID); err != nil {
			return err
		}
		if err := current.Rename(folder.Name); err != nil {
			return err
		}
		current.Favorite = folder.Favorite
		current.ParentID = folder.ParentID
		if err := repos.Folders().Update(ctx, current); err != nil {
			return err
		}

		notes, err := repos.Notes().GetByFolder(ctx, id)
		if err != nil {
			return err
		}
		for _, n := range notes {
			noteIDs = append(noteIDs, n.ID)
		}
		return nil
	})
	if err != nil {
		log.Error(ctx, ErrUpdateFolder, zap.Int64("folderID", id), zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrUpdateFolder, err)
	}

	uc.forget(ctx, noteIDs...)

	return uc.GetFolder(ctx, id)
}

// checkParent проверяет, что parentID существует и не является потомком папки id.
func checkParent(ctx context.Context, repos repositories.Repositories, id, parentID int64) error {
	seen := map[int64]bool{id: true}
	for parentID != entities.UnassignedID {
		if seen[parentID] {
			return entities.ErrFolderCycle
		}
		seen[parentID] = true

		parent, err := repos.Folders().GetByID(ctx, parentID)
		if errors.Is(err, entities.ErrFolderNotFound) {
			return entities.ErrFolderReference
		}
		if err != nil {
			return err
		}
		parentID = parent.ParentID
	}
	return nil
}

// DeleteFolder удаляет папку. Root удалить нельзя. При deleteNotes заметки папки
// удаляются вместе со связями и будильниками, иначе переносятся в Root.
// Вложенные папки становятся папками верхнего уровня.
func (uc *UseCase) DeleteFolder(ctx context.Context, id int64, deleteNotes bool) error {
	log := logger.Log(ctx).With(zap.String("method", "DeleteFolder"))

	var noteIDs, alarmIDs []int64
	err := uc.store.WithinTx(ctx, func(ctx context.Context, repos repositories.Repositories) error {
		folder, err := repos.Folders().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if folder.IsRoot() {
			return entities.ErrRootFolderDelete
		}

		notes, err := repos.Notes().GetByFolder(ctx, id)
		if err != nil {
			return err
		}

		var root *entities.Folder
		if !deleteNotes && len(notes) > 0 {
			if root, err = rootIn(ctx, repos); err != nil {
				return err
			}
		}

		for _, n := range notes {
			noteIDs = append(noteIDs, n.ID)
			if deleteNotes {
				if err := deleteNoteRows(ctx, repos, n.ID); err != nil {
					return err
				}
				alarmIDs = append(alarmIDs, n.AlarmID)
				continue
			}
			n.FolderID = root.ID
			n.Touch()
			if err := repos.Notes().Update(ctx, n); err != nil {
				return err
			}
		}

		if err := repos.Folders().ClearParent(ctx, id); err != nil {
			return err
		}
		return repos.Folders().Delete(ctx, id)
	})
	if err != nil {
		log.Error(ctx, ErrDeleteFolder, zap.Int64("folderID", id), zap.Error(err))
		return fmt.Errorf("%s: %w", ErrDeleteFolder, err)
	}

	uc.forget(ctx, noteIDs...)
	uc.dropOrphanAlarms(ctx, uniqueIDs(alarmIDs)...)

	log.Info(ctx, "folder deleted",
		zap.Int64("folderID", id),
		zap.Bool("deleteNotes", deleteNotes),
		zap.Int("notes", len(noteIDs)))
	return nil
}

// rootIn возвращает папку Root внутри транзакции, создавая ее при отсутствии.
func rootIn(ctx context.Context, repos repositories.Repositories) (*entities.Folder, error) {
	root, err := repos.Folders().GetByName(ctx, entities.RootFolderName)
	if err == nil {
		return root, nil
	}
	if !errors.Is(err, entities.ErrFolderNotFound) {
		return nil, err
	}
	root = entities.NewRootFolder()
	id, err := repos.Folders().Create(ctx, root)
	if err != nil {
		return nil, err
	}
	root.AssignID(id)
	return root, nil
}
