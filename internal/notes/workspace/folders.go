package workspace

import (
	"context"
	"slices"

	"go.uber.org/zap"

	"notekeeper/internal/notes/domain/entities"
	"notekeeper/pkg/logger"
)

// AddFolder добавляет папку. Если parent не nil, папка становится его вложенной папкой.
// Имена папок уникальны.
func (w *Workspace) AddFolder(ctx context.Context, f, parent *entities.Folder) error {
	log := logger.Log(ctx).With(zap.String("method", "Workspace.AddFolder"))

	if err := f.Validate(); err != nil {
		return err
	}
	if existing := w.Folder(f.Name); existing != nil && existing != f {
		return entities.ErrNameTaken
	}

	var owner *entities.Folder
	if parent != nil {
		if owner = w.ownFolder(parent); owner == nil {
			return entities.ErrFolderNotFound
		}
	}

	if owner != nil {
		if err := owner.AddSubFolder(f); err != nil {
			return err
		}
	}

	switch own := w.ownFolder(f); {
	case own == f:
	case own != nil, f.ID == entities.UnassignedID:
		f.AssignID(w.nextFolderID())
		w.folders = append(w.folders, f)
	default:
		w.lastFolderID = max(w.lastFolderID, f.ID)
		w.folders = append(w.folders, f)
	}

	log.Debug(ctx, "folder added", zap.Int64("folderID", f.ID), zap.String("name", f.Name))
	return w.Save(ctx)
}

// RenameFolder переименовывает папку. Root переименовать нельзя.
func (w *Workspace) RenameFolder(ctx context.Context, f *entities.Folder, name string) error {
	own := w.ownFolder(f)
	if own == nil {
		return entities.ErrFolderNotFound
	}
	if existing := w.Folder(name); existing != nil && existing != own {
		return entities.ErrNameTaken
	}
	if err := own.Rename(name); err != nil {
		return err
	}
	return w.Save(ctx)
}

// DeleteFolder удаляет папку. Root удалить нельзя. Заметки папки либо удаляются,
// либо переносятся в Root; вложенные папки отвязываются и остаются в наборе.
func (w *Workspace) DeleteFolder(ctx context.Context, f *entities.Folder, deleteNotes bool) error {
	log := logger.Log(ctx).With(zap.String("method", "Workspace.DeleteFolder"))

	own := w.ownFolder(f)
	if own == nil {
		return entities.ErrFolderNotFound
	}
	if own.IsRoot() {
		return entities.ErrRootFolderDelete
	}

	for _, n := range own.Notes() {
		if deleteNotes {
			w.removeNote(n)
			continue
		}
		w.root.AddNote(n)
	}
	if deleteNotes {
		w.pruneTags()
	}

	for _, other := range w.folders {
		other.RemoveSubFolder(own.Name)
	}
	own.ClearSubFolders()

	i := slices.Index(w.folders, own)
	w.folders = slices.Delete(w.folders, i, i+1)

	log.Debug(ctx, "folder deleted",
		zap.Int64("folderID", own.ID),
		zap.String("name", own.Name),
		zap.Bool("deleteNotes", deleteNotes))
	return w.Save(ctx)
}
