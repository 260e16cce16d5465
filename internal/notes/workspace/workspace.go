// Package workspace держит рабочий набор заметок в памяти и сохраняет его
// в снимок после каждого изменения.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"notekeeper/internal/notes/domain/entities"
	"notekeeper/internal/notes/ports/snapshot"
	"notekeeper/pkg/logger"
)

// Константы для сообщений logger.
const (
	LogWorkspaceLoaded = "workspace loaded"
	LogSnapshotCorrupt = "snapshot is corrupt, starting with an empty workspace"
	LogWorkspaceSaved  = "workspace saved"
)

// Константы для сообщений об ошибках.
const (
	ErrLoadWorkspace = "failed to load workspace"
	ErrSaveWorkspace = "failed to save workspace"
)

// Workspace - живой рабочий набор: заметки, папки и общий список тегов.
// Всегда содержит ровно одну папку Root. Не безопасен для конкурентного использования.
type Workspace struct {
	store snapshot.Store

	notes   []*entities.Note
	folders []*entities.Folder
	tags    []*entities.Tag
	root    *entities.Folder

	lastNoteID   int64
	lastFolderID int64
	lastTagID    int64
	lastAlarmID  int64
}

// New загружает снимок из store и восстанавливает связи между объектами.
// Испорченный снимок не является ошибкой: рабочий набор начинается пустым.
func New(ctx context.Context, store snapshot.Store) (*Workspace, error) {
	log := logger.Log(ctx).With(zap.String("method", "workspace.New"))

	snap, err := store.Load(ctx)
	if err != nil {
		if !errors.Is(err, entities.ErrSnapshotCorruption) {
			log.Error(ctx, ErrLoadWorkspace, zap.Error(err))
			return nil, fmt.Errorf("%s: %w", ErrLoadWorkspace, err)
		}
		log.Warn(ctx, LogSnapshotCorrupt, zap.Error(err))
		snap = &snapshot.Snapshot{}
	}

	w := &Workspace{store: store}
	w.replace(snap)

	log.Info(ctx, LogWorkspaceLoaded,
		zap.Int("notes", len(w.notes)),
		zap.Int("folders", len(w.folders)),
		zap.Int("tags", len(w.tags)))
	return w, nil
}

// replace заменяет содержимое рабочего набора данными снимка.
func (w *Workspace) replace(snap *snapshot.Snapshot) {
	w.notes = slices.Clone(snap.Notes)
	w.folders = nil
	w.tags = nil
	w.root = nil

	for _, f := range snap.Folders {
		if w.Folder(f.Name) != nil {
			continue
		}
		w.folders = append(w.folders, f)
		if f.IsRoot() && w.root == nil {
			w.root = f
		}
	}
	if w.root == nil {
		w.root = entities.NewRootFolder()
		w.folders = append([]*entities.Folder{w.root}, w.folders...)
	}

	// Второй проход: имена вложенных папок превращаются в ссылки.
	for _, f := range w.folders {
		f.LinkSubFolders(w.Folder)
	}

	w.lastNoteID, w.lastFolderID, w.lastTagID, w.lastAlarmID = 0, 0, 0, 0
	for _, f := range w.folders {
		w.lastFolderID = max(w.lastFolderID, f.ID)
	}
	for _, t := range snap.Tags {
		w.lastTagID = max(w.lastTagID, t.ID)
	}
	for _, n := range w.notes {
		w.lastNoteID = max(w.lastNoteID, n.ID)
		for _, t := range n.Tags {
			w.lastTagID = max(w.lastTagID, t.ID)
		}
		if a := n.Alarm(); a != nil {
			w.lastAlarmID = max(w.lastAlarmID, a.ID)
		}
	}

	for _, f := range w.folders {
		if f.ID == entities.UnassignedID {
			f.AssignID(w.nextFolderID())
		}
	}
	for _, t := range snap.Tags {
		w.internTag(t)
	}
	for _, n := range w.notes {
		w.adoptNote(n)
	}
}

// adoptNote приводит заметку к инвариантам рабочего набора: назначает id,
// кладет в папку из набора (по умолчанию Root) и объединяет теги с общим списком.
func (w *Workspace) adoptNote(n *entities.Note) {
	if n.ID == entities.UnassignedID {
		n.ID = w.nextNoteID()
	} else {
		w.lastNoteID = max(w.lastNoteID, n.ID)
	}

	folder := w.ownFolder(n.Folder())
	if folder == nil && n.FolderID != entities.UnassignedID {
		folder = w.folderByID(n.FolderID)
	}
	if folder == nil {
		folder = w.root
	}
	if n.Folder() != folder {
		folder.LinkNote(n)
	} else {
		n.FolderID = folder.ID
	}

	var tags []*entities.Tag
	for _, t := range n.Tags {
		if own := w.internTag(t); !slices.Contains(tags, own) {
			tags = append(tags, own)
		}
	}
	n.Tags = tags

	if a := n.Alarm(); a != nil {
		if a.ID == entities.UnassignedID {
			a.ID = w.nextAlarmID()
		} else {
			w.lastAlarmID = max(w.lastAlarmID, a.ID)
		}
		n.LinkAlarm(a)
	}
}

// ownFolder возвращает папку рабочего набора, равную f, или nil.
func (w *Workspace) ownFolder(f *entities.Folder) *entities.Folder {
	if f == nil {
		return nil
	}
	for _, own := range w.folders {
		if own == f {
			return own
		}
	}
	for _, own := range w.folders {
		if own.Equal(f) {
			return own
		}
	}
	return nil
}

func (w *Workspace) folderByID(id int64) *entities.Folder {
	for _, f := range w.folders {
		if f.ID == id {
			return f
		}
	}
	return nil
}

func (w *Workspace) nextNoteID() int64 {
	w.lastNoteID++
	return w.lastNoteID
}

func (w *Workspace) nextFolderID() int64 {
	w.lastFolderID++
	return w.lastFolderID
}

func (w *Workspace) nextTagID() int64 {
	w.lastTagID++
	return w.lastTagID
}

func (w *Workspace) nextAlarmID() int64 {
	w.lastAlarmID++
	return w.lastAlarmID
}

// Notes возвращает заметки в порядке добавления.
func (w *Workspace) Notes() []*entities.Note {
	return slices.Clone(w.notes)
}

// Folders возвращает папки.
func (w *Workspace) Folders() []*entities.Folder {
	return slices.Clone(w.folders)
}

// Tags возвращает общий список тегов без повторов.
func (w *Workspace) Tags() []*entities.Tag {
	return slices.Clone(w.tags)
}

// Root возвращает папку Root.
func (w *Workspace) Root() *entities.Folder {
	return w.root
}

// Note возвращает заметку по id или nil.
func (w *Workspace) Note(id int64) *entities.Note {
	for _, n := range w.notes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// Folder возвращает папку по имени или nil.
func (w *Workspace) Folder(name string) *entities.Folder {
	for _, f := range w.folders {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Save записывает весь рабочий набор. При ошибке состояние в памяти сохраняется.
func (w *Workspace) Save(ctx context.Context) error {
	log := logger.Log(ctx).With(zap.String("method", "Workspace.Save"))

	snap := &snapshot.Snapshot{
		Notes:   slices.Clone(w.notes),
		Folders: slices.Clone(w.folders),
		Tags:    slices.Clone(w.tags),
	}
	if err := w.store.Save(ctx, snap); err != nil {
		log.Error(ctx, ErrSaveWorkspace, zap.Error(err))
		if errors.Is(err, entities.ErrPersistence) {
			return fmt.Errorf("%s: %w", ErrSaveWorkspace, err)
		}
		return fmt.Errorf("%s: %w: %w", ErrSaveWorkspace, entities.ErrPersistence, err)
	}

	log.Debug(ctx, LogWorkspaceSaved, zap.Int("notes", len(w.notes)))
	return nil
}
