package workspace

import (
	"context"
	"slices"

	"go.uber.org/zap"

	"notekeeper/internal/notes/domain/entities"
	"notekeeper/pkg/logger"
)

func (w *Workspace) indexOf(n *entities.Note) int {
	if n == nil {
		return -1
	}
	if i := slices.Index(w.notes, n); i >= 0 {
		return i
	}
	if n.ID == entities.UnassignedID {
		return -1
	}
	return slices.IndexFunc(w.notes, func(own *entities.Note) bool { return own.ID == n.ID })
}

// AddNote добавляет заметку. Заметка без папки попадает в Root.
func (w *Workspace) AddNote(ctx context.Context, n *entities.Note) error {
	log := logger.Log(ctx).With(zap.String("method", "Workspace.AddNote"))

	if err := n.Validate(); err != nil {
		return err
	}
	if w.indexOf(n) >= 0 {
		return w.UpdateNote(ctx, n)
	}

	w.adoptNote(n)
	w.notes = append(w.notes, n)

	log.Debug(ctx, "note added", zap.Int64("noteID", n.ID), zap.String("folder", n.Folder().Name))
	return w.Save(ctx)
}

// UpdateNote сохраняет изменения заметки, сделанные ее методами.
func (w *Workspace) UpdateNote(ctx context.Context, n *entities.Note) error {
	if err := n.Validate(); err != nil {
		return err
	}
	i := w.indexOf(n)
	if i < 0 {
		return entities.ErrNoteNotFound
	}
	if w.notes[i] != n {
		w.replaceNote(i, n)
	}

	w.adoptNote(n)
	w.pruneTags()
	return w.Save(ctx)
}

// replaceNote подменяет хранимую заметку другой копией с тем же id.
func (w *Workspace) replaceNote(i int, n *entities.Note) {
	old := w.notes[i]
	if f := old.Folder(); f != nil {
		f.RemoveNote(old)
		if n.Folder() == nil && n.FolderID == entities.UnassignedID {
			n.FolderID = f.ID
		}
	}
	w.notes[i] = n
}

// DeleteNote удаляет заметку, отвязывает ее от папки и снимает будильник.
// Теги, на которые больше никто не ссылается, удаляются из общего списка.
func (w *Workspace) DeleteNote(ctx context.Context, n *entities.Note) error {
	log := logger.Log(ctx).With(zap.String("method", "Workspace.DeleteNote"))

	if !w.removeNote(n) {
		return entities.ErrNoteNotFound
	}
	w.pruneTags()

	log.Debug(ctx, "note deleted", zap.Int64("noteID", n.ID))
	return w.Save(ctx)
}

func (w *Workspace) removeNote(n *entities.Note) bool {
	i := w.indexOf(n)
	if i < 0 {
		return false
	}
	own := w.notes[i]
	w.notes = slices.Delete(w.notes, i, i+1)
	if f := own.Folder(); f != nil {
		f.RemoveNote(own)
	}
	own.ClearAlarm()
	return true
}

// MoveNote переносит заметку в папку. nil означает Root.
func (w *Workspace) MoveNote(ctx context.Context, n *entities.Note, folder *entities.Folder) error {
	i := w.indexOf(n)
	if i < 0 {
		return entities.ErrNoteNotFound
	}
	n = w.notes[i]

	target := w.root
	if folder != nil {
		if target = w.ownFolder(folder); target == nil {
			return entities.ErrFolderNotFound
		}
	}
	target.AddNote(n)
	return w.Save(ctx)
}

// SetAlarm назначает заметке будильник. Прежний будильник заметки отбрасывается.
func (w *Workspace) SetAlarm(ctx context.Context, n *entities.Note, a *entities.Alarm) error {
	i := w.indexOf(n)
	if i < 0 {
		return entities.ErrNoteNotFound
	}
	n = w.notes[i]

	if err := a.Validate(); err != nil {
		return err
	}
	if a.ID == entities.UnassignedID {
		a.ID = w.nextAlarmID()
	}
	if err := n.SetAlarm(a); err != nil {
		return err
	}
	return w.Save(ctx)
}

// ClearAlarm снимает будильник с заметки.
func (w *Workspace) ClearAlarm(ctx context.Context, n *entities.Note) error {
	i := w.indexOf(n)
	if i < 0 {
		return entities.ErrNoteNotFound
	}
	n = w.notes[i]
	if n.Alarm() == nil && n.AlarmID == entities.UnassignedID {
		return nil
	}
	n.ClearAlarm()
	return w.Save(ctx)
}
