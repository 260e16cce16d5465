package workspace

import (
	"context"
	"slices"

	"notekeeper/internal/notes/domain/entities"
)

// internTag возвращает тег общего списка, равный t, добавляя t при необходимости.
func (w *Workspace) internTag(t *entities.Tag) *entities.Tag {
	for _, own := range w.tags {
		if own == t || own.Equal(t) || own.Name == t.Name {
			return own
		}
	}
	if t.ID == entities.UnassignedID {
		t.ID = w.nextTagID()
	} else {
		w.lastTagID = max(w.lastTagID, t.ID)
	}
	w.tags = append(w.tags, t)
	return t
}

// pruneTags убирает из общего списка теги, на которые не ссылается ни одна заметка.
func (w *Workspace) pruneTags() {
	w.tags = slices.DeleteFunc(w.tags, func(t *entities.Tag) bool {
		for _, n := range w.notes {
			if slices.Contains(n.Tags, t) {
				return false
			}
		}
		return true
	})
}

// AddTag помечает заметку тегом name. Тег с таким именем берется из общего списка
// или создается.
func (w *Workspace) AddTag(ctx context.Context, n *entities.Note, name string) (*entities.Tag, error) {
	i := w.indexOf(n)
	if i < 0 {
		return nil, entities.ErrNoteNotFound
	}
	n = w.notes[i]

	t, err := entities.NewTag(name)
	if err != nil {
		return nil, err
	}
	if n.HasTag(t.Name) {
		return w.internTag(t), nil
	}

	t = w.internTag(t)
	if _, err := n.AddTag(t); err != nil {
		return nil, err
	}
	return t, w.Save(ctx)
}

// RemoveTag снимает тег с заметки. Тег, который больше никем не используется,
// удаляется из общего списка.
func (w *Workspace) RemoveTag(ctx context.Context, n *entities.Note, name string) error {
	i := w.indexOf(n)
	if i < 0 {
		return entities.ErrNoteNotFound
	}
	if !w.notes[i].RemoveTag(name) {
		return entities.ErrTagNotFound
	}
	w.pruneTags()
	return w.Save(ctx)
}
