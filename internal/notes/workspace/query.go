package workspace

import "notekeeper/internal/notes/domain/entities"

// Search возвращает заметки, содержащие query в заголовке, тексте или имени тега,
// в порядке показа.
func (w *Workspace) Search(query string) []*entities.Note {
	var found []*entities.Note
	for _, n := range w.notes {
		if n.Matches(query) {
			found = append(found, n)
		}
	}
	return entities.SortForDisplay(found)
}

// SearchByTag возвращает заметки с тегом name в порядке показа.
func (w *Workspace) SearchByTag(name string) []*entities.Note {
	var found []*entities.Note
	for _, n := range w.notes {
		if n.HasTag(name) {
			found = append(found, n)
		}
	}
	return entities.SortForDisplay(found)
}

// Sorted возвращает все заметки: избранные, затем открытые задачи, затем новые.
func (w *Workspace) Sorted() []*entities.Note {
	return entities.SortForDisplay(w.notes)
}
