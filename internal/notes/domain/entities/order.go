package entities

import "slices"

// CompareForDisplay задает порядок показа: избранные, затем открытые задачи,
// затем более новые по времени создания.
func CompareForDisplay(a, b *Note) int {
	if a.Favorite != b.Favorite {
		if a.Favorite {
			return -1
		}
		return 1
	}
	if a.OpenMission() != b.OpenMission() {
		if a.OpenMission() {
			return -1
		}
		return 1
	}
	return b.CreatedAt.Compare(a.CreatedAt)
}

// SortForDisplay возвращает отсортированную копию notes.
func SortForDisplay(notes []*Note) []*Note {
	sorted := slices.Clone(notes)
	slices.SortStableFunc(sorted, CompareForDisplay)
	return sorted
}
