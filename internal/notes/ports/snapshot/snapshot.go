// Package snapshot описывает порт файлового хранилища рабочего набора.
package snapshot

import (
	"context"

	"notekeeper/internal/notes/domain/entities"
)

// Snapshot - полный рабочий набор: заметки, папки и теги.
// Связи заметок с папками, тегами и будильниками уже разрешены в объекты.
type Snapshot struct {
	Notes   []*entities.Note
	Folders []*entities.Folder
	Tags    []*entities.Tag
}

// Empty сообщает, что в снимке нет данных.
func (s *Snapshot) Empty() bool {
	return s == nil || len(s.Notes) == 0 && len(s.Folders) == 0 && len(s.Tags) == 0
}

// Store загружает и сохраняет снимок целиком.
type Store interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap *Snapshot) error
}
