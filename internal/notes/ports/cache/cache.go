// Package cache описывает порт кэша чтения для разрешенных заметок.
package cache

import (
	"context"

	"notekeeper/internal/notes/domain/entities"
)

// NoteCache хранит заметки с разрешенными папкой, тегами и будильником.
type NoteCache interface {
	// Get возвращает nil, nil при промахе.
	Get(ctx context.Context, id int64) (*entities.Note, error)
	Set(ctx context.Context, note *entities.Note) error
	Delete(ctx context.Context, ids ...int64) error
}
