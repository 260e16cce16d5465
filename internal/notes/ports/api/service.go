// Package api описывает порт сервиса, который используют транспорты.
package api

import (
	"context"

	"notekeeper/internal/notes/domain/entities"
)

// NoteService - операции реляционного режима над заметками.
type NoteService interface {
	CreateNote(ctx context.Context, note *entities.Note) (*entities.Note, error)
	GetNote(ctx context.Context, id int64) (*entities.Note, error)
	ListNotes(ctx context.Context) ([]*entities.Note, error)
	NotesInFolder(ctx context.Context, folderID int64) ([]*entities.Note, error)
	SearchNotes(ctx context.Context, query string) ([]*entities.Note, error)
	NotesByTag(ctx context.Context, name string) ([]*entities.Note, error)
	UpdateNote(ctx context.Context, id int64, note *entities.Note) (*entities.Note, error)
	MoveNote(ctx context.Context, id, folderID int64) (*entities.Note, error)
	DeleteNote(ctx context.Context, id int64) error
}

// FolderService - операции над папками.
type FolderService interface {
	CreateFolder(ctx context.Context, folder *entities.Folder) (*entities.Folder, error)
	GetFolder(ctx context.Context, id int64) (*entities.Folder, error)
	ListFolders(ctx context.Context) ([]*entities.Folder, error)
	UpdateFolder(ctx context.Context, id int64, folder *entities.Folder) (*entities.Folder, error)
	DeleteFolder(ctx context.Context, id int64, deleteNotes bool) error
}

// TagService - операции над тегами.
type TagService interface {
	CreateTag(ctx context.Context, tag *entities.Tag) (*entities.Tag, error)
	ListTags(ctx context.Context) ([]*entities.Tag, error)
	RenameTag(ctx context.Context, id int64, name string) (*entities.Tag, error)
	DeleteTag(ctx context.Context, id int64) error
}

// AlarmService - операции над будильниками.
type AlarmService interface {
	SaveAlarm(ctx context.Context, alarm *entities.Alarm) (*entities.Alarm, error)
	GetAlarm(ctx context.Context, id int64) (*entities.Alarm, error)
	ListAlarms(ctx context.Context) ([]*entities.Alarm, error)
	DeleteAlarm(ctx context.Context, id int64) error
}

// Service объединяет все операции реляционного режима.
type Service interface {
	NoteService
	FolderService
	TagService
	AlarmService
}
