// Package repositories описывает порты доступа к данным реляционного хранилища.
package repositories

import (
	"context"

	"notekeeper/internal/notes/domain/entities"
)

// NoteRepository определяет операции над строками заметок и их связями с тегами.
// Возвращаемые заметки содержат только ссылки по id; папка, теги и будильник
// разрешаются вызывающей стороной.
type NoteRepository interface {
	Create(ctx context.Context, note *entities.Note) (int64, error)
	GetByID(ctx context.Context, id int64) (*entities.Note, error)
	GetAll(ctx context.Context) ([]*entities.Note, error)
	GetByFolder(ctx context.Context, folderID int64) ([]*entities.Note, error)
	GetByTagName(ctx context.Context, name string) ([]*entities.Note, error)
	Search(ctx context.Context, query string) ([]*entities.Note, error)
	Update(ctx context.Context, note *entities.Note) error
	Delete(ctx context.Context, id int64) error
	AlarmID(ctx context.Context, noteID int64) (int64, error)
	ReplaceTags(ctx context.Context, noteID int64, tagIDs []int64) error
	DeleteTags(ctx context.Context, noteID int64) error
	NoteIDsByAlarm(ctx context.Context, alarmID int64) ([]int64, error)
}

// FolderRepository определяет операции над папками.
type FolderRepository interface {
	// Create вставляет папку или возвращает id существующей папки с тем же именем.
	Create(ctx context.Context, folder *entities.Folder) (int64, error)
	GetByID(ctx context.Context, id int64) (*entities.Folder, error)
	GetByName(ctx context.Context, name string) (*entities.Folder, error)
	GetAll(ctx context.Context) ([]*entities.Folder, error)
	Update(ctx context.Context, folder *entities.Folder) error
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
	// ClearParent отвязывает все вложенные папки от parentID.
	ClearParent(ctx context.Context, parentID int64) error
}

// TagRepository определяет операции над тегами.
type TagRepository interface {
	// Create вставляет тег или возвращает id существующего тега с тем же именем.
	Create(ctx context.Context, tag *entities.Tag) (int64, error)
	GetByID(ctx context.Context, id int64) (*entities.Tag, error)
	GetByName(ctx context.Context, name string) (*entities.Tag, error)
	GetAll(ctx context.Context) ([]*entities.Tag, error)
	GetByNote(ctx context.Context, noteID int64) ([]*entities.Tag, error)
	Update(ctx context.Context, tag *entities.Tag) error
	Delete(ctx context.Context, id int64) error
	DeleteAssociations(ctx context.Context, tagID int64) error
	NoteIDs(ctx context.Context, tagID int64) ([]int64, error)
}

// AlarmRepository определяет операции над будильниками.
type AlarmRepository interface {
	Create(ctx context.Context, alarm *entities.Alarm) (int64, error)
	GetByID(ctx context.Context, id int64) (*entities.Alarm, error)
	GetAll(ctx context.Context) ([]*entities.Alarm, error)
	Update(ctx context.Context, alarm *entities.Alarm) error
	Delete(ctx context.Context, id int64) error
}

// Repositories - набор репозиториев, работающих через одно соединение или транзакцию.
type Repositories interface {
	Notes() NoteRepository
	Folders() FolderRepository
	Tags() TagRepository
	Alarms() AlarmRepository
}

// TxFunc - тело транзакции. Ошибка из него приводит к откату.
type TxFunc func(ctx context.Context, repos Repositories) error

// Store предоставляет репозитории поверх пула соединений и транзакции.
type Store interface {
	Repositories
	WithinTx(ctx context.Context, fn TxFunc) error
}
