package http_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"notekeeper/internal/notes/domain/entities"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) note(args mock.Arguments) (*entities.Note, error) {
	n, _ := args.Get(0).(*entities.Note)
	return n, args.Error(1)
}

func (m *mockService) notes(args mock.Arguments) ([]*entities.Note, error) {
	n, _ := args.Get(0).([]*entities.Note)
	return n, args.Error(1)
}

func (m *mockService) folder(args mock.Arguments) (*entities.Folder, error) {
	f, _ := args.Get(0).(*entities.Folder)
	return f, args.Error(1)
}

func (m *mockService) CreateNote(ctx context.Context, note *entities.Note) (*entities.Note, error) {
	return m.note(m.Called(ctx, note))
}

func (m *mockService) GetNote(ctx context.Context, id int64) (*entities.Note, error) {
	return m.note(m.Called(ctx, id))
}

func (m *mockService) ListNotes(ctx context.Context) ([]*entities.Note, error) {
	return m.notes(m.Called(ctx))
}

func (m *mockService) NotesInFolder(ctx context.Context, folderID int64) ([]*entities.Note, error) {
	return m.notes(m.Called(ctx, folderID))
}

func (m *mockService) SearchNotes(ctx context.Context, query string) ([]*entities.Note, error) {
	return m.notes(m.Called(ctx, query))
}

func (m *mockService) NotesByTag(ctx context.Context, name string) ([]*entities.Note, error) {
	return m.notes(m.Called(ctx, name))
}

func (m *mockService) UpdateNote(ctx context.Context, id int64, note *entities.Note) (*entities.Note, error) {
	return m.note(m.Called(ctx, id, note))
}

func (m *mockService) MoveNote(ctx context.Context, id, folderID int64) (*entities.Note, error) {
	return m.note(m.Called(ctx, id, folderID))
}

func (m *mockService) DeleteNote(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockService) CreateFolder(ctx context.Context, folder *entities.Folder) (*entities.Folder, error) {
	return m.folder(m.Called(ctx, folder))
}

func (m *mockService) GetFolder(ctx context.Context, id int64) (*entities.Folder, error) {
	return m.folder(m.Called(ctx, id))
}

func (m *mockService) ListFolders(ctx context.Context) ([]*entities.Folder, error) {
	args := m.Called(ctx)
	f, _ := args.Get(0).([]*entities.Folder)
	return f, args.Error(1)
}

func (m *mockService) UpdateFolder(ctx context.Context, id int64, folder *entities.Folder) (*entities.Folder, error) {
	return m.folder(m.Called(ctx, id, folder))
}

func (m *mockService) DeleteFolder(ctx context.Context, id int64, deleteNotes bool) error {
	return m.Called(ctx, id, deleteNotes).Error(0)
}

func (m *mockService) CreateTag(ctx context.Context, tag *entities.Tag) (*entities.Tag, error) {
	args := m.Called(ctx, tag)
	t, _ := args.Get(0).(*entities.Tag)
	return t, args.Error(1)
}

func (m *mockService) ListTags(ctx context.Context) ([]*entities.Tag, error) {
	args := m.Called(ctx)
	t, _ := args.Get(0).([]*entities.Tag)
	return t, args.Error(1)
}

func (m *mockService) RenameTag(ctx context.Context, id int64, name string) (*entities.Tag, error) {
	args := m.Called(ctx, id, name)
	t, _ := args.Get(0).(*entities.Tag)
	return t, args.Error(1)
}

func (m *mockService) DeleteTag(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockService) SaveAlarm(ctx context.Context, alarm *entities.Alarm) (*entities.Alarm, error) {
	args := m.Called(ctx, alarm)
	a, _ := args.Get(0).(*entities.Alarm)
	return a, args.Error(1)
}

func (m *mockService) GetAlarm(ctx context.Context, id int64) (*entities.Alarm, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*entities.Alarm)
	return a, args.Error(1)
}

func (m *mockService) ListAlarms(ctx context.Context) ([]*entities.Alarm, error) {
	args := m.Called(ctx)
	a, _ := args.Get(0).([]*entities.Alarm)
	return a, args.Error(1)
}

func (m *mockService) DeleteAlarm(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
