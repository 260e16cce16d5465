package app_test

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"

	"notekeeper/internal/notes/domain/entities"
	"notekeeper/internal/notes/ports/repositories"
)

var errInjected = errors.New("injected failure")

type folderRow struct {
	id       int64
	name     string
	favorite bool
	parentID int64
}

// memDB - таблицы схемы notes в памяти с проверкой внешних ключей.
type memDB struct {
	seq      int64
	folders  map[int64]folderRow
	tags     map[int64]string
	alarms   map[int64]entities.Alarm
	notes    map[int64]entities.Note
	noteTags map[int64][]int64
}

func newMemDB() *memDB {
	db := &memDB{
		folders:  make(map[int64]folderRow),
		tags:     make(map[int64]string),
		alarms:   make(map[int64]entities.Alarm),
		notes:    make(map[int64]entities.Note),
		noteTags: make(map[int64][]int64),
	}
	db.seq++
	db.folders[db.seq] = folderRow{id: db.seq, name: entities.RootFolderName}
	return db
}

func (db *memDB) clone() *memDB {
	c := &memDB{
		seq:      db.seq,
		folders:  maps.Clone(db.folders),
		tags:     maps.Clone(db.tags),
		alarms:   maps.Clone(db.alarms),
		notes:    maps.Clone(db.notes),
		noteTags: make(map[int64][]int64, len(db.noteTags)),
	}
	for k, v := range db.noteTags {
		c.noteTags[k] = slices.Clone(v)
	}
	return c
}

func (db *memDB) next() int64 {
	db.seq++
	return db.seq
}

// fakeStore реализует repositories.Store. WithinTx откатывает все изменения fn при ошибке.
type fakeStore struct {
	db      *memDB
	fail    map[string]error
	txCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{db: newMemDB(), fail: make(map[string]error)}
}

func (s *fakeStore) check(op string) error {
	if err, ok := s.fail[op]; ok {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *fakeStore) Notes() repositories.NoteRepository     { return fakeNotes{s} }
func (s *fakeStore) Folders() repositories.FolderRepository { return fakeFolders{s} }
func (s *fakeStore) Tags() repositories.TagRepository       { return fakeTags{s} }
func (s *fakeStore) Alarms() repositories.AlarmRepository   { return fakeAlarms{s} }

func (s *fakeStore) WithinTx(ctx context.Context, fn repositories.TxFunc) error {
	s.txCalls++
	if err := s.check("Begin"); err != nil {
		return fmt.Errorf("%w: %w", entities.ErrConnectivity, err)
	}
	backup := s.db.clone()
	if err := fn(ctx, s); err != nil {
		s.db = backup
		return err
	}
	if err := s.check("Commit"); err != nil {
		s.db = backup
		return fmt.Errorf("%w: %w", entities.ErrPersistence, err)
	}
	return nil
}

// Запросы для проверок в тестах.

func (s *fakeStore) tagIDsOf(noteID int64) []int64 {
	return slices.Clone(s.db.noteTags[noteID])
}

func (s *fakeStore) associationCount() int {
	n := 0
	for _, ids := range s.db.noteTags {
		n += len(ids)
	}
	return n
}

func (s *fakeStore) folderCount() int { return len(s.db.folders) }
func (s *fakeStore) tagCount() int    { return len(s.db.tags) }
func (s *fakeStore) noteCount() int   { return len(s.db.notes) }
func (s *fakeStore) alarmCount() int  { return len(s.db.alarms) }

func (s *fakeStore) hasAlarm(id int64) bool {
	_, ok := s.db.alarms[id]
	return ok
}

func (s *fakeStore) rootID() int64 {
	for id, f := range s.db.folders {
		if f.name == entities.RootFolderName {
			return id
		}
	}
	return 0
}

func sortedNotes(db *memDB, keep func(entities.Note) bool) []*entities.Note {
	var out []*entities.Note
	for _, row := range db.notes {
		if keep(row) {
			n := row
			out = append(out, &n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func storedNote(n *entities.Note, id int64) entities.Note {
	return entities.Note{
		ID:               id,
		Title:            n.Title,
		Content:          n.Content,
		Image:            slices.Clone(n.Image),
		Kind:             n.Kind,
		CreatedAt:        n.CreatedAt,
		UpdatedAt:        n.UpdatedAt,
		Favorite:         n.Favorite,
		Mission:          n.Mission,
		MissionCompleted: n.MissionCompleted,
		MissionText:      n.MissionText,
		FolderID:         n.FolderID,
		AlarmID:          n.AlarmID,
	}
}

type fakeNotes struct{ s *fakeStore }

func (r fakeNotes) checkRefs(n *entities.Note) error {
	if _, ok := r.s.db.folders[n.FolderID]; !ok {
		return fmt.Errorf("notes.folder_id: %w", entities.ErrReferential)
	}
	if n.AlarmID != entities.UnassignedID {
		if _, ok := r.s.db.alarms[n.AlarmID]; !ok {
			return fmt.Errorf("notes.alarm_id: %w", entities.ErrReferential)
		}
	}
	return nil
}

func (r fakeNotes) Create(_ context.Context, n *entities.Note) (int64, error) {
	if err := r.s.check("Notes.Create"); err != nil {
		return 0, err
	}
	if err := r.checkRefs(n); err != nil {
		return 0, err
	}
	id := r.s.db.next()
	r.s.db.notes[id] = storedNote(n, id)
	return id, nil
}

func (r fakeNotes) GetByID(_ context.Context, id int64) (*entities.Note, error) {
	if err := r.s.check("Notes.GetByID"); err != nil {
		return nil, err
	}
	row, ok := r.s.db.notes[id]
	if !ok {
		return nil, entities.ErrNoteNotFound
	}
	return &row, nil
}

func (r fakeNotes) GetAll(_ context.Context) ([]*entities.Note, error) {
	if err := r.s.check("Notes.GetAll"); err != nil {
		return nil, err
	}
	return sortedNotes(r.s.db, func(entities.Note) bool { return true }), nil
}

func (r fakeNotes) GetByFolder(_ context.Context, folderID int64) ([]*entities.Note, error) {
	return sortedNotes(r.s.db, func(n entities.Note) bool { return n.FolderID == folderID }), nil
}

func (r fakeNotes) GetByTagName(_ context.Context, name string) ([]*entities.Note, error) {
	return sortedNotes(r.s.db, func(n entities.Note) bool {
		for _, tagID := range r.s.db.noteTags[n.ID] {
			if r.s.db.tags[tagID] == name {
				return true
			}
		}
		return false
	}), nil
}

func (r fakeNotes) Search(_ context.Context, query string) ([]*entities.Note, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	return sortedNotes(r.s.db, func(n entities.Note) bool {
		if strings.Contains(strings.ToLower(n.Title), q) || strings.Contains(strings.ToLower(n.Content), q) {
			return true
		}
		for _, tagID := range r.s.db.noteTags[n.ID] {
			if strings.Contains(strings.ToLower(r.s.db.tags[tagID]), q) {
				return true
			}
		}
		return false
	}), nil
}

func (r fakeNotes) Update(_ context.Context, n *entities.Note) error {
	if err := r.s.check("Notes.Update"); err != nil {
		return err
	}
	if _, ok := r.s.db.notes[n.ID]; !ok {
		return entities.ErrNoteNotFound
	}
	if err := r.checkRefs(n); err != nil {
		return err
	}
	r.s.db.notes[n.ID] = storedNote(n, n.ID)
	return nil
}

func (r fakeNotes) Delete(_ context.Context, id int64) error {
	if err := r.s.check("Notes.Delete"); err != nil {
		return err
	}
	if _, ok := r.s.db.notes[id]; !ok {
		return entities.ErrNoteNotFound
	}
	if len(r.s.db.noteTags[id]) > 0 {
		return fmt.Errorf("note_tags.note_id: %w", entities.ErrReferential)
	}
	delete(r.s.db.notes, id)
	return nil
}

func (r fakeNotes) AlarmID(_ context.Context, noteID int64) (int64, error) {
	row, ok := r.s.db.notes[noteID]
	if !ok {
		return 0, entities.ErrNoteNotFound
	}
	return row.AlarmID, nil
}

func (r fakeNotes) ReplaceTags(_ context.Context, noteID int64, tagIDs []int64) error {
	if err := r.s.check("Notes.ReplaceTags"); err != nil {
		return err
	}
	for _, id := range tagIDs {
		if _, ok := r.s.db.tags[id]; !ok {
			return fmt.Errorf("note_tags.tag_id: %w", entities.ErrReferential)
		}
	}
	delete(r.s.db.noteTags, noteID)
	if len(tagIDs) > 0 {
		r.s.db.noteTags[noteID] = slices.Clone(tagIDs)
	}
	return nil
}

func (r fakeNotes) DeleteTags(_ context.Context, noteID int64) error {
	delete(r.s.db.noteTags, noteID)
	return nil
}

func (r fakeNotes) NoteIDsByAlarm(_ context.Context, alarmID int64) ([]int64, error) {
	var ids []int64
	for _, n := range sortedNotes(r.s.db, func(n entities.Note) bool { return n.AlarmID == alarmID }) {
		ids = append(ids, n.ID)
	}
	return ids, nil
}

type fakeFolders struct{ s *fakeStore }

func (r fakeFolders) entity(row folderRow) *entities.Folder {
	return &entities.Folder{ID: row.id, Name: row.name, Favorite: row.favorite, ParentID: row.parentID}
}

func (r fakeFolders) Create(_ context.Context, f *entities.Folder) (int64, error) {
	if err := r.s.check("Folders.Create"); err != nil {
		return 0, err
	}
	for id, row := range r.s.db.folders {
		if row.name == f.Name {
			return id, nil
		}
	}
	id := r.s.db.next()
	r.s.db.folders[id] = folderRow{id: id, name: f.Name, favorite: f.Favorite, parentID: f.ParentID}
	return id, nil
}

func (r fakeFolders) GetByID(_ context.Context, id int64) (*entities.Folder, error) {
	row, ok := r.s.db.folders[id]
	if !ok {
		return nil, entities.ErrFolderNotFound
	}
	return r.entity(row), nil
}

func (r fakeFolders) GetByName(_ context.Context, name string) (*entities.Folder, error) {
	for _, row := range r.s.db.folders {
		if row.name == name {
			return r.entity(row), nil
		}
	}
	return nil, entities.ErrFolderNotFound
}

func (r fakeFolders) GetAll(_ context.Context) ([]*entities.Folder, error) {
	out := make([]*entities.Folder, 0, len(r.s.db.folders))
	for _, row := range r.s.db.folders {
		out = append(out, r.entity(row))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r fakeFolders) Update(_ context.Context, f *entities.Folder) error {
	if _, ok := r.s.db.folders[f.ID]; !ok {
		return entities.ErrFolderNotFound
	}
	for id, row := range r.s.db.folders {
		if id != f.ID && row.name == f.Name {
			return entities.ErrNameTaken
		}
	}
	r.s.db.folders[f.ID] = folderRow{id: f.ID, name: f.Name, favorite: f.Favorite, parentID: f.ParentID}
	return nil
}

func (r fakeFolders) Delete(_ context.Context, id int64) error {
	if err := r.s.check("Folders.Delete"); err != nil {
		return err
	}
	if _, ok := r.s.db.folders[id]; !ok {
		return entities.ErrFolderNotFound
	}
	for _, n := range r.s.db.notes {
		if n.FolderID == id {
			return fmt.Errorf("notes.folder_id: %w", entities.ErrReferential)
		}
	}
	delete(r.s.db.folders, id)
	for childID, row := range r.s.db.folders {
		if row.parentID == id {
			row.parentID = 0
			r.s.db.folders[childID] = row
		}
	}
	return nil
}

func (r fakeFolders) Exists(_ context.Context, id int64) (bool, error) {
	if err := r.s.check("Folders.Exists"); err != nil {
		return false, err
	}
	_, ok := r.s.db.folders[id]
	return ok, nil
}

func (r fakeFolders) ClearParent(_ context.Context, parentID int64) error {
	for id, row := range r.s.db.folders {
		if row.parentID == parentID {
			row.parentID = 0
			r.s.db.folders[id] = row
		}
	}
	return nil
}

type fakeTags struct{ s *fakeStore }

func (r fakeTags) Create(_ context.Context, t *entities.Tag) (int64, error) {
	if err := r.s.check("Tags.Create"); err != nil {
		return 0, err
	}
	for id, name := range r.s.db.tags {
		if name == t.Name {
			return id, nil
		}
	}
	id := r.s.db.next()
	r.s.db.tags[id] = t.Name
	return id, nil
}

func (r fakeTags) GetByID(_ context.Context, id int64) (*entities.Tag, error) {
	name, ok := r.s.db.tags[id]
	if !ok {
		return nil, entities.ErrTagNotFound
	}
	return &entities.Tag{ID: id, Name: name}, nil
}

func (r fakeTags) GetByName(_ context.Context, name string) (*entities.Tag, error) {
	for id, n := range r.s.db.tags {
		if n == name {
			return &entities.Tag{ID: id, Name: n}, nil
		}
	}
	return nil, entities.ErrTagNotFound
}

func (r fakeTags) GetAll(_ context.Context) ([]*entities.Tag, error) {
	out := make([]*entities.Tag, 0, len(r.s.db.tags))
	for id, name := range r.s.db.tags {
		out = append(out, &entities.Tag{ID: id, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r fakeTags) GetByNote(_ context.Context, noteID int64) ([]*entities.Tag, error) {
	var out []*entities.Tag
	for _, id := range r.s.db.noteTags[noteID] {
		out = append(out, &entities.Tag{ID: id, Name: r.s.db.tags[id]})
	}
	return out, nil
}

func (r fakeTags) Update(_ context.Context, t *entities.Tag) error {
	if _, ok := r.s.db.tags[t.ID]; !ok {
		return entities.ErrTagNotFound
	}
	for id, name := range r.s.db.tags {
		if id != t.ID && name == t.Name {
			return entities.ErrNameTaken
		}
	}
	r.s.db.tags[t.ID] = t.Name
	return nil
}

func (r fakeTags) Delete(_ context.Context, id int64) error {
	if err := r.s.check("Tags.Delete"); err != nil {
		return err
	}
	if _, ok := r.s.db.tags[id]; !ok {
		return entities.ErrTagNotFound
	}
	for _, ids := range r.s.db.noteTags {
		if slices.Contains(ids, id) {
			return fmt.Errorf("note_tags.tag_id: %w", entities.ErrReferential)
		}
	}
	delete(r.s.db.tags, id)
	return nil
}

func (r fakeTags) DeleteAssociations(_ context.Context, tagID int64) error {
	for noteID, ids := range r.s.db.noteTags {
		r.s.db.noteTags[noteID] = slices.DeleteFunc(ids, func(id int64) bool { return id == tagID })
	}
	return nil
}

func (r fakeTags) NoteIDs(_ context.Context, tagID int64) ([]int64, error) {
	var out []int64
	for noteID, ids := range r.s.db.noteTags {
		if slices.Contains(ids, tagID) {
			out = append(out, noteID)
		}
	}
	slices.Sort(out)
	return out, nil
}

type fakeAlarms struct{ s *fakeStore }

func (r fakeAlarms) Create(_ context.Context, a *entities.Alarm) (int64, error) {
	if err := r.s.check("Alarms.Create"); err != nil {
		return 0, err
	}
	id := r.s.db.next()
	row := *a
	row.ID = id
	r.s.db.alarms[id] = row
	return id, nil
}

func (r fakeAlarms) GetByID(_ context.Context, id int64) (*entities.Alarm, error) {
	row, ok := r.s.db.alarms[id]
	if !ok {
		return nil, entities.ErrAlarmNotFound
	}
	return &row, nil
}

func (r fakeAlarms) GetAll(_ context.Context) ([]*entities.Alarm, error) {
	out := make([]*entities.Alarm, 0, len(r.s.db.alarms))
	for _, row := range r.s.db.alarms {
		a := row
		out = append(out, &a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r fakeAlarms) Update(_ context.Context, a *entities.Alarm) error {
	if _, ok := r.s.db.alarms[a.ID]; !ok {
		return entities.ErrAlarmNotFound
	}
	r.s.db.alarms[a.ID] = *a
	return nil
}

func (r fakeAlarms) Delete(_ context.Context, id int64) error {
	if err := r.s.check("Alarms.Delete"); err != nil {
		return err
	}
	if _, ok := r.s.db.alarms[id]; !ok {
		return entities.ErrAlarmNotFound
	}
	delete(r.s.db.alarms, id)
	for noteID, n := range r.s.db.notes {
		if n.AlarmID == id {
			n.AlarmID = 0
			r.s.db.notes[noteID] = n
		}
	}
	return nil
}
