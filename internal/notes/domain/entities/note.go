package entities

import (
	"slices"
	"strings"
	"time"
)

// NoteKind определяет вид содержимого заметки.
type NoteKind string

// Виды заметок.
const (
	KindText    NoteKind = "TEXT"
	KindDrawing NoteKind = "DRAWING"
)

// Valid сообщает, известен ли вид заметки.
func (k NoteKind) Valid() bool {
	return k == KindText || k == KindDrawing
}

// ParseNoteKind разбирает вид заметки без учета регистра.
func ParseNoteKind(s string) (NoteKind, error) {
	k := NoteKind(strings.ToUpper(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", ErrUnknownKind
	}
	return k, nil
}

// Note - заметка пользователя.
//
// FolderID и AlarmID - источник истины для ссылок; Folder() и Alarm()
// возвращают разрешенные объекты, которые не сохраняются сами по себе.
// Текстовая заметка хранит Content, рисунок хранит Image.
type Note struct {
	ID               int64
	Title            string
	Content          string
	Image            []byte
	Kind             NoteKind
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Favorite         bool
	Mission          bool
	MissionCompleted bool
	MissionText      string
	FolderID         int64
	AlarmID          int64
	Tags             []*Tag

	folder *Folder
	alarm  *Alarm
}

// NewTextNote создает текстовую заметку.
func NewTextNote(title, content string) (*Note, error) {
	return newNote(title, KindText, content, nil)
}

// NewDrawingNote создает заметку-рисунок с непрозрачным содержимым image.
func NewDrawingNote(title string, image []byte) (*Note, error) {
	return newNote(title, KindDrawing, "", image)
}

func newNote(title string, kind NoteKind, content string, image []byte) (*Note, error) {
	now := time.Now().UTC()
	n := &Note{
		Title:     strings.TrimSpace(title),
		Kind:      kind,
		Content:   content,
		Image:     image,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

// Validate проверяет инварианты заметки, включая привязанные тег и будильник.
func (n *Note) Validate() error {
	if n == nil {
		return ErrNilEntity
	}
	if strings.TrimSpace(n.Title) == "" {
		return ErrEmptyTitle
	}
	if !n.Kind.Valid() {
		return ErrUnknownKind
	}
	if n.Kind == KindDrawing && n.Content != "" {
		return ErrDrawingHasContent
	}
	if n.Kind == KindText && len(n.Image) > 0 {
		return ErrTextHasImage
	}
	if n.CreatedAt.IsZero() || n.UpdatedAt.IsZero() {
		return ErrZeroTimestamp
	}
	if n.MissionCompleted && !n.Mission {
		return ErrMissionInactive
	}
	for _, t := range n.Tags {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	if n.alarm != nil {
		return n.alarm.Validate()
	}
	return nil
}

// Key возвращает естественный ключ: заголовок, время создания и вид.
func (n *Note) Key() string {
	return n.Title + "|" + n.CreatedAt.UTC().Format(time.RFC3339Nano) + "|" + string(n.Kind)
}

// Equal сравнивает по id, если оба назначены, иначе по заголовку, времени создания и виду.
func (n *Note) Equal(other *Note) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.ID != UnassignedID && other.ID != UnassignedID {
		return n.ID == other.ID
	}
	return n.Title == other.Title && n.CreatedAt.Equal(other.CreatedAt) && n.Kind == other.Kind
}

func (n *Note) touch() {
	now := time.Now().UTC()
	if !now.After(n.UpdatedAt) {
		now = n.UpdatedAt.Add(time.Microsecond)
	}
	n.UpdatedAt = now
}

// Touch отмечает заметку измененной.
func (n *Note) Touch() {
	n.touch()
}

// SetTitle меняет заголовок.
func (n *Note) SetTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	n.Title = title
	n.touch()
	return nil
}

// SetContent меняет текст. У рисунка текста быть не может.
func (n *Note) SetContent(content string) error {
	if n.Kind == KindDrawing && content != "" {
		return ErrDrawingHasContent
	}
	n.Content = content
	n.touch()
	return nil
}

// SetImage меняет изображение. У текстовой заметки изображения быть не может.
func (n *Note) SetImage(image []byte) error {
	if n.Kind == KindText && len(image) > 0 {
		return ErrTextHasImage
	}
	n.Image = image
	n.touch()
	return nil
}

// SetFavorite меняет флаг избранного.
func (n *Note) SetFavorite(favorite bool) {
	n.Favorite = favorite
	n.touch()
}

// SetMission включает или выключает задачу. Выключение сбрасывает отметку о выполнении.
func (n *Note) SetMission(active bool, text string) {
	n.Mission = active
	n.MissionText = strings.TrimSpace(text)
	if !active {
		n.MissionCompleted = false
	}
	n.touch()
}

// SetMissionCompleted отмечает задачу выполненной.
func (n *Note) SetMissionCompleted(done bool) error {
	if done && !n.Mission {
		return ErrMissionInactive
	}
	n.MissionCompleted = done
	n.touch()
	return nil
}

// OpenMission сообщает, есть ли у заметки невыполненная задача.
func (n *Note) OpenMission() bool {
	return n.Mission && !n.MissionCompleted
}

// Folder возвращает разрешенную папку заметки.
func (n *Note) Folder() *Folder {
	return n.folder
}

// SetFolder переносит заметку в папку f; nil отвязывает ее от текущей папки.
func (n *Note) SetFolder(f *Folder) {
	if f != nil {
		f.AddNote(n)
		return
	}
	if n.folder != nil {
		n.folder.RemoveNote(n)
		return
	}
	n.FolderID = UnassignedID
	n.touch()
}

// AddTag добавляет тег, если равного еще нет. Возвращает тег, который в итоге
// привязан к заметке.
func (n *Note) AddTag(t *Tag) (*Tag, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	for _, existing := range n.Tags {
		if existing.Equal(t) {
			return existing, nil
		}
	}
	n.Tags = append(n.Tags, t)
	n.touch()
	return t, nil
}

// RemoveTag убирает тег с указанным именем.
func (n *Note) RemoveTag(name string) bool {
	i := slices.IndexFunc(n.Tags, func(t *Tag) bool { return t.Name == name })
	if i < 0 {
		return false
	}
	n.Tags = slices.Delete(n.Tags, i, i+1)
	n.touch()
	return true
}

// HasTag сообщает, есть ли у заметки тег с точно таким именем.
func (n *Note) HasTag(name string) bool {
	return slices.ContainsFunc(n.Tags, func(t *Tag) bool { return t.Name == name })
}

// TagNames возвращает имена тегов заметки.
func (n *Note) TagNames() []string {
	names := make([]string, 0, len(n.Tags))
	for _, t := range n.Tags {
		names = append(names, t.Name)
	}
	return names
}

// Alarm возвращает разрешенный будильник заметки.
func (n *Note) Alarm() *Alarm {
	return n.alarm
}

// SetAlarm привязывает будильник. AlarmID берется из будильника и может быть
// нулевым, пока будильник не сохранен.
func (n *Note) SetAlarm(a *Alarm) error {
	if err := a.Validate(); err != nil {
		return err
	}
	n.LinkAlarm(a)
	n.touch()
	return nil
}

// LinkAlarm связывает заметку с уже загруженным будильником без изменения времени правки.
func (n *Note) LinkAlarm(a *Alarm) {
	n.alarm = a
	if a == nil {
		n.AlarmID = UnassignedID
		return
	}
	n.AlarmID = a.ID
}

// ClearAlarm отвязывает будильник и возвращает прежний.
func (n *Note) ClearAlarm() *Alarm {
	prev := n.alarm
	if prev == nil && n.AlarmID == UnassignedID {
		return nil
	}
	n.alarm = nil
	n.AlarmID = UnassignedID
	n.touch()
	return prev
}

// Matches ищет подстроку без учета регистра в заголовке, тексте и именах тегов.
func (n *Note) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(n.Title), q) || strings.Contains(strings.ToLower(n.Content), q) {
		return true
	}
	for _, t := range n.Tags {
		if strings.Contains(strings.ToLower(t.Name), q) {
			return true
		}
	}
	return false
}
