package entities

import (
	"slices"
	"strings"
)

// RootFolderName - имя папки по умолчанию, которую нельзя удалить.
const RootFolderName = "Root"

// Folder группирует заметки и вложенные папки.
//
// Заметки связаны с папкой в обе стороны: Note.FolderID хранит ссылку,
// а живые указатели поддерживаются методами AddNote/RemoveNote/LinkNote.
// Вложенные папки доступны по имени; до связывания (например, после
// загрузки снимка) они хранятся как список имен.
type Folder struct {
	ID       int64
	Name     string
	Favorite bool
	// ParentID - реляционное представление ссылки родитель -> вложенная папка.
	ParentID int64

	notes          []*Note
	subFolders     []*Folder
	subFolderNames []string
}

// NewFolder создает папку с непустым именем.
func NewFolder(name string) (*Folder, error) {
	f := &Folder{Name: strings.TrimSpace(name)}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// NewRootFolder создает папку Root.
func NewRootFolder() *Folder {
	return &Folder{Name: RootFolderName}
}

// Validate проверяет инварианты папки.
func (f *Folder) Validate() error {
	if f == nil {
		return ErrNilEntity
	}
	if strings.TrimSpace(f.Name) == "" {
		return ErrEmptyFolderName
	}
	return nil
}

// IsRoot сообщает, является ли папка корневой.
func (f *Folder) IsRoot() bool {
	return f != nil && f.Name == RootFolderName
}

// Rename меняет имя папки. Root переименовать нельзя.
func (f *Folder) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyFolderName
	}
	if f.IsRoot() && name != RootFolderName {
		return ErrRootFolderRename
	}
	f.Name = name
	return nil
}

// AssignID назначает постоянный id и переносит его в ссылки заметок и вложенных папок.
func (f *Folder) AssignID(id int64) {
	f.ID = id
	for _, n := range f.notes {
		n.FolderID = id
	}
	for _, sub := range f.subFolders {
		sub.ParentID = id
	}
}

// Key возвращает естественный ключ папки.
func (f *Folder) Key() string {
	return f.Name
}

// Equal сравнивает по id, если оба назначены, иначе по имени.
func (f *Folder) Equal(other *Folder) bool {
	if f == nil || other == nil {
		return f == other
	}
	if f.ID != UnassignedID && other.ID != UnassignedID {
		return f.ID == other.ID
	}
	return f.Name == other.Name
}

// Notes возвращает копию списка заметок папки.
func (f *Folder) Notes() []*Note {
	return slices.Clone(f.notes)
}

// AddNote переносит заметку в папку: заметка удаляется из прежней папки,
// ее ссылка и время изменения обновляются.
func (f *Folder) AddNote(n *Note) {
	if n == nil {
		return
	}
	f.LinkNote(n)
	n.touch()
}

// LinkNote связывает заметку с папкой без изменения времени правки.
// Используется при восстановлении связей после чтения из хранилища.
func (f *Folder) LinkNote(n *Note) {
	if n == nil {
		return
	}
	if n.folder != nil && n.folder != f {
		n.folder.detach(n)
	}
	n.folder = f
	n.FolderID = f.ID
	if !slices.Contains(f.notes, n) {
		f.notes = append(f.notes, n)
	}
}

// RemoveNote отвязывает заметку от папки. Возвращает false, если заметки в папке не было.
func (f *Folder) RemoveNote(n *Note) bool {
	if n == nil || !f.detach(n) {
		return false
	}
	if n.folder == f {
		n.folder = nil
		n.FolderID = UnassignedID
		n.touch()
	}
	return true
}

func (f *Folder) detach(n *Note) bool {
	i := slices.Index(f.notes, n)
	if i < 0 {
		return false
	}
	f.notes = slices.Delete(f.notes, i, i+1)
	return true
}

// SubFolders возвращает копию списка связанных вложенных папок.
func (f *Folder) SubFolders() []*Folder {
	return slices.Clone(f.subFolders)
}

// SubFolderNames возвращает имена вложенных папок: связанных и еще не связанных.
func (f *Folder) SubFolderNames() []string {
	names := make([]string, 0, len(f.subFolders)+len(f.subFolderNames))
	for _, sub := range f.subFolders {
		names = append(names, sub.Name)
	}
	for _, name := range f.subFolderNames {
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	return names
}

// SetSubFolderNames запоминает имена вложенных папок до их связывания.
func (f *Folder) SetSubFolderNames(names []string) {
	f.subFolderNames = f.subFolderNames[:0]
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name != "" && !slices.Contains(f.subFolderNames, name) {
			f.subFolderNames = append(f.subFolderNames, name)
		}
	}
}

// LinkSubFolders заменяет отложенные имена живыми ссылками через lookup.
// Имена, которые не удалось разрешить, молча отбрасываются.
func (f *Folder) LinkSubFolders(lookup func(name string) *Folder) {
	pending := f.subFolderNames
	f.subFolderNames = nil
	for _, name := range pending {
		sub := lookup(name)
		if sub == nil {
			continue
		}
		_ = f.AddSubFolder(sub)
	}
}

// AddSubFolder добавляет вложенную папку. Папка не может содержать саму себя
// ни напрямую, ни через потомков.
func (f *Folder) AddSubFolder(sub *Folder) error {
	if sub == nil {
		return ErrNilEntity
	}
	if sub == f || sub.contains(f) {
		return ErrFolderCycle
	}
	for _, existing := range f.subFolders {
		if existing == sub || existing.Name == sub.Name {
			return nil
		}
	}
	f.subFolders = append(f.subFolders, sub)
	sub.ParentID = f.ID
	return nil
}

func (f *Folder) contains(target *Folder) bool {
	for _, sub := range f.subFolders {
		if sub == target || sub.contains(target) {
			return true
		}
	}
	return false
}

// RemoveSubFolder убирает вложенную папку с указанным именем.
func (f *Folder) RemoveSubFolder(name string) bool {
	for i, sub := range f.subFolders {
		if sub.Name == name {
			f.subFolders = slices.Delete(f.subFolders, i, i+1)
			if sub.ParentID == f.ID {
				sub.ParentID = UnassignedID
			}
			return true
		}
	}
	if i := slices.Index(f.subFolderNames, name); i >= 0 {
		f.subFolderNames = slices.Delete(f.subFolderNames, i, i+1)
		return true
	}
	return false
}

// ClearSubFolders снимает все ссылки на вложенные папки.
func (f *Folder) ClearSubFolders() {
	for _, sub := range f.subFolders {
		if sub.ParentID == f.ID {
			sub.ParentID = UnassignedID
		}
	}
	f.subFolders = nil
	f.subFolderNames = nil
}
