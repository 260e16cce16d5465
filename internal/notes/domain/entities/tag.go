package entities

import "strings"

// Tag - метка заметки. До сохранения тег идентифицируется по имени.
type Tag struct {
	ID   int64
	Name string
}

// NewTag создает тег с непустым именем.
func NewTag(name string) (*Tag, error) {
	t := &Tag{Name: strings.TrimSpace(name)}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate проверяет инварианты тега.
func (t *Tag) Validate() error {
	if t == nil {
		return ErrNilEntity
	}
	if strings.TrimSpace(t.Name) == "" {
		return ErrEmptyTagName
	}
	return nil
}

// Rename меняет имя тега.
func (t *Tag) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyTagName
	}
	t.Name = name
	return nil
}

// Key возвращает естественный ключ тега.
func (t *Tag) Key() string {
	return t.Name
}

// Equal сравнивает по id, если оба назначены, иначе по имени.
func (t *Tag) Equal(other *Tag) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.ID != UnassignedID && other.ID != UnassignedID {
		return t.ID == other.ID
	}
	return t.Name == other.Name
}
