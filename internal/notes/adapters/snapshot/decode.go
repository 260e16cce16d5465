package snapshot

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"notekeeper/internal/notes/domain/entities"
	"notekeeper/internal/notes/ports/snapshot"
	"notekeeper/pkg/logger"
)

// decoder разбирает дерево документа поле за полем. Отсутствующие или
// испорченные поля получают значения по умолчанию, а не прерывают загрузку.
type decoder struct {
	ctx context.Context
	log *logger.Logger
	now time.Time

	snap       *snapshot.Snapshot
	tagsByID   map[int64]*entities.Tag
	tagsByName map[string]*entities.Tag
	folderByID map[int64]*entities.Folder
	root       *entities.Folder

	defaulted int
}

func newDecoder(ctx context.Context) *decoder {
	return &decoder{
		ctx:        ctx,
		log:        logger.Log(ctx).With(zap.String("method", "Codec.decode")),
		now:        time.Now().UTC(),
		snap:       &snapshot.Snapshot{},
		tagsByID:   make(map[int64]*entities.Tag),
		tagsByName: make(map[string]*entities.Tag),
		folderByID: make(map[int64]*entities.Folder),
	}
}

func (d *decoder) decode(root map[string]any) *snapshot.Snapshot {
	for _, item := range d.list(root, "tags") {
		if m, ok := item.(map[string]any); ok {
			d.decodeTag(m)
		}
	}
	for _, item := range d.list(root, "folders") {
		if m, ok := item.(map[string]any); ok {
			d.decodeFolder(m)
		}
	}
	for _, item := range d.list(root, "notes") {
		if m, ok := item.(map[string]any); ok {
			d.decodeNote(m)
		}
	}
	return d.snap
}

// resolveTag возвращает общий объект тега: по id, если он известен, иначе по имени.
// Новые теги добавляются в общий список.
func (d *decoder) resolveTag(id int64, name string) *entities.Tag {
	if id != entities.UnassignedID {
		if t, ok := d.tagsByID[id]; ok {
			return t
		}
	}
	if t, ok := d.tagsByName[name]; ok {
		if id != entities.UnassignedID && t.ID == entities.UnassignedID {
			t.ID = id
			d.tagsByID[id] = t
		}
		return t
	}

	t := &entities.Tag{ID: id, Name: name}
	d.tagsByName[name] = t
	if id != entities.UnassignedID {
		d.tagsByID[id] = t
	}
	d.snap.Tags = append(d.snap.Tags, t)
	return t
}

func (d *decoder) decodeTag(m map[string]any) *entities.Tag {
	id := d.integer(m, "id")
	name := strings.TrimSpace(d.str(m, "name"))
	if name == "" {
		d.log.Warn(d.ctx, "skipping tag without name", zap.Int64("id", id))
		d.defaulted++
		return nil
	}
	return d.resolveTag(id, name)
}

func (d *decoder) decodeFolder(m map[string]any) {
	id := d.integer(m, "id")
	name := strings.TrimSpace(d.str(m, "name"))
	if name == "" {
		if id == entities.UnassignedID {
			d.log.Warn(d.ctx, "skipping folder without id and name")
			d.defaulted++
			return
		}
		name = fmt.Sprintf("Folder %d", id)
		d.defaulted++
	}
	if id != entities.UnassignedID {
		if _, dup := d.folderByID[id]; dup {
			d.log.Warn(d.ctx, "skipping folder with duplicate id", zap.Int64("id", id))
			return
		}
	}
	for _, f := range d.snap.Folders {
		if f.Name == name {
			d.log.Warn(d.ctx, "skipping folder with duplicate name", zap.String("name", name))
			return
		}
	}

	f := &entities.Folder{ID: id, Name: name, Favorite: d.boolean(m, "favorite")}
	f.SetSubFolderNames(d.stringList(m, "subFolderNames"))

	if id != entities.UnassignedID {
		d.folderByID[id] = f
	}
	if f.IsRoot() {
		d.root = f
	}
	d.snap.Folders = append(d.snap.Folders, f)
}

func (d *decoder) rootFolder() *entities.Folder {
	if d.root == nil {
		d.root = entities.NewRootFolder()
		d.snap.Folders = append(d.snap.Folders, d.root)
	}
	return d.root
}

func (d *decoder) decodeNote(m map[string]any) {
	n := &entities.Note{ID: d.integer(m, "id")}

	n.Title = strings.TrimSpace(d.str(m, "title"))
	if n.Title == "" {
		n.Title = placeholderTitle(n.ID)
		d.defaulted++
	}

	image := d.binary(m, "image")
	content := d.str(m, "content")
	kind, err := entities.ParseNoteKind(d.str(m, "kind"))
	if err != nil {
		kind = entities.KindText
		if len(image) > 0 && content == "" {
			kind = entities.KindDrawing
		}
		d.defaulted++
	}
	n.Kind = kind
	if kind == entities.KindDrawing {
		n.Image = image
	} else {
		n.Content = content
	}

	n.CreatedAt = d.timestamp(m, "createdAt", d.now)
	n.UpdatedAt = d.timestamp(m, "updatedAt", n.CreatedAt)

	n.Favorite = d.boolean(m, "favorite")
	n.Mission = d.boolean(m, "mission")
	n.MissionCompleted = n.Mission && d.boolean(m, "missionCompleted")
	n.MissionText = d.str(m, "missionText")

	for _, item := range d.list(m, "tags") {
		tm, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if t := d.decodeTag(tm); t != nil && !n.HasTag(t.Name) {
			n.Tags = append(n.Tags, t)
		}
	}

	if am, ok := m["alarm"].(map[string]any); ok && !d.boolean(m, "noAlarm") {
		if a := d.decodeAlarm(am, n.ID); a != nil {
			n.LinkAlarm(a)
		}
	}

	folderID := d.integer(m, "folderId")
	folder, ok := d.folderByID[folderID]
	if !ok {
		if folderID != entities.UnassignedID {
			d.log.Warn(d.ctx, "note folder not found, placing into root",
				zap.Int64("noteID", n.ID), zap.Int64("folderID", folderID))
		}
		folder = d.rootFolder()
	}
	folder.LinkNote(n)

	d.snap.Notes = append(d.snap.Notes, n)
}

func (d *decoder) decodeAlarm(m map[string]any, noteID int64) *entities.Alarm {
	at := d.timestamp(m, "time", time.Time{})
	if at.IsZero() {
		d.log.Warn(d.ctx, "dropping alarm without time", zap.Int64("noteID", noteID))
		d.defaulted++
		return nil
	}
	a := &entities.Alarm{
		ID:        d.integer(m, "id"),
		Time:      at,
		Recurring: d.boolean(m, "recurring"),
		Pattern:   strings.TrimSpace(d.str(m, "pattern")),
	}
	if a.Recurring && a.Pattern == "" {
		a.Recurring = false
		d.defaulted++
	}
	if !a.Recurring {
		a.Pattern = ""
	}
	return a
}

func placeholderTitle(id int64) string {
	if id == entities.UnassignedID {
		return "Untitled note"
	}
	return fmt.Sprintf("Untitled note %d", id)
}

func (d *decoder) list(m map[string]any, key string) []any {
	v, ok := m[key]
	if !ok || v == nil {
		return nil
	}
	l, ok := v.([]any)
	if !ok {
		d.log.Warn(d.ctx, "field is not a list", zap.String("field", key))
		d.defaulted++
		return nil
	}
	return l
}

func (d *decoder) str(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case bool, int, int64, float64, uint64:
		return fmt.Sprint(v)
	default:
		d.defaulted++
		return ""
	}
}

func (d *decoder) integer(m map[string]any, key string) int64 {
	switch v := m[key].(type) {
	case nil:
		return 0
	case int:
		return int64(v)
	case int64:
		return v
	case uint64:
		if v <= math.MaxInt64 {
			return int64(v)
		}
	case float64:
		// float64(math.MaxInt64) равно 2^63, поэтому граница строгая.
		if v == math.Trunc(v) && v >= 0 && v < math.MaxInt64 {
			return int64(v)
		}
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
		if f, err := v.Float64(); err == nil && f == math.Trunc(f) && f >= 0 && f < math.MaxInt64 {
			return int64(f)
		}
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			return n
		}
	}
	d.defaulted++
	return 0
}

func (d *decoder) boolean(m map[string]any, key string) bool {
	switch v := m[key].(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	d.defaulted++
	return false
}

func (d *decoder) timestamp(m map[string]any, key string, fallback time.Time) time.Time {
	switch v := m[key].(type) {
	case nil:
		return fallback
	case time.Time:
		return v.UTC()
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.999999999", "2006-01-02 15:04:05"} {
			if t, err := time.Parse(layout, strings.TrimSpace(v)); err == nil {
				return t.UTC()
			}
		}
	}
	d.defaulted++
	return fallback
}

func (d *decoder) stringList(m map[string]any, key string) []string {
	items := d.list(m, key)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

func (d *decoder) binary(m map[string]any, key string) []byte {
	switch v := m[key].(type) {
	case nil:
		return nil
	case []byte:
		return v
	case string:
		if v == "" {
			return nil
		}
		if b, err := base64.StdEncoding.DecodeString(v); err == nil {
			return b
		}
	}
	d.log.Warn(d.ctx, "dropping undecodable image", zap.String("field", key))
	d.defaulted++
	return nil
}
