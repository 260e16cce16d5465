// Package cache содержит кэш заметок на Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"notekeeper/internal/notes/domain/entities"
	"notekeeper/internal/notes/ports/cache"
	"notekeeper/pkg/logger"
)

// Константы для сообщений об ошибках.
const (
	ErrorFailedToGet    = "failed to get note from redis"
	ErrorFailedToSet    = "failed to put note into redis"
	ErrorFailedToDelete = "failed to delete notes from redis"
	ErrorFailedToDecode = "failed to decode cached note"
	ErrorFailedToEncode = "failed to encode note for cache"
)

// KeyPrefix - префикс ключей заметок.
const KeyPrefix = "notes:note:"

// NoteCache реализует cache.NoteCache поверх Redis.
type NoteCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewNoteCache создает кэш заметок. ttl = 0 хранит записи без срока жизни.
func NewNoteCache(client redis.Cmdable, ttl time.Duration) *NoteCache {
	return &NoteCache{client: client, ttl: ttl}
}

// Key возвращает ключ заметки.
func Key(id int64) string {
	return KeyPrefix + strconv.FormatInt(id, 10)
}

// Get возвращает заметку из кэша или nil при промахе.
func (c *NoteCache) Get(ctx context.Context, id int64) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteCache.Get"), zap.Int64("noteID", id))

	data, err := c.client.Get(ctx, Key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		log.Error(ctx, ErrorFailedToGet, zap.Error(err))
		return nil, fmt.Errorf("%s: %w: %w", ErrorFailedToGet, entities.ErrConnectivity, err)
	}

	var cached cachedNote
	if err := json.Unmarshal(data, &cached); err != nil {
		log.Warn(ctx, ErrorFailedToDecode, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrorFailedToDecode, err)
	}
	return cached.toEntity(), nil
}

// Set кладет заметку в кэш.
func (c *NoteCache) Set(ctx context.Context, note *entities.Note) error {
	log := logger.Log(ctx).With(zap.String("method", "NoteCache.Set"), zap.Int64("noteID", note.ID))

	data, err := json.Marshal(fromEntity(note))
	if err != nil {
		return fmt.Errorf("%s: %w", ErrorFailedToEncode, err)
	}
	if err := c.client.Set(ctx, Key(note.ID), data, c.ttl).Err(); err != nil {
		log.Error(ctx, ErrorFailedToSet, zap.Error(err))
		return fmt.Errorf("%s: %w: %w", ErrorFailedToSet, entities.ErrConnectivity, err)
	}
	return nil
}

// Delete удаляет заметки из кэша.
func (c *NoteCache) Delete(ctx context.Context, ids ...int64) error {
	if len(ids) == 0 {
		return nil
	}
	log := logger.Log(ctx).With(zap.String("method", "NoteCache.Delete"), zap.Int64s("noteIDs", ids))

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, Key(id))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.Error(ctx, ErrorFailedToDelete, zap.Error(err))
		return fmt.Errorf("%s: %w: %w", ErrorFailedToDelete, entities.ErrConnectivity, err)
	}
	return nil
}

type cachedFolder struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Favorite bool   `json:"favorite,omitempty"`
	ParentID int64  `json:"parentId,omitempty"`
}

type cachedTag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type cachedAlarm struct {
	ID        int64     `json:"id"`
	Time      time.Time `json:"time"`
	Recurring bool      `json:"recurring,omitempty"`
	Pattern   string    `json:"pattern,omitempty"`
}

type cachedNote struct {
	ID               int64         `json:"id"`
	Title            string        `json:"title"`
	Content          string        `json:"content,omitempty"`
	Image            []byte        `json:"image,omitempty"`
	Kind             string        `json:"kind"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
	Favorite         bool          `json:"favorite,omitempty"`
	Mission          bool          `json:"mission,omitempty"`
	MissionCompleted bool          `json:"missionCompleted,omitempty"`
	MissionText      string        `json:"missionText,omitempty"`
	FolderID         int64         `json:"folderId"`
	Folder           *cachedFolder `json:"folder,omitempty"`
	Tags             []cachedTag   `json:"tags,omitempty"`
	Alarm            *cachedAlarm  `json:"alarm,omitempty"`
}

func fromEntity(n *entities.Note) cachedNote {
	c := cachedNote{
		ID:               n.ID,
		Title:            n.Title,
		Content:          n.Content,
		Image:            n.Image,
		Kind:             string(n.Kind),
		CreatedAt:        n.CreatedAt,
		UpdatedAt:        n.UpdatedAt,
		Favorite:         n.Favorite,
		Mission:          n.Mission,
		MissionCompleted: n.MissionCompleted,
		MissionText:      n.MissionText,
		FolderID:         n.FolderID,
	}
	if f := n.Folder(); f != nil {
		c.Folder = &cachedFolder{ID: f.ID, Name: f.Name, Favorite: f.Favorite, ParentID: f.ParentID}
	}
	for _, t := range n.Tags {
		c.Tags = append(c.Tags, cachedTag{ID: t.ID, Name: t.Name})
	}
	if a := n.Alarm(); a != nil {
		c.Alarm = &cachedAlarm{ID: a.ID, Time: a.Time, Recurring: a.Recurring, Pattern: a.Pattern}
	}
	return c
}

func (c cachedNote) toEntity() *entities.Note {
	n := &entities.Note{
		ID:               c.ID,
		Title:            c.Title,
		Content:          c.Content,
		Image:            c.Image,
		Kind:             entities.NoteKind(c.Kind),
		CreatedAt:        c.CreatedAt.UTC(),
		UpdatedAt:        c.UpdatedAt.UTC(),
		Favorite:         c.Favorite,
		Mission:          c.Mission,
		MissionCompleted: c.MissionCompleted,
		MissionText:      c.MissionText,
		FolderID:         c.FolderID,
	}
	if c.Folder != nil {
		folder := &entities.Folder{ID: c.Folder.ID, Name: c.Folder.Name, Favorite: c.Folder.Favorite, ParentID: c.Folder.ParentID}
		folder.LinkNote(n)
	}
	for _, t := range c.Tags {
		n.Tags = append(n.Tags, &entities.Tag{ID: t.ID, Name: t.Name})
	}
	if c.Alarm != nil {
		n.LinkAlarm(&entities.Alarm{ID: c.Alarm.ID, Time: c.Alarm.Time.UTC(), Recurring: c.Alarm.Recurring, Pattern: c.Alarm.Pattern})
	}
	return n
}

var _ cache.NoteCache = (*NoteCache)(nil)
