package snapshot

import (
	"encoding/base64"
	"time"

	"notekeeper/internal/notes/domain/entities"
	"notekeeper/internal/notes/ports/snapshot"
)

// timeLayout - формат меток времени в файле, всегда в UTC.
const timeLayout = time.RFC3339Nano

type document struct {
	Notes   []noteDoc   `json:"notes" yaml:"notes"`
	Folders []folderDoc `json:"folders" yaml:"folders"`
	Tags    []tagDoc    `json:"tags" yaml:"tags"`
}

type noteDoc struct {
	ID               int64     `json:"id" yaml:"id"`
	Title            string    `json:"title" yaml:"title"`
	Content          *string   `json:"content,omitempty" yaml:"content,omitempty"`
	Image            string    `json:"image,omitempty" yaml:"image,omitempty"`
	Kind             string    `json:"kind" yaml:"kind"`
	CreatedAt        string    `json:"createdAt" yaml:"createdAt"`
	UpdatedAt        string    `json:"updatedAt" yaml:"updatedAt"`
	Favorite         bool      `json:"favorite" yaml:"favorite"`
	Mission          bool      `json:"mission" yaml:"mission"`
	MissionCompleted bool      `json:"missionCompleted" yaml:"missionCompleted"`
	MissionText      string    `json:"missionText,omitempty" yaml:"missionText,omitempty"`
	FolderID         int64     `json:"folderId" yaml:"folderId"`
	Tags             []tagDoc  `json:"tags" yaml:"tags"`
	Alarm            *alarmDoc `json:"alarm,omitempty" yaml:"alarm,omitempty"`
	NoAlarm          bool      `json:"noAlarm,omitempty" yaml:"noAlarm,omitempty"`
}

type alarmDoc struct {
	ID        int64  `json:"id" yaml:"id"`
	Time      string `json:"time" yaml:"time"`
	Recurring bool   `json:"recurring" yaml:"recurring"`
	Pattern   string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
}

type folderDoc struct {
	ID             int64    `json:"id" yaml:"id"`
	Name           string   `json:"name" yaml:"name"`
	Favorite       bool     `json:"favorite" yaml:"favorite"`
	SubFolderNames []string `json:"subFolderNames" yaml:"subFolderNames"`
}

type tagDoc struct {
	ID   int64  `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// encode строит документ. Теги заметок, которых нет в общем списке,
// добавляются в него, чтобы список тегов был полным и без повторов.
func encode(snap *snapshot.Snapshot) document {
	doc := document{
		Notes:   []noteDoc{},
		Folders: []folderDoc{},
		Tags:    []tagDoc{},
	}
	if snap == nil {
		return doc
	}

	var tags []*entities.Tag
	addTag := func(t *entities.Tag) {
		for _, existing := range tags {
			if existing.Equal(t) {
				return
			}
		}
		tags = append(tags, t)
	}
	for _, t := range snap.Tags {
		addTag(t)
	}

	for _, n := range snap.Notes {
		nd := noteDoc{
			ID:               n.ID,
			Title:            n.Title,
			Kind:             string(n.Kind),
			CreatedAt:        formatTime(n.CreatedAt),
			UpdatedAt:        formatTime(n.UpdatedAt),
			Favorite:         n.Favorite,
			Mission:          n.Mission,
			MissionCompleted: n.MissionCompleted,
			MissionText:      n.MissionText,
			FolderID:         n.FolderID,
			Tags:             []tagDoc{},
		}
		if n.Kind == entities.KindDrawing {
			if len(n.Image) > 0 {
				nd.Image = base64.StdEncoding.EncodeToString(n.Image)
			}
		} else {
			content := n.Content
			nd.Content = &content
		}
		if f := n.Folder(); f != nil {
			nd.FolderID = f.ID
		}
		for _, t := range n.Tags {
			nd.Tags = append(nd.Tags, tagDoc{ID: t.ID, Name: t.Name})
			addTag(t)
		}
		if a := n.Alarm(); a != nil {
			nd.Alarm = &alarmDoc{ID: a.ID, Time: formatTime(a.Time), Recurring: a.Recurring, Pattern: a.Pattern}
		} else {
			nd.NoAlarm = true
		}
		doc.Notes = append(doc.Notes, nd)
	}

	for _, f := range snap.Folders {
		names := f.SubFolderNames()
		if names == nil {
			names = []string{}
		}
		doc.Folders = append(doc.Folders, folderDoc{
			ID:             f.ID,
			Name:           f.Name,
			Favorite:       f.Favorite,
			SubFolderNames: names,
		})
	}

	for _, t := range tags {
		doc.Tags = append(doc.Tags, tagDoc{ID: t.ID, Name: t.Name})
	}
	return doc
}
