package http

import (
	"time"

	"notekeeper/internal/notes/domain/entities"
)

// AlarmRequest содержит данные будильника.
type AlarmRequest struct {
	Time      time.Time `json:"time"`
	Recurring bool      `json:"recurring"`
	Pattern   string    `json:"pattern"`
}

// NoteRequest содержит данные для создания или полной замены заметки.
type NoteRequest struct {
	Title            string        `json:"title"`
	Content          string        `json:"content"`
	Image            []byte        `json:"image"`
	Kind             string        `json:"kind"`
	Favorite         bool          `json:"favorite"`
	Mission          bool          `json:"mission"`
	MissionCompleted bool          `json:"mission_completed"`
	MissionText      string        `json:"mission_text"`
	FolderID         int64         `json:"folder_id"`
	Tags             []string      `json:"tags"`
	Alarm            *AlarmRequest `json:"alarm"`
	AlarmID          int64         `json:"alarm_id"`
}

// MoveNoteRequest содержит целевую папку. Нулевой id означает Root.
type MoveNoteRequest struct {
	FolderID int64 `json:"folder_id"`
}

// FolderRequest содержит данные папки.
type FolderRequest struct {
	Name     string `json:"name"`
	Favorite bool   `json:"favorite"`
	ParentID int64  `json:"parent_id"`
}

// TagRequest содержит имя тега.
type TagRequest struct {
	Name string `json:"name"`
}

// TagResponse представляет тег.
type TagResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// AlarmResponse представляет будильник.
type AlarmResponse struct {
	ID        int64     `json:"id"`
	Time      time.Time `json:"time"`
	Recurring bool      `json:"recurring"`
	Pattern   string    `json:"pattern,omitempty"`
}

// NoteResponse представляет заметку с разрешенными ссылками.
type NoteResponse struct {
	ID               int64          `json:"id"`
	Title            string         `json:"title"`
	Content          string         `json:"content,omitempty"`
	Image            []byte         `json:"image,omitempty"`
	Kind             string         `json:"kind"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	Favorite         bool           `json:"favorite"`
	Mission          bool           `json:"mission"`
	MissionCompleted bool           `json:"mission_completed"`
	MissionText      string         `json:"mission_text,omitempty"`
	FolderID         int64          `json:"folder_id"`
	Folder           string         `json:"folder,omitempty"`
	Tags             []TagResponse  `json:"tags"`
	Alarm            *AlarmResponse `json:"alarm,omitempty"`
}

// FolderResponse представляет папку.
type FolderResponse struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	Favorite   bool     `json:"favorite"`
	ParentID   int64    `json:"parent_id,omitempty"`
	SubFolders []string `json:"sub_folders"`
}

// toEntity собирает заметку через конструкторы, поэтому все правила валидации
// применяются до обращения к сервису.
func (r *NoteRequest) toEntity() (*entities.Note, error) {
	kind := entities.KindText
	switch {
	case r.Kind != "":
		k, err := entities.ParseNoteKind(r.Kind)
		if err != nil {
			return nil, err
		}
		kind = k
	case len(r.Image) > 0 && r.Content == "":
		kind = entities.KindDrawing
	}

	var (
		note *entities.Note
		err  error
	)
	if kind == entities.KindDrawing {
		note, err = entities.NewDrawingNote(r.Title, r.Image)
		if err == nil && r.Content != "" {
			err = entities.ErrDrawingHasContent
		}
	} else {
		note, err = entities.NewTextNote(r.Title, r.Content)
		if err == nil && len(r.Image) > 0 {
			err = entities.ErrTextHasImage
		}
	}
	if err != nil {
		return nil, err
	}

	note.Favorite = r.Favorite
	note.SetMission(r.Mission, r.MissionText)
	if r.MissionCompleted {
		if err := note.SetMissionCompleted(true); err != nil {
			return nil, err
		}
	}
	note.FolderID = r.FolderID

	for _, name := range r.Tags {
		tag, err := entities.NewTag(name)
		if err != nil {
			return nil, err
		}
		if _, err := note.AddTag(tag); err != nil {
			return nil, err
		}
	}

	if r.Alarm != nil {
		alarm, err := entities.NewAlarm(r.Alarm.Time, r.Alarm.Recurring, r.Alarm.Pattern)
		if err != nil {
			return nil, err
		}
		alarm.ID = r.AlarmID
		if err := note.SetAlarm(alarm); err != nil {
			return nil, err
		}
	} else {
		note.AlarmID = r.AlarmID
	}
	return note, nil
}

func (r *FolderRequest) toEntity() (*entities.Folder, error) {
	folder, err := entities.NewFolder(r.Name)
	if err != nil {
		return nil, err
	}
	folder.Favorite = r.Favorite
	folder.ParentID = r.ParentID
	return folder, nil
}

func newTagResponse(t *entities.Tag) TagResponse {
	return TagResponse{ID: t.ID, Name: t.Name}
}

func newAlarmResponse(a *entities.Alarm) *AlarmResponse {
	if a == nil {
		return nil
	}
	return &AlarmResponse{ID: a.ID, Time: a.Time, Recurring: a.Recurring, Pattern: a.Pattern}
}

func newNoteResponse(n *entities.Note) NoteResponse {
	resp := NoteResponse{
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
		Tags:             make([]TagResponse, 0, len(n.Tags)),
		Alarm:            newAlarmResponse(n.Alarm()),
	}
	if f := n.Folder(); f != nil {
		resp.Folder = f.Name
	}
	for _, t := range n.Tags {
		resp.Tags = append(resp.Tags, newTagResponse(t))
	}
	return resp
}

func newNoteResponses(notes []*entities.Note) []NoteResponse {
	out := make([]NoteResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, newNoteResponse(n))
	}
	return out
}

func newFolderResponse(f *entities.Folder) FolderResponse {
	return FolderResponse{
		ID:         f.ID,
		Name:       f.Name,
		Favorite:   f.Favorite,
		ParentID:   f.ParentID,
		SubFolders: f.SubFolderNames(),
	}
}
