package http_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	httpapi "notekeeper/internal/notes/adapters/http"
	"notekeeper/internal/notes/adapters/http/middleware"
	"notekeeper/internal/notes/domain/entities"
)

func newApp(t *testing.T) (*fiber.App, *mockService) {
	t.Helper()
	svc := new(mockService)
	app := fiber.New()
	httpapi.SetupRouter(app, svc)
	t.Cleanup(func() { svc.AssertExpectations(t) })
	return app, svc
}

func do(t *testing.T, app *fiber.App, method, target, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func storedNote(t *testing.T, id int64, title string) *entities.Note {
	t.Helper()
	n, err := entities.NewTextNote(title, "body")
	require.NoError(t, err)
	n.ID = id
	return n
}

func errorMessage(t *testing.T, raw []byte) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body["error"]
}

func TestCreateNote(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		app, svc := newApp(t)
		svc.On("CreateNote", mock.Anything, mock.MatchedBy(func(n *entities.Note) bool {
			return n.Title == "Shopping" && n.HasTag("home") && n.Kind == entities.KindText
		})).Return(storedNote(t, 7, "Shopping"), nil).Once()

		resp, raw := do(t, app, http.MethodPost, "/api/v1/notes", `{"title":"Shopping","content":"milk","tags":["home"]}`)

		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
		assert.NotEmpty(t, resp.Header.Get(middleware.HeaderRequestID))
		var got httpapi.NoteResponse
		require.NoError(t, json.Unmarshal(raw, &got))
		assert.Equal(t, int64(7), got.ID)
		assert.Equal(t, "TEXT", got.Kind)
	})

	t.Run("drawing inferred from image", func(t *testing.T) {
		app, svc := newApp(t)
		svc.On("CreateNote", mock.Anything, mock.MatchedBy(func(n *entities.Note) bool {
			return n.Kind == entities.KindDrawing && len(n.Image) == 3
		})).Return(storedNote(t, 8, "Sketch"), nil).Once()

		resp, _ := do(t, app, http.MethodPost, "/api/v1/notes", `{"title":"Sketch","image":"AQID"}`)
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	})

	t.Run("malformed body", func(t *testing.T) {
		app, _ := newApp(t)
		resp, raw := do(t, app, http.MethodPost, "/api/v1/notes", `{"title":`)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, httpapi.ErrMsgInvalidRequestBody, errorMessage(t, raw))
	})

	t.Run("empty title is rejected before the service", func(t *testing.T) {
		app, _ := newApp(t)
		resp, raw := do(t, app, http.MethodPost, "/api/v1/notes", `{"title":"  "}`)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, entities.ErrEmptyTitle.Error(), errorMessage(t, raw))
	})

	t.Run("drawing with text", func(t *testing.T) {
		app, _ := newApp(t)
		resp, _ := do(t, app, http.MethodPost, "/api/v1/notes", `{"title":"x","kind":"drawing","content":"text"}`)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("missing folder", func(t *testing.T) {
		app, svc := newApp(t)
		svc.On("CreateNote", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("create note: %w", entities.ErrFolderReference)).Once()

		resp, _ := do(t, app, http.MethodPost, "/api/v1/notes", `{"title":"x","folder_id":99}`)
		assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	})
}

func TestGetNote(t *testing.T) {
	app, svc := newApp(t)
	svc.On("GetNote", mock.Anything, int64(3)).Return(storedNote(t, 3, "A"), nil).Once()
	svc.On("GetNote", mock.Anything, int64(4)).Return(nil, entities.ErrNoteNotFound).Once()

	resp, _ := do(t, app, http.MethodGet, "/api/v1/notes/3", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = do(t, app, http.MethodGet, "/api/v1/notes/4", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, raw := do(t, app, http.MethodGet, "/api/v1/notes/abc", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, httpapi.ErrMsgInvalidID, errorMessage(t, raw))
}

func TestListAndSearchNotes(t *testing.T) {
	app, svc := newApp(t)
	svc.On("ListNotes", mock.Anything).Return([]*entities.Note{storedNote(t, 1, "A"), storedNote(t, 2, "B")}, nil).Once()
	svc.On("NotesInFolder", mock.Anything, int64(3)).Return([]*entities.Note{}, nil).Once()
	svc.On("SearchNotes", mock.Anything, "milk").Return([]*entities.Note{storedNote(t, 1, "A")}, nil).Once()
	svc.On("NotesByTag", mock.Anything, "home").Return([]*entities.Note{}, nil).Once()

	resp, raw := do(t, app, http.MethodGet, "/api/v1/notes", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var all []httpapi.NoteResponse
	require.NoError(t, json.Unmarshal(raw, &all))
	assert.Len(t, all, 2)

	resp, raw = do(t, app, http.MethodGet, "/api/v1/notes?folder_id=3", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(raw))

	resp, _ = do(t, app, http.MethodGet, "/api/v1/notes?folder_id=x", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, http.MethodGet, "/api/v1/notes/search?q=milk", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = do(t, app, http.MethodGet, "/api/v1/tags/home/notes", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestUpdateNote_KeepsCreationTimeAndFolder(t *testing.T) {
	app, svc := newApp(t)
	current := storedNote(t, 5, "Old")
	current.CreatedAt = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	current.FolderID = 3

	svc.On("GetNote", mock.Anything, int64(5)).Return(current, nil).Once()
	svc.On("UpdateNote", mock.Anything, int64(5), mock.MatchedBy(func(n *entities.Note) bool {
		return n.Title == "New" && n.FolderID == 3 && n.CreatedAt.Equal(current.CreatedAt)
	})).Return(storedNote(t, 5, "New"), nil).Once()

	resp, _ := do(t, app, http.MethodPut, "/api/v1/notes/5", `{"title":"New","content":"x"}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestMoveAndDeleteNote(t *testing.T) {
	app, svc := newApp(t)
	svc.On("MoveNote", mock.Anything, int64(5), int64(0)).Return(storedNote(t, 5, "A"), nil).Once()
	svc.On("DeleteNote", mock.Anything, int64(5)).Return(nil).Once()
	svc.On("DeleteNote", mock.Anything, int64(6)).Return(errors.New("boom")).Once()

	resp, _ := do(t, app, http.MethodPut, "/api/v1/notes/5/folder", `{"folder_id":0}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = do(t, app, http.MethodDelete, "/api/v1/notes/5", "")
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, raw := do(t, app, http.MethodDelete, "/api/v1/notes/6", "")
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, httpapi.ErrMsgInternal, errorMessage(t, raw))
}

func TestFolders(t *testing.T) {
	app, svc := newApp(t)
	work := &entities.Folder{ID: 4, Name: "Work"}
	svc.On("CreateFolder", mock.Anything, mock.MatchedBy(func(f *entities.Folder) bool {
		return f.Name == "Work" && f.ParentID == 1
	})).Return(work, nil).Once()
	svc.On("ListFolders", mock.Anything).Return([]*entities.Folder{entities.NewRootFolder(), work}, nil).Once()
	svc.On("UpdateFolder", mock.Anything, int64(4), mock.Anything).
		Return(nil, fmt.Errorf("update folder: %w", entities.ErrNameTaken)).Once()
	svc.On("DeleteFolder", mock.Anything, int64(1), false).Return(entities.ErrRootFolderDelete).Once()
	svc.On("DeleteFolder", mock.Anything, int64(4), true).Return(nil).Once()
	svc.On("NotesInFolder", mock.Anything, int64(4)).Return(nil, entities.ErrFolderNotFound).Once()

	resp, _ := do(t, app, http.MethodPost, "/api/v1/folders", `{"name":"Work","parent_id":1}`)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, raw := do(t, app, http.MethodGet, "/api/v1/folders", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var folders []httpapi.FolderResponse
	require.NoError(t, json.Unmarshal(raw, &folders))
	assert.Len(t, folders, 2)

	resp, _ = do(t, app, http.MethodPut, "/api/v1/folders/4", `{"name":"Home"}`)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, _ = do(t, app, http.MethodDelete, "/api/v1/folders/1", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, http.MethodDelete, "/api/v1/folders/4?delete_notes=true", "")
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, _ = do(t, app, http.MethodDelete, "/api/v1/folders/4?delete_notes=maybe", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, http.MethodGet, "/api/v1/folders/4/notes", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestTagsAndAlarms(t *testing.T) {
	app, svc := newApp(t)
	svc.On("CreateTag", mock.Anything, mock.MatchedBy(func(tag *entities.Tag) bool {
		return tag.Name == "home"
	})).Return(&entities.Tag{ID: 2, Name: "home"}, nil).Once()
	svc.On("RenameTag", mock.Anything, int64(2), "house").Return(&entities.Tag{ID: 2, Name: "house"}, nil).Once()
	svc.On("DeleteTag", mock.Anything, int64(2)).Return(nil).Once()

	at := time.Date(2030, 5, 1, 9, 0, 0, 0, time.UTC)
	svc.On("SaveAlarm", mock.Anything, mock.MatchedBy(func(a *entities.Alarm) bool {
		return a.ID == 0 && a.Time.Equal(at)
	})).Return(&entities.Alarm{ID: 9, Time: at}, nil).Once()
	svc.On("SaveAlarm", mock.Anything, mock.MatchedBy(func(a *entities.Alarm) bool {
		return a.ID == 9 && a.Recurring && a.Pattern == "daily"
	})).Return(&entities.Alarm{ID: 9, Time: at, Recurring: true, Pattern: "daily"}, nil).Once()
	svc.On("GetAlarm", mock.Anything, int64(10)).Return(nil, entities.ErrAlarmNotFound).Once()

	resp, _ := do(t, app, http.MethodPost, "/api/v1/tags", `{"name":"home"}`)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, _ = do(t, app, http.MethodPost, "/api/v1/tags", `{"name":""}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, http.MethodPut, "/api/v1/tags/2", `{"name":"house"}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = do(t, app, http.MethodDelete, "/api/v1/tags/2", "")
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, raw := do(t, app, http.MethodPost, "/api/v1/alarms", `{"time":"2030-05-01T09:00:00Z"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var alarm httpapi.AlarmResponse
	require.NoError(t, json.Unmarshal(raw, &alarm))
	assert.Equal(t, int64(9), alarm.ID)

	resp, _ = do(t, app, http.MethodPut, "/api/v1/alarms/9", `{"time":"2030-05-01T09:00:00Z","recurring":true,"pattern":"daily"}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = do(t, app, http.MethodPost, "/api/v1/alarms", `{"time":"2030-05-01T09:00:00Z","recurring":true}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, http.MethodGet, "/api/v1/alarms/10", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestMiddleware(t *testing.T) {
	t.Run("request id is echoed", func(t *testing.T) {
		app, svc := newApp(t)
		svc.On("ListTags", mock.Anything).Return([]*entities.Tag{}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/tags", nil)
		req.Header.Set(middleware.HeaderRequestID, "req-42")
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, "req-42", resp.Header.Get(middleware.HeaderRequestID))
	})

	t.Run("unavailable storage hides the cause", func(t *testing.T) {
		app, svc := newApp(t)
		svc.On("ListAlarms", mock.Anything).
			Return(nil, fmt.Errorf("%w: dial tcp 10.0.0.1:5432", entities.ErrConnectivity)).Once()

		resp, raw := do(t, app, http.MethodGet, "/api/v1/alarms", "")
		assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, httpapi.ErrMsgUnavailable, errorMessage(t, raw))
	})

	t.Run("panic is recovered", func(t *testing.T) {
		app, svc := newApp(t)
		svc.On("ListFolders", mock.Anything).Run(func(mock.Arguments) { panic("boom") }).Once()

		resp, _ := do(t, app, http.MethodGet, "/api/v1/folders", "")
		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	})

	t.Run("unknown route", func(t *testing.T) {
		app, _ := newApp(t)
		resp, _ := do(t, app, http.MethodGet, "/api/v2/nothing", "")
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}
