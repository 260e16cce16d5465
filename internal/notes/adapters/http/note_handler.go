package http

import (
	"strconv"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"notekeeper/internal/notes/adapters/http/middleware"
	"notekeeper/internal/notes/domain/entities"
	"notekeeper/pkg/logger"
)

// Константы сообщений для логирования.
const (
	LogHandlerCreateNote = "handling create note request"
	LogHandlerGetNote    = "handling get note request"
	LogHandlerListNotes  = "handling list notes request"
	LogHandlerSearch     = "handling search notes request"
	LogHandlerUpdateNote = "handling update note request"
	LogHandlerMoveNote   = "handling move note request"
	LogHandlerDeleteNote = "handling delete note request"
)

// CreateNote обрабатывает запрос на создание заметки.
func (h *Handler) CreateNote(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx).With(zap.String("handler", "Handler.CreateNote"))
	log.Debug(requestCtx, LogHandlerCreateNote)

	var req NoteRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Debug(requestCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return badRequest(ctx, ErrMsgInvalidRequestBody)
	}
	note, err := req.toEntity()
	if err != nil {
		return handleError(ctx, err)
	}

	created, err := h.service.CreateNote(requestCtx, note)
	if err != nil {
		log.Error(requestCtx, "failed to create note", zap.Error(err))
		return handleError(ctx, err)
	}
	return sendJSON(ctx, fiber.StatusCreated, newNoteResponse(created))
}

// GetNote обрабатывает запрос на получение заметки по id.
func (h *Handler) GetNote(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx).With(zap.String("handler", "Handler.GetNote"))
	log.Debug(requestCtx, LogHandlerGetNote)

	id, ok := parseID(ctx, "id")
	if !ok {
		return badRequest(ctx, ErrMsgInvalidID)
	}

	note, err := h.service.GetNote(requestCtx, id)
	if err != nil {
		log.Debug(requestCtx, "failed to get note", zap.Int64("noteID", id), zap.Error(err))
		return handleError(ctx, err)
	}
	return sendJSON(ctx, fiber.StatusOK, newNoteResponse(note))
}

// ListNotes обрабатывает запрос на список заметок. Параметр folder_id
// ограничивает список одной папкой.
func (h *Handler) ListNotes(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx).With(zap.String("handler", "Handler.ListNotes"))
	log.Debug(requestCtx, LogHandlerListNotes)

	var (
		notes []*entities.Note
		err   error
	)
	if raw := ctx.Query("folder_id"); raw != "" {
		folderID, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr != nil || folderID <= 0 {
			return badRequest(ctx, ErrMsgInvalidQuery)
		}
		notes, err = h.service.NotesInFolder(requestCtx, folderID)
	} else {
		notes, err = h.service.ListNotes(requestCtx)
	}
	if err != nil {
		log.Error(requestCtx, "failed to list notes", zap.Error(err))
		return handleError(ctx, err)
	}
	return sendJSON(ctx, fiber.StatusOK, newNoteResponses(notes))
}

// SearchNotes обрабатывает поиск по подстроке q.
func (h *Handler) SearchNotes(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx).With(zap.String("handler", "Handler.SearchNotes"))
	log.Debug(requestCtx, LogHandlerSearch)

	notes, err := h.service.SearchNotes(requestCtx, ctx.Query("q"))
	if err != nil {
		log.Error(requestCtx, "failed to search notes", zap.Error(err))
		return handleError(ctx, err)
	}
	return sendJSON(ctx, fiber.StatusOK, newNoteResponses(notes))
}

// NotesByTag обрабатывает поиск заметок по точному имени тега.
func (h *Handler) NotesByTag(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx).With(zap.String("handler", "Handler.NotesByTag"))
	log.Debug(requestCtx, LogHandlerSearch)

	notes, err := h.service.NotesByTag(requestCtx, ctx.Params("name"))
	if err != nil {
		log.Error(requestCtx, "failed to search notes by tag", zap.Error(err))
		return handleError(ctx, err)
	}
	return sendJSON(ctx, fiber.StatusOK, newNoteResponses(notes))
}

// UpdateNote обрабатывает полную замену заметки. Время создания и папка,
// если она не указана, берутся из сохраненной заметки.
func (h *Handler) UpdateNote(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx).With(zap.String("handler", "Handler.UpdateNote"))
	log.Debug(requestCtx, LogHandlerUpdateNote)

	id, ok := parseID(ctx, "id")
	if !ok {
		return badRequest(ctx, ErrMsgInvalidID)
	}
	var req NoteRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Debug(requestCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return badRequest(ctx, ErrMsgInvalidRequestBody)
	}
	note, err := req.toEntity()
	if err != nil {
		return handleError(ctx, err)
	}

	current, err := h.service.GetNote(requestCtx, id)
	if err != nil {
		return handleError(ctx, err)
	}
	note.CreatedAt = current.CreatedAt
	if note.FolderID == entities.UnassignedID {
		note.FolderID = current.FolderID
	}

	updated, err := h.service.UpdateNote(requestCtx, id, note)
	if err != nil {
		log.Error(requestCtx, "failed to update note", zap.Int64("noteID", id), zap.Error(err))
		return handleError(ctx, err)
	}
	return sendJSON(ctx, fiber.StatusOK, newNoteResponse(updated))
}

// MoveNote обрабатывает перенос заметки в другую папку.
func (h *Handler) MoveNote(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx).With(zap.String("handler", "Handler.MoveNote"))
	log.Debug(requestCtx, LogHandlerMoveNote)

	id, ok := parseID(ctx, "id")
	if !ok {
		return badRequest(ctx, ErrMsgInvalidID)
	}
	var req MoveNoteRequest
	if err := ctx.Bind().Body(&req); err != nil {
		return badRequest(ctx, ErrMsgInvalidRequestBody)
	}

	moved, err := h.service.MoveNote(requestCtx, id, req.FolderID)
	if err != nil {
		log.Error(requestCtx, "failed to move note", zap.Int64("noteID", id), zap.Error(err))
		return handleError(ctx, err)
	}
	return sendJSON(ctx, fiber.StatusOK, newNoteResponse(moved))
}

// DeleteNote обрабатывает удаление заметки.
func (h *Handler) DeleteNote(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx).With(zap.String("handler", "Handler.DeleteNote"))
	log.Debug(requestCtx, LogHandlerDeleteNote)

	id, ok := parseID(ctx, "id")
	if !ok {
		return badRequest(ctx, ErrMsgInvalidID)
	}
	if err := h.service.DeleteNote(requestCtx, id); err != nil {
		log.Error(requestCtx, "failed to delete note", zap.Int64("noteID", id), zap.Error(err))
		return handleError(ctx, err)
	}
	return sendNoContent(ctx)
}
