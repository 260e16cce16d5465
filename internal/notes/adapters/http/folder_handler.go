package http

import (
	"strconv"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"notekeeper/internal/notes/adapters/http/middleware"
	"notekeeper/pkg/logger"
)

// CreateFolder создает папку или возвращает существующую с тем же именем.
func (h *Handler) CreateFolder(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx).With(zap.String("handler", "Handler.CreateFolder"))

	var req FolderRequest
	if err := ctx.Bind().Body(&req); err != nil {
		return badRequest(ctx, ErrMsgInvalidRequestBody)
	}
	folder, err := req.toEntity()
	if err != nil {
		return handleError(ctx, err)
	}

	created, err := h.service.CreateFolder(requestCtx, folder)
	if err != nil {
		log.Error(requestCtx, "failed to create folder", zap.Error(err))
		return handleError(ctx, err)
	}
	return sendJSON(ctx, fiber.StatusCreated, newFolderResponse(created))
}

// GetFolder возвращает папку по id.
func (h *Handler) GetFolder(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)

	id, ok := parseID(ctx, "id")
	if !ok {
		return badRequest(ctx, ErrMsgInvalidID)
	}
	folder, err := h.service.GetFolder(requestCtx, id)
	if err != nil {
		return handleError(ctx, err)
	}
	return sendJSON(ctx, fiber.StatusOK, newFolderResponse(folder))
}

// ListFolders возвращает все папки.
func (h *Handler) ListFolders(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)

	folders, err := h.service.ListFolders(requestCtx)
	if err != nil {
		logger.Log(requestCtx).Error(requestCtx, "failed to list folders", zap.Error(err))
		return handleError(ctx, err)
	}
	resp := make([]FolderResponse, 0, len(folders))
	for _, f := range folders {
		resp = append(resp, newFolderResponse(f))
	}
	return sendJSON(ctx, fiber.StatusOK, resp)
}

// FolderNotes возвращает заметки папки.
func (h *Handler) FolderNotes(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)

	id, ok := parseID(ctx, "id")
	if !ok {
		return badRequest(ctx, ErrMsgInvalidID)
	}
	notes, err := h.service.NotesInFolder(requestCtx, id)
	if err != nil {
		return handleError(ctx, err)
	}
	return sendJSON(ctx, fiber.StatusOK, newNoteResponses(notes))
}

// UpdateFolder меняет имя, избранное и родителя папки.
func (h *Handler) UpdateFolder(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx).With(zap.String("handler", "Handler.UpdateFolder"))

	id, ok := parseID(ctx, "id")
	if !ok {
		return badRequest(ctx, ErrMsgInvalidID)
	}
	var req FolderRequest
	if err := ctx.Bind().Body(&req); err != nil {
		return badRequest(ctx, ErrMsgInvalidRequestBody)
	}
	folder, err := req.toEntity()
	if err != nil {
		return handleError(ctx, err)
	}

	updated, err := h.service.UpdateFolder(requestCtx, id, folder)
	if err != nil {
		log.Error(requestCtx, "failed to update folder", zap.Int64("folderID", id), zap.Error(err))
		return handleError(ctx, err)
	}
	return sendJSON(ctx, fiber.StatusOK, newFolderResponse(updated))
}

// DeleteFolder удаляет папку. delete_notes=true удаляет и ее заметки,
// иначе они переносятся в Root.
func (h *Handler) DeleteFolder(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx).With(zap.String("handler", "Handler.DeleteFolder"))

	id, ok := parseID(ctx, "id")
	if !ok {
		return badRequest(ctx, ErrMsgInvalidID)
	}
	deleteNotes := false
	if raw := ctx.Query("delete_notes"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return badRequest(ctx, ErrMsgInvalidQuery)
		}
		deleteNotes = v
	}

	if err := h.service.DeleteFolder(requestCtx, id, deleteNotes); err != nil {
		log.Error(requestCtx, "failed to delete folder", zap.Int64("folderID", id), zap.Error(err))
		return handleError(ctx, err)
	}
	return sendNoContent(ctx)
}

