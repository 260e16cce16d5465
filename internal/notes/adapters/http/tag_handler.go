package http

import (
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"notekeeper/internal/notes/adapters/http/middleware"
	"notekeeper/internal/notes/domain/entities"
	"notekeeper/pkg/logger"
)

// CreateTag создает тег или возвращает существующий с тем же именем.
func (h *Handler) CreateTag(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)

	var req TagRequest
	if err := ctx.Bind().Body(&req); err != nil {
		return badRequest(ctx, ErrMsgInvalidRequestBody)
	}
	tag, err := entities.NewTag(req.Name)
	if err != nil {
		return handleError(ctx, err)
	}

	created, err := h.service.CreateTag(requestCtx, tag)
	if err != nil {
		logger.Log(requestCtx).Error(requestCtx, "failed to create tag", zap.Error(err))
		return handleError(ctx, err)
	}
	return sendJSON(ctx, fiber.StatusCreated, newTagResponse(created))
}

// ListTags возвращает все теги.
func (h *Handler) ListTags(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)

	tags, err := h.service.ListTags(requestCtx)
	if err != nil {
		return handleError(ctx, err)
	}
	resp := make([]TagResponse, 0, len(tags))
	for _, t := range tags {
		resp = append(resp, newTagResponse(t))
	}
	return sendJSON(ctx, fiber.StatusOK, resp)
}

// RenameTag переименовывает тег.
func (h *Handler) RenameTag(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)

	id, ok := parseID(ctx, "id")
	if !ok {
		return badRequest(ctx, ErrMsgInvalidID)
	}
	var req TagRequest
	if err := ctx.Bind().Body(&req); err != nil {
		return badRequest(ctx, ErrMsgInvalidRequestBody)
	}

	tag, err := h.service.RenameTag(requestCtx, id, req.Name)
	if err != nil {
		return handleError(ctx, err)
	}
	return sendJSON(ctx, fiber.StatusOK, newTagResponse(tag))
}

// DeleteTag удаляет тег и все его связи с заметками.
func (h *Handler) DeleteTag(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)

	id, ok := parseID(ctx, "id")
	if !ok {
		return badRequest(ctx, ErrMsgInvalidID)
	}
	if err := h.service.DeleteTag(requestCtx, id); err != nil {
		logger.Log(requestCtx).Error(requestCtx, "failed to delete tag", zap.Int64("tagID", id), zap.Error(err))
		return handleError(ctx, err)
	}
	return sendNoContent(ctx)
}
