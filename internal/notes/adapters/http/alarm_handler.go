package http

import (
	"github.com/gofiber/fiber/v3"

	"notekeeper/internal/notes/adapters/http/middleware"
	"notekeeper/internal/notes/domain/entities"
)

// SaveAlarm создает будильник или, для PUT /:id, обновляет существующий.
func (h *Handler) SaveAlarm(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)

	var id int64
	status := fiber.StatusCreated
	if ctx.Params("id") != "" {
		parsed, ok := parseID(ctx, "id")
		if !ok {
			return badRequest(ctx, ErrMsgInvalidID)
		}
		id, status = parsed, fiber.StatusOK
	}

	var req AlarmRequest
	if err := ctx.Bind().Body(&req); err != nil {
		return badRequest(ctx, ErrMsgInvalidRequestBody)
	}
	alarm, err := entities.NewAlarm(req.Time, req.Recurring, req.Pattern)
	if err != nil {
		return handleError(ctx, err)
	}
	alarm.ID = id

	saved, err := h.service.SaveAlarm(requestCtx, alarm)
	if err != nil {
		return handleError(ctx, err)
	}
	return sendJSON(ctx, status, newAlarmResponse(saved))
}

// GetAlarm возвращает будильник по id.
func (h *Handler) GetAlarm(ctx fiber.Ctx) error {
	id, ok := parseID(ctx, "id")
	if !ok {
		return badRequest(ctx, ErrMsgInvalidID)
	}
	alarm, err := h.service.GetAlarm(middleware.RequestContext(ctx), id)
	if err != nil {
		return handleError(ctx, err)
	}
	return sendJSON(ctx, fiber.StatusOK, newAlarmResponse(alarm))
}

// ListAlarms возвращает все будильники.
func (h *Handler) ListAlarms(ctx fiber.Ctx) error {
	alarms, err := h.service.ListAlarms(middleware.RequestContext(ctx))
	if err != nil {
		return handleError(ctx, err)
	}
	resp := make([]*AlarmResponse, 0, len(alarms))
	for _, a := range alarms {
		resp = append(resp, newAlarmResponse(a))
	}
	return sendJSON(ctx, fiber.StatusOK, resp)
}

// DeleteAlarm удаляет будильник. Заметки теряют ссылку на него.
func (h *Handler) DeleteAlarm(ctx fiber.Ctx) error {
	id, ok := parseID(ctx, "id")
	if !ok {
		return badRequest(ctx, ErrMsgInvalidID)
	}
	if err := h.service.DeleteAlarm(middleware.RequestContext(ctx), id); err != nil {
		return handleError(ctx, err)
	}
	return sendNoContent(ctx)
}
