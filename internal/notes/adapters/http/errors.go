package http

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"notekeeper/internal/notes/domain/entities"
)

// Константы сообщений об ошибках для ответов.
const (
	ErrMsgInvalidID          = "invalid id"
	ErrMsgInvalidRequestBody = "invalid request body"
	ErrMsgInvalidQuery       = "invalid query parameter"
	ErrMsgInternal           = "Internal server error"
	ErrMsgUnavailable        = "Storage is unavailable"
)

// statusFor сопоставляет категорию ошибки с HTTP-статусом.
func statusFor(err error) int {
	switch {
	case errors.Is(err, entities.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, entities.ErrNameTaken):
		return fiber.StatusConflict
	case errors.Is(err, entities.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, entities.ErrReferential):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, entities.ErrConnectivity):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// handleError обрабатывает ошибки и возвращает соответствующий HTTP-статус.
// Текст внутренних ошибок клиенту не отдается.
func handleError(ctx fiber.Ctx, err error) error {
	status := statusFor(err)

	message := err.Error()
	switch status {
	case fiber.StatusInternalServerError:
		message = ErrMsgInternal
	case fiber.StatusServiceUnavailable:
		message = ErrMsgUnavailable
	}

	if err := ctx.Status(status).JSON(fiber.Map{"error": message}); err != nil {
		return fmt.Errorf("error sending %d response: %w", status, err)
	}
	return nil
}

func badRequest(ctx fiber.Ctx, message string) error {
	if err := ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message}); err != nil {
		return fmt.Errorf("failed to send bad request response: %w", err)
	}
	return nil
}

func parseID(ctx fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func sendJSON(ctx fiber.Ctx, status int, body any) error {
	if err := ctx.Status(status).JSON(body); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

func sendNoContent(ctx fiber.Ctx) error {
	if err := ctx.SendStatus(fiber.StatusNoContent); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}
