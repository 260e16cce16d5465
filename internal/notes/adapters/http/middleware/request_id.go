// Package middleware содержит промежуточное ПО для HTTP обработчиков.
package middleware

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"notekeeper/pkg/logger"
)

// Ключи и заголовки, общие для обработчиков.
const (
	HeaderRequestID  = "X-Request-ID"
	LocalsRequestCtx = "requestContext"
)

// NewRequestIDMiddleware кладет в Locals контекст запроса с id из заголовка
// X-Request-ID или новым id и возвращает этот id в ответе.
func NewRequestIDMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := logger.NewRequestIDContext(ctx.Context(), ctx.Get(HeaderRequestID))
		if id, ok := logger.GetRequestID(requestCtx); ok {
			ctx.Set(HeaderRequestID, id)
		}
		ctx.Locals(LocalsRequestCtx, requestCtx)
		return ctx.Next()
	}
}

// RequestContext возвращает контекст запроса, сохраненный NewRequestIDMiddleware.
func RequestContext(ctx fiber.Ctx) context.Context {
	if requestCtx, ok := ctx.Locals(LocalsRequestCtx).(context.Context); ok {
		return requestCtx
	}
	return ctx.Context()
}
