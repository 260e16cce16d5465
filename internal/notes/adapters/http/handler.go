// Package http содержит REST-транспорт сервиса заметок.
package http

import (
	"notekeeper/internal/notes/ports/api"
)

// Handler обработчик HTTP-запросов над заметками, папками, тегами и будильниками.
type Handler struct {
	service api.Service
}

// NewHandler создает новый экземпляр обработчика.
func NewHandler(service api.Service) *Handler {
	return &Handler{service: service}
}
