package http

import (
	"github.com/gofiber/fiber/v3"

	"notekeeper/internal/notes/adapters/http/middleware"
	"notekeeper/internal/notes/ports/api"
)

// SetupRouter настраивает маршрутизацию для HTTP сервера.
func SetupRouter(app *fiber.App, service api.Service) {
	h := NewHandler(service)

	// Middleware для всех запросов.
	app.Use(middleware.NewRequestIDMiddleware())
	app.Use(middleware.NewLoggerMiddleware())
	app.Use(middleware.NewRecoveryMiddleware())

	apiV1 := app.Group("/api/v1")

	notes := apiV1.Group("/notes")
	notes.Post("/", h.CreateNote)
	notes.Get("/", h.ListNotes)
	notes.Get("/search", h.SearchNotes)
	notes.Get("/:id", h.GetNote)
	notes.Put("/:id", h.UpdateNote)
	notes.Put("/:id/folder", h.MoveNote)
	notes.Delete("/:id", h.DeleteNote)

	folders := apiV1.Group("/folders")
	folders.Post("/", h.CreateFolder)
	folders.Get("/", h.ListFolders)
	folders.Get("/:id", h.GetFolder)
	folders.Get("/:id/notes", h.FolderNotes)
	folders.Put("/:id", h.UpdateFolder)
	folders.Delete("/:id", h.DeleteFolder)

	tags := apiV1.Group("/tags")
	tags.Post("/", h.CreateTag)
	tags.Get("/", h.ListTags)
	tags.Get("/:name/notes", h.NotesByTag)
	tags.Put("/:id", h.RenameTag)
	tags.Delete("/:id", h.DeleteTag)

	alarms := apiV1.Group("/alarms")
	alarms.Post("/", h.SaveAlarm)
	alarms.Get("/", h.ListAlarms)
	alarms.Get("/:id", h.GetAlarm)
	alarms.Put("/:id", h.SaveAlarm)
	alarms.Delete("/:id", h.DeleteAlarm)

	app.Use(notFound)
}

// notFound обрабатывает несуществующие маршруты.
var notFound fiber.Handler = func(c fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "Route not found",
	})
}
