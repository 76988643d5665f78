package batch

import (
	"go-donorsync/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type SyncApi struct {
	controller *SyncController
}

func NewSyncApi(controller *SyncController) *SyncApi {
	return &SyncApi{
		controller: controller,
	}
}

func (h *SyncApi) Setup(app *fiber.App) {
	sync := app.Group("/api/sync", middleware.AuthMiddleware())

	sync.Post("/run", h.controller.TriggerSync)
	sync.Get("/runs", h.controller.ListRuns)
}
