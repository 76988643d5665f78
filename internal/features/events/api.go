package events

import (
	"go-donorsync/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type EventApi struct {
	controller *EventController
}

func NewEventApi(controller *EventController) *EventApi {
	return &EventApi{
		controller: controller,
	}
}

func (h *EventApi) Setup(app *fiber.App) {
	// Inbound webhooks carry their own auth
	app.Post("/webhooks/platform", h.controller.PlatformWebhook)
	app.Post("/webhooks/payments", h.controller.PaymentsWebhook)

	admin := app.Group("/api/events", middleware.AuthMiddleware())
	admin.Get("/", h.controller.ListEvents)
	admin.Post("/:id/replay", h.controller.ReplayEvent)
}
