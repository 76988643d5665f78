package events

import (
	"time"

	"go-donorsync/internal/config"

	"github.com/gofiber/fiber/v2"
)

type EventController struct {
	Service EventService
	Config  *config.Config
}

func NewEventController(service EventService, cfg *config.Config) *EventController {
	return &EventController{
		Service: service,
		Config:  cfg,
	}
}

// PlatformWebhook receives fundraising platform events. Authentication is a
// header-carried shared secret; failures get a plain-text 400 and nothing is
// persisted.
func (ctrl *EventController) PlatformWebhook(c *fiber.Ctx) error {
	if !VerifySharedSecret(c.Get("X-Webhook-Secret"), ctrl.Config.PlatformWebhookSecret) {
		return c.Status(fiber.StatusBadRequest).SendString("invalid webhook secret")
	}

	record, err := ctrl.Service.Dispatch(c.Context(), SourcePlatform, "", c.Body())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"received": true,
		"state":    record.Status,
		"key":      record.Key,
	})
}

// PaymentsWebhook receives payment processor events, authenticated by the
// timestamped HMAC signature scheme.
func (ctrl *EventController) PaymentsWebhook(c *fiber.Ctx) error {
	err := VerifyPaymentSignature(
		c.Body(),
		c.Get("Webhook-Signature"),
		ctrl.Config.PaymentWebhookSecret,
		ctrl.Config.PaymentWebhookTolerance,
		time.Now(),
	)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString(err.Error())
	}

	record, err := ctrl.Service.Dispatch(c.Context(), SourcePayments, "", c.Body())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"received": true,
		"state":    record.Status,
		"key":      record.Key,
	})
}

// ListEvents returns persisted events for audit; admin only
func (ctrl *EventController) ListEvents(c *fiber.Ctx) error {
	filters := map[string]interface{}{
		"source":     c.Query("source"),
		"status":     c.Query("status"),
		"event_type": c.Query("event_type"),
	}

	records, err := ctrl.Service.ListEvents(c.Context(), filters, int64(c.QueryInt("limit", 50)))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"data": records,
	})
}

// ReplayEvent re-dispatches a stored raw payload; admin only
func (ctrl *EventController) ReplayEvent(c *fiber.Ctx) error {
	record, err := ctrl.Service.Replay(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Event replayed",
		"data":    record,
	})
}
