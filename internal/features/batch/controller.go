package batch

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type SyncController struct {
	syncService SyncService
}

func NewSyncController(syncService SyncService) *SyncController {
	return &SyncController{
		syncService: syncService,
	}
}

// TriggerSync kicks off a full backfill and waits for it to finish
func (ctrl *SyncController) TriggerSync(c *fiber.Ctx) error {
	run, err := ctrl.syncService.RunFullSync(c.Context(), "manual")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Sync failed",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    run,
	})
}

func (ctrl *SyncController) ListRuns(c *fiber.Ctx) error {
	limit, _ := strconv.ParseInt(c.Query("limit", "20"), 10, 64)

	runs, err := ctrl.syncService.ListRuns(c.Context(), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch sync runs",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    runs,
	})
}
