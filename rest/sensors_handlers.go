package rest

import (
	"time"

	"garden-gateway-api/db"
	"garden-gateway-api/feed"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// IngestReadingsHandler accepts a batch of sensor readings from a device.
// Telemetry durability is the contract here: a failed insert fails the
// call, while the presence upsert and the feed publish are best effort.
func (h *Handler) IngestReadingsHandler(c *fiber.Ctx) error {
	var req IngestRequest
	if err := c.BodyParser(&req); err != nil {
		return ReturnBadRequest(c, "Invalid request body")
	}

	if req.DeviceID == "" {
		return ReturnBadRequest(c, "device_id is required")
	}

	entries := make([]db.ReadingInput, len(req.Readings))
	for i, r := range req.Readings {
		entries[i] = db.ReadingInput{Metric: r.Metric, Value: r.Value}
	}

	readings, err := db.InsertReadings(req.DeviceID, entries)
	if err != nil {
		h.logger.Error("failed to store readings",
			zap.String("device_id", req.DeviceID),
			zap.Error(err))
		return ReturnInternalError(c, "Failed to store readings")
	}

	if err := db.UpsertDeviceStatus(req.DeviceID, time.Now().UTC()); err != nil {
		h.logger.Warn("failed to update device presence",
			zap.String("device_id", req.DeviceID),
			zap.Error(err))
	}

	for _, reading := range readings {
		if err := h.feed.PublishInsert(c.Context(), feed.TableReadings, reading); err != nil {
			h.logger.Warn("failed to publish reading event",
				zap.String("device_id", reading.DeviceID),
				zap.String("metric", reading.Metric),
				zap.Error(err))
		}
	}

	return c.JSON(SuccessResponse{Success: true})
}
