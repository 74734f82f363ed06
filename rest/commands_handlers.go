package rest

import (
	"errors"

	"garden-gateway-api/db"
	"garden-gateway-api/feed"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// IssueCommandHandler stores a dashboard-issued command as pending. The
// device picks it up on its next poll.
func (h *Handler) IssueCommandHandler(c *fiber.Ctx) error {
	var req IssueCommandRequest
	if err := c.BodyParser(&req); err != nil {
		return ReturnBadRequest(c, "Invalid request body")
	}

	if req.DeviceID == "" {
		return ReturnBadRequest(c, "device_id is required")
	}

	if len(req.Command) == 0 {
		return ReturnBadRequest(c, "command is required")
	}

	if db.ActionName(req.Command) == "" {
		return ReturnBadRequest(c, "command must carry an action")
	}

	command, err := db.CreateCommand(req.DeviceID, req.Command)
	if err != nil {
		h.logger.Error("failed to create command",
			zap.String("device_id", req.DeviceID),
			zap.Error(err))
		return ReturnInternalError(c, "Failed to create command")
	}

	return c.JSON(commandDetail(command))
}

// ListCommandsHandler is the device poll: pending commands for a device,
// oldest first so they execute in issuance order.
func (h *Handler) ListCommandsHandler(c *fiber.Ctx) error {
	deviceID := c.Query("device_id")
	if deviceID == "" {
		return ReturnBadRequest(c, "device_id is required")
	}

	status := c.Query("status", db.CommandStatusPending)
	if status != db.CommandStatusPending {
		return ReturnBadRequest(c, "Invalid status value. Must be: pending")
	}

	commands, err := db.GetPendingCommands(deviceID)
	if err != nil {
		h.logger.Error("failed to list pending commands",
			zap.String("device_id", deviceID),
			zap.Error(err))
		return ReturnInternalError(c, "Failed to retrieve commands")
	}

	details := make([]CommandDetail, len(commands))
	for i := range commands {
		details[i] = commandDetail(&commands[i])
	}

	return c.JSON(details)
}

// AcknowledgeCommandHandler records that a device executed a command.
// Re-acknowledging is a no-op success; the status never regresses.
func (h *Handler) AcknowledgeCommandHandler(c *fiber.Ctx) error {
	var req AcknowledgeRequest
	if err := c.BodyParser(&req); err != nil {
		return ReturnBadRequest(c, "Invalid request body")
	}

	if req.CommandID == "" {
		return ReturnBadRequest(c, "command_id is required")
	}

	if req.Status != db.CommandStatusAck {
		return ReturnBadRequest(c, "Invalid status. Must be: ack")
	}

	err := db.AcknowledgeCommand(req.CommandID)
	if errors.Is(err, db.ErrNotFound) {
		return ReturnNotFound(c, "Command not found")
	}
	if err != nil {
		h.logger.Error("failed to acknowledge command",
			zap.String("command_id", req.CommandID),
			zap.Error(err))
		return ReturnInternalError(c, "Failed to acknowledge command")
	}

	command, err := db.GetCommandByID(req.CommandID)
	if err != nil || command == nil {
		h.logger.Warn("acknowledged command could not be reloaded for the feed",
			zap.String("command_id", req.CommandID),
			zap.Error(err))
	} else if err := h.feed.PublishUpdate(c.Context(), feed.TableCommands, command); err != nil {
		h.logger.Warn("failed to publish command event",
			zap.String("command_id", command.ID),
			zap.Error(err))
	}

	return c.JSON(SuccessResponse{Success: true})
}

func commandDetail(cmd *db.Command) CommandDetail {
	return CommandDetail{
		ID:         cmd.ID,
		DeviceID:   cmd.DeviceID,
		Command:    cmd.Command,
		Status:     cmd.Status,
		CreatedAt:  cmd.CreatedAt,
		ExecutedAt: cmd.ExecutedAt,
	}
}
