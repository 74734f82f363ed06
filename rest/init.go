package rest

import (
	"garden-gateway-api/feed"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Handler struct {
	feed   *feed.Publisher
	logger *zap.Logger
}

func NewHandler(publisher *feed.Publisher, logger *zap.Logger) *Handler {
	return &Handler{
		feed:   publisher,
		logger: logger,
	}
}

func Init(app *fiber.App, h *Handler) {
	SetupSwagger(app)

	// device-facing
	app.Post("/sensors", h.IngestReadingsHandler)
	app.Get("/commands", h.ListCommandsHandler)
	app.Patch("/commands", h.AcknowledgeCommandHandler)

	// dashboard-facing
	app.Post("/commands", h.IssueCommandHandler)

	h.logger.Info("REST API started")
}
