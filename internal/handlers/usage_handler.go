package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"matchmycv/backend/internal/services"
)

type UsageHandler struct {
	usage  services.UsageService
	logger *zap.Logger
}

func NewUsageHandler(usage services.UsageService, logger *zap.Logger) *UsageHandler {
	return &UsageHandler{usage: usage, logger: logger}
}

// HandleGetUsage handles GET /usage
func (h *UsageHandler) HandleGetUsage(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	summary, err := h.usage.Summary(userID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(summary)
}
