package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"matchmycv/backend/internal/models"
	"matchmycv/backend/internal/services"
)

type AuthHandler struct {
	auth   services.AuthService
	logger *zap.Logger
}

func NewAuthHandler(auth services.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// HandleRegister handles POST /auth/register
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	resp, err := h.auth.Register(req)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	h.logger.Info("user registered", zap.String("user_id", resp.User.ID.String()))
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// HandleLogin handles POST /auth/login
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	resp, err := h.auth.Login(req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(resp)
}

// HandleMe handles GET /auth/me
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	user, err := h.auth.CurrentUser(userID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(user)
}
