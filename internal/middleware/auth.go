// Package middleware holds the fiber middleware shared by the API routes.
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"matchmycv/backend/internal/services"
)

const userIDKey = "user_id"

type TokenParser interface {
	ParseToken(token string) (*services.Claims, error)
}

// RequireAuth validates the bearer token and stores the caller's id in the
// request locals.
func RequireAuth(parser TokenParser, logger *zap.Logger) fiber.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return unauthorized(c, "missing Authorization header")
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return unauthorized(c, "invalid Authorization header format")
		}

		claims, err := parser.ParseToken(strings.TrimSpace(parts[1]))
		if err != nil {
			logger.Debug("token rejected", zap.String("path", c.Path()), zap.Error(err))
			return unauthorized(c, services.ErrInvalidToken.Error())
		}

		id, err := uuid.Parse(claims.UserID)
		if err != nil {
			return unauthorized(c, services.ErrInvalidToken.Error())
		}

		c.Locals(userIDKey, id)
		return c.Next()
	}
}

// UserID returns the authenticated caller, or false outside RequireAuth.
func UserID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(userIDKey).(uuid.UUID)
	return id, ok
}

// SetUserID is used by tests that mount handlers without the token check.
func SetUserID(c *fiber.Ctx, id uuid.UUID) {
	c.Locals(userIDKey, id)
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": msg})
}
