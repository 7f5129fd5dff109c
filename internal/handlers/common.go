package handlers

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"matchmycv/backend/internal/ai"
	"matchmycv/backend/internal/layout"
	"matchmycv/backend/internal/middleware"
	"matchmycv/backend/internal/render"
	"matchmycv/backend/internal/repositories"
	"matchmycv/backend/internal/services"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

var errUnauthenticated = errors.New("authentication required")

// requestError is a client mistake reported as 400.
type requestError struct {
	msg    string
	fields map[string]string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...interface{}) error {
	return &requestError{msg: fmt.Sprintf(format, args...)}
}

// bind parses the JSON body into dst and runs its validate tags.
// requestNormalizer is implemented by request bodies that tidy their fields
// before validation.
type requestNormalizer interface {
	NormalizeRequest()
}

func bind(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return badRequest("Invalid request payload")
	}
	if n, ok := dst.(requestNormalizer); ok {
		n.NormalizeRequest()
	}
	if err := validate.Struct(dst); err != nil {
		return &requestError{msg: "Validation failed", fields: validationErrors(err)}
	}
	return nil
}

func validationErrors(err error) map[string]string {
	out := map[string]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["_"] = err.Error()
		return out
	}
	for _, fe := range verrs {
		msg := fe.Tag()
		if fe.Param() != "" {
			msg = fmt.Sprintf("%s=%s", fe.Tag(), fe.Param())
		}
		out[fe.Field()] = msg
	}
	return out
}

func currentUser(c *fiber.Ctx) (uuid.UUID, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return uuid.Nil, errUnauthenticated
	}
	return id, nil
}

func paramID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return parseID(c.Params(name), name)
}

func parseID(raw, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, badRequest("Invalid %s format", name)
	}
	return id, nil
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return fiber.StatusNotFound, "resource not found"
	case errors.Is(err, errUnauthenticated):
		return fiber.StatusUnauthorized, err.Error()
	case errors.Is(err, services.ErrQuotaExceeded):
		return fiber.StatusPaymentRequired, err.Error()
	case errors.Is(err, services.ErrEmailTaken):
		return fiber.StatusConflict, err.Error()
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrInvalidToken):
		return fiber.StatusUnauthorized, err.Error()
	case errors.Is(err, services.ErrUnsupportedFileType):
		return fiber.StatusUnsupportedMediaType, err.Error()
	case errors.Is(err, services.ErrEmptyDocument):
		return fiber.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, render.ErrUnsupportedFormat), errors.Is(err, layout.ErrInvalidSettings):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrAIUnavailable), errors.Is(err, services.ErrStructureFailed),
		errors.Is(err, ai.ErrEmptyResponse):
		return fiber.StatusBadGateway, err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout, "request timed out"
	default:
		return fiber.StatusInternalServerError, "internal server error"
	}
}

// respondError maps a service or repository error to its status code.
// Unexpected errors are logged and hidden from the client.
func respondError(c *fiber.Ctx, logger *zap.Logger, err error) error {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		body := fiber.Map{"error": reqErr.msg}
		if len(reqErr.fields) > 0 {
			body["fields"] = reqErr.fields
		}
		return c.Status(fiber.StatusBadRequest).JSON(body)
	}

	status, msg := statusFor(err)
	if status >= fiber.StatusInternalServerError && logger != nil {
		logger.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Error(err),
		)
	}
	return c.Status(status).JSON(fiber.Map{"error": msg})
}
