package handlers

import (
	"errors"
	"log/slog"

	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/varshaaa-v/Web-Technology-Project/internal/dto"
	"github.com/varshaaa-v/Web-Technology-Project/internal/owner"
	"github.com/varshaaa-v/Web-Technology-Project/internal/services"
)

func errorJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func invalidBody(c *fiber.Ctx) error {
	return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
}

// respondError maps service errors onto status codes. Unknown errors are
// logged with their cause and answered with failMessage only.
func respondError(c *fiber.Ctx, err error, action, failMessage string) error {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		return errorJSON(c, fiber.StatusBadRequest, ve.Message)
	case errors.Is(err, services.ErrEmailTaken):
		return errorJSON(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrInvalidToken):
		return errorJSON(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, owner.ErrForbidden):
		return errorJSON(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrCategoryNotFound), errors.Is(err, services.ErrTaskNotFound):
		return errorJSON(c, fiber.StatusNotFound, err.Error())
	}

	slog.Error(failMessage,
		"action", action,
		"request_id", requestID(c),
		"user_id", owner.GetUserID(c),
		"method", c.Method(),
		"path", c.Path(),
		"error", err.Error(),
	)
	if hub := sentryfiber.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}
	return errorJSON(c, fiber.StatusInternalServerError, failMessage)
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}

// ErrorHandler is the app-wide fallback for errors returned by handlers and
// middleware. Server error details are logged, never returned.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	if code >= fiber.StatusInternalServerError {
		slog.Error("unhandled server error",
			"request_id", requestID(c),
			"method", c.Method(),
			"path", c.Path(),
			"error", err.Error(),
		)
		message = "Internal server error"
	}

	return errorJSON(c, code, message)
}
