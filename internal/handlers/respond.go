package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/clipsync/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/dto"
	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const msgInvalidBody = "Invalid request body"

// statusFor maps the apperr taxonomy to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, apperr.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, apperr.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, apperr.ErrConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{
		Success: false, Message: message, Status: status,
	})
}

func writeError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		slog.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
		if hub := hubFor(c); hub != nil {
			hub.CaptureException(err)
		}
		return fail(c, status, "Internal server error")
	}
	return fail(c, status, err.Error())
}

// parseBody decodes a JSON request body into v. An empty body leaves v zeroed
// so that the required-field check reports what is missing.
func parseBody(c *fiber.Ctx, v any) error {
	body := c.Body()
	if len(body) == 0 {
		return nil
	}
	if err := c.App().Config().JSONDecoder(body, v); err != nil {
		var verr *apperr.ValidationError
		if errors.As(err, &verr) {
			return verr
		}
		return apperr.Invalid(msgInvalidBody)
	}
	return nil
}

// authorize rejects a request whose bearer token names a different user. It is
// a no-op on routes that do not carry a verified token.
func authorize(c *fiber.Ctx, username string) error {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return nil
	}
	sub, err := token.Claims.GetSubject()
	if err != nil || sub != username {
		return apperr.ErrForbidden
	}
	return nil
}

type validator interface {
	Validate() error
}

// bind parses and validates a write request, then checks the token subject.
func bind(c *fiber.Ctx, req validator, username func() string) error {
	if err := parseBody(c, req); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}
	return authorize(c, username())
}

func hubFor(c *fiber.Ctx) *sentry.Hub {
	return sentryfiber.GetHubFromContext(c)
}

// ErrorHandler converts errors that escape a handler into the error envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		if hub := hubFor(c); hub != nil {
			hub.CaptureException(err)
		}
		message = "Internal server error"
	}

	return fail(c, code, message)
}

// NotFound is the catch-all for unknown paths.
func NotFound(c *fiber.Ctx) error {
	return fail(c, fiber.StatusNotFound, "Not found: "+c.Method()+" "+c.Path())
}
