package httpx

import (
	"errors"
	"time"

	"supermercado-backend/internal/logger"
	"supermercado-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

const RequestIDKey = "requestid"

// StatusFor maps an error kind to its HTTP status.
func StatusFor(err error) int {
	var fe *FieldError
	switch {
	case errors.As(err, &fe):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, models.ErrUnauthenticated),
		errors.Is(err, models.ErrInvalidToken),
		errors.Is(err, models.ErrTokenExpired):
		return fiber.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, models.ErrNotFound), errors.Is(err, models.ErrProductNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, models.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, models.ErrInsufficientStock), errors.Is(err, models.ErrValidation):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

var genericMessages = map[int]string{
	fiber.StatusBadRequest:          "Datos inválidos",
	fiber.StatusUnauthorized:        "No autenticado",
	fiber.StatusForbidden:           "Acceso denegado",
	fiber.StatusNotFound:            "Recurso no encontrado",
	fiber.StatusConflict:            "Conflicto con el estado actual del recurso",
	fiber.StatusInternalServerError: "Error interno del servidor",
}

// publicMessage returns the text that may be sent to the caller. Only
// models.Error and FieldError carry caller-facing text.
func publicMessage(err error, status int) string {
	var me *models.Error
	if errors.As(err, &me) {
		return me.Message
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Error()
	}
	return genericMessages[status]
}

// ErrorHandler renders every failure as {"detail": message}.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{"detail": fiberErr.Message})
		}

		status := StatusFor(err)
		msg := publicMessage(err, status)
		var me *models.Error
		switch {
		case status == fiber.StatusInternalServerError:
			log.Error("unexpected error",
				"method", c.Method(),
				"path", c.Path(),
				"request_id", c.Locals(RequestIDKey),
				"error", err)
			msg = genericMessages[status]
		case errors.As(err, &me) && me.Cause != nil:
			log.Warn("request rejected by database",
				"method", c.Method(),
				"path", c.Path(),
				"request_id", c.Locals(RequestIDKey),
				"error", me.Cause)
		}
		if status == fiber.StatusUnauthorized {
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		}
		return c.Status(status).JSON(fiber.Map{"detail": msg})
	}
}

// RequestLogger logs one line per request. Errors from the chain are
// rendered here so the logged status is the one sent to the client.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		if chainErr := c.Next(); chainErr != nil {
			if err := c.App().Config().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		log.Info("http request",
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", c.Locals(RequestIDKey))
		return nil
	}
}
