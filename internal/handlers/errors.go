package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/soniarr234/fitlover-back/internal/services"
)

// errorMessages holds the per-resource wording for each error kind.
type errorMessages struct {
	notFound string
	conflict string
	invalid  string
	failure  string
}

// mapServiceError turns a service sentinel into a status and a message that
// never carries internal detail. Unexpected errors are logged.
func mapServiceError(c *fiber.Ctx, logger logrus.FieldLogger, err error, messages errorMessages) error {
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		return invalidToken(c)
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": messages.notFound})
	case errors.Is(err, services.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": messages.conflict})
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": messages.invalid})
	case errors.Is(err, services.ErrStorageUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).
			JSON(fiber.Map{"error": "Storage service is not configured"})
	default:
		if logger != nil {
			logger.WithFields(logrus.Fields{
				"request_id": c.Locals("request_id"),
				"method":     c.Method(),
				"path":       c.Path(),
			}).WithError(err).Error("request failed")
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": messages.failure})
	}
}
