package handlers

import (
	"errors"
	"log"

	"freshmart/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

// respondError maps a service error onto the HTTP taxonomy. Validation,
// auth, conflict, and not-found errors carry their message through; anything
// else is a storage/internal failure whose detail is logged but never sent to
// the client.
func respondError(c *fiber.Ctx, err error, fallback string) error {
	var verr *apperr.ValidationError
	var inv *apperr.Invalid
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   verr.Error(),
			"missing": verr.Fields,
		})
	case errors.As(err, &inv):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   inv.Error(),
		})
	case errors.Is(err, apperr.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication failed",
			"error":   err.Error(),
		})
	case errors.Is(err, apperr.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Conflict",
			"error":   err.Error(),
		})
	case errors.Is(err, apperr.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fallback,
			"error":   err.Error(),
		})
	default:
		log.Printf("Internal error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": fallback,
		})
	}
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": msg,
	})
}
