package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/interview-prep/internal/services"
)

// respondError maps service errors onto status codes. Anything unrecognized,
// including oracle and media failures, becomes one generic 500.
func respondError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "failed to process request"

	switch {
	case errors.Is(err, services.ErrHistoryDecode):
		code, message = fiber.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrUnsupportedMedia):
		code, message = fiber.StatusUnsupportedMediaType, err.Error()
	case errors.Is(err, services.ErrFileTooLarge):
		code, message = fiber.StatusRequestEntityTooLarge, err.Error()
	case errors.Is(err, services.ErrInvalidCredentials):
		code, message = fiber.StatusUnauthorized, services.ErrInvalidCredentials.Error()
	case errors.Is(err, services.ErrInvalidToken):
		code, message = fiber.StatusUnauthorized, services.ErrInvalidToken.Error()
	case errors.Is(err, services.ErrNotFound):
		code, message = fiber.StatusNotFound, err.Error()
	case errors.Is(err, services.ErrUserExists):
		code, message = fiber.StatusConflict, err.Error()
	default:
		log.Printf("❌ %s %s failed: %v\n", c.Method(), c.Path(), err)
	}

	return c.Status(code).JSON(fiber.Map{
		"error": message,
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": message,
	})
}
