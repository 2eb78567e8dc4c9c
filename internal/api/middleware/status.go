package middleware

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/facecheck/internal/domain"
)

// statusOf maps an error to the HTTP status ErrorHandler will send
func statusOf(err error) int {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}

	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	if errors.Is(err, context.Canceled) {
		return StatusClientClosedRequest
	}

	return fiber.StatusInternalServerError
}
