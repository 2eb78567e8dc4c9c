package middleware

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/facecheck/internal/domain"
)

// Recover turns a handler panic into domain.ErrInternal so the error handler
// renders it like any other failure.
func Recover(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					slog.String("request_id", requestID(c)),
					slog.Any("panic", r),
					slog.String("path", c.Path()),
					slog.String("method", c.Method()),
					slog.String("stack", string(debug.Stack())),
				)

				err = domain.ErrInternal.WithError(fmt.Errorf("panic: %v", r))
			}
		}()
		return c.Next()
	}
}
