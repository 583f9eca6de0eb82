package helper

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// FiberErrorHandler renders every error escaping a handler as the JSON
// envelope. Unknown errors are logged and hidden behind a generic 500.
func FiberErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return JsonError(c, fe.Code, fe.Message)
		}
		if status, msg, ok := MapDBError(err); ok {
			return JsonError(c, status, msg)
		}
		log.Error("unhandled error",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Any("request_id", c.Locals("reqid")),
			zap.Error(err),
		)
		return JsonError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
