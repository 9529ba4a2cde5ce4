package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/KirMaid/CloudCS-Lab1/internal/pkg/errors"
)

// ErrorHandler renders every error as a {"detail": ...} body.
// Application errors keep their status, headers and detail; fiber errors keep
// their status and message; anything else becomes a bare 500.
func ErrorHandler(logger *zap.Logger, sentryEnabled bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		body := fiber.Map{"detail": apperrors.MsgInternal}

		var fe *fiber.Error
		if appErr := apperrors.GetAppError(err); appErr != nil {
			status = appErr.StatusCode
			body = appErr.Body()
			for k, v := range appErr.Headers {
				c.Set(k, v)
			}
		} else if errors.As(err, &fe) {
			status = fe.Code
			body = fiber.Map{"detail": fe.Message}
		}

		if status >= fiber.StatusInternalServerError {
			logger.Error("request error",
				zap.Int("status", status),
				zap.Error(err),
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
				zap.String("request_id", GetRequestID(c)),
			)
			if sentryEnabled {
				CaptureError(c, err)
			}
		}

		return c.Status(status).JSON(body)
	}
}
