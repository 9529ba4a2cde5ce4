package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderRequestID carries the request correlation ID
const HeaderRequestID = "X-Request-ID"

const localRequestID = "requestID"

// RequestIDConfig configures the request ID middleware
type RequestIDConfig struct {
	Header    string
	Generator func() string
}

// DefaultRequestIDConfig returns default request ID config
func DefaultRequestIDConfig() RequestIDConfig {
	return RequestIDConfig{
		Header: HeaderRequestID,
		Generator: func() string {
			return uuid.New().String()
		},
	}
}

// RequestID echoes an inbound request ID or assigns a new one
func RequestID(config ...RequestIDConfig) fiber.Handler {
	cfg := DefaultRequestIDConfig()
	if len(config) > 0 {
		cfg = config[0]
	}

	return func(c *fiber.Ctx) error {
		requestID := c.Get(cfg.Header)
		if requestID == "" {
			requestID = cfg.Generator()
		}

		c.Set(cfg.Header, requestID)
		c.Locals(localRequestID, requestID)

		return c.Next()
	}
}

// GetRequestID gets the request ID from context
func GetRequestID(c *fiber.Ctx) string {
	if requestID, ok := c.Locals(localRequestID).(string); ok {
		return requestID
	}
	return ""
}
