package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	apperrors "github.com/KirMaid/CloudCS-Lab1/internal/pkg/errors"
)

func newObservedApp(t *testing.T) (*fiber.App, *observer.ObservedLogs) {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.NewNop(), false)})
	app.Use(RequestID())
	app.Use(NewLoggerMiddleware(DefaultLoggerConfig(zap.New(core))).Handler())
	return app, logs
}

func TestLoggerMiddleware(t *testing.T) {
	app, logs := newObservedApp(t)
	app.Get("/ok", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/denied", func(c *fiber.Ctx) error {
		return apperrors.Unauthorized("")
	})
	app.Get("/broken", func(c *fiber.Ctx) error {
		return apperrors.Internal("")
	})

	tests := []struct {
		path   string
		status int
		level  zapcore.Level
	}{
		{path: "/ok", status: fiber.StatusOK, level: zapcore.InfoLevel},
		{path: "/denied", status: fiber.StatusUnauthorized, level: zapcore.WarnLevel},
		{path: "/broken", status: fiber.StatusInternalServerError, level: zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			before := logs.Len()

			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			entries := logs.All()[before:]
			require.Len(t, entries, 1)
			assert.Equal(t, tt.level, entries[0].Level)
			assert.Equal(t, int64(tt.status), entries[0].ContextMap()["status"])
			assert.Equal(t, resp.Header.Get(HeaderRequestID), entries[0].ContextMap()["request_id"])
		})
	}
}

func TestLoggerMiddleware_SkipsInternalRoutes(t *testing.T) {
	app, logs := newObservedApp(t)
	app.Get("/healthcheck", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	_, err := app.Test(httptest.NewRequest("GET", "/healthcheck", nil))
	require.NoError(t, err)
	assert.Zero(t, logs.Len())
}

func TestLoggerMiddleware_RedactsHeaders(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	app := fiber.New()
	app.Use(NewLoggerMiddleware(LoggerConfig{Logger: zap.New(core), IncludeHeaders: true}).Handler())
	app.Get("/ok", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/ok", nil)
	req.Header.Set("Authorization", "Bearer 00000")
	req.Header.Set("Accept", "application/json")

	_, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 1, logs.Len())

	headers, ok := logs.All()[0].ContextMap()["headers"].(map[string]string)
	require.True(t, ok)
	assert.NotContains(t, headers, "Authorization")
	assert.Equal(t, "application/json", headers["Accept"])
}
