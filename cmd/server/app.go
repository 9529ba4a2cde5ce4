package main

import (
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"

	"github.com/KirMaid/CloudCS-Lab1/internal/middleware"
)

// newApp creates the fiber app with the global middleware chain and routes
func newApp(deps *Dependencies, sentryEnabled bool) *fiber.App {
	cfg := deps.Config
	logger := deps.Logger

	app := fiber.New(fiber.Config{
		AppName:               "Penguin Species API",
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		DisableStartupMessage: cfg.IsProduction(),
		ErrorHandler:          middleware.ErrorHandler(logger, sentryEnabled),
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
	})

	app.Use(middleware.RequestID())
	app.Use(middleware.NewLoggerMiddleware(middleware.DefaultLoggerConfig(logger)).Handler())
	app.Use(middleware.RecoverWithSentry(logger, sentryEnabled))
	app.Use(middleware.NewCORSMiddleware(middleware.DefaultCORSConfig(cfg.Server.AllowedOrigins)).Handler())
	if cfg.Metrics.Enabled {
		app.Use(middleware.NewMetricsMiddleware(middleware.DefaultMetricsConfig()).Handler())
	}

	registerRoutes(app, deps)
	return app
}
