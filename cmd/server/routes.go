package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/KirMaid/CloudCS-Lab1/internal/middleware"
)

// registerRoutes registers all HTTP routes
func registerRoutes(app *fiber.App, deps *Dependencies) {
	h := deps.Handlers

	// No auth and no rate limit
	h.Health.RegisterRoutes(app)
	if deps.Config.Metrics.Enabled {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	chain := make([]fiber.Handler, 0, 3)
	if deps.RateLimitMiddleware != nil {
		chain = append(chain, deps.RateLimitMiddleware.Handler())
	}
	chain = append(chain,
		middleware.BearerAuth(deps.CredentialValidator, deps.Logger),
		h.Prediction.Predict,
	)
	app.Post("/predictions", chain...)
}
