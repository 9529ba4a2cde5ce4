package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// BuildInfo describes the running service for GET /version
type BuildInfo struct {
	Version      string `json:"version"`
	ModelPath    string `json:"model_path"`
	ReloadPolicy string `json:"reload_policy"`
	AuthMode     string `json:"auth_mode"`
}

// HealthHandler handles liveness and version endpoints
type HealthHandler struct {
	info      BuildInfo
	startTime time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(info BuildInfo) *HealthHandler {
	return &HealthHandler{
		info:      info,
		startTime: time.Now(),
	}
}

// Healthcheck handles GET /healthcheck. It touches no dependency.
func (h *HealthHandler) Healthcheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}

// Version handles GET /version
func (h *HealthHandler) Version(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"version":       h.info.Version,
		"model_path":    h.info.ModelPath,
		"reload_policy": h.info.ReloadPolicy,
		"auth_mode":     h.info.AuthMode,
		"uptime":        time.Since(h.startTime).Round(time.Second).String(),
	})
}

// RegisterRoutes registers the unauthenticated routes
func (h *HealthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/healthcheck", h.Healthcheck)
	router.Get("/version", h.Version)
}
