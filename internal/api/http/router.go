package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/config-manager/internal/api/http/handlers"
	"github.com/spec-kit/config-manager/internal/auth"
	"github.com/spec-kit/config-manager/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Analytics      *handlers.AnalyticsHandler
	Metrics        *handlers.MetricsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	// Per-route rather than a group: a Use-style group would also catch
	// unknown paths under /api and answer them with 401.
	protected := func(handlers ...fiber.Handler) []fiber.Handler {
		return append([]fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireAuthenticated()}, handlers...)
	}

	api := app.Group("/api")

	api.Get("/health", cfg.Health.Health)
	api.Get("/health/ready", cfg.Health.Ready)

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/profile", protected(cfg.Auth.Profile)...)

	api.Get("/analytics/dashboard", protected(cfg.Analytics.Dashboard)...)
	api.Get("/metrics", protected(auth.RequireRole(domain.RoleAdmin), cfg.Metrics.Snapshot)...)

	// catch-all keeps unknown paths on one route pattern for metrics
	app.Use(func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})
}
