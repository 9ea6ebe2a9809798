package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fairhub-io/fairhub-api/internal/config"
	"github.com/fairhub-io/fairhub-api/internal/handler"
	"github.com/fairhub-io/fairhub-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	EventModerationHandler *handler.EventModerationHandler
	AppointmentHandler     *handler.AppointmentHandler
	NotificationHandler    *handler.NotificationHandler
	AdminLogHandler        *handler.AdminLogHandler
	JWTMiddleware          fiber.Handler
	AdminGuard             fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}
	adminGuard := deps.AdminGuard
	if adminGuard == nil {
		adminGuard = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.EventModerationHandler != nil {
		events := app.Group("/api/admin/events", jwtMiddleware)
		deps.EventModerationHandler.Register(events)
	}

	if deps.AdminLogHandler != nil {
		logs := app.Group("/api/admin/audit-logs", jwtMiddleware, adminGuard)
		deps.AdminLogHandler.Register(logs)
	}

	if deps.AppointmentHandler != nil {
		exhibitors := app.Group("/api/exhibitors", jwtMiddleware)
		deps.AppointmentHandler.Register(exhibitors)
	}

	if deps.NotificationHandler != nil {
		notifications := app.Group("/api/notifications", jwtMiddleware)
		deps.NotificationHandler.Register(notifications)
	}
}
