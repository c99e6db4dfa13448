package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-whisperer/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Tickets   *handlers.TicketsHandler
	Analytics *handlers.AnalyticsHandler
	Triage    *handlers.TriageHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	tickets := app.Group("/tickets")
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/summary", cfg.Analytics.GetSummary)
	tickets.Post("/analyze", cfg.Analytics.Analyze)
	tickets.Post("/search/validator-failures", cfg.Triage.SearchValidatorFailures)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Patch("/:id", cfg.Tickets.UpdateTicket)
	tickets.Delete("/:id", cfg.Tickets.DeleteTicket)
	tickets.Get("/:id/description", cfg.Triage.DescribeTicket)
}
