package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-whisperer/internal/api/dto"
	"github.com/spec-kit/ticket-whisperer/internal/service"
	"github.com/spec-kit/ticket-whisperer/pkg/util"
)

// AnalyticsHandler exposes summary and on-demand analysis.
type AnalyticsHandler struct {
	service *service.TicketService
}

// NewAnalyticsHandler constructs handler.
func NewAnalyticsHandler(ticketService *service.TicketService) *AnalyticsHandler {
	return &AnalyticsHandler{service: ticketService}
}

// GetSummary GET /tickets/summary.
func (h *AnalyticsHandler) GetSummary(c *fiber.Ctx) error {
	summary := h.service.Summary(c.UserContext())
	return c.JSON(fiber.Map{"data": summary})
}

// Analyze POST /tickets/analyze.
func (h *AnalyticsHandler) Analyze(c *fiber.Ctx) error {
	var req dto.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	result, err := h.service.Analyze(c.UserContext(), service.AnalyzeInput{
		Kind:   req.Kind,
		Bucket: req.Bucket,
		From:   req.From,
		To:     req.To,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}
