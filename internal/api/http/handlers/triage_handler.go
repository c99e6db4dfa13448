package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-whisperer/internal/api/dto"
	"github.com/spec-kit/ticket-whisperer/internal/service"
	"github.com/spec-kit/ticket-whisperer/pkg/util"
)

// TriageHandler exposes description analysis and validator-failure search.
type TriageHandler struct {
	service *service.TicketService
}

// NewTriageHandler constructs handler.
func NewTriageHandler(ticketService *service.TicketService) *TriageHandler {
	return &TriageHandler{service: ticketService}
}

// DescribeTicket GET /tickets/:id/description.
// extract_links defaults to true, analyze_failure to false.
func (h *TriageHandler) DescribeTicket(c *fiber.Ctx) error {
	opts := service.DescribeOptions{
		ExtractLinks:   c.QueryBool("extract_links", true),
		AnalyzeFailure: c.QueryBool("analyze_failure", false),
	}
	result, err := h.service.DescribeTicket(c.UserContext(), c.Params("id"), opts)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}

// SearchValidatorFailures POST /tickets/search/validator-failures.
func (h *TriageHandler) SearchValidatorFailures(c *fiber.Ctx) error {
	var req dto.SearchValidatorFailuresRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	results, err := h.service.SearchValidatorFailures(c.UserContext(), service.SearchInput{
		Query:    req.Query,
		Status:   req.Status,
		DaysBack: req.DaysBack,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": results, "total_found": len(results)})
}
