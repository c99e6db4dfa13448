package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-whisperer/internal/api/dto"
	"github.com/spec-kit/ticket-whisperer/internal/domain"
	"github.com/spec-kit/ticket-whisperer/internal/query"
	"github.com/spec-kit/ticket-whisperer/internal/service"
	"github.com/spec-kit/ticket-whisperer/internal/store"
	"github.com/spec-kit/ticket-whisperer/pkg/util"
)

// TicketsHandler exposes ticket CRUD and listing.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.CreateTicket(c.UserContext(), store.CreateInput{
		Title:          req.Title,
		Description:    req.Description,
		Status:         req.Status,
		Priority:       req.Priority,
		Assignee:       req.Assignee,
		Reporter:       req.Reporter,
		Tags:           req.Tags,
		EstimatedHours: req.EstimatedHours,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.service.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// UpdateTicket PATCH /tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.UpdateTicket(c.UserContext(), c.Params("id"), store.UpdateInput{
		Title:          req.Title,
		Description:    req.Description,
		Status:         req.Status,
		Priority:       req.Priority,
		Assignee:       req.Assignee,
		Reporter:       req.Reporter,
		Tags:           req.Tags,
		EstimatedHours: req.EstimatedHours,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// DeleteTicket DELETE /tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	if err := h.service.DeleteTicket(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	params := query.Params{
		Status:        c.Query("status"),
		Priority:      c.Query("priority"),
		Assignee:      c.Query("assignee"),
		Reporter:      c.Query("reporter"),
		Tag:           c.Query("tag"),
		Text:          c.Query("text"),
		CreatedAfter:  c.Query("created_after"),
		CreatedBefore: c.Query("created_before"),
	}
	tickets, err := h.service.ListTickets(c.UserContext(), params)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for _, ticket := range tickets {
		items = append(items, ticketResponse(ticket))
	}
	return c.JSON(fiber.Map{"data": items})
}

func ticketResponse(ticket domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:             ticket.ID,
		Title:          ticket.Title,
		Description:    ticket.Description,
		Status:         ticket.Status,
		Priority:       ticket.Priority,
		Assignee:       ticket.Assignee,
		Reporter:       ticket.Reporter,
		CreatedAt:      ticket.CreatedAt,
		UpdatedAt:      ticket.UpdatedAt,
		Tags:           ticket.Tags,
		EstimatedHours: ticket.EstimatedHours,
	}
}
