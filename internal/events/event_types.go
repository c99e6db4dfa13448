package events

import (
	"time"

	"github.com/spec-kit/ticket-whisperer/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated EventType = "ticket_created"
	EventTicketUpdated EventType = "ticket_updated"
	EventTicketDeleted EventType = "ticket_deleted"
)

// Event represents a store mutation observed by subscribers.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	TicketID  string    `json:"ticket_id"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Title    string                `json:"title"`
	Status   domain.TicketStatus   `json:"status"`
	Priority domain.TicketPriority `json:"priority"`
	Reporter string                `json:"reporter,omitempty"`
}

// TicketUpdatedPayload payload. Old/new status are both set so subscribers can
// detect transitions without a store lookup.
type TicketUpdatedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// TicketDeletedPayload payload.
type TicketDeletedPayload struct {
	Title string `json:"title"`
}
