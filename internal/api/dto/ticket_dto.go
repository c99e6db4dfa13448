package dto

import (
	"time"

	"github.com/spec-kit/ticket-whisperer/internal/domain"
)

// CreateTicketRequest payload. Status and priority default to open/medium
// when omitted.
type CreateTicketRequest struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Status         string   `json:"status"`
	Priority       string   `json:"priority"`
	Assignee       string   `json:"assignee"`
	Reporter       string   `json:"reporter"`
	Tags           []string `json:"tags"`
	EstimatedHours *float64 `json:"estimated_hours"`
}

// UpdateTicketRequest carries a partial mutation; absent fields stay unchanged.
type UpdateTicketRequest struct {
	Title          *string   `json:"title"`
	Description    *string   `json:"description"`
	Status         *string   `json:"status"`
	Priority       *string   `json:"priority"`
	Assignee       *string   `json:"assignee"`
	Reporter       *string   `json:"reporter"`
	Tags           *[]string `json:"tags"`
	EstimatedHours *float64  `json:"estimated_hours"`
}

// TicketResponse is the serialized ticket shape.
type TicketResponse struct {
	ID             string                `json:"id"`
	Title          string                `json:"title"`
	Description    string                `json:"description"`
	Status         domain.TicketStatus   `json:"status"`
	Priority       domain.TicketPriority `json:"priority"`
	Assignee       string                `json:"assignee,omitempty"`
	Reporter       string                `json:"reporter,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
	Tags           []string              `json:"tags"`
	EstimatedHours *float64              `json:"estimated_hours,omitempty"`
}

// AnalyzeRequest selects an analysis kind with optional trend parameters.
type AnalyzeRequest struct {
	Kind   string `json:"kind"`
	Bucket string `json:"bucket"`
	From   string `json:"from"`
	To     string `json:"to"`
}

// SearchValidatorFailuresRequest payload. DaysBack is a pointer so an
// explicit 0 is distinguishable from the field being omitted.
type SearchValidatorFailuresRequest struct {
	Query    string `json:"query"`
	Status   string `json:"status"`
	DaysBack *int   `json:"days_back"`
}
