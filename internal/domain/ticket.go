package domain

import (
	"strings"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// TicketPriority enumerates triage urgency.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "low"
	TicketPriorityMedium   TicketPriority = "medium"
	TicketPriorityHigh     TicketPriority = "high"
	TicketPriorityCritical TicketPriority = "critical"
)

// Statuses lists every valid status in display order.
func Statuses() []TicketStatus {
	return []TicketStatus{TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed}
}

// Priorities lists every valid priority in display order.
func Priorities() []TicketPriority {
	return []TicketPriority{TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityCritical}
}

// ParseStatus normalizes case-insensitive input to a canonical status.
func ParseStatus(raw string) (TicketStatus, bool) {
	candidate := TicketStatus(strings.ToLower(strings.TrimSpace(raw)))
	for _, status := range Statuses() {
		if candidate == status {
			return status, true
		}
	}
	return "", false
}

// ParsePriority normalizes case-insensitive input to a canonical priority.
func ParsePriority(raw string) (TicketPriority, bool) {
	candidate := TicketPriority(strings.ToLower(strings.TrimSpace(raw)))
	for _, priority := range Priorities() {
		if candidate == priority {
			return priority, true
		}
	}
	return "", false
}

// Ticket is the tracked unit of work.
type Ticket struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Status         TicketStatus   `json:"status"`
	Priority       TicketPriority `json:"priority"`
	Assignee       string         `json:"assignee,omitempty"`
	Reporter       string         `json:"reporter,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	Tags           []string       `json:"tags"`
	EstimatedHours *float64       `json:"estimated_hours,omitempty"`
}

// Clone returns a deep copy so callers never hold references into the store.
func (t Ticket) Clone() Ticket {
	copied := t
	if t.Tags != nil {
		copied.Tags = append([]string(nil), t.Tags...)
	}
	if t.EstimatedHours != nil {
		hours := *t.EstimatedHours
		copied.EstimatedHours = &hours
	}
	return copied
}

// IsTerminal reports whether status is resolved or closed.
func (s TicketStatus) IsTerminal() bool {
	return s == TicketStatusResolved || s == TicketStatusClosed
}

// The store itself accepts any enumerated status; CanTransition encodes the
// forward-progress policy for callers that want to enforce it.
var allowedTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusOpen:       {TicketStatusInProgress},
	TicketStatusInProgress: {TicketStatusResolved},
	TicketStatusResolved:   {TicketStatusClosed},
	TicketStatusClosed:     {},
}

// CanTransition reports whether moving from current to next follows the
// forward-progress policy. Reopening and closing are always permitted.
func CanTransition(current, next TicketStatus) bool {
	if next == TicketStatusOpen || next == TicketStatusClosed {
		return true
	}
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}
