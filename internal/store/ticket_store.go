package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/spec-kit/ticket-whisperer/internal/domain"
	"github.com/spec-kit/ticket-whisperer/pkg/util"
)

// CreateInput describes the caller-supplied fields for a new ticket. The store
// assigns the ID and timestamps; omitted status/priority get defaults.
type CreateInput struct {
	Title          string
	Description    string
	Status         string
	Priority       string
	Assignee       string
	Reporter       string
	Tags           []string
	EstimatedHours *float64
}

// UpdateInput carries a partial mutation; nil fields are left unchanged.
type UpdateInput struct {
	Title          *string
	Description    *string
	Status         *string
	Priority       *string
	Assignee       *string
	Reporter       *string
	Tags           *[]string
	EstimatedHours *float64
}

// TicketStore owns the authoritative in-memory ticket set. Mutations are
// serialized under the mutex; reads hand out snapshots, never live references.
type TicketStore struct {
	mu      sync.RWMutex
	tickets map[string]domain.Ticket
	order   []string
	nextID  int
	clock   func() time.Time
}

// NewTicketStore constructs an empty store.
func NewTicketStore() *TicketStore {
	return &TicketStore{
		tickets: make(map[string]domain.Ticket),
		clock:   time.Now,
	}
}

// Create validates the candidate, assigns a fresh TICKET-<n> identifier and
// stores it. ID assignment happens under the same lock as insertion, so
// concurrent creates never collide.
func (s *TicketStore) Create(input CreateInput) (domain.Ticket, error) {
	ticket := domain.Ticket{
		Title:          input.Title,
		Description:    input.Description,
		Status:         domain.TicketStatus(input.Status),
		Priority:       domain.TicketPriority(input.Priority),
		Assignee:       input.Assignee,
		Reporter:       input.Reporter,
		Tags:           input.Tags,
		EstimatedHours: input.EstimatedHours,
	}
	if input.Status == "" {
		ticket.Status = domain.TicketStatusOpen
	}
	if input.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}
	if err := domain.Validate(&ticket); err != nil {
		return domain.Ticket{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	ticket.ID = fmt.Sprintf("TICKET-%d", s.nextID)
	now := s.clock()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now

	s.tickets[ticket.ID] = ticket
	s.order = append(s.order, ticket.ID)
	return ticket.Clone(), nil
}

// Get returns a copy of the ticket with the given ID.
func (s *TicketStore) Get(id string) (domain.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ticket, ok := s.tickets[id]
	if !ok {
		return domain.Ticket{}, util.NewNotFound("ticket", map[string]any{"id": id})
	}
	return ticket.Clone(), nil
}

// Update merges the supplied fields onto the existing ticket, re-validates the
// merged record and commits atomically. ID and created_at are immutable; the
// merged record either replaces the old one wholesale or the old one stays.
func (s *TicketStore) Update(id string, input UpdateInput) (domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.tickets[id]
	if !ok {
		return domain.Ticket{}, util.NewNotFound("ticket", map[string]any{"id": id})
	}

	merged := existing.Clone()
	if input.Title != nil {
		merged.Title = *input.Title
	}
	if input.Description != nil {
		merged.Description = *input.Description
	}
	if input.Status != nil {
		merged.Status = domain.TicketStatus(*input.Status)
	}
	if input.Priority != nil {
		merged.Priority = domain.TicketPriority(*input.Priority)
	}
	if input.Assignee != nil {
		merged.Assignee = *input.Assignee
	}
	if input.Reporter != nil {
		merged.Reporter = *input.Reporter
	}
	if input.Tags != nil {
		merged.Tags = append([]string(nil), (*input.Tags)...)
	}
	if input.EstimatedHours != nil {
		hours := *input.EstimatedHours
		merged.EstimatedHours = &hours
	}
	if err := domain.Validate(&merged); err != nil {
		return domain.Ticket{}, err
	}

	now := s.clock()
	if !now.After(existing.UpdatedAt) {
		now = existing.UpdatedAt.Add(time.Nanosecond)
	}
	merged.ID = existing.ID
	merged.CreatedAt = existing.CreatedAt
	merged.UpdatedAt = now

	// Key by the stored ID, never the caller's string: assigning to an
	// existing string key replaces the stored key with the operand, and
	// callers may hand us a string backed by a reusable buffer (fasthttp
	// does for path params).
	s.tickets[existing.ID] = merged
	return merged.Clone(), nil
}

// Delete removes the ticket. Its ID is never reassigned.
func (s *TicketStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tickets[id]; !ok {
		return util.NewNotFound("ticket", map[string]any{"id": id})
	}
	delete(s.tickets, id)
	for i, ticketID := range s.order {
		if ticketID == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Snapshot returns a point-in-time copy of every ticket in creation order
// (created_at ascending, IDs are assigned monotonically so ties cannot occur
// out of order).
func (s *TicketStore) Snapshot() []domain.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Ticket, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.tickets[id].Clone())
	}
	return result
}

// Len reports the current ticket count.
func (s *TicketStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tickets)
}
