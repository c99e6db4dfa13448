package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/spec-kit/ticket-whisperer/internal/domain"
	"github.com/spec-kit/ticket-whisperer/pkg/util"
)

// Filter is the validated predicate set. Nil fields impose no constraint; all
// present predicates are combined with AND.
type Filter struct {
	Status        *domain.TicketStatus
	Priority      *domain.TicketPriority
	Assignee      *string
	Reporter      *string
	Tag           *string
	Text          *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

// Params carries raw, unvalidated predicate values as received at the service
// boundary. Empty strings mean "not supplied".
type Params struct {
	Status        string
	Priority      string
	Assignee      string
	Reporter      string
	Tag           string
	Text          string
	CreatedAfter  string
	CreatedBefore string
}

// ParseParams validates raw predicate values before any filtering happens. A
// malformed predicate is a ValidationError, never a silently-empty result.
func ParseParams(params Params) (Filter, error) {
	var filter Filter

	if params.Status != "" {
		status, ok := domain.ParseStatus(params.Status)
		if !ok {
			return Filter{}, util.NewValidationError(
				fmt.Sprintf("invalid status predicate %q", params.Status),
				map[string]any{"field": "status", "allowed": domain.Statuses()},
			)
		}
		filter.Status = &status
	}
	if params.Priority != "" {
		priority, ok := domain.ParsePriority(params.Priority)
		if !ok {
			return Filter{}, util.NewValidationError(
				fmt.Sprintf("invalid priority predicate %q", params.Priority),
				map[string]any{"field": "priority", "allowed": domain.Priorities()},
			)
		}
		filter.Priority = &priority
	}
	if params.Assignee != "" {
		assignee := params.Assignee
		filter.Assignee = &assignee
	}
	if params.Reporter != "" {
		reporter := params.Reporter
		filter.Reporter = &reporter
	}
	if params.Tag != "" {
		tag := params.Tag
		filter.Tag = &tag
	}
	if params.Text != "" {
		text := params.Text
		filter.Text = &text
	}
	var err error
	if filter.CreatedAfter, err = parseBound("created_after", params.CreatedAfter); err != nil {
		return Filter{}, err
	}
	if filter.CreatedBefore, err = parseBound("created_before", params.CreatedBefore); err != nil {
		return Filter{}, err
	}
	return filter, nil
}

func parseBound(field, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, util.NewValidationError(
			fmt.Sprintf("invalid %s timestamp %q, expected RFC3339", field, raw),
			map[string]any{"field": field},
		)
	}
	return &ts, nil
}

// Apply evaluates the filter against a snapshot, preserving snapshot order.
// An empty filter returns the full snapshot.
func (f Filter) Apply(snapshot []domain.Ticket) []domain.Ticket {
	result := make([]domain.Ticket, 0, len(snapshot))
	for _, ticket := range snapshot {
		if f.Matches(ticket) {
			result = append(result, ticket)
		}
	}
	return result
}

// Matches reports whether a single ticket satisfies every present predicate.
func (f Filter) Matches(ticket domain.Ticket) bool {
	if f.Status != nil && ticket.Status != *f.Status {
		return false
	}
	if f.Priority != nil && ticket.Priority != *f.Priority {
		return false
	}
	if f.Assignee != nil && ticket.Assignee != *f.Assignee {
		return false
	}
	if f.Reporter != nil && ticket.Reporter != *f.Reporter {
		return false
	}
	if f.Tag != nil && !hasTag(ticket.Tags, *f.Tag) {
		return false
	}
	if f.Text != nil && !MatchText(ticket, *f.Text) {
		return false
	}
	if f.CreatedAfter != nil && ticket.CreatedAt.Before(*f.CreatedAfter) {
		return false
	}
	if f.CreatedBefore != nil && ticket.CreatedAt.After(*f.CreatedBefore) {
		return false
	}
	return true
}

// MatchText performs the case-insensitive substring match against a ticket's
// title and description.
func MatchText(ticket domain.Ticket, text string) bool {
	needle := strings.ToLower(text)
	return strings.Contains(strings.ToLower(ticket.Title), needle) ||
		strings.Contains(strings.ToLower(ticket.Description), needle)
}

func hasTag(tags []string, wanted string) bool {
	for _, tag := range tags {
		if tag == wanted {
			return true
		}
	}
	return false
}
