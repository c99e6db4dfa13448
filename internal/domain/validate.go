package domain

import (
	"fmt"
	"strings"

	"github.com/spec-kit/ticket-whisperer/pkg/util"
)

// Validate normalizes and checks a candidate ticket in place. Either the whole
// candidate is valid after the call or an error is returned and nothing should
// be committed.
func Validate(ticket *Ticket) error {
	if strings.TrimSpace(ticket.Title) == "" {
		return util.NewValidationError("title must not be empty", map[string]any{"field": "title"})
	}
	ticket.Title = strings.TrimSpace(ticket.Title)

	status, ok := ParseStatus(string(ticket.Status))
	if !ok {
		return util.NewValidationError(
			fmt.Sprintf("invalid status %q", ticket.Status),
			map[string]any{"field": "status", "allowed": Statuses()},
		)
	}
	ticket.Status = status

	priority, ok := ParsePriority(string(ticket.Priority))
	if !ok {
		return util.NewValidationError(
			fmt.Sprintf("invalid priority %q", ticket.Priority),
			map[string]any{"field": "priority", "allowed": Priorities()},
		)
	}
	ticket.Priority = priority

	if ticket.EstimatedHours != nil && *ticket.EstimatedHours < 0 {
		return util.NewValidationError("estimated_hours must not be negative", map[string]any{"field": "estimated_hours"})
	}

	ticket.Tags = dedupeTags(ticket.Tags)
	return nil
}

func dedupeTags(tags []string) []string {
	if len(tags) == 0 {
		return tags
	}
	seen := make(map[string]struct{}, len(tags))
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		result = append(result, tag)
	}
	return result
}
