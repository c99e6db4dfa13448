package service

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/spec-kit/ticket-whisperer/internal/analytics"
	"github.com/spec-kit/ticket-whisperer/internal/analyzer"
	"github.com/spec-kit/ticket-whisperer/internal/domain"
	"github.com/spec-kit/ticket-whisperer/internal/events"
	"github.com/spec-kit/ticket-whisperer/internal/query"
	"github.com/spec-kit/ticket-whisperer/internal/store"
	"github.com/spec-kit/ticket-whisperer/pkg/util"
)

const descriptionPreviewLength = 200

// TicketService is the operation boundary over the store, query engine,
// analytics and the description analyzer. Inputs are validated here; results
// are detached copies, never live references into the store.
type TicketService struct {
	store      *store.TicketStore
	analyzer   *analyzer.Analyzer
	dispatcher events.Dispatcher
}

// Dependencies bundles collaborators for the ticket service.
type Dependencies struct {
	Store      *store.TicketStore
	Analyzer   *analyzer.Analyzer
	Dispatcher events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps Dependencies) *TicketService {
	return &TicketService{
		store:      deps.Store,
		analyzer:   deps.Analyzer,
		dispatcher: deps.Dispatcher,
	}
}

// CreateTicket validates and stores a new ticket.
func (s *TicketService) CreateTicket(ctx context.Context, input store.CreateInput) (domain.Ticket, error) {
	ticket, err := s.store.Create(input)
	if err != nil {
		return domain.Ticket{}, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			Title:    ticket.Title,
			Status:   ticket.Status,
			Priority: ticket.Priority,
			Reporter: ticket.Reporter,
		},
	})
	return ticket, nil
}

// GetTicket fetches a single ticket by ID.
func (s *TicketService) GetTicket(ctx context.Context, id string) (domain.Ticket, error) {
	return s.store.Get(id)
}

// UpdateTicket merges a partial mutation onto an existing ticket.
func (s *TicketService) UpdateTicket(ctx context.Context, id string, input store.UpdateInput) (domain.Ticket, error) {
	before, err := s.store.Get(id)
	if err != nil {
		return domain.Ticket{}, err
	}
	ticket, err := s.store.Update(id, input)
	if err != nil {
		return domain.Ticket{}, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketUpdated,
		TicketID: ticket.ID,
		Payload: events.TicketUpdatedPayload{
			OldStatus: before.Status,
			NewStatus: ticket.Status,
			UpdatedAt: ticket.UpdatedAt,
		},
	})
	return ticket, nil
}

// DeleteTicket removes a ticket; its ID is never reused.
func (s *TicketService) DeleteTicket(ctx context.Context, id string) error {
	ticket, err := s.store.Get(id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(id); err != nil {
		return err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		TicketID: id,
		Payload:  events.TicketDeletedPayload{Title: ticket.Title},
	})
	return nil
}

// ListTickets validates the raw predicate set and evaluates it against a
// snapshot. Results come back in creation order.
func (s *TicketService) ListTickets(ctx context.Context, params query.Params) ([]domain.Ticket, error) {
	filter, err := query.ParseParams(params)
	if err != nil {
		return nil, err
	}
	return filter.Apply(s.store.Snapshot()), nil
}

// Summary computes the aggregate summary view.
func (s *TicketService) Summary(ctx context.Context) analytics.Summary {
	return analytics.ComputeSummary(s.store.Snapshot())
}

// AnalyzeInput selects the analysis to perform.
type AnalyzeInput struct {
	Kind   string
	Bucket string
	From   string
	To     string
}

// AnalysisResult carries the result of one analysis kind.
type AnalysisResult struct {
	Kind     string                            `json:"kind"`
	Workload map[string]analytics.AssigneeLoad `json:"workload,omitempty"`
	Priority *analytics.PriorityAnalysis       `json:"priority,omitempty"`
	Trends   []analytics.TrendPoint            `json:"trends,omitempty"`
}

// Analyze dispatches to the requested analytics computation. Unknown kinds and
// malformed bucket or range values are ValidationErrors.
func (s *TicketService) Analyze(ctx context.Context, input AnalyzeInput) (*AnalysisResult, error) {
	snapshot := s.store.Snapshot()
	switch input.Kind {
	case "workload":
		return &AnalysisResult{Kind: input.Kind, Workload: analytics.ComputeWorkload(snapshot)}, nil
	case "priority":
		priority := analytics.ComputePriority(snapshot)
		return &AnalysisResult{Kind: input.Kind, Priority: &priority}, nil
	case "trends":
		bucket, err := analytics.ParseBucket(input.Bucket)
		if err != nil {
			return nil, err
		}
		span, err := parseTrendRange(input.From, input.To)
		if err != nil {
			return nil, err
		}
		return &AnalysisResult{Kind: input.Kind, Trends: analytics.ComputeTrends(snapshot, bucket, span)}, nil
	default:
		return nil, util.NewValidationError(
			fmt.Sprintf("unknown analysis kind %q", input.Kind),
			map[string]any{"field": "kind", "allowed": []string{"workload", "priority", "trends"}},
		)
	}
}

func parseTrendRange(from, to string) (*analytics.TrendRange, error) {
	if from == "" && to == "" {
		return nil, nil
	}
	if from == "" || to == "" {
		return nil, util.NewValidationError("trend range requires both from and to", map[string]any{"field": "from"})
	}
	fromTime, err := time.Parse(time.RFC3339, from)
	if err != nil {
		return nil, util.NewValidationError(fmt.Sprintf("invalid from timestamp %q, expected RFC3339", from), map[string]any{"field": "from"})
	}
	toTime, err := time.Parse(time.RFC3339, to)
	if err != nil {
		return nil, util.NewValidationError(fmt.Sprintf("invalid to timestamp %q, expected RFC3339", to), map[string]any{"field": "to"})
	}
	if toTime.Before(fromTime) {
		return nil, util.NewValidationError("trend range to must not precede from", map[string]any{"field": "to"})
	}
	return &analytics.TrendRange{From: fromTime, To: toTime}, nil
}

// DescribeOptions toggles the analyses applied to a ticket description.
type DescribeOptions struct {
	ExtractLinks   bool
	AnalyzeFailure bool
}

// Description is the described-ticket result.
type Description struct {
	TicketID       string                   `json:"ticket_id"`
	Title          string                   `json:"title"`
	Description    string                   `json:"description"`
	Status         domain.TicketStatus      `json:"status"`
	Priority       domain.TicketPriority    `json:"priority"`
	Links          []string                 `json:"links,omitempty"`
	FailureSignals *analyzer.FailureSignals `json:"failure_signals,omitempty"`
}

// DescribeTicket returns the ticket's description text together with the
// requested link extraction and failure classification.
func (s *TicketService) DescribeTicket(ctx context.Context, id string, opts DescribeOptions) (Description, error) {
	ticket, err := s.store.Get(id)
	if err != nil {
		return Description{}, err
	}
	result := Description{
		TicketID:    ticket.ID,
		Title:       ticket.Title,
		Description: ticket.Description,
		Status:      ticket.Status,
		Priority:    ticket.Priority,
	}
	if opts.ExtractLinks {
		result.Links = s.analyzer.ExtractLinks(ticket.Description)
	}
	if opts.AnalyzeFailure {
		signals := s.analyzer.ClassifyFailureSignals(ticket.Description)
		result.FailureSignals = &signals
	}
	return result, nil
}

// SearchInput describes a validator-failure search. DaysBack nil means the
// default 7-day window; an explicit 0 restricts the window to now.
type SearchInput struct {
	Query    string
	Status   string
	DaysBack *int
}

// SearchResult is one matching ticket, with the description truncated for
// triage display.
type SearchResult struct {
	TicketID           string                `json:"ticket_id"`
	Title              string                `json:"title"`
	Status             domain.TicketStatus   `json:"status"`
	Priority           domain.TicketPriority `json:"priority"`
	Assignee           string                `json:"assignee,omitempty"`
	CreatedAt          time.Time             `json:"created_at"`
	DescriptionPreview string                `json:"description_preview"`
}

// SearchValidatorFailures finds tickets whose descriptions carry failure
// signals and which match the query expression. Status defaults to open
// ("all" disables the constraint) and the window defaults to 7 days back.
func (s *TicketService) SearchValidatorFailures(ctx context.Context, input SearchInput) ([]SearchResult, error) {
	status := input.Status
	if status == "" {
		status = string(domain.TicketStatusOpen)
	}

	var filter query.Filter
	if status != "all" {
		parsed, ok := domain.ParseStatus(status)
		if !ok {
			return nil, util.NewValidationError(
				fmt.Sprintf("invalid status filter %q", input.Status),
				map[string]any{"field": "status", "allowed": append(domain.Statuses(), "all")},
			)
		}
		filter.Status = &parsed
	}

	daysBack := 7
	if input.DaysBack != nil {
		daysBack = *input.DaysBack
	}
	if daysBack < 0 {
		return nil, util.NewValidationError("days_back must not be negative", map[string]any{"field": "days_back"})
	}
	cutoff := time.Now().AddDate(0, 0, -daysBack)
	filter.CreatedAfter = &cutoff

	matches := s.analyzer.SearchValidatorFailures(s.store.Snapshot(), input.Query, filter)
	results := make([]SearchResult, 0, len(matches))
	for _, ticket := range matches {
		results = append(results, SearchResult{
			TicketID:           ticket.ID,
			Title:              ticket.Title,
			Status:             ticket.Status,
			Priority:           ticket.Priority,
			Assignee:           ticket.Assignee,
			CreatedAt:          ticket.CreatedAt,
			DescriptionPreview: preview(ticket.Description, descriptionPreviewLength),
		})
	}
	return results, nil
}

func preview(text string, max int) string {
	if len(text) <= max {
		return text
	}
	// Back up to a rune boundary so the cut never splits a multi-byte
	// character.
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
