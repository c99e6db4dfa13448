package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/spec-kit/ticket-whisperer/internal/domain"
	"github.com/spec-kit/ticket-whisperer/pkg/util"
)

// UnassignedKey groups tickets without an assignee in workload output.
const UnassignedKey = "unassigned"

// Summary aggregates counts over a snapshot.
type Summary struct {
	Total          int                           `json:"total"`
	ByStatus       map[domain.TicketStatus]int   `json:"by_status"`
	ByPriority     map[domain.TicketPriority]int `json:"by_priority"`
	Unassigned     int                           `json:"unassigned"`
	CompletionRate float64                       `json:"completion_rate"`
}

// ComputeSummary derives the summary view. Every status and priority bucket is
// present in the maps, zero included, so counts always sum to Total.
func ComputeSummary(snapshot []domain.Ticket) Summary {
	summary := Summary{
		Total:      len(snapshot),
		ByStatus:   make(map[domain.TicketStatus]int, 4),
		ByPriority: make(map[domain.TicketPriority]int, 4),
	}
	for _, status := range domain.Statuses() {
		summary.ByStatus[status] = 0
	}
	for _, priority := range domain.Priorities() {
		summary.ByPriority[priority] = 0
	}

	completed := 0
	for _, ticket := range snapshot {
		summary.ByStatus[ticket.Status]++
		summary.ByPriority[ticket.Priority]++
		if ticket.Assignee == "" {
			summary.Unassigned++
		}
		if ticket.Status.IsTerminal() {
			completed++
		}
	}
	if summary.Total > 0 {
		summary.CompletionRate = math.Round(float64(completed)/float64(summary.Total)*10000) / 100
	}
	return summary
}

// AssigneeLoad describes one assignee's share of the working set.
type AssigneeLoad struct {
	OpenCount           int     `json:"open_count"`
	InProgressCount     int     `json:"in_progress_count"`
	TotalEstimatedHours float64 `json:"total_estimated_hours"`
}

// ComputeWorkload maps each assignee to their load. Unassigned tickets are
// grouped under UnassignedKey rather than dropped.
func ComputeWorkload(snapshot []domain.Ticket) map[string]AssigneeLoad {
	workload := make(map[string]AssigneeLoad)
	for _, ticket := range snapshot {
		key := ticket.Assignee
		if key == "" {
			key = UnassignedKey
		}
		load := workload[key]
		switch ticket.Status {
		case domain.TicketStatusOpen:
			load.OpenCount++
		case domain.TicketStatusInProgress:
			load.InProgressCount++
		}
		if ticket.EstimatedHours != nil {
			load.TotalEstimatedHours += *ticket.EstimatedHours
		}
		workload[key] = load
	}
	return workload
}

// PriorityAnalysis breaks the snapshot down by priority.
type PriorityAnalysis struct {
	Distribution     map[domain.TicketPriority]int `json:"distribution"`
	HighPriorityOpen int                           `json:"high_priority_open"`
}

// ComputePriority reports the priority distribution plus the count of open
// high/critical tickets.
func ComputePriority(snapshot []domain.Ticket) PriorityAnalysis {
	analysis := PriorityAnalysis{Distribution: make(map[domain.TicketPriority]int, 4)}
	for _, priority := range domain.Priorities() {
		analysis.Distribution[priority] = 0
	}
	for _, ticket := range snapshot {
		analysis.Distribution[ticket.Priority]++
		if ticket.Status == domain.TicketStatusOpen &&
			(ticket.Priority == domain.TicketPriorityHigh || ticket.Priority == domain.TicketPriorityCritical) {
			analysis.HighPriorityOpen++
		}
	}
	return analysis
}

// TrendBucket selects the trends granularity.
type TrendBucket string

const (
	BucketDay  TrendBucket = "day"
	BucketWeek TrendBucket = "week"
)

// ParseBucket validates a raw bucket value, defaulting to day when empty.
func ParseBucket(raw string) (TrendBucket, error) {
	switch TrendBucket(raw) {
	case "", BucketDay:
		return BucketDay, nil
	case BucketWeek:
		return BucketWeek, nil
	default:
		return "", util.NewValidationError(
			fmt.Sprintf("invalid trend bucket %q", raw),
			map[string]any{"field": "bucket", "allowed": []TrendBucket{BucketDay, BucketWeek}},
		)
	}
}

// TrendPoint is one bucket row: tickets created in the bucket and tickets
// whose resolution (status resolved/closed, keyed by updated_at) fell in it.
type TrendPoint struct {
	BucketStart   time.Time `json:"bucket_start"`
	CreatedCount  int       `json:"created_count"`
	ResolvedCount int       `json:"resolved_count"`
}

// TrendRange requests dense, zero-filled output across [From, To].
type TrendRange struct {
	From time.Time
	To   time.Time
}

// ComputeTrends buckets the snapshot chronologically. Without a range only
// buckets with activity are emitted; with one, every bucket across the span
// appears, zero-filled where idle.
func ComputeTrends(snapshot []domain.Ticket, bucket TrendBucket, dense *TrendRange) []TrendPoint {
	created := make(map[time.Time]int)
	resolved := make(map[time.Time]int)
	for _, ticket := range snapshot {
		created[bucketStart(ticket.CreatedAt, bucket)]++
		if ticket.Status.IsTerminal() {
			resolved[bucketStart(ticket.UpdatedAt, bucket)]++
		}
	}

	starts := make([]time.Time, 0, len(created)+len(resolved))
	if dense != nil {
		for cursor := bucketStart(dense.From, bucket); !cursor.After(dense.To); cursor = nextBucket(cursor, bucket) {
			starts = append(starts, cursor)
		}
	} else {
		seen := make(map[time.Time]struct{}, len(created)+len(resolved))
		for start := range created {
			seen[start] = struct{}{}
		}
		for start := range resolved {
			seen[start] = struct{}{}
		}
		for start := range seen {
			starts = append(starts, start)
		}
		sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })
	}

	points := make([]TrendPoint, 0, len(starts))
	for _, start := range starts {
		points = append(points, TrendPoint{
			BucketStart:   start,
			CreatedCount:  created[start],
			ResolvedCount: resolved[start],
		})
	}
	return points
}

// bucketStart truncates to UTC midnight for day buckets and to the Monday of
// the containing week for week buckets.
func bucketStart(ts time.Time, bucket TrendBucket) time.Time {
	ts = ts.UTC()
	day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
	if bucket == BucketDay {
		return day
	}
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func nextBucket(start time.Time, bucket TrendBucket) time.Time {
	if bucket == BucketDay {
		return start.AddDate(0, 0, 1)
	}
	return start.AddDate(0, 0, 7)
}
