package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-whisperer/internal/domain"
	"github.com/spec-kit/ticket-whisperer/pkg/util"
)

func hoursPtr(h float64) *float64 { return &h }

func ticketAt(status domain.TicketStatus, priority domain.TicketPriority, assignee string, created, updated time.Time) domain.Ticket {
	return domain.Ticket{
		Status: status, Priority: priority, Assignee: assignee,
		CreatedAt: created, UpdatedAt: updated,
	}
}

func TestSummaryCountsSumToTotal(t *testing.T) {
	now := time.Now()
	snapshot := []domain.Ticket{
		ticketAt(domain.TicketStatusOpen, domain.TicketPriorityHigh, "", now, now),
		ticketAt(domain.TicketStatusOpen, domain.TicketPriorityLow, "bob", now, now),
		ticketAt(domain.TicketStatusInProgress, domain.TicketPriorityMedium, "bob", now, now),
		ticketAt(domain.TicketStatusResolved, domain.TicketPriorityCritical, "carol", now, now),
		ticketAt(domain.TicketStatusClosed, domain.TicketPriorityMedium, "", now, now),
	}
	summary := ComputeSummary(snapshot)

	assert.Equal(t, 5, summary.Total)

	statusTotal := 0
	for _, status := range domain.Statuses() {
		statusTotal += summary.ByStatus[status]
	}
	assert.Equal(t, summary.Total, statusTotal)

	priorityTotal := 0
	for _, priority := range domain.Priorities() {
		priorityTotal += summary.ByPriority[priority]
	}
	assert.Equal(t, summary.Total, priorityTotal)

	assert.Equal(t, 2, summary.Unassigned)
	assert.Equal(t, 2, summary.ByStatus[domain.TicketStatusOpen])
	assert.Equal(t, 40.0, summary.CompletionRate)
}

func TestSummaryOfEmptySnapshot(t *testing.T) {
	summary := ComputeSummary(nil)
	assert.Equal(t, 0, summary.Total)
	assert.Equal(t, 0.0, summary.CompletionRate)
	// every bucket still present
	assert.Len(t, summary.ByStatus, 4)
	assert.Len(t, summary.ByPriority, 4)
}

func TestWorkloadGroupsUnassignedExplicitly(t *testing.T) {
	now := time.Now()
	snapshot := []domain.Ticket{
		{Status: domain.TicketStatusOpen, Assignee: "bob", EstimatedHours: hoursPtr(3), CreatedAt: now, UpdatedAt: now},
		{Status: domain.TicketStatusInProgress, Assignee: "bob", EstimatedHours: hoursPtr(2.5), CreatedAt: now, UpdatedAt: now},
		{Status: domain.TicketStatusResolved, Assignee: "bob", CreatedAt: now, UpdatedAt: now},
		{Status: domain.TicketStatusOpen, EstimatedHours: hoursPtr(8), CreatedAt: now, UpdatedAt: now},
	}
	workload := ComputeWorkload(snapshot)

	require.Contains(t, workload, "bob")
	assert.Equal(t, 1, workload["bob"].OpenCount)
	assert.Equal(t, 1, workload["bob"].InProgressCount)
	assert.Equal(t, 5.5, workload["bob"].TotalEstimatedHours)

	require.Contains(t, workload, UnassignedKey)
	assert.Equal(t, 1, workload[UnassignedKey].OpenCount)
	assert.Equal(t, 8.0, workload[UnassignedKey].TotalEstimatedHours)
}

func TestPriorityAnalysis(t *testing.T) {
	now := time.Now()
	snapshot := []domain.Ticket{
		ticketAt(domain.TicketStatusOpen, domain.TicketPriorityCritical, "", now, now),
		ticketAt(domain.TicketStatusOpen, domain.TicketPriorityHigh, "", now, now),
		ticketAt(domain.TicketStatusResolved, domain.TicketPriorityHigh, "", now, now),
		ticketAt(domain.TicketStatusOpen, domain.TicketPriorityLow, "", now, now),
	}
	analysis := ComputePriority(snapshot)
	assert.Equal(t, 2, analysis.Distribution[domain.TicketPriorityHigh])
	assert.Equal(t, 2, analysis.HighPriorityOpen)
}

func TestParseBucket(t *testing.T) {
	bucket, err := ParseBucket("")
	require.NoError(t, err)
	assert.Equal(t, BucketDay, bucket)

	bucket, err = ParseBucket("week")
	require.NoError(t, err)
	assert.Equal(t, BucketWeek, bucket)

	_, err = ParseBucket("month")
	require.Error(t, err)
	assert.True(t, util.IsValidation(err))
}

func TestTrendsDayBucketsAreSparseAndChronological(t *testing.T) {
	day1 := time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC)
	day3 := time.Date(2026, 2, 4, 17, 30, 0, 0, time.UTC)
	snapshot := []domain.Ticket{
		ticketAt(domain.TicketStatusOpen, domain.TicketPriorityLow, "", day1, day1),
		ticketAt(domain.TicketStatusOpen, domain.TicketPriorityLow, "", day1, day1),
		// created day1, resolved day3
		ticketAt(domain.TicketStatusResolved, domain.TicketPriorityLow, "", day1, day3),
	}
	points := ComputeTrends(snapshot, BucketDay, nil)

	require.Len(t, points, 2)
	assert.Equal(t, time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC), points[0].BucketStart)
	assert.Equal(t, 3, points[0].CreatedCount)
	assert.Equal(t, 0, points[0].ResolvedCount)

	assert.Equal(t, time.Date(2026, 2, 4, 0, 0, 0, 0, time.UTC), points[1].BucketStart)
	assert.Equal(t, 0, points[1].CreatedCount)
	assert.Equal(t, 1, points[1].ResolvedCount)
}

func TestTrendsWeekBucketStartsOnMonday(t *testing.T) {
	// 2026-02-05 is a Thursday; its week starts Monday 2026-02-02.
	thursday := time.Date(2026, 2, 5, 8, 0, 0, 0, time.UTC)
	snapshot := []domain.Ticket{
		ticketAt(domain.TicketStatusOpen, domain.TicketPriorityLow, "", thursday, thursday),
	}
	points := ComputeTrends(snapshot, BucketWeek, nil)
	require.Len(t, points, 1)
	assert.Equal(t, time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC), points[0].BucketStart)
}

func TestTrendsDenseRangeZeroFills(t *testing.T) {
	day1 := time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC)
	snapshot := []domain.Ticket{
		ticketAt(domain.TicketStatusOpen, domain.TicketPriorityLow, "", day1, day1),
	}
	span := &TrendRange{
		From: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 2, 4, 0, 0, 0, 0, time.UTC),
	}
	points := ComputeTrends(snapshot, BucketDay, span)

	require.Len(t, points, 4)
	assert.Equal(t, 0, points[0].CreatedCount)
	assert.Equal(t, 1, points[1].CreatedCount)
	assert.Equal(t, 0, points[2].CreatedCount)
	assert.Equal(t, 0, points[3].CreatedCount)
	for i := 1; i < len(points); i++ {
		assert.True(t, points[i].BucketStart.After(points[i-1].BucketStart))
	}
}

func TestTrendsIdempotentOverUnchangedSnapshot(t *testing.T) {
	day := time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC)
	snapshot := []domain.Ticket{
		ticketAt(domain.TicketStatusClosed, domain.TicketPriorityLow, "", day, day),
	}
	first := ComputeTrends(snapshot, BucketDay, nil)
	second := ComputeTrends(snapshot, BucketDay, nil)
	assert.Equal(t, first, second)
}
