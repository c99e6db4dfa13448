package analyzer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-whisperer/internal/domain"
	"github.com/spec-kit/ticket-whisperer/internal/query"
	"github.com/spec-kit/ticket-whisperer/pkg/util"
)

func newAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	a, err := New("")
	require.NoError(t, err)
	return a
}

func TestNewRejectsBadPattern(t *testing.T) {
	_, err := New("[unclosed")
	require.Error(t, err)
	assert.True(t, util.IsValidation(err))
}

func TestExtractLinks(t *testing.T) {
	a := newAnalyzer(t)

	links := a.ExtractLinks("See https://x.test/a and notes")
	assert.Equal(t, []string{"https://x.test/a"}, links)

	assert.Empty(t, a.ExtractLinks("no links here"))
}

func TestExtractLinksCollapsesDuplicates(t *testing.T) {
	a := newAnalyzer(t)
	links := a.ExtractLinks("https://x.test/a then again https://x.test/a and http://y.test")
	assert.Equal(t, []string{"http://y.test", "https://x.test/a"}, links)
}

func TestExtractLinksExcludesBareDomains(t *testing.T) {
	a := newAnalyzer(t)
	assert.Empty(t, a.ExtractLinks("visit example.com or www.example.org for details"))
}

func TestExtractLinksTrimsTrailingPunctuation(t *testing.T) {
	a := newAnalyzer(t)
	links := a.ExtractLinks("logs at https://ci.test/run/7.")
	assert.Equal(t, []string{"https://ci.test/run/7"}, links)
}

func TestClassifyFailureSignalsEmptyIsValid(t *testing.T) {
	a := newAnalyzer(t)
	signals := a.ClassifyFailureSignals("Implement dark mode theme for better user experience")
	assert.True(t, signals.Empty())
}

func TestClassifyFailureSignalsOnPipelineDescription(t *testing.T) {
	a := newAnalyzer(t)
	description := "The validator failed during the nightly build process. " +
		"Full logs available at: https://jenkins.example.com/job/validator-pipeline/123/console. " +
		"Stack trace shows null pointer exception in ValidationEngine.validate() method."

	signals := a.ClassifyFailureSignals(description)
	require.False(t, signals.Empty())
	assert.Contains(t, signals.BuildIdentifiers, "job/validator-pipeline/123/console")
	assert.Contains(t, signals.Keywords, "null pointer")
	assert.Contains(t, signals.Keywords, "stack trace")
	assert.Contains(t, signals.Keywords, "exception")
}

func TestClassifyFailureSignalsErrorCodes(t *testing.T) {
	a := newAnalyzer(t)
	signals := a.ClassifyFailureSignals("deploy aborted with ERR-4021, retried and hit E500 again (ERR-4021)")
	assert.Equal(t, []string{"ERR-4021", "E500"}, signals.ErrorCodes)
}

func TestClassifyFailureSignalsStackTraceLines(t *testing.T) {
	a := newAnalyzer(t)
	description := "build crashed:\n" +
		"panic: runtime error: index out of range\n" +
		"goroutine 1 [running]:\n" +
		"\tat validator.Run(validator.go:42)\n" +
		"unrelated closing remark"

	signals := a.ClassifyFailureSignals(description)
	require.Len(t, signals.StackTraceLines, 3)
	assert.Equal(t, "panic: runtime error: index out of range", signals.StackTraceLines[0])
}

func TestClassifyFailureSignalsCustomIdentifierPattern(t *testing.T) {
	a, err := New(`\bCI-\d{4}\b`)
	require.NoError(t, err)
	signals := a.ClassifyFailureSignals("pipeline CI-0042 turned red")
	assert.Equal(t, []string{"CI-0042"}, signals.BuildIdentifiers)
}

func TestSearchValidatorFailures(t *testing.T) {
	a := newAnalyzer(t)
	now := time.Now()
	snapshot := []domain.Ticket{
		{
			ID: "TICKET-1", Title: "Add dark mode",
			Description: "theme work, nothing broken",
			Status:      domain.TicketStatusOpen, CreatedAt: now, Tags: []string{"ui"},
		},
		{
			ID: "TICKET-2", Title: "Validator failure in CI/CD pipeline",
			Description: "Stack trace shows null pointer exception, see https://jenkins.example.com/job/validator-pipeline/123/console",
			Status:      domain.TicketStatusOpen, CreatedAt: now, Tags: []string{"validator"},
		},
		{
			ID: "TICKET-3", Title: "Old flake",
			Description: "timeout connecting to db",
			Status:      domain.TicketStatusClosed, CreatedAt: now, Tags: []string{"flaky"},
		},
	}

	open := domain.TicketStatusOpen
	result := a.SearchValidatorFailures(snapshot, "validator", query.Filter{Status: &open})
	require.Len(t, result, 1)
	assert.Equal(t, "TICKET-2", result[0].ID)

	// no query: signal presence plus filter alone decide
	result = a.SearchValidatorFailures(snapshot, "", query.Filter{})
	require.Len(t, result, 2)
	assert.Equal(t, "TICKET-2", result[0].ID)
	assert.Equal(t, "TICKET-3", result[1].ID)

	// query can match on tags
	result = a.SearchValidatorFailures(snapshot, "flaky", query.Filter{})
	require.Len(t, result, 1)
	assert.Equal(t, "TICKET-3", result[0].ID)
}
