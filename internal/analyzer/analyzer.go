package analyzer

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/spec-kit/ticket-whisperer/internal/domain"
	"github.com/spec-kit/ticket-whisperer/internal/query"
	"github.com/spec-kit/ticket-whisperer/pkg/util"
)

// DefaultIdentifierPattern recognizes build/job identifiers such as
// "build-1423", "job/validator-pipeline/123" or "BUILD#77".
const DefaultIdentifierPattern = `(?i)\b(?:build|job)[-/#][A-Za-z0-9][A-Za-z0-9_/-]*`

// urlPattern requires a scheme and at least one host character; bare domains
// without a scheme are deliberately not matched.
var urlPattern = regexp.MustCompile(`https?://[^\s<>"{}|\\^` + "`" + `\[\]]+`)

var errorCodePattern = regexp.MustCompile(`(?i)\b(?:ERR|ERROR|E)[-_]?\d{2,}\b`)

// failureKeywords are literal markers that flag a failure-flavored description.
var failureKeywords = []string{
	"timeout",
	"connection",
	"assertion",
	"null pointer",
	"stack trace",
	"exception",
}

var stackTraceLine = regexp.MustCompile(
	`^\s+at\s|^\s+File "|^Traceback \(most recent call last\)|^goroutine \d+|^panic:|^caused by:`)

// Analyzer extracts links and failure signals from ticket descriptions.
type Analyzer struct {
	identifierPattern *regexp.Regexp
}

// New builds an Analyzer. An empty pattern selects DefaultIdentifierPattern;
// an uncompilable one is a ValidationError.
func New(identifierPattern string) (*Analyzer, error) {
	if identifierPattern == "" {
		identifierPattern = DefaultIdentifierPattern
	}
	compiled, err := regexp.Compile(identifierPattern)
	if err != nil {
		return nil, util.NewValidationError(
			fmt.Sprintf("invalid identifier pattern %q: %v", identifierPattern, err),
			map[string]any{"field": "identifier_pattern"},
		)
	}
	return &Analyzer{identifierPattern: compiled}, nil
}

// ExtractLinks scans the description for well-formed http/https URLs,
// collapsing duplicates. Output is sorted; link order carries no meaning.
func (a *Analyzer) ExtractLinks(description string) []string {
	matches := urlPattern.FindAllString(description, -1)
	seen := make(map[string]struct{}, len(matches))
	links := make([]string, 0, len(matches))
	for _, match := range matches {
		match = strings.TrimRight(match, ".,;:!?)")
		if _, dup := seen[match]; dup {
			continue
		}
		seen[match] = struct{}{}
		links = append(links, match)
	}
	sort.Strings(links)
	return links
}

// FailureSignals is the structured result of failure classification. All
// slices empty means no signal was found, which is a valid outcome.
type FailureSignals struct {
	BuildIdentifiers []string `json:"build_identifiers"`
	ErrorCodes       []string `json:"error_codes"`
	Keywords         []string `json:"keywords"`
	StackTraceLines  []string `json:"stack_trace_lines"`
}

// Empty reports whether no signal of any kind was found.
func (f FailureSignals) Empty() bool {
	return len(f.BuildIdentifiers) == 0 && len(f.ErrorCodes) == 0 &&
		len(f.Keywords) == 0 && len(f.StackTraceLines) == 0
}

// ClassifyFailureSignals extracts build/job identifiers, error-code tokens,
// failure keywords and stack-trace-like lines from the description.
func (a *Analyzer) ClassifyFailureSignals(description string) FailureSignals {
	var signals FailureSignals

	signals.BuildIdentifiers = dedupe(a.identifierPattern.FindAllString(description, -1))
	signals.ErrorCodes = dedupe(errorCodePattern.FindAllString(description, -1))

	lower := strings.ToLower(description)
	for _, keyword := range failureKeywords {
		if strings.Contains(lower, keyword) {
			signals.Keywords = append(signals.Keywords, keyword)
		}
	}

	for _, line := range strings.Split(description, "\n") {
		if stackTraceLine.MatchString(line) {
			signals.StackTraceLines = append(signals.StackTraceLines, strings.TrimSpace(line))
		}
	}
	return signals
}

// SearchValidatorFailures filters the snapshot down to tickets whose
// description carries at least one failure signal and which match both the
// predicate filter and the free-text query (title, description or tags).
// Snapshot order is preserved.
func (a *Analyzer) SearchValidatorFailures(snapshot []domain.Ticket, queryText string, filter query.Filter) []domain.Ticket {
	result := make([]domain.Ticket, 0, len(snapshot))
	for _, ticket := range snapshot {
		if !filter.Matches(ticket) {
			continue
		}
		if a.ClassifyFailureSignals(ticket.Description).Empty() {
			continue
		}
		if queryText != "" && !matchesQuery(ticket, queryText) {
			continue
		}
		result = append(result, ticket)
	}
	return result
}

func matchesQuery(ticket domain.Ticket, queryText string) bool {
	if query.MatchText(ticket, queryText) {
		return true
	}
	needle := strings.ToLower(queryText)
	for _, tag := range ticket.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

func dedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, value := range values {
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		result = append(result, value)
	}
	return result
}
