// Package analyzer classifies free-text assistant queries into a structured
// analysis: intent, date and time references, entity mentions, and the data
// sources the query is about. Classification is deterministic keyword and
// pattern matching, not language understanding.
package analyzer

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/openock/contexture/internal/clock"
	"go.uber.org/zap"
)

// Intent is the classified purpose of a query.
type Intent string

const (
	IntentAvailability Intent = "availability_check"
	IntentConflict     Intent = "conflict_detection"
	IntentSchedule     Intent = "schedule_summary"
	IntentDetails      Intent = "event_details"
	IntentGeneral      Intent = "general"
)

// Domain identifies which sources a query is about.
type Domain string

const (
	DomainCalendar Domain = "calendar"
	DomainTracker  Domain = "tracker"
	DomainBoth     Domain = "both"
	DomainGeneral  Domain = "general"
)

// TimeOfDay is a clock time extracted from a query, in 24-hour form.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// QueryAnalysis is the immutable result of analyzing one query.
type QueryAnalysis struct {
	Query  string
	Intent Intent

	// Now is the reference moment the analysis was computed against. All
	// relative date phrases ("tomorrow", "this week") resolve from it.
	Now time.Time

	// TargetDate is midnight of the referenced date; zero when the query
	// names no single date. Week queries never set it.
	TargetDate time.Time

	// Time is the referenced clock time, or nil.
	Time *TimeOfDay

	// DaysAhead is the day window the query asks about, 0 when absent.
	DaysAhead int

	// ItemCount is the number of items the user asked for, 0 when absent.
	ItemCount int

	IsThisWeek bool
	IsNextWeek bool

	Entities    Entities
	MultiIntent bool
	Domain      Domain
}

// Analyzer turns raw queries into QueryAnalysis values. The clock is
// consulted on every Analyze call so relative phrases track the current
// moment; it is never cached.
type Analyzer struct {
	clock  clock.Clock
	logger *zap.Logger
}

// New creates an Analyzer. A nil clock defaults to the system clock and a
// nil logger to a no-op logger.
func New(clk clock.Clock, logger *zap.Logger) *Analyzer {
	if clk == nil {
		clk = clock.System{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		clock:  clk,
		logger: logger,
	}
}

var (
	availabilityKeywords = []string{
		"free", "available", "busy", "open", "have time",
		"can i", "am i free", "do i have time",
	}
	conflictKeywords = []string{
		"conflict", "overlap", "double booked", "clash",
		"conflicting", "overlapping",
	}
	scheduleKeywords = []string{
		"schedule", "meetings", "events", "appointments",
		"what do i have", "what's on", "what's coming up",
		"upcoming", "this week", "next week",
	}
	detailKeywords = []string{
		"details", "about", "tell me about", "what is",
		"when is", "where is",
	}

	calendarDomainKeywords = []string{
		"meeting", "schedule", "calendar", "event", "appointment",
		"available", "free", "busy", "conflict",
	}
	trackerDomainKeywords = []string{
		"github", "jira", "repo", "repository", "issue", "pr",
		"pull request", "commit", "deployment", "deploy", "sprint", "ticket",
	}

	daysAheadPattern = regexp.MustCompile(`(?:next\s+)?(\d+)\s+days?`)

	itemCountPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:next|first|upcoming)\s+(\d+)\s+events?`),
		regexp.MustCompile(`(\d+)\s+events?`),
		regexp.MustCompile(`(\d+)\s+meetings?`),
	}
)

// Analyze classifies a query. It never fails: a query that matches nothing
// comes back with IntentGeneral and empty parameters.
func (a *Analyzer) Analyze(query string) *QueryAnalysis {
	now := a.clock.Now()
	lower := strings.ToLower(query)

	analysis := &QueryAnalysis{
		Query:      query,
		Now:        now,
		Intent:     detectIntent(lower),
		IsThisWeek: strings.Contains(lower, "this week"),
		IsNextWeek: strings.Contains(lower, "next week"),
	}

	// Week queries set a day window instead of a single date, so explicit
	// date parsing is skipped for them.
	if !analysis.IsThisWeek && !analysis.IsNextWeek {
		if d, ok := ParseDateReference(query, now); ok {
			analysis.TargetDate = d
		}
	}

	if t, ok := ParseTimeReference(query); ok {
		analysis.Time = &t
	}

	analysis.DaysAhead = extractDaysAhead(lower)
	analysis.ItemCount = extractItemCount(lower)

	switch {
	case analysis.IsThisWeek:
		analysis.DaysAhead = 7 - isoWeekday(now)
	case analysis.IsNextWeek:
		toMonday := (7 - isoWeekday(now)) % 7
		if toMonday == 0 {
			toMonday = 7
		}
		analysis.DaysAhead = toMonday + 7
	}

	analysis.Entities = ExtractEntities(query)
	analysis.MultiIntent = detectMultiIntent(lower)
	analysis.Domain = detectDomain(lower)

	a.logger.Debug(
		"analyzed query",
		zap.String("intent", string(analysis.Intent)),
		zap.String("domain", string(analysis.Domain)),
		zap.Bool("multiIntent", analysis.MultiIntent),
	)

	return analysis
}

// detectIntent matches keyword categories in fixed priority order:
// availability > conflict > schedule > details. First match wins.
func detectIntent(lower string) Intent {
	if containsAny(lower, availabilityKeywords) {
		return IntentAvailability
	}
	if containsAny(lower, conflictKeywords) {
		return IntentConflict
	}
	if containsAny(lower, scheduleKeywords) {
		return IntentSchedule
	}
	if containsAny(lower, detailKeywords) {
		return IntentDetails
	}
	return IntentGeneral
}

func detectMultiIntent(lower string) bool {
	return containsAny(lower, calendarDomainKeywords) &&
		containsAny(lower, trackerDomainKeywords)
}

func detectDomain(lower string) Domain {
	hasCalendar := containsAny(lower, calendarDomainKeywords)
	hasTracker := containsAny(lower, trackerDomainKeywords)

	switch {
	case hasCalendar && hasTracker:
		return DomainBoth
	case hasCalendar:
		return DomainCalendar
	case hasTracker:
		return DomainTracker
	}
	return DomainGeneral
}

func extractDaysAhead(lower string) int {
	if m := daysAheadPattern.FindStringSubmatch(lower); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			return n
		}
	}
	if strings.Contains(lower, "next week") || strings.Contains(lower, "this week") {
		return 7
	}
	return 0
}

func extractItemCount(lower string) int {
	for _, pattern := range itemCountPatterns {
		if m := pattern.FindStringSubmatch(lower); m != nil {
			n, err := strconv.Atoi(m[1])
			if err == nil {
				return n
			}
		}
	}
	return 0
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// isoWeekday returns the weekday with Monday as 0 and Sunday as 6.
func isoWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
