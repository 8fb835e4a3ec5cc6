// Package formatter renders ranked, summarized records into the final
// text block handed to the language model. Rendering dispatches on the
// detected query intent and is fully deterministic: identical inputs
// always produce identical output.
package formatter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/openock/contexture/internal/analyzer"
	"github.com/openock/contexture/internal/source"
)

const (
	// maxAvailabilityEvents bounds how many events an availability answer lists.
	maxAvailabilityEvents = 5

	// maxConflictEvents bounds how many events a conflict answer lists.
	maxConflictEvents = 10

	// maxNoteLength caps rendered event notes.
	maxNoteLength = 100

	dateLayout = "Monday, January 02, 2006"
	timeLayout = "3:04 PM"
)

var sectionRule = strings.Repeat("-", 50)

// Options carries the optional extras a renderer may use.
type Options struct {
	// Availability reports whether the user is free at the requested
	// time, when an availability check was performed. Nil means unknown.
	Availability *bool

	// Conflicts are events that overlap the requested time.
	Conflicts []source.Event
}

// Formatter renders event context text. It is stateless; all inputs come
// through Format.
type Formatter struct{}

// New creates a Formatter.
func New() *Formatter {
	return &Formatter{}
}

// Format renders events into context text according to the analysis
// intent. It never fails: events without a parseable time are skipped from
// date grouping without affecting the rest of the batch.
func (f *Formatter) Format(events []source.Event, analysis *analyzer.QueryAnalysis, opts Options) string {
	switch analysis.Intent {
	case analyzer.IntentAvailability:
		return f.formatAvailability(events, analysis, opts)
	case analyzer.IntentConflict:
		return f.formatConflicts(events, analysis, opts)
	case analyzer.IntentSchedule:
		return f.formatScheduleSummary(events, analysis)
	default:
		return f.formatGeneral(events)
	}
}

func (f *Formatter) formatAvailability(events []source.Event, analysis *analyzer.QueryAnalysis, opts Options) string {
	var parts []string

	if !analysis.TargetDate.IsZero() {
		parts = append(parts, fmt.Sprintf("User's calendar for %s:", analysis.TargetDate.Format(dateLayout)))
	} else {
		parts = append(parts, "User's calendar:")
	}

	switch {
	case len(opts.Conflicts) > 0:
		parts = append(parts, fmt.Sprintf("Conflicting events: %s", eventList(opts.Conflicts, len(opts.Conflicts))))
		if opts.Availability != nil && !*opts.Availability {
			parts = append(parts, "User is NOT free at the requested time.")
		} else {
			parts = append(parts, "User has conflicting events.")
		}
	case len(events) > 0:
		parts = append(parts, fmt.Sprintf("Events: %s", eventList(events, maxAvailabilityEvents)))
		if opts.Availability != nil && *opts.Availability {
			parts = append(parts, "User is free at the requested time.")
		} else {
			parts = append(parts, "User has events scheduled.")
		}
	default:
		parts = append(parts, "No events found.")
		if opts.Availability != nil && *opts.Availability {
			parts = append(parts, "User is free.")
		}
	}

	return strings.Join(parts, " ")
}

func (f *Formatter) formatConflicts(events []source.Event, analysis *analyzer.QueryAnalysis, opts Options) string {
	var parts []string

	if !analysis.TargetDate.IsZero() {
		parts = append(parts, fmt.Sprintf("Conflict check for %s:", analysis.TargetDate.Format(dateLayout)))
	} else {
		parts = append(parts, "Conflict check:")
	}

	if len(opts.Conflicts) > 0 {
		parts = append(parts, fmt.Sprintf("Found %d conflict(s): %s",
			len(opts.Conflicts), eventList(opts.Conflicts, len(opts.Conflicts))))
		return strings.Join(parts, " ")
	}

	parts = append(parts, "No conflicts detected.")
	if len(events) > 0 {
		parts = append(parts, fmt.Sprintf("You have %d event(s) scheduled:", len(events)))

		lines := make([]string, 0, len(events))
		for _, e := range head(events, maxConflictEvents) {
			line := fmt.Sprintf("'%s' (%s)", title(e), EventTime(e))
			if e.CalendarName != "" {
				line += fmt.Sprintf(" [%s]", e.CalendarName)
			}
			lines = append(lines, line)
		}
		parts = append(parts, strings.Join(lines, "; "))
	}

	return strings.Join(parts, " ")
}

func (f *Formatter) formatScheduleSummary(events []source.Event, analysis *analyzer.QueryAnalysis) string {
	var parts []string

	switch {
	case !analysis.TargetDate.IsZero():
		parts = append(parts, fmt.Sprintf("SCHEDULE FOR: %s\n", analysis.TargetDate.Format(dateLayout)))
	case analysis.IsThisWeek:
		parts = append(parts, "SCHEDULE FOR: THIS WEEK\n")
	case analysis.IsNextWeek:
		parts = append(parts, "SCHEDULE FOR: NEXT WEEK\n")
	case analysis.DaysAhead > 0:
		parts = append(parts, fmt.Sprintf("SCHEDULE FOR: NEXT %d DAYS\n", analysis.DaysAhead))
	default:
		parts = append(parts, "UPCOMING SCHEDULE\n")
	}

	if len(events) == 0 {
		parts = append(parts, "No events scheduled for this period.")
		return strings.Join(parts, "\n")
	}

	parts = append(parts, formatByDate(events)...)
	parts = append(parts, fmt.Sprintf("\nTOTAL EVENTS: %d", len(events)))

	return strings.Join(parts, "\n")
}

func (f *Formatter) formatGeneral(events []source.Event) string {
	if len(events) == 0 {
		return "No calendar events found for the requested time period."
	}

	parts := []string{fmt.Sprintf("CALENDAR EVENTS (%d total):\n", len(events))}
	parts = append(parts, formatByDate(events)...)

	return strings.Join(parts, "\n")
}

// formatByDate groups events by calendar date and renders each group
// sorted by start time. Events without a parseable time are skipped.
func formatByDate(events []source.Event) []string {
	byDate := make(map[string][]source.Event)
	for _, e := range events {
		t, ok := e.RecordTime()
		if !ok {
			continue
		}
		key := t.Format("2006-01-02")
		byDate[key] = append(byDate[key], e)
	}

	keys := make([]string, 0, len(byDate))
	for key := range byDate {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var parts []string
	for _, key := range keys {
		group := byDate[key]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Start.Before(group[j].Start)
		})

		day, _ := time.Parse("2006-01-02", key)
		parts = append(parts, fmt.Sprintf("\n%s:", day.Format(dateLayout)), sectionRule)

		for i, e := range group {
			line := fmt.Sprintf("  %d. %s - %s", i+1, title(e), EventTime(e))
			if e.CalendarName != "" {
				line += fmt.Sprintf(" [Calendar: %s]", e.CalendarName)
			}
			if e.Location != "" {
				line += fmt.Sprintf(" | Location: %s", e.Location)
			}
			if e.Description != "" {
				line += fmt.Sprintf(" | Notes: %s", truncate(e.Description, maxNoteLength))
			}
			parts = append(parts, line)
		}
	}

	return parts
}

// EventTime renders an event's start/end time for display: "2:00 PM -
// 3:00 PM", "All day" for date-only events, or "Time TBD" when the source
// provided no parseable time.
func EventTime(e source.Event) string {
	if e.AllDay {
		return "All day"
	}
	start, ok := e.RecordTime()
	if !ok {
		return "Time TBD"
	}
	if !e.End.IsZero() {
		return fmt.Sprintf("%s - %s", start.Format(timeLayout), e.End.Format(timeLayout))
	}
	return start.Format(timeLayout)
}

// EventSummary renders a single event as a one-line summary.
func EventSummary(e source.Event) string {
	parts := []string{fmt.Sprintf("'%s' - %s", title(e), EventTime(e))}
	if e.Location != "" {
		parts = append(parts, fmt.Sprintf("Location: %s", e.Location))
	}
	if e.Description != "" {
		parts = append(parts, fmt.Sprintf("Description: %s", truncate(e.Description, maxNoteLength)))
	}
	return strings.Join(parts, " | ")
}

func eventList(events []source.Event, max int) string {
	lines := make([]string, 0, max)
	for _, e := range head(events, max) {
		lines = append(lines, fmt.Sprintf("'%s' (%s)", title(e), EventTime(e)))
	}
	return strings.Join(lines, ", ")
}

func title(e source.Event) string {
	if e.Title == "" {
		return "Untitled Event"
	}
	return e.Title
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

func head[T any](items []T, n int) []T {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
