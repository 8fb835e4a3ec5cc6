package assembler

import (
	"time"

	"github.com/openock/contexture/internal/analyzer"
	"github.com/openock/contexture/internal/formatter"
	"github.com/openock/contexture/internal/source"
)

// defaultSlotDuration is the assumed length of a requested time slot when
// the query names a clock time ("am I free at 2 PM?").
const defaultSlotDuration = time.Hour

// formatterOptions derives the availability verdict and conflict set the
// formatter renders for availability and conflict queries.
func formatterOptions(analysis *analyzer.QueryAnalysis, events []source.Event) formatter.Options {
	switch analysis.Intent {
	case analyzer.IntentAvailability:
		if analysis.Time == nil {
			return formatter.Options{}
		}

		day := analysis.TargetDate
		if day.IsZero() {
			now := analysis.Now
			day = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		}
		slotStart := day.Add(
			time.Duration(analysis.Time.Hour)*time.Hour +
				time.Duration(analysis.Time.Minute)*time.Minute)
		slotEnd := slotStart.Add(defaultSlotDuration)

		conflicts := overlapping(events, slotStart, slotEnd)
		free := len(conflicts) == 0
		return formatter.Options{Availability: &free, Conflicts: conflicts}

	case analyzer.IntentConflict:
		return formatter.Options{Conflicts: mutualOverlaps(events)}
	}

	return formatter.Options{}
}

// overlapping returns the events that intersect the half-open [start, end)
// slot. All-day events conflict with any slot on their date.
func overlapping(events []source.Event, start, end time.Time) []source.Event {
	var conflicts []source.Event
	for _, e := range events {
		if e.Start.IsZero() {
			continue
		}
		if e.AllDay {
			if sameDate(e.Start, start) {
				conflicts = append(conflicts, e)
			}
			continue
		}
		eventEnd := e.End
		if eventEnd.IsZero() {
			eventEnd = e.Start.Add(defaultSlotDuration)
		}
		if e.Start.Before(end) && eventEnd.After(start) {
			conflicts = append(conflicts, e)
		}
	}
	return conflicts
}

// mutualOverlaps returns every event that overlaps at least one other
// event, in input order without duplicates.
func mutualOverlaps(events []source.Event) []source.Event {
	involved := make([]bool, len(events))
	for i := range events {
		for j := i + 1; j < len(events); j++ {
			if eventsOverlap(events[i], events[j]) {
				involved[i] = true
				involved[j] = true
			}
		}
	}

	var conflicts []source.Event
	for i, e := range events {
		if involved[i] {
			conflicts = append(conflicts, e)
		}
	}
	return conflicts
}

func eventsOverlap(a, b source.Event) bool {
	if a.Start.IsZero() || b.Start.IsZero() || a.AllDay || b.AllDay {
		return false
	}
	aEnd := a.End
	if aEnd.IsZero() {
		aEnd = a.Start.Add(defaultSlotDuration)
	}
	bEnd := b.End
	if bEnd.IsZero() {
		bEnd = b.Start.Add(defaultSlotDuration)
	}
	return a.Start.Before(bEnd) && b.Start.Before(aEnd)
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
