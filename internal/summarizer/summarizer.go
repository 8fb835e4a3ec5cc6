// Package summarizer reduces record lists and rendered context text to fit
// a token budget. Reduction is lossy by design; whenever text is dropped
// the output carries an explicit truncation marker so downstream consumers
// know the context is incomplete.
package summarizer

import (
	"sort"
	"time"

	"github.com/openock/contexture/internal/clock"
	"github.com/openock/contexture/internal/source"
)

// Priority selects how records are ordered before truncation.
type Priority string

const (
	// PriorityTime keeps records in chronological order, soonest first.
	PriorityTime Priority = "time"

	// PriorityRecent keeps records ordered by distance from now,
	// farthest first.
	PriorityRecent Priority = "recent"
)

const (
	// charsPerToken is the rough character cost of one LLM token.
	charsPerToken = 4

	// tokensPerItem is the rough token cost of one summarized record,
	// used to auto-size item limits from the token budget.
	tokensPerItem = 25

	// maxNoteLength caps free-text fields on summarized records.
	maxNoteLength = 200

	// maxDigestItems caps per-type record digests.
	maxDigestItems = 10
)

// Summarizer reduces records and text under a token budget.
type Summarizer struct {
	maxTokens int
	clock     clock.Clock
}

// New creates a Summarizer with the given token budget. A non-positive
// budget defaults to 2000 tokens; a nil clock defaults to the system clock.
func New(maxTokens int, clk clock.Clock) *Summarizer {
	if maxTokens <= 0 {
		maxTokens = 2000
	}
	if clk == nil {
		clk = clock.System{}
	}
	return &Summarizer{
		maxTokens: maxTokens,
		clock:     clk,
	}
}

// SummarizeEvents returns at most maxItems events ordered by the given
// priority, each projected onto a reduced field set with its description
// truncated. maxItems of 0 auto-computes a limit from the token budget.
func (s *Summarizer) SummarizeEvents(events []source.Event, maxItems int, priority Priority) []source.Event {
	if len(events) == 0 {
		return nil
	}

	if maxItems <= 0 {
		maxItems = s.maxTokens / tokensPerItem
	}
	if maxItems > len(events) {
		maxItems = len(events)
	}

	sorted := make([]source.Event, len(events))
	copy(sorted, events)

	switch priority {
	case PriorityTime:
		sort.SliceStable(sorted, func(i, j int) bool {
			return eventSortTime(sorted[i]).Before(eventSortTime(sorted[j]))
		})
	case PriorityRecent:
		now := s.clock.Now()
		sort.SliceStable(sorted, func(i, j int) bool {
			di := eventSortTime(sorted[i]).Sub(now).Abs()
			dj := eventSortTime(sorted[j]).Sub(now).Abs()
			return di > dj
		})
	}

	summarized := make([]source.Event, 0, maxItems)
	for _, e := range sorted[:maxItems] {
		summarized = append(summarized, simplifyEvent(e))
	}
	return summarized
}

// simplifyEvent drops verbose content from an event, keeping only the
// fields the formatter renders.
func simplifyEvent(e source.Event) source.Event {
	return source.Event{
		Title:        e.Title,
		Description:  truncate(e.Description, maxNoteLength),
		Location:     e.Location,
		CalendarName: e.CalendarName,
		Start:        e.Start,
		End:          e.End,
		AllDay:       e.AllDay,
	}
}

// eventSortTime returns the event's sort key; events without a parseable
// time sort to the beginning rather than being dropped.
func eventSortTime(e source.Event) time.Time {
	if start, ok := e.RecordTime(); ok {
		return start
	}
	return time.Time{}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
