package analyzer

import (
	"testing"
	"time"

	"github.com/openock/contexture/internal/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday, January 15, 2025.
var wednesday = time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

func newTestAnalyzer(now time.Time) *Analyzer {
	return New(clock.Fixed{Time: now}, nil)
}

func TestAnalyzeIntent(t *testing.T) {
	a := newTestAnalyzer(wednesday)

	tests := []struct {
		query    string
		expected Intent
	}{
		{"Am I free tomorrow at 2 PM?", IntentAvailability},
		{"Do I have any conflicts on Friday?", IntentConflict},
		{"What meetings do I have this week?", IntentSchedule},
		{"Tell me about the standup", IntentDetails},
		{"hello there", IntentGeneral},
		// Availability wins over schedule when both match.
		{"Am I free for meetings tomorrow?", IntentAvailability},
	}

	for _, test := range tests {
		t.Run(test.query, func(t *testing.T) {
			analysis := a.Analyze(test.query)
			assert.Equal(t, test.expected, analysis.Intent)
		})
	}
}

func TestAnalyzeThisWeek(t *testing.T) {
	a := newTestAnalyzer(wednesday)

	analysis := a.Analyze("What meetings do I have this week?")

	assert.Equal(t, IntentSchedule, analysis.Intent)
	assert.True(t, analysis.IsThisWeek)
	assert.False(t, analysis.IsNextWeek)
	assert.True(t, analysis.TargetDate.IsZero(), "week queries should not set a target date")
	// Wednesday is ISO weekday 2, so 5 days remain in the week.
	assert.Equal(t, 5, analysis.DaysAhead)

	start, end := TimeRangeFor(analysis)
	assert.Equal(t, time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC), start, "week starts on Monday")
	assert.Equal(t, time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC), end, "window is half-open at next Monday")
}

func TestAnalyzeNextWeek(t *testing.T) {
	a := newTestAnalyzer(wednesday)

	analysis := a.Analyze("What's on my schedule next week?")

	assert.True(t, analysis.IsNextWeek)
	assert.False(t, analysis.IsThisWeek)

	start, end := TimeRangeFor(analysis)
	assert.Equal(t, time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 1, 27, 0, 0, 0, 0, time.UTC), end)
}

func TestAnalyzeAvailability(t *testing.T) {
	a := newTestAnalyzer(wednesday)

	analysis := a.Analyze("Am I free tomorrow at 2 PM?")

	assert.Equal(t, IntentAvailability, analysis.Intent)
	assert.Equal(t, time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC), analysis.TargetDate)
	require.NotNil(t, analysis.Time)
	assert.Equal(t, 14, analysis.Time.Hour)
	assert.Equal(t, 0, analysis.Time.Minute)

	start, end := TimeRangeFor(analysis)
	assert.Equal(t, analysis.TargetDate, start)
	assert.Equal(t, analysis.TargetDate.AddDate(0, 0, 1), end, "target date covers its full 24 hours")
}

func TestAnalyzeDaysAhead(t *testing.T) {
	a := newTestAnalyzer(wednesday)

	analysis := a.Analyze("What's coming up in the next 3 days?")
	assert.Equal(t, 3, analysis.DaysAhead)

	start, end := TimeRangeFor(analysis)
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 1, 18, 0, 0, 0, 0, time.UTC), end)
}

func TestAnalyzeItemCount(t *testing.T) {
	a := newTestAnalyzer(wednesday)

	tests := []struct {
		query    string
		expected int
	}{
		{"show my next 5 events", 5},
		{"list 3 meetings", 3},
		{"what's on my schedule", 0},
	}

	for _, test := range tests {
		t.Run(test.query, func(t *testing.T) {
			assert.Equal(t, test.expected, a.Analyze(test.query).ItemCount)
		})
	}
}

func TestAnalyzeDomain(t *testing.T) {
	a := newTestAnalyzer(wednesday)

	tests := []struct {
		query       string
		domain      Domain
		multiIntent bool
	}{
		{"What meetings do I have today?", DomainCalendar, false},
		{"Any open PRs on my repos?", DomainTracker, false},
		{"Do I have meetings about the github migration?", DomainBoth, true},
		{"how are you", DomainGeneral, false},
	}

	for _, test := range tests {
		t.Run(test.query, func(t *testing.T) {
			analysis := a.Analyze(test.query)
			assert.Equal(t, test.domain, analysis.Domain)
			assert.Equal(t, test.multiIntent, analysis.MultiIntent)
		})
	}
}

func TestTimeRangeForDefault(t *testing.T) {
	a := newTestAnalyzer(wednesday)

	start, end := TimeRangeFor(a.Analyze("anything interesting?"))

	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 1, 22, 0, 0, 0, 0, time.UTC), end, "default window is 7 days")
}

func TestTimeRangeForNilPanics(t *testing.T) {
	assert.Panics(t, func() {
		TimeRangeFor(nil)
	})
}

func TestTimeRangeForIsPure(t *testing.T) {
	analysis := newTestAnalyzer(wednesday).Analyze("this week")

	start1, end1 := TimeRangeFor(analysis)
	start2, end2 := TimeRangeFor(analysis)

	assert.Equal(t, start1, start2)
	assert.Equal(t, end1, end2)
}

func TestParseDateReference(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected time.Time
	}{
		{"today", "what's today", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"tomorrow", "free tomorrow?", time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC)},
		{"upcoming weekday", "see you friday", time.Date(2025, 1, 17, 0, 0, 0, 0, time.UTC)},
		{"past weekday wraps forward", "on monday", time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)},
		{"same weekday resolves to today", "this wednesday", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"next same weekday skips a week", "next wednesday", time.Date(2025, 1, 22, 0, 0, 0, 0, time.UTC)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			d, ok := ParseDateReference(test.text, wednesday)
			require.True(t, ok)
			assert.Equal(t, test.expected, d)
		})
	}

	t.Run("no date", func(t *testing.T) {
		_, ok := ParseDateReference("hello", wednesday)
		assert.False(t, ok)
	})
}

func TestParseDateReferenceMultipleWeekdays(t *testing.T) {
	// Two weekday names in one query resolve to the earlier weekday, on
	// every call.
	expected := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 100; i++ {
		d, ok := ParseDateReference("move the monday sync to friday", wednesday)
		require.True(t, ok)
		require.Equal(t, expected, d)
	}
}

func TestParseTimeReference(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected TimeOfDay
	}{
		{"12-hour pm", "at 2 PM", TimeOfDay{Hour: 14}},
		{"12-hour am", "at 9am", TimeOfDay{Hour: 9}},
		{"noon", "at 12 pm", TimeOfDay{Hour: 12}},
		{"midnight", "at 12 am", TimeOfDay{Hour: 0}},
		{"24-hour", "at 14:30", TimeOfDay{Hour: 14, Minute: 30}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			parsed, ok := ParseTimeReference(test.text)
			require.True(t, ok)
			assert.Equal(t, test.expected, parsed)
		})
	}

	t.Run("no time", func(t *testing.T) {
		_, ok := ParseTimeReference("sometime soon")
		assert.False(t, ok)
	})

	t.Run("invalid 24-hour is rejected", func(t *testing.T) {
		_, ok := ParseTimeReference("version 99:99")
		assert.False(t, ok)
	})
}
