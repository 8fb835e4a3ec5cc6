package analyzer

import "time"

// TimeRangeFor maps an analysis to the half-open [start, end) window its
// query is about:
//
//   - "this week"  → [Monday 00:00 of the current week, the next Monday)
//   - "next week"  → [next Monday 00:00, the Monday after)
//   - a target date → that date's full 24 hours
//   - an N-day window → [start of today, +N days)
//   - otherwise    → the next 7 days from the start of today
//
// Weeks start on Monday and include Sunday. The function is pure and total
// for any analysis produced by Analyze; a nil analysis is an upstream
// contract violation and panics.
func TimeRangeFor(analysis *QueryAnalysis) (time.Time, time.Time) {
	if analysis == nil {
		panic("analyzer: TimeRangeFor called with nil analysis")
	}

	now := analysis.Now

	if analysis.IsThisWeek {
		monday := startOfDay(now.AddDate(0, 0, -isoWeekday(now)))
		return monday, monday.AddDate(0, 0, 7)
	}

	if analysis.IsNextWeek {
		toMonday := (7 - isoWeekday(now)) % 7
		if toMonday == 0 {
			toMonday = 7
		}
		monday := startOfDay(now.AddDate(0, 0, toMonday))
		return monday, monday.AddDate(0, 0, 7)
	}

	if !analysis.TargetDate.IsZero() {
		start := startOfDay(analysis.TargetDate)
		return start, start.AddDate(0, 0, 1)
	}

	if analysis.DaysAhead > 0 {
		start := startOfDay(now)
		return start, start.AddDate(0, 0, analysis.DaysAhead)
	}

	start := startOfDay(now)
	return start, start.AddDate(0, 0, 7)
}
