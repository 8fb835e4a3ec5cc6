package correlator

import (
	"fmt"
	"strings"
	"time"

	"github.com/openock/contexture/internal/source"
)

const (
	maxFormattedLinks       = 5
	maxFormattedSuggestions = 3
	maxFormattedInsights    = 3
)

var sectionRule = strings.Repeat("-", 50)

func formatMeetingSuggestion(event source.Event, repoName string, openPRs int, now time.Time) string {
	return fmt.Sprintf(
		"Upcoming meeting '%s' (%s) mentions %s. There are %d open PR(s) that might be relevant.",
		event.Title, humanizeUntil(event.Start, now), repoName, openPRs,
	)
}

func formatFreeTimeSuggestion(openPRs int) string {
	return fmt.Sprintf(
		"You have %d open PR(s) and appear to have free time. Consider reviewing them.",
		openPRs,
	)
}

func formatActivityInsight(recentEvents, repoCount int) string {
	return fmt.Sprintf(
		"You have %d recent calendar event(s) and %d active repository/ies. "+
			"Consider linking meeting notes to tracker issues.",
		recentEvents, repoCount,
	)
}

func formatWorkloadInsight(issueCount, prCount int) string {
	return fmt.Sprintf(
		"You have %d open issue(s) and %d open PR(s). "+
			"Consider prioritizing based on upcoming meetings.",
		issueCount, prCount,
	)
}

// Format renders a correlation into a deterministic text block for the
// assembled context. Empty correlations render as an empty string.
func (c Correlation) Format() string {
	var parts []string

	if len(c.Links) > 0 {
		parts = append(parts, "CALENDAR-TRACKER CORRELATIONS:", sectionRule)
		for _, link := range head(c.Links, maxFormattedLinks) {
			name := link.Repo
			if name == "" {
				name = link.Project
			}
			line := fmt.Sprintf("  - %s -> %s", link.Event, name)
			if link.RelatedIssues > 0 {
				line += fmt.Sprintf(" (%d open issues)", link.RelatedIssues)
			}
			if link.RelatedPRs > 0 {
				line += fmt.Sprintf(" (%d open PRs)", link.RelatedPRs)
			}
			if len(link.MatchingRepos) > 0 {
				line += fmt.Sprintf(" (possibly %s)", strings.Join(link.MatchingRepos, ", "))
			}
			parts = append(parts, line)
		}
		parts = append(parts, "")
	}

	if len(c.Suggestions) > 0 {
		parts = append(parts, "SUGGESTIONS:", sectionRule)
		for _, s := range head(c.Suggestions, maxFormattedSuggestions) {
			parts = append(parts, "  * "+s)
		}
		parts = append(parts, "")
	}

	if len(c.Insights) > 0 {
		parts = append(parts, "INSIGHTS:", sectionRule)
		for _, s := range head(c.Insights, maxFormattedInsights) {
			parts = append(parts, "  * "+s)
		}
		parts = append(parts, "")
	}

	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "\n")
}
