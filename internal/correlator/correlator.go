// Package correlator cross-references records from different sources,
// linking calendar events that mention repositories or projects to the
// open work in those repositories. It is a stateless transform over
// already-fetched records: nothing here is cached because regenerating a
// correlation from cached raw records is cheap.
package correlator

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/openock/contexture/internal/analyzer"
	"github.com/openock/contexture/internal/clock"
	"github.com/openock/contexture/internal/source"
	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
)

const (
	// workloadInsightThreshold is the combined open-item count above which
	// a workload insight is emitted.
	workloadInsightThreshold = 10

	// maxUpcomingChecked bounds how many upcoming events are scanned for
	// suggestion generation.
	maxUpcomingChecked = 5

	// maxLinkedItems bounds the open issues/PRs attached to a single link.
	maxLinkedItems = 3

	// recentWindowDays defines how far back an event still counts as recent.
	recentWindowDays = 7
)

// Link connects one calendar event to repository activity it mentions.
// Either Repo or Project is set, never both.
type Link struct {
	Event     string
	EventTime time.Time

	// Repo is the mentioned owner/name repository, with related activity.
	Repo          string
	RelatedIssues int
	RelatedPRs    int
	OpenIssues    []source.Issue
	OpenPRs       []source.PullRequest

	// Project is a mentioned project-like name with the repositories it
	// plausibly refers to.
	Project       string
	MatchingRepos []string
}

// Correlation is the derived cross-source result: links plus free-text
// suggestions and insights. Produced fresh per call.
type Correlation struct {
	Links       []Link
	Suggestions []string
	Insights    []string
}

// Correlator cross-references records between sources.
type Correlator struct {
	clock clock.Clock
}

// New creates a Correlator. A nil clock defaults to the system clock.
func New(clk clock.Clock) *Correlator {
	if clk == nil {
		clk = clock.System{}
	}
	return &Correlator{clock: clk}
}

// Correlate links calendar events against repository activity. All inputs
// are read-only; the result is derived entirely from them and the current
// time.
func (c *Correlator) Correlate(
	events []source.Event,
	repos []source.Repository,
	issues []source.Issue,
	prs []source.PullRequest,
) Correlation {
	var result Correlation

	index := repoIndex(repos)
	shortNames := lo.Map(repos, func(r source.Repository, _ int) string {
		return r.Name
	})

	for _, event := range events {
		entities := analyzer.ExtractEntities(event.Title + " " + event.Description)

		for _, repoName := range entities.Repos {
			repo, found := index[strings.ToLower(repoName)]
			if !found {
				continue
			}

			related := relatedActivity(repo, issues, prs)
			result.Links = append(result.Links, Link{
				Event:         event.Title,
				EventTime:     event.Start,
				Repo:          repoName,
				RelatedIssues: len(related.issues),
				RelatedPRs:    len(related.prs),
				OpenIssues:    head(related.issues, maxLinkedItems),
				OpenPRs:       head(related.prs, maxLinkedItems),
			})
		}

		for _, project := range entities.Projects {
			matching := matchProject(project, repos, shortNames)
			if len(matching) == 0 {
				continue
			}
			result.Links = append(result.Links, Link{
				Event:         event.Title,
				EventTime:     event.Start,
				Project:       project,
				MatchingRepos: matching,
			})
		}
	}

	now := c.clock.Now()
	result.Suggestions = c.suggestions(events, issues, prs, now)
	result.Insights = c.insights(events, repos, issues, prs, now)

	return result
}

type activity struct {
	issues []source.Issue
	prs    []source.PullRequest
}

func relatedActivity(repo source.Repository, issues []source.Issue, prs []source.PullRequest) activity {
	full := strings.ToLower(repo.FullName)
	return activity{
		issues: lo.Filter(issues, func(i source.Issue, _ int) bool {
			return i.State == "open" && strings.ToLower(i.Repository) == full
		}),
		prs: lo.Filter(prs, func(p source.PullRequest, _ int) bool {
			return p.State == "open" && strings.ToLower(p.Repository) == full
		}),
	}
}

// matchProject finds repositories a project-like name plausibly refers to:
// substring matches on repository name or description first, then fuzzy
// matches on short names as a near-miss assist.
func matchProject(project string, repos []source.Repository, shortNames []string) []string {
	lower := strings.ToLower(project)

	matching := lo.FilterMap(repos, func(r source.Repository, _ int) (string, bool) {
		if strings.Contains(strings.ToLower(r.Name), lower) ||
			strings.Contains(strings.ToLower(r.Description), lower) {
			return r.FullName, true
		}
		return "", false
	})

	if len(matching) == 0 {
		for _, m := range fuzzy.Find(project, shortNames) {
			// Require most of the project name to actually match; fuzzy
			// subsequence hits on short fragments are noise.
			if len(m.MatchedIndexes) >= len(project)-1 {
				matching = append(matching, findFullName(repos, m.Str))
			}
		}
	}

	return lo.Uniq(matching)
}

func findFullName(repos []source.Repository, shortName string) string {
	for _, r := range repos {
		if r.Name == shortName {
			return r.FullName
		}
	}
	return shortName
}

func repoIndex(repos []source.Repository) map[string]source.Repository {
	index := make(map[string]source.Repository, len(repos)*2)
	for _, r := range repos {
		if r.FullName != "" {
			index[strings.ToLower(r.FullName)] = r
		}
		if r.Name != "" {
			index[strings.ToLower(r.Name)] = r
		}
	}
	return index
}

func (c *Correlator) suggestions(
	events []source.Event,
	issues []source.Issue,
	prs []source.PullRequest,
	now time.Time,
) []string {
	var suggestions []string

	upcoming := lo.Filter(events, func(e source.Event, _ int) bool {
		return !e.Start.IsZero() && e.Start.After(now)
	})

	for _, event := range head(upcoming, maxUpcomingChecked) {
		entities := analyzer.ExtractEntities(event.Title + " " + event.Description)
		for _, repoName := range entities.Repos {
			lower := strings.ToLower(repoName)
			related := lo.Filter(prs, func(p source.PullRequest, _ int) bool {
				return p.State == "open" && strings.ToLower(p.Repository) == lower
			})
			if len(related) == 0 {
				continue
			}
			suggestions = append(suggestions, formatMeetingSuggestion(event, repoName, len(related), now))
		}
	}

	openPRs := lo.CountBy(prs, func(p source.PullRequest) bool {
		return p.State == "open"
	})
	if openPRs > 0 && !hasBusyPeriods(events, now) {
		suggestions = append(suggestions, formatFreeTimeSuggestion(openPRs))
	}

	return suggestions
}

func (c *Correlator) insights(
	events []source.Event,
	repos []source.Repository,
	issues []source.Issue,
	prs []source.PullRequest,
	now time.Time,
) []string {
	var insights []string

	recent := lo.CountBy(events, func(e source.Event) bool {
		if e.Start.IsZero() {
			return false
		}
		age := now.Sub(e.Start)
		return age >= 0 && age <= recentWindowDays*24*time.Hour
	})
	if recent > 0 && len(repos) > 0 {
		insights = append(insights, formatActivityInsight(recent, len(repos)))
	}

	if len(issues)+len(prs) > workloadInsightThreshold {
		insights = append(insights, formatWorkloadInsight(len(issues), len(prs)))
	}

	return insights
}

func hasBusyPeriods(events []source.Event, now time.Time) bool {
	for _, e := range events {
		if !e.Start.IsZero() && !e.End.IsZero() && e.Start.After(now) {
			return true
		}
	}
	return false
}

// humanizeUntil renders how far away an event is, e.g. "2 days from now".
func humanizeUntil(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}

func head[T any](items []T, n int) []T {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
