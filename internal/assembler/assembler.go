// Package assembler orchestrates the context pipeline: it analyzes a
// query, pulls records from each included source through the cache, ranks
// and summarizes them, renders per-source text blocks, correlates across
// sources, and compresses the combined result to the configured character
// budget. Every public entry point returns a best-effort string; source
// failures degrade the context instead of failing the request.
package assembler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openock/contexture/internal/analyzer"
	"github.com/openock/contexture/internal/cache"
	"github.com/openock/contexture/internal/clock"
	"github.com/openock/contexture/internal/correlator"
	"github.com/openock/contexture/internal/formatter"
	"github.com/openock/contexture/internal/ranker"
	"github.com/openock/contexture/internal/source"
	"github.com/openock/contexture/internal/summarizer"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	// maxFetchedEvents bounds one calendar fetch.
	maxFetchedEvents = 250

	// maxRankedEvents bounds the ranked event list before summarization.
	maxRankedEvents = 50

	// maxSummarizedEvents bounds the events rendered into context.
	maxSummarizedEvents = 30

	// defaultTargetChars bounds the assembled context string.
	defaultTargetChars = 8000

	dateLayout = "Monday, January 02, 2006"
)

// refreshKeywords suggest the user wants fresh data; they bypass the
// calendar cache the same way an explicit force-refresh does.
var refreshKeywords = []string{
	"updated", "just", "recently", "new", "latest", "refresh", "reload", "current",
}

// Options configures an Assembler. Calendar, RepoHost, and IssueTracker
// are all optional: the pipeline assembles context from whichever sources
// are present.
type Options struct {
	Logger       *zap.Logger
	Clock        clock.Clock
	Cache        *cache.Store
	Calendar     source.Calendar
	RepoHost     source.RepoHost
	IssueTracker source.IssueTracker

	// MaxTokens is the summarization token budget; 0 uses the default.
	MaxTokens int

	// TargetContextChars bounds the final context string; 0 uses the default.
	TargetContextChars int
}

// Request selects sources and cache behavior for one assembly.
type Request struct {
	IncludeCalendar     bool
	IncludeRepoHost     bool
	IncludeIssueTracker bool

	// ForceRefresh bypasses the calendar cache for this request only.
	ForceRefresh bool
}

// Assembler builds token-budgeted context strings from the configured
// sources.
type Assembler struct {
	analyzer   *analyzer.Analyzer
	cache      *cache.Store
	ranker     *ranker.Ranker
	summarizer *summarizer.Summarizer
	correlator *correlator.Correlator
	formatter  *formatter.Formatter

	calendar     source.Calendar
	repoHost     source.RepoHost
	issueTracker source.IssueTracker

	clock       clock.Clock
	logger      *zap.Logger
	targetChars int
}

// New creates an Assembler. A nil clock defaults to the system clock, a
// nil logger to a no-op logger, and a nil cache to a fresh store.
func New(opts Options) *Assembler {
	clk := opts.Clock
	if clk == nil {
		clk = clock.System{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	store := opts.Cache
	if store == nil {
		store = cache.New(clk, nil, logger)
	}
	targetChars := opts.TargetContextChars
	if targetChars <= 0 {
		targetChars = defaultTargetChars
	}

	return &Assembler{
		analyzer:     analyzer.New(clk, logger),
		cache:        store,
		ranker:       ranker.New(clk),
		summarizer:   summarizer.New(opts.MaxTokens, clk),
		correlator:   correlator.New(clk),
		formatter:    formatter.New(),
		calendar:     opts.Calendar,
		repoHost:     opts.RepoHost,
		issueTracker: opts.IssueTracker,
		clock:        clk,
		logger:       logger,
		targetChars:  targetChars,
	}
}

// Assemble builds the context string for a query. It never returns an
// error: sources that fail are logged and omitted, and an empty string
// means no source produced anything.
func (a *Assembler) Assemble(ctx context.Context, query string, req Request) string {
	analysis := a.analyzer.Analyze(query)
	req = a.routeByDomain(analysis, req)

	queryParams := cache.Params{"query": strings.ToLower(strings.TrimSpace(query))}
	if !req.ForceRefresh {
		if cached, ok := a.cache.Get(cache.QueryResults, queryParams); ok {
			if text, ok := cached.(string); ok {
				a.logger.Debug("assembled context served from query cache")
				return text
			}
		}
	}

	sections := make(map[string]string)
	var rawEvents []source.Event
	var rawRepos []source.Repository
	var rawIssues []source.Issue
	var rawPRs []source.PullRequest

	if req.IncludeCalendar && a.calendar != nil {
		block, events := a.calendarContext(ctx, query, analysis, req.ForceRefresh)
		rawEvents = events
		if block != "" {
			sections["calendar"] = block
		}
	}

	if req.IncludeRepoHost && a.repoHost != nil {
		block, repos, issues, prs := a.repoHostContext(ctx, query)
		rawRepos, rawIssues, rawPRs = repos, issues, prs
		if block != "" {
			sections["repositories"] = block
		}
	}

	if req.IncludeIssueTracker && a.issueTracker != nil {
		if block := a.issueTrackerContext(ctx); block != "" {
			sections["projects"] = block
		}
	}

	if len(rawEvents) > 0 && len(rawRepos) > 0 {
		correlation := a.correlator.Correlate(rawEvents, rawRepos, rawIssues, rawPRs)
		if block := correlation.Format(); block != "" {
			sections["correlations"] = block
		}
	}

	if len(sections) == 0 {
		return ""
	}

	// Most relevant sections first, so a later compression pass drops the
	// least relevant text.
	blocks := lo.Map(a.ranker.RankSections(sections, query), func(s ranker.ScoredSection, _ int) string {
		return s.Content
	})

	combined := a.summarizer.Compress(strings.Join(blocks, "\n\n"), a.targetChars)
	a.cache.Set(cache.QueryResults, queryParams, combined)

	return combined
}

// routeByDomain adjusts the requested sources based on what the query is
// actually about: a pure tracker question drops calendar context and vice
// versa, and a cross-domain question includes both.
func (a *Assembler) routeByDomain(analysis *analyzer.QueryAnalysis, req Request) Request {
	switch analysis.Domain {
	case analyzer.DomainTracker:
		req.IncludeCalendar = false
		req.IncludeRepoHost = true
	case analyzer.DomainCalendar:
		req.IncludeRepoHost = false
	case analyzer.DomainBoth:
		req.IncludeCalendar = true
		req.IncludeRepoHost = true
	}
	return req
}

func (a *Assembler) calendarContext(ctx context.Context, query string, analysis *analyzer.QueryAnalysis, forceRefresh bool) (string, []source.Event) {
	start, end := analyzer.TimeRangeFor(analysis)

	needsRefresh := forceRefresh || containsAny(strings.ToLower(query), refreshKeywords)
	params := cache.Params{
		"time_min": start.Format(time.RFC3339),
		"time_max": end.Format(time.RFC3339),
	}

	var events []source.Event
	hit := false
	if !needsRefresh {
		if cached, ok := a.cache.Get(cache.CalendarEvents, params); ok {
			// An empty cached slice is still a hit: no events in the window.
			events, hit = cached.([]source.Event)
		}
	}

	if !hit {
		fetched, err := a.calendar.Events(ctx, start, end, maxFetchedEvents)
		if err != nil {
			a.logger.Warn("calendar fetch failed, omitting calendar context", zap.Error(err))
			return "", nil
		}
		events = fetched
		a.cache.Set(cache.CalendarEvents, params, events)
	}

	ranked := asEvents(a.ranker.Rank(asRecords(events), query, maxRankedEvents))

	maxItems := maxSummarizedEvents
	if analysis.ItemCount > 0 && analysis.ItemCount < maxItems {
		maxItems = analysis.ItemCount
	}
	summarized := a.summarizer.SummarizeEvents(ranked, maxItems, summarizer.PriorityTime)

	block := a.formatter.Format(summarized, analysis, formatterOptions(analysis, events))
	return a.withDateHeader(block, start, end), events
}

// withDateHeader prepends the current date and queried range so the model
// can anchor relative phrases in the rendered context.
func (a *Assembler) withDateHeader(block string, start, end time.Time) string {
	now := a.clock.Now()
	header := []string{fmt.Sprintf("CURRENT DATE: %s", now.Format(dateLayout))}

	days := int(end.Sub(start).Hours() / 24)
	if days <= 1 {
		header = append(header, fmt.Sprintf("QUERY DATE: %s", start.Format(dateLayout)))
	} else {
		header = append(header, fmt.Sprintf("QUERY DATE RANGE: %s to %s (%d days)",
			start.Format(dateLayout), end.AddDate(0, 0, -1).Format(dateLayout), days))
	}

	return strings.Join(header, "\n") + "\n\n" + block
}

func asRecords(events []source.Event) []source.Record {
	return lo.Map(events, func(e source.Event, _ int) source.Record {
		return e
	})
}

func asEvents(records []source.Record) []source.Event {
	return lo.FilterMap(records, func(r source.Record, _ int) (source.Event, bool) {
		e, ok := r.(source.Event)
		return e, ok
	})
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
