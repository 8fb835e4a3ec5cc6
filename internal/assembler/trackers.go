package assembler

import (
	"context"
	"strings"
	"time"

	"github.com/openock/contexture/internal/cache"
	"github.com/openock/contexture/internal/formatter"
	"github.com/openock/contexture/internal/source"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// commitLookbackDays bounds how far back a commit fetch reaches.
const commitLookbackDays = 7

// Keyword groups selecting which repo-host data a query needs. A query
// matching none of them gets the default set: repositories, issues, PRs.
var (
	repoKeywords       = []string{"repo", "repository", "repositories", "project", "projects"}
	issueKeywords      = []string{"issue"}
	prKeywords         = []string{"pr", "pull request", "pull-request", "merge"}
	commitKeywords     = []string{"commit", "commits", "history", "changes", "log"}
	deploymentKeywords = []string{
		"deployment", "deploy", "deployed", "deploying", "production",
		"staging", "environment", "live", "release",
	}
)

func (a *Assembler) repoHostContext(ctx context.Context, query string) (string, []source.Repository, []source.Issue, []source.PullRequest) {
	lower := strings.ToLower(query)

	needsRepos := containsAny(lower, repoKeywords)
	needsIssues := containsAny(lower, issueKeywords)
	needsPRs := containsAny(lower, prKeywords)
	needsCommits := containsAny(lower, commitKeywords)
	needsDeployments := containsAny(lower, deploymentKeywords)

	if !needsRepos && !needsIssues && !needsPRs && !needsCommits && !needsDeployments {
		needsRepos, needsIssues, needsPRs = true, true, true
	}

	// Repositories are fetched whenever anything else is: correlation and
	// per-repo grouping both need the catalog.
	repos := a.fetchRepos(ctx)

	var issues []source.Issue
	if needsIssues {
		issues = a.fetchIssues(ctx, query)
	}

	var prs []source.PullRequest
	if needsPRs {
		prs = a.fetchPullRequests(ctx, query)
	}

	var commits []source.Commit
	if needsCommits {
		commits = a.fetchCommits(ctx)
	}

	var deployments []source.Deployment
	if needsDeployments {
		deployments = a.fetchDeployments(ctx)
	}

	trackerCtx := formatter.TrackerContext{
		Issues:       a.summarizer.SummarizeIssues(issues),
		PullRequests: a.summarizer.SummarizePullRequests(prs),
		Commits:      a.summarizer.SummarizeCommits(commits),
		Deployments:  a.summarizer.SummarizeDeployments(deployments),
	}
	if needsRepos {
		trackerCtx.Repositories = a.summarizer.SummarizeRepos(repos)
	}

	return a.formatter.FormatTracker(trackerCtx), repos, issues, prs
}

func (a *Assembler) fetchRepos(ctx context.Context) []source.Repository {
	if cached, ok := a.cache.Get(cache.Repos, nil); ok {
		if repos, ok := cached.([]source.Repository); ok {
			return repos
		}
	}

	repos, err := a.repoHost.Repositories(ctx)
	if err != nil {
		a.logger.Warn("repository fetch failed", zap.Error(err))
		return nil
	}
	a.cache.Set(cache.Repos, nil, repos)
	return repos
}

func (a *Assembler) fetchIssues(ctx context.Context, query string) []source.Issue {
	params := cache.Params{"state": "open"}
	if cached, ok := a.cache.Get(cache.Issues, params); ok {
		if issues, ok := cached.([]source.Issue); ok {
			return a.rankIssues(issues, query)
		}
	}

	issues, err := a.repoHost.Issues(ctx, "open")
	if err != nil {
		a.logger.Warn("issue fetch failed", zap.Error(err))
		return nil
	}
	a.cache.Set(cache.Issues, params, issues)
	return a.rankIssues(issues, query)
}

func (a *Assembler) fetchPullRequests(ctx context.Context, query string) []source.PullRequest {
	params := cache.Params{"state": "open"}
	if cached, ok := a.cache.Get(cache.PullRequests, params); ok {
		if prs, ok := cached.([]source.PullRequest); ok {
			return a.rankPullRequests(prs, query)
		}
	}

	prs, err := a.repoHost.PullRequests(ctx, "open")
	if err != nil {
		a.logger.Warn("pull request fetch failed", zap.Error(err))
		return nil
	}
	a.cache.Set(cache.PullRequests, params, prs)
	return a.rankPullRequests(prs, query)
}

func (a *Assembler) fetchCommits(ctx context.Context) []source.Commit {
	since := a.clock.Now().AddDate(0, 0, -commitLookbackDays)
	params := cache.Params{"since": since.Format(time.RFC3339)}

	if cached, ok := a.cache.Get(cache.Commits, params); ok {
		if commits, ok := cached.([]source.Commit); ok {
			return commits
		}
	}

	commits, err := a.repoHost.Commits(ctx, since)
	if err != nil {
		a.logger.Warn("commit fetch failed", zap.Error(err))
		return nil
	}
	a.cache.Set(cache.Commits, params, commits)
	return commits
}

func (a *Assembler) fetchDeployments(ctx context.Context) []source.Deployment {
	if cached, ok := a.cache.Get(cache.Deployments, nil); ok {
		if deployments, ok := cached.([]source.Deployment); ok {
			return deployments
		}
	}

	deployments, err := a.repoHost.Deployments(ctx)
	if err != nil {
		a.logger.Warn("deployment fetch failed", zap.Error(err))
		return nil
	}
	a.cache.Set(cache.Deployments, nil, deployments)
	return deployments
}

func (a *Assembler) rankIssues(issues []source.Issue, query string) []source.Issue {
	records := lo.Map(issues, func(i source.Issue, _ int) source.Record { return i })
	return lo.FilterMap(a.ranker.Rank(records, query, 0), func(r source.Record, _ int) (source.Issue, bool) {
		i, ok := r.(source.Issue)
		return i, ok
	})
}

func (a *Assembler) rankPullRequests(prs []source.PullRequest, query string) []source.PullRequest {
	records := lo.Map(prs, func(p source.PullRequest, _ int) source.Record { return p })
	return lo.FilterMap(a.ranker.Rank(records, query, 0), func(r source.Record, _ int) (source.PullRequest, bool) {
		p, ok := r.(source.PullRequest)
		return p, ok
	})
}

func (a *Assembler) issueTrackerContext(ctx context.Context) string {
	var projects []source.Project
	if cached, ok := a.cache.Get(cache.TrackerIssues, cache.Params{"kind": "projects"}); ok {
		projects, _ = cached.([]source.Project)
	}
	if projects == nil {
		fetched, err := a.issueTracker.Projects(ctx)
		if err != nil {
			a.logger.Warn("project fetch failed", zap.Error(err))
		} else {
			projects = fetched
			a.cache.Set(cache.TrackerIssues, cache.Params{"kind": "projects"}, projects)
		}
	}

	sprints, err := a.issueTracker.ActiveSprints(ctx)
	if err != nil {
		a.logger.Warn("sprint fetch failed", zap.Error(err))
	}

	assigned, err := a.issueTracker.AssignedIssues(ctx)
	if err != nil {
		a.logger.Warn("assigned issue fetch failed", zap.Error(err))
	}

	return a.formatter.FormatIssueTracker(projects, sprints, assigned)
}
