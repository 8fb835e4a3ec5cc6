package summarizer

import (
	"sort"

	"github.com/openock/contexture/internal/source"
	"github.com/samber/lo"
)

// SummarizeRepos keeps the most recently updated repositories with their
// descriptions capped.
func (s *Summarizer) SummarizeRepos(repos []source.Repository) []source.Repository {
	sorted := make([]source.Repository, len(repos))
	copy(sorted, repos)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].UpdatedAt.After(sorted[j].UpdatedAt)
	})

	return lo.Map(head(sorted, maxDigestItems), func(r source.Repository, _ int) source.Repository {
		r.Description = truncate(r.Description, 100)
		return r
	})
}

// SummarizeIssues keeps the newest issues by number with their titles
// capped and bodies dropped.
func (s *Summarizer) SummarizeIssues(issues []source.Issue) []source.Issue {
	sorted := make([]source.Issue, len(issues))
	copy(sorted, issues)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Number > sorted[j].Number
	})

	return lo.Map(head(sorted, maxDigestItems), func(i source.Issue, _ int) source.Issue {
		i.Title = truncate(i.Title, 100)
		i.Body = ""
		return i
	})
}

// SummarizePullRequests keeps the newest pull requests by number with
// their titles capped and bodies dropped.
func (s *Summarizer) SummarizePullRequests(prs []source.PullRequest) []source.PullRequest {
	sorted := make([]source.PullRequest, len(prs))
	copy(sorted, prs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Number > sorted[j].Number
	})

	return lo.Map(head(sorted, maxDigestItems), func(p source.PullRequest, _ int) source.PullRequest {
		p.Title = truncate(p.Title, 100)
		p.Body = ""
		return p
	})
}

// SummarizeDeployments keeps the most recent deployments with their
// commit hashes shortened.
func (s *Summarizer) SummarizeDeployments(deployments []source.Deployment) []source.Deployment {
	sorted := make([]source.Deployment, len(deployments))
	copy(sorted, deployments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	return lo.Map(head(sorted, maxDigestItems), func(d source.Deployment, _ int) source.Deployment {
		if len(d.SHA) > 7 {
			d.SHA = d.SHA[:7]
		}
		return d
	})
}

// SummarizeCommits keeps the most recent commits with their messages
// capped and hashes shortened.
func (s *Summarizer) SummarizeCommits(commits []source.Commit) []source.Commit {
	sorted := make([]source.Commit, len(commits))
	copy(sorted, commits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	return lo.Map(head(sorted, maxDigestItems), func(c source.Commit, _ int) source.Commit {
		c.Message = truncate(c.Message, 100)
		if len(c.SHA) > 7 {
			c.SHA = c.SHA[:7]
		}
		return c
	})
}

func head[T any](items []T, n int) []T {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
