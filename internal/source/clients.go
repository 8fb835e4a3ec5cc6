package source

import (
	"context"
	"time"
)

// Calendar fetches events from a calendar provider. Implementations make
// the network calls; the pipeline only sees the returned records.
type Calendar interface {
	// Events returns events starting within [start, end), at most maxResults.
	Events(ctx context.Context, start, end time.Time, maxResults int) ([]Event, error)
}

// RepoHost fetches repositories and their activity from a code hosting
// provider for the authenticated user.
type RepoHost interface {
	Repositories(ctx context.Context) ([]Repository, error)
	Issues(ctx context.Context, state string) ([]Issue, error)
	PullRequests(ctx context.Context, state string) ([]PullRequest, error)
	Deployments(ctx context.Context) ([]Deployment, error)
	Commits(ctx context.Context, since time.Time) ([]Commit, error)
}

// IssueTracker fetches projects and assigned issues from an issue tracker.
type IssueTracker interface {
	Projects(ctx context.Context) ([]Project, error)
	AssignedIssues(ctx context.Context) ([]Issue, error)
	ActiveSprints(ctx context.Context) ([]Sprint, error)
}
