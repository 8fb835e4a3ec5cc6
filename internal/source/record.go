// Package source defines the record model shared by every stage of the
// context pipeline, along with the collaborator interfaces the assembler
// uses to reach external data sources. The HTTP clients behind those
// interfaces live outside this module.
package source

import "time"

// Record is the minimal surface the ranker and summarizer need from any
// source item: free text to score against a query and a sortable time.
type Record interface {
	// RecordTitle returns the primary text field of the record.
	RecordTitle() string

	// RecordBody returns the secondary text field, or "" if none.
	RecordBody() string

	// RecordTime returns the record's sortable time. ok is false when the
	// record carries no parseable time; such records are scored without a
	// recency bonus and skipped by date grouping.
	RecordTime() (t time.Time, ok bool)
}

// Stateful is implemented by records with an open/closed lifecycle
// (issues, pull requests). Open items rank higher.
type Stateful interface {
	Record

	// RecordState returns the lifecycle state, e.g. "open" or "closed".
	RecordState() string
}

// Event is a calendar event.
type Event struct {
	Title        string
	Description  string
	Location     string
	CalendarName string

	// Start and End are zero when the source provided no parseable time.
	Start time.Time
	End   time.Time

	// AllDay marks date-only events; Start is midnight of that date.
	AllDay bool
}

func (e Event) RecordTitle() string { return e.Title }
func (e Event) RecordBody() string  { return e.Description }

func (e Event) RecordTime() (time.Time, bool) {
	if e.Start.IsZero() {
		return time.Time{}, false
	}
	return e.Start, true
}

// Repository is a hosted source repository.
type Repository struct {
	Name        string
	FullName    string
	Description string
	Language    string
	Stars       int
	OpenIssues  int
	UpdatedAt   time.Time
}

func (r Repository) RecordTitle() string { return r.FullName }
func (r Repository) RecordBody() string  { return r.Description }

func (r Repository) RecordTime() (time.Time, bool) {
	if r.UpdatedAt.IsZero() {
		return time.Time{}, false
	}
	return r.UpdatedAt, true
}

// Issue is a tracker issue.
type Issue struct {
	Number     int
	Title      string
	Body       string
	State      string
	Labels     []string
	Repository string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (i Issue) RecordTitle() string { return i.Title }
func (i Issue) RecordBody() string  { return i.Body }
func (i Issue) RecordState() string { return i.State }

func (i Issue) RecordTime() (time.Time, bool) {
	switch {
	case !i.UpdatedAt.IsZero():
		return i.UpdatedAt, true
	case !i.CreatedAt.IsZero():
		return i.CreatedAt, true
	}
	return time.Time{}, false
}

// PullRequest is a proposed change on a repository.
type PullRequest struct {
	Number     int
	Title      string
	Body       string
	State      string
	Labels     []string
	Repository string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (p PullRequest) RecordTitle() string { return p.Title }
func (p PullRequest) RecordBody() string  { return p.Body }
func (p PullRequest) RecordState() string { return p.State }

func (p PullRequest) RecordTime() (time.Time, bool) {
	switch {
	case !p.UpdatedAt.IsZero():
		return p.UpdatedAt, true
	case !p.CreatedAt.IsZero():
		return p.CreatedAt, true
	}
	return time.Time{}, false
}

// Deployment is a deploy of a repository ref to an environment.
type Deployment struct {
	ID          int64
	Environment string
	Ref         string
	SHA         string
	Repository  string
	CreatedAt   time.Time
}

func (d Deployment) RecordTitle() string { return d.Environment + " " + d.Ref }
func (d Deployment) RecordBody() string  { return d.SHA }

func (d Deployment) RecordTime() (time.Time, bool) {
	if d.CreatedAt.IsZero() {
		return time.Time{}, false
	}
	return d.CreatedAt, true
}

// Commit is a single revision on a repository.
type Commit struct {
	SHA        string
	Message    string
	Author     string
	Repository string
	CreatedAt  time.Time
}

func (c Commit) RecordTitle() string { return c.Message }
func (c Commit) RecordBody() string  { return "" }

func (c Commit) RecordTime() (time.Time, bool) {
	if c.CreatedAt.IsZero() {
		return time.Time{}, false
	}
	return c.CreatedAt, true
}

// Project is a tracker project.
type Project struct {
	Key  string
	Name string
}

func (p Project) RecordTitle() string { return p.Name }
func (p Project) RecordBody() string  { return p.Key }

func (p Project) RecordTime() (time.Time, bool) { return time.Time{}, false }

// Sprint is a tracker iteration.
type Sprint struct {
	Name    string
	State   string
	StartAt time.Time
	EndAt   time.Time
}

func (s Sprint) RecordTitle() string { return s.Name }
func (s Sprint) RecordBody() string  { return "" }
func (s Sprint) RecordState() string { return s.State }

func (s Sprint) RecordTime() (time.Time, bool) {
	if s.StartAt.IsZero() {
		return time.Time{}, false
	}
	return s.StartAt, true
}
