package formatter

import (
	"fmt"
	"strings"

	"github.com/openock/contexture/internal/source"
)

// TrackerContext carries the summarized tracker records to render.
type TrackerContext struct {
	Username     string
	Repositories []source.Repository
	Issues       []source.Issue
	PullRequests []source.PullRequest
	Commits      []source.Commit
	Deployments  []source.Deployment
}

// FormatTracker renders repository-host activity into sectioned context
// text. Empty sections are omitted; an entirely empty context renders as
// an empty string.
func (f *Formatter) FormatTracker(ctx TrackerContext) string {
	var parts []string

	if ctx.Username != "" {
		parts = append(parts, fmt.Sprintf("TRACKER USER: %s", ctx.Username), "")
	}

	if len(ctx.Repositories) > 0 {
		parts = append(parts, fmt.Sprintf("REPOSITORIES (%d total):", len(ctx.Repositories)), sectionRule)
		for i, r := range ctx.Repositories {
			desc := r.Description
			if desc == "" {
				desc = "No description"
			}
			lang := r.Language
			if lang == "" {
				lang = "N/A"
			}
			parts = append(parts, fmt.Sprintf("  %d. %s | %d stars | %s | %s",
				i+1, r.FullName, r.Stars, lang, desc))
		}
		parts = append(parts, "")
	}

	if len(ctx.Issues) > 0 {
		parts = append(parts, fmt.Sprintf("ISSUES (%d total):", len(ctx.Issues)), sectionRule)
		for i, issue := range ctx.Issues {
			line := fmt.Sprintf("  %d. #%d %s [%s]", i+1, issue.Number, issue.Title, issue.State)
			if issue.Repository != "" {
				line += fmt.Sprintf(" in %s", issue.Repository)
			}
			if len(issue.Labels) > 0 {
				line += fmt.Sprintf(" (%s)", strings.Join(issue.Labels, ", "))
			}
			parts = append(parts, line)
		}
		parts = append(parts, "")
	}

	if len(ctx.PullRequests) > 0 {
		parts = append(parts, fmt.Sprintf("PULL REQUESTS (%d total):", len(ctx.PullRequests)), sectionRule)
		for i, pr := range ctx.PullRequests {
			line := fmt.Sprintf("  %d. #%d %s [%s]", i+1, pr.Number, pr.Title, pr.State)
			if pr.Repository != "" {
				line += fmt.Sprintf(" in %s", pr.Repository)
			}
			parts = append(parts, line)
		}
		parts = append(parts, "")
	}

	if len(ctx.Commits) > 0 {
		parts = append(parts, fmt.Sprintf("COMMITS (%d total):", len(ctx.Commits)), sectionRule)
		for i, c := range ctx.Commits {
			line := fmt.Sprintf("  %d. %s %s", i+1, c.SHA, c.Message)
			if c.Author != "" {
				line += fmt.Sprintf(" by %s", c.Author)
			}
			if c.Repository != "" {
				line += fmt.Sprintf(" in %s", c.Repository)
			}
			parts = append(parts, line)
		}
		parts = append(parts, "")
	}

	if len(ctx.Deployments) > 0 {
		parts = append(parts, fmt.Sprintf("DEPLOYMENTS (%d total):", len(ctx.Deployments)), sectionRule)
		for i, d := range ctx.Deployments {
			parts = append(parts, fmt.Sprintf("  %d. %s @ %s (%s)", i+1, d.Environment, d.Ref, d.SHA))
		}
		parts = append(parts, "")
	}

	if len(parts) == 0 {
		return ""
	}
	return strings.TrimRight(strings.Join(parts, "\n"), "\n")
}

// FormatIssueTracker renders issue-tracker projects, sprints, and assigned
// issues into sectioned context text.
func (f *Formatter) FormatIssueTracker(projects []source.Project, sprints []source.Sprint, assigned []source.Issue) string {
	var parts []string

	if len(projects) > 0 {
		parts = append(parts, fmt.Sprintf("PROJECTS (%d total):", len(projects)), sectionRule)
		for i, p := range projects {
			parts = append(parts, fmt.Sprintf("  %d. [%s] %s", i+1, p.Key, p.Name))
		}
		parts = append(parts, "")
	}

	if len(sprints) > 0 {
		parts = append(parts, fmt.Sprintf("ACTIVE SPRINTS (%d total):", len(sprints)), sectionRule)
		for i, s := range sprints {
			parts = append(parts, fmt.Sprintf("  %d. %s [%s]", i+1, s.Name, s.State))
		}
		parts = append(parts, "")
	}

	if len(assigned) > 0 {
		parts = append(parts, fmt.Sprintf("ASSIGNED ISSUES (%d total):", len(assigned)), sectionRule)
		for i, issue := range assigned {
			parts = append(parts, fmt.Sprintf("  %d. %s [%s]", i+1, issue.Title, issue.State))
		}
		parts = append(parts, "")
	}

	if len(parts) == 0 {
		return ""
	}
	return strings.TrimRight(strings.Join(parts, "\n"), "\n")
}
