package analyzer

import (
	"regexp"
	"strings"

	"github.com/samber/lo"
)

// Entities holds names extracted from query or record text.
type Entities struct {
	// Repos are owner/name repository references.
	Repos []string

	// Projects are tokens that look like project or repository names.
	Projects []string

	// People are capitalized First Last pairs.
	People []string
}

var (
	ownerRepoPattern = regexp.MustCompile(`([a-zA-Z0-9_-]+)/([a-zA-Z0-9_-]+)`)
	projectPattern   = regexp.MustCompile(`\b([a-zA-Z0-9_-]{4,})\b`)
	personPattern    = regexp.MustCompile(`\b([A-Z][a-z]+)\s+([A-Z][a-z]+)\b`)
)

// stopwords are common query words never treated as project names.
var stopwords = map[string]struct{}{
	"what": {}, "when": {}, "where": {}, "show": {}, "tell": {}, "me": {},
	"my": {}, "the": {}, "this": {}, "that": {}, "next": {}, "last": {},
	"week": {}, "day": {}, "today": {}, "tomorrow": {}, "schedule": {},
	"meeting": {}, "meetings": {}, "events": {}, "calendar": {},
	"github": {}, "jira": {}, "repo": {}, "repository": {},
	"repositories": {}, "issue": {}, "issues": {}, "pr": {}, "pull": {},
	"request": {}, "commits": {}, "deployment": {}, "sprint": {},
}

// ExtractEntities pulls repository references, project-like names, and
// person-like names out of text using the same heuristics everywhere the
// pipeline needs them. Matching is pattern-based and best-effort.
func ExtractEntities(text string) Entities {
	var entities Entities

	for _, m := range ownerRepoPattern.FindAllStringSubmatch(text, -1) {
		entities.Repos = append(entities.Repos, m[1]+"/"+m[2])
	}

	for _, m := range projectPattern.FindAllStringSubmatch(text, -1) {
		word := m[1]
		lower := strings.ToLower(word)
		if _, common := stopwords[lower]; common {
			continue
		}
		// Hyphens, underscores, or plain length are weak signals that a
		// token names a project rather than ordinary prose.
		if !strings.ContainsAny(word, "-_") && len(word) <= 5 {
			continue
		}
		if lo.Contains(entities.Repos, word) {
			continue
		}
		entities.Projects = append(entities.Projects, word)
	}
	entities.Projects = lo.Uniq(entities.Projects)

	for _, m := range personPattern.FindAllStringSubmatch(text, -1) {
		entities.People = append(entities.People, m[1]+" "+m[2])
	}
	entities.People = lo.Uniq(entities.People)

	return entities
}
