package ranker

import (
	"sort"
	"strings"
)

// ScoredSection is a named block of rendered context text with its
// relevance score.
type ScoredSection struct {
	Name    string
	Content string
	Score   float64
}

// RankSections orders rendered context sections by relevance to the query.
// Scoring favors sections whose name matches a query word, sections with
// more query-word hits in their content, and shorter, more focused text.
func (r *Ranker) RankSections(sections map[string]string, query string) []ScoredSection {
	scored := make([]ScoredSection, 0, len(sections))
	for name, content := range sections {
		scored = append(scored, ScoredSection{
			Name:    name,
			Content: content,
			Score:   scoreSection(name, content, query),
		})
	}

	// Sort by name first so equal scores come out in a deterministic order
	// regardless of map iteration.
	sort.Slice(scored, func(i, j int) bool {
		return scored[i].Name < scored[j].Name
	})
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return scored
}

func scoreSection(name, content, query string) float64 {
	var score float64

	nameLower := strings.ToLower(name)
	for _, w := range strings.Fields(strings.ToLower(query)) {
		if strings.Contains(nameLower, w) {
			score += 0.5
			break
		}
	}

	words := queryWords(query)
	if len(words) > 0 {
		contentLower := strings.ToLower(content)
		matches := 0
		for _, w := range words {
			if strings.Contains(contentLower, w) {
				matches++
			}
		}
		if matches > 0 {
			contribution := 0.3 * float64(matches) / float64(len(words))
			if contribution > 0.3 {
				contribution = 0.3
			}
			score += contribution
		}
	}

	switch {
	case len(content) < 500:
		score += 0.1
	case len(content) > 2000:
		score -= 0.1
	}

	if score > 1.0 {
		score = 1.0
	}
	if score < 0 {
		score = 0
	}
	return score
}
