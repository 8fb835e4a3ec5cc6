// Package ranker orders records by relevance to a query. Scores are a
// bounded weighted sum of keyword overlap, recency, urgency keywords, and
// lifecycle state, clamped to [0, 1]. Sorting is stable: records with equal
// scores keep their input order, which is the only ordering guarantee made
// for ties.
package ranker

import (
	"sort"
	"strings"
	"time"

	"github.com/openock/contexture/internal/clock"
	"github.com/openock/contexture/internal/source"
	"github.com/samber/lo"
)

// weights is a scoring profile. Events and lifecycle records (issues, PRs)
// weigh the same signals differently: tracker items lean harder on title
// match and open state, events on proximity to now.
type weights struct {
	title         float64
	body          float64
	today         float64
	tomorrow      float64
	week          float64
	urgency       float64
	open          float64
	urgencyTokens []string
}

var eventWeights = weights{
	title:         0.3,
	body:          0.2,
	today:         0.3,
	tomorrow:      0.2,
	week:          0.1,
	urgency:       0.1,
	urgencyTokens: []string{"meeting", "standup", "review", "deadline", "urgent"},
}

var statefulWeights = weights{
	title:         0.4,
	body:          0.2,
	today:         0.2,
	week:          0.1,
	urgency:       0.1,
	open:          0.2,
	urgencyTokens: []string{"urgent", "critical", "bug", "blocker", "priority"},
}

// Ranker scores records against query text.
type Ranker struct {
	clock clock.Clock
}

// New creates a Ranker. A nil clock defaults to the system clock.
func New(clk clock.Clock) *Ranker {
	if clk == nil {
		clk = clock.System{}
	}
	return &Ranker{clock: clk}
}

// Rank returns records ordered most relevant first. If maxItems is
// positive, only that many records are returned. The input slice is not
// modified.
func (r *Ranker) Rank(records []source.Record, query string, maxItems int) []source.Record {
	if len(records) == 0 {
		return nil
	}

	now := r.clock.Now()

	type scored struct {
		record source.Record
		score  float64
	}
	scoredRecords := lo.Map(records, func(rec source.Record, _ int) scored {
		return scored{record: rec, score: r.score(rec, query, now)}
	})

	sort.SliceStable(scoredRecords, func(i, j int) bool {
		return scoredRecords[i].score > scoredRecords[j].score
	})

	if maxItems > 0 && maxItems < len(scoredRecords) {
		scoredRecords = scoredRecords[:maxItems]
	}

	return lo.Map(scoredRecords, func(s scored, _ int) source.Record {
		return s.record
	})
}

// Score returns the relevance score of a single record in [0, 1].
func (r *Ranker) Score(record source.Record, query string) float64 {
	return r.score(record, query, r.clock.Now())
}

func (r *Ranker) score(record source.Record, query string, now time.Time) float64 {
	w := eventWeights
	stateful, hasState := record.(source.Stateful)
	if hasState {
		w = statefulWeights
	}

	words := queryWords(query)
	title := strings.ToLower(record.RecordTitle())
	body := strings.ToLower(record.RecordBody())

	var score float64

	if overlaps(title, words) {
		score += w.title
	}
	if overlaps(body, words) {
		score += w.body
	}

	if t, ok := record.RecordTime(); ok {
		var days int
		if hasState {
			// Tracker items only get the bonus for recent activity, not
			// future dates.
			days = int(now.Sub(t).Hours() / 24)
		} else {
			days = int(t.Sub(now).Abs().Hours() / 24)
		}
		switch {
		case days == 0:
			score += w.today
		case days == 1 && w.tomorrow > 0:
			score += w.tomorrow
		case days >= 0 && days <= 7:
			score += w.week
		}
	}

	text := title + " " + body
	if overlapsAny(text, w.urgencyTokens) {
		score += w.urgency
	}

	if hasState && stateful.RecordState() == "open" {
		score += w.open
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

// queryWords tokenizes a query, keeping only words longer than three
// characters; short words match too much text to carry signal.
func queryWords(query string) []string {
	return lo.Filter(strings.Fields(strings.ToLower(query)), func(w string, _ int) bool {
		return len(w) > 3
	})
}

func overlaps(text string, words []string) bool {
	if text == "" {
		return false
	}
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func overlapsAny(text string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(text, tok) {
			return true
		}
	}
	return false
}
