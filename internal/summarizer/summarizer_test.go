package summarizer

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/openock/contexture/internal/clock"
	"github.com/openock/contexture/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var summarizeNow = time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

func newTestSummarizer(maxTokens int) *Summarizer {
	return New(maxTokens, clock.Fixed{Time: summarizeNow})
}

func TestSummarizeEventsChronological(t *testing.T) {
	s := newTestSummarizer(2000)

	events := []source.Event{
		{Title: "Later", Start: summarizeNow.Add(5 * time.Hour)},
		{Title: "Sooner", Start: summarizeNow.Add(time.Hour)},
		{Title: "Latest", Start: summarizeNow.Add(10 * time.Hour)},
	}

	summarized := s.SummarizeEvents(events, 0, PriorityTime)

	require.Len(t, summarized, 3)
	assert.Equal(t, "Sooner", summarized[0].Title)
	assert.Equal(t, "Later", summarized[1].Title)
	assert.Equal(t, "Latest", summarized[2].Title)
}

func TestSummarizeEventsMaxItems(t *testing.T) {
	s := newTestSummarizer(2000)

	var events []source.Event
	for i := 0; i < 10; i++ {
		events = append(events, source.Event{
			Title: fmt.Sprintf("Event %d", i),
			Start: summarizeNow.Add(time.Duration(i) * time.Hour),
		})
	}

	assert.Len(t, s.SummarizeEvents(events, 4, PriorityTime), 4)
	assert.Len(t, s.SummarizeEvents(events, 100, PriorityTime), 10)
}

func TestSummarizeEventsAutoLimit(t *testing.T) {
	// A 100-token budget allows 4 items at ~25 tokens per item.
	s := newTestSummarizer(100)

	var events []source.Event
	for i := 0; i < 10; i++ {
		events = append(events, source.Event{
			Title: fmt.Sprintf("Event %d", i),
			Start: summarizeNow.Add(time.Duration(i) * time.Hour),
		})
	}

	assert.Len(t, s.SummarizeEvents(events, 0, PriorityTime), 4)
}

func TestSummarizeEventsTruncatesDescriptions(t *testing.T) {
	s := newTestSummarizer(2000)

	events := []source.Event{{
		Title:       "Planning",
		Description: strings.Repeat("x", 500),
		Start:       summarizeNow,
	}}

	summarized := s.SummarizeEvents(events, 0, PriorityTime)

	require.Len(t, summarized, 1)
	assert.Len(t, summarized[0].Description, maxNoteLength+len("..."))
	assert.True(t, strings.HasSuffix(summarized[0].Description, "..."))
}

func TestSummarizeEventsEmpty(t *testing.T) {
	assert.Nil(t, newTestSummarizer(2000).SummarizeEvents(nil, 5, PriorityTime))
}

func TestSummarizeEventsDoesNotModifyInput(t *testing.T) {
	s := newTestSummarizer(2000)

	events := []source.Event{
		{Title: "B", Start: summarizeNow.Add(2 * time.Hour)},
		{Title: "A", Start: summarizeNow.Add(time.Hour)},
	}

	s.SummarizeEvents(events, 0, PriorityTime)

	assert.Equal(t, "B", events[0].Title)
}

func TestSummarizeRepos(t *testing.T) {
	s := newTestSummarizer(2000)

	var repos []source.Repository
	for i := 0; i < 15; i++ {
		repos = append(repos, source.Repository{
			Name:        fmt.Sprintf("repo-%d", i),
			Description: strings.Repeat("d", 300),
			UpdatedAt:   summarizeNow.Add(-time.Duration(i) * time.Hour),
		})
	}

	summarized := s.SummarizeRepos(repos)

	require.Len(t, summarized, maxDigestItems)
	assert.Equal(t, "repo-0", summarized[0].Name, "most recently updated first")
	assert.LessOrEqual(t, len(summarized[0].Description), 100+len("..."))
}

func TestSummarizeIssues(t *testing.T) {
	s := newTestSummarizer(2000)

	issues := []source.Issue{
		{Number: 3, Title: "Oldest", Body: "long body"},
		{Number: 17, Title: "Newest", Body: "long body"},
	}

	summarized := s.SummarizeIssues(issues)

	require.Len(t, summarized, 2)
	assert.Equal(t, 17, summarized[0].Number, "newest number first")
	assert.Empty(t, summarized[0].Body, "bodies are dropped")
}

func TestSummarizeCommits(t *testing.T) {
	s := newTestSummarizer(2000)

	var commits []source.Commit
	for i := 0; i < 15; i++ {
		commits = append(commits, source.Commit{
			SHA:       strings.Repeat("a", 40),
			Message:   strings.Repeat("m", 150),
			CreatedAt: summarizeNow.Add(-time.Duration(i) * time.Hour),
		})
	}

	summarized := s.SummarizeCommits(commits)

	require.Len(t, summarized, maxDigestItems)
	assert.Equal(t, summarizeNow, summarized[0].CreatedAt, "most recent commit first")
	assert.Len(t, summarized[0].SHA, 7)
	assert.True(t, strings.HasSuffix(summarized[0].Message, "..."))
}

func TestSummarizeDeployments(t *testing.T) {
	s := newTestSummarizer(2000)

	deployments := []source.Deployment{
		{Environment: "staging", SHA: "abcdef1234567890", CreatedAt: summarizeNow.Add(-time.Hour)},
		{Environment: "production", SHA: "short", CreatedAt: summarizeNow},
	}

	summarized := s.SummarizeDeployments(deployments)

	require.Len(t, summarized, 2)
	assert.Equal(t, "production", summarized[0].Environment)
	assert.Equal(t, "short", summarized[0].SHA)
	assert.Equal(t, "abcdef1", summarized[1].SHA)
}

func TestCompressIdentityWhenFits(t *testing.T) {
	s := newTestSummarizer(2000)

	text := "line one\nline two"
	assert.Equal(t, text, s.Compress(text, 8000))
}

func TestCompressNeverExceedsTarget(t *testing.T) {
	s := newTestSummarizer(2000)

	var lines []string
	for i := 0; i < 200; i++ {
		lines = append(lines, fmt.Sprintf("ordinary context line number %d with some detail", i))
	}
	text := strings.Join(lines, "\n")

	for _, target := range []int{50, 200, 1000, 8000, len(text) + 1} {
		t.Run(fmt.Sprintf("target %d", target), func(t *testing.T) {
			out := s.Compress(text, target)
			assert.LessOrEqual(t, len(out), target)
		})
	}
}

func TestCompressMarksTruncation(t *testing.T) {
	s := newTestSummarizer(2000)

	var lines []string
	for i := 0; i < 300; i++ {
		lines = append(lines, fmt.Sprintf("ordinary context line number %d with some detail", i))
	}
	text := strings.Join(lines, "\n")

	out := s.Compress(text, 8000)

	assert.LessOrEqual(t, len(out), 8000)
	assert.Contains(t, out, TruncationMarker, "dropped content must be marked")
}

func TestCompressKeepsPriorityLines(t *testing.T) {
	s := newTestSummarizer(2000)

	var lines []string
	for i := 0; i < 100; i++ {
		lines = append(lines, fmt.Sprintf("filler line number %d with plenty of padding text", i))
	}
	lines = append(lines, "urgent: production deploy is blocking the release today")
	text := strings.Join(lines, "\n")

	out := s.Compress(text, 1000)

	assert.LessOrEqual(t, len(out), 1000)
	assert.Contains(t, out, "urgent: production deploy is blocking the release today",
		"priority lines survive when filler does not")
	assert.Contains(t, out, TruncationMarker)
}

func TestCompressDefaultTarget(t *testing.T) {
	// 100 tokens at 4 chars per token is a 400-char default target.
	s := newTestSummarizer(100)

	text := strings.Repeat("some context line\n", 100)
	out := s.Compress(text, 0)

	assert.LessOrEqual(t, len(out), 400)
	assert.Contains(t, out, TruncationMarker)
}
