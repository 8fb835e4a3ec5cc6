package summarizer

import "strings"

// TruncationMarker is appended whenever compression dropped content, so
// that a reader of the compressed text is never misled into treating it as
// complete.
const TruncationMarker = "[... context truncated ...]"

// priorityLineKeywords mark lines that must survive compression first.
var priorityLineKeywords = []string{
	"error", "conflict", "urgent", "important", "blocking",
	"today", "tomorrow", "now", "deadline",
}

// importantShare is the fraction of the target reserved for priority lines.
const importantShare = 0.7

// Compress reduces text to at most target characters. Text that already
// fits is returned unchanged. Otherwise lines containing priority keywords
// are packed first into 70% of the budget, remaining lines fill the rest,
// and the result carries TruncationMarker whenever anything was dropped.
// This two-tier greedy packing approximates a token-budget solution; it is
// not optimal.
//
// A non-positive target defaults to the summarizer's token budget at four
// characters per token.
func (s *Summarizer) Compress(text string, target int) string {
	if target <= 0 {
		target = s.maxTokens * charsPerToken
	}
	if len(text) <= target {
		return text
	}

	var important, other []string
	for _, line := range strings.Split(text, "\n") {
		if isPriorityLine(line) {
			important = append(important, line)
		} else {
			other = append(other, line)
		}
	}

	var kept []string
	dropped := false
	budget := int(float64(target) * importantShare)
	used := 0

	for _, line := range important {
		if used+len(line) <= budget {
			kept = append(kept, line)
			used += len(line)
		} else {
			dropped = true
		}
	}

	remaining := target - used
	for _, line := range other {
		if len(line) <= remaining {
			kept = append(kept, line)
			remaining -= len(line)
		} else {
			dropped = true
			break
		}
	}
	if len(kept) < len(important)+len(other) {
		dropped = true
	}

	result := strings.Join(kept, "\n")

	if len(result) > target {
		return hardTruncate(result, target)
	}
	if dropped {
		if len(result)+len(TruncationMarker)+1 <= target {
			return result + "\n" + TruncationMarker
		}
		return hardTruncate(result, target)
	}
	return result
}

func isPriorityLine(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range priorityLineKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// hardTruncate cuts text so that it ends with the truncation marker and
// never exceeds target.
func hardTruncate(text string, target int) string {
	cut := target - len(TruncationMarker) - 1
	if cut <= 0 {
		if target > len(text) {
			target = len(text)
		}
		return text[:target]
	}
	if cut > len(text) {
		cut = len(text)
	}
	return text[:cut] + "\n" + TruncationMarker
}
