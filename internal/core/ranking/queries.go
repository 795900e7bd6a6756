// Package ranking builds catalog search queries from mood keywords and picks
// the playlist that best matches them.
package ranking

import "strings"

// FallbackQuery is used when no keyword survives normalization.
const FallbackQuery = "chill"

// pairWindow is how many leading keywords are combined into two-term queries.
const pairWindow = 4

// BuildQueries turns keywords into at most maxQueries search strings.
// Two-keyword combinations come first because they are more specific than
// single terms. The result is never empty.
func BuildQueries(keywords []string, maxQueries int) []string {
	if maxQueries < 1 {
		maxQueries = 1
	}

	normalized := NormalizeKeywords(keywords)
	if len(normalized) == 0 {
		return []string{FallbackQuery}
	}

	queries := make([]string, 0, maxQueries)
	seen := make(map[string]struct{})
	push := func(q string) {
		if _, ok := seen[q]; ok {
			return
		}
		seen[q] = struct{}{}
		queries = append(queries, q)
	}

	head := normalized
	if len(head) > pairWindow {
		head = head[:pairWindow]
	}
	for i := 0; i < len(head); i++ {
		for j := i + 1; j < len(head); j++ {
			push(head[i] + " " + head[j])
		}
	}
	for _, kw := range normalized {
		push(kw)
	}

	if len(queries) > maxQueries {
		queries = queries[:maxQueries]
	}
	return queries
}

// NormalizeKeywords trims and lowercases keywords, dropping empties and
// repeats while keeping first-seen order.
func NormalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	seen := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if _, ok := seen[kw]; ok {
			continue
		}
		seen[kw] = struct{}{}
		out = append(out, kw)
	}
	return out
}
