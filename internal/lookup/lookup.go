// Package lookup resolves user-supplied team and player names.
package lookup

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// SuggestionThreshold is the minimum similarity for a name to be suggested
const SuggestionThreshold = 0.6

// Similarity returns 1 - levenshtein/maxLen over the lower-cased names
func Similarity(a, b string) float64 {
	a, b = strings.ToLower(a), strings.ToLower(b)
	maxLen := float64(max(len(a), len(b)))
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(fuzzy.LevenshteinDistance(a, b))/maxLen
}

// Suggest returns up to limit candidates that look like query, best first.
// Candidates that contain the query as a case-insensitive subsequence are
// always included.
func Suggest(query string, candidates []string, limit int) []string {
	type scored struct {
		name  string
		score float64
	}

	var matches []scored
	for _, c := range candidates {
		s := Similarity(query, c)
		if s >= SuggestionThreshold || (query != "" && fuzzy.MatchFold(query, c)) {
			matches = append(matches, scored{c, s})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].name < matches[j].name
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.name
	}
	return out
}

// FindFold returns the index of the first name equal to target ignoring case, or -1
func FindFold(names []string, target string) int {
	for i, n := range names {
		if strings.EqualFold(n, target) {
			return i
		}
	}
	return -1
}
