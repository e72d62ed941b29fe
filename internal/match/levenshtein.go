package match

import (
	"cmp"
	"slices"
)

// DefaultThreshold is the minimum normalized similarity for a suggestion.
const DefaultThreshold = 0.5

// Levenshtein computes the edit distance between two strings, using two
// rows of the dynamic programming matrix.
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}

	if len(a) > len(b) {
		a, b = b, a
	}

	if len(a) == 0 {
		return len(b)
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)

	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(b); j++ {
		curr[0] = j

		for i := 1; i <= len(a); i++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}

			curr[i] = min(prev[i]+1, curr[i-1]+1, prev[i-1]+cost)
		}

		prev, curr = curr, prev
	}

	return prev[len(a)]
}

// Similarity returns 1 - distance/maxLen over the normalized identifiers:
// 1.0 for names that normalize identically, 0.0 for nothing in common.
func Similarity(a, b string) float64 {
	na, nb := NormalizeIdent(a), NormalizeIdent(b)
	if na == "" && nb == "" {
		return 1.0
	}

	return 1.0 - float64(Levenshtein(na, nb))/float64(max(len(na), len(nb)))
}

type scored struct {
	name  string
	score float64
}

// Suggest returns up to limit candidates similar to name, best first.
// Ties keep candidate order. The name itself is never suggested.
func Suggest(name string, candidates []string, limit int) []string {
	if limit <= 0 {
		return nil
	}

	var ranked []scored

	for _, c := range candidates {
		if c == name || slices.ContainsFunc(ranked, func(s scored) bool { return s.name == c }) {
			continue
		}

		if s := Similarity(name, c); s >= DefaultThreshold {
			ranked = append(ranked, scored{name: c, score: s})
		}
	}

	slices.SortStableFunc(ranked, func(x, y scored) int {
		return cmp.Compare(y.score, x.score)
	})

	out := make([]string, 0, min(limit, len(ranked)))
	for _, s := range ranked[:min(limit, len(ranked))] {
		out = append(out, s.name)
	}

	return out
}
