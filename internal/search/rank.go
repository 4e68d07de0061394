package search

import "sort"

// Ranked is a catalog row position with its similarity score.
type Ranked struct {
	Index int
	Score float64
}

// lessRanked orders higher scores first; equal scores keep catalog order.
func lessRanked(a, b Ranked) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Index < b.Index
}

// TopN returns the n best scoring rows. n is clamped to len(scores) and
// n <= 0 yields an empty result.
func TopN(scores []float64, n int) []Ranked {
	if n > len(scores) {
		n = len(scores)
	}
	if n <= 0 {
		return []Ranked{}
	}

	ranked := make([]Ranked, len(scores))
	for i, s := range scores {
		ranked[i] = Ranked{Index: i, Score: s}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return lessRanked(ranked[i], ranked[j])
	})
	return ranked[:n]
}
