// Package normalize canonicalizes product-category labels against a curated
// vocabulary so near-duplicate spellings converge to one label instead of
// fragmenting the taxonomy.
package normalize

import "strings"

// DefaultThreshold is the minimum similarity for a candidate to collapse
// into a canonical category.
const DefaultThreshold = 0.85

// Normalizer matches candidate categories against an ordered canonical list.
// It holds injected configuration; it never consults global state.
type Normalizer struct {
	categories []string
	threshold  float64
}

// New creates a Normalizer over an ordered canonical category list. A
// threshold outside (0, 1] falls back to DefaultThreshold.
func New(categories []string, threshold float64) *Normalizer {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return &Normalizer{
		categories: categories,
		threshold:  threshold,
	}
}

// Normalize resolves a candidate category to a canonical one.
//
// Case-insensitive exact matches short-circuit to the canonical entry. A
// near match at or above the threshold returns the best-scoring canonical
// entry; ties resolve to the first entry in list order reaching the maximum
// score. Anything else is a novel category, returned lowercased and trimmed.
// Empty input returns ("", false).
func (n *Normalizer) Normalize(candidate string) (string, bool) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return "", false
	}

	lower := strings.ToLower(candidate)
	for _, canonical := range n.categories {
		if strings.ToLower(canonical) == lower {
			return canonical, false
		}
	}

	bestScore := 0.0
	bestMatch := ""
	for _, canonical := range n.categories {
		score := Ratio(candidate, canonical)
		if score > bestScore {
			bestScore = score
			bestMatch = canonical
		}
	}

	if bestScore >= n.threshold {
		return bestMatch, false
	}

	return lower, true
}

// Categories returns the canonical list in configured order.
func (n *Normalizer) Categories() []string {
	return append([]string(nil), n.categories...)
}

// Ratio computes a similarity score in [0, 1] between two strings, case
// insensitively: the length of their longest common subsequence divided by
// the length of the shorter string. A candidate that fully contains a
// canonical label (or a typo'd superstring of one) scores 1.0; this is a
// character-sequence measure, not edit distance, so a trailing fragment of
// noise never sinks an otherwise-perfect match.
func Ratio(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	shorter := len(a)
	if len(b) < shorter {
		shorter = len(b)
	}
	return float64(lcsLen(a, b)) / float64(shorter)
}

// lcsLen computes the longest-common-subsequence length with a rolling
// single-row table. Inputs here are short category labels, so the quadratic
// scan is fine.
func lcsLen(a, b string) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 0; i < len(a); i++ {
		for j := 0; j < len(b); j++ {
			if a[i] == b[j] {
				cur[j+1] = prev[j] + 1
			} else if prev[j+1] >= cur[j] {
				cur[j+1] = prev[j+1]
			} else {
				cur[j+1] = cur[j]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
