// Package util holds small string helpers shared by the CLI, the dashboard
// and doctor.
package util

import (
	"sort"
	"strconv"
	"strings"
)

// JoinOrNone joins strings with ", " or returns "(none)" for empty slices.
func JoinOrNone(items []string) string {
	return JoinOrDefault(items, "(none)")
}

// JoinOrDefault joins strings with ", " or returns def for empty slices.
func JoinOrDefault(items []string, def string) string {
	if len(items) == 0 {
		return def
	}
	return strings.Join(items, ", ")
}

// Pluralize returns singular if count is 1, otherwise plural.
func Pluralize(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}

// Count renders "1 monitor" or "3 monitors".
func Count(n int, singular, plural string) string {
	return strconv.Itoa(n) + " " + Pluralize(n, singular, plural)
}

// LevenshteinDistance is the edit distance between a and b, counted in
// bytes.
func LevenshteinDistance(a, b string) int {
	if a == b {
		return 0
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

// SuggestSimilar returns the candidates within maxDistance edits of input,
// ignoring case, closest first. Ties keep candidate order.
func SuggestSimilar(input string, candidates []string, maxDistance int) []string {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" || len(candidates) == 0 {
		return nil
	}

	type scored struct {
		name string
		dist int
	}
	var hits []scored
	for _, c := range candidates {
		if d := LevenshteinDistance(input, strings.ToLower(c)); d <= maxDistance {
			hits = append(hits, scored{c, d})
		}
	}
	if len(hits) == 0 {
		return nil
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].dist < hits[j].dist })

	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.name
	}
	return out
}
