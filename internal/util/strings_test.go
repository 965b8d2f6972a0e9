package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinOrNone(t *testing.T) {
	tests := []struct {
		name  string
		items []string
		want  string
	}{
		{
			name:  "nil slice returns (none)",
			items: nil,
			want:  "(none)",
		},
		{
			name:  "empty slice returns (none)",
			items: []string{},
			want:  "(none)",
		},
		{
			name:  "single item returns item",
			items: []string{"foo"},
			want:  "foo",
		},
		{
			name:  "multiple items joined with comma",
			items: []string{"foo", "bar", "baz"},
			want:  "foo, bar, baz",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := JoinOrNone(tt.items)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJoinOrDefault(t *testing.T) {
	tests := []struct {
		name  string
		items []string
		def   string
		want  string
	}{
		{
			name:  "empty slice returns default",
			items: []string{},
			def:   "N/A",
			want:  "N/A",
		},
		{
			name:  "empty slice with empty default",
			items: []string{},
			def:   "",
			want:  "",
		},
		{
			name:  "items returned regardless of default",
			items: []string{"a", "b"},
			def:   "default",
			want:  "a, b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := JoinOrDefault(tt.items, tt.def)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPluralize(t *testing.T) {
	tests := []struct {
		count int
		want  string
	}{
		{0, "monitors"},
		{1, "monitor"},
		{2, "monitors"},
		{-1, "monitors"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Pluralize(tt.count, "monitor", "monitors"))
	}
}

func TestCount(t *testing.T) {
	assert.Equal(t, "1 log entry", Count(1, "log entry", "log entries"))
	assert.Equal(t, "0 log entries", Count(0, "log entry", "log entries"))
	assert.Equal(t, "12 issues", Count(12, "issue", "issues"))
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"gate", "gaet", 2},
		{"dock", "docks", 1},
		{"docks", "dock", 1},
		{"Gate", "gate", 1},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
	}

	for _, tt := range tests {
		t.Run(tt.a+"->"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.expected, LevenshteinDistance(tt.a, tt.b))
			assert.Equal(t, tt.expected, LevenshteinDistance(tt.b, tt.a))
		})
	}
}

func TestSuggestSimilar(t *testing.T) {
	candidates := []string{"Safety Gate 3", "Safety Gate 4", "Warehouse Shelf A", "Assembly Line 4"}

	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"typo", "safty gate 3", []string{"Safety Gate 3", "Safety Gate 4"}},
		{"closest first", "Safety Gate 4", []string{"Safety Gate 4", "Safety Gate 3"}},
		{"case insensitive", "ASSEMBLY LINE 4", []string{"Assembly Line 4"}},
		{"no close match", "loading dock", nil},
		{"empty input", "  ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SuggestSimilar(tt.input, candidates, 2))
		})
	}
}

func TestSuggestSimilar_EmptyCandidates(t *testing.T) {
	assert.Nil(t, SuggestSimilar("gate", nil, 3))
	assert.Nil(t, SuggestSimilar("gate", []string{}, 3))
}
