package textutil

import (
	"testing"
)

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"revenue", "", 7},
		{"", "rate", 4},
		{"kitten", "sitting", 3},
		{"delivery", "delivery", 0},
		{"on time", "on-time", 1},
		{"résumé", "resume", 2},
	}

	for _, tt := range tests {
		if got := LevenshteinDistance(tt.a, tt.b); got != tt.expected {
			t.Errorf("LevenshteinDistance(%q, %q) = %d, expected %d", tt.a, tt.b, got, tt.expected)
		}
	}
}

func TestLevenshteinRatio(t *testing.T) {
	if got := LevenshteinRatio("", ""); got != 1.0 {
		t.Errorf("two empty strings should be fully similar, got %g", got)
	}
	if got := LevenshteinRatio("abcd", "abcd"); got != 1.0 {
		t.Errorf("identical strings should score 1.0, got %g", got)
	}
	if got := LevenshteinRatio("abcd", "wxyz"); got != 0.0 {
		t.Errorf("disjoint strings of equal length should score 0.0, got %g", got)
	}

	got := LevenshteinRatio("on time delivery", "on-time delivery rate")
	if got <= 0.6 {
		t.Errorf("expected ratio above 0.6 for near-identical phrases, got %g", got)
	}
}

func TestTokenOverlap(t *testing.T) {
	// {on, time, delivery} vs {on, time, delivery, rate}: 3 of 4.
	got := TokenOverlap("On Time Delivery", "On-Time Delivery Rate")
	if got != 0.75 {
		t.Errorf("expected Jaccard overlap 0.75, got %g", got)
	}

	if got := TokenOverlap("alpha beta", "gamma delta"); got != 0.0 {
		t.Errorf("expected 0.0 for disjoint token sets, got %g", got)
	}
	if got := TokenOverlap("", ""); got != 1.0 {
		t.Errorf("expected 1.0 for two empty strings, got %g", got)
	}
	if got := TokenOverlap("alpha", ""); got != 0.0 {
		t.Errorf("expected 0.0 when one side is empty, got %g", got)
	}
}

func TestSimilarity(t *testing.T) {
	// Entity "On Time Delivery" against rendered text
	// "On-Time Delivery Rate" must clear the 0.6 acceptance floor.
	got := Similarity("On Time Delivery", "On-Time Delivery Rate")
	if got < 0.6 {
		t.Errorf("expected similarity >= 0.6, got %g", got)
	}

	if got := Similarity("Revenue", "Revenue"); got != 1.0 {
		t.Errorf("identical text should score 1.0, got %g", got)
	}

	unrelated := Similarity("Quarterly Revenue", "Employee Headcount")
	if unrelated >= 0.6 {
		t.Errorf("unrelated text should stay below the floor, got %g", unrelated)
	}
}
