package textutil

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "plain words",
			input:    "On-Time Delivery Rate",
			expected: []string{"on", "time", "delivery", "rate"},
		},
		{
			name:     "percentage stays whole",
			input:    "49.99% On-Time Delivery Rate",
			expected: []string{"49.99%", "on", "time", "delivery", "rate"},
		},
		{
			name:     "currency with thousands separator",
			input:    "Revenue: $1,200.50",
			expected: []string{"revenue", "1,200.50"},
		},
		{
			name:     "trailing period is not part of the number",
			input:    "grew by 12.",
			expected: []string{"grew", "by", "12"},
		},
		{
			name:     "empty input",
			input:    "",
			expected: []string{},
		},
		{
			name:     "punctuation only",
			input:    "--- !!!",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Tokenize(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeText(t *testing.T) {
	got := NormalizeText("  On-Time\t Delivery \n Rate ")
	if got != "on-time delivery rate" {
		t.Errorf("unexpected normalization: %q", got)
	}
}

func TestTrimDecorations(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"\"Q3 Revenue\": ", "Q3 Revenue"},
		{"  (Acme Corp.) ", "Acme Corp"},
		{"49.99%", "49.99"},
		{"plain", "plain"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := TrimDecorations(tt.input); got != tt.expected {
			t.Errorf("TrimDecorations(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestDropOuterTokens(t *testing.T) {
	if got := DropLeadingToken("Total Net Revenue"); got != "Net Revenue" {
		t.Errorf("DropLeadingToken: got %q", got)
	}
	if got := DropTrailingToken("Total Net Revenue"); got != "Total Net" {
		t.Errorf("DropTrailingToken: got %q", got)
	}
	if got := DropLeadingToken("Revenue"); got != "" {
		t.Errorf("DropLeadingToken on single token: got %q", got)
	}
	if got := DropTrailingToken(""); got != "" {
		t.Errorf("DropTrailingToken on empty: got %q", got)
	}
}

func TestSplitNumericBoundary(t *testing.T) {
	tests := []struct {
		input  string
		first  string
		second string
		ok     bool
	}{
		{"49.99% On-Time Delivery Rate", "49.99%", "On-Time Delivery Rate", true},
		{"Headcount 1,254", "Headcount", "1,254", true},
		{"$2.5M Annual Revenue", "$2.5M", "", false}, // trailing M makes the token non-numeric
		{"Acme Corporation", "", "", false},
		{"42", "", "", false},
	}

	for _, tt := range tests {
		first, second, ok := SplitNumericBoundary(tt.input)
		if ok != tt.ok {
			t.Errorf("SplitNumericBoundary(%q) ok = %v, expected %v", tt.input, ok, tt.ok)
			continue
		}
		if !ok {
			continue
		}
		if first != tt.first || second != tt.second {
			t.Errorf("SplitNumericBoundary(%q) = (%q, %q), expected (%q, %q)",
				tt.input, first, second, tt.first, tt.second)
		}
	}
}
