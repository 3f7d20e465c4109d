// Package textutil provides the text normalization and string similarity
// primitives shared by the matching strategies.
package textutil

import (
	"strings"
	"unicode"
)

// Tokenize converts a string into a slice of lowercased tokens. Letter runs
// and number runs become separate tokens; a number token keeps its decimal
// point and trailing percent sign, so "49.99%" survives as one token.
func Tokenize(text string) []string {
	tokens := make([]string, 0) // Initialize as empty slice, not nil

	runes := []rune(strings.ToLower(text))
	i := 0
	for i < len(runes) {
		switch {
		case unicode.IsLetter(runes[i]):
			start := i
			for i < len(runes) && unicode.IsLetter(runes[i]) {
				i++
			}
			tokens = append(tokens, string(runes[start:i]))
		case unicode.IsDigit(runes[i]):
			start := i
			for i < len(runes) && (unicode.IsDigit(runes[i]) || isInnerNumericRune(runes, i)) {
				i++
			}
			if i < len(runes) && runes[i] == '%' {
				i++
			}
			tokens = append(tokens, string(runes[start:i]))
		default:
			i++
		}
	}

	return tokens
}

// isInnerNumericRune reports whether the rune at position i continues a
// number token: a '.' or ',' counts only when followed by another digit.
func isInnerNumericRune(runes []rune, i int) bool {
	if runes[i] != '.' && runes[i] != ',' {
		return false
	}
	return i+1 < len(runes) && unicode.IsDigit(runes[i+1])
}

// NormalizeText lowercases text and collapses every whitespace run into a
// single space, trimming the ends. Used to compare strings that differ
// only in layout.
func NormalizeText(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// TrimDecorations strips leading and trailing punctuation, symbol and
// whitespace runs from text, leaving the core content untouched.
func TrimDecorations(text string) string {
	return strings.TrimFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
}

// DropLeadingToken returns text with its first whitespace-delimited token
// removed, or "" when there is at most one token.
func DropLeadingToken(text string) string {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return ""
	}
	return strings.Join(fields[1:], " ")
}

// DropTrailingToken returns text with its last whitespace-delimited token
// removed, or "" when there is at most one token.
func DropTrailingToken(text string) string {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return ""
	}
	return strings.Join(fields[:len(fields)-1], " ")
}

// SplitNumericBoundary splits text at the boundary between a leading
// numeric part and a trailing text part (value + label), or between a
// leading text part and a trailing numeric part (label + value/unit).
// It returns ok = false when no such boundary exists.
func SplitNumericBoundary(text string) (first, second string, ok bool) {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return "", "", false
	}

	if isNumericToken(fields[0]) && !isNumericToken(fields[1]) {
		return fields[0], strings.Join(fields[1:], " "), true
	}
	last := len(fields) - 1
	if isNumericToken(fields[last]) && !isNumericToken(fields[last-1]) {
		return strings.Join(fields[:last], " "), fields[last], true
	}
	return "", "", false
}

// isNumericToken reports whether a whitespace-delimited token is mostly
// numeric: digits with optional currency/percent decoration, like "49.99%",
// "$1,200" or "12".
func isNumericToken(token string) bool {
	digits := 0
	for _, r := range token {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '.' || r == ',' || r == '%' || r == '+' || r == '-' || unicode.Is(unicode.Sc, r):
			// decoration, allowed
		default:
			return false
		}
	}
	return digits > 0
}
