package textutil

// LevenshteinDistance computes the minimum number of single-character
// edits (insertions, deletions, or substitutions) required to change one
// string into the other. It works on runes to handle Unicode correctly and
// keeps only two matrix rows, since earlier rows are never read again.
func LevenshteinDistance(a, b string) int {
	runesA := []rune(a)
	runesB := []rune(b)

	lenA := len(runesA)
	lenB := len(runesB)

	if lenA == 0 {
		return lenB
	}
	if lenB == 0 {
		return lenA
	}

	prevRow := make([]int, lenB+1)
	currRow := make([]int, lenB+1)

	for j := 0; j <= lenB; j++ {
		prevRow[j] = j
	}

	for i := 1; i <= lenA; i++ {
		currRow[0] = i
		for j := 1; j <= lenB; j++ {
			cost := 0
			if runesA[i-1] != runesB[j-1] {
				cost = 1
			}

			deletion := prevRow[j] + 1
			insertion := currRow[j-1] + 1
			substitution := prevRow[j-1] + cost

			currRow[j] = min3(deletion, insertion, substitution)
		}
		prevRow, currRow = currRow, prevRow
	}

	return prevRow[lenB]
}

// LevenshteinRatio converts the edit distance between a and b into a
// normalized similarity score in [0, 1]: 1 - distance / max(len(a), len(b)).
// Two empty strings are fully similar.
func LevenshteinRatio(a, b string) float64 {
	lenA := len([]rune(a))
	lenB := len([]rune(b))
	longest := lenA
	if lenB > longest {
		longest = lenB
	}
	if longest == 0 {
		return 1.0
	}
	return 1.0 - float64(LevenshteinDistance(a, b))/float64(longest)
}

// TokenOverlap computes the Jaccard similarity between the token sets of a
// and b: |intersection| / |union|. Token order and repetition are ignored,
// which makes the score robust against reordered or re-punctuated text.
func TokenOverlap(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)

	if len(setA) == 0 && len(setB) == 0 {
		return 1.0
	}
	if len(setA) == 0 || len(setB) == 0 {
		return 0.0
	}

	intersection := 0
	for token := range setA {
		if setB[token] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection

	return float64(intersection) / float64(union)
}

// Similarity scores how close candidate text is to the entity text, in
// [0, 1]. It takes the better of token overlap and edit-distance ratio on
// normalized text: token overlap forgives reordering and punctuation,
// the edit ratio forgives small in-token differences.
func Similarity(entity, candidate string) float64 {
	normEntity := NormalizeText(entity)
	normCandidate := NormalizeText(candidate)

	overlap := TokenOverlap(normEntity, normCandidate)
	ratio := LevenshteinRatio(normEntity, normCandidate)

	if overlap > ratio {
		return overlap
	}
	return ratio
}

func tokenSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, token := range Tokenize(text) {
		set[token] = true
	}
	return set
}

// min3 is a helper function to find the minimum of three integers
func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
