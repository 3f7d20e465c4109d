package strategy

import (
	"strings"

	"github.com/docparse/bounds-matcher/config"
	"github.com/docparse/bounds-matcher/internal/spanindex"
	"github.com/docparse/bounds-matcher/internal/textutil"
	"github.com/docparse/bounds-matcher/model"
	"github.com/docparse/bounds-matcher/services"
)

// Fuzzy is the last-resort strategy. It scores the entity text against
// every candidate span (and sliding windows of adjacent spans) and keeps
// the best-scoring one, provided it clears the acceptance floor. The span
// index restricts scoring to spans sharing at least one token with the
// entity.
type Fuzzy struct {
	minScore   float64
	penalty    float64
	windowSize int
	index      *spanindex.Index
}

// NewFuzzy creates the fuzzy matching strategy over a prebuilt span index.
func NewFuzzy(settings config.MatcherSettings, index *spanindex.Index) *Fuzzy {
	return &Fuzzy{
		minScore:   settings.FuzzyMinScore,
		penalty:    settings.FuzzyPenalty,
		windowSize: settings.FuzzyWindowSize,
		index:      index,
	}
}

// Name returns "fuzzy".
func (f *Fuzzy) Name() string { return config.StrategyFuzzy }

// Match selects the maximum-similarity candidate across all pages.
// Candidates below the acceptance floor make the strategy fail outright
// rather than produce a low-confidence success.
func (f *Fuzzy) Match(entityText string, doc services.Document) BoundsResult {
	if strings.TrimSpace(entityText) == "" {
		return failure(f.Name())
	}

	var (
		bestScore  float64
		bestBounds model.Bounds
		found      bool
	)

	for _, ref := range f.index.Candidates(entityText) {
		pageSpans := f.index.PageSpans(ref.PageIndex)

		for width := 1; width <= f.windowSize; width++ {
			if ref.SpanIndex+width > len(pageSpans) {
				break
			}
			window := pageSpans[ref.SpanIndex : ref.SpanIndex+width]

			score := textutil.Similarity(entityText, windowText(window))
			// Strictly-better keeps the earliest candidate on ties, so
			// results are deterministic in page and span order.
			if score > bestScore {
				bestScore = score
				bestBounds = windowBounds(window)
				found = true
			}
		}
	}

	if !found || bestScore < f.minScore {
		return failure(f.Name())
	}

	return BoundsResult{
		Success:      true,
		Bounds:       &bestBounds,
		Confidence:   bestScore * f.penalty,
		StrategyName: f.Name(),
	}
}

func windowText(window []services.Span) string {
	parts := make([]string, 0, len(window))
	for _, span := range window {
		parts = append(parts, span.Text)
	}
	return strings.Join(parts, " ")
}

func windowBounds(window []services.Span) model.Bounds {
	bounds := window[0].Bounds
	for _, span := range window[1:] {
		bounds = bounds.Union(span.Bounds)
	}
	return bounds
}
