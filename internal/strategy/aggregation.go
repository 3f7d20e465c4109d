package strategy

import (
	"strings"

	"github.com/docparse/bounds-matcher/config"
	"github.com/docparse/bounds-matcher/internal/textutil"
	"github.com/docparse/bounds-matcher/model"
	"github.com/docparse/bounds-matcher/services"
)

// Aggregation handles entities whose two parts are rendered as separate
// spans, typically a value and its label. The entity text is split into
// two components at candidate boundaries, each component is located by
// literal search, and the nearest same-page pair of hits is merged into
// one enclosing bounds when they are vertically close enough and nothing
// unrelated sits between them.
type Aggregation struct {
	maxGap  float64
	penalty float64
}

// NewAggregation creates the aggregation matching strategy.
func NewAggregation(settings config.MatcherSettings) *Aggregation {
	return &Aggregation{
		maxGap:  settings.AggregationMaxGap,
		penalty: settings.AggregationPenalty,
	}
}

// Name returns "aggregation".
func (a *Aggregation) Name() string { return config.StrategyAggregation }

// split is one candidate two-way decomposition of the entity text.
type split struct {
	first  string
	second string
}

// pairHit is a located (first, second) rectangle pair on one page.
type pairHit struct {
	pageIndex int
	first     model.Bounds
	second    model.Bounds
	gap       float64
}

// Match tries every candidate split and picks the geometrically closest
// component pair across the document.
func (a *Aggregation) Match(entityText string, doc services.Document) BoundsResult {
	splits := candidateSplits(entityText)
	if len(splits) == 0 {
		return failure(a.Name())
	}

	for _, sp := range splits {
		hit, ok := a.locatePair(sp, doc)
		if !ok {
			continue
		}

		merged := hit.first.Union(hit.second)
		// Both components are literal hits, so each carries confidence 1.0;
		// the penalty reflects that the combination is inferred.
		confidence := (1.0 + 1.0) / 2 * a.penalty

		return BoundsResult{
			Success:    true,
			Bounds:     &merged,
			Confidence: confidence,
			Components: []model.ComponentMatch{
				{Text: sp.first, Bounds: &hit.first},
				{Text: sp.second, Bounds: &hit.second},
			},
			StrategyName: a.Name(),
		}
	}

	return failure(a.Name())
}

// locatePair finds the nearest same-page occurrence pair of both
// components, in page order. Pairs beyond the vertical proximity bound or
// with unrelated content interposed are rejected.
func (a *Aggregation) locatePair(sp split, doc services.Document) (pairHit, bool) {
	best := pairHit{pageIndex: -1}

	for i := 0; i < doc.PageCount(); i++ {
		page := doc.Page(i)
		firstHits := page.SearchLiteral(sp.first)
		if len(firstHits) == 0 {
			continue
		}
		secondHits := page.SearchLiteral(sp.second)
		if len(secondHits) == 0 {
			continue
		}

		// Nearest-neighbor over the occurrence pairs of this page.
		for _, fb := range firstHits {
			for _, sb := range secondHits {
				gap := fb.VerticalGap(sb)
				if gap > a.maxGap {
					continue
				}
				if a.interposed(page, sp, fb, sb) {
					continue
				}
				if best.pageIndex < 0 || gap < best.gap {
					best = pairHit{pageIndex: i, first: fb, second: sb, gap: gap}
				}
			}
		}

		if best.pageIndex >= 0 {
			// Components on a later page cannot beat a same-page pair
			// found earlier in page order.
			return best, true
		}
	}

	return best, best.pageIndex >= 0
}

// interposed reports whether any span unrelated to the two components sits
// vertically between their rectangles while overlapping them horizontally.
func (a *Aggregation) interposed(page services.Page, sp split, first, second model.Bounds) bool {
	top, bottom := first, second
	if second.Y < first.Y {
		top, bottom = second, first
	}
	if top.Y+top.Height >= bottom.Y {
		return false // overlapping or touching, nothing fits between
	}

	union := first.Union(second)
	for _, span := range page.Spans() {
		b := span.Bounds
		if b.Y <= top.Y+top.Height || b.Y+b.Height >= bottom.Y {
			continue // not strictly between the two rectangles
		}
		if union.HorizontalGap(b) > 0 {
			continue // off to the side
		}
		if isComponentText(span.Text, sp) {
			continue
		}
		return true
	}
	return false
}

// isComponentText reports whether a span is just another rendering of one
// of the components, which should not count as interposed content.
func isComponentText(text string, sp split) bool {
	norm := textutil.NormalizeText(text)
	return norm == textutil.NormalizeText(sp.first) || norm == textutil.NormalizeText(sp.second)
}

// candidateSplits builds the ordered two-way decompositions of the entity
// text: the numeric-prefix/text-suffix boundary first (the common
// value + label case), then every other token boundary.
func candidateSplits(entityText string) []split {
	fields := strings.Fields(entityText)
	if len(fields) < 2 {
		return nil
	}

	splits := make([]split, 0, len(fields))
	seen := make(map[split]bool)
	add := func(first, second string) {
		sp := split{first: first, second: second}
		if first == "" || second == "" || seen[sp] {
			return
		}
		seen[sp] = true
		splits = append(splits, sp)
	}

	if first, second, ok := textutil.SplitNumericBoundary(entityText); ok {
		add(first, second)
	}
	for i := 1; i < len(fields); i++ {
		add(strings.Join(fields[:i], " "), strings.Join(fields[i:], " "))
	}

	return splits
}
