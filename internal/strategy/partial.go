package strategy

import (
	"strings"

	"github.com/docparse/bounds-matcher/config"
	"github.com/docparse/bounds-matcher/internal/textutil"
	"github.com/docparse/bounds-matcher/model"
	"github.com/docparse/bounds-matcher/services"
)

// Partial locates a shrinking sequence of anchors derived from the entity
// text: the text with outer decoration stripped, the text with one outer
// qualifier token removed, then fixed-length prefixes down to a minimum
// floor. Confidence is the coverage ratio of the matched anchor against
// the full entity text; coverage below the configured floor is a failure,
// not a low-confidence success.
type Partial struct {
	minCoverage  float64
	minAnchorLen int
}

// NewPartial creates the partial matching strategy.
func NewPartial(settings config.MatcherSettings) *Partial {
	return &Partial{
		minCoverage:  settings.PartialMinCoverage,
		minAnchorLen: settings.MinAnchorLength,
	}
}

// Name returns "partial".
func (p *Partial) Name() string { return config.StrategyPartial }

// Match tries each candidate anchor in order against literal search across
// all pages, stopping at the first hit.
func (p *Partial) Match(entityText string, doc services.Document) BoundsResult {
	entityLen := len([]rune(entityText))
	if entityLen == 0 {
		return failure(p.Name())
	}

	for _, anchor := range p.anchors(entityText) {
		bounds, ok := firstHit(doc, anchor)
		if !ok {
			continue
		}

		coverage := float64(len([]rune(anchor))) / float64(entityLen)
		if coverage < p.minCoverage {
			return failure(p.Name())
		}

		return BoundsResult{
			Success:      true,
			Bounds:       &bounds,
			Confidence:   coverage,
			StrategyName: p.Name(),
		}
	}

	return failure(p.Name())
}

// anchors builds the ordered candidate list. Anchors identical to the full
// entity text are skipped (exact already tried it), as are anchors whose
// coverage could never clear the floor.
func (p *Partial) anchors(entityText string) []string {
	candidates := []string{
		textutil.TrimDecorations(entityText),
		textutil.DropLeadingToken(entityText),
		textutil.DropTrailingToken(entityText),
	}

	// Shrinking prefixes of the trimmed text, down to the anchor floor.
	base := textutil.TrimDecorations(entityText)
	if base == "" {
		base = entityText
	}
	runes := []rune(base)
	for _, fraction := range []float64{0.75, 0.5} {
		cut := int(float64(len(runes)) * fraction)
		if cut >= p.minAnchorLen && cut < len(runes) {
			candidates = append(candidates, strings.TrimSpace(string(runes[:cut])))
		}
	}
	if len(runes) > p.minAnchorLen {
		candidates = append(candidates, strings.TrimSpace(string(runes[:p.minAnchorLen])))
	}

	entityLen := len([]rune(entityText))
	seen := map[string]bool{entityText: true}
	anchors := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate == "" || seen[candidate] {
			continue
		}
		seen[candidate] = true
		if float64(len([]rune(candidate)))/float64(entityLen) < p.minCoverage {
			continue
		}
		anchors = append(anchors, candidate)
	}
	return anchors
}

// firstHit returns the first literal occurrence of text in page order.
func firstHit(doc services.Document, text string) (model.Bounds, bool) {
	for i := 0; i < doc.PageCount(); i++ {
		hits := doc.Page(i).SearchLiteral(text)
		if len(hits) > 0 {
			return hits[0], true
		}
	}
	return model.Bounds{}, false
}
