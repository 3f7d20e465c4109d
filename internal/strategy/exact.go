package strategy

import (
	"github.com/docparse/bounds-matcher/config"
	"github.com/docparse/bounds-matcher/services"
)

// Exact locates the first literal occurrence of the entity text, searching
// every page in page order. A hit is fully trusted: confidence 1.0.
type Exact struct{}

// NewExact creates the exact matching strategy.
func NewExact() *Exact {
	return &Exact{}
}

// Name returns "exact".
func (e *Exact) Name() string { return config.StrategyExact }

// Match searches each page for the entity text and returns the bounds of
// the first matching rectangle on the first page that has one.
func (e *Exact) Match(entityText string, doc services.Document) BoundsResult {
	if entityText == "" {
		return failure(e.Name())
	}

	for i := 0; i < doc.PageCount(); i++ {
		hits := doc.Page(i).SearchLiteral(entityText)
		if len(hits) == 0 {
			continue
		}

		bounds := hits[0]
		return BoundsResult{
			Success:      true,
			Bounds:       &bounds,
			Confidence:   1.0,
			StrategyName: e.Name(),
		}
	}

	return failure(e.Name())
}
