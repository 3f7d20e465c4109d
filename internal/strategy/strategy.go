// Package strategy implements the closed set of matching strategies used
// to locate entity text inside a document: exact, partial, aggregation and
// fuzzy. Strategies are stateless with respect to entities; each Match call
// is a bounded computation over the document's pages and spans.
package strategy

import (
	"github.com/docparse/bounds-matcher/model"
	"github.com/docparse/bounds-matcher/services"
)

// BoundsResult is the outcome of one strategy attempt. It is produced and
// consumed only inside the dispatch loop; a failed attempt is a normal
// value (Success false), never an error.
type BoundsResult struct {
	Success      bool
	Bounds       *model.Bounds
	Confidence   float64
	Components   []model.ComponentMatch
	StrategyName string
}

// Strategy is the uniform contract all matching strategies implement.
type Strategy interface {
	// Match attempts to locate entityText inside doc.
	Match(entityText string, doc services.Document) BoundsResult

	// Name returns the strategy name used in results and statistics.
	Name() string
}

// failure is the canonical failed result for a strategy.
func failure(name string) BoundsResult {
	return BoundsResult{Success: false, Confidence: 0, StrategyName: name}
}
