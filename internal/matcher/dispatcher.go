// Package matcher orchestrates the matching strategies: per-entity-type
// fallback chains, the result cache, and the batch driver with its match
// statistics.
package matcher

import (
	"github.com/docparse/bounds-matcher/config"
	"github.com/docparse/bounds-matcher/internal/spanindex"
	"github.com/docparse/bounds-matcher/internal/strategy"
	"github.com/docparse/bounds-matcher/model"
	"github.com/docparse/bounds-matcher/services"
)

// cacheKey identifies a dispatch result. The (name, type) pair is not
// guaranteed unique across a batch; reusing the cached result for a
// repeated pair is the intended idempotence contract.
type cacheKey struct {
	entityName string
	entityType string
}

// Dispatcher runs the fallback chain for single entities against one open
// document. Exact is always attempted first; the remaining order is the
// type-keyed chain from the settings. The dispatcher owns its result
// cache, which is reset on construction.
type Dispatcher struct {
	doc       services.Document
	settings  config.MatcherSettings
	exact     strategy.Strategy
	fallbacks map[string]strategy.Strategy
	cache     map[cacheKey]model.MatchedEntity
}

// NewDispatcher builds the closed strategy set over the document. The span
// index backing the fuzzy strategy is built here, once per document handle.
func NewDispatcher(doc services.Document, settings config.MatcherSettings) *Dispatcher {
	index := spanindex.Build(doc)

	return &Dispatcher{
		doc:      doc,
		settings: settings,
		exact:    strategy.NewExact(),
		fallbacks: map[string]strategy.Strategy{
			config.StrategyPartial:     strategy.NewPartial(settings),
			config.StrategyAggregation: strategy.NewAggregation(settings),
			config.StrategyFuzzy:       strategy.NewFuzzy(settings, index),
		},
		cache: make(map[cacheKey]model.MatchedEntity),
	}
}

// MatchEntity locates one entity. Matching is total: an exhausted chain
// yields a normal result with strategy "none" and confidence 0. Repeated
// (name, type) pairs short-circuit to the cached result.
func (d *Dispatcher) MatchEntity(entityName, entityType string) model.MatchedEntity {
	key := cacheKey{entityName: entityName, entityType: entityType}
	if cached, ok := d.cache[key]; ok {
		return cached
	}

	matched := d.dispatch(entityName, entityType)
	d.cache[key] = matched
	return matched
}

// dispatch walks the chain and stops at the first successful strategy.
// Failed attempts are recovered locally and never surface outward.
func (d *Dispatcher) dispatch(entityName, entityType string) model.MatchedEntity {
	if result := d.exact.Match(entityName, d.doc); result.Success {
		return d.toMatchedEntity(entityName, entityType, result)
	}

	for _, strategyName := range d.settings.ChainFor(entityType) {
		fallback, ok := d.fallbacks[strategyName]
		if !ok {
			continue
		}
		if result := fallback.Match(entityName, d.doc); result.Success {
			return d.toMatchedEntity(entityName, entityType, result)
		}
	}

	return model.MatchedEntity{
		EntityName:       entityName,
		EntityType:       entityType,
		MatchStrategy:    config.StrategyNone,
		Confidence:       0.0,
		Bounds:           nil,
		ComponentMatches: make([]model.ComponentMatch, 0),
	}
}

// toMatchedEntity converts a successful strategy result into the external
// result type. Only the winning strategy is ever recorded.
func (d *Dispatcher) toMatchedEntity(entityName, entityType string, result strategy.BoundsResult) model.MatchedEntity {
	components := result.Components
	if components == nil {
		components = make([]model.ComponentMatch, 0)
	}

	return model.MatchedEntity{
		EntityName:       entityName,
		EntityType:       entityType,
		MatchStrategy:    result.StrategyName,
		Confidence:       result.Confidence,
		Bounds:           result.Bounds,
		ComponentMatches: components,
	}
}
