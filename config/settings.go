// Package config provides configuration structures for the bounds matcher.
// It defines the acceptance thresholds and penalty factors used by the
// matching strategies, plus the fallback-chain ordering per entity type.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Strategy names used in fallback chains, results and statistics.
const (
	StrategyExact       = "exact"
	StrategyPartial     = "partial"
	StrategyAggregation = "aggregation"
	StrategyFuzzy       = "fuzzy"
	StrategyNone        = "none"
)

// MatcherSettings contains all tunable parameters of the matching engine.
// None of the thresholds are hard invariants; they are sensible defaults
// that callers can override per deployment.
//
// IMPORTANT: the exact strategy is always attempted first, regardless of
// the per-type chains configured here. The chains only order the fallback
// strategies tried after an exact miss.
type MatcherSettings struct {
	// PartialMinCoverage is the minimum (matched anchor length / entity
	// length) ratio for a partial match to count as a success.
	PartialMinCoverage float64 `json:"partial_min_coverage"`

	// MinAnchorLength is the shortest prefix anchor the partial matcher
	// will try, in runes.
	MinAnchorLength int `json:"min_anchor_length"`

	// AggregationMaxGap is the maximum vertical distance between two
	// component rectangles, as a fraction of page height, for them to be
	// merged into one bounds.
	AggregationMaxGap float64 `json:"aggregation_max_gap"`

	// AggregationPenalty scales the averaged component confidences,
	// reflecting that the combination is inferred rather than observed.
	AggregationPenalty float64 `json:"aggregation_penalty"`

	// FuzzyMinScore is the minimum similarity score for a fuzzy candidate
	// to be accepted at all. Below it the strategy fails outright.
	FuzzyMinScore float64 `json:"fuzzy_min_score"`

	// FuzzyPenalty scales the similarity score so fuzzy results never
	// outrank exact or partial ones at equal similarity.
	FuzzyPenalty float64 `json:"fuzzy_penalty"`

	// FuzzyWindowSize is the maximum number of adjacent spans joined into
	// one sliding-window candidate.
	FuzzyWindowSize int `json:"fuzzy_window_size"`

	// CaseSensitiveSearch controls literal search. Entity strings come
	// from an extraction layer with unreliable casing, so the default is
	// case-insensitive.
	CaseSensitiveSearch bool `json:"case_sensitive_search"`

	// TypeChains maps a lowercased entity type to the ordered list of
	// fallback strategies tried after exact. Unlisted types use
	// DefaultChain.
	TypeChains map[string][]string `json:"type_chains,omitempty"`

	// DefaultChain is the fallback ordering for unrecognized entity types.
	DefaultChain []string `json:"default_chain,omitempty"`
}

// ApplyDefaults applies default values to the matcher settings
func (settings *MatcherSettings) ApplyDefaults() {
	if settings.PartialMinCoverage == 0 {
		settings.PartialMinCoverage = 0.3
	}
	if settings.MinAnchorLength == 0 {
		settings.MinAnchorLength = 8
	}
	if settings.AggregationMaxGap == 0 {
		settings.AggregationMaxGap = 0.05
	}
	if settings.AggregationPenalty == 0 {
		settings.AggregationPenalty = 0.9
	}
	if settings.FuzzyMinScore == 0 {
		settings.FuzzyMinScore = 0.6
	}
	if settings.FuzzyPenalty == 0 {
		settings.FuzzyPenalty = 0.8
	}
	if settings.FuzzyWindowSize == 0 {
		settings.FuzzyWindowSize = 2
	}

	if settings.TypeChains == nil {
		settings.TypeChains = map[string][]string{}
	}

	// Numeric/KPI-like types benefit from aggregation (value + label split
	// across spans); plain text types go straight to partial.
	numericChain := []string{StrategyAggregation, StrategyPartial, StrategyFuzzy}
	textChain := []string{StrategyPartial, StrategyFuzzy}

	defaults := map[string][]string{
		"kpi":          numericChain,
		"metric":       numericChain,
		"number":       numericChain,
		"percentage":   numericChain,
		"currency":     numericChain,
		"money":        numericChain,
		"date":         textChain,
		"organization": textChain,
		"person":       textChain,
		"location":     textChain,
		"text":         textChain,
	}
	for entityType, chain := range defaults {
		if _, ok := settings.TypeChains[entityType]; !ok {
			settings.TypeChains[entityType] = chain
		}
	}

	if settings.DefaultChain == nil {
		settings.DefaultChain = []string{StrategyPartial, StrategyAggregation, StrategyFuzzy}
	}
}

// Validate checks the settings for inconsistencies and returns a list of
// human-readable conflict messages. An empty list means the settings are
// usable.
func (settings *MatcherSettings) Validate() []string {
	var conflicts []string

	checkUnit := func(name string, value float64) {
		if value < 0 || value > 1 {
			conflicts = append(conflicts, fmt.Sprintf("%s must be in [0, 1], got %g", name, value))
		}
	}

	checkUnit("partial_min_coverage", settings.PartialMinCoverage)
	checkUnit("aggregation_max_gap", settings.AggregationMaxGap)
	checkUnit("aggregation_penalty", settings.AggregationPenalty)
	checkUnit("fuzzy_min_score", settings.FuzzyMinScore)
	checkUnit("fuzzy_penalty", settings.FuzzyPenalty)

	if settings.MinAnchorLength < 1 {
		conflicts = append(conflicts, fmt.Sprintf("min_anchor_length must be at least 1, got %d", settings.MinAnchorLength))
	}
	if settings.FuzzyWindowSize < 1 {
		conflicts = append(conflicts, fmt.Sprintf("fuzzy_window_size must be at least 1, got %d", settings.FuzzyWindowSize))
	}

	conflicts = append(conflicts, settings.validateChains()...)

	return conflicts
}

// validateChains checks that every configured chain references only known
// fallback strategies and contains no duplicates.
func (settings *MatcherSettings) validateChains() []string {
	var conflicts []string

	known := map[string]bool{
		StrategyPartial:     true,
		StrategyAggregation: true,
		StrategyFuzzy:       true,
	}

	checkChain := func(owner string, chain []string) {
		seen := make(map[string]bool)
		for _, name := range chain {
			if name == StrategyExact {
				conflicts = append(conflicts, "Chain for "+owner+" lists 'exact', which is always attempted first and must not appear in a fallback chain")
				continue
			}
			if !known[name] {
				conflicts = append(conflicts, "Chain for "+owner+" references unknown strategy '"+name+"'")
				continue
			}
			if seen[name] {
				conflicts = append(conflicts, "Duplicate strategy '"+name+"' in chain for "+owner)
			}
			seen[name] = true
		}
	}

	for entityType, chain := range settings.TypeChains {
		if strings.TrimSpace(entityType) == "" {
			conflicts = append(conflicts, "Entity type in type_chains cannot be empty or whitespace-only")
		}
		checkChain("type '"+entityType+"'", chain)
	}
	if settings.DefaultChain != nil {
		checkChain("default chain", settings.DefaultChain)
	}

	return conflicts
}

// ChainFor returns the fallback chain for the given entity type. Lookup is
// case-insensitive; unrecognized types get the default chain.
func (settings *MatcherSettings) ChainFor(entityType string) []string {
	if chain, ok := settings.TypeChains[strings.ToLower(strings.TrimSpace(entityType))]; ok {
		return chain
	}
	return settings.DefaultChain
}

// LoadSettings reads matcher settings from a JSON file and applies
// defaults. A missing path yields default settings.
func LoadSettings(path string) (MatcherSettings, error) {
	var settings MatcherSettings

	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- path comes from the operator's CLI flag
		if err != nil {
			return settings, fmt.Errorf("failed to read settings file %s: %w", path, err)
		}
		if err := json.Unmarshal(data, &settings); err != nil {
			return settings, fmt.Errorf("failed to parse settings file %s: %w", path, err)
		}
	}

	settings.ApplyDefaults()
	return settings, nil
}
