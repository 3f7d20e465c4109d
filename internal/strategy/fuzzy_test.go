package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docparse/bounds-matcher/internal/spanindex"
	"github.com/docparse/bounds-matcher/internal/testutil"
)

func TestFuzzyNearMiss(t *testing.T) {
	// "On Time Delivery" never appears literally, but the span
	// "On-Time Delivery Rate" is close enough.
	doc := testutil.NewFakeDocument(
		testutil.NewFakePage(1,
			testutil.Span("Quarterly Report", 1, 0.1, 0.05, 0.3, 0.02),
			testutil.Span("On-Time Delivery Rate", 1, 0.1, 0.33, 0.25, 0.02),
		),
	)

	fuzzy := NewFuzzy(defaultSettings(), spanindex.Build(doc))
	result := fuzzy.Match("On Time Delivery", doc)

	require.True(t, result.Success)
	assert.Equal(t, "fuzzy", result.StrategyName)
	// Acceptance floor 0.6 times penalty 0.8 bounds the confidence below.
	assert.GreaterOrEqual(t, result.Confidence, 0.48)
	assert.LessOrEqual(t, result.Confidence, 1.0)
	require.NotNil(t, result.Bounds)
	assert.InDelta(t, 0.33, result.Bounds.Y, 1e-9)
}

func TestFuzzySlidingWindow(t *testing.T) {
	// The best candidate is two adjacent spans joined, not either alone.
	doc := testutil.NewFakeDocument(
		testutil.NewFakePage(1,
			testutil.Span("Annual Revenue", 1, 0.10, 0.20, 0.15, 0.02),
			testutil.Span("Growth Rate", 1, 0.28, 0.20, 0.12, 0.02),
		),
	)

	fuzzy := NewFuzzy(defaultSettings(), spanindex.Build(doc))
	result := fuzzy.Match("Annual Revenue Growth", doc)

	require.True(t, result.Success)
	require.NotNil(t, result.Bounds)
	// The window bounds cover both spans.
	assert.InDelta(t, 0.10, result.Bounds.X, 1e-9)
	assert.InDelta(t, 0.40, result.Bounds.X+result.Bounds.Width, 1e-9)
}

func TestFuzzyBelowAcceptanceFloor(t *testing.T) {
	// One shared token is not enough to clear the floor; the strategy
	// must fail outright instead of reporting a weak success.
	doc := testutil.NewFakeDocument(
		testutil.NewFakePage(1,
			testutil.Span("Margin Call Transcript", 1, 0.1, 0.1, 0.3, 0.02),
		),
	)

	fuzzy := NewFuzzy(defaultSettings(), spanindex.Build(doc))
	result := fuzzy.Match("Gross Margin", doc)

	assert.False(t, result.Success)
	assert.Equal(t, 0.0, result.Confidence)
	assert.Nil(t, result.Bounds)
}

func TestFuzzyNoSharedTokens(t *testing.T) {
	doc := testutil.NewFakeDocument(
		testutil.NewFakePage(1,
			testutil.Span("Completely different content", 1, 0.1, 0.1, 0.3, 0.02),
		),
	)

	fuzzy := NewFuzzy(defaultSettings(), spanindex.Build(doc))
	result := fuzzy.Match("On Time Delivery", doc)

	assert.False(t, result.Success)
}

func TestFuzzyPenaltyKeepsFuzzyBelowExact(t *testing.T) {
	// Even a perfect similarity score must stay below an exact match.
	doc := testutil.NewFakeDocument(
		testutil.NewFakePage(1,
			testutil.Span("On-Time Delivery Rate", 1, 0.1, 0.33, 0.25, 0.02),
		),
	)

	fuzzy := NewFuzzy(defaultSettings(), spanindex.Build(doc))
	result := fuzzy.Match("On-Time Delivery Rate", doc)

	require.True(t, result.Success)
	assert.InDelta(t, 0.8, result.Confidence, 1e-9)
	assert.Less(t, result.Confidence, 1.0)
}
