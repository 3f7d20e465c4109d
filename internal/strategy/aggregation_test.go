package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docparse/bounds-matcher/internal/testutil"
)

func TestAggregationValueAndLabel(t *testing.T) {
	// A combined entity: value and label rendered as two adjacent spans,
	// never as one literal string.
	doc := testutil.NewFakeDocument(
		testutil.NewFakePage(1,
			testutil.Span("49.99%", 1, 0.10, 0.30, 0.08, 0.02),
			testutil.Span("On-Time Delivery Rate", 1, 0.10, 0.33, 0.25, 0.02),
		),
	)

	result := NewAggregation(defaultSettings()).Match("49.99% On-Time Delivery Rate", doc)

	require.True(t, result.Success)
	assert.Equal(t, "aggregation", result.StrategyName)
	assert.Greater(t, result.Confidence, 0.0)
	assert.Less(t, result.Confidence, 1.0)
	assert.InDelta(t, 0.9, result.Confidence, 1e-9)

	require.Len(t, result.Components, 2)
	assert.Equal(t, "49.99%", result.Components[0].Text)
	assert.Equal(t, "On-Time Delivery Rate", result.Components[1].Text)

	require.NotNil(t, result.Bounds)
	assert.True(t, result.Bounds.Encloses(*result.Components[0].Bounds))
	assert.True(t, result.Bounds.Encloses(*result.Components[1].Bounds))
	assert.Equal(t, 1, result.Bounds.Page)
}

func TestAggregationComponentsOnDifferentPages(t *testing.T) {
	doc := testutil.NewFakeDocument(
		testutil.NewFakePage(1,
			testutil.Span("49.99%", 1, 0.10, 0.30, 0.08, 0.02),
		),
		testutil.NewFakePage(2,
			testutil.Span("On-Time Delivery Rate", 2, 0.10, 0.33, 0.25, 0.02),
		),
	)

	result := NewAggregation(defaultSettings()).Match("49.99% On-Time Delivery Rate", doc)

	assert.False(t, result.Success)
}

func TestAggregationProximityBound(t *testing.T) {
	// Both components on the same page, but half a page apart.
	doc := testutil.NewFakeDocument(
		testutil.NewFakePage(1,
			testutil.Span("49.99%", 1, 0.10, 0.10, 0.08, 0.02),
			testutil.Span("On-Time Delivery Rate", 1, 0.10, 0.60, 0.25, 0.02),
		),
	)

	result := NewAggregation(defaultSettings()).Match("49.99% On-Time Delivery Rate", doc)

	assert.False(t, result.Success)
}

func TestAggregationInterposedContent(t *testing.T) {
	// An unrelated span sits between the two components.
	doc := testutil.NewFakeDocument(
		testutil.NewFakePage(1,
			testutil.Span("49.99%", 1, 0.10, 0.100, 0.08, 0.020),
			testutil.Span("Unrelated footnote text", 1, 0.10, 0.125, 0.30, 0.015),
			testutil.Span("On-Time Delivery Rate", 1, 0.10, 0.145, 0.25, 0.020),
		),
	)

	result := NewAggregation(defaultSettings()).Match("49.99% On-Time Delivery Rate", doc)

	assert.False(t, result.Success)
}

func TestAggregationNearestPairWins(t *testing.T) {
	// The value occurs twice; the occurrence adjacent to the label must be
	// chosen, not the distant one.
	doc := testutil.NewFakeDocument(
		testutil.NewFakePage(1,
			testutil.Span("49.99%", 1, 0.10, 0.10, 0.08, 0.02),
			testutil.Span("49.99%", 1, 0.10, 0.30, 0.08, 0.02),
			testutil.Span("On-Time Delivery Rate", 1, 0.10, 0.33, 0.25, 0.02),
		),
	)

	result := NewAggregation(defaultSettings()).Match("49.99% On-Time Delivery Rate", doc)

	require.True(t, result.Success)
	require.Len(t, result.Components, 2)
	assert.InDelta(t, 0.30, result.Components[0].Bounds.Y, 1e-9)
}

func TestAggregationSingleToken(t *testing.T) {
	doc := testutil.NewFakeDocument(
		testutil.NewFakePage(1,
			testutil.Span("Revenue", 1, 0.10, 0.10, 0.10, 0.02),
		),
	)

	result := NewAggregation(defaultSettings()).Match("Revenue", doc)

	assert.False(t, result.Success)
}

func TestCandidateSplits(t *testing.T) {
	splits := candidateSplits("49.99% On-Time Delivery Rate")
	require.NotEmpty(t, splits)

	// Numeric-prefix boundary comes first.
	assert.Equal(t, "49.99%", splits[0].first)
	assert.Equal(t, "On-Time Delivery Rate", splits[0].second)

	// Token-boundary splits follow, deduplicated against the first.
	for i, sp := range splits {
		assert.NotEmpty(t, sp.first, "split %d", i)
		assert.NotEmpty(t, sp.second, "split %d", i)
	}

	assert.Nil(t, candidateSplits("Revenue"))
}
