package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundsUnion(t *testing.T) {
	a := Bounds{Page: 1, X: 0.10, Y: 0.30, Width: 0.08, Height: 0.02}
	b := Bounds{Page: 1, X: 0.10, Y: 0.33, Width: 0.25, Height: 0.02}

	union := a.Union(b)
	assert.Equal(t, 1, union.Page)
	assert.InDelta(t, 0.10, union.X, 1e-9)
	assert.InDelta(t, 0.30, union.Y, 1e-9)
	assert.InDelta(t, 0.25, union.Width, 1e-9)
	assert.InDelta(t, 0.05, union.Height, 1e-9)

	assert.True(t, union.Encloses(a))
	assert.True(t, union.Encloses(b))
}

func TestBoundsVerticalGap(t *testing.T) {
	upper := Bounds{Page: 1, X: 0.1, Y: 0.30, Width: 0.1, Height: 0.02}
	lower := Bounds{Page: 1, X: 0.1, Y: 0.35, Width: 0.1, Height: 0.02}

	assert.InDelta(t, 0.03, upper.VerticalGap(lower), 1e-9)
	assert.InDelta(t, 0.03, lower.VerticalGap(upper), 1e-9)

	overlapping := Bounds{Page: 1, X: 0.1, Y: 0.31, Width: 0.1, Height: 0.02}
	assert.Equal(t, 0.0, upper.VerticalGap(overlapping))
}

func TestBoundsHorizontalGap(t *testing.T) {
	left := Bounds{Page: 1, X: 0.10, Y: 0.3, Width: 0.05, Height: 0.02}
	right := Bounds{Page: 1, X: 0.20, Y: 0.3, Width: 0.05, Height: 0.02}

	assert.InDelta(t, 0.05, left.HorizontalGap(right), 1e-9)
	assert.InDelta(t, 0.05, right.HorizontalGap(left), 1e-9)
	assert.Equal(t, 0.0, left.HorizontalGap(left))
}

func TestBoundsIsNormalized(t *testing.T) {
	assert.True(t, Bounds{Page: 1, X: 0.5, Y: 0.5, Width: 0.5, Height: 0.5}.IsNormalized())
	assert.False(t, Bounds{Page: 0, X: 0.5, Y: 0.5, Width: 0.1, Height: 0.1}.IsNormalized())
	assert.False(t, Bounds{Page: 1, X: -0.1, Y: 0.5, Width: 0.1, Height: 0.1}.IsNormalized())
	assert.False(t, Bounds{Page: 1, X: 0.5, Y: 0.5, Width: 1.2, Height: 0.1}.IsNormalized())
}

func TestMatchedEntityJSONShape(t *testing.T) {
	matched := MatchedEntity{
		EntityName:    "49.99% On-Time Delivery Rate",
		EntityType:    "kpi",
		MatchStrategy: "aggregation",
		Confidence:    0.9,
		Bounds:        &Bounds{Page: 1, X: 0.1, Y: 0.3, Width: 0.25, Height: 0.05},
		ComponentMatches: []ComponentMatch{
			{Text: "49.99%", Bounds: &Bounds{Page: 1, X: 0.1, Y: 0.3, Width: 0.08, Height: 0.02}},
			{Text: "On-Time Delivery Rate", Bounds: &Bounds{Page: 1, X: 0.1, Y: 0.33, Width: 0.25, Height: 0.02}},
		},
	}

	data, err := json.Marshal(matched)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "entity_name")
	assert.Contains(t, decoded, "entity_type")
	assert.Contains(t, decoded, "match_strategy")
	assert.Contains(t, decoded, "confidence")
	assert.Contains(t, decoded, "bounds")
	assert.Contains(t, decoded, "component_matches")
}

func TestUnmatchedEntitySerializesNullBounds(t *testing.T) {
	matched := MatchedEntity{
		EntityName:       "Ghost Metric",
		EntityType:       "kpi",
		MatchStrategy:    "none",
		ComponentMatches: []ComponentMatch{},
	}

	data, err := json.Marshal(matched)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Nil(t, decoded["bounds"])
	components, ok := decoded["component_matches"].([]any)
	require.True(t, ok)
	assert.Empty(t, components)
}
