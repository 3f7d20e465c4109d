package model

// Entity is a single semantic value extracted upstream (a KPI, a date, an
// organization name, ...) that needs to be located inside the PDF document.
type Entity struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Bounds is a normalized bounding rectangle locating text on a page.
// Page numbers are 1-indexed; x, y, width and height are fractions of the
// page dimensions in [0, 1], with the origin at the top-left corner.
// Bounds is an immutable value type: operations return new values.
type Bounds struct {
	Page   int     `json:"page"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Union returns the minimal enclosing bounds of b and other.
// Both rectangles must be on the same page; the page of b is kept.
func (b Bounds) Union(other Bounds) Bounds {
	x0 := minFloat(b.X, other.X)
	y0 := minFloat(b.Y, other.Y)
	x1 := maxFloat(b.X+b.Width, other.X+other.Width)
	y1 := maxFloat(b.Y+b.Height, other.Y+other.Height)

	return Bounds{
		Page:   b.Page,
		X:      x0,
		Y:      y0,
		Width:  x1 - x0,
		Height: y1 - y0,
	}
}

// VerticalGap returns the vertical distance between the two rectangles as a
// fraction of the page height. Overlapping or touching rectangles yield 0.
func (b Bounds) VerticalGap(other Bounds) float64 {
	if b.Y+b.Height < other.Y {
		return other.Y - (b.Y + b.Height)
	}
	if other.Y+other.Height < b.Y {
		return b.Y - (other.Y + other.Height)
	}
	return 0
}

// HorizontalGap returns the horizontal distance between the two rectangles
// as a fraction of the page width. Overlapping rectangles yield 0.
func (b Bounds) HorizontalGap(other Bounds) float64 {
	if b.X+b.Width < other.X {
		return other.X - (b.X + b.Width)
	}
	if other.X+other.Width < b.X {
		return b.X - (other.X + other.Width)
	}
	return 0
}

// Encloses reports whether b fully contains other, ignoring the page.
// A small epsilon absorbs floating point noise from coordinate math.
func (b Bounds) Encloses(other Bounds) bool {
	const eps = 1e-9
	return b.X <= other.X+eps &&
		b.Y <= other.Y+eps &&
		b.X+b.Width+eps >= other.X+other.Width &&
		b.Y+b.Height+eps >= other.Y+other.Height
}

// IsNormalized reports whether the bounds satisfy the output contract:
// 1-indexed page and all coordinates within [0, 1].
func (b Bounds) IsNormalized() bool {
	return b.Page >= 1 &&
		b.X >= 0 && b.X <= 1 &&
		b.Y >= 0 && b.Y <= 1 &&
		b.Width >= 0 && b.Width <= 1 &&
		b.Height >= 0 && b.Height <= 1
}

// ComponentMatch is one located fragment contributing to a combined entity,
// e.g. the value span of a "value + label" KPI.
type ComponentMatch struct {
	Text   string  `json:"text"`
	Bounds *Bounds `json:"bounds"`
}

// MatchedEntity is the final result of matching one entity. It is created
// once per (entity_name, entity_type) pair and is immutable afterwards; the
// dispatcher cache reuses it for repeated pairs within a batch.
type MatchedEntity struct {
	EntityName       string           `json:"entity_name"`
	EntityType       string           `json:"entity_type"`
	MatchStrategy    string           `json:"match_strategy"`
	Confidence       float64          `json:"confidence"`
	Bounds           *Bounds          `json:"bounds"`
	ComponentMatches []ComponentMatch `json:"component_matches"`
}

// MatchStatistics summarizes one batch run. The confidence buckets
// partition the batch: Matched + PartialMatched + Unmatched == TotalEntities.
type MatchStatistics struct {
	TotalEntities  int            `json:"total_entities"`
	Matched        int            `json:"matched"`
	PartialMatched int            `json:"partial_matched"`
	Unmatched      int            `json:"unmatched"`
	StrategiesUsed map[string]int `json:"strategies_used"`
}

// BatchResult is the full output of matching an entity list against one
// document: per-entity results in input order plus aggregate statistics.
type BatchResult struct {
	BatchID         string          `json:"batch_id,omitempty"`
	MatchedEntities []MatchedEntity `json:"matched_entities"`
	Statistics      MatchStatistics `json:"statistics"`
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
