package spanindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docparse/bounds-matcher/internal/testutil"
)

func buildTestIndex() *Index {
	doc := testutil.NewFakeDocument(
		testutil.NewFakePage(1,
			testutil.Span("Quarterly Report", 1, 0.1, 0.05, 0.3, 0.02),
			testutil.Span("On-Time Delivery Rate", 1, 0.1, 0.33, 0.25, 0.02),
		),
		testutil.NewFakePage(2,
			testutil.Span("Delivery Summary", 2, 0.1, 0.10, 0.2, 0.02),
		),
	)
	return Build(doc)
}

func TestCandidatesSharePageAndSpanOrder(t *testing.T) {
	idx := buildTestIndex()

	refs := idx.Candidates("delivery report")
	require.Len(t, refs, 3)

	// Page order first, then span order within the page.
	assert.Equal(t, SpanRef{PageIndex: 0, SpanIndex: 0}, refs[0])
	assert.Equal(t, SpanRef{PageIndex: 0, SpanIndex: 1}, refs[1])
	assert.Equal(t, SpanRef{PageIndex: 1, SpanIndex: 0}, refs[2])
}

func TestCandidatesDeduplicated(t *testing.T) {
	idx := buildTestIndex()

	// Both tokens hit the same span; it must appear once.
	refs := idx.Candidates("on time")
	require.Len(t, refs, 1)
	assert.Equal(t, SpanRef{PageIndex: 0, SpanIndex: 1}, refs[0])
}

func TestCandidatesNoSharedTokens(t *testing.T) {
	idx := buildTestIndex()
	assert.Empty(t, idx.Candidates("zebra quantum"))
}

func TestSpanResolution(t *testing.T) {
	idx := buildTestIndex()

	span := idx.Span(SpanRef{PageIndex: 1, SpanIndex: 0})
	assert.Equal(t, "Delivery Summary", span.Text)
	assert.Equal(t, 2, span.Bounds.Page)

	assert.Len(t, idx.PageSpans(0), 2)
	assert.Greater(t, idx.TokenCount(), 0)
}
