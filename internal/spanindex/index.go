// Package spanindex builds a small inverted index over the text spans of an
// open document. The fuzzy matcher uses it to restrict similarity scoring
// to spans that share at least one token with the entity, instead of
// scoring every span on every page.
package spanindex

import (
	"sort"

	"github.com/docparse/bounds-matcher/internal/textutil"
	"github.com/docparse/bounds-matcher/services"
)

// SpanRef identifies one span of one page of the indexed document.
type SpanRef struct {
	PageIndex int // 0-based iteration index into the document
	SpanIndex int // position within the page's span list
}

// PostingList is the ordered list of spans containing a token, in page
// order then span order.
type PostingList []SpanRef

// Index maps a token to the spans that contain it. An Index is built once
// per document handle and is read-only afterwards.
type Index struct {
	postings map[string]PostingList
	spans    [][]services.Span // per page, as returned by the document
}

// Build tokenizes every span of every page and fills the postings map.
func Build(doc services.Document) *Index {
	idx := &Index{
		postings: make(map[string]PostingList),
		spans:    make([][]services.Span, doc.PageCount()),
	}

	for p := 0; p < doc.PageCount(); p++ {
		spans := doc.Page(p).Spans()
		idx.spans[p] = spans

		for s, span := range spans {
			ref := SpanRef{PageIndex: p, SpanIndex: s}
			seen := make(map[string]bool)
			for _, token := range textutil.Tokenize(span.Text) {
				if seen[token] {
					continue
				}
				seen[token] = true
				idx.postings[token] = append(idx.postings[token], ref)
			}
		}
	}

	return idx
}

// Candidates returns the deduplicated spans sharing at least one token with
// text, in page order then span order.
func (idx *Index) Candidates(text string) []SpanRef {
	seen := make(map[SpanRef]bool)
	refs := make([]SpanRef, 0)

	for _, token := range textutil.Tokenize(text) {
		for _, ref := range idx.postings[token] {
			if !seen[ref] {
				seen[ref] = true
				refs = append(refs, ref)
			}
		}
	}

	sort.Slice(refs, func(i, j int) bool {
		if refs[i].PageIndex != refs[j].PageIndex {
			return refs[i].PageIndex < refs[j].PageIndex
		}
		return refs[i].SpanIndex < refs[j].SpanIndex
	})
	return refs
}

// Span resolves a SpanRef back to the underlying span.
func (idx *Index) Span(ref SpanRef) services.Span {
	return idx.spans[ref.PageIndex][ref.SpanIndex]
}

// PageSpans returns the indexed span list of one page.
func (idx *Index) PageSpans(pageIndex int) []services.Span {
	return idx.spans[pageIndex]
}

// TokenCount returns the number of distinct tokens in the index.
func (idx *Index) TokenCount() int {
	return len(idx.postings)
}
