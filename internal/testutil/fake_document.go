// Package testutil provides fake implementations of the PDF text-access
// contract for testing the matching engine without real PDF files.
package testutil

import (
	"strings"

	"github.com/docparse/bounds-matcher/model"
	"github.com/docparse/bounds-matcher/services"
)

// FakePage is an in-memory services.Page built from a span list. Literal
// search is case-insensitive substring search over the span texts, with
// hit rectangles derived proportionally from the span bounds, which is
// what the real text-access layer does for intra-span hits.
type FakePage struct {
	PageNumber int
	SpanList   []services.Span

	rawText      string
	rawTextBuilt bool

	// RawTextBuilds counts how many times the raw text was actually
	// assembled, for asserting the memoization contract.
	RawTextBuilds int

	// SearchCalls counts SearchLiteral invocations, for asserting that
	// cached dispatch results skip the document entirely.
	SearchCalls int
}

// NewFakePage builds a page from (text, bounds) pairs.
func NewFakePage(number int, spans ...services.Span) *FakePage {
	return &FakePage{PageNumber: number, SpanList: spans}
}

// Number returns the 1-indexed page number.
func (p *FakePage) Number() int { return p.PageNumber }

// SearchLiteral returns one rectangle per span containing text, in span order.
func (p *FakePage) SearchLiteral(text string) []model.Bounds {
	p.SearchCalls++

	hits := make([]model.Bounds, 0)
	if text == "" {
		return hits
	}

	needle := strings.ToLower(text)
	for _, span := range p.SpanList {
		haystack := strings.ToLower(span.Text)
		idx := strings.Index(haystack, needle)
		if idx < 0 {
			continue
		}
		hits = append(hits, subRect(span, idx, len(needle)))
	}
	return hits
}

// RawText joins the span texts with spaces. The result is memoized; tests
// use RawTextBuilds to check the page text is assembled at most once.
func (p *FakePage) RawText() string {
	if !p.rawTextBuilt {
		parts := make([]string, 0, len(p.SpanList))
		for _, span := range p.SpanList {
			parts = append(parts, span.Text)
		}
		p.rawText = strings.Join(parts, " ")
		p.rawTextBuilt = true
		p.RawTextBuilds++
	}
	return p.rawText
}

// Spans returns the page's span list.
func (p *FakePage) Spans() []services.Span { return p.SpanList }

// subRect cuts the horizontal slice of the span bounds covering the match,
// assuming even glyph widths.
func subRect(span services.Span, byteOffset, byteLen int) model.Bounds {
	total := len(span.Text)
	if total == 0 {
		return span.Bounds
	}

	b := span.Bounds
	return model.Bounds{
		Page:   b.Page,
		X:      b.X + b.Width*float64(byteOffset)/float64(total),
		Y:      b.Y,
		Width:  b.Width * float64(byteLen) / float64(total),
		Height: b.Height,
	}
}

// FakeDocument is an in-memory services.Document backed by FakePages.
type FakeDocument struct {
	Pages  []*FakePage
	Closed bool
}

// NewFakeDocument builds a document from pages.
func NewFakeDocument(pages ...*FakePage) *FakeDocument {
	return &FakeDocument{Pages: pages}
}

func (d *FakeDocument) PageCount() int { return len(d.Pages) }

func (d *FakeDocument) Page(i int) services.Page { return d.Pages[i] }

func (d *FakeDocument) Close() error {
	d.Closed = true
	return nil
}

// Span is a convenience constructor for a span with normalized bounds.
func Span(text string, page int, x, y, width, height float64) services.Span {
	return services.Span{
		Text:   text,
		Bounds: model.Bounds{Page: page, X: x, Y: y, Width: width, Height: height},
	}
}
