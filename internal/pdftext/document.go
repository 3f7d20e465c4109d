package pdftext

import (
	"fmt"
	"os"
	"sort"
	"strings"

	bmerrors "github.com/docparse/bounds-matcher/internal/errors"
	"github.com/docparse/bounds-matcher/model"
	"github.com/docparse/bounds-matcher/services"
)

// Option configures an opened document.
type Option func(*Document)

// WithCaseSensitiveSearch controls whether SearchLiteral distinguishes
// case. The default is case-insensitive, matching how entity names are
// usually written against rendered text.
func WithCaseSensitiveSearch(on bool) Option {
	return func(d *Document) { d.caseSensitive = on }
}

// Document is an open PDF file. It implements services.Document; page
// content is extracted lazily, once per page for the handle's lifetime.
type Document struct {
	reader        *reader
	pages         []*Page
	caseSensitive bool
}

// Open reads and parses the PDF at path. A missing file is reported as a
// document-not-found error so callers can fail the whole batch up front.
func Open(path string, opts ...Option) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, bmerrors.NewDocumentNotFoundError(path)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	r, err := newReader(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	pageDicts, err := r.pageDicts()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	doc := &Document{reader: r}
	for i, pd := range pageDicts {
		doc.pages = append(doc.pages, newPage(doc, i+1, pd))
	}
	for _, opt := range opts {
		opt(doc)
	}
	return doc, nil
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int { return len(d.pages) }

// Page returns the page at index i (0-based index, 1-indexed page numbers).
func (d *Document) Page(i int) services.Page { return d.pages[i] }

// Close releases the parsed file. The document must not be used afterwards.
func (d *Document) Close() error {
	d.reader = nil
	d.pages = nil
	return nil
}

// line is a row of spans sharing a baseline, with the flattened text and
// the rune offset of each span within it.
type line struct {
	text    string
	spans   []services.Span
	offsets []int // rune offset of each span in text
}

// Page is one PDF page. Spans, lines and raw text are built on first use
// and cached; extractions counts how often the content streams were
// actually interpreted, which stays at most 1 per page.
type Page struct {
	doc    *Document
	number int
	dict   dict

	width  float64
	height float64

	built       bool
	spans       []services.Span
	lines       []line
	rawText     string
	extractions int
}

func newPage(doc *Document, number int, pd dict) *Page {
	p := &Page{doc: doc, number: number, dict: pd, width: 612, height: 792}
	if box, ok := doc.reader.resolve(pd[name("/MediaBox")]).(array); ok && len(box) == 4 {
		if w := asNumber(doc.reader.resolve(box[2])) - asNumber(doc.reader.resolve(box[0])); w > 0 {
			p.width = w
		}
		if h := asNumber(doc.reader.resolve(box[3])) - asNumber(doc.reader.resolve(box[1])); h > 0 {
			p.height = h
		}
	}
	return p
}

// Number returns the 1-indexed page number.
func (p *Page) Number() int { return p.number }

// Spans returns the page's text spans in reading order.
func (p *Page) Spans() []services.Span {
	p.build()
	return p.spans
}

// RawText returns the page text with lines separated by newlines. The
// text is assembled at most once per page.
func (p *Page) RawText() string {
	p.build()
	return p.rawText
}

// SearchLiteral finds every occurrence of text on the page and returns
// one rectangle per hit, in reading order. Matches may cross span
// boundaries within a line but never cross lines.
func (p *Page) SearchLiteral(text string) []model.Bounds {
	hits := make([]model.Bounds, 0)
	if text == "" {
		return hits
	}
	p.build()

	needle := text
	if !p.doc.caseSensitive {
		needle = strings.ToLower(needle)
	}
	needleRunes := []rune(needle)

	for _, ln := range p.lines {
		haystack := ln.text
		if !p.doc.caseSensitive {
			haystack = strings.ToLower(haystack)
		}
		haystackRunes := []rune(haystack)

		for start := 0; start+len(needleRunes) <= len(haystackRunes); start++ {
			if !runesEqual(haystackRunes[start:start+len(needleRunes)], needleRunes) {
				continue
			}
			if bounds, ok := p.hitBounds(ln, start, len(needleRunes)); ok {
				hits = append(hits, bounds)
			}
			start += len(needleRunes) - 1
		}
	}
	return hits
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// hitBounds maps a rune interval of a line back to a rectangle, slicing
// the covered spans proportionally and unioning the pieces.
func (p *Page) hitBounds(ln line, start, length int) (model.Bounds, bool) {
	end := start + length
	var out *model.Bounds

	for i, span := range ln.spans {
		spanStart := ln.offsets[i]
		spanLen := len([]rune(span.Text))
		spanEnd := spanStart + spanLen
		if spanEnd <= start || spanStart >= end || spanLen == 0 {
			continue
		}

		from := max(start, spanStart) - spanStart
		to := min(end, spanEnd) - spanStart

		piece := span.Bounds
		piece.X = span.Bounds.X + span.Bounds.Width*float64(from)/float64(spanLen)
		piece.Width = span.Bounds.Width * float64(to-from) / float64(spanLen)

		if out == nil {
			b := piece
			out = &b
		} else {
			*out = out.Union(piece)
		}
	}

	if out == nil {
		return model.Bounds{}, false
	}
	return *out, true
}

// build interprets the page's content streams once and derives spans,
// lines and raw text. Extraction errors leave the page empty; matching
// over an unreadable page degrades to no hits rather than failing.
func (p *Page) build() {
	if p.built {
		return
	}
	p.built = true
	p.extractions++

	runs, err := newExtractor(p.doc.reader, p.dict).extract()
	if err != nil {
		p.spans = make([]services.Span, 0)
		return
	}

	p.spans = p.spansFromRuns(runs)
	p.lines = groupLines(p.spans)

	parts := make([]string, 0, len(p.lines))
	for _, ln := range p.lines {
		parts = append(parts, ln.text)
	}
	p.rawText = strings.Join(parts, "\n")
}

// spansFromRuns merges adjacent same-baseline runs into spans and
// converts them to normalized top-left-origin rectangles. PDF device
// space grows upward from the bottom-left corner; the Y flip happens
// here so nothing above this layer sees bottom-origin coordinates.
func (p *Page) spansFromRuns(runs []textRun) []services.Span {
	merged := mergeRuns(runs)

	spans := make([]services.Span, 0, len(merged))
	for _, run := range merged {
		text := strings.TrimSpace(run.text)
		if text == "" {
			continue
		}

		ascent := run.size * 0.8
		spans = append(spans, services.Span{
			Text: text,
			Bounds: model.Bounds{
				Page:   p.number,
				X:      clamp01(run.x / p.width),
				Y:      clamp01((p.height - run.y - ascent) / p.height),
				Width:  clamp01(run.width / p.width),
				Height: clamp01(run.size / p.height),
			},
		})
	}
	return spans
}

// mergeRuns joins consecutive runs that continue the same baseline,
// inserting a space when the horizontal gap is wide enough to read as
// one. A kerning-split word stays one span; a column break does not.
func mergeRuns(runs []textRun) []textRun {
	merged := make([]textRun, 0, len(runs))
	for _, run := range runs {
		if len(merged) > 0 {
			last := &merged[len(merged)-1]
			sameLine := abs(run.y-last.y) < last.size*0.5
			gap := run.x - (last.x + last.width)
			if sameLine && gap < last.size*1.5 && gap > -last.size*0.25 {
				if gap > last.size*0.15 && !strings.HasSuffix(last.text, " ") {
					last.text += " "
				}
				last.text += run.text
				last.width = run.x + run.width - last.x
				if run.size > last.size {
					last.size = run.size
				}
				continue
			}
		}
		merged = append(merged, run)
	}
	return merged
}

// groupLines buckets spans by baseline and orders each bucket left to
// right, recording every span's rune offset in the joined line text.
func groupLines(spans []services.Span) []line {
	ordered := make([]services.Span, len(spans))
	copy(ordered, spans)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Bounds.Y != ordered[j].Bounds.Y {
			return ordered[i].Bounds.Y < ordered[j].Bounds.Y
		}
		return ordered[i].Bounds.X < ordered[j].Bounds.X
	})

	lines := make([]line, 0)
	for _, span := range ordered {
		if n := len(lines); n > 0 {
			current := &lines[n-1]
			anchor := current.spans[0].Bounds
			if abs(span.Bounds.Y-anchor.Y) < anchor.Height*0.5 {
				current.offsets = append(current.offsets, len([]rune(current.text))+1)
				current.text += " " + span.Text
				current.spans = append(current.spans, span)
				continue
			}
		}
		lines = append(lines, line{
			text:    span.Text,
			spans:   []services.Span{span},
			offsets: []int{0},
		})
	}
	return lines
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
