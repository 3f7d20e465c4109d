// Package pdftext opens PDF files and exposes their text content as
// positioned spans. Pages are numbered starting at 1 and all rectangles are
// normalized to the unit square with the origin at the top-left corner of
// the page, so callers never see raw PDF user-space coordinates.
package pdftext

import "fmt"

// The PDF object model. Values travel as `any`: numbers are float64,
// literal strings are string, booleans are bool, null is nil.

// name is a PDF name such as /Type or /Pages.
type name string

// ref is an indirect object reference (e.g. "12 0 R").
type ref struct {
	num int
	gen int
}

func (r ref) String() string { return fmt.Sprintf("%d %d R", r.num, r.gen) }

// dict is a PDF dictionary keyed by name.
type dict map[name]any

// array is a PDF array.
type array []any

// stream is a dictionary followed by raw (still encoded) stream bytes.
type stream struct {
	header dict
	data   []byte
}

// keyword is a bare token such as "obj", "stream" or a content operator.
type keyword string

// asNumber reads a numeric object, tolerating absent values.
func asNumber(v any) float64 {
	n, _ := v.(float64)
	return n
}

// asInt reads a numeric object as an int.
func asInt(v any) int {
	return int(asNumber(v))
}
