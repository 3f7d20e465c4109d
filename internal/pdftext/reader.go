package pdftext

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// reader holds a parsed PDF file: the cross-reference table, the trailer,
// and a cache of resolved indirect objects.
type reader struct {
	data    []byte
	offsets map[int]int
	trailer dict
	cache   map[int]any
}

func newReader(data []byte) (*reader, error) {
	r := &reader{
		data:    data,
		offsets: make(map[int]int),
		cache:   make(map[int]any),
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return nil, fmt.Errorf("missing %%PDF header")
	}
	if err := r.loadXref(); err != nil {
		return nil, err
	}
	if _, ok := r.trailer[name("/Root")]; !ok {
		return nil, fmt.Errorf("trailer has no /Root")
	}
	return r, nil
}

// loadXref locates the last startxref pointer and walks the classic
// cross-reference table chain through /Prev. Entries from newer sections
// win over the sections they supersede.
func (r *reader) loadXref() error {
	idx := bytes.LastIndex(r.data, []byte("startxref"))
	if idx < 0 {
		return fmt.Errorf("no startxref marker")
	}
	lex := newLexer(r.data[idx+len("startxref"):])
	lex.skipSpace()
	offset, err := lex.readNumber()
	if err != nil {
		return fmt.Errorf("bad startxref offset: %w", err)
	}

	seen := make(map[int]bool)
	next := int(offset)
	for next >= 0 && !seen[next] {
		seen[next] = true
		trailer, err := r.loadXrefSection(next)
		if err != nil {
			return err
		}
		if r.trailer == nil {
			r.trailer = trailer
		}
		next = -1
		if prev, ok := trailer[name("/Prev")]; ok {
			next = asInt(prev)
		}
	}
	return nil
}

func (r *reader) loadXrefSection(offset int) (dict, error) {
	if offset < 0 || offset >= len(r.data) {
		return nil, fmt.Errorf("xref offset %d out of range", offset)
	}
	lex := newLexer(r.data)
	lex.pos = offset
	if err := lex.expectKeyword("xref"); err != nil {
		// Cross-reference streams (PDF 1.5 compressed tables) are not
		// handled; only the classic table layout is.
		return nil, fmt.Errorf("unsupported cross-reference format at offset %d: %w", offset, err)
	}

	for {
		lex.skipSpace()
		if lex.pos >= len(r.data) {
			return nil, fmt.Errorf("unterminated xref table")
		}
		if bytes.HasPrefix(r.data[lex.pos:], []byte("trailer")) {
			lex.pos += len("trailer")
			break
		}

		first, err := lex.readNumber()
		if err != nil {
			return nil, fmt.Errorf("bad xref subsection: %w", err)
		}
		lex.skipSpace()
		count, err := lex.readNumber()
		if err != nil {
			return nil, fmt.Errorf("bad xref subsection: %w", err)
		}
		for i := 0; i < int(count); i++ {
			lex.skipSpace()
			if lex.pos+18 > len(r.data) {
				return nil, fmt.Errorf("truncated xref entry")
			}
			entry := string(r.data[lex.pos : lex.pos+18])
			lex.pos += 18

			objNum := int(first) + i
			if entry[17] != 'n' {
				continue // free entry
			}
			objOffset, err := strconv.Atoi(strings.TrimLeft(entry[:10], "0 "))
			if err != nil {
				if strings.TrimSpace(entry[:10]) == strings.Repeat("0", 10) {
					objOffset = 0
				} else {
					return nil, fmt.Errorf("bad xref entry for object %d: %w", objNum, err)
				}
			}
			if _, exists := r.offsets[objNum]; !exists {
				r.offsets[objNum] = objOffset
			}
		}
	}

	obj, err := newLexerAt(r.data, lex.pos).readObject()
	if err != nil {
		return nil, fmt.Errorf("bad trailer: %w", err)
	}
	trailer, ok := obj.(dict)
	if !ok {
		return nil, fmt.Errorf("trailer is not a dictionary")
	}
	return trailer, nil
}

func newLexerAt(data []byte, pos int) *lexer {
	return &lexer{data: data, pos: pos}
}

// resolve follows indirect references until a direct object remains.
func (r *reader) resolve(v any) any {
	for {
		rf, ok := v.(ref)
		if !ok {
			return v
		}
		obj, err := r.object(rf.num)
		if err != nil {
			return nil
		}
		v = obj
	}
}

// object loads and caches the indirect object with the given number.
func (r *reader) object(num int) (any, error) {
	if obj, ok := r.cache[num]; ok {
		return obj, nil
	}
	offset, ok := r.offsets[num]
	if !ok {
		return nil, fmt.Errorf("object %d not in cross-reference table", num)
	}

	lex := newLexerAt(r.data, offset)
	if _, err := lex.readNumber(); err != nil {
		return nil, fmt.Errorf("object %d: %w", num, err)
	}
	lex.skipSpace()
	if _, err := lex.readNumber(); err != nil {
		return nil, fmt.Errorf("object %d: %w", num, err)
	}
	if err := lex.expectKeyword("obj"); err != nil {
		return nil, fmt.Errorf("object %d: %w", num, err)
	}

	obj, err := lex.readObject()
	if err != nil {
		return nil, fmt.Errorf("object %d: %w", num, err)
	}

	// A dictionary followed by the stream keyword carries stream data.
	if header, ok := obj.(dict); ok {
		mark := lex.pos
		lex.skipSpace()
		if bytes.HasPrefix(r.data[lex.pos:], []byte("stream")) {
			lex.pos += len("stream")
			if lex.pos < len(r.data) && r.data[lex.pos] == '\r' {
				lex.pos++
			}
			if lex.pos < len(r.data) && r.data[lex.pos] == '\n' {
				lex.pos++
			}
			length := asInt(r.resolve(header[name("/Length")]))
			if lex.pos+length > len(r.data) {
				return nil, fmt.Errorf("object %d: stream length %d past end of file", num, length)
			}
			obj = stream{header: header, data: r.data[lex.pos : lex.pos+length]}
		} else {
			lex.pos = mark
		}
	}

	r.cache[num] = obj
	return obj, nil
}

// decodeStream applies the stream's filter chain. Only /FlateDecode is
// supported; an absent filter returns the raw bytes.
func (r *reader) decodeStream(s stream) ([]byte, error) {
	filters := make([]name, 0, 1)
	switch f := r.resolve(s.header[name("/Filter")]).(type) {
	case nil:
	case name:
		filters = append(filters, f)
	case array:
		for _, item := range f {
			if n, ok := r.resolve(item).(name); ok {
				filters = append(filters, n)
			}
		}
	}

	data := s.data
	for _, filter := range filters {
		if filter != name("/FlateDecode") {
			return nil, fmt.Errorf("unsupported stream filter %s", filter)
		}
		zr, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("flate stream: %w", err)
		}
		decoded, err := io.ReadAll(zr)
		zr.Close()
		if err != nil {
			return nil, fmt.Errorf("flate stream: %w", err)
		}
		data = decoded
	}
	return data, nil
}

// pageDicts walks the page tree in document order, carrying the
// inheritable /Resources and /MediaBox attributes down to the leaves.
func (r *reader) pageDicts() ([]dict, error) {
	root, ok := r.resolve(r.trailer[name("/Root")]).(dict)
	if !ok {
		return nil, fmt.Errorf("document catalog is not a dictionary")
	}
	tree, ok := r.resolve(root[name("/Pages")]).(dict)
	if !ok {
		return nil, fmt.Errorf("catalog has no /Pages tree")
	}

	var pages []dict
	var walk func(node dict, inherited dict) error
	walk = func(node dict, inherited dict) error {
		merged := make(dict, len(inherited)+len(node))
		for k, v := range inherited {
			merged[k] = v
		}
		for _, key := range []name{"/Resources", "/MediaBox", "/Rotate"} {
			if v, ok := node[key]; ok {
				merged[key] = v
			}
		}

		if nodeType, _ := r.resolve(node[name("/Type")]).(name); nodeType == "/Page" {
			leaf := make(dict, len(node)+len(merged))
			for k, v := range merged {
				leaf[k] = v
			}
			for k, v := range node {
				leaf[k] = v
			}
			pages = append(pages, leaf)
			return nil
		}

		kids, ok := r.resolve(node[name("/Kids")]).(array)
		if !ok {
			return fmt.Errorf("page tree node has no /Kids")
		}
		for _, kid := range kids {
			child, ok := r.resolve(kid).(dict)
			if !ok {
				return fmt.Errorf("page tree kid is not a dictionary")
			}
			if err := walk(child, merged); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(tree, dict{}); err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("document has no pages")
	}
	return pages, nil
}
