package pdftext

import (
	"fmt"
	"math"
	"unicode/utf16"
)

// matrix is an affine transform [a b c d e f], the top two rows of the
// usual 3x3 PDF matrix.
type matrix [6]float64

func identity() matrix {
	return matrix{1, 0, 0, 1, 0, 0}
}

func translation(tx, ty float64) matrix {
	return matrix{1, 0, 0, 1, tx, ty}
}

// mul composes a with b, applying a first.
func mul(a, b matrix) matrix {
	return matrix{
		a[0]*b[0] + a[1]*b[2],
		a[0]*b[1] + a[1]*b[3],
		a[2]*b[0] + a[3]*b[2],
		a[2]*b[1] + a[3]*b[3],
		a[4]*b[0] + a[5]*b[2] + b[4],
		a[4]*b[1] + a[5]*b[3] + b[5],
	}
}

// font carries the metrics and code mapping needed to place and decode a
// text run. Widths are in 1/1000 glyph-space units.
type font struct {
	widths     map[int]float64
	missing    float64
	spaceWidth float64
	toUnicode  map[int]string
}

// textRun is one text-showing operation in device space: the baseline
// origin, the advance width and the effective font size, all in the
// page's user-space units.
type textRun struct {
	text  string
	x, y  float64
	width float64
	size  float64
}

// extractor interprets a page's content streams and collects positioned
// text runs. Graphics operators that do not affect text placement are
// ignored.
type extractor struct {
	reader *reader
	page   dict
	fonts  map[string]*font

	ctm   matrix
	stack []matrix

	tm, tlm     matrix
	font        *font
	fontSize    float64
	charSpacing float64
	wordSpacing float64
	hscale      float64
	leading     float64

	runs []textRun
}

func newExtractor(r *reader, page dict) *extractor {
	e := &extractor{
		reader: r,
		page:   page,
		fonts:  make(map[string]*font),
		ctm:    identity(),
		tm:     identity(),
		tlm:    identity(),
		hscale: 100,
	}

	if res, ok := r.resolve(page[name("/Resources")]).(dict); ok {
		if fonts, ok := r.resolve(res[name("/Font")]).(dict); ok {
			for fontName, fontRef := range fonts {
				if obj, ok := r.resolve(fontRef).(dict); ok {
					e.fonts[string(fontName)] = e.loadFont(obj)
				}
			}
		}
	}
	return e
}

func (e *extractor) loadFont(obj dict) *font {
	f := &font{
		widths:     make(map[int]float64),
		spaceWidth: 250, // standard default when char 32 has no entry
	}

	if first, ok := e.reader.resolve(obj[name("/FirstChar")]).(float64); ok {
		if widths, ok := e.reader.resolve(obj[name("/Widths")]).(array); ok {
			for i, w := range widths {
				f.widths[int(first)+i] = asNumber(e.reader.resolve(w))
			}
		}
	}
	if w, ok := f.widths[32]; ok {
		f.spaceWidth = w
	}

	// Codes outside the /Widths table advance by /MissingWidth, or by the
	// space width when the descriptor does not carry one.
	f.missing = f.spaceWidth
	if desc, ok := e.reader.resolve(obj[name("/FontDescriptor")]).(dict); ok {
		if mw, ok := desc[name("/MissingWidth")]; ok {
			f.missing = asNumber(e.reader.resolve(mw))
		}
	}

	if s, ok := e.reader.resolve(obj[name("/ToUnicode")]).(stream); ok {
		if data, err := e.reader.decodeStream(s); err == nil {
			f.toUnicode = parseCMap(data)
		}
	}
	return f
}

// extract runs the page's content streams and returns the text runs in
// drawing order.
func (e *extractor) extract() ([]textRun, error) {
	var streams []stream
	switch contents := e.reader.resolve(e.page[name("/Contents")]).(type) {
	case stream:
		streams = append(streams, contents)
	case array:
		for _, item := range contents {
			if s, ok := e.reader.resolve(item).(stream); ok {
				streams = append(streams, s)
			}
		}
	default:
		return nil, fmt.Errorf("page has no content stream")
	}

	for _, s := range streams {
		data, err := e.reader.decodeStream(s)
		if err != nil {
			return nil, err
		}
		ops, err := parseContent(data)
		if err != nil {
			return nil, fmt.Errorf("content stream: %w", err)
		}
		for _, op := range ops {
			e.apply(op)
		}
	}
	return e.runs, nil
}

func (e *extractor) apply(op operation) {
	ops := op.operands
	switch op.operator {
	case "q":
		e.stack = append(e.stack, e.ctm)
	case "Q":
		if n := len(e.stack); n > 0 {
			e.ctm = e.stack[n-1]
			e.stack = e.stack[:n-1]
		}
	case "cm":
		if len(ops) == 6 {
			e.ctm = mul(operandMatrix(ops), e.ctm)
		}
	case "BT":
		e.tm = identity()
		e.tlm = identity()
	case "Tc":
		e.charSpacing = asNumber(ops[0])
	case "Tw":
		e.wordSpacing = asNumber(ops[0])
	case "Tz":
		e.hscale = asNumber(ops[0])
	case "TL":
		e.leading = asNumber(ops[0])
	case "Tf":
		if len(ops) == 2 {
			if fontName, ok := ops[0].(name); ok {
				e.font = e.fonts[string(fontName)]
			}
			e.fontSize = asNumber(ops[1])
		}
	case "Td":
		e.moveLine(asNumber(ops[0]), asNumber(ops[1]))
	case "TD":
		e.leading = -asNumber(ops[1])
		e.moveLine(asNumber(ops[0]), asNumber(ops[1]))
	case "Tm":
		if len(ops) == 6 {
			e.tm = operandMatrix(ops)
			e.tlm = e.tm
		}
	case "T*":
		e.moveLine(0, -e.leading)
	case "Tj":
		if len(ops) == 1 {
			e.showText(ops[0])
		}
	case "TJ":
		if arr, ok := ops[0].(array); ok {
			for _, item := range arr {
				if n, ok := item.(float64); ok {
					shift := -n / 1000 * e.fontSize * (e.hscale / 100)
					e.tm[4] += shift * e.tm[0]
					e.tm[5] += shift * e.tm[1]
					continue
				}
				e.showText(item)
			}
		}
	case "'":
		e.moveLine(0, -e.leading)
		if len(ops) == 1 {
			e.showText(ops[0])
		}
	case "\"":
		if len(ops) == 3 {
			e.wordSpacing = asNumber(ops[0])
			e.charSpacing = asNumber(ops[1])
			e.moveLine(0, -e.leading)
			e.showText(ops[2])
		}
	}
}

func (e *extractor) moveLine(tx, ty float64) {
	e.tlm = mul(translation(tx, ty), e.tlm)
	e.tm = e.tlm
}

func (e *extractor) showText(obj any) {
	raw, ok := obj.(string)
	if !ok {
		return
	}
	rawBytes := []byte(raw)

	fm := mul(e.tm, e.ctm)
	scaleX := math.Hypot(fm[0], fm[1])
	scaleY := math.Hypot(fm[2], fm[3])

	decoded := e.decode(rawBytes)
	advance := e.advance(rawBytes, decoded)

	if decoded != "" {
		e.runs = append(e.runs, textRun{
			text:  decoded,
			x:     fm[4],
			y:     fm[5],
			width: advance * scaleX,
			size:  e.fontSize * scaleY,
		})
	}

	e.tm[4] += advance * e.tm[0]
	e.tm[5] += advance * e.tm[1]
}

// decode maps the raw string bytes through the font's ToUnicode table,
// trying two-byte codes before single bytes. Without a table the bytes
// are taken as Latin text directly.
func (e *extractor) decode(rawBytes []byte) string {
	if e.font == nil || len(e.font.toUnicode) == 0 {
		return string(rawBytes)
	}

	out := make([]byte, 0, len(rawBytes))
	for i := 0; i < len(rawBytes); {
		if i+1 < len(rawBytes) {
			code := int(rawBytes[i])<<8 | int(rawBytes[i+1])
			if s, ok := e.font.toUnicode[code]; ok {
				out = append(out, s...)
				i += 2
				continue
			}
		}
		if s, ok := e.font.toUnicode[int(rawBytes[i])]; ok {
			out = append(out, s...)
		} else {
			out = append(out, rawBytes[i])
		}
		i++
	}
	return string(out)
}

// advance computes the string's width in unscaled text-space units. With
// no width table the advance falls back to half an em per character.
func (e *extractor) advance(rawBytes []byte, decoded string) float64 {
	total := 0.0
	if e.font != nil && len(e.font.widths) > 0 {
		glyphs := 0.0
		spaces := 0
		for _, b := range rawBytes {
			w, ok := e.font.widths[int(b)]
			if !ok {
				w = e.font.missing
			}
			glyphs += w
			if b == 32 {
				spaces++
			}
		}
		total = glyphs/1000*e.fontSize + float64(spaces)*e.wordSpacing
	} else {
		total = float64(len([]rune(decoded))) * e.fontSize * 0.5
	}
	total += float64(len(rawBytes)) * e.charSpacing
	return total * (e.hscale / 100)
}

func operandMatrix(ops []any) matrix {
	return matrix{
		asNumber(ops[0]), asNumber(ops[1]),
		asNumber(ops[2]), asNumber(ops[3]),
		asNumber(ops[4]), asNumber(ops[5]),
	}
}

// parseCMap reads the bfchar and bfrange sections of a ToUnicode CMap.
// Destination values are UTF-16BE.
func parseCMap(data []byte) map[int]string {
	mapping := make(map[int]string)
	lex := newLexer(data)

	for !lex.atEnd() {
		obj, err := lex.readObject()
		if err != nil {
			// CMap syntax we do not understand; keep what was mapped.
			break
		}
		kw, ok := obj.(keyword)
		if !ok {
			continue
		}
		switch string(kw) {
		case "beginbfchar":
			parseBFChars(lex, mapping)
		case "beginbfrange":
			parseBFRanges(lex, mapping)
		}
	}
	return mapping
}

func parseBFChars(lex *lexer, mapping map[int]string) {
	for {
		src, err := lex.readObject()
		if err != nil {
			return
		}
		if kw, ok := src.(keyword); ok && string(kw) == "endbfchar" {
			return
		}
		dst, err := lex.readObject()
		if err != nil {
			return
		}
		srcCode, ok1 := hexCode(src)
		dstText, ok2 := utf16Text(dst)
		if ok1 && ok2 {
			mapping[srcCode] = dstText
		}
	}
}

func parseBFRanges(lex *lexer, mapping map[int]string) {
	for {
		lo, err := lex.readObject()
		if err != nil {
			return
		}
		if kw, ok := lo.(keyword); ok && string(kw) == "endbfrange" {
			return
		}
		hi, err := lex.readObject()
		if err != nil {
			return
		}
		dst, err := lex.readObject()
		if err != nil {
			return
		}

		loCode, ok1 := hexCode(lo)
		hiCode, ok2 := hexCode(hi)
		if !ok1 || !ok2 || hiCode < loCode {
			continue
		}
		switch d := dst.(type) {
		case string:
			base, ok := hexCode(dst)
			if !ok {
				continue
			}
			for c := loCode; c <= hiCode; c++ {
				mapping[c] = string(rune(base + c - loCode))
			}
		case array:
			for i, item := range d {
				if loCode+i > hiCode {
					break
				}
				if text, ok := utf16Text(item); ok {
					mapping[loCode+i] = text
				}
			}
		}
	}
}

// hexCode interprets a lexed hex string's bytes as a big-endian code.
func hexCode(v any) (int, bool) {
	s, ok := v.(string)
	if !ok || len(s) == 0 || len(s) > 4 {
		return 0, false
	}
	code := 0
	for i := 0; i < len(s); i++ {
		code = code<<8 | int(s[i])
	}
	return code, true
}

// utf16Text decodes a lexed hex string's bytes as UTF-16BE text.
func utf16Text(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || len(s)%2 != 0 {
		return "", false
	}
	units := make([]uint16, 0, len(s)/2)
	for i := 0; i+1 < len(s); i += 2 {
		units = append(units, uint16(s[i])<<8|uint16(s[i+1]))
	}
	return string(utf16.Decode(units)), true
}
