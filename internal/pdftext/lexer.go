package pdftext

import (
	"fmt"
	"strconv"
)

// lexer tokenizes PDF syntax from an in-memory buffer. The same lexer is
// used for the file body and for decoded content streams.
type lexer struct {
	data []byte
	pos  int
}

func newLexer(data []byte) *lexer {
	return &lexer{data: data}
}

func isWhitespace(b byte) bool {
	switch b {
	case 0, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func isDelimiter(b byte) bool {
	switch b {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

// skipSpace advances past whitespace and %-comments.
func (l *lexer) skipSpace() {
	for l.pos < len(l.data) {
		b := l.data[l.pos]
		if isWhitespace(b) {
			l.pos++
			continue
		}
		if b == '%' {
			for l.pos < len(l.data) && l.data[l.pos] != '\n' && l.data[l.pos] != '\r' {
				l.pos++
			}
			continue
		}
		return
	}
}

func (l *lexer) atEnd() bool {
	l.skipSpace()
	return l.pos >= len(l.data)
}

// readObject reads the next object. Bare tokens like "obj" or content
// operators come back as keyword values; the caller decides what they mean.
func (l *lexer) readObject() (any, error) {
	l.skipSpace()
	if l.pos >= len(l.data) {
		return nil, fmt.Errorf("unexpected end of data at offset %d", l.pos)
	}

	b := l.data[l.pos]
	switch {
	case b == '/':
		return l.readName(), nil
	case b == '(':
		return l.readLiteralString()
	case b == '[':
		return l.readArray()
	case b == '<':
		if l.pos+1 < len(l.data) && l.data[l.pos+1] == '<' {
			return l.readDict()
		}
		return l.readHexString()
	case b == '-' || b == '+' || b == '.' || (b >= '0' && b <= '9'):
		return l.readNumberOrRef()
	default:
		return l.readKeyword()
	}
}

func (l *lexer) readName() name {
	l.pos++ // consume '/'
	start := l.pos
	for l.pos < len(l.data) && !isWhitespace(l.data[l.pos]) && !isDelimiter(l.data[l.pos]) {
		l.pos++
	}
	return name("/" + string(l.data[start:l.pos]))
}

func (l *lexer) readLiteralString() (any, error) {
	l.pos++ // consume '('
	var out []byte
	depth := 1
	for l.pos < len(l.data) {
		b := l.data[l.pos]
		l.pos++
		switch b {
		case '\\':
			if l.pos >= len(l.data) {
				return nil, fmt.Errorf("unterminated escape in string at offset %d", l.pos)
			}
			esc := l.data[l.pos]
			l.pos++
			switch esc {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case '(', ')', '\\':
				out = append(out, esc)
			case '\n':
				// Line continuation: swallow.
			default:
				if esc >= '0' && esc <= '7' {
					code := int(esc - '0')
					for n := 0; n < 2 && l.pos < len(l.data) && l.data[l.pos] >= '0' && l.data[l.pos] <= '7'; n++ {
						code = code*8 + int(l.data[l.pos]-'0')
						l.pos++
					}
					out = append(out, byte(code))
				} else {
					out = append(out, esc)
				}
			}
		case '(':
			depth++
			out = append(out, b)
		case ')':
			depth--
			if depth == 0 {
				return string(out), nil
			}
			out = append(out, b)
		default:
			out = append(out, b)
		}
	}
	return nil, fmt.Errorf("unterminated string at offset %d", l.pos)
}

func (l *lexer) readHexString() (any, error) {
	l.pos++ // consume '<'
	var out []byte
	var hi byte
	haveHi := false
	for l.pos < len(l.data) {
		b := l.data[l.pos]
		l.pos++
		if b == '>' {
			if haveHi {
				out = append(out, hexVal(hi)<<4)
			}
			return string(out), nil
		}
		if isWhitespace(b) {
			continue
		}
		if haveHi {
			out = append(out, hexVal(hi)<<4|hexVal(b))
			haveHi = false
		} else {
			hi = b
			haveHi = true
		}
	}
	return nil, fmt.Errorf("unterminated hex string at offset %d", l.pos)
}

func hexVal(b byte) byte {
	switch {
	case b >= '0' && b <= '9':
		return b - '0'
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10
	}
	return 0
}

func (l *lexer) readArray() (any, error) {
	l.pos++ // consume '['
	arr := make(array, 0)
	for {
		l.skipSpace()
		if l.pos >= len(l.data) {
			return nil, fmt.Errorf("unterminated array at offset %d", l.pos)
		}
		if l.data[l.pos] == ']' {
			l.pos++
			return arr, nil
		}
		obj, err := l.readObject()
		if err != nil {
			return nil, err
		}
		arr = append(arr, obj)
	}
}

func (l *lexer) readDict() (any, error) {
	l.pos += 2 // consume '<<'
	d := make(dict)
	for {
		l.skipSpace()
		if l.pos+1 < len(l.data) && l.data[l.pos] == '>' && l.data[l.pos+1] == '>' {
			l.pos += 2
			return d, nil
		}
		if l.pos >= len(l.data) || l.data[l.pos] != '/' {
			return nil, fmt.Errorf("expected name key in dictionary at offset %d", l.pos)
		}
		key := l.readName()
		value, err := l.readObject()
		if err != nil {
			return nil, err
		}
		d[key] = value
	}
}

// readNumberOrRef reads a number, upgrading "N G R" to an indirect
// reference when the lookahead matches.
func (l *lexer) readNumberOrRef() (any, error) {
	first, err := l.readNumber()
	if err != nil {
		return nil, err
	}

	mark := l.pos
	l.skipSpace()
	if l.pos < len(l.data) && l.data[l.pos] >= '0' && l.data[l.pos] <= '9' {
		second, err := l.readNumber()
		if err == nil {
			l.skipSpace()
			if l.pos < len(l.data) && l.data[l.pos] == 'R' &&
				(l.pos+1 >= len(l.data) || isWhitespace(l.data[l.pos+1]) || isDelimiter(l.data[l.pos+1])) {
				l.pos++
				return ref{num: int(first), gen: int(second)}, nil
			}
		}
	}
	l.pos = mark
	return first, nil
}

func (l *lexer) readNumber() (float64, error) {
	start := l.pos
	if l.pos < len(l.data) && (l.data[l.pos] == '-' || l.data[l.pos] == '+') {
		l.pos++
	}
	for l.pos < len(l.data) && (l.data[l.pos] == '.' || (l.data[l.pos] >= '0' && l.data[l.pos] <= '9')) {
		l.pos++
	}
	n, err := strconv.ParseFloat(string(l.data[start:l.pos]), 64)
	if err != nil {
		return 0, fmt.Errorf("bad number at offset %d: %w", start, err)
	}
	return n, nil
}

func (l *lexer) readKeyword() (any, error) {
	start := l.pos
	for l.pos < len(l.data) && !isWhitespace(l.data[l.pos]) && !isDelimiter(l.data[l.pos]) {
		l.pos++
	}
	if l.pos == start {
		return nil, fmt.Errorf("unexpected delimiter %q at offset %d", l.data[l.pos], l.pos)
	}
	switch kw := string(l.data[start:l.pos]); kw {
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "null":
		return nil, nil
	default:
		return keyword(kw), nil
	}
}

// expectKeyword consumes the given keyword or fails.
func (l *lexer) expectKeyword(want string) error {
	obj, err := l.readObject()
	if err != nil {
		return err
	}
	if kw, ok := obj.(keyword); !ok || string(kw) != want {
		return fmt.Errorf("expected %q, got %v", want, obj)
	}
	return nil
}
