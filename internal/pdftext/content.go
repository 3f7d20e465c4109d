package pdftext

// operation is one content-stream instruction: an operator preceded by its
// operands.
type operation struct {
	operator string
	operands []any
}

// parseContent tokenizes a decoded content stream into operations.
// Operands accumulate until a keyword closes them off as one operation.
func parseContent(data []byte) ([]operation, error) {
	lex := newLexer(data)

	var ops []operation
	var operands []any
	for !lex.atEnd() {
		obj, err := lex.readObject()
		if err != nil {
			return nil, err
		}
		if kw, ok := obj.(keyword); ok {
			ops = append(ops, operation{
				operator: string(kw),
				operands: operands,
			})
			operands = nil
			continue
		}
		operands = append(operands, obj)
	}
	return ops, nil
}
