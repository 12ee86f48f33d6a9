package contentstream

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

// ErrSyntax is wrapped by errors reporting malformed content stream tokens
var ErrSyntax = errors.New("contentstream: syntax error")

// Operation represents a single content stream operation consisting of an
// operator and its operands. Operands are the values that precede the operator.
type Operation struct {
	Operator string  // The operator (e.g., "Tj", "Tm", "q")
	Operands []Value // The operands
}

// Parser parses PDF content streams into a sequence of operations.
type Parser struct {
	data     []byte
	pos      int
	ops      []Operation
	operands []Value
	firstErr error
}

// NewParser creates a new content stream parser for the given data.
func NewParser(data []byte) *Parser {
	return &Parser{data: data}
}

// Parse is shorthand for NewParser(data).Parse().
func Parse(data []byte) ([]Operation, error) {
	return NewParser(data).Parse()
}

// Parse parses the content stream and returns all operations in order.
// Malformed tokens are skipped; the first one is reported in err while the
// recovered operations are still returned.
func (p *Parser) Parse() ([]Operation, error) {
	for {
		p.skipWhitespaceAndComments()
		if p.pos >= len(p.data) {
			break
		}

		start := p.pos
		if err := p.parseNext(); err != nil {
			if p.firstErr == nil {
				p.firstErr = fmt.Errorf("%w at offset %d: %v", ErrSyntax, start, err)
			}
			p.operands = p.operands[:0]
			if p.pos <= start {
				p.pos = start + 1
			}
		}
	}

	return p.ops, p.firstErr
}

// parseNext parses the next token, which is either an operand (pushed onto the
// stack) or an operator (which consumes the operand stack).
func (p *Parser) parseNext() error {
	c := p.data[p.pos]

	if isLetter(c) || c == '\'' || c == '"' {
		return p.parseOperator()
	}

	operand, err := p.parseOperand()
	if err != nil {
		return err
	}
	p.operands = append(p.operands, operand)
	return nil
}

// parseOperator reads a keyword. true/false/null become operands, "R" folds
// the two preceding integers into a reference, anything else is an operator
// that takes the pending operands.
func (p *Parser) parseOperator() error {
	start := p.pos
	if c := p.data[p.pos]; c == '\'' || c == '"' {
		p.pos++
	} else {
		for p.pos < len(p.data) {
			c := p.data[p.pos]
			if isLetter(c) || isDigit(c) || c == '*' {
				p.pos++
				continue
			}
			break
		}
	}
	keyword := string(p.data[start:p.pos])

	switch keyword {
	case "true":
		p.operands = append(p.operands, Bool(true))
		return nil
	case "false":
		p.operands = append(p.operands, Bool(false))
		return nil
	case "null":
		p.operands = append(p.operands, Null())
		return nil
	case "R":
		if n := len(p.operands); n >= 2 &&
			p.operands[n-2].Kind == KindInteger && p.operands[n-1].Kind == KindInteger {
			ref := Value{Kind: KindReference, Ref: Reference{
				Num: int(p.operands[n-2].Int),
				Gen: int(p.operands[n-1].Int),
			}}
			p.operands = append(p.operands[:n-2], ref)
			return nil
		}
	}

	operation := Operation{
		Operator: keyword,
		Operands: make([]Value, len(p.operands)),
	}
	copy(operation.Operands, p.operands)
	p.ops = append(p.ops, operation)
	p.operands = p.operands[:0]

	if keyword == "ID" {
		p.skipInlineImageData()
	}
	return nil
}

// skipInlineImageData moves past the binary payload of an inline image up to
// and including the EI keyword.
func (p *Parser) skipInlineImageData() {
	// A single whitespace byte separates ID from the data.
	if p.pos < len(p.data) && isWhitespace(p.data[p.pos]) {
		p.pos++
	}
	for i := p.pos; i+1 < len(p.data); i++ {
		if p.data[i] != 'E' || p.data[i+1] != 'I' {
			continue
		}
		before := i == 0 || isWhitespace(p.data[i-1])
		after := i+2 >= len(p.data) || isWhitespace(p.data[i+2]) || isDelimiter(p.data[i+2])
		if before && after {
			p.ops = append(p.ops, Operation{Operator: "EI"})
			p.pos = i + 2
			return
		}
	}
	p.pos = len(p.data)
}

// parseOperand parses a single operand, which can be a number, string, name,
// array or dictionary.
func (p *Parser) parseOperand() (Value, error) {
	p.skipWhitespaceAndComments()
	if p.pos >= len(p.data) {
		return Value{}, fmt.Errorf("unexpected end of stream")
	}

	c := p.data[p.pos]
	switch {
	case c == '-' || c == '+' || c == '.' || isDigit(c):
		return p.parseNumber()
	case c == '(':
		return p.parseString()
	case c == '<' && p.pos+1 < len(p.data) && p.data[p.pos+1] == '<':
		return p.parseDict()
	case c == '<':
		return p.parseHexString()
	case c == '/':
		return p.parseName(), nil
	case c == '[':
		return p.parseArray()
	case isLetter(c):
		// Keywords inside arrays and dictionaries
		start := p.pos
		for p.pos < len(p.data) && isLetter(p.data[p.pos]) {
			p.pos++
		}
		switch string(p.data[start:p.pos]) {
		case "true":
			return Bool(true), nil
		case "false":
			return Bool(false), nil
		case "null":
			return Null(), nil
		}
		return Value{}, fmt.Errorf("unexpected keyword %q", p.data[start:p.pos])
	}

	p.pos++
	return Value{}, fmt.Errorf("unexpected character %q", c)
}

// parseNumber parses an integer or real number operand.
func (p *Parser) parseNumber() (Value, error) {
	start := p.pos
	hasDecimal := false

	if p.data[p.pos] == '+' || p.data[p.pos] == '-' {
		p.pos++
	}
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if isDigit(c) {
			p.pos++
		} else if c == '.' && !hasDecimal {
			hasDecimal = true
			p.pos++
		} else {
			break
		}
	}

	numStr := string(p.data[start:p.pos])
	if numStr == "-" || numStr == "+" || numStr == "." || numStr == "-." || numStr == "+." {
		// Lone signs occur in broken producers; treat them as zero.
		return Int(0), nil
	}

	if hasDecimal {
		val, err := strconv.ParseFloat(numStr, 64)
		if err != nil {
			return Value{}, fmt.Errorf("invalid real number %q: %w", numStr, err)
		}
		return Real(val), nil
	}

	val, err := strconv.ParseInt(numStr, 10, 64)
	if err != nil {
		// Out of range integers degrade to reals.
		f, ferr := strconv.ParseFloat(numStr, 64)
		if ferr != nil {
			return Value{}, fmt.Errorf("invalid integer %q: %w", numStr, err)
		}
		return Real(f), nil
	}
	return Int(val), nil
}

// parseString parses a literal string (...) with escape sequence handling.
func (p *Parser) parseString() (Value, error) {
	p.pos++ // skip '('

	var result bytes.Buffer
	depth := 1

	for p.pos < len(p.data) && depth > 0 {
		c := p.data[p.pos]
		p.pos++

		switch c {
		case '\\':
			if p.pos >= len(p.data) {
				break
			}
			next := p.data[p.pos]
			p.pos++
			switch next {
			case 'n':
				result.WriteByte('\n')
			case 'r':
				result.WriteByte('\r')
			case 't':
				result.WriteByte('\t')
			case 'b':
				result.WriteByte('\b')
			case 'f':
				result.WriteByte('\f')
			case '\r':
				// Line continuation
				if p.pos < len(p.data) && p.data[p.pos] == '\n' {
					p.pos++
				}
			case '\n':
			case '0', '1', '2', '3', '4', '5', '6', '7':
				octal := int(next - '0')
				for i := 0; i < 2 && p.pos < len(p.data); i++ {
					d := p.data[p.pos]
					if d < '0' || d > '7' {
						break
					}
					octal = octal*8 + int(d-'0')
					p.pos++
				}
				result.WriteByte(byte(octal & 0xFF))
			default:
				// (, ) and \ plus unknown escapes keep the escaped byte
				result.WriteByte(next)
			}
		case '(':
			depth++
			result.WriteByte(c)
		case ')':
			depth--
			if depth > 0 {
				result.WriteByte(c)
			}
		default:
			result.WriteByte(c)
		}
	}

	if depth != 0 {
		return Value{}, fmt.Errorf("unclosed string")
	}
	return String(result.String()), nil
}

// parseHexString parses a hexadecimal string <...>.
func (p *Parser) parseHexString() (Value, error) {
	p.pos++ // skip '<'

	var result bytes.Buffer
	var hi byte
	odd := false

	for p.pos < len(p.data) {
		c := p.data[p.pos]
		p.pos++

		if c == '>' {
			if odd {
				// Odd number of digits - assume trailing 0
				result.WriteByte(hi << 4)
			}
			return String(result.String()), nil
		}
		if isWhitespace(c) {
			continue
		}
		if !isHexDigit(c) {
			return Value{}, fmt.Errorf("invalid hex digit %q", c)
		}
		if odd {
			result.WriteByte(hi<<4 | hexValue(c))
		} else {
			hi = hexValue(c)
		}
		odd = !odd
	}

	return Value{}, fmt.Errorf("unclosed hex string")
}

// parseName parses a name object /Name with # escape handling.
func (p *Parser) parseName() Value {
	p.pos++ // skip '/'

	var result bytes.Buffer
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if isWhitespace(c) || isDelimiter(c) {
			break
		}
		if c == '#' && p.pos+2 < len(p.data) && isHexDigit(p.data[p.pos+1]) && isHexDigit(p.data[p.pos+2]) {
			result.WriteByte(hexValue(p.data[p.pos+1])<<4 | hexValue(p.data[p.pos+2]))
			p.pos += 3
			continue
		}
		result.WriteByte(c)
		p.pos++
	}

	return Name(result.String())
}

// parseArray parses an array [...] of operands.
func (p *Parser) parseArray() (Value, error) {
	p.pos++ // skip '['

	items := make([]Value, 0, 8)
	for {
		p.skipWhitespaceAndComments()
		if p.pos >= len(p.data) {
			return Value{}, fmt.Errorf("unclosed array")
		}
		if p.data[p.pos] == ']' {
			p.pos++
			return Array(items...), nil
		}

		item, err := p.parseOperand()
		if err != nil {
			return Value{}, err
		}
		items = append(items, item)
	}
}

// parseDict parses a dictionary <<...>> (inline image and marked content
// property lists).
func (p *Parser) parseDict() (Value, error) {
	p.pos += 2 // skip '<<'

	dict := make(map[string]Value)
	for {
		p.skipWhitespaceAndComments()
		if p.pos >= len(p.data) {
			return Value{}, fmt.Errorf("unclosed dictionary")
		}
		if p.pos+1 < len(p.data) && p.data[p.pos] == '>' && p.data[p.pos+1] == '>' {
			p.pos += 2
			return Value{Kind: KindDict, Dict: dict}, nil
		}
		if p.data[p.pos] != '/' {
			return Value{}, fmt.Errorf("dictionary key must be a name")
		}

		key := p.parseName()
		value, err := p.parseOperand()
		if err != nil {
			return Value{}, err
		}
		dict[key.Str] = value
	}
}

// skipWhitespaceAndComments advances past whitespace and % comments.
func (p *Parser) skipWhitespaceAndComments() {
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if isWhitespace(c) {
			p.pos++
			continue
		}
		if c == '%' {
			for p.pos < len(p.data) && p.data[p.pos] != '\n' && p.data[p.pos] != '\r' {
				p.pos++
			}
			continue
		}
		return
	}
}

// isWhitespace reports whether c is a PDF whitespace character.
func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}

// isLetter reports whether c is an ASCII letter.
func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// isDelimiter reports whether c is a PDF delimiter character.
func isDelimiter(c byte) bool {
	return c == '(' || c == ')' || c == '<' || c == '>' ||
		c == '[' || c == ']' || c == '{' || c == '}' ||
		c == '/' || c == '%'
}

// isHexDigit reports whether c is a hexadecimal digit.
func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// hexValue returns the numeric value of a hexadecimal digit.
func hexValue(c byte) byte {
	switch {
	case isDigit(c):
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}
