package lang

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"
)

// Parse parses an expression. Surrounding whitespace is ignored; any other
// input left over after a complete expression is an error.
//
// Grammar, lowest precedence first:
//
//	expression  → conditional
//	conditional → or ( '?' expression ':' conditional )?
//	or          → and ( '||' and )*
//	and         → compare ( '&&' compare )*
//	compare     → modulo ( ( '==' | '!=' | '>=' | '>' | '<=' | '<' ) modulo )*
//	modulo      → additive ( '%' additive )*
//	additive    → term ( ( '+' | '-' ) term )*
//	term        → unary ( ( '*' | '/' ) unary )*
//	unary       → '!' unary | postfix
//	postfix     → primary ( '[' expression ']' | '.' identifier )*
//	primary     → number | string | 'true' | 'false' | 'null'
//	            | identifier '(' expression ')' | identifier
//	            | '(' expression ')' | array | object
func Parse(src string) (Expr, error) {
	p := &parser{
		input: []byte(src),
		line:  1,
		col:   1,
	}

	p.skipWhitespace()

	e, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	p.skipWhitespace()

	if !p.eof() {
		return nil, p.errorf("unexpected %s after expression", p.describe())
	}

	return e, nil
}

// parser holds the parser state.
type parser struct {
	input []byte
	pos   int
	line  int
	col   int
}

func (p *parser) parseExpression() (Expr, error) {
	return p.parseConditional()
}

func (p *parser) parseConditional() (Expr, error) {
	pos := p.position()

	cond, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	p.skipWhitespace()

	if !p.expect('?') {
		return cond, nil
	}

	p.skipWhitespace()

	then, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	p.skipWhitespace()

	if !p.expect(':') {
		return nil, p.errorf(`expected ":" in conditional, found %s`, p.describe())
	}

	p.skipWhitespace()

	els, err := p.parseConditional()
	if err != nil {
		return nil, err
	}

	return &Cond{node: node{pos}, Cond: cond, Then: then, Else: els}, nil
}

type binaryToken struct {
	text string
	op   Operator
}

// binaryLevels lists the left-associative precedence levels from loosest
// to tightest. Operands of the last level are unary expressions.
var binaryLevels = [...][]binaryToken{
	{{"||", OpOr}},
	{{"&&", OpAnd}},
	// Two-character operators precede their one-character prefixes.
	{
		{"==", OpEq}, {"!=", OpNe},
		{">=", OpGe}, {"<=", OpLe},
		{">", OpGt}, {"<", OpLt},
	},
	{{"%", OpMod}},
	{{"+", OpAdd}, {"-", OpSub}},
	{{"*", OpMul}, {"/", OpDiv}},
}

func (p *parser) parseOr() (Expr, error) { return p.parseBinary(0) }

// parseOperand parses an operand of the given precedence level.
func (p *parser) parseOperand(level int) (Expr, error) {
	if level+1 < len(binaryLevels) {
		return p.parseBinary(level + 1)
	}

	return p.parseUnary()
}

func (p *parser) parseBinary(level int) (Expr, error) {
	pos := p.position()

	left, err := p.parseOperand(level)
	if err != nil {
		return nil, err
	}

	for {
		p.skipWhitespace()

		tok, ok := p.matchOperator(binaryLevels[level])
		if !ok {
			return left, nil
		}

		p.skipWhitespace()

		right, err := p.parseOperand(level)
		if err != nil {
			return nil, err
		}

		left = &Binary{node: node{pos}, Left: left, Right: right, Op: tok.op}
	}
}

// matchOperator consumes the first operator of ops found at the cursor.
func (p *parser) matchOperator(ops []binaryToken) (binaryToken, bool) {
	for _, tok := range ops {
		if p.peekN(len(tok.text)) != tok.text {
			continue
		}

		for range len(tok.text) {
			p.advance()
		}

		return tok, true
	}

	return binaryToken{}, false
}

func (p *parser) parseUnary() (Expr, error) {
	pos := p.position()

	if p.peek() == '!' && p.peekN(2) != "!=" {
		p.advance()
		p.skipWhitespace()

		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return &Unary{node: node{pos}, Operand: operand, Op: OpNot}, nil
	}

	return p.parsePostfix()
}

func (p *parser) parsePostfix() (Expr, error) {
	pos := p.position()

	subject, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		// Whitespace may precede a postfix operator.
		saved := *p

		p.skipWhitespace()

		switch p.peek() {
		case '[':
			p.advance()
			p.skipWhitespace()

			index, err := p.parseExpression()
			if err != nil {
				return nil, err
			}

			p.skipWhitespace()

			if !p.expect(']') {
				return nil, p.errorf(`expected "]", found %s`, p.describe())
			}

			subject = &Index{node: node{pos}, Subject: subject, Index: index}

		case '.':
			p.advance()
			p.skipWhitespace()

			namePos := p.position()

			name, ok := p.scanIdentifier()
			if !ok {
				return nil, p.errorf("expected property name after \".\", found %s", p.describe())
			}

			key := &Literal{node: node{namePos}, Value: StringValue(name)}
			subject = &Index{node: node{pos}, Subject: subject, Index: key}

		default:
			*p = saved

			return subject, nil
		}
	}
}

func (p *parser) parsePrimary() (Expr, error) {
	pos := p.position()

	switch ch := p.peek(); {
	case p.eof():
		return nil, p.errorf("unexpected end of input, expected expression")

	case ch == '-' || isDigit(ch):
		return p.parseNumber()

	case ch == '"' || ch == '\'':
		s, err := p.parseString()
		if err != nil {
			return nil, err
		}

		return &Literal{node: node{pos}, Value: StringValue(s)}, nil

	case ch == '(':
		p.advance()
		p.skipWhitespace()

		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		p.skipWhitespace()

		if !p.expect(')') {
			return nil, p.errorf(`expected ")", found %s`, p.describe())
		}

		return e, nil

	case ch == '[':
		return p.parseArray()

	case ch == '{':
		return p.parseObject()

	case isIdentStart(ch):
		name, _ := p.scanIdentifier()

		switch name {
		case "true":
			return &Literal{node: node{pos}, Value: BoolValue(true)}, nil
		case "false":
			return &Literal{node: node{pos}, Value: BoolValue(false)}, nil
		case "null":
			return &Literal{node: node{pos}, Value: NullValue()}, nil
		}

		saved := *p

		p.skipWhitespace()

		if !p.expect('(') {
			*p = saved

			return &Ident{node: node{pos}, Name: name}, nil
		}

		p.skipWhitespace()

		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		p.skipWhitespace()

		if !p.expect(')') {
			return nil, p.errorf(`expected ")" to close call to %s, found %s`, name, p.describe())
		}

		return &Call{node: node{pos}, Arg: arg, Name: name}, nil

	default:
		return nil, p.errorf("unexpected %s, expected expression", p.describe())
	}
}

func (p *parser) parseNumber() (Expr, error) {
	pos := p.position()
	start := p.pos
	float := false

	p.expect('-')

	if !isDigit(p.peek()) {
		return nil, p.errorf("expected digit, found %s", p.describe())
	}

	p.skipDigits()

	if p.peek() == '.' {
		p.advance()

		if !isDigit(p.peek()) {
			return nil, p.errorf("expected digit after decimal point, found %s", p.describe())
		}

		p.skipDigits()

		float = true
	}

	if ch := p.peek(); ch == 'e' || ch == 'E' {
		p.advance()

		if ch := p.peek(); ch == '+' || ch == '-' {
			p.advance()
		}

		if !isDigit(p.peek()) {
			return nil, p.errorf("expected digit in exponent, found %s", p.describe())
		}

		p.skipDigits()

		float = true
	}

	text := string(p.input[start:p.pos])

	if !float {
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return &Literal{node: node{pos}, Value: IntValue(i)}, nil
		}
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, &ParseError{
			Source: string(p.input),
			Msg:    "invalid number " + strconv.Quote(text),
			Pos:    pos,
		}
	}

	return &Literal{node: node{pos}, Value: FloatValue(f)}, nil
}

// parseString parses a single- or double-quoted string literal.
func (p *parser) parseString() (string, error) {
	quote := p.peek()
	p.advance()

	var sb strings.Builder

	for {
		if p.eof() {
			return "", p.errorf("unterminated string")
		}

		ch := p.peek()

		switch {
		case ch == quote:
			p.advance()

			return sb.String(), nil

		case ch == '\\':
			r, err := p.parseEscape()
			if err != nil {
				return "", err
			}

			sb.WriteRune(r)

		default:
			p.advance()
			sb.WriteRune(ch)
		}
	}
}

func (p *parser) parseEscape() (rune, error) {
	p.advance() // '\\'

	ch := p.peek()
	if p.eof() {
		return 0, p.errorf("unterminated string")
	}

	p.advance()

	switch ch {
	case '"', '\'', '\\', '/':
		return ch, nil
	case 'b':
		return '\b', nil
	case 'f':
		return '\f', nil
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case 'u':
		// handled below
	default:
		return 0, p.errorf("invalid escape sequence \\%c", ch)
	}

	hi, err := p.parseHex4()
	if err != nil {
		return 0, err
	}

	switch {
	case utf16.IsSurrogate(hi) && hi < 0xDC00:
		if p.peekN(2) != `\u` {
			return 0, p.errorf("unpaired surrogate \\u%04X", hi)
		}

		p.advance()
		p.advance()

		lo, err := p.parseHex4()
		if err != nil {
			return 0, err
		}

		r := utf16.DecodeRune(hi, lo)
		if r == utf8.RuneError {
			return 0, p.errorf("invalid surrogate pair \\u%04X\\u%04X", hi, lo)
		}

		return r, nil

	case utf16.IsSurrogate(hi):
		return 0, p.errorf("unpaired surrogate \\u%04X", hi)

	default:
		return hi, nil
	}
}

func (p *parser) parseHex4() (rune, error) {
	text := p.peekN(4)
	if len(text) < 4 {
		return 0, p.errorf("expected 4 hex digits in \\u escape")
	}

	n, err := strconv.ParseUint(text, 16, 16)
	if err != nil {
		return 0, p.errorf("invalid hex digits %q in \\u escape", text)
	}

	for range 4 {
		p.advance()
	}

	return rune(n), nil
}

func (p *parser) parseArray() (Expr, error) {
	pos := p.position()
	p.advance() // '['

	elems := make([]Expr, 0)

	for {
		p.skipWhitespace()

		if p.expect(']') {
			return &ArrayLit{node: node{pos}, Elems: elems}, nil
		}

		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		elems = append(elems, e)

		p.skipWhitespace()

		if p.expect(',') {
			continue
		}

		if !p.expect(']') {
			return nil, p.errorf(`expected "," or "]" in array, found %s`, p.describe())
		}

		return &ArrayLit{node: node{pos}, Elems: elems}, nil
	}
}

func (p *parser) parseObject() (Expr, error) {
	pos := p.position()
	p.advance() // '{'

	obj := &ObjectLit{node: node{pos}}

	for {
		p.skipWhitespace()

		if p.expect('}') {
			return obj, nil
		}

		var key string

		switch ch := p.peek(); {
		case ch == '"' || ch == '\'':
			s, err := p.parseString()
			if err != nil {
				return nil, err
			}

			key = s

		case isIdentStart(ch):
			key, _ = p.scanIdentifier()

		default:
			return nil, p.errorf("expected object key, found %s", p.describe())
		}

		p.skipWhitespace()

		if !p.expect(':') {
			return nil, p.errorf(`expected ":" after object key, found %s`, p.describe())
		}

		p.skipWhitespace()

		val, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		obj.Keys = append(obj.Keys, key)
		obj.Values = append(obj.Values, val)

		p.skipWhitespace()

		if p.expect(',') {
			continue
		}

		if !p.expect('}') {
			return nil, p.errorf(`expected "," or "}" in object, found %s`, p.describe())
		}

		return obj, nil
	}
}

// scanIdentifier consumes an identifier at the cursor.
func (p *parser) scanIdentifier() (string, bool) {
	start := p.pos

	if !isIdentStart(p.peek()) || p.eof() {
		return "", false
	}

	for !p.eof() && isIdentPart(p.peek()) {
		p.advance()
	}

	return string(p.input[start:p.pos]), true
}

func (p *parser) skipDigits() {
	for !p.eof() && isDigit(p.peek()) {
		p.advance()
	}
}

func isDigit(r rune) bool { return '0' <= r && r <= '9' }

// Helper methods

func (p *parser) peek() rune {
	if p.eof() {
		return 0
	}

	r, _ := utf8.DecodeRune(p.input[p.pos:])

	return r
}

func (p *parser) peekN(n int) string {
	if p.pos+n > len(p.input) {
		return string(p.input[p.pos:])
	}

	return string(p.input[p.pos : p.pos+n])
}

func (p *parser) advance() {
	if p.eof() {
		return
	}

	r, size := utf8.DecodeRune(p.input[p.pos:])

	p.pos += size
	if r == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
}

func (p *parser) expect(ch rune) bool {
	if !p.eof() && p.peek() == ch {
		p.advance()

		return true
	}

	return false
}

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parser) position() Position {
	return Position{
		Offset: p.pos,
		Line:   p.line,
		Column: p.col,
	}
}

func (p *parser) skipWhitespace() {
	for !p.eof() && unicode.IsSpace(p.peek()) {
		p.advance()
	}
}

// describe names the character at the cursor for error messages.
func (p *parser) describe() string {
	if p.eof() {
		return "end of input"
	}

	return strconv.QuoteRune(p.peek())
}

func (p *parser) errorf(format string, args ...any) *ParseError {
	return &ParseError{
		Source: string(p.input),
		Msg:    fmt.Sprintf(format, args...),
		Pos:    p.position(),
	}
}
