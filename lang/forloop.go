package lang

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ForLoopKind identifies the binding pattern of a [ForLoop].
type ForLoopKind uint8

// Binding patterns.
const (
	// LoopSimple is "x in xs".
	LoopSimple ForLoopKind = iota + 1
	// LoopPair is "(a, b) in xs".
	LoopPair
	// LoopTriple is "(k, v, i) in obj".
	LoopTriple
)

// ForLoop is a parsed pl-for directive.
type ForLoop struct {
	Source Expr
	Names  []string
}

// Kind returns the binding pattern of the loop.
func (l *ForLoop) Kind() ForLoopKind {
	switch len(l.Names) {
	case 1:
		return LoopSimple
	case 2:
		return LoopPair
	default:
		return LoopTriple
	}
}

// ParseForLoop parses the loop syntax
//
//	IDENT in EXPR
//	( IDENT , IDENT ) in EXPR
//	( IDENT , IDENT , IDENT ) in EXPR
func ParseForLoop(src string) (*ForLoop, error) {
	s := &loopScanner{src: src}

	s.skipSpace()

	var names []string

	if s.accept('(') {
		for {
			s.skipSpace()

			name, ok := s.ident()
			if !ok {
				return nil, s.fail("expected a loop variable name")
			}

			names = append(names, name)

			s.skipSpace()

			if s.accept(')') {
				break
			}

			if !s.accept(',') {
				return nil, s.fail(`expected "," or ")"`)
			}

			if len(names) == 3 {
				return nil, s.fail("at most three loop variables may be bound")
			}
		}

		if len(names) < 2 {
			return nil, s.fail("parenthesised loop variables must bind two or three names")
		}
	} else {
		name, ok := s.ident()
		if !ok {
			return nil, s.fail("expected a loop variable name")
		}

		names = append(names, name)
	}

	s.skipSpace()

	if !s.keyword("in") {
		return nil, s.fail(`expected "in"`)
	}

	rest := src[s.pos:]
	if strings.TrimSpace(rest) == "" {
		return nil, s.fail("expected an expression after \"in\"")
	}

	source, err := Parse(rest)
	if err != nil {
		return nil, &ForLoopParseError{
			Source: src,
			Msg:    err.Error(),
			Offset: s.pos + exprOffset(err),
		}
	}

	return &ForLoop{Source: source, Names: names}, nil
}

func exprOffset(err error) int {
	if pe, ok := err.(*ParseError); ok {
		return pe.Pos.Offset
	}

	return 0
}

// Run evaluates the loop source in scope and returns one scope per
// iteration: a copy of scope extended with the loop's bound names. A scope
// that is not an object is treated as empty.
//
//   - [LoopSimple] binds each element of an array.
//   - [LoopPair] binds (element, index) over an array, or (value, key) over
//     an object in key order.
//   - [LoopTriple] binds (key, value, position) over an object.
func (l *ForLoop) Run(scope Value) ([]Value, error) {
	src, err := Eval(l.Source, scope)
	if err != nil {
		return nil, err
	}

	base := scope.Object()
	if base == nil {
		base = NewObject()
	}

	switch l.Kind() {
	case LoopSimple:
		if src.kind != KindArray {
			return nil, &ForLoopTypeError{Expected: []Kind{KindArray}, Found: src.kind}
		}

		out := make([]Value, 0, len(src.arr))
		for _, elem := range src.arr {
			out = append(out, ObjectValue(base.With(Pair{l.Names[0], elem})))
		}

		return out, nil

	case LoopPair:
		switch src.kind {
		case KindArray:
			out := make([]Value, 0, len(src.arr))
			for i, elem := range src.arr {
				out = append(out, ObjectValue(base.With(
					Pair{l.Names[0], elem},
					Pair{l.Names[1], IntValue(int64(i))},
				)))
			}

			return out, nil

		case KindObject:
			out := make([]Value, 0, src.obj.Len())
			for key, val := range src.obj.All() {
				out = append(out, ObjectValue(base.With(
					Pair{l.Names[0], val},
					Pair{l.Names[1], StringValue(key)},
				)))
			}

			return out, nil
		}

		return nil, &ForLoopTypeError{
			Expected: []Kind{KindArray, KindObject},
			Found:    src.kind,
		}

	default:
		if src.kind != KindObject {
			return nil, &ForLoopTypeError{Expected: []Kind{KindObject}, Found: src.kind}
		}

		out := make([]Value, 0, src.obj.Len())
		i := int64(0)

		for key, val := range src.obj.All() {
			out = append(out, ObjectValue(base.With(
				Pair{l.Names[0], StringValue(key)},
				Pair{l.Names[1], val},
				Pair{l.Names[2], IntValue(i)},
			)))
			i++
		}

		return out, nil
	}
}

// loopScanner tokenizes the binding part of a pl-for directive.
type loopScanner struct {
	src string
	pos int
}

func (s *loopScanner) peek() rune {
	r, _ := utf8.DecodeRuneInString(s.src[s.pos:])

	return r
}

func (s *loopScanner) skipSpace() {
	for s.pos < len(s.src) {
		r, size := utf8.DecodeRuneInString(s.src[s.pos:])
		if !unicode.IsSpace(r) {
			return
		}

		s.pos += size
	}
}

func (s *loopScanner) accept(ch byte) bool {
	if s.pos < len(s.src) && s.src[s.pos] == ch {
		s.pos++

		return true
	}

	return false
}

func (s *loopScanner) ident() (string, bool) {
	start := s.pos

	if s.pos >= len(s.src) || !isIdentStart(s.peek()) {
		return "", false
	}

	for s.pos < len(s.src) && isIdentPart(s.peek()) {
		s.pos++
	}

	return s.src[start:s.pos], true
}

// keyword consumes word when it is not followed by an identifier character.
func (s *loopScanner) keyword(word string) bool {
	if !strings.HasPrefix(s.src[s.pos:], word) {
		return false
	}

	end := s.pos + len(word)
	if end < len(s.src) && isIdentPart(rune(s.src[end])) {
		return false
	}

	s.pos = end

	return true
}

func (s *loopScanner) fail(msg string) *ForLoopParseError {
	return &ForLoopParseError{Source: s.src, Msg: msg, Offset: s.pos}
}
