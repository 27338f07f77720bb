package lang

import (
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Predefined errors (sentinel values).
var (
	ErrReadInput       = NewError("failed to read input")
	ErrDecode          = NewError("failed to decode context")
	ErrEncode          = NewError("failed to encode value")
	ErrTrailingData    = NewError("unexpected data after value")
	ErrUnsupportedType = NewError("unsupported value type")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// "<msg>: <err>", "<msg>", "<err>" or "" depending on which are set.
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.err == nil && t.msg != "" && t.msg == e.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs,
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// Position identifies a location in expression source.
type Position struct {
	Offset int // byte offset, starting at 0
	Line   int // line number, starting at 1
	Column int // column number in characters, starting at 1
}

// String returns "line:column".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// ParseError reports malformed expression source.
type ParseError struct {
	Source string
	Msg    string
	Pos    Position
}

// Summary returns the position and message on a single line.
func (e *ParseError) Summary() string {
	return "parse error at line " + strconv.Itoa(e.Pos.Line) +
		", column " + strconv.Itoa(e.Pos.Column) + ": " + e.Msg
}

// Error implements the error interface. The summary is followed by the
// offending source line and a caret marking the column.
func (e *ParseError) Error() string {
	var buf strings.Builder

	buf.WriteString(e.Summary())

	lines := strings.Split(e.Source, "\n")
	if e.Pos.Line < 1 || e.Pos.Line > len(lines) {
		return buf.String()
	}

	num := strconv.Itoa(e.Pos.Line)

	buf.WriteString("\n  ")
	buf.WriteString(num)
	buf.WriteString(" | ")
	buf.WriteString(lines[e.Pos.Line-1])
	buf.WriteByte('\n')

	// 2 leading spaces + " | "
	buf.WriteString(strings.Repeat(" ", len(num)+5+max(e.Pos.Column-1, 0)))
	buf.WriteByte('^')

	return buf.String()
}

// LogValue implements slog.LogValuer.
func (e *ParseError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", e.Msg),
		slog.String("source", e.Source),
		slog.Int("line", e.Pos.Line),
		slog.Int("column", e.Pos.Column),
	)
}

// EvalErrorKind classifies evaluation failures.
type EvalErrorKind uint8

// Evaluation failure kinds.
const (
	TypeMismatch EvalErrorKind = iota
	BadArrayIndex
	ArrayOutOfBounds
	UndefinedProperty
	UndefinedFunction
	DivideByZero
)

// String returns the kind name.
func (k EvalErrorKind) String() string {
	switch k {
	case TypeMismatch:
		return "TypeMismatch"
	case BadArrayIndex:
		return "BadArrayIndex"
	case ArrayOutOfBounds:
		return "ArrayOutOfBounds"
	case UndefinedProperty:
		return "UndefinedProperty"
	case UndefinedFunction:
		return "UndefinedFunction"
	case DivideByZero:
		return "DivideByZero"
	default:
		return "EvalErrorKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// EvalError reports a failure while evaluating a well-formed expression.
type EvalError struct {
	Detail string
	Name   string // property or function name, when applicable
	Pos    Position
	Kind   EvalErrorKind
}

// Error implements the error interface.
func (e *EvalError) Error() string {
	return e.Kind.String() + ": " + e.Detail
}

// LogValue implements slog.LogValuer.
func (e *EvalError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("kind", e.Kind.String()),
		slog.String("error", e.Detail),
		slog.String("pos", e.Pos.String()),
	}

	if e.Name != "" {
		attrs = append(attrs, slog.String("name", e.Name))
	}

	return slog.GroupValue(attrs...)
}

// ForLoopParseError reports malformed pl-for syntax.
type ForLoopParseError struct {
	Source string
	Msg    string
	Offset int // byte offset of the failure in Source
}

// Error renders the source, a caret under the failing character and the
// reason on separate lines.
func (e *ForLoopParseError) Error() string {
	col := utf8.RuneCountInString(e.Source[:min(max(e.Offset, 0), len(e.Source))])

	return e.Source + "\n" + strings.Repeat(" ", col) + "^\n" + e.Msg
}

// ForLoopTypeError reports a loop source whose runtime type does not fit
// the binding pattern.
type ForLoopTypeError struct {
	Expected []Kind
	Found    Kind
}

// Error implements the error interface.
func (e *ForLoopTypeError) Error() string {
	names := make([]string, len(e.Expected))
	for i, k := range e.Expected {
		names[i] = k.String()
	}

	return "Expected " + strings.Join(names, " or ") + ", found " + e.Found.String()
}
