package render

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/ardnew/platelet/lang"
)

// ErrorKind classifies render failures.
type ErrorKind uint8

// Render failure kinds.
const (
	IllegalDirective ErrorKind = iota
	TextRenderError
	ParserError
	EvalError
	ForLoopParserError
	ForLoopEvalError
	UndefinedSlot
	BadPlIsName
	FilesystemError
)

// Label returns the heading written on the first line of an error.
func (k ErrorKind) Label() string {
	switch k {
	case IllegalDirective:
		return "ILLEGAL DIRECTIVE"
	case TextRenderError:
		return "TEXT RENDER ERROR"
	case ParserError:
		return "PARSER ERROR"
	case EvalError:
		return "EVAL ERROR"
	case ForLoopParserError:
		return "FOR LOOP PARSER ERROR"
	case ForLoopEvalError:
		return "FOR LOOP EVALUATION ERROR"
	case UndefinedSlot:
		return "UNDEFINED SLOT"
	case BadPlIsName:
		return "UNDEFINED `pl-is` NAME"
	case FilesystemError:
		return "FILE SYSTEM ERROR"
	default:
		return "ErrorKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// String returns the kind's label.
func (k ErrorKind) String() string { return k.Label() }

// Error is returned for every failure that aborts a render. It is created
// in the template where the failure arose and passes unchanged through the
// templates that include it.
type Error struct {
	Err    error // underlying cause, if any
	Detail string
	Path   string // template in which the failure arose
	Kind   ErrorKind
}

// Error renders the label and detail on the first line and the template
// path on the second.
func (e *Error) Error() string {
	var head string

	switch e.Kind {
	case ForLoopParserError:
		head = e.Kind.Label() + ":\n" + e.Detail
	case UndefinedSlot, BadPlIsName:
		head = e.Kind.Label() + ": " + strconv.Quote(e.Detail)
	default:
		head = e.Kind.Label() + ": " + e.Detail
	}

	return head + "\nin " + e.Path
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("kind", e.Kind.Label()),
		slog.String("detail", e.Detail),
		slog.String("path", e.Path),
	}

	if e.Err != nil {
		attrs = append(attrs, slog.Any("cause", e.Err))
	}

	return slog.GroupValue(attrs...)
}

// detailOf returns the single-line description of err used as an error
// detail.
func detailOf(err error) string {
	var pe *lang.ParseError
	if errors.As(err, &pe) {
		return pe.Summary()
	}

	return err.Error()
}
