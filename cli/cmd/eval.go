package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/platelet/lang"
	"github.com/ardnew/platelet/log"
)

// Eval evaluates one expression against a data context and prints the
// result.
type Eval struct {
	Data `embed:""`

	Expr   string `arg:""          help:"Expression to evaluate"      name:"expr"`
	Output string `default:"json"  enum:"json,yaml"                   help:"Result format"  short:"o"`
	Indent int    `default:"0"     help:"Indent width (0 for compact)" short:"i"`

	Stdout io.Writer `kong:"-"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	scope, err := e.Scope(ctx)
	if err != nil {
		return err
	}

	expr, err := lang.Compile(ctx, e.Expr, lang.WithLogger(log.Default()))
	if err != nil {
		return ErrParse.Wrap(err).With(slog.String("expr", e.Expr))
	}

	result, err := lang.Eval(expr, scope)
	if err != nil {
		return ErrEval.Wrap(err).With(slog.String("expr", e.Expr))
	}

	log.DebugContext(ctx, "evaluated expression",
		slog.String("expr", expr.String()),
		slog.String("kind", result.Kind().String()))

	w := stdout(e.Stdout)

	if e.Output == "yaml" {
		err = lang.EncodeYAML(ctx, w, result, e.Indent)
	} else {
		err = lang.EncodeJSON(w, result, e.Indent)
	}

	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
