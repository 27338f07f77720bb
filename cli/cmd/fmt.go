package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ardnew/platelet/lang"
	"github.com/ardnew/platelet/log"
)

// Fmt prints the canonical, fully parenthesized form of an expression or a
// pl-for directive, which makes operator grouping explicit.
type Fmt struct {
	Source string `arg:""  help:"Expression to format"                 name:"source"`
	Loop   bool   `help:"Parse the source as a pl-for directive" short:"l"`

	Stdout io.Writer `kong:"-"`
}

// Run executes the fmt command.
func (f *Fmt) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	opts := []lang.Option{lang.WithLogger(log.Default())}

	var out string

	if f.Loop {
		loop, err := lang.CompileForLoop(ctx, f.Source, opts...)
		if err != nil {
			return ErrParse.Wrap(err).With(slog.Bool("loop", true))
		}

		out = formatLoop(loop)
	} else {
		expr, err := lang.Compile(ctx, f.Source, opts...)
		if err != nil {
			return ErrParse.Wrap(err).With(slog.Bool("loop", false))
		}

		out = expr.String()
	}

	if _, err := fmt.Fprintln(stdout(f.Stdout), out); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

func formatLoop(loop *lang.ForLoop) string {
	names := loop.Names[0]
	if len(loop.Names) > 1 {
		names = "(" + strings.Join(loop.Names, ", ") + ")"
	}

	return names + " in " + loop.Source.String()
}
