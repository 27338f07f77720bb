package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/ardnew/platelet/log"
	"github.com/ardnew/platelet/markup"
	"github.com/ardnew/platelet/render"
)

// Render renders a template file against a data context.
type Render struct {
	Data `embed:""`

	Template string `arg:""            help:"Template file to render"                                  name:"template" type:"existingfile"`
	Root     string `help:"Directory that include paths resolve against (default: the template's directory)" placeholder:"DIR"  short:"r" type:"existingdir"`
	MaxDepth int    `default:"${maxDepth}" help:"Maximum include nesting depth"`
	Output   string `help:"Output file or '-' for stdout"                       default:"-"                       short:"o" type:"path"`
	NoCache  bool   `help:"Disable the expression parse cache"`

	Stdout io.Writer `kong:"-"`
	Stderr io.Writer `kong:"-"`
}

// Run executes the render command.
func (r *Render) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	scope, err := r.Scope(ctx)
	if err != nil {
		return err
	}

	root, name, err := r.locate()
	if err != nil {
		return err
	}

	doc, err := render.Render(ctx, scope, nil, nil, name, render.NewDirFS(root),
		render.WithLogger(log.Default()),
		render.WithMaxDepth(r.MaxDepth),
		render.WithCache(!r.NoCache),
	)
	if err != nil {
		var re *render.Error
		if errors.As(err, &re) {
			fmt.Fprintln(stderr(r.Stderr), re.Error())
		}

		return ErrRender.Wrap(err).With(
			slog.String("template", r.Template),
			slog.String("root", root),
		)
	}

	return r.write(doc)
}

// locate returns the template root directory and the slash-separated path
// of the template within it.
func (r *Render) locate() (root, name string, err error) {
	root = r.Root
	if root == "" {
		root = filepath.Dir(r.Template)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", "", ErrTemplatePath.Wrap(err)
	}

	absTemplate, err := filepath.Abs(r.Template)
	if err != nil {
		return "", "", ErrTemplatePath.Wrap(err)
	}

	rel, err := filepath.Rel(absRoot, absTemplate)
	if err != nil {
		return "", "", ErrTemplatePath.Wrap(err)
	}

	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", "", ErrTemplatePath.With(
			slog.String("template", r.Template),
			slog.String("root", root),
		)
	}

	return absRoot, filepath.ToSlash(rel), nil
}

// write sends the rendered document to stdout, or replaces the output file
// atomically so that a failed render never leaves a partial file behind.
func (r *Render) write(doc *markup.Node) error {
	if r.Output == "" || r.Output == stdinSource {
		if err := writeDocument(stdout(r.Stdout), doc); err != nil {
			return ErrWriteOutput.Wrap(err)
		}

		return nil
	}

	var buf bytes.Buffer
	if err := writeDocument(&buf, doc); err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("file", r.Output))
	}

	if err := atomic.WriteFile(r.Output, &buf); err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("file", r.Output))
	}

	return nil
}

func writeDocument(w io.Writer, doc *markup.Node) error {
	if err := markup.Write(w, doc); err != nil {
		return err
	}

	_, err := io.WriteString(w, "\n")

	return err
}
