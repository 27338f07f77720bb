package render

import (
	"context"
	"regexp"
	"strings"

	"github.com/ardnew/platelet/lang"
)

// interpolation matches one {{ expression }} on a single line.
var interpolation = regexp.MustCompile(`\{\{(.*?)\}\}`)

// interpolate replaces each {{ expression }} in text with its value.
func (r *renderer) interpolate(ctx context.Context, text string, scope lang.Value) (string, error) {
	matches := interpolation.FindAllStringSubmatchIndex(text, -1)
	if matches == nil {
		return text, nil
	}

	var sb strings.Builder

	last := 0

	for _, m := range matches {
		sb.WriteString(text[last:m[0]])

		s, err := r.hole(ctx, text[m[2]:m[3]], scope)
		if err != nil {
			return "", err
		}

		sb.WriteString(s)

		last = m[1]
	}

	sb.WriteString(text[last:])

	return sb.String(), nil
}

func (r *renderer) hole(ctx context.Context, src string, scope lang.Value) (string, error) {
	expr, err := lang.Compile(ctx, src, r.cfg.compileOptions()...)
	if err != nil {
		return "", r.fail(TextRenderError, detailOf(err), err)
	}

	v, err := lang.Eval(expr, scope)
	if err != nil {
		return "", r.fail(TextRenderError, detailOf(err), err)
	}

	s, ok := v.Stringify()
	if !ok {
		return "", r.fail(TextRenderError,
			"cannot render "+v.Kind().String()+" as text", nil)
	}

	return s, nil
}
