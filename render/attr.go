package render

import (
	"context"
	"strings"

	"github.com/ardnew/platelet/lang"
	"github.com/ardnew/platelet/markup"
)

// attrify converts a bound value to an attribute value. It returns false
// when the attribute should be omitted.
func attrify(v lang.Value) (string, bool) {
	switch v.Kind() {
	case lang.KindNull:
		return "", false
	case lang.KindBool:
		if !v.Bool() {
			return "", false
		}

		return "true", true
	case lang.KindNumber, lang.KindString:
		s, _ := v.Stringify()

		return s, true
	case lang.KindArray:
		parts := make([]string, 0, len(v.Array()))
		for _, elem := range v.Array() {
			if s, ok := attrify(elem); ok {
				parts = append(parts, s)
			}
		}

		return joinParts(parts)
	case lang.KindObject:
		var parts []string

		for key, val := range v.Object().All() {
			if val.Truthy() {
				parts = append(parts, key)
			}
		}

		return joinParts(parts)
	}

	return "", false
}

func joinParts(parts []string) (string, bool) {
	if len(parts) == 0 {
		return "", false
	}

	return strings.Join(parts, " "), true
}

// bindAttrs evaluates every ^name attribute of n in scope, replacing it
// with name and the attrified result, or dropping it. Other attributes keep
// their positions.
func (r *renderer) bindAttrs(ctx context.Context, n *markup.Node, scope lang.Value) error {
	out := n.Attrs[:0]

	for _, a := range n.Attrs {
		name, bound := strings.CutPrefix(a.Name, "^")
		if !bound {
			out = append(out, a)

			continue
		}

		v, err := r.eval(ctx, a.Value, scope)
		if err != nil {
			return err
		}

		if s, ok := attrify(v); ok {
			out = append(out, markup.Attr{Name: name, Value: s})
		}
	}

	n.Attrs = out

	return nil
}
