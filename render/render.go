package render

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/ardnew/platelet/lang"
	"github.com/ardnew/platelet/markup"
)

// Slots maps slot names to the content supplied by an including template.
// The default slot has the empty name.
type Slots map[string][]*markup.Node

// InputName is the template path reported by [RenderText].
const InputName = "input"

// tagName is the shape a pl-is value must have.
var tagName = regexp.MustCompile(`^(?i)[a-z][\w.-]*$`)

// Render reads the template at path from fsys, applies every directive in
// it and returns the resulting document.
//
// The scope supplies the values visible to expressions. Slots holds the
// content referenced by pl-slot elements and may be nil. Style and script
// blocks already recorded in dedup are dropped; a nil dedup starts a new
// set. Any failure aborts the whole render.
func Render(
	ctx context.Context,
	scope lang.Value,
	slots Slots,
	dedup *DedupSet,
	path string,
	fsys Filesystem,
	opts ...Option,
) (*markup.Node, error) {
	if dedup == nil {
		dedup = NewDedupSet()
	}

	r := &renderer{
		fs:    fsys,
		dedup: dedup,
		cfg:   newConfig(opts...),
		path:  path,
	}

	doc, err := r.file(ctx, scope, slots)
	if err != nil {
		r.cfg.logger.DebugContext(ctx, "render failed",
			slog.String("path", path),
			slog.Any("error", err))

		return nil, err
	}

	r.cfg.logger.DebugContext(ctx, "render complete",
		slog.String("path", path),
		slog.Int("deduplicated", dedup.Len()))

	return doc, nil
}

// RenderString renders the template at path with no slots and a fresh
// [DedupSet] and returns the serialized markup.
func RenderString(
	ctx context.Context,
	scope lang.Value,
	path string,
	fsys Filesystem,
	opts ...Option,
) (string, error) {
	doc, err := Render(ctx, scope, nil, nil, path, fsys, opts...)
	if err != nil {
		return "", err
	}

	return markup.Render(doc), nil
}

// RenderText renders a template given as source text. Errors name the
// template [InputName]; pl-src references resolve against an empty
// filesystem and always fail.
func RenderText(
	ctx context.Context,
	scope lang.Value,
	src string,
	opts ...Option,
) (string, error) {
	return RenderString(ctx, scope, InputName, MapFS{InputName: src}, opts...)
}

type renderer struct {
	fs    Filesystem
	dedup *DedupSet
	cfg   config
	path  string
	depth int
}

// outcome tells the sibling loop what to do with the node it just rendered.
type outcome struct {
	nodes   []*markup.Node
	replace bool
}

var keep = outcome{}

func replaceWith(nodes ...*markup.Node) outcome {
	return outcome{nodes: nodes, replace: true}
}

func (r *renderer) fail(kind ErrorKind, detail string, cause error) *Error {
	return &Error{Kind: kind, Detail: detail, Path: r.path, Err: cause}
}

func (r *renderer) illegal(detail string) *Error {
	return r.fail(IllegalDirective, detail, nil)
}

func (r *renderer) trace(ctx context.Context, msg string, attrs ...slog.Attr) {
	r.cfg.logger.TraceContext(ctx, msg,
		append([]slog.Attr{slog.String("path", r.path)}, attrs...)...)
}

// file reads, parses and renders the template at r.path.
func (r *renderer) file(ctx context.Context, scope lang.Value, slots Slots) (*markup.Node, error) {
	if r.depth > r.cfg.maxDepth {
		return nil, r.fail(FilesystemError,
			fmt.Sprintf("include depth %d exceeds limit of %d", r.depth, r.cfg.maxDepth),
			nil)
	}

	src, err := r.fs.Read(r.path)
	if err != nil {
		return nil, r.fail(FilesystemError, err.Error(), err)
	}

	doc, err := markup.Parse(src)
	if err != nil {
		return nil, r.fail(ParserError, detailOf(err), err)
	}

	r.trace(ctx, "template loaded", slog.Int("depth", r.depth))

	doc.Children, err = r.children(ctx, doc.Children, scope, slots)
	if err != nil {
		return nil, err
	}

	return doc, nil
}

func (r *renderer) eval(ctx context.Context, src string, scope lang.Value) (lang.Value, error) {
	expr, err := lang.Compile(ctx, src, r.cfg.compileOptions()...)
	if err != nil {
		return lang.Value{}, r.fail(ParserError, detailOf(err), err)
	}

	v, err := lang.Eval(expr, scope)
	if err != nil {
		return lang.Value{}, r.fail(EvalError, err.Error(), err)
	}

	return v, nil
}

// children renders a run of siblings and returns the nodes that replace
// them. The verdict of the last pl-if or pl-else-if is carried to the next
// sibling; blank text and comments carry it through unchanged, anything
// else clears it.
func (r *renderer) children(
	ctx context.Context,
	nodes []*markup.Node,
	scope lang.Value,
	slots Slots,
) ([]*markup.Node, error) {
	out := make([]*markup.Node, 0, len(nodes))

	var verdict *bool

	for _, n := range nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var (
			res outcome
			err error
		)

		switch n.Type {
		case markup.ElementNode:
			res, verdict, err = r.element(ctx, n, scope, slots, verdict)

		case markup.TextNode:
			n.Data, err = r.interpolate(ctx, n.Data, scope)
			if strings.TrimSpace(n.Data) != "" {
				verdict = nil
			}
		}

		if err != nil {
			return nil, err
		}

		if res.replace {
			out = append(out, res.nodes...)
		} else {
			out = append(out, n)
		}
	}

	return out, nil
}

// element applies the directives of n in their fixed order. prev is the
// verdict left by the preceding sibling; the returned verdict is handed to
// the next one.
func (r *renderer) element(
	ctx context.Context,
	n *markup.Node,
	scope lang.Value,
	slots Slots,
	prev *bool,
) (outcome, *bool, error) {
	var (
		next     *bool
		consumed bool
	)

	if src, ok := n.RemoveAttr("pl-if"); ok {
		v, err := r.eval(ctx, src, scope)
		if err != nil {
			return keep, nil, err
		}

		cond := v.Truthy()
		next = &cond

		r.trace(ctx, "pl-if", slog.String("expr", src), slog.Bool("result", cond))

		if !cond {
			return replaceWith(), next, nil
		}

		consumed = true
	}

	if src, ok := n.RemoveAttr("pl-else-if"); ok {
		switch {
		case prev == nil:
			return keep, nil, r.illegal("encountered a pl-else-if that didn't follow an if")

		case *prev:
			return replaceWith(), prev, nil
		}

		v, err := r.eval(ctx, src, scope)
		if err != nil {
			return keep, nil, err
		}

		cond := v.Truthy()
		next = &cond

		r.trace(ctx, "pl-else-if", slog.String("expr", src), slog.Bool("result", cond))

		if !cond {
			return replaceWith(), next, nil
		}

		consumed = true
	}

	if _, ok := n.RemoveAttr("pl-else"); ok {
		switch {
		case prev == nil:
			return keep, nil, r.illegal(
				"encountered a pl-else that didn't immediately follow a pl-if or pl-else-if")

		case *prev:
			return replaceWith(), nil, nil
		}

		consumed = true
	}

	if src, ok := n.RemoveAttr("pl-for"); ok {
		nodes, err := r.loop(ctx, n, src, scope, slots)
		if err != nil {
			return keep, nil, err
		}

		return replaceWith(nodes...), next, nil
	}

	if src, ok := n.RemoveAttr("pl-is"); ok {
		v, err := r.eval(ctx, src, scope)
		if err != nil {
			return keep, nil, err
		}

		if v.Kind() != lang.KindString {
			return keep, nil, r.illegal("pl-is expects a string")
		}

		if !tagName.MatchString(v.Text()) {
			return keep, nil, r.fail(BadPlIsName, v.Text(), nil)
		}

		r.trace(ctx, "pl-is", slog.String("from", n.Tag), slog.String("to", v.Text()))

		n.Tag = v.Text()
	}

	if src, ok := n.RemoveAttr("pl-html"); ok {
		v, err := r.eval(ctx, src, scope)
		if err != nil {
			return keep, nil, err
		}

		if v.Kind() != lang.KindString {
			return keep, nil, r.illegal("pl-html expects a string")
		}

		frag, err := markup.Parse(v.Text())
		if err != nil {
			return keep, nil, r.fail(ParserError, detailOf(err), err)
		}

		r.trace(ctx, "pl-html", slog.Int("nodes", len(frag.Children)))

		n.Children = frag.Children

		res, err := r.finish(ctx, n, scope, slots, true, false)

		return res, next, err
	}

	if src, ok := n.RemoveAttr("pl-src"); ok {
		nodes, err := r.include(ctx, n, src, scope, slots)
		if err != nil {
			return keep, nil, err
		}

		return replaceWith(nodes...), next, nil
	}

	if name, ok := n.RemoveAttr("pl-slot"); ok {
		content, ok := slots[name]
		if !ok {
			return keep, nil, r.fail(UndefinedSlot, name, nil)
		}

		r.trace(ctx, "pl-slot", slog.String("name", name), slog.Int("nodes", len(content)))

		return replaceWith(markup.CloneAll(content)...), next, nil
	}

	res, err := r.finish(ctx, n, scope, slots, consumed, true)

	return res, next, err
}

// finish binds ^attributes, renders the children of n when descend is set
// and applies style and script deduplication. A template that carried a
// control directive is replaced by its children.
func (r *renderer) finish(
	ctx context.Context,
	n *markup.Node,
	scope lang.Value,
	slots Slots,
	consumed, descend bool,
) (outcome, error) {
	if err := r.bindAttrs(ctx, n, scope); err != nil {
		return keep, err
	}

	if descend && n.Tag != "script" {
		var err error

		n.Children, err = r.children(ctx, n.Children, scope, slots)
		if err != nil {
			return keep, err
		}
	}

	if n.Tag == "style" || n.Tag == "script" {
		if text, ok := n.Text(); ok && !r.dedup.Add(text, n.Tag, n.Attrs) {
			r.trace(ctx, "duplicate block dropped", slog.String("tag", n.Tag))

			return replaceWith(), nil
		}
	}

	if consumed && n.Tag == "template" {
		return replaceWith(n.Children...), nil
	}

	return keep, nil
}

// loop renders one clone of n per context produced by the pl-for source.
// Each clone starts without a sibling verdict.
func (r *renderer) loop(
	ctx context.Context,
	n *markup.Node,
	src string,
	scope lang.Value,
	slots Slots,
) ([]*markup.Node, error) {
	fl, err := lang.CompileForLoop(ctx, src, r.cfg.compileOptions()...)
	if err != nil {
		return nil, r.fail(ForLoopParserError, err.Error(), err)
	}

	scopes, err := fl.Run(scope)
	if err != nil {
		return nil, r.fail(ForLoopEvalError, err.Error(), err)
	}

	r.trace(ctx, "pl-for", slog.String("expr", src), slog.Int("iterations", len(scopes)))

	out := make([]*markup.Node, 0, len(scopes))

	for _, s := range scopes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		clone := n.Clone()

		res, _, err := r.element(ctx, clone, s, slots, nil)
		if err != nil {
			return nil, err
		}

		switch {
		case res.replace:
			out = append(out, res.nodes...)
		case clone.Tag == "template":
			out = append(out, clone.Children...)
		default:
			out = append(out, clone)
		}
	}

	return out, nil
}

// include renders the template referenced by a pl-src element and returns
// its top-level nodes. The included template sees only the element's
// ^attribute bindings, evaluated in the including scope.
func (r *renderer) include(
	ctx context.Context,
	n *markup.Node,
	src string,
	scope lang.Value,
	slots Slots,
) ([]*markup.Node, error) {
	target, err := r.fs.Resolve(r.path, src)
	if err != nil {
		return nil, r.fail(FilesystemError, err.Error(), err)
	}

	bound := lang.NewObject()

	for _, a := range n.Attrs {
		if name, ok := strings.CutPrefix(a.Name, "^"); ok {
			v, err := r.eval(ctx, a.Value, scope)
			if err != nil {
				return nil, err
			}

			bound.Set(name, v)
		}
	}

	given, err := r.collectSlots(ctx, n.Children, scope, slots)
	if err != nil {
		return nil, err
	}

	r.trace(ctx, "pl-src",
		slog.String("target", target),
		slog.Int("depth", r.depth+1),
		slog.Int("slots", len(given)))

	sub := &renderer{
		fs:    r.fs,
		dedup: r.dedup,
		cfg:   r.cfg,
		path:  target,
		depth: r.depth + 1,
	}

	doc, err := sub.file(ctx, lang.ObjectValue(bound), given)
	if err != nil {
		return nil, err
	}

	return doc.Children, nil
}

// collectSlots splits the children of a pl-src element into named slots,
// declared with <template pl-slot="name">, and the default slot holding
// everything else. Slot content is rendered in the including scope.
func (r *renderer) collectSlots(
	ctx context.Context,
	children []*markup.Node,
	scope lang.Value,
	slots Slots,
) (Slots, error) {
	given := make(Slots)
	rest := make([]*markup.Node, 0, len(children))

	for _, c := range children {
		if !c.IsElement("template") || !c.HasAttr("pl-slot") {
			rest = append(rest, c)

			continue
		}

		name, _ := c.Attr("pl-slot")

		content, err := r.children(ctx, c.Children, scope, slots)
		if err != nil {
			return nil, err
		}

		given[name] = content
	}

	if _, ok := given[""]; !ok {
		content, err := r.children(ctx, rest, scope, slots)
		if err != nil {
			return nil, err
		}

		given[""] = content
	}

	return given, nil
}
