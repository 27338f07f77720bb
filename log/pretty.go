package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"sync"
	"time"
)

// ANSI color codes for pretty printing.
const (
	colorReset   = "\033[0m"
	colorGray    = "\033[90m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

// painter writes optionally colorized fragments.
type painter bool

func (p painter) paint(buf *bytes.Buffer, color, s string) {
	if p {
		buf.WriteString(color)
		buf.WriteString(s)
		buf.WriteString(colorReset)

		return
	}

	buf.WriteString(s)
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed
	case level >= slog.LevelWarn:
		return colorYellow
	case level >= slog.LevelInfo:
		return colorGreen
	case level >= slog.LevelDebug:
		return colorBlue
	default:
		return colorMagenta
	}
}

// flatten resolves attribute values and expands groups into dotted keys.
// Empty attributes are dropped.
func flatten(prefix string, attrs []slog.Attr, yield func(slog.Attr)) {
	for _, a := range attrs {
		a.Value = a.Value.Resolve()
		if a.Equal(slog.Attr{}) {
			continue
		}

		key := a.Key
		if prefix != "" && key != "" {
			key = prefix + "." + key
		} else if key == "" {
			key = prefix
		}

		if a.Value.Kind() == slog.KindGroup {
			flatten(key, a.Value.Group(), yield)

			continue
		}

		yield(slog.Attr{Key: key, Value: a.Value})
	}
}

// prettyBase holds the state shared by both pretty handlers.
type prettyBase struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	cfg    config
	attrs  []slog.Attr // preformatted by WithAttrs, keys already qualified
	groups []string
	paint  painter
}

func newPrettyBase(w io.Writer, opts *slog.HandlerOptions, cfg config) prettyBase {
	return prettyBase{
		opts:  *opts,
		mu:    &sync.Mutex{},
		w:     w,
		cfg:   cfg,
		paint: painter(cfg.color),
	}
}

func (b prettyBase) Enabled(_ context.Context, level slog.Level) bool {
	return level >= b.opts.Level.Level()
}

func (b prettyBase) prefix() string {
	var buf bytes.Buffer

	for i, g := range b.groups {
		if i > 0 {
			buf.WriteByte('.')
		}

		buf.WriteString(g)
	}

	return buf.String()
}

func (b prettyBase) withAttrs(attrs []slog.Attr) prettyBase {
	next := b
	next.attrs = slices.Clone(b.attrs)

	flatten(b.prefix(), attrs, func(a slog.Attr) {
		next.attrs = append(next.attrs, a)
	})

	return next
}

func (b prettyBase) withGroup(name string) prettyBase {
	next := b
	if name != "" {
		next.groups = append(b.groups[:len(b.groups):len(b.groups)], name)
	}

	return next
}

// header collects the time, level, source and message of r, in that order.
func (b prettyBase) header(r slog.Record) []slog.Attr {
	out := make([]slog.Attr, 0, 4)

	if !r.Time.IsZero() {
		if ts := b.cfg.formatTime(r.Time); ts != "" {
			out = append(out, slog.String(slog.TimeKey, ts))
		}
	}

	out = append(out, slog.Any(slog.LevelKey, r.Level))

	if b.opts.AddSource {
		if src := r.Source(); src != nil {
			out = append(out, slog.String(slog.SourceKey,
				fmt.Sprintf("%s:%d", src.File, src.Line)))
		}
	}

	return append(out, slog.String(slog.MessageKey, r.Message))
}

// body collects the handler's preformatted attributes and those of r.
func (b prettyBase) body(r slog.Record) []slog.Attr {
	out := slices.Clone(b.attrs)

	prefix := b.prefix()

	r.Attrs(func(a slog.Attr) bool {
		flatten(prefix, []slog.Attr{a}, func(a slog.Attr) {
			out = append(out, a)
		})

		return true
	})

	return out
}

func (b prettyBase) write(buf *bytes.Buffer) error {
	buf.WriteByte('\n')

	b.mu.Lock()
	defer b.mu.Unlock()

	_, err := b.w.Write(buf.Bytes())

	return err
}

// prettyTextHandler implements a key=value text handler without quoting.
type prettyTextHandler struct{ prettyBase }

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	cfg config,
) *prettyTextHandler {
	return &prettyTextHandler{newPrettyBase(w, opts, cfg)}
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	for _, a := range h.header(r) {
		h.writeAttr(buf, a)
	}

	for _, a := range h.body(r) {
		h.writeAttr(buf, a)
	}

	return h.write(buf)
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{h.withAttrs(attrs)}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{h.withGroup(name)}
}

func (h *prettyTextHandler) writeAttr(buf *bytes.Buffer, a slog.Attr) {
	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}

	h.paint.paint(buf, colorGray, a.Key)
	buf.WriteByte('=')

	h.writeValue(buf, a.Value)
}

func (h *prettyTextHandler) writeValue(buf *bytes.Buffer, v slog.Value) {
	switch v.Kind() {
	case slog.KindString:
		h.paint.paint(buf, colorCyan, v.String())
	case slog.KindInt64:
		h.paint.paint(buf, colorYellow, strconv.FormatInt(v.Int64(), 10))
	case slog.KindUint64:
		h.paint.paint(buf, colorYellow, strconv.FormatUint(v.Uint64(), 10))
	case slog.KindFloat64:
		h.paint.paint(buf, colorYellow, strconv.FormatFloat(v.Float64(), 'g', -1, 64))
	case slog.KindBool:
		if v.Bool() {
			h.paint.paint(buf, colorGreen, "true")
		} else {
			h.paint.paint(buf, colorRed, "false")
		}
	case slog.KindDuration:
		h.paint.paint(buf, colorMagenta, v.Duration().String())
	case slog.KindTime:
		h.paint.paint(buf, colorBlue, v.Time().Format(time.RFC3339))
	case slog.KindAny:
		if level, ok := v.Any().(slog.Level); ok {
			h.paint.paint(buf, levelColor(level), levelLabel(level))

			return
		}

		h.paint.paint(buf, colorCyan, v.String())
	default:
		h.paint.paint(buf, colorCyan, v.String())
	}
}

// prettyJSONHandler implements a multiline, indented JSON-like handler.
type prettyJSONHandler struct{ prettyBase }

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	cfg config,
) *prettyJSONHandler {
	return &prettyJSONHandler{newPrettyBase(w, opts, cfg)}
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	buf.WriteString("{")

	first := true
	for _, a := range slices.Concat(h.header(r), h.body(r)) {
		h.writeField(buf, a, &first)
	}

	buf.WriteString("\n}")

	return h.write(buf)
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{h.withAttrs(attrs)}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return &prettyJSONHandler{h.withGroup(name)}
}

func (h *prettyJSONHandler) writeField(buf *bytes.Buffer, a slog.Attr, first *bool) {
	if !*first {
		buf.WriteByte(',')
	}

	*first = false

	buf.WriteString("\n  ")
	h.paint.paint(buf, colorGray, strconv.Quote(a.Key))
	buf.WriteString(": ")

	h.writeValue(buf, a.Value)
}

func (h *prettyJSONHandler) writeValue(buf *bytes.Buffer, v slog.Value) {
	switch v.Kind() {
	case slog.KindString:
		h.paint.paint(buf, colorCyan, strconv.Quote(v.String()))
	case slog.KindInt64:
		h.paint.paint(buf, colorYellow, strconv.FormatInt(v.Int64(), 10))
	case slog.KindUint64:
		h.paint.paint(buf, colorYellow, strconv.FormatUint(v.Uint64(), 10))
	case slog.KindFloat64:
		h.paint.paint(buf, colorYellow, strconv.FormatFloat(v.Float64(), 'g', -1, 64))
	case slog.KindBool:
		if v.Bool() {
			h.paint.paint(buf, colorGreen, "true")
		} else {
			h.paint.paint(buf, colorRed, "false")
		}
	case slog.KindDuration:
		h.paint.paint(buf, colorMagenta, strconv.Quote(v.Duration().String()))
	case slog.KindTime:
		h.paint.paint(buf, colorBlue, strconv.Quote(v.Time().Format(time.RFC3339)))
	case slog.KindAny:
		switch x := v.Any().(type) {
		case slog.Level:
			h.paint.paint(buf, levelColor(x), strconv.Quote(levelLabel(x)))
		case nil:
			h.paint.paint(buf, colorGray, "null")
		case error:
			h.paint.paint(buf, colorRed, strconv.Quote(x.Error()))
		default:
			h.paint.paint(buf, colorCyan, strconv.Quote(fmt.Sprint(x)))
		}
	default:
		h.paint.paint(buf, colorCyan, strconv.Quote(v.String()))
	}
}
