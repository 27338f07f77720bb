package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestLogger_Make_Defaults(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf)

	if logger.Level() != DefaultLevel {
		t.Errorf("Level() = %v, want %v", logger.Level(), DefaultLevel)
	}

	if logger.Format() != DefaultFormat {
		t.Errorf("Format() = %v, want %v", logger.Format(), DefaultFormat)
	}

	if logger.Output() != &buf {
		t.Error("Output() is not the configured writer")
	}
}

func TestLogger_Zero_Discards(t *testing.T) {
	var logger Logger

	// None of these may panic.
	logger.Trace("x")
	logger.InfoContext(t.Context(), "x")
	logger = logger.With(slog.String("k", "v"))

	if logger.Level() != DefaultLevel || logger.Output() != io.Discard {
		t.Error("zero logger reports non-default configuration")
	}

	wrapped := logger.Wrap(WithLevel(LevelDebug))
	if wrapped.Level() != LevelDebug {
		t.Errorf("Wrap on zero logger level = %v", wrapped.Level())
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name     string
		logFunc  func(Logger, string, ...slog.Attr)
		minLevel Level
		logged   bool
	}{
		{"trace at trace", Logger.Trace, LevelTrace, true},
		{"trace at debug", Logger.Trace, LevelDebug, false},
		{"debug at debug", Logger.Debug, LevelDebug, true},
		{"debug at info", Logger.Debug, LevelInfo, false},
		{"info at warn", Logger.Info, LevelWarn, false},
		{"warn at warn", Logger.Warn, LevelWarn, true},
		{"error at debug", Logger.Error, LevelDebug, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			tt.logFunc(Make(&buf, WithLevel(tt.minLevel)), "message")

			if logged := buf.Len() > 0; logged != tt.logged {
				t.Errorf("logged = %t, want %t (%q)", logged, tt.logged, buf.String())
			}
		})
	}
}

func TestLogger_JSON(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf,
		WithFormat(FormatJSON),
		WithPretty(false),
		WithLevel(LevelTrace),
	)
	logger.Trace("rendered", slog.String("path", "index.html"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}

	if record["msg"] != "rendered" || record["path"] != "index.html" {
		t.Errorf("record = %v", record)
	}

	if record["level"] != "TRACE" {
		t.Errorf("level = %v, want TRACE", record["level"])
	}
}

func TestLogger_Caller(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithCaller(true), WithPretty(false)).Warn("here")

	if !strings.Contains(buf.String(), "log_test.go") {
		t.Errorf("caller not reported: %s", buf.String())
	}

	buf.Reset()
	Make(&buf, WithCaller(false), WithPretty(false)).Warn("here")

	if strings.Contains(buf.String(), "source") {
		t.Errorf("caller reported when disabled: %s", buf.String())
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer

	base := Make(&buf, WithFormat(FormatText), WithPretty(false))
	child := base.With(slog.String("component", "render"))

	child.Warn("first")
	base.Warn("second")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	if !strings.Contains(lines[0], "component=render") {
		t.Errorf("With attribute missing: %s", lines[0])
	}

	if strings.Contains(lines[1], "component") {
		t.Errorf("With modified the parent: %s", lines[1])
	}
}

func TestLogger_Wrap(t *testing.T) {
	var buf bytes.Buffer

	base := Make(&buf, WithLevel(LevelError))
	wrapped := base.Wrap(WithLevel(LevelDebug))

	if base.Level() != LevelError || wrapped.Level() != LevelDebug {
		t.Errorf("levels = %v, %v", base.Level(), wrapped.Level())
	}

	wrapped.Debug("visible")

	if !strings.Contains(buf.String(), "visible") {
		t.Error("wrapped logger does not share output")
	}
}

func TestLogger_Concurrent(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithPretty(false))

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Go(func() {
			logger.Warn("concurrent message", slog.Int("id", i))
		})
	}

	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 100 {
		t.Errorf("got %d log lines, want 100", len(lines))
	}
}

type valuer struct{}

func (valuer) LogValue() slog.Value {
	return slog.GroupValue(slog.String("kind", "TypeMismatch"), slog.Int("line", 3))
}

func TestPretty_ResolvesGroups(t *testing.T) {
	tests := []struct {
		format Format
		want   []string
	}{
		{FormatText, []string{"err.kind=TypeMismatch", "err.line=3", "level=WARN"}},
		{FormatJSON, []string{`"err.kind": "TypeMismatch"`, `"err.line": 3`, `"level": "WARN"`}},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			var buf bytes.Buffer

			logger := Make(&buf, WithFormat(tt.format), WithTimeLayout("none"))
			logger.Warn("failed", slog.Any("err", valuer{}))

			out := buf.String()
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}

			if strings.Contains(out, "\033[") {
				t.Errorf("colors written without WithColor:\n%q", out)
			}
		})
	}
}

func TestPretty_WithAttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithTimeLayout("none"))
	logger.Logger = logger.Logger.WithGroup("render").With("path", "a.html")
	logger.Warn("include", slog.Int("depth", 2))

	out := buf.String()
	for _, want := range []string{"render.path=a.html", "render.depth=2"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %s", want, out)
		}
	}
}

func TestPretty_TraceLabelAndColor(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithLevel(LevelTrace), WithColor(true))
	logger.Trace("cache hit", slog.Any("error", errors.New("boom")))

	out := buf.String()
	if !strings.Contains(out, "TRACE") || strings.Contains(out, "DEBUG-4") {
		t.Errorf("trace label wrong: %q", out)
	}

	if !strings.Contains(out, colorGray) {
		t.Errorf("colors missing with WithColor: %q", out)
	}
}
