package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestPackage_UsesDefaultLogger(t *testing.T) {
	original := Default()
	t.Cleanup(func() { SetDefault(original) })

	var buf bytes.Buffer

	SetDefault(Make(&buf, WithLevel(LevelTrace), WithFormat(FormatJSON), WithPretty(false)))

	tests := []struct {
		name  string
		fn    func(string, ...slog.Attr)
		level string
	}{
		{"Debug", Debug, "DEBUG"},
		{"Info", Info, "INFO"},
		{"Warn", Warn, "WARN"},
		{"Error", Error, "ERROR"},
		{"TraceContext", func(msg string, attrs ...slog.Attr) {
			TraceContext(t.Context(), msg, attrs...)
		}, "TRACE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn("message", slog.String("key", "value"))

			out := buf.String()
			if !strings.Contains(out, `"level":"`+tt.level+`"`) {
				t.Errorf("missing level %s: %s", tt.level, out)
			}

			if !strings.Contains(out, `"key":"value"`) {
				t.Errorf("missing attribute: %s", out)
			}
		})
	}
}

func TestPackage_Config(t *testing.T) {
	original := Default()
	t.Cleanup(func() { SetDefault(original) })

	var buf bytes.Buffer

	SetDefault(Make(&buf))
	Config(WithLevel(LevelError))

	Warn("dropped")
	Error("kept")
	With(slog.String("k", "v")).Error("child")

	out := buf.String()
	if strings.Contains(out, "dropped") || !strings.Contains(out, "kept") {
		t.Errorf("Config level not applied: %s", out)
	}

	if !strings.Contains(out, "k=v") {
		t.Errorf("With attribute missing: %s", out)
	}
}
