package log

import (
	"slices"
	"strings"
	"testing"
	"time"
)

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelTrace, "trace"},
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
		{LevelInfo + 2, "info+2"},
		{LevelError + 4, "error+4"},
		{LevelTrace - 1, "trace-1"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.level.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{" TRACE ", LevelTrace},
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"info+2", LevelInfo + 2},
		{"bogus", DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLevels_RoundTrip(t *testing.T) {
	names := slices.Collect(Levels())
	if len(names) != 5 {
		t.Fatalf("Levels() = %v, want 5 names", names)
	}

	for _, name := range names {
		if got := ParseLevel(name).String(); got != name {
			t.Errorf("ParseLevel(%q).String() = %q", name, got)
		}
	}
}

func TestFormat_StringAndParse(t *testing.T) {
	for name := range Formats() {
		if got := ParseFormat(name).String(); got != name {
			t.Errorf("ParseFormat(%q).String() = %q", name, got)
		}
	}

	if got := ParseFormat("xml"); got != DefaultFormat {
		t.Errorf("ParseFormat(xml) = %v, want default", got)
	}
}

func TestConfig_Options(t *testing.T) {
	c := apply(config{},
		WithLevel(LevelDebug),
		WithFormat(FormatJSON),
		WithCaller(true),
		WithPretty(false),
		WithColor(true),
	)

	if c.level != LevelDebug {
		t.Errorf("level = %v, want debug", c.level)
	}

	if c.format != FormatJSON {
		t.Errorf("format = %v, want json", c.format)
	}

	if !c.caller || c.pretty || !c.color {
		t.Errorf("caller=%t pretty=%t color=%t", c.caller, c.pretty, c.color)
	}

	if c.mutex == nil {
		t.Error("options on zero config did not allocate mutex")
	}
}

func TestConfig_formatTime(t *testing.T) {
	now := time.Date(2023, 10, 15, 14, 30, 45, 123456789, time.UTC)

	tests := []struct {
		name   string
		layout string
		want   string
	}{
		{"rfc3339", "RFC3339", "2023-10-15T14:30:45Z"},
		{"rfc3339_nano", "RFC3339Nano", "2023-10-15T14:30:45.123456789Z"},
		{"kitchen", "kitchen", "2:30PM"},
		{"datetime", "DateTime", "2023-10-15 14:30:45"},
		{"custom", "2006/01/02", "2023/10/15"},
		{"none", "none", ""},
		{"empty", "", ""},
		{"whitespace", "   \t  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := WithTimeLayout(tt.layout)(config{})
			if got := c.formatTime(now); got != tt.want {
				t.Errorf("formatTime = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfig_clone_SeparatesMutex(t *testing.T) {
	c := makeConfig(nil)
	d := c.clone(WithLevel(LevelError))

	if c.mutex == d.mutex {
		t.Error("clone shares mutex")
	}

	if c.level == d.level {
		t.Error("clone option modified original")
	}

	if !strings.Contains(d.level.String(), "error") {
		t.Errorf("clone level = %v", d.level)
	}
}
