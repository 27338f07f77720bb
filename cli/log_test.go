package cli

import (
	"testing"

	"github.com/ardnew/platelet/log"
)

func TestLogConfig_Scan(t *testing.T) {
	prev := log.Default()
	t.Cleanup(func() { log.SetDefault(prev) })

	tests := []struct {
		name       string
		args       []string
		wantLevel  logLevel
		wantFormat logFormat
		wantColor  logColor
		wantCaller bool
		wantPretty bool
	}{
		{
			name:       "none",
			args:       []string{"eval", "x"},
			wantPretty: true,
		},
		{
			name:       "assigned",
			args:       []string{"--log-level=debug", "--log-format=json", "--log-color=never"},
			wantLevel:  "debug",
			wantFormat: "json",
			wantColor:  "never",
			wantPretty: true,
		},
		{
			name:       "separate_values",
			args:       []string{"eval", "--log-level", "trace", "--log-format", "text", "x"},
			wantLevel:  "trace",
			wantFormat: "text",
			wantPretty: true,
		},
		{
			name:       "value_missing",
			args:       []string{"--log-level", "--log-caller"},
			wantCaller: true,
			wantPretty: true,
		},
		{
			name: "booleans",
			args: []string{"--log-caller", "--no-log-pretty"},
			// pretty disabled by negation
			wantCaller: true,
		},
		{
			name:       "assigned_booleans",
			args:       []string{"--log-caller=false", "--no-log-pretty=false"},
			wantPretty: true,
		},
		{
			name:       "invalid_boolean_ignored",
			args:       []string{"--log-caller=maybe"},
			wantPretty: true,
		},
		{
			name:       "stops_at_terminator",
			args:       []string{"--", "--log-level=error"},
			wantPretty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := logConfig{Pretty: true}
			f.scan(tt.args)

			if f.Level != tt.wantLevel || f.Format != tt.wantFormat ||
				f.Color != tt.wantColor {
				t.Errorf("scan(%q) = level %q, format %q, color %q",
					tt.args, f.Level, f.Format, f.Color)
			}

			if f.Caller != tt.wantCaller || f.Pretty != tt.wantPretty {
				t.Errorf("scan(%q) = caller %v, pretty %v",
					tt.args, f.Caller, f.Pretty)
			}
		})
	}
}

func TestLogColor_Enabled(t *testing.T) {
	if !logColor("always").enabled() {
		t.Error(`logColor("always").enabled() = false`)
	}

	if logColor("never").enabled() {
		t.Error(`logColor("never").enabled() = true`)
	}

	t.Setenv("NO_COLOR", "1")

	if logColor("auto").enabled() {
		t.Error(`logColor("auto").enabled() = true with NO_COLOR set`)
	}
}
