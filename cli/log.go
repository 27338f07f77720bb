package cli

import (
	"context"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-isatty"

	"github.com/ardnew/platelet/log"
)

// logFormat configures the logger format as a side effect of parsing via
// encoding.TextUnmarshaler.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
// Kong calls it while parsing --log-format, early enough to affect error
// messages reported during parsing.
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logLevel configures the logger level as a side effect of parsing via
// encoding.TextUnmarshaler.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

// logColor selects when pretty output is colorized: always, never, or auto
// when stderr is a terminal and NO_COLOR is unset.
type logColor string

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *logColor) UnmarshalText(text []byte) error {
	*c = logColor(text)
	log.Config(log.WithColor(c.enabled()))

	return nil
}

func (c logColor) enabled() bool {
	switch strings.ToLower(string(c)) {
	case "always":
		return true
	case "never":
		return false
	}

	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}

	fd := os.Stderr.Fd()

	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

type logConfig struct {
	Level      logLevel  `default:"${logLevelDefault}" enum:"${logLevelEnum}"  help:"Set log level."`
	Format     logFormat `default:"text"               enum:"${logFormatEnum}" help:"Set log format."`
	TimeLayout string    `default:"RFC3339"                                    help:"Set timestamp format."`
	Caller     bool      `default:"false"                                      help:"Include caller information."       negatable:""`
	Pretty     bool      `default:"true"                                       help:"Enable pretty printing."           negatable:""`
	Color      logColor  `default:"auto"               enum:"auto,always,never" help:"Colorize pretty output."`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevelDefault": log.DefaultLevel.String(),
		"logLevelEnum":    strings.Join(slices.Collect(log.Levels()), ","),
		"logFormatEnum":   strings.Join(slices.Collect(log.Formats()), ","),
	}
}

func (*logConfig) group() kong.Group {
	var group kong.Group

	group.Key = "log"
	group.Title = "Logging options"

	return group
}

// start applies the complete parsed configuration, including the options
// that have no TextUnmarshaler of their own.
func (f *logConfig) start(ctx context.Context) {
	log.Config(
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
		log.WithColor(f.Color.enabled()),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
		slog.String("color", string(f.Color)),
	)
}

// scan performs an early pass over command-line arguments to apply logger
// configuration before Kong begins parsing, so that the logger is
// configured regardless of flag position. Boolean flags never pass through
// a TextUnmarshaler, so this is the only early hook they get.
func (f *logConfig) scan(args []string) {
	for i := 0; i < len(args); i++ {
		if args[i] == "--" {
			return
		}

		name, value, assigned := strings.Cut(args[i], "=")

		var negated bool

		if rest, ok := strings.CutPrefix(name, "--no-log-"); ok {
			name, negated = rest, true
		} else if rest, ok := strings.CutPrefix(name, "--log-"); ok {
			name = rest
		} else {
			continue
		}

		switch name {
		case "level", "format", "color":
			if negated {
				continue
			}

			// Non-boolean flag: consume next arg as value if not assigned.
			if !assigned && i+1 < len(args) && args[i+1] != "" &&
				args[i+1][0] != '-' {
				value = args[i+1]
				i++
			}

			f.setValue(name, value)

		case "caller", "pretty":
			enable := true

			if assigned {
				v, err := strconv.ParseBool(value)
				if err != nil {
					continue
				}

				enable = v
			}

			f.setBool(name, enable != negated)
		}
	}
}

func (f *logConfig) setValue(name, value string) {
	text := []byte(value)

	switch name {
	case "level":
		_ = f.Level.UnmarshalText(text)
	case "format":
		_ = f.Format.UnmarshalText(text)
	case "color":
		_ = f.Color.UnmarshalText(text)
	}
}

func (f *logConfig) setBool(name string, enable bool) {
	switch name {
	case "caller":
		f.Caller = enable
		log.Config(log.WithCaller(enable))
	case "pretty":
		f.Pretty = enable
		log.Config(log.WithPretty(enable))
	}
}
