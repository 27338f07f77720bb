// Package log provides the structured logger used throughout platelet,
// a concurrency-safe wrapper around [log/slog].
//
// Loggers are configured at creation time with functional options. The
// zero [Logger] discards all output, so packages accept a Logger through
// their own options and log unconditionally.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr, log.WithLevel(log.LevelDebug))
//	logger.Info("rendered template", slog.String("path", "index.html"))
//
// # Levels
//
// Five levels are supported: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn] and [LevelError]. Trace sits below slog's Debug and is used
// for per-node render output and parse cache activity.
//
// # Output Formats
//
// [FormatText] (default) writes key=value pairs; [FormatJSON] writes one
// object per record. With [WithPretty] enabled, text values are unquoted
// and JSON records are indented over several lines; [WithColor] adds ANSI
// colors to pretty output. Values implementing [slog.LogValuer] are
// resolved and group attributes are flattened into dotted keys.
//
// # Package-Level Logger
//
// The package-level functions such as [Info] and [ErrorContext] write
// through a default logger on [os.Stderr], reconfigured with [Config] or
// replaced with [SetDefault].
package log
