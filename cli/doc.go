// Package cli contains the command line interface for platelet.
//
// # Commands
//
//   - render (default): render a template file against a data context
//   - eval: evaluate one expression and print the result as JSON or YAML
//   - fmt: print the canonical, fully parenthesized form of an expression
//   - repl: interactive expression console with completion and history
//   - init: write the current global flags to the YAML configuration file
//   - version: print the program version
//
// Data contexts are JSON or YAML files given with --context (-c). Several
// files are merged in order; "-" reads stdin.
//
//	platelet -c site.yaml -c page.json templates/index.html
//	platelet eval -c site.yaml 'len(pages) > 0 ? pages[0].title : "none"'
//
// # Configuration
//
// Flags are also read from config.yaml and config.json in the user
// configuration directory. YAML keys may use hyphens or underscores:
//
//	log-level: debug
//	log_pretty: false
//
// Command-line flags override config file values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Unquoted text values or indented JSON
//   - --log-color: Colorize pretty output (auto, always, never)
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o platelet .
//
// It adds --pprof-mode (-p) and --pprof-dir; profiles are written to the
// cache directory by default.
package cli
