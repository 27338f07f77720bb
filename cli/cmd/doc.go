// Package cmd implements the platelet subcommands: render, eval, fmt,
// repl, init and version.
//
// Commands that evaluate expressions share the [Data] flags, which select
// the data context: zero or more JSON or YAML files (or '-' for stdin)
// merged in order into one scope.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path
	// to the YAML configuration file.
	ConfigIdentifier = "config"
)
