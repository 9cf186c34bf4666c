// Package cmd implements the hugo subcommands.
//
// Every command reads one source, "-" meaning the input carried by the
// context (stdin unless [WithInput] replaced it), parses it with package lang
// and writes to the output carried by the context. Diagnostics are rendered
// with package report.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file without its extension.
	ConfigIdentifier = "config"

	// SourceIdentifier is the kong variable identifier containing the default
	// source of the run command.
	SourceIdentifier = "source"
)
