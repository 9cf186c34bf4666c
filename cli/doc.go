// Package cli contains the command line interface for hugo.
//
// # Usage
//
//	hugo [flags] [source]             parse source (default test.hl) and run it
//	hugo check [-q] [source]          report diagnostics, fail if there are any
//	hugo fmt [native|json|yaml|tree]  print the declarations of a source
//	hugo expr <text>...               print the tree of one expression
//	hugo repl [source]                start an interactive session
//
// A source of "-" reads stdin.
//
// # Configuration
//
// Flag values are read from files in the configuration directory
// (~/.config/hugo on Linux) named config.json, config.toml and config.hl.
// Flags given on the command line take precedence. The .hl file is written
// in the hugo language itself, one declaration per flag:
//
//	loglevel "debug"
//	color never
//	memo true
//
// TOML tables are joined to their keys with hyphens, so [log] level = "debug"
// sets --log-level.
//
// # Logging Options
//
//   - --log-level: minimum level (trace, debug, info, warn, error)
//   - --log-format: output format (text, json)
//   - --log-time-layout: timestamp layout, a Go layout or a time package
//     constant name such as RFC3339 or Kitchen
//   - --log-caller: include the caller of each message
//   - --log-pretty: colorize output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o hugo .
//
// It adds --pprof-mode (cpu, heap, allocs, ...) and --pprof-dir, which
// defaults to ~/.cache/hugo/pprof.
package cli
