// Package repl is the interactive prompt of the repl command.
//
// A [Session] collects declarations across lines; each line is either
// declarations, a bare expression whose tree is printed, or a ':' command.
package repl
