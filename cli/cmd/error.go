package cmd

import "github.com/ardnew/hugo/lang"

// Command errors. They share the structured error type of package lang.
var (
	ErrOpenSource = lang.NewError("open source")
	ErrRender     = lang.NewError("render diagnostics")
	ErrTerminal   = lang.NewError("interactive session")
)
