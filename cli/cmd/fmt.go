package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/hugo/lang"
)

// Output formats of the fmt command.
const (
	FormatNative = "native"
	FormatJSON   = "json"
	FormatYAML   = "yaml"
	FormatTree   = "tree"
)

// Fmt parses a source and prints its declarations in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as native hugo syntax (default)."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
	Tree   Tree   `cmd:""                    help:"Format as expression trees."`
}

// Native formats input as native hugo syntax.
type Native struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source"`
}

// Run executes the fmt native command.
func (n *Native) Run(ctx context.Context) error {
	return format(ctx, n.Source, FormatNative, 0)
}

// JSON formats input as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output, 0 for compact." short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source"`
}

// Run executes the fmt json command.
func (j *JSON) Run(ctx context.Context) error {
	return format(ctx, j.Source, FormatJSON, j.Indent)
}

// YAML formats input as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output, 0 for flow style." short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source"`
}

// Run executes the fmt yaml command.
func (y *YAML) Run(ctx context.Context) error {
	return format(ctx, y.Source, FormatYAML, y.Indent)
}

// Tree formats input as indented expression trees.
type Tree struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source"`
}

// Run executes the fmt tree command.
func (t *Tree) Run(ctx context.Context) error {
	return format(ctx, t.Source, FormatTree, 0)
}

// format parses the source at path and writes it in the named format.
// Diagnostics are rendered to the output before the parse error is returned.
func format(ctx context.Context, path, name string, indent int) error {
	src, err := openSource(ctx, path)
	if err != nil {
		return err
	}

	out := outputFrom(ctx)

	ir, diags, err := parseAndReport(ctx, out, src)
	if err != nil {
		return err
	}

	if ir == nil {
		return parseError(src, diags)
	}

	switch name {
	case FormatNative:
		return ir.Format(out)
	case FormatJSON:
		return ir.FormatJSON(ctx, out, indent)
	case FormatYAML:
		return ir.FormatYAML(ctx, out, indent)
	case FormatTree:
		return ir.FormatTree(out)
	default:
		return lang.ErrInvalidFormat.With(slog.String("format", name))
	}
}
