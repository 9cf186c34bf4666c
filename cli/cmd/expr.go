package cmd

import (
	"context"
	"io"
	"strings"

	"github.com/ardnew/hugo/lang"
)

// Expr parses a single expression given on the command line and prints its
// tree.
type Expr struct {
	Text []string `arg:"" help:"Expression text. Multiple arguments are joined by spaces." name:"text" passthrough:""`
}

// Run executes the expr command.
func (e *Expr) Run(ctx context.Context) error {
	src := lang.NewSource("<expr>", strings.Join(e.Text, " "))
	out := outputFrom(ctx)

	x, diags := lang.ParseExpr(ctx, src, parseOptions(ctx)...)
	if len(diags) > 0 {
		if err := renderTo(ctx, out, src, diags); err != nil {
			return err
		}

		return parseError(src, diags)
	}

	_, err := io.WriteString(out, lang.Tree(x)+"\n")

	return err
}
