package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ardnew/hugo/lang"
	"github.com/ardnew/hugo/log"
)

// Run parses a source, reports its diagnostics and, when it parsed, runs the
// compilation stages over it. A source that fails to parse is not an error of
// the command.
type Run struct {
	Source string `arg:"" default:"${source}" help:"Source input file or '-' for stdin." name:"source" optional:""`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) error {
	src, err := openSource(ctx, r.Source)
	if err != nil {
		return err
	}

	out := outputFrom(ctx)

	ir, diags, err := parseAndReport(ctx, out, src)
	if err != nil {
		return err
	}

	if ir == nil {
		log.DebugContext(ctx, "parse failed",
			slog.String("source", src.Name()),
			slog.Int("diagnostics", len(diags)),
		)

		_, err := fmt.Fprintln(out, "Fatal Error, Cannot Continue")

		return err
	}

	if _, err := io.WriteString(out, "continuing compilation with: "); err != nil {
		return err
	}

	if err := ir.FormatTree(out); err != nil {
		return err
	}

	_, err = lang.Pipeline(ctx, ir, out, lang.Optimise, lang.Interpret)

	return err
}
