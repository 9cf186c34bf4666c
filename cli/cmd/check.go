package cmd

import (
	"context"
	"fmt"
)

// Check parses a source and fails when it has diagnostics.
type Check struct {
	Quiet bool `help:"Do not report a successful parse." short:"q"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source"`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) error {
	src, err := openSource(ctx, c.Source)
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

	if c.Quiet {
		return nil
	}

	_, err = fmt.Fprintf(out, "%s: %d declarations\n", src.Name(), ir.Len())

	return err
}
