package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/hugo/cli/cmd/repl"
	"github.com/ardnew/hugo/log"
)

// Repl starts an interactive session.
type Repl struct {
	History string `default:"${cache}/history.hl" help:"History file, empty to keep history in memory." type:"path"`

	Source string `arg:"" help:"Source whose declarations start the session." name:"source" optional:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	session := repl.NewSession(parseOptions(ctx)...)

	if r.Source != "" {
		src, err := openSource(ctx, r.Source)
		if err != nil {
			return err
		}

		if diags := session.Load(ctx, src); diags != nil {
			if err := renderTo(ctx, outputFrom(ctx), src, diags); err != nil {
				return err
			}

			return parseError(src, diags)
		}
	}

	err := repl.Run(ctx, session, repl.NewHistory(r.History), log.Default())
	if err != nil {
		return ErrTerminal.Wrap(err).With(slog.String("history", r.History))
	}

	return nil
}
