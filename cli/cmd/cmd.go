package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/hugo/lang"
	"github.com/ardnew/hugo/report"
)

// Color modes of rendered diagnostics.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// stdinSource names the input carried by the context.
const stdinSource = "-"

// Settings are the global options shared by every command.
type Settings struct {
	Memo  bool
	Color string
}

// DefaultSettings are used when a context carries none.
var DefaultSettings = Settings{Memo: true, Color: ColorAuto}

type (
	settingsKey struct{}
	inputKey    struct{}
	outputKey   struct{}
)

// WithSettings returns a copy of ctx carrying s.
func WithSettings(ctx context.Context, s Settings) context.Context {
	return context.WithValue(ctx, settingsKey{}, s)
}

func settingsFrom(ctx context.Context) Settings {
	if s, ok := ctx.Value(settingsKey{}).(Settings); ok {
		return s
	}

	return DefaultSettings
}

// WithInput returns a copy of ctx whose "-" source reads from r.
func WithInput(ctx context.Context, r io.Reader) context.Context {
	return context.WithValue(ctx, inputKey{}, r)
}

func inputFrom(ctx context.Context) io.Reader {
	if r, ok := ctx.Value(inputKey{}).(io.Reader); ok && r != nil {
		return r
	}

	return os.Stdin
}

// WithOutput returns a copy of ctx whose commands write to w.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

func outputFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}

	return os.Stdout
}

// openSource reads the source at path.
func openSource(ctx context.Context, path string) (*lang.Source, error) {
	if path == stdinSource || path == "" {
		return lang.ReadSource(ctx, inputFrom(ctx), "<stdin>")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, ErrOpenSource.Wrap(err).With(slog.String("path", path))
	}
	defer file.Close()

	return lang.ReadSource(ctx, file, path)
}

// parseOptions returns the parse options selected by the settings in ctx.
func parseOptions(ctx context.Context) []lang.Option {
	return []lang.Option{lang.WithMemo(settingsFrom(ctx).Memo)}
}

// reportOptions returns the report options selected by the settings in ctx.
func reportOptions(ctx context.Context) []report.Option {
	switch settingsFrom(ctx).Color {
	case ColorAlways:
		return []report.Option{report.WithColor(true)}
	case ColorNever:
		return []report.Option{report.WithColor(false)}
	default:
		return nil
	}
}

// parseAndReport parses src and renders any diagnostics to w.
func parseAndReport(ctx context.Context, w io.Writer, src *lang.Source) (*lang.IR, lang.Diagnostics, error) {
	ir, diags := lang.Parse(ctx, src, parseOptions(ctx)...)
	if len(diags) == 0 {
		return ir, nil, nil
	}

	return ir, diags, renderTo(ctx, w, src, diags)
}

// renderTo writes diags to w using the color settings in ctx.
func renderTo(ctx context.Context, w io.Writer, src *lang.Source, diags lang.Diagnostics) error {
	if err := report.Render(w, src, diags, reportOptions(ctx)...); err != nil {
		return ErrRender.Wrap(err)
	}

	return nil
}

// parseError is the error returned by commands that require a valid source.
func parseError(src *lang.Source, diags lang.Diagnostics) error {
	return lang.ErrParse.Wrap(diags).With(
		slog.String("source", src.Name()),
		slog.Int("diagnostics", len(diags)),
	)
}
