package lang

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/zeebo/xxh3"

	"github.com/ardnew/hugo/log"
)

type loggerKey struct{}

// WithContextLogger returns a copy of ctx carrying logger. Parsing and source
// loading use it when no [WithLogger] option is given.
func WithContextLogger(ctx context.Context, logger log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// loggerFrom returns the logger stored in ctx, or a zero Logger that discards
// everything.
func loggerFrom(ctx context.Context) log.Logger {
	if ctx == nil {
		return log.Logger{}
	}

	logger, _ := ctx.Value(loggerKey{}).(log.Logger)

	return logger
}

// sourceHash fingerprints source text for log correlation.
func sourceHash(text string) string {
	return strconv.FormatUint(xxh3.HashString(text), 16)
}

// fingerprint is source text logged as its hash. The hash is computed only
// when a handler resolves the value, so disabled records cost nothing.
type fingerprint string

func (f fingerprint) LogValue() slog.Value {
	return slog.StringValue(sourceHash(string(f)))
}
