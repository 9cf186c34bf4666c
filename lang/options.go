package lang

import (
	"context"

	"github.com/ardnew/hugo/log"
)

// Option configures a parse call.
type Option func(*options)

type options struct {
	memo   bool
	logger log.Logger
}

// makeOptions returns the defaults overridden by opts. The logger defaults to
// the one carried by ctx.
func makeOptions(ctx context.Context, opts ...Option) options {
	o := options{
		memo:   true,
		logger: loggerFrom(ctx),
	}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// WithMemo enables or disables memoisation of grammar rule results. It is
// enabled by default. Disabling it never changes the result of a parse, only
// how long the parse takes.
func WithMemo(enable bool) Option {
	return func(o *options) {
		o.memo = enable
	}
}

// WithLogger sets the logger used to trace parsing.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
