package log

import "io"

// Option applies a configuration option to config.
type Option func(config) config

// apply applies multiple options to a config.
func apply(cfg config, opts ...Option) config {
	for _, opt := range opts {
		cfg = opt(cfg)
	}

	return cfg
}

// WithDefaults resets every setting to its default and directs output to w,
// or discards it when w is nil.
func WithDefaults(w io.Writer) Option {
	return func(config) config {
		return WithOutput(w)(config{
			timeLayout: DefaultTimeLayout,
			level:      DefaultLevel,
			format:     DefaultFormat,
			caller:     DefaultCaller,
			pretty:     DefaultPretty,
		})
	}
}

// WithOutput directs log output to w, or discards it when w is nil.
func WithOutput(w io.Writer) Option {
	return func(c config) config {
		if w == nil {
			w = io.Discard
		}

		c.output = w

		return c
	}
}

// WithLevel sets the minimum level of records that are written.
func WithLevel(level Level) Option {
	return func(c config) config {
		c.level = level

		return c
	}
}

// WithFormat sets the record encoding.
func WithFormat(format Format) Option {
	return func(c config) config {
		c.format = format

		return c
	}
}

// WithTimeLayout sets the timestamp layout. It accepts the names of the
// layouts in package time (for example "RFC3339Nano" or "Kitchen") without
// regard to case, or a literal layout. An empty layout or "none" removes
// timestamps from the output.
func WithTimeLayout(layout string) Option {
	return func(c config) config {
		c.timeLayout = resolveLayout(layout)

		return c
	}
}

// WithCaller includes the source position of the logging call.
func WithCaller(enable bool) Option {
	return func(c config) config {
		c.caller = enable

		return c
	}
}

// WithPretty selects the colorized handlers.
func WithPretty(enable bool) Option {
	return func(c config) config {
		c.pretty = enable

		return c
	}
}
