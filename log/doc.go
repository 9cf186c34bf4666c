// Package log is a small leveled logger built on [log/slog].
//
// A [Logger] is an immutable value: [Make] builds one from functional options
// and [Logger.Wrap] derives a reconfigured copy. The zero Logger discards
// everything, which lets libraries accept a Logger without requiring one.
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("kitchen"))
//	logger.Info("parsed", slog.Int("declarations", 3))
//
// [LevelTrace] sits below [LevelDebug] and prints as TRACE. With
// [WithPretty] enabled, records are colorized through lipgloss, which falls
// back to plain text when the output is not a terminal.
//
// The package-level functions log through a default Logger writing to
// standard error; [Config] reconfigures it.
package log
