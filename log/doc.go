// Package log provides a concurrency-safe structured logging interface based
// on [log/slog], with an additional Trace level below Debug.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("program loaded", slog.Int("funcs", 3))
//
// # Configuration
//
// Loggers are configured at creation with functional options and are
// immutable afterwards. [Logger.Wrap] derives a reconfigured copy:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("kitchen"),
//		log.WithCaller(true))
//
// # Package Logger
//
// The package-level functions write through a default logger on standard
// error. [Config] reconfigures it and [Default] returns it for passing to
// other packages.
//
// # Output Formats
//
// [FormatText] (default) writes key=value records, colorized when
// [WithPretty] is enabled and the output is a terminal. [FormatJSON] writes
// one JSON object per record.
package log
