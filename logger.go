package trackgo

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with trackgo-specific helpers.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// LogBuild logs a build operation.
func (l *Logger) LogBuild(observations, matches int, err error) {
	if err != nil {
		l.Error("build failed",
			"matches", matches,
			"error", err,
		)
	} else {
		l.Debug("build completed",
			"observations", observations,
			"matches", matches,
		)
	}
}

// LogFilter logs a filter pass.
func (l *Logger) LogFilter(minViewCount, removed, remaining int) {
	l.Debug("filter completed",
		"min_view_count", minViewCount,
		"removed", removed,
		"remaining", remaining,
	)
}

// LogExport logs a track export.
func (l *Logger) LogExport(tracks int, err error) {
	if err != nil {
		l.Error("export failed",
			"error", err,
		)
	} else {
		l.Info("export completed",
			"tracks", tracks,
		)
	}
}
