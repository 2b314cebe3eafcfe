package featquant

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"

	"github.com/hupe1980/featquant/group"
)

// Logger wraps slog.Logger with featquant-specific context.
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
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithModel adds the model identifier (the artifact prefix) to the logger.
func (l *Logger) WithModel(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("model", id),
	}
}

// WithRows adds a row count field to the logger.
func (l *Logger) WithRows(rows int) *Logger {
	return &Logger{
		Logger: l.Logger.With("rows", rows),
	}
}

// LogFit logs a fit. Per-group column counts and per-column missing value
// counts are logged at debug level.
func (l *Logger) LogFit(ctx context.Context, rows, cols int, perGroup map[group.Group]int, missing map[string]uint64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "fit failed",
			"rows", rows,
			"columns", cols,
			"error", err,
		)
		return
	}
	for _, g := range group.All {
		if n := perGroup[g]; n > 0 {
			l.DebugContext(ctx, "group assigned",
				"group", g.String(),
				"columns", n,
			)
		}
	}
	for _, name := range slices.Sorted(maps.Keys(missing)) {
		l.DebugContext(ctx, "missing values imputed",
			"column", name,
			"count", missing[name],
		)
	}
	l.InfoContext(ctx, "fit completed",
		"rows", rows,
		"columns", cols,
	)
}

// LogTransform logs a transform.
func (l *Logger) LogTransform(ctx context.Context, rows int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "transform failed",
			"rows", rows,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "transform completed",
			"rows", rows,
		)
	}
}

// LogSave logs a save.
func (l *Logger) LogSave(ctx context.Context, prefix string, bytes int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "save failed",
			"prefix", prefix,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "pipeline saved",
			"prefix", prefix,
			"bytes", bytes,
		)
	}
}

// LogLoad logs a load.
func (l *Logger) LogLoad(ctx context.Context, prefix string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"prefix", prefix,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "pipeline loaded",
			"prefix", prefix,
		)
	}
}
