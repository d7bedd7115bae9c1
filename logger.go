package vcached

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with vcached-specific helpers, giving every
// operation a consistent set of structured fields.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler. If handler is
// nil, it uses a text handler writing to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	}

	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that writes JSON-formatted logs to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))}
}

// NewTextLogger creates a Logger that writes human-readable text logs to
// stderr.
func NewTextLogger(level slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.Level(1000)}))}
}

// WithID returns a logger with an encoded vector ID field attached.
func (l *Logger) WithID(id int32) *Logger {
	return &Logger{Logger: l.Logger.With("id", id)}
}

// LogOpen logs a table/database open.
func (l *Logger) LogOpen(ctx context.Context, name string, dims int, mode string, replayed, skipped int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "open failed", "database", name, "dims", dims, "mode", mode, "error", err)
		return
	}

	l.InfoContext(ctx, "open completed", "database", name, "dims", dims, "mode", mode,
		"records_replayed", replayed, "records_skipped", skipped, "simd", simdCapability())
}

// LogInsert logs an insert operation.
func (l *Logger) LogInsert(ctx context.Context, id int32, dimension int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "insert failed", "dimension", dimension, "error", err)
		return
	}

	l.DebugContext(ctx, "insert completed", "id", id, "dimension", dimension)
}

// LogSearch logs a search or search_n operation.
func (l *Logger) LogSearch(ctx context.Context, n, resultsFound int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "search failed", "n", n, "error", err)
		return
	}

	l.DebugContext(ctx, "search completed", "n", n, "results", resultsFound)
}

// LogDelete logs a delete operation.
func (l *Logger) LogDelete(ctx context.Context, id int32, err error) {
	if err != nil {
		l.ErrorContext(ctx, "delete failed", "id", id, "error", err)
		return
	}

	l.DebugContext(ctx, "delete completed", "id", id)
}

// LogClose logs a table/database close.
func (l *Logger) LogClose(ctx context.Context, name string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "close failed", "database", name, "error", err)
		return
	}

	l.InfoContext(ctx, "close completed", "database", name)
}
