package splatpress

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with splatpress-specific context.
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
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithPath adds a path field to the logger.
func (l *Logger) WithPath(path string) *Logger {
	return &Logger{
		Logger: l.Logger.With("path", path),
	}
}

// WithElement adds an element field to the logger.
func (l *Logger) WithElement(element string) *Logger {
	return &Logger{
		Logger: l.Logger.With("element", element),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogStage logs one finished pipeline stage.
func (l *Logger) LogStage(ctx context.Context, stage string, d time.Duration, points int) {
	l.DebugContext(ctx, "stage completed",
		"stage", stage,
		"elapsed", d,
		"points", points,
	)
}

// LogEncode logs an encode operation.
func (l *Logger) LogEncode(ctx context.Context, input string, points, duplicates int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "encode failed",
			"input", input,
			"error", err,
		)
		return
	}
	if duplicates > 0 {
		l.WarnContext(ctx, "encode completed with shared cells",
			"input", input,
			"points", points,
			"duplicates", duplicates,
		)
		return
	}
	l.InfoContext(ctx, "encode completed",
		"input", input,
		"points", points,
	)
}

// LogDecode logs a decode operation.
func (l *Logger) LogDecode(ctx context.Context, output string, points int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "decode failed",
			"output", output,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "decode completed",
			"output", output,
			"points", points,
		)
	}
}

// LogConvert logs a format conversion.
func (l *Logger) LogConvert(ctx context.Context, input, output string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "convert failed",
			"input", input,
			"output", output,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "convert completed",
			"input", input,
			"output", output,
		)
	}
}
