// Package logger provides structured logging for relaymon. Log records are
// written as JSON to a configurable destination (never the terminal, which
// the TUI owns) and mirrored into an in-memory ring buffer that backs the
// log panel.
package logger

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

var (
	mu            sync.RWMutex
	defaultLogger *slog.Logger
	console       = NewConsoleBuffer(512)
)

// Initialize sets up the structured logger writing JSON records to w.
// Records at or above level are also captured in the console buffer.
func Initialize(w io.Writer, level slog.Level) {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: false,
	})

	mu.Lock()
	defaultLogger = slog.New(newTeeHandler(handler, NewConsoleHandler(console, level)))
	mu.Unlock()
}

// Get returns the default structured logger, initializing a discard-backed
// logger if Initialize was never called. Logging before initialization is
// harmless: records still land in the console buffer.
func Get() *slog.Logger {
	mu.RLock()
	l := defaultLogger
	mu.RUnlock()

	if l != nil {
		return l
	}

	Initialize(io.Discard, slog.LevelInfo)

	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// Console returns the ring buffer of recent log entries.
func Console() *ConsoleBuffer {
	return console
}

// Debug logs a debug level message
func Debug(msg string, args ...any) {
	Get().Debug(msg, args...)
}

// Info logs an info level message
func Info(msg string, args ...any) {
	Get().Info(msg, args...)
}

// Warn logs a warning level message
func Warn(msg string, args ...any) {
	Get().Warn(msg, args...)
}

// Error logs an error level message
func Error(msg string, args ...any) {
	Get().Error(msg, args...)
}

// With returns a logger with the given attributes
func With(args ...any) *slog.Logger {
	return Get().With(args...)
}

// teeHandler forwards records to every wrapped handler.
type teeHandler struct {
	handlers []slog.Handler
}

func newTeeHandler(handlers ...slog.Handler) *teeHandler {
	return &teeHandler{handlers: handlers}
}

func (t *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t *teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range t.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (t *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		next[i] = h.WithAttrs(attrs)
	}
	return &teeHandler{handlers: next}
}

func (t *teeHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		next[i] = h.WithGroup(name)
	}
	return &teeHandler{handlers: next}
}
