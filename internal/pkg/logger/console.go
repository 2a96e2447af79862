package logger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Entry is a single captured log record for the log panel.
type Entry struct {
	Time    time.Time
	Level   slog.Level
	Message string
	Attrs   string // formatted key=value pairs
}

// ConsoleBuffer is a fixed-capacity ring buffer of log entries.
type ConsoleBuffer struct {
	mu      sync.RWMutex
	entries []Entry
	size    int
	head    int // next write position
	count   int
}

// NewConsoleBuffer creates a ring buffer holding up to capacity entries.
func NewConsoleBuffer(capacity int) *ConsoleBuffer {
	if capacity <= 0 {
		capacity = 256
	}
	return &ConsoleBuffer{
		entries: make([]Entry, capacity),
		size:    capacity,
	}
}

// Add appends an entry, evicting the oldest when full.
func (b *ConsoleBuffer) Add(entry Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries[b.head] = entry
	b.head = (b.head + 1) % b.size
	if b.count < b.size {
		b.count++
	}
}

// Recent returns up to n entries in chronological order, oldest first.
func (b *ConsoleBuffer) Recent(n int) []Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if n > b.count {
		n = b.count
	}
	if n <= 0 {
		return nil
	}

	result := make([]Entry, n)
	for i := 0; i < n; i++ {
		// head points at the next write slot, so head-n is the first of
		// the n newest entries.
		idx := (b.head - n + i + b.size) % b.size
		result[i] = b.entries[idx]
	}
	return result
}

// Count returns the number of buffered entries.
func (b *ConsoleBuffer) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.count
}

// Clear empties the buffer.
func (b *ConsoleBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.head = 0
	b.count = 0
}

// ConsoleHandler is a slog handler that captures records into a ConsoleBuffer.
type ConsoleHandler struct {
	buffer *ConsoleBuffer
	level  slog.Level
	attrs  []slog.Attr
}

// NewConsoleHandler creates a handler capturing records at or above level.
func NewConsoleHandler(buffer *ConsoleBuffer, level slog.Level) *ConsoleHandler {
	return &ConsoleHandler{buffer: buffer, level: level}
}

func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	var attrs string
	appendAttr := func(a slog.Attr) {
		if attrs != "" {
			attrs += " "
		}
		attrs += fmt.Sprintf("%s=%v", a.Key, a.Value.Any())
	}

	for _, a := range h.attrs {
		appendAttr(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(a)
		return true
	})

	h.buffer.Add(Entry{
		Time:    r.Time,
		Level:   r.Level,
		Message: r.Message,
		Attrs:   attrs,
	})
	return nil
}

func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &next
}

func (h *ConsoleHandler) WithGroup(string) slog.Handler {
	// Groups are flattened for the log panel; the JSON handler keeps them.
	return h
}
