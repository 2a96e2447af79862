package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	Initialize(&buf, slog.LevelDebug)
	Console().Clear()

	Info("tracker started", "interval", "1s")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "tracker started", record["msg"])
	assert.Equal(t, "INFO", record["level"])
	assert.Equal(t, "1s", record["interval"])
}

func TestInitializeLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Initialize(&buf, slog.LevelWarn)
	Console().Clear()

	Debug("noise")
	Info("also noise")
	Warn("kept")

	assert.NotContains(t, buf.String(), "noise")
	assert.Contains(t, buf.String(), "kept")

	entries := Console().Recent(10)
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0].Message)
}

func TestConsoleCapturesAttrs(t *testing.T) {
	Initialize(&bytes.Buffer{}, slog.LevelDebug)
	Console().Clear()

	Error("sampling failed", "source", "ps", "error", "exit status 1")

	entries := Console().Recent(1)
	require.Len(t, entries, 1)
	assert.Equal(t, slog.LevelError, entries[0].Level)
	assert.Equal(t, "source=ps error=exit status 1", entries[0].Attrs)
}

func TestWithCarriesAttrs(t *testing.T) {
	var buf bytes.Buffer
	Initialize(&buf, slog.LevelDebug)
	Console().Clear()

	With("component", "resource_tracker").Info("cycle complete")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "resource_tracker", record["component"])

	entries := Console().Recent(1)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Attrs, "component=resource_tracker")
}

func TestGetSelfInitializes(t *testing.T) {
	mu.Lock()
	defaultLogger = nil
	mu.Unlock()

	l := Get()
	require.NotNil(t, l)

	Console().Clear()
	Info("pre-init logging is safe")
	entries := Console().Recent(1)
	require.Len(t, entries, 1)
	assert.Equal(t, "pre-init logging is safe", entries[0].Message)
}

func TestConsoleBufferRing(t *testing.T) {
	buf := NewConsoleBuffer(3)

	for i := 1; i <= 5; i++ {
		buf.Add(Entry{Message: fmt.Sprintf("entry %d", i), Time: time.Now()})
	}

	assert.Equal(t, 3, buf.Count())

	entries := buf.Recent(3)
	require.Len(t, entries, 3)
	assert.Equal(t, "entry 3", entries[0].Message)
	assert.Equal(t, "entry 4", entries[1].Message)
	assert.Equal(t, "entry 5", entries[2].Message)
}

func TestConsoleBufferRecent(t *testing.T) {
	buf := NewConsoleBuffer(10)
	buf.Add(Entry{Message: "first"})
	buf.Add(Entry{Message: "second"})

	t.Run("fewer than asked", func(t *testing.T) {
		entries := buf.Recent(5)
		require.Len(t, entries, 2)
		assert.Equal(t, "first", entries[0].Message)
		assert.Equal(t, "second", entries[1].Message)
	})

	t.Run("subset is the newest", func(t *testing.T) {
		entries := buf.Recent(1)
		require.Len(t, entries, 1)
		assert.Equal(t, "second", entries[0].Message)
	})

	t.Run("nonpositive", func(t *testing.T) {
		assert.Nil(t, buf.Recent(0))
		assert.Nil(t, buf.Recent(-1))
	})
}

func TestConsoleBufferClear(t *testing.T) {
	buf := NewConsoleBuffer(4)
	buf.Add(Entry{Message: "stale"})
	buf.Clear()

	assert.Equal(t, 0, buf.Count())
	assert.Nil(t, buf.Recent(4))
}

func TestConsoleBufferDefaultCapacity(t *testing.T) {
	buf := NewConsoleBuffer(0)
	buf.Add(Entry{Message: "still works"})
	assert.Equal(t, 1, buf.Count())
}

func TestConsoleHandlerWithAttrs(t *testing.T) {
	buf := NewConsoleBuffer(4)
	handler := NewConsoleHandler(buf, slog.LevelInfo)

	l := slog.New(handler).With("relay", "Unnamed")
	l.Info("heartbeat", "pid", 2001)

	entries := buf.Recent(1)
	require.Len(t, entries, 1)
	assert.Equal(t, "relay=Unnamed pid=2001", entries[0].Attrs)
}

func TestConsoleHandlerEnabled(t *testing.T) {
	handler := NewConsoleHandler(NewConsoleBuffer(4), slog.LevelWarn)

	ctx := context.Background()
	assert.False(t, handler.Enabled(ctx, slog.LevelInfo))
	assert.True(t, handler.Enabled(ctx, slog.LevelWarn))
	assert.True(t, handler.Enabled(ctx, slog.LevelError))
}
