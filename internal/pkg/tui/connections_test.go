package tui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaymon/relaymon/internal/pkg/conns"
	"github.com/relaymon/relaymon/internal/pkg/tracker"
)

func TestConnectionRows(t *testing.T) {
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)

	entries := []tracker.ConnectionEntry{
		{
			Connection: conns.Connection{
				Protocol:      "tcp",
				LocalAddress:  "127.0.0.1",
				LocalPort:     9051,
				RemoteAddress: "127.0.0.1",
				RemotePort:    37277,
			},
			FirstSeen: now.Add(-90 * time.Second),
		},
		{
			Connection: conns.Connection{
				Protocol:      "tcp",
				LocalAddress:  "10.0.0.2",
				LocalPort:     443,
				RemoteAddress: "10.0.0.9",
				RemotePort:    51849,
			},
			FirstSeen: now.Add(-time.Hour),
			Legacy:    true,
		},
	}

	rows := connectionRows(entries, now)
	require.Len(t, rows, 2)

	assert.Equal(t, "127.0.0.1:9051", rows[0][0])
	assert.Equal(t, "127.0.0.1:37277", rows[0][1])
	assert.Equal(t, "tcp", rows[0][2])
	assert.Equal(t, "1m 30s", rows[0][3])

	// Legacy connections predate the tracker; their age is a lower bound.
	assert.Equal(t, "+1h 0m", rows[1][3])
}

func TestConnectionRowsEmpty(t *testing.T) {
	rows := connectionRows(nil, time.Now())
	assert.Empty(t, rows)
}
