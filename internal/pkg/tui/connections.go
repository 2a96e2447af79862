package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"

	"github.com/relaymon/relaymon/internal/pkg/tracker"
)

// connectionRows converts tracked connections into table rows.
func connectionRows(entries []tracker.ConnectionEntry, now time.Time) []table.Row {
	rows := make([]table.Row, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, table.Row{
			fmt.Sprintf("%s:%d", entry.LocalAddress, entry.LocalPort),
			fmt.Sprintf("%s:%d", entry.RemoteAddress, entry.RemotePort),
			entry.Protocol,
			connectionAge(entry, now),
		})
	}
	return rows
}

// connectionAge renders how long a connection has been tracked. Legacy
// connections predate the tracker, so their age is only a lower bound.
func connectionAge(entry tracker.ConnectionEntry, now time.Time) string {
	age := formatDuration(now.Sub(entry.FirstSeen))
	if entry.Legacy {
		return "+" + age
	}
	return age
}
