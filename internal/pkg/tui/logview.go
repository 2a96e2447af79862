package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/relaymon/relaymon/internal/pkg/logger"
)

// renderLogEntries formats buffered log records for the log panel, oldest
// first so the viewport scrolls naturally.
func renderLogEntries(entries []logger.Entry) string {
	if len(entries) == 0 {
		return "no log entries yet"
	}

	var b strings.Builder
	for i, entry := range entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(renderLogEntry(entry))
	}
	return b.String()
}

func renderLogEntry(entry logger.Entry) string {
	line := fmt.Sprintf("%s %-5s %s", entry.Time.Format("15:04:05"), entry.Level.String(), entry.Message)
	if entry.Attrs != "" {
		line += " " + entry.Attrs
	}

	switch {
	case entry.Level >= slog.LevelError:
		return logErrorStyle.Render(line)
	case entry.Level >= slog.LevelWarn:
		return logWarnStyle.Render(line)
	case entry.Level <= slog.LevelDebug:
		return logDebugStyle.Render(line)
	default:
		return logInfoStyle.Render(line)
	}
}
