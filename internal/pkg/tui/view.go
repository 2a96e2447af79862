package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

const (
	headerHeight    = 3
	sparklineHeight = 5
	footerHeight    = 1
)

// View renders the whole monitor screen.
func (m Model) View() string {
	if !m.ready {
		return "starting relaymon..."
	}

	sections := []string{
		m.headerView(),
		m.sparklineView(),
		m.panelTitle("Connections", m.focus == focusConnections),
		m.connTable.View(),
		m.panelTitle("Log", m.focus == focusLog),
		m.logView.View(),
		m.footerView(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// headerView shows relay identity and the latest resource sample.
func (m Model) headerView() string {
	relay := m.deps.Relay

	title := fmt.Sprintf("relaymon — %s %s", relay.Nickname, relay.Version)
	if m.paused {
		title += "  [PAUSED]"
	}

	uptime := "up —"
	if !relay.StartedAt.IsZero() {
		uptime = "up " + formatDuration(time.Since(relay.StartedAt))
	}

	identity := fmt.Sprintf("%s  |  %s  |  control %s", title, uptime, relay.ControlAddress)

	res := "cpu —  mem —  (waiting for first sample)"
	if !m.resources.Timestamp.IsZero() {
		source := "ps"
		if m.usingProc {
			source = "proc"
		}
		res = fmt.Sprintf("cpu %.1f%% (avg %.1f%%)  mem %s (%.1f%%)  via %s",
			m.resources.CPUSample,
			m.resources.CPUAverage,
			humanize.IBytes(m.resources.MemoryBytes),
			m.resources.MemoryPercent*100,
			source)
	}

	line := strings.Repeat("─", max(m.width, 1))
	return headerStyle.Width(m.width).Render(identity) + "\n" +
		resourceStyle.Width(m.width).Render(res) + "\n" +
		borderStyle.Render(line)
}

// sparklineView renders recent CPU samples as a column chart.
func (m Model) sparklineView() string {
	label := fmt.Sprintf("CPU history (peak %.1f%%)", m.history.Peak())
	chart := renderSparkline(m.history.Values(), max(m.width, 10), sparklineHeight-1, m.history.Peak())
	return labelStyle.Render(label) + "\n" + chart
}

func (m Model) panelTitle(name string, focused bool) string {
	if focused {
		return focusedTitleStyle.Render("▸ " + name)
	}
	return titleStyle.Render("  " + name)
}

func (m Model) footerView() string {
	return footerStyle.Width(m.width).Render("q quit · p pause · r refresh · tab focus · ↑/↓ scroll")
}

// formatDuration renders durations the way uptimes read naturally, e.g.
// "3d 4h", "2h 12m", "45s".
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}
