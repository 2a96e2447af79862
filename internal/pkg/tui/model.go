// Package tui renders the monitor: header with live resource usage, a CPU
// history sparkline, the relay's connection table, and the recent log. All
// data arrives through tracker snapshots and the log console buffer; the UI
// never samples anything itself.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/relaymon/relaymon/internal/pkg/logger"
	"github.com/relaymon/relaymon/internal/pkg/tracker"
)

// RelayInfo is the identity of the monitored relay, resolved once at startup.
type RelayInfo struct {
	Nickname       string
	Version        string
	ControlAddress string

	// StartedAt anchors the uptime display (now - StartedAt).
	StartedAt time.Time
}

// Deps are the collaborators the UI reads from.
type Deps struct {
	Relay       RelayInfo
	Resources   *tracker.ResourceTracker
	Connections *tracker.ConnectionTracker
	Console     *logger.ConsoleBuffer
}

// focus identifies which panel receives scroll keys.
type focus int

const (
	focusConnections focus = iota
	focusLog
)

// tickMsg drives the once-per-second UI refresh.
type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Model is the bubbletea model for the monitor screen.
type Model struct {
	deps Deps

	width  int
	height int
	ready  bool

	paused bool
	focus  focus

	resources    tracker.Resources
	usingProc    bool
	history      *SampleRing
	lastRecorded time.Time

	connTable table.Model
	logView   viewport.Model
}

// New builds the monitor model.
func New(deps Deps) Model {
	columns := []table.Column{
		{Title: "Local", Width: 24},
		{Title: "Remote", Width: 24},
		{Title: "Proto", Width: 6},
		{Title: "Age", Width: 10},
	}

	connTable := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(8),
	)
	connTable.SetStyles(tableStyles())

	return Model{
		deps:      deps,
		history:   NewSampleRing(120),
		connTable: connTable,
		logView:   viewport.New(80, 8),
	}
}

// Init starts the refresh ticker.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update handles resize, key, and tick messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "p":
			m.paused = !m.paused
			m.deps.Resources.SetPaused(m.paused)
			m.deps.Connections.SetPaused(m.paused)
			return m, nil

		case "r":
			m.deps.Resources.RunNow()
			m.deps.Connections.RunNow()
			return m, nil

		case "tab":
			if m.focus == focusConnections {
				m.focus = focusLog
			} else {
				m.focus = focusConnections
			}
			return m, nil
		}

		// Scroll keys go to the focused panel.
		var cmd tea.Cmd
		if m.focus == focusConnections {
			m.connTable, cmd = m.connTable.Update(msg)
		} else {
			m.logView, cmd = m.logView.Update(msg)
		}
		return m, cmd

	case tickMsg:
		m.refresh()
		return m, tickCmd()
	}

	return m, nil
}

// refresh pulls fresh snapshots from the trackers and log buffer.
func (m *Model) refresh() {
	m.resources = m.deps.Resources.Resources()
	m.usingProc = m.deps.Resources.UsingProcSource()
	m.recordSample(m.resources)

	m.connTable.SetRows(connectionRows(m.deps.Connections.Connections(), time.Now()))

	atBottom := m.logView.AtBottom()
	m.logView.SetContent(renderLogEntries(m.deps.Console.Recent(200)))
	if atBottom {
		m.logView.GotoBottom()
	}
}

// recordSample charts a snapshot's CPU sample. The UI ticks faster than the
// tracker may sample, so a snapshot is only recorded once: repeats of the
// same Timestamp are skipped.
func (m *Model) recordSample(res tracker.Resources) {
	if m.paused || res.Timestamp.IsZero() || res.Timestamp.Equal(m.lastRecorded) {
		return
	}
	m.history.Record(res.CPUSample)
	m.lastRecorded = res.Timestamp
}

// resize distributes the window between the panels.
func (m *Model) resize() {
	if m.width <= 0 || m.height <= 0 {
		return
	}

	// Header is 3 lines, the sparkline block 5, the footer 1. The
	// connection table and log view split what remains.
	body := m.height - headerHeight - sparklineHeight - footerHeight
	if body < 6 {
		body = 6
	}

	m.connTable.SetHeight(body / 2)
	m.connTable.SetWidth(m.width)
	m.logView.Width = m.width
	m.logView.Height = body - body/2
}
