package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("24"))

	resourceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114"))

	borderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("250"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	focusedTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("81"))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	sparkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	logDebugStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	logInfoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	logWarnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	logErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Bold(true).
		Foreground(lipgloss.Color("250")).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))
	return styles
}
