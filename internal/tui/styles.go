package tui

import "github.com/charmbracelet/lipgloss"

var (
	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(lipgloss.Color("236")).
			Padding(0, 1).
			Bold(true)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 1)

	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	missStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	weekendStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
	cursorStyle  = lipgloss.NewStyle().Reverse(true)
	headerStyle  = lipgloss.NewStyle().Bold(true)

	docStyle = lipgloss.NewStyle().Padding(1, 2)
)

const (
	doneCell = "■"
	missCell = "·"
)
