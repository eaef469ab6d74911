package tui

import "github.com/charmbracelet/lipgloss"

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("254")).
			Padding(0, 1)

	userLabelStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)

	bubbleStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)

	loaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	caretStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	listenStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	noticeStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("11")).
			Foreground(lipgloss.Color("11")).
			Padding(0, 2)
)
