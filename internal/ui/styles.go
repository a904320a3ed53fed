package ui

import "github.com/charmbracelet/lipgloss"

// Palette and shared styles for all views.
var (
	colorDoFirst   = lipgloss.Color("9")   // red
	colorSchedule  = lipgloss.Color("12")  // blue
	colorDelegate  = lipgloss.Color("11")  // yellow
	colorEliminate = lipgloss.Color("8")   // grey
	colorBacklog   = lipgloss.Color("13")  // magenta
	colorSubtle    = lipgloss.Color("240")
	colorHighlight = lipgloss.Color("236")
	colorDanger    = lipgloss.Color("9")

	titleStyle = lipgloss.NewStyle().Bold(true)

	subtleStyle = lipgloss.NewStyle().Foreground(colorSubtle)

	doneStyle = lipgloss.NewStyle().Foreground(colorSubtle).Strikethrough(true)

	selectedStyle = lipgloss.NewStyle().Background(colorHighlight)

	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	errorStyle = lipgloss.NewStyle().Foreground(colorDanger)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle)

	modalStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			Padding(1, 2)

	toastStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorBacklog).
			Padding(0, 1)
)

func quadrantColor(index int) lipgloss.Color {
	switch index {
	case 0:
		return colorDoFirst
	case 1:
		return colorSchedule
	case 2:
		return colorDelegate
	default:
		return colorEliminate
	}
}
