package tui

import "github.com/charmbracelet/lipgloss"

const (
	colorMauve    lipgloss.Color = "#cba6f7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorText     lipgloss.Color = "#cdd6f4"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorSurface1 lipgloss.Color = "#45475a"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorMauve)
	userLabel      = lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
	assistantLabel = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	messageStyle   = lipgloss.NewStyle().Foreground(colorText)
	errorStyle     = lipgloss.NewStyle().Foreground(colorRed).Italic(true)
	hintStyle      = lipgloss.NewStyle().Foreground(colorOverlay1)
	inputStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(0, 1)
)
