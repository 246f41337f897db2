package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha
const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorLavender lipgloss.Color = "#b4befe"
	colorRed      lipgloss.Color = "#f38ba8"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorSapphire lipgloss.Color = "#74c7ec"
	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
)

var (
	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(colorPink)
	styleHeader = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	styleMuted  = lipgloss.NewStyle().Foreground(colorSubtext0)
	styleURL    = lipgloss.NewStyle().Foreground(colorSapphire).Underline(true)
	styleCursor = lipgloss.NewStyle().Foreground(colorLavender)
	styleStatus = lipgloss.NewStyle().Foreground(colorGreen)
)
