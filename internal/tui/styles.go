package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary   = lipgloss.Color("12")  // bright blue
	colorSecondary = lipgloss.Color("10")  // bright green
	colorDim       = lipgloss.Color("240") // gray
	colorHighlight = lipgloss.Color("11")  // bright yellow
	colorBorder    = lipgloss.Color("238") // dark gray

	styleInput       = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	styleInputPrompt = styleInput

	styleListSelected = lipgloss.NewStyle().Foreground(colorHighlight).Bold(true)
	styleScenario     = lipgloss.NewStyle().Foreground(colorPrimary).Width(16)
	styleCost         = lipgloss.NewStyle().Foreground(colorSecondary)

	stylePanelBorder  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorBorder)
	styleActiveBorder = stylePanelBorder.BorderForeground(colorPrimary)

	styleStatusBar = lipgloss.NewStyle().Foreground(colorDim).Padding(0, 1)
)
