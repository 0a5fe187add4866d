package tui

import "github.com/charmbracelet/lipgloss"

// Color Palette
// This is the single source of truth for all TUI colors.
var (
	salmonPink  = lipgloss.Color("#FFB3BA") // primary accent
	coralPink   = lipgloss.Color("#FFCCCB") // secondary accent
	mintGreen   = lipgloss.Color("#A8E6CF") // success and generated tabs
	mutedGray   = lipgloss.Color("#6B7280") // secondary text, disabled controls
	brightWhite = lipgloss.Color("#F9FAFB") // primary text
	deepSlate   = lipgloss.Color("#1F2937") // active tab background
)

// Common Styles
var (
	activeTabStyle = lipgloss.NewStyle().
			Foreground(brightWhite).
			Background(deepSlate).
			Bold(true).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(mutedGray).
				Padding(0, 1)

	generatedMarkStyle = lipgloss.NewStyle().
				Foreground(mintGreen)

	navEnabledStyle = lipgloss.NewStyle().
			Foreground(coralPink).
			Bold(true)

	navDisabledStyle = lipgloss.NewStyle().
				Foreground(mutedGray)

	modeStyle = lipgloss.NewStyle().
			Foreground(salmonPink).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(brightWhite).
			Padding(0, 1)

	tipsStyle = lipgloss.NewStyle().
			Foreground(mutedGray)

	errorStyle = lipgloss.NewStyle().
			Foreground(salmonPink)

	inputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(salmonPink).
			Padding(0, 1)

	disabledInputBoxStyle = inputBoxStyle.
				BorderForeground(mutedGray)

	toastStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mintGreen).
			Padding(0, 1)

	sourceBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(coralPink).
			Padding(0, 1)

	sourceTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(salmonPink)

	sourceHelpStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			Italic(true)
)
