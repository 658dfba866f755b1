package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dm/karma-go/internal/chart"
)

// Color constants.
var (
	colorGreen  = lipgloss.Color("#10b981")
	colorYellow = lipgloss.Color("#f59e0b")
	colorRed    = lipgloss.Color("#ef4444")
	colorGray   = lipgloss.Color("#6b7280")
	colorCyan   = lipgloss.Color("#06b6d4")
	colorPurple = lipgloss.Color("#8b5cf6")
	colorWhite  = lipgloss.Color("#f8fafc")
	colorDark   = lipgloss.Color("#1e293b")
)

// ChartTheme colors the plot to match the rest of the UI.
var ChartTheme = chart.Theme{
	Axis:    colorGray,
	Label:   lipgloss.Color("#cbd5e1"),
	Sample:  colorCyan,
	Failure: colorRed,
}

// StyleHeader is the full-width dark banner bar.
var StyleHeader = lipgloss.NewStyle().
	Background(colorDark).
	Foreground(colorWhite).
	Padding(0, 1)

// StylePanel frames the results panel.
var StylePanel = lipgloss.NewStyle().
	Foreground(colorWhite).
	Padding(0, 1)

// Chart status styles.
var (
	StyleStatusReady   = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	StyleStatusWaiting = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	StyleStatusFailed  = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
)

// Utility styles.
var (
	StyleError  = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	StyleDim    = lipgloss.NewStyle().Foreground(colorGray)
	StyleAccent = lipgloss.NewStyle().Foreground(colorPurple).Bold(true)
	StyleGreen  = lipgloss.NewStyle().Foreground(colorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(colorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(colorRed)
)

// DeviationStyle colors a per-set deviation from the target by how much of
// the tolerance it uses.
func DeviationStyle(deviation, tolerance float64) lipgloss.Style {
	if deviation < 0 {
		deviation = -deviation
	}
	switch {
	case tolerance <= 0 || deviation <= tolerance/2:
		return StyleGreen
	case deviation <= tolerance:
		return StyleYellow
	default:
		return StyleRed
	}
}
