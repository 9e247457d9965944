package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/slumber/internal/sleep"
)

// Color constants for the slumber TUI theme
const (
	// Base Colors
	ColorCardBackground = "#0F1630" // Night blue
	ColorBorder         = "#2E3A5C" // Slate

	// Text Colors
	ColorPrimaryText   = "#E6EAF2"
	ColorSecondaryText = "#A9B4CC" // Moonlit grey
	ColorDisabledText  = "#5F6B85"
	ColorHelpText      = "240"

	// Accent Colors (Indigo theme)
	ColorAccentMain   = "#5B6CFF"
	ColorAccentBright = "#A5B4FC"

	// State Colors
	ColorError   = "#EF4444"
	ColorSuccess = "#22C55E"
	ColorWarning = "#F59E0B"

	// Chart
	ColorInBedBar  = "#2E3A5C"
	ColorAsleepBar = "#818CF8"
)

// stateColor picks the accent for a tracker state
func stateColor(s sleep.State) lipgloss.Color {
	switch s {
	case sleep.InBed:
		return lipgloss.Color(ColorWarning)
	case sleep.Asleep:
		return lipgloss.Color(ColorAccentBright)
	case sleep.AwakeInBed:
		return lipgloss.Color(ColorAccentMain)
	default:
		return lipgloss.Color(ColorDisabledText)
	}
}

// gradeColor colors an efficiency grade
func gradeColor(grade string) lipgloss.Color {
	switch grade {
	case "good":
		return lipgloss.Color(ColorSuccess)
	case "fair":
		return lipgloss.Color(ColorWarning)
	default:
		return lipgloss.Color(ColorError)
	}
}
