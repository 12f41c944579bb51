// Package cli provides terminal styling and output helpers shared by the
// sphinx4 command line tools.
package cli

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme for terminal output.
type Theme struct {
	Primary lipgloss.Color // Main accent color
	Dim     lipgloss.Color // Dimmed/help text color
	Warn    lipgloss.Color // Warnings and destructive actions
}

// DefaultTheme is the default bright green theme.
var DefaultTheme = Theme{
	Primary: lipgloss.Color("#00ff9f"),
	Dim:     lipgloss.Color("#6e7681"),
	Warn:    lipgloss.Color("#ffb454"),
}

// Styles holds all styles derived from a theme.
type Styles struct {
	Title  lipgloss.Style
	Label  lipgloss.Style
	Value  lipgloss.Style
	Dim    lipgloss.Style
	Warn   lipgloss.Style
	Marker lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t Theme) Styles {
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Label:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Value:  lipgloss.NewStyle(),
		Dim:    lipgloss.NewStyle().Foreground(t.Dim),
		Warn:   lipgloss.NewStyle().Foreground(t.Warn),
		Marker: lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
	}
}
