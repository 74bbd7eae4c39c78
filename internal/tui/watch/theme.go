// Package watch implements the usergate delivery watch TUI: a live view of
// webhook deliveries as the service processes them.
package watch

import "github.com/charmbracelet/lipgloss"

// Theme centralizes all styling for the watch TUI.
type Theme struct {
	// Outcome colors
	Synced  lipgloss.Style
	Deleted lipgloss.Style
	Ignored lipgloss.Style

	// UI elements
	Border lipgloss.Style
	Title  lipgloss.Style
	Dim    lipgloss.Style
	Err    lipgloss.Style
}

func NewDefaultTheme() Theme {
	return Theme{
		Synced:  lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")),
		Deleted: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")),
		Ignored: lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")),

		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#874BFD")),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Padding(0, 1),
		Dim: lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")),
		Err: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")),
	}
}
