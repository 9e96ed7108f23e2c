package ui

import "github.com/charmbracelet/lipgloss"

// Color palette
// - Default (white/black): Primary text
// - Accent (soft blue #7AA2F7): Paths, new names, highlights
// - Muted (gray): Secondary info, line numbers, hints
// - Status is conveyed by unicode symbols, not color

const accentHex = "#7AA2F7"

var (
	// Accent style for file paths and chosen names
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(accentHex))

	// Muted style for secondary info, hints, line numbers
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	// Bold style for emphasis
	Bold = lipgloss.NewStyle().Bold(true)
)

// AccentColor exposes the accent hex for the markdown renderer.
func AccentColor() string { return accentHex }
