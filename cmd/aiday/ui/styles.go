// Package ui provides the visual styling for the aiday wizard.
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	ColorPrimary = lipgloss.Color("#2196F3") // Blue
	ColorAccent  = lipgloss.Color("#8BC34A") // Lime Green
	ColorError   = lipgloss.Color("#e53935") // Red
	ColorWarning = lipgloss.Color("#FFC107") // Yellow
	ColorMuted   = lipgloss.Color("#6c7a89")
	ColorText    = lipgloss.Color("#f2f2f2")
)

// Styles holds the styled components used by the wizard views.
type Styles struct {
	Title       lipgloss.Style
	PhaseBadge  lipgloss.Style
	Label       lipgloss.Style
	Hint        lipgloss.Style
	Error       lipgloss.Style
	Question    lipgloss.Style
	Card        lipgloss.Style
	CardFocused lipgloss.Style
	Accepted    lipgloss.Style
	Rejected    lipgloss.Style
	Undecided   lipgloss.Style
	StatusLine  lipgloss.Style
}

// DefaultStyles returns the standard wizard look.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1),
		PhaseBadge: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#101F38")).
			Background(ColorAccent).
			Padding(0, 1),
		Label: lipgloss.NewStyle().
			Bold(true),
		Hint: lipgloss.NewStyle().
			Foreground(ColorMuted),
		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError),
		Question: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWarning),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1),
		CardFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1),
		Accepted: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent),
		Rejected: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError),
		Undecided: lipgloss.NewStyle().
			Foreground(ColorMuted),
		StatusLine: lipgloss.NewStyle().
			Foreground(ColorMuted).
			MarginTop(1),
	}
}
