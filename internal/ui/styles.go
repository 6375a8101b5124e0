// Package ui provides console rendering for lambdahunt: lipgloss styles,
// table output, and the live find-progress view.
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette. Chosen to work in most terminals.
var (
	ColorPrimary   = lipgloss.Color("#7C3AED") // Purple
	ColorSecondary = lipgloss.Color("#06B6D4") // Cyan

	ColorSuccess = lipgloss.Color("#10B981") // Green
	ColorWarning = lipgloss.Color("#F59E0B") // Amber
	ColorError   = lipgloss.Color("#EF4444") // Red
	ColorInfo    = lipgloss.Color("#3B82F6") // Blue

	ColorMuted      = lipgloss.Color("#6B7280") // Gray
	ColorBorder     = lipgloss.Color("#374151") // Dark gray
	ColorForeground = lipgloss.Color("#F9FAFB") // Almost white
)

// StyleSet contains the styles used for console output.
type StyleSet struct {
	Title lipgloss.Style
	Body  lipgloss.Style
	Muted lipgloss.Style
	Bold  lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style

	TableHeader lipgloss.Style
	TableCell   lipgloss.Style

	Spinner  lipgloss.Style
	Endpoint lipgloss.Style
	Price    lipgloss.Style
	Region   lipgloss.Style
	Type     lipgloss.Style
}

// Styles is the global style set.
var Styles = NewStyleSet()

// NewStyleSet creates a style set with the default palette.
func NewStyleSet() StyleSet {
	return StyleSet{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary),

		Body: lipgloss.NewStyle().
			Foreground(ColorForeground),

		Muted: lipgloss.NewStyle().
			Foreground(ColorMuted),

		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorForeground),

		Success: lipgloss.NewStyle().
			Foreground(ColorSuccess),

		Warning: lipgloss.NewStyle().
			Foreground(ColorWarning),

		Error: lipgloss.NewStyle().
			Foreground(ColorError),

		Info: lipgloss.NewStyle().
			Foreground(ColorInfo),

		TableHeader: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary),

		TableCell: lipgloss.NewStyle().
			Foreground(ColorForeground),

		Spinner: lipgloss.NewStyle().
			Foreground(ColorSecondary),

		Endpoint: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSuccess),

		Price: lipgloss.NewStyle().
			Foreground(ColorWarning),

		Region: lipgloss.NewStyle().
			Foreground(ColorInfo),

		Type: lipgloss.NewStyle().
			Foreground(ColorSuccess),
	}
}
