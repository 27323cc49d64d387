package tui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Styles contains lipgloss styles for terminal output
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Status   lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Muted    lipgloss.Style
	Border   lipgloss.Style
	Header   lipgloss.Style
	Cell     lipgloss.Style
	Card     lipgloss.Style
}

// NewStyles returns the default styles bound to the color profile of w.
// Writers that are not terminals get plain, uncolored output.
func NewStyles(w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)
	return Styles{
		Title: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")), // Purple
		Subtitle: r.NewStyle().
			Foreground(lipgloss.Color("241")), // Gray
		Status: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")), // Cyan
		Error: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")), // Red
		Success: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("46")), // Green
		Warning: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("226")), // Yellow
		Muted: r.NewStyle().
			Foreground(lipgloss.Color("241")),
		Border: r.NewStyle().
			BorderForeground(lipgloss.Color("63")),
		Header: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")).
			Padding(0, 1),
		Cell: r.NewStyle().
			Padding(0, 1),
		Card: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1),
	}
}

// ForStatus picks the style for a good/warning/bad status.
func (s Styles) ForStatus(status string) lipgloss.Style {
	switch status {
	case "good":
		return s.Success
	case "warning":
		return s.Warning
	default:
		return s.Error
	}
}
