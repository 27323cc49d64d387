package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Table renders rows under headers with the list border.
func Table(s Styles, headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.Border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.Header
			}
			return s.Cell
		})
	return t.Render()
}

// Cards lays out rendered cards side by side.
func Cards(s Styles, cards ...string) string {
	boxed := make([]string, len(cards))
	for i, c := range cards {
		boxed[i] = s.Card.Render(c)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxed...)
}
