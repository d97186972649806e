package views

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"miniatlas/internal/domain"
)

// CountryTable renders countries as a bordered table. When match is
// non-nil it adds a MATCH column; match[i] labels countries[i].
func CountryTable(countries []domain.Country, match []string) string {
	headers := []string{"CODE", "NAME", "REGION", "CAPITAL", "POPULATION"}
	if match != nil {
		headers = append(headers, "MATCH")
	}

	rows := make([][]string, 0, len(countries))
	for i, c := range countries {
		row := []string{c.Code, c.Name, orDash(c.Region), orDash(c.Capital), FormatPopulation(c.Population)}
		if match != nil {
			label := ""
			if i < len(match) {
				label = match[i]
			}
			row = append(row, label)
		}
		rows = append(rows, row)
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("241"))).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 4 {
				return cellStyle.Align(lipgloss.Right)
			}
			return cellStyle
		})
	return t.Render()
}
