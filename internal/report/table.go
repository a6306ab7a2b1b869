package report

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"newsintel/internal/discovery"
	"newsintel/internal/entity"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5FAFD7")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C6C6C")).Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#3A3A3A"))
)

// maxCell bounds free-text columns in the headline table, in runes.
const maxCell = 90

// EntitiesTable renders ranked results as a bordered table.
func EntitiesTable(results []entity.RankedResult) string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			strconv.Itoa(r.Rank),
			r.Name,
			string(r.EntityType),
			strconv.Itoa(r.Mentions),
			fmt.Sprintf("%.1f", r.Score),
			fmt.Sprintf("%.1f%%", r.Percentage),
			fmt.Sprintf("%.0f%%", r.Confidence),
			strconv.Itoa(r.ContextDiversity),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("#", "Entity", "Type", "Mentions", "Score", "Share", "Confidence", "Contexts").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.Render()
}

// HeadlinesTable renders articles as a numbered table.
func HeadlinesTable(articles []discovery.Article) string {
	rows := make([][]string, 0, len(articles))
	for i, a := range articles {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			truncate(a.Title, maxCell),
			a.Source,
			truncate(a.Description, maxCell),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("#", "Headline", "Source", "Summary").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 3:
				return dimStyle
			default:
				return cellStyle
			}
		})
	return t.Render()
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}
