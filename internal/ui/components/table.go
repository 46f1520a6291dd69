package components

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/warehouse-finops-tui/internal/ui/styles"
)

const maxColumnWidth = 40

// NewTable builds a read-only table sized to its content and width.
func NewTable(columns []string, rows [][]string, width, height int) table.Model {
	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = lipgloss.Width(c)
	}
	for _, row := range rows {
		for i := range min(len(row), len(widths)) {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	// Shrink the widest columns until the table fits.
	total := func() int {
		sum := 0
		for _, w := range widths {
			sum += w + 2
		}
		return sum
	}
	for i := range widths {
		widths[i] = min(widths[i], maxColumnWidth)
	}
	for total() > width && width > 0 {
		widest := 0
		for i, w := range widths {
			if w > widths[widest] {
				widest = i
			}
		}
		if widths[widest] <= 4 {
			break
		}
		widths[widest]--
	}

	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		cols[i] = table.Column{Title: c, Width: widths[i]}
	}
	tRows := make([]table.Row, len(rows))
	for i, r := range rows {
		tRows[i] = table.Row(r)
	}

	s := table.DefaultStyles()
	s.Header = styles.TableHeaderStyle
	s.Cell = styles.TableCellStyle
	s.Selected = lipgloss.NewStyle()

	return table.New(
		table.WithColumns(cols),
		table.WithRows(tRows),
		table.WithHeight(min(max(height, 1), len(rows)+1)),
		table.WithFocused(false),
		table.WithStyles(s),
	)
}

// RenderTable draws a table chart.
func RenderTable(columns []string, rows [][]string, width, height int) string {
	if len(columns) == 0 {
		return styles.HelpStyle.Render("No data available")
	}
	t := NewTable(columns, rows, width, height)
	return t.View()
}
