package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/warehouse-finops-tui/internal/models"
	"github.com/j-veylop/warehouse-finops-tui/internal/ui/styles"
)

const (
	minCardWidth = 22
	maxCardWidth = 34
)

// DeltaStyle returns the color of a delta in direction d.
func DeltaStyle(d models.Direction) lipgloss.Style {
	switch d {
	case models.DirectionFavorable:
		return styles.FavorableStyle
	case models.DirectionUnfavorable:
		return styles.UnfavorableStyle
	default:
		return styles.NeutralStyle
	}
}

func deltaArrow(d models.Direction, delta string) string {
	switch {
	case delta == "":
		return ""
	case delta[0] == '-':
		return "▼ "
	case d == models.DirectionNeutral:
		return "● "
	default:
		return "▲ "
	}
}

// RenderMetricCard draws one metric with its delta and warning.
func RenderMetricCard(m models.MetricDisplay, width int) string {
	lines := []string{
		styles.MetricLabelStyle.Render(m.Label),
		styles.MetricValueStyle.Render(m.Value),
	}
	if m.HasDelta() {
		lines = append(lines, DeltaStyle(m.Direction).Render(deltaArrow(m.Direction, m.Delta)+m.Delta))
	} else {
		lines = append(lines, "")
	}
	if m.Warning != "" {
		lines = append(lines, styles.WarningTextStyle.Render("! "+m.Warning))
	}

	return styles.MetricCardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// RenderMetricGrid lays cards out in as many columns as width allows.
func RenderMetricGrid(metrics []models.MetricDisplay, width int) string {
	if len(metrics) == 0 {
		return ""
	}

	// Border, padding and margin take 5 columns per card.
	perRow := max(width/(maxCardWidth+5), 1)
	perRow = min(perRow, len(metrics))
	cardWidth := min(max(width/perRow-5, minCardWidth), maxCardWidth)

	var rows []string
	for start := 0; start < len(metrics); start += perRow {
		end := min(start+perRow, len(metrics))
		cards := make([]string, 0, end-start)
		for _, m := range metrics[start:end] {
			cards = append(cards, RenderMetricCard(m, cardWidth))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
