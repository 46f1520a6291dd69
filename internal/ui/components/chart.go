// Package components provides reusable UI components for the TUI.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/j-veylop/warehouse-finops-tui/internal/format"
	"github.com/j-veylop/warehouse-finops-tui/internal/models"
	"github.com/j-veylop/warehouse-finops-tui/internal/ui/styles"
)

const (
	minChartWidth  = 20
	minChartHeight = 3
	pieBarMaxWidth = 60
)

// RenderChart draws spec within width columns and height rows.
func RenderChart(spec models.ChartSpec, width, height int) string {
	var body string
	switch {
	case spec.Empty:
		body = styles.HelpStyle.Render(spec.Message)
	case spec.Kind == models.ChartLine:
		body = RenderLineChart(spec.Points, width, height, spec.YAxisTitle)
	case spec.Kind == models.ChartBar:
		body = RenderBarChart(spec.Points, width)
	case spec.Kind == models.ChartPie:
		body = RenderPieChart(spec.Slices, width)
	case spec.Kind == models.ChartTable:
		body = RenderTable(spec.Columns, spec.Rows, width, height)
	}

	lines := []string{styles.CardTitleStyle.Render(spec.Title)}
	if spec.Description != "" {
		lines = append(lines, styles.HelpStyle.Render(spec.Description))
	}
	lines = append(lines, body)
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// RenderLineChart creates a single-series ASCII line chart. The caption
// names the y axis and the first and last x labels.
func RenderLineChart(points []models.Point, width, height int, yTitle string) string {
	if len(points) == 0 {
		return styles.HelpStyle.Render("No data available")
	}

	// Ensure minimum dimensions
	width = max(width-10, minChartWidth)
	height = max(height, minChartHeight)

	data := make([]float64, len(points))
	for i, p := range points {
		data[i] = p.Value
	}
	// asciigraph needs two points to draw a line.
	if len(data) == 1 {
		data = append(data, data[0])
	}

	caption := fmt.Sprintf("%s  (%s .. %s)", yTitle, points[0].Label, points[len(points)-1].Label)
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(asciigraph.Blue),
	)
}

// RenderBarChart creates a horizontal bar chart, one row per point.
func RenderBarChart(points []models.Point, width int) string {
	if len(points) == 0 {
		return styles.HelpStyle.Render("No data available")
	}

	// Find max value for scaling
	maxVal := 0.0
	maxLabelLen := 0
	for _, p := range points {
		maxVal = max(maxVal, p.Value)
		maxLabelLen = max(maxLabelLen, lipgloss.Width(p.Label))
	}
	if maxVal == 0 {
		maxVal = 1
	}

	// Leave room for label and value
	barWidth := max(width-maxLabelLen-16, 10)
	barStyle := lipgloss.NewStyle().Foreground(styles.PaletteColor(0))

	lines := make([]string, 0, len(points))
	for _, p := range points {
		paddedLabel := fmt.Sprintf("%*s", maxLabelLen, p.Label)
		barLen := max(int((p.Value/maxVal)*float64(barWidth)), 0)

		value := format.Grouped(p.Value, 2)
		if p.Missing {
			value = format.NA
		}
		lines = append(lines, paddedLabel+" │"+barStyle.Render(strings.Repeat("█", barLen))+" "+value)
	}

	return strings.Join(lines, "\n")
}

// RenderPieChart draws slices as one proportional bar followed by a legend
// with values and shares.
func RenderPieChart(slices []models.Slice, width int) string {
	if len(slices) == 0 {
		return styles.HelpStyle.Render("No data available")
	}

	barWidth := min(max(width-4, minChartWidth), pieBarMaxWidth)

	var bar strings.Builder
	used := 0
	for i, s := range slices {
		n := int(s.Share * float64(barWidth))
		if i == len(slices)-1 {
			n = barWidth - used
		}
		n = max(n, 0)
		used += n
		bar.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color)).Render(strings.Repeat("█", n)))
	}

	items := make([]LegendItem, len(slices))
	for i, s := range slices {
		items[i] = LegendItem{
			Label: fmt.Sprintf("%s %s (%s)", s.Name, format.Grouped(s.Value, 2), format.Percentage(s.Share, 1)),
			Color: lipgloss.Color(s.Color),
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, bar.String(), "", RenderLegendColumn(items))
}

// LegendItem represents a single legend entry.
type LegendItem struct {
	Label string
	Color lipgloss.Color
}

// RenderLegend creates a single-line chart legend.
func RenderLegend(items []LegendItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		colorBox := lipgloss.NewStyle().Foreground(item.Color).Render("■")
		parts = append(parts, fmt.Sprintf("%s %s", colorBox, item.Label))
	}
	return strings.Join(parts, "  ")
}

// RenderLegendColumn creates a legend with one entry per line.
func RenderLegendColumn(items []LegendItem) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		colorBox := lipgloss.NewStyle().Foreground(item.Color).Render("■")
		lines = append(lines, fmt.Sprintf("%s %s", colorBox, item.Label))
	}
	return strings.Join(lines, "\n")
}
