// Package report writes a rendered view as plain text or JSON for the
// headless report command.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/j-veylop/warehouse-finops-tui/internal/format"
	"github.com/j-veylop/warehouse-finops-tui/internal/models"
	"github.com/j-veylop/warehouse-finops-tui/internal/services"
)

// Format selects the output encoding.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// ParseFormat maps a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatText, &models.ValidationError{Field: "format", Message: fmt.Sprintf("unknown output format %q", s)}
	}
}

// Write encodes r to w.
func Write(w io.Writer, r *services.ViewReport, f Format) error {
	if f == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	_, err := io.WriteString(w, Text(r))
	return err
}

var border = lipgloss.NormalBorder()

func newTable(headers ...string) *table.Table {
	return table.New().Border(border).Headers(headers...)
}

// Text renders r as plain text.
func Text(r *services.ViewReport) string {
	var b strings.Builder

	title := r.Title
	if r.Entity != "" {
		title += ": " + r.Entity
	}
	fmt.Fprintf(&b, "%s\n%s\n", title, strings.Repeat("=", len(title)))
	fmt.Fprintf(&b, "Period: %s\n", r.Period)

	if r.Message != "" {
		fmt.Fprintf(&b, "\n%s\n", r.Message)
	}
	if r.Halted {
		return b.String()
	}

	if len(r.Metrics) > 0 {
		b.WriteString("\n")
		b.WriteString(metricsTable(r.Metrics))
		b.WriteString("\n")
	}

	for _, c := range r.Charts {
		b.WriteString("\n")
		b.WriteString(chartText(c))
	}

	if len(r.Recommendations.Items) > 0 || len(r.Recommendations.Warnings) > 0 {
		b.WriteString("\nRecommendations\n")
		for _, item := range r.Recommendations.Items {
			fmt.Fprintf(&b, "  - %s\n", item)
		}
	}

	if warnings := collectWarnings(r); len(warnings) > 0 {
		b.WriteString("\nWarnings\n")
		for _, w := range warnings {
			fmt.Fprintf(&b, "  ! %s\n", w)
		}
	}

	return b.String()
}

func metricsTable(metrics []models.MetricDisplay) string {
	t := newTable("Metric", "Value", "Change")
	for _, m := range metrics {
		t.Row(m.Label, m.Value, deltaText(m))
	}
	return t.String()
}

func deltaText(m models.MetricDisplay) string {
	switch m.Direction {
	case models.DirectionFavorable:
		return m.Delta + " (better)"
	case models.DirectionUnfavorable:
		return m.Delta + " (worse)"
	default:
		return m.Delta
	}
}

func chartText(c models.ChartSpec) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s]\n", c.Title, c.Kind)

	if c.Empty {
		fmt.Fprintf(&b, "  %s\n", c.Message)
		return b.String()
	}

	switch c.Kind {
	case models.ChartLine, models.ChartBar:
		t := newTable(orDefault(c.XAxisTitle, "X"), orDefault(c.YAxisTitle, "Value"))
		for _, p := range c.Points {
			v := format.Grouped(p.Value, 2)
			if p.Missing {
				v = format.NA
			}
			t.Row(p.Label, v)
		}
		b.WriteString(t.String())
	case models.ChartPie:
		t := newTable("Name", "Value", "Share")
		for _, s := range c.Slices {
			t.Row(s.Name, format.Grouped(s.Value, 2), format.Percentage(s.Share, 1))
		}
		b.WriteString(t.String())
	case models.ChartTable:
		t := newTable(c.Columns...)
		for _, row := range c.Rows {
			t.Row(row...)
		}
		b.WriteString(t.String())
	}
	b.WriteString("\n")
	return b.String()
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// collectWarnings gathers the per-slot warnings of r in render order.
func collectWarnings(r *services.ViewReport) []string {
	var out []string
	for _, m := range r.Metrics {
		if m.Warning != "" {
			out = append(out, m.Label+": "+m.Warning)
		}
	}
	for _, c := range r.Charts {
		for _, w := range c.Warnings {
			out = append(out, c.Title+": "+w)
		}
	}
	return append(out, r.Recommendations.Warnings...)
}
