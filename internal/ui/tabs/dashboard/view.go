package dashboard

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/warehouse-finops-tui/internal/models"
	"github.com/j-veylop/warehouse-finops-tui/internal/services"
	"github.com/j-veylop/warehouse-finops-tui/internal/ui/components"
	"github.com/j-veylop/warehouse-finops-tui/internal/ui/styles"
)

// sideBySideWidth is the narrowest terminal that shows charts in pairs.
const sideBySideWidth = 140

// View renders the dashboard tab.
func (m *Model) View() string {
	report := m.state.Report(m.view)
	if !m.state.Current(report) {
		return m.renderLoading()
	}

	sections := []string{m.renderTitle(report)}

	if report.Message != "" {
		style := styles.InfoTextStyle
		if report.Halted {
			style = styles.ErrorTextStyle
		}
		sections = append(sections, style.Width(m.contentWidth()).Render(report.Message), "")
	}

	if !report.Halted {
		if len(report.Metrics) > 0 {
			sections = append(sections, components.RenderMetricGrid(report.Metrics, m.contentWidth()), "")
		}
		if len(report.Charts) > 0 {
			sections = append(sections, m.renderCharts(report.Charts))
		}
		sections = append(sections, m.renderRecommendations(report.Recommendations))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

// renderLoading renders the state before the current report arrives.
func (m *Model) renderLoading() string {
	return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
}

func (m *Model) renderTitle(r *services.ViewReport) string {
	title := styles.TitleStyle.Render(r.Title)

	subtitle := r.Period
	if r.Entity != "" {
		subtitle = r.Entity + "  ·  " + subtitle
	}
	if !r.RenderedAt.IsZero() {
		subtitle += "  ·  rendered " + r.RenderedAt.Format("15:04:05")
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, styles.HelpStyle.Render(subtitle), "")
}

func (m *Model) contentWidth() int {
	return max(m.width-4, 20)
}

// renderCharts lays charts out in one column, or in pairs on wide terminals.
func (m *Model) renderCharts(charts []models.ChartSpec) string {
	width := m.contentWidth()
	perRow := 1
	if m.width >= sideBySideWidth {
		perRow = 2
	}
	cardWidth := width/perRow - 2
	rows := m.theme.ChartRows(max(m.height/2, 4))

	var lines []string
	for i := 0; i < len(charts); i += perRow {
		var cards []string
		for _, spec := range charts[i:min(i+perRow, len(charts))] {
			cards = append(cards, renderChartCard(spec, cardWidth, rows))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderChartCard(spec models.ChartSpec, width, rows int) string {
	inner := max(width-4, 10)
	body := []string{components.RenderChart(spec, inner, rows)}
	for _, w := range spec.Warnings {
		body = append(body, styles.WarningTextStyle.Render("! "+w))
	}
	return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, body...))
}

func (m *Model) renderRecommendations(recs models.Recommendations) string {
	width := m.contentWidth()
	wrap := lipgloss.NewStyle().Width(max(width-8, 10))

	rows := []string{styles.CardTitleStyle.Render("Recommendations"), ""}
	if len(recs.Items) == 0 {
		rows = append(rows, styles.HelpStyle.Render("No recommendations for this period."))
	}
	for _, item := range recs.Items {
		rows = append(rows, wrap.Render("• "+item))
	}

	if len(recs.Warnings) > 0 {
		rows = append(rows, "")
		for _, w := range recs.Warnings {
			rows = append(rows, styles.WarningTextStyle.Width(max(width-8, 10)).Render("! "+w))
		}
	}

	return styles.CardStyle.Width(width).Render(strings.Join(rows, "\n"))
}
