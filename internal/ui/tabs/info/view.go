package info

import (
	"fmt"
	"runtime"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/warehouse-finops-tui/internal/config"
	"github.com/j-veylop/warehouse-finops-tui/internal/db"
	"github.com/j-veylop/warehouse-finops-tui/internal/format"
	"github.com/j-veylop/warehouse-finops-tui/internal/models"
	"github.com/j-veylop/warehouse-finops-tui/internal/ui/styles"
	"github.com/j-veylop/warehouse-finops-tui/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	sections := []string{m.renderTitle(), m.renderConfigCard()}
	if m.mirror != nil {
		sections = append(sections, m.renderMirrorCard())
	}
	sections = append(sections, m.renderSelectionCard(), m.renderAboutCard())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

// renderTitle renders the info tab title.
func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Configuration and application information")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	return min(max(m.width-6, 50), 90)
}

// renderConfigCard renders the data source and pricing settings.
func (m *Model) renderConfigCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Configuration"))
	rows = append(rows, "")

	if m.config == nil {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
		return m.card(rows)
	}

	cfg := m.config
	rows = append(rows, m.renderConfigRow("Backend", orDefault(cfg.Backend, config.BackendSnowflake)))
	rows = append(rows, m.renderConfigRow("Source", orDefault(m.source, "not connected")))
	if cfg.Backend == config.BackendSQLite {
		rows = append(rows, m.renderConfigRow("Database", cfg.DatabasePath))
	} else {
		rows = append(rows, m.renderConfigRow("Connection File", cfg.ConnectionFile))
	}
	rows = append(rows, m.renderConfigRow("Dashboards", orDefault(cfg.DashboardsPath, "built-in")))
	rows = append(rows, m.renderConfigRow("Credit Price", format.Currency(cfg.CreditPriceUSD, "$", 2)))
	rows = append(rows, m.renderConfigRow("Cache TTL", cfg.CacheTTL.String()))
	rows = append(rows, m.renderConfigRow("Auto Refresh", durationOrOff(cfg.RefreshInterval)))
	alert := "off"
	if cfg.NotifyCostIncrease {
		alert = "above " + format.Percentage(cfg.CostAlertThreshold, 1)
	}
	rows = append(rows, m.renderConfigRow("Cost Alert", alert))
	rows = append(rows, m.renderConfigRow("Log File", orDefault(cfg.LogFile, "none")))

	return m.card(rows)
}

// mirrorTableLabels names the mirror tables after their usage views.
var mirrorTableLabels = map[string]string{
	db.TableQueryHistory:      "Query History",
	db.TableWarehouses:        "Warehouses",
	db.TableWarehouseMetering: "WH Metering",
	db.TableMeteringHistory:   "Service Metering",
}

// renderMirrorCard shows how fresh the local mirror is.
func (m *Model) renderMirrorCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Local Mirror"))
	rows = append(rows, "")

	switch {
	case m.err != nil:
		rows = append(rows, styles.ErrorTextStyle.Width(m.cardWidth()-6).Render(m.err.Error()))
	case m.checked.IsZero():
		rows = append(rows, styles.HelpStyle.Render("Reading mirror..."))
	}
	if m.status.Counts == nil {
		return m.card(rows)
	}

	latest := styles.WarningTextStyle.Render("no queries imported")
	if !m.status.Empty() {
		latest = fmt.Sprintf("%s (%s)", m.status.Latest.Format(time.DateTime), humanize.Time(m.status.Latest))
	}
	rows = append(rows, m.renderConfigRow("Latest Query", latest))
	for _, table := range db.Tables {
		rows = append(rows, m.renderConfigRow(mirrorTableLabels[table], humanize.Comma(m.status.Counts[table])+" rows"))
	}
	rows = append(rows, m.renderConfigRow("Checked", m.status.CheckedAt.Format(time.TimeOnly)))

	return m.card(rows)
}

// renderSelectionCard shows the active range and entity lists.
func (m *Model) renderSelectionCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Selection"))
	rows = append(rows, "")

	rng := m.state.Range()
	rows = append(rows, m.renderConfigRow("Range", fmt.Sprintf("%s (%d days)", rng, rng.Days())))
	rows = append(rows, m.renderConfigRow("Preset", m.state.Preset().String()))
	rows = append(rows, m.renderConfigRow("Previous", rng.Previous().String()))

	for _, scope := range []models.Scope{models.ScopeUser, models.ScopeWarehouse} {
		label := "Users"
		if scope == models.ScopeWarehouse {
			label = "Warehouses"
		}
		value := "not loaded"
		if m.state.EntitiesLoaded(scope) {
			value = styles.InfoTextStyle.Render(fmt.Sprintf("%d", len(m.state.Entities(scope))))
		}
		rows = append(rows, m.renderConfigRow(label, value))
	}

	if t := m.state.LastUpdated(); !t.IsZero() {
		rows = append(rows, m.renderConfigRow("Last Render", t.Format(time.DateTime)))
	}

	return m.card(rows)
}

// renderAboutCard renders the version information card.
func (m *Model) renderAboutCard() string {
	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("About Warehouse FinOps TUI"))
	rows = append(rows, "")

	rows = append(rows, m.renderConfigRow("Version", version.GetVersion()))
	rows = append(rows, m.renderConfigRow("Build Date", version.GetDate()))
	rows = append(rows, m.renderConfigRow("Git Commit", version.GetCommit()))
	rows = append(rows, m.renderConfigRow("Go Version", runtime.Version()))
	rows = append(rows, m.renderConfigRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)))

	return m.card(rows)
}

func (m *Model) card(rows []string) string {
	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderConfigRow renders a configuration key-value row.
func (m *Model) renderConfigRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(18).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func durationOrOff(d time.Duration) string {
	if d <= 0 {
		return "off"
	}
	return d.String()
}
