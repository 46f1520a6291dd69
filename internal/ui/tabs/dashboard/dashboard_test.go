package dashboard

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/warehouse-finops-tui/internal/app"
	"github.com/j-veylop/warehouse-finops-tui/internal/dashboards"
	"github.com/j-veylop/warehouse-finops-tui/internal/models"
	"github.com/j-veylop/warehouse-finops-tui/internal/period"
	"github.com/j-veylop/warehouse-finops-tui/internal/services"
)

func newTab(t *testing.T, v dashboards.View) (*Model, *app.State) {
	t.Helper()
	state := app.NewState(period.Last30Days)
	m := New(state, v, dashboards.DefaultTheme())
	m.SetSize(120, 200)
	return m, state
}

func overviewReport(state *app.State) *services.ViewReport {
	return &services.ViewReport{
		View:   dashboards.ViewOverview,
		Range:  state.Range(),
		Title:  "Account Overview",
		Period: state.Range().String(),
		Metrics: []models.MetricDisplay{
			{Label: "Estimated Total Cost", Value: "$2,468.00", Delta: "+25.0%", Direction: models.DirectionUnfavorable},
		},
		Charts: []models.ChartSpec{
			{Title: "Estimated Cost by Service Type", Kind: models.ChartPie, Slices: []models.Slice{{Name: "WAREHOUSE_METERING", Value: 10, Share: 1, Color: "#007BFF"}}},
			{Title: "Daily Credits", Kind: models.ChartLine, Empty: true, Message: "No data available for 'Daily Credits' in the selected period.", Warnings: []string{"row 3: unparseable date"}},
		},
		Recommendations: models.Recommendations{
			Items:    []string{"Estimated cost rose 25.0% versus the previous period."},
			Warnings: []string{"Could not fetch idle data for recommendations: timeout"},
		},
	}
}

func TestModel_View_Report(t *testing.T) {
	m, state := newTab(t, dashboards.ViewOverview)
	state.SetReport(overviewReport(state))

	view := m.View()
	for _, want := range []string{
		"Account Overview",
		"Estimated Total Cost",
		"+25.0%",
		"Estimated Cost by Service Type",
		"No data available for 'Daily Credits'",
		"unparseable date",
		"Recommendations",
		"rose 25.0%",
		"Could not fetch idle data",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestModel_View_NoRecommendations(t *testing.T) {
	m, state := newTab(t, dashboards.ViewOverview)
	r := overviewReport(state)
	r.Recommendations = models.Recommendations{}
	state.SetReport(r)

	if !strings.Contains(m.View(), "No recommendations for this period.") {
		t.Error("empty recommendations should say so")
	}
}

func TestModel_View_Prompt(t *testing.T) {
	m, state := newTab(t, dashboards.ViewUser)
	state.SetEntities(models.ScopeUser, services.Entities{Warning: "No active users found in the last 90 days."})
	state.SetReport(&services.ViewReport{
		View:    dashboards.ViewUser,
		Range:   state.Range(),
		Title:   "User 360",
		Message: "Select a user to see their usage.",
	})

	view := m.View()
	if !strings.Contains(view, "Select a user") {
		t.Errorf("prompt missing:\n%s", view)
	}
}

func TestModel_View_Halted(t *testing.T) {
	m, state := newTab(t, dashboards.ViewOverview)
	state.SetReport(&services.ViewReport{
		View:    dashboards.ViewOverview,
		Range:   state.Range(),
		Title:   "Account Overview",
		Message: "Could not connect to Snowflake. Set SNOWFLAKE_ACCOUNT.",
		Halted:  true,
		Metrics: []models.MetricDisplay{{Label: "Hidden metric"}},
	})

	view := m.View()
	if !strings.Contains(view, "SNOWFLAKE_ACCOUNT") {
		t.Error("halted message missing")
	}
	if strings.Contains(view, "Hidden metric") || strings.Contains(view, "Recommendations") {
		t.Error("halted report should show only its message")
	}
}

func TestModel_View_StaleReportShowsSpinner(t *testing.T) {
	m, state := newTab(t, dashboards.ViewUser)
	state.SetEntities(models.ScopeUser, services.Entities{Names: []string{"ALICE", "BOB"}})
	state.SetReport(&services.ViewReport{View: dashboards.ViewUser, Range: state.Range(), Entity: "ALICE", Title: "User 360"})
	state.CycleEntity(models.ScopeUser, 1)

	if strings.Contains(m.View(), "ALICE") {
		t.Error("report for ALICE shown while BOB is selected")
	}
}

func TestModel_SpinnerFollowsLoading(t *testing.T) {
	m, state := newTab(t, dashboards.ViewOverview)

	state.SetLoading(dashboards.ViewOverview, true)
	if _, cmd := m.Update(nil); cmd == nil {
		t.Error("render start should start the spinner")
	}
	if !strings.Contains(m.View(), "Rendering Account Overview") {
		t.Error("spinner label missing")
	}
	if _, cmd := m.Update(spinner.TickMsg{}); cmd == nil {
		t.Error("spinner should keep ticking while loading")
	}

	state.SetLoading(dashboards.ViewOverview, false)
	m.Update(nil)
	if _, cmd := m.Update(spinner.TickMsg{}); cmd != nil {
		t.Error("spinner should stop once loading ends")
	}
}

func TestModel_Scroll(t *testing.T) {
	m, state := newTab(t, dashboards.ViewOverview)
	m.SetSize(120, 8)
	state.SetReport(overviewReport(state))
	m.View()

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}})
	if m.viewport.AtTop() {
		t.Error("G should scroll to the bottom")
	}
	m.Update(app.SelectionChangedMsg{})
	if !m.viewport.AtTop() {
		t.Error("selection change should scroll to the top")
	}
}

func TestModel_Help(t *testing.T) {
	m, _ := newTab(t, dashboards.ViewWarehouse)
	if len(m.ShortHelp()) == 0 || len(m.FullHelp()) == 0 {
		t.Error("help bindings missing")
	}
	if m.Init() != nil {
		t.Error("Init should not start anything")
	}
}
