package info

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/warehouse-finops-tui/internal/app"
	"github.com/j-veylop/warehouse-finops-tui/internal/config"
	"github.com/j-veylop/warehouse-finops-tui/internal/db"
	"github.com/j-veylop/warehouse-finops-tui/internal/models"
	"github.com/j-veylop/warehouse-finops-tui/internal/period"
	"github.com/j-veylop/warehouse-finops-tui/internal/services"
)

func TestModel_View(t *testing.T) {
	state := app.NewState(period.Last7Days)
	state.SetEntities(models.ScopeUser, services.Entities{Names: []string{"ALICE", "BOB"}})

	cfg := &config.Config{
		Backend:            config.BackendSQLite,
		DatabasePath:       "/tmp/usage.db",
		CreditPriceUSD:     3,
		CacheTTL:           time.Hour,
		NotifyCostIncrease: true,
		CostAlertThreshold: 0.1,
	}
	m := New(state, cfg, "sqlite:///tmp/usage.db", nil)
	m.SetSize(100, 60)

	view := m.View()
	for _, want := range []string{
		"sqlite:///tmp/usage.db",
		"/tmp/usage.db",
		"built-in",
		"$3.00",
		"1h0m0s",
		"Auto Refresh",
		"above 10.0%",
		"Last 7 Days",
		"(7 days)",
		"Warehouses",
		"not loaded",
		"Go Version",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestModel_View_Snowflake(t *testing.T) {
	cfg := &config.Config{ConnectionFile: "/home/me/.snowflake/connections.toml"}
	m := New(app.NewState(period.Last30Days), cfg, "", nil)
	m.SetSize(100, 60)

	view := m.View()
	for _, want := range []string{"snowflake", "connections.toml", "not connected"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestModel_View_NoConfig(t *testing.T) {
	m := New(app.NewState(period.Last30Days), nil, "", nil)
	m.SetSize(80, 40)
	if !strings.Contains(m.View(), "Configuration not loaded") {
		t.Error("missing config notice")
	}
}

func TestModel_Update(t *testing.T) {
	m := New(app.NewState(period.Last30Days), &config.Config{}, "", nil)
	m.SetSize(80, 5)
	m.View()

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if updated == nil {
		t.Fatal("Update returned nil model")
	}
	if m.viewport.YOffset != 1 {
		t.Errorf("YOffset = %d, want 1 after scrolling down", m.viewport.YOffset)
	}
	if m.Init() != nil || len(m.ShortHelp()) == 0 || len(m.FullHelp()) == 0 {
		t.Error("unexpected Init or help")
	}
}

// fakeMirror returns a fixed status and counts its reads.
type fakeMirror struct {
	status services.MirrorStatus
	err    error
	reads  int
}

func (f *fakeMirror) MirrorStatus(context.Context) (services.MirrorStatus, error) {
	f.reads++
	return f.status, f.err
}

// load runs cmd and feeds its result back into the tab.
func load(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a status load")
	}
	m.Update(cmd())
}

func TestModel_MirrorCard(t *testing.T) {
	latest := time.Date(2024, 3, 10, 14, 30, 0, 0, time.UTC)
	mirror := &fakeMirror{status: services.MirrorStatus{
		Counts: map[string]int64{
			db.TableQueryHistory:      12345,
			db.TableWarehouses:        3,
			db.TableWarehouseMetering: 720,
			db.TableMeteringHistory:   90,
		},
		Latest:    latest,
		CheckedAt: time.Now(),
	}}

	m := New(app.NewState(period.Last30Days), &config.Config{Backend: config.BackendSQLite}, "sqlite://usage.db", mirror)
	m.SetSize(100, 80)

	if !strings.Contains(m.View(), "Local Mirror") {
		t.Error("mirror card should show while the first read runs")
	}

	load(t, m, m.Init())
	view := m.View()
	for _, want := range []string{"Query History", "12,345 rows", "WH Metering", "720 rows", "2024-03-10 14:30:00", "ago"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}

	// Invalidation re-reads; a recent read is not repeated on tick.
	if _, cmd := m.Update(app.TickMsg{Time: time.Now()}); cmd != nil {
		t.Error("fresh status should not reload on tick")
	}
	_, cmd := m.Update(app.ServiceEventMsg{Event: services.ViewInvalidatedEvent{Reason: "mirror changed"}})
	load(t, m, cmd)
	if _, cmd := m.Update(app.TickMsg{Time: time.Now().Add(statusMaxAge)}); cmd == nil {
		t.Error("stale status should reload on tick")
	}
	if mirror.reads != 2 {
		t.Errorf("reads = %d, want 2", mirror.reads)
	}
}

func TestModel_MirrorCard_EmptyAndErrors(t *testing.T) {
	mirror := &fakeMirror{status: services.MirrorStatus{Counts: map[string]int64{}, CheckedAt: time.Now()}}
	m := New(app.NewState(period.Last30Days), &config.Config{}, "", mirror)
	m.SetSize(100, 80)

	load(t, m, m.Init())
	if !strings.Contains(m.View(), "no queries imported") {
		t.Error("empty mirror should say so")
	}

	mirror.err = errors.New("database is locked")
	_, cmd := m.Update(app.ServiceEventMsg{Event: services.ViewInvalidatedEvent{}})
	load(t, m, cmd)
	view := m.View()
	if !strings.Contains(view, "database is locked") || !strings.Contains(view, "no queries imported") {
		t.Errorf("failed read should keep the last status and show the error:\n%s", view)
	}

	mirror.err = services.ErrNoMirror
	_, cmd = m.Update(app.ServiceEventMsg{Event: services.ViewInvalidatedEvent{}})
	load(t, m, cmd)
	if strings.Contains(m.View(), "Local Mirror") {
		t.Error("backends without a mirror should hide the card")
	}
	if m.Init() != nil {
		t.Error("no further reads once the backend has no mirror")
	}
}
