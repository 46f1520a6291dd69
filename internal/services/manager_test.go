package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/j-veylop/warehouse-finops-tui/internal/config"
	"github.com/j-veylop/warehouse-finops-tui/internal/dashboards"
	"github.com/j-veylop/warehouse-finops-tui/internal/db"
	"github.com/j-veylop/warehouse-finops-tui/internal/format"
	"github.com/j-veylop/warehouse-finops-tui/internal/models"
	"github.com/j-veylop/warehouse-finops-tui/internal/period"
	"github.com/j-veylop/warehouse-finops-tui/internal/warehouse"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Backend:            config.BackendSQLite,
		DatabasePath:       filepath.Join(t.TempDir(), "usage.db"),
		ConnectionFile:     filepath.Join(t.TempDir(), "connections.toml"),
		CreditPriceUSD:     2,
		CostAlertThreshold: 0.10,
		CacheTTL:           time.Minute,
		EntityLookbackDays: 90,
	}
}

func newTestManager(t *testing.T, cfg *config.Config) *Manager {
	t.Helper()
	mgr, err := NewManager(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	t.Cleanup(func() { _ = mgr.Close() })
	return mgr
}

func earlyMarch() period.Range {
	r, _ := period.New(period.Date(2024, 3, 6), period.Date(2024, 3, 10))
	return r
}

// queryRow is one query_history row of a test mirror.
type queryRow struct {
	id, user, warehouse string
	warehouseID         int
	start               time.Time
	credits             float64
}

func seedQueries(t *testing.T, mgr *Manager, rows ...queryRow) {
	t.Helper()
	var b strings.Builder
	b.WriteString("QUERY_ID,USER_NAME,WAREHOUSE_NAME,WAREHOUSE_ID,START_TIME,CREDITS_USED,TOTAL_ELAPSED_TIME\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "%s,%s,%s,%d,%s,%g,0\n",
			r.id, r.user, r.warehouse, r.warehouseID, r.start.UTC().Format(time.DateTime), r.credits)
	}
	if _, err := mgr.backend.Mirror.ImportCSV(context.Background(), db.TableQueryHistory, strings.NewReader(b.String())); err != nil {
		t.Fatalf("ImportCSV failed: %v", err)
	}
}

func at(day, hour int) time.Time {
	return time.Date(2024, 3, day, hour, 0, 0, 0, time.UTC)
}

func TestNewManager(t *testing.T) {
	mgr := newTestManager(t, testConfig(t))

	if !mgr.Connected() {
		t.Fatalf("expected connection, got %v", mgr.ConnectionError())
	}
	if !strings.HasPrefix(mgr.Source(), "sqlite://") {
		t.Errorf("Source() = %q", mgr.Source())
	}
	if mgr.Dashboards() == nil {
		t.Error("Dashboards should be loaded")
	}
	if mgr.watcher == nil {
		t.Error("mirror watcher should be running")
	}
}

func TestNewManager_BadDashboards(t *testing.T) {
	cfg := testConfig(t)
	cfg.DashboardsPath = filepath.Join(t.TempDir(), "missing.yaml")

	if _, err := NewManager(context.Background(), cfg); err == nil {
		t.Error("NewManager should fail on an unreadable dashboards file")
	}
}

func TestManager_Unreachable(t *testing.T) {
	orig := openBackend
	openBackend = func(context.Context, *config.Config) (*warehouse.Backend, error) {
		return nil, errors.New("390100: incorrect username or password")
	}
	defer func() { openBackend = orig }()

	cfg := testConfig(t)
	cfg.Backend = config.BackendSnowflake
	mgr := newTestManager(t, cfg)

	if mgr.Connected() {
		t.Fatal("manager should not be connected")
	}

	report := mgr.RenderView(context.Background(), ViewRequest{View: dashboards.ViewOverview, Range: earlyMarch()})
	if !report.Halted {
		t.Error("report should be halted")
	}
	for _, want := range []string{"SNOWFLAKE_ACCOUNT", "incorrect username", cfg.ConnectionFile} {
		if !strings.Contains(report.Message, want) {
			t.Errorf("halt message %q should mention %q", report.Message, want)
		}
	}
	if len(report.Metrics) != 0 || len(report.Charts) != 0 {
		t.Error("halted report should render nothing")
	}

	if _, err := mgr.ListEntities(context.Background(), models.ScopeUser); err == nil {
		t.Error("ListEntities should fail without a backend")
	}
	if err := mgr.Prefetch(context.Background(), earlyMarch()); err == nil {
		t.Error("Prefetch should fail without a backend")
	}
	if _, err := mgr.MirrorStatus(context.Background()); !errors.Is(err, ErrNoMirror) {
		t.Errorf("MirrorStatus() error = %v, want ErrNoMirror", err)
	}
}

func TestManager_MirrorStatus(t *testing.T) {
	mgr := newTestManager(t, testConfig(t))

	status, err := mgr.MirrorStatus(context.Background())
	if err != nil {
		t.Fatalf("MirrorStatus() failed: %v", err)
	}
	if !status.Empty() || status.Counts[db.TableQueryHistory] != 0 || status.CheckedAt.IsZero() {
		t.Errorf("fresh mirror status = %+v", status)
	}

	seedQueries(t, mgr,
		queryRow{id: "a", user: "ALICE", warehouse: "WH", warehouseID: 1, start: at(3, 9), credits: 1},
		queryRow{id: "b", user: "BOB", warehouse: "WH", warehouseID: 1, start: at(8, 17), credits: 2},
	)

	status, err = mgr.MirrorStatus(context.Background())
	if err != nil {
		t.Fatalf("MirrorStatus() failed: %v", err)
	}
	if status.Counts[db.TableQueryHistory] != 2 || len(status.Counts) != len(db.Tables) {
		t.Errorf("Counts = %v", status.Counts)
	}
	if !status.Latest.Equal(at(8, 17)) {
		t.Errorf("Latest = %v, want %v", status.Latest, at(8, 17))
	}
}

func TestConnectionHelp_SQLite(t *testing.T) {
	cfg := testConfig(t)
	msg := ConnectionHelp(cfg, errors.New("disk I/O error"))

	if !strings.Contains(msg, cfg.DatabasePath) || !strings.Contains(msg, "DATABASE_PATH") {
		t.Errorf("ConnectionHelp() = %q", msg)
	}
}

func TestManager_RenderView(t *testing.T) {
	mgr := newTestManager(t, testConfig(t))
	seedQueries(t, mgr,
		queryRow{id: "p1", user: "ALICE", warehouse: "WH_XS", warehouseID: 1, start: at(3, 9), credits: 40},
		queryRow{id: "c1", user: "ALICE", warehouse: "WH_XS", warehouseID: 1, start: at(6, 9), credits: 30},
		queryRow{id: "c2", user: "BOB", warehouse: "WH_L", warehouseID: 2, start: at(8, 12), credits: 20},
	)

	report := mgr.RenderView(context.Background(), ViewRequest{View: dashboards.ViewOverview, Range: earlyMarch()})
	if report.Halted {
		t.Fatalf("unexpected halt: %s", report.Message)
	}
	if len(report.Metrics) != 2 {
		t.Fatalf("expected 2 metrics, got %d", len(report.Metrics))
	}
	for _, m := range report.Metrics {
		if m.Value == format.NA {
			t.Errorf("%s should have a value (warning %q)", m.Label, m.Warning)
		}
	}
	if !strings.Contains(report.Metrics[0].Value, "50") {
		t.Errorf("total credits = %q, want 50", report.Metrics[0].Value)
	}
}

func TestManager_ListEntities(t *testing.T) {
	mgr := newTestManager(t, testConfig(t))
	now := time.Now().UTC().Add(-time.Hour)
	seedQueries(t, mgr,
		queryRow{id: "a", user: "BOB", warehouse: "WH", warehouseID: 1, start: now, credits: 1},
		queryRow{id: "b", user: "ALICE", warehouse: "WH", warehouseID: 1, start: now, credits: 2},
	)

	got, err := mgr.ListEntities(context.Background(), models.ScopeUser)
	if err != nil {
		t.Fatalf("ListEntities() failed: %v", err)
	}
	if strings.Join(got.Names, ",") != "ALICE,BOB" {
		t.Errorf("Names = %v", got.Names)
	}
}

func TestManager_PrefetchAndInvalidate(t *testing.T) {
	mgr := newTestManager(t, testConfig(t))

	if err := mgr.Prefetch(context.Background(), earlyMarch()); err != nil {
		t.Fatalf("Prefetch() failed: %v", err)
	}
	if mgr.cache.Len() == 0 {
		t.Fatal("Prefetch should populate the cache")
	}

	ch, _ := mgr.Subscribe()
	defer mgr.Unsubscribe(ch)

	mgr.Invalidate("test")
	if mgr.cache.Len() != 0 {
		t.Errorf("cache should be empty after Invalidate, has %d entries", mgr.cache.Len())
	}

	timeout := time.After(time.Second)
	for {
		select {
		case e := <-ch:
			if ev, ok := e.(ViewInvalidatedEvent); ok && ev.Reason == "test" {
				return
			}
		case <-timeout:
			t.Fatal("timeout waiting for ViewInvalidatedEvent")
		}
	}
}

func TestManager_CostAlert(t *testing.T) {
	var (
		mu    sync.Mutex
		sent  []string
		origN = notify
	)
	notify = func(title, body string) error {
		mu.Lock()
		defer mu.Unlock()
		sent = append(sent, body)
		return nil
	}
	defer func() { notify = origN }()

	cfg := testConfig(t)
	cfg.NotifyCostIncrease = true
	mgr := newTestManager(t, cfg)

	ch, _ := mgr.Subscribe()
	defer mgr.Unsubscribe(ch)

	seedQueries(t, mgr,
		queryRow{id: "p1", user: "ALICE", warehouse: "WH", warehouseID: 1, start: at(3, 9), credits: 40},
		queryRow{id: "c1", user: "ALICE", warehouse: "WH", warehouseID: 1, start: at(6, 9), credits: 30},
	)
	req := ViewRequest{View: dashboards.ViewOverview, Range: earlyMarch()}

	// Down 25%: recorded, no alert.
	mgr.RenderView(context.Background(), req)

	seedQueries(t, mgr,
		queryRow{id: "c2", user: "ALICE", warehouse: "WH", warehouseID: 1, start: at(7, 9), credits: 70},
	)
	mgr.cache.Flush()

	// Up 150%: crosses the threshold.
	mgr.RenderView(context.Background(), req)
	// Still above: no repeat.
	mgr.RenderView(context.Background(), req)

	mu.Lock()
	defer mu.Unlock()
	if len(sent) != 1 {
		t.Fatalf("expected 1 notification, got %d: %v", len(sent), sent)
	}
	if !strings.Contains(sent[0], "150.0%") {
		t.Errorf("notification = %q", sent[0])
	}

	timeout := time.After(time.Second)
	for {
		select {
		case e := <-ch:
			if ev, ok := e.(CostAlertEvent); ok {
				if ev.Delta != 1.5 {
					t.Errorf("Delta = %v, want 1.5", ev.Delta)
				}
				return
			}
		case <-timeout:
			t.Fatal("timeout waiting for CostAlertEvent")
		}
	}
}

func TestManager_Subscription(t *testing.T) {
	mgr := newTestManager(t, testConfig(t))

	ch, cmd := mgr.Subscribe()
	if ch == nil {
		t.Error("Subscribe returned nil channel")
	}
	if cmd == nil {
		t.Error("Subscribe returned nil command")
	}

	mgr.Unsubscribe(ch)

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("Channel should be closed")
		}
	default:
		t.Error("Unsubscribe should close the channel")
	}
}

func TestManager_BroadcastSkipsFullSubscriber(t *testing.T) {
	mgr := newTestManager(t, testConfig(t))
	ch, _ := mgr.Subscribe()
	defer mgr.Unsubscribe(ch)

	for range cap(ch) + 10 {
		mgr.broadcast(ErrorEvent{Service: "test"})
	}
	if len(ch) != cap(ch) {
		t.Errorf("expected a full channel, got %d/%d", len(ch), cap(ch))
	}
}

func TestManager_CloseTwice(t *testing.T) {
	mgr, err := NewManager(context.Background(), testConfig(t))
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if err := mgr.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
	if err := mgr.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
}

func TestWaitForEvent(t *testing.T) {
	ch := make(chan ServiceEvent, 1)
	ch <- ViewInvalidatedEvent{Reason: "tick"}

	msg := WaitForEvent(ch)()
	if ev, ok := msg.(ViewInvalidatedEvent); !ok || ev.Reason != "tick" {
		t.Errorf("WaitForEvent() = %#v", msg)
	}
}

func TestServiceEvent_Interface(t *testing.T) {
	var _ ServiceEvent = ViewInvalidatedEvent{}
	var _ ServiceEvent = CostAlertEvent{}
	var _ ServiceEvent = ErrorEvent{}
}
