// Package services provides service orchestration for the TUI and the
// headless report.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"
	"github.com/hashicorp/go-multierror"
	"github.com/sourcegraph/conc/pool"

	"github.com/j-veylop/warehouse-finops-tui/internal/cache"
	"github.com/j-veylop/warehouse-finops-tui/internal/catalog"
	"github.com/j-veylop/warehouse-finops-tui/internal/config"
	"github.com/j-veylop/warehouse-finops-tui/internal/dashboards"
	"github.com/j-veylop/warehouse-finops-tui/internal/format"
	"github.com/j-veylop/warehouse-finops-tui/internal/logger"
	"github.com/j-veylop/warehouse-finops-tui/internal/models"
	"github.com/j-veylop/warehouse-finops-tui/internal/period"
	"github.com/j-veylop/warehouse-finops-tui/internal/services/refresh"
	"github.com/j-veylop/warehouse-finops-tui/internal/services/watch"
	"github.com/j-veylop/warehouse-finops-tui/internal/warehouse"
)

const prefetchConcurrency = 4

type (
	// ViewInvalidatedEvent is emitted when cached results were dropped and
	// open views should render again.
	ViewInvalidatedEvent struct {
		Reason string
	}

	// CostAlertEvent is emitted when the period-over-period cost increase
	// crosses the alert threshold.
	CostAlertEvent struct {
		Range period.Range
		Delta float64
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Error   error
		Service string
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (ViewInvalidatedEvent) isServiceEvent() {}
func (CostAlertEvent) isServiceEvent()       {}
func (ErrorEvent) isServiceEvent()           {}

// openBackend is replaced in tests.
var openBackend = warehouse.Open

// notify sends a desktop notification; replaced in tests.
var notify = func(title, body string) error {
	return beeep.Notify(title, body, "")
}

// Manager owns the backend connection and routes service events.
type Manager struct {
	mu          sync.RWMutex
	cfg         *config.Config
	dashboards  *dashboards.Set
	cache       *cache.Memory
	backend     *warehouse.Backend
	connErr     error
	executor    *warehouse.Executor
	renderer    *Renderer
	watcher     *watch.Watcher
	ticker      *refresh.Ticker
	stopChan    chan struct{}
	subscribers []chan<- ServiceEvent
	closeOnce   sync.Once

	// Last observed overview cost delta, for threshold crossing.
	lastCostDelta float64
	haveCostDelta bool
}

// NewManager loads the dashboards and connects the backend. A backend
// that cannot be reached is not an error: every view then halts with
// ConnectionHelp.
func NewManager(ctx context.Context, cfg *config.Config) (*Manager, error) {
	cat := catalog.Default()

	set, err := dashboards.Load(cfg.DashboardsPath, cat)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboards: %w", err)
	}

	m := &Manager{
		cfg:        cfg,
		dashboards: set,
		cache:      cache.NewMemory(cfg.CacheTTL, 10*time.Minute),
		stopChan:   make(chan struct{}),
		ticker:     refresh.NewTicker(cfg.RefreshInterval),
	}

	err = refresh.Retry(ctx, refresh.DefaultAttempts, refresh.DefaultBackoff, func(ctx context.Context) error {
		b, err := openBackend(ctx, cfg)
		if err != nil {
			return err
		}
		m.backend = b
		return nil
	})
	if err != nil {
		logger.Error("failed to connect to backend", "backend", cfg.Backend, "error", err)
		m.connErr = err
	}

	if m.backend != nil {
		m.executor = warehouse.NewExecutor(m.backend.DB, cat, warehouse.Options{
			Cache:        m.cache,
			Dialect:      m.backend.Dialect,
			TTL:          cfg.CacheTTL,
			CreditPrice:  cfg.CreditPriceUSD,
			LookbackDays: cfg.EntityLookbackDays,
		})
		m.renderer = NewRenderer(m.executor, set)
		logger.Info("connected", "source", m.backend.Source)

		if m.backend.Mirror != nil {
			if m.watcher, err = watch.New(m.backend.Mirror.Path(), watch.DefaultDebounce); err != nil {
				logger.Warn("mirror changes will not be detected", "error", err)
			}
		}
	}

	go m.routeEvents()

	return m, nil
}

// routeEvents turns watcher and ticker notifications into service events.
func (m *Manager) routeEvents() {
	var watchEvents <-chan watch.Event
	if m.watcher != nil {
		watchEvents = m.watcher.Events()
	}

	for {
		select {
		case event, ok := <-watchEvents:
			if !ok {
				watchEvents = nil
				continue
			}
			m.handleWatchEvent(event)

		case <-m.ticker.Ticks():
			m.Invalidate("auto refresh")

		case <-m.stopChan:
			return
		}
	}
}

func (m *Manager) handleWatchEvent(event watch.Event) {
	switch event.Type {
	case watch.EventChanged:
		m.Invalidate("usage mirror changed")
	case watch.EventError:
		m.broadcast(ErrorEvent{Service: "watch", Error: event.Error})
	}
}

// Invalidate drops cached results and tells subscribers to render again.
func (m *Manager) Invalidate(reason string) {
	m.cache.Flush()
	logger.Debug("cache flushed", "reason", reason)
	m.broadcast(ViewInvalidatedEvent{Reason: reason})
}

// Connected reports whether a backend is available.
func (m *Manager) Connected() bool {
	return m.backend != nil
}

// ConnectionError returns the reason the backend is unavailable.
func (m *Manager) ConnectionError() error {
	return m.connErr
}

// Source describes the connected backend.
func (m *Manager) Source() string {
	if m.backend == nil {
		return ""
	}
	return m.backend.Source
}

// Dashboards returns the loaded definitions.
func (m *Manager) Dashboards() *dashboards.Set {
	return m.dashboards
}

// Config returns the configuration the manager was built with.
func (m *Manager) Config() *config.Config {
	return m.cfg
}

// ConnectionHelp is the halt message shown when no backend is available.
func ConnectionHelp(cfg *config.Config, err error) string {
	if cfg.Backend == config.BackendSQLite {
		return fmt.Sprintf("Could not open the local usage mirror at %s: %v. "+
			"Set DATABASE_PATH, or configure Snowflake with FINOPS_BACKEND=snowflake.", cfg.DatabasePath, err)
	}
	return fmt.Sprintf("Could not connect to Snowflake: %v. "+
		"Set SNOWFLAKE_ACCOUNT, SNOWFLAKE_USER and SNOWFLAKE_PASSWORD (optionally SNOWFLAKE_ROLE, "+
		"SNOWFLAKE_WAREHOUSE), or create %s with a [snowflake] table.", err, cfg.ConnectionFile)
}

// RenderView renders one view. Without a backend the report is halted
// before any metric or chart is resolved.
func (m *Manager) RenderView(ctx context.Context, req ViewRequest) *ViewReport {
	if m.renderer == nil {
		return &ViewReport{
			View:       req.View,
			Title:      req.View.Title(),
			Range:      req.Range,
			Period:     req.Range.String(),
			Entity:     req.Entity,
			RenderedAt: time.Now(),
			Halted:     true,
			Message:    ConnectionHelp(m.cfg, m.connErr),
		}
	}

	report := m.renderer.Render(ctx, req)
	if req.View == dashboards.ViewOverview && m.cfg.NotifyCostIncrease {
		m.checkCostAlert(ctx, req.Range)
	}
	return report
}

// checkCostAlert notifies once when the cost delta crosses the threshold
// upwards between two renders.
func (m *Manager) checkCostAlert(ctx context.Context, rng period.Range) {
	res, err := m.executor.Execute(ctx, catalog.TotalCostAndCreditsOverview, rng.Params())
	if err != nil || res.Empty() {
		return
	}
	current, _ := res.Float(0, "ESTIMATED_COST_USD")
	previous, _ := res.Float(0, "PREV_ESTIMATED_COST_USD")
	delta, ok := format.Delta(current, previous)
	if !ok {
		return
	}

	m.mu.Lock()
	last, seen := m.lastCostDelta, m.haveCostDelta
	m.lastCostDelta, m.haveCostDelta = delta, true
	m.mu.Unlock()

	threshold := m.cfg.CostAlertThreshold
	if !seen || delta <= threshold || last > threshold {
		return
	}

	title := "Cost increase alert"
	body := fmt.Sprintf("Estimated cost for %s is up %s on the previous period.",
		rng, format.Percentage(delta, 1))
	if err := notify(title, body); err != nil {
		logger.Warn("failed to send notification", "error", err)
	}
	m.broadcast(CostAlertEvent{Range: rng, Delta: delta})
}

// ListEntities returns the selectable users or warehouses.
func (m *Manager) ListEntities(ctx context.Context, scope models.Scope) (Entities, error) {
	if m.renderer == nil {
		return Entities{}, fmt.Errorf("no backend: %w", m.connErr)
	}
	return m.renderer.ListEntities(ctx, scope, m.cfg.EntityLookbackDays)
}

// Prefetch warms the cache with every entity-independent query for rng.
func (m *Manager) Prefetch(ctx context.Context, rng period.Range) error {
	if m.renderer == nil {
		return m.connErr
	}

	p := pool.New().WithContext(ctx).WithMaxGoroutines(prefetchConcurrency)
	for _, task := range m.renderer.prefetchTasks(rng, m.cfg.EntityLookbackDays) {
		p.Go(func(ctx context.Context) error {
			_, err := m.executor.Execute(ctx, task.queryID, task.params)
			return err
		})
	}
	return p.Wait()
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, WaitForEvent(ch)
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Close stops the background services and releases the backend.
func (m *Manager) Close() error {
	var errs *multierror.Error

	m.closeOnce.Do(func() {
		close(m.stopChan)

		m.mu.Lock()
		for _, sub := range m.subscribers {
			close(sub)
		}
		m.subscribers = nil
		m.mu.Unlock()

		if err := m.ticker.Close(); err != nil {
			errs = multierror.Append(errs, err)
		}
		if m.watcher != nil {
			if err := m.watcher.Close(); err != nil {
				errs = multierror.Append(errs, fmt.Errorf("failed to close watcher: %w", err))
			}
		}
		if m.backend != nil {
			if err := m.backend.Close(); err != nil && !errors.Is(err, context.Canceled) {
				errs = multierror.Append(errs, fmt.Errorf("failed to close backend: %w", err))
			}
		}
	})

	return errs.ErrorOrNil()
}
