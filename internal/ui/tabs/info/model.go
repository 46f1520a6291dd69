// Package info provides the tab showing configuration and build details.
package info

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/warehouse-finops-tui/internal/app"
	"github.com/j-veylop/warehouse-finops-tui/internal/config"
	"github.com/j-veylop/warehouse-finops-tui/internal/services"
)

const (
	statusTimeout = 10 * time.Second
	// statusMaxAge bounds how stale the mirror card gets while the tab is open.
	statusMaxAge = 30 * time.Second
)

// MirrorReader reports what the local mirror holds.
type MirrorReader interface {
	MirrorStatus(ctx context.Context) (services.MirrorStatus, error)
}

// mirrorStatusMsg carries a finished status read.
type mirrorStatusMsg struct {
	status services.MirrorStatus
	err    error
}

// keyMap defines the key bindings specific to the info tab.
type keyMap struct {
	Up   key.Binding
	Down key.Binding
}

// defaultKeyMap returns the default key bindings for the info tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
	}
}

// Model represents the info tab state.
type Model struct {
	state    *app.State
	config   *config.Config
	source   string
	mirror   MirrorReader
	status   services.MirrorStatus
	err      error
	checked  time.Time
	loading  bool
	width    int
	height   int
	keys     keyMap
	viewport viewport.Model
}

// New creates a new info model. source describes the connected backend;
// mirror may be nil when there is no local mirror to report on.
func New(state *app.State, cfg *config.Config, source string, mirror MirrorReader) *Model {
	return &Model{
		state:    state,
		config:   cfg,
		source:   source,
		mirror:   mirror,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init loads the mirror status.
func (m *Model) Init() tea.Cmd {
	return m.loadStatus()
}

// Update handles messages for the info tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case mirrorStatusMsg:
		m.loading = false
		if errors.Is(msg.err, services.ErrNoMirror) {
			m.mirror = nil
			return m, nil
		}
		m.err = msg.err
		if msg.err == nil {
			m.status = msg.status
		}
		m.checked = time.Now()

	case app.ServiceEventMsg:
		if _, ok := msg.Event.(services.ViewInvalidatedEvent); ok {
			return m, m.loadStatus()
		}

	case app.TickMsg:
		if msg.Time.Sub(m.checked) >= statusMaxAge {
			return m, m.loadStatus()
		}
	}
	return m, nil
}

// loadStatus reads the mirror status in the background.
func (m *Model) loadStatus() tea.Cmd {
	if m.mirror == nil || m.loading {
		return nil
	}
	m.loading = true
	mirror := m.mirror
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), statusTimeout)
		defer cancel()
		status, err := mirror.MirrorStatus(ctx)
		return mirrorStatusMsg{status: status, err: err}
	}
}

// SetSize sets the available size for the info tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Up, m.keys.Down}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{{m.keys.Up, m.keys.Down}}
}
