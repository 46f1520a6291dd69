// Package app implements the main Bubble Tea application with tab-based navigation.
package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/warehouse-finops-tui/internal/dashboards"
	"github.com/j-veylop/warehouse-finops-tui/internal/models"
	"github.com/j-veylop/warehouse-finops-tui/internal/period"
	"github.com/j-veylop/warehouse-finops-tui/internal/services"
	"github.com/j-veylop/warehouse-finops-tui/internal/ui/styles"
)

// TabID represents the identifier for a tab in the application.
type TabID int

const (
	// TabOverview is the ID for the account overview tab.
	TabOverview TabID = iota
	// TabUser is the ID for the User 360 tab.
	TabUser
	// TabWarehouse is the ID for the warehouse insights tab.
	TabWarehouse
	// TabInfo is the ID for the info tab.
	TabInfo
)

// String returns the string representation of the TabID.
func (t TabID) String() string {
	switch t {
	case TabOverview:
		return "Overview"
	case TabUser:
		return "User 360"
	case TabWarehouse:
		return "Warehouse"
	case TabInfo:
		return "Info"
	default:
		return "Unknown"
	}
}

// View returns the dashboard view shown by the tab.
func (t TabID) View() (dashboards.View, bool) {
	switch t {
	case TabOverview:
		return dashboards.ViewOverview, true
	case TabUser:
		return dashboards.ViewUser, true
	case TabWarehouse:
		return dashboards.ViewWarehouse, true
	default:
		return 0, false
	}
}

// Tab defines the interface that all tabs must implement.
type Tab interface {
	// Init initializes the tab and returns any initial commands.
	Init() tea.Cmd

	// Update handles messages and returns the updated tab and any commands.
	Update(msg tea.Msg) (Tab, tea.Cmd)

	// View renders the tab content.
	View() string

	// SetSize sets the available size for the tab.
	SetSize(width, height int)

	// ShortHelp returns key bindings for the short help view.
	ShortHelp() []key.Binding

	// FullHelp returns key bindings for the full help view.
	FullHelp() [][]key.Binding
}

// KeyMap defines the keybindings for the application.
type KeyMap struct {
	Tab1        key.Binding
	Tab2        key.Binding
	Tab3        key.Binding
	Tab4        key.Binding
	NextTab     key.Binding
	PrevTab     key.Binding
	NextPreset  key.Binding
	PrevPreset  key.Binding
	CustomRange key.Binding
	NextEntity  key.Binding
	PrevEntity  key.Binding
	Refresh     key.Binding
	Help        key.Binding
	Quit        key.Binding
	Up          key.Binding
	Down        key.Binding
	Enter       key.Binding
	Escape      key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Home        key.Binding
	End         key.Binding
	SwitchFocus key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	km := KeyMap{}
	km = setTabKeys(km)
	km = setActionKeys(km)
	km = setSelectionKeys(km)
	km = setNavigationKeys(km)
	return km
}

func setTabKeys(k KeyMap) KeyMap {
	k.Tab1 = key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "overview"))
	k.Tab2 = key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "user 360"))
	k.Tab3 = key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "warehouse"))
	k.Tab4 = key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "info"))
	k.NextTab = key.NewBinding(key.WithKeys("tab", "l", "right"), key.WithHelp("tab/→", "next tab"))
	k.PrevTab = key.NewBinding(key.WithKeys("shift+tab", "h", "left"), key.WithHelp("shift+tab/←", "prev tab"))
	return k
}

func setActionKeys(k KeyMap) KeyMap {
	k.Refresh = key.NewBinding(key.WithKeys("r", "ctrl+r"), key.WithHelp("r", "refresh"))
	k.Help = key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help"))
	k.Quit = key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit"))
	return k
}

func setSelectionKeys(k KeyMap) KeyMap {
	k.NextPreset = key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next range"))
	k.PrevPreset = key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev range"))
	k.CustomRange = key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "custom range"))
	k.NextEntity = key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next user/warehouse"))
	k.PrevEntity = key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "prev user/warehouse"))
	return k
}

func setNavigationKeys(k KeyMap) KeyMap {
	k.Up = key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up"))
	k.Down = key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down"))
	k.Enter = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply"))
	k.Escape = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel"))
	k.PageUp = key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up"))
	k.PageDown = key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down"))
	k.Home = key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("home", "go to top"))
	k.End = key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("end", "go to bottom"))
	k.SwitchFocus = key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "switch field"))
	return k
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Refresh, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab1, k.Tab2, k.Tab3, k.Tab4},
		{k.NextTab, k.PrevTab},
		{k.NextPreset, k.PrevPreset, k.CustomRange},
		{k.NextEntity, k.PrevEntity},
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Refresh, k.Help, k.Quit},
	}
}

// Styles defines the application styles.
type Styles struct {
	// Tab bar styles
	TabBar      lipgloss.Style
	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style
	StatusBar   lipgloss.Style

	// Notification styles
	NotificationSuccess lipgloss.Style
	NotificationError   lipgloss.Style
	NotificationWarning lipgloss.Style
	NotificationInfo    lipgloss.Style

	// Content styles
	Content lipgloss.Style
	Help    lipgloss.Style
	Spinner lipgloss.Style
	Toast   lipgloss.Style

	// Common styles
	Title     lipgloss.Style
	Subtle    lipgloss.Style
	Highlight lipgloss.Style
	Error     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
}

// DefaultStyles returns the default application styles. They follow the
// theme, so call it after styles.ApplyTheme.
func DefaultStyles() Styles {
	subtle := lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}
	highlight := styles.Primary
	success := lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#04B575"}
	warning := lipgloss.AdaptiveColor{Light: "#FF8C00", Dark: "#FF8C00"}
	errorColor := lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"}
	info := lipgloss.AdaptiveColor{Light: "#0087D7", Dark: "#5FAFFF"}

	s := Styles{}
	s.TabBar = lipgloss.NewStyle().Padding(0, 1).BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).BorderForeground(subtle)
	s.ActiveTab = lipgloss.NewStyle().Bold(true).Foreground(highlight).Padding(0, 2)
	s.InactiveTab = lipgloss.NewStyle().Foreground(subtle).Padding(0, 2)
	s.StatusBar = lipgloss.NewStyle().Foreground(styles.TextSecondary).Padding(0, 2)

	s.NotificationSuccess = lipgloss.NewStyle().Foreground(success).Padding(0, 1)
	s.NotificationError = lipgloss.NewStyle().Foreground(errorColor).Bold(true).Padding(0, 1)
	s.NotificationWarning = lipgloss.NewStyle().Foreground(warning).Padding(0, 1)
	s.NotificationInfo = lipgloss.NewStyle().Foreground(info).Padding(0, 1)

	s.Content = lipgloss.NewStyle().Padding(1, 2)
	s.Help = lipgloss.NewStyle().Foreground(subtle).Padding(0, 1)
	s.Spinner = lipgloss.NewStyle().Foreground(highlight)
	s.Toast = styles.ToastStyle

	s.Title = lipgloss.NewStyle().Bold(true).Foreground(highlight)
	s.Subtle = lipgloss.NewStyle().Foreground(subtle)
	s.Highlight = lipgloss.NewStyle().Foreground(highlight)
	s.Error = lipgloss.NewStyle().Foreground(errorColor)
	s.Success = lipgloss.NewStyle().Foreground(success)
	s.Warning = lipgloss.NewStyle().Foreground(warning)

	return s
}

// rangeForm is the custom date range editor.
type rangeForm struct {
	inputs [2]textinput.Model
	focus  int
	active bool
}

func newRangeForm() rangeForm {
	var f rangeForm
	for i, label := range []string{"Start", "End"} {
		ti := textinput.New()
		ti.Placeholder = "YYYY-MM-DD"
		ti.Prompt = fmt.Sprintf("%-6s ", label)
		ti.CharLimit = 10
		ti.Width = 12
		f.inputs[i] = ti
	}
	return f
}

// open shows the form prefilled with rng.
func (f *rangeForm) open(rng period.Range) tea.Cmd {
	f.active = true
	f.focus = 0
	f.inputs[0].SetValue(rng.Start.Format(period.Layout))
	f.inputs[1].SetValue(rng.End.Format(period.Layout))
	f.inputs[1].Blur()
	return f.inputs[0].Focus()
}

func (f *rangeForm) close() {
	f.active = false
	f.inputs[0].Blur()
	f.inputs[1].Blur()
}

func (f *rangeForm) switchFocus() tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = 1 - f.focus
	return f.inputs[f.focus].Focus()
}

func (f *rangeForm) values() (start, end string) {
	return f.inputs[0].Value(), f.inputs[1].Value()
}

// Model is the main application model.
type Model struct {
	// Tab management
	activeTab TabID
	tabs      []Tab
	tabNames  []string

	// Shared state
	state    *State
	services Services
	keymap   KeyMap
	styles   Styles

	// UI components
	spinner spinner.Model
	form    rangeForm

	// entityPending marks scopes whose entity list is being loaded.
	entityPending map[models.Scope]bool

	// Window dimensions
	width  int
	height int

	// UI state
	showHelp bool
	ready    bool

	// Service subscription
	eventChannel chan services.ServiceEvent
}

// NewModel initializes a new application model showing preset.
func NewModel(svc Services, preset period.Preset) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	return &Model{
		activeTab:     TabOverview,
		tabNames:      []string{TabOverview.String(), TabUser.String(), TabWarehouse.String(), TabInfo.String()},
		tabs:          make([]Tab, 4),
		state:         NewState(preset),
		services:      svc,
		keymap:        DefaultKeyMap(),
		styles:        DefaultStyles(),
		spinner:       s,
		form:          newRangeForm(),
		entityPending: make(map[models.Scope]bool),
	}
}

// SetTabs sets the tabs for the model.
func (m *Model) SetTabs(tabs []Tab) {
	m.tabs = tabs
	if m.width > 0 && m.height > 0 {
		m.updateTabSizes()
	}
}

// GetState returns the application state.
func (m *Model) GetState() *State {
	return m.state
}

// GetKeyMap returns the key bindings.
func (m *Model) GetKeyMap() KeyMap {
	return m.keymap
}

// GetActiveTab returns the currently active tab ID.
func (m *Model) GetActiveTab() TabID {
	return m.activeTab
}

// IsReady returns true if the model is ready (window size received).
func (m *Model) IsReady() bool {
	return m.ready
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		defaultTickCmd(),
	}

	if m.services != nil {
		cmds = append(cmds,
			subscribeToServicesCmd(m.services),
			prefetchCmd(m.services, m.state.Range()),
			m.ensureRendered(),
		)
	}

	for _, tab := range m.tabs {
		if tab != nil {
			cmds = append(cmds, tab.Init())
		}
	}

	return tea.Batch(cmds...)
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.form.active {
		return m, m.handleFormKey(keyMsg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg, tea.KeyMsg, spinner.TickMsg:
		if cmd := m.handleTeaMsg(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}

	default:
		if appCmds := m.handleAppMsg(msg); len(appCmds) > 0 {
			cmds = append(cmds, appCmds...)
		}
	}

	if cmd := m.updateActiveTab(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleTeaMsg(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleWindowSize(msg)
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case spinner.TickMsg:
		return m.handleSpinnerTick(msg)
	}
	return nil
}

func (m *Model) handleAppMsg(msg tea.Msg) []tea.Cmd {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case TickMsg:
		cmds = append(cmds, m.handleTick()...)
	case SubscriptionEventMsg:
		m.eventChannel = msg.Channel
		cmds = append(cmds, waitForServiceEventCmd(m.eventChannel))
	case ServiceEventMsg:
		cmds = append(cmds, m.handleServiceEventMsg(msg)...)
	case ReportLoadedMsg:
		cmds = append(cmds, m.handleReportLoaded(msg)...)
	case EntitiesLoadedMsg:
		cmds = append(cmds, m.handleEntitiesLoaded(msg)...)
	case PrefetchDoneMsg:
		if msg.Error != nil {
			cmds = append(cmds, notifyWarningCmd(fmt.Sprintf("Prefetch incomplete: %v", msg.Error)))
		}
	case AddNotificationMsg:
		cmds = append(cmds, m.handleAddNotification(msg)...)
	case RemoveNotificationMsg:
		m.state.RemoveNotification(msg.ID)
	case ErrorMsg:
		text := msg.Error.Error()
		if msg.Context != "" {
			text = msg.Context + ": " + text
		}
		cmds = append(cmds, notifyErrorCmd(text))
	case TabSwitchMsg:
		cmds = append(cmds, m.switchTab(msg.Tab))
	case ToggleHelpMsg:
		m.showHelp = !m.showHelp
	}
	return cmds
}

func (m *Model) handleWindowSize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true
	m.updateTabSizes()
}

func (m *Model) handleSpinnerTick(msg spinner.TickMsg) tea.Cmd {
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return cmd
}

func (m *Model) handleTick() []tea.Cmd {
	m.state.ClearExpiredNotifications()
	cmds := []tea.Cmd{defaultTickCmd()}
	if m.state.RollRange() {
		cmds = append(cmds, m.selectionChanged()...)
	}
	return cmds
}

func (m *Model) handleServiceEventMsg(msg ServiceEventMsg) []tea.Cmd {
	var cmds []tea.Cmd
	cmds = append(cmds, m.handleServiceEvent(msg.Event)...)
	if m.eventChannel != nil {
		cmds = append(cmds, waitForServiceEventCmd(m.eventChannel))
	}
	return cmds
}

func (m *Model) handleServiceEvent(event services.ServiceEvent) []tea.Cmd {
	switch e := event.(type) {
	case services.ViewInvalidatedEvent:
		m.state.ClearReports()
		cmds := []tea.Cmd{notifyInfoCmd(fmt.Sprintf("Refreshing (%s)", e.Reason))}
		for _, scope := range []models.Scope{models.ScopeUser, models.ScopeWarehouse} {
			if m.state.EntitiesLoaded(scope) && !m.entityPending[scope] {
				m.entityPending[scope] = true
				cmds = append(cmds, loadEntitiesCmd(m.services, scope))
			}
		}
		return append(cmds, m.ensureRendered())

	case services.CostAlertEvent:
		return []tea.Cmd{notifyWarningCmd(fmt.Sprintf("Estimated cost for %s is up %.1f%%", e.Range, e.Delta*100))}

	case services.ErrorEvent:
		return []tea.Cmd{notifyErrorCmd(fmt.Sprintf("[%s] %v", e.Service, e.Error))}
	}
	return nil
}

func (m *Model) handleReportLoaded(msg ReportLoadedMsg) []tea.Cmd {
	m.state.SetLoading(msg.View, false)
	if !m.state.AnyLoading() {
		m.state.ClearLoadingNotification()
	}
	if msg.Report == nil {
		return nil
	}

	// A report for an older selection is dropped and the active view
	// rendered again.
	if !m.state.Current(msg.Report) {
		return []tea.Cmd{m.ensureRendered()}
	}
	m.state.SetReport(msg.Report)

	var cmds []tea.Cmd
	if n := warningCount(msg.Report); n > 0 {
		cmds = append(cmds, notifyWarningCmd(fmt.Sprintf("%s rendered with %d warning(s)", msg.Report.Title, n)))
	}
	return cmds
}

func warningCount(r *services.ViewReport) int {
	n := len(r.Recommendations.Warnings)
	for _, metric := range r.Metrics {
		if metric.Warning != "" {
			n++
		}
	}
	for _, c := range r.Charts {
		n += len(c.Warnings)
	}
	return n
}

func (m *Model) handleEntitiesLoaded(msg EntitiesLoadedMsg) []tea.Cmd {
	delete(m.entityPending, msg.Scope)

	var cmds []tea.Cmd
	entities := msg.Entities
	if msg.Error != nil {
		entities = services.Entities{Warning: msg.Error.Error()}
		cmds = append(cmds, notifyErrorCmd(fmt.Sprintf("Failed to list %ss: %v", msg.Scope, msg.Error)))
	}
	m.state.SetEntities(msg.Scope, entities)
	return append(cmds, m.ensureRendered())
}

func (m *Model) handleAddNotification(msg AddNotificationMsg) []tea.Cmd {
	var cmds []tea.Cmd
	id := m.state.AddNotification(msg.Type, msg.Message, msg.Duration)
	if msg.Duration > 0 {
		cmds = append(cmds, clearNotificationCmd(id, msg.Duration))
	}
	return cmds
}

// ensureRendered starts whatever the active view still needs: its entity
// list first, then the render itself.
func (m *Model) ensureRendered() tea.Cmd {
	if m.services == nil {
		return nil
	}
	v, ok := m.activeTab.View()
	if !ok {
		return nil
	}

	scope := v.Scope()
	if scope != models.ScopeAccount && !m.state.EntitiesLoaded(scope) {
		if m.entityPending[scope] {
			return nil
		}
		m.entityPending[scope] = true
		return loadEntitiesCmd(m.services, scope)
	}

	if !m.state.NeedsRender(v) {
		return nil
	}
	m.state.SetLoading(v, true)
	m.state.SetLoadingNotification(fmt.Sprintf("Rendering %s...", v.Title()))
	return renderViewCmd(m.services, m.state.Request(v))
}

// selectionChanged tells the tabs about a new range or entity and renders
// the active view for it.
func (m *Model) selectionChanged() []tea.Cmd {
	return []tea.Cmd{
		func() tea.Msg { return SelectionChangedMsg{} },
		m.ensureRendered(),
	}
}

func (m *Model) rangeChanged() tea.Cmd {
	cmds := m.selectionChanged()
	if m.services != nil {
		cmds = append(cmds, prefetchCmd(m.services, m.state.Range()))
	}
	return tea.Batch(cmds...)
}

func (m *Model) switchTab(t TabID) tea.Cmd {
	if int(t) < 0 || int(t) >= len(m.tabs) {
		return nil
	}
	m.activeTab = t
	m.updateTabSizes()
	return m.ensureRendered()
}

func (m *Model) updateActiveTab(msg tea.Msg) tea.Cmd {
	if int(m.activeTab) < len(m.tabs) && m.tabs[m.activeTab] != nil {
		var cmd tea.Cmd
		m.tabs[m.activeTab], cmd = m.tabs[m.activeTab].Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) updateTabSizes() {
	contentHeight := m.height - 5
	contentHeight = max(0, contentHeight)

	for _, tab := range m.tabs {
		if tab != nil {
			tab.SetSize(m.width, contentHeight)
		}
	}
}

// handleKeyMsg handles keyboard input.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		return m.quit()

	case key.Matches(msg, m.keymap.Help):
		m.showHelp = !m.showHelp
		return nil

	case key.Matches(msg, m.keymap.Escape):
		m.showHelp = false
		return nil
	}

	if m.showHelp {
		return nil
	}

	switch {
	case key.Matches(msg, m.keymap.Tab1):
		return m.switchTab(TabOverview)
	case key.Matches(msg, m.keymap.Tab2):
		return m.switchTab(TabUser)
	case key.Matches(msg, m.keymap.Tab3):
		return m.switchTab(TabWarehouse)
	case key.Matches(msg, m.keymap.Tab4):
		return m.switchTab(TabInfo)

	case key.Matches(msg, m.keymap.NextTab):
		return m.switchTab(TabID((int(m.activeTab) + 1) % len(m.tabs)))

	case key.Matches(msg, m.keymap.PrevTab):
		return m.switchTab(TabID((int(m.activeTab) - 1 + len(m.tabs)) % len(m.tabs)))

	case key.Matches(msg, m.keymap.NextPreset):
		m.state.CyclePreset(1)
		return m.rangeChanged()

	case key.Matches(msg, m.keymap.PrevPreset):
		m.state.CyclePreset(-1)
		return m.rangeChanged()

	case key.Matches(msg, m.keymap.CustomRange):
		return m.form.open(m.state.Range())

	case key.Matches(msg, m.keymap.NextEntity):
		return m.cycleEntity(1)

	case key.Matches(msg, m.keymap.PrevEntity):
		return m.cycleEntity(-1)

	case key.Matches(msg, m.keymap.Refresh):
		if m.services != nil {
			return invalidateCmd(m.services, "manual refresh")
		}
	}

	return nil
}

func (m *Model) cycleEntity(step int) tea.Cmd {
	v, ok := m.activeTab.View()
	if !ok || v.Scope() == models.ScopeAccount {
		return nil
	}
	if m.state.CycleEntity(v.Scope(), step) == "" {
		return nil
	}
	return tea.Batch(m.selectionChanged()...)
}

// quit releases the service subscription and stops the program.
func (m *Model) quit() tea.Cmd {
	if m.services != nil && m.eventChannel != nil {
		m.services.Unsubscribe(m.eventChannel)
		m.eventChannel = nil
	}
	return tea.Quit
}

// handleFormKey routes keys to the custom range form while it is open.
func (m *Model) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m.quit()

	case key.Matches(msg, m.keymap.Escape):
		m.form.close()
		return nil

	case key.Matches(msg, m.keymap.SwitchFocus):
		return m.form.switchFocus()

	case key.Matches(msg, m.keymap.Enter):
		rng, err := m.state.SetCustomRange(m.form.values())
		if err != nil {
			return notifyErrorCmd(err.Error())
		}
		m.form.close()
		return tea.Batch(m.rangeChanged(), notifyInfoCmd("Range set to "+rng.String()))
	}

	var cmd tea.Cmd
	m.form.inputs[m.form.focus], cmd = m.form.inputs[m.form.focus].Update(msg)
	return cmd
}

// View renders the application UI.
func (m *Model) View() string {
	var b strings.Builder

	if m.width > 0 {
		b.WriteString(m.renderNavbar())
		b.WriteString("\n")
		b.WriteString(m.renderStatusBar())
		b.WriteString("\n")
	}

	if !m.ready {
		b.WriteString(m.styles.Content.Render(fmt.Sprintf("%s Loading...", m.spinner.View())))
		return b.String()
	}

	if int(m.activeTab) < len(m.tabs) && m.tabs[m.activeTab] != nil {
		b.WriteString(m.tabs[m.activeTab].View())
	} else {
		b.WriteString(m.renderPlaceholder())
	}

	mainView := b.String()

	switch {
	case m.form.active:
		mainView = m.overlayCentered(mainView, m.renderRangeForm())
	case m.showHelp:
		mainView = m.overlayCentered(mainView, m.renderHelp())
	}

	notifications := m.renderNotifications()

	if len(notifications) > 0 {
		return m.overlayToasts(mainView, notifications)
	}

	return mainView
}

func (m *Model) overlayCentered(mainView string, overlay string) string {
	mainLines := strings.Split(mainView, "\n")
	overlayLines := strings.Split(overlay, "\n")

	overlayHeight := len(overlayLines)
	overlayWidth := lipgloss.Width(overlay)

	y := max((m.height-overlayHeight)/2, 0)
	x := max((m.width-overlayWidth)/2, 0)

	for i, overlayLine := range overlayLines {
		mainY := y + i
		if mainY >= len(mainLines) {
			break
		}

		mainLine := mainLines[mainY]

		// Keep the cells left and right of the overlay.
		left := ansi.Truncate(mainLine, x, "")
		right := ansi.TruncateLeft(mainLine, x+overlayWidth, "")

		if lipgloss.Width(left) < x {
			left += strings.Repeat(" ", x-lipgloss.Width(left))
		}

		mainLines[mainY] = left + overlayLine + right
	}

	return strings.Join(mainLines, "\n")
}

func (m *Model) renderNavbar() string {
	var tabs []string

	for i, name := range m.tabNames {
		if TabID(i) == m.activeTab {
			tabs = append(tabs, m.styles.ActiveTab.Render(fmt.Sprintf("[%d] %s", i+1, name)))
		} else {
			tabs = append(tabs, m.styles.InactiveTab.Render(fmt.Sprintf(" %d  %s", i+1, name)))
		}
	}

	tabBar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	return m.styles.TabBar.Width(m.width).Render(tabBar)
}

// renderStatusBar shows the selected range and, on entity views, the
// selected user or warehouse.
func (m *Model) renderStatusBar() string {
	parts := []string{fmt.Sprintf("%s: %s", m.state.Preset(), m.state.Range())}

	if v, ok := m.activeTab.View(); ok && v.Scope() != models.ScopeAccount {
		scope := v.Scope()
		label := strings.ToUpper(scope.String()[:1]) + scope.String()[1:]
		if pos, total := m.state.EntityPosition(scope); total > 0 {
			parts = append(parts, fmt.Sprintf("%s: %s (%d/%d)", label, m.state.Entity(scope), pos, total))
		} else if m.state.EntitiesLoaded(scope) {
			parts = append(parts, label+": none")
		}
	}

	if t := m.state.LastUpdated(); !t.IsZero() {
		parts = append(parts, "updated "+t.Format("15:04:05"))
	}

	return m.styles.StatusBar.Render(ansi.Truncate(strings.Join(parts, "  |  "), max(m.width-4, 0), "…"))
}

func (m *Model) renderRangeForm() string {
	lines := []string{
		m.styles.Title.Render("Custom Date Range"),
		"",
		m.form.inputs[0].View(),
		m.form.inputs[1].View(),
		"",
		m.styles.Subtle.Render("tab switch field  enter apply  esc cancel"),
	}
	return styles.ModalContentStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderNotifications() []string {
	notifications := m.state.GetNotifications()
	if len(notifications) == 0 {
		return nil
	}

	var toasts []string
	for _, n := range notifications {
		var style lipgloss.Style
		var prefix string

		switch n.Type {
		case NotificationSuccess:
			style = m.styles.NotificationSuccess
			prefix = "[OK]"
		case NotificationError:
			style = m.styles.NotificationError
			prefix = "[ERR]"
		case NotificationWarning:
			style = m.styles.NotificationWarning
			prefix = "[WARN]"
		case NotificationInfo:
			style = m.styles.NotificationInfo
			prefix = "[INFO]"
		case NotificationLoading:
			style = m.styles.NotificationInfo
			prefix = m.spinner.View()
		}

		content := style.Render(fmt.Sprintf("%s %s", prefix, n.Message))
		toasts = append(toasts, m.styles.Toast.Render(content))
	}

	return toasts
}

func (m *Model) overlayToasts(mainView string, toasts []string) string {
	if len(toasts) == 0 {
		return mainView
	}

	toastStack := lipgloss.JoinVertical(lipgloss.Right, toasts...)
	toastLines := strings.Split(toastStack, "\n")
	mainLines := strings.Split(mainView, "\n")

	toastWidth := lipgloss.Width(toastStack)
	startX := max(m.width-toastWidth-2, 0)

	startY := 3

	for i, toastLine := range toastLines {
		lineIdx := startY + i
		if lineIdx >= len(mainLines) {
			break
		}

		mainLine := mainLines[lineIdx]
		mainLineWidth := lipgloss.Width(mainLine)

		if mainLineWidth < startX {
			padding := strings.Repeat(" ", startX-mainLineWidth)
			mainLines[lineIdx] = mainLine + padding + toastLine
		} else {
			truncated := ansi.Truncate(mainLine, startX, "")
			mainLines[lineIdx] = truncated + toastLine
		}
	}

	return strings.Join(mainLines, "\n")
}

func (m *Model) renderHelp() string {
	var lines []string

	lines = append(lines, m.styles.Title.Render("Keyboard Shortcuts"))
	lines = append(lines, "")

	lines = append(lines, m.styles.Highlight.Render("Navigation"))
	lines = append(lines, "  1-4        Switch tabs")
	lines = append(lines, "  Tab        Next tab")
	lines = append(lines, "  Shift+Tab  Previous tab")
	lines = append(lines, "  j/k, ↑/↓   Scroll")
	lines = append(lines, "")

	lines = append(lines, m.styles.Highlight.Render("Selection"))
	lines = append(lines, "  ] / [      Next/previous date range")
	lines = append(lines, "  c          Custom date range")
	lines = append(lines, "  n / p      Next/previous user or warehouse")
	lines = append(lines, "")

	lines = append(lines, m.styles.Highlight.Render("Actions"))
	lines = append(lines, "  r          Refresh data")
	lines = append(lines, "  ?          Toggle help")
	lines = append(lines, "  q/Ctrl+C   Quit")
	lines = append(lines, "")

	if int(m.activeTab) < len(m.tabs) && m.tabs[m.activeTab] != nil {
		tabHelp := m.tabs[m.activeTab].ShortHelp()
		if len(tabHelp) > 0 {
			lines = append(lines, m.styles.Highlight.Render(fmt.Sprintf("%s Tab", m.tabNames[m.activeTab])))
			for _, binding := range tabHelp {
				lines = append(lines, fmt.Sprintf("  %-10s %s", binding.Help().Key, binding.Help().Desc))
			}
			lines = append(lines, "")
		}
	}

	lines = append(lines, m.styles.Subtle.Render("Press ? or Esc to close"))

	return styles.HelpPanelStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderPlaceholder() string {
	content := fmt.Sprintf(
		"Tab %d: %s\n\n%s",
		m.activeTab+1,
		m.tabNames[m.activeTab],
		m.styles.Subtle.Render("This tab is not available."),
	)
	return m.styles.Content.Render(content)
}
