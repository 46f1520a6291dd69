// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"slices"
	"sync"
	"time"

	"github.com/j-veylop/warehouse-finops-tui/internal/dashboards"
	"github.com/j-veylop/warehouse-finops-tui/internal/models"
	"github.com/j-veylop/warehouse-finops-tui/internal/period"
	"github.com/j-veylop/warehouse-finops-tui/internal/services"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"

	maxNotifications = 10
)

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	case NotificationLoading:
		return "loading"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	CreatedAt time.Time
	ID        string
	Message   string
	Duration  time.Duration
	Type      NotificationType
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// entityList is the selectable entities of one scope.
type entityList struct {
	warning  string
	names    []string
	selected int
	loaded   bool
}

// State is the selection and rendered reports shared by the tabs.
type State struct {
	mu sync.RWMutex

	picker   *period.Picker
	reports  map[dashboards.View]*services.ViewReport
	loading  map[dashboards.View]bool
	entities map[models.Scope]*entityList

	lastUpdated time.Time

	notifications   []Notification
	notificationSeq int
}

// NewState creates the state with preset selected.
func NewState(preset period.Preset) *State {
	return newStateWithPicker(period.NewPicker(preset))
}

func newStateWithPicker(p *period.Picker) *State {
	return &State{
		picker:   p,
		reports:  make(map[dashboards.View]*services.ViewReport),
		loading:  make(map[dashboards.View]bool),
		entities: map[models.Scope]*entityList{models.ScopeUser: {}, models.ScopeWarehouse: {}},
	}
}

// Range returns the selected date range.
func (s *State) Range() period.Range {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.picker.Range()
}

// Preset returns the selected preset.
func (s *State) Preset() period.Preset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.picker.Preset()
}

// CyclePreset moves to the next (step > 0) or previous preset, skipping
// Custom, which is only entered through SetCustomRange.
func (s *State) CyclePreset(step int) period.Range {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.picker.Preset()
	for {
		if step > 0 {
			p = p.Next()
		} else {
			p = p.Prev()
		}
		if p != period.Custom {
			break
		}
	}
	return s.picker.Select(p)
}

// SetCustomRange applies an explicit range. On error the previous range
// stays selected.
func (s *State) SetCustomRange(start, end string) (period.Range, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.picker.SetCustom(start, end)
}

// RollRange advances a preset range past midnight. It reports whether the
// range moved.
func (s *State) RollRange() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.picker.Roll()
}

// SetEntities replaces the entity list of scope. The previous selection is
// kept when still listed; otherwise the first name is selected.
func (s *State) SetEntities(scope models.Scope, e services.Entities) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, ok := s.entities[scope]
	if !ok {
		return
	}
	prev := ""
	if list.selected < len(list.names) {
		prev = list.names[list.selected]
	}

	list.names = e.Names
	list.warning = e.Warning
	list.loaded = true
	list.selected = max(slices.Index(e.Names, prev), 0)
}

// EntitiesLoaded reports whether the entity list of scope has arrived.
func (s *State) EntitiesLoaded(scope models.Scope) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list, ok := s.entities[scope]
	return ok && list.loaded
}

// Entities returns the entity names of scope.
func (s *State) Entities(scope models.Scope) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list, ok := s.entities[scope]
	if !ok {
		return nil
	}
	return slices.Clone(list.names)
}

// EntityWarning returns the empty-list warning of scope.
func (s *State) EntityWarning(scope models.Scope) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if list, ok := s.entities[scope]; ok {
		return list.warning
	}
	return ""
}

// Entity returns the selected entity of scope, or "" when none is listed.
func (s *State) Entity(scope models.Scope) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list, ok := s.entities[scope]
	if !ok || list.selected >= len(list.names) {
		return ""
	}
	return list.names[list.selected]
}

// EntityPosition returns the 1-based index of the selection and the list
// length.
func (s *State) EntityPosition(scope models.Scope) (pos, total int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list, ok := s.entities[scope]
	if !ok || len(list.names) == 0 {
		return 0, 0
	}
	return list.selected + 1, len(list.names)
}

// CycleEntity moves the selection of scope by step, wrapping around.
func (s *State) CycleEntity(scope models.Scope, step int) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, ok := s.entities[scope]
	if !ok || len(list.names) == 0 {
		return ""
	}
	n := len(list.names)
	list.selected = ((list.selected+step)%n + n) % n
	return list.names[list.selected]
}

// Request returns the render request for v under the current selection.
func (s *State) Request(v dashboards.View) services.ViewRequest {
	return services.ViewRequest{View: v, Range: s.Range(), Entity: s.Entity(v.Scope())}
}

// Current reports whether r was rendered for the current selection.
func (s *State) Current(r *services.ViewReport) bool {
	if r == nil {
		return false
	}
	req := s.Request(r.View)
	return r.Range.Equal(req.Range) && r.Entity == req.Entity
}

// SetReport stores the rendered report of its view.
func (s *State) SetReport(r *services.ViewReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[r.View] = r
	s.lastUpdated = time.Now()
}

// Report returns the last report of v, which may be for an older selection.
func (s *State) Report(v dashboards.View) *services.ViewReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reports[v]
}

// NeedsRender reports whether v has no report for the current selection
// and none is being rendered.
func (s *State) NeedsRender(v dashboards.View) bool {
	if s.IsLoading(v) {
		return false
	}
	return !s.Current(s.Report(v))
}

// ClearReports drops every report so the next visit renders again.
func (s *State) ClearReports() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.reports)
}

// SetLoading marks v as rendering.
func (s *State) SetLoading(v dashboards.View, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading[v] = loading
}

// IsLoading reports whether v is rendering.
func (s *State) IsLoading(v dashboards.View) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading[v]
}

// AnyLoading returns true if any view is currently rendering.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.loading {
		if l {
			return true
		}
	}
	return false
}

// LastUpdated returns when the last report arrived.
func (s *State) LastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdated
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	id := time.Now().Format("20060102150405") + "-" + string(rune('A'+s.notificationSeq%26))

	s.notifications = append(s.notifications, Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	})

	if len(s.notifications) > maxNotifications {
		s.notifications = s.notifications[len(s.notifications)-maxNotifications:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notifications = slices.DeleteFunc(s.notifications, func(n Notification) bool {
		return n.ID == id
	})
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notifications = slices.DeleteFunc(s.notifications, func(n Notification) bool {
		return n.IsExpired()
	})
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	return active
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.RemoveNotification(LoadingNotificationID)
}
