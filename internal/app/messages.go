package app

import (
	"time"

	"github.com/j-veylop/warehouse-finops-tui/internal/dashboards"
	"github.com/j-veylop/warehouse-finops-tui/internal/models"
	"github.com/j-veylop/warehouse-finops-tui/internal/services"
)

// TickMsg is sent periodically to expire toasts and roll the date range.
type TickMsg struct {
	Time time.Time
}

// ReportLoadedMsg carries a rendered view.
type ReportLoadedMsg struct {
	Report *services.ViewReport
	View   dashboards.View
}

// EntitiesLoadedMsg carries the selectable users or warehouses.
type EntitiesLoadedMsg struct {
	Error    error
	Entities services.Entities
	Scope    models.Scope
}

// PrefetchDoneMsg signals that the cache warm-up finished.
type PrefetchDoneMsg struct {
	Error error
}

// SelectionChangedMsg signals a new range or entity. Tabs reset their
// scroll position on it.
type SelectionChangedMsg struct{}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Message  string
	Duration time.Duration
	Type     NotificationType
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}
