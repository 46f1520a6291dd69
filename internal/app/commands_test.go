package app

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/warehouse-finops-tui/internal/dashboards"
	"github.com/j-veylop/warehouse-finops-tui/internal/models"
	"github.com/j-veylop/warehouse-finops-tui/internal/period"
	"github.com/j-veylop/warehouse-finops-tui/internal/services"
)

func TestTickCmd(t *testing.T) {
	if tickCmd(DefaultTickInterval) == nil {
		t.Error("tickCmd returned nil")
	}
	if defaultTickCmd() == nil {
		t.Error("defaultTickCmd returned nil")
	}
}

func TestNotifyCmds(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string) tea.Cmd
		want NotificationType
	}{
		{"Success", notifySuccessCmd, NotificationSuccess},
		{"Error", notifyErrorCmd, NotificationError},
		{"Warning", notifyWarningCmd, NotificationWarning},
		{"Info", notifyInfoCmd, NotificationInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, ok := tt.fn("test")().(AddNotificationMsg)
			if !ok {
				t.Fatal("expected AddNotificationMsg")
			}
			if msg.Type != tt.want || msg.Message != "test" || msg.Duration <= 0 {
				t.Errorf("msg = %+v", msg)
			}
		})
	}
}

func TestRenderViewCmd(t *testing.T) {
	svc := newFakeServices()
	req := services.ViewRequest{View: dashboards.ViewUser, Range: period.Last(7, period.Date(2024, 3, 10)), Entity: "ALICE"}

	msg, ok := renderViewCmd(svc, req)().(ReportLoadedMsg)
	if !ok {
		t.Fatal("expected ReportLoadedMsg")
	}
	if msg.View != dashboards.ViewUser || msg.Report.Entity != "ALICE" {
		t.Errorf("msg = %+v", msg)
	}
	if len(svc.requests) != 1 || !svc.requests[0].Range.Equal(req.Range) {
		t.Errorf("requests = %+v", svc.requests)
	}
}

func TestLoadEntitiesCmd(t *testing.T) {
	svc := newFakeServices()
	msg := loadEntitiesCmd(svc, models.ScopeUser)().(EntitiesLoadedMsg)
	if msg.Error != nil || len(msg.Entities.Names) != 2 || msg.Scope != models.ScopeUser {
		t.Errorf("msg = %+v", msg)
	}

	svc.entityErr = errors.New("down")
	msg = loadEntitiesCmd(svc, models.ScopeWarehouse)().(EntitiesLoadedMsg)
	if msg.Error == nil {
		t.Error("expected error")
	}
}

func TestPrefetchAndInvalidateCmds(t *testing.T) {
	svc := newFakeServices()
	svc.prefetchErr = errors.New("partial")

	msg := prefetchCmd(svc, period.Last(30, period.Date(2024, 3, 31)))().(PrefetchDoneMsg)
	if msg.Error == nil || len(svc.prefetched) != 1 {
		t.Errorf("prefetch msg = %+v, calls = %d", msg, len(svc.prefetched))
	}

	if invalidateCmd(svc, "manual refresh")() != nil {
		t.Error("invalidate should not produce a message")
	}
	if len(svc.invalidated) != 1 {
		t.Errorf("invalidated = %v", svc.invalidated)
	}
}

func TestServiceSubscriptionCmds(t *testing.T) {
	svc := newFakeServices()
	sub, ok := subscribeToServicesCmd(svc)().(SubscriptionEventMsg)
	if !ok || sub.Channel == nil {
		t.Fatal("expected subscription channel")
	}

	sub.Channel <- services.ViewInvalidatedEvent{Reason: "auto refresh"}
	msg, ok := waitForServiceEventCmd(sub.Channel)().(ServiceEventMsg)
	if !ok {
		t.Fatal("expected ServiceEventMsg")
	}
	if e, ok := msg.Event.(services.ViewInvalidatedEvent); !ok || e.Reason != "auto refresh" {
		t.Errorf("event = %+v", msg.Event)
	}

	close(sub.Channel)
	if waitForServiceEventCmd(sub.Channel)() != nil {
		t.Error("closed channel should yield nil")
	}
}
