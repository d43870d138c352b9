package app

import (
	"errors"
	"testing"
	"time"

	"github.com/j-veylop/netmeter/internal/models"
	"github.com/j-veylop/netmeter/internal/report"
)

func TestNewState(t *testing.T) {
	s := NewState()
	if s == nil {
		t.Fatal("NewState returned nil")
	}
	if len(s.Profiles) != 0 {
		t.Error("Profiles should be empty")
	}
	if !s.Loading.Initial {
		t.Error("Initial loading should be true")
	}
}

func TestState_SetLoading(t *testing.T) {
	s := NewState()

	s.SetLoading("profiles", true)
	if !s.Loading.Profiles {
		t.Error("Profiles loading should be true")
	}

	s.SetLoading("profiles", false)
	if !s.AnyLoading() {
		t.Error("AnyLoading should be true (Initial is true)")
	}

	s.SetLoading("initial", false)
	if s.AnyLoading() {
		t.Error("AnyLoading should be false")
	}
	if resources := s.GetLoadingResources(); len(resources) != 0 {
		t.Errorf("GetLoadingResources should be empty, got %v", resources)
	}

	s.SetLoading("history", true)
	if resources := s.GetLoadingResources(); len(resources) != 1 || resources[0] != "history" {
		t.Errorf("GetLoadingResources should contain history, got %v", resources)
	}
}

func TestState_FetchGuard(t *testing.T) {
	s := NewState()

	if !s.BeginFetch() {
		t.Fatal("first BeginFetch should succeed")
	}
	if s.BeginFetch() {
		t.Error("second BeginFetch should be refused while in flight")
	}
	if !s.IsFetching() || !s.Loading.Fetch {
		t.Error("fetch should be marked in flight")
	}

	s.EndFetch()
	if s.IsFetching() {
		t.Error("EndFetch should clear the guard")
	}
	if !s.BeginFetch() {
		t.Error("BeginFetch should succeed after EndFetch")
	}
}

func TestState_Profiles(t *testing.T) {
	s := NewState()

	s.SetProfiles([]models.Profile{
		{Name: "cabin", Credentials: models.Credentials{Username: "alice"}},
		{Name: "deck", Credentials: models.Credentials{Username: "bob"}},
	})

	if s.GetProfileCount() != 2 {
		t.Errorf("GetProfileCount = %d, want 2", s.GetProfileCount())
	}
	if s.GetSelectedProfile() != "cabin" {
		t.Errorf("selection should default to first profile, got %q", s.GetSelectedProfile())
	}

	p, ok := s.GetProfile("deck")
	if !ok || p.Username != "bob" {
		t.Errorf("GetProfile(deck) = %+v, %v", p, ok)
	}

	s.SetSelectedProfile("deck")
	s.SetResult("cabin", &report.UsageReport{}, nil)

	s.SetProfiles([]models.Profile{{Name: "deck"}})
	if s.GetSelectedProfile() != "deck" {
		t.Error("valid selection should be kept")
	}
	if _, ok := s.GetResult("cabin"); ok {
		t.Error("results of removed profiles should be dropped")
	}

	s.SetProfiles(nil)
	if s.GetSelectedProfile() != "" {
		t.Error("selection should be cleared when no profiles remain")
	}

	profiles := s.GetProfiles()
	if len(profiles) != 0 {
		t.Errorf("GetProfiles = %v", profiles)
	}
}

func TestState_Results(t *testing.T) {
	s := NewState()
	rep := &report.UsageReport{TotalBytes: 42}
	boom := errors.New("boom")

	s.SetResult("b", rep, nil)
	s.SetResult("a", nil, boom)

	r, ok := s.GetResult("b")
	if !ok || r.Report != rep || r.Err != nil {
		t.Errorf("GetResult(b) = %+v", r)
	}
	if r, _ := s.GetResult("a"); !errors.Is(r.Err, boom) {
		t.Errorf("GetResult(a).Err = %v", r.Err)
	}
	if names := s.ResultProfiles(); len(names) != 2 || names[0] != "a" {
		t.Errorf("ResultProfiles = %v", names)
	}
	if s.GetLastUpdated().IsZero() {
		t.Error("LastUpdated should be set")
	}
}

func TestState_Statuses(t *testing.T) {
	s := NewState()

	s.SetStatuses(map[string]models.ProfileStatus{"cabin": {Profile: "cabin", Status: "Active"}})
	if st, ok := s.GetStatus("cabin"); !ok || st.Status != "Active" {
		t.Errorf("GetStatus = %+v, %v", st, ok)
	}

	s.SetStatuses(nil)
	if _, ok := s.GetStatus("cabin"); ok {
		t.Error("nil statuses should clear the map")
	}
}

func TestState_Notifications(t *testing.T) {
	s := NewState()

	id := s.AddNotification(NotificationInfo, "test", time.Minute)
	if len(s.GetNotifications()) != 1 {
		t.Error("should have 1 notification")
	}

	s.RemoveNotification(id)
	if len(s.GetNotifications()) != 0 {
		t.Error("should have 0 notifications")
	}

	s.AddNotification(NotificationError, "expired", time.Nanosecond)
	time.Sleep(time.Millisecond)
	s.ClearExpiredNotifications()
	if len(s.GetNotifications()) != 0 {
		t.Error("expired notification should be cleared")
	}

	for i := 0; i < 15; i++ {
		s.AddNotification(NotificationInfo, "msg", time.Minute)
	}
	if n := len(s.GetNotifications()); n != maxNotifications {
		t.Errorf("notifications = %d, want %d", n, maxNotifications)
	}

	s.ClearAllNotifications()
	if len(s.GetNotifications()) != 0 {
		t.Error("ClearAllNotifications should remove everything")
	}
}

func TestState_LoadingNotification(t *testing.T) {
	s := NewState()

	s.SetLoadingNotification("Loading...")
	s.SetLoadingNotification("Fetching...")

	notifs := s.GetNotifications()
	if len(notifs) != 1 {
		t.Fatalf("expected a single loading notification, got %d", len(notifs))
	}
	if notifs[0].Message != "Fetching..." || notifs[0].Type != NotificationLoading {
		t.Errorf("unexpected notification %+v", notifs[0])
	}

	s.ClearLoadingNotification()
	if len(s.GetNotifications()) != 0 {
		t.Error("loading notification should be cleared")
	}
}

func TestNotificationType_String(t *testing.T) {
	tests := []struct {
		typ  NotificationType
		want string
	}{
		{NotificationSuccess, "success"},
		{NotificationError, "error"},
		{NotificationWarning, "warning"},
		{NotificationInfo, "info"},
		{NotificationLoading, "loading"},
		{NotificationType(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.typ, got, tt.want)
		}
	}
}

func TestState_TimeSinceUpdate(t *testing.T) {
	s := NewState()
	if s.TimeSinceUpdate() != 0 {
		t.Error("TimeSinceUpdate should be 0 before any update")
	}
	s.SetProfiles(nil)
	if s.TimeSinceUpdate() < 0 {
		t.Error("TimeSinceUpdate should not be negative")
	}
}
