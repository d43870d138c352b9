// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"sort"
	"sync"
	"time"

	"github.com/j-veylop/netmeter/internal/models"
	"github.com/j-veylop/netmeter/internal/report"
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

// LoadingState tracks loading states for different resources.
type LoadingState struct {
	Initial  bool
	Profiles bool
	Fetch    bool
	History  bool
}

// FetchResult is the latest outcome of fetching one profile in this session.
type FetchResult struct {
	FetchedAt time.Time
	Report    *report.UsageReport
	Err       error
}

// State is shared between the root model and the tabs.
type State struct {
	LastUpdated     time.Time
	Statuses        map[string]models.ProfileStatus
	results         map[string]FetchResult
	SelectedProfile string
	Profiles        []models.Profile
	notifications   []Notification
	Loading         LoadingState
	notificationSeq int
	mu              sync.RWMutex
	fetching        bool
}

// NewState creates an empty application state.
func NewState() *State {
	return &State{
		Profiles:      make([]models.Profile, 0),
		Statuses:      make(map[string]models.ProfileStatus),
		results:       make(map[string]FetchResult),
		notifications: make([]Notification, 0),
		Loading: LoadingState{
			Initial: true,
		},
	}
}

// SetLoading sets the loading state for a specific resource.
func (s *State) SetLoading(resource string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch resource {
	case "initial":
		s.Loading.Initial = loading
	case "profiles":
		s.Loading.Profiles = loading
	case "fetch":
		s.Loading.Fetch = loading
	case "history":
		s.Loading.History = loading
	}
}

// AnyLoading returns true if any resource is currently loading.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.Loading.Initial ||
		s.Loading.Profiles ||
		s.Loading.Fetch ||
		s.Loading.History
}

// IsInitialLoading returns true if initial data is still loading.
func (s *State) IsInitialLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Initial
}

// GetLoadingResources returns a list of currently loading resources.
func (s *State) GetLoadingResources() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var resources []string
	if s.Loading.Initial {
		resources = append(resources, "initial")
	}
	if s.Loading.Profiles {
		resources = append(resources, "profiles")
	}
	if s.Loading.Fetch {
		resources = append(resources, "fetch")
	}
	if s.Loading.History {
		resources = append(resources, "history")
	}
	return resources
}

// BeginFetch marks a fetch as in flight. It returns false when one already
// is, in which case the caller must not start another.
func (s *State) BeginFetch() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fetching {
		return false
	}
	s.fetching = true
	s.Loading.Fetch = true
	return true
}

// EndFetch clears the in-flight marker.
func (s *State) EndFetch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetching = false
	s.Loading.Fetch = false
}

// IsFetching reports whether a fetch is in flight.
func (s *State) IsFetching() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetching
}

// SetProfiles replaces the profile list and keeps the selection valid.
func (s *State) SetProfiles(profiles []models.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Profiles = profiles
	s.LastUpdated = time.Now()

	names := make(map[string]bool, len(profiles))
	for _, p := range profiles {
		names[p.Name] = true
	}
	for name := range s.results {
		if !names[name] {
			delete(s.results, name)
		}
	}

	if !names[s.SelectedProfile] {
		s.SelectedProfile = ""
		if len(profiles) > 0 {
			s.SelectedProfile = profiles[0].Name
		}
	}
}

// GetProfiles returns a copy of the profile list.
func (s *State) GetProfiles() []models.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profiles := make([]models.Profile, len(s.Profiles))
	copy(profiles, s.Profiles)
	return profiles
}

// GetProfileCount returns the number of profiles.
func (s *State) GetProfileCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.Profiles)
}

// GetProfile returns the named profile.
func (s *State) GetProfile(name string) (models.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.Profiles {
		if p.Name == name {
			return p, true
		}
	}
	return models.Profile{}, false
}

// SetSelectedProfile selects a profile by name.
func (s *State) SetSelectedProfile(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SelectedProfile = name
}

// GetSelectedProfile returns the selected profile name.
func (s *State) GetSelectedProfile() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.SelectedProfile
}

// SetStatuses replaces the persisted per-profile statuses.
func (s *State) SetStatuses(statuses map[string]models.ProfileStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if statuses == nil {
		statuses = make(map[string]models.ProfileStatus)
	}
	s.Statuses = statuses
}

// GetStatus returns the persisted status of a profile.
func (s *State) GetStatus(name string) (models.ProfileStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.Statuses[name]
	return st, ok
}

// SetResult records the outcome of a fetch.
func (s *State) SetResult(profile string, rep *report.UsageReport, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.results[profile] = FetchResult{FetchedAt: time.Now(), Report: rep, Err: err}
	s.LastUpdated = time.Now()
}

// GetResult returns the latest fetch outcome for a profile in this session.
func (s *State) GetResult(profile string) (FetchResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.results[profile]
	return r, ok
}

// ResultProfiles returns the names that have a fetch result, sorted.
func (s *State) ResultProfiles() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.results))
	for name := range s.results {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
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

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = activeNotifications(s.notifications)
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return activeNotifications(s.notifications)
}

func activeNotifications(all []Notification) []Notification {
	active := make([]Notification, 0, len(all))
	for _, n := range all {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	return active
}

// ClearAllNotifications removes all notifications.
func (s *State) ClearAllNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = make([]Notification, 0)
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

// GetLastUpdated returns the last time the state was updated.
func (s *State) GetLastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastUpdated
}

// TimeSinceUpdate returns the duration since the last update.
func (s *State) TimeSinceUpdate() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.LastUpdated.IsZero() {
		return 0
	}
	return time.Since(s.LastUpdated)
}
