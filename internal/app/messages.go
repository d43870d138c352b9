package app

import (
	"time"

	"github.com/j-veylop/netmeter/internal/models"
	"github.com/j-veylop/netmeter/internal/report"
	"github.com/j-veylop/netmeter/internal/services"
)

// TickMsg is sent periodically to expire notifications.
type TickMsg struct {
	Time time.Time
}

// AutoFetchMsg is sent every refresh interval when auto-refresh is enabled.
type AutoFetchMsg struct {
	Time time.Time
}

// StartLoadingMsg signals that a resource is starting to load.
type StartLoadingMsg struct {
	Resource string
}

// StopLoadingMsg signals that a resource has finished loading.
type StopLoadingMsg struct {
	Resource string
}

// ProfilesLoadedMsg contains the profile list and persisted statuses.
type ProfilesLoadedMsg struct {
	Statuses map[string]models.ProfileStatus
	Profiles []models.Profile
}

// FetchRequestMsg asks the root model to fetch a profile's report.
type FetchRequestMsg struct {
	Profile string
}

// ReportFetchedMsg carries the outcome of a fetch.
type ReportFetchedMsg struct {
	Err     error
	Report  *report.UsageReport
	Profile string
	Skipped bool
}

// SaveHistoryMsg asks the root model to append a report to the history file.
type SaveHistoryMsg struct {
	Report   *report.UsageReport
	Username string
}

// HistorySavedMsg carries the outcome of a history append.
type HistorySavedMsg struct {
	Err      error
	Path     string
	Username string
}

// SaveProfileMsg asks the root model to store a profile.
type SaveProfileMsg struct {
	Name        string
	Credentials models.Credentials
}

// ProfileSavedMsg carries the outcome of a profile save.
type ProfileSavedMsg struct {
	Err  error
	Name string
}

// DeleteProfileMsg asks the root model to remove a profile.
type DeleteProfileMsg struct {
	Name string
}

// ProfileDeletedMsg carries the outcome of a profile deletion.
type ProfileDeletedMsg struct {
	Err  error
	Name string
}

// SelectedProfileChangedMsg signals that the selected profile in the UI changed.
type SelectedProfileChangedMsg struct {
	Name string
}

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

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

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

// QuitMsg requests the application to quit.
type QuitMsg struct{}
