package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/netmeter/internal/models"
	"github.com/j-veylop/netmeter/internal/report"
	"github.com/j-veylop/netmeter/internal/services"
)

const (
	// DefaultTickInterval is the default interval between ticks.
	DefaultTickInterval = 2 * time.Second

	// DefaultNotificationDuration is the default duration for notifications.
	DefaultNotificationDuration = 5 * time.Second

	// QuickNotificationDuration is for brief notifications.
	QuickNotificationDuration = 3 * time.Second

	// LongNotificationDuration is for important notifications.
	LongNotificationDuration = 10 * time.Second
)

// tickCmd returns a command that sends a TickMsg after the specified interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// defaultTickCmd returns a command that sends a TickMsg after the default interval.
func defaultTickCmd() tea.Cmd {
	return tickCmd(DefaultTickInterval)
}

// autoFetchCmd schedules the next automatic fetch. A non-positive interval
// disables it.
func autoFetchCmd(interval time.Duration) tea.Cmd {
	if interval <= 0 {
		return nil
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return AutoFetchMsg{Time: t}
	})
}

// loadProfilesCmd returns a command that loads profiles and their statuses.
func loadProfilesCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		return ProfilesLoadedMsg{
			Profiles: mgr.Profiles(),
			Statuses: mgr.ProfileStatuses(),
		}
	}
}

// fetchReportCmd fetches a report for a stored profile.
func fetchReportCmd(mgr *services.Manager, profile string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		rep, err := mgr.FetchProfile(ctx, profile)
		return ReportFetchedMsg{Profile: profile, Report: rep, Err: err}
	}
}

// saveHistoryCmd appends a report to the history file.
func saveHistoryCmd(mgr *services.Manager, rep *report.UsageReport, username string) tea.Cmd {
	return func() tea.Msg {
		err := mgr.SaveHistory(rep, username)
		return HistorySavedMsg{Path: mgr.HistoryPath(), Username: username, Err: err}
	}
}

// saveProfileCmd stores a profile.
func saveProfileCmd(mgr *services.Manager, name string, creds models.Credentials) tea.Cmd {
	return func() tea.Msg {
		err := mgr.SaveProfile(name, creds)
		return ProfileSavedMsg{Name: name, Err: err}
	}
}

// deleteProfileCmd removes a profile.
func deleteProfileCmd(mgr *services.Manager, name string) tea.Cmd {
	return func() tea.Msg {
		err := mgr.DeleteProfile(name)
		return ProfileDeletedMsg{Name: name, Err: err}
	}
}

// subscribeToServicesCmd returns a command that subscribes to service events.
func subscribeToServicesCmd(mgr *services.Manager) tea.Cmd {
	ch, _ := mgr.Subscribe()
	return func() tea.Msg {
		return SubscriptionEventMsg{Channel: ch}
	}
}

// waitForServiceEventCmd returns a command that waits for the next service event.
func waitForServiceEventCmd(ch <-chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

// clearNotificationCmd returns a command that removes a notification after a delay.
func clearNotificationCmd(id string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return RemoveNotificationMsg{ID: id}
	})
}

func notifyCmd(t NotificationType, message string, d time.Duration) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{Type: t, Message: message, Duration: d}
	}
}

// notifySuccessCmd returns a command that adds a success notification.
func notifySuccessCmd(message string) tea.Cmd {
	return notifyCmd(NotificationSuccess, message, DefaultNotificationDuration)
}

// notifyErrorCmd returns a command that adds an error notification.
func notifyErrorCmd(message string) tea.Cmd {
	return notifyCmd(NotificationError, message, LongNotificationDuration)
}

// notifyWarningCmd returns a command that adds a warning notification.
func notifyWarningCmd(message string) tea.Cmd {
	return notifyCmd(NotificationWarning, message, DefaultNotificationDuration)
}

// notifyInfoCmd returns a command that adds an info notification.
func notifyInfoCmd(message string) tea.Cmd {
	return notifyCmd(NotificationInfo, message, QuickNotificationDuration)
}

// Commands exposes message constructors to the tabs.
type Commands struct {
	manager *services.Manager
}

// NewCommands creates a new Commands instance.
func NewCommands(mgr *services.Manager) *Commands {
	return &Commands{manager: mgr}
}

// Tick returns a tick command with the specified interval.
func (c *Commands) Tick(interval time.Duration) tea.Cmd {
	return tickCmd(interval)
}

// RequestFetch asks the root model to fetch a profile.
func (c *Commands) RequestFetch(profile string) tea.Cmd {
	return func() tea.Msg { return FetchRequestMsg{Profile: profile} }
}

// RequestSaveHistory asks the root model to save a report to history.
func (c *Commands) RequestSaveHistory(rep *report.UsageReport, username string) tea.Cmd {
	return func() tea.Msg { return SaveHistoryMsg{Report: rep, Username: username} }
}

// RequestSaveProfile asks the root model to store a profile.
func (c *Commands) RequestSaveProfile(name string, creds models.Credentials) tea.Cmd {
	return func() tea.Msg { return SaveProfileMsg{Name: name, Credentials: creds} }
}

// RequestDeleteProfile asks the root model to remove a profile.
func (c *Commands) RequestDeleteProfile(name string) tea.Cmd {
	return func() tea.Msg { return DeleteProfileMsg{Name: name} }
}

// NotifySuccess returns a command that adds a success notification.
func (c *Commands) NotifySuccess(message string) tea.Cmd {
	return notifySuccessCmd(message)
}

// NotifyError returns a command that adds an error notification.
func (c *Commands) NotifyError(message string) tea.Cmd {
	return notifyErrorCmd(message)
}

// NotifyWarning returns a command that adds a warning notification.
func (c *Commands) NotifyWarning(message string) tea.Cmd {
	return notifyWarningCmd(message)
}

// NotifyInfo returns a command that adds an info notification.
func (c *Commands) NotifyInfo(message string) tea.Cmd {
	return notifyInfoCmd(message)
}

// ClearNotification returns a command that removes a notification after a delay.
func (c *Commands) ClearNotification(id string, delay time.Duration) tea.Cmd {
	return clearNotificationCmd(id, delay)
}

// Quit returns a command that quits the application.
func (c *Commands) Quit() tea.Cmd {
	return tea.Quit
}
