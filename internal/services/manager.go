// Package services provides service orchestration for the TUI and CLI.
package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"github.com/j-veylop/netmeter/internal/config"
	"github.com/j-veylop/netmeter/internal/db"
	"github.com/j-veylop/netmeter/internal/history"
	"github.com/j-veylop/netmeter/internal/logger"
	"github.com/j-veylop/netmeter/internal/models"
	"github.com/j-veylop/netmeter/internal/report"
	"github.com/j-veylop/netmeter/internal/services/portal"
	"github.com/j-veylop/netmeter/internal/services/profiles"
)

// snapshotRetention bounds how long chart snapshots are kept.
const snapshotRetention = 365 * 24 * time.Hour

// ErrUnknownProfile is returned when fetching a profile that does not exist.
var ErrUnknownProfile = errors.New("unknown profile")

type (
	// ProfilesChangedEvent is emitted when the profile list changes.
	ProfilesChangedEvent struct {
		Profiles []models.Profile
	}

	// ReportFetchedEvent is emitted after a report was built for a profile.
	ReportFetchedEvent struct {
		Report  *report.UsageReport
		Profile string
	}

	// HistorySavedEvent is emitted after a history row was appended.
	HistorySavedEvent struct {
		Path     string
		Username string
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

func (ProfilesChangedEvent) isServiceEvent() {}
func (ReportFetchedEvent) isServiceEvent()   {}
func (HistorySavedEvent) isServiceEvent()    {}
func (ErrorEvent) isServiceEvent()           {}

// Notifier shows a desktop notification.
type Notifier func(title, message string) error

func beeepNotify(title, message string) error {
	return beeep.Notify(title, message, "")
}

// usageLevel orders alert states so only escalations notify.
type usageLevel int

const (
	levelNormal usageLevel = iota
	levelWarning
	levelQuotaReached
)

// Manager orchestrates services and event routing.
type Manager struct {
	profiles    *profiles.Service
	portal      *portal.Client
	recorder    *history.Recorder
	database    *db.DB
	notify      Notifier
	now         func() time.Time
	stopChan    chan struct{}
	lastLevel   map[string]usageLevel
	subscribers []chan<- ServiceEvent
	warnPercent float64
	mu          sync.RWMutex
	closeOnce   sync.Once
}

// NewManager creates a new service manager.
func NewManager(cfg *config.Config) (*Manager, error) {
	m := &Manager{
		portal:      portal.New(cfg.PortalConfig()),
		recorder:    history.NewRecorder(cfg.HistoryPath),
		notify:      beeepNotify,
		now:         time.Now,
		stopChan:    make(chan struct{}),
		lastLevel:   make(map[string]usageLevel),
		warnPercent: cfg.QuotaWarnPercent,
	}

	var err error
	m.profiles, err = profiles.New(cfg.ProfilesPath)
	if err != nil {
		return nil, err
	}

	m.database, err = db.New(cfg.DatabasePath)
	if err != nil {
		_ = m.profiles.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if n, err := m.database.CleanupOldSnapshots(m.now().Add(-snapshotRetention)); err != nil {
		logger.Warn("failed to prune snapshots", "error", err)
	} else if n > 0 {
		logger.Info("pruned old snapshots", "count", n)
	}

	go m.routeEvents()

	return m, nil
}

// routeEvents routes events from individual services to subscribers.
func (m *Manager) routeEvents() {
	for {
		select {
		case event := <-m.profiles.Events():
			m.handleProfileEvent(event)

		case <-m.stopChan:
			return
		}
	}
}

// handleProfileEvent converts and broadcasts profile events.
func (m *Manager) handleProfileEvent(event profiles.Event) {
	switch event.Type {
	case profiles.EventProfilesLoaded, profiles.EventProfilesChanged,
		profiles.EventProfileSaved, profiles.EventProfileDeleted:

		m.broadcast(ProfilesChangedEvent{Profiles: m.profiles.Profiles()})

	case profiles.EventError:
		m.broadcast(ErrorEvent{Service: "profiles", Error: event.Error})
	}
}

// FetchProfile fetches a report using a stored profile.
func (m *Manager) FetchProfile(ctx context.Context, name string) (*report.UsageReport, error) {
	p, ok := m.profiles.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProfile, name)
	}
	return m.Fetch(ctx, name, p.Credentials)
}

// Fetch authenticates against the portal and builds a usage report. The
// outcome is recorded as the profile's status; successful reports are also
// stored as chart snapshots. profile may be empty for ad-hoc credentials.
func (m *Manager) Fetch(ctx context.Context, profile string, creds models.Credentials) (*report.UsageReport, error) {
	raw := m.portal.Authenticate(ctx, creds)
	if !raw.OK() {
		m.recordFailure(profile, creds.Username, raw.Err)
		return nil, raw.Err
	}

	rep, err := report.Generate(raw.Body, m.now())
	if err != nil {
		logReportError(profile, err)
		m.recordFailure(profile, creds.Username, err)
		return nil, err
	}

	username := creds.Username
	if username == "" {
		username = rep.Username
	}

	m.recordSuccess(profile, username, rep)
	m.checkNotifications(profile, username, rep)
	m.broadcast(ReportFetchedEvent{Profile: profile, Report: rep})

	logger.Info("report fetched",
		"portal", m.portal.URL(),
		"profile", profile,
		"status", rep.Status,
		"total_bytes", rep.TotalBytes,
	)
	return rep, nil
}

func logReportError(profile string, err error) {
	var rfe *report.ResponseFormatError
	var mde *report.MalformedDataError
	var rue *report.ReportUnavailableError
	switch {
	case errors.As(err, &rfe):
		logger.Error("portal returned invalid JSON", "profile", profile, "error", err, "excerpt", rfe.Excerpt)
	case errors.As(err, &mde):
		logger.Error("portal returned malformed data", "profile", profile, "field", mde.Field, "data", mde.DataExcerpt())
	case errors.As(err, &rue):
		logger.Warn("portal returned no usage data", "profile", profile, "reason", rue.Reason, "detail", rue.Detail)
	default:
		logger.Error("failed to build report", "profile", profile, "error", err)
	}
}

func (m *Manager) recordSuccess(profile, username string, rep *report.UsageReport) {
	snapshot := &models.UsageSnapshot{
		Timestamp:     m.now(),
		RenewalAt:     rep.RenewalInstant,
		QuotaPercent:  rep.QuotaPercentUsed,
		Username:      username,
		Profile:       profile,
		Status:        rep.Status.String(),
		DownloadBytes: rep.DownloadBytes,
		UploadBytes:   rep.UploadBytes,
		TotalBytes:    rep.TotalBytes,
	}
	if err := m.database.InsertSnapshot(snapshot); err != nil {
		logger.Error("failed to store snapshot", "profile", profile, "error", err)
	}

	if profile == "" {
		return
	}
	status := &models.ProfileStatus{
		LastUpdated:  m.now(),
		QuotaPercent: rep.QuotaPercentUsed,
		Profile:      profile,
		Username:     username,
		Status:       rep.Status.String(),
		TotalBytes:   rep.TotalBytes,
	}
	if err := m.database.UpsertProfileStatus(status); err != nil {
		logger.Error("failed to store profile status", "profile", profile, "error", err)
	}
}

func (m *Manager) recordFailure(profile, username string, cause error) {
	m.broadcast(ErrorEvent{Service: "portal", Error: cause})
	if profile == "" {
		return
	}
	status := &models.ProfileStatus{
		LastUpdated: m.now(),
		Profile:     profile,
		Username:    username,
		Status:      "Error",
		LastError:   cause.Error(),
	}
	// Keep the last known totals so the profile list still shows them.
	if prev, err := m.database.GetProfileStatus(profile); err != nil {
		logger.Warn("failed to read profile status", "profile", profile, "error", err)
	} else if prev != nil {
		status.TotalBytes = prev.TotalBytes
		status.QuotaPercent = prev.QuotaPercent
	}
	if err := m.database.UpsertProfileStatus(status); err != nil {
		logger.Error("failed to store profile status", "profile", profile, "error", err)
	}
}

// checkNotifications alerts when a profile escalates to high usage or an
// exhausted quota. Repeated fetches at the same level stay silent.
func (m *Manager) checkNotifications(profile, username string, rep *report.UsageReport) {
	key := profile
	if key == "" {
		key = username
	}

	level := levelNormal
	switch {
	case rep.Status == report.StatusQuotaReached:
		level = levelQuotaReached
	case rep.HighUsage(m.warnPercent):
		level = levelWarning
	}

	m.mu.Lock()
	previous := m.lastLevel[key]
	m.lastLevel[key] = level
	notify := m.notify
	m.mu.Unlock()

	if level <= previous || notify == nil {
		return
	}

	var title, body string
	switch level {
	case levelQuotaReached:
		title = fmt.Sprintf("Quota reached: %s", username)
		body = fmt.Sprintf("Data quota exhausted. Renews in %s.", rep.Countdown())
	case levelWarning:
		title = fmt.Sprintf("High usage: %s", username)
		body = fmt.Sprintf("%.1f%% of %s used (%s).", *rep.QuotaPercentUsed, rep.QuotaBasis, report.MB(rep.TotalBytes))
	}

	if err := notify(title, body); err != nil {
		logger.Warn("failed to send notification", "error", err)
	}
}

// SaveHistory appends a summary row for rep to the history file.
func (m *Manager) SaveHistory(rep *report.UsageReport, username string) error {
	if err := m.recorder.Append(rep, m.now(), username); err != nil {
		logger.Error("failed to save history", "username", username, "error", err)
		return err
	}
	m.broadcast(HistorySavedEvent{Path: m.recorder.Path(), Username: username})
	return nil
}

// History returns up to limit history rows, newest first. A limit of zero
// returns everything.
func (m *Manager) History(limit int) ([]history.Record, error) {
	records, err := history.Read(m.recorder.Path())
	if err != nil {
		return nil, err
	}
	return history.Tail(records, limit), nil
}

// HistoryPath returns the history file path.
func (m *Manager) HistoryPath() string {
	return m.recorder.Path()
}

// DailyUsage returns the per-day consumption chart series for a user.
func (m *Manager) DailyUsage(username string, timeRange models.TimeRange) ([]models.DailyUsagePoint, error) {
	if m.database == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	return m.database.GetDailyUsage(username, timeRange)
}

// TrackingSince returns when username was first recorded, or the zero time.
func (m *Manager) TrackingSince(username string) (time.Time, error) {
	return m.database.GetFirstSnapshotTime(username)
}

// Snapshots returns stored report snapshots, oldest first. An empty username
// returns the most recent limit snapshots across all users instead.
func (m *Manager) Snapshots(username string, since time.Time, limit int) ([]models.UsageSnapshot, error) {
	if username == "" {
		snapshots, err := m.database.GetRecentSnapshots(limit)
		if err != nil {
			return nil, err
		}
		slices.Reverse(snapshots)
		return snapshots, nil
	}

	snapshots, err := m.database.GetSnapshots(username, since)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(snapshots) > limit {
		snapshots = snapshots[len(snapshots)-limit:]
	}
	return snapshots, nil
}

// ProfileStatuses returns the last fetch outcome per profile, keyed by name.
func (m *Manager) ProfileStatuses() map[string]models.ProfileStatus {
	statuses, err := m.database.GetAllProfileStatuses()
	if err != nil {
		logger.Error("failed to load profile statuses", "error", err)
		return nil
	}
	out := make(map[string]models.ProfileStatus, len(statuses))
	for _, s := range statuses {
		out[s.Profile] = s
	}
	return out
}

// SaveProfile adds or replaces a credential profile.
func (m *Manager) SaveProfile(name string, creds models.Credentials) error {
	return m.profiles.Save(name, creds)
}

// DeleteProfile removes a profile and its stored status.
func (m *Manager) DeleteProfile(name string) error {
	if err := m.profiles.Delete(name); err != nil {
		return err
	}
	if err := m.database.DeleteProfileStatus(name); err != nil {
		logger.Warn("failed to delete profile status", "profile", name, "error", err)
	}
	m.mu.Lock()
	delete(m.lastLevel, name)
	m.mu.Unlock()
	return nil
}

// Profiles returns all stored profiles sorted by name.
func (m *Manager) Profiles() []models.Profile {
	return m.profiles.Profiles()
}

// ProfilesPath returns the profiles file path.
func (m *Manager) ProfilesPath() string {
	return m.profiles.Path()
}

// WarnPercent returns the high-usage threshold in percent.
func (m *Manager) WarnPercent() float64 {
	return m.warnPercent
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
		event, ok := <-ch
		if !ok {
			return nil
		}
		return event
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

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	var errs []error

	m.closeOnce.Do(func() {
		close(m.stopChan)

		m.mu.Lock()
		for _, sub := range m.subscribers {
			close(sub)
		}
		m.subscribers = nil
		m.mu.Unlock()

		if err := m.profiles.Close(); err != nil {
			errs = append(errs, err)
		}

		if m.database != nil {
			if err := m.database.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	})

	return errors.Join(errs...)
}
