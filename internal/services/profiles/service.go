// Package profiles manages named portal credentials with file watching and persistence.
package profiles

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/j-veylop/netmeter/internal/logger"
	"github.com/j-veylop/netmeter/internal/models"
)

var (
	// ErrEmptyName is returned when saving a profile without a name.
	ErrEmptyName = errors.New("profile name must not be empty")
	// ErrNotFound is returned for operations on unknown profiles.
	ErrNotFound = errors.New("profile not found")
)

// Event represents a profile service event.
type Event struct {
	Error   error
	Profile string
	Type    EventType
}

// EventType defines the type of profile event.
type EventType int

const (
	// EventProfilesLoaded is sent once after the initial load.
	EventProfilesLoaded EventType = iota
	// EventProfilesChanged is sent after the file was modified on disk.
	EventProfilesChanged
	// EventProfileSaved is sent after a profile was added or replaced.
	EventProfileSaved
	// EventProfileDeleted is sent after a profile was removed.
	EventProfileDeleted
	// EventError carries watcher and reload failures.
	EventError
)

// Service keeps the profile file in memory and reloads it on external edits.
type Service struct {
	profiles      map[string]models.Credentials
	watcher       *fsnotify.Watcher
	eventChan     chan Event
	stopChan      chan struct{}
	debounceTimer *time.Timer
	filePath      string
	mu            sync.RWMutex
	closeOnce     sync.Once
}

// defaultProfilesPath returns the default profiles file path.
func defaultProfilesPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "profiles.json"
	}
	return filepath.Join(home, ".config", "netmeter", "profiles.json")
}

// Load reads a profiles file. A missing or unreadable file yields an empty
// mapping; failures other than absence are logged.
func Load(path string) map[string]models.Credentials {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]models.Credentials{}
	}
	if err != nil {
		logger.Error("failed to read profiles", "path", path, "error", err)
		return map[string]models.Credentials{}
	}

	profiles, err := parseProfiles(data)
	if err != nil {
		logger.Error("failed to parse profiles", "path", path, "error", err)
		return map[string]models.Credentials{}
	}
	return profiles
}

func parseProfiles(data []byte) (map[string]models.Credentials, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return map[string]models.Credentials{}, nil
	}
	profiles := map[string]models.Credentials{}
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("invalid profiles file: %w", err)
	}
	// A literal null decodes to a nil map.
	if profiles == nil {
		profiles = map[string]models.Credentials{}
	}
	return profiles, nil
}

// New creates a profile service and starts watching the file.
func New(filePath string) (*Service, error) {
	if filePath == "" {
		filePath = defaultProfilesPath()
	}

	s := &Service{
		filePath:  filePath,
		eventChan: make(chan Event, 100),
		stopChan:  make(chan struct{}),
	}

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	s.profiles = Load(filePath)

	if err := s.startWatcher(); err != nil {
		return nil, fmt.Errorf("failed to start file watcher: %w", err)
	}

	s.sendEvent(Event{Type: EventProfilesLoaded})
	return s, nil
}

// Path returns the profiles file path.
func (s *Service) Path() string {
	return s.filePath
}

// Events returns the event channel for subscribing to profile changes.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// Names returns the profile names in sorted order.
func (s *Service) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.profiles))
	for name := range s.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Profiles returns all profiles sorted by name.
func (s *Service) Profiles() []models.Profile {
	names := s.Names()

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Profile, 0, len(names))
	for _, name := range names {
		if creds, ok := s.profiles[name]; ok {
			out = append(out, models.Profile{Name: name, Credentials: creds})
		}
	}
	return out
}

// Get returns the profile with the given name.
func (s *Service) Get(name string) (models.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	creds, ok := s.profiles[name]
	if !ok {
		return models.Profile{}, false
	}
	return models.Profile{Name: name, Credentials: creds}, true
}

// Count returns the number of profiles.
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles)
}

// Save adds or replaces a profile and persists the file.
func (s *Service) Save(name string, creds models.Credentials) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.profiles[name]
	s.profiles[name] = creds

	if err := s.saveLocked(); err != nil {
		// Rollback
		if existed {
			s.profiles[name] = prev
		} else {
			delete(s.profiles, name)
		}
		return fmt.Errorf("failed to save profiles: %w", err)
	}

	logger.Info("profile saved", "profile", name)
	s.sendEvent(Event{Type: EventProfileSaved, Profile: name})
	return nil
}

// Delete removes a profile and persists the file.
func (s *Service) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.profiles[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	delete(s.profiles, name)

	if err := s.saveLocked(); err != nil {
		s.profiles[name] = prev
		return fmt.Errorf("failed to save profiles: %w", err)
	}

	logger.Info("profile deleted", "profile", name)
	s.sendEvent(Event{Type: EventProfileDeleted, Profile: name})
	return nil
}

// saveLocked writes the profiles atomically (must hold lock).
func (s *Service) saveLocked() error {
	data, err := json.MarshalIndent(s.profiles, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal profiles: %w", err)
	}

	// Write to temp file first, then rename
	tmpFile := s.filePath + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0o600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tmpFile, s.filePath); err != nil {
		if removeErr := os.Remove(tmpFile); removeErr != nil {
			logger.Error("failed to remove temp file", "error", removeErr)
		}
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// startWatcher starts the file system watcher.
func (s *Service) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	s.watcher = watcher

	// Watch the directory so renames and re-creations are seen
	if err := watcher.Add(filepath.Dir(s.filePath)); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return err
	}

	go s.watchLoop()
	return nil
}

// watchLoop handles file system events with debouncing.
func (s *Service) watchLoop() {
	const debounceInterval = 100 * time.Millisecond

	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(s.filePath) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove) == 0 {
				continue
			}

			s.mu.Lock()
			if s.debounceTimer != nil {
				s.debounceTimer.Stop()
			}
			s.debounceTimer = time.AfterFunc(debounceInterval, s.handleFileChange)
			s.mu.Unlock()

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.sendEvent(Event{Type: EventError, Error: err})

		case <-s.stopChan:
			return
		}
	}
}

// handleFileChange reloads profiles after an external change. A file that no
// longer parses keeps the last good state.
func (s *Service) handleFileChange() {
	data, err := os.ReadFile(s.filePath)
	var profiles map[string]models.Credentials
	switch {
	case errors.Is(err, fs.ErrNotExist):
		profiles = map[string]models.Credentials{}
	case err != nil:
		s.sendEvent(Event{Type: EventError, Error: err})
		return
	default:
		if profiles, err = parseProfiles(data); err != nil {
			logger.Warn("ignoring invalid profiles file", "path", s.filePath, "error", err)
			s.sendEvent(Event{Type: EventError, Error: err})
			return
		}
	}

	s.mu.Lock()
	s.profiles = profiles
	s.mu.Unlock()

	s.sendEvent(Event{Type: EventProfilesChanged})
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest event
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}

// Close stops the file watcher and cleans up resources.
func (s *Service) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.stopChan)

		s.mu.Lock()
		if s.debounceTimer != nil {
			s.debounceTimer.Stop()
		}
		s.mu.Unlock()

		if s.watcher != nil {
			err = s.watcher.Close()
		}
	})
	return err
}
