package config

import (
	"sync"
)

const (
	// SectionIDCalendar is the identifier for the Google Calendar section
	SectionIDCalendar = "calendar"
)

// CalendarSection manages Google Calendar integration settings. The calendar
// tools stay hidden from the agents until credentials are configured here.
type CalendarSection struct {
	CredentialsPath string
	TokenPath       string
	CalendarID      string
	mu              sync.RWMutex
}

// NewCalendarSection creates a new calendar section with default settings.
func NewCalendarSection() *CalendarSection {
	return &CalendarSection{
		CalendarID: "primary",
	}
}

// ID identifies the section in the config file.
func (s *CalendarSection) ID() string {
	return SectionIDCalendar
}

// Title is the human-readable section name.
func (s *CalendarSection) Title() string {
	return "Google Calendar"
}

// Description summarizes what the section controls.
func (s *CalendarSection) Description() string {
	return "Optional Google Calendar sync. Set credentials_path to an OAuth client secret file to enable the calendar tools."
}

// Data snapshots the section for serialization.
func (s *CalendarSection) Data() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]any{
		"credentials_path": s.CredentialsPath,
		"token_path":       s.TokenPath,
		"calendar_id":      s.CalendarID,
	}
}

// SetData updates the configuration from the provided data.
func (s *CalendarSection) SetData(data map[string]any) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if path, ok := data["credentials_path"].(string); ok {
		s.CredentialsPath = path
	}

	if path, ok := data["token_path"].(string); ok {
		s.TokenPath = path
	}

	if id, ok := data["calendar_id"].(string); ok && id != "" {
		s.CalendarID = id
	}

	return nil
}

// Validate validates the current configuration.
func (s *CalendarSection) Validate() error {
	// Calendar integration is optional - validation always passes
	return nil
}

// Reset restores the section defaults.
func (s *CalendarSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CredentialsPath = ""
	s.TokenPath = ""
	s.CalendarID = "primary"
}

// IsConfigured returns true when a credentials file has been set.
func (s *CalendarSection) IsConfigured() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.CredentialsPath != ""
}

// GetCredentialsPath returns the OAuth client secret file path.
func (s *CalendarSection) GetCredentialsPath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.CredentialsPath
}

// GetTokenPath returns the cached token file path.
func (s *CalendarSection) GetTokenPath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.TokenPath
}

// GetCalendarID returns the target calendar ID.
func (s *CalendarSection) GetCalendarID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.CalendarID
}
