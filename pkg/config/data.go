package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	// SectionIDData is the identifier for the data storage section
	SectionIDData = "data"
)

// DataSection manages where daykeep keeps its task, schedule, progress, and
// session files.
type DataSection struct {
	Dir              string
	ScheduleTemplate string
	mu               sync.RWMutex
}

// NewDataSection creates a new data section with default settings.
func NewDataSection() *DataSection {
	return &DataSection{}
}

// ID identifies the section in the config file.
func (s *DataSection) ID() string {
	return SectionIDData
}

// Title is the human-readable section name.
func (s *DataSection) Title() string {
	return "Data Storage"
}

// Description summarizes what the section controls.
func (s *DataSection) Description() string {
	return "Where task, schedule, progress, and session files are stored. Defaults to ~/.daykeep/data. schedule_template optionally points at a YAML weekly schedule template."
}

// Data snapshots the section for serialization.
func (s *DataSection) Data() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]any{
		"dir":               s.Dir,
		"schedule_template": s.ScheduleTemplate,
	}
}

// SetData updates the configuration from the provided data.
func (s *DataSection) SetData(data map[string]any) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if dir, ok := data["dir"].(string); ok {
		s.Dir = dir
	}

	if template, ok := data["schedule_template"].(string); ok {
		s.ScheduleTemplate = template
	}

	return nil
}

// Validate validates the current configuration.
func (s *DataSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.ScheduleTemplate != "" {
		if _, err := os.Stat(s.ScheduleTemplate); err != nil {
			return fmt.Errorf("schedule_template %q is not readable: %w", s.ScheduleTemplate, err)
		}
	}

	return nil
}

// Reset restores the section defaults.
func (s *DataSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Dir = ""
	s.ScheduleTemplate = ""
}

// GetDir returns the configured data directory, falling back to
// ~/.daykeep/data when unset.
func (s *DataSection) GetDir() (string, error) {
	s.mu.RLock()
	dir := s.Dir
	s.mu.RUnlock()

	if dir != "" {
		return dir, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".daykeep", "data"), nil
}

// SetDir sets the data directory.
func (s *DataSection) SetDir(dir string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Dir = dir
}

// GetScheduleTemplate returns the configured schedule template path.
// An empty string means the built-in default weekly blocks are used.
func (s *DataSection) GetScheduleTemplate() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ScheduleTemplate
}

// SetScheduleTemplate sets the schedule template path.
func (s *DataSection) SetScheduleTemplate(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ScheduleTemplate = path
}
