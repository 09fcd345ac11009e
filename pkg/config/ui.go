package config

import (
	"fmt"
	"sync"
)

const (
	// SectionIDUI is the identifier for the UI settings section
	SectionIDUI = "ui"

	// SurfaceTUI selects the full-screen terminal chat.
	SurfaceTUI = "tui"

	// SurfaceCLI selects the plain line-oriented chat.
	SurfaceCLI = "cli"
)

// UISection manages chat surface configuration settings.
type UISection struct {
	Surface      string
	ShowThinking bool
	mu           sync.RWMutex
}

// NewUISection creates a new UI section with default settings.
func NewUISection() *UISection {
	return &UISection{
		Surface:      SurfaceTUI,
		ShowThinking: true,
	}
}

// ID identifies the section in the config file.
func (s *UISection) ID() string {
	return SectionIDUI
}

// Title is the human-readable section name.
func (s *UISection) Title() string {
	return "UI Settings"
}

// Description summarizes what the section controls.
func (s *UISection) Description() string {
	return "Configure the chat surface: which interface to start (tui or cli) and whether the agents' thinking is shown."
}

// Data snapshots the section for serialization.
func (s *UISection) Data() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]any{
		"surface":       s.Surface,
		"show_thinking": s.ShowThinking,
	}
}

// SetData updates the configuration from the provided data. Unknown keys
// are ignored for forward compatibility; known keys with the wrong type
// are an error.
func (s *UISection) SetData(data map[string]any) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if value, present := data["surface"]; present {
		surface, ok := value.(string)
		if !ok {
			return fmt.Errorf("invalid value type for surface: expected string, got %T", value)
		}
		s.Surface = surface
	}

	if value, present := data["show_thinking"]; present {
		show, ok := value.(bool)
		if !ok {
			return fmt.Errorf("invalid value type for show_thinking: expected bool, got %T", value)
		}
		s.ShowThinking = show
	}

	return nil
}

// Validate validates the current configuration.
func (s *UISection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.Surface != SurfaceTUI && s.Surface != SurfaceCLI {
		return fmt.Errorf("surface must be %q or %q, got %q", SurfaceTUI, SurfaceCLI, s.Surface)
	}
	return nil
}

// Reset restores the section defaults.
func (s *UISection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Surface = SurfaceTUI
	s.ShowThinking = true
}

// GetSurface returns the configured chat surface.
func (s *UISection) GetSurface() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Surface
}

// SetSurface sets the chat surface.
func (s *UISection) SetSurface(surface string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Surface = surface
}

// GetShowThinking returns whether agent thinking should be displayed.
func (s *UISection) GetShowThinking() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ShowThinking
}

// SetShowThinking sets whether agent thinking should be displayed.
func (s *UISection) SetShowThinking(show bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ShowThinking = show
}
