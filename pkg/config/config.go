package config

import (
	"sync"
)

var (
	globalManager *Manager
	globalMu      sync.Mutex
)

// Initialize creates the global configuration manager, registers the
// daykeep sections (llm, data, calendar, ui), and loads persisted values.
// Call once at application startup.
func Initialize(configPath string) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	store, err := NewFileStore(configPath)
	if err != nil {
		return err
	}

	manager := NewManager(store)

	sections := []Section{
		NewLLMSection(),
		NewDataSection(),
		NewCalendarSection(),
		NewUISection(),
	}
	for _, section := range sections {
		if err := manager.RegisterSection(section); err != nil {
			return err
		}
	}

	if err := manager.LoadAll(); err != nil {
		return err
	}

	globalManager = manager
	return nil
}

// Global returns the global configuration manager.
// Panics if Initialize has not been called.
func Global() *Manager {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalManager == nil {
		panic("config not initialized: call config.Initialize first")
	}
	return globalManager
}

// IsInitialized returns true if the global configuration has been initialized.
func IsInitialized() bool {
	globalMu.Lock()
	defer globalMu.Unlock()
	return globalManager != nil
}

// globalSection looks a section up in the global manager, returning nil
// before Initialize has run or when the ID is unknown.
func globalSection(id string) Section {
	if !IsInitialized() {
		return nil
	}
	section, ok := Global().GetSection(id)
	if !ok {
		return nil
	}
	return section
}

// GetLLM returns the LLM settings section from global config.
// Returns nil if config is not initialized.
func GetLLM() *LLMSection {
	s, _ := globalSection(SectionIDLLM).(*LLMSection)
	return s
}

// GetData returns the data storage section from global config.
// Returns nil if config is not initialized.
func GetData() *DataSection {
	s, _ := globalSection(SectionIDData).(*DataSection)
	return s
}

// GetUI returns the UI settings section from global config.
// Returns nil if config is not initialized.
func GetUI() *UISection {
	s, _ := globalSection(SectionIDUI).(*UISection)
	return s
}

// GetCalendar returns the calendar section from global config.
// Returns nil if config is not initialized.
func GetCalendar() *CalendarSection {
	s, _ := globalSection(SectionIDCalendar).(*CalendarSection)
	return s
}
