package config

import (
	"sync"
)

// SectionIDLLM is the identifier for the LLM settings section
const SectionIDLLM = "llm"

const (
	keyModel   = "model"
	keyBaseURL = "base_url"
	keyAPIKey  = "api_key"
)

// LLMSection holds the LLM provider settings. Empty values mean "use the
// environment or the built-in Groq defaults"; see BuildProvider for the
// precedence rules.
type LLMSection struct {
	Model   string
	BaseURL string
	APIKey  string
	mu      sync.RWMutex
}

// NewLLMSection builds the section with Groq defaults.
func NewLLMSection() *LLMSection {
	return &LLMSection{}
}

// ID identifies the section in the config file.
func (s *LLMSection) ID() string {
	return SectionIDLLM
}

// Title is the human-readable section name.
func (s *LLMSection) Title() string {
	return "LLM Settings"
}

// Description summarizes what the section controls.
func (s *LLMSection) Description() string {
	return "Configure LLM provider settings (model, base_url, api_key). With no base_url the Groq endpoint is used; set base_url to point at OpenAI or any compatible server."
}

// Data snapshots the section for serialization.
func (s *LLMSection) Data() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]any{
		keyModel:   s.Model,
		keyBaseURL: s.BaseURL,
		keyAPIKey:  s.APIKey,
	}
}

// SetData updates the configuration from the provided data. Missing or
// wrongly-typed keys leave the current value untouched.
func (s *LLMSection) SetData(data map[string]any) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if model, ok := data[keyModel].(string); ok {
		s.Model = model
	}
	if baseURL, ok := data[keyBaseURL].(string); ok {
		s.BaseURL = baseURL
	}
	if apiKey, ok := data[keyAPIKey].(string); ok {
		s.APIKey = apiKey
	}
	return nil
}

// Validate always passes: the section is optional and a missing API key
// only surfaces when a provider is actually built.
func (s *LLMSection) Validate() error {
	return nil
}

// Reset restores the section defaults.
func (s *LLMSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Model = ""
	s.BaseURL = ""
	s.APIKey = ""
}

// GetModel reads the configured model.
func (s *LLMSection) GetModel() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Model
}

// SetModel updates the model.
func (s *LLMSection) SetModel(model string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Model = model
}

// GetBaseURL reads the configured endpoint.
func (s *LLMSection) GetBaseURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.BaseURL
}

// SetBaseURL updates the endpoint.
func (s *LLMSection) SetBaseURL(baseURL string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.BaseURL = baseURL
}

// GetAPIKey reads the configured credential.
func (s *LLMSection) GetAPIKey() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.APIKey
}

// SetAPIKey updates the credential.
func (s *LLMSection) SetAPIKey(apiKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.APIKey = apiKey
}
