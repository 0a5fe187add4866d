package config

import (
	"fmt"
	"sync"
)

const (
	// SectionIDLLM is the identifier for the LLM settings section
	SectionIDLLM = "llm"

	DefaultModel       = "gpt-4o"
	DefaultTemperature = 0.7
)

// LLMSection holds the settings of the app generation model.
type LLMSection struct {
	Model       string
	BaseURL     string
	APIKey      string
	Temperature float64
	mu          sync.RWMutex
}

func NewLLMSection() *LLMSection {
	return &LLMSection{Temperature: DefaultTemperature}
}

func (s *LLMSection) ID() string {
	return SectionIDLLM
}

func (s *LLMSection) Title() string {
	return "LLM Settings"
}

func (s *LLMSection) Description() string {
	return "Model, endpoint and credentials used by agent mode to generate apps. Empty values fall back to OPENAI_* environment variables and built-in defaults."
}

func (s *LLMSection) Data() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]any{
		"model":       s.Model,
		"base_url":    s.BaseURL,
		"api_key":     s.APIKey,
		"temperature": s.Temperature,
	}
}

func (s *LLMSection) SetData(data map[string]any) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if model, ok := data["model"].(string); ok {
		s.Model = model
	}
	if baseURL, ok := data["base_url"].(string); ok {
		s.BaseURL = baseURL
	}
	if apiKey, ok := data["api_key"].(string); ok {
		s.APIKey = apiKey
	}
	if raw, ok := data["temperature"]; ok {
		temperature, ok := raw.(float64)
		if !ok {
			return fmt.Errorf("invalid value type for temperature: expected number, got %T", raw)
		}
		s.Temperature = temperature
	}
	return nil
}

// Validate accepts missing credentials; they are resolved when the
// provider is built.
func (s *LLMSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Temperature < 0 || s.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %v", s.Temperature)
	}
	return nil
}

func (s *LLMSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Model = ""
	s.BaseURL = ""
	s.APIKey = ""
	s.Temperature = DefaultTemperature
}

func (s *LLMSection) GetModel() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Model
}

func (s *LLMSection) SetModel(model string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Model = model
}

func (s *LLMSection) GetBaseURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.BaseURL
}

func (s *LLMSection) GetAPIKey() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.APIKey
}

func (s *LLMSection) SetAPIKey(apiKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.APIKey = apiKey
}

func (s *LLMSection) GetTemperature() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Temperature
}
