// Package config loads agentbrowser settings from a JSON file of named
// sections.
package config

import "fmt"

// Config bundles the sections agentbrowser reads.
type Config struct {
	Manager *Manager
	LLM     *LLMSection
	Browser *BrowserSection
}

// Load reads the config file at path (DefaultPath when empty). A missing
// file yields defaults.
func Load(path string) (*Config, error) {
	store, err := NewFileStore(path)
	if err != nil {
		return nil, err
	}
	return LoadFrom(store)
}

// LoadFrom registers the sections on a manager over store and loads them.
func LoadFrom(store Store) (*Config, error) {
	cfg := &Config{
		Manager: NewManager(store),
		LLM:     NewLLMSection(),
		Browser: NewBrowserSection(),
	}
	for _, section := range []Section{cfg.LLM, cfg.Browser} {
		if err := cfg.Manager.RegisterSection(section); err != nil {
			return nil, err
		}
	}
	if err := cfg.Manager.LoadAll(); err != nil {
		return nil, err
	}
	for _, section := range cfg.Manager.GetSections() {
		if err := section.Validate(); err != nil {
			return nil, fmt.Errorf("invalid %s settings: %w", section.ID(), err)
		}
	}
	return cfg, nil
}

// Save validates and writes all sections.
func (c *Config) Save() error {
	return c.Manager.SaveAll()
}
