package config

import (
	"fmt"
	"sync"
)

// Manager loads and saves registered sections through a Store.
type Manager struct {
	store    Store
	sections map[string]Section
	order    []string
	mu       sync.RWMutex
}

func NewManager(store Store) *Manager {
	return &Manager{
		store:    store,
		sections: make(map[string]Section),
	}
}

// Store returns the underlying store.
func (m *Manager) Store() Store {
	return m.store
}

// RegisterSection adds a section. IDs must be unique.
func (m *Manager) RegisterSection(section Section) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := section.ID()
	if _, exists := m.sections[id]; exists {
		return fmt.Errorf("section %q already registered", id)
	}
	m.sections[id] = section
	m.order = append(m.order, id)
	return nil
}

func (m *Manager) GetSection(id string) (Section, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	section, ok := m.sections[id]
	return section, ok
}

// GetSections returns sections in registration order.
func (m *Manager) GetSections() []Section {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sections := make([]Section, 0, len(m.order))
	for _, id := range m.order {
		sections = append(sections, m.sections[id])
	}
	return sections
}

// LoadAll reloads the store and applies its data to every section.
func (m *Manager) LoadAll() error {
	if err := m.store.Load(); err != nil {
		return fmt.Errorf("failed to load config store: %w", err)
	}

	for _, section := range m.GetSections() {
		data, err := m.store.GetSection(section.ID())
		if err != nil {
			return fmt.Errorf("failed to read section %s: %w", section.ID(), err)
		}
		if err := section.SetData(data); err != nil {
			return fmt.Errorf("invalid settings in section %s: %w", section.ID(), err)
		}
	}
	return nil
}

// SaveAll validates every section and writes them through the store.
func (m *Manager) SaveAll() error {
	sections := m.GetSections()
	for _, section := range sections {
		if err := section.Validate(); err != nil {
			return fmt.Errorf("section %s: %w", section.ID(), err)
		}
	}
	for _, section := range sections {
		if err := m.store.SetSection(section.ID(), section.Data()); err != nil {
			return fmt.Errorf("failed to store section %s: %w", section.ID(), err)
		}
	}
	return m.store.Save()
}

// ResetAll restores every section's defaults without saving.
func (m *Manager) ResetAll() {
	for _, section := range m.GetSections() {
		section.Reset()
	}
}
