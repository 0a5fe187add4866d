package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store persists section data. GetSection returns an empty map for unknown
// sections.
type Store interface {
	Load() error
	Save() error
	GetSection(sectionID string) (map[string]interface{}, error)
	SetSection(sectionID string, data map[string]interface{}) error
	GetAll() (map[string]map[string]interface{}, error)
	SetAll(data map[string]map[string]interface{}) error
}

type fileFormat struct {
	Version  string                            `json:"version"`
	Sections map[string]map[string]interface{} `json:"sections"`
}

// FileStore implements Store using a JSON file. Saves are atomic.
type FileStore struct {
	path     string
	data     map[string]map[string]interface{}
	mu       sync.RWMutex
	version  string
	modified bool
}

// DefaultPath returns ~/.agentbrowser/config.json.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".agentbrowser", "config.json"), nil
}

// NewFileStore creates a JSON file store, loading the file if it exists.
// An empty path selects DefaultPath.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}

	store := &FileStore{
		path:    path,
		data:    make(map[string]map[string]interface{}),
		version: "1.0",
	}

	if err := store.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	return store, nil
}

// Load loads the configuration from disk.
func (s *FileStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.data = make(map[string]map[string]interface{})
			return nil
		}
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	var config fileFormat
	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return fmt.Errorf("failed to decode config file: %w", err)
	}

	s.version = config.Version
	if config.Sections != nil {
		s.data = config.Sections
	} else {
		s.data = make(map[string]map[string]interface{})
	}
	s.modified = false

	return nil
}

// Save saves the configuration to disk.
func (s *FileStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tempPath := s.path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temp config file: %w", err)
	}

	config := fileFormat{Version: s.version, Sections: s.data}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(config); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	s.modified = false
	return nil
}

// GetSection retrieves configuration data for a specific section.
func (s *FileStore) GetSection(sectionID string) (map[string]interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return copySection(s.data[sectionID]), nil
}

// SetSection stores configuration data for a specific section.
func (s *FileStore) SetSection(sectionID string, data map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[sectionID] = copySection(data)
	s.modified = true
	return nil
}

// GetAll retrieves all configuration data.
func (s *FileStore) GetAll() (map[string]map[string]interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return copyAll(s.data), nil
}

// SetAll stores all configuration data.
func (s *FileStore) SetAll(data map[string]map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = copyAll(data)
	s.modified = true
	return nil
}

// IsModified returns true if the store has unsaved changes.
func (s *FileStore) IsModified() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modified
}

// Path returns the file path of the store.
func (s *FileStore) Path() string {
	return s.path
}

func copySection(data map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}

func copyAll(data map[string]map[string]interface{}) map[string]map[string]interface{} {
	out := make(map[string]map[string]interface{}, len(data))
	for id, section := range data {
		out[id] = copySection(section)
	}
	return out
}
