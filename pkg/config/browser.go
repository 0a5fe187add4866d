package config

import (
	"fmt"
	"net/url"
	"sync"
	"time"
)

const (
	// SectionIDBrowser is the identifier for the browser settings section
	SectionIDBrowser = "browser"

	DefaultHomeURL           = "https://www.google.com"
	DefaultSearchURL         = "https://www.google.com/search?q="
	DefaultSearchHomeURL     = "https://www.google.com"
	DefaultViewportWidth     = 1280
	DefaultViewportHeight    = 800
	DefaultGenerationTimeout = 2 * time.Minute
)

// BrowserSection holds render surface and omnibar settings.
type BrowserSection struct {
	HomeURL           string
	SearchURL         string
	SearchHomeURL     string
	Headless          bool
	ViewportWidth     int
	ViewportHeight    int
	GenerationTimeout time.Duration
	mu                sync.RWMutex
}

func NewBrowserSection() *BrowserSection {
	s := &BrowserSection{}
	s.Reset()
	return s
}

func (s *BrowserSection) ID() string {
	return SectionIDBrowser
}

func (s *BrowserSection) Title() string {
	return "Browser Settings"
}

func (s *BrowserSection) Description() string {
	return "Home page, search engine, Chromium window and agent timeout settings."
}

func (s *BrowserSection) Data() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]any{
		"home_url":           s.HomeURL,
		"search_url":         s.SearchURL,
		"search_home_url":    s.SearchHomeURL,
		"headless":           s.Headless,
		"viewport_width":     s.ViewportWidth,
		"viewport_height":    s.ViewportHeight,
		"generation_timeout": s.GenerationTimeout.String(),
	}
}

func (s *BrowserSection) SetData(data map[string]any) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range data {
		switch key {
		case "home_url", "search_url", "search_home_url":
			str, ok := value.(string)
			if !ok {
				return fmt.Errorf("invalid value type for %s: expected string, got %T", key, value)
			}
			if str == "" {
				continue
			}
			switch key {
			case "home_url":
				s.HomeURL = str
			case "search_url":
				s.SearchURL = str
			default:
				s.SearchHomeURL = str
			}
		case "headless":
			enabled, ok := value.(bool)
			if !ok {
				return fmt.Errorf("invalid value type for headless: expected bool, got %T", value)
			}
			s.Headless = enabled
		case "viewport_width", "viewport_height":
			n, err := toInt(value)
			if err != nil {
				return fmt.Errorf("invalid value for %s: %w", key, err)
			}
			if key == "viewport_width" {
				s.ViewportWidth = n
			} else {
				s.ViewportHeight = n
			}
		case "generation_timeout":
			str, ok := value.(string)
			if !ok {
				return fmt.Errorf("invalid value type for generation_timeout: expected duration string, got %T", value)
			}
			d, err := time.ParseDuration(str)
			if err != nil {
				return fmt.Errorf("invalid generation_timeout: %w", err)
			}
			s.GenerationTimeout = d
		}
	}
	return nil
}

func (s *BrowserSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for name, raw := range map[string]string{
		"home_url":        s.HomeURL,
		"search_url":      s.SearchURL,
		"search_home_url": s.SearchHomeURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", name, raw)
		}
	}
	if s.ViewportWidth <= 0 || s.ViewportHeight <= 0 {
		return fmt.Errorf("viewport must be positive, got %dx%d", s.ViewportWidth, s.ViewportHeight)
	}
	if s.GenerationTimeout < 0 {
		return fmt.Errorf("generation_timeout must not be negative")
	}
	return nil
}

func (s *BrowserSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.HomeURL = DefaultHomeURL
	s.SearchURL = DefaultSearchURL
	s.SearchHomeURL = DefaultSearchHomeURL
	s.Headless = false
	s.ViewportWidth = DefaultViewportWidth
	s.ViewportHeight = DefaultViewportHeight
	s.GenerationTimeout = DefaultGenerationTimeout
}

// Snapshot returns a copy of the settings for read-only use.
func (s *BrowserSection) Snapshot() BrowserSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return BrowserSettings{
		HomeURL:           s.HomeURL,
		SearchURL:         s.SearchURL,
		SearchHomeURL:     s.SearchHomeURL,
		Headless:          s.Headless,
		ViewportWidth:     s.ViewportWidth,
		ViewportHeight:    s.ViewportHeight,
		GenerationTimeout: s.GenerationTimeout,
	}
}

// SetHeadless overrides the headless setting, typically from a flag.
func (s *BrowserSection) SetHeadless(headless bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Headless = headless
}

// BrowserSettings is a lock-free copy of BrowserSection.
type BrowserSettings struct {
	HomeURL           string
	SearchURL         string
	SearchHomeURL     string
	Headless          bool
	ViewportWidth     int
	ViewportHeight    int
	GenerationTimeout time.Duration
}

func toInt(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("expected whole number, got %v", v)
		}
		return int(v), nil
	default:
		return 0, fmt.Errorf("expected number, got %T", value)
	}
}
