package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLLMSection(t *testing.T) {
	s := NewLLMSection()
	assert.Equal(t, DefaultTemperature, s.GetTemperature())

	require.NoError(t, s.SetData(map[string]any{
		"model":       "gpt-4o-mini",
		"base_url":    "http://localhost:11434/v1",
		"api_key":     "sk-test",
		"temperature": 0.2,
		"ignored":     true,
	}))
	assert.Equal(t, "gpt-4o-mini", s.GetModel())
	assert.Equal(t, "http://localhost:11434/v1", s.GetBaseURL())
	assert.Equal(t, "sk-test", s.GetAPIKey())
	assert.Equal(t, 0.2, s.GetTemperature())
	assert.NoError(t, s.Validate())

	assert.Error(t, s.SetData(map[string]any{"temperature": "hot"}))

	require.NoError(t, s.SetData(map[string]any{"temperature": 3.0}))
	assert.Error(t, s.Validate())

	s.Reset()
	assert.Equal(t, "", s.GetModel())
	assert.Equal(t, DefaultTemperature, s.GetTemperature())
}

func TestBrowserSection_Defaults(t *testing.T) {
	s := NewBrowserSection().Snapshot()
	assert.Equal(t, BrowserSettings{
		HomeURL:           DefaultHomeURL,
		SearchURL:         DefaultSearchURL,
		SearchHomeURL:     DefaultSearchHomeURL,
		ViewportWidth:     DefaultViewportWidth,
		ViewportHeight:    DefaultViewportHeight,
		GenerationTimeout: DefaultGenerationTimeout,
	}, s)
	assert.NoError(t, NewBrowserSection().Validate())
}

func TestBrowserSection_SetData(t *testing.T) {
	s := NewBrowserSection()
	require.NoError(t, s.SetData(map[string]any{
		"home_url":           "https://duckduckgo.com",
		"search_url":         "https://duckduckgo.com/?q=",
		"search_home_url":    "",
		"headless":           true,
		"viewport_width":     1024.0,
		"viewport_height":    768,
		"generation_timeout": "45s",
	}))

	got := s.Snapshot()
	assert.Equal(t, "https://duckduckgo.com", got.HomeURL)
	assert.Equal(t, "https://duckduckgo.com/?q=", got.SearchURL)
	assert.Equal(t, DefaultSearchHomeURL, got.SearchHomeURL, "empty strings keep the default")
	assert.True(t, got.Headless)
	assert.Equal(t, 1024, got.ViewportWidth)
	assert.Equal(t, 768, got.ViewportHeight)
	assert.Equal(t, 45*time.Second, got.GenerationTimeout)
}

func TestBrowserSection_SetDataErrors(t *testing.T) {
	tests := map[string]map[string]any{
		"url type":       {"home_url": 1},
		"headless type":  {"headless": "yes"},
		"viewport type":  {"viewport_width": "wide"},
		"fractional":     {"viewport_height": 10.5},
		"timeout type":   {"generation_timeout": 30},
		"timeout format": {"generation_timeout": "soon"},
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, NewBrowserSection().SetData(data))
		})
	}
}

func TestBrowserSection_Validate(t *testing.T) {
	s := NewBrowserSection()
	require.NoError(t, s.SetData(map[string]any{"home_url": "google.com"}))
	assert.ErrorContains(t, s.Validate(), "home_url")

	s = NewBrowserSection()
	require.NoError(t, s.SetData(map[string]any{"viewport_width": 0}))
	assert.Error(t, s.Validate())
}

func TestLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultHomeURL, cfg.Browser.Snapshot().HomeURL)

	cfg.LLM.SetModel("gpt-4o-mini")
	cfg.Browser.SetHeadless(true)
	require.NoError(t, cfg.Save())

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", again.LLM.GetModel())
	assert.True(t, again.Browser.Snapshot().Headless)
	assert.Equal(t, DefaultGenerationTimeout, again.Browser.Snapshot().GenerationTimeout)
}

func TestLoadFrom_RejectsInvalidFile(t *testing.T) {
	store := newMockStore()
	store.sections[SectionIDBrowser] = map[string]interface{}{"search_url": "not a url"}

	_, err := LoadFrom(store)
	assert.ErrorContains(t, err, "browser")
}
