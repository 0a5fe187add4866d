package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileStore_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	store, err := NewFileStore(path)
	require.NoError(t, err)
	assert.Equal(t, path, store.Path())
	assert.False(t, store.IsModified())

	data, err := store.GetSection("llm")
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestNewFileStore_DefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewFileStore("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".agentbrowser", "config.json"), store.Path())
}

func TestNewFileStore_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := NewFileStore(path)
	assert.Error(t, err)
}

func TestFileStore_SaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	require.NoError(t, store.SetSection("browser", map[string]interface{}{"home_url": "https://example.com"}))
	assert.True(t, store.IsModified())
	require.NoError(t, store.Save())
	assert.False(t, store.IsModified())
	assert.NoFileExists(t, path+".tmp")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var onDisk map[string]any
	require.NoError(t, json.Unmarshal(raw, &onDisk))
	assert.Equal(t, "1.0", onDisk["version"])

	reloaded, err := NewFileStore(path)
	require.NoError(t, err)
	data, err := reloaded.GetSection("browser")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", data["home_url"])
}

func TestFileStore_ReturnsCopies(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	in := map[string]interface{}{"model": "a"}
	require.NoError(t, store.SetSection("llm", in))
	in["model"] = "mutated"

	out, err := store.GetSection("llm")
	require.NoError(t, err)
	assert.Equal(t, "a", out["model"])
	out["model"] = "mutated again"

	all, err := store.GetAll()
	require.NoError(t, err)
	assert.Equal(t, "a", all["llm"]["model"])
}

func TestFileStore_SetAll(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	require.NoError(t, store.SetAll(map[string]map[string]interface{}{
		"llm": {"model": "gpt-4o-mini"},
	}))
	all, err := store.GetAll()
	require.NoError(t, err)
	assert.Equal(t, map[string]map[string]interface{}{"llm": {"model": "gpt-4o-mini"}}, all)
}
