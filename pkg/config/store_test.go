package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	return store
}

func TestNewFileStore(t *testing.T) {
	t.Run("missing file is not an error", func(t *testing.T) {
		store := newTestFileStore(t)
		assert.False(t, store.IsModified())

		all, err := store.GetAll()
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("empty path defaults to home directory", func(t *testing.T) {
		store, err := NewFileStore("")
		require.NoError(t, err)

		home, err := os.UserHomeDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".daykeep", "config.json"), store.Path())
	})

	t.Run("loads existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		body := `{
			"version": "1.0",
			"sections": {
				"llm": {"model": "llama-3.3-70b-versatile"},
				"ui":  {"surface": "cli"}
			}
		}`
		require.NoError(t, os.WriteFile(path, []byte(body), 0600))

		store, err := NewFileStore(path)
		require.NoError(t, err)

		llm, err := store.GetSection(SectionIDLLM)
		require.NoError(t, err)
		assert.Equal(t, "llama-3.3-70b-versatile", llm["model"])

		ui, err := store.GetSection(SectionIDUI)
		require.NoError(t, err)
		assert.Equal(t, "cli", ui["surface"])
	})

	t.Run("corrupt file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

		_, err := NewFileStore(path)
		assert.Error(t, err)
	})
}

func TestFileStore_SaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	store, err := NewFileStore(path)
	require.NoError(t, err)

	require.NoError(t, store.SetSection(SectionIDData, map[string]interface{}{
		"dir": "/home/sam/.daykeep/data",
	}))
	require.NoError(t, store.SetSection(SectionIDCalendar, map[string]interface{}{
		"calendar_id": "primary",
	}))
	assert.True(t, store.IsModified())

	require.NoError(t, store.Save(), "Save must create missing directories")
	assert.False(t, store.IsModified(), "Save clears the modified flag")

	// The file is versioned JSON with a sections object
	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var onDisk map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &onDisk))
	assert.Equal(t, "1.0", onDisk["version"])

	reopened, err := NewFileStore(path)
	require.NoError(t, err)

	data, err := reopened.GetSection(SectionIDData)
	require.NoError(t, err)
	assert.Equal(t, "/home/sam/.daykeep/data", data["dir"])

	cal, err := reopened.GetSection(SectionIDCalendar)
	require.NoError(t, err)
	assert.Equal(t, "primary", cal["calendar_id"])
}

func TestFileStore_GetSection(t *testing.T) {
	store := newTestFileStore(t)

	t.Run("unknown section yields empty map", func(t *testing.T) {
		section, err := store.GetSection("no_such_section")
		require.NoError(t, err)
		assert.Empty(t, section)
	})

	t.Run("returned map is a copy", func(t *testing.T) {
		require.NoError(t, store.SetSection(SectionIDUI, map[string]interface{}{
			"surface": "tui",
		}))

		first, err := store.GetSection(SectionIDUI)
		require.NoError(t, err)
		first["surface"] = "cli"

		second, err := store.GetSection(SectionIDUI)
		require.NoError(t, err)
		assert.Equal(t, "tui", second["surface"], "caller mutations must not reach the store")
	})
}

func TestFileStore_SetSection_CopiesInput(t *testing.T) {
	store := newTestFileStore(t)

	input := map[string]interface{}{"model": "llama-3.3-70b-versatile"}
	require.NoError(t, store.SetSection(SectionIDLLM, input))

	input["model"] = "changed-after-set"

	section, err := store.GetSection(SectionIDLLM)
	require.NoError(t, err)
	assert.Equal(t, "llama-3.3-70b-versatile", section["model"])
}

func TestFileStore_GetAllAndSetAll(t *testing.T) {
	store := newTestFileStore(t)

	require.NoError(t, store.SetAll(map[string]map[string]interface{}{
		SectionIDLLM: {"model": "llama-3.3-70b-versatile"},
		SectionIDUI:  {"show_thinking": true},
	}))

	all, err := store.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "llama-3.3-70b-versatile", all[SectionIDLLM]["model"])

	// GetAll hands out a deep copy
	all[SectionIDUI]["show_thinking"] = false
	ui, err := store.GetSection(SectionIDUI)
	require.NoError(t, err)
	assert.Equal(t, true, ui["show_thinking"])
}
