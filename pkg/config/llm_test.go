package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLLMSection_Identity(t *testing.T) {
	section := NewLLMSection()

	assert.Equal(t, "llm", section.ID())
	assert.Equal(t, "LLM Settings", section.Title())
	assert.Contains(t, section.Description(), "Groq", "description should mention the default endpoint")
}

func TestLLMSection_Defaults(t *testing.T) {
	section := NewLLMSection()

	assert.Empty(t, section.GetModel(), "model comes from flags or config, never a baked-in default")
	assert.Empty(t, section.GetBaseURL())
	assert.Empty(t, section.GetAPIKey())
	assert.NoError(t, section.Validate(), "an empty section is valid; the provider validates at build time")
}

func TestLLMSection_DataRoundTrip(t *testing.T) {
	section := NewLLMSection()
	section.SetModel("llama-3.3-70b-versatile")
	section.SetBaseURL("https://api.groq.com/openai/v1")
	section.SetAPIKey("gsk_test")

	data := section.Data()
	assert.Equal(t, "llama-3.3-70b-versatile", data["model"])
	assert.Equal(t, "https://api.groq.com/openai/v1", data["base_url"])
	assert.Equal(t, "gsk_test", data["api_key"])

	fresh := NewLLMSection()
	require.NoError(t, fresh.SetData(data))
	assert.Equal(t, section.GetModel(), fresh.GetModel())
	assert.Equal(t, section.GetBaseURL(), fresh.GetBaseURL())
	assert.Equal(t, section.GetAPIKey(), fresh.GetAPIKey())
}

func TestLLMSection_SetData(t *testing.T) {
	t.Run("partial data leaves other fields alone", func(t *testing.T) {
		section := NewLLMSection()
		section.SetAPIKey("gsk_existing")

		require.NoError(t, section.SetData(map[string]any{
			"model": "llama-3.1-8b-instant",
		}))

		assert.Equal(t, "llama-3.1-8b-instant", section.GetModel())
		assert.Equal(t, "gsk_existing", section.GetAPIKey())
	})

	t.Run("nil data is a no-op", func(t *testing.T) {
		section := NewLLMSection()
		section.SetModel("llama-3.3-70b-versatile")

		require.NoError(t, section.SetData(nil))
		assert.Equal(t, "llama-3.3-70b-versatile", section.GetModel())
	})

	t.Run("wrongly typed values are skipped", func(t *testing.T) {
		section := NewLLMSection()

		require.NoError(t, section.SetData(map[string]any{
			"model":    42,
			"base_url": "https://api.groq.com/openai/v1",
		}))

		assert.Empty(t, section.GetModel())
		assert.Equal(t, "https://api.groq.com/openai/v1", section.GetBaseURL())
	})
}

func TestLLMSection_Reset(t *testing.T) {
	section := NewLLMSection()
	section.SetModel("llama-3.3-70b-versatile")
	section.SetBaseURL("https://api.groq.com/openai/v1")
	section.SetAPIKey("gsk_test")

	section.Reset()

	assert.Empty(t, section.GetModel())
	assert.Empty(t, section.GetBaseURL())
	assert.Empty(t, section.GetAPIKey())
}

func TestLLMSection_ConcurrentAccess(t *testing.T) {
	section := NewLLMSection()

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			section.SetModel("llama-3.3-70b-versatile")
			_ = section.GetModel()
			_ = section.Data()
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestLLMSection_PersistsThroughManager(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	store, err := NewFileStore(path)
	require.NoError(t, err)
	manager := NewManager(store)

	section := NewLLMSection()
	require.NoError(t, manager.RegisterSection(section))

	section.SetModel("llama-3.3-70b-versatile")
	section.SetAPIKey("gsk_test")
	require.NoError(t, manager.SaveAll())

	// Simulate a restart with a fresh store and section
	reopenedStore, err := NewFileStore(path)
	require.NoError(t, err)
	reopened := NewManager(reopenedStore)
	fresh := NewLLMSection()
	require.NoError(t, reopened.RegisterSection(fresh))
	require.NoError(t, reopened.LoadAll())

	assert.Equal(t, "llama-3.3-70b-versatile", fresh.GetModel())
	assert.Equal(t, "gsk_test", fresh.GetAPIKey())
}
