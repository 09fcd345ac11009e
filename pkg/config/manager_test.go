package config

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingStore lets tests exercise the manager's error paths without
// touching the filesystem.
type failingStore struct {
	sections map[string]map[string]interface{}
	loadErr  error
	saveErr  error
}

func newFailingStore() *failingStore {
	return &failingStore{sections: make(map[string]map[string]interface{})}
}

func (f *failingStore) Load() error { return f.loadErr }
func (f *failingStore) Save() error { return f.saveErr }

func (f *failingStore) GetSection(id string) (map[string]interface{}, error) {
	if data, ok := f.sections[id]; ok {
		return data, nil
	}
	return make(map[string]interface{}), nil
}

func (f *failingStore) SetSection(id string, data map[string]interface{}) error {
	f.sections[id] = data
	return nil
}

func (f *failingStore) GetAll() (map[string]map[string]interface{}, error) {
	return f.sections, nil
}

func (f *failingStore) SetAll(data map[string]map[string]interface{}) error {
	f.sections = data
	return nil
}

// newTestManager wires a manager over a temp file store with the four
// sections the application registers.
func newTestManager(t *testing.T) (*Manager, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	m := NewManager(store)
	require.NoError(t, m.RegisterSection(NewLLMSection()))
	require.NoError(t, m.RegisterSection(NewDataSection()))
	require.NoError(t, m.RegisterSection(NewCalendarSection()))
	require.NoError(t, m.RegisterSection(NewUISection()))
	return m, path
}

func TestManager_RegisterSection(t *testing.T) {
	m, _ := newTestManager(t)

	t.Run("sections retrievable by ID", func(t *testing.T) {
		section, ok := m.GetSection(SectionIDLLM)
		require.True(t, ok)
		assert.IsType(t, &LLMSection{}, section)

		_, ok = m.GetSection("plugins")
		assert.False(t, ok)
	})

	t.Run("duplicate IDs rejected", func(t *testing.T) {
		err := m.RegisterSection(NewLLMSection())
		assert.ErrorContains(t, err, "already registered")
	})

	t.Run("registration order preserved", func(t *testing.T) {
		sections := m.GetSections()
		require.Len(t, sections, 4)
		assert.Equal(t, SectionIDLLM, sections[0].ID())
		assert.Equal(t, SectionIDData, sections[1].ID())
		assert.Equal(t, SectionIDCalendar, sections[2].ID())
		assert.Equal(t, SectionIDUI, sections[3].ID())
	})
}

func TestManager_SaveAndLoadRoundTrip(t *testing.T) {
	m, path := newTestManager(t)

	llm, _ := m.GetSection(SectionIDLLM)
	llm.(*LLMSection).SetModel("llama-3.3-70b-versatile")
	llm.(*LLMSection).SetAPIKey("gsk_test")

	ui, _ := m.GetSection(SectionIDUI)
	ui.(*UISection).SetSurface(SurfaceCLI)
	ui.(*UISection).SetShowThinking(false)

	require.NoError(t, m.SaveAll())

	// A fresh manager over the same file sees the saved settings
	store, err := NewFileStore(path)
	require.NoError(t, err)
	fresh := NewManager(store)
	freshLLM := NewLLMSection()
	freshUI := NewUISection()
	require.NoError(t, fresh.RegisterSection(freshLLM))
	require.NoError(t, fresh.RegisterSection(freshUI))
	require.NoError(t, fresh.LoadAll())

	assert.Equal(t, "llama-3.3-70b-versatile", freshLLM.GetModel())
	assert.Equal(t, "gsk_test", freshLLM.GetAPIKey())
	assert.Equal(t, SurfaceCLI, freshUI.GetSurface())
	assert.False(t, freshUI.GetShowThinking())
}

func TestManager_SaveAll_ValidatesFirst(t *testing.T) {
	m, _ := newTestManager(t)

	ui, _ := m.GetSection(SectionIDUI)
	ui.(*UISection).SetSurface("web")

	err := m.SaveAll()
	require.Error(t, err, "an unknown surface must block the save")
	assert.ErrorContains(t, err, "ui")
}

func TestManager_SaveAll_DataSectionTemplateMustExist(t *testing.T) {
	m, _ := newTestManager(t)

	data, _ := m.GetSection(SectionIDData)
	data.(*DataSection).SetScheduleTemplate(filepath.Join(t.TempDir(), "missing.yaml"))

	err := m.SaveAll()
	assert.Error(t, err, "a schedule template that cannot be read must block the save")
}

func TestManager_LoadAll_AppliesPersistedSections(t *testing.T) {
	store := newFailingStore()
	store.sections[SectionIDCalendar] = map[string]interface{}{
		"credentials_path": "/home/sam/.daykeep/credentials.json",
		"calendar_id":      "work@example.com",
	}

	m := NewManager(store)
	cal := NewCalendarSection()
	require.NoError(t, m.RegisterSection(cal))
	require.NoError(t, m.LoadAll())

	assert.True(t, cal.IsConfigured())
	assert.Equal(t, "work@example.com", cal.GetCalendarID())
}

func TestManager_StoreErrors(t *testing.T) {
	t.Run("load error surfaces", func(t *testing.T) {
		store := newFailingStore()
		store.loadErr = fmt.Errorf("disk gone")

		m := NewManager(store)
		assert.ErrorContains(t, m.LoadAll(), "disk gone")
	})

	t.Run("save error surfaces", func(t *testing.T) {
		store := newFailingStore()
		store.saveErr = fmt.Errorf("disk full")

		m := NewManager(store)
		require.NoError(t, m.RegisterSection(NewLLMSection()))
		assert.ErrorContains(t, m.SaveAll(), "disk full")
	})
}

func TestManager_ResetAll(t *testing.T) {
	m, _ := newTestManager(t)

	llm, _ := m.GetSection(SectionIDLLM)
	llm.(*LLMSection).SetModel("custom-model")

	cal, _ := m.GetSection(SectionIDCalendar)
	require.NoError(t, cal.SetData(map[string]interface{}{
		"credentials_path": "/tmp/creds.json",
		"calendar_id":      "work@example.com",
	}))

	m.ResetAll()

	assert.Empty(t, llm.(*LLMSection).GetModel())
	assert.False(t, cal.(*CalendarSection).IsConfigured())
	assert.Equal(t, "primary", cal.(*CalendarSection).GetCalendarID())
}

func TestManager_ConcurrentAccess(t *testing.T) {
	m, _ := newTestManager(t)

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			m.GetSection(SectionIDLLM)
			m.GetSections()
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}
}
