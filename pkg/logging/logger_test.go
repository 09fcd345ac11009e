package logging

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useTempLogDir points the package at a temp directory and resets the
// session so each test gets its own log file. The init Once is consumed
// with a no-op so initLogDirectory keeps the override.
func useTempLogDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()

	initOnce = sync.Once{}
	initOnce.Do(func() {})
	logDir = dir
	initErr = nil

	sessionIDOnce = sync.Once{}
	sessionID = ""

	t.Cleanup(func() {
		initOnce = sync.Once{}
		sessionIDOnce = sync.Once{}
		logDir = ""
		initErr = nil
		sessionID = ""
	})

	return dir
}

func TestNewLogger(t *testing.T) {
	dir := useTempLogDir(t)

	logger, err := NewLogger("assistant")
	require.NoError(t, err)
	defer logger.Close()

	assert.Equal(t, "assistant", logger.component)
	assert.NotEmpty(t, logger.SessionID())
	assert.Equal(t, dir, filepath.Dir(logger.LogPath()))

	_, err = os.Stat(logger.LogPath())
	assert.NoError(t, err, "log file must exist after NewLogger")
}

func TestLogger_LineFormat(t *testing.T) {
	useTempLogDir(t)

	logger, err := NewLogger("tasks.store")
	require.NoError(t, err)
	defer logger.Close()

	logger.Printf("loaded %d tasks", 12)
	logger.Debugf("rollover check for %s", "2026-08-24")
	logger.Infof("rolled over %d tasks", 3)
	logger.Warnf("schedule template missing, using defaults")
	logger.Errorf("failed to save: %v", os.ErrPermission)

	raw, err := os.ReadFile(logger.LogPath())
	require.NoError(t, err)
	content := string(raw)

	assert.Contains(t, content, "[tasks.store] [INFO] loaded 12 tasks")
	assert.Contains(t, content, "[tasks.store] [DEBUG] rollover check for 2026-08-24")
	assert.Contains(t, content, "[tasks.store] [INFO] rolled over 3 tasks")
	assert.Contains(t, content, "[tasks.store] [WARN] schedule template missing")
	assert.Contains(t, content, "[tasks.store] [ERROR] failed to save")
}

func TestLogger_ComponentsShareSessionFile(t *testing.T) {
	useTempLogDir(t)

	assistant, err := NewLogger("assistant")
	require.NoError(t, err)
	defer assistant.Close()

	tui, err := NewLogger("tui")
	require.NoError(t, err)
	defer tui.Close()

	assert.Equal(t, assistant.SessionID(), tui.SessionID())
	assert.Equal(t, assistant.LogPath(), tui.LogPath())

	assistant.Infof("turn started")
	tui.Infof("viewport resized")

	raw, err := os.ReadFile(assistant.LogPath())
	require.NoError(t, err)

	assert.Contains(t, string(raw), "[assistant]")
	assert.Contains(t, string(raw), "[tui]")
}

func TestGetSessionID_StableWithinProcess(t *testing.T) {
	useTempLogDir(t)

	first := GetSessionID()
	assert.NotEmpty(t, first)
	assert.Equal(t, first, GetSessionID())
}

func TestGetLogDirectory(t *testing.T) {
	dir := useTempLogDir(t)

	got, err := GetLogDirectory()
	require.NoError(t, err)
	assert.Equal(t, dir, got)
}

func TestLogger_CloseIsIdempotent(t *testing.T) {
	useTempLogDir(t)

	logger, err := NewLogger("reviewer")
	require.NoError(t, err)

	assert.NoError(t, logger.Close())
	assert.NoError(t, logger.Close())
}

func TestLogger_FileNameCarriesSession(t *testing.T) {
	useTempLogDir(t)

	logger, err := NewLogger("assistant")
	require.NoError(t, err)
	defer logger.Close()

	name := filepath.Base(logger.LogPath())
	require.True(t, strings.HasSuffix(name, "-daykeep.log"))
	assert.Equal(t, logger.SessionID(), strings.TrimSuffix(name, "-daykeep.log"))
}
