package session

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daykeep/daykeep/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_SaveAndLoad(t *testing.T) {
	store := openTestStore(t)

	history := []*types.Message{
		types.NewUserMessage("add a task to call the plumber"),
		types.NewAssistantMessage("Added it to your list."),
		types.NewToolMessage("Tool 'add_task' result:\nTask 1 added"),
	}
	require.NoError(t, store.Save("assistant", history))

	loaded, err := store.Load("assistant")
	require.NoError(t, err)
	require.Len(t, loaded, 3)
	assert.Equal(t, types.RoleUser, loaded[0].Role)
	assert.Equal(t, "Added it to your list.", loaded[1].Content)
	assert.Equal(t, types.RoleTool, loaded[2].Role)
}

func TestStore_Load_MissingAgent(t *testing.T) {
	store := openTestStore(t)

	loaded, err := store.Load("reviewer")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestStore_Save_ReplacesTranscript(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Save("assistant", []*types.Message{
		types.NewUserMessage("first"),
	}))
	require.NoError(t, store.Save("assistant", []*types.Message{
		types.NewUserMessage("first"),
		types.NewAssistantMessage("second"),
	}))

	loaded, err := store.Load("assistant")
	require.NoError(t, err)
	require.Len(t, loaded, 2)
}

func TestStore_Save_EmptyAgentRejected(t *testing.T) {
	store := openTestStore(t)
	assert.Error(t, store.Save("", nil))
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Save("reviewer", []*types.Message{
		types.NewUserMessage("how did today go?"),
	}))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.Load("reviewer")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "how did today go?", loaded[0].Content)
}

func TestStore_ClearAndAgents(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Save("assistant", nil))
	require.NoError(t, store.Save("reviewer", nil))

	agents, err := store.Agents()
	require.NoError(t, err)
	assert.Equal(t, []string{"assistant", "reviewer"}, agents)

	require.NoError(t, store.Clear("assistant"))

	agents, err = store.Agents()
	require.NoError(t, err)
	assert.Equal(t, []string{"reviewer"}, agents)

	loaded, err := store.Load("assistant")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}
