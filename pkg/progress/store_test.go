package progress

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "progress.csv"))
	require.NoError(t, err)
	return store
}

func daysAgo(n int) time.Time {
	return time.Now().AddDate(0, 0, -n)
}

func TestScore(t *testing.T) {
	assert.Equal(t, 0.0, Score(0, 0))
	assert.Equal(t, 100.0, Score(5, 0))
	assert.Equal(t, 0.0, Score(0, 3))
	assert.Equal(t, 66.67, Score(2, 1))
	assert.Equal(t, 33.33, Score(1, 2))
}

func TestStore_Record(t *testing.T) {
	store := newTestStore(t)

	entry, err := store.Record(Entry{Completed: 3, Pending: 1, RolledOver: 2})
	require.NoError(t, err)
	assert.Equal(t, 75.0, entry.Score)
	assert.False(t, entry.Date.IsZero())

	got, ok := store.Get(time.Now())
	require.True(t, ok)
	assert.Equal(t, 3, got.Completed)
}

func TestStore_Record_UpsertsSameDay(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Record(Entry{Completed: 1, Pending: 3})
	require.NoError(t, err)
	_, err = store.Record(Entry{Completed: 4, Pending: 0, Notes: "strong finish"})
	require.NoError(t, err)

	in := store.Window(1)
	require.Len(t, in.Entries, 1)
	assert.Equal(t, 4, in.Entries[0].Completed)
	assert.Equal(t, 100.0, in.Entries[0].Score)
	assert.Equal(t, "strong finish", in.Entries[0].Notes)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.csv")

	store, err := NewStore(path)
	require.NoError(t, err)
	_, err = store.Record(Entry{Date: daysAgo(1), Completed: 2, Pending: 2})
	require.NoError(t, err)

	reopened, err := NewStore(path)
	require.NoError(t, err)

	got, ok := reopened.Get(daysAgo(1))
	require.True(t, ok)
	assert.Equal(t, 50.0, got.Score)
}

func TestStore_Window(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Record(Entry{Date: daysAgo(10), Completed: 5, Pending: 0})
	require.NoError(t, err)
	_, err = store.Record(Entry{Date: daysAgo(3), Completed: 2, Pending: 2, RolledOver: 1})
	require.NoError(t, err)
	_, err = store.Record(Entry{Date: daysAgo(1), Completed: 3, Pending: 1, RolledOver: 2})
	require.NoError(t, err)

	in := store.Window(7)
	require.Len(t, in.Entries, 2, "entries outside the window are excluded")
	assert.True(t, in.Entries[0].Date.Before(in.Entries[1].Date), "oldest first")
	assert.Equal(t, 5, in.TotalCompleted)
	assert.Equal(t, 3, in.TotalPending)
	assert.Equal(t, 3, in.TotalRolledOver)
	assert.Equal(t, 62.5, in.AverageScore)
	assert.Equal(t, 62.5, in.CompletionRate)

	text := in.String()
	assert.Contains(t, text, "last 7 days")
	assert.Contains(t, text, "Average score: 62.50")
}

func TestStore_Window_KeepsOldestDayWestOfUTC(t *testing.T) {
	prevLocal := time.Local
	time.Local = time.FixedZone("UTC-5", -5*60*60)
	defer func() { time.Local = prevLocal }()

	store := newTestStore(t)

	// Reloaded dates are UTC midnights while the window cutoff is local
	// time; the oldest day of the window must survive the comparison.
	oldest := time.Now().AddDate(0, 0, -(DefaultWindowDays - 1))
	utcMidnight := time.Date(oldest.Year(), oldest.Month(), oldest.Day(), 0, 0, 0, 0, time.UTC)
	_, err := store.Record(Entry{Date: utcMidnight, Completed: 1})
	require.NoError(t, err)

	in := store.Window(DefaultWindowDays)
	require.Len(t, in.Entries, 1, "oldest day of the window must be included")
}

func TestStore_Window_DefaultAndEmpty(t *testing.T) {
	store := newTestStore(t)

	in := store.Window(0)
	assert.Equal(t, DefaultWindowDays, in.Days)
	assert.Empty(t, in.Entries)
	assert.Contains(t, in.String(), "No progress recorded")
}

func TestStore_CSVFileShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.csv")
	store, err := NewStore(path)
	require.NoError(t, err)

	_, err = store.Record(Entry{Completed: 1, Pending: 1})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(csvHeader, ","), lines[0])
	assert.Contains(t, lines[1], "50.00")
}
