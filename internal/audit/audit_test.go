package audit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(actor, action, ref string) Entry {
	return Entry{
		Timestamp: time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC),
		Actor:     actor,
		Action:    action,
		Ref:       ref,
		Details:   "some detail",
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	e := entry("munshi-1", "confirm", "2025-03-001a")
	row := MarshalEntry(e)
	require.Len(t, row, 5)

	got, err := UnmarshalEntry(row)
	require.NoError(t, err)
	assert.Equal(t, e, got)
}

func TestUnmarshalEntry_BadFieldCount(t *testing.T) {
	_, err := UnmarshalEntry([]string{"just", "three", "fields"})
	require.Error(t, err)
}

func TestUnmarshalEntry_BadTimestamp(t *testing.T) {
	_, err := UnmarshalEntry([]string{"yesterday", "a", "b", "c", "d"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing timestamp")
}

func TestAppendAndRead(t *testing.T) {
	dir := t.TempDir()

	err := Append(dir, []Entry{entry("munshi-1", "confirm", "2025-03-001a")})
	require.NoError(t, err)
	err = Append(dir, []Entry{entry("owner-1", "admin-unconfirm", "2025-03-001a")})
	require.NoError(t, err)

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "confirm", entries[0].Action)
	assert.Equal(t, "admin-unconfirm", entries[1].Action)

	// Header written exactly once.
	data, err := os.ReadFile(filepath.Join(dir, "audit.csv"))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), Header))
}

func TestRead_NoFile(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLog_Record(t *testing.T) {
	dir := t.TempDir()
	log := NewLog(dir)

	require.NoError(t, log.Record("owner-1", "admin-unconfirm", "2025-03-002a", "wrong loan"))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "owner-1", entries[0].Actor)
	assert.Equal(t, "wrong loan", entries[0].Details)
	assert.False(t, entries[0].Timestamp.IsZero())
}
