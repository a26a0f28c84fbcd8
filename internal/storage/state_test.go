package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "last_run.json")

	sf := NewStateFile(path, 24*time.Hour)
	sf.now = func() time.Time { return now }
	require.NoError(t, sf.Load())
	assert.Nil(t, sf.LastRun())

	sf.MarkRun(now, "default", "abc")
	sf.MarkSent("https://a.com/1")
	require.NoError(t, sf.Save())

	again := NewStateFile(path, 24*time.Hour)
	again.now = func() time.Time { return now.Add(time.Hour) }
	require.NoError(t, again.Load())
	require.NotNil(t, again.LastRun())
	assert.Equal(t, now, *again.LastRun())
	assert.Equal(t, "abc", again.State().DigestID)
	assert.True(t, again.WasSent("https://a.com/1"))
	assert.False(t, again.WasSent("https://a.com/2"))
}

func TestStateFileExpiresSent(t *testing.T) {
	sf := NewStateFile(filepath.Join(t.TempDir(), "s.json"), time.Hour)
	sf.now = func() time.Time { return now }
	sf.MarkSent("https://a.com/1")

	sf.now = func() time.Time { return now.Add(2 * time.Hour) }
	assert.False(t, sf.WasSent("https://a.com/1"))
	sf.Cleanup()
	assert.Equal(t, 0, sf.GetStats()["sent_items"])
}

func TestStateFileBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.json")
	require.NoError(t, os.WriteFile(path, []byte("{nope"), 0o644))
	assert.Error(t, NewStateFile(path, time.Hour).Load())
}
