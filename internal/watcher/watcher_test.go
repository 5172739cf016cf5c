package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytnotebook/ytnotebook/internal/logger"
)

func startWatcher(t *testing.T, dir string) *Watcher {
	t.Helper()

	w, err := New(logger.Discard(), Options{SettleDelay: 30 * time.Millisecond, Extensions: []string{".srt"}})
	require.NoError(t, err)
	require.NoError(t, w.Watch(dir))

	ctx, cancel := context.WithCancel(context.Background())
	go w.Start(ctx) //nolint:errcheck // returns nil on shutdown
	t.Cleanup(func() {
		cancel()
		_ = w.Stop()
	})
	return w
}

func nextEvent(t *testing.T, w *Watcher) Event {
	t.Helper()
	select {
	case ev := <-w.Events():
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for event")
		return Event{}
	}
}

func TestWatcher_AddedThenModified(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, dir)

	path := filepath.Join(dir, "abc.srt")
	require.NoError(t, os.WriteFile(path, []byte("1\n"), 0o600))

	ev := nextEvent(t, w)
	assert.Equal(t, EventAdded, ev.Type)
	assert.Equal(t, path, ev.Path)
	assert.Equal(t, int64(2), ev.Size)

	require.NoError(t, os.WriteFile(path, []byte("1\n00:00:00,000 --> 00:00:01,000\nHi\n"), 0o600))

	ev = nextEvent(t, w)
	assert.Equal(t, EventModified, ev.Type)
	assert.Equal(t, path, ev.Path)
}

func TestWatcher_ExistingFileIsKnown(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "old.srt")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o600))

	w := startWatcher(t, dir)

	require.NoError(t, os.Remove(path))
	ev := nextEvent(t, w)
	assert.Equal(t, EventRemoved, ev.Type)
	assert.Equal(t, path, ev.Path)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "real.srt"), []byte("x"), 0o600))

	ev := nextEvent(t, w)
	assert.Equal(t, filepath.Join(dir, "real.srt"), ev.Path)
}

func TestWatcher_StopClosesChannels(t *testing.T) {
	w, err := New(logger.Discard(), Options{})
	require.NoError(t, err)
	require.NoError(t, w.Watch(t.TempDir()))

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop(), "Stop is idempotent")

	_, open := <-w.Events()
	assert.False(t, open)
}
