package watcher

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func startWatcher(t *testing.T, paths ...string) *Watcher {
	t.Helper()

	w, err := New(testLogger(), Options{SettleDelay: 50 * time.Millisecond})
	require.NoError(t, err)

	for _, p := range paths {
		require.NoError(t, w.Watch(p))
	}

	ctx, cancel := context.WithCancel(context.Background())
	go w.Start(ctx) //nolint:errcheck // Test goroutine

	t.Cleanup(func() {
		cancel()
		_ = w.Stop()
	})
	return w
}

func waitForEvent(t *testing.T, w *Watcher) Event {
	t.Helper()
	select {
	case ev := <-w.Events():
		return ev
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for event")
		return Event{}
	}
}

func TestNew(t *testing.T) {
	w, err := New(testLogger(), Options{})
	require.NoError(t, err)
	require.NotNil(t, w)

	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}

func TestWatcher_WatchMissingDirectory(t *testing.T) {
	w, err := New(testLogger(), Options{})
	require.NoError(t, err)
	defer w.Stop() //nolint:errcheck // Test cleanup

	err = w.Watch(filepath.Join(t.TempDir(), "missing", "tags.txt"))
	assert.Error(t, err)
}

func TestWatcher_FileCreated(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tags.txt")
	w := startWatcher(t, path)

	require.NoError(t, os.WriteFile(path, []byte("cat\n"), 0o644))

	ev := waitForEvent(t, w)
	assert.Equal(t, EventAdded, ev.Type)
	assert.Equal(t, path, ev.Path)
	assert.Equal(t, int64(4), ev.Size)
}

func TestWatcher_FileModified(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tags.txt")
	require.NoError(t, os.WriteFile(path, []byte("cat\n"), 0o644))
	w := startWatcher(t, path)

	require.NoError(t, os.WriteFile(path, []byte("cat\ndog\n"), 0o644))

	ev := waitForEvent(t, w)
	assert.Equal(t, EventModified, ev.Type)
	assert.Equal(t, path, ev.Path)
}

func TestWatcher_FileRemoved(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tags.txt")
	require.NoError(t, os.WriteFile(path, []byte("cat\n"), 0o644))
	w := startWatcher(t, path)

	require.NoError(t, os.Remove(path))

	ev := waitForEvent(t, w)
	assert.Equal(t, EventRemoved, ev.Type)
}

func TestWatcher_IgnoresUnwatchedFiles(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, filepath.Join(dir, "tags.txt"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))

	select {
	case ev := <-w.Events():
		t.Fatalf("unexpected event: %+v", ev)
	case <-time.After(300 * time.Millisecond):
	}
}
