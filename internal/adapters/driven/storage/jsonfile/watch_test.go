package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch_SaveTriggersCallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")

	var calls atomic.Int32
	w, err := Watch(path, func() { calls.Add(1) })
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, New(path).Save(context.Background(), sampleChunks()))

	assert.Eventually(t, func() bool { return calls.Load() > 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestWatch_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "store.json")

	var calls atomic.Int32
	w, err := Watch(path, func() { calls.Add(1) })
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0o644))

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}

func TestWatch_MissingDirectory(t *testing.T) {
	_, err := Watch(filepath.Join(t.TempDir(), "absent", "store.json"), func() {})
	assert.Error(t, err)
}

func TestWatcher_Relevant(t *testing.T) {
	w := &Watcher{path: "/data/store.json"}

	tests := []struct {
		name     string
		event    fsnotify.Event
		expected bool
	}{
		{"create", fsnotify.Event{Name: "/data/store.json", Op: fsnotify.Create}, true},
		{"write", fsnotify.Event{Name: "/data/store.json", Op: fsnotify.Write}, true},
		{"remove", fsnotify.Event{Name: "/data/store.json", Op: fsnotify.Remove}, true},
		{"rename", fsnotify.Event{Name: "/data/store.json", Op: fsnotify.Rename}, true},
		{"chmod only", fsnotify.Event{Name: "/data/store.json", Op: fsnotify.Chmod}, false},
		{"temp file", fsnotify.Event{Name: "/data/.store.json.123.tmp", Op: fsnotify.Create}, false},
		{"other file", fsnotify.Event{Name: "/data/other.json", Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, w.relevant(tt.event))
		})
	}
}

func TestWatcher_CloseTwice(t *testing.T) {
	w, err := Watch(filepath.Join(t.TempDir(), "store.json"), func() {})
	require.NoError(t, err)

	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}
