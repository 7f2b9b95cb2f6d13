package watcher

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
	"go.uber.org/goleak"
)

func TestRelevant(t *testing.T) {
	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write to data file", fsnotify.Event{Name: "/d/habitual.db", Op: fsnotify.Write}, true},
		{"wal write", fsnotify.Event{Name: "/d/habitual.db-wal", Op: fsnotify.Write}, true},
		{"rename into place", fsnotify.Event{Name: "/d/habitual.db", Op: fsnotify.Create}, true},
		{"other file", fsnotify.Event{Name: "/d/notes.txt", Op: fsnotify.Write}, false},
		{"chmod only", fsnotify.Event{Name: "/d/habitual.db", Op: fsnotify.Chmod}, false},
		{"remove", fsnotify.Event{Name: "/d/habitual.db", Op: fsnotify.Remove}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, relevant("habitual.db", tt.event))
		})
	}
}

func TestWatch_DebouncesWrites(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "habitual.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0600))

	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- watch(ctx, path, 50*time.Millisecond, func() { calls.Add(1) })
	}()

	// Give the watcher time to register the directory
	time.Sleep(100 * time.Millisecond)
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte(`{"n":1}`), 0600))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("x"), 0600))

	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load(), "burst collapses into one reload")

	cancel()
	require.NoError(t, <-done)
}

func TestWatch_MissingDirectory(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "nope", "habitual.db"), func() {})
	require.Error(t, err)
}
