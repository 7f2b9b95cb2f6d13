// Package watcher reports changes to the habit data file made by other
// processes, so long-running commands can reload it.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
)

// Watch blocks until ctx is cancelled, calling onChange after writes to
// path settle. The parent directory is watched so atomic renames and SQLite
// side files (-wal, -journal) are seen too.
func Watch(ctx context.Context, path string, onChange func()) error {
	return watch(ctx, path, constants.WatchDebounce, onChange)
}

func watch(ctx context.Context, path string, debounce time.Duration, onChange func()) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve data path: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer w.Close()

	dir := filepath.Dir(absPath)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	logger.Debug("Watching data file", "path", absPath)

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounce, func() {
			if ctx.Err() == nil {
				onChange()
			}
		})
	}

	base := filepath.Base(absPath)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !relevant(base, event) {
				continue
			}
			logger.Debug("Data file change detected", "file", event.Name, "op", event.Op.String())
			trigger()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Data file watcher error", "error", err)
		}
	}
}

func relevant(base string, event fsnotify.Event) bool {
	name := filepath.Base(event.Name)
	if name != base && !strings.HasPrefix(name, base+"-") {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
