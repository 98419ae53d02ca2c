package cmd

import (
	"context"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/opmodel/resengine/internal/output"
)

// debounceInterval batches rapid successive filesystem events (an editor
// writing several files on save) into a single rebuild.
const debounceInterval = 200 * time.Millisecond

// dirWatcher watches every directory under a root, triggering a callback
// on a debounced timer whenever one of them reports a change.
type dirWatcher struct {
	watcher *fsnotify.Watcher
}

func newDirWatcher(root string) (*dirWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if addErr := watcher.Add(path); addErr != nil {
				output.Warn("watch: failed to add directory", "path", path, "error", addErr.Error())
			}
		}
		return nil
	})
	if err != nil {
		watcher.Close()
		return nil, err
	}

	return &dirWatcher{watcher: watcher}, nil
}

func (w *dirWatcher) Close() error {
	return w.watcher.Close()
}

// Run blocks until ctx is cancelled, calling onChange at most once per
// debounceInterval whenever a filesystem event arrives.
func (w *dirWatcher) Run(ctx context.Context, onChange func()) error {
	timer := time.NewTimer(debounceInterval)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !pending {
				pending = true
				timer.Reset(debounceInterval)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			output.Warn("watch error", "error", err.Error())

		case <-timer.C:
			if pending {
				pending = false
				onChange()
			}
		}
	}
}
