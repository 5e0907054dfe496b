// Package watch re-runs an action whenever a sketch source file changes.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/chazu/sketch2asy/pkg/errors"
	"github.com/chazu/sketch2asy/pkg/logger"
)

// DefaultDebounce collapses the burst of events an editor save produces.
const DefaultDebounce = 200 * time.Millisecond

// ChangeFunc is called with the watched path after it changes.
type ChangeFunc func(path string)

// FileWatcher watches one file. It watches the containing directory
// because editors often save by renaming a temp file over the original,
// which drops a watch placed on the file itself.
type FileWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	onChange ChangeFunc
	debounce time.Duration

	mu    sync.Mutex
	timer *time.Timer

	running sync.Mutex // one onChange at a time
}

// New creates a watcher for path. Call Run to start delivering changes.
func New(path string, onChange ChangeFunc) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve %s", path)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, errors.Wrapf(err, "failed to watch %s", filepath.Dir(abs))
	}
	return &FileWatcher{
		path:     abs,
		watcher:  w,
		onChange: onChange,
		debounce: DefaultDebounce,
	}, nil
}

// SetDebounce changes the quiet period before onChange runs.
func (fw *FileWatcher) SetDebounce(d time.Duration) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	fw.debounce = d
}

// Run delivers changes until ctx is done, then closes the watcher.
func (fw *FileWatcher) Run(ctx context.Context) error {
	log := logger.Named("watch")
	defer fw.stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != fw.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			log.Debugw("Source changed", "file", event.Name, "op", event.Op.String())
			fw.schedule()

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}
			log.Warnw("Watcher error", "error", err)
		}
	}
}

func (fw *FileWatcher) schedule() {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.timer != nil {
		fw.timer.Stop()
	}
	fw.timer = time.AfterFunc(fw.debounce, func() {
		fw.running.Lock()
		defer fw.running.Unlock()
		fw.onChange(fw.path)
	})
}

func (fw *FileWatcher) stop() {
	fw.mu.Lock()
	if fw.timer != nil {
		fw.timer.Stop()
	}
	fw.mu.Unlock()
	fw.watcher.Close()
}
