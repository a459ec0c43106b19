package cliconfig

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/enigmacurry/glcd/pkg/log"
)

// debounceDelay coalesces the burst of fsnotify events an editor or
// atomic-rename save produces into a single reload.
const debounceDelay = 100 * time.Millisecond

// ConfigWatcher monitors a TOML config file via fsnotify and invokes a
// callback with the freshly parsed file on every change. The parent
// directory is watched rather than the file itself so that atomic-rename
// saves (the common editor pattern) keep being observed.
type ConfigWatcher struct {
	path     string
	onChange func(FileConfig)
	logger   log.Logger

	mu       sync.Mutex
	debounce *time.Timer
}

// NewConfigWatcher creates a watcher for the config file at path.
// onChange is called from the watcher goroutine after each debounced
// change; it must not block for long.
func NewConfigWatcher(path string, onChange func(FileConfig), logger log.Logger) *ConfigWatcher {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &ConfigWatcher{
		path:     path,
		onChange: onChange,
		logger:   logger,
	}
}

// Run watches the config file until ctx is canceled.
func (w *ConfigWatcher) Run(ctx context.Context) {
	if w.path == "" {
		return
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.logger.Error("config watcher: failed to create watcher", log.Err(err))
		return
	}
	defer watcher.Close()

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		w.logger.Error("config watcher: failed to watch directory",
			log.String("dir", dir), log.Err(err))
		return
	}

	base := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.debounceReload()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("config watcher: error", log.Err(err))
		}
	}
}

func (w *ConfigWatcher) debounceReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}

	w.debounce = time.AfterFunc(debounceDelay, w.reload)
}

func (w *ConfigWatcher) reload() {
	fc, err := LoadFileConfig(w.path)
	if err != nil {
		w.logger.Warn("config watcher: reload failed",
			log.String("path", w.path), log.Err(err))
		return
	}
	w.logger.Info("config watcher: configuration reloaded",
		log.String("path", w.path))
	w.onChange(fc)
}
