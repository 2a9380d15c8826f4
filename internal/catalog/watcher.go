package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher keeps a Registry in sync with a catalog override file.
// Invalid revisions of the file are logged and ignored so the previously
// installed catalogs stay active.
type Watcher struct {
	path     string
	registry *Registry
	logger   *slog.Logger

	mu      sync.Mutex
	watcher *fsnotify.Watcher
}

// NewWatcher creates a watcher for the override file at path.
func NewWatcher(path string, registry *Registry, logger *slog.Logger) (*Watcher, error) {
	if path == "" {
		return nil, fmt.Errorf("catalog override path cannot be empty")
	}
	if registry == nil {
		return nil, fmt.Errorf("catalog registry is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{path: filepath.Clean(path), registry: registry, logger: logger}, nil
}

// Load reads the override file once and installs its catalogs.
func (w *Watcher) Load() ([]*Catalog, error) {
	cats, err := LoadFile(w.path)
	if err != nil {
		return nil, err
	}
	if err := w.registry.Replace(cats...); err != nil {
		return nil, err
	}

	for _, cat := range cats {
		w.logger.Info("catalog loaded",
			slog.String("path", w.path),
			slog.String("category", string(cat.Category)),
			slog.Int("questions", len(cat.Questions)),
			slog.Int("revision", w.registry.Revision(cat.Category)))
	}
	return cats, nil
}

// Watch reloads the file whenever it changes. The parent directory is watched
// so that atomic saves (write to a temp file, rename over the target) and
// symlink swaps keep being picked up. onChange, if not nil, is called with
// the catalogs of every successful reload. Watching stops when ctx is done
// or Close is called.
func (w *Watcher) Watch(ctx context.Context, onChange func([]*Catalog)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	w.mu.Lock()
	w.watcher = fw
	w.mu.Unlock()

	w.logger.Info("watching catalog file for changes", slog.String("path", w.path))

	realPath, _ := filepath.EvalSymlinks(w.path)
	go func() {
		defer fw.Close()

		for {
			select {
			case <-ctx.Done():
				w.logger.Debug("catalog watch stopped")
				return

			case event, ok := <-fw.Events:
				if !ok {
					return
				}
				// A symlinked file changes target without an event of its own.
				currentPath, _ := filepath.EvalSymlinks(w.path)
				target := filepath.Clean(event.Name) == w.path &&
					(event.Has(fsnotify.Write) || event.Has(fsnotify.Create))
				swapped := currentPath != "" && currentPath != realPath
				if !target && !swapped {
					continue
				}
				realPath = currentPath

				w.logger.Info("catalog file changed, reloading", slog.String("path", event.Name))
				cats, err := w.Load()
				if err != nil {
					w.logger.Error("failed to reload catalogs, keeping previous",
						slog.String("error", err.Error()),
						slog.String("path", w.path))
					continue
				}
				if onChange != nil {
					onChange(cats)
				}

			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				w.logger.Error("catalog watch error", slog.String("error", err.Error()))
			}
		}
	}()

	return nil
}

// Close stops watching the file.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watcher == nil {
		return nil
	}
	err := w.watcher.Close()
	w.watcher = nil
	return err
}
