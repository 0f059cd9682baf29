package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// FileWatcher reloads the configuration when its file changes
type FileWatcher struct {
	manager *Manager
	path    string
	watcher *fsnotify.Watcher
	logger  *log.Logger
	done    chan struct{}
}

// WatchFile reloads the configuration each time the file it was loaded from
// is written or replaced. Functions added with AddWatcher see every
// successful reload; a reload that fails validation keeps the previous
// configuration. The watch stops when ctx is done.
func (m *Manager) WatchFile(ctx context.Context, logger *log.Logger) (*FileWatcher, error) {
	path := m.ConfigPath()
	if path == "" {
		return nil, fmt.Errorf("configuration was not loaded from a file")
	}
	if logger == nil {
		logger = log.Default()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Editors replace the file, so watch its directory
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch config directory: %w", err)
	}

	w := &FileWatcher{
		manager: m,
		path:    filepath.Clean(path),
		watcher: fw,
		logger:  logger.WithPrefix("config"),
		done:    make(chan struct{}),
	}
	go w.run(ctx)
	return w, nil
}

// Done is closed once the watcher has stopped
func (w *FileWatcher) Done() <-chan struct{} {
	return w.done
}

func (w *FileWatcher) run(ctx context.Context) {
	defer close(w.done)
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := w.manager.LoadFromFile(w.path); err != nil {
				w.logger.Warn("keeping previous configuration", "path", w.path, "err", err)
				continue
			}
			w.logger.Info("configuration reloaded", "path", w.path)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", "err", err)
		}
	}
}
