package registry

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watcher invalidates the registry whenever an installed theme directory changes
type Watcher struct {
	registry *Registry
	watcher  *fsnotify.Watcher
	onChange func()
	done     chan struct{}
}

// Watch starts watching dirs and their theme subdirectories. It stops when
// ctx is done. onChange, if set, runs after each invalidation.
func (r *Registry) Watch(ctx context.Context, onChange func(), dirs ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		registry: r,
		watcher:  fw,
		onChange: onChange,
		done:     make(chan struct{}),
	}

	for _, root := range dirs {
		w.addTree(root)
	}

	go w.run(ctx)
	return w, nil
}

// Done is closed once the watcher has stopped
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

func (w *Watcher) run(ctx context.Context) {
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
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.registry.logger.Warn("theme watcher error", "err", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	// Watch new theme directories
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			w.addTree(event.Name)
		}
	}

	w.registry.logger.Debug("theme directory changed", "path", event.Name, "op", event.Op.String())
	w.registry.Invalidate()
	if w.onChange != nil {
		w.onChange()
	}
}

// addTree adds root and every non-hidden directory below it
func (w *Watcher) addTree(root string) {
	filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if strings.HasPrefix(info.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			if err := w.watcher.Add(path); err != nil {
				w.registry.logger.Warn("cannot watch theme directory", "path", path, "err", err)
			}
		}
		return nil
	})
}
