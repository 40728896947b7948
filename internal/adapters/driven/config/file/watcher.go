package file

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/crmbridge/internal/logger"
)

// Watcher reloads the config store when its file changes on disk and
// notifies a callback. Editors replace rather than rewrite config files,
// so the watch is on the directory and filtered to the config path.
type Watcher struct {
	store    *ConfigStore
	notifier *fsnotify.Watcher
	onReload func()
	done     chan struct{}
}

// NewWatcher starts watching the store's config file. onReload may be nil.
func NewWatcher(store *ConfigStore, onReload func()) (*Watcher, error) {
	notifier, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := notifier.Add(filepath.Dir(store.Path())); err != nil {
		notifier.Close()
		return nil, err
	}

	w := &Watcher{
		store:    store,
		notifier: notifier,
		onReload: onReload,
		done:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	defer close(w.done)

	for {
		select {
		case event, ok := <-w.notifier.Events:
			if !ok {
				return
			}
			if event.Name != w.store.Path() {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := w.store.Load(); err != nil {
				logger.Warn("config reload failed: %v", err)
				continue
			}
			logger.Info("config reloaded from %s", w.store.Path())
			if w.onReload != nil {
				w.onReload()
			}
		case err, ok := <-w.notifier.Errors:
			if !ok {
				return
			}
			logger.Warn("config watch error: %v", err)
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	err := w.notifier.Close()
	<-w.done
	return err
}
