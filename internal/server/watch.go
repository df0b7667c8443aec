package server

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/goliatone/go-formrender/internal/logging"
	"github.com/goliatone/go-formrender/pkg/definition"
)

const reloadDebounce = 100 * time.Millisecond

// Watcher reloads a Store when definition files under a directory change.
// Editors emit bursts of events per save, so reloads are debounced.
type Watcher struct {
	watcher *fsnotify.Watcher
	store   *Store
	logger  *logging.Logger
	reloads chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}

	started  atomic.Bool
	stopOnce sync.Once
	stopErr  error
}

// NewWatcher watches root and its subdirectories.
func NewWatcher(root string, store *Store, logger *logging.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	w := &Watcher{
		watcher: fw,
		store:   store,
		logger:  logger.With("component", "watcher"),
		reloads: make(chan struct{}, 1),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	if err := w.addRecursive(root); err != nil {
		_ = fw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.watcher.Add(path)
		}
		return nil
	})
}

// Reloaded receives a value after every successful reload.
func (w *Watcher) Reloaded() <-chan struct{} {
	return w.reloads
}

// Start begins processing events. Only the first call starts the loop.
func (w *Watcher) Start() {
	if w.started.CompareAndSwap(false, true) {
		go w.loop()
	}
}

// Stop ends the event loop and releases the watcher. Later calls return the
// first result.
func (w *Watcher) Stop() error {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		if w.started.Load() {
			<-w.doneCh
		}
		w.stopErr = w.watcher.Close()
	})
	return w.stopErr
}

func (w *Watcher) loop() {
	defer close(w.doneCh)

	timer := time.NewTimer(reloadDebounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-w.stopCh:
			timer.Stop()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.addRecursive(event.Name)
					timer.Reset(reloadDebounce)
					continue
				}
			}
			if !definition.IsDefinitionFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(reloadDebounce)

		case <-timer.C:
			if err := w.store.Reload(); err != nil {
				w.logger.Warn("definitions reload failed", "error", err)
				continue
			}
			w.logger.Info("definitions reloaded", "forms", len(w.store.Definitions().Forms))
			select {
			case w.reloads <- struct{}{}:
			default:
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}
