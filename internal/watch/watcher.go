// Package watch reports changes to a single file, debounced.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// FileWatcher calls OnChange when the watched file is written, created,
// renamed or removed. The parent directory is watched so that editors that
// save by rename are still seen.
type FileWatcher struct {
	path      string
	onChange  func()
	log       *zap.Logger
	watcher   *fsnotify.Watcher
	debouncer *Debouncer

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewFileWatcher creates a watcher for path. Start must be called to begin.
func NewFileWatcher(path string, debounce time.Duration, log *zap.Logger, onChange func()) (*FileWatcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		w.Close()
		return nil, err
	}
	return &FileWatcher{
		path:      abs,
		onChange:  onChange,
		log:       log.With(zap.String("path", abs)),
		watcher:   w,
		debouncer: NewDebouncer(debounce),
	}, nil
}

// Path returns the absolute path being watched.
func (fw *FileWatcher) Path() string {
	return fw.path
}

// Start begins watching. It does not block.
func (fw *FileWatcher) Start(ctx context.Context) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.running {
		return nil
	}
	if err := fw.watcher.Add(filepath.Dir(fw.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(fw.path), err)
	}
	fw.running = true
	fw.stopCh = make(chan struct{})
	fw.doneCh = make(chan struct{})
	go fw.run(ctx, fw.stopCh, fw.doneCh)
	fw.log.Debug("watching file")
	return nil
}

// Stop ends watching, cancels a pending callback, and waits for the event
// loop to exit. Safe to call more than once.
func (fw *FileWatcher) Stop() {
	fw.mu.Lock()
	if !fw.running {
		fw.mu.Unlock()
		fw.watcher.Close()
		return
	}
	fw.running = false
	close(fw.stopCh)
	done := fw.doneCh
	fw.mu.Unlock()

	<-done
	fw.debouncer.Cancel()
	if err := fw.watcher.Close(); err != nil {
		fw.log.Warn("close watcher", zap.Error(err))
	}
}

func (fw *FileWatcher) run(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case ev, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if !fw.relevant(ev) {
				continue
			}
			fw.log.Debug("file event", zap.String("op", ev.Op.String()))
			fw.debouncer.Trigger(fw.onChange)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.log.Warn("watcher error", zap.Error(err))
		}
	}
}

func (fw *FileWatcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != fw.path {
		return false
	}
	return ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}
