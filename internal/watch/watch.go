// Package watch reports files dropped into an attachment directory so the
// chat client can upload them.
package watch

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileOperation is what happened to a file.
type FileOperation int

const (
	FileCreated FileOperation = iota
	FileModified
)

func (o FileOperation) String() string {
	if o == FileModified {
		return "modified"
	}
	return "created"
}

// FileEvent is a settled change to a watched file.
type FileEvent struct {
	Path      string
	Operation FileOperation
}

// DefaultSettle is how long a file must stay quiet before it is reported.
const DefaultSettle = 250 * time.Millisecond

// FSNotifyWatcher watches one directory for files with given extensions.
type FSNotifyWatcher struct {
	watcher    *fsnotify.Watcher
	extensions []string // File extensions to watch (e.g., ".pdf", ".txt")
	settle     time.Duration
	errs       chan error
}

// NewFSNotifyWatcher creates a new file watcher. An empty extension list
// watches every file.
func NewFSNotifyWatcher(extensions []string, settle time.Duration) (*FSNotifyWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if settle <= 0 {
		settle = DefaultSettle
	}

	exts := make([]string, 0, len(extensions))
	for _, e := range extensions {
		exts = append(exts, strings.ToLower(e))
	}

	return &FSNotifyWatcher{
		watcher:    w,
		extensions: exts,
		settle:     settle,
		errs:       make(chan error, 8),
	}, nil
}

// Watch starts monitoring dir. A file being written produces several raw
// notifications; they are coalesced into one event once the file has been
// quiet for the settle period. The channel closes when ctx is done or the
// watcher is closed. Watch may be called once per watcher.
func (w *FSNotifyWatcher) Watch(ctx context.Context, dir string) (<-chan FileEvent, error) {
	if err := w.watcher.Add(dir); err != nil {
		return nil, err
	}

	events := make(chan FileEvent, 100)
	ready := make(chan FileEvent)
	done := make(chan struct{})

	go func() {
		var mu sync.Mutex
		pending := make(map[string]*time.Timer)
		ops := make(map[string]FileOperation)

		defer func() {
			close(done)
			mu.Lock()
			for _, t := range pending {
				t.Stop()
			}
			mu.Unlock()
			close(events)
			close(w.errs)
		}()

		schedule := func(path string, op FileOperation) {
			mu.Lock()
			defer mu.Unlock()

			// A create followed by writes is still a create.
			if prev, ok := ops[path]; !ok || prev != FileCreated {
				ops[path] = op
			}
			if t, ok := pending[path]; ok && t.Stop() {
				t.Reset(w.settle)
				return
			}
			var t *time.Timer
			t = time.AfterFunc(w.settle, func() {
				mu.Lock()
				if pending[path] != t {
					// Superseded by a later notification.
					mu.Unlock()
					return
				}
				ev := FileEvent{Path: path, Operation: ops[path]}
				delete(pending, path)
				delete(ops, path)
				mu.Unlock()

				select {
				case ready <- ev:
				case <-done:
				}
			})
			pending[path] = t
		}

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if !w.isWatchedExtension(event.Name) {
					continue
				}

				switch {
				case event.Op&fsnotify.Create == fsnotify.Create:
					schedule(event.Name, FileCreated)
				case event.Op&fsnotify.Write == fsnotify.Write:
					schedule(event.Name, FileModified)
				}
			case ev := <-ready:
				select {
				case events <- ev:
				case <-ctx.Done():
					return
				}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				select {
				case w.errs <- err:
				default:
				}
			}
		}
	}()

	return events, nil
}

// Errors reports watcher errors. Errors are dropped when nobody reads them.
// The channel closes with the event channel.
func (w *FSNotifyWatcher) Errors() <-chan error {
	return w.errs
}

// Close stops the watcher.
func (w *FSNotifyWatcher) Close() error {
	return w.watcher.Close()
}

// isWatchedExtension checks if the file has a watched extension.
func (w *FSNotifyWatcher) isWatchedExtension(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}
	if len(w.extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range w.extensions {
		if ext == e {
			return true
		}
	}
	return false
}
