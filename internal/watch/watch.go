// Package watch observes source paths and reports when something changed,
// so the harness can rebuild and rerun between sessions.
package watch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// debounceWindow collapses editor save bursts into one change report.
const debounceWindow = 300 * time.Millisecond

// Watcher watches a set of directories recursively.
type Watcher struct {
	fsw *fsnotify.Watcher
}

// New creates a watcher over the given paths. Directories are added
// recursively; paths that do not exist are skipped.
//
// Parameters:
//   - paths: Files or directories to watch
//
// Returns:
//   - *Watcher: The watcher, to be Closed by the caller
//   - error: Setup failure, or no watchable path found
func New(paths []string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	added := 0
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		if !info.IsDir() {
			if fsw.Add(p) == nil {
				added++
			}
			continue
		}
		filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() {
				if fsw.Add(path) == nil {
					added++
				}
			}
			return nil
		})
	}

	if added == 0 {
		fsw.Close()
		return nil, fmt.Errorf("no watchable paths among %v", paths)
	}

	return &Watcher{fsw: fsw}, nil
}

// WaitForChange blocks until a file under a watched path is written,
// created, removed, or renamed. Further events inside the debounce
// window are absorbed before returning.
//
// Returns:
//   - string: The path of the first observed change
//   - error: Watcher failure or closed watcher
func (w *Watcher) WaitForChange() (string, error) {
	return waitForChange(w.fsw.Events, w.fsw.Errors)
}

// waitForChange implements WaitForChange over explicit channels. An
// error before any change aborts the wait; an error while the change
// is settling is logged, since the change itself is still worth
// reporting.
func waitForChange(events <-chan fsnotify.Event, errs <-chan error) (string, error) {
	var changed string
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return "", fmt.Errorf("watcher closed")
			}
			if !relevant(ev) {
				continue
			}
			changed = ev.Name
		case err, ok := <-errs:
			if !ok {
				return "", fmt.Errorf("watcher closed")
			}
			return "", fmt.Errorf("watch error: %w", err)
		}
		break
	}

	// Absorb the rest of the burst.
	timer := time.NewTimer(debounceWindow)
	defer timer.Stop()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return changed, nil
			}
			if relevant(ev) {
				if !timer.Stop() {
					<-timer.C
				}
				timer.Reset(debounceWindow)
			}
		case err, ok := <-errs:
			if ok {
				log.Warn("watch error while change settles", "err", err)
			}
		case <-timer.C:
			return changed, nil
		}
	}
}

// Close releases the underlying watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// relevant filters out chmod-only noise.
func relevant(ev fsnotify.Event) bool {
	return ev.Op.Has(fsnotify.Write) ||
		ev.Op.Has(fsnotify.Create) ||
		ev.Op.Has(fsnotify.Remove) ||
		ev.Op.Has(fsnotify.Rename)
}
