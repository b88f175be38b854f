package assets

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/sceneview/internal/logger"
)

// Watcher reports changes to files in a directory.
// fsnotify delivers events on its own goroutine; Poll drains them without
// blocking so the frame loop can check for changes once per tick.
type Watcher struct {
	dir    string
	suffix string
	w      *fsnotify.Watcher
}

// NewWatcher watches dir for files ending in suffix (empty matches everything).
func NewWatcher(dir, suffix string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	logger.Info("watching for changes", zap.String("dir", dir), zap.String("suffix", suffix))
	return &Watcher{dir: dir, suffix: suffix, w: w}, nil
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Poll returns the base names of matching files that were written, created
// or renamed since the last call. It never blocks.
func (w *Watcher) Poll() []string {
	var changed []string
	seen := make(map[string]bool)

	for {
		select {
		case event, ok := <-w.w.Events:
			if !ok {
				return changed
			}
			if !w.relevant(event) {
				continue
			}
			name := filepath.Base(event.Name)
			if !seen[name] {
				seen[name] = true
				changed = append(changed, name)
			}
		case err, ok := <-w.w.Errors:
			if !ok {
				return changed
			}
			logger.Warn("watcher error", zap.String("dir", w.dir), zap.Error(err))
		default:
			return changed
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	return w.suffix == "" || strings.HasSuffix(event.Name, w.suffix)
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.w.Close()
}
