package tui

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// storeChangedMsg is sent when another process may have written the store.
type storeChangedMsg struct{}

// storeWatcher watches the directory holding the store and reports changes to
// files whose name starts with prefix. An empty prefix matches everything.
type storeWatcher struct {
	w      *fsnotify.Watcher
	prefix string
}

// watchStore starts watching statePath. A directory is watched as a whole; for a file
// its parent is watched and events are filtered to the file and its siblings sharing
// its name (state.db-wal, state.db-shm). Returns nil when the path does not exist or
// the watcher cannot be created; the screen then works without live reload.
func watchStore(statePath string) *storeWatcher {
	info, err := os.Stat(statePath)
	if err != nil {
		return nil
	}
	dir, prefix := statePath, ""
	if !info.IsDir() {
		dir, prefix = filepath.Dir(statePath), filepath.Base(statePath)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Warn("fsnotify: create watcher, live reload disabled", "error", err)
		return nil
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		slog.Warn("fsnotify: watch failed, live reload disabled", "dir", dir, "error", err)
		return nil
	}
	return &storeWatcher{w: w, prefix: prefix}
}

// Close stops the watcher; a pending next() command then returns nil.
func (s *storeWatcher) Close() error {
	return s.w.Close()
}

func (s *storeWatcher) matches(name string) bool {
	return strings.HasPrefix(filepath.Base(name), s.prefix)
}

// next returns a command that blocks until a relevant change settles, debounced so a
// burst of writes yields one message.
func (s *storeWatcher) next() tea.Cmd {
	return func() tea.Msg {
		debounce := newDebounceTimer()
		defer debounce.Stop()

		for {
			select {
			case event, ok := <-s.w.Events:
				if !ok {
					return nil
				}
				if s.matches(event.Name) {
					resetDebounceTimer(debounce)
				}

			case <-debounce.C:
				return storeChangedMsg{}

			case err, ok := <-s.w.Errors:
				if !ok {
					return nil
				}
				slog.Warn("fsnotify: watcher error", "error", err)
				return nil
			}
		}
	}
}

func newDebounceTimer() *time.Timer {
	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	return timer
}

func resetDebounceTimer(timer *time.Timer) {
	const debounceDuration = 100 * time.Millisecond
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	timer.Reset(debounceDuration)
}
