package index

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last write event before the
// snapshot is reloaded. SQLite touches the database and its sidecar files in
// bursts; one reload per burst is enough.
const DefaultDebounce = 500 * time.Millisecond

// Watch blocks watching the store's database file and reloads the snapshot
// after each debounced burst of writes. A reload failure is logged and
// watching continues; a malformed in-progress write should not kill the
// watcher. Returns when ctx is done or the filesystem watcher breaks.
func (m *Manager) Watch(ctx context.Context, debounce time.Duration) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory rather than the file: the indexing pipeline may
	// replace the database wholesale, which drops a watch on the file itself.
	dbPath := m.store.Path()
	dbDir := filepath.Dir(dbPath)
	if err := watcher.Add(dbDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dbDir, err)
	}

	base := filepath.Base(dbPath)
	related := map[string]bool{
		base:              true,
		base + "-wal":     true,
		base + "-journal": true,
	}

	m.logger.Debug("watching index store", "path", dbPath, "debounce", debounce)

	var timer *time.Timer
	var fire <-chan time.Time // nil until the first relevant event

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !related[filepath.Base(event.Name)] {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
				fire = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			m.logger.Warn("index watcher error", "error", err)

		case <-fire:
			timer = nil
			fire = nil
			if err := m.Load(ctx); err != nil {
				m.logger.Warn("snapshot reload failed", "error", err)
			}
		}
	}
}
