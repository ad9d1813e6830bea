package index

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Manager owns the published snapshot lifecycle: loading chunks from the
// store, validating them, and swapping the result in atomically. Readers
// take the current pointer without locking; reloads are serialized.
type Manager struct {
	store  *Store
	logger *slog.Logger

	mu      sync.Mutex // serializes reloads
	current atomic.Pointer[Snapshot]
}

// NewManager creates a snapshot manager over the given store. A nil logger
// falls back to slog.Default().
func NewManager(store *Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{store: store, logger: logger}
}

// Load reads all chunks from the store, builds a validated snapshot, and
// publishes it. Nothing is published on failure; the previous snapshot, if
// any, stays current and stays valid for queries already holding it.
func (m *Manager) Load(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	start := time.Now()
	chunks, err := m.store.LoadChunks(ctx)
	if err != nil {
		return fmt.Errorf("failed to load chunks: %w", err)
	}

	snapshot, err := newSnapshot(chunks)
	if err != nil {
		return err
	}

	m.current.Store(snapshot)
	m.logger.Info("index snapshot loaded",
		"chunks", len(snapshot.Chunks),
		"dimension", snapshot.Dimension,
		"duration", time.Since(start))
	return nil
}

// Snapshot returns the currently published snapshot, or ErrNoSnapshot before
// the first successful Load.
func (m *Manager) Snapshot() (*Snapshot, error) {
	snapshot := m.current.Load()
	if snapshot == nil {
		return nil, ErrNoSnapshot
	}
	return snapshot, nil
}
