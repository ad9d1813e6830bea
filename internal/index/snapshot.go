package index

import (
	"errors"
	"fmt"
	"time"

	"github.com/unrealkit/uecontext/pkg/types"
)

var (
	// ErrNoSnapshot is returned when no snapshot has been loaded yet
	ErrNoSnapshot = errors.New("no index snapshot loaded")
	// ErrSnapshotEmpty is returned when the store holds no chunks
	ErrSnapshotEmpty = errors.New("index snapshot is empty")
	// ErrSnapshotCorrupt is returned when loaded chunks fail consistency checks
	ErrSnapshotCorrupt = errors.New("index snapshot is corrupt")
)

// Snapshot is an immutable view of the chunk index at load time. Queries keep
// reading the snapshot they started with; reloads publish a fresh one and
// never mutate a published snapshot.
type Snapshot struct {
	Chunks    []types.Chunk
	Dimension int
	LoadedAt  time.Time
}

// newSnapshot validates chunks and freezes them into a Snapshot. All chunks
// must validate individually and share one embedding dimension.
func newSnapshot(chunks []types.Chunk) (*Snapshot, error) {
	if len(chunks) == 0 {
		return nil, ErrSnapshotEmpty
	}

	dimension := len(chunks[0].Vector)
	for i := range chunks {
		if err := chunks[i].Validate(); err != nil {
			return nil, fmt.Errorf("%w: chunk %s: %v", ErrSnapshotCorrupt, chunks[i].ID, err)
		}
		if len(chunks[i].Vector) != dimension {
			return nil, fmt.Errorf("%w: chunk %s has dimension %d, want %d",
				ErrSnapshotCorrupt, chunks[i].ID, len(chunks[i].Vector), dimension)
		}
	}

	return &Snapshot{
		Chunks:    chunks,
		Dimension: dimension,
		LoadedAt:  time.Now(),
	}, nil
}

// CountByOrigin returns how many chunks came from the given origin
func (s *Snapshot) CountByOrigin(origin types.Origin) int {
	count := 0
	for i := range s.Chunks {
		if s.Chunks[i].Origin == origin {
			count++
		}
	}
	return count
}
