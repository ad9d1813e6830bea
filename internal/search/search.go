package search

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/unrealkit/uecontext/internal/index"
	"github.com/unrealkit/uecontext/internal/intent"
	"github.com/unrealkit/uecontext/pkg/types"
)

const (
	// MacroBoost multiplies the score of macro-annotated chunks when macro
	// boosting is requested.
	MacroBoost = 1.15

	// NameBoost multiplies the score of chunks whose entity name matches a
	// high-confidence candidate from the query.
	NameBoost = 1.25
)

// Params carries everything one search call needs beyond the query vector.
type Params struct {
	TopK    int
	Scope   types.Scope
	Filters types.Filters

	// Candidates are entity names from intent classification, in rank
	// order. Used only for name boosting.
	Candidates []types.EntityCandidate

	// MacroBoost and NameBoost override the package defaults when > 0.
	MacroBoost float64
	NameBoost  float64
}

// Searcher ranks index chunks against a query embedding. It holds no state
// beyond a logger; every call runs against the snapshot it is handed, so
// concurrent searches over the same or different snapshots are safe.
type Searcher struct {
	logger *slog.Logger
}

// New creates a Searcher. A nil logger falls back to slog.Default().
func New(logger *slog.Logger) *Searcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Searcher{logger: logger}
}

// Search scores every chunk in the snapshot that passes the active filters
// and returns the topK highest adjusted scores. The scan is exhaustive by
// design: the snapshot is memory-resident and sized for interactive latency,
// and an approximate index can replace this without changing the contract.
//
// An empty snapshot or a query vector of the wrong dimension is a
// configuration error; zero passing chunks is an empty result, not an error.
func (s *Searcher) Search(ctx context.Context, snapshot *index.Snapshot, queryVector []float32, p Params) ([]types.SemanticMatch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if snapshot == nil || len(snapshot.Chunks) == 0 {
		return nil, index.ErrSnapshotEmpty
	}
	if len(queryVector) != snapshot.Dimension {
		return nil, fmt.Errorf("%w: query vector dimension %d does not match index dimension %d",
			index.ErrSnapshotCorrupt, len(queryVector), snapshot.Dimension)
	}
	if p.TopK <= 0 {
		return []types.SemanticMatch{}, nil
	}

	macroBoost := p.MacroBoost
	if macroBoost <= 0 {
		macroBoost = MacroBoost
	}
	nameBoost := p.NameBoost
	if nameBoost <= 0 {
		nameBoost = NameBoost
	}

	matches := make([]types.SemanticMatch, 0, p.TopK)
	for i := range snapshot.Chunks {
		chunk := &snapshot.Chunks[i]
		if !passes(chunk, p.Scope, &p.Filters) {
			continue
		}

		similarity := index.CosineSimilarity(queryVector, chunk.Vector)
		boost := 1.0
		if p.Filters.BoostMacroMatch && len(chunk.Metadata.Macros) > 0 {
			boost *= macroBoost
		}
		if p.Filters.BoostNameMatch && nameMatches(chunk.Metadata.EntityName, p.Candidates) {
			boost *= nameBoost
		}

		matches = append(matches, types.SemanticMatch{
			ChunkID:    chunk.ID,
			Chunk:      chunk,
			Similarity: similarity,
			Boost:      boost,
			Score:      similarity * boost,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return rankLess(&matches[i], &matches[j])
	})

	if len(matches) > p.TopK {
		matches = matches[:p.TopK]
	}

	s.logger.Debug("semantic search complete",
		"scanned", len(snapshot.Chunks),
		"matched", len(matches),
		"top_k", p.TopK)

	return matches, nil
}

// rankLess orders matches by adjusted score descending, breaking ties by
// pre-boost similarity descending, then file path ascending for determinism.
func rankLess(a, b *types.SemanticMatch) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.Similarity != b.Similarity {
		return a.Similarity > b.Similarity
	}
	return a.Chunk.Path < b.Chunk.Path
}

// passes applies the hard filters. A chunk failing any active filter is
// excluded before scoring.
func passes(chunk *types.Chunk, scope types.Scope, f *types.Filters) bool {
	if !scope.Admits(chunk.Origin) {
		return false
	}
	if f.EntityType != "" && chunk.Metadata.EntityType != f.EntityType {
		return false
	}
	if f.RequireMacro != "" && !chunk.Metadata.HasMacro(f.RequireMacro) {
		return false
	}
	switch f.FileKind {
	case types.FileKindHeader:
		if !chunk.Metadata.IsHeader {
			return false
		}
	case types.FileKindImpl:
		if chunk.Metadata.IsHeader {
			return false
		}
	}
	return true
}

// nameMatches reports whether the chunk's entity name matches any candidate
// at or above the boostable confidence level. Template parameter lists are
// ignored on both sides and the comparison is case-insensitive.
func nameMatches(entityName string, candidates []types.EntityCandidate) bool {
	if entityName == "" {
		return false
	}
	name := strings.ToLower(baseName(entityName))
	for _, candidate := range candidates {
		if candidate.Confidence < intent.BoostableConfidence {
			continue
		}
		if strings.ToLower(baseName(candidate.Name)) == name {
			return true
		}
	}
	return false
}

func baseName(name string) string {
	if i := strings.IndexByte(name, '<'); i >= 0 {
		name = name[:i]
	}
	return strings.TrimSpace(name)
}
