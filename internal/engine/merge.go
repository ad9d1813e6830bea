package engine

import (
	"sort"

	"github.com/unrealkit/uecontext/pkg/types"
)

// merge unions the structural and semantic branch results into one ranked,
// deduplicated entry list. Definition entries are authoritative: a semantic
// hit overlapping a definition span is absorbed into it, never the other way
// around. Truncation to topK happens last, so deduplication can never starve
// the result set.
func merge(definitions []types.DefinitionMatch, semantic []types.SemanticMatch, topK int) []types.ResultEntry {
	entries := make([]types.ResultEntry, 0, len(definitions)+len(semantic))

	for i := range definitions {
		d := &definitions[i]
		entry := types.ResultEntry{
			Kind:       types.ResultDefinition,
			Path:       d.Path,
			Origin:     d.Origin,
			StartLine:  d.StartLine,
			EndLine:    d.EndLine,
			Score:      d.Score,
			Definition: d,
		}
		// Two definitions of one name can still collide, e.g. a forward
		// declaration inside a span that also holds the full body. The
		// extractor orders full bodies first, so first-in wins.
		if collideIndex(entries, &entry) < 0 {
			entries = append(entries, entry)
		}
	}

	for i := range semantic {
		m := &semantic[i]
		if m.Chunk == nil {
			continue
		}
		entry := types.ResultEntry{
			Kind:       types.ResultSemantic,
			Path:       m.Chunk.Path,
			Origin:     m.Chunk.Origin,
			StartLine:  m.Chunk.StartLine,
			EndLine:    m.Chunk.EndLine,
			Score:      m.Score,
			Similarity: m.Similarity,
			Chunk:      m.Chunk,
		}
		if at := collideIndex(entries, &entry); at >= 0 {
			entries[at].Absorbed = append(entries[at].Absorbed, m.ChunkID)
			continue
		}
		entries = append(entries, entry)
	}

	rank(entries)

	if len(entries) > topK {
		entries = entries[:topK]
	}
	return entries
}

// collideIndex returns the index of the first kept entry sharing a dedup key
// with candidate, or -1. The dedup key is (file path, overlapping line range);
// origin distinguishes identical relative paths from different trees.
func collideIndex(entries []types.ResultEntry, candidate *types.ResultEntry) int {
	for i := range entries {
		if entries[i].Overlaps(candidate) {
			return i
		}
	}
	return -1
}

// rank orders entries for the caller: definitions above semantic matches as a
// class, each class by its native score descending. The two scoring domains
// are never mapped onto one numeric scale; class is the primary key. Path and
// start line break remaining ties so equal-scored runs stay deterministic.
func rank(entries []types.ResultEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := &entries[i], &entries[j]
		if a.Kind != b.Kind {
			return a.Kind == types.ResultDefinition
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		return a.StartLine < b.StartLine
	})
}
