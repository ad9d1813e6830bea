package types

import "time"

// SemanticMatch is a single similarity hit against the loaded index
type SemanticMatch struct {
	// Identification
	ChunkID string
	Chunk   *Chunk // Resolved from the snapshot the search ran against

	// Scoring
	Similarity float64 // Raw normalized dot product, before boosts
	Boost      float64 // Applied multiplier; 1.0 when no boost fired
	Score      float64 // Similarity * Boost; the ranking key within its class
}

// ResultKind tags which branch produced a merged result entry
type ResultKind string

const (
	ResultDefinition ResultKind = "definition"
	ResultSemantic   ResultKind = "semantic"
)

// ResultEntry is one ranked entry in a merged result set. Exactly one of
// Definition or Chunk is set, matching Kind.
type ResultEntry struct {
	// Identification
	Kind   ResultKind
	Path   string
	Origin Origin

	// Location
	StartLine int
	EndLine   int

	// Scoring: native to the entry's class, never comparable across kinds
	Score float64

	// Payload
	Definition *DefinitionMatch
	Chunk      *Chunk
	Similarity float64 // Pre-boost similarity for semantic entries

	// Absorbed lists chunk IDs of semantic hits collapsed into this entry
	// during deduplication
	Absorbed []string
}

// Snippet returns the displayable text for the entry: the definition body
// for structural matches, the chunk content for semantic matches
func (e *ResultEntry) Snippet() string {
	if e.Definition != nil {
		return e.Definition.Body
	}
	if e.Chunk != nil {
		return e.Chunk.Content
	}
	return ""
}

// Overlaps reports whether two entries describe overlapping line spans in
// the same file. This is the dedup key relation used by the merge step.
// Paths are root-relative, so origin is part of file identity.
func (e *ResultEntry) Overlaps(other *ResultEntry) bool {
	if e.Path != other.Path || e.Origin != other.Origin {
		return false
	}
	return e.StartLine <= other.EndLine && other.StartLine <= e.EndLine
}

// Pipeline stages, used to attribute warnings and log fields
const (
	StageClassify = "classify"
	StageExtract  = "extract"
	StageEmbed    = "embed"
	StageSearch   = "search"
	StageMerge    = "merge"
	StageSnapshot = "snapshot"
)

// Warning is a non-fatal problem encountered while answering a query,
// carried alongside results instead of failing the call
type Warning struct {
	Stage   string // One of the Stage constants
	Message string
}

// Timings records per-phase durations for one query
type Timings struct {
	Classify time.Duration
	Extract  time.Duration
	Embed    time.Duration
	Search   time.Duration
	Merge    time.Duration
	Total    time.Duration
}

// Result is the merged, ranked answer to one query
type Result struct {
	// Identification
	QueryID string // Unique per call, for log correlation
	Query   string

	// Classification
	Intent Intent

	// Entries are ordered: definition entries first, then semantic, each
	// class sorted by its native score descending
	Entries []ResultEntry

	// Diagnostics
	Warnings []Warning
	Timings  Timings
}

// Definitions returns only the definition-kind entries, in rank order
func (r *Result) Definitions() []ResultEntry {
	return r.filter(ResultDefinition)
}

// Semantic returns only the semantic-kind entries, in rank order
func (r *Result) Semantic() []ResultEntry {
	return r.filter(ResultSemantic)
}

func (r *Result) filter(kind ResultKind) []ResultEntry {
	out := make([]ResultEntry, 0, len(r.Entries))
	for _, e := range r.Entries {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}
