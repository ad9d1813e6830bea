package types

// Scope selects which source roots and index origins a query sees
type Scope string

const (
	ScopeEngine  Scope = "engine"
	ScopeProject Scope = "project"
	ScopeAll     Scope = "all"
)

// Valid checks if the scope is one of the recognized values
func (s Scope) Valid() bool {
	switch s {
	case ScopeEngine, ScopeProject, ScopeAll:
		return true
	default:
		return false
	}
}

// Admits returns true if a chunk or file with the given origin is visible
// under this scope
func (s Scope) Admits(origin Origin) bool {
	switch s {
	case ScopeAll:
		return true
	case ScopeEngine:
		return origin == OriginEngine
	case ScopeProject:
		return origin == OriginProject
	default:
		return false
	}
}

// FileKind distinguishes header files from implementation files
type FileKind string

const (
	FileKindAny    FileKind = ""
	FileKindHeader FileKind = "header"
	FileKindImpl   FileKind = "impl"
)

// Filters narrows and boosts semantic search candidates by chunk metadata
type Filters struct {
	// Hard filters: a chunk failing any active filter is excluded
	EntityType   EntityKind // Match chunk entity type exactly; empty means any
	RequireMacro string     // Chunk must carry this macro tag; empty means any
	FileKind     FileKind   // Header-vs-implementation restriction

	// Boost flags: multiplicative score adjustments, never exclusions
	BoostMacroMatch bool // Boost chunks carrying macro annotations
	BoostNameMatch  bool // Boost chunks whose entity name matches a query candidate
}

// Validate checks filter field values
func (f *Filters) Validate() error {
	if f.EntityType != "" {
		if err := f.EntityType.Validate(); err != nil {
			return err
		}
	}

	switch f.FileKind {
	case FileKindAny, FileKindHeader, FileKindImpl:
	default:
		return ErrInvalidFileKind
	}

	return nil
}

// Query is a single request against the hybrid engine. Construct it once and
// treat it as immutable; the engine never modifies a caller's query.
type Query struct {
	Text    string
	TopK    int
	Scope   Scope
	Filters Filters
}

// Validate performs comprehensive validation of the query
func (q *Query) Validate() error {
	if q.Text == "" {
		return ErrEmptyQuery
	}

	if q.TopK < 1 {
		return ErrInvalidTopK
	}

	if !q.Scope.Valid() {
		return ErrInvalidScope
	}

	return q.Filters.Validate()
}
