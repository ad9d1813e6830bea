package types

// Origin tags where an indexed chunk or source file came from: the engine
// tree (immutable, authoritative) or the consuming project tree.
type Origin string

const (
	OriginEngine  Origin = "engine"
	OriginProject Origin = "project"
)

// Validate checks if the origin is one of the recognized values
func (o Origin) Validate() error {
	switch o {
	case OriginEngine, OriginProject:
		return nil
	default:
		return ErrInvalidOrigin
	}
}

// ChunkMetadata is the metadata bag attached to an indexed chunk by the
// external indexing pipeline
type ChunkMetadata struct {
	EntityName string     // Primary entity the chunk covers, if one was detected
	EntityType EntityKind // Kind of that entity; empty if none
	Macros     []string   // Reflection macro tags present (UCLASS, UPROPERTY, ...)
	IsHeader   bool       // True for .h/.hpp files, false for implementation files
}

// HasMacro returns true if the chunk carries the given macro tag
func (m *ChunkMetadata) HasMacro(macro string) bool {
	for _, tag := range m.Macros {
		if tag == macro {
			return true
		}
	}
	return false
}

// Chunk is a contiguous span of indexed source text with its embedding
// vector. Chunks are produced by the external indexing pipeline; the engine
// only ever reads them from a loaded snapshot.
type Chunk struct {
	// Identification
	ID     string
	Path   string // Relative to its root
	Origin Origin

	// Location
	StartLine int
	EndLine   int

	// Content
	Content string
	Vector  []float32 // Fixed-length embedding, normalized by the indexer

	// Metadata
	Metadata ChunkMetadata
}

// Validate performs comprehensive validation of the chunk
func (c *Chunk) Validate() error {
	if c.ID == "" {
		return ErrInvalidChunkID
	}

	if c.Path == "" {
		return ErrEmptyPath
	}

	if err := c.Origin.Validate(); err != nil {
		return err
	}

	if c.StartLine <= 0 || c.EndLine <= 0 || c.StartLine > c.EndLine {
		return ErrInvalidLineRange
	}

	if len(c.Vector) == 0 {
		return ErrEmptyVector
	}

	if c.Metadata.EntityType != "" {
		if err := c.Metadata.EntityType.Validate(); err != nil {
			return err
		}
	}

	return nil
}
