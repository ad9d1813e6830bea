package types

import "errors"

// EntityKind is the structural kind of a named source entity
type EntityKind string

const (
	EntityStruct   EntityKind = "struct"
	EntityClass    EntityKind = "class"
	EntityEnum     EntityKind = "enum"
	EntityFunction EntityKind = "function"
	EntityDelegate EntityKind = "delegate"
)

// Validate checks if the entity kind is valid
func (k EntityKind) Validate() error {
	switch k {
	case EntityStruct, EntityClass, EntityEnum, EntityFunction, EntityDelegate:
		return nil
	default:
		return ErrInvalidEntityKind
	}
}

// Member is a field or method extracted from a definition body. Member
// extraction is best-effort; a definition with an empty member list is still
// valid.
type Member struct {
	Name string
	Type string // Declared type for fields, return type for methods
}

// DefinitionMatch is one structural definition located by the extractor
type DefinitionMatch struct {
	// Identification
	Name string
	Kind EntityKind

	// Location
	Path      string
	Origin    Origin
	StartLine int // Anchor line, inclusive
	EndLine   int // Matching close delimiter (or terminator), inclusive

	// Content
	Body    string
	Members []Member
	Macros  []string // Annotation lines immediately preceding the anchor

	// Forward marks a declaration that ended in a terminator before any
	// body-opening delimiter
	Forward bool

	// Score is the fixed rank weight assigned at extraction time: full
	// engine definitions above full project definitions above forwards
	Score float64
}

// Validate performs comprehensive validation of the definition match
func (d *DefinitionMatch) Validate() error {
	if d.Name == "" {
		return errors.New("entity name is required")
	}

	if err := d.Kind.Validate(); err != nil {
		return err
	}

	if d.Path == "" {
		return ErrEmptyPath
	}

	if err := d.Origin.Validate(); err != nil {
		return err
	}

	if d.StartLine <= 0 || d.EndLine <= 0 || d.StartLine > d.EndLine {
		return ErrInvalidLineRange
	}

	return nil
}
