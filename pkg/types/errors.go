package types

import "errors"

// Domain errors for type validation
var (
	// Query validation errors
	ErrEmptyQuery   = errors.New("query text cannot be empty")
	ErrInvalidTopK  = errors.New("top_k must be >= 1")
	ErrInvalidScope = errors.New("scope must be engine, project, or all")

	// Filter validation errors
	ErrInvalidEntityKind = errors.New("invalid entity kind")
	ErrInvalidFileKind   = errors.New("file kind must be header, impl, or any")

	// Chunk and result validation errors
	ErrInvalidChunkID   = errors.New("invalid chunk ID")
	ErrInvalidOrigin    = errors.New("origin must be engine or project")
	ErrInvalidLineRange = errors.New("line numbers must be positive and ordered")
	ErrEmptyPath        = errors.New("file path cannot be empty")
	ErrEmptyVector      = errors.New("embedding vector cannot be empty")
)
