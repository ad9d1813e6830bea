//go:build purego || !sqlite_fast
// +build purego !sqlite_fast

package index

// This file is compiled when building without CGO or with the purego tag.
// It uses a pure Go SQLite implementation.
//
// Build command:
//   CGO_ENABLED=0 go build ./...
//
// The pure Go implementation provides:
//   - No C compiler required
//   - Cross-platform compilation
//   - Slower bulk reads (acceptable for project-scale indexes)
//   - Suitable for development and CI
//
// Driver used: modernc.org/sqlite

import (
	_ "modernc.org/sqlite"
)

const (
	// DriverName is the SQLite driver to use
	DriverName = "sqlite"

	// DriverNative indicates whether the driver is a C binding
	DriverNative = false

	// BuildMode describes the current build configuration
	BuildMode = "purego"
)
