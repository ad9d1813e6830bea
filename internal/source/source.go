package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/unrealkit/uecontext/pkg/types"
)

var (
	// ErrNoRoots is returned when the requested scope maps to no
	// configured source roots
	ErrNoRoots = errors.New("no source roots configured for scope")

	// ErrFileTooLarge signals a file skipped because it exceeds the
	// configured size bound
	ErrFileTooLarge = errors.New("file exceeds maximum size")
)

// IgnoreFileName is looked up at each root; it uses gitignore syntax
const IgnoreFileName = ".ueignore"

// sourceExtensions is the fixed set of extensions treated as C++ source
var sourceExtensions = map[string]bool{
	".h":   true,
	".hpp": true,
	".hh":  true,
	".hxx": true,
	".cpp": true,
	".cc":  true,
	".cxx": true,
	".inl": true,
}

// skipDirs are build-output directories never worth scanning
var skipDirs = map[string]struct{}{
	"Intermediate":     {},
	"Binaries":         {},
	"Saved":            {},
	"DerivedDataCache": {},
}

// File is one discovered source file
type File struct {
	Path   string // Absolute, for reading
	Rel    string // Relative to its root, slash-separated, for display and dedup
	Origin types.Origin
}

// IsHeader reports whether the file is a header by extension. Inline
// implementation files (.inl) count as headers because they are included,
// not compiled.
func IsHeader(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".h", ".hpp", ".hh", ".hxx", ".inl":
		return true
	default:
		return false
	}
}

// Access provides read-only file discovery under configured engine and
// project roots. Scope controls which roots are visible.
type Access struct {
	engineRoots  []string
	projectRoots []string
}

// New creates an Access over the given roots. Either slice may be empty;
// requesting a scope with no roots is an error at call time.
func New(engineRoots, projectRoots []string) *Access {
	return &Access{
		engineRoots:  engineRoots,
		projectRoots: projectRoots,
	}
}

// HasRoots reports whether the scope maps to at least one configured root
func (a *Access) HasRoots(scope types.Scope) bool {
	switch scope {
	case types.ScopeEngine:
		return len(a.engineRoots) > 0
	case types.ScopeProject:
		return len(a.projectRoots) > 0
	case types.ScopeAll:
		return len(a.engineRoots)+len(a.projectRoots) > 0
	default:
		return false
	}
}

// Files walks the roots visible under scope and returns every C++ source
// file, sorted by origin then relative path. Unreadable subtrees are
// skipped silently; only an empty root set is an error.
func (a *Access) Files(ctx context.Context, scope types.Scope) ([]File, error) {
	if !a.HasRoots(scope) {
		return nil, fmt.Errorf("%w: %s", ErrNoRoots, scope)
	}

	var files []File

	if scope.Admits(types.OriginEngine) {
		for _, root := range a.engineRoots {
			found, err := walkRoot(ctx, root, types.OriginEngine)
			if err != nil {
				return nil, err
			}
			files = append(files, found...)
		}
	}

	if scope.Admits(types.OriginProject) {
		for _, root := range a.projectRoots {
			found, err := walkRoot(ctx, root, types.OriginProject)
			if err != nil {
				return nil, err
			}
			files = append(files, found...)
		}
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].Origin != files[j].Origin {
			return files[i].Origin == types.OriginEngine
		}
		return files[i].Rel < files[j].Rel
	})

	return files, nil
}

// Read returns the file content, or ErrFileTooLarge when it exceeds
// maxSize bytes. maxSize <= 0 disables the bound.
func (a *Access) Read(path string, maxSize int64) ([]byte, error) {
	if maxSize > 0 {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat file: %w", err)
		}
		if info.Size() > maxSize {
			return nil, fmt.Errorf("%w: %s (%d bytes)", ErrFileTooLarge, path, info.Size())
		}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return content, nil
}

// walkRoot discovers source files under one root. Walk errors on
// individual entries are skipped; the walk itself only fails on context
// cancellation.
func walkRoot(ctx context.Context, root string, origin types.Origin) ([]File, error) {
	gi := loadIgnore(root)

	var files []File
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		name := d.Name()

		if d.IsDir() {
			if path == root {
				return nil
			}
			if _, skip := skipDirs[name]; skip || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}
		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}
		if !sourceExtensions[strings.ToLower(filepath.Ext(name))] {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if gi != nil && gi.MatchesPath(rel) {
			return nil
		}

		files = append(files, File{Path: path, Rel: rel, Origin: origin})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

// loadIgnore compiles the root's ignore file, if present
func loadIgnore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, IgnoreFileName))
	if err != nil {
		return nil
	}
	return gi
}
