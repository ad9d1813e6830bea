package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/unrealkit/uecontext/internal/source"
	"github.com/unrealkit/uecontext/pkg/types"
)

// Fixed rank weights assigned at extraction time. Full definitions in
// engine source outrank full definitions in project source, which outrank
// forward declarations.
const (
	engineDefinitionScore   = 1.0
	projectDefinitionScore  = 0.9
	forwardDeclarationScore = 0.3
)

// DefaultMaxFileSize bounds the files the extractor will scan. Larger
// files (typically generated code) are skipped with a warning.
const DefaultMaxFileSize = 2 << 20 // 2 MiB

// ErrEmptyEntity is returned when Extract is called without an entity name
var ErrEmptyEntity = errors.New("entity name is empty")

// Options configures an Extractor
type Options struct {
	// MaxFileSize in bytes; zero or negative selects DefaultMaxFileSize
	MaxFileSize int64

	// Concurrency bounds parallel file scans; zero or negative selects
	// the CPU count
	Concurrency int
}

// Extractor locates structural definitions by scanning source text. It
// holds no per-query state; one Extractor serves concurrent callers.
type Extractor struct {
	src         *source.Access
	maxFileSize int64
	concurrency int
	logger      *slog.Logger
}

// New creates an Extractor over the given source access
func New(src *source.Access, opts Options, logger *slog.Logger) *Extractor {
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = DefaultMaxFileSize
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = runtime.NumCPU()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		src:         src,
		maxFileSize: opts.MaxFileSize,
		concurrency: opts.Concurrency,
		logger:      logger,
	}
}

// Extract scans every source file visible under scope for definitions of
// entityName. Matches are ordered full engine definitions first, then full
// project definitions; forward declarations are returned only when no full
// definition exists anywhere. Zero matches is an empty list, not an error.
// Unreadable, oversized, and brace-ambiguous files are skipped and recorded
// as warnings.
func (e *Extractor) Extract(ctx context.Context, entityName string, scope types.Scope) ([]types.DefinitionMatch, []types.Warning, error) {
	name := baseName(entityName)
	if name == "" {
		return nil, nil, ErrEmptyEntity
	}

	files, err := e.src.Files(ctx, scope)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to enumerate source files: %w", err)
	}

	anchors := newAnchorSet(name)

	// Indexed by file so parallel scans keep deterministic output order
	perFile := make([][]types.DefinitionMatch, len(files))
	perWarn := make([][]types.Warning, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			content, err := e.src.Read(f.Path, e.maxFileSize)
			switch {
			case errors.Is(err, source.ErrFileTooLarge):
				e.logger.Debug("skipping oversized file", "path", f.Rel)
				perWarn[i] = []types.Warning{{
					Stage:   types.StageExtract,
					Message: fmt.Sprintf("skipped oversized file %s", f.Rel),
				}}
				return nil
			case err != nil:
				e.logger.Debug("skipping unreadable file", "path", f.Rel, "error", err)
				perWarn[i] = []types.Warning{{
					Stage:   types.StageExtract,
					Message: fmt.Sprintf("skipped unreadable file %s", f.Rel),
				}}
				return nil
			}

			// Every anchor pattern embeds the literal name; a file
			// without it cannot match
			if !bytes.Contains(content, []byte(anchors.name)) {
				return nil
			}

			perFile[i], perWarn[i] = scanFile(f, content, anchors)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var matches []types.DefinitionMatch
	var warnings []types.Warning
	for i := range files {
		matches = append(matches, perFile[i]...)
		warnings = append(warnings, perWarn[i]...)
	}

	return orderMatches(matches), warnings, nil
}

// scanFile locates every definition of the anchor name within one file.
// Anchor matching and depth tracking both run against sanitized lines; the
// captured body keeps the raw text.
func scanFile(f source.File, content []byte, anchors anchorSet) ([]types.DefinitionMatch, []types.Warning) {
	raw := strings.Split(string(content), "\n")
	clean := sanitizeLines(raw)

	var matches []types.DefinitionMatch
	var warnings []types.Warning

	for i := 0; i < len(clean); i++ {
		line := clean[i]

		if macro, ok := anchors.matchDelegate(line); ok {
			m, end, ok := captureDelegate(f, raw, clean, i, anchors.name, macro)
			if !ok {
				warnings = append(warnings, ambiguityWarning(f, i))
				continue
			}
			matches = append(matches, m)
			i = end
			continue
		}

		if kind, ok := anchors.matchType(line); ok {
			m, end, ev := captureDefinition(f, raw, clean, i, anchors.name, kind)
			if ev == eventUnbalanced {
				warnings = append(warnings, ambiguityWarning(f, i))
				continue
			}
			matches = append(matches, m)
			i = end
			continue
		}

		if fa, ok := anchors.matchFunc(line); ok {
			m, end, ev := captureDefinition(f, raw, clean, i, anchors.name, types.EntityFunction)
			if ev == eventUnbalanced {
				warnings = append(warnings, ambiguityWarning(f, i))
				continue
			}
			// A body-less match with neither a return type nor a
			// class qualifier is indistinguishable from a call site
			if ev == eventForward && !fa.hasReturn && !fa.qualified {
				continue
			}
			matches = append(matches, m)
			i = end
		}
	}

	return matches, warnings
}

// captureDefinition runs the brace scanner from the anchor line forward and
// builds the match. The returned index is the last line the definition
// consumed, so the caller can resume scanning past it.
func captureDefinition(f source.File, raw, clean []string, anchor int, name string, kind types.EntityKind) (types.DefinitionMatch, int, scanEvent) {
	var sc braceScanner
	end := len(clean) - 1
	event := eventNone

	for j := anchor; j < len(clean); j++ {
		if ev := sc.feed(clean[j]); ev != eventNone {
			end = j
			event = ev
			break
		}
	}
	switch event {
	case eventNone:
		// EOF with the body still open
		return types.DefinitionMatch{}, end, eventUnbalanced
	case eventUnbalanced:
		return types.DefinitionMatch{}, end, event
	}

	start, macros := lookBack(clean, anchor)
	forward := event == eventForward

	var members []types.Member
	if !forward && kind != types.EntityFunction {
		var bodyMacros []string
		members, bodyMacros = extractMembers(clean[anchor:end+1], kind)
		macros = mergeMacros(macros, bodyMacros)
	}

	return types.DefinitionMatch{
		Name:      name,
		Kind:      kind,
		Path:      f.Rel,
		Origin:    f.Origin,
		StartLine: start + 1,
		EndLine:   end + 1,
		Body:      strings.Join(raw[start:end+1], "\n"),
		Members:   members,
		Macros:    macros,
		Forward:   forward,
		Score:     matchScore(f.Origin, forward),
	}, end, event
}

// captureDelegate consumes a delegate declaration macro through its
// terminating semicolon. Delegates have no brace body; the macro statement
// itself is the definition.
func captureDelegate(f source.File, raw, clean []string, anchor int, name, macro string) (types.DefinitionMatch, int, bool) {
	end := -1
	for j := anchor; j < len(clean); j++ {
		if strings.Contains(clean[j], ";") {
			end = j
			break
		}
	}
	if end < 0 {
		return types.DefinitionMatch{}, len(clean) - 1, false
	}

	start, macros := lookBack(clean, anchor)

	return types.DefinitionMatch{
		Name:      name,
		Kind:      types.EntityDelegate,
		Path:      f.Rel,
		Origin:    f.Origin,
		StartLine: start + 1,
		EndLine:   end + 1,
		Body:      strings.Join(raw[start:end+1], "\n"),
		Macros:    mergeMacros(macros, []string{macro}),
		Score:     matchScore(f.Origin, false),
	}, end, true
}

// orderMatches sorts matches into contract order: full engine definitions,
// then full project definitions, by path and line within each band. Forward
// declarations are dropped when any full definition exists; otherwise they
// are returned in the same path order.
func orderMatches(matches []types.DefinitionMatch) []types.DefinitionMatch {
	var full, forward []types.DefinitionMatch
	for _, m := range matches {
		if m.Forward {
			forward = append(forward, m)
		} else {
			full = append(full, m)
		}
	}

	if len(full) > 0 {
		matches = full
	} else {
		matches = forward
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		if matches[i].Path != matches[j].Path {
			return matches[i].Path < matches[j].Path
		}
		return matches[i].StartLine < matches[j].StartLine
	})
	return matches
}

// matchScore is the fixed rank weight for one match
func matchScore(origin types.Origin, forward bool) float64 {
	if forward {
		return forwardDeclarationScore
	}
	if origin == types.OriginEngine {
		return engineDefinitionScore
	}
	return projectDefinitionScore
}

func ambiguityWarning(f source.File, line int) types.Warning {
	return types.Warning{
		Stage:   types.StageExtract,
		Message: fmt.Sprintf("unbalanced delimiters in %s near line %d", f.Rel, line+1),
	}
}
