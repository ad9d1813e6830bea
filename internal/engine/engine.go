package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/unrealkit/uecontext/internal/index"
	"github.com/unrealkit/uecontext/internal/intent"
	"github.com/unrealkit/uecontext/internal/search"
	"github.com/unrealkit/uecontext/pkg/types"
)

const (
	// DefaultTopK is the result count used when a query leaves TopK unset
	DefaultTopK = 10

	// MaxTopK caps the result count; larger requests are clamped
	MaxTopK = 100
)

// ErrRetrieval is returned when no branch produced results: both branches of
// a hybrid query failed, or the only dispatched branch did.
var ErrRetrieval = errors.New("retrieval failed")

// Embedder computes the query embedding. The engine treats this as a single
// bounded-latency call; caching and retries live behind the interface.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// SnapshotProvider hands out the current immutable index snapshot.
// *index.Manager satisfies it.
type SnapshotProvider interface {
	Snapshot() (*index.Snapshot, error)
}

// DefinitionSource is the structural branch: exact definition extraction
// from the source trees. *extract.Extractor satisfies it.
type DefinitionSource interface {
	Extract(ctx context.Context, entityName string, scope types.Scope) ([]types.DefinitionMatch, []types.Warning, error)
}

// SemanticSource is the similarity branch over a loaded snapshot.
// *search.Searcher satisfies it.
type SemanticSource interface {
	Search(ctx context.Context, snapshot *index.Snapshot, queryVector []float32, p search.Params) ([]types.SemanticMatch, error)
}

// Deps are the collaborators one engine instance dispatches to.
type Deps struct {
	Analyzer    *intent.Analyzer
	Definitions DefinitionSource
	Semantic    SemanticSource
	Embedder    Embedder
	Snapshots   SnapshotProvider
}

// Options tune per-engine defaults. Zero values fall back to the package
// constants (and, for the boosts, the search package defaults).
type Options struct {
	DefaultTopK int
	MaxTopK     int
	MacroBoost  float64
	NameBoost   float64
}

// Engine is the hybrid query orchestrator: classify, dispatch to the
// structural and semantic branches, merge, rank, truncate. It holds no
// per-query state; one instance serves concurrent callers.
type Engine struct {
	analyzer    *intent.Analyzer
	definitions DefinitionSource
	semantic    SemanticSource
	embedder    Embedder
	snapshots   SnapshotProvider
	logger      *slog.Logger

	defaultTopK int
	maxTopK     int
	macroBoost  float64
	nameBoost   float64
}

// New creates an Engine from its collaborators. A nil Analyzer gets a fresh
// one; a nil logger falls back to slog.Default().
func New(deps Deps, opts Options, logger *slog.Logger) *Engine {
	if deps.Analyzer == nil {
		deps.Analyzer = intent.New()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if opts.DefaultTopK <= 0 {
		opts.DefaultTopK = DefaultTopK
	}
	if opts.MaxTopK <= 0 {
		opts.MaxTopK = MaxTopK
	}
	return &Engine{
		analyzer:    deps.Analyzer,
		definitions: deps.Definitions,
		semantic:    deps.Semantic,
		embedder:    deps.Embedder,
		snapshots:   deps.Snapshots,
		logger:      logger,
		defaultTopK: opts.DefaultTopK,
		maxTopK:     opts.MaxTopK,
		macroBoost:  opts.MacroBoost,
		nameBoost:   opts.NameBoost,
	}
}

// definitionBranch is the outcome of the structural branch for one query
type definitionBranch struct {
	matches  []types.DefinitionMatch
	warnings []types.Warning
	elapsed  time.Duration
	stage    string
	err      error
}

// semanticBranch is the outcome of the similarity branch for one query
type semanticBranch struct {
	matches    []types.SemanticMatch
	embedTime  time.Duration
	searchTime time.Duration
	stage      string
	err        error
}

// Query answers one query end to end. The returned Result always carries the
// intent classification, per-phase timings, and any warnings; Query errors
// only on invalid input, or when every dispatched branch failed.
func (e *Engine) Query(ctx context.Context, q types.Query) (*types.Result, error) {
	start := time.Now()

	if err := e.normalize(&q); err != nil {
		return nil, err
	}

	result := &types.Result{
		QueryID: uuid.NewString(),
		Query:   q.Text,
	}
	logger := e.logger.With("query_id", result.QueryID)

	classifyStart := time.Now()
	in := e.analyzer.Classify(q.Text)
	result.Intent = in
	result.Timings.Classify = time.Since(classifyStart)

	logger.Info("query classified",
		"intent", in.Kind,
		"confidence", in.Confidence,
		"candidates", len(in.Candidates),
		"top_k", q.TopK,
		"scope", q.Scope)

	var (
		db definitionBranch
		sb semanticBranch
	)

	switch in.Kind {
	case types.IntentDefinition:
		db = e.runDefinitions(ctx, &q, &in)
		if db.err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRetrieval, db.err)
		}

	case types.IntentSemantic:
		sb = e.runSemantic(ctx, &q, &in)
		if sb.err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRetrieval, sb.err)
		}

	case types.IntentHybrid:
		// Both branches run; one failing degrades the result instead of
		// killing it, so branch errors are collected, not propagated
		// through the group.
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			db = e.runDefinitions(gctx, &q, &in)
			return nil
		})
		g.Go(func() error {
			sb = e.runSemantic(gctx, &q, &in)
			return nil
		})
		_ = g.Wait()

		if db.err != nil && sb.err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRetrieval, errors.Join(db.err, sb.err))
		}
		if db.err != nil {
			logger.Warn("definition branch failed, degrading to semantic results", "error", db.err)
			result.Warnings = append(result.Warnings, types.Warning{
				Stage:   db.stage,
				Message: fmt.Sprintf("definition branch failed: %v", db.err),
			})
		}
		if sb.err != nil {
			logger.Warn("semantic branch failed, degrading to definition results", "error", sb.err)
			result.Warnings = append(result.Warnings, types.Warning{
				Stage:   sb.stage,
				Message: fmt.Sprintf("semantic branch failed: %v", sb.err),
			})
		}
	}

	result.Warnings = append(result.Warnings, db.warnings...)
	result.Timings.Extract = db.elapsed
	result.Timings.Embed = sb.embedTime
	result.Timings.Search = sb.searchTime

	mergeStart := time.Now()
	result.Entries = merge(db.matches, sb.matches, q.TopK)
	result.Timings.Merge = time.Since(mergeStart)
	result.Timings.Total = time.Since(start)

	logger.Info("query answered",
		"entries", len(result.Entries),
		"definitions", len(db.matches),
		"semantic", len(sb.matches),
		"warnings", len(result.Warnings),
		"total", result.Timings.Total)

	return result, nil
}

// normalize applies defaults and validates. TopK zero means unset; negative
// values and other malformed fields are rejected.
func (e *Engine) normalize(q *types.Query) error {
	if q.TopK == 0 {
		q.TopK = e.defaultTopK
	}
	if q.TopK > e.maxTopK {
		q.TopK = e.maxTopK
	}
	if q.Scope == "" {
		q.Scope = types.ScopeAll
	}
	return q.Validate()
}

func (e *Engine) runDefinitions(ctx context.Context, q *types.Query, in *types.Intent) definitionBranch {
	start := time.Now()

	top, ok := in.TopCandidate()
	if !ok {
		// Classification picked a structural route without an entity
		// name to chase; nothing to extract.
		return definitionBranch{elapsed: time.Since(start)}
	}

	matches, warnings, err := e.definitions.Extract(ctx, top.Name, q.Scope)
	if err != nil {
		return definitionBranch{
			warnings: warnings,
			elapsed:  time.Since(start),
			stage:    types.StageExtract,
			err:      err,
		}
	}

	return definitionBranch{
		matches:  matches,
		warnings: warnings,
		elapsed:  time.Since(start),
	}
}

func (e *Engine) runSemantic(ctx context.Context, q *types.Query, in *types.Intent) semanticBranch {
	snapshot, err := e.snapshots.Snapshot()
	if err != nil {
		return semanticBranch{
			stage: types.StageSnapshot,
			err:   fmt.Errorf("snapshot unavailable: %w", err),
		}
	}

	embedStart := time.Now()
	vector, err := e.embedder.Embed(ctx, q.Text)
	embedTime := time.Since(embedStart)
	if err != nil {
		return semanticBranch{
			embedTime: embedTime,
			stage:     types.StageEmbed,
			err:       fmt.Errorf("query embedding failed: %w", err),
		}
	}

	searchStart := time.Now()
	matches, err := e.semantic.Search(ctx, snapshot, vector, search.Params{
		TopK:       overfetch(q.TopK),
		Scope:      q.Scope,
		Filters:    q.Filters,
		Candidates: in.Candidates,
		MacroBoost: e.macroBoost,
		NameBoost:  e.nameBoost,
	})
	searchTime := time.Since(searchStart)
	if err != nil {
		return semanticBranch{
			embedTime:  embedTime,
			searchTime: searchTime,
			stage:      types.StageSearch,
			err:        err,
		}
	}

	return semanticBranch{
		matches:    matches,
		embedTime:  embedTime,
		searchTime: searchTime,
	}
}

// overfetch widens the semantic request so that deduplication against
// definition entries cannot starve the merged result below topK. A single
// entity yields at most a handful of definition spans, so topK extra slots
// plus a small constant is ample headroom.
func overfetch(topK int) int {
	return topK*2 + 8
}
