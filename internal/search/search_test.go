package search

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"reflect"
	"testing"

	"github.com/unrealkit/uecontext/internal/index"
	"github.com/unrealkit/uecontext/pkg/types"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type chunkSpec struct {
	id     string
	path   string
	origin types.Origin
	vector []float32
	meta   types.ChunkMetadata
}

func snapshotOf(specs ...chunkSpec) *index.Snapshot {
	chunks := make([]types.Chunk, len(specs))
	for i, spec := range specs {
		chunks[i] = types.Chunk{
			ID:        spec.id,
			Path:      spec.path,
			Origin:    spec.origin,
			StartLine: 1,
			EndLine:   10,
			Content:   "body of " + spec.id,
			Vector:    spec.vector,
			Metadata:  spec.meta,
		}
	}
	dimension := 0
	if len(chunks) > 0 {
		dimension = len(chunks[0].Vector)
	}
	return &index.Snapshot{Chunks: chunks, Dimension: dimension}
}

func ids(matches []types.SemanticMatch) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.ChunkID
	}
	return out
}

func TestSearchRanksBySimilarity(t *testing.T) {
	snapshot := snapshotOf(
		chunkSpec{id: "opposite", path: "a.h", origin: types.OriginEngine, vector: []float32{-1, 0}},
		chunkSpec{id: "exact", path: "b.h", origin: types.OriginEngine, vector: []float32{1, 0}},
		chunkSpec{id: "orthogonal", path: "c.h", origin: types.OriginEngine, vector: []float32{0, 1}},
		chunkSpec{id: "diagonal", path: "d.h", origin: types.OriginEngine, vector: []float32{0.7, 0.7}},
	)

	matches, err := New(discardLogger()).Search(context.Background(), snapshot, []float32{1, 0}, Params{
		TopK:  10,
		Scope: types.ScopeAll,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"exact", "diagonal", "orthogonal", "opposite"}
	if got := ids(matches); !reflect.DeepEqual(got, want) {
		t.Errorf("expected order %v, got %v", want, got)
	}

	for _, m := range matches {
		if m.Boost != 1.0 {
			t.Errorf("chunk %s: expected boost 1.0, got %v", m.ChunkID, m.Boost)
		}
		if m.Score != m.Similarity {
			t.Errorf("chunk %s: score %v diverged from similarity %v without boost",
				m.ChunkID, m.Score, m.Similarity)
		}
		if m.Chunk == nil {
			t.Errorf("chunk %s: expected resolved chunk pointer", m.ChunkID)
		}
	}

	if math.Abs(matches[0].Score-1.0) > 1e-6 {
		t.Errorf("expected exact match to score 1.0, got %v", matches[0].Score)
	}
	if math.Abs(matches[1].Score-1/math.Sqrt2) > 1e-6 {
		t.Errorf("expected diagonal match near %.4f, got %v", 1/math.Sqrt2, matches[1].Score)
	}
}

func TestSearchFilters(t *testing.T) {
	snapshot := snapshotOf(
		chunkSpec{
			id: "engine-struct-header", path: "Engine/HitResult.h", origin: types.OriginEngine,
			vector: []float32{1, 0},
			meta: types.ChunkMetadata{
				EntityName: "FHitResult", EntityType: types.EntityStruct,
				Macros: []string{"USTRUCT", "UPROPERTY"}, IsHeader: true,
			},
		},
		chunkSpec{
			id: "engine-class-header", path: "Engine/Actor.h", origin: types.OriginEngine,
			vector: []float32{1, 0},
			meta: types.ChunkMetadata{
				EntityName: "AActor", EntityType: types.EntityClass,
				Macros: []string{"UCLASS"}, IsHeader: true,
			},
		},
		chunkSpec{
			id: "project-impl", path: "Game/MyActor.cpp", origin: types.OriginProject,
			vector: []float32{1, 0},
			meta:   types.ChunkMetadata{EntityName: "AMyActor", EntityType: types.EntityClass},
		},
	)

	tests := []struct {
		name    string
		scope   types.Scope
		filters types.Filters
		want    []string
	}{
		{
			name:  "ScopeEngine",
			scope: types.ScopeEngine,
			want:  []string{"engine-class-header", "engine-struct-header"},
		},
		{
			name:  "ScopeProject",
			scope: types.ScopeProject,
			want:  []string{"project-impl"},
		},
		{
			name:    "EntityType",
			scope:   types.ScopeAll,
			filters: types.Filters{EntityType: types.EntityStruct},
			want:    []string{"engine-struct-header"},
		},
		{
			name:    "RequireMacro",
			scope:   types.ScopeAll,
			filters: types.Filters{RequireMacro: "UPROPERTY"},
			want:    []string{"engine-struct-header"},
		},
		{
			name:    "FileKindHeader",
			scope:   types.ScopeAll,
			filters: types.Filters{FileKind: types.FileKindHeader},
			want:    []string{"engine-class-header", "engine-struct-header"},
		},
		{
			name:    "FileKindImpl",
			scope:   types.ScopeAll,
			filters: types.Filters{FileKind: types.FileKindImpl},
			want:    []string{"project-impl"},
		},
		{
			name:    "NoSurvivors",
			scope:   types.ScopeProject,
			filters: types.Filters{EntityType: types.EntityStruct},
			want:    []string{},
		},
	}

	searcher := New(discardLogger())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches, err := searcher.Search(context.Background(), snapshot, []float32{1, 0}, Params{
				TopK:    10,
				Scope:   tt.scope,
				Filters: tt.filters,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := ids(matches); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

// Chunks with identical vectors tie on score and pre-boost similarity, so
// file path must decide the order.
func TestSearchPathTieBreak(t *testing.T) {
	snapshot := snapshotOf(
		chunkSpec{id: "zeta", path: "zeta.h", origin: types.OriginEngine, vector: []float32{1, 0}},
		chunkSpec{id: "alpha", path: "alpha.h", origin: types.OriginEngine, vector: []float32{1, 0}},
		chunkSpec{id: "mid", path: "mid.h", origin: types.OriginEngine, vector: []float32{1, 0}},
	)

	matches, err := New(discardLogger()).Search(context.Background(), snapshot, []float32{1, 0}, Params{
		TopK:  10,
		Scope: types.ScopeAll,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"alpha", "mid", "zeta"}
	if got := ids(matches); !reflect.DeepEqual(got, want) {
		t.Errorf("expected path-ordered %v, got %v", want, got)
	}
}

func TestRankLess(t *testing.T) {
	chunkAt := func(path string) *types.Chunk { return &types.Chunk{Path: path} }

	tests := []struct {
		name string
		a    types.SemanticMatch
		b    types.SemanticMatch
		want bool
	}{
		{
			name: "HigherScoreFirst",
			a:    types.SemanticMatch{Score: 0.9, Similarity: 0.9, Chunk: chunkAt("a.h")},
			b:    types.SemanticMatch{Score: 0.5, Similarity: 0.5, Chunk: chunkAt("b.h")},
			want: true,
		},
		{
			name: "EqualScorePreBoostSimilarityWins",
			a:    types.SemanticMatch{Score: 0.9, Similarity: 0.9, Chunk: chunkAt("z.h")},
			b:    types.SemanticMatch{Score: 0.9, Similarity: 0.72, Chunk: chunkAt("a.h")},
			want: true,
		},
		{
			name: "FullTiePathDecides",
			a:    types.SemanticMatch{Score: 0.9, Similarity: 0.9, Chunk: chunkAt("a.h")},
			b:    types.SemanticMatch{Score: 0.9, Similarity: 0.9, Chunk: chunkAt("b.h")},
			want: true,
		},
		{
			name: "FullTiePathDecidesReversed",
			a:    types.SemanticMatch{Score: 0.9, Similarity: 0.9, Chunk: chunkAt("b.h")},
			b:    types.SemanticMatch{Score: 0.9, Similarity: 0.9, Chunk: chunkAt("a.h")},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rankLess(&tt.a, &tt.b); got != tt.want {
				t.Errorf("rankLess = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSearchMacroBoost(t *testing.T) {
	snapshot := snapshotOf(
		chunkSpec{
			id: "plain", path: "plain.h", origin: types.OriginEngine,
			vector: []float32{1, 0},
		},
		chunkSpec{
			id: "annotated", path: "annotated.h", origin: types.OriginEngine,
			vector: []float32{0.95, 0.3122499},
			meta:   types.ChunkMetadata{Macros: []string{"UCLASS"}},
		},
	)

	matches, err := New(discardLogger()).Search(context.Background(), snapshot, []float32{1, 0}, Params{
		TopK:    10,
		Scope:   types.ScopeAll,
		Filters: types.Filters{BoostMacroMatch: true},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 0.95 * 1.15 ≈ 1.09 outranks the unannotated exact match at 1.0
	want := []string{"annotated", "plain"}
	if got := ids(matches); !reflect.DeepEqual(got, want) {
		t.Errorf("expected boost to rerank: want %v, got %v", want, got)
	}

	if matches[0].Boost != MacroBoost {
		t.Errorf("expected boost %v, got %v", MacroBoost, matches[0].Boost)
	}
	if matches[1].Boost != 1.0 {
		t.Errorf("expected unannotated chunk unboosted, got %v", matches[1].Boost)
	}
	if math.Abs(matches[0].Score-matches[0].Similarity*MacroBoost) > 1e-9 {
		t.Errorf("score %v is not similarity %v * boost", matches[0].Score, matches[0].Similarity)
	}
}

func TestSearchNameBoost(t *testing.T) {
	meta := func(entity string) types.ChunkMetadata {
		return types.ChunkMetadata{EntityName: entity, EntityType: types.EntityStruct}
	}
	snapshot := snapshotOf(
		chunkSpec{id: "hit", path: "a.h", origin: types.OriginEngine, vector: []float32{1, 0}, meta: meta("FHitResult")},
		chunkSpec{id: "template", path: "b.h", origin: types.OriginEngine, vector: []float32{1, 0}, meta: meta("TArray<FHitResult>")},
		chunkSpec{id: "other", path: "c.h", origin: types.OriginEngine, vector: []float32{1, 0}, meta: meta("FVector")},
		chunkSpec{id: "anon", path: "d.h", origin: types.OriginEngine, vector: []float32{1, 0}},
	)

	tests := []struct {
		name       string
		filters    types.Filters
		candidates []types.EntityCandidate
		boosted    map[string]bool
	}{
		{
			name:       "HighConfidenceCandidate",
			filters:    types.Filters{BoostNameMatch: true},
			candidates: []types.EntityCandidate{{Name: "FHitResult", Confidence: 0.95}},
			boosted:    map[string]bool{"hit": true},
		},
		{
			name:       "CaseInsensitiveTemplateBase",
			filters:    types.Filters{BoostNameMatch: true},
			candidates: []types.EntityCandidate{{Name: "tarray", Confidence: 0.80}},
			boosted:    map[string]bool{"template": true},
		},
		{
			name:       "LowConfidenceCandidateIgnored",
			filters:    types.Filters{BoostNameMatch: true},
			candidates: []types.EntityCandidate{{Name: "FHitResult", Confidence: 0.40}},
			boosted:    map[string]bool{},
		},
		{
			name:       "BoostNotRequested",
			filters:    types.Filters{},
			candidates: []types.EntityCandidate{{Name: "FHitResult", Confidence: 0.95}},
			boosted:    map[string]bool{},
		},
	}

	searcher := New(discardLogger())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches, err := searcher.Search(context.Background(), snapshot, []float32{1, 0}, Params{
				TopK:       10,
				Scope:      types.ScopeAll,
				Filters:    tt.filters,
				Candidates: tt.candidates,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, m := range matches {
				wantBoost := 1.0
				if tt.boosted[m.ChunkID] {
					wantBoost = NameBoost
				}
				if m.Boost != wantBoost {
					t.Errorf("chunk %s: expected boost %v, got %v", m.ChunkID, wantBoost, m.Boost)
				}
			}
		})
	}
}

func TestSearchCombinedBoosts(t *testing.T) {
	snapshot := snapshotOf(
		chunkSpec{
			id: "both", path: "a.h", origin: types.OriginEngine, vector: []float32{1, 0},
			meta: types.ChunkMetadata{EntityName: "FHitResult", Macros: []string{"USTRUCT"}},
		},
	)

	matches, err := New(discardLogger()).Search(context.Background(), snapshot, []float32{1, 0}, Params{
		TopK:       10,
		Scope:      types.ScopeAll,
		Filters:    types.Filters{BoostMacroMatch: true, BoostNameMatch: true},
		Candidates: []types.EntityCandidate{{Name: "FHitResult", Confidence: 0.95}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected one match, got %d", len(matches))
	}

	if math.Abs(matches[0].Boost-MacroBoost*NameBoost) > 1e-9 {
		t.Errorf("expected combined boost %v, got %v", MacroBoost*NameBoost, matches[0].Boost)
	}
}

// Zero-valued boost params take the package defaults; positive params
// override them.
func TestSearchBoostOverride(t *testing.T) {
	snapshot := snapshotOf(
		chunkSpec{
			id: "annotated", path: "a.h", origin: types.OriginEngine, vector: []float32{1, 0},
			meta: types.ChunkMetadata{EntityName: "FHitResult", Macros: []string{"UCLASS"}},
		},
	)

	searcher := New(discardLogger())

	matches, err := searcher.Search(context.Background(), snapshot, []float32{1, 0}, Params{
		TopK:       10,
		Scope:      types.ScopeAll,
		Filters:    types.Filters{BoostMacroMatch: true, BoostNameMatch: true},
		Candidates: []types.EntityCandidate{{Name: "FHitResult", Confidence: 0.95}},
		MacroBoost: 2.0,
		NameBoost:  3.0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected one match, got %d", len(matches))
	}
	if math.Abs(matches[0].Boost-6.0) > 1e-9 {
		t.Errorf("expected configured boosts 2.0*3.0, got %v", matches[0].Boost)
	}
}

func TestSearchTopKTruncation(t *testing.T) {
	snapshot := snapshotOf(
		chunkSpec{id: "c1", path: "a.h", origin: types.OriginEngine, vector: []float32{1, 0}},
		chunkSpec{id: "c2", path: "b.h", origin: types.OriginEngine, vector: []float32{0.9, 0.1}},
		chunkSpec{id: "c3", path: "c.h", origin: types.OriginEngine, vector: []float32{0.8, 0.2}},
		chunkSpec{id: "c4", path: "d.h", origin: types.OriginEngine, vector: []float32{0.7, 0.3}},
		chunkSpec{id: "c5", path: "e.h", origin: types.OriginEngine, vector: []float32{0.6, 0.4}},
	)
	searcher := New(discardLogger())

	matches, err := searcher.Search(context.Background(), snapshot, []float32{1, 0}, Params{
		TopK:  2,
		Scope: types.ScopeAll,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"c1", "c2"}; !reflect.DeepEqual(ids(matches), want) {
		t.Errorf("expected %v, got %v", want, ids(matches))
	}

	// Non-positive topK yields an empty result, not an error
	matches, err = searcher.Search(context.Background(), snapshot, []float32{1, 0}, Params{
		TopK:  0,
		Scope: types.ScopeAll,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("expected empty result for topK 0, got %d", len(matches))
	}
}

func TestSearchIdempotent(t *testing.T) {
	snapshot := snapshotOf(
		chunkSpec{id: "c1", path: "a.h", origin: types.OriginEngine, vector: []float32{1, 0},
			meta: types.ChunkMetadata{EntityName: "FHitResult", Macros: []string{"USTRUCT"}}},
		chunkSpec{id: "c2", path: "b.h", origin: types.OriginProject, vector: []float32{0.5, 0.5}},
		chunkSpec{id: "c3", path: "c.h", origin: types.OriginEngine, vector: []float32{0, 1}},
	)
	params := Params{
		TopK:       2,
		Scope:      types.ScopeAll,
		Filters:    types.Filters{BoostMacroMatch: true},
		Candidates: []types.EntityCandidate{{Name: "FHitResult", Confidence: 0.95}},
	}
	searcher := New(discardLogger())

	first, err := searcher.Search(context.Background(), snapshot, []float32{1, 0}, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := searcher.Search(context.Background(), snapshot, []float32{1, 0}, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical searches diverged:\n first: %+v\nsecond: %+v", first, second)
	}
}

func TestSearchEmptySnapshot(t *testing.T) {
	searcher := New(discardLogger())

	_, err := searcher.Search(context.Background(), nil, []float32{1, 0}, Params{TopK: 5, Scope: types.ScopeAll})
	if !errors.Is(err, index.ErrSnapshotEmpty) {
		t.Errorf("nil snapshot: expected ErrSnapshotEmpty, got %v", err)
	}

	_, err = searcher.Search(context.Background(), &index.Snapshot{}, []float32{1, 0}, Params{TopK: 5, Scope: types.ScopeAll})
	if !errors.Is(err, index.ErrSnapshotEmpty) {
		t.Errorf("empty snapshot: expected ErrSnapshotEmpty, got %v", err)
	}
}

func TestSearchDimensionMismatch(t *testing.T) {
	snapshot := snapshotOf(
		chunkSpec{id: "c1", path: "a.h", origin: types.OriginEngine, vector: []float32{1, 0}},
	)

	_, err := New(discardLogger()).Search(context.Background(), snapshot, []float32{1, 0, 0}, Params{
		TopK:  5,
		Scope: types.ScopeAll,
	})
	if !errors.Is(err, index.ErrSnapshotCorrupt) {
		t.Errorf("expected ErrSnapshotCorrupt for dimension mismatch, got %v", err)
	}
}

func TestSearchCancelledContext(t *testing.T) {
	snapshot := snapshotOf(
		chunkSpec{id: "c1", path: "a.h", origin: types.OriginEngine, vector: []float32{1, 0}},
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(discardLogger()).Search(ctx, snapshot, []float32{1, 0}, Params{TopK: 5, Scope: types.ScopeAll})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
