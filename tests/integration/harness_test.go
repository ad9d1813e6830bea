package integration

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unrealkit/uecontext/internal/embedder"
	"github.com/unrealkit/uecontext/internal/engine"
	"github.com/unrealkit/uecontext/internal/extract"
	"github.com/unrealkit/uecontext/internal/index"
	"github.com/unrealkit/uecontext/internal/search"
	"github.com/unrealkit/uecontext/internal/source"
	"github.com/unrealkit/uecontext/pkg/types"
)

// The integration fixture is a miniature Unreal source layout under
// tests/testdata/unreal: an Engine tree, a Project tree with ignored
// build-output and vendored directories, and chunks.json describing the
// chunks an indexing run over those trees would produce. Chunk vectors are
// generated at load time with the local hash provider, so the seeded index
// and the query embeddings always share one vector space.

// fixturePaths resolves the fixture roots relative to this package
func fixturePaths(tb testing.TB) (engineRoot, projectRoot, chunksFile string) {
	tb.Helper()

	wd, err := os.Getwd()
	require.NoError(tb, err)

	base := filepath.Join(filepath.Dir(wd), "testdata", "unreal")
	_, err = os.Stat(base)
	require.NoError(tb, err, "fixture tree should exist")

	return filepath.Join(base, "Engine"), filepath.Join(base, "Project"), filepath.Join(base, "chunks.json")
}

// fixtureChunk mirrors one entry of chunks.json
type fixtureChunk struct {
	ID         string   `json:"id"`
	Path       string   `json:"path"`
	Origin     string   `json:"origin"`
	StartLine  int      `json:"start_line"`
	EndLine    int      `json:"end_line"`
	Content    string   `json:"content"`
	EntityName string   `json:"entity_name"`
	EntityType string   `json:"entity_type"`
	Macros     []string `json:"macros"`
	IsHeader   bool     `json:"is_header"`
}

// loadFixtureChunks reads chunks.json and embeds each chunk's content with
// the local provider
func loadFixtureChunks(tb testing.TB, chunksFile string) []types.Chunk {
	tb.Helper()

	data, err := os.ReadFile(chunksFile)
	require.NoError(tb, err)

	var fixture struct {
		Chunks []fixtureChunk `json:"chunks"`
	}
	require.NoError(tb, json.Unmarshal(data, &fixture))
	require.NotEmpty(tb, fixture.Chunks)

	provider, err := embedder.NewLocalProvider(nil)
	require.NoError(tb, err)

	chunks := make([]types.Chunk, 0, len(fixture.Chunks))
	for _, fc := range fixture.Chunks {
		emb, err := provider.GenerateEmbedding(context.Background(), embedder.EmbeddingRequest{Text: fc.Content})
		require.NoError(tb, err)

		// The store round-trips an empty macro list as nil; the JSON
		// decoder produces an empty slice. Normalize so seeded chunks
		// compare equal to loaded ones.
		macros := fc.Macros
		if len(macros) == 0 {
			macros = nil
		}

		chunks = append(chunks, types.Chunk{
			ID:        fc.ID,
			Path:      fc.Path,
			Origin:    types.Origin(fc.Origin),
			StartLine: fc.StartLine,
			EndLine:   fc.EndLine,
			Content:   fc.Content,
			Vector:    emb.Vector,
			Metadata: types.ChunkMetadata{
				EntityName: fc.EntityName,
				EntityType: types.EntityKind(fc.EntityType),
				Macros:     macros,
				IsHeader:   fc.IsHeader,
			},
		})
	}

	return chunks
}

// queryStack is a fully wired query engine over the fixture tree
type queryStack struct {
	store   *index.Store
	manager *index.Manager
	engine  *engine.Engine
}

// newQueryStack wires store, snapshot manager, extractor, and engine the
// same way the MCP server does. With seed set, the store is populated from
// chunks.json and a snapshot is loaded; without it, the stack runs against
// an empty index.
func newQueryStack(tb testing.TB, seed bool) *queryStack {
	tb.Helper()

	logger := discardLogger()

	store, err := index.Open(filepath.Join(tb.TempDir(), "index.db"))
	require.NoError(tb, err)
	tb.Cleanup(func() { _ = store.Close() })

	engineRoot, projectRoot, chunksFile := fixturePaths(tb)

	manager := index.NewManager(store, logger)
	if seed {
		require.NoError(tb, store.PutChunks(context.Background(), loadFixtureChunks(tb, chunksFile)))
		require.NoError(tb, manager.Load(context.Background()))
	}

	provider, err := embedder.NewLocalProvider(nil)
	require.NoError(tb, err)

	src := source.New([]string{engineRoot}, []string{projectRoot})

	eng := engine.New(engine.Deps{
		Definitions: extract.New(src, extract.Options{}, logger),
		Semantic:    search.New(logger),
		Embedder:    embedder.NewQueryEmbedder(provider),
		Snapshots:   manager,
	}, engine.Options{}, logger)

	return &queryStack{store: store, manager: manager, engine: eng}
}

// discardLogger returns a logger that swallows all output
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memberNames projects a member list onto its names, in declaration order
func memberNames(members []types.Member) []string {
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.Name
	}
	return names
}

// entryChunkIDs collects the chunk IDs of semantic entries, ignoring order
func entryChunkIDs(entries []types.ResultEntry) map[string]bool {
	ids := make(map[string]bool)
	for _, e := range entries {
		if e.Chunk != nil {
			ids[e.Chunk.ID] = true
		}
	}
	return ids
}
