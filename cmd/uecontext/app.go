package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/unrealkit/uecontext/internal/config"
	"github.com/unrealkit/uecontext/internal/embedder"
	"github.com/unrealkit/uecontext/internal/engine"
	"github.com/unrealkit/uecontext/internal/extract"
	"github.com/unrealkit/uecontext/internal/index"
	"github.com/unrealkit/uecontext/internal/search"
	"github.com/unrealkit/uecontext/internal/source"
)

// app is the wired query stack behind the query and status commands. The
// serve command wires the same stack through the MCP server instead.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     *index.Store
	manager   *index.Manager
	embedder  embedder.Embedder
	extractor *extract.Extractor
	engine    *engine.Engine
}

func newApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.IndexPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	store, err := index.Open(cfg.IndexPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open index store: %w", err)
	}

	manager := index.NewManager(store, logger)

	// A missing snapshot is not fatal here: definition queries and status
	// reporting both work against an empty index.
	if err := manager.Load(context.Background()); err != nil {
		logger.Debug("index snapshot not loaded", "error", err)
	}

	emb, err := embedder.New(embedder.Config{
		Provider:          cfg.Embedding.Provider,
		Model:             cfg.Embedding.Model,
		BaseURL:           cfg.Embedding.BaseURL,
		APIKey:            cfg.Embedding.APIKey,
		Dimensions:        cfg.Embedding.Dimensions,
		CacheSize:         embedder.DefaultCacheSize,
		RequestsPerSecond: cfg.Embedding.RequestsPerSecond,
		Burst:             cfg.Embedding.Burst,
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}

	src := source.New(cfg.EngineRoots, cfg.ProjectRoots)
	extractor := extract.New(src, extract.Options{
		MaxFileSize: cfg.Extract.MaxFileSizeBytes,
		Concurrency: cfg.Extract.Workers,
	}, logger)

	eng := engine.New(engine.Deps{
		Definitions: extractor,
		Semantic:    search.New(logger),
		Embedder:    embedder.NewQueryEmbedder(emb),
		Snapshots:   manager,
	}, engine.Options{
		DefaultTopK: cfg.Search.DefaultTopK,
		MaxTopK:     cfg.Search.MaxTopK,
		MacroBoost:  cfg.Search.MacroBoost,
		NameBoost:   cfg.Search.NameBoost,
	}, logger)

	return &app{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		manager:   manager,
		embedder:  emb,
		extractor: extractor,
		engine:    eng,
	}, nil
}

func (a *app) Close() {
	_ = a.embedder.Close()
	_ = a.store.Close()
}
