package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"

	"github.com/unrealkit/uecontext/internal/config"
	"github.com/unrealkit/uecontext/internal/embedder"
	"github.com/unrealkit/uecontext/internal/engine"
	"github.com/unrealkit/uecontext/internal/extract"
	"github.com/unrealkit/uecontext/internal/index"
	"github.com/unrealkit/uecontext/internal/search"
	"github.com/unrealkit/uecontext/internal/source"
)

const (
	// ServerName is the MCP server name
	ServerName = "uecontext"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp       *server.MCPServer
	cfg       *config.Config
	store     *index.Store
	manager   *index.Manager
	engine    *engine.Engine
	extractor *extract.Extractor
	embedder  embedder.Embedder
	logger    *slog.Logger
}

// NewServer wires the full query stack from the given configuration: index
// store, snapshot manager, embedder, extractor, and engine. A nil config
// loads the default configuration; a nil logger falls back to slog.Default().
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		var err error
		cfg, err = config.Load("")
		if err != nil {
			return nil, err
		}
	}
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(filepath.Dir(cfg.IndexPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	store, err := index.Open(cfg.IndexPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open index store: %w", err)
	}

	manager := index.NewManager(store, logger)

	// An empty index is not fatal: definition extraction works without a
	// snapshot, and reload_index can pick one up once the pipeline has run.
	if err := manager.Load(context.Background()); err != nil {
		logger.Warn("index snapshot not loaded", "error", err)
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

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:       mcpServer,
		cfg:       cfg,
		store:     store,
		manager:   manager,
		engine:    eng,
		extractor: extractor,
		embedder:  emb,
		logger:    logger,
	}

	s.registerTools()

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown. The index
// store is watched in the background so an external reindex becomes visible
// without an explicit reload_index call.
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.Close() }()

	go func() {
		if err := s.manager.Watch(ctx, 0); err != nil && ctx.Err() == nil {
			s.logger.Warn("index watch stopped", "error", err)
		}
	}()

	s.logger.Info("mcp server listening on stdio", "name", ServerName, "version", ServerVersion)
	return server.ServeStdio(s.mcp)
}

// Close releases the index store and the embedding provider
func (s *Server) Close() error {
	_ = s.embedder.Close()
	return s.store.Close()
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(queryCodebaseTool(), s.handleQueryCodebase)
	s.mcp.AddTool(findDefinitionTool(), s.handleFindDefinition)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)
	s.mcp.AddTool(reloadIndexTool(), s.handleReloadIndex)
}
