package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/unrealkit/uecontext/pkg/types"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index, embedding, and source root health",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output status as JSON")
	rootCmd.AddCommand(statusCmd)
}

type indexStatusJSON struct {
	Loaded         bool   `json:"loaded"`
	Chunks         int    `json:"chunks,omitempty"`
	EngineChunks   int    `json:"engine_chunks,omitempty"`
	ProjectChunks  int    `json:"project_chunks,omitempty"`
	Dimension      int    `json:"dimension,omitempty"`
	DimensionMatch bool   `json:"dimension_match"`
	LoadedAt       string `json:"loaded_at,omitempty"`
}

type embeddingStatusJSON struct {
	Provider  string `json:"provider"`
	Model     string `json:"model"`
	Dimension int    `json:"dimension"`
}

type rootStatusJSON struct {
	Path       string `json:"path"`
	Accessible bool   `json:"accessible"`
}

type statusResultJSON struct {
	Version      string              `json:"version"`
	IndexPath    string              `json:"index_path"`
	Index        indexStatusJSON     `json:"index"`
	Embedding    embeddingStatusJSON `json:"embedding"`
	EngineRoots  []rootStatusJSON    `json:"engine_roots"`
	ProjectRoots []rootStatusJSON    `json:"project_roots"`
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	st := statusResultJSON{
		Version:   version,
		IndexPath: cfg.IndexPath,
		Embedding: embeddingStatusJSON{
			Provider:  a.embedder.Provider(),
			Model:     a.embedder.Model(),
			Dimension: a.embedder.Dimension(),
		},
		EngineRoots:  rootsStatus(cfg.EngineRoots),
		ProjectRoots: rootsStatus(cfg.ProjectRoots),
	}

	if snapshot, err := a.manager.Snapshot(); err == nil {
		st.Index = indexStatusJSON{
			Loaded:         true,
			Chunks:         len(snapshot.Chunks),
			EngineChunks:   snapshot.CountByOrigin(types.OriginEngine),
			ProjectChunks:  snapshot.CountByOrigin(types.OriginProject),
			Dimension:      snapshot.Dimension,
			DimensionMatch: snapshot.Dimension == a.embedder.Dimension(),
			LoadedAt:       snapshot.LoadedAt.Format(time.RFC3339),
		}
	}

	if statusJSON {
		data, err := json.MarshalIndent(st, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal status: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	return outputStatusText(cmd, st)
}

func outputStatusText(cmd *cobra.Command, st statusResultJSON) error {
	cmd.Printf("uecontext %s\n", st.Version)
	cmd.Printf("Index: %s\n", st.IndexPath)

	if st.Index.Loaded {
		cmd.Printf("  %d chunks loaded (engine %d, project %d, dimension %d)\n",
			st.Index.Chunks, st.Index.EngineChunks, st.Index.ProjectChunks, st.Index.Dimension)
		cmd.Printf("  loaded at %s\n", st.Index.LoadedAt)
	} else {
		cmd.Println("  no snapshot loaded (run the indexing pipeline)")
	}

	cmd.Printf("Embedding: %s / %s (dimension %d)\n",
		st.Embedding.Provider, st.Embedding.Model, st.Embedding.Dimension)
	if st.Index.Loaded && !st.Index.DimensionMatch {
		cmd.Printf("  warning: index dimension %d does not match provider dimension %d\n",
			st.Index.Dimension, st.Embedding.Dimension)
	}

	printRoots(cmd, "Engine roots:", st.EngineRoots)
	printRoots(cmd, "Project roots:", st.ProjectRoots)
	return nil
}

func printRoots(cmd *cobra.Command, header string, roots []rootStatusJSON) {
	cmd.Println(header)
	if len(roots) == 0 {
		cmd.Println("  (none configured)")
		return
	}
	for _, root := range roots {
		state := "ok"
		if !root.Accessible {
			state = "not accessible"
		}
		cmd.Printf("  %s (%s)\n", root.Path, state)
	}
}

func rootsStatus(roots []string) []rootStatusJSON {
	out := make([]rootStatusJSON, 0, len(roots))
	for _, root := range roots {
		info, err := os.Stat(root)
		out = append(out, rootStatusJSON{
			Path:       root,
			Accessible: err == nil && info.IsDir(),
		})
	}
	return out
}
