package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/unrealkit/uecontext/internal/index"
	"github.com/unrealkit/uecontext/pkg/types"
)

var (
	queryTopK       int
	queryScope      string
	queryEntityType string
	queryMacro      string
	queryFileKind   string
	queryJSON       bool
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Run a hybrid query against the configured codebase",
	Long: `Runs one query through intent classification, definition extraction, and
semantic search, then prints the merged ranking. Symbol-style queries resolve
to exact definitions by scanning source; conceptual queries require a
prebuilt index at the configured index path.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "maximum results (default from config)")
	queryCmd.Flags().StringVar(&queryScope, "scope", "all", "restrict to engine or project sources")
	queryCmd.Flags().StringVar(&queryEntityType, "entity-type", "", "filter semantic hits: struct, class, enum, function, delegate")
	queryCmd.Flags().StringVar(&queryMacro, "macro", "", "require a reflection macro tag, e.g. UCLASS")
	queryCmd.Flags().StringVar(&queryFileKind, "file-kind", "", "filter semantic hits: header or impl")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	scope, err := parseScope(queryScope)
	if err != nil {
		return err
	}

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	q := types.Query{
		Text:  args[0],
		TopK:  queryTopK,
		Scope: scope,
		Filters: types.Filters{
			EntityType: types.EntityKind(strings.ToLower(queryEntityType)),
			// Reflection macros are uppercase identifiers
			RequireMacro: strings.ToUpper(queryMacro),
			FileKind:     types.FileKind(strings.ToLower(queryFileKind)),
		},
	}

	result, err := a.engine.Query(cmd.Context(), q)
	if err != nil {
		if errors.Is(err, index.ErrNoSnapshot) || errors.Is(err, index.ErrSnapshotEmpty) {
			return fmt.Errorf("no index snapshot loaded at %s; run the indexing pipeline first", cfg.IndexPath)
		}
		return err
	}

	if queryJSON {
		return outputQueryJSON(cmd, result)
	}
	return outputQueryText(cmd, result)
}

func outputQueryText(cmd *cobra.Command, result *types.Result) error {
	cmd.Printf("Intent: %s (confidence %.2f)\n", result.Intent.Kind, result.Intent.Confidence)

	if len(result.Entries) == 0 {
		cmd.Println("No results found.")
		printWarnings(cmd, result.Warnings)
		return nil
	}

	for i := range result.Entries {
		e := &result.Entries[i]
		cmd.Println()
		cmd.Printf("  [%d] %s %s:%d-%d (%s, score %.2f)\n",
			i+1, e.Kind, e.Path, e.StartLine, e.EndLine, e.Origin, e.Score)

		switch {
		case e.Definition != nil:
			label := string(e.Definition.Kind)
			if e.Definition.Forward {
				label += ", forward declaration"
			}
			cmd.Printf("      %s (%s)\n", e.Definition.Name, label)
			if len(e.Definition.Macros) > 0 {
				cmd.Printf("      macros: %s\n", strings.Join(e.Definition.Macros, ", "))
			}
		case e.Chunk != nil:
			if e.Chunk.Metadata.EntityName != "" {
				cmd.Printf("      %s (%s)\n", e.Chunk.Metadata.EntityName, e.Chunk.Metadata.EntityType)
			}
		}

		if snippet := firstLine(e.Snippet()); snippet != "" {
			cmd.Printf("      %s\n", snippet)
		}
	}

	printWarnings(cmd, result.Warnings)
	return nil
}

// queryEntryJSON flattens one ranked entry. Definition and semantic entries
// share the shape; fields that only one kind carries are omitted on the other.
type queryEntryJSON struct {
	Rank       int      `json:"rank"`
	Kind       string   `json:"kind"`
	Path       string   `json:"path"`
	Origin     string   `json:"origin"`
	StartLine  int      `json:"start_line"`
	EndLine    int      `json:"end_line"`
	Score      float64  `json:"score"`
	Name       string   `json:"name,omitempty"`
	EntityType string   `json:"entity_type,omitempty"`
	Forward    bool     `json:"forward,omitempty"`
	Similarity float64  `json:"similarity,omitempty"`
	Macros     []string `json:"macros,omitempty"`
	Absorbed   []string `json:"absorbed_chunks,omitempty"`
	Snippet    string   `json:"snippet,omitempty"`
}

type queryResultJSON struct {
	QueryID    string           `json:"query_id"`
	Intent     string           `json:"intent"`
	Confidence float64          `json:"confidence"`
	Candidates []string         `json:"candidates,omitempty"`
	Results    []queryEntryJSON `json:"results"`
	Warnings   []warningJSON    `json:"warnings,omitempty"`
}

func outputQueryJSON(cmd *cobra.Command, result *types.Result) error {
	out := queryResultJSON{
		QueryID:    result.QueryID,
		Intent:     string(result.Intent.Kind),
		Confidence: result.Intent.Confidence,
		Candidates: result.Intent.CandidateNames(),
		Results:    make([]queryEntryJSON, 0, len(result.Entries)),
		Warnings:   warningsJSON(result.Warnings),
	}

	for i := range result.Entries {
		e := &result.Entries[i]
		entry := queryEntryJSON{
			Rank:      i + 1,
			Kind:      string(e.Kind),
			Path:      e.Path,
			Origin:    string(e.Origin),
			StartLine: e.StartLine,
			EndLine:   e.EndLine,
			Score:     e.Score,
			Absorbed:  e.Absorbed,
			Snippet:   e.Snippet(),
		}
		switch {
		case e.Definition != nil:
			entry.Name = e.Definition.Name
			entry.EntityType = string(e.Definition.Kind)
			entry.Forward = e.Definition.Forward
			entry.Macros = e.Definition.Macros
		case e.Chunk != nil:
			entry.Name = e.Chunk.Metadata.EntityName
			entry.EntityType = string(e.Chunk.Metadata.EntityType)
			entry.Similarity = e.Similarity
			entry.Macros = e.Chunk.Metadata.Macros
		}
		out.Results = append(out.Results, entry)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
