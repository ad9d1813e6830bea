package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/unrealkit/uecontext/internal/extract"
	"github.com/unrealkit/uecontext/internal/source"
	"github.com/unrealkit/uecontext/pkg/types"
)

var (
	findScope string
	findJSON  bool
	findBody  bool
)

var findCmd = &cobra.Command{
	Use:   "find [name]",
	Short: "Locate the definition of a C++ entity",
	Long: `Scans the configured source roots for the definition of a class, struct,
enum, function, or delegate. Full definitions in engine source rank first,
then project definitions; forward declarations are reported only when no
full definition exists anywhere.`,
	Args: cobra.ExactArgs(1),
	RunE: runFind,
}

func init() {
	findCmd.Flags().StringVar(&findScope, "scope", "all", "restrict to engine or project sources")
	findCmd.Flags().BoolVar(&findBody, "body", false, "print the full definition body")
	findCmd.Flags().BoolVar(&findJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(findCmd)
}

func runFind(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	scope, err := parseScope(findScope)
	if err != nil {
		return err
	}

	// Extraction reads source directly; no index store is opened or created.
	src := source.New(cfg.EngineRoots, cfg.ProjectRoots)
	extractor := extract.New(src, extract.Options{
		MaxFileSize: cfg.Extract.MaxFileSizeBytes,
		Concurrency: cfg.Extract.Workers,
	}, logger)

	matches, warnings, err := extractor.Extract(cmd.Context(), args[0], scope)
	if err != nil {
		return err
	}

	if findJSON {
		return outputFindJSON(cmd, args[0], matches, warnings)
	}
	return outputFindText(cmd, args[0], matches, warnings)
}

func outputFindText(cmd *cobra.Command, name string, matches []types.DefinitionMatch, warnings []types.Warning) error {
	if len(matches) == 0 {
		cmd.Printf("No definition found for %s.\n", name)
		printWarnings(cmd, warnings)
		return nil
	}

	for i := range matches {
		m := &matches[i]
		if i > 0 {
			cmd.Println()
		}

		label := string(m.Kind)
		if m.Forward {
			label += ", forward declaration"
		}
		cmd.Printf("  [%d] %s (%s) %s:%d-%d (%s)\n",
			i+1, m.Name, label, m.Path, m.StartLine, m.EndLine, m.Origin)

		if len(m.Macros) > 0 {
			cmd.Printf("      macros: %s\n", strings.Join(m.Macros, ", "))
		}

		if findBody {
			for _, line := range splitLines(m.Body) {
				cmd.Printf("      %s\n", line)
			}
		} else if line := firstLine(m.Body); line != "" {
			cmd.Printf("      %s\n", line)
		}

		if len(m.Members) > 0 && !findBody {
			cmd.Printf("      %d members\n", len(m.Members))
		}
	}

	printWarnings(cmd, warnings)
	return nil
}

type memberJSON struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

type definitionJSON struct {
	Rank      int          `json:"rank"`
	Name      string       `json:"name"`
	Kind      string       `json:"kind"`
	Path      string       `json:"path"`
	Origin    string       `json:"origin"`
	StartLine int          `json:"start_line"`
	EndLine   int          `json:"end_line"`
	Forward   bool         `json:"forward"`
	Score     float64      `json:"score"`
	Body      string       `json:"body"`
	Macros    []string     `json:"macros,omitempty"`
	Members   []memberJSON `json:"members,omitempty"`
}

type findResultJSON struct {
	Name        string           `json:"name"`
	Definitions []definitionJSON `json:"definitions"`
	Warnings    []warningJSON    `json:"warnings,omitempty"`
}

func outputFindJSON(cmd *cobra.Command, name string, matches []types.DefinitionMatch, warnings []types.Warning) error {
	out := findResultJSON{
		Name:        name,
		Definitions: make([]definitionJSON, 0, len(matches)),
		Warnings:    warningsJSON(warnings),
	}

	for i := range matches {
		m := &matches[i]
		def := definitionJSON{
			Rank:      i + 1,
			Name:      m.Name,
			Kind:      string(m.Kind),
			Path:      m.Path,
			Origin:    string(m.Origin),
			StartLine: m.StartLine,
			EndLine:   m.EndLine,
			Forward:   m.Forward,
			Score:     m.Score,
			Body:      m.Body,
			Macros:    m.Macros,
		}
		for _, member := range m.Members {
			def.Members = append(def.Members, memberJSON{Name: member.Name, Type: member.Type})
		}
		out.Definitions = append(out.Definitions, def)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
