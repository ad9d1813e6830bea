package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/unrealkit/uecontext/pkg/types"
)

// parseScope maps a --scope flag value onto a query scope. Empty selects all.
func parseScope(raw string) (types.Scope, error) {
	if raw == "" {
		return types.ScopeAll, nil
	}
	scope := types.Scope(strings.ToLower(raw))
	if !scope.Valid() {
		return "", fmt.Errorf("invalid scope %q (want engine, project, or all)", raw)
	}
	return scope, nil
}

// firstLine returns the first non-empty line of s, trimmed.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			return t
		}
	}
	return ""
}

// splitLines splits s for display, dropping a trailing blank line.
func splitLines(s string) []string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil
	}
	return lines
}

type warningJSON struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

func warningsJSON(warnings []types.Warning) []warningJSON {
	if len(warnings) == 0 {
		return nil
	}
	out := make([]warningJSON, len(warnings))
	for i, w := range warnings {
		out[i] = warningJSON{Stage: w.Stage, Message: w.Message}
	}
	return out
}

func printWarnings(cmd *cobra.Command, warnings []types.Warning) {
	if len(warnings) == 0 {
		return
	}
	cmd.Println()
	for _, w := range warnings {
		cmd.Printf("warning (%s): %s\n", w.Stage, w.Message)
	}
}
