package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unrealkit/uecontext/pkg/types"
)

func TestParseScope(t *testing.T) {
	tests := []struct {
		raw  string
		want types.Scope
	}{
		{"", types.ScopeAll},
		{"all", types.ScopeAll},
		{"engine", types.ScopeEngine},
		{"Engine", types.ScopeEngine},
		{"PROJECT", types.ScopeProject},
	}
	for _, tt := range tests {
		scope, err := parseScope(tt.raw)
		require.NoError(t, err, "scope %q", tt.raw)
		assert.Equal(t, tt.want, scope)
	}

	_, err := parseScope("everywhere")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "everywhere")
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "UCLASS()", firstLine("\n  UCLASS()\nclass AActor"))
	assert.Equal(t, "class AActor", firstLine("class AActor"))
	assert.Equal(t, "", firstLine("\n\n  \n"))
	assert.Equal(t, "", firstLine(""))
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitLines("a\nb\n"))
	assert.Equal(t, []string{"a"}, splitLines("a"))
	assert.Nil(t, splitLines(""))
}

func TestOutputQueryText(t *testing.T) {
	result := &types.Result{
		Intent: types.Intent{Kind: types.IntentHybrid, Confidence: 0.75},
		Entries: []types.ResultEntry{
			{
				Kind:      types.ResultDefinition,
				Path:      "Actor.h",
				Origin:    types.OriginEngine,
				StartLine: 10,
				EndLine:   40,
				Score:     1.0,
				Definition: &types.DefinitionMatch{
					Name:   "AActor",
					Kind:   types.EntityClass,
					Macros: []string{"UCLASS"},
					Body:   "UCLASS()\nclass AActor : public UObject\n{\n};",
				},
			},
			{
				Kind:      types.ResultSemantic,
				Path:      "Actor.cpp",
				Origin:    types.OriginEngine,
				StartLine: 100,
				EndLine:   120,
				Score:     0.82,
				Chunk: &types.Chunk{
					ID:      "chunk-1",
					Content: "actor tick dispatch",
					Metadata: types.ChunkMetadata{
						EntityName: "AActor",
						EntityType: types.EntityClass,
					},
				},
			},
		},
		Warnings: []types.Warning{{Stage: types.StageSearch, Message: "index stale"}},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)

	require.NoError(t, outputQueryText(rootCmd, result))

	out := buf.String()
	assert.Contains(t, out, "Intent: HYBRID (confidence 0.75)")
	assert.Contains(t, out, "[1] definition Actor.h:10-40 (engine, score 1.00)")
	assert.Contains(t, out, "AActor (class)")
	assert.Contains(t, out, "macros: UCLASS")
	assert.Contains(t, out, "[2] semantic Actor.cpp:100-120 (engine, score 0.82)")
	assert.Contains(t, out, "actor tick dispatch")
	assert.Contains(t, out, "warning (search): index stale")
}

func TestOutputQueryTextNoResults(t *testing.T) {
	result := &types.Result{
		Intent: types.Intent{Kind: types.IntentSemantic, Confidence: 0.4},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)

	require.NoError(t, outputQueryText(rootCmd, result))
	assert.Contains(t, buf.String(), "No results found.")
}

func TestOutputFindTextForward(t *testing.T) {
	matches := []types.DefinitionMatch{
		{
			Name:      "UHealthComponent",
			Kind:      types.EntityClass,
			Path:      "TankPawn.h",
			Origin:    types.OriginEngine,
			StartLine: 7,
			EndLine:   7,
			Forward:   true,
			Body:      "class UHealthComponent;",
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)

	require.NoError(t, outputFindText(rootCmd, "UHealthComponent", matches, nil))

	out := buf.String()
	assert.Contains(t, out, "UHealthComponent (class, forward declaration)")
	assert.Contains(t, out, "TankPawn.h:7-7")
}
