package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/unrealkit/uecontext/internal/engine"
	"github.com/unrealkit/uecontext/internal/extract"
	"github.com/unrealkit/uecontext/internal/index"
	"github.com/unrealkit/uecontext/internal/source"
	"github.com/unrealkit/uecontext/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams = -32602 // Invalid method parameters
	ErrorCodeInternalError = -32603 // Internal JSON-RPC error
	ErrorCodeNoIndex       = -32001 // No usable index snapshot loaded
	ErrorCodeNoRoots       = -32002 // Requested scope maps to no configured source roots
	ErrorCodeRetrieval     = -32003 // Every dispatched retrieval branch failed
)

// handleQueryCodebase handles the query_codebase tool invocation
func (s *Server) handleQueryCodebase(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	text, ok := args["query"].(string)
	if !ok || text == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "query parameter is required", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	// Zero means unset; the engine applies its configured default
	topK := getIntDefault(args, "top_k", 0)
	if topK < 0 {
		return nil, newMCPError(ErrorCodeInvalidParams, "top_k must be >= 1", map[string]interface{}{
			"param": "top_k",
			"value": topK,
		})
	}

	scope, ok := parseScope(getStringDefault(args, "scope", ""))
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid scope", map[string]interface{}{
			"param":   "scope",
			"allowed": []string{"engine", "project", "all"},
		})
	}

	filters, err := parseFilters(args)
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid filters", map[string]interface{}{
			"param":  "filters",
			"reason": err.Error(),
		})
	}

	result, err := s.engine.Query(ctx, types.Query{
		Text:    text,
		TopK:    topK,
		Scope:   scope,
		Filters: filters,
	})
	if err != nil {
		return nil, queryError(err)
	}

	return mcp.NewToolResultText(formatJSON(queryResponse(result))), nil
}

// handleFindDefinition handles the find_definition tool invocation
func (s *Server) handleFindDefinition(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	name, ok := args["name"].(string)
	if !ok || name == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "name parameter is required", map[string]interface{}{
			"param":  "name",
			"reason": "missing or empty",
		})
	}

	scope, ok := parseScope(getStringDefault(args, "scope", ""))
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid scope", map[string]interface{}{
			"param":   "scope",
			"allowed": []string{"engine", "project", "all"},
		})
	}

	matches, warnings, err := s.extractor.Extract(ctx, name, scope)
	if err != nil {
		switch {
		case errors.Is(err, extract.ErrEmptyEntity):
			return nil, newMCPError(ErrorCodeInvalidParams, "name does not contain an entity identifier", map[string]interface{}{
				"param": "name",
				"value": name,
			})
		case errors.Is(err, source.ErrNoRoots):
			return nil, newMCPError(ErrorCodeNoRoots, "no source roots configured for scope", map[string]interface{}{
				"scope": string(scope),
				"error": err.Error(),
			})
		default:
			return nil, newMCPError(ErrorCodeInternalError, "definition extraction failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	definitions := make([]map[string]interface{}, 0, len(matches))
	for i := range matches {
		definitions = append(definitions, definitionResponse(i+1, &matches[i]))
	}

	response := map[string]interface{}{
		"name":        name,
		"scope":       string(scope),
		"definitions": definitions,
	}
	if len(warnings) > 0 {
		response["warnings"] = warningResponses(warnings)
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	response := map[string]interface{}{
		"server": map[string]interface{}{
			"name":    ServerName,
			"version": ServerVersion,
		},
		"index_path": s.cfg.IndexPath,
		"roots": map[string]interface{}{
			"engine":  rootsStatus(s.cfg.EngineRoots),
			"project": rootsStatus(s.cfg.ProjectRoots),
		},
		"embedding": map[string]interface{}{
			"provider":  s.embedder.Provider(),
			"model":     s.embedder.Model(),
			"dimension": s.embedder.Dimension(),
		},
	}

	snapshot, err := s.manager.Snapshot()
	if err != nil {
		response["index"] = map[string]interface{}{
			"loaded":  false,
			"message": "No index snapshot loaded. Run the indexing pipeline, then call reload_index.",
		}
		return mcp.NewToolResultText(formatJSON(response)), nil
	}

	response["index"] = map[string]interface{}{
		"loaded":         true,
		"chunks":         len(snapshot.Chunks),
		"engine_chunks":  snapshot.CountByOrigin(types.OriginEngine),
		"project_chunks": snapshot.CountByOrigin(types.OriginProject),
		"dimension":      snapshot.Dimension,
		// A dimension mismatch means the index was built with a different
		// provider than the one configured now; semantic search would score
		// garbage against it.
		"dimension_match": snapshot.Dimension == s.embedder.Dimension(),
		"loaded_at":       snapshot.LoadedAt.Format(time.RFC3339),
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleReloadIndex handles the reload_index tool invocation
func (s *Server) handleReloadIndex(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()

	if err := s.manager.Load(ctx); err != nil {
		if errors.Is(err, index.ErrSnapshotEmpty) {
			return nil, newMCPError(ErrorCodeNoIndex, "index store holds no chunks", map[string]interface{}{
				"error": err.Error(),
				"hint":  "run the indexing pipeline before reloading",
			})
		}
		return nil, newMCPError(ErrorCodeInternalError, "index reload failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	snapshot, err := s.manager.Snapshot()
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "index reload failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"reloaded":    true,
		"chunks":      len(snapshot.Chunks),
		"dimension":   snapshot.Dimension,
		"duration_ms": durationMs(time.Since(start)),
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Response shaping

// queryResponse flattens an engine result into the wire shape
func queryResponse(result *types.Result) map[string]interface{} {
	entries := make([]map[string]interface{}, 0, len(result.Entries))
	for i := range result.Entries {
		entries = append(entries, entryResponse(i+1, &result.Entries[i]))
	}

	response := map[string]interface{}{
		"query_id": result.QueryID,
		"intent": map[string]interface{}{
			"kind":       string(result.Intent.Kind),
			"confidence": result.Intent.Confidence,
			"candidates": result.Intent.CandidateNames(),
		},
		"results": entries,
		"timings": map[string]interface{}{
			"classify_ms": durationMs(result.Timings.Classify),
			"extract_ms":  durationMs(result.Timings.Extract),
			"embed_ms":    durationMs(result.Timings.Embed),
			"search_ms":   durationMs(result.Timings.Search),
			"merge_ms":    durationMs(result.Timings.Merge),
			"total_ms":    durationMs(result.Timings.Total),
		},
	}

	if len(result.Warnings) > 0 {
		response["warnings"] = warningResponses(result.Warnings)
	}

	return response
}

// entryResponse renders one merged result entry
func entryResponse(rank int, e *types.ResultEntry) map[string]interface{} {
	entry := map[string]interface{}{
		"rank":       rank,
		"kind":       string(e.Kind),
		"path":       e.Path,
		"origin":     string(e.Origin),
		"start_line": e.StartLine,
		"end_line":   e.EndLine,
		"score":      e.Score,
		"snippet":    e.Snippet(),
	}

	if d := e.Definition; d != nil {
		def := map[string]interface{}{
			"name":    d.Name,
			"kind":    string(d.Kind),
			"forward": d.Forward,
		}
		if len(d.Macros) > 0 {
			def["macros"] = d.Macros
		}
		if len(d.Members) > 0 {
			def["members"] = memberResponses(d.Members)
		}
		entry["definition"] = def
	}

	if c := e.Chunk; c != nil {
		chunk := map[string]interface{}{
			"id":         c.ID,
			"similarity": e.Similarity,
		}
		if c.Metadata.EntityName != "" {
			chunk["entity_name"] = c.Metadata.EntityName
			chunk["entity_type"] = string(c.Metadata.EntityType)
		}
		if len(c.Metadata.Macros) > 0 {
			chunk["macros"] = c.Metadata.Macros
		}
		entry["chunk"] = chunk
	}

	if len(e.Absorbed) > 0 {
		entry["absorbed_chunks"] = e.Absorbed
	}

	return entry
}

// definitionResponse renders one extracted definition for find_definition
func definitionResponse(rank int, m *types.DefinitionMatch) map[string]interface{} {
	def := map[string]interface{}{
		"rank":       rank,
		"name":       m.Name,
		"kind":       string(m.Kind),
		"path":       m.Path,
		"origin":     string(m.Origin),
		"start_line": m.StartLine,
		"end_line":   m.EndLine,
		"forward":    m.Forward,
		"score":      m.Score,
		"body":       m.Body,
	}
	if len(m.Macros) > 0 {
		def["macros"] = m.Macros
	}
	if len(m.Members) > 0 {
		def["members"] = memberResponses(m.Members)
	}
	return def
}

func memberResponses(members []types.Member) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(members))
	for _, m := range members {
		out = append(out, map[string]interface{}{
			"name": m.Name,
			"type": m.Type,
		})
	}
	return out
}

func warningResponses(warnings []types.Warning) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, map[string]interface{}{
			"stage":   w.Stage,
			"message": w.Message,
		})
	}
	return out
}

// rootsStatus reports each configured root with an accessibility check
func rootsStatus(roots []string) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(roots))
	for _, root := range roots {
		info, err := os.Stat(root)
		out = append(out, map[string]interface{}{
			"path":       root,
			"accessible": err == nil && info.IsDir(),
		})
	}
	return out
}

// queryError maps an engine error onto the MCP error surface. Validation
// failures are the caller's fault; everything else is reported with the
// closest matching retrieval code.
func queryError(err error) error {
	switch {
	case errors.Is(err, types.ErrEmptyQuery),
		errors.Is(err, types.ErrInvalidTopK),
		errors.Is(err, types.ErrInvalidScope),
		errors.Is(err, types.ErrInvalidEntityKind),
		errors.Is(err, types.ErrInvalidFileKind):
		return newMCPError(ErrorCodeInvalidParams, err.Error(), nil)

	case errors.Is(err, index.ErrNoSnapshot), errors.Is(err, index.ErrSnapshotEmpty):
		return newMCPError(ErrorCodeNoIndex, "no index snapshot loaded", map[string]interface{}{
			"error": err.Error(),
			"hint":  "run the indexing pipeline, then call reload_index",
		})

	case errors.Is(err, source.ErrNoRoots):
		return newMCPError(ErrorCodeNoRoots, "no source roots configured for scope", map[string]interface{}{
			"error": err.Error(),
		})

	case errors.Is(err, engine.ErrRetrieval):
		return newMCPError(ErrorCodeRetrieval, "retrieval failed", map[string]interface{}{
			"error": err.Error(),
		})

	default:
		return newMCPError(ErrorCodeInternalError, "query failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// parseScope normalizes a scope argument; empty selects all roots
func parseScope(raw string) (types.Scope, bool) {
	if raw == "" {
		return types.ScopeAll, true
	}
	scope := types.Scope(strings.ToLower(raw))
	return scope, scope.Valid()
}

// parseFilters builds the filter set from the optional filters object.
// Reflection macros are uppercase identifiers, so require_macro is
// normalized to uppercase.
func parseFilters(args map[string]interface{}) (types.Filters, error) {
	raw, ok := args["filters"].(map[string]interface{})
	if !ok {
		return types.Filters{}, nil
	}

	filters := types.Filters{
		EntityType:      types.EntityKind(strings.ToLower(getStringDefault(raw, "entity_type", ""))),
		RequireMacro:    strings.ToUpper(getStringDefault(raw, "require_macro", "")),
		FileKind:        types.FileKind(strings.ToLower(getStringDefault(raw, "file_kind", ""))),
		BoostMacroMatch: getBoolDefault(raw, "boost_macro_match", false),
		BoostNameMatch:  getBoolDefault(raw, "boost_name_match", false),
	}

	return filters, filters.Validate()
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// durationMs renders a duration as fractional milliseconds; engine phases
// routinely finish under a millisecond
func durationMs(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}
