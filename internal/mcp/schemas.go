package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// queryCodebaseTool returns the tool definition for query_codebase
func queryCodebaseTool() mcp.Tool {
	return mcp.Tool{
		Name:        "query_codebase",
		Description: "Answer a natural-language or symbol query over indexed Unreal Engine C++ source, combining exact definition extraction with semantic similarity search",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Natural language question or symbol name (e.g. 'how does AActor handle replication', 'FHitResult')",
				},
				"top_k": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (1-100)",
					"default":     10,
					"minimum":     1,
					"maximum":     100,
				},
				"scope": map[string]interface{}{
					"type":        "string",
					"description": "Which source trees to query",
					"enum":        []string{"engine", "project", "all"},
					"default":     "all",
				},
				"filters": map[string]interface{}{
					"type":        "object",
					"description": "Optional filters and boosts applied to semantic results",
					"properties": map[string]interface{}{
						"entity_type": map[string]interface{}{
							"type":        "string",
							"description": "Restrict chunks to one entity kind",
							"enum":        []string{"struct", "class", "enum", "function", "delegate"},
						},
						"require_macro": map[string]interface{}{
							"type":        "string",
							"description": "Chunk must carry this reflection macro (e.g. UCLASS, UFUNCTION)",
						},
						"file_kind": map[string]interface{}{
							"type":        "string",
							"description": "Restrict to header or implementation files",
							"enum":        []string{"header", "impl"},
						},
						"boost_macro_match": map[string]interface{}{
							"type":        "boolean",
							"description": "Boost chunks carrying reflection macro annotations",
							"default":     false,
						},
						"boost_name_match": map[string]interface{}{
							"type":        "boolean",
							"description": "Boost chunks whose entity name matches a symbol in the query",
							"default":     false,
						},
					},
				},
			},
			Required: []string{"query"},
		},
	}
}

// findDefinitionTool returns the tool definition for find_definition
func findDefinitionTool() mcp.Tool {
	return mcp.Tool{
		Name:        "find_definition",
		Description: "Locate the structural definition of a named C++ entity (class, struct, enum, function, or delegate) in the configured source trees",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Entity name, with or without template arguments (e.g. 'AActor', 'TArray<FVector>')",
				},
				"scope": map[string]interface{}{
					"type":        "string",
					"description": "Which source trees to search",
					"enum":        []string{"engine", "project", "all"},
					"default":     "all",
				},
			},
			Required: []string{"name"},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Report index snapshot state, configured source roots, and embedding provider health",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// reloadIndexTool returns the tool definition for reload_index
func reloadIndexTool() mcp.Tool {
	return mcp.Tool{
		Name:        "reload_index",
		Description: "Reload the index snapshot from the store after an external reindex",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
