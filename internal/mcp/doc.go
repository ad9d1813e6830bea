// Package mcp implements the Model Context Protocol (MCP) server for uecontext.
//
// The MCP server exposes four tools to AI coding assistants:
//   - query_codebase: Hybrid natural-language and symbol queries over C++ source
//   - find_definition: Exact structural definition lookup for a named entity
//   - get_status: Index snapshot, source root, and embedding provider health
//   - reload_index: Reload the snapshot after an external reindex
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// The server communicates with MCP clients via standard input/output,
// making it simple to integrate with any MCP-compatible client.
//
// # Basic Usage
//
// The MCP server is typically started via the serve command:
//
//	uecontext serve
//
// It then listens on stdin for MCP protocol messages and writes responses to
// stdout. While serving, the index store is watched for writes; an external
// reindex becomes visible after a short debounce without any explicit call.
//
// # Tool: query_codebase
//
// Answer a question about the configured source trees:
//
//	Request:
//	{
//	  "name": "query_codebase",
//	  "arguments": {
//	    "query": "how does AActor handle damage",
//	    "top_k": 10,
//	    "scope": "engine",
//	    "filters": {
//	      "entity_type": "class",
//	      "boost_name_match": true
//	    }
//	  }
//	}
//
//	Response:
//	{
//	  "query_id": "7d62…",
//	  "intent": {
//	    "kind": "HYBRID",
//	    "confidence": 0.85,
//	    "candidates": ["AActor"]
//	  },
//	  "results": [
//	    {
//	      "rank": 1,
//	      "kind": "definition",
//	      "path": "Runtime/Engine/Classes/GameFramework/Actor.h",
//	      "origin": "engine",
//	      "start_line": 114,
//	      "end_line": 3421,
//	      "score": 1.0,
//	      "snippet": "UCLASS(...)\nclass ENGINE_API AActor : public UObject\n{ ... }",
//	      "definition": {
//	        "name": "AActor",
//	        "kind": "class",
//	        "forward": false,
//	        "macros": ["UCLASS"]
//	      }
//	    },
//	    {
//	      "rank": 2,
//	      "kind": "semantic",
//	      "path": "Runtime/Engine/Private/Actor.cpp",
//	      "origin": "engine",
//	      "start_line": 980,
//	      "end_line": 1012,
//	      "score": 0.87,
//	      "snippet": "float AActor::TakeDamage(...) { ... }",
//	      "chunk": {
//	        "id": "chunk-ae41",
//	        "similarity": 0.87
//	      }
//	    }
//	  ],
//	  "timings": {"classify_ms": 0.04, "total_ms": 18.3}
//	}
//
// Definition entries always rank above semantic entries; the two score scales
// are never compared numerically.
//
// # Tool: find_definition
//
// Locate a definition without running the semantic branch:
//
//	Request:
//	{
//	  "name": "find_definition",
//	  "arguments": {
//	    "name": "FHitResult",
//	    "scope": "all"
//	  }
//	}
//
//	Response:
//	{
//	  "name": "FHitResult",
//	  "scope": "all",
//	  "definitions": [
//	    {
//	      "rank": 1,
//	      "name": "FHitResult",
//	      "kind": "struct",
//	      "path": "Runtime/Engine/Classes/Engine/HitResult.h",
//	      "origin": "engine",
//	      "start_line": 20,
//	      "end_line": 312,
//	      "forward": false,
//	      "score": 1.0,
//	      "body": "USTRUCT(...)\nstruct FHitResult\n{ ... }"
//	    }
//	  ]
//	}
//
// An unknown entity returns an empty definitions array, not an error.
//
// # Tool: get_status
//
// Check server health:
//
//	Response:
//	{
//	  "server": {"name": "uecontext", "version": "1.0.0"},
//	  "index_path": "/home/dev/.uecontext/index.db",
//	  "roots": {
//	    "engine": [{"path": "/opt/UnrealEngine/Engine/Source", "accessible": true}],
//	    "project": [{"path": "/home/dev/MyGame/Source", "accessible": true}]
//	  },
//	  "embedding": {"provider": "ollama", "model": "nomic-embed-text", "dimension": 768},
//	  "index": {
//	    "loaded": true,
//	    "chunks": 48210,
//	    "engine_chunks": 45107,
//	    "project_chunks": 3103,
//	    "dimension": 768,
//	    "dimension_match": true,
//	    "loaded_at": "2026-08-24T10:15:04Z"
//	  }
//	}
//
// # MCP Client Configuration
//
// Configure in an assistant's MCP settings:
//
//	{
//	  "mcpServers": {
//	    "uecontext": {
//	      "command": "/usr/local/bin/uecontext",
//	      "args": ["serve"],
//	      "env": {
//	        "UECONTEXT_ENGINE_ROOTS": "/opt/UnrealEngine/Engine/Source"
//	      }
//	    }
//	  }
//	}
//
// # Error Handling
//
// The MCP server returns standard JSON-RPC error responses:
//
//	{
//	  "error": {
//	    "code": -32602,
//	    "message": "invalid scope",
//	    "data": {
//	      "param": "scope",
//	      "allowed": ["engine", "project", "all"]
//	    }
//	  }
//	}
//
// Error codes:
//   - -32602: Invalid params (missing/invalid arguments)
//   - -32603: Internal error
//   - -32001: No usable index snapshot loaded
//   - -32002: Requested scope has no configured source roots
//   - -32003: Every dispatched retrieval branch failed
//
// A hybrid query with one failed branch is not an error: the response carries
// the surviving branch's results plus a warnings array naming the failed stage.
//
// # Logging
//
// The MCP server logs to stderr; stdout is reserved for the MCP protocol.
// Set the log level via configuration or environment:
//
//	UECONTEXT_LOG_LEVEL=debug uecontext serve
package mcp
