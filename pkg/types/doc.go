// Package types provides shared type definitions for the UEContext query engine.
//
// This package defines the domain types exchanged between the intent analyzer,
// definition extractor, filtered search, and the hybrid engine, plus the chunk
// shape the external indexing pipeline writes into the vector store.
//
// # Core Types
//
// Query is the caller-facing request. Construct it once, validate it, and pass
// it to the engine:
//
//	q := types.Query{
//	    Text:  "struct FHitResult",
//	    TopK:  10,
//	    Scope: types.ScopeAll,
//	}
//	if err := q.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//
// Intent is the analyzer's classification of that query:
//
//	intent.Kind        // DEFINITION, SEMANTIC, or HYBRID
//	intent.Confidence  // fixed per rule, in [0, 1]
//	intent.Candidates  // entity names, most specific rule first
//
// Chunk is an indexed source span with its embedding vector. The engine reads
// chunks from an immutable snapshot and never writes them:
//
//	chunk := types.Chunk{
//	    ID:     "a1b2c3",
//	    Path:   "Engine/Source/Runtime/Engine/Classes/Engine/HitResult.h",
//	    Origin: types.OriginEngine,
//	    Metadata: types.ChunkMetadata{
//	        EntityName: "FHitResult",
//	        EntityType: types.EntityStruct,
//	        Macros:     []string{"USTRUCT"},
//	        IsHeader:   true,
//	    },
//	}
//
// DefinitionMatch is a structural hit located by line scanning; SemanticMatch
// is a similarity hit against the snapshot.
//
// # Merged Results
//
// Result carries both kinds of entries in one ranked list. Definition entries
// always rank above semantic entries; within a class, entries sort by their
// native score. Entries that describe overlapping line spans in the same file
// are collapsed, keeping the structural side:
//
//	res, err := engine.Query(ctx, q)
//	for _, entry := range res.Entries {
//	    fmt.Printf("[%s] %s:%d-%d (%.2f)\n",
//	        entry.Kind, entry.Path, entry.StartLine, entry.EndLine, entry.Score)
//	}
//
// Warnings accumulate non-fatal problems (unreadable files, a failed branch)
// instead of failing the call; Timings records per-phase durations.
//
// # Validation
//
// Domain types implement validation methods returning sentinel errors that
// callers can test with errors.Is:
//
//	if err := q.Validate(); errors.Is(err, types.ErrInvalidTopK) {
//	    // reject the request
//	}
package types
