// Package engine implements the hybrid query orchestrator: classify,
// dispatch, merge, rank.
//
// One call moves through five phases. The intent analyzer classifies the
// query text; the classification routes to the definition extractor, the
// semantic searcher, or both; branch results are merged and deduplicated;
// the merged list is ranked and truncated; timings and warnings are attached.
//
// # Dispatch
//
// DEFINITION intent runs extraction only and SEMANTIC runs embed-plus-search
// only; either failing fails the call. HYBRID runs both branches
// concurrently, and a single branch failure degrades the result to the
// surviving branch with a warning instead of failing; only both branches
// failing surfaces ErrRetrieval.
//
// # Merge and rank
//
// Structural matches are authoritative: a semantic hit whose chunk overlaps
// a definition span is absorbed into the definition entry, recorded by chunk
// ID. Ranking treats source kind as the primary key (definitions as a class
// above semantic matches) and each entry's native score as the secondary
// key; the two scoring domains are never normalized onto one scale.
// Truncation to topK happens after merge so deduplication cannot starve the
// result set.
//
// The engine holds no per-query state. The snapshot provider and the
// embedder are shared, read-only collaborators, so one Engine serves
// concurrent callers.
package engine
