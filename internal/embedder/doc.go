// Package embedder generates vector embeddings for queries and source chunks.
//
// The embedder supports multiple providers (Ollama, OpenAI, local hashing)
// behind one interface, with caching, retry, and rate limiting where the
// provider needs it.
//
// # Basic Usage
//
//	// Create embedder (auto-detects provider from environment)
//	emb, err := embedder.NewFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer emb.Close()
//
//	// Generate single embedding
//	result, err := emb.GenerateEmbedding(ctx, embedder.EmbeddingRequest{
//	    Text: "UCLASS(Blueprintable) class ENGINE_API ACharacter : public APawn",
//	})
//	fmt.Printf("Vector dimension: %d\n", result.Dimension)
//
// # Provider Selection
//
// The embedder selects a provider based on environment variables:
//
//  1. If UECONTEXT_EMBEDDING_PROVIDER is set → use specified provider
//  2. Else if OPENAI_API_KEY is set → use OpenAI
//  3. Else → Ollama on localhost (default, no key required)
//
// Explicit construction goes through the factory:
//
//	emb, err := embedder.New(embedder.Config{
//	    Provider:  "ollama",
//	    Model:     "nomic-embed-text",
//	    BaseURL:   "http://localhost:11434",
//	    CacheSize: 10000,
//	})
//
// Providers at a glance:
//
// Ollama (default):
//   - Dimensions: 768 (nomic-embed-text)
//   - Runs locally, engine headers never leave the machine
//   - No API key
//
// OpenAI:
//   - Dimensions: 1536 (text-embedding-3-small)
//   - Requests pass a token-bucket rate limiter
//   - Requires OPENAI_API_KEY
//
// Local (hash-based):
//   - Dimensions: 384
//   - Deterministic, offline, no model; intended for tests and air-gapped
//     setups where semantic quality does not matter
//
// # Query Embedding
//
// The retrieval engine needs a single normalized vector per query. The
// QueryEmbedder adapter narrows the full interface down to that:
//
//	qe := embedder.NewQueryEmbedder(emb)
//	vec, err := qe.Embed(ctx, "how does character movement replicate")
//
// Vectors from Embed are always unit length, so dot product equals cosine
// similarity downstream.
//
// # Caching
//
// All providers share the same LRU cache keyed by SHA-256 of the text:
//
//	cache := embedder.NewCache(10000)
//
// Cache hits return a copy of the stored vector; callers may mutate the
// result without corrupting the cache.
//
// # Error Handling
//
// Transient provider failures are retried with exponential backoff. After
// retries are exhausted the error wraps ErrProviderFailed:
//
//	emb, err := provider.GenerateEmbedding(ctx, req)
//	if errors.Is(err, embedder.ErrProviderFailed) {
//	    // API unavailable, degrade to definition-only retrieval
//	}
package embedder
