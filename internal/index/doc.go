// Package index provides the persisted chunk store and the in-memory
// snapshots the query engine searches over.
//
// The store is a single SQLite database written by the indexing pipeline and
// read here. At startup (and after on-disk changes) the Manager loads every
// chunk, validates the set, and publishes it as an immutable Snapshot behind
// an atomic pointer. Queries take the current snapshot once and keep it for
// their whole lifetime; a reload never mutates a published snapshot, it
// swaps in a new one.
//
// # Schema
//
// Tables:
//   - chunks: one row per indexed span (path, origin, line range, content,
//     entity metadata, embedding blob)
//   - index_meta: key/value facts recorded by the indexing pipeline
//     (embedding provider, model, engine version)
//   - schema_version: applied migration versions
//
// Embeddings are stored as little-endian float32 blobs and deserialized on
// load.
//
// # Build Tags
//
// Two driver configurations:
//
// CGO build (sqlite_fast tag):
//
//   - Uses github.com/mattn/go-sqlite3
//
//   - Faster bulk reads for engine-scale indexes
//
//     CGO_ENABLED=1 go build -tags "sqlite_fast"
//
// Pure Go build (default):
//
//   - Uses modernc.org/sqlite
//
//   - No C compiler needed
//
//     CGO_ENABLED=0 go build
//
// # Usage
//
//	store, err := index.Open("~/.uecontext/index.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	manager := index.NewManager(store, logger)
//	if err := manager.Load(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Hot reload on store writes, usually in its own goroutine.
//	go manager.Watch(ctx, index.DefaultDebounce)
//
//	snapshot, err := manager.Snapshot()
package index
