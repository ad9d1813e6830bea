package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/unrealkit/uecontext/pkg/types"
)

// ErrNotFound is returned when a requested record doesn't exist
var ErrNotFound = errors.New("not found")

// Store is the persisted chunk index backed by SQLite. The query engine only
// ever reads from it; writes come from the indexing pipeline and from tests
// building fixtures.
type Store struct {
	db   *sql.DB
	path string
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// Open opens the index store at dbPath, creating the database and applying
// any pending schema migrations as needed.
func Open(dbPath string) (*Store, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open index database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Path returns the database path the store was opened with
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// LoadChunks reads every chunk in the store in (file_path, start_line) order.
// Vectors are deserialized from their stored blobs.
func (s *Store) LoadChunks(ctx context.Context) ([]types.Chunk, error) {
	query := `
		SELECT id, file_path, origin, start_line, end_line, content,
		       entity_name, entity_type, macros, is_header, embedding
		FROM chunks
		ORDER BY file_path, start_line
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var chunks []types.Chunk
	for rows.Next() {
		var (
			chunk      types.Chunk
			origin     string
			entityName sql.NullString
			entityType sql.NullString
			macros     sql.NullString
			blob       []byte
		)
		if err := rows.Scan(&chunk.ID, &chunk.Path, &origin, &chunk.StartLine, &chunk.EndLine,
			&chunk.Content, &entityName, &entityType, &macros, &chunk.Metadata.IsHeader, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		chunk.Origin = types.Origin(origin)
		chunk.Metadata.EntityName = entityName.String
		chunk.Metadata.EntityType = types.EntityKind(entityType.String)
		chunk.Metadata.Macros = splitMacros(macros.String)
		chunk.Vector = deserializeVector(blob)
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return chunks, nil
}

// PutChunks inserts or updates the given chunks in a single transaction.
// Every chunk is validated before any row is written.
func (s *Store) PutChunks(ctx context.Context, chunks []types.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for i := range chunks {
		if err := putChunkTx(ctx, tx, &chunks[i]); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

func putChunkTx(ctx context.Context, tx *sql.Tx, chunk *types.Chunk) error {
	if err := chunk.Validate(); err != nil {
		return fmt.Errorf("invalid chunk %s: %w", chunk.ID, err)
	}

	query := `
		INSERT INTO chunks (id, file_path, origin, start_line, end_line, content,
		                    entity_name, entity_type, macros, is_header, embedding, dimension)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			file_path = excluded.file_path,
			origin = excluded.origin,
			start_line = excluded.start_line,
			end_line = excluded.end_line,
			content = excluded.content,
			entity_name = excluded.entity_name,
			entity_type = excluded.entity_type,
			macros = excluded.macros,
			is_header = excluded.is_header,
			embedding = excluded.embedding,
			dimension = excluded.dimension,
			updated_at = CURRENT_TIMESTAMP
	`
	_, err := tx.ExecContext(ctx, query,
		chunk.ID, chunk.Path, string(chunk.Origin), chunk.StartLine, chunk.EndLine,
		chunk.Content, chunk.Metadata.EntityName, string(chunk.Metadata.EntityType),
		joinMacros(chunk.Metadata.Macros), chunk.Metadata.IsHeader,
		serializeVector(chunk.Vector), len(chunk.Vector))
	if err != nil {
		return fmt.Errorf("failed to upsert chunk %s: %w", chunk.ID, err)
	}
	return nil
}

// DeleteChunksByPath removes every chunk indexed under the given file path.
// Used by the indexing pipeline when a source file is re-indexed or removed.
func (s *Store) DeleteChunksByPath(ctx context.Context, filePath string) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM chunks WHERE file_path = ?", filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to delete chunks for %s: %w", filePath, err)
	}
	return result.RowsAffected()
}

// SetMeta stores an index-level metadata value (embedding model, engine
// version, and similar facts recorded by the indexing pipeline).
func (s *Store) SetMeta(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO index_meta (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`
	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to set meta %s: %w", key, err)
	}
	return nil
}

// Meta reads an index-level metadata value. Missing keys return ErrNotFound.
func (s *Store) Meta(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM index_meta WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("meta %s: %w", key, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read meta %s: %w", key, err)
	}
	return value, nil
}

// Macros are stored as a single comma-separated column. Macro names are
// identifiers, so the separator cannot appear inside a value.

func joinMacros(macros []string) string {
	return strings.Join(macros, ",")
}

func splitMacros(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
