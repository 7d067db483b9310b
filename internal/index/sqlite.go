package index

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/screendex/screendex/internal/errors"
)

// CurrentSchemaVersion is the latest index schema version.
// Bump this when adding migrations.
const CurrentSchemaVersion = 1

// SQLiteIndex is a persistent Index backed by SQLite. Similarity search is a
// brute-force cosine scan in Go, which is fine at catalog scale (hundreds of
// records, not millions).
type SQLiteIndex struct {
	mu       sync.RWMutex
	db       *sql.DB
	embedder Embedder
	closed   bool
}

// Open initializes the index database at baseDir/screendex.db.
// The baseDir parameter allows tests to use t.TempDir() instead of
// ~/.screendex.
func Open(baseDir string, embedder Embedder) (*SQLiteIndex, error) {
	if embedder == nil {
		return nil, errors.NewInvalidRequest("embedder is required")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	_ = os.Chmod(baseDir, 0700)

	dbPath := filepath.Join(baseDir, "screendex.db")
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	_ = os.Chmod(dbPath, 0600)

	return &SQLiteIndex{db: db, embedder: embedder}, nil
}

// ConfigurePool applies connection pool limits. Only sets limits if
// explicitly configured (non-zero values).
func (s *SQLiteIndex) ConfigurePool(maxOpen, maxIdle int) {
	if maxOpen > 0 {
		s.db.SetMaxOpenConns(maxOpen)
	}
	if maxIdle > 0 {
		s.db.SetMaxIdleConns(maxIdle)
	}
}

// migrate applies schema migrations based on user_version.
func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return fmt.Errorf("failed to get user_version: %w", err)
	}

	// Migration 0 -> 1: Initial schema (v1)
	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS embeddings (
		  id            TEXT PRIMARY KEY,
		  metadata_json TEXT NOT NULL,
		  embedding     BLOB NOT NULL,
		  created_at    INTEGER NOT NULL,
		  updated_at    INTEGER NOT NULL
		);
		`
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", 1)); err != nil {
			return fmt.Errorf("failed to set user_version: %w", err)
		}
	}

	return nil
}

// Upsert registers or replaces a record, embedding the image bytes.
func (s *SQLiteIndex) Upsert(ctx context.Context, id string, image []byte, metadata map[string]string) error {
	if id == "" {
		return errors.NewInvalidRequest("id is required")
	}

	embedding, err := s.embedder.EmbedImage(ctx, image)
	if err != nil {
		return errors.NewExternalCallFailure("embed image", err)
	}

	metaJSON, err := json.Marshal(metadata)
	if err != nil {
		return errors.NewInternal(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.NewStoreUnavailable(nil)
	}

	now := time.Now().Unix()
	// created_at survives replacement so store-native order stays stable
	// across re-ingestion of the same ID.
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO embeddings (id, metadata_json, embedding, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		  metadata_json = excluded.metadata_json,
		  embedding     = excluded.embedding,
		  updated_at    = excluded.updated_at`,
		id, string(metaJSON), encodeVector(embedding), now, now,
	)
	if err != nil {
		return errors.NewStoreUnavailable(err)
	}
	return nil
}

// UpdateMetadata replaces a record's metadata without re-embedding.
// Returns false when the record is absent.
func (s *SQLiteIndex) UpdateMetadata(ctx context.Context, id string, metadata map[string]string) (bool, error) {
	metaJSON, err := json.Marshal(metadata)
	if err != nil {
		return false, errors.NewInternal(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, errors.NewStoreUnavailable(nil)
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE embeddings SET metadata_json = ?, updated_at = ? WHERE id = ?",
		string(metaJSON), time.Now().Unix(), id,
	)
	if err != nil {
		return false, errors.NewStoreUnavailable(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.NewInternal(err)
	}
	return n > 0, nil
}

// Get retrieves a single record, or nil when absent.
func (s *SQLiteIndex) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errors.NewStoreUnavailable(nil)
	}

	var metaJSON string
	err := s.db.QueryRowContext(ctx,
		"SELECT metadata_json FROM embeddings WHERE id = ?", id,
	).Scan(&metaJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewStoreUnavailable(err)
	}

	metadata, err := decodeMetadata(metaJSON)
	if err != nil {
		return nil, err
	}
	return &Record{ID: id, Metadata: metadata}, nil
}

// GetAll returns records matching the filter in insertion order.
func (s *SQLiteIndex) GetAll(ctx context.Context, filter Filter) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errors.NewStoreUnavailable(nil)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, metadata_json FROM embeddings ORDER BY created_at, id")
	if err != nil {
		return nil, errors.NewStoreUnavailable(err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var id, metaJSON string
		if err := rows.Scan(&id, &metaJSON); err != nil {
			return nil, errors.NewInternal(err)
		}
		metadata, err := decodeMetadata(metaJSON)
		if err != nil {
			return nil, err
		}
		if !filter.matches(metadata) {
			continue
		}
		records = append(records, Record{ID: id, Metadata: metadata})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStoreUnavailable(err)
	}
	return records, nil
}

// QueryByText embeds the query and ranks matching records by cosine
// distance, ascending.
func (s *SQLiteIndex) QueryByText(ctx context.Context, text string, k int, filter Filter) ([]ScoredRecord, error) {
	if k <= 0 {
		return nil, errors.NewInvalidRequest("k must be positive")
	}

	query, err := s.embedder.EmbedText(ctx, text)
	if err != nil {
		return nil, errors.NewExternalCallFailure("embed query", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errors.NewStoreUnavailable(nil)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, metadata_json, embedding FROM embeddings ORDER BY created_at, id")
	if err != nil {
		return nil, errors.NewStoreUnavailable(err)
	}
	defer rows.Close()

	var scored []ScoredRecord
	for rows.Next() {
		var id, metaJSON string
		var blob []byte
		if err := rows.Scan(&id, &metaJSON, &blob); err != nil {
			return nil, errors.NewInternal(err)
		}
		metadata, err := decodeMetadata(metaJSON)
		if err != nil {
			return nil, err
		}
		if !filter.matches(metadata) {
			continue
		}
		scored = append(scored, ScoredRecord{
			Record:   Record{ID: id, Metadata: metadata},
			Distance: 1 - cosineSimilarity(query, decodeVector(blob)),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStoreUnavailable(err)
	}

	// Stable keeps store-native order for tied distances; callers must not
	// rely on tie order either way.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Distance < scored[j].Distance
	})
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

// Delete removes a record. Absent records are not an error.
func (s *SQLiteIndex) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, errors.NewStoreUnavailable(nil)
	}

	res, err := s.db.ExecContext(ctx, "DELETE FROM embeddings WHERE id = ?", id)
	if err != nil {
		return false, errors.NewStoreUnavailable(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.NewInternal(err)
	}
	return n > 0, nil
}

// DeleteWhere removes every record matching the filter.
func (s *SQLiteIndex) DeleteWhere(ctx context.Context, filter Filter) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, errors.NewStoreUnavailable(nil)
	}

	rows, err := s.db.QueryContext(ctx, "SELECT id, metadata_json FROM embeddings")
	if err != nil {
		return 0, errors.NewStoreUnavailable(err)
	}
	var ids []string
	for rows.Next() {
		var id, metaJSON string
		if err := rows.Scan(&id, &metaJSON); err != nil {
			rows.Close()
			return 0, errors.NewInternal(err)
		}
		metadata, err := decodeMetadata(metaJSON)
		if err != nil {
			rows.Close()
			return 0, err
		}
		if filter.matches(metadata) {
			ids = append(ids, id)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, errors.NewStoreUnavailable(err)
	}
	rows.Close()

	deleted := 0
	for _, id := range ids {
		res, err := s.db.ExecContext(ctx, "DELETE FROM embeddings WHERE id = ?", id)
		if err != nil {
			return deleted, errors.NewStoreUnavailable(err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			deleted++
		}
	}
	return deleted, nil
}

// Close releases the underlying database.
func (s *SQLiteIndex) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// matches reports whether metadata satisfies every filter pair.
func (f Filter) matches(metadata map[string]string) bool {
	for k, v := range f {
		if metadata[k] != v {
			return false
		}
	}
	return true
}

func decodeMetadata(metaJSON string) (map[string]string, error) {
	var metadata map[string]string
	if err := json.Unmarshal([]byte(metaJSON), &metadata); err != nil {
		return nil, errors.NewInternal(err)
	}
	if metadata == nil {
		metadata = map[string]string{}
	}
	return metadata, nil
}

// encodeVector serializes an embedding as little-endian float64 bytes.
func encodeVector(v []float64) []byte {
	buf := make([]byte, 8*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(f))
	}
	return buf
}

func decodeVector(buf []byte) []float64 {
	v := make([]float64, len(buf)/8)
	for i := range v {
		v[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[i*8:]))
	}
	return v
}

// cosineSimilarity returns the cosine of the angle between a and b, or 0
// when either vector is zero or the dimensions disagree.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
