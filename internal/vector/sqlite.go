package vector

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/rkorrapolu/sye-agent/internal/types"

	_ "github.com/mattn/go-sqlite3"
)

// SqliteStore is a persistent vector store backed by SQLite. Embeddings are
// stored as BLOBs and searched brute-force in Go with cosine similarity,
// which is adequate for the cache sizes this service sees (thousands of
// entries, one per distinct lookup key).
type SqliteStore struct {
	mu        sync.RWMutex
	db        *sql.DB
	dims      int
	tableName string
	closed    bool
}

// SqliteConfig holds configuration for SqliteStore.
type SqliteConfig struct {
	DBPath    string // Path to the SQLite database file
	TableName string // Table name (default: "vectors")
	Dims      int    // Embedding dimensions (384 for all-MiniLM-L6-v2)
}

// NewSqliteStore opens (creating if needed) a persistent vector store.
// The database is opened in WAL mode for better concurrent read behavior.
func NewSqliteStore(cfg SqliteConfig) (*SqliteStore, error) {
	if cfg.DBPath == "" {
		return nil, types.NewError(ErrCodeInvalidConfig, "database path cannot be empty")
	}
	if cfg.Dims <= 0 {
		return nil, types.NewError(ErrCodeInvalidConfig,
			fmt.Sprintf("dimensions must be positive, got %d", cfg.Dims))
	}
	if cfg.TableName == "" {
		cfg.TableName = "vectors"
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", cfg.DBPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, types.WrapError(ErrCodeStoreFailed, "failed to open database", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, types.WrapError(ErrCodeStoreUnavailable, "failed to ping database", err)
	}

	store := &SqliteStore{
		db:        db,
		dims:      cfg.Dims,
		tableName: cfg.TableName,
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, types.WrapError(ErrCodeStoreFailed, "failed to initialize schema", err)
	}

	return store, nil
}

func (s *SqliteStore) initSchema() error {
	createSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			content TEXT NOT NULL,
			embedding BLOB NOT NULL,
			metadata TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`, s.tableName)

	if _, err := s.db.Exec(createSQL); err != nil {
		return fmt.Errorf("failed to create vectors table: %w", err)
	}
	return nil
}

// Store inserts or replaces a single record.
func (s *SqliteStore) Store(ctx context.Context, record Record) error {
	if err := record.Validate(); err != nil {
		return err
	}
	if len(record.Embedding) != s.dims {
		return types.NewError(ErrCodeStoreFailed,
			fmt.Sprintf("embedding dimensions mismatch: expected %d, got %d", s.dims, len(record.Embedding)))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return types.NewError(ErrCodeStoreUnavailable, "vector store is closed")
	}

	embeddingBytes := encodeEmbedding(record.Embedding)

	var metadataJSON []byte
	if record.Metadata != nil {
		var err error
		metadataJSON, err = json.Marshal(record.Metadata)
		if err != nil {
			return types.WrapError(ErrCodeStoreFailed, "failed to serialize metadata", err)
		}
	}

	insertSQL := fmt.Sprintf(`
		INSERT OR REPLACE INTO %s (id, content, embedding, metadata, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, s.tableName)

	_, err := s.db.ExecContext(ctx, insertSQL,
		record.ID, record.Content, embeddingBytes, metadataJSON, record.CreatedAt)
	if err != nil {
		return types.WrapError(ErrCodeStoreFailed, "failed to insert record", err)
	}
	return nil
}

// StoreBatch inserts multiple records in a single transaction.
func (s *SqliteStore) StoreBatch(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	for i, record := range records {
		if err := record.Validate(); err != nil {
			return types.WrapError(ErrCodeStoreFailed,
				fmt.Sprintf("invalid record at index %d", i), err)
		}
		if len(record.Embedding) != s.dims {
			return types.NewError(ErrCodeStoreFailed,
				fmt.Sprintf("record %d: embedding dimensions mismatch: expected %d, got %d",
					i, s.dims, len(record.Embedding)))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return types.NewError(ErrCodeStoreUnavailable, "vector store is closed")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return types.WrapError(ErrCodeStoreFailed, "failed to begin transaction", err)
	}
	defer tx.Rollback()

	insertSQL := fmt.Sprintf(`
		INSERT OR REPLACE INTO %s (id, content, embedding, metadata, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, s.tableName)

	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return types.WrapError(ErrCodeStoreFailed, "failed to prepare statement", err)
	}
	defer stmt.Close()

	for _, record := range records {
		var metadataJSON []byte
		if record.Metadata != nil {
			metadataJSON, err = json.Marshal(record.Metadata)
			if err != nil {
				return types.WrapError(ErrCodeStoreFailed, "failed to serialize metadata", err)
			}
		}

		if _, err := stmt.ExecContext(ctx,
			record.ID, record.Content, encodeEmbedding(record.Embedding),
			metadataJSON, record.CreatedAt); err != nil {
			return types.WrapError(ErrCodeStoreFailed, "failed to insert batch record", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return types.WrapError(ErrCodeStoreFailed, "failed to commit transaction", err)
	}
	return nil
}

// Search scans all stored records and returns the TopK most similar.
func (s *SqliteStore) Search(ctx context.Context, query Query) ([]Result, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if len(query.Embedding) != s.dims {
		return nil, types.NewError(ErrCodeSearchFailed,
			fmt.Sprintf("query embedding dimensions mismatch: expected %d, got %d",
				s.dims, len(query.Embedding)))
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, types.NewError(ErrCodeStoreUnavailable, "vector store is closed")
	}

	selectSQL := fmt.Sprintf("SELECT id, content, embedding, metadata, created_at FROM %s", s.tableName)
	rows, err := s.db.QueryContext(ctx, selectSQL)
	if err != nil {
		return nil, types.WrapError(ErrCodeSearchFailed, "failed to query vectors", err)
	}
	defer rows.Close()

	results := make([]Result, 0)
	for rows.Next() {
		record, err := scanRecord(rows, s.dims)
		if err != nil {
			return nil, err
		}
		if !matchesFilters(*record, query.Filters) {
			continue
		}
		score := CosineSimilarity(query.Embedding, record.Embedding)
		if score >= query.MinScore {
			results = append(results, Result{Record: *record, Score: score})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, types.WrapError(ErrCodeSearchFailed, "error iterating rows", err)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > query.TopK {
		results = results[:query.TopK]
	}
	return results, nil
}

// Get retrieves a record by ID.
func (s *SqliteStore) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, types.NewError(ErrCodeStoreUnavailable, "vector store is closed")
	}

	selectSQL := fmt.Sprintf(
		"SELECT id, content, embedding, metadata, created_at FROM %s WHERE id = ?", s.tableName)
	row := s.db.QueryRowContext(ctx, selectSQL, id)

	var record Record
	var embeddingBytes, metadataJSON []byte
	err := row.Scan(&record.ID, &record.Content, &embeddingBytes, &metadataJSON, &record.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, types.NewError(ErrCodeRecordNotFound,
			fmt.Sprintf("vector record not found: %s", id))
	}
	if err != nil {
		return nil, types.WrapError(ErrCodeSearchFailed, "failed to get record", err)
	}

	record.Embedding, err = decodeEmbedding(embeddingBytes, s.dims)
	if err != nil {
		return nil, types.WrapError(ErrCodeSearchFailed, "failed to deserialize embedding", err)
	}
	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &record.Metadata); err != nil {
			return nil, types.WrapError(ErrCodeSearchFailed, "failed to deserialize metadata", err)
		}
	}
	return &record, nil
}

// Delete removes a record by ID.
func (s *SqliteStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return types.NewError(ErrCodeStoreUnavailable, "vector store is closed")
	}

	deleteSQL := fmt.Sprintf("DELETE FROM %s WHERE id = ?", s.tableName)
	if _, err := s.db.ExecContext(ctx, deleteSQL, id); err != nil {
		return types.WrapError(ErrCodeStoreFailed, "failed to delete record", err)
	}
	return nil
}

// Count returns the number of stored records.
func (s *SqliteStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, types.NewError(ErrCodeStoreUnavailable, "vector store is closed")
	}

	var count int
	countSQL := fmt.Sprintf("SELECT COUNT(*) FROM %s", s.tableName)
	if err := s.db.QueryRowContext(ctx, countSQL).Scan(&count); err != nil {
		return 0, types.WrapError(ErrCodeStoreFailed, "failed to count records", err)
	}
	return count, nil
}

// Clear removes all records.
func (s *SqliteStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return types.NewError(ErrCodeStoreUnavailable, "vector store is closed")
	}

	clearSQL := fmt.Sprintf("DELETE FROM %s", s.tableName)
	if _, err := s.db.ExecContext(ctx, clearSQL); err != nil {
		return types.WrapError(ErrCodeStoreFailed, "failed to clear records", err)
	}
	return nil
}

// Health reports connectivity and record count.
func (s *SqliteStore) Health(ctx context.Context) types.HealthStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return types.Unhealthy("sqlite vector store is closed")
	}
	if err := s.db.PingContext(ctx); err != nil {
		return types.Unhealthy(fmt.Sprintf("database ping failed: %v", err))
	}

	var count int
	countSQL := fmt.Sprintf("SELECT COUNT(*) FROM %s", s.tableName)
	if err := s.db.QueryRowContext(ctx, countSQL).Scan(&count); err != nil {
		return types.Degraded(fmt.Sprintf("failed to count records: %v", err))
	}

	return types.Healthy(fmt.Sprintf("sqlite vector store operational with %d records (dims: %d)",
		count, s.dims))
}

// Close releases the underlying database handle.
func (s *SqliteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func scanRecord(rows *sql.Rows, dims int) (*Record, error) {
	var record Record
	var embeddingBytes, metadataJSON []byte

	if err := rows.Scan(&record.ID, &record.Content, &embeddingBytes,
		&metadataJSON, &record.CreatedAt); err != nil {
		return nil, types.WrapError(ErrCodeSearchFailed, "failed to scan record", err)
	}

	embedding, err := decodeEmbedding(embeddingBytes, dims)
	if err != nil {
		return nil, types.WrapError(ErrCodeSearchFailed, "failed to deserialize embedding", err)
	}
	record.Embedding = embedding

	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &record.Metadata); err != nil {
			return nil, types.WrapError(ErrCodeSearchFailed, "failed to deserialize metadata", err)
		}
	}
	return &record, nil
}

// encodeEmbedding packs a float64 slice into little-endian bytes, 8 per value.
func encodeEmbedding(embedding []float64) []byte {
	buf := make([]byte, len(embedding)*8)
	for i, val := range embedding {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(val))
	}
	return buf
}

// decodeEmbedding unpacks bytes written by encodeEmbedding.
func decodeEmbedding(buf []byte, dims int) ([]float64, error) {
	if len(buf) != dims*8 {
		return nil, fmt.Errorf("invalid embedding bytes length: expected %d, got %d", dims*8, len(buf))
	}
	embedding := make([]float64, dims)
	for i := 0; i < dims; i++ {
		embedding[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[i*8:]))
	}
	return embedding, nil
}
