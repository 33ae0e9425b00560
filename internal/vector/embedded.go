package vector

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/rkorrapolu/sye-agent/internal/types"
)

// EmbeddedStore is an in-memory vector store using brute-force cosine
// similarity search. Suitable for development, tests, and small datasets;
// for persistent deployments use the SQLite-backed store.
type EmbeddedStore struct {
	mu      sync.RWMutex
	records map[string]Record
	dims    int
}

// NewEmbeddedStore creates an in-memory vector store expecting embeddings of
// the given dimensionality.
func NewEmbeddedStore(dims int) *EmbeddedStore {
	return &EmbeddedStore{
		records: make(map[string]Record),
		dims:    dims,
	}
}

// Store adds or replaces a single record.
func (s *EmbeddedStore) Store(ctx context.Context, record Record) error {
	if err := record.Validate(); err != nil {
		return err
	}
	if len(record.Embedding) != s.dims {
		return types.NewError(ErrCodeStoreFailed,
			fmt.Sprintf("embedding dimensions mismatch: expected %d, got %d", s.dims, len(record.Embedding)))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ID] = record
	return nil
}

// StoreBatch adds multiple records atomically.
func (s *EmbeddedStore) StoreBatch(ctx context.Context, records []Record) error {
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
	for _, record := range records {
		s.records[record.ID] = record
	}
	return nil
}

// Search scans all records and returns the TopK most similar, best first.
func (s *EmbeddedStore) Search(ctx context.Context, query Query) ([]Result, error) {
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

	results := make([]Result, 0)
	for _, record := range s.records {
		if !matchesFilters(record, query.Filters) {
			continue
		}
		score := CosineSimilarity(query.Embedding, record.Embedding)
		if score >= query.MinScore {
			results = append(results, Result{Record: record, Score: score})
		}
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
func (s *EmbeddedStore) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	if !ok {
		return nil, types.NewError(ErrCodeRecordNotFound,
			fmt.Sprintf("vector record not found: %s", id))
	}
	return &record, nil
}

// Delete removes a record. Deleting a missing ID is not an error.
func (s *EmbeddedStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	return nil
}

// Count returns the number of stored records.
func (s *EmbeddedStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// Clear removes all records.
func (s *EmbeddedStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]Record)
	return nil
}

// Health reports the store state and record count.
func (s *EmbeddedStore) Health(ctx context.Context) types.HealthStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return types.Healthy(fmt.Sprintf("embedded vector store operational with %d records (dims: %d)",
		len(s.records), s.dims))
}

// Close is a no-op for the in-memory store.
func (s *EmbeddedStore) Close() error {
	return nil
}

// CosineSimilarity computes the cosine similarity of two vectors, clamped
// to [0,1]. Vectors of mismatched length score 0.
func CosineSimilarity(a, b []float64) float64 {
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

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}

// matchesFilters checks metadata equality for every filter key.
func matchesFilters(record Record, filters map[string]any) bool {
	if len(filters) == 0 {
		return true
	}
	if record.Metadata == nil {
		return false
	}
	for key, want := range filters {
		got, ok := record.Metadata[key]
		if !ok || fmt.Sprintf("%v", got) != fmt.Sprintf("%v", want) {
			return false
		}
	}
	return true
}
