package vector

import (
	"fmt"
	"time"

	"github.com/rkorrapolu/sye-agent/internal/types"
)

// Record is a stored vector with its source content and metadata.
type Record struct {
	ID        string         `json:"id"`
	Content   string         `json:"content"`
	Embedding []float64      `json:"embedding"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// NewRecord creates a Record stamped with the current time.
func NewRecord(id, content string, embedding []float64, metadata map[string]any) Record {
	return Record{
		ID:        id,
		Content:   content,
		Embedding: embedding,
		Metadata:  metadata,
		CreatedAt: time.Now(),
	}
}

// Validate ensures the record has an ID, content, and a non-empty embedding.
func (r *Record) Validate() error {
	if r.ID == "" {
		return types.NewError(ErrCodeStoreFailed, "record ID cannot be empty")
	}
	if r.Content == "" {
		return types.NewError(ErrCodeStoreFailed, "record content cannot be empty")
	}
	if len(r.Embedding) == 0 {
		return types.NewError(ErrCodeStoreFailed, "record embedding cannot be empty")
	}
	return nil
}

// Query is a similarity search request against pre-computed embeddings.
type Query struct {
	Embedding []float64      `json:"embedding"`
	TopK      int            `json:"top_k"`
	Filters   map[string]any `json:"filters,omitempty"`
	MinScore  float64        `json:"min_score,omitempty"`
}

// NewQuery creates a Query for the given embedding returning at most topK
// results with no minimum score.
func NewQuery(embedding []float64, topK int) Query {
	return Query{
		Embedding: embedding,
		TopK:      topK,
	}
}

// WithFilters adds metadata equality filters to the query.
func (q Query) WithFilters(filters map[string]any) Query {
	q.Filters = filters
	return q
}

// WithMinScore sets the minimum cosine similarity threshold.
func (q Query) WithMinScore(minScore float64) Query {
	q.MinScore = minScore
	return q
}

// Validate ensures the query has an embedding and sane bounds.
func (q *Query) Validate() error {
	if len(q.Embedding) == 0 {
		return types.NewError(ErrCodeSearchFailed, "query embedding cannot be empty")
	}
	if q.TopK <= 0 {
		return types.NewError(ErrCodeSearchFailed,
			fmt.Sprintf("query top_k must be greater than 0, got %d", q.TopK))
	}
	if q.MinScore < 0 || q.MinScore > 1 {
		return types.NewError(ErrCodeSearchFailed,
			fmt.Sprintf("query min_score must be between 0 and 1, got %f", q.MinScore))
	}
	return nil
}

// Result is a search hit with its cosine similarity score.
// Score is in [0,1]; higher is more similar. Distance is 1 - Score.
type Result struct {
	Record Record  `json:"record"`
	Score  float64 `json:"score"`
}

// Distance returns the normalized vector distance for this result.
func (r Result) Distance() float64 {
	return 1 - r.Score
}
