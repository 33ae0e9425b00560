package vector

import (
	"context"

	"github.com/rkorrapolu/sye-agent/internal/types"
)

// Store provides vector-indexed storage with similarity search.
// It backs the semantic cache: each record is a cached lookup keyed by its
// embedding. Implementations must be safe for concurrent use.
type Store interface {
	// Store adds or replaces a single record. Records are keyed by ID, so
	// storing an existing ID overwrites the previous entry.
	Store(ctx context.Context, record Record) error

	// StoreBatch adds multiple records efficiently.
	StoreBatch(ctx context.Context, records []Record) error

	// Search finds similar records by embedding vector, best match first.
	Search(ctx context.Context, query Query) ([]Result, error)

	// Get retrieves a specific record by ID.
	Get(ctx context.Context, id string) (*Record, error)

	// Delete removes a record from the store.
	Delete(ctx context.Context, id string) error

	// Count returns the number of records in the store.
	Count(ctx context.Context) (int, error)

	// Clear removes all records.
	Clear(ctx context.Context) error

	// Health returns the health status of the store.
	Health(ctx context.Context) types.HealthStatus

	// Close releases all resources held by the store.
	Close() error
}
