// Package semcache implements the semantic lookup cache: approximate-match
// memoization of "does a node like this already exist" queries, keyed by
// (label, query text) and matched by embedding distance.
package semcache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/rkorrapolu/sye-agent/internal/embedder"
	"github.com/rkorrapolu/sye-agent/internal/types"
	"github.com/rkorrapolu/sye-agent/internal/vector"
)

// DefaultDistanceThreshold is the maximum embedding distance (1 - cosine
// similarity) for a nearest neighbor to count as a cache hit. Smaller is
// stricter.
const DefaultDistanceThreshold = 0.2

// Config holds semantic cache settings.
type Config struct {
	// DistanceThreshold overrides DefaultDistanceThreshold when positive.
	DistanceThreshold float64 `mapstructure:"distance_threshold" yaml:"distance_threshold"`
}

// Cache is a vector-indexed cache of node lookups. The label partitions the
// key space so entities of different labels never collide, even with
// identical text. Safe for concurrent use when its store and embedder are.
type Cache struct {
	store     vector.Store
	embedder  embedder.Embedder
	threshold float64
	logger    *slog.Logger
}

// Stats reports advisory cache metrics.
type Stats struct {
	DistanceThreshold float64            `json:"distance_threshold"`
	Dimensions        int                `json:"dimensions"`
	EntryCount        int                `json:"entry_count"`
	StoreHealth       types.HealthStatus `json:"store_health"`
}

// New creates a semantic cache over the given vector store and embedder.
func New(store vector.Store, emb embedder.Embedder, cfg Config, logger *slog.Logger) (*Cache, error) {
	if store == nil {
		return nil, types.NewError(ErrCodeInvalidConfig, "vector store is required")
	}
	if emb == nil {
		return nil, types.NewError(ErrCodeInvalidConfig, "embedder is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	threshold := cfg.DistanceThreshold
	if threshold <= 0 {
		threshold = DefaultDistanceThreshold
	}
	if threshold >= 1 {
		return nil, types.NewError(ErrCodeInvalidConfig,
			fmt.Sprintf("distance threshold must be in (0, 1), got %v", threshold))
	}

	return &Cache{
		store:     store,
		embedder:  emb,
		threshold: threshold,
		logger:    logger.With("component", "semcache"),
	}, nil
}

// compositeKey builds the lookup key. The label prefix makes cross-label
// collisions impossible even for identical query text.
func compositeKey(label, queryText string) string {
	return label + ":" + queryText
}

// Check looks up queryText within the label partition. It returns the cached
// node summaries and ok=true when the nearest stored entry is within the
// distance threshold. ok=false means the cache has no opinion; ok=true with
// an empty slice is a confirmed "nothing exists" previously learned from the
// graph. A corrupt cached payload is treated as a miss, never an error.
func (c *Cache) Check(ctx context.Context, queryText, label string) ([]types.NodeSummary, bool, error) {
	key := compositeKey(label, queryText)

	queryEmbedding, err := c.embedder.Embed(ctx, key)
	if err != nil {
		return nil, false, types.WrapError(ErrCodeCacheCheckFailed,
			fmt.Sprintf("failed to embed lookup key for %s %q", label, queryText), err)
	}

	results, err := c.store.Search(ctx, vector.NewQuery(queryEmbedding, 1).
		WithFilters(map[string]any{"label": label}))
	if err != nil {
		return nil, false, types.WrapError(ErrCodeCacheCheckFailed,
			fmt.Sprintf("vector search failed for %s %q", label, queryText), err)
	}
	if len(results) == 0 {
		return nil, false, nil
	}

	nearest := results[0]
	if nearest.Distance() > c.threshold {
		return nil, false, nil
	}

	var nodes []types.NodeSummary
	payload, _ := nearest.Record.Metadata["payload"].(string)
	if err := json.Unmarshal([]byte(payload), &nodes); err != nil {
		c.logger.Warn("discarding corrupt cache payload",
			"label", label,
			"entry_id", nearest.Record.ID,
			"error", err)
		return nil, false, nil
	}

	c.logger.Debug("cache hit",
		"label", label,
		"query", queryText,
		"distance", nearest.Distance(),
		"nodes", len(nodes))
	return nodes, true, nil
}

// Store writes the node summaries for (queryText, label), overwriting any
// entry with the same exact key. A near-duplicate text under a different
// exact key creates a separate entry; the cache accumulates paraphrases.
// An empty nodes slice is a valid payload recording a confirmed absence.
func (c *Cache) Store(ctx context.Context, queryText string, nodes []types.NodeSummary, label string) error {
	key := compositeKey(label, queryText)

	embedding, err := c.embedder.Embed(ctx, key)
	if err != nil {
		return types.WrapError(ErrCodeCacheStoreFailed,
			fmt.Sprintf("failed to embed cache key for %s %q", label, queryText), err)
	}

	if nodes == nil {
		nodes = []types.NodeSummary{}
	}
	payload, err := json.Marshal(nodes)
	if err != nil {
		return types.WrapError(ErrCodeCacheStoreFailed,
			"failed to serialize node summaries", err)
	}

	record := vector.NewRecord(embedder.HashText(key), key, embedding, map[string]any{
		"label":   label,
		"query":   queryText,
		"payload": string(payload),
	})

	if err := c.store.Store(ctx, record); err != nil {
		return types.WrapError(ErrCodeCacheStoreFailed,
			fmt.Sprintf("failed to store cache entry for %s %q", label, queryText), err)
	}
	return nil
}

// Clear wipes all cache entries. Test and reset paths only.
func (c *Cache) Clear(ctx context.Context) error {
	if err := c.store.Clear(ctx); err != nil {
		return types.WrapError(ErrCodeCacheClearFailed, "failed to clear cache", err)
	}
	return nil
}

// Stats reports the threshold, embedding dimensionality, entry count, and
// backing store health. Advisory only.
func (c *Cache) Stats(ctx context.Context) (Stats, error) {
	count, err := c.store.Count(ctx)
	if err != nil {
		return Stats{}, types.WrapError(ErrCodeCacheCheckFailed,
			"failed to count cache entries", err)
	}
	return Stats{
		DistanceThreshold: c.threshold,
		Dimensions:        c.embedder.Dimensions(),
		EntryCount:        count,
		StoreHealth:       c.store.Health(ctx),
	}, nil
}

// Threshold returns the configured distance threshold.
func (c *Cache) Threshold() float64 {
	return c.threshold
}
