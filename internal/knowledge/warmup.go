package knowledge

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rkorrapolu/sye-agent/internal/graph"
	"github.com/rkorrapolu/sye-agent/internal/semcache"
	"github.com/rkorrapolu/sye-agent/internal/types"
)

// Warmup batch-loads existing graph nodes into the semantic cache so the
// first real lookup for a known entity hits warm instead of cold. Nodes are
// processed most-referenced first (times_seen descending within each label)
// since warmup may be time-bounded.
//
// Each node is stored as its own single-element cache entry keyed by its
// name. When two nodes share a name, whichever is processed last wins the
// cache entry and the other is not represented. That lossy overwrite is the
// intended behavior, not a bug.
type Warmup struct {
	graph  graph.Client
	cache  *semcache.Cache
	logger *slog.Logger
}

// NewWarmup creates a warmup job. Both the graph client and cache are
// required.
func NewWarmup(client graph.Client, cache *semcache.Cache, logger *slog.Logger) (*Warmup, error) {
	if client == nil {
		return nil, types.NewError(ErrCodeWarmupFailed, "graph client is required")
	}
	if cache == nil {
		return nil, types.NewError(ErrCodeWarmupFailed, "semantic cache is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Warmup{
		graph:  client,
		cache:  cache,
		logger: logger.With("component", "warmup"),
	}, nil
}

// Run loads every named node into the cache and returns the number of
// entries stored per label. Individual cache store failures are logged and
// skipped; only a graph query failure aborts the run.
func (w *Warmup) Run(ctx context.Context) (map[string]int, error) {
	result, err := w.graph.Query(ctx, `
		MATCH (n)
		WHERE n.name IS NOT NULL
		RETURN elementId(n) AS id, labels(n)[0] AS label, n.name AS name,
		       n.created_at AS created_at, coalesce(n.times_seen, 0) AS times_seen
		ORDER BY label, times_seen DESC
	`, nil)
	if err != nil {
		return nil, types.WrapError(ErrCodeWarmupFailed,
			"failed to query nodes for cache warmup", err)
	}

	counts := make(map[string]int)
	var failures int

	for _, record := range result.Records {
		label, _ := record["label"].(string)
		summary := recordToSummary(record)
		if summary.Name == "" || label == "" {
			continue
		}

		if err := w.cache.Store(ctx, summary.Name, []types.NodeSummary{summary}, label); err != nil {
			failures++
			w.logger.Warn("failed to warm cache entry",
				"label", label, "name", summary.Name, "error", err)
			continue
		}
		counts[label]++
	}

	w.logger.Info("cache warmup complete",
		"entries", fmt.Sprintf("%v", counts),
		"failures", failures)
	return counts, nil
}
