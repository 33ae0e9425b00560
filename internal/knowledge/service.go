// Package knowledge implements the lookup service that keeps the graph store
// and the semantic cache consistent with each other. The cache is a pure
// optimization: it is never a source of truth, and its failures degrade
// lookups to graph-only instead of failing them.
package knowledge

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rkorrapolu/sye-agent/internal/graph"
	"github.com/rkorrapolu/sye-agent/internal/semcache"
	"github.com/rkorrapolu/sye-agent/internal/types"
)

// Service is the knowledge lookup orchestration layer.
type Service interface {
	// QueryExisting checks whether an entity with the given name already
	// exists under the label, consulting the cache before the graph.
	QueryExisting(ctx context.Context, req QueryExistingRequest) (*LookupResult, error)

	// WriteGraph creates all nodes in the payload, then all relationships,
	// under a fresh run_id. Not idempotent: replaying a payload duplicates
	// its nodes.
	WriteGraph(ctx context.Context, payload GraphPayload) (*WriteResult, error)

	// Stats returns node and relationship counts by direct aggregate query.
	Stats(ctx context.Context) (*GraphStats, error)
}

type service struct {
	graph  graph.Client
	cache  *semcache.Cache
	logger *slog.Logger
}

// NewService creates the knowledge lookup service. The cache may be nil, in
// which case every lookup goes straight to the graph.
func NewService(client graph.Client, cache *semcache.Cache, logger *slog.Logger) (Service, error) {
	if client == nil {
		return nil, types.NewError(ErrCodeInvalidRequest, "graph client is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		graph:  client,
		cache:  cache,
		logger: logger.With("component", "knowledge"),
	}, nil
}

// QueryExisting implements the cache-then-graph lookup. On a cache miss the
// graph answer (even an empty one) is stored back so future near-duplicate
// queries short-circuit without re-hitting the store.
func (s *service) QueryExisting(ctx context.Context, req QueryExistingRequest) (*LookupResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if s.cache != nil {
		nodes, ok, err := s.cache.Check(ctx, req.Name, req.Label)
		if err != nil {
			s.logger.Warn("cache check failed, falling through to graph",
				"label", req.Label, "name", req.Name, "error", err)
		} else if ok {
			return &LookupResult{Nodes: nodes, Source: SourceCache}, nil
		}
	}

	// Exact name match only. Fuzziness is entirely the cache's job.
	cypher := fmt.Sprintf(`
		MATCH (n:%s {name: $name})
		RETURN elementId(n) AS id, n.name AS name,
		       n.created_at AS created_at, n.times_seen AS times_seen
		LIMIT 1
	`, req.Label)

	result, err := s.graph.Query(ctx, cypher, map[string]any{"name": req.Name})
	if err != nil {
		return nil, types.WrapError(ErrCodeLookupFailed,
			fmt.Sprintf("query_existing failed for %s %q", req.Label, req.Name), err)
	}

	nodes := make([]types.NodeSummary, 0, len(result.Records))
	for _, record := range result.Records {
		nodes = append(nodes, recordToSummary(record))
	}

	if s.cache != nil {
		if err := s.cache.Store(ctx, req.Name, nodes, req.Label); err != nil {
			s.logger.Warn("failed to store lookup result in cache",
				"label", req.Label, "name", req.Name, "error", err)
		}
	}

	return &LookupResult{Nodes: nodes, Source: SourceNeo4j}, nil
}

// WriteGraph creates nodes then relationships under one run_id. The logical
// to store id mapping is scoped to this call. A relationship referencing an
// unknown logical id fails the call; nodes already created stay in the store
// (documented partial-application risk, no compensating rollback).
func (s *service) WriteGraph(ctx context.Context, payload GraphPayload) (*WriteResult, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339)
	idMap := make(map[string]string, len(payload.Nodes))

	for _, node := range payload.Nodes {
		props := make(map[string]any, len(node.Properties)+3)
		for k, v := range node.Properties {
			props[k] = v
		}
		props["created_at"] = now
		props["run_id"] = runID
		if _, ok := props["source"]; !ok {
			props["source"] = "agent"
		}

		elementID, err := s.graph.CreateNode(ctx, node.Label, props)
		if err != nil {
			return nil, types.WrapError(ErrCodeWriteFailed,
				fmt.Sprintf("write_graph failed creating %s node %q (run %s)",
					node.Label, node.ID, runID), err)
		}
		idMap[node.ID] = elementID
	}

	for _, rel := range payload.Relationships {
		startID, ok := idMap[rel.StartNodeID]
		if !ok {
			return nil, types.NewError(ErrCodeInvalidPayload,
				fmt.Sprintf("relationship %s references unknown logical id %q (run %s)",
					rel.Type, rel.StartNodeID, runID))
		}
		endID, ok := idMap[rel.EndNodeID]
		if !ok {
			return nil, types.NewError(ErrCodeInvalidPayload,
				fmt.Sprintf("relationship %s references unknown logical id %q (run %s)",
					rel.Type, rel.EndNodeID, runID))
		}

		props := make(map[string]any, len(rel.Properties)+2)
		for k, v := range rel.Properties {
			props[k] = v
		}
		props["created_at"] = now
		props["run_id"] = runID

		if err := s.graph.CreateRelationship(ctx, startID, endID, rel.Type, props); err != nil {
			return nil, types.WrapError(ErrCodeWriteFailed,
				fmt.Sprintf("write_graph failed creating %s %s->%s (run %s)",
					rel.Type, rel.StartNodeID, rel.EndNodeID, runID), err)
		}
	}

	s.logger.Info("graph write complete",
		"run_id", runID,
		"nodes_created", len(payload.Nodes),
		"relationships_created", len(payload.Relationships))

	return &WriteResult{
		RunID:                runID,
		NodesCreated:         len(payload.Nodes),
		RelationshipsCreated: len(payload.Relationships),
	}, nil
}

// Stats aggregates counts directly from the graph store. The cache is not
// consulted.
func (s *service) Stats(ctx context.Context) (*GraphStats, error) {
	stats := &GraphStats{NodesByLabel: make(map[string]int64)}

	result, err := s.graph.Query(ctx,
		"MATCH (n) UNWIND labels(n) AS label RETURN label, count(n) AS count", nil)
	if err != nil {
		return nil, types.WrapError(ErrCodeStatsFailed, "failed to count nodes by label", err)
	}
	for _, record := range result.Records {
		label, _ := record["label"].(string)
		count := toInt64(record["count"])
		stats.NodesByLabel[label] = count
		stats.TotalNodes += count
	}

	result, err = s.graph.Query(ctx,
		"MATCH ()-[r]->() RETURN count(r) AS count", nil)
	if err != nil {
		return nil, types.WrapError(ErrCodeStatsFailed, "failed to count relationships", err)
	}
	if len(result.Records) > 0 {
		stats.TotalRelationships = toInt64(result.Records[0]["count"])
	}

	return stats, nil
}

// recordToSummary converts a query row into a NodeSummary, tolerating the
// value shapes the bolt protocol and the mock client produce.
func recordToSummary(record map[string]any) types.NodeSummary {
	summary := types.NodeSummary{}
	if id, ok := record["id"].(string); ok {
		summary.ID = id
	}
	if name, ok := record["name"].(string); ok {
		summary.Name = name
	}
	switch created := record["created_at"].(type) {
	case time.Time:
		summary.CreatedAt = created
	case string:
		if parsed, err := time.Parse(time.RFC3339, created); err == nil {
			summary.CreatedAt = parsed
		}
	}
	summary.TimesSeen = toInt64(record["times_seen"])
	return summary
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	}
	return 0
}
