package knowledge

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rkorrapolu/sye-agent/internal/embedder"
	"github.com/rkorrapolu/sye-agent/internal/graph"
	"github.com/rkorrapolu/sye-agent/internal/semcache"
	"github.com/rkorrapolu/sye-agent/internal/types"
	"github.com/rkorrapolu/sye-agent/internal/vector"
)

func newTestCache(t *testing.T) (*semcache.Cache, *embedder.MockEmbedder) {
	t.Helper()
	emb := embedder.NewMockEmbedder()
	cache, err := semcache.New(vector.NewEmbeddedStore(384), emb, semcache.Config{}, slog.Default())
	require.NoError(t, err)
	return cache, emb
}

func newTestService(t *testing.T) (Service, *graph.MockClient, *semcache.Cache, *embedder.MockEmbedder) {
	t.Helper()
	client := graph.NewMockClient()
	require.NoError(t, client.Connect(context.Background()))
	cache, emb := newTestCache(t)
	svc, err := NewService(client, cache, slog.Default())
	require.NoError(t, err)
	return svc, client, cache, emb
}

func TestQueryExisting_CacheMissThenHit(t *testing.T) {
	svc, client, _, _ := newTestService(t)
	ctx := context.Background()

	client.SetQueryHandler(func(cypher string, params map[string]any) (graph.QueryResult, error) {
		require.Equal(t, "connection refused", params["name"])
		return graph.QueryResult{Records: []map[string]any{{
			"id":         "4:abc:1",
			"name":       "connection refused",
			"created_at": "2026-08-30T10:00:00Z",
			"times_seen": int64(3),
		}}}, nil
	})

	first, err := svc.QueryExisting(ctx, QueryExistingRequest{Name: "connection refused", Label: types.LabelSymptom})
	require.NoError(t, err)
	assert.Equal(t, SourceNeo4j, first.Source)
	require.Len(t, first.Nodes, 1)
	assert.Equal(t, "4:abc:1", first.Nodes[0].ID)

	// Second identical call must short-circuit to the cache.
	second, err := svc.QueryExisting(ctx, QueryExistingRequest{Name: "connection refused", Label: types.LabelSymptom})
	require.NoError(t, err)
	assert.Equal(t, SourceCache, second.Source)
	assert.Equal(t, first.Nodes, second.Nodes)

	// Only the first call reached the graph.
	assert.Len(t, client.Queries(), 1)
}

func TestQueryExisting_EmptyGraphResultCachedAsConfirmedEmpty(t *testing.T) {
	svc, client, _, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.QueryExisting(ctx, QueryExistingRequest{Name: "novel symptom", Label: types.LabelSymptom})
	require.NoError(t, err)
	assert.Equal(t, SourceNeo4j, first.Source)
	assert.Empty(t, first.Nodes)

	second, err := svc.QueryExisting(ctx, QueryExistingRequest{Name: "novel symptom", Label: types.LabelSymptom})
	require.NoError(t, err)
	assert.Equal(t, SourceCache, second.Source, "confirmed empty must come back from the cache")
	assert.Empty(t, second.Nodes)
	assert.Len(t, client.Queries(), 1)
}

func TestQueryExisting_CacheFailureDegradesToGraph(t *testing.T) {
	svc, client, _, emb := newTestService(t)
	ctx := context.Background()
	emb.SetEmbedError(assert.AnError)

	client.SetQueryHandler(func(cypher string, params map[string]any) (graph.QueryResult, error) {
		return graph.QueryResult{Records: []map[string]any{{
			"id": "4:abc:9", "name": "disk full",
		}}}, nil
	})

	result, err := svc.QueryExisting(ctx, QueryExistingRequest{Name: "disk full", Label: types.LabelSymptom})
	require.NoError(t, err, "cache failure must never be fatal")
	assert.Equal(t, SourceNeo4j, result.Source)
	require.Len(t, result.Nodes, 1)
}

func TestQueryExisting_GraphFailureIsFatal(t *testing.T) {
	svc, client, _, _ := newTestService(t)

	client.SetQueryHandler(func(cypher string, params map[string]any) (graph.QueryResult, error) {
		return graph.QueryResult{}, assert.AnError
	})

	_, err := svc.QueryExisting(context.Background(),
		QueryExistingRequest{Name: "x", Label: types.LabelCause})
	require.Error(t, err)
	code, ok := types.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeLookupFailed, code)
}

func TestQueryExisting_ValidatesRequest(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.QueryExisting(ctx, QueryExistingRequest{Name: "", Label: types.LabelSymptom})
	assert.Error(t, err)

	_, err = svc.QueryExisting(ctx, QueryExistingRequest{Name: "x", Label: "Bogus"})
	assert.Error(t, err)
}

func TestQueryExisting_GraphOnlyModeWithoutCache(t *testing.T) {
	client := graph.NewMockClient()
	require.NoError(t, client.Connect(context.Background()))
	svc, err := NewService(client, nil, slog.Default())
	require.NoError(t, err)

	result, err := svc.QueryExisting(context.Background(),
		QueryExistingRequest{Name: "x", Label: types.LabelAction})
	require.NoError(t, err)
	assert.Equal(t, SourceNeo4j, result.Source)
}

func TestWriteGraph_EndToEnd(t *testing.T) {
	svc, client, _, _ := newTestService(t)
	ctx := context.Background()

	payload := GraphPayload{
		Nodes: []NodeSpec{
			{ID: "n0", Label: types.LabelSymptom, Properties: map[string]any{"name": "db timeout"}},
			{ID: "n1", Label: types.LabelAction, Properties: map[string]any{"name": "add index"}},
		},
		Relationships: []RelationshipSpec{
			{Type: types.RelFixes, StartNodeID: "n1", EndNodeID: "n0",
				Properties: map[string]any{"confidence": 0.9}},
		},
	}

	result, err := svc.WriteGraph(ctx, payload)
	require.NoError(t, err)
	assert.Equal(t, 2, result.NodesCreated)
	assert.Equal(t, 1, result.RelationshipsCreated)
	assert.NotEmpty(t, result.RunID)

	nodes := client.Nodes()
	require.Len(t, nodes, 2)
	for _, node := range nodes {
		assert.Equal(t, result.RunID, node.Props["run_id"])
		assert.Equal(t, "agent", node.Props["source"])
		assert.NotEmpty(t, node.Props["created_at"])
	}

	rels := client.Relationships()
	require.Len(t, rels, 1)
	assert.Equal(t, types.RelFixes, rels[0].Type)
	assert.Equal(t, 0.9, rels[0].Props["confidence"])
	assert.Equal(t, result.RunID, rels[0].Props["run_id"])
}

func TestWriteGraph_NotIdempotent(t *testing.T) {
	svc, client, _, _ := newTestService(t)
	ctx := context.Background()

	payload := GraphPayload{Nodes: []NodeSpec{
		{ID: "n0", Label: types.LabelSymptom, Properties: map[string]any{"name": "dup"}},
	}}

	first, err := svc.WriteGraph(ctx, payload)
	require.NoError(t, err)
	second, err := svc.WriteGraph(ctx, payload)
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Len(t, client.Nodes(), 2, "replaying a payload must duplicate nodes")
}

func TestWriteGraph_UnknownLogicalIDFailsAfterNodes(t *testing.T) {
	svc, client, _, _ := newTestService(t)
	ctx := context.Background()

	payload := GraphPayload{
		Nodes: []NodeSpec{
			{ID: "n0", Label: types.LabelCause, Properties: map[string]any{"name": "oom"}},
		},
		Relationships: []RelationshipSpec{
			{Type: types.RelCauses, StartNodeID: "n0", EndNodeID: "ghost"},
		},
	}

	_, err := svc.WriteGraph(ctx, payload)
	require.Error(t, err)
	code, ok := types.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeInvalidPayload, code)

	// Partial application: created nodes stay.
	assert.Len(t, client.Nodes(), 1)
	assert.Empty(t, client.Relationships())
}

func TestWriteGraph_ValidatesPayload(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.WriteGraph(ctx, GraphPayload{})
	assert.Error(t, err)

	_, err = svc.WriteGraph(ctx, GraphPayload{Nodes: []NodeSpec{
		{ID: "n0", Label: "Bogus"},
	}})
	assert.Error(t, err)

	_, err = svc.WriteGraph(ctx, GraphPayload{Nodes: []NodeSpec{
		{ID: "n0", Label: types.LabelSymptom},
		{ID: "n0", Label: types.LabelSymptom},
	}})
	assert.Error(t, err, "duplicate logical ids must be rejected")

	_, err = svc.WriteGraph(ctx, GraphPayload{
		Nodes: []NodeSpec{{ID: "n0", Label: types.LabelSymptom}},
		Relationships: []RelationshipSpec{
			{Type: "EXPLODES", StartNodeID: "n0", EndNodeID: "n0"},
		},
	})
	assert.Error(t, err)
}

func TestStats_AggregatesFromGraph(t *testing.T) {
	svc, client, _, _ := newTestService(t)

	client.SetQueryHandler(func(cypher string, params map[string]any) (graph.QueryResult, error) {
		if strings.Contains(cypher, "UNWIND labels(n)") {
			return graph.QueryResult{Records: []map[string]any{
				{"label": "Symptom", "count": int64(5)},
				{"label": "Cause", "count": int64(3)},
				{"label": "Action", "count": int64(2)},
			}}, nil
		}
		return graph.QueryResult{Records: []map[string]any{{"count": int64(7)}}}, nil
	})

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(10), stats.TotalNodes)
	assert.Equal(t, int64(7), stats.TotalRelationships)
	assert.Equal(t, int64(5), stats.NodesByLabel["Symptom"])
	assert.Equal(t, int64(3), stats.NodesByLabel["Cause"])
	assert.Equal(t, int64(2), stats.NodesByLabel["Action"])
}

func TestStats_GraphFailureIsFatal(t *testing.T) {
	svc, client, _, _ := newTestService(t)

	client.SetQueryHandler(func(cypher string, params map[string]any) (graph.QueryResult, error) {
		return graph.QueryResult{}, assert.AnError
	})

	_, err := svc.Stats(context.Background())
	require.Error(t, err)
	code, ok := types.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeStatsFailed, code)
}

func TestNewService_RequiresGraphClient(t *testing.T) {
	_, err := NewService(nil, nil, nil)
	assert.Error(t, err)
}
