package knowledge

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rkorrapolu/sye-agent/internal/graph"
	"github.com/rkorrapolu/sye-agent/internal/types"
)

func TestWarmup_PopulatesCachePerLabel(t *testing.T) {
	client := graph.NewMockClient()
	ctx := context.Background()
	require.NoError(t, client.Connect(ctx))
	cache, _ := newTestCache(t)

	client.SetQueryHandler(func(cypher string, params map[string]any) (graph.QueryResult, error) {
		return graph.QueryResult{Records: []map[string]any{
			{"id": "1", "label": "Action", "name": "restart service", "times_seen": int64(9)},
			{"id": "2", "label": "Symptom", "name": "api slow", "times_seen": int64(4)},
			{"id": "3", "label": "Symptom", "name": "disk full", "times_seen": int64(1)},
		}}, nil
	})

	warmup, err := NewWarmup(client, cache, slog.Default())
	require.NoError(t, err)

	counts, err := warmup.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Action": 1, "Symptom": 2}, counts)

	nodes, ok, err := cache.Check(ctx, "api slow", types.LabelSymptom)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, nodes, 1)
	assert.Equal(t, "2", nodes[0].ID)
}

func TestWarmup_DuplicateNamesLastWriteWins(t *testing.T) {
	client := graph.NewMockClient()
	ctx := context.Background()
	require.NoError(t, client.Connect(ctx))
	cache, _ := newTestCache(t)

	// Two Symptom nodes share a name. Ordered by times_seen DESC, the
	// times_seen=1 node is processed last and owns the cache entry.
	client.SetQueryHandler(func(cypher string, params map[string]any) (graph.QueryResult, error) {
		return graph.QueryResult{Records: []map[string]any{
			{"id": "hot", "label": "Symptom", "name": "timeout", "times_seen": int64(5)},
			{"id": "cold", "label": "Symptom", "name": "timeout", "times_seen": int64(1)},
		}}, nil
	})

	warmup, err := NewWarmup(client, cache, slog.Default())
	require.NoError(t, err)

	counts, err := warmup.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts["Symptom"])

	nodes, ok, err := cache.Check(ctx, "timeout", types.LabelSymptom)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, nodes, 1, "per-node store means the entry holds exactly one node")
	assert.Equal(t, "cold", nodes[0].ID)
}

func TestWarmup_CacheFailuresAreTolerated(t *testing.T) {
	client := graph.NewMockClient()
	ctx := context.Background()
	require.NoError(t, client.Connect(ctx))
	cache, emb := newTestCache(t)
	emb.SetEmbedError(assert.AnError)

	client.SetQueryHandler(func(cypher string, params map[string]any) (graph.QueryResult, error) {
		return graph.QueryResult{Records: []map[string]any{
			{"id": "1", "label": "Symptom", "name": "api slow", "times_seen": int64(4)},
		}}, nil
	})

	warmup, err := NewWarmup(client, cache, slog.Default())
	require.NoError(t, err)

	counts, err := warmup.Run(ctx)
	require.NoError(t, err, "per-node cache failures must not abort warmup")
	assert.Zero(t, counts["Symptom"])
}

func TestWarmup_GraphFailureAborts(t *testing.T) {
	client := graph.NewMockClient()
	ctx := context.Background()
	require.NoError(t, client.Connect(ctx))
	cache, _ := newTestCache(t)

	client.SetQueryHandler(func(cypher string, params map[string]any) (graph.QueryResult, error) {
		return graph.QueryResult{}, assert.AnError
	})

	warmup, err := NewWarmup(client, cache, slog.Default())
	require.NoError(t, err)

	_, err = warmup.Run(ctx)
	require.Error(t, err)
	code, ok := types.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeWarmupFailed, code)
}

func TestNewWarmup_RequiresDependencies(t *testing.T) {
	client := graph.NewMockClient()
	cache, _ := newTestCache(t)

	_, err := NewWarmup(nil, cache, nil)
	assert.Error(t, err)

	_, err = NewWarmup(client, nil, nil)
	assert.Error(t, err)
}
