package graph

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startNeo4jContainer launches a disposable Neo4j instance and returns a
// connected client. Requires Docker; skipped in -short mode.
func startNeo4jContainer(ctx context.Context, t *testing.T) *Neo4jClient {
	t.Helper()

	const password = "integration-test"

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "neo4j:5",
			ExposedPorts: []string{"7687/tcp"},
			Env: map[string]string{
				"NEO4J_AUTH": "neo4j/" + password,
			},
			WaitingFor: wait.ForLog("Started.").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "7687")
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.URI = fmt.Sprintf("bolt://%s:%s", host, port.Port())
	cfg.Password = password

	client, err := NewNeo4jClient(cfg)
	require.NoError(t, err)
	require.NoError(t, client.Connect(ctx))
	t.Cleanup(func() { client.Close(ctx) })

	return client
}

func TestIntegration_Neo4jNodeAndRelationship(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()
	client := startNeo4jContainer(ctx, t)

	causeID, err := client.CreateNode(ctx, "Cause", map[string]any{
		"name":   "connection pool exhausted",
		"source": "agent",
	})
	require.NoError(t, err)

	symptomID, err := client.CreateNode(ctx, "Symptom", map[string]any{
		"name":   "timeouts on checkout service",
		"source": "agent",
	})
	require.NoError(t, err)

	require.NoError(t, client.CreateRelationship(ctx, causeID, symptomID, "CAUSES", nil))

	result, err := client.Query(ctx, `
		MATCH (c:Cause)-[:CAUSES]->(s:Symptom)
		RETURN c.name AS cause, s.name AS symptom
	`, nil)
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "connection pool exhausted", result.Records[0]["cause"])
	assert.Equal(t, "timeouts on checkout service", result.Records[0]["symptom"])
}

func TestIntegration_Neo4jAdditiveMerge(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()
	client := startNeo4jContainer(ctx, t)

	id, err := client.CreateNode(ctx, "Action", map[string]any{
		"name":       "restart pgbouncer",
		"times_seen": int64(3),
	})
	require.NoError(t, err)

	_, err = client.Write(ctx, `
		MATCH (n) WHERE elementId(n) = $id
		SET n += $props
	`, map[string]any{
		"id":    id,
		"props": map[string]any{"run_id": "r-123"},
	})
	require.NoError(t, err)

	result, err := client.Query(ctx, `
		MATCH (n) WHERE elementId(n) = $id
		RETURN n.name AS name, n.times_seen AS times_seen, n.run_id AS run_id
	`, map[string]any{"id": id})
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "restart pgbouncer", result.Records[0]["name"])
	assert.Equal(t, int64(3), result.Records[0]["times_seen"])
	assert.Equal(t, "r-123", result.Records[0]["run_id"])
}

func TestIntegration_Neo4jHealth(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()
	client := startNeo4jContainer(ctx, t)

	assert.True(t, client.Health(ctx).IsHealthy())
}
