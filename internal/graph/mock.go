package graph

import (
	"context"
	"fmt"
	"sync"

	"github.com/rkorrapolu/sye-agent/internal/types"
)

// MockNode is a node held by the in-memory mock client.
type MockNode struct {
	ID    string
	Label string
	Props map[string]any
}

// MockRelationship is a relationship held by the in-memory mock client.
type MockRelationship struct {
	FromID string
	ToID   string
	Type   string
	Props  map[string]any
}

// MockClient is an in-memory Client for tests. Node and relationship
// creation is tracked structurally; arbitrary Cypher is answered by a
// configurable handler since the mock does not interpret query text.
type MockClient struct {
	mu            sync.Mutex
	connected     bool
	nodes         map[string]MockNode
	relationships []MockRelationship
	nextID        int

	queryHandler func(cypher string, params map[string]any) (QueryResult, error)
	queries      []string

	connectErr error
	createErr  error
	relErr     error
}

// NewMockClient creates a disconnected in-memory mock client.
func NewMockClient() *MockClient {
	return &MockClient{
		nodes: make(map[string]MockNode),
	}
}

func (m *MockClient) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.connectErr != nil {
		return m.connectErr
	}
	m.connected = true
	return nil
}

func (m *MockClient) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = false
	return nil
}

func (m *MockClient) Health(ctx context.Context) types.HealthStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.connected {
		return types.Unhealthy("mock client not connected")
	}
	return types.Healthy("mock client connected")
}

func (m *MockClient) Query(ctx context.Context, cypher string, params map[string]any) (QueryResult, error) {
	return m.dispatch(cypher, params)
}

func (m *MockClient) Write(ctx context.Context, cypher string, params map[string]any) (QueryResult, error) {
	return m.dispatch(cypher, params)
}

func (m *MockClient) dispatch(cypher string, params map[string]any) (QueryResult, error) {
	m.mu.Lock()
	m.queries = append(m.queries, cypher)
	handler := m.queryHandler
	connected := m.connected
	m.mu.Unlock()

	if !connected {
		return QueryResult{}, types.NewError(ErrCodeConnectionClosed, "mock client not connected")
	}
	if handler != nil {
		return handler(cypher, params)
	}
	return QueryResult{Records: []map[string]any{}}, nil
}

func (m *MockClient) CreateNode(ctx context.Context, label string, props map[string]any) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return "", types.NewError(ErrCodeConnectionClosed, "mock client not connected")
	}
	if m.createErr != nil {
		return "", m.createErr
	}

	m.nextID++
	id := fmt.Sprintf("mock-node-%d", m.nextID)

	copied := make(map[string]any, len(props))
	for k, v := range props {
		copied[k] = v
	}
	m.nodes[id] = MockNode{ID: id, Label: label, Props: copied}
	return id, nil
}

func (m *MockClient) CreateRelationship(ctx context.Context, fromID, toID, relType string, props map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return types.NewError(ErrCodeConnectionClosed, "mock client not connected")
	}
	if m.relErr != nil {
		return m.relErr
	}
	if _, ok := m.nodes[fromID]; !ok {
		return types.NewError(ErrCodeRelationshipCreateFailed,
			fmt.Sprintf("source node %s does not exist", fromID))
	}
	if _, ok := m.nodes[toID]; !ok {
		return types.NewError(ErrCodeRelationshipCreateFailed,
			fmt.Sprintf("target node %s does not exist", toID))
	}

	m.relationships = append(m.relationships, MockRelationship{
		FromID: fromID,
		ToID:   toID,
		Type:   relType,
		Props:  props,
	})
	return nil
}

// SetQueryHandler installs the handler that answers Query and Write calls.
func (m *MockClient) SetQueryHandler(h func(cypher string, params map[string]any) (QueryResult, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queryHandler = h
}

// SetConnectError makes Connect fail with err.
func (m *MockClient) SetConnectError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectErr = err
}

// SetCreateNodeError makes CreateNode fail with err.
func (m *MockClient) SetCreateNodeError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createErr = err
}

// SetCreateRelationshipError makes CreateRelationship fail with err.
func (m *MockClient) SetCreateRelationshipError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.relErr = err
}

// Nodes returns a snapshot of all created nodes.
func (m *MockClient) Nodes() []MockNode {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockNode, 0, len(m.nodes))
	for _, n := range m.nodes {
		out = append(out, n)
	}
	return out
}

// Node returns the node with the given ID.
func (m *MockClient) Node(id string) (MockNode, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.nodes[id]
	return n, ok
}

// Relationships returns a snapshot of all created relationships.
func (m *MockClient) Relationships() []MockRelationship {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockRelationship, len(m.relationships))
	copy(out, m.relationships)
	return out
}

// Queries returns the Cypher text of every Query and Write call.
func (m *MockClient) Queries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.queries))
	copy(out, m.queries)
	return out
}
