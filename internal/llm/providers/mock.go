package providers

import (
	"context"
	"sync"

	"github.com/rkorrapolu/sye-agent/internal/llm"
	"github.com/rkorrapolu/sye-agent/internal/types"
)

// MockProvider is a scriptable llm.Provider for tests. Responses are
// returned in FIFO order; when the queue is empty it falls back to a fixed
// default response.
type MockProvider struct {
	mu        sync.Mutex
	responses []string
	requests  []llm.CompletionRequest
	err       error
	defaultResp string
}

// NewMockProvider creates a mock with an empty response queue.
func NewMockProvider() *MockProvider {
	return &MockProvider{defaultResp: "{}"}
}

func (m *MockProvider) Name() string {
	return "mock"
}

func (m *MockProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}

	content := m.defaultResp
	if len(m.responses) > 0 {
		content = m.responses[0]
		m.responses = m.responses[1:]
	}
	return &llm.CompletionResponse{
		Model:   "mock",
		Message: llm.NewAssistantMessage(content),
	}, nil
}

func (m *MockProvider) Health(ctx context.Context) types.HealthStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return types.Unhealthy("mock provider configured to fail")
	}
	return types.Healthy("mock provider")
}

// QueueResponse appends a canned response to the FIFO queue.
func (m *MockProvider) QueueResponse(content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, content)
}

// SetError makes every Complete call fail with err until cleared.
func (m *MockProvider) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// SetDefaultResponse changes the fallback response used when the queue is
// empty.
func (m *MockProvider) SetDefaultResponse(content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultResp = content
}

// Requests returns every request received so far.
func (m *MockProvider) Requests() []llm.CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]llm.CompletionRequest, len(m.requests))
	copy(out, m.requests)
	return out
}
