package providers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rkorrapolu/sye-agent/internal/llm"
)

func TestNew_UnknownType(t *testing.T) {
	_, err := New(llm.ProviderConfig{Type: "carrier-pigeon"})
	assert.Error(t, err)
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(llm.ProviderConfig{})
	assert.Error(t, err)
}

func TestNew_Mock(t *testing.T) {
	p, err := New(llm.ProviderConfig{Type: "mock"})
	require.NoError(t, err)
	assert.Equal(t, "mock", p.Name())
}

func TestNew_OpenAIRequiresKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	_, err := New(llm.ProviderConfig{Type: "openai"})
	assert.Error(t, err)
}

func TestMockProvider_FIFOResponses(t *testing.T) {
	m := NewMockProvider()
	ctx := context.Background()
	m.QueueResponse(`{"first": true}`)
	m.QueueResponse(`{"second": true}`)

	resp, err := m.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{llm.NewUserMessage("a")},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"first": true}`, resp.Content())

	resp, err = m.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{llm.NewUserMessage("b")},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"second": true}`, resp.Content())

	// Queue exhausted: fall back to the default.
	resp, err = m.Complete(ctx, llm.CompletionRequest{})
	require.NoError(t, err)
	assert.Equal(t, "{}", resp.Content())

	assert.Len(t, m.Requests(), 3)
}

func TestMockProvider_ErrorInjection(t *testing.T) {
	m := NewMockProvider()
	boom := errors.New("boom")
	m.SetError(boom)

	_, err := m.Complete(context.Background(), llm.CompletionRequest{})
	assert.ErrorIs(t, err, boom)
	assert.True(t, m.Health(context.Background()).IsUnhealthy())
}
