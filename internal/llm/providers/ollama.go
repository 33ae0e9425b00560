package providers

import (
	"context"

	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/rkorrapolu/sye-agent/internal/llm"
	"github.com/rkorrapolu/sye-agent/internal/types"
)

const defaultOllamaURL = "http://localhost:11434"

// OllamaProvider implements llm.Provider for a local Ollama server.
type OllamaProvider struct {
	client *ollama.LLM
	config llm.ProviderConfig
}

// NewOllamaProvider creates an Ollama provider against cfg.BaseURL, or the
// local default server.
func NewOllamaProvider(cfg llm.ProviderConfig) (*OllamaProvider, error) {
	serverURL := cfg.BaseURL
	if serverURL == "" {
		serverURL = defaultOllamaURL
	}

	opts := []ollama.Option{ollama.WithServerURL(serverURL)}
	if cfg.Model != "" {
		opts = append(opts, ollama.WithModel(cfg.Model))
	}

	client, err := ollama.New(opts...)
	if err != nil {
		return nil, llm.TranslateError("ollama", err)
	}
	return &OllamaProvider{client: client, config: cfg}, nil
}

func (p *OllamaProvider) Name() string {
	return "ollama"
}

func (p *OllamaProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	resp, err := p.client.GenerateContent(ctx, toSchemaMessages(req.Messages), buildCallOptions(req)...)
	if err != nil {
		return nil, llm.TranslateError("ollama", err)
	}
	return fromContentResponse(resp, p.config.Model), nil
}

func (p *OllamaProvider) Health(ctx context.Context) types.HealthStatus {
	_, err := p.Complete(ctx, llm.CompletionRequest{
		Messages:  []llm.Message{llm.NewUserMessage("ping")},
		MaxTokens: 1,
	})
	if err != nil {
		return types.Unhealthy(err.Error())
	}
	return types.Healthy("ollama provider reachable")
}
