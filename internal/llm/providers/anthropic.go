package providers

import (
	"context"
	"os"

	"github.com/tmc/langchaingo/llms/anthropic"

	"github.com/rkorrapolu/sye-agent/internal/llm"
	"github.com/rkorrapolu/sye-agent/internal/types"
)

// AnthropicProvider implements llm.Provider for Anthropic Claude models.
type AnthropicProvider struct {
	client *anthropic.LLM
	config llm.ProviderConfig
}

// NewAnthropicProvider creates an Anthropic provider. The API key falls back
// to ANTHROPIC_API_KEY.
func NewAnthropicProvider(cfg llm.ProviderConfig) (*AnthropicProvider, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, llm.NewAuthError("anthropic", nil)
	}

	opts := []anthropic.Option{anthropic.WithToken(apiKey)}
	if cfg.Model != "" {
		opts = append(opts, anthropic.WithModel(cfg.Model))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
	}

	client, err := anthropic.New(opts...)
	if err != nil {
		return nil, llm.TranslateError("anthropic", err)
	}
	return &AnthropicProvider{client: client, config: cfg}, nil
}

func (p *AnthropicProvider) Name() string {
	return "anthropic"
}

func (p *AnthropicProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	resp, err := p.client.GenerateContent(ctx, toSchemaMessages(req.Messages), buildCallOptions(req)...)
	if err != nil {
		return nil, llm.TranslateError("anthropic", err)
	}
	return fromContentResponse(resp, p.config.Model), nil
}

func (p *AnthropicProvider) Health(ctx context.Context) types.HealthStatus {
	_, err := p.Complete(ctx, llm.CompletionRequest{
		Messages:  []llm.Message{llm.NewUserMessage("ping")},
		MaxTokens: 1,
	})
	if err != nil {
		return types.Unhealthy(err.Error())
	}
	return types.Healthy("anthropic provider reachable")
}
