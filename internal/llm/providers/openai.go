package providers

import (
	"context"
	"os"

	"github.com/tmc/langchaingo/llms/openai"

	"github.com/rkorrapolu/sye-agent/internal/llm"
	"github.com/rkorrapolu/sye-agent/internal/types"
)

// OpenAIProvider implements llm.Provider for OpenAI GPT models.
type OpenAIProvider struct {
	client *openai.LLM
	config llm.ProviderConfig
}

// NewOpenAIProvider creates an OpenAI provider. The API key falls back to
// OPENAI_API_KEY.
func NewOpenAIProvider(cfg llm.ProviderConfig) (*OpenAIProvider, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, llm.NewAuthError("openai", nil)
	}

	opts := []openai.Option{openai.WithToken(apiKey)}
	if cfg.Model != "" {
		opts = append(opts, openai.WithModel(cfg.Model))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, llm.TranslateError("openai", err)
	}
	return &OpenAIProvider{client: client, config: cfg}, nil
}

func (p *OpenAIProvider) Name() string {
	return "openai"
}

func (p *OpenAIProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	resp, err := p.client.GenerateContent(ctx, toSchemaMessages(req.Messages), buildCallOptions(req)...)
	if err != nil {
		return nil, llm.TranslateError("openai", err)
	}
	return fromContentResponse(resp, p.config.Model), nil
}

func (p *OpenAIProvider) Health(ctx context.Context) types.HealthStatus {
	_, err := p.Complete(ctx, llm.CompletionRequest{
		Messages:  []llm.Message{llm.NewUserMessage("ping")},
		MaxTokens: 1,
	})
	if err != nil {
		return types.Unhealthy(err.Error())
	}
	return types.Healthy("openai provider reachable")
}
