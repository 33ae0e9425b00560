package providers

import (
	"context"
	"os"

	"github.com/tmc/langchaingo/llms/googleai"

	"github.com/rkorrapolu/sye-agent/internal/llm"
	"github.com/rkorrapolu/sye-agent/internal/types"
)

// GoogleProvider implements llm.Provider for Google Gemini models.
type GoogleProvider struct {
	client *googleai.GoogleAI
	config llm.ProviderConfig
}

// NewGoogleProvider creates a Gemini provider. The API key falls back to
// GOOGLE_API_KEY.
func NewGoogleProvider(cfg llm.ProviderConfig) (*GoogleProvider, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_API_KEY")
	}
	if apiKey == "" {
		return nil, llm.NewAuthError("googleai", nil)
	}

	opts := []googleai.Option{googleai.WithAPIKey(apiKey)}
	if cfg.Model != "" {
		opts = append(opts, googleai.WithDefaultModel(cfg.Model))
	}

	client, err := googleai.New(context.Background(), opts...)
	if err != nil {
		return nil, llm.TranslateError("googleai", err)
	}
	return &GoogleProvider{client: client, config: cfg}, nil
}

func (p *GoogleProvider) Name() string {
	return "googleai"
}

func (p *GoogleProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	resp, err := p.client.GenerateContent(ctx, toSchemaMessages(req.Messages), buildCallOptions(req)...)
	if err != nil {
		return nil, llm.TranslateError("googleai", err)
	}
	return fromContentResponse(resp, p.config.Model), nil
}

func (p *GoogleProvider) Health(ctx context.Context) types.HealthStatus {
	_, err := p.Complete(ctx, llm.CompletionRequest{
		Messages:  []llm.Message{llm.NewUserMessage("ping")},
		MaxTokens: 1,
	})
	if err != nil {
		return types.Unhealthy(err.Error())
	}
	return types.Healthy("googleai provider reachable")
}
