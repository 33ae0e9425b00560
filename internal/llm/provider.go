package llm

import (
	"context"
	"fmt"

	"github.com/rkorrapolu/sye-agent/internal/types"
)

// Provider is the unified abstraction over LLM vendors. Implementations are
// safe for concurrent use.
type Provider interface {
	// Name returns the provider name (e.g. "openai", "anthropic").
	Name() string

	// Complete sends a completion request and blocks for the full response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// Health checks provider connectivity with a minimal completion.
	Health(ctx context.Context) types.HealthStatus
}

// ProviderConfig configures a single LLM provider.
type ProviderConfig struct {
	// Type selects the vendor: openai, anthropic, googleai, ollama, mock.
	Type string `mapstructure:"type" yaml:"type" validate:"required"`

	// APIKey for the vendor. Falls back to the vendor's conventional
	// environment variable when empty.
	APIKey string `mapstructure:"api_key" yaml:"api_key"`

	// Model is the default model for completions.
	Model string `mapstructure:"model" yaml:"model"`

	// BaseURL overrides the vendor endpoint (proxies, ollama server).
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// Temperature for completions. Zero uses the vendor default.
	Temperature float64 `mapstructure:"temperature" yaml:"temperature"`

	// MaxTokens caps completion length. Zero uses the vendor default.
	MaxTokens int `mapstructure:"max_tokens" yaml:"max_tokens"`
}

// Validate checks the provider configuration.
func (c ProviderConfig) Validate() error {
	if c.Type == "" {
		return types.NewError(ErrInvalidConfig, "provider type cannot be empty")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return types.NewError(ErrInvalidConfig,
			fmt.Sprintf("temperature must be in [0, 2], got %v", c.Temperature))
	}
	if c.MaxTokens < 0 {
		return types.NewError(ErrInvalidConfig,
			fmt.Sprintf("max_tokens cannot be negative, got %d", c.MaxTokens))
	}
	return nil
}
