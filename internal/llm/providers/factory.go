package providers

import (
	"fmt"

	"github.com/rkorrapolu/sye-agent/internal/llm"
	"github.com/rkorrapolu/sye-agent/internal/types"
)

// New creates a provider from its configuration, keyed by cfg.Type.
func New(cfg llm.ProviderConfig) (llm.Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Type {
	case "openai":
		return NewOpenAIProvider(cfg)
	case "anthropic":
		return NewAnthropicProvider(cfg)
	case "googleai", "google":
		return NewGoogleProvider(cfg)
	case "ollama":
		return NewOllamaProvider(cfg)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, types.NewError(llm.ErrProviderNotFound,
			fmt.Sprintf("unknown provider type %q", cfg.Type))
	}
}
