package embedder

import (
	"fmt"

	"github.com/rkorrapolu/sye-agent/internal/types"
)

// New creates an embedder based on the configured provider.
// An empty provider defaults to native.
func New(cfg Config) (Embedder, error) {
	switch cfg.Provider {
	case "", "native":
		return NewNativeEmbedder()
	case "mock":
		return NewMockEmbedder(), nil
	default:
		return nil, types.NewError(ErrCodeInvalidConfig,
			fmt.Sprintf("unknown embedder provider %q (supported: native, mock)", cfg.Provider))
	}
}
