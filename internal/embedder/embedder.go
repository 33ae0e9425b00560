package embedder

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/rkorrapolu/sye-agent/internal/types"
)

// Embedder generates embedding vectors from text.
// Vectors must be deterministic for identical input and dimensionally stable
// for the lifetime of the process, or the semantic cache index breaks.
// Implementations must be safe for concurrent use.
type Embedder interface {
	// Embed generates an embedding vector for a single text.
	Embed(ctx context.Context, text string) ([]float64, error)

	// EmbedBatch generates embeddings for multiple texts.
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)

	// Dimensions returns the dimensionality of embedding vectors.
	Dimensions() int

	// Model returns the name of the embedding model in use.
	Model() string

	// Health returns the health status of the embedder.
	Health(ctx context.Context) types.HealthStatus
}

// Config holds configuration for embedding providers.
type Config struct {
	// Provider selects the implementation: "native" (default) or "mock".
	Provider string `mapstructure:"provider" yaml:"provider"`

	// Model is the embedding model name. Only the native provider's default
	// (all-MiniLM-L6-v2) is currently supported.
	Model string `mapstructure:"model" yaml:"model"`
}

// HashText returns the first 16 hex characters of the SHA256 of text.
// Used to derive stable cache entry IDs from lookup keys.
func HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])[:16]
}
