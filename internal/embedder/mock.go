package embedder

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"
	"math/rand"
	"strings"
	"sync"

	"github.com/rkorrapolu/sye-agent/internal/types"
)

// MockEmbedder is a deterministic embedder for tests. Identical text always
// produces the identical unit vector, and texts sharing a configured prefix
// group can be made to embed near each other for threshold testing.
type MockEmbedder struct {
	mu         sync.RWMutex
	dimensions int
	model      string
	embedErr   error
	batchErr   error

	// synonyms maps a text to a canonical form; synonymous texts embed to
	// slightly perturbed copies of the canonical vector so distance-threshold
	// behavior can be exercised without a real model.
	synonyms map[string]string
	// perturbation applied to synonym vectors, tuned so that synonyms land
	// within a 0.2 distance and unrelated texts do not.
	noise float64
}

// NewMockEmbedder creates a mock embedder producing 384-dimensional vectors,
// matching all-MiniLM-L6-v2.
func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{
		dimensions: 384,
		model:      "mock-embedder",
		synonyms:   make(map[string]string),
		noise:      0.05,
	}
}

// Embed generates a deterministic unit vector derived from the SHA256 of the
// text (or its canonical synonym).
func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.generate(text), nil
}

// EmbedBatch generates deterministic embeddings for multiple texts.
func (m *MockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.batchErr != nil {
		return nil, m.batchErr
	}
	embeddings := make([][]float64, len(texts))
	for i, text := range texts {
		embeddings[i] = m.generate(text)
	}
	return embeddings, nil
}

func (m *MockEmbedder) generate(text string) []float64 {
	canonical := strings.ToLower(strings.TrimSpace(text))
	perturb := false
	if base, ok := m.synonyms[canonical]; ok {
		canonical = base
		perturb = true
	}

	hash := sha256.Sum256([]byte(canonical))
	seed := int64(binary.BigEndian.Uint64(hash[:8]))
	rng := rand.New(rand.NewSource(seed))

	embedding := make([]float64, m.dimensions)
	for i := range embedding {
		embedding[i] = rng.Float64()*2 - 1
	}

	if perturb {
		// Deterministic per-text perturbation keeps synonyms distinct but close.
		textHash := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(text))))
		noiseRng := rand.New(rand.NewSource(int64(binary.BigEndian.Uint64(textHash[:8]))))
		for i := range embedding {
			embedding[i] += (noiseRng.Float64()*2 - 1) * m.noise
		}
	}

	return normalize(embedding)
}

// Dimensions returns the configured dimensionality.
func (m *MockEmbedder) Dimensions() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dimensions
}

// Model returns the mock model name.
func (m *MockEmbedder) Model() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.model
}

// Health always reports healthy unless an embed error is configured.
func (m *MockEmbedder) Health(ctx context.Context) types.HealthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.embedErr != nil {
		return types.Unhealthy("mock embedder configured to fail")
	}
	return types.Healthy("mock embedder")
}

// SetDimensions changes the embedding dimensionality for testing.
func (m *MockEmbedder) SetDimensions(dims int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dimensions = dims
}

// SetEmbedError configures Embed to return err.
func (m *MockEmbedder) SetEmbedError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.embedErr = err
}

// SetBatchError configures EmbedBatch to return err.
func (m *MockEmbedder) SetBatchError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batchErr = err
}

// AddSynonym registers text as a near-neighbor of canonical: its embedding
// becomes a small perturbation of canonical's embedding.
func (m *MockEmbedder) AddSynonym(text, canonical string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.synonyms[strings.ToLower(strings.TrimSpace(text))] = strings.ToLower(strings.TrimSpace(canonical))
}

func normalize(v []float64) []float64 {
	var sum float64
	for _, val := range v {
		sum += val * val
	}
	if sum == 0 {
		return v
	}
	norm := math.Sqrt(sum)
	out := make([]float64, len(v))
	for i, val := range v {
		out[i] = val / norm
	}
	return out
}
