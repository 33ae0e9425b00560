package embedder

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmbedder_Deterministic(t *testing.T) {
	m := NewMockEmbedder()
	ctx := context.Background()

	a, err := m.Embed(ctx, "database connection refused")
	require.NoError(t, err)
	b, err := m.Embed(ctx, "database connection refused")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, 384)
}

func TestMockEmbedder_UnitNorm(t *testing.T) {
	m := NewMockEmbedder()

	embedding, err := m.Embed(context.Background(), "some text")
	require.NoError(t, err)

	var sum float64
	for _, v := range embedding {
		sum += v * v
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-9)
}

func TestMockEmbedder_DistinctTextsDiverge(t *testing.T) {
	m := NewMockEmbedder()
	ctx := context.Background()

	a, err := m.Embed(ctx, "disk full on /var")
	require.NoError(t, err)
	b, err := m.Embed(ctx, "certificate expired")
	require.NoError(t, err)

	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	// Unrelated hash-seeded unit vectors in 384 dims are near-orthogonal.
	assert.Less(t, math.Abs(dot), 0.3)
}

func TestMockEmbedder_SynonymsLandClose(t *testing.T) {
	m := NewMockEmbedder()
	ctx := context.Background()
	m.AddSynonym("db conn refused", "database connection refused")

	base, err := m.Embed(ctx, "database connection refused")
	require.NoError(t, err)
	near, err := m.Embed(ctx, "db conn refused")
	require.NoError(t, err)

	var dot float64
	for i := range base {
		dot += base[i] * near[i]
	}
	assert.Greater(t, dot, 0.9)
	assert.NotEqual(t, base, near)
}

func TestMockEmbedder_BatchMatchesSingle(t *testing.T) {
	m := NewMockEmbedder()
	ctx := context.Background()

	texts := []string{"one", "two", "three"}
	batch, err := m.EmbedBatch(ctx, texts)
	require.NoError(t, err)
	require.Len(t, batch, 3)

	for i, text := range texts {
		single, err := m.Embed(ctx, text)
		require.NoError(t, err)
		assert.Equal(t, single, batch[i])
	}
}

func TestMockEmbedder_ErrorInjection(t *testing.T) {
	m := NewMockEmbedder()
	ctx := context.Background()
	boom := errors.New("boom")

	m.SetEmbedError(boom)
	_, err := m.Embed(ctx, "x")
	assert.ErrorIs(t, err, boom)
	assert.True(t, m.Health(ctx).IsUnhealthy())

	m.SetEmbedError(nil)
	m.SetBatchError(boom)
	_, err = m.EmbedBatch(ctx, []string{"x"})
	assert.ErrorIs(t, err, boom)
}

func TestMockEmbedder_SetDimensions(t *testing.T) {
	m := NewMockEmbedder()
	m.SetDimensions(16)

	embedding, err := m.Embed(context.Background(), "x")
	require.NoError(t, err)
	assert.Len(t, embedding, 16)
	assert.Equal(t, 16, m.Dimensions())
}

func TestHashText(t *testing.T) {
	a := HashText("Symptom:connection refused")
	b := HashText("Symptom:connection refused")
	c := HashText("Cause:connection refused")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 16)
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(Config{Provider: "bogus"})
	assert.Error(t, err)
}

func TestNew_Mock(t *testing.T) {
	e, err := New(Config{Provider: "mock"})
	require.NoError(t, err)
	assert.Equal(t, "mock-embedder", e.Model())
}
