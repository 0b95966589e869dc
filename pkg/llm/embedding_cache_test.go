package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingEmbedder struct {
	calls int
}

func (e *countingEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	e.calls++
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{0.5}
	}
	return out, nil
}

func (e *countingEmbedder) EmbedSingle(context.Context, string) ([]float32, error) {
	e.calls++
	return []float32{0.5}, nil
}

func (e *countingEmbedder) Name() string { return "fake" }

func TestCachedEmbeddingProviderWithoutRedis(t *testing.T) {
	inner := &countingEmbedder{}
	cached := NewCachedEmbeddingProvider(inner, nil, nil)

	single, err := cached.EmbedSingle(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5}, single)

	batch, err := cached.Embed(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Len(t, batch, 2)

	// Redis 缺失时每次调用都落到底层 provider
	assert.Equal(t, 2, inner.calls)
}

func TestCachedEmbeddingProviderName(t *testing.T) {
	cached := NewCachedEmbeddingProvider(&countingEmbedder{}, nil, nil)
	assert.Equal(t, "fake-cached", cached.Name())
}
