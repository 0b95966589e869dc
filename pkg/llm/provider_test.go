package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockProvider 模拟供应商实现，用于测试注册表。
type mockProvider struct {
	name string
}

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{0.1, 0.2, 0.3}
	}
	return out, nil
}

func (m *mockProvider) EmbedSingle(context.Context, string) ([]float32, error) {
	return []float32{0.1, 0.2, 0.3}, nil
}

func (m *mockProvider) Chat(context.Context, []Message) (string, error) {
	return "mock response", nil
}

func (m *mockProvider) ChatStream(_ context.Context, _ []Message, fn StreamFunc) error {
	return fn("mock response")
}

func (m *mockProvider) Generate(context.Context, string, string) (string, error) {
	return "mock generated text", nil
}

func TestRegisterAndNewProvider(t *testing.T) {
	RegisterProvider("test-provider", func(config map[string]any) (Provider, error) {
		name := "test-provider"
		if n, ok := config["name"].(string); ok {
			name = n
		}
		return &mockProvider{name: name}, nil
	})

	provider, err := NewProvider("test-provider", map[string]any{"name": "custom-name"})
	require.NoError(t, err)
	assert.Equal(t, "custom-name", provider.Name())
}

func TestNewProviderUnknown(t *testing.T) {
	_, err := NewProvider("unknown-provider", nil)
	assert.Error(t, err)
}

func TestNewEmbeddingProviderPrefersDedicatedFactory(t *testing.T) {
	RegisterEmbeddingProvider("embed-only", func(map[string]any) (EmbeddingProvider, error) {
		return &mockProvider{name: "embed-only"}, nil
	})

	provider, err := NewEmbeddingProvider("embed-only", nil)
	require.NoError(t, err)
	assert.Equal(t, "embed-only", provider.Name())

	// 无专用工厂时回退到完整供应商
	fallback, err := NewEmbeddingProvider("test-provider", nil)
	require.NoError(t, err)
	assert.NotNil(t, fallback)
}

func TestNewChatProviderPrefersDedicatedFactory(t *testing.T) {
	RegisterChatProvider("chat-only", func(map[string]any) (ChatProvider, error) {
		return &mockProvider{name: "chat-only"}, nil
	})

	provider, err := NewChatProvider("chat-only", nil)
	require.NoError(t, err)
	assert.Equal(t, "chat-only", provider.Name())

	fallback, err := NewChatProvider("test-provider", nil)
	require.NoError(t, err)
	assert.NotNil(t, fallback)
}

func TestListProviders(t *testing.T) {
	RegisterProvider("listed-provider", func(map[string]any) (Provider, error) {
		return &mockProvider{name: "listed-provider"}, nil
	})

	assert.Contains(t, ListProviders(), "listed-provider")
}

func TestChatStreamCallback(t *testing.T) {
	provider := &mockProvider{name: "test"}

	var deltas []string
	err := provider.ChatStream(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, func(delta string) error {
		deltas = append(deltas, delta)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"mock response"}, deltas)
}
