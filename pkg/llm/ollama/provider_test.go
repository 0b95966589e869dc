package ollama

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/lecture-tutor/pkg/llm"
)

func newTestProvider(baseURL string) *Provider {
	cfg := DefaultConfig()
	cfg.BaseURL = baseURL
	cfg.MaxRetries = 0
	return NewProviderWithConfig(cfg)
}

func TestNewProviderAppliesConfigMap(t *testing.T) {
	p, err := NewProvider(map[string]any{
		"base_url":    "http://ollama.internal:11434",
		"embed_model": "bge-m3",
		"chat_model":  "qwen2.5",
	})
	require.NoError(t, err)

	provider := p.(*Provider)
	assert.Equal(t, "http://ollama.internal:11434", provider.config.BaseURL)
	assert.Equal(t, "bge-m3", provider.config.EmbedModel)
	assert.Equal(t, "qwen2.5", provider.config.ChatModel)
}

func TestProviderEmbed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embed", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"embeddings":[[0.1,0.2],[0.3,0.4]]}`))
	}))
	defer server.Close()

	p := newTestProvider(server.URL)
	vectors, err := p.Embed(context.Background(), []string{"向量检索", "embedding"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Equal(t, []float32{0.3, 0.4}, vectors[1])
}

func TestProviderChat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":{"role":"assistant","content":"你好，同学"},"done":true}`))
	}))
	defer server.Close()

	p := newTestProvider(server.URL)
	answer, err := p.Chat(context.Background(), []llm.Message{
		{Role: llm.RoleUser, Content: "hello"},
	})
	require.NoError(t, err)
	assert.Equal(t, "你好，同学", answer)
}

func TestProviderChatStream(t *testing.T) {
	// Ollama 流式响应为逐行 JSON。
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":{"content":"embedding "},"done":false}` + "\n"))
		w.Write([]byte(`{"message":{"content":"是向量表示"},"done":false}` + "\n"))
		w.Write([]byte(`{"message":{"content":""},"done":true}` + "\n"))
	}))
	defer server.Close()

	p := newTestProvider(server.URL)
	var got string
	err := p.ChatStream(context.Background(), []llm.Message{
		{Role: llm.RoleUser, Content: "what is an embedding"},
	}, func(delta string) error {
		got += delta
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "embedding 是向量表示", got)
}

func TestProviderGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		w.Write([]byte(`{"response":"casual","done":true}`))
	}))
	defer server.Close()

	p := newTestProvider(server.URL)
	out, err := p.Generate(context.Background(), "classify this", "you are a classifier")
	require.NoError(t, err)
	assert.Equal(t, "casual", out)
}
