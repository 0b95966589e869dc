// Package llm 提供统一的 LLM 供应商抽象层。
// Embedding 和 Chat 可以分别使用不同供应商的模型。
package llm

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// EmbeddingProvider 定义 Embedding 供应商接口。
type EmbeddingProvider interface {
	// Embed 为多个文本生成向量嵌入。
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedSingle 为单个文本生成向量嵌入。
	EmbedSingle(ctx context.Context, text string) ([]float32, error)

	// Name 返回供应商名称。
	Name() string
}

// StreamFunc 处理流式生成的每个增量文本片段。
// 返回非 nil 错误时终止流。
type StreamFunc func(delta string) error

// ChatProvider 定义 Chat 供应商接口。
type ChatProvider interface {
	// Chat 进行多轮对话并返回完整回答。
	Chat(ctx context.Context, messages []Message) (string, error)

	// ChatStream 进行多轮对话，通过 fn 逐段返回增量文本。
	ChatStream(ctx context.Context, messages []Message, fn StreamFunc) error

	// Generate 根据提示生成文本（单轮）。
	Generate(ctx context.Context, prompt string, systemPrompt string) (string, error)

	// Name 返回供应商名称。
	Name() string
}

// Provider 同时支持 Embedding 和 Chat 的完整供应商。
type Provider interface {
	EmbeddingProvider
	ChatProvider
}

// Message 表示对话中的一条消息。
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Role 定义消息角色。
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ProviderFactory 供应商工厂函数类型。
type ProviderFactory func(config map[string]any) (Provider, error)

// EmbeddingProviderFactory Embedding 供应商工厂函数类型。
type EmbeddingProviderFactory func(config map[string]any) (EmbeddingProvider, error)

// ChatProviderFactory Chat 供应商工厂函数类型。
type ChatProviderFactory func(config map[string]any) (ChatProvider, error)

// providerRegistry 按名称保存供应商工厂。
// 专用 Embedding/Chat 工厂优先于完整供应商工厂。
type providerRegistry struct {
	mu        sync.RWMutex
	full      map[string]ProviderFactory
	embedding map[string]EmbeddingProviderFactory
	chat      map[string]ChatProviderFactory
}

var registry = &providerRegistry{
	full:      make(map[string]ProviderFactory),
	embedding: make(map[string]EmbeddingProviderFactory),
	chat:      make(map[string]ChatProviderFactory),
}

func (r *providerRegistry) registerFull(name string, factory ProviderFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.full[name] = factory
}

func (r *providerRegistry) registerEmbedding(name string, factory EmbeddingProviderFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.embedding[name] = factory
}

func (r *providerRegistry) registerChat(name string, factory ChatProviderFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chat[name] = factory
}

func (r *providerRegistry) newFull(name string, config map[string]any) (Provider, error) {
	r.mu.RLock()
	factory, ok := r.full[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", name)
	}
	return factory(config)
}

func (r *providerRegistry) newEmbedding(name string, config map[string]any) (EmbeddingProvider, error) {
	r.mu.RLock()
	dedicated, hasDedicated := r.embedding[name]
	full, hasFull := r.full[name]
	r.mu.RUnlock()

	switch {
	case hasDedicated:
		return dedicated(config)
	case hasFull:
		return full(config)
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", name)
	}
}

func (r *providerRegistry) newChat(name string, config map[string]any) (ChatProvider, error) {
	r.mu.RLock()
	dedicated, hasDedicated := r.chat[name]
	full, hasFull := r.full[name]
	r.mu.RUnlock()

	switch {
	case hasDedicated:
		return dedicated(config)
	case hasFull:
		return full(config)
	default:
		return nil, fmt.Errorf("unknown chat provider: %s", name)
	}
}

func (r *providerRegistry) names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{}, len(r.full))
	for name := range r.full {
		seen[name] = struct{}{}
	}
	for name := range r.embedding {
		seen[name] = struct{}{}
	}
	for name := range r.chat {
		seen[name] = struct{}{}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegisterProvider 注册完整供应商工厂，通常在供应商包的 init 中调用。
func RegisterProvider(name string, factory ProviderFactory) {
	registry.registerFull(name, factory)
}

// RegisterEmbeddingProvider 注册专用 Embedding 供应商工厂。
func RegisterEmbeddingProvider(name string, factory EmbeddingProviderFactory) {
	registry.registerEmbedding(name, factory)
}

// RegisterChatProvider 注册专用 Chat 供应商工厂。
func RegisterChatProvider(name string, factory ChatProviderFactory) {
	registry.registerChat(name, factory)
}

// NewProvider 根据名称创建完整供应商实例。
func NewProvider(name string, config map[string]any) (Provider, error) {
	return registry.newFull(name, config)
}

// NewEmbeddingProvider 根据名称创建 Embedding 供应商实例。
// 优先使用专用 Embedding 工厂，其次回退到完整供应商工厂。
func NewEmbeddingProvider(name string, config map[string]any) (EmbeddingProvider, error) {
	return registry.newEmbedding(name, config)
}

// NewChatProvider 根据名称创建 Chat 供应商实例。
// 优先使用专用 Chat 工厂，其次回退到完整供应商工厂。
func NewChatProvider(name string, config map[string]any) (ChatProvider, error) {
	return registry.newChat(name, config)
}

// ListProviders 按字典序列出所有已注册的供应商名称。
func ListProviders() []string {
	return registry.names()
}
