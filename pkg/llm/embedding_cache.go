package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/kart-io/logger"
	goredis "github.com/redis/go-redis/v9"

	"github.com/kart-io/lecture-tutor/pkg/utils/json"
)

// EmbeddingCacheConfig 控制 Embedding 缓存行为。
type EmbeddingCacheConfig struct {
	// TTL 缓存条目过期时间。
	TTL time.Duration

	// KeyPrefix 缓存键前缀，调用方可加入模型名以隔离不同模型的向量。
	KeyPrefix string
}

// DefaultEmbeddingCacheConfig 返回默认缓存配置。
func DefaultEmbeddingCacheConfig() *EmbeddingCacheConfig {
	return &EmbeddingCacheConfig{
		// 同一文本的向量不会变化，可以长期缓存
		TTL:       24 * time.Hour,
		KeyPrefix: "emb:",
	}
}

// CachedEmbeddingProvider 在底层 EmbeddingProvider 之上增加 Redis 缓存。
// Redis 故障只影响缓存命中率，不影响结果正确性。
type CachedEmbeddingProvider struct {
	provider EmbeddingProvider
	redis    *goredis.Client
	config   *EmbeddingCacheConfig
}

var _ EmbeddingProvider = (*CachedEmbeddingProvider)(nil)

// NewCachedEmbeddingProvider 包装 provider，config 为 nil 时使用默认配置。
func NewCachedEmbeddingProvider(provider EmbeddingProvider, redis *goredis.Client, config *EmbeddingCacheConfig) *CachedEmbeddingProvider {
	if config == nil {
		config = DefaultEmbeddingCacheConfig()
	}
	return &CachedEmbeddingProvider{
		provider: provider,
		redis:    redis,
		config:   config,
	}
}

func (c *CachedEmbeddingProvider) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return c.config.KeyPrefix + hex.EncodeToString(sum[:])
}

// lookup 返回缓存的向量，未命中或缓存不可用时返回 nil。
func (c *CachedEmbeddingProvider) lookup(ctx context.Context, key string) []float32 {
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if err != goredis.Nil {
			logger.Warnw("embedding cache read failed", "error", err.Error(), "key", key)
		}
		return nil
	}

	var embedding []float32
	if err := json.Unmarshal(data, &embedding); err != nil {
		// 损坏的条目直接清除
		logger.Warnw("dropping corrupt embedding cache entry", "error", err.Error(), "key", key)
		_ = c.redis.Del(ctx, key).Err()
		return nil
	}
	return embedding
}

func (c *CachedEmbeddingProvider) store(ctx context.Context, key string, embedding []float32) {
	data, err := json.Marshal(embedding)
	if err != nil {
		logger.Warnw("failed to marshal embedding for cache", "error", err.Error())
		return
	}
	if err := c.redis.Set(ctx, key, data, c.config.TTL).Err(); err != nil {
		logger.Warnw("embedding cache write failed", "error", err.Error(), "key", key)
	}
}

// EmbedSingle 先查缓存，未命中时调用底层 provider 并回填。
func (c *CachedEmbeddingProvider) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	if c.redis == nil {
		return c.provider.EmbedSingle(ctx, text)
	}

	key := c.cacheKey(text)
	if embedding := c.lookup(ctx, key); embedding != nil {
		logger.Debugw("embedding cache hit", "key", key)
		return embedding, nil
	}

	embedding, err := c.provider.EmbedSingle(ctx, text)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, embedding)
	return embedding, nil
}

// Embed 对批量文本逐条查缓存，仅把未命中的部分交给底层 provider。
func (c *CachedEmbeddingProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if c.redis == nil {
		return c.provider.Embed(ctx, texts)
	}

	embeddings := make([][]float32, len(texts))
	var missedIdx []int
	var missedTexts []string

	for i, text := range texts {
		if embedding := c.lookup(ctx, c.cacheKey(text)); embedding != nil {
			embeddings[i] = embedding
			continue
		}
		missedIdx = append(missedIdx, i)
		missedTexts = append(missedTexts, text)
	}

	if len(missedTexts) == 0 {
		logger.Debugw("all embeddings served from cache", "total", len(texts))
		return embeddings, nil
	}

	logger.Infow("embedding cache partial hit", "total", len(texts), "missed", len(missedTexts))
	computed, err := c.provider.Embed(ctx, missedTexts)
	if err != nil {
		return nil, err
	}

	for i, idx := range missedIdx {
		embeddings[idx] = computed[i]
		c.store(ctx, c.cacheKey(missedTexts[i]), computed[i])
	}
	return embeddings, nil
}

// Name 返回带缓存标记的底层 provider 名称。
func (c *CachedEmbeddingProvider) Name() string {
	return c.provider.Name() + "-cached"
}
