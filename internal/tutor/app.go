package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/kart-io/logger"
	goredis "github.com/redis/go-redis/v9"

	"github.com/kart-io/lecture-tutor/internal/tutor/biz"
	"github.com/kart-io/lecture-tutor/internal/tutor/handler"
	"github.com/kart-io/lecture-tutor/internal/tutor/router"
	"github.com/kart-io/lecture-tutor/internal/tutor/store"
	"github.com/kart-io/lecture-tutor/pkg/app"
	"github.com/kart-io/lecture-tutor/pkg/component/milvus"
	"github.com/kart-io/lecture-tutor/pkg/llm"
	redisopts "github.com/kart-io/lecture-tutor/pkg/options/redis"

	// 注册 LLM 供应商
	_ "github.com/kart-io/lecture-tutor/pkg/llm/ollama"
	_ "github.com/kart-io/lecture-tutor/pkg/llm/openai"
)

const (
	appName        = "lecture-tutor"
	appDescription = `Lecture Tutor Service

An AI tutor that answers questions about Andrew Ng's lecture transcripts.

This server provides:
  - Retrieval-augmented question answering over indexed transcripts
  - Server-sent event streaming of answers and source references
  - Casual conversation handling with canned responses`

	shutdownTimeout = 10 * time.Second
)

// NewApp creates a new application instance.
func NewApp() *app.App {
	opts := NewOptions()

	return app.NewApp(
		app.WithName(appName),
		app.WithDescription(appDescription),
		app.WithOptions(opts),
		app.WithRunFunc(func() error {
			return Run(opts)
		}),
	)
}

// Run runs the Lecture Tutor service with the given options.
func Run(opts *Options) error {
	// 1. 初始化日志
	opts.Log.AddInitialField("service.name", appName)
	opts.Log.AddInitialField("service.version", app.GetVersion())
	if err := opts.Log.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Info("Starting Lecture Tutor service...")

	// 查询服务缺失凭证时降级启动，请求阶段才会失败
	if err := opts.Embedding.RequireCredential(); err != nil {
		logger.Warnf("Embedding provider credential missing, queries will fail: %v", err)
	}
	if err := opts.Chat.RequireCredential(); err != nil {
		logger.Warnf("Chat provider credential missing, queries will fail: %v", err)
	}

	// 2. 初始化 Milvus 客户端
	milvusClient, err := milvus.New(opts.Milvus)
	if err != nil {
		return fmt.Errorf("failed to initialize milvus: %w", err)
	}
	defer milvusClient.Close(context.Background())
	logger.Info("Milvus client initialized")

	// 3. 初始化 LLM 供应商
	embedProvider, err := newEmbeddingProvider(opts)
	if err != nil {
		return err
	}
	chatProvider, err := llm.NewChatProvider(opts.Chat.Provider, opts.Chat.ToConfigMap())
	if err != nil {
		return fmt.Errorf("failed to create chat provider: %w", err)
	}
	logger.Infof("LLM providers initialized: embedding=%s chat=%s", embedProvider.Name(), chatProvider.Name())

	// 4. 初始化存储与业务层
	vectorStore := store.NewMilvusStore(milvusClient)
	responder := biz.NewResponder(vectorStore, embedProvider, chatProvider, &biz.ResponderConfig{
		TopK:       opts.Tutor.TopK,
		Collection: opts.Tutor.Collection,
	})

	// 5. 初始化 Handler 与路由
	tutorHandler := handler.NewTutorHandler(responder)
	engine := router.New(tutorHandler)

	// 6. 启动 HTTP 服务器
	server := &http.Server{
		Addr:         opts.HTTP.Addr,
		Handler:      engine,
		ReadTimeout:  opts.HTTP.ReadTimeout,
		WriteTimeout: opts.HTTP.WriteTimeout,
		IdleTimeout:  opts.HTTP.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP server listening on %s", opts.HTTP.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down Lecture Tutor service...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}

	logger.Info("Lecture Tutor service stopped")
	return nil
}

// newEmbeddingProvider 创建 Embedding 供应商，按配置包装 Redis 缓存。
func newEmbeddingProvider(opts *Options) (llm.EmbeddingProvider, error) {
	provider, err := llm.NewEmbeddingProvider(opts.Embedding.Provider, opts.Embedding.ToConfigMap())
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding provider: %w", err)
	}

	if !opts.Redis.Enabled {
		return provider, nil
	}

	redisClient, err := newRedisClient(opts.Redis)
	if err != nil {
		logger.Warnf("Redis unavailable, embedding cache disabled: %v", err)
		return provider, nil
	}

	// 缓存键隔离不同 embedding 模型的向量
	cacheCfg := llm.DefaultEmbeddingCacheConfig()
	cacheCfg.KeyPrefix = "emb:" + opts.Embedding.Model + ":"

	logger.Infof("Embedding cache enabled via Redis at %s", opts.Redis.Addr())
	return llm.NewCachedEmbeddingProvider(provider, redisClient, cacheCfg), nil
}

// newRedisClient 创建并探活 Redis 客户端。
func newRedisClient(opts *redisopts.Options) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:         opts.Addr(),
		Password:     opts.Password,
		DB:           opts.Database,
		MaxRetries:   opts.MaxRetries,
		PoolSize:     opts.PoolSize,
		MinIdleConns: opts.MinIdleConns,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		PoolTimeout:  opts.PoolTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), opts.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}
