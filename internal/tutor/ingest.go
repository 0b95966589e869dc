package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/kart-io/logger"

	"github.com/kart-io/lecture-tutor/internal/tutor/biz"
	"github.com/kart-io/lecture-tutor/internal/tutor/store"
	"github.com/kart-io/lecture-tutor/pkg/app"
	"github.com/kart-io/lecture-tutor/pkg/component/milvus"
)

const (
	ingestAppName        = "lecture-tutor-ingest"
	ingestAppDescription = `Lecture Tutor Ingestion

Rebuilds the lecture transcript vector index from WebVTT files.

The ingester scans the data directory for course subdirectories, parses
each transcript, assembles text chunks, generates embeddings, and writes
them to Milvus in batches. Any existing collection is dropped first.`
)

// NewIngestApp creates the ingestion application instance.
func NewIngestApp() *app.App {
	opts := NewOptions()

	return app.NewApp(
		app.WithName(ingestAppName),
		app.WithDescription(ingestAppDescription),
		app.WithOptions(opts),
		app.WithRunFunc(func() error {
			return RunIngest(opts)
		}),
	)
}

// RunIngest performs a full rebuild of the transcript index.
func RunIngest(opts *Options) error {
	// 1. 初始化日志
	opts.Log.AddInitialField("service.name", ingestAppName)
	opts.Log.AddInitialField("service.version", app.GetVersion())
	if err := opts.Log.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Info("Starting transcript ingestion...")

	// 导入无凭证无法继续，直接终止
	if err := opts.Embedding.RequireCredential(); err != nil {
		return fmt.Errorf("invalid embedding configuration: %w", err)
	}

	// 2. 初始化 Milvus 客户端
	milvusClient, err := milvus.New(opts.Milvus)
	if err != nil {
		return fmt.Errorf("failed to initialize milvus: %w", err)
	}
	defer milvusClient.Close(context.Background())
	logger.Info("Milvus client initialized")

	// 3. 初始化 Embedding 供应商
	embedProvider, err := newEmbeddingProvider(opts)
	if err != nil {
		return err
	}
	logger.Infof("Embedding provider initialized: %s", embedProvider.Name())

	// 4. 执行导入
	vectorStore := store.NewMilvusStore(milvusClient)
	ingester := biz.NewIngester(vectorStore, embedProvider, &biz.IngesterConfig{
		ChunkSize:    opts.Tutor.ChunkSize,
		Collection:   opts.Tutor.Collection,
		EmbeddingDim: opts.Tutor.EmbeddingDim,
		BatchSize:    opts.Tutor.BatchSize,
		DataDir:      opts.Tutor.DataDir,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return ingester.Run(ctx)
}
