package biz

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/kart-io/logger"

	"github.com/kart-io/lecture-tutor/internal/pkg/transcript"
	"github.com/kart-io/lecture-tutor/internal/tutor/store"
	"github.com/kart-io/lecture-tutor/pkg/llm"
)

// IngesterConfig 入库器配置。
type IngesterConfig struct {
	// ChunkSize 块组装的字符阈值。
	ChunkSize int
	// Collection 集合名称。
	Collection string
	// EmbeddingDim 嵌入向量维度。
	EmbeddingDim int
	// BatchSize 每批写入的块数量。
	BatchSize int
	// DataDir 转写文件根目录，每个子目录为一门课程。
	DataDir string
}

// Ingester 负责全量重建讲座转写索引。
type Ingester struct {
	store         store.VectorStore
	embedProvider llm.EmbeddingProvider
	config        *IngesterConfig
}

// NewIngester 创建入库器实例。
func NewIngester(store store.VectorStore, embedProvider llm.EmbeddingProvider, config *IngesterConfig) *Ingester {
	return &Ingester{
		store:         store,
		embedProvider: embedProvider,
		config:        config,
	}
}

// Run 执行一次全量重建入库。
// 数据目录缺失为致命错误；单个文件或单个批次的失败仅记录并跳过。
func (g *Ingester) Run(ctx context.Context) error {
	info, err := os.Stat(g.config.DataDir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("data directory not found: %s", g.config.DataDir)
	}

	logger.Info("Starting data ingestion")

	// 全量重建：删除旧集合并新建
	collectionConfig := &store.CollectionConfig{
		Name:        g.config.Collection,
		Description: "Lecture transcript chunks",
		Dimension:   g.config.EmbeddingDim,
	}
	if err := g.store.Reset(ctx, collectionConfig); err != nil {
		return fmt.Errorf("failed to reset collection: %w", err)
	}
	logger.Infof("Created new collection: %s", g.config.Collection)

	chunks, err := g.collectChunks()
	if err != nil {
		return err
	}
	logger.Infof("Adding %d chunks to %s", len(chunks), g.config.Collection)

	inserted := g.insertBatches(ctx, chunks)

	logger.Infof("Ingestion complete, total chunks indexed: %d", inserted)
	return nil
}

// collectChunks 扫描数据目录，解析所有课程的转写文件并组装块。
func (g *Ingester) collectChunks() ([]*store.Chunk, error) {
	entries, err := os.ReadDir(g.config.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	var all []*store.Chunk
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		course := entry.Name()
		logger.Infof("Processing course: %s", course)

		courseDir := filepath.Join(g.config.DataDir, course)
		files, err := filepath.Glob(filepath.Join(courseDir, "*.txt"))
		if err != nil {
			logger.Warnf("Failed to list lectures in %s: %v", courseDir, err)
			continue
		}
		logger.Infof("Found %d lecture(s)", len(files))

		for _, file := range files {
			chunks, err := g.parseLecture(course, file)
			if err != nil {
				logger.Warnf("Error processing %s: %v", filepath.Base(file), err)
				continue
			}
			all = append(all, chunks...)
		}
	}

	return all, nil
}

// parseLecture 解析单个讲座文件并组装带元数据的块。
func (g *Ingester) parseLecture(course, file string) ([]*store.Chunk, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	// 讲座标题取文件名去掉扩展名
	lecture := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))

	segments := transcript.Parse(string(content))
	logger.Infof("Lecture %s: parsed %d segments", lecture, len(segments))

	assembled := transcript.Assemble(segments, g.config.ChunkSize)
	logger.Infof("Lecture %s: created %d chunks", lecture, len(assembled))

	chunks := make([]*store.Chunk, len(assembled))
	for idx, c := range assembled {
		chunks[idx] = &store.Chunk{
			ID:             uuid.NewString(),
			Course:         course,
			Lecture:        lecture,
			TimestampStart: c.Start,
			TimestampEnd:   c.End,
			ChunkIndex:     idx,
			Content:        c.Text,
		}
	}

	return chunks, nil
}

// insertBatches 按批嵌入并写入块，返回成功写入的块数量。
func (g *Ingester) insertBatches(ctx context.Context, chunks []*store.Chunk) int64 {
	batchSize := g.config.BatchSize
	totalBatches := (len(chunks) + batchSize - 1) / batchSize

	var inserted int64
	for i := 0; i < len(chunks); i += batchSize {
		end := i + batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[i:end]
		batchNum := i/batchSize + 1
		logger.Infof("Processing batch %d/%d (chunks %d to %d)", batchNum, totalBatches, i+1, end)

		if err := g.insertBatch(ctx, batch); err != nil {
			logger.Errorf("Error adding batch %d: %v", batchNum, err)
			continue
		}
		inserted += int64(len(batch))
		logger.Infof("Batch %d added successfully", batchNum)
	}

	return inserted
}

// insertBatch 为一批块生成嵌入并写入存储。
func (g *Ingester) insertBatch(ctx context.Context, batch []*store.Chunk) error {
	texts := make([]string, len(batch))
	for i, chunk := range batch {
		texts[i] = chunk.Content
	}

	embeddings, err := g.embedProvider.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings: %w", err)
	}
	if len(embeddings) != len(batch) {
		return fmt.Errorf("embedding count mismatch: got %d, want %d", len(embeddings), len(batch))
	}

	for i, chunk := range batch {
		chunk.Embedding = embeddings[i]
	}

	if _, err := g.store.Insert(ctx, g.config.Collection, batch); err != nil {
		return fmt.Errorf("failed to insert batch: %w", err)
	}
	return nil
}
