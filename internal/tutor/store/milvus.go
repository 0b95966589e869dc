package store

import (
	"context"
	"fmt"

	"github.com/kart-io/logger"
	"github.com/milvus-io/milvus/client/v2/entity"

	"github.com/kart-io/lecture-tutor/pkg/component/milvus"
)

// MilvusStore 实现基于 Milvus 的向量存储。
type MilvusStore struct {
	client *milvus.Client
}

// NewMilvusStore 创建 Milvus 存储实例。
func NewMilvusStore(client *milvus.Client) *MilvusStore {
	return &MilvusStore{client: client}
}

func collectionSchema(config *CollectionConfig) *milvus.CollectionSchema {
	return &milvus.CollectionSchema{
		Name:        config.Name,
		Description: config.Description,
		Dimension:   config.Dimension,
		MetaFields: []milvus.MetaField{
			{Name: "course", DataType: entity.FieldTypeVarChar, MaxLen: 255},
			{Name: "lecture", DataType: entity.FieldTypeVarChar, MaxLen: 255},
			{Name: "timestamp_start", DataType: entity.FieldTypeVarChar, MaxLen: 32},
			{Name: "timestamp_end", DataType: entity.FieldTypeVarChar, MaxLen: 32},
			{Name: "chunk_index", DataType: entity.FieldTypeInt64},
			{Name: "content", DataType: entity.FieldTypeVarChar, MaxLen: 65535},
		},
	}
}

// Reset 删除已有集合并重建，用于全量重建入库。
func (s *MilvusStore) Reset(ctx context.Context, config *CollectionConfig) error {
	exists, err := s.client.HasCollection(ctx, config.Name)
	if err != nil {
		return err
	}
	if exists {
		if err := s.client.DropCollection(ctx, config.Name); err != nil {
			return err
		}
		logger.Infof("Deleted existing collection: %s", config.Name)
	} else {
		logger.Infof("No existing collection to delete")
	}

	return s.client.CreateCollection(ctx, collectionSchema(config))
}

// Insert 批量插入转写块到 Milvus。
func (s *MilvusStore) Insert(ctx context.Context, collection string, chunks []*Chunk) (int64, error) {
	if len(chunks) == 0 {
		return 0, nil
	}

	ids := make([]string, len(chunks))
	embeddings := make([][]float32, len(chunks))
	metadata := map[string][]any{
		"course":          make([]any, len(chunks)),
		"lecture":         make([]any, len(chunks)),
		"timestamp_start": make([]any, len(chunks)),
		"timestamp_end":   make([]any, len(chunks)),
		"chunk_index":     make([]any, len(chunks)),
		"content":         make([]any, len(chunks)),
	}

	for i, chunk := range chunks {
		ids[i] = chunk.ID
		embeddings[i] = chunk.Embedding
		metadata["course"][i] = chunk.Course
		metadata["lecture"][i] = chunk.Lecture
		metadata["timestamp_start"][i] = chunk.TimestampStart
		metadata["timestamp_end"][i] = chunk.TimestampEnd
		metadata["chunk_index"][i] = int64(chunk.ChunkIndex)
		metadata["content"][i] = chunk.Content
	}

	data := &milvus.InsertData{
		IDs:        ids,
		Embeddings: embeddings,
		Metadata:   metadata,
	}

	count, err := s.client.Insert(ctx, collection, data)
	if err != nil {
		return 0, fmt.Errorf("failed to insert into milvus: %w", err)
	}

	return count, nil
}

// Search 执行向量相似度搜索。
func (s *MilvusStore) Search(ctx context.Context, collection string, embedding []float32, topK int) ([]*SearchResult, error) {
	outputFields := []string{"course", "lecture", "timestamp_start", "timestamp_end", "content"}
	results, err := s.client.Search(ctx, collection, embedding, topK, outputFields)
	if err != nil {
		return nil, fmt.Errorf("failed to search milvus: %w", err)
	}

	searchResults := make([]*SearchResult, len(results))
	for i, r := range results {
		searchResults[i] = &SearchResult{
			ID:             r.ID,
			Course:         stringField(r.Metadata, "course"),
			Lecture:        stringField(r.Metadata, "lecture"),
			TimestampStart: stringField(r.Metadata, "timestamp_start"),
			TimestampEnd:   stringField(r.Metadata, "timestamp_end"),
			Content:        stringField(r.Metadata, "content"),
			Score:          r.Score,
		}
	}

	return searchResults, nil
}

func stringField(metadata map[string]any, name string) string {
	if v, ok := metadata[name].(string); ok {
		return v
	}
	return ""
}

// GetStats 获取集合统计信息。
func (s *MilvusStore) GetStats(ctx context.Context, collection string) (int64, error) {
	return s.client.GetCollectionStats(ctx, collection)
}

// Close 关闭 Milvus 连接。
func (s *MilvusStore) Close(ctx context.Context) error {
	return s.client.Close(ctx)
}

// 确保 MilvusStore 实现了 VectorStore 接口。
var _ VectorStore = (*MilvusStore)(nil)
