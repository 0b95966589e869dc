package store

import (
	"context"
)

// Chunk 表示讲座转写块。
type Chunk struct {
	// ID 块 ID（UUID 字符串）。
	ID string
	// Course 课程名称。
	Course string
	// Lecture 讲座标题。
	Lecture string
	// TimestampStart 块起始时间戳。
	TimestampStart string
	// TimestampEnd 块结束时间戳。
	TimestampEnd string
	// ChunkIndex 块在讲座内的序号。
	ChunkIndex int
	// Content 块文本内容。
	Content string
	// Embedding 嵌入向量。
	Embedding []float32
}

// SearchResult 表示检索结果。
type SearchResult struct {
	// ID 块 ID。
	ID string
	// Course 课程名称。
	Course string
	// Lecture 讲座标题。
	Lecture string
	// TimestampStart 块起始时间戳。
	TimestampStart string
	// TimestampEnd 块结束时间戳。
	TimestampEnd string
	// Content 块文本内容。
	Content string
	// Score 相似度分数。
	Score float32
}

// CollectionConfig 集合配置。
type CollectionConfig struct {
	// Name 集合名称。
	Name string
	// Description 集合描述。
	Description string
	// Dimension 向量维度。
	Dimension int
}

// VectorStore 定义向量存储接口。
type VectorStore interface {
	// Reset 删除已有集合（如果存在）并重建空集合。
	Reset(ctx context.Context, config *CollectionConfig) error

	// Insert 批量插入转写块，返回插入行数。
	Insert(ctx context.Context, collection string, chunks []*Chunk) (int64, error)

	// Search 向量相似度搜索。
	Search(ctx context.Context, collection string, embedding []float32, topK int) ([]*SearchResult, error)

	// GetStats 获取集合统计信息。
	GetStats(ctx context.Context, collection string) (int64, error)

	// Close 关闭连接。
	Close(ctx context.Context) error
}
