// Package tutor provides lecture tutor domain configuration options.
package tutor

import (
	"fmt"

	"github.com/kart-io/lecture-tutor/pkg/options"
	"github.com/spf13/pflag"
)

var _ options.IOptions = (*Options)(nil)

// Options contains tutor-specific configuration.
type Options struct {
	// ChunkSize is the character threshold for transcript chunk assembly.
	ChunkSize int `json:"chunk-size" mapstructure:"chunk-size"`

	// TopK is the number of results to return from similarity search.
	TopK int `json:"top-k" mapstructure:"top-k"`

	// Collection is the name of the Milvus collection.
	Collection string `json:"collection" mapstructure:"collection"`

	// EmbeddingDim is the dimension of embedding vectors.
	EmbeddingDim int `json:"embedding-dim" mapstructure:"embedding-dim"`

	// BatchSize 入库时每批写入的块数量。
	BatchSize int `json:"batch-size" mapstructure:"batch-size"`

	// DataDir is the directory holding WebVTT transcript files.
	DataDir string `json:"data-dir" mapstructure:"data-dir"`
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	return &Options{
		ChunkSize:    1000,
		TopK:         5,
		Collection:   "lecture_transcript",
		EmbeddingDim: 1536, // text-embedding-3-small dimension
		BatchSize:    50,
		DataDir:      "data",
	}
}

// AddFlags adds flags for tutor options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.IntVar(&o.ChunkSize, options.Join(prefixes...)+"tutor.chunk-size", o.ChunkSize, "Character threshold for transcript chunks.")
	fs.IntVar(&o.TopK, options.Join(prefixes...)+"tutor.top-k", o.TopK, "Number of results from similarity search.")
	fs.StringVar(&o.Collection, options.Join(prefixes...)+"tutor.collection", o.Collection, "Milvus collection name.")
	fs.IntVar(&o.EmbeddingDim, options.Join(prefixes...)+"tutor.embedding-dim", o.EmbeddingDim, "Embedding vector dimension.")
	fs.IntVar(&o.BatchSize, options.Join(prefixes...)+"tutor.batch-size", o.BatchSize, "Number of chunks per ingestion write batch.")
	fs.StringVar(&o.DataDir, options.Join(prefixes...)+"tutor.data-dir", o.DataDir, "Directory holding WebVTT transcript files.")
}

// Validate validates the tutor options.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	if o.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("chunk-size must be positive"))
	}
	if o.TopK <= 0 {
		errs = append(errs, fmt.Errorf("top-k must be positive"))
	}
	if o.EmbeddingDim <= 0 {
		errs = append(errs, fmt.Errorf("embedding-dim must be positive"))
	}
	if o.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("batch-size must be positive"))
	}
	if o.Collection == "" {
		errs = append(errs, fmt.Errorf("collection is required"))
	}
	return errs
}

// Complete completes the tutor options with defaults.
func (o *Options) Complete() error {
	return nil
}
