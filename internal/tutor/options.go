// Package app provides the Lecture Tutor service application.
package app

import (
	"errors"

	llmopts "github.com/kart-io/lecture-tutor/pkg/options/llm"
	logopts "github.com/kart-io/lecture-tutor/pkg/options/logger"
	milvusopts "github.com/kart-io/lecture-tutor/pkg/options/milvus"
	redisopts "github.com/kart-io/lecture-tutor/pkg/options/redis"
	httpopts "github.com/kart-io/lecture-tutor/pkg/options/server/http"
	tutoropts "github.com/kart-io/lecture-tutor/pkg/options/tutor"
	"github.com/spf13/pflag"
)

// Options contains all Lecture Tutor service options.
type Options struct {
	// HTTP contains HTTP server configuration.
	HTTP *httpopts.Options `json:"http" mapstructure:"http"`

	// Log contains logger configuration.
	Log *logopts.Options `json:"log" mapstructure:"log"`

	// Milvus contains Milvus database configuration.
	Milvus *milvusopts.Options `json:"milvus" mapstructure:"milvus"`

	// Embedding contains embedding provider configuration.
	Embedding *llmopts.ProviderOptions `json:"embedding" mapstructure:"embedding"`

	// Chat contains chat provider configuration.
	Chat *llmopts.ProviderOptions `json:"chat" mapstructure:"chat"`

	// Tutor contains tutor-specific configuration.
	Tutor *tutoropts.Options `json:"tutor" mapstructure:"tutor"`

	// Redis contains the embedding cache configuration.
	Redis *redisopts.Options `json:"redis" mapstructure:"redis"`
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	return &Options{
		HTTP:      httpopts.NewOptions(),
		Log:       logopts.NewOptions(),
		Milvus:    milvusopts.NewOptions(),
		Embedding: llmopts.NewEmbeddingOptions(),
		Chat:      llmopts.NewChatOptions(),
		Tutor:     tutoropts.NewOptions(),
		Redis:     redisopts.NewOptions(),
	}
}

// AddFlags adds flags to the flagset.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	o.HTTP.AddFlags(fs)
	o.Log.AddFlags(fs)
	o.Milvus.AddFlags(fs)
	o.Embedding.AddFlags(fs, "embedding")
	o.Chat.AddFlags(fs, "chat")
	o.Tutor.AddFlags(fs)
	o.Redis.AddFlags(fs)
}

// Validate validates the options.
func (o *Options) Validate() error {
	if err := o.Log.Validate(); err != nil {
		return err
	}

	var errs []error
	errs = append(errs, o.HTTP.Validate()...)
	errs = append(errs, o.Milvus.Validate()...)
	errs = append(errs, o.Embedding.Validate()...)
	errs = append(errs, o.Chat.Validate()...)
	errs = append(errs, o.Tutor.Validate()...)
	if err := errors.Join(errs...); err != nil {
		return err
	}

	return o.Redis.Validate()
}

// Complete completes the options.
func (o *Options) Complete() error {
	if err := o.Embedding.Complete(); err != nil {
		return err
	}
	if err := o.Chat.Complete(); err != nil {
		return err
	}
	return o.Tutor.Complete()
}
