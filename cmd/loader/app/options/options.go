// Package options contains flags and options for the document loader.
package options

import (
	"errors"
	"fmt"

	"github.com/kart-io/legalai/pkg/app"
	llmopts "github.com/kart-io/legalai/pkg/options/llm"
	logopts "github.com/kart-io/legalai/pkg/options/logger"
	milvusopts "github.com/kart-io/legalai/pkg/options/milvus"
	ragopts "github.com/kart-io/legalai/pkg/options/rag"
)

// LoaderOptions contains the configuration options for the loader.
type LoaderOptions struct {
	// LogOptions contains logger configuration.
	LogOptions *logopts.Options `json:"log" mapstructure:"log"`

	// MilvusOptions contains Milvus database configuration.
	MilvusOptions *milvusopts.Options `json:"milvus" mapstructure:"milvus"`

	// EmbeddingOptions contains embedding provider configuration.
	EmbeddingOptions *llmopts.ProviderOptions `json:"embedding" mapstructure:"embedding"`

	// RAGOptions contains ingestion configuration.
	RAGOptions *ragopts.Options `json:"rag" mapstructure:"rag"`

	// Reset drops the collection before loading.
	Reset bool `json:"reset" mapstructure:"reset"`
}

// NewLoaderOptions creates a LoaderOptions instance with default values.
func NewLoaderOptions() *LoaderOptions {
	return &LoaderOptions{
		LogOptions:       logopts.NewOptions(),
		MilvusOptions:    milvusopts.NewOptions(),
		EmbeddingOptions: llmopts.NewEmbeddingOptions(),
		RAGOptions:       ragopts.NewOptions(),
	}
}

// Flags returns flags for the loader grouped by section name.
func (o *LoaderOptions) Flags() (fss app.NamedFlagSets) {
	o.LogOptions.AddFlags(fss.FlagSet("log"))
	o.MilvusOptions.AddFlags(fss.FlagSet("milvus"))
	o.EmbeddingOptions.AddFlags(fss.FlagSet("embedding"), "embedding")
	o.RAGOptions.AddFlags(fss.FlagSet("rag"))

	fs := fss.FlagSet("misc")
	fs.BoolVar(&o.Reset, "reset", o.Reset, "Drop the collection before loading")

	return fss
}

// Complete completes all the required options.
func (o *LoaderOptions) Complete() error {
	if err := o.EmbeddingOptions.Complete(); err != nil {
		return fmt.Errorf("embedding: %w", err)
	}
	if err := o.RAGOptions.Complete(); err != nil {
		return fmt.Errorf("rag: %w", err)
	}
	return nil
}

// Validate checks whether the options in LoaderOptions are valid.
func (o *LoaderOptions) Validate() error {
	errs := []error{}

	errs = append(errs, o.LogOptions.Validate())
	errs = append(errs, o.MilvusOptions.Validate()...)
	errs = append(errs, o.EmbeddingOptions.Validate()...)
	errs = append(errs, o.RAGOptions.Validate()...)

	return errors.Join(errs...)
}
