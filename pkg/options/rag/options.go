// Package rag provides retrieval and generation configuration options.
package rag

import (
	"fmt"

	"github.com/kart-io/legalai/pkg/options"
	"github.com/spf13/pflag"
)

var _ options.IOptions = (*Options)(nil)

// Options contains retrieval and ingestion configuration.
type Options struct {
	// ChunkSize is the size of text chunks in characters.
	ChunkSize int `json:"chunk-size" mapstructure:"chunk-size"`

	// ChunkOverlap is the overlap between chunks.
	ChunkOverlap int `json:"chunk-overlap" mapstructure:"chunk-overlap"`

	// ChunkMaxChars is the hard cap on a single chunk; longer chunks are truncated.
	ChunkMaxChars int `json:"chunk-max-chars" mapstructure:"chunk-max-chars"`

	// TopK is the number of results to return from similarity search.
	TopK int `json:"top-k" mapstructure:"top-k"`

	// Collection is the name of the Milvus collection.
	Collection string `json:"collection" mapstructure:"collection"`

	// EmbeddingDim is the dimension of embedding vectors.
	EmbeddingDim int `json:"embedding-dim" mapstructure:"embedding-dim"`

	// DataDir is the directory holding raw documents for ingestion.
	DataDir string `json:"data-dir" mapstructure:"data-dir"`

	// PromptTemplate is the answer prompt, with {{context}} and {{question}}
	// placeholders.
	PromptTemplate string `json:"prompt-template" mapstructure:"prompt-template"`
}

// DefaultPromptTemplate is the answer prompt used when none is configured.
const DefaultPromptTemplate = `You are a legal AI assistant. Based on the provided legal documents, answer the user's question accurately and professionally.

Context Documents:
{{context}}

Question: {{question}}

Instructions:
1. Provide a clear, accurate answer based on the documents provided
2. If the documents don't contain enough information, state this clearly
3. Use professional legal language but keep it understandable
4. Reference specific sections or documents when possible
5. If there are multiple interpretations, mention them

Answer:`

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	return &Options{
		ChunkSize:      1000,
		ChunkOverlap:   0,
		ChunkMaxChars:  8000,
		TopK:           5,
		Collection:     "legal_documents",
		EmbeddingDim:   768,
		DataDir:        "data",
		PromptTemplate: DefaultPromptTemplate,
	}
}

// AddFlags adds flags for retrieval options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.IntVar(&o.ChunkSize, options.Join(prefixes...)+"rag.chunk-size", o.ChunkSize, "Size of text chunks in characters.")
	fs.IntVar(&o.ChunkOverlap, options.Join(prefixes...)+"rag.chunk-overlap", o.ChunkOverlap, "Overlap between chunks.")
	fs.IntVar(&o.ChunkMaxChars, options.Join(prefixes...)+"rag.chunk-max-chars", o.ChunkMaxChars, "Hard cap on a single chunk; longer chunks are truncated.")
	fs.IntVar(&o.TopK, options.Join(prefixes...)+"rag.top-k", o.TopK, "Number of results from similarity search.")
	fs.StringVar(&o.Collection, options.Join(prefixes...)+"rag.collection", o.Collection, "Milvus collection name.")
	fs.IntVar(&o.EmbeddingDim, options.Join(prefixes...)+"rag.embedding-dim", o.EmbeddingDim, "Embedding vector dimension.")
	fs.StringVar(&o.DataDir, options.Join(prefixes...)+"rag.data-dir", o.DataDir, "Directory holding raw documents for ingestion.")
}

// Validate validates the retrieval options.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	if o.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("chunk-size must be positive"))
	}
	if o.ChunkOverlap < 0 {
		errs = append(errs, fmt.Errorf("chunk-overlap must not be negative"))
	}
	if o.ChunkMaxChars < o.ChunkSize {
		errs = append(errs, fmt.Errorf("chunk-max-chars must not be smaller than chunk-size"))
	}
	if o.TopK <= 0 {
		errs = append(errs, fmt.Errorf("top-k must be positive"))
	}
	if o.EmbeddingDim <= 0 {
		errs = append(errs, fmt.Errorf("embedding-dim must be positive"))
	}
	if o.Collection == "" {
		errs = append(errs, fmt.Errorf("collection is required"))
	}
	return errs
}

// Complete completes the retrieval options with defaults.
func (o *Options) Complete() error {
	if o.PromptTemplate == "" {
		o.PromptTemplate = DefaultPromptTemplate
	}
	return nil
}
