package biz

import (
	"context"

	"github.com/kart-io/logger"

	"github.com/kart-io/legalai/internal/legalai/store"
	"github.com/kart-io/legalai/internal/model"
	"github.com/kart-io/legalai/pkg/llm"
)

// RetrieverConfig configures document retrieval.
type RetrieverConfig struct {
	// TopK is the number of fragments to return.
	TopK int
	// Collection is the collection name.
	Collection string
}

// Retriever finds the document fragments most similar to a question.
// Retrieval never fails upward: embedding or search faults degrade to an
// empty result so the caller can report "no documents found".
type Retriever struct {
	store         store.VectorStore
	embedProvider llm.EmbeddingProvider
	config        *RetrieverConfig
}

// NewRetriever creates a retriever instance.
func NewRetriever(
	vectorStore store.VectorStore,
	embedProvider llm.EmbeddingProvider,
	config *RetrieverConfig,
) *Retriever {
	return &Retriever{
		store:         vectorStore,
		embedProvider: embedProvider,
		config:        config,
	}
}

// Retrieve embeds the question and returns the maxResults nearest fragments.
// A non-positive maxResults falls back to the configured TopK.
func (r *Retriever) Retrieve(ctx context.Context, question string, maxResults int) []model.DocumentFragment {
	topK := maxResults
	if topK <= 0 {
		topK = r.config.TopK
	}

	embedding, err := r.embedProvider.EmbedSingle(ctx, question)
	if err != nil {
		logger.Errorw("Failed to embed question", "error", err.Error())
		return nil
	}

	results, err := r.store.Search(ctx, r.config.Collection, embedding, topK)
	if err != nil {
		logger.Errorw("Vector search failed", "error", err.Error())
		return nil
	}

	fragments := make([]model.DocumentFragment, 0, len(results))
	for _, res := range results {
		source := res.Source
		if source == "" {
			source = model.UnknownSource
		}
		fragments = append(fragments, model.DocumentFragment{
			Content: res.Content,
			Source:  source,
			ChunkID: res.ChunkID,
		})
	}

	logger.Infow("Retrieved document fragments", "count", len(fragments), "top_k", topK)
	return fragments
}
