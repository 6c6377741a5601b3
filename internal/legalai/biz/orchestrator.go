package biz

import (
	"context"

	"github.com/kart-io/logger"

	"github.com/kart-io/legalai/internal/legalai/store"
	"github.com/kart-io/legalai/internal/model"
	"github.com/kart-io/legalai/pkg/llm"
)

// Stream protocol messages.
const (
	StatusSearching   = "Searching legal documents..."
	StatusGenerating  = "Generating answer..."
	CompleteMessage   = "Answer complete"
	ErrNoDocuments    = "No relevant legal documents found"
	ErrInternalServer = "Internal server error"
)

// Service answers legal questions against the indexed document corpus.
type Service interface {
	// Stream runs the full answer pipeline and emits protocol events.
	Stream(ctx context.Context, query model.Query) <-chan model.StreamEvent
	// Query runs the pipeline without streaming and returns the whole answer.
	Query(ctx context.Context, query model.Query) (*model.QueryResult, error)
	// GetStats reports knowledge base statistics.
	GetStats(ctx context.Context) (map[string]any, error)
}

// Orchestrator drives one question through retrieval and generation, turning
// the pipeline into an ordered event sequence. Every stream carries exactly
// one terminal event; collaborator faults surface as protocol events, never
// as Go errors past this boundary.
type Orchestrator struct {
	retriever     *Retriever
	generator     *Generator
	store         store.VectorStore
	embedProvider llm.EmbeddingProvider
	chatProvider  llm.ChatProvider
	collection    string
}

// OrchestratorConfig composes the component configs.
type OrchestratorConfig struct {
	RetrieverConfig *RetrieverConfig
	GeneratorConfig *GeneratorConfig
}

// NewOrchestrator creates the answer pipeline.
func NewOrchestrator(
	vectorStore store.VectorStore,
	embedProvider llm.EmbeddingProvider,
	chatProvider llm.ChatProvider,
	config *OrchestratorConfig,
) *Orchestrator {
	return &Orchestrator{
		retriever:     NewRetriever(vectorStore, embedProvider, config.RetrieverConfig),
		generator:     NewGenerator(chatProvider, config.GeneratorConfig),
		store:         vectorStore,
		embedProvider: embedProvider,
		chatProvider:  chatProvider,
		collection:    config.RetrieverConfig.Collection,
	}
}

// Stream emits the event sequence for one question:
// status, then either a terminal error (no documents) or sources, status,
// zero or more chunks, and a terminal complete. The channel is unbuffered,
// so emission pace follows consumption pace, and it closes after the
// terminal event. Cancelling ctx stops the stream promptly.
func (o *Orchestrator) Stream(ctx context.Context, query model.Query) <-chan model.StreamEvent {
	query.Normalize()

	out := make(chan model.StreamEvent)
	go func() {
		defer close(out)
		defer func() {
			if r := recover(); r != nil {
				logger.Errorw("Answer pipeline panicked", "error", r)
				o.emit(ctx, out, model.StreamEvent{
					Kind:    model.EventError,
					Payload: model.ErrorPayload{Error: ErrInternalServer},
				})
			}
		}()

		if !o.emit(ctx, out, model.StreamEvent{
			Kind:    model.EventStatus,
			Payload: model.StatusPayload{Message: StatusSearching},
		}) {
			return
		}

		fragments := o.retriever.Retrieve(ctx, query.Question, query.MaxResults)
		if len(fragments) == 0 {
			o.emit(ctx, out, model.StreamEvent{
				Kind:    model.EventError,
				Payload: model.ErrorPayload{Error: ErrNoDocuments},
			})
			return
		}

		if !o.emit(ctx, out, model.StreamEvent{
			Kind: model.EventSources,
			Payload: model.SourcesPayload{
				Sources:  dedupSources(fragments),
				DocCount: len(fragments),
			},
		}) {
			return
		}

		if !o.emit(ctx, out, model.StreamEvent{
			Kind:    model.EventStatus,
			Payload: model.StatusPayload{Message: StatusGenerating},
		}) {
			return
		}

		genCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		for token := range o.generator.Stream(genCtx, query.Question, fragments) {
			if token == "" {
				continue
			}
			if !o.emit(ctx, out, model.StreamEvent{
				Kind:    model.EventChunk,
				Payload: model.ChunkPayload{Content: token},
			}) {
				return
			}
		}

		o.emit(ctx, out, model.StreamEvent{
			Kind:    model.EventComplete,
			Payload: model.CompletePayload{Message: CompleteMessage},
		})
	}()

	return out
}

func (o *Orchestrator) emit(ctx context.Context, out chan<- model.StreamEvent, event model.StreamEvent) bool {
	select {
	case out <- event:
		return true
	case <-ctx.Done():
		return false
	}
}

// dedupSources returns the distinct source names in first-seen order.
func dedupSources(fragments []model.DocumentFragment) []string {
	seen := make(map[string]bool, len(fragments))
	sources := make([]string, 0, len(fragments))
	for _, frag := range fragments {
		if !seen[frag.Source] {
			seen[frag.Source] = true
			sources = append(sources, frag.Source)
		}
	}
	return sources
}

// Query runs retrieval and generation without streaming.
func (o *Orchestrator) Query(ctx context.Context, query model.Query) (*model.QueryResult, error) {
	query.Normalize()

	fragments := o.retriever.Retrieve(ctx, query.Question, query.MaxResults)
	if len(fragments) == 0 {
		return nil, ErrNoRelevantDocuments
	}

	answer := o.generator.Generate(ctx, query.Question, fragments)
	return &model.QueryResult{
		Answer:  answer,
		Sources: dedupSources(fragments),
	}, nil
}

// GetStats reports knowledge base statistics.
func (o *Orchestrator) GetStats(ctx context.Context) (map[string]any, error) {
	count, err := o.store.GetStats(ctx, o.collection)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"collection":     o.collection,
		"chunk_count":    count,
		"embed_provider": o.embedProvider.Name(),
		"chat_provider":  o.chatProvider.Name(),
	}, nil
}

var _ Service = (*Orchestrator)(nil)
