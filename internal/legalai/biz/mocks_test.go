package biz

import (
	"context"

	"github.com/kart-io/legalai/internal/legalai/store"
	"github.com/kart-io/legalai/pkg/llm"
)

// mockStore is a configurable in-memory VectorStore.
type mockStore struct {
	createFn func(ctx context.Context, config *store.CollectionConfig) error
	insertFn func(ctx context.Context, collection string, chunks []*store.Chunk) ([]int64, error)
	searchFn func(ctx context.Context, collection string, embedding []float32, topK int) ([]*store.SearchResult, error)
	statsFn  func(ctx context.Context, collection string) (int64, error)

	inserted [][]*store.Chunk
}

func (m *mockStore) CreateCollection(ctx context.Context, config *store.CollectionConfig) error {
	if m.createFn != nil {
		return m.createFn(ctx, config)
	}
	return nil
}

func (m *mockStore) Insert(ctx context.Context, collection string, chunks []*store.Chunk) ([]int64, error) {
	if m.insertFn != nil {
		ids, err := m.insertFn(ctx, collection, chunks)
		if err != nil {
			return nil, err
		}
		m.inserted = append(m.inserted, chunks)
		return ids, nil
	}
	m.inserted = append(m.inserted, chunks)
	ids := make([]int64, len(chunks))
	return ids, nil
}

func (m *mockStore) Search(ctx context.Context, collection string, embedding []float32, topK int) ([]*store.SearchResult, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, collection, embedding, topK)
	}
	return nil, nil
}

func (m *mockStore) GetStats(ctx context.Context, collection string) (int64, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx, collection)
	}
	return 0, nil
}

func (m *mockStore) Close(ctx context.Context) error { return nil }

// mockEmbedder returns fixed-size zero vectors unless embedFn is set.
type mockEmbedder struct {
	embedFn func(ctx context.Context, texts []string) ([][]float32, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if m.embedFn != nil {
		return m.embedFn(ctx, texts)
	}
	vectors := make([][]float32, len(texts))
	for i := range vectors {
		vectors[i] = make([]float32, 4)
	}
	return vectors, nil
}

func (m *mockEmbedder) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	vectors, err := m.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (m *mockEmbedder) Name() string { return "mock" }

// mockChat is a generation-only provider.
type mockChat struct {
	generateFn func(ctx context.Context, prompt string, opts llm.GenerateOptions) (string, error)

	lastPrompt string
	lastOpts   llm.GenerateOptions
}

func (m *mockChat) Generate(ctx context.Context, prompt string, opts llm.GenerateOptions) (string, error) {
	m.lastPrompt = prompt
	m.lastOpts = opts
	if m.generateFn != nil {
		return m.generateFn(ctx, prompt, opts)
	}
	return "", nil
}

func (m *mockChat) Name() string { return "mock" }

// mockStreamChat adds a streaming path on top of mockChat.
type mockStreamChat struct {
	mockChat

	streamFn func(ctx context.Context, prompt string, opts llm.GenerateOptions) (<-chan llm.StreamChunk, error)
}

func (m *mockStreamChat) GenerateStream(ctx context.Context, prompt string, opts llm.GenerateOptions) (<-chan llm.StreamChunk, error) {
	m.lastPrompt = prompt
	m.lastOpts = opts
	if m.streamFn != nil {
		return m.streamFn(ctx, prompt, opts)
	}
	out := make(chan llm.StreamChunk)
	close(out)
	return out, nil
}

// chunkStream builds a closed channel pre-filled with the given chunks.
func chunkStream(chunks ...llm.StreamChunk) <-chan llm.StreamChunk {
	out := make(chan llm.StreamChunk, len(chunks))
	for _, c := range chunks {
		out <- c
	}
	close(out)
	return out
}
