package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/legalai/pkg/llm"
)

func testProvider(serverURL string) *Provider {
	cfg := DefaultConfig()
	cfg.BaseURL = serverURL
	cfg.MaxRetries = 1
	return NewProviderWithConfig(cfg)
}

func TestEmbed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embed", r.URL.Path)
		fmt.Fprint(w, `{"model":"nomic-embed-text","embeddings":[[0.5,0.6]]}`)
	}))
	defer server.Close()

	p := testProvider(server.URL)
	embedding, err := p.EmbedSingle(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0.6}, embedding)
}

func TestGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		fmt.Fprint(w, `{"model":"llama3.1:8b","response":"The answer.","done":true}`)
	}))
	defer server.Close()

	p := testProvider(server.URL)
	text, err := p.Generate(context.Background(), "prompt", llm.GenerateOptions{Temperature: 0.3, MaxOutputTokens: 64})
	require.NoError(t, err)
	assert.Equal(t, "The answer.", text)
}

func TestGenerateStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"response":"first","done":false}`+"\n")
		fmt.Fprint(w, `{"response":" second","done":false}`+"\n")
		fmt.Fprint(w, `{"response":"","done":true}`+"\n")
	}))
	defer server.Close()

	p := testProvider(server.URL)
	chunks, err := p.GenerateStream(context.Background(), "prompt", llm.GenerateOptions{})
	require.NoError(t, err)

	var contents []string
	var done bool
	for chunk := range chunks {
		require.NoError(t, chunk.Err)
		if chunk.Done {
			done = true
			continue
		}
		contents = append(contents, chunk.Content)
	}
	assert.Equal(t, []string{"first", " second"}, contents)
	assert.True(t, done)
}

func TestGenerateStream_TruncatedStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"response":"partial","done":false}`+"\n")
	}))
	defer server.Close()

	p := testProvider(server.URL)
	chunks, err := p.GenerateStream(context.Background(), "prompt", llm.GenerateOptions{})
	require.NoError(t, err)

	var contents []string
	var done bool
	for chunk := range chunks {
		require.NoError(t, chunk.Err)
		if chunk.Done {
			done = true
			continue
		}
		contents = append(contents, chunk.Content)
	}
	assert.Equal(t, []string{"partial"}, contents)
	assert.True(t, done)
}

func TestGenerateStream_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	p := testProvider(server.URL)
	_, err := p.GenerateStream(context.Background(), "prompt", llm.GenerateOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestDoRequestWithRetry_RetriesTransportErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, `{"embeddings":[[1]]}`)
	}))
	defer server.Close()

	p := testProvider(server.URL)
	embedding, err := p.EmbedSingle(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, []float32{1}, embedding)
	assert.Equal(t, int32(1), calls.Load())
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		fmt.Fprint(w, `{"models":[]}`)
	}))
	defer server.Close()

	p := testProvider(server.URL)
	assert.NoError(t, p.Ping(context.Background()))
}

func TestPing_Unreachable(t *testing.T) {
	p := testProvider("http://127.0.0.1:1")
	assert.Error(t, p.Ping(context.Background()))
}
