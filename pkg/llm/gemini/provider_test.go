package gemini

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/legalai/pkg/llm"
)

func testProvider(serverURL string) *Provider {
	cfg := DefaultConfig()
	cfg.BaseURL = serverURL
	cfg.APIKey = "test-key"
	cfg.MaxRetries = 1
	return NewProviderWithConfig(cfg)
}

func TestNewProvider_RequiresAPIKey(t *testing.T) {
	_, err := NewProvider(map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_key is required")

	p, err := NewProvider(map[string]any{"api_key": "key"})
	require.NoError(t, err)
	assert.Equal(t, ProviderName, p.Name())
}

func TestEmbed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "batchEmbedContents")
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		fmt.Fprint(w, `{"embeddings":[{"values":[0.1,0.2]},{"values":[0.3,0.4]}]}`)
	}))
	defer server.Close()

	p := testProvider(server.URL)
	embeddings, err := p.Embed(context.Background(), []string{"first", "second"})
	require.NoError(t, err)
	require.Len(t, embeddings, 2)
	assert.Equal(t, []float32{0.1, 0.2}, embeddings[0])
	assert.Equal(t, []float32{0.3, 0.4}, embeddings[1])
}

func TestEmbed_EmptyInput(t *testing.T) {
	p := testProvider("http://unused")
	embeddings, err := p.Embed(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, embeddings)
}

func TestGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "generateContent")
		fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":"Hello"},{"text":" world"}],"role":"model"}}]}`)
	}))
	defer server.Close()

	p := testProvider(server.URL)
	text, err := p.Generate(context.Background(), "prompt", llm.GenerateOptions{Temperature: 0.3})
	require.NoError(t, err)
	assert.Equal(t, "Hello world", text)
}

func TestGenerate_NoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"candidates":[]}`)
	}))
	defer server.Close()

	p := testProvider(server.URL)
	_, err := p.Generate(context.Background(), "prompt", llm.GenerateOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no content returned")
}

func TestGenerateStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.RawQuery, "alt=sse")
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"first\"}]}}]}\n\n")
		fmt.Fprint(w, ": comment line ignored\n")
		fmt.Fprint(w, "data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\" second\"}]}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
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

func TestGenerateStream_DecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "data: {not json}\n\n")
	}))
	defer server.Close()

	p := testProvider(server.URL)
	chunks, err := p.GenerateStream(context.Background(), "prompt", llm.GenerateOptions{})
	require.NoError(t, err)

	var sawErr bool
	for chunk := range chunks {
		if chunk.Err != nil {
			sawErr = true
		}
	}
	assert.True(t, sawErr)
}

func TestGenerateStream_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	p := testProvider(server.URL)
	_, err := p.GenerateStream(context.Background(), "prompt", llm.GenerateOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestDoRequestWithRetry_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"embeddings":[{"values":[1]}]}`)
	}))
	defer server.Close()

	p := testProvider(server.URL)
	embedding, err := p.EmbedSingle(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, []float32{1}, embedding)
	assert.Equal(t, int32(2), calls.Load())
}

func TestDoRequestWithRetry_NoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	p := testProvider(server.URL)
	_, err := p.Embed(context.Background(), []string{"text"})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDoRequestWithRetry_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	p := testProvider(server.URL)
	_, err := p.Embed(ctx, []string{"text"})
	require.Error(t, err)
}
