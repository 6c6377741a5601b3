package rag

import (
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOptions(t *testing.T) {
	o := NewOptions()

	assert.Equal(t, 1000, o.ChunkSize)
	assert.Equal(t, 0, o.ChunkOverlap)
	assert.Equal(t, 8000, o.ChunkMaxChars)
	assert.Equal(t, 5, o.TopK)
	assert.Equal(t, "legal_documents", o.Collection)
	assert.Equal(t, 768, o.EmbeddingDim)
	assert.Equal(t, "data", o.DataDir)
	assert.Contains(t, o.PromptTemplate, "{{context}}")
	assert.Contains(t, o.PromptTemplate, "{{question}}")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(o *Options)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(o *Options) {},
		},
		{
			name:    "non-positive chunk size",
			mutate:  func(o *Options) { o.ChunkSize = 0 },
			wantErr: "chunk-size",
		},
		{
			name:    "negative overlap",
			mutate:  func(o *Options) { o.ChunkOverlap = -1 },
			wantErr: "chunk-overlap",
		},
		{
			name:    "cap smaller than chunk size",
			mutate:  func(o *Options) { o.ChunkMaxChars = 500 },
			wantErr: "chunk-max-chars",
		},
		{
			name:    "non-positive top-k",
			mutate:  func(o *Options) { o.TopK = 0 },
			wantErr: "top-k",
		},
		{
			name:    "missing collection",
			mutate:  func(o *Options) { o.Collection = "" },
			wantErr: "collection",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOptions()
			tt.mutate(o)
			errs := o.Validate()
			if tt.wantErr == "" {
				assert.Empty(t, errs)
				return
			}
			require.NotEmpty(t, errs)
			var found bool
			for _, err := range errs {
				if strings.Contains(err.Error(), tt.wantErr) {
					found = true
				}
			}
			assert.True(t, found)
		})
	}
}

func TestComplete_RestoresPromptTemplate(t *testing.T) {
	o := NewOptions()
	o.PromptTemplate = ""
	require.NoError(t, o.Complete())
	assert.Equal(t, DefaultPromptTemplate, o.PromptTemplate)
}

func TestAddFlags(t *testing.T) {
	o := NewOptions()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	o.AddFlags(fs)

	require.NoError(t, fs.Parse([]string{"--rag.chunk-size=500", "--rag.collection=custom"}))
	assert.Equal(t, 500, o.ChunkSize)
	assert.Equal(t, "custom", o.Collection)
}
