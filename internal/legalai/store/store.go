// Package store defines the vector storage abstraction for legal document
// chunks and its Milvus implementation.
package store

import (
	"context"
)

// Chunk is one piece of a source document prepared for indexing.
type Chunk struct {
	// Source is the originating file name.
	Source string
	// ChunkID is the zero-based position of the chunk within its source.
	ChunkID int64
	// Content is the chunk text.
	Content string
	// Embedding is the chunk's vector.
	Embedding []float32
}

// SearchResult is one similarity search hit.
type SearchResult struct {
	// ID is the storage-assigned row ID.
	ID int64
	// Source is the originating file name; may be empty when the row was
	// written without source metadata.
	Source string
	// ChunkID is the chunk position within its source.
	ChunkID int64
	// Content is the chunk text.
	Content string
	// Score is the similarity distance reported by the index.
	Score float32
}

// CollectionConfig describes the collection backing the store.
type CollectionConfig struct {
	// Name is the collection name.
	Name string
	// Description is the collection description.
	Description string
	// Dimension is the embedding vector dimension.
	Dimension int
}

// VectorStore is the vector index used for retrieval and ingestion.
type VectorStore interface {
	// CreateCollection creates the collection if it does not exist.
	CreateCollection(ctx context.Context, config *CollectionConfig) error

	// Insert writes a batch of chunks and returns the assigned row IDs.
	Insert(ctx context.Context, collection string, chunks []*Chunk) ([]int64, error)

	// Search returns the topK chunks nearest to the embedding.
	Search(ctx context.Context, collection string, embedding []float32, topK int) ([]*SearchResult, error)

	// GetStats returns the number of rows in the collection.
	GetStats(ctx context.Context, collection string) (int64, error)

	// Close releases the underlying connection.
	Close(ctx context.Context) error
}
