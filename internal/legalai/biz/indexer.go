package biz

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kart-io/logger"

	"github.com/kart-io/legalai/internal/legalai/store"
	"github.com/kart-io/legalai/pkg/llm"
)

const (
	// insertBatchSize is the number of chunks upserted per request.
	insertBatchSize = 100

	// maxRowBytes bounds metadata plus content for a single row. Rows in a
	// failed batch are retried one at a time with content trimmed under
	// this limit before the row is given up on.
	maxRowBytes     = 40000
	maxContentBytes = 39000
)

// IndexerConfig configures document ingestion.
type IndexerConfig struct {
	// ChunkSize is the target chunk length in characters.
	ChunkSize int
	// ChunkOverlap is the overlap between consecutive chunks.
	ChunkOverlap int
	// ChunkMaxChars is the hard cap on a chunk; longer chunks are truncated.
	ChunkMaxChars int
	// Collection is the collection name.
	Collection string
	// EmbeddingDim is the embedding vector dimension.
	EmbeddingDim int
}

// Indexer loads raw text documents into the vector store.
type Indexer struct {
	store         store.VectorStore
	embedProvider llm.EmbeddingProvider
	config        *IndexerConfig
}

// NewIndexer creates an indexer instance.
func NewIndexer(vectorStore store.VectorStore, embedProvider llm.EmbeddingProvider, config *IndexerConfig) *Indexer {
	return &Indexer{
		store:         vectorStore,
		embedProvider: embedProvider,
		config:        config,
	}
}

// IndexDirectory ingests every .txt file under dir.
func (i *Indexer) IndexDirectory(ctx context.Context, dir string) error {
	logger.Infof("Indexing documents from: %s", dir)

	collectionConfig := &store.CollectionConfig{
		Name:        i.config.Collection,
		Description: "Legal document knowledge base",
		Dimension:   i.config.EmbeddingDim,
	}
	if err := i.store.CreateCollection(ctx, collectionConfig); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	logger.Info("Collection ready")

	files, err := findTextFiles(dir)
	if err != nil {
		return fmt.Errorf("failed to find files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no .txt files found in %s", dir)
	}
	logger.Infof("Found %d text files", len(files))

	var allChunks []*store.Chunk
	for _, file := range files {
		chunks, err := i.chunkFile(file)
		if err != nil {
			logger.Warnf("Failed to read file %s: %v", file, err)
			continue
		}
		allChunks = append(allChunks, chunks...)
	}

	logger.Infof("Prepared %d chunks", len(allChunks))

	for start := 0; start < len(allChunks); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(allChunks) {
			end = len(allChunks)
		}
		batch := allChunks[start:end]

		if err := i.insertBatch(ctx, batch); err != nil {
			logger.Warnw("Batch insert failed, retrying documents individually",
				"batch_start", start, "batch_end", end, "error", err.Error())
			i.retryIndividually(ctx, batch)
		} else {
			logger.Infof("Inserted batch %d-%d", start, end)
		}
	}

	count, err := i.store.GetStats(ctx, i.config.Collection)
	if err == nil {
		logger.Infow("Indexing completed", "collection", i.config.Collection, "row_count", count)
	} else {
		logger.Info("Indexing completed")
	}
	return nil
}

// chunkFile splits one file into chunks carrying source and chunk_id
// metadata. chunk_id is the zero-based chunk position within the file.
func (i *Indexer) chunkFile(path string) ([]*store.Chunk, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	source := filepath.Base(path)
	pieces := splitIntoChunks(string(content), i.config.ChunkSize, i.config.ChunkOverlap)

	chunks := make([]*store.Chunk, 0, len(pieces))
	for idx, piece := range pieces {
		if len([]rune(piece)) > i.config.ChunkMaxChars {
			logger.Warnw("Chunk exceeds size cap, truncating",
				"source", source, "chunk_id", idx, "length", len(piece))
			piece = truncateRunes(piece, i.config.ChunkMaxChars)
		}
		chunks = append(chunks, &store.Chunk{
			Source:  source,
			ChunkID: int64(idx),
			Content: piece,
		})
	}
	return chunks, nil
}

// insertBatch embeds and inserts one batch of chunks.
func (i *Indexer) insertBatch(ctx context.Context, chunks []*store.Chunk) error {
	texts := make([]string, len(chunks))
	for idx, chunk := range chunks {
		texts[idx] = chunk.Content
	}

	embeddings, err := i.embedProvider.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return fmt.Errorf("embedding count mismatch: got %d, want %d", len(embeddings), len(chunks))
	}

	for idx, chunk := range chunks {
		chunk.Embedding = embeddings[idx]
	}

	_, err = i.store.Insert(ctx, i.config.Collection, chunks)
	return err
}

// retryIndividually inserts each chunk of a failed batch on its own,
// trimming oversized content before giving up on the chunk.
func (i *Indexer) retryIndividually(ctx context.Context, chunks []*store.Chunk) {
	for _, chunk := range chunks {
		trimmed := *chunk
		metadataSize := len(trimmed.Source) + 8
		if metadataSize+len(trimmed.Content) > maxRowBytes {
			limit := maxContentBytes - metadataSize
			if limit < 0 {
				limit = 0
			}
			logger.Warnw("Trimming oversized chunk content",
				"source", trimmed.Source, "chunk_id", trimmed.ChunkID,
				"original_bytes", len(trimmed.Content), "limit", limit)
			trimmed.Content = trimToBytes(trimmed.Content, limit)
		}

		if err := i.insertBatch(ctx, []*store.Chunk{&trimmed}); err != nil {
			logger.Errorw("Giving up on chunk",
				"source", trimmed.Source, "chunk_id", trimmed.ChunkID, "error", err.Error())
		}
	}
}

// findTextFiles walks dir and returns every .txt file path.
func findTextFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".txt") {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// splitIntoChunks splits text into rune chunks of at most size characters
// with the given overlap between consecutive chunks.
func splitIntoChunks(text string, size, overlap int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	runes := []rune(text)
	if size <= 0 || len(runes) <= size {
		return []string{text}
	}

	step := size - overlap
	if step <= 0 {
		step = size
	}

	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(runes) {
			break
		}
	}
	return chunks
}

// truncateRunes cuts s to at most max characters.
func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// trimToBytes cuts s to at most max bytes without splitting a rune.
func trimToBytes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !isRuneStart(s[max]) {
		max--
	}
	return s[:max]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
