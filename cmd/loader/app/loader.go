// Package app provides the document loader application.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kart-io/logger"

	"github.com/kart-io/legalai/cmd/loader/app/options"
	"github.com/kart-io/legalai/internal/legalai/biz"
	"github.com/kart-io/legalai/internal/legalai/store"
	"github.com/kart-io/legalai/pkg/app"
	"github.com/kart-io/legalai/pkg/component/milvus"
	"github.com/kart-io/legalai/pkg/llm"

	// Register LLM providers.
	_ "github.com/kart-io/legalai/pkg/llm/gemini"
	_ "github.com/kart-io/legalai/pkg/llm/ollama"
)

const (
	// Name is the name of the application.
	Name = "loader"

	// commandDesc is the description of the command.
	commandDesc = `Legal document loader

Loads raw .txt legal documents into the vector index: splits each file into
chunks, embeds them, and upserts the chunks in batches.`
)

// NewApp creates and returns a new App object with default parameters.
func NewApp() *app.App {
	opts := options.NewLoaderOptions()
	application := app.NewApp(
		app.WithName(Name),
		app.WithDescription(commandDesc),
		app.WithOptions(opts),
		app.WithRunFunc(run(opts)),
	)

	return application
}

// run contains the main logic of the loader.
func run(opts *options.LoaderOptions) app.RunFunc {
	return func() error {
		if err := opts.LogOptions.Init(); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		ctx := setupSignalContext()

		milvusClient, err := milvus.New(opts.MilvusOptions)
		if err != nil {
			return fmt.Errorf("failed to initialize milvus: %w", err)
		}
		defer func() { _ = milvusClient.Close(context.Background()) }()

		vectorStore := store.NewMilvusStore(milvusClient)

		if opts.Reset {
			logger.Infow("Dropping collection", "collection", opts.RAGOptions.Collection)
			if err := milvusClient.DropCollection(ctx, opts.RAGOptions.Collection); err != nil {
				return fmt.Errorf("failed to drop collection: %w", err)
			}
		}

		embedProvider, err := llm.NewEmbeddingProvider(opts.EmbeddingOptions.Provider, opts.EmbeddingOptions.ToConfigMap())
		if err != nil {
			return fmt.Errorf("failed to initialize embedding provider: %w", err)
		}
		logger.Infow("Embedding provider initialized",
			"provider", opts.EmbeddingOptions.Provider,
			"model", opts.EmbeddingOptions.Model,
		)

		indexer := biz.NewIndexer(vectorStore, embedProvider, &biz.IndexerConfig{
			ChunkSize:     opts.RAGOptions.ChunkSize,
			ChunkOverlap:  opts.RAGOptions.ChunkOverlap,
			ChunkMaxChars: opts.RAGOptions.ChunkMaxChars,
			Collection:    opts.RAGOptions.Collection,
			EmbeddingDim:  opts.RAGOptions.EmbeddingDim,
		})

		return indexer.IndexDirectory(ctx, opts.RAGOptions.DataDir)
	}
}

// setupSignalContext returns a context that is cancelled on SIGINT or SIGTERM.
func setupSignalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		cancel()
		<-c
		os.Exit(1)
	}()
	return ctx
}
