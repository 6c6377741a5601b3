// Package legalai provides the Legal AI Assistant server implementation.
package legalai

import (
	"context"
	"fmt"
	"time"

	"github.com/kart-io/logger"
	"github.com/kart-io/version"

	"github.com/kart-io/legalai/internal/legalai/biz"
	"github.com/kart-io/legalai/internal/legalai/handler"
	"github.com/kart-io/legalai/internal/legalai/router"
	"github.com/kart-io/legalai/internal/legalai/store"
	"github.com/kart-io/legalai/pkg/component/milvus"
	"github.com/kart-io/legalai/pkg/llm"
	httpserver "github.com/kart-io/legalai/pkg/server/http"

	// Register LLM providers.
	_ "github.com/kart-io/legalai/pkg/llm/gemini"
	_ "github.com/kart-io/legalai/pkg/llm/ollama"

	llmopts "github.com/kart-io/legalai/pkg/options/llm"
	logopts "github.com/kart-io/legalai/pkg/options/logger"
	milvusopts "github.com/kart-io/legalai/pkg/options/milvus"
	ragopts "github.com/kart-io/legalai/pkg/options/rag"
	httpopts "github.com/kart-io/legalai/pkg/options/server/http"
)

// Name is the name of the application.
const Name = "legalai"

// Config contains application-related configurations.
type Config struct {
	HTTPOptions      *httpopts.Options
	LogOptions       *logopts.Options
	MilvusOptions    *milvusopts.Options
	EmbeddingOptions *llmopts.ProviderOptions
	ChatOptions      *llmopts.ProviderOptions
	RAGOptions       *ragopts.Options
	ShutdownTimeout  time.Duration
}

// Server represents the legal assistant server.
type Server struct {
	httpServer      *httpserver.Server
	shutdownTimeout time.Duration
	milvusClose     func()
}

// NewServer initializes and returns a new Server instance.
func (cfg *Config) NewServer(_ context.Context) (*Server, error) {
	cfg.LogOptions.AddInitialField("service.name", Name)
	cfg.LogOptions.AddInitialField("service.version", version.Get().GitVersion)
	if err := cfg.LogOptions.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Info("Starting Legal AI Assistant...")

	milvusClient, err := milvus.New(cfg.MilvusOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize milvus: %w", err)
	}
	logger.Info("Milvus client initialized")

	vectorStore := store.NewMilvusStore(milvusClient)
	logger.Info("Vector store initialized")

	embedProvider, err := llm.NewEmbeddingProvider(cfg.EmbeddingOptions.Provider, cfg.EmbeddingOptions.ToConfigMap())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedding provider: %w", err)
	}
	logger.Infow("Embedding provider initialized",
		"provider", cfg.EmbeddingOptions.Provider,
		"model", cfg.EmbeddingOptions.Model,
	)

	chatProvider, err := llm.NewChatProvider(cfg.ChatOptions.Provider, cfg.ChatOptions.ToConfigMap())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize chat provider: %w", err)
	}
	logger.Infow("Chat provider initialized",
		"provider", cfg.ChatOptions.Provider,
		"model", cfg.ChatOptions.Model,
	)

	orchestrator := biz.NewOrchestrator(vectorStore, embedProvider, chatProvider, &biz.OrchestratorConfig{
		RetrieverConfig: &biz.RetrieverConfig{
			TopK:       cfg.RAGOptions.TopK,
			Collection: cfg.RAGOptions.Collection,
		},
		GeneratorConfig: &biz.GeneratorConfig{
			PromptTemplate: cfg.RAGOptions.PromptTemplate,
		},
	})
	logger.Infow("Answer pipeline initialized",
		"collection", cfg.RAGOptions.Collection,
		"top_k", cfg.RAGOptions.TopK,
	)

	h := handler.NewHandler(orchestrator)

	httpServer := httpserver.NewServer(cfg.HTTPOptions)
	router.Register(httpServer.Engine(), h)

	logger.Info("Legal AI Assistant is ready")
	return &Server{
		httpServer:      httpServer,
		shutdownTimeout: cfg.ShutdownTimeout,
		milvusClose:     func() { _ = milvusClient.Close(context.Background()) },
	}, nil
}

// Run starts the server and blocks until ctx is cancelled, then shuts the
// server down gracefully.
func (s *Server) Run(ctx context.Context) error {
	defer func() {
		if s.milvusClose != nil {
			s.milvusClose()
		}
	}()

	if err := s.httpServer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start http server: %w", err)
	}
	logger.Info("HTTP server started")

	<-ctx.Done()
	logger.Info("Shutting down...")

	timeout := s.shutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return s.httpServer.Stop(shutdownCtx)
}
