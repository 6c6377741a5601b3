package biz

import (
	"context"
	"fmt"
	"strings"

	"github.com/kart-io/logger"

	"github.com/kart-io/legalai/internal/model"
	"github.com/kart-io/legalai/pkg/llm"
)

// Fallback answers. Generation never fails upward; a provider fault turns
// into FallbackAnswer and an empty model response into EmptyAnswer.
const (
	FallbackAnswer = "I encountered an error while processing your question. Please try again."
	EmptyAnswer    = "I apologize, but I couldn't generate a response based on the provided documents."
)

const (
	generationTemperature = 0.3
	generationMaxTokens   = 2048
)

// GeneratorConfig configures answer generation.
type GeneratorConfig struct {
	// PromptTemplate is the answer prompt with {{context}} and {{question}}
	// placeholders.
	PromptTemplate string
}

// Generator produces answers grounded in retrieved document fragments.
type Generator struct {
	chatProvider llm.ChatProvider
	config       *GeneratorConfig
}

// NewGenerator creates a generator instance.
func NewGenerator(chatProvider llm.ChatProvider, config *GeneratorConfig) *Generator {
	return &Generator{
		chatProvider: chatProvider,
		config:       config,
	}
}

// buildPrompt renders the prompt template over the fragments and question.
func (g *Generator) buildPrompt(question string, fragments []model.DocumentFragment) string {
	blocks := make([]string, len(fragments))
	for i, frag := range fragments {
		blocks[i] = fmt.Sprintf("Document: %s\n%s", frag.Source, frag.Content)
	}
	contextText := strings.Join(blocks, "\n\n")

	prompt := strings.ReplaceAll(g.config.PromptTemplate, "{{context}}", contextText)
	return strings.ReplaceAll(prompt, "{{question}}", question)
}

func generateOptions() llm.GenerateOptions {
	return llm.GenerateOptions{
		Temperature:     generationTemperature,
		MaxOutputTokens: generationMaxTokens,
	}
}

// Stream generates the answer incrementally and returns a channel of answer
// tokens that closes at end of sequence. Any provider fault yields
// FallbackAnswer as a single token followed by a clean close; callers cannot
// distinguish a fallback from genuine model output.
func (g *Generator) Stream(ctx context.Context, question string, fragments []model.DocumentFragment) <-chan string {
	out := make(chan string)

	go func() {
		defer close(out)

		prompt := g.buildPrompt(question, fragments)

		streamer, ok := g.chatProvider.(llm.StreamProvider)
		if !ok {
			g.streamFull(ctx, out, prompt)
			return
		}

		chunks, err := streamer.GenerateStream(ctx, prompt, generateOptions())
		if err != nil {
			logger.Errorw("Failed to start answer stream", "error", err.Error())
			g.send(ctx, out, FallbackAnswer)
			return
		}

		for chunk := range chunks {
			if chunk.Err != nil {
				logger.Errorw("Answer stream failed", "error", chunk.Err.Error())
				g.send(ctx, out, FallbackAnswer)
				return
			}
			if chunk.Done {
				return
			}
			if chunk.Content == "" {
				continue
			}
			if !g.send(ctx, out, chunk.Content) {
				return
			}
		}
	}()

	return out
}

// streamFull serves providers without a streaming path by emitting the full
// completion as one token.
func (g *Generator) streamFull(ctx context.Context, out chan<- string, prompt string) {
	answer, err := g.chatProvider.Generate(ctx, prompt, generateOptions())
	if err != nil {
		logger.Errorw("Answer generation failed", "error", err.Error())
		g.send(ctx, out, FallbackAnswer)
		return
	}
	if answer != "" {
		g.send(ctx, out, answer)
	}
}

func (g *Generator) send(ctx context.Context, out chan<- string, token string) bool {
	select {
	case out <- token:
		return true
	case <-ctx.Done():
		return false
	}
}

// Generate produces the full answer in one call. Faults degrade to the
// fallback answers rather than errors.
func (g *Generator) Generate(ctx context.Context, question string, fragments []model.DocumentFragment) string {
	prompt := g.buildPrompt(question, fragments)

	answer, err := g.chatProvider.Generate(ctx, prompt, generateOptions())
	if err != nil {
		logger.Errorw("Answer generation failed", "error", err.Error())
		return FallbackAnswer
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return EmptyAnswer
	}

	logger.Infof("Answer generated (length: %d)", len(answer))
	return answer
}
