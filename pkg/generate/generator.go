// Package generate turns a natural-language request into a complete HTML
// document using an LLM, and exposes that as the agent host boundary.
package generate

import (
	"context"
	"errors"
	"fmt"

	"github.com/entrhq/agentbrowser/pkg/llm"
	"github.com/entrhq/agentbrowser/pkg/logging"
	"github.com/entrhq/agentbrowser/pkg/types"
)

var (
	// ErrGenerationFailed wraps errors from the model provider.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrEmptyDocument is returned when the model produced no document.
	ErrEmptyDocument = errors.New("generated document is empty")

	// ErrEmptyPrompt is returned for blank requests.
	ErrEmptyPrompt = errors.New("empty agent prompt")
)

// Generator produces a complete markup document for a request.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// LLMGenerator generates documents with a chat completion model.
type LLMGenerator struct {
	provider    llm.Provider
	logger      *logging.Logger
	countTokens func(string) int
}

// Option configures an LLMGenerator.
type Option func(*LLMGenerator)

// WithTokenCounter replaces the tiktoken counter used for prompt logging.
func WithTokenCounter(count func(string) int) Option {
	return func(g *LLMGenerator) {
		g.countTokens = count
	}
}

func NewLLMGenerator(provider llm.Provider, logger *logging.Logger, opts ...Option) *LLMGenerator {
	g := &LLMGenerator{
		provider:    provider,
		logger:      logger,
		countTokens: CountTokens,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate asks the model for a document and cleans up its reply.
func (g *LLMGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	messages := []*types.Message{
		types.NewSystemMessage(SystemPrompt),
		types.NewUserMessage(UserPrompt(prompt)),
	}
	tokens := 0
	for _, m := range messages {
		tokens += g.countTokens(m.Content)
	}
	g.logger.Infof("sending prompt to %s (%d prompt tokens)", g.provider.GetModel(), tokens)

	reply, err := g.provider.Complete(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	doc := CleanDocument(reply.Content)
	if doc == "" {
		return "", ErrEmptyDocument
	}
	g.logger.Infof("generated %q: %d bytes, %d tokens", DocumentTitle(doc), len(doc), g.countTokens(doc))
	return doc, nil
}
