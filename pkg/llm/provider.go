// Package llm provides the provider abstraction used to generate apps.
//
// Example usage:
//
//	provider, err := openai.NewProvider(
//	    os.Getenv("OPENAI_API_KEY"),
//	    openai.WithModel("gpt-4o"),
//	    openai.WithTemperature(0.7),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	reply, err := provider.Complete(ctx, []*types.Message{
//	    types.NewSystemMessage("You write single-file HTML apps."),
//	    types.NewUserMessage("a pomodoro timer"),
//	})
package llm

import (
	"context"

	"github.com/entrhq/agentbrowser/pkg/types"
)

// Provider defines the interface for LLM integrations.
type Provider interface {
	// StreamCompletion sends messages to the LLM and streams back response
	// chunks. The channel is closed when the stream ends. Errors during the
	// stream arrive as chunks with Error set; the returned error is only for
	// requests that could not be started.
	StreamCompletion(ctx context.Context, messages []*types.Message) (<-chan *StreamChunk, error)

	// Complete accumulates a streamed response into a single message.
	// Thinking content is not part of the returned message.
	Complete(ctx context.Context, messages []*types.Message) (*types.Message, error)

	GetModelInfo() *types.ModelInfo
	GetModel() string
	GetBaseURL() string
}
