package generate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/entrhq/agentbrowser/pkg/llm"
	"github.com/entrhq/agentbrowser/pkg/logging"
	"github.com/entrhq/agentbrowser/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockProvider is a mock LLM provider for testing
type mockProvider struct {
	reply    string
	err      error
	received []*types.Message
}

func (m *mockProvider) StreamCompletion(ctx context.Context, messages []*types.Message) (<-chan *llm.StreamChunk, error) {
	ch := make(chan *llm.StreamChunk, 1)
	ch <- &llm.StreamChunk{Content: m.reply, Finished: true}
	close(ch)
	return ch, m.err
}

func (m *mockProvider) Complete(ctx context.Context, messages []*types.Message) (*types.Message, error) {
	m.received = messages
	if m.err != nil {
		return nil, m.err
	}
	return types.NewAssistantMessage(m.reply), nil
}

func (m *mockProvider) GetModelInfo() *types.ModelInfo { return &types.ModelInfo{Name: "mock"} }
func (m *mockProvider) GetModel() string               { return "mock" }
func (m *mockProvider) GetBaseURL() string             { return "" }

func newTestGenerator(p llm.Provider) *LLMGenerator {
	return NewLLMGenerator(p, logging.Discard(), WithTokenCounter(EstimateTokens))
}

func TestCleanDocument(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"raw html", "<html></html>", "<html></html>"},
		{"html fence", "```html\n<html></html>\n```", "<html></html>"},
		{"bare fence", "```\n<p>x</p>\n```\n", "<p>x</p>"},
		{"thinking block", "<thinking>\nplan\n</thinking>\n<html></html>", "<html></html>"},
		{"surrounding space", "\n\n  <div></div>  \n", "<div></div>"},
		{"only fences", "```html\n```", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanDocument(tt.raw))
		})
	}
}

func TestDocumentTitle(t *testing.T) {
	assert.Equal(t, "Tic Tac Toe", DocumentTitle("<html><head><title> Tic Tac Toe </title></head><body></body></html>"))
	assert.Equal(t, "", DocumentTitle("<p>no title</p>"))
	assert.Equal(t, "", DocumentTitle(""))
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 1, EstimateTokens("abc"))
	assert.Equal(t, 2, EstimateTokens("abcde"))
}

func TestUserPrompt(t *testing.T) {
	p := UserPrompt("  create tic tac toe app ")
	assert.Contains(t, p, `"create tic tac toe app"`)
	assert.Contains(t, p, "raw HTML")
}

func TestLLMGenerator_Generate(t *testing.T) {
	p := &mockProvider{reply: "```html\n<!DOCTYPE html><html><head><title>Clock</title></head></html>\n```"}
	g := newTestGenerator(p)

	doc, err := g.Generate(context.Background(), "a clock")
	require.NoError(t, err)
	assert.Equal(t, "<!DOCTYPE html><html><head><title>Clock</title></head></html>", doc)

	require.Len(t, p.received, 2)
	assert.Equal(t, types.RoleSystem, p.received[0].Role)
	assert.Equal(t, SystemPrompt, p.received[0].Content)
	assert.Equal(t, types.RoleUser, p.received[1].Role)
	assert.Contains(t, p.received[1].Content, `"a clock"`)
}

func TestLLMGenerator_ProviderError(t *testing.T) {
	upstream := errors.New("API request failed with status 429: rate limited")
	g := newTestGenerator(&mockProvider{err: upstream})

	_, err := g.Generate(context.Background(), "x")
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.ErrorIs(t, err, upstream)
}

func TestLLMGenerator_EmptyDocument(t *testing.T) {
	g := newTestGenerator(&mockProvider{reply: "<thinking>nothing to say</thinking>\n```html\n```"})

	_, err := g.Generate(context.Background(), "x")
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestService_SubmitAgentPrompt(t *testing.T) {
	svc := NewService(GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		return "<p>" + prompt + "</p>", nil
	}), time.Second, logging.Discard())

	res := svc.SubmitAgentPrompt(context.Background(), "  hello ")
	assert.Equal(t, types.NewAgentSuccess("<p>hello</p>"), res)
}

func TestService_Failure(t *testing.T) {
	svc := NewService(GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		return "", errors.New("network unreachable")
	}), 0, logging.Discard())

	res := svc.SubmitAgentPrompt(context.Background(), "x")
	assert.False(t, res.Success)
	assert.Equal(t, "network unreachable", res.Error)
	assert.Empty(t, res.Document)
}

func TestService_EmptyPrompt(t *testing.T) {
	called := false
	svc := NewService(GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		called = true
		return "x", nil
	}), 0, logging.Discard())

	res := svc.SubmitAgentPrompt(context.Background(), "   ")
	assert.False(t, res.Success)
	assert.Equal(t, ErrEmptyPrompt.Error(), res.Error)
	assert.False(t, called)
}

func TestService_Timeout(t *testing.T) {
	svc := NewService(GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}), 20*time.Millisecond, logging.Discard())

	res := svc.SubmitAgentPrompt(context.Background(), "slow")
	assert.False(t, res.Success)
	assert.Equal(t, "generation timed out after 20ms", res.Error)
}
