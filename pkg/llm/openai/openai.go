// Package openai provides an OpenAI-compatible LLM provider.
//
// Requests are sent as raw HTTP and the SSE stream is parsed directly, which
// tolerates the comment lines and small format differences of compatible
// servers. Message payloads use the openai-go parameter types.
package openai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/entrhq/agentbrowser/pkg/llm"
	"github.com/entrhq/agentbrowser/pkg/llm/parser"
	"github.com/entrhq/agentbrowser/pkg/types"
	"github.com/openai/openai-go"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o"
)

// ErrMissingAPIKey is returned by NewProvider when no key is configured.
var ErrMissingAPIKey = errors.New("OpenAI API key is required (provide via parameter or OPENAI_API_KEY environment variable)")

// Provider implements llm.Provider for OpenAI-compatible APIs.
type Provider struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	model       string
	temperature *float64
	maxTokens   int
	modelInfo   *types.ModelInfo
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

func WithModel(model string) ProviderOption {
	return func(p *Provider) {
		p.model = model
	}
}

// WithBaseURL points the provider at Azure OpenAI, a local model server or
// another compatible API.
func WithBaseURL(baseURL string) ProviderOption {
	return func(p *Provider) {
		p.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithTemperature sets the sampling temperature. The server default is
// used when unset.
func WithTemperature(temperature float64) ProviderOption {
	return func(p *Provider) {
		p.temperature = &temperature
	}
}

// WithMaxTokens caps the completion length.
func WithMaxTokens(n int) ProviderOption {
	return func(p *Provider) {
		p.maxTokens = n
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) ProviderOption {
	return func(p *Provider) {
		p.httpClient = client
	}
}

// NewProvider creates a provider. An empty apiKey falls back to
// OPENAI_API_KEY, and an unset base URL falls back to OPENAI_BASE_URL.
func NewProvider(apiKey string, opts ...ProviderOption) (*Provider, error) {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	p := &Provider{
		model:      DefaultModel,
		apiKey:     apiKey,
		httpClient: &http.Client{},
		baseURL:    DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.baseURL == DefaultBaseURL {
		if envBaseURL := os.Getenv("OPENAI_BASE_URL"); envBaseURL != "" {
			p.baseURL = strings.TrimRight(envBaseURL, "/")
		}
	}

	p.modelInfo = &types.ModelInfo{
		Metadata:          make(map[string]interface{}),
		Provider:          "openai",
		Name:              p.model,
		MaxTokens:         8192,
		SupportsStreaming: true,
	}
	if p.baseURL != DefaultBaseURL {
		p.modelInfo.Metadata["base_url"] = p.baseURL
	}
	if p.temperature != nil {
		p.modelInfo.Metadata["temperature"] = *p.temperature
	}
	return p, nil
}

type chatRequest struct {
	Model       string                                   `json:"model"`
	Messages    []openai.ChatCompletionMessageParamUnion `json:"messages"`
	Stream      bool                                     `json:"stream"`
	Temperature *float64                                 `json:"temperature,omitempty"`
	MaxTokens   int                                      `json:"max_tokens,omitempty"`
}

type streamEvent struct {
	Choices []struct {
		Delta struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
}

// StreamCompletion sends messages and streams the response. Content inside
// <thinking> blocks is delivered as thinking chunks.
func (p *Provider) StreamCompletion(ctx context.Context, messages []*types.Message) (<-chan *llm.StreamChunk, error) {
	resp, err := p.send(ctx, messages)
	if err != nil {
		return nil, err
	}

	chunks := make(chan *llm.StreamChunk, 10)
	go p.readStream(ctx, resp, chunks)
	return chunks, nil
}

func (p *Provider) send(ctx context.Context, messages []*types.Message) (*http.Response, error) {
	body, err := json.Marshal(chatRequest{
		Model:       p.model,
		Messages:    convertToOpenAIMessages(messages),
		Stream:      true,
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		msg, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, fmt.Errorf("API request failed with status %d (failed to read error body: %w)", resp.StatusCode, readErr)
		}
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return resp, nil
}

func (p *Provider) readStream(ctx context.Context, resp *http.Response, chunks chan<- *llm.StreamChunk) {
	defer close(chunks)
	defer resp.Body.Close()

	send := func(c *llm.StreamChunk) bool {
		if c == nil {
			return true
		}
		select {
		case chunks <- c:
			return true
		case <-ctx.Done():
			chunks <- &llm.StreamChunk{Error: ctx.Err()}
			return false
		}
	}
	flush := func(th *parser.ThinkingParser) bool {
		thinking, message := th.Flush()
		return send(thinking) && send(message)
	}

	thinking := parser.NewThinkingParser()
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	role := ""

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue // blank separators and ": keep-alive" comments
		}
		data := strings.TrimPrefix(line, "data: ")
		if data == "[DONE]" {
			if flush(thinking) {
				send(&llm.StreamChunk{Role: role, Finished: true})
			}
			return
		}

		var ev streamEvent
		if err := json.Unmarshal([]byte(data), &ev); err != nil || len(ev.Choices) == 0 {
			continue
		}
		choice := ev.Choices[0]
		if role == "" && choice.Delta.Role != "" {
			role = choice.Delta.Role
		}

		th, msg := thinking.Parse(choice.Delta.Content)
		for _, c := range []*llm.StreamChunk{th, msg} {
			if c != nil {
				c.Role = role
			}
			if !send(c) {
				return
			}
		}
	}

	if !flush(thinking) {
		return
	}
	if err := scanner.Err(); err != nil {
		send(&llm.StreamChunk{Error: fmt.Errorf("stream read error: %w", err)})
	}
}

// Complete accumulates the answer content of a streamed completion.
func (p *Provider) Complete(ctx context.Context, messages []*types.Message) (*types.Message, error) {
	stream, err := p.StreamCompletion(ctx, messages)
	if err != nil {
		return nil, err
	}

	var content strings.Builder
	role := ""
	for chunk := range stream {
		if chunk.IsError() {
			return nil, chunk.Error
		}
		if chunk.Role != "" {
			role = chunk.Role
		}
		if !chunk.IsThinking() {
			content.WriteString(chunk.Content)
		}
	}
	if role == "" {
		role = string(types.RoleAssistant)
	}
	return &types.Message{Role: types.MessageRole(role), Content: content.String()}, nil
}

func (p *Provider) GetModelInfo() *types.ModelInfo {
	return p.modelInfo
}

func (p *Provider) GetModel() string {
	return p.model
}

func (p *Provider) GetBaseURL() string {
	return p.baseURL
}

func convertToOpenAIMessages(messages []*types.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case types.RoleSystem:
			out = append(out, openai.SystemMessage(msg.Content))
		case types.RoleAssistant:
			out = append(out, openai.AssistantMessage(msg.Content))
		default:
			out = append(out, openai.UserMessage(msg.Content))
		}
	}
	return out
}
