// Package openai implements llm.Provider against any OpenAI-compatible
// chat completions API.
//
// Groq exposes the same chat completions API, so the provider defaults to
// Groq's endpoint and works unchanged against OpenAI, Azure, or any local
// compatible server via WithBaseURL.
//
// Example usage:
//
//	package main
//
//	import (
//	    "context"
//	    "fmt"
//	    "os"
//
//	    "github.com/daykeep/daykeep/pkg/llm/openai"
//	    "github.com/daykeep/daykeep/pkg/types"
//	)
//
//	func main() {
//	    provider, err := openai.NewProvider(
//	        os.Getenv("GROQ_API_KEY"),
//	        openai.WithModel("llama-3.3-70b-versatile"),
//	    )
//	    if err != nil {
//	        panic(err)
//	    }
//
//	    msg, err := provider.Complete(context.Background(), []*types.Message{
//	        types.NewUserMessage("Summarize my day."),
//	    })
//	    if err != nil {
//	        panic(err)
//	    }
//
//	    fmt.Println(msg.Content)
//	}
package openai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/daykeep/daykeep/pkg/llm"
	"github.com/daykeep/daykeep/pkg/llm/parser"
	"github.com/daykeep/daykeep/pkg/types"
	"github.com/openai/openai-go"
)

const (
	// DefaultBaseURL is the Groq OpenAI-compatible API base URL.
	DefaultBaseURL = "https://api.groq.com/openai/v1"

	// DefaultModel is the model used when none is configured.
	DefaultModel = "llama-3.3-70b-versatile"

	sseDataPrefix = "data: "
	sseDoneMarker = "[DONE]"
)

// Provider implements the LLM provider interface for OpenAI-compatible APIs.
type Provider struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	model      string
	modelInfo  *types.ModelInfo
}

// ProviderOption configures a Provider at construction time.
type ProviderOption func(*Provider)

// WithModel overrides the default completion model.
func WithModel(model string) ProviderOption {
	return func(p *Provider) {
		p.model = model
	}
}

// WithBaseURL points the provider at a different compatible endpoint.
// This enables using plain OpenAI, Azure OpenAI, or local compatible servers.
func WithBaseURL(baseURL string) ProviderOption {
	return func(p *Provider) {
		p.baseURL = baseURL
	}
}

// NewProvider creates a new provider with the given API key.
//
// If apiKey is empty, GROQ_API_KEY is consulted first, then OPENAI_API_KEY.
// If baseURL is not provided via WithBaseURL, the OPENAI_BASE_URL environment
// variable is checked before falling back to the Groq endpoint.
//
// Example:
//
//	// Groq (default endpoint)
//	provider, _ := openai.NewProvider("gsk-...")
//
//	// Plain OpenAI
//	provider, _ := openai.NewProvider("sk-...",
//	    openai.WithBaseURL("https://api.openai.com/v1"),
//	    openai.WithModel("gpt-4o"))
//
//	// Local OpenAI-compatible API
//	provider, _ := openai.NewProvider("local",
//	    openai.WithBaseURL("http://localhost:8080/v1"))
func NewProvider(apiKey string, opts ...ProviderOption) (*Provider, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GROQ_API_KEY")
	}
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required (provide via parameter or GROQ_API_KEY / OPENAI_API_KEY environment variable)")
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

	// Options win over the environment, the environment over the default
	if p.baseURL == DefaultBaseURL {
		if envBaseURL := os.Getenv("OPENAI_BASE_URL"); envBaseURL != "" {
			p.baseURL = envBaseURL
		}
	}

	p.modelInfo = &types.ModelInfo{
		Provider:          "openai",
		Name:              p.model,
		SupportsStreaming: true,
		MaxTokens:         8192, // varies by model
		Metadata:          make(map[string]interface{}),
	}
	if p.baseURL != DefaultBaseURL {
		p.modelInfo.Metadata["base_url"] = p.baseURL
	}

	return p, nil
}

// CloneWithModel implements llm.ModelCloner: the copy targets the given
// model while sharing p's HTTP client, key and base URL.
func (p *Provider) CloneWithModel(model string) llm.Provider {
	clone := *p // shares httpClient (connection pool), apiKey, baseURL
	clone.model = model
	if p.modelInfo != nil {
		mi := *p.modelInfo // copy modelInfo so Name mutation doesn't affect original
		mi.Name = model
		clone.modelInfo = &mi
	}
	return &clone
}

// StreamCompletion sends messages to the API and streams back response chunks.
//
// The returned channel emits StreamChunk instances as the response is
// generated and is closed when streaming completes or an error occurs.
//
// SSE events are read over raw HTTP rather than through the SDK's stream
// helper: compatible servers differ in comment lines and chunk shapes, and
// the thinking/message split needs to happen on the raw deltas anyway.
func (p *Provider) StreamCompletion(ctx context.Context, messages []*types.Message) (<-chan *llm.StreamChunk, error) {
	resp, err := p.openStream(ctx, messages)
	if err != nil {
		return nil, err
	}

	out := make(chan *llm.StreamChunk, 10)
	s := &sseStream{
		ctx:      ctx,
		resp:     resp,
		out:      out,
		thinking: parser.NewThinkingParser(),
		awaiting: true,
	}
	go s.run()
	return out, nil
}

// openStream issues the chat completions request and validates the status.
func (p *Provider) openStream(ctx context.Context, messages []*types.Message) (*http.Response, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"model":    p.model,
		"messages": toChatMessages(messages),
		"stream":   true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/chat/completions", bytes.NewReader(payload))
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
		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("API request failed with status %d (failed to read error body: %w)", resp.StatusCode, readErr)
		}
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	return resp, nil
}

// sseStream drains one chat completions SSE response into the chunk channel,
// routing deltas through the thinking parser as they arrive.
type sseStream struct {
	ctx      context.Context
	resp     *http.Response
	out      chan<- *llm.StreamChunk
	thinking *parser.ThinkingParser
	awaiting bool // still waiting for the first role-bearing delta
}

// chunkDelta mirrors the part of the SSE payload the stream consumes.
type chunkDelta struct {
	Choices []struct {
		Delta struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
}

func (s *sseStream) run() {
	defer close(s.out)
	defer s.resp.Body.Close()

	scanner := bufio.NewScanner(s.resp.Body)
	for scanner.Scan() {
		line := scanner.Text()

		// Only data lines matter; blank lines and ": comment" keepalives
		// are part of the SSE framing
		if !strings.HasPrefix(line, sseDataPrefix) {
			continue
		}
		data := strings.TrimPrefix(line, sseDataPrefix)

		if data == sseDoneMarker {
			s.flushParser()
			s.emit(&llm.StreamChunk{Finished: true})
			return
		}

		if !s.handleData(data) {
			return
		}
	}

	s.flushParser()

	if err := scanner.Err(); err != nil {
		s.out <- &llm.StreamChunk{Error: fmt.Errorf("stream read error: %w", err)}
	}
}

// handleData processes one SSE data payload. It returns false when the
// stream should stop (context cancelled).
func (s *sseStream) handleData(data string) bool {
	var payload chunkDelta
	if err := json.Unmarshal([]byte(data), &payload); err != nil {
		return true // skip malformed chunks
	}
	if len(payload.Choices) == 0 {
		return true
	}

	choice := payload.Choices[0]
	role := ""
	if s.awaiting && choice.Delta.Role != "" {
		role = choice.Delta.Role
		s.awaiting = false
	}

	if choice.Delta.Content != "" {
		thinkingChunk, messageChunk := s.thinking.Parse(choice.Delta.Content)
		for _, c := range []*llm.StreamChunk{thinkingChunk, messageChunk} {
			if c == nil {
				continue
			}
			c.Role = role
			if !s.emit(c) {
				return false
			}
		}
	}

	if choice.FinishReason != nil && *choice.FinishReason == "stop" {
		return s.emit(&llm.StreamChunk{Role: role, Finished: true})
	}
	if role != "" {
		return s.emit(&llm.StreamChunk{Role: role})
	}
	return true
}

// flushParser drains whatever the thinking parser still buffers.
func (s *sseStream) flushParser() {
	thinking, message := s.thinking.Flush()
	for _, c := range []*llm.StreamChunk{thinking, message} {
		if c == nil {
			continue
		}
		if !s.emit(c) {
			return
		}
	}
}

// emit sends a chunk, reporting cancellation as an error chunk.
func (s *sseStream) emit(chunk *llm.StreamChunk) bool {
	select {
	case s.out <- chunk:
		return true
	case <-s.ctx.Done():
		s.out <- &llm.StreamChunk{Error: s.ctx.Err()}
		return false
	}
}

// Complete runs StreamCompletion to the end and folds the chunks into
// one assistant message.
func (p *Provider) Complete(ctx context.Context, messages []*types.Message) (*types.Message, error) {
	stream, err := p.StreamCompletion(ctx, messages)
	if err != nil {
		return nil, err
	}

	var content, role string
	for chunk := range stream {
		if chunk.IsError() {
			return nil, chunk.Error
		}
		if chunk.Role != "" {
			role = chunk.Role
		}
		content += chunk.Content
	}

	if role == "" {
		role = string(types.RoleAssistant)
	}

	return &types.Message{
		Role:    types.MessageRole(role),
		Content: content,
	}, nil
}

// GetModelInfo returns information about the model being used.
func (p *Provider) GetModelInfo() *types.ModelInfo {
	return p.modelInfo
}

// GetModel reports the active completion model.
func (p *Provider) GetModel() string {
	return p.model
}

// GetBaseURL reports the API endpoint in use.
func (p *Provider) GetBaseURL() string {
	return p.baseURL
}

// GetAPIKey reports the configured API key.
func (p *Provider) GetAPIKey() string {
	return p.apiKey
}

// toChatMessages converts daykeep messages into the SDK's chat message
// union. Unknown roles degrade to user messages rather than failing the
// whole request.
func toChatMessages(messages []*types.Message) []openai.ChatCompletionMessageParamUnion {
	converted := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case types.RoleSystem:
			converted = append(converted, openai.SystemMessage(msg.Content))
		case types.RoleUser:
			converted = append(converted, openai.UserMessage(msg.Content))
		case types.RoleAssistant:
			converted = append(converted, openai.AssistantMessage(msg.Content))
		default:
			converted = append(converted, openai.UserMessage(msg.Content))
		}
	}
	return converted
}
