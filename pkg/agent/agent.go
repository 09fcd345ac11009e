// Package agent provides the core agent interface and DefaultAgent
// implementation for the daykeep assistant runtime.
//
// The DefaultAgent is available directly from this package for simple usage:
//
//	import "github.com/daykeep/daykeep/pkg/agent"
//	ag := agent.NewDefaultAgent(provider, agent.WithPersona(prompts.AssistantPersonaPrompt))
//
// The package is organized with subpackages for specialized functionality:
//   - core: Internal stream processing utilities
//   - memory: Conversation history storage
//   - tools: Tool/function calling system
//   - prompts: System prompt construction and error recovery messages
package agent

import (
	"context"

	"github.com/daykeep/daykeep/pkg/llm"
	"github.com/daykeep/daykeep/pkg/types"
)

// Agent is what the CLI and TUI executors run. An agent owns its own
// goroutine and conversation state; executors talk to it purely over the
// channels from GetChannels, feeding Input values in and draining
// AgentEvents out.
type Agent interface {
	// Start launches the agent loop in a goroutine and returns once the
	// loop is listening on its input channel. The loop keeps running until
	// the context is canceled, the shutdown channel closes, or it hits an
	// unrecoverable error.
	Start(ctx context.Context) error

	// Shutdown stops the agent, letting any in-flight turn finish first.
	// It returns when the loop has exited or the context is canceled.
	Shutdown(ctx context.Context) error

	// GetChannels exposes the input, event and shutdown channels the
	// executor drives the agent through.
	GetChannels() *types.AgentChannels

	// GetTool looks up a registered tool by name, nil when absent.
	GetTool(name string) interface{}

	// GetTools lists every registered tool, built-in and domain alike.
	GetTools() []interface{}

	// GetContextInfo reports context statistics for the status bar and
	// for debugging: prompt size, tool inventory, history and token usage.
	GetContextInfo() *ContextInfo

	// GetHistory returns a copy of the conversation history, used by
	// executors to persist the session between runs.
	GetHistory() []*types.Message

	// SetProvider swaps the LLM provider without restarting the agent,
	// e.g. after the user edits the model in config. The new provider is
	// picked up on the next iteration.
	SetProvider(provider llm.Provider) error
}

// ContextInfo is a snapshot of an agent's context window usage.
type ContextInfo struct {
	// System prompt
	SystemPromptTokens int
	CustomInstructions bool

	// Tool system
	ToolCount  int
	ToolTokens int
	ToolNames  []string

	// Message history
	MessageCount       int
	ConversationTurns  int
	ConversationTokens int

	// Token usage - current context
	CurrentContextTokens int
	MaxContextTokens     int
	FreeTokens           int
	UsagePercent         float64

	// Token usage - cumulative across all API calls
	// These are filled in by the executor from its own tracking
	TotalPromptTokens     int
	TotalCompletionTokens int
	TotalTokens           int
}
