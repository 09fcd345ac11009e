// Package types defines the shared message, event, and input types used
// across the daykeep agent runtime and its executors.
package types

// MessageRole identifies the author of a conversation message.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleTool      MessageRole = "tool"
)

// Message is a single entry in a conversation transcript.
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

// NewSystemMessage creates a system-role message.
func NewSystemMessage(content string) *Message {
	return &Message{Role: RoleSystem, Content: content}
}

// NewUserMessage creates a user-role message.
func NewUserMessage(content string) *Message {
	return &Message{Role: RoleUser, Content: content}
}

// NewAssistantMessage creates an assistant-role message.
func NewAssistantMessage(content string) *Message {
	return &Message{Role: RoleAssistant, Content: content}
}

// NewToolMessage creates a tool-role message holding a tool result.
// Providers that only speak system/user/assistant remap this role
// before sending, see prompts.BuildMessages.
func NewToolMessage(content string) *Message {
	return &Message{Role: RoleTool, Content: content}
}

// ModelInfo describes the LLM model behind a provider.
type ModelInfo struct {
	Provider          string
	Name              string
	MaxTokens         int
	SupportsStreaming bool
	Metadata          map[string]interface{}
}
