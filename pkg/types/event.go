package types

// AgentEventType names one kind of agent event.
type AgentEventType string

// Streaming phases come in start/content/end triples so surfaces can open
// a styled block, append deltas, and close it. The remaining events report
// tool activity, API calls, and turn lifecycle.
const (
	EventTypeThinkingStart   AgentEventType = "thinking_start"
	EventTypeThinkingContent AgentEventType = "thinking_content"
	EventTypeThinkingEnd     AgentEventType = "thinking_end"
	EventTypeToolCallStart   AgentEventType = "tool_call_start"
	EventTypeToolCallContent AgentEventType = "tool_call_content"
	EventTypeToolCallEnd     AgentEventType = "tool_call_end"
	EventTypeMessageStart    AgentEventType = "message_start"
	EventTypeMessageContent  AgentEventType = "message_content"
	EventTypeMessageEnd      AgentEventType = "message_end"
	EventTypeToolCall        AgentEventType = "tool_call"
	EventTypeToolResult      AgentEventType = "tool_result"
	EventTypeToolResultError AgentEventType = "tool_result_error"
	EventTypeNoToolCall      AgentEventType = "no_tool_call"
	EventTypeAPICallStart    AgentEventType = "api_call_start"
	EventTypeAPICallEnd      AgentEventType = "api_call_end"
	EventTypeUpdateBusy      AgentEventType = "update_busy"
	EventTypeTurnEnd         AgentEventType = "turn_end"
	EventTypeError           AgentEventType = "error"
	EventTypeTokenUsage      AgentEventType = "token_usage"
)

// AgentEvent is one event on the agent's event channel. Only the fields
// relevant to the event's Type are populated.
type AgentEvent struct {
	// Metadata carries optional extra data, e.g. api_name or tool_name.
	Metadata map[string]interface{}

	// ToolInput holds the parsed tool arguments on tool_call events.
	ToolInput map[string]interface{}

	// ToolOutput holds the tool's result on tool_result events.
	ToolOutput interface{}

	// Error is set on error and tool_result_error events.
	Error error

	// Content is the text delta on thinking/message/tool-call content events.
	Content string

	// ToolName identifies the tool on tool events.
	ToolName string

	// Type says which kind of event this is.
	Type AgentEventType

	// IsBusy is the new busy state on update_busy events.
	IsBusy bool

	// TokenUsage is set on token_usage events.
	TokenUsage *TokenUsage

	// APICallInfo is set on api_call_start events.
	APICallInfo *APICallInfo
}

// TokenUsage reports how many tokens one LLM call consumed.
type TokenUsage struct {
	// PromptTokens counts the tokens sent to the model.
	PromptTokens int

	// CompletionTokens counts the tokens the model generated.
	CompletionTokens int

	// TotalTokens is PromptTokens plus CompletionTokens.
	TotalTokens int
}

// APICallInfo describes the context window state when a call starts.
type APICallInfo struct {
	// ContextTokens is the size of the conversation being sent.
	ContextTokens int

	// MaxContextTokens is the model's context window limit.
	MaxContextTokens int
}

func newEvent(t AgentEventType) *AgentEvent {
	return &AgentEvent{Type: t, Metadata: make(map[string]interface{})}
}

func newContentEvent(t AgentEventType, content string) *AgentEvent {
	e := newEvent(t)
	e.Content = content
	return e
}

// NewThinkingStartEvent opens a thinking block.
func NewThinkingStartEvent() *AgentEvent { return newEvent(EventTypeThinkingStart) }

// NewThinkingContentEvent appends a delta to the open thinking block.
func NewThinkingContentEvent(content string) *AgentEvent {
	return newContentEvent(EventTypeThinkingContent, content)
}

// NewThinkingEndEvent closes the thinking block.
func NewThinkingEndEvent() *AgentEvent { return newEvent(EventTypeThinkingEnd) }

// NewToolCallStartEvent opens a tool call block.
func NewToolCallStartEvent() *AgentEvent { return newEvent(EventTypeToolCallStart) }

// NewToolCallContentEvent appends a delta of raw tool call XML.
func NewToolCallContentEvent(content string) *AgentEvent {
	return newContentEvent(EventTypeToolCallContent, content)
}

// NewToolCallEndEvent closes the tool call block.
func NewToolCallEndEvent() *AgentEvent { return newEvent(EventTypeToolCallEnd) }

// NewMessageStartEvent opens a user-visible message block.
func NewMessageStartEvent() *AgentEvent { return newEvent(EventTypeMessageStart) }

// NewMessageContentEvent appends a delta to the open message block.
func NewMessageContentEvent(content string) *AgentEvent {
	return newContentEvent(EventTypeMessageContent, content)
}

// NewMessageEndEvent closes the message block.
func NewMessageEndEvent() *AgentEvent { return newEvent(EventTypeMessageEnd) }

// NewToolCallEvent announces a parsed tool invocation.
func NewToolCallEvent(toolName string, toolInput map[string]interface{}) *AgentEvent {
	e := newEvent(EventTypeToolCall)
	e.ToolName = toolName
	e.ToolInput = toolInput
	return e
}

// NewToolResultEvent carries a tool's successful output.
func NewToolResultEvent(toolName string, output interface{}) *AgentEvent {
	e := newEvent(EventTypeToolResult)
	e.ToolName = toolName
	e.ToolOutput = output
	return e
}

// NewToolResultErrorEvent carries a tool execution failure.
func NewToolResultErrorEvent(toolName string, err error) *AgentEvent {
	e := newEvent(EventTypeToolResultError)
	e.ToolName = toolName
	e.Error = err
	return e
}

// NewNoToolCallEvent flags a model response that contained no tool call.
func NewNoToolCallEvent() *AgentEvent { return newEvent(EventTypeNoToolCall) }

// NewAPICallStartEvent marks the start of a provider call, with the
// context window numbers surfaces display.
func NewAPICallStartEvent(apiName string, contextTokens, maxContextTokens int) *AgentEvent {
	e := newEvent(EventTypeAPICallStart)
	e.Metadata["api_name"] = apiName
	e.APICallInfo = &APICallInfo{
		ContextTokens:    contextTokens,
		MaxContextTokens: maxContextTokens,
	}
	return e
}

// NewAPICallEndEvent marks the end of a provider call.
func NewAPICallEndEvent(apiName string) *AgentEvent {
	e := newEvent(EventTypeAPICallEnd)
	e.Metadata["api_name"] = apiName
	return e
}

// NewUpdateBusyEvent toggles the busy indicator.
func NewUpdateBusyEvent(isBusy bool) *AgentEvent {
	e := newEvent(EventTypeUpdateBusy)
	e.IsBusy = isBusy
	return e
}

// NewTurnEndEvent signals that the agent finished its turn.
func NewTurnEndEvent() *AgentEvent { return newEvent(EventTypeTurnEnd) }

// NewErrorEvent wraps an error for the event stream.
func NewErrorEvent(err error) *AgentEvent {
	e := newEvent(EventTypeError)
	e.Error = err
	return e
}

// NewTokenUsageEvent reports the token counts of one provider call.
func NewTokenUsageEvent(promptTokens, completionTokens, totalTokens int) *AgentEvent {
	e := newEvent(EventTypeTokenUsage)
	e.TokenUsage = &TokenUsage{
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		TotalTokens:      totalTokens,
	}
	return e
}

// WithMetadata sets one metadata key and returns the event for chaining.
func (e *AgentEvent) WithMetadata(key string, value interface{}) *AgentEvent {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// IsThinkingEvent reports whether this belongs to a thinking block.
func (e *AgentEvent) IsThinkingEvent() bool {
	switch e.Type {
	case EventTypeThinkingStart, EventTypeThinkingContent, EventTypeThinkingEnd:
		return true
	}
	return false
}

// IsMessageEvent reports whether this belongs to a message block.
func (e *AgentEvent) IsMessageEvent() bool {
	switch e.Type {
	case EventTypeMessageStart, EventTypeMessageContent, EventTypeMessageEnd:
		return true
	}
	return false
}

// IsToolEvent reports whether this concerns tool execution.
func (e *AgentEvent) IsToolEvent() bool {
	switch e.Type {
	case EventTypeToolCall, EventTypeToolResult, EventTypeToolResultError, EventTypeNoToolCall:
		return true
	}
	return false
}

// IsAPIEvent reports whether this marks a provider call boundary.
func (e *AgentEvent) IsAPIEvent() bool {
	return e.Type == EventTypeAPICallStart || e.Type == EventTypeAPICallEnd
}

// IsContentEvent reports whether this carries a streamed text delta.
func (e *AgentEvent) IsContentEvent() bool {
	return e.Type == EventTypeThinkingContent || e.Type == EventTypeMessageContent
}

// IsErrorEvent reports whether this carries an error.
func (e *AgentEvent) IsErrorEvent() bool {
	return e.Type == EventTypeError
}
