package agent

import (
	"context"
	"fmt"
	"sync"

	"github.com/daykeep/daykeep/pkg/agent/memory"
	"github.com/daykeep/daykeep/pkg/agent/prompts"
	"github.com/daykeep/daykeep/pkg/agent/tools"
	"github.com/daykeep/daykeep/pkg/llm"
	"github.com/daykeep/daykeep/pkg/llm/tokenizer"
	"github.com/daykeep/daykeep/pkg/logging"
	"github.com/daykeep/daykeep/pkg/types"
)

var agentDebugLog *logging.Logger

func init() {
	var err error
	agentDebugLog, err = logging.NewLogger("agent")
	if err != nil {
		agentDebugLog.Warnf("Failed to initialize agent logger, using stderr fallback: %v", err)
	}
}

// builtinTools are always registered (unless disabled) and cannot be
// overridden by domain tools. They are the loop-breaking surface the model
// uses to end a turn.
var builtinTools = map[string]func() tools.Tool{
	"task_completion": func() tools.Tool { return tools.NewTaskCompletionTool() },
	"ask_question":    func() tools.Tool { return tools.NewAskQuestionTool() },
	"converse":        func() tools.Tool { return tools.NewConverseTool() },
}

// DefaultAgent implements Agent: it runs each user message through the
// agent loop, calling the LLM provider and executing tools until a
// loop-breaking tool ends the turn, with the conversation held in memory.
type DefaultAgent struct {
	provider           llm.Provider
	channels           *types.AgentChannels
	persona            string
	customInstructions string
	bufferSize         int
	metadata           map[string]interface{}

	tools         map[string]tools.Tool
	toolsMu       sync.RWMutex
	disabledTools map[string]bool
	memory        memory.Memory

	cancelMu     sync.Mutex
	cancelStream context.CancelFunc

	running bool
	runMu   sync.Mutex

	// Ring buffer of recent error messages, used to detect repeated
	// failures and break out of doomed loops
	lastErrors [5]string
	errorIndex int

	tokenizer *tokenizer.Tokenizer
}

// AgentOption configures a DefaultAgent at construction time.
type AgentOption func(*DefaultAgent)

// WithPersona sets the persona section of the agent's system prompt.
// Use prompts.AssistantPersonaPrompt for the day-to-day task manager or
// prompts.ReviewerPersonaPrompt for the end-of-day reviewer.
func WithPersona(persona string) AgentOption {
	return func(a *DefaultAgent) {
		a.persona = persona
	}
}

// WithCustomInstructions appends user-provided instructions to the
// system prompt, after the persona section.
func WithCustomInstructions(instructions string) AgentOption {
	return func(a *DefaultAgent) {
		a.customInstructions = instructions
	}
}

// WithBufferSize overrides the default buffer size of the agent's channels.
func WithBufferSize(size int) AgentOption {
	return func(a *DefaultAgent) {
		a.bufferSize = size
	}
}

// WithMetadata attaches arbitrary metadata to the agent.
func WithMetadata(metadata map[string]interface{}) AgentOption {
	return func(a *DefaultAgent) {
		a.metadata = metadata
	}
}

// WithDisabledTools keeps the named built-in tools out of the registry.
func WithDisabledTools(toolNames ...string) AgentOption {
	return func(a *DefaultAgent) {
		if a.disabledTools == nil {
			a.disabledTools = make(map[string]bool)
		}
		for _, name := range toolNames {
			a.disabledTools[name] = true
		}
	}
}

// WithHistory preloads the agent's conversation memory, typically with a
// transcript restored from session storage.
func WithHistory(messages []*types.Message) AgentOption {
	return func(a *DefaultAgent) {
		if conv, ok := a.memory.(*memory.ConversationMemory); ok {
			conv.Load(messages)
		}
	}
}

// NewDefaultAgent builds an agent around the given provider and applies
// the options.
func NewDefaultAgent(provider llm.Provider, opts ...AgentOption) *DefaultAgent {
	tok, err := tokenizer.New()
	if err != nil {
		tok = nil // token counts fall back to estimation
	}

	a := &DefaultAgent{
		provider:   provider,
		bufferSize: 10,
		tools:      make(map[string]tools.Tool),
		memory:     memory.NewConversationMemory(),
		tokenizer:  tok,
	}

	// Options first, so disabledTools is honored during registration
	for _, opt := range opts {
		opt(a)
	}

	a.RegisterDefaultTools()

	a.channels = types.NewAgentChannels(a.bufferSize)
	return a
}

// RegisterDefaultTools installs the built-in loop-breaking tools,
// respecting the disabled tools configuration.
func (a *DefaultAgent) RegisterDefaultTools() {
	for name, construct := range builtinTools {
		if a.disabledTools[name] {
			continue
		}
		a.tools[name] = construct()
	}
}

// Start launches the event loop; it errors if the agent already runs.
func (a *DefaultAgent) Start(ctx context.Context) error {
	a.runMu.Lock()
	defer a.runMu.Unlock()

	if a.running {
		return fmt.Errorf("agent is already running")
	}
	a.running = true

	go a.eventLoop(ctx)
	return nil
}

// Shutdown closes the shutdown channel and waits for the loop to exit.
func (a *DefaultAgent) Shutdown(ctx context.Context) error {
	close(a.channels.Shutdown)

	select {
	case <-a.channels.Done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// GetChannels exposes the channels the executor drives this agent through.
func (a *DefaultAgent) GetChannels() *types.AgentChannels {
	return a.channels
}

// eventLoop dispatches inputs until shutdown or context cancellation.
func (a *DefaultAgent) eventLoop(ctx context.Context) {
	defer a.channels.Close()
	defer func() {
		a.runMu.Lock()
		a.running = false
		a.runMu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			a.emitEvent(types.NewErrorEvent(ctx.Err()))
			return

		case <-a.channels.Shutdown:
			return

		case input := <-a.channels.Input:
			if input == nil {
				return
			}

			// Cancels run synchronously so they can interrupt a turn in
			// flight; everything else runs in its own goroutine to keep
			// the loop responsive to further cancels
			if input.IsCancel() {
				a.processInput(ctx, input)
				continue
			}
			go a.processInput(ctx, input)
		}
	}
}

// processInput routes one input to the cancel path or the turn path.
func (a *DefaultAgent) processInput(ctx context.Context, input *types.Input) {
	switch {
	case input.IsCancel():
		a.cancelMu.Lock()
		if a.cancelStream != nil {
			a.cancelStream()
			a.cancelStream = nil
		}
		a.cancelMu.Unlock()

	case input.IsUserInput():
		a.processUserInput(ctx, input.Content)
	}
}

// processUserInput runs one full turn of the agent loop for a user message.
func (a *DefaultAgent) processUserInput(ctx context.Context, content string) {
	a.memory.Add(types.NewUserMessage(content))

	// Each turn gets its own cancellable context, stored so a cancel
	// input can abort the stream mid-turn
	turnCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.cancelMu.Lock()
	a.cancelStream = cancel
	a.cancelMu.Unlock()

	defer func() {
		a.cancelMu.Lock()
		a.cancelStream = nil
		a.cancelMu.Unlock()
	}()

	a.emitEvent(types.NewUpdateBusyEvent(true))
	defer a.emitEvent(types.NewUpdateBusyEvent(false))

	a.runAgentLoop(turnCtx)

	a.emitEvent(types.NewTurnEndEvent())
}

// RegisterTool adds a domain tool to the agent's tool registry.
// Built-in tools (task_completion, ask_question, converse) are always
// available and cannot be overridden.
func (a *DefaultAgent) RegisterTool(tool tools.Tool) error {
	if tool == nil {
		return fmt.Errorf("tool cannot be nil")
	}

	name := tool.Name()
	if name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}
	if _, isBuiltin := builtinTools[name]; isBuiltin {
		return fmt.Errorf("cannot override built-in tool: %s", name)
	}

	a.toolsMu.Lock()
	defer a.toolsMu.Unlock()

	a.tools[name] = tool
	return nil
}

// GetTool looks a tool up by name, nil when absent.
func (a *DefaultAgent) GetTool(name string) interface{} {
	a.toolsMu.RLock()
	defer a.toolsMu.RUnlock()

	return a.tools[name]
}

// GetTools lists every registered tool, built-in and domain alike.
func (a *DefaultAgent) GetTools() []interface{} {
	a.toolsMu.RLock()
	defer a.toolsMu.RUnlock()

	toolsList := make([]interface{}, 0, len(a.tools))
	for _, tool := range a.tools {
		toolsList = append(toolsList, tool)
	}
	return toolsList
}

// GetHistory returns the current conversation transcript.
// The executor uses this to persist the session after each turn.
func (a *DefaultAgent) GetHistory() []*types.Message {
	return a.memory.GetAll()
}

// GetContextInfo snapshots prompt, tool and history token usage for the
// status bar and for debugging.
func (a *DefaultAgent) GetContextInfo() *ContextInfo {
	a.toolsMu.RLock()
	defer a.toolsMu.RUnlock()

	info := &ContextInfo{
		CustomInstructions: a.customInstructions != "",
		ToolCount:          len(a.tools),
	}
	for name := range a.tools {
		info.ToolNames = append(info.ToolNames, name)
	}

	// System prompt without tools vs the tools section alone, so the
	// display can attribute tokens to each
	basePrompt := prompts.NewPromptBuilder().
		WithPersona(a.persona).
		WithCustomInstructions(a.customInstructions).
		Build()

	toolsSection := ""
	if len(a.tools) > 0 {
		toolsSection = "<available_tools>\n" +
			prompts.FormatToolSchemas(a.visibleTools()) +
			"</available_tools>\n\n"
	}

	fullPrompt := prompts.NewPromptBuilder().
		WithPersona(a.persona).
		WithTools(a.visibleTools()).
		WithCustomInstructions(a.customInstructions).
		Build()

	messages := a.memory.GetAll()
	info.MessageCount = len(messages)
	for _, msg := range messages {
		if msg.Role == types.RoleUser {
			info.ConversationTurns++
		}
	}

	if a.tokenizer != nil {
		info.SystemPromptTokens = a.tokenizer.CountTokens(basePrompt)
		info.ToolTokens = a.tokenizer.CountTokens(toolsSection)
		info.ConversationTokens = a.tokenizer.CountMessagesTokens(messages)
		info.CurrentContextTokens = info.ConversationTokens + a.tokenizer.CountTokens(fullPrompt)
	} else {
		// Rough estimate of 1 token per 4 characters when the tokenizer
		// is unavailable
		for _, msg := range messages {
			info.ConversationTokens += (len(msg.Content) + len(string(msg.Role)) + 12) / 4
		}
		info.CurrentContextTokens = info.ConversationTokens + len(fullPrompt)/4
	}

	if mi := a.provider.GetModelInfo(); mi != nil {
		info.MaxContextTokens = mi.MaxTokens
	}
	if info.MaxContextTokens > 0 {
		info.FreeTokens = info.MaxContextTokens - info.CurrentContextTokens
		if info.FreeTokens < 0 {
			info.FreeTokens = 0
		}
		info.UsagePercent = float64(info.CurrentContextTokens) / float64(info.MaxContextTokens) * 100.0
	}

	// TotalPromptTokens / TotalCompletionTokens / TotalTokens are filled
	// by the executor from its own tracking
	return info
}

// GetProvider returns the agent's current LLM provider.
func (a *DefaultAgent) GetProvider() llm.Provider {
	return a.provider
}

// SetProvider swaps the LLM provider, e.g. after a config change. The
// new provider takes effect on the next iteration.
func (a *DefaultAgent) SetProvider(provider llm.Provider) error {
	if provider == nil {
		return fmt.Errorf("provider cannot be nil")
	}

	a.provider = provider
	return nil
}
