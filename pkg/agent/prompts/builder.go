package prompts

import (
	"fmt"
	"strings"

	"github.com/daykeep/daykeep/pkg/agent/tools"
	"github.com/daykeep/daykeep/pkg/types"
)

// PromptBuilder assembles the layered system prompt an agent runs with
type PromptBuilder struct {
	persona            string
	tools              []tools.Tool
	customInstructions string
}

// NewPromptBuilder returns an empty builder
func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{
		tools: []tools.Tool{},
	}
}

// WithPersona sets the persona section placed at the top of the prompt.
// Use AssistantPersonaPrompt or ReviewerPersonaPrompt, or provide a custom one.
func (pb *PromptBuilder) WithPersona(persona string) *PromptBuilder {
	pb.persona = persona
	return pb
}

// WithTools supplies the tools to render into available_tools
func (pb *PromptBuilder) WithTools(toolsList []tools.Tool) *PromptBuilder {
	pb.tools = toolsList
	return pb
}

// WithCustomInstructions injects the user's own standing instructions,
// kept separate from the built-in prompt sections
func (pb *PromptBuilder) WithCustomInstructions(instructions string) *PromptBuilder {
	pb.customInstructions = instructions
	return pb
}

// Build assembles the system prompt. Order matters: the persona frames
// everything below it, custom instructions follow, then the static
// sections, the rendered tool schemas, and the tool use rules last.
func (pb *PromptBuilder) Build() string {
	var b strings.Builder

	if pb.persona != "" {
		b.WriteString(pb.persona)
		b.WriteString("\n\n")
	}

	if pb.customInstructions != "" {
		b.WriteString("<custom_instructions>\n")
		b.WriteString(pb.customInstructions)
		b.WriteString("\n</custom_instructions>\n\n")
	}

	for _, section := range []string{
		SystemCapabilitiesPrompt,
		AgentLoopPrompt,
		ChainOfThoughtPrompt,
		ToolCallingPrompt,
	} {
		b.WriteString(section)
		b.WriteString("\n\n")
	}

	if len(pb.tools) > 0 {
		b.WriteString("<available_tools>\n")
		b.WriteString(FormatToolSchemas(pb.tools))
		b.WriteString("</available_tools>\n\n")
	}

	b.WriteString(ToolUseRulesPrompt)
	return b.String()
}

// normalizeRoleForLLM remaps roles that XML-mode providers don't accept.
// Tool results are stored in memory as RoleTool but must arrive at the LLM
// as RoleUser. Returns a copy for remapped messages, the original otherwise.
func normalizeRoleForLLM(msg *types.Message) *types.Message {
	if msg.Role != types.RoleTool {
		return msg
	}
	return &types.Message{
		Role:    types.RoleUser,
		Content: msg.Content,
	}
}

// appendHistory copies history onto messages, dropping system messages
// (the fresh system prompt is already in place) and normalizing roles.
func appendHistory(messages []*types.Message, history []*types.Message) []*types.Message {
	for _, msg := range history {
		if msg.Role != types.RoleSystem {
			messages = append(messages, normalizeRoleForLLM(msg))
		}
	}
	return messages
}

// BuildMessages prepends the system prompt to the conversation history.
// errorContext, when non-empty, is slipped in as an extra user message so
// the model can recover from a failure the memory never records.
func BuildMessages(systemPrompt string, history []*types.Message, userMessage string, errorContext string) []*types.Message {
	messages := make([]*types.Message, 0, len(history)+3)
	messages = append(messages, types.NewSystemMessage(systemPrompt))
	messages = appendHistory(messages, history)

	// Error context is ephemeral: it reaches the model this iteration
	// but is never stored in memory
	if errorContext != "" {
		messages = append(messages, types.NewUserMessage(errorContext))
	}
	if userMessage != "" {
		messages = append(messages, types.NewUserMessage(userMessage))
	}
	return messages
}

// BuildMessagesForIteration builds the message list for one loop
// iteration, folding in tool results and prior thinking
func BuildMessagesForIteration(
	systemPrompt string,
	history []*types.Message,
	toolResults []ToolResult,
) []*types.Message {
	messages := make([]*types.Message, 0, len(history)+1+len(toolResults))
	messages = append(messages, types.NewSystemMessage(systemPrompt))
	messages = appendHistory(messages, history)

	for _, result := range toolResults {
		resultMsg := fmt.Sprintf("Tool '%s' result:\n%s", result.ToolName, result.Result)
		if result.Error != nil {
			resultMsg = fmt.Sprintf("Tool '%s' error:\n%s", result.ToolName, result.Error.Error())
		}
		messages = append(messages, types.NewUserMessage(resultMsg))
	}
	return messages
}

// ToolResult pairs a tool name with what it returned
type ToolResult struct {
	ToolName string
	Result   string
	Error    error
}
