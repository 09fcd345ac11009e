package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daykeep/daykeep/pkg/agent/tools"
	"github.com/daykeep/daykeep/pkg/types"
)

func TestPersonaPrompts(t *testing.T) {
	t.Run("assistant persona", func(t *testing.T) {
		assert.True(t, strings.HasPrefix(AssistantPersonaPrompt, "<persona>"))
		assert.True(t, strings.HasSuffix(AssistantPersonaPrompt, "</persona>"))
		assert.Contains(t, AssistantPersonaPrompt, "task management assistant")
		assert.Contains(t, AssistantPersonaPrompt, "priority (1 is highest)")
		assert.Contains(t, AssistantPersonaPrompt, "roll the incomplete tasks forward")
	})

	t.Run("reviewer persona", func(t *testing.T) {
		assert.True(t, strings.HasPrefix(ReviewerPersonaPrompt, "<persona>"))
		assert.True(t, strings.HasSuffix(ReviewerPersonaPrompt, "</persona>"))
		assert.Contains(t, ReviewerPersonaPrompt, "end-of-day progress reviewer")
		assert.Contains(t, ReviewerPersonaPrompt, "productivity score")
	})
}

func TestPromptBuilder_Build(t *testing.T) {
	t.Run("persona leads the prompt", func(t *testing.T) {
		prompt := NewPromptBuilder().
			WithPersona(AssistantPersonaPrompt).
			WithTools([]tools.Tool{tools.NewTaskCompletionTool()}).
			Build()

		assert.True(t, strings.HasPrefix(prompt, "<persona>"),
			"the persona frames everything below it, so it must come first")
		assert.Contains(t, prompt, "task management assistant")

		personaIdx := strings.Index(prompt, "<persona>")
		capsIdx := strings.Index(prompt, "<system_capabilities>")
		require.GreaterOrEqual(t, capsIdx, 0)
		assert.Less(t, personaIdx, capsIdx)
	})

	t.Run("reviewer persona reaches the prompt", func(t *testing.T) {
		prompt := NewPromptBuilder().
			WithPersona(ReviewerPersonaPrompt).
			Build()

		assert.Contains(t, prompt, "end-of-day progress reviewer")
		assert.NotContains(t, prompt, "task management assistant")
	})

	t.Run("no persona means no persona block", func(t *testing.T) {
		prompt := NewPromptBuilder().Build()
		assert.NotContains(t, prompt, "<persona>")
	})

	t.Run("static sections always present", func(t *testing.T) {
		prompt := NewPromptBuilder().Build()

		assert.Contains(t, prompt, "<system_capabilities>")
		assert.Contains(t, prompt, "<agent_loop>")
		assert.Contains(t, prompt, "<chain_of_thought>")
		assert.Contains(t, prompt, "<tool_calling>")
		assert.Contains(t, prompt, "<tool_use_rules>")
	})

	t.Run("tools rendered into available_tools", func(t *testing.T) {
		prompt := NewPromptBuilder().
			WithTools([]tools.Tool{
				tools.NewTaskCompletionTool(),
				tools.NewAskQuestionTool(),
			}).
			Build()

		assert.Contains(t, prompt, "<available_tools>")
		assert.Contains(t, prompt, "task_completion")
		assert.Contains(t, prompt, "ask_question")
	})

	t.Run("no tools means no available_tools block", func(t *testing.T) {
		prompt := NewPromptBuilder().Build()
		assert.NotContains(t, prompt, "<available_tools>")
	})

	t.Run("custom instructions sit between persona and capabilities", func(t *testing.T) {
		prompt := NewPromptBuilder().
			WithPersona(AssistantPersonaPrompt).
			WithCustomInstructions("The user works 9 to 5 and trains in the evenings.").
			Build()

		assert.Contains(t, prompt, "<custom_instructions>")
		assert.Contains(t, prompt, "trains in the evenings")

		personaIdx := strings.Index(prompt, "<persona>")
		customIdx := strings.Index(prompt, "<custom_instructions>")
		capsIdx := strings.Index(prompt, "<system_capabilities>")
		assert.Less(t, personaIdx, customIdx)
		assert.Less(t, customIdx, capsIdx)
	})
}

func TestFormatToolSchema(t *testing.T) {
	formatted := FormatToolSchema(tools.NewAskQuestionTool())

	assert.Contains(t, formatted, "ask_question")
	assert.Contains(t, formatted, "clarifying question")
	assert.Contains(t, formatted, "Parameters")
	assert.Contains(t, formatted, "loop-breaking")
	assert.Contains(t, formatted, "Example")
}

func TestFormatToolSchemas(t *testing.T) {
	t.Run("lists every tool", func(t *testing.T) {
		formatted := FormatToolSchemas([]tools.Tool{
			tools.NewTaskCompletionTool(),
			tools.NewAskQuestionTool(),
			tools.NewConverseTool(),
		})

		assert.Contains(t, formatted, "AVAILABLE TOOLS")
		assert.Contains(t, formatted, "task_completion")
		assert.Contains(t, formatted, "ask_question")
		assert.Contains(t, formatted, "converse")
	})

	t.Run("empty list", func(t *testing.T) {
		assert.Contains(t, FormatToolSchemas(nil), "No tools available")
	})
}

func TestBuildMessages(t *testing.T) {
	t.Run("system then history then new message", func(t *testing.T) {
		history := []*types.Message{
			types.NewUserMessage("add a task to book the dentist"),
			types.NewAssistantMessage("Added task 4: Book dentist appointment."),
		}

		messages := BuildMessages("system prompt", history, "what's on today?", "")

		require.Len(t, messages, 4)
		assert.Equal(t, types.RoleSystem, messages[0].Role)
		assert.Equal(t, "system prompt", messages[0].Content)
		assert.Equal(t, "what's on today?", messages[3].Content)
		assert.Equal(t, types.RoleUser, messages[3].Role)
	})

	t.Run("stale system messages in history are dropped", func(t *testing.T) {
		history := []*types.Message{
			types.NewSystemMessage("old prompt"),
			types.NewUserMessage("hello"),
		}

		messages := BuildMessages("new prompt", history, "", "")

		require.Len(t, messages, 2)
		assert.Equal(t, "new prompt", messages[0].Content)
	})

	t.Run("error context is appended before the user message", func(t *testing.T) {
		messages := BuildMessages("prompt", nil, "try again", "previous tool call failed to parse")

		require.Len(t, messages, 3)
		assert.Equal(t, "previous tool call failed to parse", messages[1].Content)
		assert.Equal(t, "try again", messages[2].Content)
	})
}

func TestNormalizeRoleForLLM(t *testing.T) {
	t.Run("tool role becomes user role in a copy", func(t *testing.T) {
		original := types.NewToolMessage("Tool 'add_task' result:\nAdded task 4")

		normalized := normalizeRoleForLLM(original)

		assert.Equal(t, types.RoleUser, normalized.Role)
		assert.Equal(t, original.Content, normalized.Content)
		assert.Equal(t, types.RoleTool, original.Role, "the stored message must not be mutated")
	})

	t.Run("other roles pass through unchanged", func(t *testing.T) {
		for _, msg := range []*types.Message{
			types.NewUserMessage("u"),
			types.NewAssistantMessage("a"),
			types.NewSystemMessage("s"),
		} {
			assert.Same(t, msg, normalizeRoleForLLM(msg))
		}
	})
}

func TestBuildMessages_ToolRoleRemapping(t *testing.T) {
	history := []*types.Message{
		types.NewUserMessage("mark task 4 done"),
		types.NewAssistantMessage("<tool>...</tool>"),
		types.NewToolMessage("Tool 'update_task_status' result:\ntask 4 completed"),
	}

	messages := BuildMessages("prompt", history, "", "")

	require.Len(t, messages, 4)
	assert.Equal(t, types.RoleUser, messages[3].Role,
		"tool results must reach XML-mode providers as user messages")
	assert.Equal(t, history[2].Content, messages[3].Content)
}

func TestBuildMessagesForIteration(t *testing.T) {
	history := []*types.Message{
		types.NewUserMessage("what's due tomorrow?"),
	}
	results := []ToolResult{
		{ToolName: "get_tasks", Result: "1 task: Prepare demo (priority 1)"},
		{ToolName: "get_schedule", Error: assert.AnError},
	}

	messages := BuildMessagesForIteration("prompt", history, results)

	require.Len(t, messages, 4)
	assert.Contains(t, messages[2].Content, "Tool 'get_tasks' result:")
	assert.Contains(t, messages[2].Content, "Prepare demo")
	assert.Contains(t, messages[3].Content, "Tool 'get_schedule' error:")
}

func TestFormatToolForLLM(t *testing.T) {
	formatted := FormatToolForLLM(tools.NewTaskCompletionTool())

	assert.Equal(t, "task_completion", formatted["name"])
	assert.Contains(t, formatted, "description")
	assert.Contains(t, formatted, "parameters")
}

func TestSchemaToJSON(t *testing.T) {
	jsonStr, err := SchemaToJSON(map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"title": map[string]interface{}{"type": "string"},
		},
	})
	require.NoError(t, err)
	assert.Contains(t, jsonStr, "object")
	assert.Contains(t, jsonStr, "title")
}
