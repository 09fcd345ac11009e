package prompts

import (
	"fmt"
	"strings"

	"github.com/daykeep/daykeep/pkg/agent/tools"
)

// ErrorType classifies recoverable agent loop errors.
type ErrorType string

const (
	// ErrorTypeNoToolCall indicates the model responded without a tool call.
	ErrorTypeNoToolCall ErrorType = "no_tool_call"

	// ErrorTypeParseError indicates the tool call XML could not be parsed.
	ErrorTypeParseError ErrorType = "parse_error"

	// ErrorTypeUnknownTool indicates the model called a tool that doesn't exist.
	ErrorTypeUnknownTool ErrorType = "unknown_tool"

	// ErrorTypeToolExecution indicates a tool ran but returned an error.
	ErrorTypeToolExecution ErrorType = "tool_execution"
)

// ErrorRecoveryContext carries the details needed to build a recovery message.
type ErrorRecoveryContext struct {
	Type           ErrorType
	ToolName       string
	Error          error
	AvailableTools []tools.Tool
}

// BuildErrorRecoveryMessage constructs an ephemeral user message that tells
// the model what went wrong and how to correct it on the next iteration.
// These messages are injected into the prompt but never stored in memory.
func BuildErrorRecoveryMessage(ctx ErrorRecoveryContext) string {
	switch ctx.Type {
	case ErrorTypeNoToolCall:
		return "Your previous response did not include a tool call. " +
			"Every response must end with exactly one tool call. " +
			"If you were answering the user, wrap the answer in the converse tool. " +
			"If the task is done, use task_completion. If you need input, use ask_question."

	case ErrorTypeParseError:
		msg := "Your previous tool call could not be parsed"
		if ctx.Error != nil {
			msg += fmt.Sprintf(": %s", ctx.Error.Error())
		}
		msg += ". Re-send the tool call as valid XML: a <tool> block containing " +
			"<server_name>, <tool_name>, and <arguments>. Escape special characters " +
			"(&amp; &lt; &gt;) or wrap free text in CDATA."
		return msg

	case ErrorTypeUnknownTool:
		msg := fmt.Sprintf("The tool '%s' does not exist.", ctx.ToolName)
		if len(ctx.AvailableTools) > 0 {
			names := make([]string, 0, len(ctx.AvailableTools))
			for _, t := range ctx.AvailableTools {
				names = append(names, t.Name())
			}
			msg += fmt.Sprintf(" Available tools: %s.", strings.Join(names, ", "))
		}
		msg += " Choose one of the available tools and try again."
		return msg

	case ErrorTypeToolExecution:
		msg := fmt.Sprintf("The tool '%s' failed", ctx.ToolName)
		if ctx.Error != nil {
			msg += fmt.Sprintf(": %s", ctx.Error.Error())
		}
		msg += ". Check the arguments against the tool's schema and try again, " +
			"or use ask_question if you need information from the user to proceed."
		return msg

	default:
		if ctx.Error != nil {
			return fmt.Sprintf("An error occurred: %s. Adjust your approach and try again.", ctx.Error.Error())
		}
		return "An error occurred. Adjust your approach and try again."
	}
}
