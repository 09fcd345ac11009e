package agent

import (
	"context"
	"fmt"
	"maps"

	"github.com/daykeep/daykeep/pkg/agent/prompts"
	"github.com/daykeep/daykeep/pkg/agent/tools"
	"github.com/daykeep/daykeep/pkg/types"
)

// recoverOrBreak turns a tool failure into an error-recovery message for
// the next iteration, unless the circuit breaker says the loop is doomed.
// Returns (shouldContinue, errorContext) like the rest of the iteration
// pipeline; emit is the user-visible error, nil to stay quiet.
func (a *DefaultAgent) recoverOrBreak(rc prompts.ErrorRecoveryContext, breakerReason string, emit error) (bool, string) {
	errMsg := prompts.BuildErrorRecoveryMessage(rc)

	if a.trackError(errMsg) {
		a.emitEvent(types.NewErrorEvent(fmt.Errorf("circuit breaker triggered: %s", breakerReason)))
		return false, ""
	}

	if emit != nil {
		a.emitEvent(types.NewErrorEvent(emit))
	}
	return true, errMsg
}

// processToolCall parses the tool call content collected from the stream and
// executes it. An empty toolCallContent means the model failed to call a tool.
func (a *DefaultAgent) processToolCall(ctx context.Context, toolCallContent string) (bool, string) {
	if toolCallContent == "" {
		a.emitEvent(types.NewNoToolCallEvent())
		return a.recoverOrBreak(
			prompts.ErrorRecoveryContext{Type: prompts.ErrorTypeNoToolCall},
			"5 consecutive responses without a tool call",
			nil,
		)
	}

	// The stream parser strips the <tool> wrapper, restore it for parsing
	toolCall, _, err := tools.ParseToolCall("<tool>" + toolCallContent + "</tool>")
	if err != nil {
		return a.recoverOrBreak(
			prompts.ErrorRecoveryContext{Type: prompts.ErrorTypeParseError, Error: err},
			"5 consecutive malformed tool calls",
			fmt.Errorf("failed to parse tool call: %w", err),
		)
	}

	return a.executeTool(ctx, *toolCall)
}

// executeTool looks the tool up, runs it, and routes the result: loop-breaking
// tools end the turn, other results go back into memory for the next iteration.
func (a *DefaultAgent) executeTool(ctx context.Context, toolCall tools.ToolCall) (bool, string) {
	tool, exists := a.getTool(toolCall.ToolName)
	if !exists {
		return a.recoverOrBreak(
			prompts.ErrorRecoveryContext{
				Type:           prompts.ErrorTypeUnknownTool,
				ToolName:       toolCall.ToolName,
				AvailableTools: a.visibleTools(),
			},
			"5 consecutive unknown tool errors",
			fmt.Errorf("unknown tool: %s", toolCall.ToolName),
		)
	}

	// The event carries the arguments as a map; when that parse fails the
	// tool still gets the raw XML, so an empty map is fine here
	argsMap, err := tools.XMLToMap(toolCall.GetArgumentsXML())
	if err != nil {
		argsMap = make(map[string]interface{})
	}
	a.emitEvent(types.NewToolCallEvent(toolCall.ToolName, argsMap))

	result, metadata, toolErr := tool.Execute(ctx, toolCall.GetArgumentsXML())
	if toolErr != nil {
		a.emitEvent(types.NewToolResultErrorEvent(toolCall.ToolName, toolErr))
		return a.recoverOrBreak(
			prompts.ErrorRecoveryContext{
				Type:     prompts.ErrorTypeToolExecution,
				ToolName: toolCall.ToolName,
				Error:    toolErr,
			},
			"5 consecutive tool execution errors",
			fmt.Errorf("tool execution failed: %w", toolErr),
		)
	}

	event := types.NewToolResultEvent(toolCall.ToolName, result)
	if len(metadata) > 0 {
		maps.Copy(event.Metadata, metadata)
	}
	a.emitEvent(event)

	a.resetErrorTracking()

	if tool.IsLoopBreaking() {
		return false, ""
	}

	a.memory.Add(types.NewToolMessage(fmt.Sprintf("Tool '%s' result:\n%s", toolCall.ToolName, result)))
	return true, ""
}
