package tools

import (
	"context"
	"encoding/xml"
	"fmt"
)

// TaskCompletionTool ends the turn with a final answer once the assistant
// has finished acting on the user's request, e.g. after adding the task,
// marking it done, or assembling the daily report the user asked for.
type TaskCompletionTool struct{}

// NewTaskCompletionTool creates a new task completion tool
func NewTaskCompletionTool() *TaskCompletionTool {
	return &TaskCompletionTool{}
}

// Name returns the tool's identifier
func (tc *TaskCompletionTool) Name() string {
	return "task_completion"
}

// Description returns a description of what this tool does
func (tc *TaskCompletionTool) Description() string {
	return "Present the final outcome once the user's request has been fully handled, " +
		"for example confirming the task you added with its ID and due date, or " +
		"summarizing the report you produced. State what was done; do not end with " +
		"questions or offers of further help."
}

// Schema returns the JSON schema for the tool's arguments
func (tc *TaskCompletionTool) Schema() map[string]interface{} {
	return BaseToolSchema(
		map[string]interface{}{
			"result": map[string]interface{}{
				"type":        "string",
				"description": "The final summary of what was done, e.g. 'Added task 12: Review budget, due 2026-08-25, priority 2.'",
			},
		},
		[]string{"result"},
	)
}

type taskCompletionArgs struct {
	XMLName xml.Name `xml:"arguments"`
	Result  string   `xml:"result"`
}

// Execute returns the final result for the executor to display.
func (tc *TaskCompletionTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var args taskCompletionArgs
	if err := UnmarshalXMLWithFallback(argsXML, &args); err != nil {
		return "", nil, fmt.Errorf("invalid arguments for task_completion: %w", err)
	}
	if args.Result == "" {
		return "", nil, fmt.Errorf("result cannot be empty")
	}
	return args.Result, nil, nil
}

// IsLoopBreaking returns true; the result ends the agent loop.
func (tc *TaskCompletionTool) IsLoopBreaking() bool {
	return true
}
