package tasks

import (
	"context"
	"encoding/xml"
	"fmt"

	"github.com/daykeep/daykeep/pkg/agent/tools"
	"github.com/daykeep/daykeep/pkg/tasks"
)

// UpdateTaskStatusTool changes a task's lifecycle status.
type UpdateTaskStatusTool struct {
	store *tasks.Store
}

// NewUpdateTaskStatusTool creates a new UpdateTaskStatusTool.
func NewUpdateTaskStatusTool(store *tasks.Store) *UpdateTaskStatusTool {
	return &UpdateTaskStatusTool{store: store}
}

// Name returns the tool name.
func (t *UpdateTaskStatusTool) Name() string {
	return "update_task_status"
}

// Description returns the tool description.
func (t *UpdateTaskStatusTool) Description() string {
	return "Update the status of an existing task to pending, in_progress, or completed. Completing a task records its completion date."
}

// Schema returns the JSON schema for the tool's input parameters.
func (t *UpdateTaskStatusTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"task_id": map[string]interface{}{
				"type":        "integer",
				"description": "ID of the task to update",
			},
			"status": map[string]interface{}{
				"type":        "string",
				"description": "New status: pending, in_progress, or completed",
			},
		},
		[]string{"task_id", "status"},
	)
}

// Execute updates the task status.
func (t *UpdateTaskStatusTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input struct {
		XMLName xml.Name `xml:"arguments"`
		TaskID  int      `xml:"task_id"`
		Status  string   `xml:"status"`
	}

	if err := xml.Unmarshal(argsXML, &input); err != nil {
		return "", nil, fmt.Errorf("invalid arguments: %w", err)
	}

	if input.TaskID == 0 {
		return "", nil, fmt.Errorf("missing required parameter: task_id")
	}
	if input.Status == "" {
		return "", nil, fmt.Errorf("missing required parameter: status")
	}

	updated, err := t.store.UpdateStatus(input.TaskID, tasks.Status(input.Status))
	if err != nil {
		return "", nil, err
	}

	message := fmt.Sprintf("Task #%d '%s' is now %s.", updated.ID, updated.Title, updated.Status)
	if updated.Status == tasks.StatusCompleted {
		message = fmt.Sprintf("Task #%d '%s' marked completed on %s.",
			updated.ID, updated.Title, updated.CompletionDate.Format(tasks.DateFormat))
	}

	metadata := map[string]interface{}{
		"task_id": updated.ID,
		"status":  string(updated.Status),
	}

	return message, metadata, nil
}

// IsLoopBreaking returns false as this tool doesn't break the agent loop.
func (t *UpdateTaskStatusTool) IsLoopBreaking() bool {
	return false
}
