package calendar

import (
	"context"
	"encoding/xml"
	"fmt"

	"github.com/daykeep/daykeep/pkg/agent/tools"
	"github.com/daykeep/daykeep/pkg/tasks"
)

// SyncTaskTool pushes a task to Google Calendar as an all-day event on
// its due date.
type SyncTaskTool struct {
	store   *tasks.Store
	factory *clientFactory
}

// NewSyncTaskTool creates a new SyncTaskTool.
func NewSyncTaskTool(store *tasks.Store, credentialsPath, tokenPath, calendarID string) *SyncTaskTool {
	return &SyncTaskTool{
		store:   store,
		factory: newClientFactory(credentialsPath, tokenPath, calendarID),
	}
}

// Name returns the tool name.
func (t *SyncTaskTool) Name() string {
	return "sync_task_to_calendar"
}

// Description returns the tool description.
func (t *SyncTaskTool) Description() string {
	return "Create or update a Google Calendar event for a task on its due date. Re-syncing a task updates its existing event."
}

// Schema returns the JSON schema for the tool's input parameters.
func (t *SyncTaskTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"task_id": map[string]interface{}{
				"type":        "integer",
				"description": "ID of the task to sync",
			},
		},
		[]string{"task_id"},
	)
}

// Execute syncs the task to the calendar.
func (t *SyncTaskTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input struct {
		XMLName xml.Name `xml:"arguments"`
		TaskID  int      `xml:"task_id"`
	}

	if err := xml.Unmarshal(argsXML, &input); err != nil {
		return "", nil, fmt.Errorf("invalid arguments: %w", err)
	}
	if input.TaskID == 0 {
		return "", nil, fmt.Errorf("missing required parameter: task_id")
	}

	task, err := t.store.Get(input.TaskID)
	if err != nil {
		return "", nil, err
	}

	client, err := t.factory.get(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("calendar is not available: %w", err)
	}

	event, err := client.SyncTask(task)
	if err != nil {
		return "", nil, err
	}

	message := fmt.Sprintf("Synced task #%d '%s' to the calendar on %s.",
		task.ID, task.Title, task.DueDate.Format(tasks.DateFormat))

	metadata := map[string]interface{}{
		"task_id":  task.ID,
		"event_id": event.Id,
		"date":     task.DueDate.Format(tasks.DateFormat),
	}

	return message, metadata, nil
}

// IsLoopBreaking returns false as this tool doesn't break the agent loop.
func (t *SyncTaskTool) IsLoopBreaking() bool {
	return false
}

// ShouldShow hides the tool until calendar credentials are configured.
func (t *SyncTaskTool) ShouldShow() bool {
	return t.factory.configured()
}
