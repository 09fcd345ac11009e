package tasks

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/daykeep/daykeep/pkg/agent/tools"
	"github.com/daykeep/daykeep/pkg/tasks"
)

// ListTasksTool lists tasks with optional status, date, and pattern
// filters.
type ListTasksTool struct {
	store *tasks.Store
}

// NewListTasksTool creates a new ListTasksTool.
func NewListTasksTool(store *tasks.Store) *ListTasksTool {
	return &ListTasksTool{store: store}
}

// Name returns the tool name.
func (t *ListTasksTool) Name() string {
	return "list_tasks"
}

// Description returns the tool description.
func (t *ListTasksTool) Description() string {
	return "List tasks, optionally filtered by status (pending, in_progress, completed), due date, or a title/category search pattern. Results are ordered by priority."
}

// Schema returns the JSON schema for the tool's input parameters.
func (t *ListTasksTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"status": map[string]interface{}{
				"type":        "string",
				"description": "Optional status filter: pending, in_progress, or completed",
			},
			"due_date": map[string]interface{}{
				"type":        "string",
				"description": "Optional due date filter as YYYY-MM-DD, or 'today'",
			},
			"pattern": map[string]interface{}{
				"type":        "string",
				"description": "Optional search pattern matched against title and category (supports * wildcards)",
			},
		},
		[]string{}, // All parameters are optional
	)
}

// Execute lists tasks.
func (t *ListTasksTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input struct {
		XMLName xml.Name `xml:"arguments"`
		Status  string   `xml:"status"`
		DueDate string   `xml:"due_date"`
		Pattern string   `xml:"pattern"`
	}

	if err := xml.Unmarshal(argsXML, &input); err != nil {
		return "", nil, fmt.Errorf("invalid arguments: %w", err)
	}

	if input.Status != "" && !tasks.ValidStatus(tasks.Status(input.Status)) {
		return "", nil, fmt.Errorf("invalid status filter: %s", input.Status)
	}

	var list []tasks.Task
	var err error

	switch {
	case input.Pattern != "":
		list, err = t.store.Search(input.Pattern)
		if err != nil {
			return "", nil, err
		}
	case input.DueDate != "":
		day := time.Now()
		if !strings.EqualFold(input.DueDate, "today") {
			day, err = time.Parse(tasks.DateFormat, input.DueDate)
			if err != nil {
				return "", nil, fmt.Errorf("invalid due_date %q, expected YYYY-MM-DD: %w", input.DueDate, err)
			}
		}
		list = t.store.ListByDate(day)
	default:
		list = t.store.List()
	}

	if input.Status != "" {
		filtered := list[:0]
		for _, task := range list {
			if task.Status == tasks.Status(input.Status) {
				filtered = append(filtered, task)
			}
		}
		list = filtered
	}

	var message strings.Builder
	if len(list) == 0 {
		message.WriteString("No tasks found.")
	} else {
		message.WriteString(fmt.Sprintf("Found %d task(s):\n", len(list)))
		for _, task := range list {
			message.WriteString(fmt.Sprintf("#%d [P%d] %s (%s, %s, due %s)",
				task.ID, task.Priority, task.Title, task.Category, task.Status,
				task.DueDate.Format(tasks.DateFormat)))
			if task.RolloverCount > 0 {
				message.WriteString(fmt.Sprintf(" rolled over %dx", task.RolloverCount))
			}
			message.WriteString("\n")
		}
	}

	metadata := map[string]interface{}{
		"task_count":    len(list),
		"status_filter": input.Status,
	}

	return message.String(), metadata, nil
}

// IsLoopBreaking returns false as this tool doesn't break the agent loop.
func (t *ListTasksTool) IsLoopBreaking() bool {
	return false
}
