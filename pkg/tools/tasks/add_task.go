package tasks

import (
	"context"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/daykeep/daykeep/pkg/agent/tools"
	"github.com/daykeep/daykeep/pkg/schedule"
	"github.com/daykeep/daykeep/pkg/tasks"
)

// AddTaskTool adds a new task to the list and optionally places it in a
// schedule block.
type AddTaskTool struct {
	store    *tasks.Store
	schedule *schedule.Store
}

// NewAddTaskTool creates a new AddTaskTool. The schedule store may be
// nil when block placement isn't wanted.
func NewAddTaskTool(store *tasks.Store, sched *schedule.Store) *AddTaskTool {
	return &AddTaskTool{
		store:    store,
		schedule: sched,
	}
}

// Name returns the tool name.
func (t *AddTaskTool) Name() string {
	return "add_task"
}

// Description returns the tool description.
func (t *AddTaskTool) Description() string {
	return "Add a new task to the user's list with a category, priority (1 is highest), due date, and optional time block placement."
}

// Schema returns the JSON schema for the tool's input parameters.
func (t *AddTaskTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"title": map[string]interface{}{
				"type":        "string",
				"description": "Short task title",
			},
			"description": map[string]interface{}{
				"type":        "string",
				"description": "Optional longer description",
			},
			"category": map[string]interface{}{
				"type":        "string",
				"description": "Task category, e.g. learning, project, career, routine, planning",
			},
			"priority": map[string]interface{}{
				"type":        "integer",
				"description": "Priority from 1 (highest) upward",
			},
			"due_date": map[string]interface{}{
				"type":        "string",
				"description": "Due date as YYYY-MM-DD (default: today)",
			},
			"time_block": map[string]interface{}{
				"type":        "string",
				"description": "Optional schedule block name to place the task in on its due date",
			},
		},
		[]string{"title", "category", "priority"},
	)
}

// Execute adds the task.
func (t *AddTaskTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input struct {
		XMLName     xml.Name `xml:"arguments"`
		Title       string   `xml:"title"`
		Description string   `xml:"description"`
		Category    string   `xml:"category"`
		Priority    int      `xml:"priority"`
		DueDate     string   `xml:"due_date"`
		TimeBlock   string   `xml:"time_block"`
	}

	if err := xml.Unmarshal(argsXML, &input); err != nil {
		return "", nil, fmt.Errorf("invalid arguments: %w", err)
	}

	if input.Title == "" {
		return "", nil, fmt.Errorf("missing required parameter: title")
	}
	if input.Category == "" {
		return "", nil, fmt.Errorf("missing required parameter: category")
	}

	task := tasks.Task{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Priority:    input.Priority,
		TimeBlock:   input.TimeBlock,
	}

	if input.DueDate != "" {
		due, err := time.Parse(tasks.DateFormat, input.DueDate)
		if err != nil {
			return "", nil, fmt.Errorf("invalid due_date %q, expected YYYY-MM-DD: %w", input.DueDate, err)
		}
		task.DueDate = due
	}

	added, err := t.store.Add(task)
	if err != nil {
		return "", nil, err
	}

	message := fmt.Sprintf("Task '%s' added with ID %d, due %s.",
		added.Title, added.ID, added.DueDate.Format(tasks.DateFormat))

	metadata := map[string]interface{}{
		"task_id":  added.ID,
		"priority": added.Priority,
		"due_date": added.DueDate.Format(tasks.DateFormat),
	}

	if input.TimeBlock != "" && t.schedule != nil {
		day := added.DueDate.Weekday().String()
		block, err := t.schedule.AssignTask(day, input.TimeBlock, added.ID)
		if err != nil {
			message += fmt.Sprintf(" Could not place it in block %q: %v.", input.TimeBlock, err)
		} else {
			message += fmt.Sprintf(" Placed in %s (%s-%s) on %s.", block.Name, block.Start, block.End, day)
			metadata["time_block"] = block.Name
		}
	}

	return message, metadata, nil
}

// IsLoopBreaking returns false as this tool doesn't break the agent loop.
func (t *AddTaskTool) IsLoopBreaking() bool {
	return false
}
