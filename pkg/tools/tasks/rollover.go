package tasks

import (
	"context"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/daykeep/daykeep/pkg/agent/tools"
	"github.com/daykeep/daykeep/pkg/progress"
	"github.com/daykeep/daykeep/pkg/tasks"
)

// RolloverTasksTool moves incomplete tasks to a later day and records
// the migration in the progress log.
type RolloverTasksTool struct {
	store    *tasks.Store
	progress *progress.Store
}

// NewRolloverTasksTool creates a new RolloverTasksTool. The progress
// store may be nil when no migration snapshot is wanted.
func NewRolloverTasksTool(store *tasks.Store, prog *progress.Store) *RolloverTasksTool {
	return &RolloverTasksTool{
		store:    store,
		progress: prog,
	}
}

// Name returns the tool name.
func (t *RolloverTasksTool) Name() string {
	return "rollover_tasks"
}

// Description returns the tool description.
func (t *RolloverTasksTool) Description() string {
	return "Move incomplete tasks due on or before a date to a later date, incrementing each task's rollover count. Defaults to moving today's unfinished tasks to tomorrow."
}

// Schema returns the JSON schema for the tool's input parameters.
func (t *RolloverTasksTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"from_date": map[string]interface{}{
				"type":        "string",
				"description": "Move tasks due on or before this date, YYYY-MM-DD (default: today)",
			},
			"to_date": map[string]interface{}{
				"type":        "string",
				"description": "New due date, YYYY-MM-DD (default: the day after from_date)",
			},
		},
		[]string{}, // Both parameters are optional
	)
}

// Execute rolls over tasks.
func (t *RolloverTasksTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input struct {
		XMLName  xml.Name `xml:"arguments"`
		FromDate string   `xml:"from_date"`
		ToDate   string   `xml:"to_date"`
	}

	if err := xml.Unmarshal(argsXML, &input); err != nil {
		return "", nil, fmt.Errorf("invalid arguments: %w", err)
	}

	from := time.Now()
	if input.FromDate != "" {
		parsed, err := time.Parse(tasks.DateFormat, input.FromDate)
		if err != nil {
			return "", nil, fmt.Errorf("invalid from_date %q, expected YYYY-MM-DD: %w", input.FromDate, err)
		}
		from = parsed
	}

	to := from.AddDate(0, 0, 1)
	if input.ToDate != "" {
		parsed, err := time.Parse(tasks.DateFormat, input.ToDate)
		if err != nil {
			return "", nil, fmt.Errorf("invalid to_date %q, expected YYYY-MM-DD: %w", input.ToDate, err)
		}
		to = parsed
	}
	if !to.After(from) {
		return "", nil, fmt.Errorf("to_date must be after from_date")
	}

	moved, err := t.store.Rollover(from, to)
	if err != nil {
		return "", nil, err
	}

	message := fmt.Sprintf("Rolled over %d task(s) to %s.", moved, to.Format(tasks.DateFormat))
	if moved == 0 {
		message = "Nothing to roll over, all tasks are done or due later."
	}

	metadata := map[string]interface{}{
		"tasks_rolled_over": moved,
		"to_date":           to.Format(tasks.DateFormat),
	}

	if t.progress != nil {
		report := t.store.DailyReport(from)
		entry, err := t.progress.Record(progress.Entry{
			Date:       from,
			Completed:  report.Completed,
			Pending:    report.Pending + report.InProgress,
			RolledOver: moved,
		})
		if err != nil {
			return "", nil, fmt.Errorf("rolled over %d task(s) but failed to record progress: %w", moved, err)
		}
		message += fmt.Sprintf(" Recorded a productivity score of %.2f for %s.",
			entry.Score, from.Format(tasks.DateFormat))
		metadata["productivity_score"] = entry.Score
	}

	return message, metadata, nil
}

// IsLoopBreaking returns false as this tool doesn't break the agent loop.
func (t *RolloverTasksTool) IsLoopBreaking() bool {
	return false
}
