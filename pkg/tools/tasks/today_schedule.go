package tasks

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/daykeep/daykeep/pkg/agent/tools"
	"github.com/daykeep/daykeep/pkg/schedule"
	"github.com/daykeep/daykeep/pkg/tasks"
)

// TodayScheduleTool shows the day's time blocks with their assigned
// tasks.
type TodayScheduleTool struct {
	store    *tasks.Store
	schedule *schedule.Store
}

// NewTodayScheduleTool creates a new TodayScheduleTool.
func NewTodayScheduleTool(store *tasks.Store, sched *schedule.Store) *TodayScheduleTool {
	return &TodayScheduleTool{
		store:    store,
		schedule: sched,
	}
}

// Name returns the tool name.
func (t *TodayScheduleTool) Name() string {
	return "today_schedule"
}

// Description returns the tool description.
func (t *TodayScheduleTool) Description() string {
	return "Show the time blocks for a day with the tasks assigned to each block. Defaults to today."
}

// Schema returns the JSON schema for the tool's input parameters.
func (t *TodayScheduleTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"day": map[string]interface{}{
				"type":        "string",
				"description": "Optional weekday name, e.g. Monday (default: today)",
			},
		},
		[]string{}, // Day is optional
	)
}

// Execute renders the schedule.
func (t *TodayScheduleTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input struct {
		XMLName xml.Name `xml:"arguments"`
		Day     string   `xml:"day"`
	}

	if err := xml.Unmarshal(argsXML, &input); err != nil {
		return "", nil, fmt.Errorf("invalid arguments: %w", err)
	}

	day := time.Now().Weekday().String()
	if input.Day != "" {
		day = input.Day
	}

	blocks := t.schedule.BlocksFor(day)
	if len(blocks) == 0 {
		return fmt.Sprintf("No schedule blocks found for %s.", day), map[string]interface{}{
			"day":         day,
			"block_count": 0,
		}, nil
	}

	var message strings.Builder
	message.WriteString(fmt.Sprintf("Schedule for %s:\n", day))

	assigned := 0
	for _, block := range blocks {
		message.WriteString(fmt.Sprintf("%s-%s %s (%s)\n", block.Start, block.End, block.Name, block.Type))
		for _, id := range block.Tasks {
			task, err := t.store.Get(id)
			if err != nil {
				message.WriteString(fmt.Sprintf("  task #%d (no longer exists)\n", id))
				continue
			}
			message.WriteString(fmt.Sprintf("  #%d [P%d] %s (%s)\n",
				task.ID, task.Priority, task.Title, task.Status))
			assigned++
		}
	}
	message.WriteString(fmt.Sprintf("Total scheduled time: %d minutes\n", t.schedule.TotalMinutes(day)))

	metadata := map[string]interface{}{
		"day":            day,
		"block_count":    len(blocks),
		"assigned_tasks": assigned,
	}

	return message.String(), metadata, nil
}

// IsLoopBreaking returns false as this tool doesn't break the agent loop.
func (t *TodayScheduleTool) IsLoopBreaking() bool {
	return false
}
