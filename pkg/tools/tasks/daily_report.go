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

// DailyReportTool summarizes a day's tasks alongside its scheduled
// time.
type DailyReportTool struct {
	store    *tasks.Store
	schedule *schedule.Store
}

// NewDailyReportTool creates a new DailyReportTool. The schedule store
// may be nil.
func NewDailyReportTool(store *tasks.Store, sched *schedule.Store) *DailyReportTool {
	return &DailyReportTool{
		store:    store,
		schedule: sched,
	}
}

// Name returns the tool name.
func (t *DailyReportTool) Name() string {
	return "daily_report"
}

// Description returns the tool description.
func (t *DailyReportTool) Description() string {
	return "Generate a report for a day: completion counts and rate, category and priority breakdowns, open tasks, and the day's scheduled minutes. Defaults to today."
}

// Schema returns the JSON schema for the tool's input parameters.
func (t *DailyReportTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"date": map[string]interface{}{
				"type":        "string",
				"description": "Report date as YYYY-MM-DD (default: today)",
			},
		},
		[]string{}, // Date is optional
	)
}

// Execute builds the report.
func (t *DailyReportTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input struct {
		XMLName xml.Name `xml:"arguments"`
		Date    string   `xml:"date"`
	}

	if err := xml.Unmarshal(argsXML, &input); err != nil {
		return "", nil, fmt.Errorf("invalid arguments: %w", err)
	}

	day := time.Now()
	if input.Date != "" {
		parsed, err := time.Parse(tasks.DateFormat, input.Date)
		if err != nil {
			return "", nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", input.Date, err)
		}
		day = parsed
	}

	report := t.store.DailyReport(day)
	message := report.String()

	metadata := map[string]interface{}{
		"date":            day.Format(tasks.DateFormat),
		"total_tasks":     report.Total,
		"completed":       report.Completed,
		"completion_rate": report.CompletionRate,
	}

	if t.schedule != nil {
		minutes := t.schedule.TotalMinutes(day.Weekday().String())
		message += fmt.Sprintf("Scheduled time: %d minutes\n", minutes)
		metadata["scheduled_minutes"] = minutes
	}

	return message, metadata, nil
}

// IsLoopBreaking returns false as this tool doesn't break the agent loop.
func (t *DailyReportTool) IsLoopBreaking() bool {
	return false
}
