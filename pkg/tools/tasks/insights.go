package tasks

import (
	"context"
	"encoding/xml"
	"fmt"

	"github.com/daykeep/daykeep/pkg/agent/tools"
	"github.com/daykeep/daykeep/pkg/progress"
)

// ProductivityInsightsTool summarizes the recent progress log.
type ProductivityInsightsTool struct {
	progress *progress.Store
}

// NewProductivityInsightsTool creates a new ProductivityInsightsTool.
func NewProductivityInsightsTool(prog *progress.Store) *ProductivityInsightsTool {
	return &ProductivityInsightsTool{progress: prog}
}

// Name returns the tool name.
func (t *ProductivityInsightsTool) Name() string {
	return "productivity_insights"
}

// Description returns the tool description.
func (t *ProductivityInsightsTool) Description() string {
	return "Summarize productivity over a recent window of days: per-day scores, averages, completion rate, and rollover totals. Defaults to the last 7 days."
}

// Schema returns the JSON schema for the tool's input parameters.
func (t *ProductivityInsightsTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"days": map[string]interface{}{
				"type":        "integer",
				"description": "Number of days to look back (default: 7)",
			},
		},
		[]string{}, // Days is optional
	)
}

// Execute summarizes the window.
func (t *ProductivityInsightsTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input struct {
		XMLName xml.Name `xml:"arguments"`
		Days    int      `xml:"days"`
	}

	if err := xml.Unmarshal(argsXML, &input); err != nil {
		return "", nil, fmt.Errorf("invalid arguments: %w", err)
	}
	if input.Days < 0 {
		return "", nil, fmt.Errorf("days must be positive, got %d", input.Days)
	}

	insights := t.progress.Window(input.Days)

	metadata := map[string]interface{}{
		"window_days":   insights.Days,
		"recorded_days": len(insights.Entries),
		"average_score": insights.AverageScore,
	}

	return insights.String(), metadata, nil
}

// IsLoopBreaking returns false as this tool doesn't break the agent loop.
func (t *ProductivityInsightsTool) IsLoopBreaking() bool {
	return false
}
