package calendar

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/daykeep/daykeep/pkg/agent/tools"
)

// ListEventsTool lists upcoming Google Calendar events.
type ListEventsTool struct {
	factory *clientFactory
}

// NewListEventsTool creates a new ListEventsTool.
func NewListEventsTool(credentialsPath, tokenPath, calendarID string) *ListEventsTool {
	return &ListEventsTool{
		factory: newClientFactory(credentialsPath, tokenPath, calendarID),
	}
}

// Name returns the tool name.
func (t *ListEventsTool) Name() string {
	return "list_calendar_events"
}

// Description returns the tool description.
func (t *ListEventsTool) Description() string {
	return "List upcoming Google Calendar events, useful for checking availability before scheduling tasks. Defaults to the next day."
}

// Schema returns the JSON schema for the tool's input parameters.
func (t *ListEventsTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"days": map[string]interface{}{
				"type":        "integer",
				"description": "Number of days to look ahead (default: 1)",
			},
		},
		[]string{}, // Days is optional
	)
}

// Execute lists events.
func (t *ListEventsTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
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
	if input.Days == 0 {
		input.Days = 1
	}

	client, err := t.factory.get(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("calendar is not available: %w", err)
	}

	events, err := client.ListEvents(time.Now(), input.Days)
	if err != nil {
		return "", nil, err
	}

	var message strings.Builder
	if len(events) == 0 {
		message.WriteString(fmt.Sprintf("No calendar events in the next %d day(s).", input.Days))
	} else {
		message.WriteString(fmt.Sprintf("Found %d event(s):\n", len(events)))
		for _, event := range events {
			start := event.Start.DateTime
			if start == "" {
				start = event.Start.Date + " (all day)"
			}
			message.WriteString(fmt.Sprintf("%s: %s\n", start, event.Summary))
		}
	}

	metadata := map[string]interface{}{
		"event_count": len(events),
		"days":        input.Days,
	}

	return message.String(), metadata, nil
}

// IsLoopBreaking returns false as this tool doesn't break the agent loop.
func (t *ListEventsTool) IsLoopBreaking() bool {
	return false
}

// ShouldShow hides the tool until calendar credentials are configured.
func (t *ListEventsTool) ShouldShow() bool {
	return t.factory.configured()
}
