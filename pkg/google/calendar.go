package google

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/daykeep/daykeep/pkg/tasks"
)

// taskIDProperty is the private extended property linking a calendar
// event back to the task it was created from.
const taskIDProperty = "daykeep_task_id"

// CalendarClient wraps the Google Calendar API for task syncing.
type CalendarClient struct {
	srv        *calendar.Service
	calendarID string
}

// NewCalendarClient authenticates and builds a client for the given
// calendar. An empty calendarID targets the user's primary calendar.
func NewCalendarClient(ctx context.Context, credentialsPath, tokenPath, calendarID string) (*CalendarClient, error) {
	client, err := httpClient(ctx, credentialsPath, tokenPath)
	if err != nil {
		return nil, err
	}

	srv, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to build calendar service: %w", err)
	}

	if calendarID == "" {
		calendarID = "primary"
	}
	return &CalendarClient{srv: srv, calendarID: calendarID}, nil
}

// SyncTask creates an all-day event for the task on its due date, or
// updates the existing event when the task was synced before.
func (c *CalendarClient) SyncTask(task tasks.Task) (*calendar.Event, error) {
	event := eventFromTask(task)

	existing, err := c.findEventForTask(task.ID)
	if err != nil {
		return nil, fmt.Errorf("error searching for existing event: %w", err)
	}

	if existing != nil {
		updated, err := c.srv.Events.Patch(c.calendarID, existing.Id, event).Do()
		if err != nil {
			return nil, fmt.Errorf("failed to update event for task %d: %w", task.ID, err)
		}
		return updated, nil
	}

	created, err := c.srv.Events.Insert(c.calendarID, event).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create event for task %d: %w", task.ID, err)
	}
	return created, nil
}

// ListEvents fetches upcoming events in the given window, ordered by
// start time.
func (c *CalendarClient) ListEvents(from time.Time, days int) ([]*calendar.Event, error) {
	if days <= 0 {
		days = 1
	}

	result, err := c.srv.Events.List(c.calendarID).
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(from.AddDate(0, 0, days).Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to list calendar events: %w", err)
	}
	return result.Items, nil
}

// findEventForTask looks up the event carrying the task's ID in its
// private extended properties.
func (c *CalendarClient) findEventForTask(taskID int) (*calendar.Event, error) {
	result, err := c.srv.Events.List(c.calendarID).
		PrivateExtendedProperty(fmt.Sprintf("%s=%d", taskIDProperty, taskID)).
		Do()
	if err != nil {
		return nil, err
	}
	if len(result.Items) > 0 {
		return result.Items[0], nil
	}
	return nil, nil
}

// eventFromTask renders a task as an all-day event on its due date.
func eventFromTask(task tasks.Task) *calendar.Event {
	due := task.DueDate.Format(tasks.DateFormat)

	description := task.Description
	if description != "" {
		description += "\n\n"
	}
	description += fmt.Sprintf("Category: %s\nPriority: P%d\nStatus: %s", task.Category, task.Priority, task.Status)
	if task.Notes != "" {
		description += "\nNotes: " + task.Notes
	}

	return &calendar.Event{
		Summary:     task.Title,
		Description: description,
		Start:       &calendar.EventDateTime{Date: due},
		End:         &calendar.EventDateTime{Date: task.DueDate.AddDate(0, 0, 1).Format(tasks.DateFormat)},
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{
				taskIDProperty: fmt.Sprintf("%d", task.ID),
			},
		},
	}
}
