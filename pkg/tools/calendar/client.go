package calendar

import (
	"context"
	"sync"

	"github.com/daykeep/daykeep/pkg/google"
)

// clientFactory builds the calendar client on first use so that the
// OAuth flow only runs when a calendar tool actually executes.
type clientFactory struct {
	credentialsPath string
	tokenPath       string
	calendarID      string

	mu     sync.Mutex
	client *google.CalendarClient
}

func newClientFactory(credentialsPath, tokenPath, calendarID string) *clientFactory {
	return &clientFactory{
		credentialsPath: credentialsPath,
		tokenPath:       tokenPath,
		calendarID:      calendarID,
	}
}

func (f *clientFactory) get(ctx context.Context) (*google.CalendarClient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.client != nil {
		return f.client, nil
	}

	client, err := google.NewCalendarClient(ctx, f.credentialsPath, f.tokenPath, f.calendarID)
	if err != nil {
		return nil, err
	}
	f.client = client
	return client, nil
}

func (f *clientFactory) configured() bool {
	return f.credentialsPath != ""
}
