// Package tasks provides the task model and its CSV-backed store.
package tasks

import (
	"fmt"
	"time"
)

// DateFormat is the wire format for all task dates.
const DateFormat = "2006-01-02"

// Status is the lifecycle state of a task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// ValidStatus reports whether s is a recognized task status.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Task is a single tracked item on the user's list.
type Task struct {
	ID          int
	Title       string
	Description string
	Category    string
	Priority    int // 1 is highest
	Status      Status

	CreatedDate    time.Time
	DueDate        time.Time
	CompletionDate time.Time // zero until completed

	RolloverCount int
	TimeBlock     string // name of the schedule block the task is placed in
	Notes         string
}

// Validate checks the fields a caller must supply.
func (t *Task) Validate() error {
	if t.Title == "" {
		return fmt.Errorf("task title cannot be empty")
	}
	if t.Priority < 1 || t.Priority > 5 {
		return fmt.Errorf("task priority must be between 1 and 5, got %d", t.Priority)
	}
	if t.Status != "" && !ValidStatus(t.Status) {
		return fmt.Errorf("invalid task status: %s", t.Status)
	}
	return nil
}

// IsOpen reports whether the task still needs work.
func (t *Task) IsOpen() bool {
	return t.Status != StatusCompleted
}

// DueOn reports whether the task is due on the given day.
func (t *Task) DueOn(day time.Time) bool {
	return sameDay(t.DueDate, day)
}

// sameDay compares two times by calendar date.
func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// dayAfter reports whether a falls on a later calendar date than b.
// Dates parsed from CSV are UTC midnights while "now" is local time, so
// instants must never be compared directly.
func dayAfter(a, b time.Time) bool {
	if a.Year() != b.Year() {
		return a.Year() > b.Year()
	}
	return a.YearDay() > b.YearDay()
}
