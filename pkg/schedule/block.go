// Package schedule provides the weekly time-block model and its
// CSV-backed store.
package schedule

import (
	"fmt"
	"time"
)

// TimeFormat is the wire format for block start and end times.
const TimeFormat = "15:04"

// Block is a recurring time block on a weekday.
type Block struct {
	ID    int
	Day   string // weekday name, e.g. "Monday"
	Start string // HH:MM
	End   string // HH:MM
	Name  string
	Type  string // routine, learning, project, career, planning
	Tasks []int  // assigned task IDs
}

// Validate checks the fields a caller must supply.
func (b *Block) Validate() error {
	if b.Name == "" {
		return fmt.Errorf("block name cannot be empty")
	}
	if !validDay(b.Day) {
		return fmt.Errorf("invalid weekday: %s", b.Day)
	}
	start, err := time.Parse(TimeFormat, b.Start)
	if err != nil {
		return fmt.Errorf("invalid start time %q: %w", b.Start, err)
	}
	end, err := time.Parse(TimeFormat, b.End)
	if err != nil {
		return fmt.Errorf("invalid end time %q: %w", b.End, err)
	}
	if !end.After(start) {
		return fmt.Errorf("block %q ends before it starts", b.Name)
	}
	return nil
}

// Minutes returns the block's duration in minutes.
func (b *Block) Minutes() int {
	start, err := time.Parse(TimeFormat, b.Start)
	if err != nil {
		return 0
	}
	end, err := time.Parse(TimeFormat, b.End)
	if err != nil {
		return 0
	}
	return int(end.Sub(start).Minutes())
}

// HasTask reports whether the given task is assigned to the block.
func (b *Block) HasTask(taskID int) bool {
	for _, id := range b.Tasks {
		if id == taskID {
			return true
		}
	}
	return false
}

func validDay(day string) bool {
	switch day {
	case "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday":
		return true
	}
	return false
}

// weekdays in schedule order.
var weekdays = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// defaultTemplate is seeded into a fresh schedule when no template
// file overrides it.
var defaultTemplate = []TemplateBlock{
	{Start: "06:00", End: "06:50", Name: "Morning Routine & Mental Warm-Up", Type: "routine"},
	{Start: "06:50", End: "10:00", Name: "Core Learning Sessions", Type: "learning"},
	{Start: "10:30", End: "14:00", Name: "Project & Skill Application", Type: "project"},
	{Start: "14:00", End: "15:00", Name: "Job Search & Networking", Type: "career"},
	{Start: "20:30", End: "21:00", Name: "Reflection & Planning", Type: "planning"},
}
