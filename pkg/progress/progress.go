// Package progress provides the daily progress log and productivity
// insights over it.
package progress

import (
	"fmt"
	"time"
)

// DateFormat is the wire format for progress entry dates.
const DateFormat = "2006-01-02"

// DefaultWindowDays is the lookback used for insights when the caller
// doesn't choose one.
const DefaultWindowDays = 7

// Entry is one day's recorded progress.
type Entry struct {
	Date       time.Time
	Completed  int
	Pending    int
	RolledOver int
	Score      float64 // percent, 2 decimal places
	Notes      string
}

// Score computes the productivity score for a day: the completed share
// of tasks that were due, as a percentage rounded to 2 decimal places.
func Score(completed, pending int) float64 {
	total := completed + pending
	if total == 0 {
		return 0
	}
	return round2(float64(completed) / float64(total) * 100)
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

// Insights summarizes a window of progress entries.
type Insights struct {
	Days            int // requested window size
	Entries         []Entry
	AverageScore    float64
	TotalCompleted  int
	TotalPending    int
	TotalRolledOver int
	CompletionRate  float64 // percent across the whole window
}

// String renders the insights as readable text for chat output.
func (in *Insights) String() string {
	if len(in.Entries) == 0 {
		return fmt.Sprintf("No progress recorded in the last %d days.\n", in.Days)
	}

	out := fmt.Sprintf("Productivity over the last %d days (%d recorded):\n", in.Days, len(in.Entries))
	out += fmt.Sprintf("Average score: %.2f\n", in.AverageScore)
	out += fmt.Sprintf("Completed: %d, pending: %d, rolled over: %d\n",
		in.TotalCompleted, in.TotalPending, in.TotalRolledOver)
	out += fmt.Sprintf("Window completion rate: %.2f%%\n", in.CompletionRate)

	for _, e := range in.Entries {
		out += fmt.Sprintf("  %s: score %.2f (%d done, %d pending, %d rolled over)\n",
			e.Date.Format(DateFormat), e.Score, e.Completed, e.Pending, e.RolledOver)
	}
	return out
}
