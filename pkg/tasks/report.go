package tasks

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Report summarizes a single day's task state.
type Report struct {
	Date           time.Time
	Total          int
	Completed      int
	InProgress     int
	Pending        int
	CompletionRate float64 // percent, 2 decimal places
	ByCategory     map[string]int
	ByPriority     map[int]int
	Incomplete     []Task
}

// DailyReport aggregates the tasks due on the given day.
func (s *Store) DailyReport(day time.Time) *Report {
	due := s.ListByDate(day)

	report := &Report{
		Date:       day,
		Total:      len(due),
		ByCategory: make(map[string]int),
		ByPriority: make(map[int]int),
	}

	for _, t := range due {
		report.ByCategory[t.Category]++
		report.ByPriority[t.Priority]++

		switch t.Status {
		case StatusCompleted:
			report.Completed++
		case StatusInProgress:
			report.InProgress++
			report.Incomplete = append(report.Incomplete, t)
		default:
			report.Pending++
			report.Incomplete = append(report.Incomplete, t)
		}
	}

	if report.Total > 0 {
		rate := float64(report.Completed) / float64(report.Total) * 100
		report.CompletionRate = roundRate(rate)
	}

	return report
}

// String renders the report as readable text for chat output.
func (r *Report) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Daily report for %s\n", r.Date.Format(DateFormat))
	fmt.Fprintf(&b, "Tasks: %d total, %d completed, %d in progress, %d pending\n",
		r.Total, r.Completed, r.InProgress, r.Pending)
	fmt.Fprintf(&b, "Completion rate: %.2f%%\n", r.CompletionRate)

	if len(r.ByCategory) > 0 {
		b.WriteString("By category:\n")
		for _, cat := range sortedKeys(r.ByCategory) {
			fmt.Fprintf(&b, "  %s: %d\n", cat, r.ByCategory[cat])
		}
	}

	if len(r.ByPriority) > 0 {
		b.WriteString("By priority:\n")
		priorities := make([]int, 0, len(r.ByPriority))
		for p := range r.ByPriority {
			priorities = append(priorities, p)
		}
		sort.Ints(priorities)
		for _, p := range priorities {
			fmt.Fprintf(&b, "  P%d: %d\n", p, r.ByPriority[p])
		}
	}

	if len(r.Incomplete) > 0 {
		b.WriteString("Still open:\n")
		for _, t := range r.Incomplete {
			fmt.Fprintf(&b, "  #%d [P%d] %s (%s)\n", t.ID, t.Priority, t.Title, t.Status)
		}
	}

	return b.String()
}

// roundRate rounds a percentage to 2 decimal places.
func roundRate(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
