package tasks

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gobwas/glob"
)

// csvHeader is the column layout of tasks.csv.
var csvHeader = []string{
	"id", "title", "description", "category", "priority", "status",
	"created_date", "due_date", "completion_date", "rollover_count",
	"time_block", "notes",
}

// Store is a CSV file backed task store. All mutations rewrite the file
// atomically so a crash never leaves a half-written task list.
type Store struct {
	path   string
	mu     sync.Mutex
	tasks  []Task
	nextID int
}

// NewStore opens the task store at path, creating the file with a header
// row if it doesn't exist yet.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path, nextID: 1}

	if err := s.load(); err != nil {
		return nil, fmt.Errorf("failed to load task store from %s: %w", path, err)
	}

	return s, nil
}

// load reads the CSV file into memory. A missing file is not an error.
func (s *Store) load() error {
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = len(csvHeader)

	records, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to parse CSV: %w", err)
	}

	for i, record := range records {
		if i == 0 {
			// Header row
			continue
		}

		task, err := taskFromRecord(record)
		if err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}

		s.tasks = append(s.tasks, task)
		if task.ID >= s.nextID {
			s.nextID = task.ID + 1
		}
	}

	return nil
}

// save rewrites the CSV file atomically.
func (s *Store) save() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tempPath := s.path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(csvHeader); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i := range s.tasks {
		if err := writer.Write(recordFromTask(&s.tasks[i])); err != nil {
			file.Close()
			os.Remove(tempPath)
			return fmt.Errorf("failed to write task %d: %w", s.tasks[i].ID, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace task file: %w", err)
	}

	return nil
}

// Add validates and stores a new task, assigning its ID.
// Empty status defaults to pending, a zero created date defaults to today,
// and a zero due date defaults to the created date.
func (s *Store) Add(task Task) (Task, error) {
	if task.Status == "" {
		task.Status = StatusPending
	}
	if err := task.Validate(); err != nil {
		return Task{}, err
	}

	if task.CreatedDate.IsZero() {
		task.CreatedDate = time.Now()
	}
	if task.DueDate.IsZero() {
		task.DueDate = task.CreatedDate
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task.ID = s.nextID
	s.nextID++
	s.tasks = append(s.tasks, task)

	if err := s.save(); err != nil {
		// Roll back the in-memory append so memory matches disk
		s.tasks = s.tasks[:len(s.tasks)-1]
		s.nextID--
		return Task{}, err
	}

	return task, nil
}

// Get returns the task with the given ID.
func (s *Store) Get(id int) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return s.tasks[i], nil
		}
	}
	return Task{}, fmt.Errorf("task %d not found", id)
}

// List returns all tasks ordered by priority, then ID.
func (s *Store) List() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortTasks(append([]Task(nil), s.tasks...))
}

// ListByDate returns tasks due on the given day.
func (s *Store) ListByDate(day time.Time) []Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Task
	for i := range s.tasks {
		if s.tasks[i].DueOn(day) {
			out = append(out, s.tasks[i])
		}
	}
	return sortTasks(out)
}

// ListPending returns all tasks that are not completed.
func (s *Store) ListPending() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Task
	for i := range s.tasks {
		if s.tasks[i].IsOpen() {
			out = append(out, s.tasks[i])
		}
	}
	return sortTasks(out)
}

// UpdateStatus changes a task's status. Completing a task stamps the
// completion date.
func (s *Store) UpdateStatus(id int, status Status) (Task, error) {
	if !ValidStatus(status) {
		return Task{}, fmt.Errorf("invalid task status: %s", status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID != id {
			continue
		}

		prev := s.tasks[i]
		s.tasks[i].Status = status
		if status == StatusCompleted {
			s.tasks[i].CompletionDate = time.Now()
		} else {
			s.tasks[i].CompletionDate = time.Time{}
		}

		if err := s.save(); err != nil {
			s.tasks[i] = prev
			return Task{}, err
		}
		return s.tasks[i], nil
	}

	return Task{}, fmt.Errorf("task %d not found", id)
}

// Rollover moves incomplete tasks due on or before from to the to date,
// incrementing their rollover count and annotating their notes.
// Returns the number of tasks moved.
func (s *Store) Rollover(from, to time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := append([]Task(nil), s.tasks...)
	moved := 0

	for i := range s.tasks {
		t := &s.tasks[i]
		if !t.IsOpen() {
			continue
		}
		if dayAfter(t.DueDate, from) {
			continue
		}

		note := fmt.Sprintf("rolled over from %s", t.DueDate.Format(DateFormat))
		if t.Notes != "" {
			t.Notes += "; " + note
		} else {
			t.Notes = note
		}
		t.DueDate = to
		t.RolloverCount++
		moved++
	}

	if moved == 0 {
		return 0, nil
	}

	if err := s.save(); err != nil {
		s.tasks = prev
		return 0, err
	}
	return moved, nil
}

// Search returns tasks whose title or category matches the glob pattern,
// case-insensitively. A pattern without wildcards matches as a substring.
func (s *Store) Search(pattern string) ([]Task, error) {
	pattern = strings.ToLower(strings.TrimSpace(pattern))
	if pattern == "" {
		return nil, fmt.Errorf("search pattern cannot be empty")
	}

	// Bare words become substring matches
	if !strings.ContainsAny(pattern, "*?[{") {
		pattern = "*" + pattern + "*"
	}

	matcher, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid search pattern %q: %w", pattern, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Task
	for i := range s.tasks {
		t := &s.tasks[i]
		if matcher.Match(strings.ToLower(t.Title)) || matcher.Match(strings.ToLower(t.Category)) {
			out = append(out, *t)
		}
	}
	return sortTasks(out), nil
}

// Path returns the CSV file path of the store.
func (s *Store) Path() string {
	return s.path
}

// sortTasks orders by priority (1 first) then ID for stable listings.
func sortTasks(list []Task) []Task {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Priority != list[j].Priority {
			return list[i].Priority < list[j].Priority
		}
		return list[i].ID < list[j].ID
	})
	return list
}

// taskFromRecord parses one CSV row.
func taskFromRecord(record []string) (Task, error) {
	if len(record) != len(csvHeader) {
		return Task{}, fmt.Errorf("expected %d fields, got %d", len(csvHeader), len(record))
	}

	id, err := strconv.Atoi(record[0])
	if err != nil {
		return Task{}, fmt.Errorf("invalid task id %q: %w", record[0], err)
	}

	priority, err := strconv.Atoi(record[4])
	if err != nil {
		return Task{}, fmt.Errorf("invalid priority %q: %w", record[4], err)
	}

	status := Status(record[5])
	if !ValidStatus(status) {
		return Task{}, fmt.Errorf("invalid status %q", record[5])
	}

	created, err := parseDate(record[6])
	if err != nil {
		return Task{}, fmt.Errorf("invalid created_date: %w", err)
	}
	due, err := parseDate(record[7])
	if err != nil {
		return Task{}, fmt.Errorf("invalid due_date: %w", err)
	}
	completed, err := parseDate(record[8])
	if err != nil {
		return Task{}, fmt.Errorf("invalid completion_date: %w", err)
	}

	rollovers, err := strconv.Atoi(record[9])
	if err != nil {
		return Task{}, fmt.Errorf("invalid rollover_count %q: %w", record[9], err)
	}

	return Task{
		ID:             id,
		Title:          record[1],
		Description:    record[2],
		Category:       record[3],
		Priority:       priority,
		Status:         status,
		CreatedDate:    created,
		DueDate:        due,
		CompletionDate: completed,
		RolloverCount:  rollovers,
		TimeBlock:      record[10],
		Notes:          record[11],
	}, nil
}

// recordFromTask serializes one task to a CSV row.
func recordFromTask(t *Task) []string {
	return []string{
		strconv.Itoa(t.ID),
		t.Title,
		t.Description,
		t.Category,
		strconv.Itoa(t.Priority),
		string(t.Status),
		formatDate(t.CreatedDate),
		formatDate(t.DueDate),
		formatDate(t.CompletionDate),
		strconv.Itoa(t.RolloverCount),
		t.TimeBlock,
		t.Notes,
	}
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(DateFormat, s)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateFormat)
}
