package schedule

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
)

// csvHeader is the column layout of schedule.csv. Task IDs are joined
// with semicolons inside the one field.
var csvHeader = []string{
	"block_id", "day", "start_time", "end_time",
	"block_name", "block_type", "task_ids",
}

// Store is a CSV file backed schedule store.
type Store struct {
	path   string
	mu     sync.Mutex
	blocks []Block
}

// NewStore opens the schedule at path. A missing file is seeded from
// the template and written out.
func NewStore(path string, tmpl *Template) (*Store, error) {
	s := &Store{path: path}

	loaded, err := s.load()
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule from %s: %w", path, err)
	}

	if !loaded {
		if tmpl == nil {
			tmpl = &Template{Blocks: defaultTemplate}
		}
		blocks, err := tmpl.Expand()
		if err != nil {
			return nil, err
		}
		s.blocks = blocks
		if err := s.save(); err != nil {
			return nil, fmt.Errorf("failed to seed schedule: %w", err)
		}
	}

	return s, nil
}

// load reads the CSV file into memory. Returns false when the file
// doesn't exist yet.
func (s *Store) load() (bool, error) {
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = len(csvHeader)

	records, err := reader.ReadAll()
	if err != nil {
		return false, fmt.Errorf("failed to parse CSV: %w", err)
	}

	for i, record := range records {
		if i == 0 {
			// Header row
			continue
		}

		block, err := blockFromRecord(record)
		if err != nil {
			return false, fmt.Errorf("row %d: %w", i+1, err)
		}
		s.blocks = append(s.blocks, block)
	}

	return true, nil
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

	for i := range s.blocks {
		if err := writer.Write(recordFromBlock(&s.blocks[i])); err != nil {
			file.Close()
			os.Remove(tempPath)
			return fmt.Errorf("failed to write block %d: %w", s.blocks[i].ID, err)
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
		return fmt.Errorf("failed to replace schedule file: %w", err)
	}

	return nil
}

// BlocksFor returns the blocks for the given weekday, ordered by start
// time.
func (s *Store) BlocksFor(day string) []Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Block
	for i := range s.blocks {
		if s.blocks[i].Day == day {
			out = append(out, s.blocks[i])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// Today returns the blocks for the current weekday.
func (s *Store) Today() []Block {
	return s.BlocksFor(time.Now().Weekday().String())
}

// FindBlock returns the block with the given name on the given day.
// Name matching is case-insensitive.
func (s *Store) FindBlock(day, name string) (Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.blocks {
		b := &s.blocks[i]
		if b.Day == day && strings.EqualFold(b.Name, name) {
			return *b, nil
		}
	}
	return Block{}, fmt.Errorf("no block named %q on %s", name, day)
}

// AssignTask adds a task to the named block on the given day.
// Assigning an already-present task is a no-op.
func (s *Store) AssignTask(day, name string, taskID int) (Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.blocks {
		b := &s.blocks[i]
		if b.Day != day || !strings.EqualFold(b.Name, name) {
			continue
		}

		if b.HasTask(taskID) {
			return *b, nil
		}

		prev := append([]int(nil), b.Tasks...)
		b.Tasks = append(b.Tasks, taskID)

		if err := s.save(); err != nil {
			b.Tasks = prev
			return Block{}, err
		}
		return *b, nil
	}

	return Block{}, fmt.Errorf("no block named %q on %s", name, day)
}

// UnassignTask removes a task from every block it appears in.
// Returns the number of blocks it was removed from.
func (s *Store) UnassignTask(taskID int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := make([][]int, len(s.blocks))
	removed := 0

	for i := range s.blocks {
		b := &s.blocks[i]
		prev[i] = b.Tasks
		if !b.HasTask(taskID) {
			continue
		}

		kept := make([]int, 0, len(b.Tasks)-1)
		for _, id := range b.Tasks {
			if id != taskID {
				kept = append(kept, id)
			}
		}
		b.Tasks = kept
		removed++
	}

	if removed == 0 {
		return 0, nil
	}

	if err := s.save(); err != nil {
		for i := range s.blocks {
			s.blocks[i].Tasks = prev[i]
		}
		return 0, err
	}
	return removed, nil
}

// TotalMinutes returns the scheduled minutes for the given weekday.
func (s *Store) TotalMinutes(day string) int {
	total := 0
	for _, b := range s.BlocksFor(day) {
		total += b.Minutes()
	}
	return total
}

// Path returns the CSV file path of the store.
func (s *Store) Path() string {
	return s.path
}

// blockFromRecord parses one CSV row.
func blockFromRecord(record []string) (Block, error) {
	if len(record) != len(csvHeader) {
		return Block{}, fmt.Errorf("expected %d fields, got %d", len(csvHeader), len(record))
	}

	id, err := strconv.Atoi(record[0])
	if err != nil {
		return Block{}, fmt.Errorf("invalid block id %q: %w", record[0], err)
	}

	tasks, err := parseTaskIDs(record[6])
	if err != nil {
		return Block{}, err
	}

	block := Block{
		ID:    id,
		Day:   record[1],
		Start: record[2],
		End:   record[3],
		Name:  record[4],
		Type:  record[5],
		Tasks: tasks,
	}
	if err := block.Validate(); err != nil {
		return Block{}, err
	}

	return block, nil
}

// recordFromBlock serializes one block to a CSV row.
func recordFromBlock(b *Block) []string {
	return []string{
		strconv.Itoa(b.ID),
		b.Day,
		b.Start,
		b.End,
		b.Name,
		b.Type,
		formatTaskIDs(b.Tasks),
	}
}

func parseTaskIDs(field string) ([]int, error) {
	if field == "" {
		return nil, nil
	}

	parts := strings.Split(field, ";")
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid task id %q in task_ids: %w", p, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func formatTaskIDs(ids []int) string {
	if len(ids) == 0 {
		return ""
	}

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ";")
}
