package progress

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"
)

// csvHeader is the column layout of progress.csv.
var csvHeader = []string{
	"date", "completed_tasks", "pending_tasks",
	"rolled_over_tasks", "productivity_score", "notes",
}

// Store is a CSV file backed progress log, one entry per day.
type Store struct {
	path    string
	mu      sync.Mutex
	entries []Entry
}

// NewStore opens the progress log at path. A missing file is not an
// error.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path}

	if err := s.load(); err != nil {
		return nil, fmt.Errorf("failed to load progress log from %s: %w", path, err)
	}

	return s, nil
}

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

		entry, err := entryFromRecord(record)
		if err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
		s.entries = append(s.entries, entry)
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

	for i := range s.entries {
		if err := writer.Write(recordFromEntry(&s.entries[i])); err != nil {
			file.Close()
			os.Remove(tempPath)
			return fmt.Errorf("failed to write entry for %s: %w",
				s.entries[i].Date.Format(DateFormat), err)
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
		return fmt.Errorf("failed to replace progress file: %w", err)
	}

	return nil
}

// Record upserts the entry for its date, computing the score from the
// completed and pending counts. Recording the same date twice replaces
// the earlier row.
func (s *Store) Record(entry Entry) (Entry, error) {
	if entry.Date.IsZero() {
		entry.Date = time.Now()
	}
	entry.Score = Score(entry.Completed, entry.Pending)

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := append([]Entry(nil), s.entries...)

	replaced := false
	for i := range s.entries {
		if sameDay(s.entries[i].Date, entry.Date) {
			s.entries[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		s.entries = append(s.entries, entry)
	}

	if err := s.save(); err != nil {
		s.entries = prev
		return Entry{}, err
	}
	return entry, nil
}

// Get returns the entry recorded for the given day.
func (s *Store) Get(day time.Time) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if sameDay(s.entries[i].Date, day) {
			return s.entries[i], true
		}
	}
	return Entry{}, false
}

// Window aggregates the entries from the last days days, today
// included, ordered oldest first.
func (s *Store) Window(days int) *Insights {
	if days <= 0 {
		days = DefaultWindowDays
	}
	cutoff := time.Now().AddDate(0, 0, -(days - 1))
	cutoff = time.Date(cutoff.Year(), cutoff.Month(), cutoff.Day(), 0, 0, 0, 0, cutoff.Location())

	s.mu.Lock()
	defer s.mu.Unlock()

	in := &Insights{Days: days}
	for i := range s.entries {
		if dayBefore(s.entries[i].Date, cutoff) {
			continue
		}
		in.Entries = append(in.Entries, s.entries[i])
	}
	sort.Slice(in.Entries, func(i, j int) bool {
		return in.Entries[i].Date.Before(in.Entries[j].Date)
	})

	if len(in.Entries) == 0 {
		return in
	}

	scoreSum := 0.0
	for _, e := range in.Entries {
		scoreSum += e.Score
		in.TotalCompleted += e.Completed
		in.TotalPending += e.Pending
		in.TotalRolledOver += e.RolledOver
	}
	in.AverageScore = round2(scoreSum / float64(len(in.Entries)))
	if total := in.TotalCompleted + in.TotalPending; total > 0 {
		in.CompletionRate = round2(float64(in.TotalCompleted) / float64(total) * 100)
	}

	return in
}

// Path returns the CSV file path of the store.
func (s *Store) Path() string {
	return s.path
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// dayBefore reports whether a falls on an earlier calendar date than b.
// Entry dates loaded from CSV are UTC midnights while the cutoff is
// local time, so instants must never be compared directly.
func dayBefore(a, b time.Time) bool {
	if a.Year() != b.Year() {
		return a.Year() < b.Year()
	}
	return a.YearDay() < b.YearDay()
}

// entryFromRecord parses one CSV row.
func entryFromRecord(record []string) (Entry, error) {
	if len(record) != len(csvHeader) {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", len(csvHeader), len(record))
	}

	date, err := time.Parse(DateFormat, record[0])
	if err != nil {
		return Entry{}, fmt.Errorf("invalid date %q: %w", record[0], err)
	}

	completed, err := strconv.Atoi(record[1])
	if err != nil {
		return Entry{}, fmt.Errorf("invalid completed_tasks %q: %w", record[1], err)
	}
	pending, err := strconv.Atoi(record[2])
	if err != nil {
		return Entry{}, fmt.Errorf("invalid pending_tasks %q: %w", record[2], err)
	}
	rolled, err := strconv.Atoi(record[3])
	if err != nil {
		return Entry{}, fmt.Errorf("invalid rolled_over_tasks %q: %w", record[3], err)
	}
	score, err := strconv.ParseFloat(record[4], 64)
	if err != nil {
		return Entry{}, fmt.Errorf("invalid productivity_score %q: %w", record[4], err)
	}

	return Entry{
		Date:       date,
		Completed:  completed,
		Pending:    pending,
		RolledOver: rolled,
		Score:      score,
		Notes:      record[5],
	}, nil
}

// recordFromEntry serializes one entry to a CSV row.
func recordFromEntry(e *Entry) []string {
	return []string{
		e.Date.Format(DateFormat),
		strconv.Itoa(e.Completed),
		strconv.Itoa(e.Pending),
		strconv.Itoa(e.RolledOver),
		strconv.FormatFloat(e.Score, 'f', 2, 64),
		e.Notes,
	}
}
