// Package session persists conversation transcripts across runs so a
// chat can pick up where the last one left off.
package session

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/daykeep/daykeep/pkg/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	agent      TEXT PRIMARY KEY,
	transcript TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
`

// Store keeps one saved transcript per agent in a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the session database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}

	// Serialize access; the store is hit once per chat turn at most.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create session schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save replaces the stored transcript for the given agent.
func (s *Store) Save(agent string, history []*types.Message) error {
	if agent == "" {
		return fmt.Errorf("agent name cannot be empty")
	}

	transcript, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to encode transcript: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO sessions (agent, transcript, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(agent) DO UPDATE SET
			transcript = excluded.transcript,
			updated_at = excluded.updated_at`,
		agent, string(transcript), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save session for %s: %w", agent, err)
	}
	return nil
}

// Load returns the stored transcript for the given agent, or nil when
// no session has been saved yet.
func (s *Store) Load(agent string) ([]*types.Message, error) {
	var transcript string
	err := s.db.QueryRow(
		`SELECT transcript FROM sessions WHERE agent = ?`, agent,
	).Scan(&transcript)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session for %s: %w", agent, err)
	}

	var history []*types.Message
	if err := json.Unmarshal([]byte(transcript), &history); err != nil {
		return nil, fmt.Errorf("failed to decode transcript for %s: %w", agent, err)
	}
	return history, nil
}

// Clear deletes the stored transcript for the given agent.
func (s *Store) Clear(agent string) error {
	if _, err := s.db.Exec(`DELETE FROM sessions WHERE agent = ?`, agent); err != nil {
		return fmt.Errorf("failed to clear session for %s: %w", agent, err)
	}
	return nil
}

// Agents lists the agents that have a saved transcript.
func (s *Store) Agents() ([]string, error) {
	rows, err := s.db.Query(`SELECT agent FROM sessions ORDER BY agent`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var agents []string
	for rows.Next() {
		var agent string
		if err := rows.Scan(&agent); err != nil {
			return nil, err
		}
		agents = append(agents, agent)
	}
	return agents, rows.Err()
}
