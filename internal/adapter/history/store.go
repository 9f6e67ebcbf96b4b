// Package history keeps a bounded local JSON history of each pipeline
// artifact, one file per artifact kind. It is the always-available half of
// the Load stage: the durable store may come and go, these files do not.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"
)

// Store appends timestamped entries to per-kind history files and trims each
// file to a maximum entry count so they never grow unbounded.
type Store struct {
	dir        string
	maxEntries int
	clock      clockwork.Clock
	logger     *slog.Logger
}

// NewStore creates a history store rooted at dir.
func NewStore(dir string, maxEntries int, clock clockwork.Clock, logger *slog.Logger) *Store {
	return &Store{dir: dir, maxEntries: maxEntries, clock: clock, logger: logger}
}

type entry struct {
	Timestamp string `json:"timestamp"`
	Data      any    `json:"data"`
}

// Append adds one timestamped entry to the kind's history file, creating the
// file on first use. A corrupt history file is logged and restarted rather
// than failing the load.
func (s *Store) Append(kind string, payload any) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}

	path := s.path(kind)
	entries := s.readEntries(path)

	raw, err := json.Marshal(entry{
		Timestamp: s.clock.Now().UTC().Format(time.RFC3339),
		Data:      payload,
	})
	if err != nil {
		return fmt.Errorf("marshal %s history entry: %w", kind, err)
	}
	entries = append(entries, raw)

	if len(entries) > s.maxEntries {
		entries = entries[len(entries)-s.maxEntries:]
	}

	out, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s history: %w", kind, err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write %s history: %w", kind, err)
	}
	return nil
}

// Entries returns the current history entries for a kind, newest last.
func (s *Store) Entries(kind string) []json.RawMessage {
	return s.readEntries(s.path(kind))
}

func (s *Store) path(kind string) string {
	return filepath.Join(s.dir, "historical_"+kind+".json")
}

func (s *Store) readEntries(path string) []json.RawMessage {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		s.logger.Warn("history file unreadable, starting fresh", "path", path, "error", err)
		return nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		s.logger.Warn("history file corrupt, starting fresh", "path", path, "error", err)
		return nil
	}
	return entries
}
