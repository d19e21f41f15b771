package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kaiwenlim/sg-events/internal/event"
)

// Store reads and writes pipeline artifacts under a single data directory.
type Store struct {
	dataDir string
}

// New creates the data directory if needed and returns a store over it.
// A leading ~/ expands to the user's home directory.
func New(dataDir string) (*Store, error) {
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Store{dataDir: dataDir}, nil
}

// DataDir returns the resolved data directory.
func (s *Store) DataDir() string {
	return s.dataDir
}

// SaveDiscovered writes Stage A rows to path.
func (s *Store) SaveDiscovered(path string, rows []event.Discovered) error {
	return writeJSON(path, rows)
}

// LoadDiscovered reads Stage A rows from path. A missing file yields an
// empty slice so the enrich stage can report it as zero input.
func (s *Store) LoadDiscovered(path string) ([]event.Discovered, error) {
	var rows []event.Discovered
	if err := readJSON(path, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// SaveEvents writes events to path. Used for the enriched, kept, and
// removed artifacts.
func (s *Store) SaveEvents(path string, events []*event.Event) error {
	return writeJSON(path, events)
}

// LoadEvents reads events from path, returning an empty slice when the file
// does not exist.
func (s *Store) LoadEvents(path string) ([]*event.Event, error) {
	var events []*event.Event
	if err := readJSON(path, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// LoadEventsByURL reads events from path keyed by URL, for resume checks.
// Events without a URL are skipped.
func (s *Store) LoadEventsByURL(path string) (map[string]*event.Event, error) {
	events, err := s.LoadEvents(path)
	if err != nil {
		return nil, err
	}
	byURL := make(map[string]*event.Event, len(events))
	for _, ev := range events {
		if ev.URL != "" {
			byURL[ev.URL] = ev
		}
	}
	return byURL, nil
}

// SaveFailed writes the per-URL failure records to path.
func (s *Store) SaveFailed(path string, failed []event.FailedItem) error {
	return writeJSON(path, failed)
}

// LoadFailed reads failure records from path, returning an empty slice when
// the file does not exist.
func (s *Store) LoadFailed(path string) ([]event.FailedItem, error) {
	var failed []event.FailedItem
	if err := readJSON(path, &failed); err != nil {
		return nil, err
	}
	return failed, nil
}

// Exists reports whether an artifact file is present, so stage
// preconditions can fail fast before any network activity.
func (s *Store) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return nil
}
