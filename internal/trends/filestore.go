package trends

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sort"
)

const historyFileName = "historical_data.json"

// FileStore keeps every snapshot in a single JSON file, one entry per
// period. Each save is a whole-file read-modify-write: two concurrent
// writers on the same file race and the last write wins. Callers needing
// strict consistency must serialize writes themselves; this store does not.
type FileStore struct {
	path string
}

// NewFileStore creates the data directory if needed and returns a store
// backed by dataDir/historical_data.json.
func NewFileStore(dataDir string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, &StorageError{Op: "create data dir", Path: dataDir, Cause: err}
	}
	return &FileStore{path: filepath.Join(dataDir, historyFileName)}, nil
}

// Save persists counts under period, overwriting any existing entry.
func (s *FileStore) Save(_ context.Context, counts map[string]int, period string) (string, error) {
	history, err := s.readHistory()
	if err != nil {
		return "", err
	}

	period = ResolvePeriod(period)
	history[period] = NewSnapshot(period, counts)

	if err := s.writeHistory(history); err != nil {
		return "", err
	}
	return period, nil
}

// Load returns the snapshot for period, or nil when the period is unknown.
func (s *FileStore) Load(_ context.Context, period string) (*Snapshot, error) {
	history, err := s.readHistory()
	if err != nil {
		return nil, err
	}
	snap, ok := history[period]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

// ListPeriods returns all period ids, most recent first.
func (s *FileStore) ListPeriods(_ context.Context) ([]string, error) {
	history, err := s.readHistory()
	if err != nil {
		return nil, err
	}
	periods := make([]string, 0, len(history))
	for period := range history {
		periods = append(periods, period)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(periods)))
	return periods, nil
}

// ClearBefore removes periods lexicographically below cutoff, or everything
// when cutoff is empty.
func (s *FileStore) ClearBefore(_ context.Context, cutoff string) (int, error) {
	history, err := s.readHistory()
	if err != nil {
		return 0, err
	}

	removed := 0
	for period := range history {
		if cutoff == "" || period < cutoff {
			delete(history, period)
			removed++
		}
	}

	if err := s.writeHistory(history); err != nil {
		return 0, err
	}
	return removed, nil
}

// readHistory loads the full history map. A missing file is a valid empty
// history. A file that exists but does not parse is also treated as empty:
// the store favors availability over strict correctness for corrupted
// snapshots rather than failing every subsequent request.
func (s *FileStore) readHistory() (map[string]Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]Snapshot{}, nil
		}
		return nil, &StorageError{Op: "read", Path: s.path, Cause: err}
	}

	history := map[string]Snapshot{}
	if err := json.Unmarshal(data, &history); err != nil {
		log.Printf("[trends] discarding malformed history file %s: %v", s.path, err)
		return map[string]Snapshot{}, nil
	}
	return history, nil
}

func (s *FileStore) writeHistory(history map[string]Snapshot) error {
	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return &StorageError{Op: "encode", Path: s.path, Cause: err}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return &StorageError{Op: "write", Path: s.path, Cause: err}
	}
	return nil
}
