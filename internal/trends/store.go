package trends

import (
	"context"
	"fmt"
)

// Store persists skill-count snapshots keyed by period id. Re-saving a
// period overwrites it; this is a keyed read/write store, not a log.
type Store interface {
	// Save persists counts under period, defaulting period to the current
	// date when empty, and returns the period id actually used.
	Save(ctx context.Context, counts map[string]int, period string) (string, error)

	// Load returns the snapshot for period, or nil when no such period
	// exists. Absence is not an error.
	Load(ctx context.Context, period string) (*Snapshot, error)

	// ListPeriods returns all known period ids sorted descending, most
	// recent first.
	ListPeriods(ctx context.Context) ([]string, error)

	// ClearBefore removes every period with id lexicographically less than
	// cutoff, or all periods when cutoff is empty, and returns the number
	// removed.
	ClearBefore(ctx context.Context, cutoff string) (int, error)
}

// StorageError indicates the snapshot backing resource could not be read or
// written. A missing history file is not a StorageError; it is an empty
// history.
type StorageError struct {
	Op    string
	Path  string
	Cause error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("snapshot store: %s %s: %v", e.Op, e.Path, e.Cause)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}
