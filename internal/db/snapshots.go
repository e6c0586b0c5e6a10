package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jonathan/skill-intel/internal/trends"
)

// SnapshotStore implements trends.Store on PostgreSQL, one row per period.
// Saves are per-period upserts, so unlike the file store there is no
// whole-history rewrite; concurrent saves to different periods are safe.
type SnapshotStore struct {
	db *DB
}

// NewSnapshotStore returns a snapshot store backed by db.
func NewSnapshotStore(db *DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

// Save upserts the snapshot row for period and returns the period id used.
func (s *SnapshotStore) Save(ctx context.Context, counts map[string]int, period string) (string, error) {
	snap := trends.NewSnapshot(trends.ResolvePeriod(period), counts)

	countsJSON, err := json.Marshal(snap.SkillCounts)
	if err != nil {
		return "", fmt.Errorf("failed to marshal skill counts: %w", err)
	}

	_, err = s.db.pool.Exec(ctx,
		`INSERT INTO skill_snapshots (period, captured_at, skill_counts, total_occurrences, unique_skills)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (period) DO UPDATE
		 SET captured_at = $2, skill_counts = $3, total_occurrences = $4, unique_skills = $5`,
		snap.Period, snap.Timestamp, countsJSON, snap.TotalOccurrences, snap.UniqueSkills,
	)
	if err != nil {
		return "", fmt.Errorf("failed to save snapshot %s: %w", snap.Period, err)
	}
	return snap.Period, nil
}

// Load retrieves the snapshot for period, or nil when no row exists.
func (s *SnapshotStore) Load(ctx context.Context, period string) (*trends.Snapshot, error) {
	var snap trends.Snapshot
	var countsJSON []byte

	err := s.db.pool.QueryRow(ctx,
		`SELECT period, captured_at, skill_counts, total_occurrences, unique_skills
		 FROM skill_snapshots WHERE period = $1`,
		period,
	).Scan(&snap.Period, &snap.Timestamp, &countsJSON, &snap.TotalOccurrences, &snap.UniqueSkills)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load snapshot %s: %w", period, err)
	}

	if err := json.Unmarshal(countsJSON, &snap.SkillCounts); err != nil {
		return nil, fmt.Errorf("failed to decode skill counts for %s: %w", period, err)
	}
	return &snap, nil
}

// ListPeriods returns all period ids, most recent first.
func (s *SnapshotStore) ListPeriods(ctx context.Context) ([]string, error) {
	rows, err := s.db.pool.Query(ctx,
		`SELECT period FROM skill_snapshots ORDER BY period DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list periods: %w", err)
	}
	defer rows.Close()

	var periods []string
	for rows.Next() {
		var period string
		if err := rows.Scan(&period); err != nil {
			return nil, fmt.Errorf("failed to scan period: %w", err)
		}
		periods = append(periods, period)
	}
	return periods, nil
}

// ClearBefore deletes periods lexicographically below cutoff, or every
// period when cutoff is empty, and returns the number of rows removed.
func (s *SnapshotStore) ClearBefore(ctx context.Context, cutoff string) (int, error) {
	var (
		tag pgconn.CommandTag
		err error
	)
	if cutoff == "" {
		tag, err = s.db.pool.Exec(ctx, `DELETE FROM skill_snapshots`)
	} else {
		tag, err = s.db.pool.Exec(ctx, `DELETE FROM skill_snapshots WHERE period < $1`, cutoff)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to clear snapshots: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
