// Package trends persists aggregated skill-count snapshots and classifies
// per-skill movement between two periods.
package trends

import "time"

// Snapshot is one persisted record of aggregated skill counts for a period.
type Snapshot struct {
	Period           string         `json:"period"`
	Timestamp        string         `json:"timestamp"`
	SkillCounts      map[string]int `json:"skill_counts"`
	TotalOccurrences int            `json:"total_occurrences"`
	UniqueSkills     int            `json:"unique_skills"`
}

// NewSnapshot builds a snapshot for the given period from raw counts,
// stamping it with the current time in RFC 3339 form.
func NewSnapshot(period string, counts map[string]int) Snapshot {
	total := 0
	for _, n := range counts {
		total += n
	}
	return Snapshot{
		Period:           period,
		Timestamp:        time.Now().Format(time.RFC3339),
		SkillCounts:      counts,
		TotalOccurrences: total,
		UniqueSkills:     len(counts),
	}
}

// ResolvePeriod returns period unchanged when set, otherwise the current
// date in YYYY-MM-DD form. Period ids are opaque strings; date form keeps
// lexicographic and chronological order aligned.
func ResolvePeriod(period string) string {
	if period != "" {
		return period
	}
	return time.Now().Format("2006-01-02")
}
