package trends

import (
	"context"
	"math"
	"sort"
)

// Trend classifications.
const (
	TrendRising    = "rising"
	TrendStable    = "stable"
	TrendDeclining = "declining"
)

// Classification thresholds on the raw change fraction, inclusive. Anything
// between them is stable. These are fixed policy, not per-call knobs.
const (
	risingThreshold    = 0.15
	decliningThreshold = -0.15
)

// TrendRecord is the per-skill comparison between two periods.
type TrendRecord struct {
	Skill            string  `json:"skill"`
	CurrentCount     int     `json:"current_count"`
	PreviousCount    int     `json:"previous_count"`
	AbsoluteChange   int     `json:"absolute_change"`
	PercentageChange float64 `json:"percentage_change"`
	Trend            string  `json:"trend"`
}

// Summary groups trend records by classification. Each list is sorted by
// descending magnitude of absolute change, and every input record lands in
// exactly one list.
type Summary struct {
	Rising    []TrendRecord `json:"rising"`
	Stable    []TrendRecord `json:"stable"`
	Declining []TrendRecord `json:"declining"`
}

// Engine compares a current count map against one historical snapshot.
type Engine struct {
	store Store
}

// NewEngine returns an engine reading history from store.
func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// AnalyzeTrends classifies every skill present in either the current counts
// or the comparison snapshot.
//
// Comparison snapshot resolution: when comparisonPeriod is set and exists,
// it is used; set but missing behaves as if no history exists. Otherwise the
// known periods are sorted descending and index min(periodsBack-1, last) is
// chosen. With no history at all, every current skill is classified as new.
func (e *Engine) AnalyzeTrends(ctx context.Context, current map[string]int, comparisonPeriod string, periodsBack int) (map[string]TrendRecord, error) {
	comparison, err := e.resolveComparison(ctx, comparisonPeriod, periodsBack)
	if err != nil {
		return nil, err
	}
	if comparison == nil {
		return classifyAllAsNew(current), nil
	}

	records := make(map[string]TrendRecord)

	for skill := range union(current, comparison) {
		currentCount := current[skill]
		previousCount := comparison[skill]

		var pct float64
		var trend string
		switch {
		case previousCount == 0 && currentCount > 0:
			// New skill: defined as a 100% increase.
			pct = 100.0
			trend = TrendRising
		case previousCount == 0:
			// Present in neither period meaningfully.
			continue
		default:
			fraction := float64(currentCount-previousCount) / float64(previousCount)
			pct = round2(fraction * 100)
			trend = classify(fraction)
		}

		records[skill] = TrendRecord{
			Skill:            skill,
			CurrentCount:     currentCount,
			PreviousCount:    previousCount,
			AbsoluteChange:   currentCount - previousCount,
			PercentageChange: pct,
			Trend:            trend,
		}
	}

	return records, nil
}

// resolveComparison returns the counts to compare against, or nil when there
// is no usable history.
func (e *Engine) resolveComparison(ctx context.Context, comparisonPeriod string, periodsBack int) (map[string]int, error) {
	if comparisonPeriod != "" {
		snap, err := e.store.Load(ctx, comparisonPeriod)
		if err != nil {
			return nil, err
		}
		if snap == nil {
			return nil, nil
		}
		return snap.SkillCounts, nil
	}

	periods, err := e.store.ListPeriods(ctx)
	if err != nil {
		return nil, err
	}
	if len(periods) == 0 {
		return nil, nil
	}

	if periodsBack < 1 {
		periodsBack = 1
	}
	idx := periodsBack - 1
	if idx > len(periods)-1 {
		idx = len(periods) - 1
	}

	snap, err := e.store.Load(ctx, periods[idx])
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, nil
	}
	return snap.SkillCounts, nil
}

// classify maps a raw change fraction to a trend. Boundaries are inclusive:
// exactly +15% is rising and exactly -15% is declining.
//
// The original design notes described a separate +/-5% "stable band", but
// the comparison logic never used it; anything strictly inside the +/-15%
// thresholds is stable, and that is the behavior kept here.
func classify(fraction float64) string {
	switch {
	case fraction >= risingThreshold:
		return TrendRising
	case fraction <= decliningThreshold:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// classifyAllAsNew is the no-history fallback: every current skill is a new,
// rising skill.
func classifyAllAsNew(current map[string]int) map[string]TrendRecord {
	records := make(map[string]TrendRecord, len(current))
	for skill, count := range current {
		records[skill] = TrendRecord{
			Skill:            skill,
			CurrentCount:     count,
			PreviousCount:    0,
			AbsoluteChange:   count,
			PercentageChange: 100.0,
			Trend:            TrendRising,
		}
	}
	return records
}

// Summarize partitions records into rising, stable and declining lists, each
// sorted by descending |absolute change|.
func Summarize(records map[string]TrendRecord) Summary {
	s := Summary{
		Rising:    []TrendRecord{},
		Stable:    []TrendRecord{},
		Declining: []TrendRecord{},
	}
	for _, rec := range records {
		switch rec.Trend {
		case TrendRising:
			s.Rising = append(s.Rising, rec)
		case TrendDeclining:
			s.Declining = append(s.Declining, rec)
		default:
			s.Stable = append(s.Stable, rec)
		}
	}

	sortByChangeMagnitude(s.Rising)
	sortByChangeMagnitude(s.Stable)
	sortByChangeMagnitude(s.Declining)
	return s
}

// SortedRecords flattens records into a slice sorted by descending
// |absolute change|, the order the API returns.
func SortedRecords(records map[string]TrendRecord) []TrendRecord {
	out := make([]TrendRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, rec)
	}
	sortByChangeMagnitude(out)
	return out
}

func sortByChangeMagnitude(records []TrendRecord) {
	sort.Slice(records, func(i, j int) bool {
		ai, aj := abs(records[i].AbsoluteChange), abs(records[j].AbsoluteChange)
		if ai != aj {
			return ai > aj
		}
		return records[i].Skill < records[j].Skill
	})
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func union(a, b map[string]int) map[string]struct{} {
	set := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		set[k] = struct{}{}
	}
	for k := range b {
		set[k] = struct{}{}
	}
	return set
}
