package trends

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func engineWithHistory(t *testing.T, history map[string]map[string]int) *Engine {
	t.Helper()
	store := newTestStore(t)
	for period, counts := range history {
		_, err := store.Save(context.Background(), counts, period)
		require.NoError(t, err)
	}
	return NewEngine(store)
}

func TestAnalyzeTrends_NoHistory(t *testing.T) {
	engine := engineWithHistory(t, nil)

	records, err := engine.AnalyzeTrends(context.Background(), map[string]int{"Go": 4, "Rust": 1}, "", 1)
	require.NoError(t, err)
	require.Len(t, records, 2)

	for _, rec := range records {
		assert.Equal(t, TrendRising, rec.Trend)
		assert.Equal(t, 0, rec.PreviousCount)
		assert.Equal(t, 100.0, rec.PercentageChange)
	}
	assert.Equal(t, 4, records["Go"].AbsoluteChange)
}

func TestAnalyzeTrends_Classification(t *testing.T) {
	engine := engineWithHistory(t, map[string]map[string]int{
		"2026-08-01": {
			"Python":     100,
			"Go":         100,
			"JavaScript": 100,
			"Ruby":       100,
			"Rust":       0,
		},
	})

	current := map[string]int{
		"Python":     120, // +20% rising
		"Go":         100, // unchanged, stable
		"JavaScript": 90,  // -10% stable
		"Ruby":       80,  // -20% declining
		"Rust":       5,   // new, rising at 100%
	}

	records, err := engine.AnalyzeTrends(context.Background(), current, "2026-08-01", 1)
	require.NoError(t, err)

	assert.Equal(t, TrendRising, records["Python"].Trend)
	assert.Equal(t, 20.0, records["Python"].PercentageChange)
	assert.Equal(t, 20, records["Python"].AbsoluteChange)

	assert.Equal(t, TrendStable, records["Go"].Trend)
	assert.Equal(t, 0.0, records["Go"].PercentageChange)

	assert.Equal(t, TrendStable, records["JavaScript"].Trend)
	assert.Equal(t, -10.0, records["JavaScript"].PercentageChange)

	assert.Equal(t, TrendDeclining, records["Ruby"].Trend)
	assert.Equal(t, -20.0, records["Ruby"].PercentageChange)

	assert.Equal(t, TrendRising, records["Rust"].Trend)
	assert.Equal(t, 100.0, records["Rust"].PercentageChange)
}

func TestAnalyzeTrends_InclusiveThresholds(t *testing.T) {
	engine := engineWithHistory(t, map[string]map[string]int{
		"2026-08-01": {"A": 100, "B": 100, "C": 100, "D": 100},
	})

	current := map[string]int{
		"A": 115, // exactly +15%: rising
		"B": 114, // just under: stable
		"C": 85,  // exactly -15%: declining
		"D": 86,  // just inside: stable
	}

	records, err := engine.AnalyzeTrends(context.Background(), current, "2026-08-01", 1)
	require.NoError(t, err)

	assert.Equal(t, TrendRising, records["A"].Trend)
	assert.Equal(t, TrendStable, records["B"].Trend)
	assert.Equal(t, TrendDeclining, records["C"].Trend)
	assert.Equal(t, TrendStable, records["D"].Trend)
}

func TestAnalyzeTrends_SkillGoneFromCurrent(t *testing.T) {
	engine := engineWithHistory(t, map[string]map[string]int{
		"2026-08-01": {"Perl": 40},
	})

	records, err := engine.AnalyzeTrends(context.Background(), map[string]int{}, "2026-08-01", 1)
	require.NoError(t, err)

	perl, ok := records["Perl"]
	require.True(t, ok)
	assert.Equal(t, TrendDeclining, perl.Trend)
	assert.Equal(t, 0, perl.CurrentCount)
	assert.Equal(t, -40, perl.AbsoluteChange)
	assert.Equal(t, -100.0, perl.PercentageChange)
}

func TestAnalyzeTrends_ZeroInBothPeriodsOmitted(t *testing.T) {
	engine := engineWithHistory(t, map[string]map[string]int{
		"2026-08-01": {"Ghost": 0, "Go": 10},
	})

	records, err := engine.AnalyzeTrends(context.Background(), map[string]int{"Ghost": 0, "Go": 10}, "2026-08-01", 1)
	require.NoError(t, err)

	_, ok := records["Ghost"]
	assert.False(t, ok)
	assert.Contains(t, records, "Go")
}

func TestAnalyzeTrends_ExplicitPeriodMissing(t *testing.T) {
	engine := engineWithHistory(t, map[string]map[string]int{
		"2026-08-01": {"Go": 100},
	})

	// A named comparison period that does not exist behaves like no history.
	records, err := engine.AnalyzeTrends(context.Background(), map[string]int{"Go": 100}, "2020-01-01", 1)
	require.NoError(t, err)

	assert.Equal(t, TrendRising, records["Go"].Trend)
	assert.Equal(t, 0, records["Go"].PreviousCount)
}

func TestAnalyzeTrends_PeriodsBack(t *testing.T) {
	engine := engineWithHistory(t, map[string]map[string]int{
		"2026-06-01": {"Go": 10},
		"2026-07-01": {"Go": 50},
		"2026-08-01": {"Go": 100},
	})

	// periodsBack=2 selects the second most recent period.
	records, err := engine.AnalyzeTrends(context.Background(), map[string]int{"Go": 100}, "", 2)
	require.NoError(t, err)
	assert.Equal(t, 50, records["Go"].PreviousCount)

	// Beyond the oldest period, the oldest is used.
	records, err = engine.AnalyzeTrends(context.Background(), map[string]int{"Go": 100}, "", 99)
	require.NoError(t, err)
	assert.Equal(t, 10, records["Go"].PreviousCount)
}

func TestAnalyzeTrends_PercentageRounding(t *testing.T) {
	engine := engineWithHistory(t, map[string]map[string]int{
		"2026-08-01": {"Go": 3},
	})

	// 1/3 increase rounds to 33.33.
	records, err := engine.AnalyzeTrends(context.Background(), map[string]int{"Go": 4}, "2026-08-01", 1)
	require.NoError(t, err)
	assert.Equal(t, 33.33, records["Go"].PercentageChange)
}

func TestSummarize(t *testing.T) {
	records := map[string]TrendRecord{
		"A": {Skill: "A", AbsoluteChange: 5, Trend: TrendRising},
		"B": {Skill: "B", AbsoluteChange: 20, Trend: TrendRising},
		"C": {Skill: "C", AbsoluteChange: -3, Trend: TrendDeclining},
		"D": {Skill: "D", AbsoluteChange: 0, Trend: TrendStable},
	}

	summary := Summarize(records)

	require.Len(t, summary.Rising, 2)
	assert.Equal(t, "B", summary.Rising[0].Skill)
	assert.Equal(t, "A", summary.Rising[1].Skill)
	require.Len(t, summary.Declining, 1)
	require.Len(t, summary.Stable, 1)
}

func TestSummarize_EmptyListsNotNil(t *testing.T) {
	summary := Summarize(nil)

	assert.NotNil(t, summary.Rising)
	assert.NotNil(t, summary.Stable)
	assert.NotNil(t, summary.Declining)
}

func TestSortedRecords(t *testing.T) {
	records := map[string]TrendRecord{
		"A": {Skill: "A", AbsoluteChange: -30},
		"B": {Skill: "B", AbsoluteChange: 10},
		"C": {Skill: "C", AbsoluteChange: 10},
	}

	sorted := SortedRecords(records)
	require.Len(t, sorted, 3)
	assert.Equal(t, "A", sorted[0].Skill)
	// Equal magnitude falls back to skill-name order.
	assert.Equal(t, "B", sorted[1].Skill)
	assert.Equal(t, "C", sorted[2].Skill)
}
