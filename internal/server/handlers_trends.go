package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/jonathan/skill-intel/internal/trends"
	"github.com/jonathan/skill-intel/internal/types"
)

// TrendStoreResponse confirms a stored snapshot.
type TrendStoreResponse struct {
	Message          string `json:"message"`
	Period           string `json:"period"`
	SkillsCount      int    `json:"skills_count"`
	TotalOccurrences int    `json:"total_occurrences"`
}

// handleTrendStore persists aggregated skill counts for a period. Only
// aggregated counts are stored; period ids are date strings, never linked
// to users.
func (s *Server) handleTrendStore(w http.ResponseWriter, r *http.Request) {
	var req types.TrendStoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "skill_counts is required")
		return
	}

	counts, err := validateCounts(req.SkillCounts)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	period, err := s.store.Save(r.Context(), counts, sanitizeString(req.Period, 100))
	if err != nil {
		log.Printf("[trends] store failed: %v", err)
		s.errorResponse(w, HTTPStatus(err), "An error occurred while storing trend data")
		return
	}

	log.Printf("[trends] stored period %s: %d skills, %d occurrences",
		period, len(counts), sumCounts(counts))

	s.jsonResponse(w, http.StatusCreated, TrendStoreResponse{
		Message:          "Skill frequency data stored successfully",
		Period:           period,
		SkillsCount:      len(counts),
		TotalOccurrences: sumCounts(counts),
	})
}

// TrendSummaryResponse groups classified records with per-group counts.
type TrendSummaryResponse struct {
	RisingCount    int                  `json:"rising_count"`
	StableCount    int                  `json:"stable_count"`
	DecliningCount int                  `json:"declining_count"`
	Rising         []trends.TrendRecord `json:"rising"`
	Stable         []trends.TrendRecord `json:"stable"`
	Declining      []trends.TrendRecord `json:"declining"`
}

// TrendAnalyzeResponse carries every classified record plus the grouped
// summary.
type TrendAnalyzeResponse struct {
	Skills              []trends.TrendRecord `json:"skills"`
	Summary             TrendSummaryResponse `json:"summary"`
	TotalSkillsAnalyzed int                  `json:"total_skills_analyzed"`
}

// handleTrendAnalyze compares current counts against stored history.
func (s *Server) handleTrendAnalyze(w http.ResponseWriter, r *http.Request) {
	var req types.TrendAnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "skill_counts is required")
		return
	}

	counts, err := validateCounts(req.SkillCounts)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	periodsBack := boundedInt(req.PeriodsBack, 1, 1, 100)
	comparisonPeriod := sanitizeString(req.ComparisonPeriod, 100)

	records, err := s.engine.AnalyzeTrends(r.Context(), counts, comparisonPeriod, periodsBack)
	if err != nil {
		log.Printf("[trends] analysis failed: %v", err)
		s.errorResponse(w, HTTPStatus(err), "An error occurred during trend analysis")
		return
	}

	summary := trends.Summarize(records)

	log.Printf("[trends] analysis completed: %d skills, %d rising, %d declining",
		len(records), len(summary.Rising), len(summary.Declining))

	s.jsonResponse(w, http.StatusOK, TrendAnalyzeResponse{
		Skills: trends.SortedRecords(records),
		Summary: TrendSummaryResponse{
			RisingCount:    len(summary.Rising),
			StableCount:    len(summary.Stable),
			DecliningCount: len(summary.Declining),
			Rising:         summary.Rising,
			Stable:         summary.Stable,
			Declining:      summary.Declining,
		},
		TotalSkillsAnalyzed: len(records),
	})
}

// handleListPeriods lists the stored snapshot periods, most recent first.
func (s *Server) handleListPeriods(w http.ResponseWriter, r *http.Request) {
	periods, err := s.store.ListPeriods(r.Context())
	if err != nil {
		log.Printf("[trends] list periods failed: %v", err)
		s.errorResponse(w, HTTPStatus(err), "An error occurred while fetching historical periods")
		return
	}
	if periods == nil {
		periods = []string{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"periods": periods,
		"count":   len(periods),
	})
}

// handleClearPeriods prunes stored snapshots. With ?before=PERIOD only
// periods lexicographically below the cutoff are removed; without it the
// whole history is cleared.
func (s *Server) handleClearPeriods(w http.ResponseWriter, r *http.Request) {
	cutoff := sanitizeString(r.URL.Query().Get("before"), 100)

	removed, err := s.store.ClearBefore(r.Context(), cutoff)
	if err != nil {
		log.Printf("[trends] clear failed: %v", err)
		s.errorResponse(w, HTTPStatus(err), "An error occurred while clearing historical periods")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"removed": removed,
	})
}

// validateCounts range-checks client-supplied counts and converts them to
// integers, sanitizing skill names along the way.
func validateCounts(raw map[string]float64) (map[string]int, error) {
	counts := make(map[string]int, len(raw))
	for skill, value := range raw {
		if value < 0 {
			return nil, fmt.Errorf("invalid count for skill %q: must be non-negative", skill)
		}
		name := sanitizeString(skill, 100)
		if name == "" {
			continue
		}
		counts[name] = int(value)
	}
	if len(counts) == 0 {
		return nil, fmt.Errorf("skill_counts cannot be empty")
	}
	return counts, nil
}
