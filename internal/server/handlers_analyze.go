package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/jonathan/skill-intel/internal/analysis"
	"github.com/jonathan/skill-intel/internal/types"
)

// handleAnalyze returns skill recommendations for a role/industry/region
// query. Inputs are treated as category strings and are not stored.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req types.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	req.Role = sanitizeString(req.Role, 100)
	req.Industry = sanitizeString(req.Industry, 100)
	req.Region = sanitizeString(req.Region, 100)

	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "role, industry, and region are required")
		return
	}

	result := analysis.AnalyzeRole(req.Role, req.Industry, req.Region)

	// Log category-level metrics only; inputs are not echoed to logs.
	log.Printf("[analyze] recommendation served, role_recognized=%t", result.RoleRecognized)

	s.jsonResponse(w, http.StatusOK, result)
}
