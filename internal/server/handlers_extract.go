package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/jonathan/skill-intel/internal/extract"
	"github.com/jonathan/skill-intel/internal/types"
)

// maxExtractTextLength caps extract-skills input to keep one request from
// paying an unbounded matching cost.
const maxExtractTextLength = 10000

// ExtractSkillsResponse lists the skills found in the submitted text. The
// text itself is processed in memory and never stored or echoed back.
type ExtractSkillsResponse struct {
	Skills []extract.Match `json:"skills"`
	Count  int             `json:"count"`
}

// handleExtractSkills extracts skills from raw text.
func (s *Server) handleExtractSkills(w http.ResponseWriter, r *http.Request) {
	var req types.ExtractSkillsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if req.Text == nil {
		s.errorResponse(w, http.StatusBadRequest, "text field is required")
		return
	}

	text := strings.TrimSpace(*req.Text)
	if len(text) > maxExtractTextLength {
		s.errorResponse(w, http.StatusBadRequest,
			fmt.Sprintf("Text exceeds maximum length of %d characters", maxExtractTextLength))
		return
	}

	// Empty text is a valid request with a valid empty answer.
	skills := s.extractor.Extract(text)

	s.jsonResponse(w, http.StatusOK, ExtractSkillsResponse{
		Skills: skills,
		Count:  len(skills),
	})
}

// handleListSkills lists every canonical skill in the vocabulary.
func (s *Server) handleListSkills(w http.ResponseWriter, _ *http.Request) {
	skills := s.catalog.ListAll()
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"skills": skills,
		"count":  len(skills),
	})
}
