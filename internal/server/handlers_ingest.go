package server

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"strings"

	"github.com/jonathan/skill-intel/internal/ingest"
	"github.com/jonathan/skill-intel/internal/types"
)

const (
	maxJobDescriptions     = 100
	maxDescriptionLength   = 50000
	defaultRepositoryCount = 10
	defaultMockJobCount    = 5
)

// GitHubIngestResponse carries aggregated, anonymized skill counts from
// repository search. No repository URLs or owner identities are returned.
type GitHubIngestResponse struct {
	SearchCriteria        SearchCriteria      `json:"search_criteria"`
	RepositoriesAnalyzed  int                 `json:"repositories_analyzed"`
	Skills                []ingest.SkillCount `json:"skills"`
	TotalSkillOccurrences int                 `json:"total_skill_occurrences"`
	UniqueSkills          int                 `json:"unique_skills"`
}

// SearchCriteria echoes the sanitized category strings a search ran with.
type SearchCriteria struct {
	RoleCategory     string `json:"role_category"`
	IndustryCategory string `json:"industry_category"`
}

// handleGitHubIngest aggregates skills across mock repository search
// results.
func (s *Server) handleGitHubIngest(w http.ResponseWriter, r *http.Request) {
	var req types.GitHubIngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	req.Role = sanitizeString(req.Role, 100)
	req.Industry = sanitizeString(req.Industry, 100)
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "role and industry are required")
		return
	}

	maxRepos := boundedInt(req.MaxRepos, defaultRepositoryCount, 1, 100)
	counts := s.github.ExtractSkillsFromRepos(req.Role, req.Industry, maxRepos)

	log.Printf("[ingest] repository ingestion completed: %d repositories, %d unique skills",
		maxRepos, len(counts))

	s.jsonResponse(w, http.StatusOK, GitHubIngestResponse{
		SearchCriteria: SearchCriteria{
			RoleCategory:     req.Role,
			IndustryCategory: req.Industry,
		},
		RepositoriesAnalyzed:  maxRepos,
		Skills:                ingest.SortedCounts(counts),
		TotalSkillOccurrences: sumCounts(counts),
		UniqueSkills:          len(counts),
	})
}

// JobSkillCount is one aggregated skill with its share of analyzed
// postings.
type JobSkillCount struct {
	Skill     string  `json:"skill"`
	Count     int     `json:"count"`
	Frequency float64 `json:"frequency"`
}

// JobPostingsIngestResponse carries aggregated skill counts across job
// descriptions. Description text is processed in memory and discarded.
type JobPostingsIngestResponse struct {
	Skills                []JobSkillCount `json:"skills"`
	TotalSkillOccurrences int             `json:"total_skill_occurrences"`
	UniqueSkills          int             `json:"unique_skills"`
	JobPostingsAnalyzed   int             `json:"job_postings_analyzed"`
}

// handleJobPostingsIngest aggregates skills across submitted or mock job
// descriptions.
func (s *Server) handleJobPostingsIngest(w http.ResponseWriter, r *http.Request) {
	var req types.JobPostingsIngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	var descriptions []string
	switch {
	case req.UseMock:
		role := sanitizeString(req.Role, 100)
		industry := sanitizeString(req.Industry, 100)
		count := boundedInt(req.Count, defaultMockJobCount, 1, 20)
		descriptions = s.jobs.MockDescriptions(role, industry, count)

	case len(req.JobDescriptions) > 0:
		if len(req.JobDescriptions) > maxJobDescriptions {
			s.errorResponse(w, http.StatusBadRequest,
				fmt.Sprintf("Maximum %d job descriptions allowed", maxJobDescriptions))
			return
		}
		for _, desc := range req.JobDescriptions {
			if desc = truncate(strings.TrimSpace(desc), maxDescriptionLength); desc != "" {
				descriptions = append(descriptions, desc)
			}
		}

	case req.JobDescription != "":
		desc := truncate(strings.TrimSpace(req.JobDescription), maxDescriptionLength)
		if desc == "" {
			s.errorResponse(w, http.StatusBadRequest, "job_description cannot be empty")
			return
		}
		descriptions = []string{desc}

	default:
		s.errorResponse(w, http.StatusBadRequest,
			"Either job_description, job_descriptions, or use_mock=true is required")
		return
	}

	if len(descriptions) == 0 {
		s.jsonResponse(w, http.StatusOK, JobPostingsIngestResponse{Skills: []JobSkillCount{}})
		return
	}

	counts, err := s.jobs.AggregateSkillCounts(r.Context(), descriptions)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), "An error occurred while processing job postings")
		return
	}

	skills := make([]JobSkillCount, 0, len(counts))
	for _, sc := range ingest.SortedCounts(counts) {
		skills = append(skills, JobSkillCount{
			Skill:     sc.Skill,
			Count:     sc.Count,
			Frequency: math.Round(float64(sc.Count)/float64(len(descriptions))*100) / 100,
		})
	}

	log.Printf("[ingest] job posting ingestion completed: %d descriptions, %d unique skills",
		len(descriptions), len(counts))

	s.jsonResponse(w, http.StatusOK, JobPostingsIngestResponse{
		Skills:                skills,
		TotalSkillOccurrences: sumCounts(counts),
		UniqueSkills:          len(counts),
		JobPostingsAnalyzed:   len(descriptions),
	})
}

func sumCounts(counts map[string]int) int {
	total := 0
	for _, n := range counts {
		total += n
	}
	return total
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
