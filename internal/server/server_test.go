package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalogJSON = `{
	"skills": {
		"Python":     {"category": "Programming Language", "aliases": ["py"]},
		"JavaScript": {"category": "Programming Language", "aliases": ["js"]},
		"React":      {"category": "Frontend Framework", "aliases": ["reactjs"]},
		"PostgreSQL": {"category": "Database", "aliases": ["postgres", "postgresql"]},
		"Redis":      {"category": "Database"},
		"Docker":     {"category": "DevOps"},
		"Kubernetes": {"category": "DevOps", "aliases": ["k8s"]},
		"AWS":        {"category": "Cloud"}
	}
}`

func newTestServer(t *testing.T) *Server {
	t.Helper()

	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "skills.json")
	require.NoError(t, os.WriteFile(catalogPath, []byte(testCatalogJSON), 0o644))

	srv, err := New(Config{
		Port:        0,
		CatalogPath: catalogPath,
		DataDir:     filepath.Join(dir, "trends"),
		CORSOrigins: []string{"*"},
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if srv.rateLimiter != nil {
			srv.rateLimiter.Stop()
		}
	})
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestRootEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Equal(t, "Skill Intelligence API", body["message"])
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/health", nil)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/extract-skills", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestExtractSkills(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/extract-skills",
		map[string]string{"text": "We use Python, Docker and postgres in production"})
	require.Equal(t, http.StatusOK, rec.Code)

	var body ExtractSkillsResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, 3, body.Count)
	require.Len(t, body.Skills, 3)
	assert.Equal(t, "Docker", body.Skills[0].Skill)
	assert.Equal(t, "PostgreSQL", body.Skills[1].Skill)
	assert.Equal(t, "Python", body.Skills[2].Skill)
}

func TestExtractSkills_MissingText(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/extract-skills", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Contains(t, body["error"], "text field is required")
}

func TestExtractSkills_EmptyText(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/extract-skills",
		map[string]string{"text": ""})
	require.Equal(t, http.StatusOK, rec.Code)

	var body ExtractSkillsResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, 0, body.Count)
	assert.NotNil(t, body.Skills)
}

func TestExtractSkills_TextTooLong(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/extract-skills",
		map[string]string{"text": strings.Repeat("a", maxExtractTextLength+1)})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExtractSkills_InvalidJSON(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/extract-skills",
		strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListSkills(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/skills", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Skills []string `json:"skills"`
		Count  int      `json:"count"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, 8, body.Count)
	assert.Contains(t, body.Skills, "Python")
	// Alphabetical order.
	assert.Equal(t, "AWS", body.Skills[0])
}

func TestAnalyze(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/analyze", map[string]string{
		"role":     "Backend Engineer",
		"industry": "FinTech",
		"region":   "USA",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		TopSkills      []string `json:"top_skills"`
		RoleRecognized bool     `json:"role_recognized"`
	}
	decodeBody(t, rec, &body)
	assert.True(t, body.RoleRecognized)
	assert.NotEmpty(t, body.TopSkills)
}

func TestAnalyze_MissingFields(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/analyze",
		map[string]string{"role": "Backend Engineer"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Contains(t, body["error"], "required")
}

func TestGitHubIngest(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/github/ingest", map[string]any{
		"role":     "Backend Engineer",
		"industry": "FinTech",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body GitHubIngestResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, "Backend Engineer", body.SearchCriteria.RoleCategory)
	assert.NotEmpty(t, body.Skills)
	assert.Equal(t, len(body.Skills), body.UniqueSkills)
}

func TestGitHubIngest_MissingRole(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/github/ingest",
		map[string]any{"industry": "FinTech"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestJobPostingsIngest_Descriptions(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/job-postings/ingest", map[string]any{
		"job_descriptions": []string{
			"Python and Docker required",
			"Python and Kubernetes preferred",
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body JobPostingsIngestResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, 2, body.JobPostingsAnalyzed)
	require.NotEmpty(t, body.Skills)
	assert.Equal(t, "Python", body.Skills[0].Skill)
	assert.Equal(t, 2, body.Skills[0].Count)
	assert.Equal(t, 1.0, body.Skills[0].Frequency)
}

func TestJobPostingsIngest_SingleDescription(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/job-postings/ingest", map[string]any{
		"job_description": "Looking for Redis and AWS experience",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body JobPostingsIngestResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, 1, body.JobPostingsAnalyzed)
	assert.Equal(t, 2, body.UniqueSkills)
}

func TestJobPostingsIngest_Mock(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/job-postings/ingest", map[string]any{
		"use_mock": true,
		"role":     "Backend Engineer",
		"count":    3,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body JobPostingsIngestResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, 3, body.JobPostingsAnalyzed)
	assert.NotEmpty(t, body.Skills)
}

func TestJobPostingsIngest_NoInput(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/job-postings/ingest", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTrendStoreAndAnalyze(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/trends/store", map[string]any{
		"skill_counts": map[string]float64{"Python": 100, "Docker": 50},
		"period":       "2026-08-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var stored TrendStoreResponse
	decodeBody(t, rec, &stored)
	assert.Equal(t, "2026-08-01", stored.Period)
	assert.Equal(t, 2, stored.SkillsCount)
	assert.Equal(t, 150, stored.TotalOccurrences)

	rec = doJSON(t, srv, http.MethodPost, "/api/trends/analyze", map[string]any{
		"skill_counts":      map[string]float64{"Python": 120, "Docker": 50},
		"comparison_period": "2026-08-01",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var analyzed TrendAnalyzeResponse
	decodeBody(t, rec, &analyzed)
	assert.Equal(t, 2, analyzed.TotalSkillsAnalyzed)
	assert.Equal(t, 1, analyzed.Summary.RisingCount)
	assert.Equal(t, 1, analyzed.Summary.StableCount)
}

func TestTrendStore_MissingCounts(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/trends/store", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTrendStore_NegativeCount(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/trends/store", map[string]any{
		"skill_counts": map[string]float64{"Python": -5},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Contains(t, body["error"], "non-negative")
}

func TestTrendPeriods_ListAndClear(t *testing.T) {
	srv := newTestServer(t)

	for _, period := range []string{"2026-06-01", "2026-07-01", "2026-08-01"} {
		rec := doJSON(t, srv, http.MethodPost, "/api/trends/store", map[string]any{
			"skill_counts": map[string]float64{"Python": 10},
			"period":       period,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(t, srv, http.MethodGet, "/api/trends/periods", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listed struct {
		Periods []string `json:"periods"`
		Count   int      `json:"count"`
	}
	decodeBody(t, rec, &listed)
	assert.Equal(t, 3, listed.Count)
	assert.Equal(t, []string{"2026-08-01", "2026-07-01", "2026-06-01"}, listed.Periods)

	rec = doJSON(t, srv, http.MethodDelete, "/api/trends/periods?before=2026-07-01", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var cleared map[string]int
	decodeBody(t, rec, &cleared)
	assert.Equal(t, 1, cleared["removed"])

	rec = doJSON(t, srv, http.MethodDelete, "/api/trends/periods", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &cleared)
	assert.Equal(t, 2, cleared["removed"])
}

func TestTrendPeriods_EmptyHistory(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/trends/periods", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listed struct {
		Periods []string `json:"periods"`
	}
	decodeBody(t, rec, &listed)
	assert.NotNil(t, listed.Periods)
	assert.Empty(t, listed.Periods)
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/extract-skills", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestNew_MissingCatalogIsFatal(t *testing.T) {
	_, err := New(Config{
		CatalogPath: filepath.Join(t.TempDir(), "nope.json"),
		DataDir:     t.TempDir(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "skill catalog")
}
