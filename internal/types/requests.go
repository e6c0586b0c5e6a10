// Package types defines the request payloads of the skill-intel REST API.
package types

import (
	"github.com/go-playground/validator/v10"
)

// AnalyzeRequest asks for skill recommendations for a role category.
// Fields are category strings, not personal identifiers.
type AnalyzeRequest struct {
	Role     string `json:"role" validate:"required,max=100"`
	Industry string `json:"industry" validate:"required,max=100"`
	Region   string `json:"region" validate:"required,max=100"`
}

// ExtractSkillsRequest carries raw text to extract skills from. Text is a
// pointer so a missing field can be told apart from an empty string: missing
// is a validation error, empty is a valid request with an empty result.
type ExtractSkillsRequest struct {
	Text *string `json:"text"`
}

// GitHubIngestRequest asks for aggregated skills from repository search.
type GitHubIngestRequest struct {
	Role     string `json:"role" validate:"required,max=100"`
	Industry string `json:"industry" validate:"required,max=100"`
	MaxRepos int    `json:"max_repos,omitempty"`
}

// JobPostingsIngestRequest carries job descriptions to aggregate, or asks
// for mock descriptions when UseMock is set.
type JobPostingsIngestRequest struct {
	UseMock         bool     `json:"use_mock,omitempty"`
	JobDescription  string   `json:"job_description,omitempty"`
	JobDescriptions []string `json:"job_descriptions,omitempty"`
	Role            string   `json:"role,omitempty" validate:"max=100"`
	Industry        string   `json:"industry,omitempty" validate:"max=100"`
	Count           int      `json:"count,omitempty"`
}

// TrendStoreRequest persists aggregated skill counts for a period. Counts
// arrive as JSON numbers and are range-checked before integer conversion.
type TrendStoreRequest struct {
	SkillCounts map[string]float64 `json:"skill_counts" validate:"required,min=1"`
	Period      string             `json:"period,omitempty" validate:"max=100"`
}

// TrendAnalyzeRequest compares current counts against stored history.
type TrendAnalyzeRequest struct {
	SkillCounts      map[string]float64 `json:"skill_counts" validate:"required,min=1"`
	ComparisonPeriod string             `json:"comparison_period,omitempty" validate:"max=100"`
	PeriodsBack      int                `json:"periods_back,omitempty"`
}

// Validate validates the AnalyzeRequest using the validator.
func (r *AnalyzeRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the GitHubIngestRequest using the validator.
func (r *GitHubIngestRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the JobPostingsIngestRequest using the validator.
func (r *JobPostingsIngestRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the TrendStoreRequest using the validator.
func (r *TrendStoreRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the TrendAnalyzeRequest using the validator.
func (r *TrendAnalyzeRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
