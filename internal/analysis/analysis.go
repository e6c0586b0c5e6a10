// Package analysis provides keyword-matched skill recommendations for a
// role, industry and region. The tables are curated mock data; a production
// deployment would query aggregated snapshot history instead.
package analysis

import (
	"fmt"
	"strings"
)

// Result is the skill recommendation set for one role/industry/region query.
type Result struct {
	TopSkills         []string `json:"top_skills"`
	TrendingSkills    []string `json:"trending_skills"`
	RecommendedSkills []string `json:"recommended_skills"`
	RoleRecognized    bool     `json:"role_recognized"`
	Message           string   `json:"message,omitempty"`
}

var knownRolePatterns = []string{
	"backend", "engineer", "frontend", "ui", "full", "stack",
	"data scientist", "data engineer", "devops", "qa", "tester",
	"product manager", "designer", "architect",
}

// AnalyzeRole matches the role and industry strings against the curated
// tables. Inputs are category strings, never personal identifiers; nothing
// is stored.
func AnalyzeRole(role, industry, region string) Result {
	result := Result{
		TopSkills:         topSkills(role, industry),
		TrendingSkills:    trendingSkills(role, industry, region),
		RecommendedSkills: recommendedSkills(role),
		RoleRecognized:    roleRecognized(role),
	}

	if !result.RoleRecognized {
		result.Message = fmt.Sprintf(
			"The role '%s' doesn't match our known patterns. Showing generic skills. "+
				"Try roles like 'Backend Engineer', 'Frontend Developer', or 'Full Stack Developer' "+
				"for more specific results.", role)
	}

	return result
}

func roleRecognized(role string) bool {
	roleLower := strings.ToLower(role)
	for _, pattern := range knownRolePatterns {
		if strings.Contains(roleLower, pattern) {
			return true
		}
	}
	return false
}

func topSkills(role, industry string) []string {
	roleLower := strings.ToLower(role)

	var skills []string
	switch {
	case strings.Contains(roleLower, "backend"):
		skills = []string{"Python", "PostgreSQL", "Docker", "REST API", "Redis"}
	case strings.Contains(roleLower, "frontend"):
		skills = []string{"JavaScript", "React", "TypeScript", "CSS", "HTML"}
	case strings.Contains(roleLower, "full") || strings.Contains(roleLower, "stack"):
		skills = []string{"JavaScript", "Node.js", "React", "PostgreSQL", "Docker"}
	case strings.Contains(roleLower, "devops"):
		skills = []string{"Kubernetes", "Docker", "Terraform", "AWS", "CI/CD"}
	case strings.Contains(roleLower, "data"):
		skills = []string{"Python", "SQL", "Kafka", "Machine Learning", "AWS"}
	default:
		skills = []string{"Python", "JavaScript", "SQL", "Git", "Docker"}
	}

	industryLower := strings.ToLower(industry)
	if strings.Contains(industryLower, "fintech") || strings.Contains(industryLower, "finance") {
		skills = append(skills[:4:4], "Kafka")
	}

	return skills
}

func trendingSkills(role, industry, region string) []string {
	roleLower := strings.ToLower(role)

	var skills []string
	switch {
	case strings.Contains(roleLower, "frontend"):
		skills = []string{"Next.js", "TypeScript", "Tailwind CSS"}
	case strings.Contains(roleLower, "devops"):
		skills = []string{"Kubernetes", "Terraform", "GCP"}
	case strings.Contains(roleLower, "data"):
		skills = []string{"Machine Learning", "Kafka", "FastAPI"}
	default:
		skills = []string{"Go", "Kubernetes", "GraphQL"}
	}

	// Region appends to the trending list rather than replacing it.
	regionLower := strings.ToLower(region)
	if strings.Contains(regionLower, "europe") {
		skills = append(skills, "GDPR Compliance")
	}

	return skills
}

func recommendedSkills(role string) []string {
	roleLower := strings.ToLower(role)
	switch {
	case strings.Contains(roleLower, "backend"):
		return []string{"Kubernetes", "GraphQL", "Go"}
	case strings.Contains(roleLower, "frontend"):
		return []string{"Next.js", "GraphQL", "Node.js"}
	case strings.Contains(roleLower, "devops"):
		return []string{"Go", "Python", "Machine Learning"}
	default:
		return []string{"Docker", "TypeScript", "SQL"}
	}
}
