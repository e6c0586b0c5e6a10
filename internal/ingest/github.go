// Package ingest aggregates skill counts from external-source documents:
// repository search results and job postings. Both sources are mock
// fixtures; no network calls are made.
package ingest

import (
	"sort"
	"strings"

	"github.com/jonathan/skill-intel/internal/extract"
)

// Repository is the slice of repository metadata the ingester reads skills
// from: free-text fields plus language and topic tags.
type Repository struct {
	Name        string   `json:"name"`
	FullName    string   `json:"full_name"`
	Description string   `json:"description"`
	Language    string   `json:"language"`
	Topics      []string `json:"topics"`
	Stars       int      `json:"stars"`
	Forks       int      `json:"forks"`
}

// GitHubService searches mock repositories and aggregates the skills their
// metadata mentions.
type GitHubService struct {
	extractor *extract.Extractor
}

// NewGitHubService returns a service extracting skills with extractor.
func NewGitHubService(extractor *extract.Extractor) *GitHubService {
	return &GitHubService{extractor: extractor}
}

// SearchRepositories returns up to maxResults mock repositories matching the
// role and industry keywords. Unmatched criteria fall back to the full
// fixture set so a search never comes back empty.
func (s *GitHubService) SearchRepositories(role, industry string, maxResults int) []Repository {
	selected := filterRepositories(mockRepositories, role, industry)
	if maxResults > 0 && len(selected) > maxResults {
		selected = selected[:maxResults]
	}
	return selected
}

// ExtractSkillsFromRepos searches repositories and aggregates skill counts
// across all of them. A skill counts once per repository that mentions it.
func (s *GitHubService) ExtractSkillsFromRepos(role, industry string, maxRepos int) map[string]int {
	counts := make(map[string]int)
	for _, repo := range s.SearchRepositories(role, industry, maxRepos) {
		for _, match := range s.extractor.Extract(repositoryText(repo)) {
			counts[match.Skill]++
		}
	}
	return counts
}

// SortedCounts converts a count map to a slice ordered by descending count
// with an alphabetical tie-break, the order responses present skills in.
func SortedCounts(counts map[string]int) []SkillCount {
	out := make([]SkillCount, 0, len(counts))
	for skill, count := range counts {
		out = append(out, SkillCount{Skill: skill, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Skill < out[j].Skill
	})
	return out
}

// SkillCount is one aggregated skill occurrence count.
type SkillCount struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

// repositoryText flattens the searchable repository fields into one string
// for the extractor.
func repositoryText(repo Repository) string {
	parts := make([]string, 0, 5+len(repo.Topics))
	if repo.Name != "" {
		parts = append(parts, repo.Name)
	}
	if repo.Description != "" {
		parts = append(parts, repo.Description)
	}
	if repo.Language != "" {
		parts = append(parts, repo.Language)
	}
	parts = append(parts, repo.Topics...)
	if repo.FullName != "" {
		parts = append(parts, repo.FullName)
	}
	return strings.Join(parts, " ")
}

// filterRepositories narrows the fixture set by role and industry keywords,
// falling back to the full set when a filter matches nothing.
func filterRepositories(repos []Repository, role, industry string) []Repository {
	roleLower := strings.ToLower(role)

	selected := repos
	switch {
	case strings.Contains(roleLower, "backend") || strings.Contains(roleLower, "engineer"):
		selected = matchingRepositories(repos, "backend", "api", "service", "server")
	case strings.Contains(roleLower, "frontend"):
		selected = matchingRepositories(repos, "react", "frontend", "dashboard", "ui")
	}
	if len(selected) == 0 {
		selected = repos
	}

	industryLower := strings.ToLower(industry)
	if strings.Contains(industryLower, "fintech") || strings.Contains(industryLower, "finance") {
		if fintech := matchingRepositories(repos, "fintech", "finance"); len(fintech) > 0 {
			selected = fintech
		}
	}

	return selected
}

// matchingRepositories keeps repositories whose description or topics
// mention any of the keywords.
func matchingRepositories(repos []Repository, keywords ...string) []Repository {
	var out []Repository
	for _, repo := range repos {
		haystack := strings.ToLower(repo.Description + " " + strings.Join(repo.Topics, " "))
		for _, keyword := range keywords {
			if strings.Contains(haystack, keyword) {
				out = append(out, repo)
				break
			}
		}
	}
	return out
}

// mockRepositories stands in for repository search until a real search
// integration exists. Shapes mirror the public search API response fields
// the ingester reads.
var mockRepositories = []Repository{
	{
		Name:        "fintech-backend-api",
		FullName:    "company/fintech-backend-api",
		Description: "Backend API for financial services built with Python, FastAPI, and PostgreSQL",
		Language:    "Python",
		Topics:      []string{"fintech", "api", "python", "fastapi", "postgresql", "backend"},
		Stars:       450,
		Forks:       120,
	},
	{
		Name:        "payment-processing-service",
		FullName:    "fintech/payment-processing-service",
		Description: "Microservices architecture with Node.js, Express.js, and Redis for payment processing",
		Language:    "JavaScript",
		Topics:      []string{"microservices", "nodejs", "express", "redis", "payments", "fintech"},
		Stars:       320,
		Forks:       85,
	},
	{
		Name:        "react-fintech-dashboard",
		FullName:    "fintech/react-dashboard",
		Description: "Financial dashboard built with React, TypeScript, and Tailwind CSS",
		Language:    "TypeScript",
		Topics:      []string{"react", "typescript", "frontend", "dashboard", "fintech"},
		Stars:       280,
		Forks:       65,
	},
	{
		Name:        "backend-engineer-toolkit",
		FullName:    "opensource/backend-toolkit",
		Description: "Collection of backend tools and utilities using Python, Flask, Docker, and AWS",
		Language:    "Python",
		Topics:      []string{"backend", "python", "flask", "docker", "aws", "devops"},
		Stars:       210,
		Forks:       45,
	},
	{
		Name:        "api-gateway-service",
		FullName:    "company/api-gateway",
		Description: "REST API gateway implementation with Java, Spring Boot, and Kubernetes",
		Language:    "Java",
		Topics:      []string{"java", "spring", "kubernetes", "api-gateway", "microservices"},
		Stars:       180,
		Forks:       38,
	},
	{
		Name:        "nextjs-finance-app",
		FullName:    "fintech/nextjs-app",
		Description: "Modern finance application with Next.js, React, and PostgreSQL",
		Language:    "TypeScript",
		Topics:      []string{"nextjs", "react", "typescript", "postgresql", "finance"},
		Stars:       150,
		Forks:       32,
	},
	{
		Name:        "backend-cache-layer",
		FullName:    "backend/cache-service",
		Description: "Distributed caching solution using Redis, Docker, and CI/CD pipelines",
		Language:    "Python",
		Topics:      []string{"redis", "docker", "cicd", "backend", "caching"},
		Stars:       125,
		Forks:       28,
	},
	{
		Name:        "graphql-api-server",
		FullName:    "api/graphql-server",
		Description: "GraphQL API server built with Node.js, Express.js, and MongoDB",
		Language:    "JavaScript",
		Topics:      []string{"graphql", "nodejs", "express", "mongodb", "api"},
		Stars:       110,
		Forks:       25,
	},
}
