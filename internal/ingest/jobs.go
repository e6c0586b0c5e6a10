package ingest

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/skill-intel/internal/extract"
)

// JobPostingService extracts and aggregates skills from job description
// text. Descriptions are processed in memory and never stored.
type JobPostingService struct {
	extractor *extract.Extractor
}

// NewJobPostingService returns a service extracting skills with extractor.
func NewJobPostingService(extractor *extract.Extractor) *JobPostingService {
	return &JobPostingService{extractor: extractor}
}

// ExtractFromDescription extracts the skills one job description mentions.
// HTML descriptions are reduced to visible text first.
func (s *JobPostingService) ExtractFromDescription(description string) []extract.Match {
	return s.extractor.Extract(textFromDescription(description))
}

// AggregateSkillCounts extracts skills from every description concurrently
// and merges the per-description results into one count map. A skill counts
// once per description that mentions it. Extraction is pure, so the fan-out
// shares nothing but the immutable extractor.
func (s *JobPostingService) AggregateSkillCounts(ctx context.Context, descriptions []string) (map[string]int, error) {
	results := make([][]extract.Match, len(descriptions))

	g, gCtx := errgroup.WithContext(ctx)
	for i, description := range descriptions {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = s.ExtractFromDescription(description)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, matches := range results {
		for _, match := range matches {
			counts[match.Skill]++
		}
	}
	return counts, nil
}

// MockDescriptions returns up to count mock job descriptions, narrowed by
// role keywords when they match anything.
func (s *JobPostingService) MockDescriptions(role, industry string, count int) []string {
	selected := mockJobDescriptions

	roleLower := strings.ToLower(role)
	switch {
	case strings.Contains(roleLower, "backend") || strings.Contains(roleLower, "engineer"):
		selected = matchingDescriptions("backend", "engineer")
	case strings.Contains(roleLower, "frontend"):
		selected = matchingDescriptions("frontend")
	case strings.Contains(roleLower, "full") || strings.Contains(roleLower, "stack"):
		selected = matchingDescriptions("full", "stack")
	case strings.Contains(roleLower, "devops"):
		selected = matchingDescriptions("devops")
	}
	if len(selected) == 0 {
		selected = mockJobDescriptions
	}

	if count > 0 && len(selected) > count {
		selected = selected[:count]
	}
	return selected
}

func matchingDescriptions(keywords ...string) []string {
	var out []string
	for _, desc := range mockJobDescriptions {
		descLower := strings.ToLower(desc)
		for _, keyword := range keywords {
			if strings.Contains(descLower, keyword) {
				out = append(out, desc)
				break
			}
		}
	}
	return out
}

// mockJobDescriptions stands in for a job-board integration. Only skill
// mentions matter here; everything else is flavor text.
var mockJobDescriptions = []string{
	`Backend Engineer - FinTech
We are looking for a Backend Engineer to build payment infrastructure.
Requirements: strong Python and Flask experience, PostgreSQL and Redis,
Docker-based deployments on AWS, REST API design. Experience with Kafka
and microservices is a plus.`,

	`Senior Backend Engineer
Design and operate high-throughput services in Go and Java (Spring Boot).
You will own PostgreSQL schemas, Kubernetes deployments, CI/CD pipelines
and GraphQL APIs consumed by internal teams.`,

	`Frontend Developer
Build delightful interfaces with React, TypeScript and Next.js. Solid
grounding in HTML, CSS and Tailwind CSS expected. You will consume REST
and GraphQL APIs and collaborate closely with designers.`,

	`Full Stack Developer
Ship features end to end: React frontend, Node.js and Express.js backend,
MongoDB persistence. Familiarity with Docker, Git workflows and CI/CD
pipelines required. TypeScript across the stack.`,

	`DevOps Engineer
Automate everything. Kubernetes, Terraform, Docker and AWS are your daily
tools, with Python for tooling and CI/CD pipelines as the product. On-call
for a fleet of microservices.`,

	`Data Engineer
Build batch and streaming pipelines in Python and SQL on top of Kafka and
PostgreSQL. Experience with AWS data services and Docker expected; Machine
Learning literacy a plus.`,

	`Backend Engineer - E-commerce
Scale a product catalog serving millions. Java and Spring Boot services,
Redis caching, MongoDB for catalog data, GraphQL gateway. Kubernetes and
CI/CD experience required.`,

	`Platform Engineer
Own the developer platform: Go services, Terraform modules, Kubernetes
operators and AWS infrastructure. Strong Git and CI/CD fundamentals;
Python scripting for glue work.`,
}
