package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting for a specific endpoint. Paths
// ending in "/" match by prefix.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	if !getEnvBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the per-endpoint limits. Ingestion and
// extraction run the matcher over whole documents, so they sit in a
// stricter tier than reads; reads fall through to the default limit and the
// health check is unlimited via the matcher.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		{Path: "/api/extract-skills", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/api/github/ingest", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/api/job-postings/ingest", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/api/trends/store", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/api/trends/analyze", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/api/trends/periods", Method: "DELETE", Limit: 30, Window: time.Minute, Burst: 5},
	}
}

// MatchEndpoint matches a request path and method to an endpoint
// configuration, or nil when only the default applies.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	// The health check endpoint is never limited.
	if path == "/health" && method == "GET" {
		return &EndpointConfig{}
	}

	for i := range configs {
		config := &configs[i]
		if config.Path == path && config.Method == method {
			return config
		}
	}

	for i := range configs {
		config := &configs[i]
		if config.Method == method && strings.HasSuffix(config.Path, "/") &&
			strings.HasPrefix(path, config.Path) {
			return config
		}
	}

	return nil
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
