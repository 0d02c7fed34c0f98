package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds process configuration.
// The dashboard behaviour itself comes from Query, which is a query string like the
// one a browser would put after the dashboard URL.
type Config struct {
	Port int `yaml:"port"`

	// Query is the dashboard query string, e.g. "team=org/team&filterusers=false".
	Query string `yaml:"query"`

	// GitHubURL is the API root used for gists and the default repository host.
	GitHubURL string `yaml:"github_url"`

	// HTTPTimeoutSeconds bounds every API request.
	HTTPTimeoutSeconds int `yaml:"http_timeout_seconds"`

	// CacheDurationSeconds caches API responses; 0 disables caching.
	CacheDurationSeconds int `yaml:"cache_duration_seconds"`

	// RedisAddr switches the response cache to Redis when set.
	RedisAddr string `yaml:"redis_addr"`

	Debug bool `yaml:"debug"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	return &Config{
		Port:                 getEnvInt("PORT", 8080),
		Query:                os.Getenv("FOURTH_WALL_QUERY"),
		GitHubURL:            getEnvOrDefault("GITHUB_URL", "https://api.github.com"),
		HTTPTimeoutSeconds:   getEnvInt("HTTP_TIMEOUT_SECONDS", 30),
		CacheDurationSeconds: getEnvInt("CACHE_DURATION_SECONDS", 20),
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		Debug:                os.Getenv("FOURTH_WALL_DEBUG") == "1",
	}, nil
}

// LoadFile overlays the YAML file at path onto c. Keys absent from the file keep
// their current values.
func (c *Config) LoadFile(path string) error {
	// #nosec G304 -- config file path is provided via command line flag
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("unmarshal config yaml: %w", err)
	}

	return nil
}

// HTTPTimeout returns the per-request timeout.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// CacheDuration returns the response cache TTL.
func (c *Config) CacheDuration() time.Duration {
	return time.Duration(c.CacheDurationSeconds) * time.Second
}

// HasRedis returns true if a Redis cache backend is configured.
func (c *Config) HasRedis() bool {
	return c.RedisAddr != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
