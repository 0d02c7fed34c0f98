package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad_DefaultPort tests loading config with default port.
// Follows AAA (Arrange, Act, Assert) pattern.
func TestLoad_DefaultPort(t *testing.T) {
	// Arrange
	t.Setenv("PORT", "")
	t.Setenv("GITHUB_URL", "")
	t.Setenv("CACHE_DURATION_SECONDS", "")

	// Act
	cfg, err := Load()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "https://api.github.com", cfg.GitHubURL)
	assert.Equal(t, 20*time.Second, cfg.CacheDuration())
}

// TestLoad_CustomPort tests loading config with custom port from environment.
func TestLoad_CustomPort(t *testing.T) {
	// Arrange
	t.Setenv("PORT", "3000")

	// Act
	cfg, err := Load()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Port)
}

// TestLoad_InvalidPort tests that invalid port falls back to default.
func TestLoad_InvalidPort(t *testing.T) {
	// Arrange
	t.Setenv("PORT", "invalid")

	// Act
	cfg, err := Load()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
}

// TestLoad_Query tests that the dashboard query is read from the environment.
func TestLoad_Query(t *testing.T) {
	// Arrange
	t.Setenv("FOURTH_WALL_QUERY", "team=org/team")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	// Act
	cfg, err := Load()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "team=org/team", cfg.Query)
	assert.True(t, cfg.HasRedis())
}

// TestLoadFile_Overlay tests that YAML values override only the keys they set.
func TestLoadFile_Overlay(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "port: 9090\nquery: \"gist=abc&recent=false\"\ncache_duration_seconds: 0\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	cfg := &Config{Port: 8080, GitHubURL: "https://api.github.com", CacheDurationSeconds: 20}

	// Act
	err := cfg.LoadFile(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "gist=abc&recent=false", cfg.Query)
	assert.Equal(t, "https://api.github.com", cfg.GitHubURL)
	assert.Equal(t, time.Duration(0), cfg.CacheDuration())
}

// TestLoadFile_Missing tests that a missing file is reported.
func TestLoadFile_Missing(t *testing.T) {
	cfg := &Config{}

	err := cfg.LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))

	assert.Error(t, err)
}
