package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTOML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeTOML(t, `
[llm]
provider = "claude"
model = "claude-3-5-sonnet-latest"

[string]
base_url = "https://version-12-0.string-db.org"
species = 10090

[render]
palette = ["#112233", "#445566"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "claude", cfg.LLM.Provider)
	assert.Equal(t, "https://version-12-0.string-db.org", cfg.String.BaseURL)
	assert.Equal(t, 10090, cfg.String.Species)
	assert.Equal(t, []string{"#112233", "#445566"}, cfg.Render.Palette)
	assert.Zero(t, cfg.String.TimeoutSeconds)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorContains(t, err, "failed to read config file")

	_, err = Load(writeTOML(t, "[llm\nprovider ="))
	assert.ErrorContains(t, err, "failed to parse TOML")
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LLM_PROVIDER", "LLM_MODEL", "GEMINI_API_KEY", "LLM_API_KEY", "LLM_BASE_URL",
		"GOOGLE_CLOUD_PROJECT", "STRING_BASE_URL", "STRING_CALLER_IDENTITY", "PORT",
		"MEMGRAPH_URI", "MEMGRAPH_USER", "MEMGRAPH_PASSWORD", "MEMGRAPH_ENABLED", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "https://string-db.org", cfg.String.BaseURL)
	assert.Equal(t, 9606, cfg.String.Species)
	assert.Equal(t, 0.7, cfg.Pipeline.Threshold())
	assert.Equal(t, "label_propagation", cfg.Pipeline.ModuleAlgorithm)
	assert.Zero(t, cfg.Cache.MaxEntries, "cache is unbounded by default")
	assert.Equal(t, 120, cfg.Render.StabilizationRounds)
	assert.Len(t, cfg.Render.Palette, 7)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.False(t, cfg.Memgraph.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOrDefault_ExplicitZeroThreshold(t *testing.T) {
	clearEnv(t)
	path := writeTOML(t, "[pipeline]\ndefault_threshold = 0.0\nmodule_algorithm = \"components\"\n")

	cfg, err := LoadOrDefault(path)
	require.NoError(t, err)

	require.NotNil(t, cfg.Pipeline.DefaultThreshold)
	assert.Equal(t, 0.0, cfg.Pipeline.Threshold())
	assert.Equal(t, "components", cfg.Pipeline.ModuleAlgorithm)
}

func TestApplyEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("LLM_API_KEY", "generic-key")
	t.Setenv("STRING_BASE_URL", "http://localhost:9999")
	t.Setenv("PORT", "9090")
	t.Setenv("MEMGRAPH_ENABLED", "true")

	path := writeTOML(t, "[llm]\nprovider = \"gemini\"\n")
	cfg, err := LoadOrDefault(path)
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "generic-key", cfg.LLM.APIKey, "LLM_API_KEY wins over GEMINI_API_KEY")
	assert.Equal(t, "http://localhost:9999", cfg.String.BaseURL)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.Memgraph.Enabled)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"threshold above one", func(c *Config) { v := 1.5; c.Pipeline.DefaultThreshold = &v }},
		{"unknown module algorithm", func(c *Config) { c.Pipeline.ModuleAlgorithm = "louvain" }},
		{"bad base url", func(c *Config) { c.String.BaseURL = "not a url" }},
		{"bad palette color", func(c *Config) { c.Render.Palette = []string{"pink"} }},
		{"negative rate", func(c *Config) { c.String.RatePerSecond = -1 }},
		{"unknown log format", func(c *Config) { c.Logger.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), "invalid configuration")
		})
	}
}

func TestSampleConfigLoads(t *testing.T) {
	cfg, err := LoadOrDefault("../../config/config.toml")
	require.NoError(t, err)
	assert.Equal(t, Default().Render, cfg.Render)
}
