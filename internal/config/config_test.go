package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rkorrapolu/sye-agent/internal/types"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const sampleConfig = `
core:
  data_dir: /var/lib/sye
  timeout: 90s
database:
  path: /var/lib/sye/classifications.db
graph:
  uri: bolt://graph.internal:7687
  username: neo4j
  password: ${GRAPH_PASSWORD}
cache:
  distance_threshold: 0.25
llm:
  first:
    type: openai
    model: gpt-4o
    api_key: ${OPENAI_API_KEY}
  second:
    type: googleai
    model: gemini-1.5-pro
  arbiter:
    type: anthropic
logging:
  level: debug
  format: json
`

func TestLoader_Load(t *testing.T) {
	t.Setenv("GRAPH_PASSWORD", "s3cret")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	loader := NewLoader(NewValidator())
	cfg, err := loader.Load(writeConfigFile(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/sye", cfg.Core.DataDir)
	assert.Equal(t, 90*time.Second, cfg.Core.Timeout)
	assert.Equal(t, "bolt://graph.internal:7687", cfg.Graph.URI)
	assert.Equal(t, "s3cret", cfg.Graph.Password)
	assert.Equal(t, "sk-test", cfg.LLM.First.APIKey)
	assert.Equal(t, 0.25, cfg.Cache.DistanceThreshold)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Sections absent from the file keep their defaults.
	assert.Equal(t, "embedded", cfg.Vector.Backend)
	assert.Equal(t, 384, cfg.Vector.Dimensions)
	assert.Equal(t, "native", cfg.Embedder.Provider)
}

func TestLoader_UnsetEnvVarLeftVerbatim(t *testing.T) {
	t.Setenv("GRAPH_PASSWORD", "")

	loader := NewLoader(NewValidator())
	cfg, err := loader.Load(writeConfigFile(t, sampleConfig))
	require.NoError(t, err)
	assert.Equal(t, "${GRAPH_PASSWORD}", cfg.Graph.Password)
}

func TestLoader_MissingFile(t *testing.T) {
	loader := NewLoader(NewValidator())

	_, err := loader.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	code, ok := types.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, types.CONFIG_LOAD_FAILED, code)
}

func TestLoader_LoadWithDefaults(t *testing.T) {
	loader := NewLoader(NewValidator())

	cfg, err := loader.LoadWithDefaults(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoader_InvalidYAML(t *testing.T) {
	loader := NewLoader(NewValidator())

	_, err := loader.Load(writeConfigFile(t, "graph: [not: valid"))
	assert.Error(t, err)
}

func TestValidator_RejectsBadValues(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad logging level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad logging format", func(c *Config) { c.Logging.Format = "xml" }},
		{"empty graph uri", func(c *Config) { c.Graph.URI = "" }},
		{"empty db path", func(c *Config) { c.Database.Path = "" }},
		{"zero vector dimensions", func(c *Config) { c.Vector.Dimensions = 0 }},
		{"missing provider type", func(c *Config) { c.LLM.Arbiter.Type = "" }},
		{"temperature out of range", func(c *Config) { c.LLM.First.Temperature = 3.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := v.Validate(cfg)
			require.Error(t, err)
			code, ok := types.CodeOf(err)
			require.True(t, ok)
			assert.Equal(t, types.CONFIG_VALIDATION_FAILED, code)
		})
	}
}

func TestValidator_AcceptsDefaults(t *testing.T) {
	assert.NoError(t, NewValidator().Validate(DefaultConfig()))
}

func TestValidator_NilConfig(t *testing.T) {
	assert.Error(t, NewValidator().Validate(nil))
}
