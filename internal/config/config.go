// Package config loads, validates, and defaults the agent configuration.
// Configuration comes from a YAML file with ${ENV_VAR} interpolation so
// secrets like API keys and graph passwords never live in the file itself.
package config

import (
	"time"

	"github.com/rkorrapolu/sye-agent/internal/embedder"
	"github.com/rkorrapolu/sye-agent/internal/graph"
	"github.com/rkorrapolu/sye-agent/internal/llm"
	"github.com/rkorrapolu/sye-agent/internal/semcache"
	"github.com/rkorrapolu/sye-agent/internal/vector"
)

// Config is the root configuration for the sye-agent.
type Config struct {
	Core     CoreConfig      `mapstructure:"core" yaml:"core"`
	Database DBConfig        `mapstructure:"database" yaml:"database"`
	Graph    graph.Config    `mapstructure:"graph" yaml:"graph" validate:"required"`
	Vector   vector.Config   `mapstructure:"vector" yaml:"vector"`
	Cache    semcache.Config `mapstructure:"cache" yaml:"cache"`
	Embedder embedder.Config `mapstructure:"embedder" yaml:"embedder"`
	LLM      LLMConfig       `mapstructure:"llm" yaml:"llm"`
	Logging  LoggingConfig   `mapstructure:"logging" yaml:"logging"`
	Tracing  TracingConfig   `mapstructure:"tracing" yaml:"tracing"`
}

// CoreConfig contains core application settings.
type CoreConfig struct {
	DataDir string        `mapstructure:"data_dir" yaml:"data_dir"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"omitempty,min=1s"`
	Debug   bool          `mapstructure:"debug" yaml:"debug"`
}

// DBConfig contains the classification store configuration.
type DBConfig struct {
	Path string `mapstructure:"path" yaml:"path" validate:"required"`
}

// LLMConfig names the three providers of the classification pipeline. The
// first and second providers give independent opinions; the arbiter resolves
// them.
type LLMConfig struct {
	First   llm.ProviderConfig `mapstructure:"first" yaml:"first"`
	Second  llm.ProviderConfig `mapstructure:"second" yaml:"second"`
	Arbiter llm.ProviderConfig `mapstructure:"arbiter" yaml:"arbiter"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" validate:"omitempty,oneof=text json"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	Enabled  bool   `mapstructure:"enabled" yaml:"enabled"`
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
	Insecure bool   `mapstructure:"insecure" yaml:"insecure"`
}

// DefaultConfig returns the configuration used when no file is present.
// Provider API keys are left empty so each provider falls back to its own
// environment variable.
func DefaultConfig() *Config {
	return &Config{
		Core: CoreConfig{
			DataDir: "~/.sye-agent",
			Timeout: 120 * time.Second,
		},
		Database: DBConfig{
			Path: "~/.sye-agent/classifications.db",
		},
		Graph: graph.DefaultConfig(),
		Vector: vector.Config{
			Backend:    "embedded",
			Dimensions: 384,
		},
		Cache: semcache.Config{
			DistanceThreshold: semcache.DefaultDistanceThreshold,
		},
		Embedder: embedder.Config{
			Provider: "native",
		},
		LLM: LLMConfig{
			First:   llm.ProviderConfig{Type: "openai", Model: "gpt-4o"},
			Second:  llm.ProviderConfig{Type: "googleai", Model: "gemini-1.5-pro"},
			Arbiter: llm.ProviderConfig{Type: "anthropic", Model: "claude-sonnet-4-0"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Tracing: TracingConfig{
			Endpoint: "localhost:4317",
			Insecure: true,
		},
	}
}
