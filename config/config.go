// Package config loads sidecar configuration from an optional YAML file
// and the environment. Precedence is defaults, then file, then
// environment, so operators can pin a baseline in a file and still
// override per invocation.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

// Provider names for the generation backend.
const (
	ProviderMock      = "mock"
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// EnvConfigFile points at an optional YAML configuration file.
const EnvConfigFile = "INTELLIKIT_CONFIG"

// LoggingConfig controls diagnostic output. Everything goes to stderr
// regardless of these settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// AnthropicConfig holds Anthropic provider settings.
type AnthropicConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// OpenAIConfig holds OpenAI provider settings.
type OpenAIConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// Config is the full sidecar configuration.
type Config struct {
	Provider        string          `yaml:"provider"`
	IdleTimeout     time.Duration   `yaml:"idle_timeout"`
	SweepInterval   time.Duration   `yaml:"sweep_interval"`
	MaxContentChars int             `yaml:"max_content_chars"`
	Logging         LoggingConfig   `yaml:"logging"`
	Anthropic       AnthropicConfig `yaml:"anthropic"`
	OpenAI          OpenAIConfig    `yaml:"openai"`
}

// Default returns the baseline configuration: mock provider, 120s idle
// timeout, 10k character content cap, info-level text logs.
func Default() Config {
	return Config{
		Provider:        ProviderMock,
		IdleTimeout:     120 * time.Second,
		SweepInterval:   5 * time.Second,
		MaxContentChars: 10000,
		Logging:         LoggingConfig{Level: "info", Format: "text"},
	}
}

// Load builds a Config from defaults, the optional file named by
// INTELLIKIT_CONFIG, and environment variables, in that order.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv(EnvConfigFile); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("INTELLIKIT_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv("INTELLIKIT_IDLE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.IdleTimeout = d
		}
	}
	if v := os.Getenv("INTELLIKIT_SWEEP_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.SweepInterval = d
		}
	}
	if v := os.Getenv("INTELLIKIT_MAX_CONTENT_CHARS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxContentChars = n
		}
	}
	if v := os.Getenv("INTELLIKIT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("INTELLIKIT_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.Anthropic.APIKey = v
	}
	if v := os.Getenv("CLAUDE_MODEL"); v != "" {
		cfg.Anthropic.Model = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAI.APIKey = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		cfg.OpenAI.Model = v
	}
}

// Validate checks the configuration and reports every problem at once.
func (c Config) Validate() error {
	var result *multierror.Error

	switch c.Provider {
	case ProviderMock, ProviderAnthropic, ProviderOpenAI:
	default:
		result = multierror.Append(result, fmt.Errorf("unknown provider %q", c.Provider))
	}
	if c.IdleTimeout <= 0 {
		result = multierror.Append(result, fmt.Errorf("idle_timeout must be positive, got %s", c.IdleTimeout))
	}
	if c.SweepInterval <= 0 {
		result = multierror.Append(result, fmt.Errorf("sweep_interval must be positive, got %s", c.SweepInterval))
	}
	if c.SweepInterval > 0 && c.IdleTimeout > 0 && c.SweepInterval > c.IdleTimeout {
		result = multierror.Append(result, fmt.Errorf("sweep_interval %s exceeds idle_timeout %s", c.SweepInterval, c.IdleTimeout))
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		result = multierror.Append(result, fmt.Errorf("unknown log format %q", c.Logging.Format))
	}

	return result.ErrorOrNil()
}
