// Package config handles configuration loading for vca. It supports
// XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for vca.
type Config struct {
	// Provider selects the completion backend: "openai" or "anthropic".
	Provider string `mapstructure:"provider"`
	// Model is the completion model identifier.
	Model string `mapstructure:"model"`
	// OpenAIKey is the OpenAI API key.
	OpenAIKey string `mapstructure:"openai_api_key"`
	// AnthropicKey is the Anthropic API key.
	AnthropicKey string `mapstructure:"anthropic_api_key"`
	// ExaKey is the web-search API key for ingestion.
	ExaKey string `mapstructure:"exa_api_key"`
	// Temperature is sent with requests only when set in config or env.
	Temperature *float64 `mapstructure:"-"`
	// TestResponse, when non-empty, pre-seeds every completion call
	// and bypasses the network entirely.
	TestResponse string `mapstructure:"test_response"`

	Cache  CacheConfig  `mapstructure:"cache"`
	Call   CallConfig   `mapstructure:"call"`
	Server ServerConfig `mapstructure:"server"`

	// Workers bounds concurrent analysis tasks.
	Workers int `mapstructure:"workers"`
	// DBPath locates the run-history database.
	DBPath string `mapstructure:"db_path"`
}

// CacheConfig controls the request cache.
type CacheConfig struct {
	// Dir is the persistent-tier directory.
	Dir string `mapstructure:"dir"`
	// Disabled turns off the persistent tier (fast tier stays active).
	Disabled bool `mapstructure:"disabled"`
	// TTLSeconds ages persistent entries; <= 0 means never stale.
	TTLSeconds int `mapstructure:"ttl_seconds"`
}

// CallConfig controls the completion retry policy.
type CallConfig struct {
	// TimeoutSeconds bounds each individual completion call.
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
	// MaxRetries is the general retry budget.
	MaxRetries int `mapstructure:"max_retries"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	// Listen is the bind address for vca serve.
	Listen string `mapstructure:"listen"`
	// CORSOrigins is a comma-separated allowlist; "*" by default.
	CORSOrigins string `mapstructure:"cors_origins"`
}

// TTL returns the cache staleness bound as a duration; zero means
// entries never go stale.
func (c CacheConfig) TTL() time.Duration {
	if c.TTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TTLSeconds) * time.Second
}

// Timeout returns the per-call bound as a duration.
func (c CallConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Credential returns the API key for the configured provider.
func (c *Config) Credential() string {
	if c.Provider == "anthropic" {
		return c.AnthropicKey
	}
	return c.OpenAIKey
}

// Load loads configuration from XDG paths, a project override, and
// environment variables. Precedence (highest to lowest):
//  1. Environment variables (OPENAI_API_KEY, ANTHROPIC_API_KEY,
//     EXA_API_KEY, VCA_MODEL, VCA_TEMPERATURE, VCA_TEST_RESPONSE)
//  2. Project config (.vca.yaml in the current directory or a parent)
//  3. User config (~/.config/vca/config.yaml)
//  4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir())
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	if projectConfig := findProjectConfig(); projectConfig != "" {
		pv := viper.New()
		pv.SetConfigFile(projectConfig)
		if err := pv.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(pv.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	v.BindEnv("openai_api_key", "OPENAI_API_KEY")
	v.BindEnv("anthropic_api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("exa_api_key", "EXA_API_KEY")
	v.BindEnv("model", "VCA_MODEL")
	v.BindEnv("provider", "VCA_PROVIDER")
	v.BindEnv("temperature", "VCA_TEMPERATURE")
	v.BindEnv("test_response", "VCA_TEST_RESPONSE")
	v.BindEnv("workers", "VCA_WORKERS")
	v.BindEnv("cache.dir", "VCA_CACHE_DIR")

	return unmarshal(v)
}

// LoadFromPath loads configuration from a specific file (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Temperature is pointer-valued so absence stays distinguishable:
	// some models reject the parameter, so it is sent only when set.
	if v.IsSet("temperature") && strings.TrimSpace(v.GetString("temperature")) != "" {
		t := v.GetFloat64("temperature")
		cfg.Temperature = &t
	}

	cfg.OpenAIKey = expandEnv(cfg.OpenAIKey)
	cfg.AnthropicKey = expandEnv(cfg.AnthropicKey)
	cfg.ExaKey = expandEnv(cfg.ExaKey)
	return cfg, nil
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("provider", "openai")
	v.SetDefault("model", "gpt-5")
	v.SetDefault("workers", 4)

	v.SetDefault("cache.dir", defaultCacheDir())
	v.SetDefault("cache.disabled", false)
	v.SetDefault("cache.ttl_seconds", 24*60*60)

	v.SetDefault("call.timeout_seconds", 60)
	v.SetDefault("call.max_retries", 2)

	v.SetDefault("server.listen", ":8080")
	v.SetDefault("server.cors_origins", "*")

	v.SetDefault("db_path", defaultDBPath())
}

// userConfigDir returns the XDG config directory for vca.
func userConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "vca")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "vca")
	}
	return filepath.Join(home, ".config", "vca")
}

func dataDir() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "vca")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".vca")
	}
	return filepath.Join(home, ".local", "share", "vca")
}

func defaultCacheDir() string {
	return filepath.Join(dataDir(), "cache")
}

func defaultDBPath() string {
	return filepath.Join(dataDir(), "vca.db")
}

// findProjectConfig searches for .vca.yaml in the current directory
// and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		configPath := filepath.Join(cwd, ".vca.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}
	return ""
}

// expandEnv resolves ${VAR} references in config values.
func expandEnv(value string) string {
	if strings.Contains(value, "${") {
		return os.ExpandEnv(value)
	}
	return value
}
