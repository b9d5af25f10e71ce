// ABOUTME: Centralized configuration for microdoser
// ABOUTME: Loads from .env and environment variables, then applies values saved with `settings set`
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/harper/microdoser/internal/i18n"
	"github.com/harper/microdoser/internal/llm"
	"github.com/harper/microdoser/internal/storage/sqlite"
)

// Config holds all configuration for microdoser
type Config struct {
	// OpenRouter settings
	APIKey           string        `env:"OPENROUTER_API_KEY"`
	BaseURL          string        `env:"OPENROUTER_BASE_URL" envDefault:"https://openrouter.ai/api/v1"`
	Model            string        `env:"MICRODOSER_MODEL" envDefault:"deepseek/deepseek-chat:free"`
	MaxTokens        int           `env:"MICRODOSER_MAX_TOKENS" envDefault:"1200"`
	Timeout          time.Duration `env:"MICRODOSER_TIMEOUT" envDefault:"60s"`
	RateLimitRetries int           `env:"MICRODOSER_RATE_LIMIT_RETRIES" envDefault:"0"`

	// App settings
	Language string `env:"MICRODOSER_LANGUAGE" envDefault:"ru"`
	DBPath   string `env:"MICRODOSER_DB"`
	LogLevel string `env:"MICRODOSER_LOG_LEVEL" envDefault:"info"`
}

// SettingsReader is the subset of the settings store that config needs
type SettingsReader interface {
	Get(key, def string) (string, error)
}

// Load reads .env (if present) and the environment. Values are range-checked by
// ApplySettings, once saved settings have had a chance to override them.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	return cfg, nil
}

// ApplySettings overrides fields with non-empty values saved in the settings table,
// then validates the result
func (c *Config) ApplySettings(settings SettingsReader) error {
	if settings == nil {
		return c.Validate()
	}

	get := func(key string) (string, error) {
		v, err := settings.Get(key, "")
		if err != nil {
			return "", fmt.Errorf("failed to read setting %s: %w", key, err)
		}
		return strings.TrimSpace(v), nil
	}

	if v, err := get(sqlite.SettingAPIKey); err != nil {
		return err
	} else if v != "" {
		c.APIKey = v
	}
	if v, err := get(sqlite.SettingModel); err != nil {
		return err
	} else if v != "" {
		c.Model = v
	}
	if v, err := get(sqlite.SettingLanguage); err != nil {
		return err
	} else if v != "" {
		c.Language = v
	}
	if v, err := get(sqlite.SettingMaxTokens); err != nil {
		return err
	} else if v != "" {
		n, convErr := strconv.Atoi(v)
		if convErr != nil {
			return fmt.Errorf("setting %s must be an integer, got %q", sqlite.SettingMaxTokens, v)
		}
		c.MaxTokens = n
	}

	return c.Validate()
}

// Validate checks value ranges
func (c *Config) Validate() error {
	lang := strings.ToLower(strings.TrimSpace(c.Language))
	if lang != i18n.Russian && lang != i18n.English {
		return fmt.Errorf("MICRODOSER_LANGUAGE must be ru or en, got %q", c.Language)
	}
	c.Language = lang

	if c.Timeout <= 0 {
		return fmt.Errorf("MICRODOSER_TIMEOUT must be positive, got %v", c.Timeout)
	}
	if c.RateLimitRetries < 0 {
		return fmt.Errorf("MICRODOSER_RATE_LIMIT_RETRIES must not be negative, got %d", c.RateLimitRetries)
	}
	return nil
}

// ClientConfig returns the LLM client configuration
func (c *Config) ClientConfig() *llm.ClientConfig {
	cfg := llm.DefaultConfig(c.APIKey)
	if c.BaseURL != "" {
		cfg.BaseURL = c.BaseURL
	}
	if c.Model != "" {
		cfg.Model = c.Model
	}
	cfg.MaxTokens = llm.ClampMaxTokens(c.MaxTokens)
	cfg.Timeout = c.Timeout
	cfg.RateLimitRetries = c.RateLimitRetries
	return cfg
}
