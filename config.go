// CLAUDE:SUMMARY YAML configuration for the docmill service, with defaults and validation.
package docmill

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/docmill/extract"
	"github.com/hazyhaar/docmill/ocrclient"
	"github.com/hazyhaar/docmill/orchestrate"
)

// Config holds the full docmill configuration.
type Config struct {
	Listen   string `yaml:"listen"`
	DBPath   string `yaml:"db_path"`
	LogLevel string `yaml:"log_level"` // debug | info | warn | error

	// MaxFileMB bounds one HTTP upload request.
	MaxFileMB int `yaml:"max_file_mb"`

	// APIKey authenticates against the OCR vision endpoint. Falls back to
	// $OPENAI_API_KEY; empty disables remote OCR entirely.
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`

	Extract extract.Config     `yaml:"extract"`
	OCR     ocrclient.Config   `yaml:"ocr"`
	Batch   orchestrate.Config `yaml:"batch"`
}

// DefaultConfig returns sane defaults.
func DefaultConfig() *Config {
	return &Config{
		Listen:    ":8085",
		DBPath:    "docmill.db",
		LogLevel:  "info",
		MaxFileMB: 200,
		OCR: ocrclient.Config{
			RatePerMinute: 30,
		},
	}
}

// LoadConfig reads and parses a YAML config file over DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that required fields are present and values are sane.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log_level %q", c.LogLevel)
	}
	if c.MaxFileMB <= 0 {
		return fmt.Errorf("max_file_mb must be > 0")
	}
	if c.OCR.RatePerMinute < 0 {
		return fmt.Errorf("ocr.rate_per_minute must be >= 0")
	}
	if c.Extract.WordThreshold < 0 {
		return fmt.Errorf("extract.word_threshold must be >= 0")
	}
	if c.Extract.Checkbox.MinSizeCm > 0 && c.Extract.Checkbox.MaxSizeCm > 0 &&
		c.Extract.Checkbox.MinSizeCm > c.Extract.Checkbox.MaxSizeCm {
		return fmt.Errorf("extract.checkbox: min_size_cm exceeds max_size_cm")
	}
	return nil
}

// ResolvedAPIKey returns the configured key or the environment fallback.
func (c *Config) ResolvedAPIKey() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	return os.Getenv("OPENAI_API_KEY")
}

// MaxFileBytes returns the upload bound in bytes.
func (c *Config) MaxFileBytes() int64 { return int64(c.MaxFileMB) * 1024 * 1024 }
