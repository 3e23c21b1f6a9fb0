// Package config layers invoicefiler configuration from defaults, an
// optional TOML file, environment variables and finally CLI flags, each
// overriding the previous.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/marcwessels/invoicefiler/constants"
)

// Config holds all application configuration.
type Config struct {
	Files   FilesConfig
	LLM     LLMConfig
	Logging LoggingConfig
}

// FilesConfig holds document selection configuration.
type FilesConfig struct {
	Extension string // with dot, e.g. ".pdf"
}

// LLMConfig holds extraction service configuration.
type LLMConfig struct {
	APIKey            string
	BaseURL           string
	Model             string
	Timeout           time.Duration
	RequestsPerMinute float64
	Burst             int
}

// LoggingConfig holds log output configuration.
type LoggingConfig struct {
	Verbose bool
	JSON    bool
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Files: FilesConfig{Extension: constants.DefaultExtension},
		LLM: LLMConfig{
			Model:   "gemini-2.5-flash-lite",
			Timeout: 45 * time.Second,
		},
	}
}

// fileConfig is the TOML shape. Durations are strings like "45s".
type fileConfig struct {
	Files struct {
		Extension string `toml:"extension"`
	} `toml:"files"`
	LLM struct {
		APIKey            string  `toml:"api_key"`
		BaseURL           string  `toml:"base_url"`
		Model             string  `toml:"model"`
		Timeout           string  `toml:"timeout"`
		RequestsPerMinute float64 `toml:"requests_per_minute"`
		Burst             int     `toml:"burst"`
	} `toml:"llm"`
	Logging struct {
		Verbose bool `toml:"verbose"`
		JSON    bool `toml:"json"`
	} `toml:"logging"`
}

// DefaultPath is where LoadFile looks when no --config flag is given.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".invoicefiler", "config.toml")
}

// LoadFile overlays values from a TOML file onto c. A missing file at the
// default path is fine; an explicitly requested path must exist.
func (c *Config) LoadFile(path string, explicit bool) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}

	var fc fileConfig
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if fc.Files.Extension != "" {
		c.Files.Extension = fc.Files.Extension
	}
	if fc.LLM.APIKey != "" {
		c.LLM.APIKey = fc.LLM.APIKey
	}
	if fc.LLM.BaseURL != "" {
		c.LLM.BaseURL = fc.LLM.BaseURL
	}
	if fc.LLM.Model != "" {
		c.LLM.Model = fc.LLM.Model
	}
	if fc.LLM.Timeout != "" {
		d, err := time.ParseDuration(fc.LLM.Timeout)
		if err != nil {
			return fmt.Errorf("parse config %s: llm.timeout: %w", path, err)
		}
		c.LLM.Timeout = d
	}
	if fc.LLM.RequestsPerMinute > 0 {
		c.LLM.RequestsPerMinute = fc.LLM.RequestsPerMinute
	}
	if fc.LLM.Burst > 0 {
		c.LLM.Burst = fc.LLM.Burst
	}
	if fc.Logging.Verbose {
		c.Logging.Verbose = true
	}
	if fc.Logging.JSON {
		c.Logging.JSON = true
	}
	return nil
}

// ApplyEnv overlays environment variables onto c. Environment wins over the
// config file.
func (c *Config) ApplyEnv() {
	c.LLM.APIKey = getEnv("GEMINI_API_KEY", c.LLM.APIKey)
	c.LLM.BaseURL = getEnv("GEMINI_BASE_URL", c.LLM.BaseURL)
	c.LLM.Model = getEnv("GEMINI_MODEL", c.LLM.Model)
	c.LLM.Timeout = getEnvAsDuration("GEMINI_TIMEOUT", c.LLM.Timeout)
	c.LLM.RequestsPerMinute = getEnvAsFloat64("GEMINI_REQUESTS_PER_MINUTE", c.LLM.RequestsPerMinute)
	c.Files.Extension = getEnv("INVOICEFILER_EXT", c.Files.Extension)
}

// Validate checks the assembled configuration before a run.
func (c *Config) Validate() error {
	ext := strings.TrimSpace(c.Files.Extension)
	if ext == "" || !strings.HasPrefix(ext, ".") || len(ext) < 2 {
		return fmt.Errorf("file extension must look like %q, got %q", constants.DefaultExtension, c.Files.Extension)
	}
	if c.LLM.APIKey == "" {
		return errors.New("GEMINI_API_KEY is required")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
