// pkg/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultCSVPath       = "observatorio-de-obras-urbanas.csv"
	DefaultDelimiter     = ";"
	DefaultProgressEvery = 500
)

// Config represents the application configuration
type Config struct {
	Source SourceConfig `yaml:"source"`
	Store  StoreConfig  `yaml:"store"`

	// Loader settings
	ProgressEvery int `yaml:"progress_every"`

	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// SourceConfig locates the input CSV
type SourceConfig struct {
	CSVPath   string `yaml:"csv_path"`
	Delimiter string `yaml:"delimiter"`
}

// LoadConfig builds the configuration from an optional YAML file, an optional
// .env file and the process environment, in increasing order of precedence.
// An empty path skips the YAML file.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Source.CSVPath = getEnv("OBRAS_CSV_PATH", c.Source.CSVPath)
	c.Source.Delimiter = getEnv("OBRAS_CSV_DELIMITER", c.Source.Delimiter)
	c.ProgressEvery = getEnvAsInt("OBRAS_PROGRESS_EVERY", c.ProgressEvery)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)
	c.Store.applyEnv()
}

func (c *Config) applyDefaults() {
	if c.Source.CSVPath == "" {
		c.Source.CSVPath = DefaultCSVPath
	}
	if c.Source.Delimiter == "" {
		c.Source.Delimiter = DefaultDelimiter
	}
	if c.ProgressEvery == 0 {
		c.ProgressEvery = DefaultProgressEvery
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "console"
	}
	c.Store.applyDefaults()
}

// Validate ensures all required configuration is present and valid
func (c *Config) Validate() error {
	if c.Source.CSVPath == "" {
		return errors.New("source csv path is required")
	}

	if len([]rune(c.Source.Delimiter)) != 1 {
		return fmt.Errorf("source delimiter must be a single character, got %q", c.Source.Delimiter)
	}

	if c.ProgressEvery < 0 {
		return errors.New("progress interval cannot be negative")
	}

	switch strings.ToLower(c.LogFormat) {
	case "json", "console":
	default:
		return fmt.Errorf("unsupported log format %q", c.LogFormat)
	}

	return c.Store.Validate()
}

// DelimiterRune returns the configured delimiter as a rune
func (c *Config) DelimiterRune() rune {
	r := []rune(c.Source.Delimiter)
	if len(r) == 0 {
		return ';'
	}
	return r[0]
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
