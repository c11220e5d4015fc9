// Package config provides configuration loading and validation for the CLI
// and the server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Defaults.
const (
	DefaultProxyURL    = "http://localhost:5500/api/esv"
	DefaultESVBaseURL  = "https://api.esv.org/v3/passage/text/"
	DefaultPort        = 5500
	DefaultCacheTTL    = 7 * 24 * time.Hour
	DefaultLogMode     = "development"
	DefaultConcurrency = 4
)

// Config represents the configuration that can be loaded from a JSON or YAML
// file and overridden by environment variables. All fields are optional.
type Config struct {
	// Local corpus
	CorpusPath string `json:"corpus_path,omitempty" yaml:"corpus_path,omitempty" validate:"excluded_with=CorpusURL"` // Path to the verse-keyed JSON file, optionally .xz
	CorpusURL  string `json:"corpus_url,omitempty" yaml:"corpus_url,omitempty" validate:"omitempty,url"`             // URL of the verse-keyed JSON file

	// Remote text
	ProxyURL    string `json:"proxy_url,omitempty" yaml:"proxy_url,omitempty" validate:"omitempty,url"`       // Passage proxy used by readers
	ESVAPIKey   string `json:"esv_api_key,omitempty" yaml:"esv_api_key,omitempty"`                            // Upstream API key (server only)
	ESVBaseURL  string `json:"esv_base_url,omitempty" yaml:"esv_base_url,omitempty" validate:"omitempty,url"` // Upstream passage endpoint (server only)
	Concurrency int    `json:"concurrency,omitempty" yaml:"concurrency,omitempty" validate:"omitempty,min=1,max=32"`

	// Server
	Port      int    `json:"port,omitempty" yaml:"port,omitempty" validate:"omitempty,min=1,max=65535"`
	StaticDir string `json:"static_dir,omitempty" yaml:"static_dir,omitempty"`

	// Passage cache. The first configured backend wins: database, redis, file.
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url,omitempty"`                    // PostgreSQL connection URL
	RedisURL    string `json:"redis_url,omitempty" yaml:"redis_url,omitempty" validate:"omitempty,url"` // redis:// URL
	CachePath   string `json:"cache_path,omitempty" yaml:"cache_path,omitempty"`                        // SQLite file
	CacheTTL    string `json:"cache_ttl,omitempty" yaml:"cache_ttl,omitempty"`                          // Go duration, e.g. "168h"

	// Behavior
	LogMode string `json:"log_mode,omitempty" yaml:"log_mode,omitempty" validate:"omitempty,oneof=development production dev prod"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		ProxyURL:    DefaultProxyURL,
		ESVBaseURL:  DefaultESVBaseURL,
		Port:        DefaultPort,
		CacheTTL:    DefaultCacheTTL.String(),
		LogMode:     DefaultLogMode,
		Concurrency: DefaultConcurrency,
	}
}

// LoadConfig loads configuration from a JSON file, or a YAML file when the
// path ends in .yaml or .yml.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// Load reads the optional config file, applies environment overrides and
// defaults, and validates the result.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}

	cfg.ApplyEnv()
	merged := cfg.MergeWithDefaults(Defaults())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// ApplyEnv overwrites fields with any set environment variables.
func (c *Config) ApplyEnv() {
	setString(&c.CorpusPath, "CORPUS_PATH")
	setString(&c.CorpusURL, "CORPUS_URL")
	setString(&c.ProxyURL, "ESV_PROXY_URL")
	setString(&c.ESVAPIKey, "ESV_API_KEY")
	setString(&c.ESVBaseURL, "ESV_BASE_URL")
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.RedisURL, "REDIS_URL")
	setString(&c.CachePath, "PASSAGE_CACHE_PATH")
	setString(&c.CacheTTL, "PASSAGE_CACHE_TTL")
	setString(&c.LogMode, "LOG_MODE")
	setString(&c.StaticDir, "STATIC_DIR")
	setInt(&c.Port, "PORT")
	setInt(&c.Concurrency, "READ_CONCURRENCY")
}

func setString(field *string, key string) {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		*field = value
	}
}

func setInt(field *int, key string) {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			*field = n
		}
	}
}

// Validate checks that the configuration has valid values.
// A missing corpus source is not an error here; commands that read require one.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.CacheTTL != "" {
		ttl, err := time.ParseDuration(c.CacheTTL)
		if err != nil {
			return fmt.Errorf("config error: 'cache_ttl' is not a duration: %w", err)
		}
		if ttl <= 0 {
			return fmt.Errorf("config error: 'cache_ttl' must be positive")
		}
	}

	if c.CorpusPath != "" {
		if _, err := os.Stat(c.CorpusPath); os.IsNotExist(err) {
			return fmt.Errorf("config error: corpus file not found: %s", c.CorpusPath)
		}
	}

	if c.StaticDir != "" {
		info, err := os.Stat(c.StaticDir)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("config error: static directory not found: %s", c.StaticDir)
		}
	}

	return nil
}

// HasCorpus reports whether a local corpus source is configured.
func (c *Config) HasCorpus() bool {
	return c.CorpusPath != "" || c.CorpusURL != ""
}

// TTL returns the passage cache lifetime, falling back to the default when
// unset or unparsable.
func (c *Config) TTL() time.Duration {
	if ttl, err := time.ParseDuration(c.CacheTTL); err == nil && ttl > 0 {
		return ttl
	}
	return DefaultCacheTTL
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.CorpusPath == "" && result.CorpusURL == "" {
		result.CorpusPath = defaults.CorpusPath
		result.CorpusURL = defaults.CorpusURL
	}
	if result.ProxyURL == "" {
		result.ProxyURL = defaults.ProxyURL
	}
	if result.ESVAPIKey == "" {
		result.ESVAPIKey = defaults.ESVAPIKey
	}
	if result.ESVBaseURL == "" {
		result.ESVBaseURL = defaults.ESVBaseURL
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RedisURL == "" {
		result.RedisURL = defaults.RedisURL
	}
	if result.CachePath == "" {
		result.CachePath = defaults.CachePath
	}
	if result.CacheTTL == "" {
		result.CacheTTL = defaults.CacheTTL
	}
	if result.LogMode == "" {
		result.LogMode = defaults.LogMode
	}
	if result.StaticDir == "" {
		result.StaticDir = defaults.StaticDir
	}

	// Int fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}

	return result
}
