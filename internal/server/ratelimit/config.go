package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Default windows for the passage proxy.
const (
	DefaultPerMinute  = 60
	DefaultPerHour    = 1000
	DefaultPerDay     = 5000
	DefaultRetryAfter = 60 * time.Second
)

// Config holds rate limiting configuration.
type Config struct {
	Enabled    bool
	PerMinute  int
	PerHour    int
	PerDay     int
	RetryAfter time.Duration
	Paths      []string // request paths counted against the limit (prefix match when ending in "/")
}

// DefaultConfig returns the limits applied to the passage proxy.
func DefaultConfig() *Config {
	return &Config{
		Enabled:    true,
		PerMinute:  DefaultPerMinute,
		PerHour:    DefaultPerHour,
		PerDay:     DefaultPerDay,
		RetryAfter: DefaultRetryAfter,
		Paths:      DefaultPaths(),
	}
}

// DefaultPaths returns the routes that forward to the upstream passage API.
func DefaultPaths() []string {
	return []string{"/api/esv"}
}

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	enabled := getEnvBool("RATE_LIMIT_ENABLED", true)
	if !enabled {
		return &Config{
			Enabled: false,
		}
	}

	paths := parseList(getEnvString("RATE_LIMIT_PATHS", ""))
	if len(paths) == 0 {
		paths = DefaultPaths()
	}

	return &Config{
		Enabled:    enabled,
		PerMinute:  getEnvInt("RATE_LIMIT_PER_MINUTE", DefaultPerMinute),
		PerHour:    getEnvInt("RATE_LIMIT_PER_HOUR", DefaultPerHour),
		PerDay:     getEnvInt("RATE_LIMIT_PER_DAY", DefaultPerDay),
		RetryAfter: getEnvDuration("RATE_LIMIT_RETRY_AFTER", DefaultRetryAfter),
		Paths:      paths,
	}
}

// getEnvString gets an environment variable as a string with a default value.
func getEnvString(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as an integer with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool gets an environment variable as a boolean with a default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration gets an environment variable as a duration with a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// parseList parses a comma-separated list, dropping empty entries.
func parseList(list string) []string {
	if list == "" {
		return nil
	}

	var result []string
	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}
