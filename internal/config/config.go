// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load layers a YAML file and environment variables over the defaults.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"time"
)

// Cache backends accepted by CacheBackend.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Dataset is the workbook location: a path, file://, http(s):// or s3://bucket/key.
	Dataset string `koanf:"dataset"`

	// Sheet selects the worksheet; empty reads the first one.
	Sheet string `koanf:"sheet"`

	// ScoreMarker is the substring that identifies score columns.
	ScoreMarker string `koanf:"score_marker"`

	// AllSentinel is the league value that selects every league of the chosen tiers.
	AllSentinel string `koanf:"all_sentinel"`

	// UsageMin and UsageMax bound the usage slider and its defaults.
	UsageMin float64 `koanf:"usage_min"`
	UsageMax float64 `koanf:"usage_max"`

	// MaxResultLimit caps GET /players?limit. Zero means unlimited.
	MaxResultLimit int `koanf:"max_result_limit"`

	// DisplayColumns are shown before the rank column in results and exports.
	DisplayColumns []string `koanf:"display_columns"`

	// CacheBackend is one of none, memory or redis.
	CacheBackend    string `koanf:"cache_backend"`
	CacheTTLSeconds int    `koanf:"cache_ttl_seconds"`

	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	S3Region          string `koanf:"s3_region"`
	S3Endpoint        string `koanf:"s3_endpoint"`
	S3AccessKeyID     string `koanf:"s3_access_key_id"`
	S3SecretAccessKey string `koanf:"s3_secret_access_key"`

	// CORSAllowedOrigins lists origins allowed to call the API from a browser.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// FetchTimeoutSeconds bounds a single dataset download.
	FetchTimeoutSeconds int `koanf:"fetch_timeout_seconds"`

	// ReloadIntervalSeconds re-reads the dataset periodically. Zero disables it.
	ReloadIntervalSeconds int `koanf:"reload_interval_seconds"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		Dataset:             "players.xlsx",
		ScoreMarker:         "Score (0-100)",
		AllSentinel:         "All",
		UsageMin:            0,
		UsageMax:            90,
		MaxResultLimit:      1000,
		DisplayColumns:      []string{"Player", "Team", "Position", "Age", "Usage"},
		CacheBackend:        CacheNone,
		CacheTTLSeconds:     300,
		RedisAddr:           "localhost:6379",
		CORSAllowedOrigins:  []string{"*"},
		FetchTimeoutSeconds: 30,
	}
}

// CacheTTL returns the cache expiry as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// FetchTimeout returns the dataset download timeout as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// ReloadInterval returns the periodic reload interval as a duration.
func (c *Config) ReloadInterval() time.Duration {
	return time.Duration(c.ReloadIntervalSeconds) * time.Second
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.Dataset == "":
		return fmt.Errorf("%w: dataset must not be empty", ErrInvalidConfig)
	case c.UsageMin > c.UsageMax:
		return fmt.Errorf("%w: usage_min %.0f exceeds usage_max %.0f", ErrInvalidConfig, c.UsageMin, c.UsageMax)
	case c.MaxResultLimit < 0:
		return fmt.Errorf("%w: max_result_limit must not be negative", ErrInvalidConfig)
	case c.CacheTTLSeconds < 0:
		return fmt.Errorf("%w: cache_ttl_seconds must not be negative", ErrInvalidConfig)
	case c.ReloadIntervalSeconds < 0:
		return fmt.Errorf("%w: reload_interval_seconds must not be negative", ErrInvalidConfig)
	}
	switch c.CacheBackend {
	case CacheNone, CacheMemory, CacheRedis:
	default:
		return fmt.Errorf("%w %q", ErrUnknownCacheBackend, c.CacheBackend)
	}
	return nil
}
