// Package config provides configuration loading and validation for the API
// server. It uses koanf to merge environment variables with optional file
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration values for the API server.
type Config struct {
	// Server settings
	Port int    `koanf:"port"`
	Env  string `koanf:"env"`

	// Database. Empty means the in-memory store (development only).
	DatabaseURL string `koanf:"database_url"`

	// Redis. Empty means the in-process cache (development only).
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`

	// Matching engine
	MatchCacheTTLMinutes int     `koanf:"match_cache_ttl_minutes"`
	MatchScoreThreshold  float64 `koanf:"match_score_threshold"`
	MatchMaxResults      int     `koanf:"match_max_results"`
	MatchCalibrationPath string  `koanf:"match_calibration_path"`
}

// Configuration validation errors.
var (
	ErrInvalidPort           = errors.New("PORT must be a valid integer")
	ErrInvalidCacheTTL       = errors.New("MATCH_CACHE_TTL_MINUTES must be a positive integer")
	ErrInvalidScoreThreshold = errors.New("MATCH_SCORE_THRESHOLD must be in [0, 1)")
	ErrInvalidMaxResults     = errors.New("MATCH_MAX_RESULTS must be a positive integer")
)

// Default values for non-secret configuration.
const (
	DefaultPort                 = 8080
	DefaultEnv                  = "development"
	DefaultMatchCacheTTLMinutes = 60
	DefaultMatchScoreThreshold  = 0.6
	DefaultMatchMaxResults      = 10
)

// Load reads configuration from environment variables and an optional YAML
// config file. Environment variables take precedence over file values.
// Returns the loaded config and a slice of validation errors (empty if
// valid). If a config file path is provided and the file cannot be loaded,
// an error is returned.
func Load(configFilePath string) (*Config, []error) {
	k := koanf.New(".")
	var loadErrs []error

	// File values are the lower-precedence layer.
	if configFilePath != "" {
		if err := k.Load(file.Provider(configFilePath), yaml.Parser()); err != nil {
			return nil, []error{fmt.Errorf("failed to load config file %s: %w", configFilePath, err)}
		}
	}

	port, err := getEnvIntOrDefault("PORT", k.Int("port"), DefaultPort)
	if err != nil {
		loadErrs = append(loadErrs, fmt.Errorf("%w: %v", ErrInvalidPort, err))
	}

	cacheTTL, err := getEnvIntOrDefault("MATCH_CACHE_TTL_MINUTES", k.Int("match_cache_ttl_minutes"), DefaultMatchCacheTTLMinutes)
	if err != nil || cacheTTL <= 0 {
		loadErrs = append(loadErrs, ErrInvalidCacheTTL)
		cacheTTL = DefaultMatchCacheTTLMinutes
	}

	threshold, err := getEnvFloatOrDefault("MATCH_SCORE_THRESHOLD", k.Float64("match_score_threshold"), DefaultMatchScoreThreshold)
	if err != nil || threshold < 0 || threshold >= 1 {
		loadErrs = append(loadErrs, ErrInvalidScoreThreshold)
		threshold = DefaultMatchScoreThreshold
	}

	maxResults, err := getEnvIntOrDefault("MATCH_MAX_RESULTS", k.Int("match_max_results"), DefaultMatchMaxResults)
	if err != nil || maxResults <= 0 {
		loadErrs = append(loadErrs, ErrInvalidMaxResults)
		maxResults = DefaultMatchMaxResults
	}

	cfg := &Config{
		Port:                 port,
		Env:                  getEnvOrKoanf("ENV", k, "env", DefaultEnv),
		DatabaseURL:          getEnvOrKoanf("DATABASE_URL", k, "database_url", ""),
		RedisAddr:            getEnvOrKoanf("REDIS_ADDR", k, "redis_addr", ""),
		RedisPassword:        getEnvOrKoanf("REDIS_PASSWORD", k, "redis_password", ""),
		MatchCacheTTLMinutes: cacheTTL,
		MatchScoreThreshold:  threshold,
		MatchMaxResults:      maxResults,
		MatchCalibrationPath: getEnvOrKoanf("MATCH_CALIBRATION_PATH", k, "match_calibration_path", ""),
	}

	return cfg, loadErrs
}

// getEnvOrKoanf returns the env var if set, else the koanf file value,
// else the default.
func getEnvOrKoanf(envKey string, k *koanf.Koanf, koanfKey, def string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	if val := k.String(koanfKey); val != "" {
		return val
	}
	return def
}

// getEnvIntOrDefault parses an integer env var, falling back to the file
// value and then the default.
func getEnvIntOrDefault(envKey string, fileVal, def int) (int, error) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return def, fmt.Errorf("invalid %s value %q: %w", envKey, val, err)
		}
		return parsed, nil
	}
	if fileVal != 0 {
		return fileVal, nil
	}
	return def, nil
}

// getEnvFloatOrDefault parses a float env var, falling back to the file
// value and then the default.
func getEnvFloatOrDefault(envKey string, fileVal, def float64) (float64, error) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return def, fmt.Errorf("invalid %s value %q: %w", envKey, val, err)
		}
		return parsed, nil
	}
	if fileVal != 0 {
		return fileVal, nil
	}
	return def, nil
}
