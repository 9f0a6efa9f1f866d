package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

// clearMatchEnv unsets every env var the loader reads so tests are hermetic.
func clearMatchEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "ENV", "DATABASE_URL", "REDIS_ADDR", "REDIS_PASSWORD",
		"MATCH_CACHE_TTL_MINUTES", "MATCH_SCORE_THRESHOLD",
		"MATCH_MAX_RESULTS", "MATCH_CALIBRATION_PATH",
	} {
		if val, ok := os.LookupEnv(key); ok {
			t.Setenv(key, val) // register restore
			os.Unsetenv(key)
		}
	}
}

// TestLoadDefaults tests that defaults apply with no env or file input.
func TestLoadDefaults(t *testing.T) {
	clearMatchEnv(t)

	cfg, errs := Load("")
	if len(errs) != 0 {
		t.Fatalf("unexpected validation errors: %v", errs)
	}

	if cfg.Port != DefaultPort {
		t.Errorf("expected default port %d, got %d", DefaultPort, cfg.Port)
	}
	if cfg.Env != DefaultEnv {
		t.Errorf("expected default env %q, got %q", DefaultEnv, cfg.Env)
	}
	if cfg.MatchCacheTTLMinutes != DefaultMatchCacheTTLMinutes {
		t.Errorf("expected default TTL %d, got %d", DefaultMatchCacheTTLMinutes, cfg.MatchCacheTTLMinutes)
	}
	if math.Abs(cfg.MatchScoreThreshold-DefaultMatchScoreThreshold) > 0.000001 {
		t.Errorf("expected default threshold %f, got %f", DefaultMatchScoreThreshold, cfg.MatchScoreThreshold)
	}
	if cfg.MatchMaxResults != DefaultMatchMaxResults {
		t.Errorf("expected default max results %d, got %d", DefaultMatchMaxResults, cfg.MatchMaxResults)
	}
}

// TestLoadEnvOverrides tests environment variable precedence.
func TestLoadEnvOverrides(t *testing.T) {
	clearMatchEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://localhost/foodbank")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("MATCH_CACHE_TTL_MINUTES", "15")
	t.Setenv("MATCH_SCORE_THRESHOLD", "0.5")
	t.Setenv("MATCH_MAX_RESULTS", "25")

	cfg, errs := Load("")
	if len(errs) != 0 {
		t.Fatalf("unexpected validation errors: %v", errs)
	}

	if cfg.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Port)
	}
	if cfg.Env != "production" {
		t.Errorf("expected env production, got %q", cfg.Env)
	}
	if cfg.DatabaseURL != "postgres://localhost/foodbank" {
		t.Errorf("unexpected database url %q", cfg.DatabaseURL)
	}
	if cfg.MatchCacheTTLMinutes != 15 {
		t.Errorf("expected TTL 15, got %d", cfg.MatchCacheTTLMinutes)
	}
	if math.Abs(cfg.MatchScoreThreshold-0.5) > 0.000001 {
		t.Errorf("expected threshold 0.5, got %f", cfg.MatchScoreThreshold)
	}
	if cfg.MatchMaxResults != 25 {
		t.Errorf("expected max results 25, got %d", cfg.MatchMaxResults)
	}
}

// TestLoadFileWithEnvPrecedence tests that env vars beat file values.
func TestLoadFileWithEnvPrecedence(t *testing.T) {
	clearMatchEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "port: 7070\nenv: staging\nmatch_max_results: 5\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	t.Setenv("PORT", "9090")

	cfg, errs := Load(path)
	if len(errs) != 0 {
		t.Fatalf("unexpected validation errors: %v", errs)
	}

	if cfg.Port != 9090 {
		t.Errorf("expected env port 9090 to beat file, got %d", cfg.Port)
	}
	if cfg.Env != "staging" {
		t.Errorf("expected file env staging, got %q", cfg.Env)
	}
	if cfg.MatchMaxResults != 5 {
		t.Errorf("expected file max results 5, got %d", cfg.MatchMaxResults)
	}
}

// TestLoadInvalidValues tests validation error collection with fallback to
// defaults.
func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"invalid port", "PORT", "not-a-number"},
		{"zero cache TTL", "MATCH_CACHE_TTL_MINUTES", "0"},
		{"threshold at one", "MATCH_SCORE_THRESHOLD", "1.0"},
		{"negative max results", "MATCH_MAX_RESULTS", "-3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearMatchEnv(t)
			t.Setenv(tt.key, tt.value)

			_, errs := Load("")
			if len(errs) == 0 {
				t.Errorf("expected a validation error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

// TestLoadMissingFile tests that a named but unreadable file is an error.
func TestLoadMissingFile(t *testing.T) {
	clearMatchEnv(t)

	cfg, errs := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if cfg != nil {
		t.Error("expected nil config for unreadable file")
	}
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %d", len(errs))
	}
}
