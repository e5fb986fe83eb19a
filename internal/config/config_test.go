package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validViper(t *testing.T) func(overrides map[string]any) AppConfig {
	t.Helper()
	return func(overrides map[string]any) AppConfig {
		t.Helper()
		configViper := NewViper()
		configViper.Set("auth.signing_secret", "secret")
		for key, value := range overrides {
			configViper.Set(key, value)
		}
		cfg, err := Load(configViper)
		if err != nil {
			t.Fatalf("unexpected load error: %v", err)
		}
		return cfg
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg := validViper(t)(nil)

	if cfg.HTTPAddress != defaultHTTPAddress {
		t.Fatalf("unexpected http address %q", cfg.HTTPAddress)
	}
	if cfg.DatabaseDriver != DatabaseSQLite || cfg.DatabasePath != defaultDatabasePath {
		t.Fatalf("unexpected database defaults %q/%q", cfg.DatabaseDriver, cfg.DatabasePath)
	}
	if cfg.AutosaveDebounce != 2*time.Second || cfg.SaveTimeout != 10*time.Second {
		t.Fatalf("unexpected autosave defaults %v/%v", cfg.AutosaveDebounce, cfg.SaveTimeout)
	}
	if cfg.TokenTTL != 24*time.Hour || cfg.CookieName != defaultCookieName {
		t.Fatalf("unexpected auth defaults %v/%q", cfg.TokenTTL, cfg.CookieName)
	}
	if cfg.AIProvider != AIProviderNone || cfg.StorageDriver != StorageLocal || cfg.PDFEnabled {
		t.Fatalf("unexpected feature defaults %+v", cfg)
	}
	if len(cfg.AllowedOrigins) != 0 {
		t.Fatalf("expected no allowed origins, got %v", cfg.AllowedOrigins)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	cfg := validViper(t)(map[string]any{
		"http.allowed_origins": " https://a.example.com, ,https://b.example.com ",
		"autosave.debounce":    "500ms",
		"database.driver":      "Postgres",
		"database.url":         "postgres://localhost/resume",
		"ai.provider":          "gemini",
		"ai.gemini_api_key":    "key",
		"storage.driver":       "s3",
		"storage.s3_bucket":    "artifacts",
	})

	if strings.Join(cfg.AllowedOrigins, "|") != "https://a.example.com|https://b.example.com" {
		t.Fatalf("unexpected origins %v", cfg.AllowedOrigins)
	}
	if cfg.AutosaveDebounce != 500*time.Millisecond {
		t.Fatalf("unexpected debounce %v", cfg.AutosaveDebounce)
	}
	if cfg.DatabaseDriver != DatabasePostgres {
		t.Fatalf("expected driver to be normalized, got %q", cfg.DatabaseDriver)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("RESUME_AUTH_SIGNING_SECRET", "from-env")
	t.Setenv("RESUME_LOG_LEVEL", "debug")

	cfg, err := Load(NewViper())
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if cfg.SigningSecret != "from-env" || cfg.LogLevel != "debug" {
		t.Fatalf("expected env values, got %q/%q", cfg.SigningSecret, cfg.LogLevel)
	}
}

func TestLoadValidation(t *testing.T) {
	testCases := []struct {
		name      string
		overrides map[string]any
		wantError string
	}{
		{name: "missing secret", overrides: map[string]any{"auth.signing_secret": ""}, wantError: "auth.signing_secret"},
		{name: "unknown driver", overrides: map[string]any{"database.driver": "mysql"}, wantError: "database.driver"},
		{name: "postgres without url", overrides: map[string]any{"database.driver": "postgres"}, wantError: "database.url"},
		{name: "sqlite without path", overrides: map[string]any{"database.path": ""}, wantError: "database.path"},
		{name: "zero debounce", overrides: map[string]any{"autosave.debounce": "0s"}, wantError: "autosave.debounce"},
		{name: "gemini without key", overrides: map[string]any{"ai.provider": "gemini"}, wantError: "ai.gemini_api_key"},
		{name: "openai without key", overrides: map[string]any{"ai.provider": "openai"}, wantError: "ai.openai_api_key"},
		{name: "unknown provider", overrides: map[string]any{"ai.provider": "claude"}, wantError: "ai.provider"},
		{name: "zero attempts", overrides: map[string]any{"ai.attempts": 0}, wantError: "ai.attempts"},
		{name: "s3 without bucket", overrides: map[string]any{"storage.driver": "s3"}, wantError: "storage.s3_bucket"},
		{name: "unknown storage", overrides: map[string]any{"storage.driver": "ftp"}, wantError: "storage.driver"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			configViper := NewViper()
			configViper.Set("auth.signing_secret", "secret")
			for key, value := range testCase.overrides {
				configViper.Set(key, value)
			}
			_, err := Load(configViper)
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), testCase.wantError) {
				t.Fatalf("expected error mentioning %q, got %v", testCase.wantError, err)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("RESUME_TEST_DOTENV_VALUE=loaded\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("RESUME_TEST_DOTENV_VALUE", "")
	if err := os.Unsetenv("RESUME_TEST_DOTENV_VALUE"); err != nil {
		t.Fatalf("unset: %v", err)
	}

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := os.Getenv("RESUME_TEST_DOTENV_VALUE"); got != "loaded" {
		t.Fatalf("expected value from env file, got %q", got)
	}

	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatalf("expected error for explicit missing file")
	}
}
