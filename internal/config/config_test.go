package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, key := range []string{"HOST", "PORT", "REQUEST_TIMEOUT", "MAX_IMAGE_BYTES", "OPENROUTER_API_KEY", "AZURE_STORAGE_ACCOUNT", "AZURE_STORAGE_KEY"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.ServerAddress() != "0.0.0.0:8080" {
		t.Errorf("Expected default address, got %s", cfg.ServerAddress())
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("Expected 30s request timeout, got %s", cfg.RequestTimeout)
	}
	if cfg.MaxImageBytes != 20*1024*1024 {
		t.Errorf("Expected 20MB image limit, got %d", cfg.MaxImageBytes)
	}
	if cfg.ChatMaxTokens != 150 {
		t.Errorf("Expected 150 chat tokens, got %d", cfg.ChatMaxTokens)
	}
	if cfg.ChatEnabled() {
		t.Error("Chat should be disabled without an API key")
	}
	if cfg.AzureEnabled() {
		t.Error("Azure should be disabled without credentials")
	}
}

func TestLoadFromEnv_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("PORT", "")

	content := "OPENROUTER_API_KEY=sk-test\nPORT=9090\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write .env: %v", err)
	}
	// godotenv never overrides a variable that is set, even to ""; t.Setenv above
	// restores the originals afterwards.
	os.Unsetenv("OPENROUTER_API_KEY")
	os.Unsetenv("PORT")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !cfg.ChatEnabled() {
		t.Error("Expected chat to be enabled from .env")
	}
	if cfg.Port != "9090" {
		t.Errorf("Expected port from .env, got %s", cfg.Port)
	}
}

func TestFromEnv_Validation(t *testing.T) {
	testCases := []struct {
		name  string
		key   string
		value string
	}{
		{"non numeric port", "PORT", "http"},
		{"port out of range", "PORT", "70000"},
		{"zero body size", "MAX_REQUEST_BODY_SIZE", "0"},
		{"negative image limit", "MAX_IMAGE_BYTES", "-1"},
		{"zero chat tokens", "CHAT_MAX_TOKENS", "0"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			if _, err := fromEnv(); err == nil {
				t.Errorf("Expected error for %s=%s", tc.key, tc.value)
			}
		})
	}
}

func TestFromEnv_InvalidDurationFallsBack(t *testing.T) {
	t.Setenv("ANALYSIS_TIMEOUT", "soon")
	t.Setenv("IMAGE_FETCH_TIMEOUT", "-5s")

	cfg, err := fromEnv()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.AnalysisTimeout != 20*time.Second {
		t.Errorf("Expected default analysis timeout, got %s", cfg.AnalysisTimeout)
	}
	if cfg.ImageFetchTimeout != 15*time.Second {
		t.Errorf("Expected default fetch timeout, got %s", cfg.ImageFetchTimeout)
	}
}

func TestServerAddress_TrimsWhitespace(t *testing.T) {
	cfg := &Config{Host: " 127.0.0.1 ", Port: " 8081"}
	if cfg.ServerAddress() != "127.0.0.1:8081" {
		t.Errorf("Unexpected address %q", cfg.ServerAddress())
	}
}
