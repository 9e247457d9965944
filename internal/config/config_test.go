package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfig_Defaults(t *testing.T) {
	t.Setenv(APIKeyEnv, "")
	result, err := LoadFrom("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("expected no error for missing config file, got: %v", err)
	}

	cfg := result.Config
	if cfg.Stats.DefaultDays != 7 {
		t.Errorf("default default_days: want 7, got %d", cfg.Stats.DefaultDays)
	}
	if cfg.Display.RefreshMS != 1000 {
		t.Errorf("default refresh_ms: want 1000, got %d", cfg.Display.RefreshMS)
	}
	if cfg.Analysis.Endpoint != "https://api.anthropic.com/v1/messages" {
		t.Errorf("default endpoint: got %s", cfg.Analysis.Endpoint)
	}
	if cfg.Analysis.APIKey != "" {
		t.Errorf("default api_key: want empty, got %q", cfg.Analysis.APIKey)
	}
	if cfg.Analysis.MaxTokens != 1024 {
		t.Errorf("default max_tokens: want 1024, got %d", cfg.Analysis.MaxTokens)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("default log level: want info, got %s", cfg.Log.Level)
	}
	if !strings.HasSuffix(cfg.Storage.DBPath, filepath.Join(".slumber", "slumber.db")) {
		t.Errorf("default db_path: got %s", cfg.Storage.DBPath)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("want no warnings, got %v", result.Warnings)
	}
}

func TestConfig_PartialOverride(t *testing.T) {
	result, err := LoadFromString(`
[stats]
default_days = 30

[analysis]
model = "claude-3-5-sonnet-latest"
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg := result.Config
	if cfg.Stats.DefaultDays != 30 {
		t.Errorf("default_days: want 30, got %d", cfg.Stats.DefaultDays)
	}
	if cfg.Analysis.Model != "claude-3-5-sonnet-latest" {
		t.Errorf("model: got %s", cfg.Analysis.Model)
	}
	// untouched keys in a present section keep their defaults
	if cfg.Analysis.MaxTokens != 1024 {
		t.Errorf("max_tokens: want 1024, got %d", cfg.Analysis.MaxTokens)
	}
	if cfg.Analysis.TimeoutSeconds != 60 {
		t.Errorf("timeout_seconds: want 60, got %d", cfg.Analysis.TimeoutSeconds)
	}
}

func TestConfig_UnknownKeysWarn(t *testing.T) {
	result, err := LoadFromString(`
[alarms]
enabled = true

[stats]
weekly = true
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Warnings) != 2 {
		t.Fatalf("want 2 warnings, got %v", result.Warnings)
	}
	joined := strings.Join(result.Warnings, "\n")
	if !strings.Contains(joined, `"alarms"`) || !strings.Contains(joined, `"stats.weekly"`) {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
}

func TestConfig_ValidationErrorsJoined(t *testing.T) {
	_, err := LoadFromString(`
[stats]
default_days = 10

[display]
refresh_ms = 5

[log]
level = "loud"
`)
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{"default_days", "refresh_ms", "log level"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q should mention %s", msg, want)
		}
	}
	if strings.Count(msg, "; ") != 2 {
		t.Errorf("want 3 joined messages, got %q", msg)
	}
}

func TestConfig_InvalidTOML(t *testing.T) {
	if _, err := LoadFromString("[stats\n"); err == nil {
		t.Error("expected parse error")
	}
}

func TestConfig_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[analysis]\napi_key = \"from-file\"\n\n[storage]\ndb_path = \"~/sleep/data.db\"\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(APIKeyEnv, "")
	result, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Config.Analysis.APIKey != "from-file" {
		t.Errorf("api_key: want from-file, got %q", result.Config.Analysis.APIKey)
	}
	if strings.HasPrefix(result.Config.Storage.DBPath, "~") {
		t.Errorf("db_path should be expanded, got %s", result.Config.Storage.DBPath)
	}

	t.Setenv(APIKeyEnv, "from-env")
	result, err = LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Config.Analysis.APIKey != "from-env" {
		t.Errorf("api_key: want from-env, got %q", result.Config.Analysis.APIKey)
	}
}
