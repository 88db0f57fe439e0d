package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/edgard/geminibot/internal/config"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, `
telegram:
  token: "123456:test-token"
gemini:
  api_key: "test-api-key"
`)

	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Telegram.Token != "123456:test-token" {
		t.Errorf("Telegram.Token = %q, want %q", cfg.Telegram.Token, "123456:test-token")
	}
	if cfg.Gemini.ModelName != "gemini-2.0-flash" {
		t.Errorf("Gemini.ModelName = %q, want default %q", cfg.Gemini.ModelName, "gemini-2.0-flash")
	}
	if cfg.Logger.Level != "info" {
		t.Errorf("Logger.Level = %q, want default %q", cfg.Logger.Level, "info")
	}
	if cfg.Database.Path != "storage.db" {
		t.Errorf("Database.Path = %q, want default %q", cfg.Database.Path, "storage.db")
	}
	if cfg.Messages.TextFallback != "I couldn't process that." {
		t.Errorf("Messages.TextFallback = %q, want default", cfg.Messages.TextFallback)
	}
	if cfg.Messages.NoReadableText != "No readable text found in the PDF." {
		t.Errorf("Messages.NoReadableText = %q, want default", cfg.Messages.NoReadableText)
	}

	task, ok := cfg.Scheduler.Tasks["sql_maintenance"]
	if !ok {
		t.Fatal("Scheduler.Tasks missing default sql_maintenance entry")
	}
	if !task.Enabled || task.Schedule == "" {
		t.Errorf("sql_maintenance task = %+v, want enabled with schedule", task)
	}
}

func TestLoadConfig_FileValuesOverrideDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, `
logger:
  level: debug
  json: true
telegram:
  token: "123456:test-token"
gemini:
  api_key: "test-api-key"
  model_name: "gemini-2.5-pro"
  max_retries: 5
  retry_delay_seconds: 3
messages:
  text_fallback: "Nao consegui processar isso."
`)

	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Logger.Level != "debug" || !cfg.Logger.JSON {
		t.Errorf("Logger = %+v, want level=debug json=true", cfg.Logger)
	}
	if cfg.Gemini.ModelName != "gemini-2.5-pro" {
		t.Errorf("Gemini.ModelName = %q, want %q", cfg.Gemini.ModelName, "gemini-2.5-pro")
	}
	if cfg.Gemini.MaxRetries != 5 {
		t.Errorf("Gemini.MaxRetries = %d, want 5", cfg.Gemini.MaxRetries)
	}
	if got := cfg.Gemini.RetryDelay(); got != 3*time.Second {
		t.Errorf("Gemini.RetryDelay() = %v, want %v", got, 3*time.Second)
	}
	if cfg.Messages.TextFallback != "Nao consegui processar isso." {
		t.Errorf("Messages.TextFallback = %q, want overridden value", cfg.Messages.TextFallback)
	}
}

func TestLoadConfig_EnvOnly(t *testing.T) {
	// No t.Parallel: t.Setenv mutates process state.

	t.Setenv("BOT_TELEGRAM_TOKEN", "123456:env-token")
	t.Setenv("BOT_GEMINI_API_KEY", "env-api-key")

	// The config file is absent; the required credentials must still
	// arrive through the environment.
	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Telegram.Token != "123456:env-token" {
		t.Errorf("Telegram.Token = %q, want %q", cfg.Telegram.Token, "123456:env-token")
	}
	if cfg.Gemini.APIKey != "env-api-key" {
		t.Errorf("Gemini.APIKey = %q, want %q", cfg.Gemini.APIKey, "env-api-key")
	}
}

func TestLoadConfig_ValidationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{
			name: "Missing telegram token",
			content: `
gemini:
  api_key: "test-api-key"
`,
		},
		{
			name: "Missing gemini api key",
			content: `
telegram:
  token: "123456:test-token"
`,
		},
		{
			name: "Invalid log level",
			content: `
logger:
  level: verbose
telegram:
  token: "123456:test-token"
gemini:
  api_key: "test-api-key"
`,
		},
		{
			name: "Temperature out of range",
			content: `
telegram:
  token: "123456:test-token"
gemini:
  api_key: "test-api-key"
  temperature: 5.0
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeConfigFile(t, tt.content)
			if _, err := config.LoadConfig(path); err == nil {
				t.Error("LoadConfig() expected validation error, got nil")
			}
		})
	}
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, "telegram: [not: valid")
	if _, err := config.LoadConfig(path); err == nil {
		t.Error("LoadConfig() expected parse error, got nil")
	}
}
