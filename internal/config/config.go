// Package config provides configuration loading, validation, and management
// for the bot. It handles reading from a YAML file, overlaying BOT_-prefixed
// environment variables, setting default values, and validating parameters.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-telegram/bot/models"
	"github.com/spf13/viper"
)

// Config defines the application configuration parameters for all components:
// logging, the Telegram transport, Gemini integration, the database, user-facing
// message strings, and scheduled tasks.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Messages  MessagesConfig  `mapstructure:"messages"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// LoggerConfig controls log level and output format.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds the transport credential. BotInfo is populated at
// runtime after GetMe and is not read from the config file.
type TelegramConfig struct {
	Token   string       `mapstructure:"token" validate:"required"`
	BotInfo *models.User `mapstructure:"-"`
}

// GeminiConfig holds Gemini API settings.
type GeminiConfig struct {
	APIKey            string  `mapstructure:"api_key"    validate:"required"`
	ModelName         string  `mapstructure:"model_name" validate:"required"`
	Temperature       float32 `mapstructure:"temperature" validate:"min=0,max=2"`
	MaxRetries        int     `mapstructure:"max_retries" validate:"min=0,max=10"`
	RetryDelaySeconds int     `mapstructure:"retry_delay_seconds" validate:"min=0,max=60"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// MessagesConfig holds every user-facing string the bot sends outside of
// AI-generated replies, so deployments can localize them.
type MessagesConfig struct {
	ContactRequest      string `mapstructure:"contact_request"      validate:"required"`
	ContactThanks       string `mapstructure:"contact_thanks"       validate:"required"`
	TextFallback        string `mapstructure:"text_fallback"        validate:"required"`
	ImageFallback       string `mapstructure:"image_fallback"       validate:"required"`
	DocumentFallback    string `mapstructure:"document_fallback"    validate:"required"`
	NoReadableText      string `mapstructure:"no_readable_text"     validate:"required"`
	UnsupportedDocument string `mapstructure:"unsupported_document" validate:"required"`
	WebSearchUsage      string `mapstructure:"websearch_usage"      validate:"required"`
	WebSearchEmpty      string `mapstructure:"websearch_empty"      validate:"required"`
	DownloadError       string `mapstructure:"download_error"       validate:"required"`
	GeneralError        string `mapstructure:"general_error"        validate:"required"`
}

// SchedulerConfig maps task names to their schedules.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// TaskConfig enables a named scheduled task with a cron expression.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// LoadConfig reads configuration from the given YAML file, overlays
// environment variables prefixed with BOT_ (e.g. BOT_TELEGRAM_TOKEN),
// applies defaults for optional fields, and validates the result.
// A missing config file is not an error as long as required values arrive
// via environment variables.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only surfaces keys viper already knows about; the
	// required credentials have no defaults and need explicit bindings.
	v.MustBindEnv("telegram.token")
	v.MustBindEnv("gemini.api_key")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
		}
		slog.Info("Config file not found, relying on defaults and environment", "path", path)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.json", false)

	v.SetDefault("gemini.model_name", "gemini-2.0-flash")
	v.SetDefault("gemini.temperature", 1.0)
	v.SetDefault("gemini.max_retries", 2)
	v.SetDefault("gemini.retry_delay_seconds", 2)

	v.SetDefault("database.path", "storage.db")

	v.SetDefault("messages.contact_request", "Hello! Please share your contact to complete registration.")
	v.SetDefault("messages.contact_thanks", "Thanks for sharing your contact!")
	v.SetDefault("messages.text_fallback", "I couldn't process that.")
	v.SetDefault("messages.image_fallback", "Could not analyze the image.")
	v.SetDefault("messages.document_fallback", "Could not summarize the document.")
	v.SetDefault("messages.no_readable_text", "No readable text found in the PDF.")
	v.SetDefault("messages.unsupported_document", "Unsupported document type.")
	v.SetDefault("messages.websearch_usage", "Please provide a search query after /websearch")
	v.SetDefault("messages.websearch_empty", "No search results found.")
	v.SetDefault("messages.download_error", "There was an error analyzing the image. Please try again later.")
	v.SetDefault("messages.general_error", "An error occurred. Please try again later.")

	v.SetDefault("scheduler.tasks", map[string]TaskConfig{
		"sql_maintenance": {Enabled: true, Schedule: "0 0 4 * * *"},
	})
}

// RetryDelay returns the configured Gemini retry delay as a duration.
func (g GeminiConfig) RetryDelay() time.Duration {
	return time.Duration(g.RetryDelaySeconds) * time.Second
}
