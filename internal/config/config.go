// Package config loads per-service settings from the environment.
package config

import (
	"fmt"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Tutor configures the LLM providers behind word lookups.
type Tutor struct {
	Provider        string `env:"TUTOR_PROVIDER"    env-default:"anthropic"`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL   string `env:"OPENAI_BASE_URL"   env-default:"https://api.openai.com/v1"`
	OpenAIModel     string `env:"OPENAI_MODEL"      env-default:"gpt-4o"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	AnthropicModel  string `env:"ANTHROPIC_MODEL"   env-default:"claude-3-5-sonnet-20241022"`
}

func (t *Tutor) validate() error {
	t.Provider = strings.ToLower(strings.TrimSpace(t.Provider))
	switch t.Provider {
	case ProviderOpenAI:
		if t.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for provider %q", t.Provider)
		}
	case ProviderAnthropic:
		if t.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for provider %q", t.Provider)
		}
	default:
		return fmt.Errorf("unknown TUTOR_PROVIDER %q", t.Provider)
	}
	return nil
}

// HasProvider reports whether the named provider has credentials.
func (t Tutor) HasProvider(name string) bool {
	switch name {
	case ProviderOpenAI:
		return t.OpenAIAPIKey != ""
	case ProviderAnthropic:
		return t.AnthropicAPIKey != ""
	}
	return false
}

// Handler is the LINE webhook Lambda configuration.
type Handler struct {
	ChannelSecret        string `env:"CHANNEL_SECRET"         env-required:"true"`
	ChannelToken         string `env:"CHANNEL_TOKEN"          env-required:"true"`
	VocabularyTableName  string `env:"VOCABULARY_TABLE_NAME"  env-required:"true"`
	VocabularyCollection string `env:"VOCABULARY_COLLECTION"  env-default:"default"`
	UserTableName        string `env:"USER_TABLE_NAME"        env-required:"true"`
	ReminderFunctionName string `env:"REMINDER_FUNCTION_NAME" env-default:"language-reminder"`
	ReminderFunctionArn  string `env:"REMINDER_FUNCTION_ARN"`
	SchedulerRoleArn     string `env:"SCHEDULER_ROLE_ARN"`
	DefaultTimezone      string `env:"DEFAULT_TIMEZONE"       env-default:"Europe/Berlin"`
	Tutor                Tutor
}

// Reminders reports whether /remind can create schedules.
func (c Handler) Reminders() bool {
	return c.ReminderFunctionArn != "" && c.SchedulerRoleArn != ""
}

// Reminder is the review digest Lambda configuration.
type Reminder struct {
	ChannelSecret        string `env:"CHANNEL_SECRET"        env-required:"true"`
	ChannelToken         string `env:"CHANNEL_TOKEN"         env-required:"true"`
	VocabularyTableName  string `env:"VOCABULARY_TABLE_NAME" env-required:"true"`
	VocabularyCollection string `env:"VOCABULARY_COLLECTION" env-default:"default"`
	ReviewSize           int    `env:"REVIEW_SIZE"           env-default:"5"`
}

// CLI is the local terminal driver configuration.
type CLI struct {
	StorageFile string `env:"STORAGE_FILE" env-default:"translations_storage.json"`
	LogLevel    string `env:"LOG_LEVEL"    env-default:"warning"`
	Tutor       Tutor
}

func LoadHandler() (*Handler, error) {
	var cfg Handler
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	if err := cfg.Tutor.validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	if cfg.ReminderFunctionArn != "" && cfg.SchedulerRoleArn == "" {
		return nil, fmt.Errorf("config: validate: SCHEDULER_ROLE_ARN is required with REMINDER_FUNCTION_ARN")
	}
	return &cfg, nil
}

func LoadReminder() (*Reminder, error) {
	var cfg Reminder
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	if cfg.ReviewSize <= 0 {
		return nil, fmt.Errorf("config: validate: REVIEW_SIZE must be > 0 (got %d)", cfg.ReviewSize)
	}
	return &cfg, nil
}

func LoadCLI() (*CLI, error) {
	var cfg CLI
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	if err := cfg.Tutor.validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}
