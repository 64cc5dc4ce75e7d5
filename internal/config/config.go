// Package config reads the bot's settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	appErrors "remindme/internal/pkg/errors"

	"github.com/go-playground/validator/v10"
)

// Config holds every setting the bot reads at startup.
type Config struct {
	Port     int    `validate:"min=1,max=65535"`
	LogLevel string `validate:"oneof=debug info warn error"`
	DBPath   string `validate:"required"`
	PollSpec string `validate:"required"`

	// Bot identity used in self-addressed links. AccountName may be left
	// empty and filled from the first platform that reports it.
	AccountName   string
	WebURL        string `validate:"required,url"`
	InfoURL       string `validate:"omitempty,url"`
	OwnerName     string
	MaxListLength int `validate:"min=100"`

	Reddit   RedditConfig
	Telegram TelegramConfig
	Line     LineConfig
}

// RedditConfig holds the script-app credentials of the bot account.
type RedditConfig struct {
	ClientID     string `validate:"required_with=Username"`
	ClientSecret string
	Username     string `validate:"required_with=ClientID"`
	Password     string `validate:"required_with=Username"`
	UserAgent    string
	NoPost       bool
}

// Enabled reports whether Reddit polling is configured.
func (c RedditConfig) Enabled() bool { return c.Username != "" }

type TelegramConfig struct {
	BotToken string
}

func (c TelegramConfig) Enabled() bool { return c.BotToken != "" }

type LineConfig struct {
	ChannelSecret string `validate:"required_with=ChannelToken"`
	ChannelToken  string `validate:"required_with=ChannelSecret"`
}

func (c LineConfig) Enabled() bool { return c.ChannelSecret != "" }

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Port:     getEnvAsIntOrDefault("PORT", 8080),
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		DBPath:   getEnvOrDefault("REMINDER_DB_PATH", "reminder.db"),
		PollSpec: getEnvOrDefault("POLL_SPEC", "@every 30s"),

		AccountName:   os.Getenv("BOT_ACCOUNT_NAME"),
		WebURL:        getEnvOrDefault("BOT_WEB_URL", "https://www.reddit.com"),
		InfoURL:       getEnvOrDefault("BOT_INFO_URL", "https://www.reddit.com/r/RemindMeBot/comments/24duzp/remindmebot_info/"),
		OwnerName:     getEnvOrDefault("BOT_OWNER_NAME", "Watchful1"),
		MaxListLength: getEnvAsIntOrDefault("BOT_MAX_LIST_LENGTH", 9000),

		Reddit: RedditConfig{
			ClientID:     os.Getenv("REDDIT_CLIENT_ID"),
			ClientSecret: os.Getenv("REDDIT_CLIENT_SECRET"),
			Username:     os.Getenv("REDDIT_USERNAME"),
			Password:     os.Getenv("REDDIT_PASSWORD"),
			UserAgent:    os.Getenv("REDDIT_USER_AGENT"),
			NoPost:       getEnvAsBoolOrDefault("REDDIT_NO_POST", false),
		},
		Telegram: TelegramConfig{
			BotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		},
		Line: LineConfig{
			ChannelSecret: os.Getenv("CHANNEL_SECRET"),
			ChannelToken:  os.Getenv("CHANNEL_ACCESS_TOKEN"),
		},
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", appErrors.ErrInvalidConfig, err)
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
