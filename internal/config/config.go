package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// Values are read by viper from a config file or environment variables.
type Config struct {
	ListenAddr       string        `mapstructure:"LISTEN_ADDR"`
	BadgerDBPath     string        `mapstructure:"BADGERDB_PATH"`
	LogLevel         string        `mapstructure:"LOG_LEVEL"`
	LogFormat        string        `mapstructure:"LOG_FORMAT"`
	SearchDebounce   time.Duration `mapstructure:"SEARCH_DEBOUNCE"`
	MaxImageBytes    int64         `mapstructure:"MAX_IMAGE_BYTES"`
	ImportTimeout    time.Duration `mapstructure:"IMPORT_TIMEOUT"`
	ClipboardEnabled bool          `mapstructure:"CLIPBOARD_ENABLED"`

	// TelegramBotToken enables the chat front end when set.
	TelegramBotToken string `mapstructure:"TELEGRAM_BOT_TOKEN"`
	// AllowedChatIDs are the only Telegram chats the bot answers.
	AllowedChatIDs []int64 `mapstructure:"ALLOWED_CHAT_IDS"`
}

var defaults = map[string]any{
	"LISTEN_ADDR":        "127.0.0.1:8080",
	"BADGERDB_PATH":      "./badger_data",
	"LOG_LEVEL":          "info",
	"LOG_FORMAT":         "json",
	"SEARCH_DEBOUNCE":    "200ms",
	"MAX_IMAGE_BYTES":    2 << 20,
	"IMPORT_TIMEOUT":     "30s",
	"CLIPBOARD_ENABLED":  true,
	"TELEGRAM_BOT_TOKEN": "",
	"ALLOWED_CHAT_IDS":   []int64{},
}

// LoadConfig reads configuration from config.yaml in path, then from
// environment variables, which take precedence.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Defaults also register every key, so AutomaticEnv can see them.
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine; env vars and defaults still apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Validate rejects values the application cannot run with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.ListenAddr) == "" {
		return fmt.Errorf("LISTEN_ADDR is empty")
	}
	if strings.TrimSpace(c.BadgerDBPath) == "" {
		return fmt.Errorf("BADGERDB_PATH is empty")
	}
	if c.SearchDebounce < 0 {
		return fmt.Errorf("SEARCH_DEBOUNCE must not be negative, got %s", c.SearchDebounce)
	}
	if c.MaxImageBytes <= 0 {
		return fmt.Errorf("MAX_IMAGE_BYTES must be positive, got %d", c.MaxImageBytes)
	}
	if c.ImportTimeout <= 0 {
		return fmt.Errorf("IMPORT_TIMEOUT must be positive, got %s", c.ImportTimeout)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}
	return nil
}

// BotEnabled reports whether the Telegram front end should start.
func (c Config) BotEnabled() bool {
	return c.TelegramBotToken != ""
}
