package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Backend BackendConfig
	Session SessionConfig
	Log     LogConfig
}

// BackendConfig points the client at the question-answering / case-asset API.
type BackendConfig struct {
	BaseURL    string        `mapstructure:"base_url" validate:"required,url"`
	Timeout    time.Duration `validate:"gt=0"`
	TopK       int           `mapstructure:"top_k" validate:"gte=0"`
	TimeAnchor string        `mapstructure:"time_anchor"`
}

// SessionConfig holds the initial session state and recall sizes.
type SessionConfig struct {
	DefaultCase     string `mapstructure:"default_case"`
	DefaultQuestion string `mapstructure:"default_question"`
	HistorySize     int    `mapstructure:"history_size" validate:"gte=1"`
	HistoryCases    int    `mapstructure:"history_cases" validate:"gte=1"`
}

// LogConfig holds log file settings. The TUI owns stdout so logs only go to file.
type LogConfig struct {
	Path       string `validate:"required"`
	Level      string `validate:"oneof=debug info warn error"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"gte=1"`
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"gte=0"`
}

// Path returns the config file location: $CASEDESK_CONFIG or
// ~/.config/casedesk/config.toml.
func Path() string {
	if p := os.Getenv("CASEDESK_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "casedesk", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix CASEDESK_.
func Load() (Config, error) {
	return loadFrom(Path())
}

func loadFrom(path string) (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("backend.base_url", "http://localhost:8000")
	v.SetDefault("backend.timeout", "30s")
	v.SetDefault("backend.top_k", 0)
	v.SetDefault("backend.time_anchor", "")
	v.SetDefault("session.default_case", "sample_case_001")
	v.SetDefault("session.default_question", "本案争议焦点为何？")
	v.SetDefault("session.history_size", 20)
	v.SetDefault("session.history_cases", 64)
	v.SetDefault("log.path", filepath.Join(os.Getenv("HOME"), ".local", "state", "casedesk", "casedesk.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)

	v.SetConfigType("toml")
	v.SetConfigFile(path)

	v.SetEnvPrefix("CASEDESK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.Backend.BaseURL = strings.TrimRight(strings.TrimSpace(c.Backend.BaseURL), "/")
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	return c, nil
}

var validate = validator.New()

// Validate checks field constraints and reports the first offending fields.
func Validate(c Config) error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
