package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds everything outside the LLM provider selection, which
// keeps its own env-based discovery in the llm package.
type Config struct {
	// SubscriptionURL is the base URL of the subscription-status API.
	SubscriptionURL string

	// SubscriptionToken is the bearer credential for the status API.
	SubscriptionToken string

	// TTSCommand overrides the text-to-speech binary used for dictation
	// prompts. Empty picks a platform default.
	TTSCommand string

	// LogFile receives JSON logs. The terminal belongs to the TUI, so
	// nothing is ever logged to stdout or stderr while it runs.
	LogFile string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// DBPath is the telemetry database location. Empty picks the
	// XDG data directory default.
	DBPath string

	// LoadTimeoutSeconds bounds a question batch load.
	LoadTimeoutSeconds int
}

// Dir returns the configuration directory, honoring XDG_CONFIG_HOME.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "prepvox")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "prepvox"
	}
	return filepath.Join(home, ".config", "prepvox")
}

// Load reads configuration from, in increasing precedence: defaults,
// the config file, PREPVOX_* environment variables, and the given
// command flags (nil is fine). A missing config file is not an error.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	v.SetEnvPrefix("PREPVOX")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("subscription-url", "https://api.prepvox.dev")
	v.SetDefault("log-level", "info")
	v.SetDefault("log-file", filepath.Join(Dir(), "prepvox.log"))
	v.SetDefault("load-timeout", 45)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(Dir())
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return &Config{
		SubscriptionURL:    v.GetString("subscription-url"),
		SubscriptionToken:  v.GetString("subscription-token"),
		TTSCommand:         v.GetString("tts-command"),
		LogFile:            v.GetString("log-file"),
		LogLevel:           v.GetString("log-level"),
		DBPath:             v.GetString("db"),
		LoadTimeoutSeconds: v.GetInt("load-timeout"),
	}, nil
}
