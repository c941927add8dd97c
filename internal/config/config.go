// Package config loads converter settings from defaults, an optional YAML
// file and environment variables, in that order of precedence.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration values.
type Config struct {
	// Export conversion
	InputDir      string `env:"KANKATEXT_INPUT_DIR" yaml:"input_dir"`
	OutputDir     string `env:"KANKATEXT_OUTPUT_DIR" yaml:"output_dir"`
	MentionLabels bool   `env:"KANKATEXT_MENTION_LABELS" yaml:"mention_labels"`

	// Kanka API
	APIToken    string        `env:"KANKA_API_TOKEN" yaml:"api_token"`
	APIURL      string        `env:"KANKA_API_URL" yaml:"api_url"`
	HTTPTimeout time.Duration `env:"KANKATEXT_HTTP_TIMEOUT" yaml:"http_timeout"`

	// Logging
	LogFile      string `env:"KANKATEXT_LOG_FILE" yaml:"log_file"`
	LogLevelName string `env:"KANKATEXT_LOG_LEVEL" yaml:"log_level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		OutputDir:    "NotebookLM_Files",
		APIURL:       "https://api.kanka.io/1.0",
		HTTPTimeout:  30 * time.Second,
		LogFile:      filepath.Join(os.TempDir(), "kankatext.log"),
		LogLevelName: "INFO",
	}
}

// Load builds the configuration. Values from the YAML file at path (skipped
// when path is empty) override defaults; environment variables override both.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := ParseEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables. Unset variables
// leave the target field untouched.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LogLevel returns the parsed log level.
func (c Config) LogLevel() slog.Level {
	return parseLogLevel(c.LogLevelName)
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
