// Package config loads runtime settings from the environment, an optional
// .env file and an optional omara.yaml file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "OMARA"

// Defaults.
const (
	DefaultDBPath   = "omara.sqlite3"
	DefaultLogLevel = "info"
)

// Config holds the settings the CLI needs.
type Config struct {
	DBPath   string
	LogPath  string
	LogLevel string
}

// Level returns the configured log level, or info if it does not parse.
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Load reads settings from dir. Environment variables such as OMARA_DB win
// over dir/.env, which wins over dir/omara.yaml, which wins over defaults.
func Load(dir string) (*Config, error) {
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("db", DefaultDBPath)
	v.SetDefault("log", "")
	v.SetDefault("log_level", DefaultLogLevel)

	v.SetConfigName("omara")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	return &Config{
		DBPath:   v.GetString("db"),
		LogPath:  v.GetString("log"),
		LogLevel: v.GetString("log_level"),
	}, nil
}
