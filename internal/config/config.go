// Package config loads daybook configuration from file, environment, and
// defaults, and wires the rotating log sink.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config is the resolved daybook configuration.
type Config struct {
	// DataDir holds the database, the generated logs, and the plan.
	DataDir string `mapstructure:"data_dir"`

	// Stale view thresholds, in days.
	Stale struct {
		CaptureDays int `mapstructure:"capture_days"`
		ReadyDays   int `mapstructure:"ready_days"`
	} `mapstructure:"stale"`

	// Log controls the rotating diagnostic log file.
	Log struct {
		MaxSizeMB  int `mapstructure:"max_size_mb"`
		MaxBackups int `mapstructure:"max_backups"`
	} `mapstructure:"log"`
}

// DBPath returns the database file path.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "daybook.db")
}

// LogFilePath returns the diagnostic log file path.
func (c *Config) LogFilePath() string {
	return filepath.Join(c.DataDir, "daybook.log")
}

// Load reads configuration from the given file (empty = $HOME/.daybook.yaml
// if present), environment variables prefixed DAYBOOK_, and defaults.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	v.SetDefault("data_dir", filepath.Join(home, ".daybook"))
	v.SetDefault("stale.capture_days", 28)
	v.SetDefault("stale.ready_days", 14)
	v.SetDefault("log.max_size_mb", 5)
	v.SetDefault("log.max_backups", 3)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".daybook")
		v.SetConfigType("yaml")
		v.AddConfigPath(home)
	}

	v.SetEnvPrefix("DAYBOOK")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing default config file is fine; defaults and env apply.
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// NewLogger returns a logger writing to the rotating diagnostic log file
// under the data directory.
func (c *Config) NewLogger(prefix string) *log.Logger {
	sink := &lumberjack.Logger{
		Filename:   c.LogFilePath(),
		MaxSize:    c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
	}
	return log.New(sink, prefix, log.LstdFlags)
}
