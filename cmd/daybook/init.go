package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"daybook/internal/config"
	"daybook/internal/store"
)

// defaultConfig mirrors the config keys with their shipped defaults. It is
// only used to seed a fresh config file; runtime loading goes through viper.
type defaultConfig struct {
	DataDir string `yaml:"data_dir"`
	Stale   struct {
		CaptureDays int `yaml:"capture_days"`
		ReadyDays   int `yaml:"ready_days"`
	} `yaml:"stale"`
	Log struct {
		MaxSizeMB  int `yaml:"max_size_mb"`
		MaxBackups int `yaml:"max_backups"`
	} `yaml:"log"`
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the data directory and database",
	Long: `Create the data directory, initialize the database schema, and write
a default config file at $HOME/.daybook.yaml if none exists. Safe to run
repeatedly; existing data and config are left untouched.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			fail(err)
		}

		st, err := store.Open(cfg.DBPath())
		if err != nil {
			fail(err)
		}
		defer st.Close()

		if err := st.InitSchema(); err != nil {
			fail(err)
		}
		fmt.Printf("Initialized database at %s\n", cfg.DBPath())

		if cfgFile == "" {
			if path, wrote, err := writeDefaultConfig(cfg); err != nil {
				fail(err)
			} else if wrote {
				fmt.Printf("Wrote default config to %s\n", path)
			}
		}
	},
}

// writeDefaultConfig writes $HOME/.daybook.yaml with the resolved defaults,
// unless a config file already exists there.
func writeDefaultConfig(cfg *config.Config) (string, bool, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false, fmt.Errorf("failed to locate home dir: %w", err)
	}
	path := filepath.Join(home, ".daybook.yaml")

	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	} else if !os.IsNotExist(err) {
		return "", false, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	var dc defaultConfig
	dc.DataDir = cfg.DataDir
	dc.Stale.CaptureDays = cfg.Stale.CaptureDays
	dc.Stale.ReadyDays = cfg.Stale.ReadyDays
	dc.Log.MaxSizeMB = cfg.Log.MaxSizeMB
	dc.Log.MaxBackups = cfg.Log.MaxBackups

	out, err := yaml.Marshal(&dc)
	if err != nil {
		return "", false, fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return "", false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, true, nil
}
