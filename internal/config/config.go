// Package config handles configuration loading for cmdesk.
// It supports XDG config paths, project-level overrides, and environment
// variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for cmdesk.
type Config struct {
	TUI      TUIConfig      `mapstructure:"tui"`
	Run      RunConfig      `mapstructure:"run"`
	Features FeaturesConfig `mapstructure:"features"`
	History  HistoryConfig  `mapstructure:"history"`
	Locale   LocaleConfig   `mapstructure:"locale"`
	Log      LogConfig      `mapstructure:"log"`
}

// TUIConfig holds terminal display settings.
type TUIConfig struct {
	// RefreshRate is how often the output panel polls the run buffer.
	RefreshRate time.Duration `mapstructure:"refresh_rate"`
	// OutputLines caps how many lines the output panel keeps on screen.
	// The underlying run buffer is never truncated.
	OutputLines int `mapstructure:"output_lines"`
}

// RunConfig holds defaults applied to every run attempt.
type RunConfig struct {
	// WorkingDir pre-fills the working directory override.
	WorkingDir string `mapstructure:"working_dir"`
}

// FeaturesConfig toggles the optional editor tabs, each with an optional
// description line shown at the top of the tab.
type FeaturesConfig struct {
	Env            bool   `mapstructure:"env"`
	EnvDesc        string `mapstructure:"env_desc"`
	Stdin          bool   `mapstructure:"stdin"`
	StdinDesc      string `mapstructure:"stdin_desc"`
	WorkingDir     bool   `mapstructure:"working_dir"`
	WorkingDirDesc string `mapstructure:"working_dir_desc"`
}

// HistoryConfig holds run-history persistence settings.
type HistoryConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Path overrides the XDG default database location.
	Path string `mapstructure:"path"`
	// Retention prunes runs older than this on startup. Zero keeps all.
	Retention time.Duration `mapstructure:"retention"`
}

// LocaleConfig points at an optional YAML message override file.
type LocaleConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig holds debug log settings. The TUI owns the terminal, so logs
// go to a file.
type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		TUI: TUIConfig{
			RefreshRate: 100 * time.Millisecond,
			OutputLines: 10000,
		},
		Features: FeaturesConfig{
			Env:        true,
			Stdin:      true,
			WorkingDir: true,
		},
		History: HistoryConfig{
			Enabled:   true,
			Retention: 30 * 24 * time.Hour,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration with the following precedence (highest first):
// 1. CMDESK_* environment variables
// 2. Project config (.cmdesk.yaml in the current directory or a parent)
// 3. User config (~/.config/cmdesk/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(getUserConfigDir())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	if projectConfig := findProjectConfig(); projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.SetEnvPrefix("CMDESK")
	v.AutomaticEnv()
	v.BindEnv("history.path", "CMDESK_HISTORY_PATH")
	v.BindEnv("locale.path", "CMDESK_LOCALE_PATH")
	v.BindEnv("log.path", "CMDESK_LOG_PATH")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file.
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// GetUserConfigPath returns the path of the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("tui.refresh_rate", def.TUI.RefreshRate)
	v.SetDefault("tui.output_lines", def.TUI.OutputLines)
	v.SetDefault("run.working_dir", def.Run.WorkingDir)
	v.SetDefault("features.env", def.Features.Env)
	v.SetDefault("features.stdin", def.Features.Stdin)
	v.SetDefault("features.working_dir", def.Features.WorkingDir)
	v.SetDefault("history.enabled", def.History.Enabled)
	v.SetDefault("history.retention", def.History.Retention)
	v.SetDefault("log.level", def.Log.Level)
}

// getUserConfigDir returns the XDG config directory for cmdesk.
func getUserConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "cmdesk")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".cmdesk"
	}
	return filepath.Join(home, ".config", "cmdesk")
}

// findProjectConfig walks up from the current directory looking for
// .cmdesk.yaml.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, ".cmdesk.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
