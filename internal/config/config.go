package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/jask/imgdrop/internal/upload"
)

// Config holds application configuration.
type Config struct {
	Upload  UploadConfig
	History HistoryConfig
	Log     LogConfig
	UI      UIConfig
}

// UploadConfig holds the image endpoint.
type UploadConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// HistoryConfig holds sqlite settings for the upload log.
type HistoryConfig struct {
	Path  string
	Limit int
}

// LogConfig controls the log file. The terminal belongs to the TUI, so logs
// never go to stderr while it runs.
type LogConfig struct {
	Path  string
	Level string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	StartDir string `mapstructure:"start_dir"`
	Accept   []string
}

// Load reads configuration from file and env. Env var overrides use prefix IMGDROP_.
func Load() (Config, error) {
	v := viper.New()

	home := os.Getenv("HOME")
	v.SetDefault("upload.base_url", "http://localhost:5000")
	v.SetDefault("history.path", filepath.Join(home, ".local", "share", "imgdrop", "history.db"))
	v.SetDefault("history.limit", 10)
	v.SetDefault("log.path", filepath.Join(home, ".local", "state", "imgdrop", "imgdrop.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("ui.start_dir", "")
	v.SetDefault("ui.accept", slices.Clone(upload.ImageExtensions))

	v.SetConfigType("toml")

	cfgPath := os.Getenv("IMGDROP_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(home, ".config", "imgdrop"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("IMGDROP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// an explicit IMGDROP_CONFIG has to exist and parse
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.Upload.BaseURL = strings.TrimRight(strings.TrimSpace(c.Upload.BaseURL), "/")
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := os.Getenv("IMGDROP_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "imgdrop", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("upload.base_url", cfg.Upload.BaseURL)
	v.Set("history.path", cfg.History.Path)
	v.Set("history.limit", cfg.History.Limit)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("ui.start_dir", cfg.UI.StartDir)
	v.Set("ui.accept", cfg.UI.Accept)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
