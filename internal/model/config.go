package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvDatabaseURL overrides the database path. The name is kept from
// earlier releases so existing shells keep working.
const EnvDatabaseURL = "TUDU_DATABASE_URL"

// DatabaseConfig controls where and how the SQLite file is opened.
type DatabaseConfig struct {
	// Path is the location of the SQLite database file.
	Path string `mapstructure:"path" yaml:"path"`

	// AutoMigrate applies pending migrations before every command.
	AutoMigrate bool `mapstructure:"auto_migrate" yaml:"auto_migrate"`

	// BusyTimeoutMS is how long a writer waits on a locked database.
	BusyTimeoutMS int `mapstructure:"busy_timeout_ms" yaml:"busy_timeout_ms"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level     string `mapstructure:"level" yaml:"level"`
	File      string `mapstructure:"file" yaml:"file"`
	MaxSizeMB int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxFiles  int    `mapstructure:"max_files" yaml:"max_files"`
}

// DisplayConfig holds rendering preferences.
type DisplayConfig struct {
	DateFormat string `mapstructure:"date_format" yaml:"date_format"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Display  DisplayConfig  `mapstructure:"display" yaml:"display"`
}

// DefaultConfigPath returns ~/.config/tudu/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "tudu", "config.yaml")
}

// DefaultDatabasePath returns ~/Documents/tudu.db.
func DefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "tudu.db"
	}
	return filepath.Join(home, "Documents", "tudu.db")
}

// DefaultAppConfig returns the configuration used when no file exists.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Database: DatabaseConfig{
			Path:          DefaultDatabasePath(),
			AutoMigrate:   true,
			BusyTimeoutMS: 5000,
		},
		Log: LogConfig{
			Level:     "warn",
			MaxSizeMB: 10,
			MaxFiles:  3,
		},
		Display: DisplayConfig{
			DateFormat: "Mon Jan 2, 2006 3:04pm",
		},
	}
}

// LoadConfig reads configuration from the YAML file at path using Viper.
// A missing file is not an error. TUDU_* environment variables override
// file values, e.g. TUDU_LOG_LEVEL or TUDU_DATABASE_URL.
func LoadConfig(path string) (*AppConfig, error) {
	def := DefaultAppConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("database.path", def.Database.Path)
	v.SetDefault("database.auto_migrate", def.Database.AutoMigrate)
	v.SetDefault("database.busy_timeout_ms", def.Database.BusyTimeoutMS)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.file", def.Log.File)
	v.SetDefault("log.max_size_mb", def.Log.MaxSizeMB)
	v.SetDefault("log.max_files", def.Log.MaxFiles)
	v.SetDefault("display.date_format", def.Display.DateFormat)

	v.SetEnvPrefix("tudu")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("database.path", EnvDatabaseURL, "TUDU_DATABASE_PATH"); err != nil {
		return nil, fmt.Errorf("binding %s: %w", EnvDatabaseURL, err)
	}

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.Database.Path = expandHome(cfg.Database.Path)
	cfg.Log.File = expandHome(cfg.Log.File)

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("database", cfg.Database)
	v.Set("log", cfg.Log)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
