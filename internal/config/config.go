// Package config loads application settings from defaults, an optional
// config file, CALENDAR_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sadopc/calendar/internal/logging"
	"github.com/sadopc/calendar/internal/store"
)

const (
	KeyDatabase    = "database"
	KeyLogFile     = "log_file"
	KeyLogLevel    = "log_level"
	KeyGraceWindow = "grace_window"

	EnvPrefix = "CALENDAR"
)

type Config struct {
	Database    string
	LogFile     string
	LogLevel    string
	GraceWindow time.Duration
}

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"db":        KeyDatabase,
	"log-file":  KeyLogFile,
	"log-level": KeyLogLevel,
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	if p, err := store.DefaultDBPath(); err == nil {
		v.SetDefault(KeyDatabase, p)
	}
	if p, err := logging.DefaultPath(); err == nil {
		v.SetDefault(KeyLogFile, p)
	}
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyGraceWindow, "5s")

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	return v
}

// BindFlags makes the --db, --log-file and --log-level flags in fs override
// the matching keys when set.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// LoadDotEnv loads path into the environment. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load reads cfgFile, or config.yaml from the user config directory or the
// working directory when cfgFile is empty, and returns the merged settings.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "calendar"))
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName("config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		Database:    v.GetString(KeyDatabase),
		LogFile:     v.GetString(KeyLogFile),
		LogLevel:    v.GetString(KeyLogLevel),
		GraceWindow: v.GetDuration(KeyGraceWindow),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Database == "" {
		return errors.New("config: database path is empty")
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: invalid log_level %q", c.LogLevel)
	}
	if c.GraceWindow < 0 {
		return fmt.Errorf("config: grace_window must not be negative, got %s", c.GraceWindow)
	}
	return nil
}
