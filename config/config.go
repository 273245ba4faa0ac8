// Package config loads server settings from defaults, an optional config
// file, a .env file and PENGINE_* environment variables, in rising order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"db"`
	Policy    PolicyConfig    `mapstructure:"policy"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Report    ReportConfig    `mapstructure:"report"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORS            CORSConfig    `mapstructure:"cors"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string { return fmt.Sprintf(":%d", s.Port) }

type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig selects the store. Driver is "sqlite" or "memory".
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
}

// PolicyConfig lists policy documents (.toml or .json) and per-facility
// iCalendar holiday feeds.
type PolicyConfig struct {
	Files        []string      `mapstructure:"files"`
	HolidayFeeds []HolidayFeed `mapstructure:"holiday_feeds"`
}

type HolidayFeed struct {
	Facility string `mapstructure:"facility"`
	Path     string `mapstructure:"path"`
}

type SchedulerConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
}

type ReportConfig struct {
	Workers int `mapstructure:"workers"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads the configuration. An empty path searches ./config and . for
// config.yaml; a missing file or .env is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.cors.allow_origins", []string{"*"})

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.path", "./data/personnel.db")

	v.SetDefault("policy.files", []string{})

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.interval", "1h")

	v.SetDefault("report.workers", 8)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("PENGINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid config: server.port must be within 1-65535, got %d", c.Server.Port)
	}
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			return errors.New("invalid config: db.path is required for the sqlite driver")
		}
	case "memory":
	default:
		return fmt.Errorf("invalid config: unknown db.driver %q", c.Database.Driver)
	}
	if c.Scheduler.Enabled && c.Scheduler.Interval <= 0 {
		return errors.New("invalid config: scheduler.interval must be positive")
	}
	for _, feed := range c.Policy.HolidayFeeds {
		if feed.Path == "" {
			return fmt.Errorf("invalid config: holiday feed for %q has no path", feed.Facility)
		}
	}
	return nil
}
