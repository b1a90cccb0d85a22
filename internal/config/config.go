package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"pricewidget/pkg/utils"

	"gopkg.in/yaml.v3"
)

const (
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

type Server struct {
	Port string `yaml:"port"`
}

type Database struct {
	Path string `yaml:"path"`
}

type Store struct {
	Type string `yaml:"type"`
}

type Quotes struct {
	Provider string        `yaml:"provider"`
	BaseURL  string        `yaml:"base_url"`
	APIKey   string        `yaml:"api_key"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Refresh.Interval of zero disables periodic refresh.
type Refresh struct {
	Interval time.Duration `yaml:"interval"`
}

type Log struct {
	Level string `yaml:"level"`
}

type Config struct {
	Server   Server   `yaml:"server"`
	Database Database `yaml:"database"`
	Store    Store    `yaml:"store"`
	Quotes   Quotes   `yaml:"quotes"`
	Refresh  Refresh  `yaml:"refresh"`
	Log      Log      `yaml:"log"`
}

// Load reads the YAML file at path when one is given, applies environment
// overrides and fills defaults.
func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	}

	c.applyEnv()
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyEnv() {
	c.Server.Port = utils.GetEnv("APP_PORT", c.Server.Port)
	c.Database.Path = utils.GetEnv("DB_PATH", c.Database.Path)
	c.Store.Type = utils.GetEnv("STORE_TYPE", c.Store.Type)
	c.Quotes.Provider = utils.GetEnv("QUOTE_PROVIDER", c.Quotes.Provider)
	c.Quotes.BaseURL = utils.GetEnv("QUOTE_BASE_URL", c.Quotes.BaseURL)
	c.Quotes.APIKey = utils.GetEnv("QUOTE_API_KEY", c.Quotes.APIKey)
	c.Quotes.Timeout = utils.GetEnvDuration("QUOTE_TIMEOUT", c.Quotes.Timeout)
	c.Refresh.Interval = utils.GetEnvDuration("REFRESH_INTERVAL", c.Refresh.Interval)
	c.Log.Level = utils.GetEnv("LOG_LEVEL", c.Log.Level)
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./data/pricewidget.db"
	}
	if c.Store.Type == "" {
		c.Store.Type = StoreSQLite
	}
	c.Store.Type = strings.ToLower(c.Store.Type)
	if c.Quotes.Provider == "" {
		c.Quotes.Provider = "coinpaprika"
	}
	if c.Quotes.Timeout == 0 {
		c.Quotes.Timeout = 10 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) Validate() error {
	switch c.Store.Type {
	case StoreSQLite, StoreMemory:
	default:
		return fmt.Errorf("unknown store type: %s", c.Store.Type)
	}
	if c.Refresh.Interval < 0 {
		return fmt.Errorf("refresh interval cannot be negative: %s", c.Refresh.Interval)
	}
	if c.Quotes.Timeout < 0 {
		return fmt.Errorf("quote timeout cannot be negative: %s", c.Quotes.Timeout)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", s)
	}
}
