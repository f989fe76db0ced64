// Package config loads application configuration from file and environment.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Jackett  JackettConfig  `mapstructure:"jackett"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	History  HistoryConfig  `mapstructure:"history"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// JackettConfig holds the upstream Jackett connection settings.
type JackettConfig struct {
	URL     string `mapstructure:"url"`
	APIKey  string `mapstructure:"api_key"`
	Timeout int    `mapstructure:"timeout"` // per-indexer search timeout in seconds
	// Indexers restricts searches to the listed indexer ids. Empty means all
	// configured indexers. Per-request filters intersect with this list.
	Indexers []string `mapstructure:"indexers"`
}

// CatalogConfig controls the indexer catalog refresh.
type CatalogConfig struct {
	RefreshCron string `mapstructure:"refresh_cron"`
}

// HistoryConfig controls the search history audit log.
type HistoryConfig struct {
	RetentionDays int `mapstructure:"retention_days"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// Load reads configuration from file and environment variables.
// Priority: environment variables > config file > defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.jackbridge")
	}

	v.SetEnvPrefix("JACKBRIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file not found is fine, defaults + env vars apply
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Jackett.URL == "" {
		return fmt.Errorf("jackett.url is required")
	}
	if c.Jackett.Timeout <= 0 {
		return fmt.Errorf("jackett.timeout must be positive")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 9118)

	v.SetDefault("jackett.url", "http://localhost:9117")
	v.SetDefault("jackett.api_key", "")
	v.SetDefault("jackett.timeout", 30)
	v.SetDefault("jackett.indexers", []string{})

	v.SetDefault("catalog.refresh_cron", "*/15 * * * *")

	v.SetDefault("history.retention_days", 30)

	v.SetDefault("database.path", "./data/jackbridge.db")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.path", "")
}

// Address returns the server address string.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
