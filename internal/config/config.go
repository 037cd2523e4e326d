package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultCatalogURL is the listing endpoint of the public Pokémon catalog.
const DefaultCatalogURL = "https://pokeapi.co/api/v2/pokemon"

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName            string        `mapstructure:"app_name"`
	Env                string        `mapstructure:"app_env"`
	LogLevel           string        `mapstructure:"log_level"`
	CatalogURL         string        `mapstructure:"catalog_url"`
	UserAgent          string        `mapstructure:"user_agent"`
	HTTPTimeoutSeconds int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout        time.Duration `mapstructure:"-"`
	OutputFormat       string        `mapstructure:"output_format"`
	PublishersFile     string        `mapstructure:"publishers_file"`

	StorageType             string        `mapstructure:"storage_type"`
	BBoltPath               string        `mapstructure:"bbolt_path"`
	StorageRetentionSeconds int64         `mapstructure:"storage_retention_seconds"`
	StorageCleanupSeconds   int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageRetention        time.Duration `mapstructure:"-"`
	StorageCleanupInterval  time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetDefault("app_name", "pokedex")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("catalog_url", DefaultCatalogURL)
	v.SetDefault("user_agent", "pokedex/1.0")
	v.SetDefault("http_timeout_seconds", 0) // no timeout
	v.SetDefault("output_format", "text")
	v.SetDefault("publishers_file", "")
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/pokedex.db")
	v.SetDefault("storage_retention_seconds", int64((30*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.CatalogURL = strings.TrimSpace(cfg.CatalogURL)
	u, err := url.Parse(cfg.CatalogURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid catalog_url %q (must be an absolute URL)", cfg.CatalogURL)
	}

	if cfg.HTTPTimeoutSeconds < 0 {
		return nil, fmt.Errorf("invalid http_timeout_seconds (must be zero or positive seconds)")
	}
	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second

	if cfg.StorageRetentionSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_retention_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageRetention = time.Duration(cfg.StorageRetentionSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	return &cfg, nil
}
