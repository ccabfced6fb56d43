// Package config loads runtime configuration from wordsift.yaml in the
// working directory, overridable through WORDSIFT_* environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Store driver names.
const (
	DriverPostgrest = "postgrest"
	DriverSQLite    = "sqlite"
)

// Config holds all application configuration.
type Config struct {
	StoreDriver string `mapstructure:"store_driver"`

	// Hosted database (postgrest driver). Both values are required in that
	// mode; the shared dataset is reached with the anonymous key only.
	DatabaseURL     string `mapstructure:"database_url"`
	DatabaseAnonKey string `mapstructure:"database_anon_key"`

	// Local database (sqlite driver).
	SQLitePath string `mapstructure:"sqlite_path"`

	DictionaryBaseURL string `mapstructure:"dictionary_base_url"`
	StalenessHours    int    `mapstructure:"staleness_hours"`
	BatchDelayMS      int    `mapstructure:"batch_delay_ms"`
	CacheTTLMinutes   int    `mapstructure:"cache_ttl_minutes"`
	Workers           int    `mapstructure:"workers"`
	ListenAddr        string `mapstructure:"listen_addr"`
	LogMode           string `mapstructure:"log_mode"`
}

// Load reads wordsift.yaml (optional) and the environment, then validates.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("wordsift")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Every key needs a registered default so AutomaticEnv folds the
	// corresponding WORDSIFT_* variable into Unmarshal.
	v.SetDefault("store_driver", DriverPostgrest)
	v.SetDefault("database_url", "")
	v.SetDefault("database_anon_key", "")
	v.SetDefault("sqlite_path", "wordsift.db")
	v.SetDefault("dictionary_base_url", "")
	v.SetDefault("staleness_hours", 168)
	v.SetDefault("batch_delay_ms", 350)
	v.SetDefault("cache_ttl_minutes", 30)
	v.SetDefault("workers", 4)
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("log_mode", "dev")

	v.SetEnvPrefix("WORDSIFT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine; env vars and defaults still apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that required fields are present. Missing database
// credentials in postgrest mode are a fatal startup error.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverPostgrest:
		if c.DatabaseURL == "" {
			return fmt.Errorf("database_url is required (WORDSIFT_DATABASE_URL)")
		}
		if c.DatabaseAnonKey == "" {
			return fmt.Errorf("database_anon_key is required (WORDSIFT_DATABASE_ANON_KEY)")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("sqlite_path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown store_driver %q", c.StoreDriver)
	}
	if c.StalenessHours <= 0 {
		return fmt.Errorf("staleness_hours must be positive, got %d", c.StalenessHours)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	return nil
}
