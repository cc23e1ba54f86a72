package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Driver identifies the remote table implementation
type Driver string

const (
	DriverREST     Driver = "rest"
	DriverPostgres Driver = "postgres"
)

// Config holds all application configuration
type Config struct {
	Backend BackendConfig `mapstructure:"backend"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// BackendConfig holds the remote table configuration
type BackendConfig struct {
	Driver        Driver        `mapstructure:"driver"`          // "rest" or "postgres"
	URL           string        `mapstructure:"url"`             // REST endpoint, e.g. https://xyz.supabase.co
	Key           string        `mapstructure:"key"`             // REST access key
	DSN           string        `mapstructure:"dsn"`             // Postgres connection string
	Table         string        `mapstructure:"table"`           // Table name
	OrderBy       string        `mapstructure:"order_by"`        // "created_at" or "title"
	Ascending     bool          `mapstructure:"ascending"`       // Sort direction
	Limit         int           `mapstructure:"limit"`           // 0 = all rows
	Timeout       time.Duration `mapstructure:"timeout"`         // Per-call timeout
	SeedWhenEmpty bool          `mapstructure:"seed_when_empty"` // Insert sample movies into an empty table
}

// CacheConfig holds local snapshot configuration
type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir"`
}

// ServerConfig holds HTTP API configuration
type ServerConfig struct {
	Addr      string  `mapstructure:"addr"`
	RateLimit float64 `mapstructure:"rate_limit"` // Requests per second per client, 0 disables
	Burst     int     `mapstructure:"burst"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			Driver:  DriverREST,
			Table:   "movies",
			OrderBy: "created_at",
			Timeout: 30 * time.Second,
		},
		Cache: CacheConfig{
			Enabled: false,
			Dir:     defaultCachePath(),
		},
		Server: ServerConfig{
			Addr:      ":4000",
			RateLimit: 2,
			Burst:     4,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "reel", "reel.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "reel", "reel.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "reel")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "reel")
	}
}

// defaultCachePath returns the default cache directory path for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "reel", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "reel", "cache")
	}
}

// fallbackEnv lists environment variables honored for backend credentials
// when the REEL_ prefixed ones are unset.
var fallbackEnv = map[string][]string{
	"backend.url": {"SUPABASE_URL", "VITE_SUPABASE_URL"},
	"backend.key": {"SUPABASE_ANON_KEY", "VITE_SUPABASE_ANON_KEY"},
	"backend.dsn": {"DATABASE_URL"},
}

// LoadConfig loads configuration from file, .env and environment.
// An explicit path overrides the default search locations.
func LoadConfig(path string) (*Config, error) {
	return loadConfig(viper.GetViper(), path)
}

func loadConfig(v *viper.Viper, path string) (*Config, error) {
	// Missing .env is fine
	_ = godotenv.Load()

	cfg := DefaultConfig()
	setDefaults(v, cfg)

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	// Environment variable overrides (REEL_BACKEND_URL, ...)
	v.SetEnvPrefix("REEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range fallbackEnv {
		if err := v.BindEnv(append([]string{key, "REEL_" + envName(key)}, names...)...); err != nil {
			return nil, fmt.Errorf("error binding env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	cfg.Backend.URL = strings.TrimRight(strings.TrimSpace(cfg.Backend.URL), "/")
	cfg.Backend.Key = strings.TrimSpace(cfg.Backend.Key)
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can see it during Unmarshal
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("backend.driver", cfg.Backend.Driver)
	v.SetDefault("backend.url", cfg.Backend.URL)
	v.SetDefault("backend.key", cfg.Backend.Key)
	v.SetDefault("backend.dsn", cfg.Backend.DSN)
	v.SetDefault("backend.table", cfg.Backend.Table)
	v.SetDefault("backend.order_by", cfg.Backend.OrderBy)
	v.SetDefault("backend.ascending", cfg.Backend.Ascending)
	v.SetDefault("backend.limit", cfg.Backend.Limit)
	v.SetDefault("backend.timeout", cfg.Backend.Timeout)
	v.SetDefault("backend.seed_when_empty", cfg.Backend.SeedWhenEmpty)
	v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	v.SetDefault("cache.dir", cfg.Cache.Dir)
	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("server.rate_limit", cfg.Server.RateLimit)
	v.SetDefault("server.burst", cfg.Server.Burst)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
}

func envName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// SaveConfig saves the backend and cache settings to the default config file
func SaveConfig(cfg *Config) error {
	return saveConfig(viper.GetViper(), cfg, filepath.Join(defaultConfigPath(), "config.yaml"))
}

func saveConfig(v *viper.Viper, cfg *Config, configFile string) error {
	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to ensure correct key names (snake_case)
	v.Set("backend.driver", string(cfg.Backend.Driver))
	v.Set("backend.url", cfg.Backend.URL)
	v.Set("backend.key", cfg.Backend.Key)
	v.Set("backend.dsn", cfg.Backend.DSN)
	v.Set("backend.table", cfg.Backend.Table)
	v.Set("backend.order_by", cfg.Backend.OrderBy)
	v.Set("backend.ascending", cfg.Backend.Ascending)
	v.Set("backend.seed_when_empty", cfg.Backend.SeedWhenEmpty)

	v.Set("cache.enabled", cfg.Cache.Enabled)
	v.Set("cache.dir", cfg.Cache.Dir)

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// IsConfigured returns true if the selected driver has what it needs to connect
func (c *Config) IsConfigured() bool {
	switch c.Backend.Driver {
	case DriverPostgres:
		return c.Backend.DSN != ""
	default:
		return c.Backend.URL != "" && c.Backend.Key != ""
	}
}

// CachePath returns the snapshot directory, or "" when the cache is disabled
func (c *Config) CachePath() string {
	if !c.Cache.Enabled {
		return ""
	}
	return c.Cache.Dir
}

// ClearCache removes all cached snapshots
func ClearCache(dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.RemoveAll(dir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}
