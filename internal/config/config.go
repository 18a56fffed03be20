package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	// Connection profile store
	Profiles ProfilesConfig `yaml:"profiles"`

	// Publication database settings not carried by the connection profile
	Database DatabaseConfig `yaml:"database"`

	// Logging configuration
	Log LogConfig `yaml:"log"`
}

// ProfilesConfig locates the connection profile database
type ProfilesConfig struct {
	Path string `yaml:"path"`
}

// DatabaseConfig holds publication database settings
type DatabaseConfig struct {
	SSLMode        string        `yaml:"sslmode"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	MaxLifetime    time.Duration `yaml:"max_lifetime"`
	MigrationsPath string        `yaml:"migrations_path"`
	AutoMigrate    bool          `yaml:"auto_migrate"`
}

// ConnectionConfig is a resolved connection to the publication database,
// built from the default connection profile.
type ConnectionConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "pretty"
	File   string `yaml:"file"`   // "-" writes to stderr
}

// Default returns the configuration used when neither a file nor the
// environment sets a value.
func Default() *Config {
	return &Config{
		Profiles: ProfilesConfig{
			Path: "database/infoconexao.db",
		},
		Database: DatabaseConfig{
			SSLMode:        "disable",
			ConnectTimeout: 5 * time.Second,
			MaxLifetime:    0,
			MigrationsPath: "./migrations",
			AutoMigrate:    true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
			File:   "publisher.log",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// environment variables, in that order of precedence (last wins).
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("PUBLISHER_CONFIG")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.Profiles.Path = getEnv("PROFILES_DB_PATH", cfg.Profiles.Path)

	cfg.Database.SSLMode = getEnv("DB_SSLMODE", cfg.Database.SSLMode)
	cfg.Database.ConnectTimeout = getDurationEnv("DB_CONNECT_TIMEOUT", cfg.Database.ConnectTimeout)
	cfg.Database.MaxLifetime = getDurationEnv("DB_MAX_LIFETIME", cfg.Database.MaxLifetime)
	cfg.Database.MigrationsPath = getEnv("MIGRATIONS_PATH", cfg.Database.MigrationsPath)
	cfg.Database.AutoMigrate = getBoolEnv("DB_AUTO_MIGRATE", cfg.Database.AutoMigrate)

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)
	cfg.Log.File = getEnv("LOG_FILE", cfg.Log.File)

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Profiles.Path == "" {
		return errors.New("PROFILES_DB_PATH is required")
	}
	if c.Database.ConnectTimeout <= 0 {
		return errors.New("DB_CONNECT_TIMEOUT must be positive")
	}
	if c.Database.AutoMigrate && c.Database.MigrationsPath == "" {
		return errors.New("MIGRATIONS_PATH is required when DB_AUTO_MIGRATE is enabled")
	}
	switch c.Log.Format {
	case "json", "pretty":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or pretty, got %q", c.Log.Format)
	}
	return nil
}

// GetDSN returns the PostgreSQL connection string. Values that are empty or
// contain spaces, quotes or backslashes are single-quoted and escaped.
func (c *ConnectionConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		dsnValue(c.Host), dsnValue(c.Port), dsnValue(c.User),
		dsnValue(c.Password), dsnValue(c.Name), dsnValue(c.SSLMode),
	)
}

func dsnValue(v string) string {
	if v != "" && !strings.ContainsAny(v, " \t\n\r'\\") {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
