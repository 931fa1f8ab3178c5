// Package config loads linkvote settings.
//
// Sources, lowest to highest precedence:
//  1. built-in defaults
//  2. the YAML file ($LINKVOTE_CONFIG, the -config flag or ./linkvote.yaml)
//  3. environment variables, including any set by a .env file
//  4. command-line flags (applied by the caller)
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvConfigPath  = "LINKVOTE_CONFIG"
	ConfigFileName = "linkvote.yaml"
	DotEnvFileName = ".env"
)

// Supported persistence providers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverGorm     = "gorm"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Security SecurityConfig `yaml:"security"`
	Log      LogConfig      `yaml:"log"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	// DSN is a file path for sqlite and a connection URL for postgres and gorm.
	DSN string `yaml:"dsn"`
}

type SecurityConfig struct {
	BcryptCost int `yaml:"bcrypt_cost"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// DefaultConfig returns the settings used when nothing else is configured.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{Driver: DriverSQLite, DSN: "linkvote.db"},
		Security: SecurityConfig{BcryptCost: 12},
		Log:      LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads .env, then the YAML file at path (or the discovered default),
// then environment overrides. It returns the path actually read, which is
// empty when no file was found.
func Load(path string) (*Config, string, error) {
	if err := godotenv.Load(DotEnvFileName); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, "", fmt.Errorf("load %s: %w", DotEnvFileName, err)
	}

	if path == "" {
		path = FindConfigPath()
	}

	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, path, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, path, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, path, err
	}
	cfg.applyDefaults()

	return cfg, path, nil
}

// FindConfigPath returns $LINKVOTE_CONFIG or ./linkvote.yaml if either
// exists, otherwise "".
func FindConfigPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" && fileExists(path) {
		return path
	}
	if fileExists(ConfigFileName) {
		return ConfigFileName
	}
	return ""
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("LINKVOTE_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv("LINKVOTE_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid BCRYPT_COST: %w", err)
		}
		c.Security.BcryptCost = parsed
	}
	if v := os.Getenv("LINKVOTE_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("LINKVOTE_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	return nil
}

// applyDefaults fills in values a partial YAML file left empty.
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Database.Driver == "" {
		c.Database.Driver = def.Database.Driver
	}
	if c.Database.DSN == "" && c.Database.Driver == DriverSQLite {
		c.Database.DSN = def.Database.DSN
	}
	if c.Security.BcryptCost == 0 {
		c.Security.BcryptCost = def.Security.BcryptCost
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = def.Log.Format
	}
}

// Validate checks the settings that cannot be fixed by defaults.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres, DriverGorm:
	default:
		return fmt.Errorf("unknown database driver %q (want sqlite, postgres or gorm)", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database dsn is required for driver %s", c.Database.Driver)
	}
	if c.Security.BcryptCost < 4 || c.Security.BcryptCost > 14 {
		return fmt.Errorf("bcrypt cost must be between 4 and 14, got %d", c.Security.BcryptCost)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// SlogLevel parses Log.Level ("debug", "info", "warn", "error").
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}
	return level, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
