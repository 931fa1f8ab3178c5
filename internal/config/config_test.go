package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/msomdec/linkvote/internal/config"
)

// chdir moves into a fresh directory so no stray linkvote.yaml or .env is read.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for _, key := range []string{"LINKVOTE_CONFIG", "LINKVOTE_DRIVER", "LINKVOTE_DSN", "BCRYPT_COST", "LINKVOTE_LOG_LEVEL", "LINKVOTE_LOG_FORMAT"} {
		t.Setenv(key, "")
	}
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t)

	cfg, path, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if path != "" {
		t.Fatalf("expected no config path, got %q", path)
	}
	if cfg.Database.Driver != config.DriverSQLite || cfg.Database.DSN != "linkvote.db" {
		t.Fatalf("unexpected database defaults %+v", cfg.Database)
	}
	if cfg.Security.BcryptCost != 12 {
		t.Fatalf("expected bcrypt cost 12, got %d", cfg.Security.BcryptCost)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := chdir(t)
	path := filepath.Join(dir, "custom.yaml")
	writeFile(t, path, `
database:
  driver: postgres
  dsn: postgres://localhost/linkvote
security:
  bcrypt_cost: 10
log:
  level: debug
  format: json
`)

	cfg, got, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != path {
		t.Fatalf("expected path %q, got %q", path, got)
	}
	if cfg.Database.Driver != config.DriverPostgres || cfg.Database.DSN != "postgres://localhost/linkvote" {
		t.Fatalf("unexpected database config %+v", cfg.Database)
	}
	if cfg.Security.BcryptCost != 10 {
		t.Fatalf("expected bcrypt cost 10, got %d", cfg.Security.BcryptCost)
	}
	level, err := cfg.SlogLevel()
	if err != nil || level != slog.LevelDebug {
		t.Fatalf("expected debug level, got %v (%v)", level, err)
	}
}

func TestLoad_DiscoversWorkingDirectoryFile(t *testing.T) {
	chdir(t)
	writeFile(t, config.ConfigFileName, "log:\n  level: warn\n")

	cfg, path, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if path != config.ConfigFileName {
		t.Fatalf("expected %q, got %q", config.ConfigFileName, path)
	}
	if cfg.Log.Level != "warn" {
		t.Fatalf("expected warn, got %q", cfg.Log.Level)
	}
	// Unset sections keep their defaults.
	if cfg.Database.Driver != config.DriverSQLite {
		t.Fatalf("expected default driver, got %q", cfg.Database.Driver)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := chdir(t)
	path := filepath.Join(dir, "c.yaml")
	writeFile(t, path, "database:\n  driver: sqlite\n  dsn: file.db\n")
	t.Setenv("LINKVOTE_DSN", "env.db")
	t.Setenv("BCRYPT_COST", "5")

	cfg, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.DSN != "env.db" {
		t.Fatalf("expected env DSN, got %q", cfg.Database.DSN)
	}
	if cfg.Security.BcryptCost != 5 {
		t.Fatalf("expected bcrypt cost 5, got %d", cfg.Security.BcryptCost)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	chdir(t)
	os.Unsetenv("LINKVOTE_DRIVER")
	t.Cleanup(func() { os.Unsetenv("LINKVOTE_DRIVER") })
	writeFile(t, config.DotEnvFileName, "LINKVOTE_DRIVER=gorm\nLINKVOTE_DSN=postgres://db/linkvote\n")

	cfg, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Driver != config.DriverGorm {
		t.Fatalf("expected driver from .env, got %q", cfg.Database.Driver)
	}
}

func TestLoad_InvalidBcryptCostEnv(t *testing.T) {
	chdir(t)
	t.Setenv("BCRYPT_COST", "lots")

	if _, _, err := config.Load(""); err == nil {
		t.Fatal("expected error for non-numeric BCRYPT_COST")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*config.Config)
	}{
		{"unknown driver", func(c *config.Config) { c.Database.Driver = "mysql" }},
		{"missing dsn", func(c *config.Config) { c.Database.DSN = "" }},
		{"cost too low", func(c *config.Config) { c.Security.BcryptCost = 3 }},
		{"cost too high", func(c *config.Config) { c.Security.BcryptCost = 15 }},
		{"bad level", func(c *config.Config) { c.Log.Level = "loud" }},
		{"bad format", func(c *config.Config) { c.Log.Format = "xml" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tc.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
