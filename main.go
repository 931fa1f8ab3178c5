package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/msomdec/linkvote/internal/cli"
	"github.com/msomdec/linkvote/internal/config"
	"github.com/msomdec/linkvote/internal/domain"
	"github.com/msomdec/linkvote/internal/repository/gormdb"
	"github.com/msomdec/linkvote/internal/repository/postgres"
	"github.com/msomdec/linkvote/internal/repository/sqlite"
	"github.com/msomdec/linkvote/internal/service"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, rest, err := cli.ParseOptions(args, stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			cli.WriteError(stderr, err)
		}
		return cli.ExitCode(err)
	}

	cfg, cfgPath, err := config.Load(opts.ConfigPath)
	if err != nil {
		fmt.Fprintf(stderr, "load config: %v\n", err)
		return cli.ExitFailure
	}
	if opts.Driver != "" {
		cfg.Database.Driver = opts.Driver
	}
	if opts.DSN != "" {
		cfg.Database.DSN = opts.DSN
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "invalid config: %v\n", err)
		return cli.ExitUsage
	}

	level, _ := cfg.SlogLevel()
	logOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(stderr, logOpts)
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(stderr, logOpts)
	}
	logger := slog.New(handler).With("run_id", uuid.NewString())
	slog.SetDefault(logger)
	if cfgPath != "" {
		slog.Debug("config loaded", "path", cfgPath)
	}

	// Cancel in-flight work on SIGINT/SIGTERM; open transactions roll back.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openProvider(cfg.Database)
	if err != nil {
		slog.Error("failed to open database", "driver", cfg.Database.Driver, "error", err)
		return cli.ExitFailure
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		slog.Error("failed to run migrations", "driver", cfg.Database.Driver, "error", err)
		return cli.ExitFailure
	}
	slog.Debug("database migrations applied", "driver", cfg.Database.Driver)

	app := &cli.App{
		Users:    service.NewUserService(db.Users(), cfg.Security.BcryptCost),
		Contents: service.NewContentService(db.Contents()),
		Votes:    service.NewVoteService(db.Votes()),
		Stdout:   stdout,
		Stderr:   stderr,
	}

	if err := app.Run(ctx, rest); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			slog.Debug("command failed", "command", rest[0], "error", err)
			cli.WriteError(stderr, err)
		}
		return cli.ExitCode(err)
	}
	return cli.ExitOK
}

func openProvider(cfg config.DatabaseConfig) (domain.Provider, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return sqlite.New(cfg.DSN)
	case config.DriverPostgres:
		return postgres.New(cfg.DSN)
	case config.DriverGorm:
		return gormdb.New(cfg.DSN)
	}
	return nil, fmt.Errorf("unknown driver %q", cfg.Driver)
}
