package main

import (
	"context"
	"flag"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"bookstore/db"
	"bookstore/internal/config"
	"bookstore/internal/logging"
	"bookstore/internal/platform/postgres"
)

// gooseLogger routes goose output through zap.
type gooseLogger struct {
	*zap.SugaredLogger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.Infof(strings.TrimSuffix(format, "\n"), v...)
}

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, version, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	config.LoadEnvFiles()

	logger, flush := logging.New(config.Default(), "migrate")
	defer flush()
	goose.SetLogger(gooseLogger{logger.Sugar()})

	if err := run(*command, *name, logger); err != nil {
		logger.Error("migration failed", zap.String("command", *command), zap.Error(err))
		flush()
		os.Exit(1)
	}
}

func run(command, name string, logger *zap.Logger) error {
	if command == "create" {
		if name == "" {
			return errNameRequired
		}
		goose.SetBaseFS(nil)
		if err := goose.Create(nil, createDir(), name, "sql"); err != nil {
			return err
		}
		logger.Info("migration created", zap.String("name", name))
		return nil
	}

	dsn := databaseDSN()
	ctx := context.Background()
	pool, err := postgres.Open(ctx, dsn, config.Default().Storage.QueryTimeout)
	if err != nil {
		return err
	}
	defer pool.Close()

	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()

	dir, embedded := migrationsDir()
	if embedded {
		goose.SetBaseFS(db.Migrations)
	} else {
		goose.SetBaseFS(nil)
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	logger.Info("running migrations",
		zap.String("command", command),
		zap.String("dir", dir),
		zap.Bool("embedded", embedded),
		zap.String("dsn", postgres.RedactDSN(dsn)))

	switch command {
	case "up":
		err = goose.UpContext(ctx, sqlDB, dir)
	case "down":
		err = goose.DownContext(ctx, sqlDB, dir)
	case "status":
		err = goose.StatusContext(ctx, sqlDB, dir)
	case "version":
		err = goose.VersionContext(ctx, sqlDB, dir)
	default:
		return &unknownCommandError{command: command}
	}
	if err != nil {
		return err
	}
	logger.Info("migrations done", zap.String("command", command))
	return nil
}
