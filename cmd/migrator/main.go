package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/kurochkinivan/bulk_uploader/migrations"
	"github.com/urfave/cli/v3"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := cmd(log).Run(ctx, os.Args); err != nil {
		log.ErrorContext(ctx, "failed to apply migrations", slog.String("err", err.Error()))
		stop()
		os.Exit(1)
	}
}

func cmd(log *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "migrator",
		Usage: "Apply bulk_uploader database migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Value: "127.0.0.1", Usage: "database host", Sources: cli.EnvVars("PG_HOST")},
			&cli.StringFlag{Name: "port", Value: "5432", Usage: "database port", Sources: cli.EnvVars("PG_PORT")},
			&cli.StringFlag{Name: "username", Required: true, Usage: "database username", Sources: cli.EnvVars("PG_USERNAME")},
			&cli.StringFlag{Name: "password", Required: true, Usage: "database password", Sources: cli.EnvVars("PG_PASSWORD")},
			&cli.StringFlag{Name: "db", Value: "bulk_uploader", Usage: "database name", Sources: cli.EnvVars("PG_DBNAME")},
		},
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "Apply all pending migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withMigrator(cmd, func(m *migrate.Migrate) error {
						return report(ctx, log, "up", m.Up())
					})
				},
			},
			{
				Name:  "down",
				Usage: "Roll back migrations",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "steps", Value: 1, Usage: "number of migrations to roll back, 0 for all"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withMigrator(cmd, func(m *migrate.Migrate) error {
						if steps := cmd.Int("steps"); steps > 0 {
							return report(ctx, log, "down", m.Steps(-steps))
						}
						return report(ctx, log, "down", m.Down())
					})
				},
			},
			{
				Name:  "version",
				Usage: "Print the current schema version",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withMigrator(cmd, func(m *migrate.Migrate) error {
						version, dirty, err := m.Version()
						if errors.Is(err, migrate.ErrNilVersion) {
							log.InfoContext(ctx, "no migrations applied")
							return nil
						}
						if err != nil {
							return fmt.Errorf("failed to read version: %w", err)
						}

						log.InfoContext(ctx, "schema version", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
						return nil
					})
				},
			},
		},
	}
}

func withMigrator(cmd *cli.Command, fn func(m *migrate.Migrate) error) (err error) {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to create migrations source: %w", err)
	}

	migrator, err := migrate.NewWithSourceInstance("iofs", src, databaseURL(cmd))
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer func() {
		srcErr, dbErr := migrator.Close()
		err = errors.Join(err, srcErr, dbErr)
	}()

	return fn(migrator)
}

func report(ctx context.Context, log *slog.Logger, direction string, err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		log.InfoContext(ctx, "no migrations to apply")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to migrate %s: %w", direction, err)
	}

	log.InfoContext(ctx, "migrations applied successfully", slog.String("type", direction))

	return nil
}

func databaseURL(cmd *cli.Command) string {
	return (&url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cmd.String("username"), cmd.String("password")),
		Host:     net.JoinHostPort(cmd.String("host"), cmd.String("port")),
		Path:     cmd.String("db"),
		RawQuery: "sslmode=disable",
	}).String()
}
