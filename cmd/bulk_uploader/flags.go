package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/kurochkinivan/bulk_uploader/internal/app"
	"github.com/kurochkinivan/bulk_uploader/internal/config"
	altsrc "github.com/urfave/cli-altsrc/v3"
	"github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"
)

var version = "dev"

func cmd() *cli.Command {
	var closeLog func() error

	return &cli.Command{
		Name:    "bulk_uploader",
		Usage:   "Bulk CSV ingestion service",
		Version: version,
		Flags:   flags(),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			log, closer, err := config.NewLogger(os.Stdout, config.Logging{
				Level: cmd.String("log-level"),
				File:  cmd.String("log-file"),
			})
			if err != nil {
				return ctx, fmt.Errorf("failed to create logger: %w", err)
			}
			closeLog = closer

			return context.WithValue(ctx, loggerKey{}, log), nil
		},
		After: func(ctx context.Context, cmd *cli.Command) error {
			if closeLog == nil {
				return nil
			}
			return closeLog()
		},
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Accept uploads and serve the jobs API",
				Action: run(func(ctx context.Context, a *app.App) error {
					return a.RunServer(ctx)
				}),
			},
			{
				Name:  "worker",
				Usage: "Process queued uploads",
				Action: run(func(ctx context.Context, a *app.App) error {
					return a.RunWorker(ctx)
				}),
			},
		},
	}
}

func run(fn func(ctx context.Context, a *app.App) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		log, ok := ctx.Value(loggerKey{}).(*slog.Logger)
		if !ok {
			return errors.New("failed to get logger from context")
		}

		cfg := config.Load(cmd)

		return fn(ctx, app.New(log, cfg))
	}
}

func flags() []cli.Flag {
	var config string

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "worker"
	}

	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Validator:   validateConfig,
			Usage:       "Load configuration from `FILE`",
			Destination: &config,
		},
		&cli.StringFlag{
			Name:    "upload-dir",
			Aliases: []string{"u"},
			Usage:   "Set directory uploads are staged in",
			Value:   "uploads",
			Sources: cli.NewValueSourceChain(yaml.YAML("app.upload_dir", altsrc.NewStringPtrSourcer(&config))),
		},
		&cli.IntFlag{
			Name:      "batch-size",
			Usage:     "Set number of rows flushed together",
			Value:     1000,
			Sources:   cli.NewValueSourceChain(yaml.YAML("app.batch_size", altsrc.NewStringPtrSourcer(&config))),
			Validator: validatePositive,
		},
		&cli.IntFlag{
			Name:      "flush-concurrency",
			Usage:     "Set number of concurrent inserts per batch",
			Value:     10,
			Sources:   cli.NewValueSourceChain(yaml.YAML("app.flush_concurrency", altsrc.NewStringPtrSourcer(&config))),
			Validator: validatePositive,
		},
		&cli.DurationFlag{
			Name:    "poll-interval",
			Usage:   "Set how often an idle worker polls the queue",
			Value:   time.Second,
			Sources: cli.NewValueSourceChain(yaml.YAML("app.poll_interval", altsrc.NewStringPtrSourcer(&config))),
		},
		&cli.DurationFlag{
			Name:    "reclaim-interval",
			Usage:   "Set how often deliveries of dead workers are reclaimed",
			Value:   10 * time.Second,
			Sources: cli.NewValueSourceChain(yaml.YAML("app.reclaim_interval", altsrc.NewStringPtrSourcer(&config))),
		},
		&cli.IntFlag{
			Name:      "worker-concurrency",
			Usage:     "Set number of jobs a worker runs at once",
			Value:     1,
			Sources:   cli.NewValueSourceChain(yaml.YAML("app.worker_concurrency", altsrc.NewStringPtrSourcer(&config))),
			Validator: validatePositive,
		},
		&cli.StringFlag{
			Name:    "consumer-id",
			Usage:   "Set queue consumer identity, unique per worker",
			Value:   hostname,
			Sources: cli.NewValueSourceChain(yaml.YAML("app.consumer_id", altsrc.NewStringPtrSourcer(&config))),
		},
		&cli.StringFlag{
			Name:    "frontend-url",
			Usage:   "Set base URL used in summary e-mail links",
			Value:   "http://localhost:3000",
			Sources: cli.NewValueSourceChain(yaml.YAML("app.frontend_url", altsrc.NewStringPtrSourcer(&config))),
		},
		&cli.StringFlag{
			Name:     "pg-host",
			Usage:    "Set PostgreSQL host",
			Value:    "localhost",
			Sources:  cli.NewValueSourceChain(yaml.YAML("postgresql.host", altsrc.NewStringPtrSourcer(&config))),
			Required: true,
		},
		&cli.StringFlag{
			Name:     "pg-port",
			Usage:    "Set PostgreSQL port",
			Value:    "5432",
			Sources:  cli.NewValueSourceChain(yaml.YAML("postgresql.port", altsrc.NewStringPtrSourcer(&config))),
			Required: true,
		},
		&cli.StringFlag{
			Name:     "pg-username",
			Usage:    "Set PostgreSQL username",
			Sources:  cli.NewValueSourceChain(yaml.YAML("postgresql.username", altsrc.NewStringPtrSourcer(&config))),
			Required: true,
		},
		&cli.StringFlag{
			Name:     "pg-password",
			Usage:    "Set PostgreSQL password",
			Sources:  cli.NewValueSourceChain(yaml.YAML("postgresql.password", altsrc.NewStringPtrSourcer(&config))),
			Required: true,
		},
		&cli.StringFlag{
			Name:     "pg-dbname",
			Usage:    "Set PostgreSQL database name",
			Value:    "bulk_uploader",
			Sources:  cli.NewValueSourceChain(yaml.YAML("postgresql.dbname", altsrc.NewStringPtrSourcer(&config))),
			Required: true,
		},
		&cli.Int32Flag{
			Name:    "pg-max-conns",
			Usage:   "Set PostgreSQL pool size, 0 keeps the driver default",
			Sources: cli.NewValueSourceChain(yaml.YAML("postgresql.max_conns", altsrc.NewStringPtrSourcer(&config))),
		},
		&cli.StringFlag{
			Name:    "redis-addr",
			Usage:   "Set Redis address",
			Value:   "localhost:6379",
			Sources: cli.NewValueSourceChain(yaml.YAML("redis.addr", altsrc.NewStringPtrSourcer(&config))),
		},
		&cli.StringFlag{
			Name:    "redis-password",
			Usage:   "Set Redis password",
			Sources: cli.NewValueSourceChain(yaml.YAML("redis.password", altsrc.NewStringPtrSourcer(&config))),
		},
		&cli.IntFlag{
			Name:    "redis-db",
			Usage:   "Set Redis database number",
			Sources: cli.NewValueSourceChain(yaml.YAML("redis.db", altsrc.NewStringPtrSourcer(&config))),
		},
		&cli.StringFlag{
			Name:    "redis-namespace",
			Usage:   "Set prefix for queue keys",
			Value:   "bulk_uploader",
			Sources: cli.NewValueSourceChain(yaml.YAML("redis.namespace", altsrc.NewStringPtrSourcer(&config))),
		},
		&cli.DurationFlag{
			Name:    "dedupe-ttl",
			Usage:   "Set how long an enqueued job blocks identical deliveries",
			Value:   24 * time.Hour,
			Sources: cli.NewValueSourceChain(yaml.YAML("redis.dedupe_ttl", altsrc.NewStringPtrSourcer(&config))),
		},
		&cli.DurationFlag{
			Name:    "heartbeat-ttl",
			Usage:   "Set how long a silent worker is considered alive",
			Value:   30 * time.Second,
			Sources: cli.NewValueSourceChain(yaml.YAML("redis.heartbeat_ttl", altsrc.NewStringPtrSourcer(&config))),
		},
		&cli.StringFlag{
			Name:    "http-host",
			Usage:   "Set HTTP server host",
			Value:   "localhost",
			Sources: cli.NewValueSourceChain(yaml.YAML("http.host", altsrc.NewStringPtrSourcer(&config))),
		},
		&cli.StringFlag{
			Name:    "http-port",
			Usage:   "Set HTTP server port",
			Value:   "8080",
			Sources: cli.NewValueSourceChain(yaml.YAML("http.port", altsrc.NewStringPtrSourcer(&config))),
		},
		&cli.DurationFlag{
			Name:    "http-idle-timeout",
			Usage:   "Set HTTP server idle timeout",
			Value:   1 * time.Minute,
			Sources: cli.NewValueSourceChain(yaml.YAML("http.idle_timeout", altsrc.NewStringPtrSourcer(&config))),
		},
		&cli.DurationFlag{
			Name:    "http-read-timeout",
			Usage:   "Set HTTP server read timeout",
			Value:   5 * time.Minute,
			Sources: cli.NewValueSourceChain(yaml.YAML("http.read_timeout", altsrc.NewStringPtrSourcer(&config))),
		},
		&cli.DurationFlag{
			Name:    "http-write-timeout",
			Usage:   "Set HTTP server write timeout",
			Value:   15 * time.Second,
			Sources: cli.NewValueSourceChain(yaml.YAML("http.write_timeout", altsrc.NewStringPtrSourcer(&config))),
		},
		&cli.Int64Flag{
			Name:    "http-max-upload-bytes",
			Usage:   "Set upload size limit in bytes, 0 disables it",
			Value:   512 << 20,
			Sources: cli.NewValueSourceChain(yaml.YAML("http.max_upload_bytes", altsrc.NewStringPtrSourcer(&config))),
		},
		&cli.StringFlag{
			Name:    "smtp-host",
			Usage:   "Set SMTP host, summary e-mails are disabled when empty",
			Sources: cli.NewValueSourceChain(yaml.YAML("smtp.host", altsrc.NewStringPtrSourcer(&config))),
		},
		&cli.IntFlag{
			Name:    "smtp-port",
			Usage:   "Set SMTP port",
			Value:   587,
			Sources: cli.NewValueSourceChain(yaml.YAML("smtp.port", altsrc.NewStringPtrSourcer(&config))),
		},
		&cli.StringFlag{
			Name:    "smtp-username",
			Usage:   "Set SMTP username",
			Sources: cli.NewValueSourceChain(yaml.YAML("smtp.username", altsrc.NewStringPtrSourcer(&config))),
		},
		&cli.StringFlag{
			Name:    "smtp-password",
			Usage:   "Set SMTP password",
			Sources: cli.NewValueSourceChain(yaml.YAML("smtp.password", altsrc.NewStringPtrSourcer(&config))),
		},
		&cli.StringFlag{
			Name:    "smtp-from",
			Usage:   "Set sender address of summary e-mails",
			Value:   "no-reply@localhost",
			Sources: cli.NewValueSourceChain(yaml.YAML("smtp.from", altsrc.NewStringPtrSourcer(&config))),
		},
		&cli.StringFlag{
			Name:      "log-level",
			Usage:     "Set log level (debug, info, warn, error)",
			Value:     "info",
			Sources:   cli.NewValueSourceChain(yaml.YAML("logging.level", altsrc.NewStringPtrSourcer(&config))),
			Validator: validateLogLevel,
		},
		&cli.StringFlag{
			Name:    "log-file",
			Usage:   "Also write JSON logs to `FILE`",
			Sources: cli.NewValueSourceChain(yaml.YAML("logging.file", altsrc.NewStringPtrSourcer(&config))),
		},
	}
}

func validatePositive(n int) error {
	if n <= 0 {
		return fmt.Errorf("must be positive, got %d", n)
	}

	return nil
}

func validateLogLevel(level string) error {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q", level)
	}

	return nil
}

func validateConfig(config string) error {
	info, err := os.Stat(config)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%q does not exist", config)
		}
		return fmt.Errorf("failed to stat %q: %w", config, err)
	}

	if info.IsDir() {
		return fmt.Errorf("%q is a directory, not a file", config)
	}

	ext := filepath.Ext(info.Name())
	if ext != ".yml" && ext != ".yaml" {
		return fmt.Errorf("invalid extension %q", config)
	}

	return nil
}
