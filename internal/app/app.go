package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-redis/redis"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kurochkinivan/bulk_uploader/internal/broadcast"
	"github.com/kurochkinivan/bulk_uploader/internal/config"
	v1 "github.com/kurochkinivan/bulk_uploader/internal/controller/http/v1"
	"github.com/kurochkinivan/bulk_uploader/internal/csvstream"
	"github.com/kurochkinivan/bulk_uploader/internal/domain"
	"github.com/kurochkinivan/bulk_uploader/internal/infrastructure/mailer"
	"github.com/kurochkinivan/bulk_uploader/internal/infrastructure/report_generator"
	"github.com/kurochkinivan/bulk_uploader/internal/pipeline"
	"github.com/kurochkinivan/bulk_uploader/internal/queue/redisqueue"
	"github.com/kurochkinivan/bulk_uploader/internal/repository/postgresql"
	"golang.org/x/sync/errgroup"
)

const (
	hubBuffer       = 64
	shutdownTimeout = 5 * time.Second
)

type App struct {
	log *slog.Logger
	cfg *config.Config
}

func New(log *slog.Logger, cfg *config.Config) *App {
	return &App{
		log: log,
		cfg: cfg,
	}
}

// RunServer accepts uploads, serves the query API and relays events to
// websocket subscribers.
func (a *App) RunServer(ctx context.Context) error {
	a.log.InfoContext(ctx, "starting server",
		slog.String("upload_dir", a.cfg.App.UploadDirectory),
		slog.Int64("max_upload_bytes", a.cfg.HTTP.MaxUploadBytes),
	)

	if err := ensureDirectory(a.cfg.App.UploadDirectory); err != nil {
		return err
	}

	pool, db, err := a.connect(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()
	defer db.Close()

	jobsRepository := postgresql.NewJobsRepository(pool)
	recordsRepository := postgresql.NewRecordsRepository(pool)
	txManager := postgresql.NewTxManager(pool)

	queue := redisqueue.New(db, a.queueOptions())

	hub := broadcast.NewHub(a.log, hubBuffer)
	relay := broadcast.NewRelay(a.log, db, broadcast.DefaultChannel, hub)
	publisher := broadcast.NewRedisPublisher(a.log, db, broadcast.DefaultChannel)

	enqueuer := pipeline.NewEnqueuer(a.log, jobsRepository, queue)

	server := v1.NewServer(a.cfg.HTTP, v1.Handlers{
		Uploads:       v1.NewUploadsHandler(a.log, a.cfg.App.UploadDirectory, a.cfg.HTTP.MaxUploadBytes, enqueuer),
		Jobs:          v1.NewJobsHandler(a.log, jobsRepository, recordsRepository, txManager, publisher),
		Subscriptions: v1.NewSubscriptionsHandler(a.log, hub),
	})

	erg, ctx := errgroup.WithContext(ctx)

	erg.Go(func() error {
		a.log.InfoContext(ctx, "event relay started", slog.String("channel", broadcast.DefaultChannel))
		return relay.Run(ctx)
	})

	erg.Go(func() error {
		a.log.InfoContext(ctx, "starting http server",
			slog.String("addr", net.JoinHostPort(a.cfg.HTTP.Host, a.cfg.HTTP.Port)),
		)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server error: %w", err)
		}

		return nil
	})

	erg.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	a.log.InfoContext(ctx, "all server components started")

	return a.wait(ctx, erg, "server")
}

// RunWorker consumes queued jobs until ctx is canceled.
func (a *App) RunWorker(ctx context.Context) error {
	a.log.InfoContext(ctx, "starting worker",
		slog.String("consumer_id", a.cfg.App.ConsumerID),
		slog.Int("batch_size", a.cfg.App.BatchSize),
		slog.Int("flush_concurrency", a.cfg.App.FlushConcurrency),
		slog.Int("concurrency", a.cfg.App.WorkerConcurrency),
	)

	pool, db, err := a.connect(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()
	defer db.Close()

	jobsRepository := postgresql.NewJobsRepository(pool)
	recordsRepository := postgresql.NewRecordsRepository(pool)

	if err := a.reportInterrupted(ctx, jobsRepository); err != nil {
		return err
	}

	notifier, err := a.notifier()
	if err != nil {
		return err
	}

	queue := redisqueue.New(db, a.queueOptions())
	if pending, err := queue.Pending(ctx); err == nil {
		a.log.InfoContext(ctx, "queue inspected", slog.Int64("pending", pending))
	}

	heartbeatTTL := a.cfg.Redis.HeartbeatTTL
	if heartbeatTTL <= 0 {
		heartbeatTTL = redisqueue.DefaultHeartbeatTTL
	}

	publisher := broadcast.NewRedisPublisher(a.log, db, broadcast.DefaultChannel)
	source := csvstream.NewReader(a.log, ',')

	processor := pipeline.NewBatchProcessor(
		a.log,
		source,
		recordsRepository,
		publisher,
		a.cfg.App.BatchSize,
		a.cfg.App.FlushConcurrency,
	)
	coordinator := pipeline.NewCoordinator(a.log, jobsRepository, source, processor, publisher, notifier)
	worker := pipeline.NewWorker(
		a.log,
		queue,
		coordinator,
		a.cfg.App.PollInterval,
		a.cfg.App.ReclaimInterval,
		pipeline.HeartbeatInterval(heartbeatTTL),
		a.cfg.App.WorkerConcurrency,
	)

	erg, ctx := errgroup.WithContext(ctx)

	erg.Go(func() error {
		a.log.InfoContext(ctx, "worker started")
		return worker.Run(ctx)
	})

	return a.wait(ctx, erg, "worker")
}

func (a *App) connect(ctx context.Context) (*pgxpool.Pool, *redis.Client, error) {
	a.log.InfoContext(ctx, "establishing postgresql connection",
		slog.String("postgresql_host", a.cfg.PostgreSQL.Host),
		slog.String("postgresql_port", a.cfg.PostgreSQL.Port),
		slog.String("postgresql_dbname", a.cfg.PostgreSQL.DBName),
	)

	pool, err := postgresql.NewConnection(ctx, a.log, a.cfg.PostgreSQL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create db connection: %w", err)
	}

	a.log.InfoContext(ctx, "establishing redis connection", slog.String("redis_addr", a.cfg.Redis.Addr))

	db, err := redisqueue.NewClient(ctx, a.log, a.cfg.Redis)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to create redis connection: %w", err)
	}

	return pool, db, nil
}

func (a *App) queueOptions() redisqueue.Options {
	return redisqueue.Options{
		Namespace:    a.cfg.Redis.Namespace,
		ConsumerID:   a.cfg.App.ConsumerID,
		DedupeTTL:    a.cfg.Redis.DedupeTTL,
		HeartbeatTTL: a.cfg.Redis.HeartbeatTTL,
	}
}

func (a *App) notifier() (pipeline.Notifier, error) {
	if !a.cfg.SMTP.Enabled() {
		a.log.Warn("smtp is not configured, summary e-mails are disabled")
		return mailer.Discard{Log: a.log}, nil
	}

	client, err := mailer.NewClient(a.cfg.SMTP)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	return mailer.New(a.log, client, report_generator.New(), a.cfg.SMTP.From, a.cfg.App.FrontendURL), nil
}

// reportInterrupted logs jobs a crashed worker left in processing. Their
// deliveries are still in the queue and get requeued by Recover or Reclaim.
func (a *App) reportInterrupted(ctx context.Context, jobs *postgresql.JobsRepository) error {
	interrupted, err := jobs.JobsByStatus(ctx, domain.StatusProcessing)
	if err != nil {
		return fmt.Errorf("failed to list processing jobs: %w", err)
	}

	for _, job := range interrupted {
		a.log.WarnContext(ctx, "job was interrupted and will be redelivered",
			slog.String("job_id", job.ID),
			slog.String("owner", job.Owner),
			slog.Int("processed", job.Processed),
		)
	}

	return nil
}

func (a *App) wait(ctx context.Context, erg *errgroup.Group, name string) error {
	if err := erg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		a.log.ErrorContext(ctx, name+" stopped with error", slog.String("err", err.Error()))

		return err
	}

	a.log.InfoContext(ctx, name+" stopped gracefully")

	return nil
}

func ensureDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %q: %w", dir, err)
	}

	return nil
}
