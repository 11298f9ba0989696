package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kurochkinivan/bulk_uploader/internal/domain"
)

const TableJobs = "ingestion_jobs"

var jobColumns = []string{
	"id",
	"owner",
	"source_path",
	"fingerprint",
	"total",
	"processed",
	"success",
	"failed",
	"errors",
	"status",
	"created_at",
	"updated_at",
}

type JobsRepository struct {
	pool *pgxpool.Pool
	qb   sq.StatementBuilderType
}

func NewJobsRepository(pool *pgxpool.Pool) *JobsRepository {
	return &JobsRepository{
		pool: pool,
		qb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *JobsRepository) CreateJob(ctx context.Context, job *domain.IngestionJob) error {
	db := extractDB(ctx, r.pool)

	errs, err := encodeErrors(job.Errors)
	if err != nil {
		return buildArgsError(err)
	}

	sql, args, err := r.qb.
		Insert(TableJobs).
		Columns(jobColumns...).
		Values(
			job.ID,
			job.Owner,
			job.SourcePath,
			job.Fingerprint,
			job.Total,
			job.Processed,
			job.Success,
			job.Failed,
			sq.Expr("?::jsonb", errs),
			job.Status,
			job.CreatedAt,
			job.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return createQueryError(err)
	}

	if _, err := db.Exec(ctx, sql, args...); err != nil {
		return executeQueryError(err)
	}

	return nil
}

func (r *JobsRepository) JobByID(ctx context.Context, id string) (*domain.IngestionJob, error) {
	sql, args, err := r.qb.
		Select(jobColumns...).
		From(TableJobs).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, createQueryError(err)
	}

	return r.one(ctx, sql, args)
}

// QueuedJobByFingerprint finds a job of the owner with the same content that
// has not been picked up yet.
func (r *JobsRepository) QueuedJobByFingerprint(ctx context.Context, owner, fingerprint string) (*domain.IngestionJob, error) {
	sql, args, err := r.qb.
		Select(jobColumns...).
		From(TableJobs).
		Where(sq.Eq{
			"owner":       owner,
			"fingerprint": fingerprint,
			"status":      domain.StatusQueued,
		}).
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, createQueryError(err)
	}

	return r.one(ctx, sql, args)
}

func (r *JobsRepository) JobsByOwner(ctx context.Context, owner string) ([]*domain.IngestionJob, error) {
	sql, args, err := r.qb.
		Select(jobColumns...).
		From(TableJobs).
		Where(sq.Eq{"owner": owner}).
		OrderBy("created_at DESC", "id").
		ToSql()
	if err != nil {
		return nil, createQueryError(err)
	}

	return r.many(ctx, sql, args)
}

func (r *JobsRepository) JobsByStatus(ctx context.Context, status domain.JobStatus) ([]*domain.IngestionJob, error) {
	sql, args, err := r.qb.
		Select(jobColumns...).
		From(TableJobs).
		Where(sq.Eq{"status": status}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, createQueryError(err)
	}

	return r.many(ctx, sql, args)
}

// UpdateJob applies the update in a single statement. A status change is
// accepted only from one of the allowed predecessors; an update without a
// status only touches a job that is processing.
func (r *JobsRepository) UpdateJob(ctx context.Context, id string, update domain.JobUpdate) error {
	if update.Status != nil && !update.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidTransition, *update.Status)
	}

	db := extractDB(ctx, r.pool)

	query := r.qb.
		Update(TableJobs).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id})

	if update.Status != nil {
		query = query.
			Set("status", *update.Status).
			Where(sq.Eq{"status": update.Status.AllowedFrom()})
	} else {
		query = query.Where(sq.Eq{"status": domain.StatusProcessing})
	}

	for _, counter := range []struct {
		column string
		value  *int
	}{
		{"total", update.Total},
		{"processed", update.Processed},
		{"success", update.Success},
		{"failed", update.Failed},
	} {
		if counter.value != nil {
			query = query.Set(counter.column, *counter.value)
		}
	}

	errorsExpr, err := errorsUpdate(update)
	if err != nil {
		return buildArgsError(err)
	}
	if errorsExpr != nil {
		query = query.Set("errors", errorsExpr)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return createQueryError(err)
	}

	tag, err := db.Exec(ctx, sql, args...)
	if err != nil {
		return executeQueryError(err)
	}

	if tag.RowsAffected() > 0 {
		return nil
	}

	current, err := r.JobByID(ctx, id)
	if err != nil {
		return err
	}

	if update.Status != nil {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, current.Status, *update.Status)
	}

	return fmt.Errorf("%w: job %s is %s", domain.ErrJobNotRunning, id, current.Status)
}

func errorsUpdate(update domain.JobUpdate) (sq.Sqlizer, error) {
	switch {
	case update.Errors != nil && len(update.AppendErrors) > 0:
		replaced, err := encodeErrors(update.Errors)
		if err != nil {
			return nil, err
		}
		appended, err := encodeErrors(update.AppendErrors)
		if err != nil {
			return nil, err
		}
		return sq.Expr("?::jsonb || ?::jsonb", replaced, appended), nil

	case update.Errors != nil:
		replaced, err := encodeErrors(update.Errors)
		if err != nil {
			return nil, err
		}
		return sq.Expr("?::jsonb", replaced), nil

	case len(update.AppendErrors) > 0:
		appended, err := encodeErrors(update.AppendErrors)
		if err != nil {
			return nil, err
		}
		return sq.Expr("errors || ?::jsonb", appended), nil
	}

	return nil, nil
}

func encodeErrors(errs []domain.RowError) (string, error) {
	if errs == nil {
		errs = []domain.RowError{}
	}

	b, err := json.Marshal(errs)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

func (r *JobsRepository) one(ctx context.Context, sql string, args []any) (*domain.IngestionJob, error) {
	db := extractDB(ctx, r.pool)

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, executeQueryError(err)
	}

	job, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByNameLax[domain.IngestionJob])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, collectRowsError(err)
	}

	return job, nil
}

func (r *JobsRepository) many(ctx context.Context, sql string, args []any) ([]*domain.IngestionJob, error) {
	db := extractDB(ctx, r.pool)

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, executeQueryError(err)
	}

	jobs, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByNameLax[domain.IngestionJob])
	if err != nil {
		return nil, collectRowsError(err)
	}

	return jobs, nil
}
