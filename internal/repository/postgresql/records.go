package postgresql

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kurochkinivan/bulk_uploader/internal/domain"
)

const TableRecords = "records"

type RecordsRepository struct {
	pool *pgxpool.Pool
	qb   sq.StatementBuilderType
}

func NewRecordsRepository(pool *pgxpool.Pool) *RecordsRepository {
	return &RecordsRepository{
		pool: pool,
		qb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// SaveRecord inserts the record and fills in its id and creation time.
func (r *RecordsRepository) SaveRecord(ctx context.Context, record *domain.Record) error {
	db := extractDB(ctx, r.pool)

	var payload any
	if record.Fields != nil {
		b, err := record.Fields.MarshalJSON()
		if err != nil {
			return buildArgsError(err)
		}
		payload = string(b)
	}

	sql, args, err := r.qb.
		Insert(TableRecords).
		Columns(
			"job_id",
			"row_number",
			"payload",
			"status",
			"error",
		).
		Values(
			record.JobID,
			record.RowNumber,
			sq.Expr("?::json", payload),
			record.Status,
			record.Error,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return createQueryError(err)
	}

	if err := db.QueryRow(ctx, sql, args...).Scan(&record.ID, &record.CreatedAt); err != nil {
		return scanRowError(err)
	}

	return nil
}

func (r *RecordsRepository) CountRecords(ctx context.Context, jobID string) (int, error) {
	db := extractDB(ctx, r.pool)

	sql, args, err := r.qb.
		Select("COUNT(*)").
		From(TableRecords).
		Where(sq.Eq{"job_id": jobID}).
		ToSql()
	if err != nil {
		return -1, createQueryError(err)
	}

	var total int
	if err := db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return -1, scanRowError(err)
	}

	return total, nil
}

func (r *RecordsRepository) RecordsByJob(ctx context.Context, jobID string, skip, limit uint64) ([]*domain.Record, error) {
	db := extractDB(ctx, r.pool)

	sql, args, err := r.qb.
		Select(
			"id",
			"job_id",
			"row_number",
			"payload",
			"status",
			"error",
			"created_at",
		).
		From(TableRecords).
		Where(sq.Eq{"job_id": jobID}).
		OrderBy("row_number ASC", "id ASC").
		Limit(limit).
		Offset(skip).
		ToSql()
	if err != nil {
		return nil, createQueryError(err)
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, executeQueryError(err)
	}

	records, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByNameLax[domain.Record])
	if err != nil {
		return nil, collectRowsError(err)
	}

	return records, nil
}
