package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/kurochkinivan/bulk_uploader/internal/domain"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultBatchSize        = 1000
	DefaultFlushConcurrency = 16
)

// BatchProgress is reported after every flush. Counters are cumulative,
// Errors holds only the rows that failed in that flush.
type BatchProgress struct {
	Processed int
	Success   int
	Failed    int
	Errors    []domain.RowError
}

type BatchFunc func(ctx context.Context, progress BatchProgress) error

type FlushResult struct {
	Inserted int
	Failed   int
	Errors   []domain.RowError
}

type BatchProcessor struct {
	log         *slog.Logger
	source      RowSource
	records     RecordSaver
	broadcaster Broadcaster
	batchSize   int
	concurrency int
}

func NewBatchProcessor(
	log *slog.Logger,
	source RowSource,
	records RecordSaver,
	broadcaster Broadcaster,
	batchSize int,
	concurrency int,
) *BatchProcessor {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if concurrency <= 0 {
		concurrency = DefaultFlushConcurrency
	}

	return &BatchProcessor{
		log:         log,
		source:      source,
		records:     records,
		broadcaster: broadcaster,
		batchSize:   batchSize,
		concurrency: concurrency,
	}
}

// Process streams the file into the record store batch by batch. Batches are
// flushed strictly one after another; onBatch runs after each flush.
// The staged file is removed once the stream is exhausted.
func (p *BatchProcessor) Process(
	ctx context.Context,
	sourcePath string,
	job *domain.IngestionJob,
	total int,
	onBatch BatchFunc,
) (*domain.Summary, error) {
	log := p.log.With(slog.String("job_id", job.ID))
	progress := newProgressReporter(p.broadcaster, job, total)

	var (
		state  BatchProgress
		errs   = []domain.RowError{}
		buffer = make([]*domain.Row, 0, p.batchSize)
	)

	flush := func(final bool) error {
		startRow := buffer[0].Number
		result := p.Flush(ctx, job.ID, buffer)
		buffer = buffer[:0]

		state.Processed += result.Inserted + result.Failed
		state.Success += result.Inserted
		state.Failed += result.Failed
		state.Errors = result.Errors
		errs = append(errs, result.Errors...)

		log.DebugContext(ctx, "batch flushed",
			slog.Int("start_row", startRow),
			slog.Int("inserted", result.Inserted),
			slog.Int("failed", result.Failed),
		)
		publish(ctx, p.broadcaster, job, domain.EventLog,
			fmt.Sprintf("Batch @%d: +%d, failed %d", startRow, result.Inserted, result.Failed))

		if err := onBatch(ctx, state); err != nil {
			return fmt.Errorf("failed to persist batch progress: %w", err)
		}

		if !final {
			progress.report(ctx, state.Processed)
		}

		return nil
	}

	for row, err := range p.source.Rows(ctx, sourcePath) {
		if err != nil {
			return nil, fmt.Errorf("failed to read source: %w", err)
		}

		buffer = append(buffer, row)

		if len(buffer) >= p.batchSize {
			if err := flush(false); err != nil {
				return nil, err
			}
		}
	}

	if len(buffer) > 0 {
		if err := flush(true); err != nil {
			return nil, err
		}
	}

	progress.complete(ctx)
	publish(ctx, p.broadcaster, job, domain.EventLog, "Done processing")

	if state.Processed != total {
		log.WarnContext(ctx, "row count changed between passes",
			slog.Int("counted", total),
			slog.Int("processed", state.Processed),
		)
	}

	if err := os.Remove(sourcePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.WarnContext(ctx, "failed to delete source file", slog.String("err", err.Error()))
	} else {
		publish(ctx, p.broadcaster, job, domain.EventLog, "File deleted")
	}

	return &domain.Summary{
		Total:   state.Processed,
		Success: state.Processed - state.Failed,
		Failed:  state.Failed,
		Errors:  errs,
	}, nil
}

// Flush writes every row independently. A row whose write fails is stored
// again as a failed record so that failures stay queryable.
func (p *BatchProcessor) Flush(ctx context.Context, jobID string, rows []*domain.Row) FlushResult {
	outcomes := make([]error, len(rows))

	var g errgroup.Group
	g.SetLimit(p.concurrency)

	for i, row := range rows {
		g.Go(func() error {
			outcomes[i] = p.writeRow(ctx, jobID, row)
			return nil
		})
	}
	_ = g.Wait()

	result := FlushResult{Errors: []domain.RowError{}}
	for i, err := range outcomes {
		if err == nil {
			result.Inserted++
			continue
		}

		result.Failed++
		result.Errors = append(result.Errors, domain.RowError{
			Row:     rows[i].Number,
			Message: err.Error(),
		})
	}

	return result
}

func (p *BatchProcessor) writeRow(ctx context.Context, jobID string, row *domain.Row) error {
	record := &domain.Record{
		JobID:     jobID,
		RowNumber: row.Number,
		Fields:    row.Fields,
		Status:    domain.RecordSuccess,
	}

	err := row.Err
	if err == nil {
		if err = p.records.SaveRecord(ctx, record); err == nil {
			return nil
		}
	}

	record.MarkFailed(err)
	if saveErr := p.records.SaveRecord(ctx, record); saveErr != nil {
		p.log.WarnContext(ctx, "failed to store failed record",
			slog.String("job_id", jobID),
			slog.Int("row", row.Number),
			slog.String("err", saveErr.Error()),
		)
	}

	return err
}

// progressReporter keeps broadcast percentages non-decreasing.
type progressReporter struct {
	broadcaster Broadcaster
	job         *domain.IngestionJob
	total       int
	last        int
}

func newProgressReporter(broadcaster Broadcaster, job *domain.IngestionJob, total int) *progressReporter {
	return &progressReporter{
		broadcaster: broadcaster,
		job:         job,
		total:       total,
	}
}

func (r *progressReporter) report(ctx context.Context, processed int) {
	r.last = max(r.last, Percent(processed, r.total))
	r.publish(ctx)
}

func (r *progressReporter) complete(ctx context.Context) {
	r.last = 100
	r.publish(ctx)
}

func (r *progressReporter) publish(ctx context.Context) {
	publish(ctx, r.broadcaster, r.job, domain.EventProgress, domain.ProgressPayload{
		ProcessID: r.job.ID,
		Percent:   r.last,
	})
}

// Percent is round(processed/total*100) clamped to [0, 100].
func Percent(processed, total int) int {
	if total <= 0 {
		return 100
	}

	p := int(math.Round(float64(processed) / float64(total) * 100))

	return min(max(p, 0), 100)
}

func publish(ctx context.Context, b Broadcaster, job *domain.IngestionJob, name domain.EventName, payload any) {
	b.Publish(ctx, job.Owner, domain.Event{
		Name:    name,
		JobID:   job.ID,
		Payload: payload,
	})
}
