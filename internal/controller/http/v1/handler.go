package v1

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kurochkinivan/bulk_uploader/internal/domain"
	"github.com/kurochkinivan/bulk_uploader/internal/pipeline"
)

type JobsRepository interface {
	JobByID(ctx context.Context, id string) (*domain.IngestionJob, error)
	UpdateJob(ctx context.Context, id string, update domain.JobUpdate) error
	JobsByOwner(ctx context.Context, owner string) ([]*domain.IngestionJob, error)
}

type RecordsRepository interface {
	RecordsByJob(ctx context.Context, jobID string, skip, limit uint64) ([]*domain.Record, error)
	CountRecords(ctx context.Context, jobID string) (int, error)
}

type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	WithReadOnlyTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Broadcaster interface {
	Publish(ctx context.Context, routingKey string, event domain.Event)
}

type JobsHandler struct {
	log         *slog.Logger
	jobs        JobsRepository
	records     RecordsRepository
	tx          Transactor
	broadcaster Broadcaster
}

func NewJobsHandler(
	log *slog.Logger,
	jobs JobsRepository,
	records RecordsRepository,
	tx Transactor,
	broadcaster Broadcaster,
) *JobsHandler {
	return &JobsHandler{
		log:         log,
		jobs:        jobs,
		records:     records,
		tx:          tx,
		broadcaster: broadcaster,
	}
}

type RecordResponse struct {
	ID        int64               `json:"_id"`
	RowNumber int                 `json:"rowNumber"`
	Status    domain.RecordStatus `json:"status"`
	Error     *string             `json:"error,omitempty"`
	Record    domain.Fields       `json:"record"`
}

type GetRecordsResponse struct {
	FileProcess *domain.IngestionJob `json:"fileProcess"`
	Records     []RecordResponse     `json:"records"`
	Pagination  Pagination           `json:"pagination"`
}

func (h *JobsHandler) GetRecords(w http.ResponseWriter, r *http.Request) {
	id, ok := jobID(w, r)
	if !ok {
		return
	}

	skip, limit, err := parsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var (
		job     *domain.IngestionJob
		records []*domain.Record
		total   int
	)

	err = h.tx.WithReadOnlyTransaction(r.Context(), func(ctx context.Context) error {
		if job, err = h.jobs.JobByID(ctx, id); err != nil {
			return err
		}
		if records, err = h.records.RecordsByJob(ctx, id, skip, limit); err != nil {
			return err
		}
		total, err = h.records.CountRecords(ctx, id)
		return err
	})
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "FileProcess not found")
		return
	}
	if err != nil {
		internalError(w, r, h.log, "failed to load records", err)
		return
	}

	resp := GetRecordsResponse{
		FileProcess: job,
		Records:     make([]RecordResponse, 0, len(records)),
		Pagination: Pagination{
			Skip:  skip,
			Limit: limit,
			Total: total,
		},
	}
	for _, rec := range records {
		resp.Records = append(resp.Records, RecordResponse{
			ID:        rec.ID,
			RowNumber: rec.RowNumber,
			Status:    rec.Status,
			Error:     rec.Error,
			Record:    rec.Fields,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *JobsHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "owner")
	if owner == "" {
		writeError(w, http.StatusBadRequest, "Owner is required")
		return
	}

	history, err := pipeline.History(r.Context(), h.jobs, owner)
	if err != nil {
		internalError(w, r, h.log, "failed to load history", err)
		return
	}

	writeJSON(w, http.StatusOK, history)
}

// StopJob moves a queued or processing job to stopped. A running job notices
// on its next tracker write.
func (h *JobsHandler) StopJob(w http.ResponseWriter, r *http.Request) {
	id, ok := jobID(w, r)
	if !ok {
		return
	}

	var job *domain.IngestionJob
	err := h.tx.WithTransaction(r.Context(), func(ctx context.Context) error {
		var err error
		if job, err = h.jobs.JobByID(ctx, id); err != nil {
			return err
		}

		status := domain.StatusStopped
		update := domain.JobUpdate{Status: &status}
		if err := h.jobs.UpdateJob(ctx, id, update); err != nil {
			return err
		}

		update.Apply(job)
		return nil
	})

	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "FileProcess not found")
		return
	case errors.Is(err, domain.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "Job is already finished")
		return
	case err != nil:
		internalError(w, r, h.log, "failed to stop job", err)
		return
	}

	h.log.InfoContext(r.Context(), "job stopped", slog.String("job_id", id), slog.String("owner", job.Owner))

	if history, err := pipeline.History(r.Context(), h.jobs, job.Owner); err == nil {
		h.broadcaster.Publish(r.Context(), job.Owner, domain.Event{Name: domain.EventHistory, Payload: history})
	}

	writeJSON(w, http.StatusOK, job)
}

func jobID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if err := uuid.Validate(id); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid ID format")
		return "", false
	}

	return id, true
}
